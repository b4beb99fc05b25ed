package suggest

import "github.com/youruser/vcardapp/internal/card"

// Apply merges a suggestion into the current document. Every top-level field
// comes from the suggestion (defaults included) except the image elements:
// an image the suggestion omits is kept as is, and an image it does describe
// adopts the suggested geometry and style while keeping the current asset.
func Apply(current card.Document, s Suggestion) card.Document {
	out := s.Document.Clone()

	merge := func(key string, dst *card.ImageElement, cur card.ImageElement) {
		if !s.Has(key) {
			*dst = cur
			return
		}
		dst.ImageRef = cur.ImageRef
	}
	merge(card.ElementProfileImage, &out.ProfileImage, current.ProfileImage)
	merge(card.ElementLogoImage, &out.LogoImage, current.LogoImage)
	return out
}
