package card

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Element names used to address parts of a Document.
const (
	FieldName    = "name"
	FieldTitle   = "title"
	FieldCompany = "company"
	FieldEmail   = "email"
	FieldPhone   = "phone"
	FieldWebsite = "website"

	ElementProfileImage = "profileImage"
	ElementLogoImage    = "logoImage"
	ElementDesignStyle  = "designStyle"

	servicesPrefix = "services."
)

var ErrUnknownElement = errors.New("unknown element")

type ElementKind int

const (
	KindText ElementKind = iota
	KindService
	KindImage
	KindDesign
)

// Element is a parsed element address such as "title", "services.2" or
// "logoImage".
type Element struct {
	Kind  ElementKind
	Name  string
	Index int
}

func (e Element) String() string {
	if e.Kind == KindService {
		return servicesPrefix + strconv.Itoa(e.Index)
	}
	return e.Name
}

// ServiceElement addresses the i-th service entry.
func ServiceElement(i int) string { return servicesPrefix + strconv.Itoa(i) }

func ParseElement(s string) (Element, error) {
	switch s {
	case FieldName, FieldTitle, FieldCompany, FieldEmail, FieldPhone, FieldWebsite:
		return Element{Kind: KindText, Name: s}, nil
	case ElementProfileImage, ElementLogoImage:
		return Element{Kind: KindImage, Name: s}, nil
	case ElementDesignStyle:
		return Element{Kind: KindDesign, Name: s}, nil
	}
	if rest, ok := strings.CutPrefix(s, servicesPrefix); ok {
		i, err := strconv.Atoi(rest)
		if err != nil || i < 0 {
			return Element{}, fmt.Errorf("%w: %q", ErrUnknownElement, s)
		}
		return Element{Kind: KindService, Name: "services", Index: i}, nil
	}
	return Element{}, fmt.Errorf("%w: %q", ErrUnknownElement, s)
}
