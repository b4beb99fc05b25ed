package imagepkg

import (
	"context"
	"fmt"
	"image"

	"github.com/youruser/vcardapp/internal/util"
)

// DownloadImage downloads an image from url with f and decodes it. limit caps
// the body size in bytes and maxPixels the decoded area; zero means no cap.
// A nil f uses an unrestricted client.
func DownloadImage(ctx context.Context, f *util.Fetcher, url string, limit, maxPixels int64) (image.Image, error) {
	get := util.GetBytes
	if f != nil {
		get = f.GetBytes
	}
	body, err := get(ctx, url, limit)
	if err != nil {
		return nil, fmt.Errorf("download image: %w", err)
	}
	return DecodeImageLimited(body, maxPixels)
}
