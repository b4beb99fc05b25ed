package imagepkg

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/youruser/vcardapp/internal/util"
)

// Loader resolves an image reference to decoded pixels.
type Loader interface {
	Load(ctx context.Context, ref string) (image.Image, error)
}

// ObjectOpener reads objects from the asset bucket.
type ObjectOpener interface {
	OpenObject(ctx context.Context, key string) (io.ReadCloser, error)
}

var (
	ErrUnsupportedRef = errors.New("unsupported image reference")
	ErrTooLarge       = errors.New("image too large")
)

// AssetScheme prefixes references to uploaded assets in object storage.
const AssetScheme = "asset:"

type ResolverOptions struct {
	// Objects serves asset: references. Nil disables them.
	Objects ObjectOpener
	// MaxBytes caps the encoded size of any single image. Zero means no cap.
	MaxBytes int64
	// MaxPixels caps width*height of any single image. Zero means no cap.
	MaxPixels int64
	// Fetcher downloads http(s) references. Nil uses an unrestricted client.
	Fetcher *util.Fetcher
	// DisableRemote rejects http(s) references.
	DisableRemote bool
	// AllowFiles enables plain filesystem paths and file:// URLs. Relative
	// paths are resolved under BaseDir.
	AllowFiles bool
	BaseDir    string
}

// Resolver is the default Loader. It dispatches on the reference form:
// http(s) URLs, data: URIs, asset:<key> objects and, when allowed, local files.
type Resolver struct {
	opts ResolverOptions
}

func NewResolver(opts ResolverOptions) *Resolver {
	return &Resolver{opts: opts}
}

func (r *Resolver) Load(ctx context.Context, ref string) (image.Image, error) {
	ref = strings.TrimSpace(ref)
	lower := strings.ToLower(ref)
	switch {
	case ref == "":
		return nil, fmt.Errorf("%w: empty", ErrUnsupportedRef)
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		if r.opts.DisableRemote {
			return nil, fmt.Errorf("%w: remote references disabled", ErrUnsupportedRef)
		}
		return DownloadImage(ctx, r.opts.Fetcher, ref, r.opts.MaxBytes, r.opts.MaxPixels)
	case strings.HasPrefix(lower, "data:"):
		b, err := decodeDataURI(ref)
		if err != nil {
			return nil, err
		}
		if err := r.checkSize(int64(len(b))); err != nil {
			return nil, err
		}
		return DecodeImageLimited(b, r.opts.MaxPixels)
	case strings.HasPrefix(lower, AssetScheme):
		return r.loadObject(ctx, strings.TrimPrefix(ref[len(AssetScheme):], "//"))
	case strings.HasPrefix(lower, "file://"):
		u, err := url.Parse(ref)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedRef, err)
		}
		return r.loadFile(u.Path)
	case !strings.Contains(ref, "://"):
		return r.loadFile(ref)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedRef, ref)
}

func (r *Resolver) checkSize(n int64) error {
	if r.opts.MaxBytes > 0 && n > r.opts.MaxBytes {
		return fmt.Errorf("%w: %d bytes", ErrTooLarge, n)
	}
	return nil
}

func (r *Resolver) readLimited(rd io.Reader) ([]byte, error) {
	if r.opts.MaxBytes > 0 {
		rd = io.LimitReader(rd, r.opts.MaxBytes+1)
	}
	b, err := io.ReadAll(rd)
	if err != nil {
		return nil, err
	}
	if err := r.checkSize(int64(len(b))); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *Resolver) loadObject(ctx context.Context, key string) (image.Image, error) {
	if r.opts.Objects == nil {
		return nil, fmt.Errorf("%w: object storage disabled", ErrUnsupportedRef)
	}
	if key == "" {
		return nil, fmt.Errorf("%w: empty asset key", ErrUnsupportedRef)
	}
	rc, err := r.opts.Objects.OpenObject(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	b, err := r.readLimited(rc)
	if err != nil {
		return nil, fmt.Errorf("read asset %q: %w", key, err)
	}
	return DecodeImageLimited(b, r.opts.MaxPixels)
}

func (r *Resolver) loadFile(path string) (image.Image, error) {
	if !r.opts.AllowFiles {
		return nil, fmt.Errorf("%w: file references disabled", ErrUnsupportedRef)
	}
	if !filepath.IsAbs(path) && r.opts.BaseDir != "" {
		path = filepath.Join(r.opts.BaseDir, path)
	}
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	b, err := r.readLimited(fp)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return DecodeImageLimited(b, r.opts.MaxPixels)
}

// decodeDataURI handles data:[<mime>][;base64],<payload>.
func decodeDataURI(ref string) ([]byte, error) {
	comma := strings.IndexByte(ref, ',')
	if comma < 0 {
		return nil, fmt.Errorf("%w: malformed data uri", ErrUnsupportedRef)
	}
	meta, payload := ref[len("data:"):comma], ref[comma+1:]
	if strings.HasSuffix(strings.ToLower(meta), ";base64") {
		b, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			// some encoders drop padding
			b, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedRef, err)
		}
		return b, nil
	}
	s, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedRef, err)
	}
	return []byte(s), nil
}
