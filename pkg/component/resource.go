package component

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"mime"
	"path"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Resource is something the client loads by URI, such as an icon.
type Resource interface {
	URI() string
	MIMEType() string
}

// ExternalResource points at an absolute URL.
type ExternalResource struct {
	URL  string
	Type string
}

func (r ExternalResource) URI() string { return r.URL }

func (r ExternalResource) MIMEType() string {
	if r.Type != "" {
		return r.Type
	}
	return mime.TypeByExtension(path.Ext(r.URL))
}

// ThemeResource is a file of the client theme.
type ThemeResource struct {
	Path string
}

func (r ThemeResource) URI() string { return "theme://" + r.Path }

func (r ThemeResource) MIMEType() string {
	return mime.TypeByExtension(path.Ext(r.Path))
}

// ImageResource is an image served by the application itself.
type ImageResource struct {
	name     string
	data     []byte
	mimeType string
	width    int
	height   int
}

// NewImageResource decodes the header of data to learn the format and
// dimensions. PNG, JPEG, GIF, BMP and WebP are accepted.
func NewImageResource(name string, data []byte) (*ImageResource, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("image resource %s: %w", name, err)
	}
	return &ImageResource{
		name:     name,
		data:     data,
		mimeType: "image/" + format,
		width:    cfg.Width,
		height:   cfg.Height,
	}, nil
}

func (r *ImageResource) URI() string { return "app://" + r.name }

func (r *ImageResource) MIMEType() string { return r.mimeType }

// Name returns the file name the resource is served under.
func (r *ImageResource) Name() string { return r.name }

// Bounds returns the image dimensions in pixels.
func (r *ImageResource) Bounds() (width, height int) {
	return r.width, r.height
}

// Data returns the encoded image.
func (r *ImageResource) Data() []byte { return r.data }
