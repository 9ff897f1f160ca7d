package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	DefaultAvatarSize  = 256
	DefaultMaxPixels   = 40_000_000
	defaultJPEGQuality = 88
)

// ErrTooManyPixels is returned when the decoded image would exceed the
// processor's pixel budget.
var ErrTooManyPixels = errors.New("media: image dimensions exceed limit")

type Upload struct {
	Reader      io.Reader
	Size        int64
	FileName    string
	ContentType string
}

// Crop is a rectangle in source-image pixels.
type Crop struct {
	X      int
	Y      int
	Width  int
	Height int
}

type Result struct {
	Bytes       []byte
	ContentType string
	Resized     bool
}

type Processor interface {
	Process(ctx context.Context, upload Upload, crop *Crop, size int) (*Result, error)
}

// AvatarProcessor crops an upload to a square and scales it to size x size.
// PNG input stays PNG; everything else is re-encoded as JPEG.
type AvatarProcessor struct {
	size        int
	maxPixels   int64
	jpegQuality int
}

var _ Processor = (*AvatarProcessor)(nil)

type ProcessorOption func(*AvatarProcessor)

// WithMaxPixels caps width*height of accepted images. Non-positive values
// keep DefaultMaxPixels.
func WithMaxPixels(n int64) ProcessorOption {
	return func(p *AvatarProcessor) {
		if n > 0 {
			p.maxPixels = n
		}
	}
}

func NewAvatarProcessor(size int, opts ...ProcessorOption) *AvatarProcessor {
	if size <= 0 {
		size = DefaultAvatarSize
	}
	p := &AvatarProcessor{size: size, maxPixels: DefaultMaxPixels, jpegQuality: defaultJPEGQuality}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *AvatarProcessor) Process(ctx context.Context, upload Upload, crop *Crop, size int) (*Result, error) {
	if upload.Reader == nil {
		return nil, fmt.Errorf("media: empty reader")
	}
	data, err := io.ReadAll(upload.Reader)
	if err != nil {
		return nil, fmt.Errorf("media: read image: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("media: empty image data")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("media: decode image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > p.maxPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooManyPixels, cfg.Width, cfg.Height)
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("media: decode image: %w", err)
	}

	target := size
	if target <= 0 {
		target = p.size
	}
	region := cropRect(src.Bounds(), crop)

	dst := image.NewRGBA(image.Rect(0, 0, target, target))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, region, draw.Src, nil)

	var out bytes.Buffer
	contentType := "image/jpeg"
	if format == "png" {
		contentType = "image/png"
		err = png.Encode(&out, dst)
	} else {
		err = jpeg.Encode(&out, dst, &jpeg.Options{Quality: p.jpegQuality})
	}
	if err != nil {
		return nil, fmt.Errorf("media: encode %s: %w", contentType, err)
	}

	return &Result{
		Bytes:       out.Bytes(),
		ContentType: contentType,
		Resized:     region.Dx() != target || region.Dy() != target,
	}, nil
}

// cropRect clamps crop to bounds. A missing or empty crop selects the
// centered square.
func cropRect(bounds image.Rectangle, crop *Crop) image.Rectangle {
	if crop != nil && crop.Width > 0 && crop.Height > 0 {
		r := image.Rect(crop.X, crop.Y, crop.X+crop.Width, crop.Y+crop.Height).Add(bounds.Min)
		r = r.Intersect(bounds)
		if !r.Empty() {
			return r
		}
	}
	side := minInt(bounds.Dx(), bounds.Dy())
	x := bounds.Min.X + (bounds.Dx()-side)/2
	y := bounds.Min.Y + (bounds.Dy()-side)/2
	return image.Rect(x, y, x+side, y+side)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// NormalizeContentType lower-cases value or infers a type from fileName.
func NormalizeContentType(value, fileName string) string {
	ct := strings.ToLower(strings.TrimSpace(value))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct != "" && ct != "application/octet-stream" {
		if ct == "image/jpg" {
			return "image/jpeg"
		}
		return ct
	}
	ext := strings.ToLower(strings.TrimSpace(filepath.Ext(fileName)))
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	}
	if ext != "" {
		if mt := mime.TypeByExtension(ext); mt != "" {
			return strings.ToLower(mt)
		}
	}
	return "application/octet-stream"
}

// ExtensionFor returns the file extension matching an output content type.
func ExtensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	default:
		return ".jpg"
	}
}
