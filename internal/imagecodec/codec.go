package imagecodec

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/frbox-labs/frbox/internal/domain"
)

// ImageBuffer is a decoded pixel grid (height x width x 3 channels, 8-bit RGB)
// tagged with the MIME type detected from the raw bytes. It is scoped to a
// single request and never persisted.
type ImageBuffer struct {
	Pixels []uint8
	Width  int
	Height int
	MIME   string
}

// magicPreviewLen caps how much untrusted binary content is echoed into
// diagnostics when format sniffing fails.
const magicPreviewLen = 16

type magicSignature struct {
	prefix []byte
	mime   string
}

// Leading magic-byte table. Declared format metadata is never trusted.
var magicTable = []magicSignature{
	{[]byte{0xFF, 0xD8, 0xFF}, "image/jpeg"},
	{[]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, "image/png"},
	{[]byte{0x47, 0x49, 0x46, 0x38}, "image/gif"},
	{[]byte{0x52, 0x49, 0x46, 0x46}, "image/webp"}, // RIFF container
}

// Decode turns a base64-encoded image (optionally data-URL-prefixed) into an
// ImageBuffer. Malformed transport encoding and corrupt pixel streams are
// client errors; unrecognized leading bytes are an unsupported format.
func Decode(raw string) (*ImageBuffer, error) {
	// Strip data URL prefix if present.
	if idx := strings.Index(raw, ","); idx >= 0 {
		raw = raw[idx+1:]
	}
	raw = strings.TrimSpace(raw)

	if raw == "" {
		return nil, domain.ErrInvalidInput.WithDetail("image_data is empty")
	}

	imageBytes, err := base64.StdEncoding.Strict().DecodeString(raw)
	if err != nil {
		return nil, domain.ErrInvalidInput.WithDetail("image_data is not valid base64").WithError(err)
	}

	mime, err := DetectFormat(imageBytes)
	if err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return nil, domain.ErrInvalidInput.WithDetail("image data is corrupt or truncated").WithError(err)
	}

	return FromImage(img, mime), nil
}

// DetectFormat matches the leading bytes against the supported magic table.
func DetectFormat(data []byte) (string, error) {
	for _, sig := range magicTable {
		if bytes.HasPrefix(data, sig.prefix) {
			return sig.mime, nil
		}
	}

	preview := data
	if len(preview) > magicPreviewLen {
		preview = preview[:magicPreviewLen]
	}
	return "", domain.ErrUnsupportedFormat.WithError(
		fmt.Errorf("unrecognized magic bytes: %s", hex.EncodeToString(preview)))
}

// Resize scales the image down so its width does not exceed maxWidth,
// preserving aspect ratio. Images already within the limit are returned
// unchanged, with no recompression.
func Resize(img *ImageBuffer, maxWidth int) *ImageBuffer {
	if img.Width <= maxWidth {
		return img
	}

	scale := float64(maxWidth) / float64(img.Width)
	newHeight := int(float64(img.Height) * scale)

	resized := imaging.Resize(img.ToNRGBA(), maxWidth, newHeight, imaging.Lanczos)

	out := FromImage(resized, img.MIME)
	return out
}

// FromImage flattens any image.Image into a row-major RGB buffer.
func FromImage(img image.Image, mime string) *ImageBuffer {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	buf := &ImageBuffer{
		Pixels: make([]uint8, 0, width*height*3),
		Width:  width,
		Height: height,
		MIME:   mime,
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			buf.Pixels = append(buf.Pixels, uint8(r>>8), uint8(g>>8), uint8(b>>8))
		}
	}

	return buf
}

// ToNRGBA rebuilds a drawable image from the pixel buffer.
func (b *ImageBuffer) ToNRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			i := (y*b.Width + x) * 3
			o := img.PixOffset(x, y)
			img.Pix[o] = b.Pixels[i]
			img.Pix[o+1] = b.Pixels[i+1]
			img.Pix[o+2] = b.Pixels[i+2]
			img.Pix[o+3] = 0xFF
		}
	}
	return img
}

// At returns the RGB triple at (x, y).
func (b *ImageBuffer) At(x, y int) (uint8, uint8, uint8) {
	i := (y*b.Width + x) * 3
	return b.Pixels[i], b.Pixels[i+1], b.Pixels[i+2]
}
