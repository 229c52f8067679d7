package server

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"
)

// previewMaxDim bounds the longer edge of the X-ray preview thumbnail.
const previewMaxDim = 512

func decodeImage(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return img, format, nil
}

// previewDataURL downscales the X-ray and returns it as a WebP data
// URL, small enough to inline in the upload response.
func previewDataURL(img image.Image) (string, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w > previewMaxDim || h > previewMaxDim {
		scale := float64(previewMaxDim) / float64(max(w, h))
		dw := int(float64(w) * scale)
		dh := int(float64(h) * scale)

		dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := nativewebp.Encode(&buf, img, nil); err != nil {
		return "", fmt.Errorf("encode preview: %w", err)
	}
	return "data:image/webp;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
