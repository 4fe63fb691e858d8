package images

import (
	"bytes"
	"image"
	"image/png"
)

// Frames are re-encoded on every viewport update, so favour speed over size.
var pngEncoder = png.Encoder{CompressionLevel: png.BestSpeed}

// EncodePNG encodes an image to PNG bytes. Errors are ignored and may return an empty slice.
func EncodePNG(img image.Image) []byte {
	if img == nil {
		return nil
	}
	var buf bytes.Buffer
	_ = pngEncoder.Encode(&buf, img)
	return buf.Bytes()
}
