package viewport

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/disintegration/imaging"

	// Formats beyond the stdlib set (jpeg, png, gif are registered by imaging).
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decode reads an image from r, applying EXIF orientation when present.
// Failures are wrapped with ErrImageDecode.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}
	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: empty image %dx%d", ErrImageDecode, b.Dx(), b.Dy())
	}
	return img, nil
}

// DecodeBytes decodes an in-memory encoded image.
func DecodeBytes(data []byte) (image.Image, error) {
	return Decode(bytes.NewReader(data))
}

// DecodeFile opens and decodes the image at path. The returned size is the
// encoded file size in bytes.
func DecodeFile(path string) (image.Image, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}
	defer f.Close()
	var size int64
	if st, err := f.Stat(); err == nil {
		size = st.Size()
	}
	img, err := Decode(f)
	if err != nil {
		return nil, size, err
	}
	return img, size, nil
}
