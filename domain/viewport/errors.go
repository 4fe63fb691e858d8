package viewport

import "errors"

var (
	// ErrImageDecode reports an unreadable or corrupt image source.
	ErrImageDecode = errors.New("image decode failed")
	// ErrInvalidScale reports a zoom that would leave the scale non-positive or non-finite.
	ErrInvalidScale = errors.New("invalid scale")
	// ErrNoImage is returned by operations that need a loaded image.
	ErrNoImage = errors.New("no image loaded")
)
