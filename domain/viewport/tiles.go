package viewport

import (
	"image"
	"math"
	"sync/atomic"

	"github.com/disintegration/imaging"
	lru "github.com/hashicorp/golang-lru/v2"
)

// FilterByName maps a config filter name to an imaging resample filter.
// Unknown names fall back to linear.
func FilterByName(name string) imaging.ResampleFilter {
	switch name {
	case "nearest":
		return imaging.NearestNeighbor
	case "lanczos":
		return imaging.Lanczos
	default:
		return imaging.Linear
	}
}

type tileKey struct {
	scale uint64 // math.Float64bits of the scale the tile was produced at
	src   image.Rectangle
	w, h  int
}

// TileStats summarises tile cache behaviour.
type TileStats struct {
	Hits   uint64
	Misses uint64
	Len    int
}

// tileCache memoizes resampled sub-regions of the active image. Entries are
// keyed by geometry only, so the cache must be purged whenever the image
// changes.
type tileCache struct {
	cache  *lru.Cache[tileKey, *image.NRGBA]
	filter imaging.ResampleFilter
	hits   atomic.Uint64
	misses atomic.Uint64
}

func newTileCache(size int, filter imaging.ResampleFilter) *tileCache {
	if size < 1 {
		size = 1
	}
	c, err := lru.New[tileKey, *image.NRGBA](size)
	if err != nil {
		// lru.New only fails for non-positive sizes.
		panic(err)
	}
	return &tileCache{cache: c, filter: filter}
}

func newTileKey(scale float64, src image.Rectangle, w, h int) tileKey {
	return tileKey{scale: math.Float64bits(scale), src: src, w: w, h: h}
}

// tile returns the src sub-rectangle of img (0-based image coordinates)
// resampled to key.w x key.h.
func (c *tileCache) tile(img image.Image, key tileKey) *image.NRGBA {
	if t, ok := c.cache.Get(key); ok {
		c.hits.Add(1)
		return t
	}
	c.misses.Add(1)
	crop := imaging.Crop(img, key.src.Add(img.Bounds().Min))
	var out *image.NRGBA
	if crop.Bounds().Dx() == key.w && crop.Bounds().Dy() == key.h {
		out = crop
	} else {
		out = imaging.Resize(crop, key.w, key.h, c.filter)
	}
	c.cache.Add(key, out)
	return out
}

func (c *tileCache) purge() { c.cache.Purge() }

func (c *tileCache) stats() TileStats {
	return TileStats{Hits: c.hits.Load(), Misses: c.misses.Load(), Len: c.cache.Len()}
}
