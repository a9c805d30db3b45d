package tmx

import (
	"errors"
	"iter"
	"math"
	"slices"
)

var ErrInvalidRegion = errors.New("invalid region: min > max")

// TileData is one placed tile found by a region query.
type TileData struct {
	X, Y     int32    // Pixel position of the tile's top-left corner
	TileID   uint32   // Tileset-local tile id
	TsIdx    int      // Index into Map.Tilesets
	FlipFlag FlipFlag // Flip flags
}

// Region is a half-open rectangle in tile coordinates.
type Region struct {
	MinX, MinY int32
	MaxX, MaxY int32
}

func (r Region) Width() int32  { return r.MaxX - r.MinX }
func (r Region) Height() int32 { return r.MaxY - r.MinY }

// Overlaps reports whether r and other share at least one tile.
func (r Region) Overlaps(other Region) bool {
	return r.MinX < other.MaxX && r.MaxX > other.MinX &&
		r.MinY < other.MaxY && r.MaxY > other.MinY
}

// clamp limits r to the tile grid 0,0 to w,h.
func (r Region) clamp(w, h int32) Region {
	return Region{
		MinX: max(r.MinX, 0),
		MinY: max(r.MinY, 0),
		MaxX: min(r.MaxX, w),
		MaxY: min(r.MaxY, h),
	}
}

// TileIterator walks the result of a region query one layer at a time.
// Hidden layers yield an empty slice.
type TileIterator struct {
	tiles []TileData
	ends  []int // ends[i] is the end offset of layer i in tiles
	layer int
}

// Next returns the tiles of the next layer, or nil when exhausted.
func (ti *TileIterator) Next() []TileData {
	if !ti.HasNext() {
		return nil
	}
	tiles := ti.at(ti.layer)
	ti.layer++
	return tiles
}

func (ti *TileIterator) HasNext() bool {
	return ti.layer < len(ti.ends)
}

// Index is the index of the layer the next call to Next returns.
func (ti *TileIterator) Index() int {
	return ti.layer
}

func (ti *TileIterator) Reset() {
	ti.layer = 0
}

// All yields every layer index with its tiles, independent of Next.
func (ti *TileIterator) All() iter.Seq2[int, []TileData] {
	return func(yield func(int, []TileData) bool) {
		for i := range ti.ends {
			if !yield(i, ti.at(i)) {
				return
			}
		}
	}
}

func (ti *TileIterator) at(layer int) []TileData {
	start := 0
	if layer > 0 {
		start = ti.ends[layer-1]
	}
	return ti.tiles[start:ti.ends[layer]]
}

// TilesInRegion collects the non-empty tiles of every layer that fall inside
// the pixel rectangle minX, minY to maxX, maxY. Tiles whose GID belongs to no
// tileset are left out.
func (m *Map) TilesInRegion(minX, minY, maxX, maxY float32) (TileIterator, error) {
	if minX > maxX || minY > maxY {
		return TileIterator{}, ErrInvalidRegion
	}

	it := TileIterator{ends: make([]int, 0, len(m.Layers))}
	if m.TileWidth <= 0 || m.TileHeight <= 0 {
		it.ends = it.ends[:len(m.Layers)]
		return it, nil
	}

	region := Region{
		MinX: int32(math.Floor(float64(minX) / float64(m.TileWidth))),
		MinY: int32(math.Floor(float64(minY) / float64(m.TileHeight))),
		MaxX: int32(math.Ceil(float64(maxX) / float64(m.TileWidth))),
		MaxY: int32(math.Ceil(float64(maxY) / float64(m.TileHeight))),
	}

	for i := range m.Layers {
		layer := &m.Layers[i]
		if layer.Visible && region.Overlaps(Region{MaxX: layer.Width, MaxY: layer.Height}) {
			r := region.clamp(layer.Width, layer.Height)
			it.tiles = slices.Grow(it.tiles, int(r.Width())*int(r.Height()))

			for y := r.MinY; y < r.MaxY; y++ {
				for x := r.MinX; x < r.MaxX; x++ {
					if tile, ok := m.tileAt(layer, x, y); ok {
						it.tiles = append(it.tiles, tile)
					}
				}
			}
		}
		it.ends = append(it.ends, len(it.tiles))
	}

	return it, nil
}

func (m *Map) tileAt(layer *Layer, x, y int32) (TileData, bool) {
	gid, ok := layer.GIDAt(x, y)
	if !ok || gid&GIDMask == 0 {
		return TileData{}, false
	}

	_, flags := DecodeGID(gid)
	_, tileID, tsIdx := m.TilesetForGID(gid)
	if tsIdx == -1 {
		return TileData{}, false
	}

	return TileData{
		X:        x * m.TileWidth,
		Y:        y * m.TileHeight,
		TileID:   tileID,
		TsIdx:    tsIdx,
		FlipFlag: flags,
	}, true
}
