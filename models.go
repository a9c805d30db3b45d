package tmx

// ======================================================
// Map
// ======================================================

// Map is the document model produced by a parse.
//
// Width and Height are in tiles, TileWidth and TileHeight in pixels.
// TileProperties holds the per-tile metadata declared by tilesets, keyed by
// absolute GID.
type Map struct {
	Version     string      `json:"version" yaml:"version"`
	Orientation Orientation `json:"orientation" yaml:"orientation"`
	RenderOrder RenderOrder `json:"renderorder" yaml:"renderorder"`

	Width      int32 `json:"width" yaml:"width"`
	Height     int32 `json:"height" yaml:"height"`
	TileWidth  int32 `json:"tilewidth" yaml:"tilewidth"`
	TileHeight int32 `json:"tileheight" yaml:"tileheight"`

	Tilesets     []Tileset     `json:"tilesets,omitempty" yaml:"tilesets,omitempty"`
	Layers       []Layer       `json:"layers,omitempty" yaml:"layers,omitempty"`
	ObjectGroups []ObjectGroup `json:"objectgroups,omitempty" yaml:"objectgroups,omitempty"`

	Properties     Properties            `json:"properties,omitempty" yaml:"properties,omitempty"`
	TileProperties map[uint32]Properties `json:"tileproperties,omitempty" yaml:"tileproperties,omitempty"`

	Filename     string `json:"filename,omitempty" yaml:"filename,omitempty"`
	ResourcePath string `json:"resourcepath,omitempty" yaml:"resourcepath,omitempty"`
}

func newMap() *Map {
	return &Map{
		Tilesets:       make([]Tileset, 0, 2),
		Layers:         make([]Layer, 0, 4),
		ObjectGroups:   make([]ObjectGroup, 0, 4),
		Properties:     make(Properties),
		TileProperties: make(map[uint32]Properties),
	}
}

// PixelHeight is the map height in pixels.
func (m *Map) PixelHeight() int {
	return int(m.Height) * int(m.TileHeight)
}

func (m *Map) LayerByName(name string) *Layer {
	for i := range m.Layers {
		if m.Layers[i].Name == name {
			return &m.Layers[i]
		}
	}
	return nil
}

func (m *Map) ObjectGroupByName(name string) *ObjectGroup {
	for i := range m.ObjectGroups {
		if m.ObjectGroups[i].Name == name {
			return &m.ObjectGroups[i]
		}
	}
	return nil
}

// TilesetForGID returns the tileset owning gid, the tileset-local tile id and
// the tileset index, or nil, 0, -1. Flip bits are ignored.
func (m *Map) TilesetForGID(gid uint32) (*Tileset, uint32, int) {
	gid &= GIDMask
	if gid == 0 {
		return nil, 0, -1
	}

	idx := -1
	for i := range m.Tilesets {
		if gid >= m.Tilesets[i].FirstGID && (idx == -1 || m.Tilesets[i].FirstGID > m.Tilesets[idx].FirstGID) {
			idx = i
		}
	}
	if idx == -1 {
		return nil, 0, -1
	}
	return &m.Tilesets[idx], gid - m.Tilesets[idx].FirstGID, idx
}

// PropertiesForGID returns the tile metadata registered for gid, if any.
func (m *Map) PropertiesForGID(gid uint32) (Properties, bool) {
	props, ok := m.TileProperties[gid&GIDMask]
	return props, ok
}

func (m *Map) lastTileset() *Tileset {
	if len(m.Tilesets) == 0 {
		return nil
	}
	return &m.Tilesets[len(m.Tilesets)-1]
}

func (m *Map) lastLayer() *Layer {
	if len(m.Layers) == 0 {
		return nil
	}
	return &m.Layers[len(m.Layers)-1]
}

func (m *Map) lastObjectGroup() *ObjectGroup {
	if len(m.ObjectGroups) == 0 {
		return nil
	}
	return &m.ObjectGroups[len(m.ObjectGroups)-1]
}

func (m *Map) lastObject() *Object {
	og := m.lastObjectGroup()
	if og == nil || len(og.Objects) == 0 {
		return nil
	}
	return &og.Objects[len(og.Objects)-1]
}

// ======================================================
// Tileset
// ======================================================

type Tileset struct {
	Name     string `json:"name" yaml:"name"`
	FirstGID uint32 `json:"firstgid" yaml:"firstgid"`

	TileWidth  int32 `json:"tilewidth" yaml:"tilewidth"`
	TileHeight int32 `json:"tileheight" yaml:"tileheight"`
	Spacing    int32 `json:"spacing" yaml:"spacing"`
	Margin     int32 `json:"margin" yaml:"margin"`

	Image Image `json:"image" yaml:"image"`
}

// Columns is the number of tiles per image row, never less than 1.
func (ts *Tileset) Columns() int32 {
	step := ts.TileWidth + ts.Spacing
	if step <= 0 {
		return 1
	}
	cols := (ts.Image.Width - ts.Margin*2 + ts.Spacing) / step
	if cols < 1 {
		return 1
	}
	return cols
}

// RectForGID returns the source rectangle of gid within the tileset image.
// Flip bits are masked off; gid is expected to belong to this tileset.
func (ts *Tileset) RectForGID(gid uint32) Rect {
	id := int64(gid&GIDMask) - int64(ts.FirstGID)
	cols := int64(ts.Columns())

	return Rect{
		X:      int32(id%cols)*(ts.TileWidth+ts.Spacing) + ts.Margin,
		Y:      int32(id/cols)*(ts.TileHeight+ts.Spacing) + ts.Margin,
		Width:  ts.TileWidth,
		Height: ts.TileHeight,
	}
}

// ======================================================
// Image
// ======================================================

type Image struct {
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
	Width  int32  `json:"width,omitempty" yaml:"width,omitempty"`
	Height int32  `json:"height,omitempty" yaml:"height,omitempty"`
}

// ======================================================
// Rect / Offset
// ======================================================

type Rect struct {
	X, Y          int32
	Width, Height int32
}

type Offset struct {
	X float32 `json:"x" yaml:"x"`
	Y float32 `json:"y" yaml:"y"`
}

// ======================================================
// Layer
// ======================================================

// Layer is one grid of GIDs, row-major from the top-left tile.
type Layer struct {
	Name    string `json:"name" yaml:"name"`
	Width   int32  `json:"width" yaml:"width"`
	Height  int32  `json:"height" yaml:"height"`
	Visible bool   `json:"visible" yaml:"visible"`
	Opacity uint8  `json:"opacity" yaml:"opacity"`
	Offset  Offset `json:"offset" yaml:"offset"`

	Properties Properties `json:"properties,omitempty" yaml:"properties,omitempty"`

	Tiles []uint32 `json:"tiles,omitempty" yaml:"tiles,omitempty,flow"`
}

func (l *Layer) TileCount() int {
	return int(l.Width) * int(l.Height)
}

// GIDAt returns the raw GID at tile coordinate x, y.
func (l *Layer) GIDAt(x, y int32) (uint32, bool) {
	if x < 0 || x >= l.Width || y < 0 || y >= l.Height {
		return 0, false
	}
	i := int(y)*int(l.Width) + int(x)
	if i >= len(l.Tiles) {
		return 0, false
	}
	return l.Tiles[i], true
}

// ======================================================
// ObjectGroup
// ======================================================

type ObjectGroup struct {
	Name string `json:"name" yaml:"name"`

	// Offset is in pixels.
	Offset Offset `json:"offset" yaml:"offset"`

	Properties Properties `json:"properties,omitempty" yaml:"properties,omitempty"`
	Objects    []Object   `json:"objects,omitempty" yaml:"objects,omitempty"`
}

func (og *ObjectGroup) ObjectByName(name string) *Object {
	for i := range og.Objects {
		if og.Objects[i].Name() == name {
			return &og.Objects[i]
		}
	}
	return nil
}

// ======================================================
// Object
// ======================================================

// Object keys always present after a parse.
const (
	ObjectKeyName           = "name"
	ObjectKeyType           = "type"
	ObjectKeyWidth          = "width"
	ObjectKeyHeight         = "height"
	ObjectKeyGID            = "gid"
	ObjectKeyX              = "x"
	ObjectKeyY              = "y"
	ObjectKeyPoints         = "points"
	ObjectKeyPolylinePoints = "polylinePoints"
)

// Object is a placed shape described entirely by its property bag.
// X and Y are absolute pixels with the Y axis pointing up.
type Object struct {
	Properties Properties `json:"properties" yaml:"properties"`
}

func (o *Object) Name() string { return o.Properties.GetString(ObjectKeyName) }
func (o *Object) Type() string { return o.Properties.GetString(ObjectKeyType) }
func (o *Object) X() int       { return int(o.Properties.GetInt(ObjectKeyX)) }
func (o *Object) Y() int       { return int(o.Properties.GetInt(ObjectKeyY)) }

func (o *Object) Points() []Point {
	return o.Properties[ObjectKeyPoints].AsPoints()
}

func (o *Object) PolylinePoints() []Point {
	return o.Properties[ObjectKeyPolylinePoints].AsPoints()
}
