package tmx

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/adm87/enum"
	"go.uber.org/zap"
)

const supportedVersion = "1.0"

// attributes reads element attributes; a missing attribute reads as its
// zero value.
type attributes []xml.Attr

func (a attributes) get(name string) (string, bool) {
	for i := range a {
		if a[i].Name.Local == name {
			return a[i].Value, true
		}
	}
	return "", false
}

func (a attributes) str(name string) string {
	v, _ := a.get(name)
	return v
}

func (a attributes) asInt(name string) int64 {
	return parseInt(a.str(name))
}

func (a attributes) asInt32(name string) int32 {
	return int32(a.asInt(name))
}

func (a attributes) asFloat(name string) float32 {
	f, err := strconv.ParseFloat(a.str(name), 32)
	if err != nil {
		return 0
	}
	return float32(f)
}

// ======================================================
// map
// ======================================================

func (p *parser) startMap(attrs attributes) {
	m := p.m

	m.Version = attrs.str("version")
	if m.Version != supportedVersion {
		p.log.Warn("Unsupported TMX version", zap.String("version", m.Version))
	}

	orientation, err := enum.UnmarshalEnum[Orientation](attrs.str("orientation"))
	if err != nil {
		p.log.Warn("Unsupported orientation, ignoring",
			zap.String("orientation", attrs.str("orientation")), zap.Stringer("current", m.Orientation))
	} else {
		m.Orientation = orientation
	}

	if v, ok := attrs.get("renderorder"); ok {
		renderOrder, err := enum.UnmarshalEnum[RenderOrder](v)
		if err != nil {
			p.log.Warn("Unsupported render order, ignoring", zap.String("renderorder", v))
		} else {
			m.RenderOrder = renderOrder
		}
	}

	m.Width = attrs.asInt32("width")
	m.Height = attrs.asInt32("height")
	m.TileWidth = attrs.asInt32("tilewidth")
	m.TileHeight = attrs.asInt32("tileheight")

	p.ctx.parent = ParentMap
}

// ======================================================
// tileset
// ======================================================

func (p *parser) startTileset(doc *document, attrs attributes) error {
	if source := attrs.str("source"); source != "" {
		return p.parseExternalTileset(p.resolve(doc, source), uint32(attrs.asInt("firstgid")))
	}

	ts := Tileset{
		Name:       attrs.str("name"),
		FirstGID:   uint32(attrs.asInt("firstgid")),
		Spacing:    attrs.asInt32("spacing"),
		Margin:     attrs.asInt32("margin"),
		TileWidth:  attrs.asInt32("tilewidth"),
		TileHeight: attrs.asInt32("tileheight"),
	}
	if doc.firstGID != 0 {
		ts.FirstGID = doc.firstGID
		doc.firstGID = 0
	}

	p.m.Tilesets = append(p.m.Tilesets, ts)
	return nil
}

// parseExternalTileset parses a .tsx file into the same map. The parse
// context of the referencing document is restored afterwards.
func (p *parser) parseExternalTileset(filename string, firstGID uint32) error {
	saved := p.ctx
	defer func() { p.ctx = saved }()

	if err := p.parseFile(filename, firstGID); err != nil {
		return fmt.Errorf("external tileset %s: %w", filename, err)
	}
	return nil
}

// ======================================================
// tile
// ======================================================

func (p *parser) startTile(attrs attributes) {
	if p.ctx.parent == ParentLayer {
		p.placeLayerTile(attrs)
		return
	}

	ts := p.m.lastTileset()
	if ts == nil {
		p.log.Warn("Tile outside of a tileset, ignoring", zap.String("id", attrs.str("id")))
		return
	}

	gid := ts.FirstGID + uint32(attrs.asInt("id"))
	p.m.TileProperties[gid] = make(Properties)

	if p.ctx.parent != ParentTile {
		p.ctx.tileParent = p.ctx.parent
	}
	p.ctx.parentGID = gid
	p.ctx.parent = ParentTile
}

func (p *parser) placeLayerTile(attrs attributes) {
	layer := p.m.lastLayer()
	if layer == nil || !p.data.open || p.data.encoding != EncodingNone {
		return
	}
	placeTile(layer.Tiles, uint32(attrs.asInt("gid")))
}

// ======================================================
// layer
// ======================================================

func (p *parser) startLayer(attrs attributes) {
	layer := Layer{
		Name:       attrs.str("name"),
		Width:      attrs.asInt32("width"),
		Height:     attrs.asInt32("height"),
		Visible:    attrs.str("visible") != "0",
		Opacity:    255,
		Offset:     Offset{X: attrs.asFloat("x"), Y: attrs.asFloat("y")},
		Properties: make(Properties),
	}

	if v, ok := attrs.get("opacity"); ok {
		opacity, err := strconv.ParseFloat(v, 32)
		if err != nil {
			p.log.Warn("Invalid layer opacity, using opaque", zap.String("layer", layer.Name), zap.String("opacity", v))
		} else {
			layer.Opacity = uint8(255 * min(max(opacity, 0), 1))
		}
	}

	p.m.Layers = append(p.m.Layers, layer)
	p.ctx.parent = ParentLayer
}

// ======================================================
// objectgroup
// ======================================================

func (p *parser) startObjectGroup(attrs attributes) {
	// Collision shapes declared on a tileset tile are not map objects.
	if p.ctx.parent == ParentTile {
		p.log.Debug("Skipping tile object group", zap.Uint32("gid", p.ctx.parentGID))
		p.skip = 1
		return
	}

	og := ObjectGroup{
		Name: attrs.str("name"),
		Offset: Offset{
			X: attrs.asFloat("x") * float32(p.m.TileWidth),
			Y: attrs.asFloat("y") * float32(p.m.TileHeight),
		},
		Properties: make(Properties),
		Objects:    make([]Object, 0, 8),
	}

	p.m.ObjectGroups = append(p.m.ObjectGroups, og)
	p.ctx.parent = ParentObjectGroup
}

// ======================================================
// image
// ======================================================

func (p *parser) startImage(doc *document, attrs attributes) {
	ts := p.m.lastTileset()
	if ts == nil {
		p.log.Warn("Image outside of a tileset, ignoring", zap.String("source", attrs.str("source")))
		return
	}

	ts.Image = Image{
		Source: p.resolve(doc, attrs.str("source")),
		Width:  attrs.asInt32("width"),
		Height: attrs.asInt32("height"),
	}
}

// ======================================================
// data
// ======================================================

func (p *parser) startData(attrs attributes) error {
	layer := p.m.lastLayer()
	if layer == nil || p.ctx.parent != ParentLayer {
		p.log.Warn("Data outside of a layer, ignoring")
		return nil
	}

	p.data = dataState{open: true}

	if v := attrs.str("compression"); v != "" {
		compression, err := enum.UnmarshalEnum[Compression](v)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrUnsupportedCompression, v)
		}
		p.data.compression = compression
	}

	if v := attrs.str("encoding"); v != "" {
		encoding, err := enum.UnmarshalEnum[Encoding](v)
		if err != nil {
			p.log.Warn("Unsupported layer encoding, ignoring data", zap.String("layer", layer.Name), zap.String("encoding", v))
			p.data.open = false
			return nil
		}
		p.data.encoding = encoding
	}

	switch p.data.encoding {
	case EncodingNone:
		layer.Tiles = newTileSlots(layer.TileCount())
	default:
		p.storing = true
		p.text.Reset()
	}
	return nil
}

func (p *parser) endData() error {
	if !p.data.open {
		return nil
	}
	p.data.open = false

	layer := p.m.lastLayer()

	if p.data.encoding == EncodingNone {
		finishTileSlots(layer.Tiles)
		return nil
	}

	p.storing = false
	payload := p.text.String()
	p.text.Reset()

	tiles, err := DecodeTiles(payload, p.data.encoding, p.data.compression, layer.TileCount())
	if err != nil {
		return fmt.Errorf("layer %q: %w", layer.Name, err)
	}
	layer.Tiles = tiles
	return nil
}

// startChunk drops the enclosing data element. Infinite maps are not
// supported, so the layer is left empty.
func (p *parser) startChunk() {
	if !p.data.open {
		return
	}
	layer := p.m.lastLayer()
	p.log.Warn("Infinite map chunks are not supported, ignoring layer data", zap.String("layer", layer.Name))

	p.data.open = false
	p.storing = false
	p.text.Reset()
	layer.Tiles = nil
}

// ======================================================
// object
// ======================================================

var objectCopiedKeys = [...]string{ObjectKeyName, ObjectKeyType, ObjectKeyWidth, ObjectKeyHeight, ObjectKeyGID}

func (p *parser) startObject(attrs attributes) {
	og := p.m.lastObjectGroup()
	if og == nil {
		p.log.Warn("Object outside of an object group, ignoring", zap.String("name", attrs.str("name")))
		return
	}

	props := make(Properties, len(objectCopiedKeys)+2)
	for _, key := range objectCopiedKeys {
		props[key] = StringValue(attrs.str(key))
	}

	x := int(attrs.asInt("x")) + int(og.Offset.X)
	y := int(attrs.asInt("y")) + int(og.Offset.Y)

	// Flip to a bottom-up Y axis.
	y = p.m.PixelHeight() - y - int(attrs.asInt("height"))

	props[ObjectKeyX] = IntValue(int64(x))
	props[ObjectKeyY] = IntValue(int64(y))

	og.Objects = append(og.Objects, Object{Properties: props})
	p.ctx.parent = ParentObject
}

// ======================================================
// property
// ======================================================

func (p *parser) startProperty(attrs attributes) {
	name := attrs.str("name")
	value := p.propertyValue(attrs)

	var props Properties
	switch p.ctx.parent {
	case ParentMap:
		props = p.m.Properties
	case ParentLayer:
		if layer := p.m.lastLayer(); layer != nil {
			props = layer.Properties
		}
	case ParentObjectGroup:
		if og := p.m.lastObjectGroup(); og != nil {
			props = og.Properties
		}
	case ParentObject:
		if obj := p.m.lastObject(); obj != nil {
			props = obj.Properties
		}
	case ParentTile:
		props = p.m.TileProperties[p.ctx.parentGID]
	}

	if props == nil {
		p.log.Warn("Property without a parent element, ignoring",
			zap.String("name", name), zap.String("value", value.AsString()), zap.Stringer("parent", p.ctx.parent))
		return
	}
	props[name] = value
}

// propertyValue types a property by its optional type attribute. Values
// that fail to parse stay strings.
func (p *parser) propertyValue(attrs attributes) Value {
	raw := attrs.str("value")

	switch attrs.str("type") {
	case "int":
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return IntValue(i)
		}
	case "float":
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return FloatValue(f)
		}
	case "bool":
		if b, err := strconv.ParseBool(raw); err == nil {
			return BoolValue(b)
		}
	default:
		return StringValue(raw)
	}

	p.log.Warn("Invalid typed property value, keeping string",
		zap.String("name", attrs.str("name")), zap.String("type", attrs.str("type")), zap.String("value", raw))
	return StringValue(raw)
}

// ======================================================
// polygon / polyline
// ======================================================

func (p *parser) startPoints(key string, attrs attributes) {
	obj := p.m.lastObject()
	if obj == nil {
		p.log.Warn("Points outside of an object, ignoring", zap.String("key", key))
		return
	}

	value := attrs.str("points")
	if value == "" {
		return
	}
	obj.Properties[key] = PointsValue(parsePoints(value, p.m.lastObjectGroup().Offset))
}

// parsePoints reads space separated "x,y" pairs, each shifted by offset.
func parsePoints(value string, offset Offset) []Point {
	pairs := strings.Fields(value)
	points := make([]Point, 0, len(pairs))
	for _, pair := range pairs {
		xs, ys, _ := strings.Cut(pair, ",")
		points = append(points, Point{
			X: int(parseInt(xs)) + int(offset.X),
			Y: int(parseInt(ys)) + int(offset.Y),
		})
	}
	return points
}
