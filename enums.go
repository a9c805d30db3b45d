package tmx

// ======================================================
// Orientation
// ======================================================

type Orientation uint8

const (
	OrientationOrthogonal Orientation = iota
	OrientationIsometric
	OrientationHexagonal
	OrientationStaggered
)

func (o Orientation) String() string {
	switch o {
	case OrientationOrthogonal:
		return "orthogonal"
	case OrientationIsometric:
		return "isometric"
	case OrientationHexagonal:
		return "hexagonal"
	case OrientationStaggered:
		return "staggered"
	default:
		return "unknown"
	}
}

func (o Orientation) IsValid() bool {
	return o >= OrientationOrthogonal && o <= OrientationStaggered
}

func (o Orientation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// ======================================================
// RenderOrder
// ======================================================

type RenderOrder uint8

const (
	RenderOrderRightDown RenderOrder = iota
	RenderOrderRightUp
	RenderOrderLeftDown
	RenderOrderLeftUp
)

func (ro RenderOrder) String() string {
	switch ro {
	case RenderOrderRightDown:
		return "right-down"
	case RenderOrderRightUp:
		return "right-up"
	case RenderOrderLeftDown:
		return "left-down"
	case RenderOrderLeftUp:
		return "left-up"
	default:
		return "unknown"
	}
}

func (ro RenderOrder) IsValid() bool {
	return ro >= RenderOrderRightDown && ro <= RenderOrderLeftUp
}

func (ro RenderOrder) MarshalText() ([]byte, error) {
	return []byte(ro.String()), nil
}

// ======================================================
// Encoding
// ======================================================

// Encoding is the text encoding of a layer's data element.
// EncodingNone means the GIDs arrive as <tile gid="..."/> children.
type Encoding uint8

const (
	EncodingNone Encoding = iota
	EncodingBase64
	EncodingCSV
)

func (e Encoding) String() string {
	switch e {
	case EncodingNone:
		return "none"
	case EncodingBase64:
		return "base64"
	case EncodingCSV:
		return "csv"
	default:
		return "unknown"
	}
}

func (e Encoding) IsValid() bool {
	return e >= EncodingNone && e <= EncodingCSV
}

func (e Encoding) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// ======================================================
// Compression
// ======================================================

type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionZlib
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionGzip:
		return "gzip"
	case CompressionZlib:
		return "zlib"
	default:
		return "unknown"
	}
}

func (c Compression) IsValid() bool {
	return c >= CompressionNone && c <= CompressionZlib
}

func (c Compression) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// ======================================================
// ParentElement
// ======================================================

// ParentElement is the kind of element that currently owns property elements.
type ParentElement uint8

const (
	ParentNone ParentElement = iota
	ParentMap
	ParentLayer
	ParentObjectGroup
	ParentObject
	ParentTile
)

func (pe ParentElement) String() string {
	switch pe {
	case ParentNone:
		return "none"
	case ParentMap:
		return "map"
	case ParentLayer:
		return "layer"
	case ParentObjectGroup:
		return "objectgroup"
	case ParentObject:
		return "object"
	case ParentTile:
		return "tile"
	default:
		return "unknown"
	}
}

func (pe ParentElement) IsValid() bool {
	return pe >= ParentNone && pe <= ParentTile
}
