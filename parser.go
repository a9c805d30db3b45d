package tmx

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	"go.uber.org/zap"
)

var (
	ErrEmptyDocument = errors.New("empty tmx document")
	ErrTilesetCycle  = errors.New("tileset references itself")
	ErrMalformedTmx  = errors.New("malformed tmx document")
)

// Option configures a parse.
type Option func(*parser)

// WithLogger sets the logger that receives diagnostics for recoverable
// problems in the document. The default discards them.
func WithLogger(log *zap.Logger) Option {
	return func(p *parser) {
		if log != nil {
			p.log = log
		}
	}
}

// WithFS reads the map and any external tilesets from fsys instead of the
// operating system's file system.
func WithFS(fsys fs.FS) Option {
	return func(p *parser) {
		p.fsys = fsys
	}
}

// WithResourcePath sets the directory used to resolve tileset and image
// sources when the document's own path has no directory.
func WithResourcePath(dir string) Option {
	return func(p *parser) {
		if dir != "" {
			p.resources = dir
		}
	}
}

// ParseFile parses the TMX file at filename. External tilesets and images
// are resolved relative to it.
func ParseFile(filename string, opts ...Option) (*Map, error) {
	p := newParser(opts...)
	p.m.Filename = filename

	if err := p.parseFile(filename, 0); err != nil {
		return nil, err
	}
	return p.m, nil
}

// ParseXML parses an in-memory TMX document. Relative sources resolve
// against resourcePath.
func ParseXML(tmx string, resourcePath string, opts ...Option) (*Map, error) {
	if tmx == "" {
		return nil, ErrEmptyDocument
	}
	return Parse(strings.NewReader(tmx), append(opts, WithResourcePath(resourcePath))...)
}

// Parse parses a TMX document read from r.
func Parse(r io.Reader, opts ...Option) (*Map, error) {
	p := newParser(opts...)

	if err := p.parse(r, &document{}); err != nil {
		return nil, err
	}
	return p.m, nil
}

// parseContext is the "current parent" state that routes property elements.
type parseContext struct {
	parent     ParentElement
	tileParent ParentElement // parent to restore when a tileset tile ends
	parentGID  uint32
}

// dataState tracks the open data element of the current layer.
type dataState struct {
	open        bool
	encoding    Encoding
	compression Compression
}

// document is one file (or in-memory string) being parsed. Nested tileset
// documents get their own.
type document struct {
	path     string
	firstGID uint32 // firstgid carried from the referencing tileset element
	elements int
}

func (d *document) name() string {
	if d.path == "" {
		return "<memory>"
	}
	return d.path
}

type parser struct {
	log       *zap.Logger
	fsys      fs.FS
	resources string

	m    *Map
	ctx  parseContext
	data dataState
	skip int // depth of an ignored subtree

	storing bool
	text    strings.Builder

	open map[string]bool
}

func newParser(opts ...Option) *parser {
	p := &parser{
		log:  zap.NewNop(),
		m:    newMap(),
		open: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.m.ResourcePath = p.resources
	return p
}

func (p *parser) readFile(name string) ([]byte, error) {
	if p.fsys != nil {
		return fs.ReadFile(p.fsys, name)
	}
	return os.ReadFile(name)
}

// parseFile parses name into the parser's map. firstGID, when non-zero,
// replaces the firstgid of the first tileset the file declares.
func (p *parser) parseFile(name string, firstGID uint32) error {
	if p.open[name] {
		return fmt.Errorf("%w: %s", ErrTilesetCycle, name)
	}
	p.open[name] = true
	defer delete(p.open, name)

	content, err := p.readFile(name)
	if err != nil {
		return err
	}

	return p.parse(bytes.NewReader(content), &document{path: name, firstGID: firstGID})
}

func (p *parser) parse(r io.Reader, doc *document) error {
	d := xml.NewDecoder(r)

	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrMalformedTmx, doc.name(), err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			doc.elements++
			if err := p.startElement(doc, t.Name.Local, attributes(t.Attr)); err != nil {
				return fmt.Errorf("%s: %s: %w", doc.name(), t.Name.Local, err)
			}
		case xml.EndElement:
			if err := p.endElement(t.Name.Local); err != nil {
				return fmt.Errorf("%s: %s: %w", doc.name(), t.Name.Local, err)
			}
		case xml.CharData:
			if p.storing && p.skip == 0 {
				p.text.Write(t)
			}
		}
	}

	if doc.elements == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyDocument, doc.name())
	}
	return nil
}

// resolve composes a source attribute with the directory of the document
// that declares it, falling back to the resource path.
func (p *parser) resolve(doc *document, source string) string {
	if path.IsAbs(source) {
		return source
	}
	if i := strings.LastIndex(doc.path, "/"); i >= 0 {
		return path.Join(doc.path[:i+1], source)
	}
	return path.Join(p.resources, source)
}

func (p *parser) startElement(doc *document, name string, attrs attributes) error {
	if p.skip > 0 {
		p.skip++
		return nil
	}

	switch name {
	case "map":
		p.startMap(attrs)
	case "tileset":
		return p.startTileset(doc, attrs)
	case "tile":
		p.startTile(attrs)
	case "layer":
		p.startLayer(attrs)
	case "objectgroup":
		p.startObjectGroup(attrs)
	case "image":
		p.startImage(doc, attrs)
	case "data":
		return p.startData(attrs)
	case "chunk":
		p.startChunk()
	case "object":
		p.startObject(attrs)
	case "property":
		p.startProperty(attrs)
	case "polygon":
		p.startPoints(ObjectKeyPoints, attrs)
	case "polyline":
		p.startPoints(ObjectKeyPolylinePoints, attrs)
	}
	return nil
}

func (p *parser) endElement(name string) error {
	if p.skip > 0 {
		p.skip--
		return nil
	}

	switch name {
	case "data":
		return p.endData()
	case "tile":
		if p.ctx.parent == ParentTile {
			p.ctx.parent = p.ctx.tileParent
		}
	case "map", "layer", "objectgroup", "object":
		p.ctx.parent = ParentNone
	}
	return nil
}
