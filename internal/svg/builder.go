package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"github.com/ecopia-map/vector_tiler/internal/tiler"
	"github.com/ecopia-map/vector_tiler/internal/tree"
	"github.com/golang/glog"
	"github.com/lucasb-eyer/go-colorful"
)

var white = colorful.Color{R: 1, G: 1, B: 1}

// Assembles path elements into an SVG document. Elements are grouped by fill color, groups keep
// the order in which their color was first added and elements keep their insertion order.
type Builder struct {
	width      float64
	height     float64
	appearance *tiler.AppearanceOptions
	color0     colorful.Color
	color1     colorful.Color
	groups     map[string][]*Element
	order      []string
}

func NewBuilder(width, height float64, appearance *tiler.AppearanceOptions) (*Builder, error) {
	if appearance == nil {
		appearance = tiler.NewDefaultAppearanceOptions()
	}
	color0, err := colorful.Hex(appearance.Color0)
	if err != nil {
		return nil, fmt.Errorf("%w: color0 %q: %v", tiler.ErrInvalidOptions, appearance.Color0, err)
	}
	color1, err := colorful.Hex(appearance.Color1)
	if err != nil {
		return nil, fmt.Errorf("%w: color1 %q: %v", tiler.ErrInvalidOptions, appearance.Color1, err)
	}
	return &Builder{
		width:      width,
		height:     height,
		appearance: appearance,
		color0:     color0,
		color1:     color1,
		groups:     make(map[string][]*Element),
		order:      make([]string, 0),
	}, nil
}

func (b *Builder) Add(elements ...*Element) {
	for _, e := range elements {
		key := e.Fill.Clamped().Hex()
		if _, ok := b.groups[key]; !ok {
			b.order = append(b.order, key)
		}
		b.groups[key] = append(b.groups[key], e)
	}
}

// Decimals of the numbers written in the document
func (b *Builder) Precision() int {
	return b.appearance.Precision
}

// Number of elements added so far
func (b *Builder) Len() int {
	n := 0
	for _, group := range b.groups {
		n += len(group)
	}
	return n
}

// Number of distinct fill colors
func (b *Builder) Groups() int {
	return len(b.order)
}

// The whole document, see WriteTo
func (b *Builder) String() string {
	var buf bytes.Buffer
	if err := b.encode(&buf); err != nil {
		glog.Errorf("encoding svg: %v", err)
		return ""
	}
	return buf.String()
}

// Writes the document through an xml encoder, so attribute values get escaped. Groups and paths
// are tab indented and the document ends with a newline.
func (b *Builder) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	if err := b.encode(&buf); err != nil {
		return 0, err
	}
	return buf.WriteTo(w)
}

func (b *Builder) encode(w io.Writer) error {
	precision := b.appearance.Precision
	width, height := FormatNumber(b.width, precision), FormatNumber(b.height, precision)

	enc := xml.NewEncoder(w)
	enc.Indent("", "\t")

	root := xml.StartElement{Name: xml.Name{Local: "svg"}}
	addAttr(&root.Attr, "xmlns", "http://www.w3.org/2000/svg")
	addAttr(&root.Attr, "width", width)
	addAttr(&root.Attr, "height", height)
	addAttr(&root.Attr, "viewBox", "0 0 "+width+" "+height)
	if err := enc.EncodeToken(root); err != nil {
		return err
	}
	for _, key := range b.order {
		group := xml.StartElement{Name: xml.Name{Local: "g"}}
		addAttr(&group.Attr, "fill", key)
		addAttr(&group.Attr, "shape-rendering", "geometricPrecision")
		if err := enc.EncodeToken(group); err != nil {
			return err
		}
		for _, e := range b.groups[key] {
			path := b.element(e)
			if err := enc.EncodeToken(path); err != nil {
				return err
			}
			if err := enc.EncodeToken(path.End()); err != nil {
				return err
			}
		}
		if err := enc.EncodeToken(group.End()); err != nil {
			return err
		}
	}
	if err := enc.EncodeToken(root.End()); err != nil {
		return err
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// The <path> start element of e, attributes in document order
func (b *Builder) element(e *Element) xml.StartElement {
	precision := b.appearance.Precision
	a := e.LevelRatio()

	path := xml.StartElement{Name: xml.Name{Local: "path"}}
	addAttr(&path.Attr, "d", e.PathData)
	if fill, ok := b.fill(e); ok {
		addAttr(&path.Attr, "fill", fill)
	}
	addAttr(&path.Attr, "fill-rule", "evenodd")
	addAttr(&path.Attr, "stroke", b.stroke(e, a))
	addAttr(&path.Attr, "stroke-width", FormatNumber(lerp(b.appearance.Border0, b.appearance.Border1, a), precision))
	addAttr(&path.Attr, "depth", FormatNumber(e.Depth, precision))
	if p := e.Point; p != nil {
		addAttr(&path.Attr, "segment", fmt.Sprintf("%d,%d,%d", p.Segment[0], p.Segment[1], p.Segment[2]))
		addAttr(&path.Attr, "matting", FormatNumber(p.Matting, precision))
		addAttr(&path.Attr, "saliency-a", FormatNumber(p.SaliencyA, precision))
		addAttr(&path.Attr, "saliency-o", FormatNumber(p.SaliencyO, precision))
	}
	addAttr(&path.Attr, "level", strconv.Itoa(e.Level))
	addAttr(&path.Attr, "min-level", strconv.Itoa(e.MinLevel))
	addAttr(&path.Attr, "max-level", strconv.Itoa(e.MaxLevel))
	addAttr(&path.Attr, "id", e.ID)
	return path
}

func addAttr(attr *[]xml.Attr, name, val string) {
	*attr = append(*attr, xml.Attr{Name: xml.Name{Local: name}, Value: val})
}

// Fill attribute of an element, false when it inherits the fill of its group
func (b *Builder) fill(e *Element) (string, bool) {
	switch b.appearance.BorderMode {
	case tiler.BorderModeBorder, tiler.BorderModeWireframe:
		return "none", true
	}
	switch b.appearance.ColorScheme {
	case tiler.ColorSchemeGrayScale:
		return tree.GrayScale(e.Fill).Clamped().Hex(), true
	case tiler.ColorSchemeWhite:
		return white.Hex(), true
	}
	return "", false
}

func (b *Builder) stroke(e *Element, a float64) string {
	switch b.appearance.BorderMode {
	case tiler.BorderModeFill:
		return "none"
	case tiler.BorderModeWireframe:
		return e.Fill.Clamped().Hex()
	}
	return b.color0.BlendRgb(b.color1, a).Clamped().Hex()
}

func lerp(x, y, a float64) float64 {
	return x*(1-a) + y*a
}
