// File: internal/compositor/svg.go
package compositor

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/xkilldash9x/browser-viz/internal/geometry"
)

// SVG serializes the overlay as a standalone SVG document of the same size.
// Text content and attribute values are markup-escaped on output.
func (o *Overlay) SVG() ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("svg")
	root.CreateAttr("xmlns", "http://www.w3.org/2000/svg")
	root.CreateAttr("width", strconv.Itoa(o.Width))
	root.CreateAttr("height", strconv.Itoa(o.Height))
	root.CreateAttr("viewBox", fmt.Sprintf("0 0 %d %d", o.Width, o.Height))

	for _, p := range o.Primitives {
		p.appendSVG(root)
	}

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize svg overlay: %w", err)
	}
	return out, nil
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// paint returns the hex color and opacity of c for SVG paint attributes.
func paint(c color.Color) (string, string) {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	hex := colorful.Color{
		R: float64(n.R) / 255,
		G: float64(n.G) / 255,
		B: float64(n.B) / 255,
	}.Hex()
	return strings.ToUpper(hex), num(float64(n.A) / 255)
}

func setFill(e *etree.Element, c color.Color) {
	hex, opacity := paint(c)
	e.CreateAttr("fill", hex)
	if opacity != "1" {
		e.CreateAttr("fill-opacity", opacity)
	}
}

func setStroke(e *etree.Element, c color.Color, width float64) {
	hex, opacity := paint(c)
	e.CreateAttr("stroke", hex)
	e.CreateAttr("stroke-width", num(width))
	if opacity != "1" {
		e.CreateAttr("stroke-opacity", opacity)
	}
}

func rectElement(parent *etree.Element, b geometry.Box, radius float64) *etree.Element {
	e := parent.CreateElement("rect")
	e.CreateAttr("x", num(b.X))
	e.CreateAttr("y", num(b.Y))
	e.CreateAttr("width", num(b.Width))
	e.CreateAttr("height", num(b.Height))
	if radius > 0 {
		e.CreateAttr("rx", num(radius))
		e.CreateAttr("ry", num(radius))
	}
	return e
}

func (r RectStroke) appendSVG(parent *etree.Element) {
	e := rectElement(parent, r.Box, r.Radius)
	e.CreateAttr("fill", "none")
	setStroke(e, r.Color, r.Width)
}

func (r RectFill) appendSVG(parent *etree.Element) {
	setFill(rectElement(parent, r.Box, r.Radius), r.Color)
}

func (l Line) appendSVG(parent *etree.Element) {
	e := parent.CreateElement("line")
	e.CreateAttr("x1", num(l.From.X))
	e.CreateAttr("y1", num(l.From.Y))
	e.CreateAttr("x2", num(l.To.X))
	e.CreateAttr("y2", num(l.To.Y))
	setStroke(e, l.Color, l.Width)
	e.CreateAttr("stroke-linecap", "round")
}

func (p Polygon) appendSVG(parent *etree.Element) {
	pts := make([]string, len(p.Points))
	for i, pt := range p.Points {
		pts[i] = num(pt.X) + "," + num(pt.Y)
	}
	e := parent.CreateElement("polygon")
	e.CreateAttr("points", strings.Join(pts, " "))
	setFill(e, p.Color)
}

func (t Text) appendSVG(parent *etree.Element) {
	e := parent.CreateElement("text")
	e.CreateAttr("x", num(t.Origin.X))
	e.CreateAttr("y", num(t.Origin.Y))
	setFill(e, t.Color)
	if t.Family != "" {
		e.CreateAttr("font-family", t.Family)
	}
	e.CreateAttr("font-size", num(t.Size))
	if t.Weight != "" {
		e.CreateAttr("font-weight", t.Weight)
	}
	e.SetText(t.Value)
}
