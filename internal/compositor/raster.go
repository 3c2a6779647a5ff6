// File: internal/compositor/raster.go
package compositor

import (
	"image"
	"image/color"
	"math"

	"github.com/xkilldash9x/browser-viz/internal/geometry"
	"golang.org/x/image/vector"
)

// arcSegments is the number of line segments per quarter circle.
const arcSegments = 8

// fillRings fills the union of rings with c. Rings are accumulated in a
// single rasterizer pass: a ring with the opposite winding of its enclosing
// ring cancels coverage and so punches a hole.
func fillRings(dst *image.RGBA, c color.Color, rings ...[]geometry.Point) {
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	drawn := false
	for _, ring := range rings {
		if len(ring) < 3 {
			continue
		}
		z.MoveTo(float32(ring[0].X), float32(ring[0].Y))
		for _, p := range ring[1:] {
			z.LineTo(float32(p.X), float32(p.Y))
		}
		z.ClosePath()
		drawn = true
	}
	if !drawn {
		return
	}
	z.Draw(dst, b, image.NewUniform(c), image.Point{})
}

// signedArea is the shoelace sum; its sign gives the ring winding.
func signedArea(ring []geometry.Point) float64 {
	var a float64
	for i := range ring {
		j := (i + 1) % len(ring)
		a += ring[i].X*ring[j].Y - ring[j].X*ring[i].Y
	}
	return a / 2
}

func reverseRing(ring []geometry.Point) []geometry.Point {
	out := make([]geometry.Point, len(ring))
	for i, p := range ring {
		out[len(ring)-1-i] = p
	}
	return out
}

// normalizeRing returns ring with positive winding.
func normalizeRing(ring []geometry.Point) []geometry.Point {
	if signedArea(ring) < 0 {
		return reverseRing(ring)
	}
	return ring
}

// arc appends points on a circular arc from angle a0 to a1.
func arc(pts []geometry.Point, center geometry.Point, r, a0, a1 float64, segments int) []geometry.Point {
	for i := 0; i <= segments; i++ {
		t := a0 + (a1-a0)*float64(i)/float64(segments)
		pts = append(pts, geometry.Point{X: center.X + r*math.Cos(t), Y: center.Y + r*math.Sin(t)})
	}
	return pts
}

// roundedRectRing approximates a rounded rectangle as a polygon with
// positive winding. The radius is clamped to half the shorter side.
func roundedRectRing(b geometry.Box, radius float64) []geometry.Point {
	r := math.Max(0, math.Min(radius, math.Min(b.Width, b.Height)/2))
	if r == 0 {
		return []geometry.Point{
			{X: b.X, Y: b.Y},
			{X: b.Right(), Y: b.Y},
			{X: b.Right(), Y: b.Bottom()},
			{X: b.X, Y: b.Bottom()},
		}
	}
	pts := make([]geometry.Point, 0, 4*(arcSegments+1))
	pts = arc(pts, geometry.Point{X: b.Right() - r, Y: b.Bottom() - r}, r, 0, math.Pi/2, arcSegments)
	pts = arc(pts, geometry.Point{X: b.X + r, Y: b.Bottom() - r}, r, math.Pi/2, math.Pi, arcSegments)
	pts = arc(pts, geometry.Point{X: b.X + r, Y: b.Y + r}, r, math.Pi, 3*math.Pi/2, arcSegments)
	pts = arc(pts, geometry.Point{X: b.Right() - r, Y: b.Y + r}, r, 3*math.Pi/2, 2*math.Pi, arcSegments)
	return pts
}

func circleRing(center geometry.Point, r float64) []geometry.Point {
	pts := arc(nil, center, r, 0, 2*math.Pi, 4*arcSegments)
	return pts[:len(pts)-1]
}

// lineRings returns the body quad and the two cap circles of a stroked
// segment, all with positive winding so overlaps never cancel.
func lineRings(from, to geometry.Point, width float64) [][]geometry.Point {
	half := width / 2
	if half <= 0 {
		return nil
	}
	caps := [][]geometry.Point{circleRing(from, half), circleRing(to, half)}
	d := to.Sub(from)
	length := d.Mag()
	if length == 0 {
		return caps[:1]
	}
	n := geometry.Point{X: -d.Y / length, Y: d.X / length}.Mul(half)
	quad := normalizeRing([]geometry.Point{from.Add(n), to.Add(n), to.Sub(n), from.Sub(n)})
	return append([][]geometry.Point{quad}, caps...)
}
