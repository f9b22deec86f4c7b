package render

import (
	"fmt"
	"html"
	"io"
	"math"
	"strings"
)

// Renderer draws an estimate. The engine never waits on it.
type Renderer interface {
	Render(w io.Writer, share float64, region, period string) error
}

// SVGRenderer draws a pie chart with a legend as a standalone SVG document.
type SVGRenderer struct {
	Width  int
	Height int
}

func NewSVGRenderer() *SVGRenderer {
	return &SVGRenderer{Width: 360, Height: 360}
}

func (r *SVGRenderer) Render(w io.Writer, share float64, region, period string) error {
	c := NewChart(share, region, period)

	width, height := r.Width, r.Height
	if width <= 0 || height <= 0 {
		width, height = 360, 360
	}
	radius := math.Min(float64(width), float64(height))/2 - 8
	cx, cy := float64(width)/2, float64(height)/2
	legendH := 24 * len(c.Segments)
	titleH := 28

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		width, height+titleH+legendH, width, height+titleH+legendH)
	fmt.Fprintf(&b, `<text x="%g" y="20" text-anchor="middle" font-weight="700" font-size="14">%s</text>`,
		cx, html.EscapeString(c.Title))
	fmt.Fprintf(&b, `<g transform="translate(%g,%g)">`, cx, cy+float64(titleH))

	start := 0.0
	for _, s := range c.Segments {
		if s.Value <= 0 {
			continue
		}
		end := start + s.Value*2*math.Pi
		b.WriteString(slicePath(radius, start, end, s.Color))

		mid := (start + end) / 2
		lx, ly := polar(radius/2, mid)
		fmt.Fprintf(&b, `<text x="%.2f" y="%.2f" text-anchor="middle" font-weight="700" font-size="12">%s</text>`,
			lx, ly, html.EscapeString(s.Label))
		start = end
	}
	b.WriteString(`</g>`)

	// Legend lists the favor side first.
	y := height + titleH + 4
	for i := len(c.Segments) - 1; i >= 0; i-- {
		s := c.Segments[i]
		fmt.Fprintf(&b, `<rect x="8" y="%d" width="14" height="14" fill="%s"/>`, y, s.Color)
		fmt.Fprintf(&b, `<text x="28" y="%d" font-size="12">%s</text>`, y+12, html.EscapeString(s.Label))
		y += 24
	}
	b.WriteString(`</svg>`)

	_, err := io.WriteString(w, b.String())
	return err
}

// slicePath draws one pie slice; angles run clockwise from 12 o'clock.
func slicePath(r, start, end float64, color string) string {
	if end-start >= 2*math.Pi-1e-9 {
		return fmt.Sprintf(`<circle r="%.2f" fill="%s" stroke="#fff" stroke-width="1.5"/>`, r, color)
	}
	x0, y0 := polar(r, start)
	x1, y1 := polar(r, end)
	large := 0
	if end-start > math.Pi {
		large = 1
	}
	return fmt.Sprintf(`<path d="M0,0L%.2f,%.2fA%.2f,%.2f 0 %d 1 %.2f,%.2fZ" fill="%s" stroke="#fff" stroke-width="1.5"/>`,
		x0, y0, r, r, large, x1, y1, color)
}

func polar(r, angle float64) (float64, float64) {
	return r * math.Sin(angle), -r * math.Cos(angle)
}
