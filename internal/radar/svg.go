package radar

import (
	"fmt"
	"strings"
)

const (
	gridSteps   = 5
	strokeColor = "#9ca3af"
	fillColor   = "rgb(59, 130, 246)"
)

// RenderSVG produces a standalone SVG document for the metric set:
// background grid rings, one axis line per metric, the filled data
// polygon and a text label outside each axis. The viewport is sized
// from the center point, which is expected to sit in the middle of it.
func RenderSVG(metrics []Metric, opts Options) (string, error) {
	p, err := Project(metrics, opts)
	if err != nil {
		return "", err
	}

	width := p.Center.X * 2
	height := p.Center.Y * 2

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">`+"\n",
		width, height, width, height)

	for _, r := range GridRings(opts, gridSteps) {
		fmt.Fprintf(&b, `  <circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="%s" stroke-width="1"/>`+"\n",
			p.Center.X, p.Center.Y, r, strokeColor)
	}

	for _, a := range p.Axes {
		fmt.Fprintf(&b, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="1"/>`+"\n",
			p.Center.X, p.Center.Y, a.End.X, a.End.Y, strokeColor)
	}

	fmt.Fprintf(&b, `  <polygon points="%s" fill="%s" fill-opacity="0.2" stroke="%s" stroke-width="2"/>`+"\n",
		polygonPoints(p.Vertices()), fillColor, fillColor)

	for _, a := range p.Axes {
		fmt.Fprintf(&b, `  <text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="middle" font-size="12">%s</text>`+"\n",
			a.LabelAnchor.X, a.LabelAnchor.Y, escapeText(a.Label))
	}

	b.WriteString("</svg>\n")

	return b.String(), nil
}

func polygonPoints(points []Point) string {
	parts := make([]string, 0, len(points))
	for _, p := range points {
		parts = append(parts, fmt.Sprintf("%.1f,%.1f", p.X, p.Y))
	}

	return strings.Join(parts, " ")
}

func escapeText(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

	return r.Replace(s)
}
