// Package export renders a mounted controller as a standalone SVG.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/gesturenav/internal/controller"
	"github.com/san-kum/gesturenav/internal/geom"
	"github.com/san-kum/gesturenav/internal/manifold"
)

type Palette struct {
	Background string
	Manifold   string
	Handle     string
	Target     string
	Text       string
}

var DefaultPalette = Palette{
	Background: "#0a0a0a",
	Manifold:   "#00ffff",
	Handle:     "#ff00ff",
	Target:     "#ffff00",
	Text:       "#ffffff",
}

// Scene is what gets drawn. Exactly one of Path and Orbits is set.
type Scene struct {
	Viewport geom.Rect
	Path     *manifold.Path
	Orbits   *manifold.OrbitSet
	Snapshot controller.Snapshot
}

// SceneToSVG draws the manifold, every target with its snap radius, the
// handle and, for a path, the control point on its whisker.
func SceneToSVG(s Scene, pal Palette) string {
	width, height := s.Viewport.Width(), s.Viewport.Height()
	if width <= 0 || height <= 0 {
		return ""
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="%.0f %.0f %.0f %.0f">
<rect x="%.0f" y="%.0f" width="100%%" height="100%%" fill="%s"/>
`, width, height, s.Viewport.Min.X, s.Viewport.Min.Y, width, height,
		s.Viewport.Min.X, s.Viewport.Min.Y, pal.Background)

	switch {
	case s.Path != nil:
		writePolyline(&sb, s.Path.Samples, pal.Manifold)
	case s.Orbits != nil:
		c := s.Orbits.Center
		for _, o := range s.Orbits.Orbits {
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="%s" stroke-width="1" stroke-dasharray="4 4"/>
`, c.X, c.Y, o.Radius, pal.Manifold)
		}
	}

	for _, t := range s.Snapshot.Targets {
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="%s" stroke-opacity="0.5"/>
<circle cx="%.1f" cy="%.1f" r="3" fill="%s"/>
<text x="%.1f" y="%.1f" fill="%s" font-family="monospace" font-size="12">%s</text>
`, t.Anchor.X, t.Anchor.Y, t.SnapThreshold, pal.Target,
			t.Anchor.X, t.Anchor.Y, pal.Target,
			t.Anchor.X+6, t.Anchor.Y-6, pal.Text, escape(t.Label))
	}

	h := s.Snapshot.Handle
	if s.Path != nil {
		c := s.Snapshot.Control
		fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-opacity="0.6"/>
<circle cx="%.1f" cy="%.1f" r="4" fill="none" stroke="%s"/>
`, h.X, h.Y, c.X, c.Y, pal.Handle, c.X, c.Y, pal.Handle)
	}
	fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="6" fill="%s"/>
`, h.X, h.Y, pal.Handle)

	sb.WriteString("</svg>\n")
	return sb.String()
}

func writePolyline(sb *strings.Builder, pts []geom.Vec2, stroke string) {
	if len(pts) < 2 {
		return
	}
	fmt.Fprintf(sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, stroke)
	for i, p := range pts {
		if i == 0 {
			fmt.Fprintf(sb, "%.1f,%.1f", p.X, p.Y)
		} else {
			fmt.Fprintf(sb, " L%.1f,%.1f", p.X, p.Y)
		}
	}
	sb.WriteString(`"/>
`)
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string { return escaper.Replace(s) }
