package viz

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/sim"
)

// WriteSVG draws f top-down as an SVG of size pixels square covering
// [-extent, extent] on X and Z.
func WriteSVG(w io.Writer, f sim.Frame, theme Theme, size int, extent float64, trails bool) error {
	if size <= 0 {
		size = 512
	}
	if extent <= 0 {
		extent = 1
	}
	scale := float64(size) / (2 * extent)
	half := float64(size) / 2
	px := func(v float64) float64 { return half + v*scale }

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, size, size, size, size)

	if trails {
		fmt.Fprintf(&sb, "<g fill=\"none\" stroke=\"%s\" stroke-width=\"1\">\n", theme.Trail)
		for _, id := range sortedTrailIDs(f) {
			pts := f.Trails[id]
			if len(pts) < 2 {
				continue
			}
			sb.WriteString(`<polyline points="`)
			for i, p := range pts {
				if i > 0 {
					sb.WriteByte(' ')
				}
				fmt.Fprintf(&sb, "%.2f,%.2f", px(p.X), px(p.Z))
			}
			sb.WriteString("\"/>\n")
		}
		sb.WriteString("</g>\n")
	}

	for _, b := range f.Bodies {
		color := theme.Planet
		if b.Kind == body.Sun {
			color = theme.Sun
		}
		r := math.Max(b.Radius*scale, 0.5)
		fmt.Fprintf(&sb, "<circle cx=\"%.2f\" cy=\"%.2f\" r=\"%.2f\" fill=\"%s\"/>\n",
			px(b.Position.X), px(b.Position.Z), r, color)
	}

	for _, e := range f.Explosions {
		fmt.Fprintf(&sb, "<circle cx=\"%.2f\" cy=\"%.2f\" r=\"%.2f\" fill=\"none\" stroke=\"%s\" opacity=\"%.2f\"/>\n",
			px(e.Origin.X), px(e.Origin.Z), 4+8*e.Age, theme.Explosion, math.Max(0, 1-e.Age))
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

func sortedTrailIDs(f sim.Frame) []body.ID {
	ids := make([]body.ID, 0, len(f.Trails))
	for _, b := range f.Bodies {
		if _, ok := f.Trails[b.ID]; ok {
			ids = append(ids, b.ID)
		}
	}
	return ids
}
