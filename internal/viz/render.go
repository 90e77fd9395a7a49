package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/effects"
	"github.com/san-kum/orrery/internal/sim"
	"github.com/san-kum/orrery/internal/vec"
)

// Projector maps world X/Z onto canvas sub-pixels, origin at the center.
type Projector struct {
	cx, cy int
	scale  float64
}

// NewProjector fits a square of half-width extent onto c.
func NewProjector(c *Canvas, extent float64) Projector {
	w, h := c.Width*2, c.Height*4
	if extent <= 0 {
		extent = 1
	}
	return Projector{
		cx:    w / 2,
		cy:    h / 2,
		scale: float64(min(w, h)) / (2 * extent),
	}
}

func (p Projector) Point(v vec.Vec3) (int, int) {
	return p.cx + int(math.Round(v.X*p.scale)), p.cy + int(math.Round(v.Z*p.scale))
}

func (p Projector) Length(r float64) int {
	return int(math.Round(r * p.scale))
}

// Layer order is draw priority: the first non-empty layer owns a cell.
const (
	layerExplosion = iota
	layerSun
	layerPlanet
	layerTrail
	numLayers
)

type Options struct {
	Width, Height int
	Extent        float64
	Trails        bool
	// Progress maps an explosion to its fade in [0, 1]. Nil uses Age.
	Progress func(effects.Explosion) float64
}

type Scene struct {
	layers [numLayers]*Canvas
}

func Render(f sim.Frame, opts Options) *Scene {
	s := &Scene{}
	for i := range s.layers {
		s.layers[i] = NewCanvas(opts.Width, opts.Height)
	}
	proj := NewProjector(s.layers[0], opts.Extent)

	if opts.Trails {
		tc := s.layers[layerTrail]
		for _, pts := range f.Trails {
			for i := 1; i < len(pts); i++ {
				x0, y0 := proj.Point(pts[i-1])
				x1, y1 := proj.Point(pts[i])
				tc.DrawLine(x0, y0, x1, y1)
			}
		}
	}

	for _, b := range f.Bodies {
		x, y := proj.Point(b.Position)
		layer := layerPlanet
		if b.Kind == body.Sun {
			layer = layerSun
		}
		s.layers[layer].FillCircle(x, y, proj.Length(b.Radius))
	}

	ec := s.layers[layerExplosion]
	for _, e := range f.Explosions {
		progress := math.Min(math.Max(e.Age, 0), 1)
		if opts.Progress != nil {
			progress = opts.Progress(e)
		}
		x, y := proj.Point(e.Origin)
		ec.DrawRing(x, y, 2+int(progress*8))

		jet := float64(3 + int(progress*8))
		ec.DrawLine(x, y, x+int(math.Round(e.Orientation.X*jet)), y+int(math.Round(e.Orientation.Z*jet)))
	}

	return s
}

func (s *Scene) owner(col, row int) int {
	for i, c := range s.layers {
		if !c.Empty(col, row) {
			return i
		}
	}
	return -1
}

// Plain merges all layers without color.
func (s *Scene) Plain() string {
	base := s.layers[0]
	var b strings.Builder
	for row := 0; row < base.Height; row++ {
		for col := 0; col < base.Width; col++ {
			if i := s.owner(col, row); i >= 0 {
				b.WriteRune(s.layers[i].Grid[row][col])
			} else {
				b.WriteRune(' ')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// String renders the scene with theme colors, one style run per layer span.
func (s *Scene) String(theme Theme) string {
	styles := [numLayers]lipgloss.Style{
		layerExplosion: lipgloss.NewStyle().Foreground(theme.Explosion).Bold(true),
		layerSun:       lipgloss.NewStyle().Foreground(theme.Sun),
		layerPlanet:    lipgloss.NewStyle().Foreground(theme.Planet),
		layerTrail:     lipgloss.NewStyle().Foreground(theme.Trail),
	}

	base := s.layers[0]
	var b strings.Builder
	var run []rune
	for row := 0; row < base.Height; row++ {
		current := -2
		flush := func() {
			if len(run) == 0 {
				return
			}
			if current >= 0 {
				b.WriteString(styles[current].Render(string(run)))
			} else {
				b.WriteString(string(run))
			}
			run = run[:0]
		}
		for col := 0; col < base.Width; col++ {
			i := s.owner(col, row)
			if i != current {
				flush()
				current = i
			}
			if i >= 0 {
				run = append(run, s.layers[i].Grid[row][col])
			} else {
				run = append(run, ' ')
			}
		}
		flush()
		b.WriteByte('\n')
	}
	return b.String()
}
