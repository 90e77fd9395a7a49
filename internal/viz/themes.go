package viz

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	Name      string
	Sun       lipgloss.Color
	Planet    lipgloss.Color
	Trail     lipgloss.Color
	Explosion lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
}

var (
	ThemeSolar = Theme{
		Name:      "solar",
		Sun:       lipgloss.Color("#ffcc00"),
		Planet:    lipgloss.Color("#00ccff"),
		Trail:     lipgloss.Color("#335577"),
		Explosion: lipgloss.Color("#ff4444"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#666688"),
	}

	ThemeRetroGreen = Theme{
		Name:      "retro",
		Sun:       lipgloss.Color("#88ff88"),
		Planet:    lipgloss.Color("#00ff00"),
		Trail:     lipgloss.Color("#006600"),
		Explosion: lipgloss.Color("#ccffcc"),
		Text:      lipgloss.Color("#00ff00"),
		Muted:     lipgloss.Color("#008800"),
	}

	ThemeMono = Theme{
		Name:      "mono",
		Sun:       lipgloss.Color("#ffffff"),
		Planet:    lipgloss.Color("#cccccc"),
		Trail:     lipgloss.Color("#555555"),
		Explosion: lipgloss.Color("#ffffff"),
		Text:      lipgloss.Color("#eeeeee"),
		Muted:     lipgloss.Color("#777777"),
	}
)

var Themes = []Theme{ThemeSolar, ThemeRetroGreen, ThemeMono}

// GetTheme returns the named theme, or ThemeSolar.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeSolar
}

// NextTheme cycles through Themes.
func NextTheme(current Theme) Theme {
	for i, t := range Themes {
		if t.Name == current.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}
