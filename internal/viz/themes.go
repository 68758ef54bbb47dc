package viz

import "github.com/charmbracelet/lipgloss"

// Theme colours the manifold and the status panel.
type Theme struct {
	Name     string
	Manifold lipgloss.Color
	Handle   lipgloss.Color
	Target   lipgloss.Color
	Accent   lipgloss.Color
	Text     lipgloss.Color
	Muted    lipgloss.Color
	Success  lipgloss.Color
	Warning  lipgloss.Color
	Error    lipgloss.Color
}

var (
	ThemeCyberpunk = Theme{
		Name:     "cyberpunk",
		Manifold: lipgloss.Color("#00ffff"),
		Handle:   lipgloss.Color("#ff00ff"),
		Target:   lipgloss.Color("#ffff00"),
		Accent:   lipgloss.Color("#ff00ff"),
		Text:     lipgloss.Color("#ffffff"),
		Muted:    lipgloss.Color("#666666"),
		Success:  lipgloss.Color("#00ff00"),
		Warning:  lipgloss.Color("#ff8800"),
		Error:    lipgloss.Color("#ff0000"),
	}

	ThemeRetroGreen = Theme{
		Name:     "retro",
		Manifold: lipgloss.Color("#00cc00"), // green phosphor
		Handle:   lipgloss.Color("#88ff88"),
		Target:   lipgloss.Color("#00ff00"),
		Accent:   lipgloss.Color("#88ff88"),
		Text:     lipgloss.Color("#00ff00"),
		Muted:    lipgloss.Color("#005500"),
		Success:  lipgloss.Color("#88ff88"),
		Warning:  lipgloss.Color("#ffff00"),
		Error:    lipgloss.Color("#ff0000"),
	}

	ThemeMinimal = Theme{
		Name:     "minimal",
		Manifold: lipgloss.Color("#cccccc"),
		Handle:   lipgloss.Color("#ffffff"),
		Target:   lipgloss.Color("#0088ff"),
		Accent:   lipgloss.Color("#0088ff"),
		Text:     lipgloss.Color("#ffffff"),
		Muted:    lipgloss.Color("#888888"),
		Success:  lipgloss.Color("#00ff00"),
		Warning:  lipgloss.Color("#ffaa00"),
		Error:    lipgloss.Color("#ff0000"),
	}

	ThemeOcean = Theme{
		Name:     "ocean",
		Manifold: lipgloss.Color("#00a8cc"),
		Handle:   lipgloss.Color("#ffd700"),
		Target:   lipgloss.Color("#e0f0ff"),
		Accent:   lipgloss.Color("#ffd700"),
		Text:     lipgloss.Color("#e0f0ff"),
		Muted:    lipgloss.Color("#4488aa"),
		Success:  lipgloss.Color("#00ff88"),
		Warning:  lipgloss.Color("#ffcc00"),
		Error:    lipgloss.Color("#ff4444"),
	}

	Themes = []Theme{ThemeCyberpunk, ThemeRetroGreen, ThemeMinimal, ThemeOcean}
)

// GetTheme returns a theme by name, defaulting to cyberpunk.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeCyberpunk
}

// next cycles to the theme after t.
func (t Theme) next() Theme {
	for i, c := range Themes {
		if c.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
