package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme for the side panel. The table itself is
// always drawn in its configured colors.
type Theme struct {
	Name   string
	Title  lipgloss.Color
	Label  lipgloss.Color
	Value  lipgloss.Color
	Muted  lipgloss.Color
	Border lipgloss.Color
	Graph  lipgloss.Color
	Alert  lipgloss.Color
}

var (
	ThemeBaize = Theme{
		Name:   "baize",
		Title:  lipgloss.Color("#7fd67f"),
		Label:  lipgloss.Color("#8a9a8a"),
		Value:  lipgloss.Color("#e8f0e8"),
		Muted:  lipgloss.Color("#4a5a4a"),
		Border: lipgloss.Color("#2e4a2e"),
		Graph:  lipgloss.Color("#7fd67f"),
		Alert:  lipgloss.Color("#ff5f5f"),
	}

	ThemeMinimal = Theme{
		Name:   "minimal",
		Title:  lipgloss.Color("#ffffff"),
		Label:  lipgloss.Color("#888888"),
		Value:  lipgloss.Color("#dddddd"),
		Muted:  lipgloss.Color("#555555"),
		Border: lipgloss.Color("#444444"),
		Graph:  lipgloss.Color("#0088ff"),
		Alert:  lipgloss.Color("#ff0000"),
	}

	ThemeCyberpunk = Theme{
		Name:   "cyberpunk",
		Title:  lipgloss.Color("#ff00ff"),
		Label:  lipgloss.Color("#00cccc"),
		Value:  lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#666666"),
		Border: lipgloss.Color("#444466"),
		Graph:  lipgloss.Color("#ffff00"),
		Alert:  lipgloss.Color("#ff4444"),
	}

	Themes = []Theme{ThemeBaize, ThemeMinimal, ThemeCyberpunk}
)

// GetTheme returns a theme by name, falling back to the first one.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

// NextTheme returns the theme after the named one, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
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
