package console

import "github.com/charmbracelet/lipgloss"

// Theme defines the console color scheme.
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
}

// Console palettes. Primary colors titles, Secondary state values, Accent the
// selected dataset, Muted borders and labels. Success and Warning mark
// filters that are on and off.
var (
	ThemeOcean = Theme{
		Name:      "ocean",
		Primary:   lipgloss.Color("#3a9bd9"),
		Secondary: lipgloss.Color("#7fd4e8"),
		Accent:    lipgloss.Color("#f2c14e"),
		Text:      lipgloss.Color("#dcecf7"),
		Muted:     lipgloss.Color("#4f7089"),
		Success:   lipgloss.Color("#5ad1a0"),
		Warning:   lipgloss.Color("#d98c5f"),
		Error:     lipgloss.Color("#e5534b"),
	}

	ThemeMinimal = Theme{
		Name:      "minimal",
		Primary:   lipgloss.Color("255"),
		Secondary: lipgloss.Color("252"),
		Accent:    lipgloss.Color("39"),
		Text:      lipgloss.Color("255"),
		Muted:     lipgloss.Color("242"),
		Success:   lipgloss.Color("114"),
		Warning:   lipgloss.Color("244"),
		Error:     lipgloss.Color("203"),
	}

	// ThemeSlate follows the grey-blue background and cool-to-warm accents
	// of the browser visualizer.
	ThemeSlate = Theme{
		Name:      "slate",
		Primary:   lipgloss.Color("#b4c7e7"),
		Secondary: lipgloss.Color("#e8e8e8"),
		Accent:    lipgloss.Color("#dd6b4d"),
		Text:      lipgloss.Color("#f0f0f0"),
		Muted:     lipgloss.Color("#6b7486"),
		Success:   lipgloss.Color("#7fb8e0"),
		Warning:   lipgloss.Color("#9a8f88"),
		Error:     lipgloss.Color("#c0392b"),
	}

	Themes = []Theme{ThemeOcean, ThemeMinimal, ThemeSlate}
)

// GetTheme returns a theme by name, falling back to ocean.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeOcean
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
