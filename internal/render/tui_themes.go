package render

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// TUITheme is the palette used by the chat interface.
// User and Assistant color the two bubble kinds.
type TUITheme struct {
	Name        string
	Description string

	Surface lipgloss.Color
	Border  lipgloss.Color

	Assistant lipgloss.Color
	User      lipgloss.Color
	OnUser    lipgloss.Color
	Accent    lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color

	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color
}

var (
	// TokyoNightTheme is the default.
	TokyoNightTheme = TUITheme{
		Name:        "tokyonight",
		Description: "Tokyo Night - dark with blue accents",
		Surface:     lipgloss.Color("#24283b"),
		Border:      lipgloss.Color("#414868"),
		Assistant:   lipgloss.Color("#7aa2f7"),
		User:        lipgloss.Color("#3d59a1"),
		OnUser:      lipgloss.Color("#ffffff"),
		Accent:      lipgloss.Color("#bb9af7"),
		Warning:     lipgloss.Color("#e0af68"),
		Error:       lipgloss.Color("#f7768e"),
		Text:        lipgloss.Color("#c0caf5"),
		TextDim:     lipgloss.Color("#565f89"),
		TextMute:    lipgloss.Color("#3b4261"),
	}

	// ClassicTheme mirrors the blue-on-white web chat look.
	ClassicTheme = TUITheme{
		Name:        "classic",
		Description: "Classic - blue user bubbles, gray assistant bubbles",
		Surface:     lipgloss.Color("#f3f4f6"),
		Border:      lipgloss.Color("#d1d5db"),
		Assistant:   lipgloss.Color("#6b7280"),
		User:        lipgloss.Color("#3b82f6"),
		OnUser:      lipgloss.Color("#ffffff"),
		Accent:      lipgloss.Color("#2563eb"),
		Warning:     lipgloss.Color("#d97706"),
		Error:       lipgloss.Color("#dc2626"),
		Text:        lipgloss.Color("#1f2937"),
		TextDim:     lipgloss.Color("#6b7280"),
		TextMute:    lipgloss.Color("#9ca3af"),
	}

	CatppuccinMochaTheme = TUITheme{
		Name:        "catppuccin",
		Description: "Catppuccin Mocha - warm pastels",
		Surface:     lipgloss.Color("#313244"),
		Border:      lipgloss.Color("#45475a"),
		Assistant:   lipgloss.Color("#89b4fa"),
		User:        lipgloss.Color("#cba6f7"),
		OnUser:      lipgloss.Color("#1e1e2e"),
		Accent:      lipgloss.Color("#a6e3a1"),
		Warning:     lipgloss.Color("#f9e2af"),
		Error:       lipgloss.Color("#f38ba8"),
		Text:        lipgloss.Color("#cdd6f4"),
		TextDim:     lipgloss.Color("#6c7086"),
		TextMute:    lipgloss.Color("#45475a"),
	}

	NordTheme = TUITheme{
		Name:        "nord",
		Description: "Nord - arctic cool tones",
		Surface:     lipgloss.Color("#3b4252"),
		Border:      lipgloss.Color("#4c566a"),
		Assistant:   lipgloss.Color("#88c0d0"),
		User:        lipgloss.Color("#5e81ac"),
		OnUser:      lipgloss.Color("#eceff4"),
		Accent:      lipgloss.Color("#b48ead"),
		Warning:     lipgloss.Color("#ebcb8b"),
		Error:       lipgloss.Color("#bf616a"),
		Text:        lipgloss.Color("#eceff4"),
		TextDim:     lipgloss.Color("#7b88a1"),
		TextMute:    lipgloss.Color("#4c566a"),
	}
)

var (
	themeMu      sync.RWMutex
	currentTheme = TokyoNightTheme
)

// AvailableTUIThemes returns the built-in themes in display order.
func AvailableTUIThemes() []TUITheme {
	return []TUITheme{TokyoNightTheme, ClassicTheme, CatppuccinMochaTheme, NordTheme}
}

// TUIThemeNames returns the names of the built-in themes.
func TUIThemeNames() []string {
	themes := AvailableTUIThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}

// GetTUIThemeByName looks up a built-in theme.
func GetTUIThemeByName(name string) (TUITheme, bool) {
	for _, t := range AvailableTUIThemes() {
		if t.Name == name {
			return t, true
		}
	}
	return TUITheme{}, false
}

// GetTUITheme returns the active theme.
func GetTUITheme() TUITheme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTheme
}

// SetTUITheme activates the named theme. Unknown names fall back to the
// default and report false.
func SetTUITheme(name string) bool {
	theme, ok := GetTUIThemeByName(name)
	if !ok {
		theme = TokyoNightTheme
	}
	themeMu.Lock()
	currentTheme = theme
	themeMu.Unlock()
	return ok
}
