package render

// Glamour standard style names accepted by Options.Style.
// Any other value is treated as a path to a JSON style file.
const (
	StyleDark       = "dark"
	StyleLight      = "light"
	StyleDracula    = "dracula"
	StyleTokyoNight = "tokyo-night"
	StylePink       = "pink"
	StyleNoTTY      = "notty"
	StyleASCII      = "ascii"
)

// styleAliases maps TUI theme names onto the closest glamour style.
var styleAliases = map[string]string{
	"tokyonight": StyleTokyoNight,
	"catppuccin": StyleDark,
	"nord":       StyleDark,
	"classic":    StyleLight,
	"plain":      StyleNoTTY,
}

// StyleInfo describes a markdown style for display purposes.
type StyleInfo struct {
	Name        string
	Description string
}

// AvailableStyles lists the built-in markdown styles.
func AvailableStyles() []StyleInfo {
	return []StyleInfo{
		{Name: StyleDark, Description: "Dark terminals (default)"},
		{Name: StyleLight, Description: "Light terminals"},
		{Name: StyleDracula, Description: "Dracula color scheme"},
		{Name: StyleTokyoNight, Description: "Tokyo Night color scheme"},
		{Name: StylePink, Description: "Pink accents"},
		{Name: StyleNoTTY, Description: "Plain text (no styling)"},
		{Name: StyleASCII, Description: "ASCII-only output"},
	}
}

// IsBuiltinStyle reports whether style names a built-in glamour style or alias.
func IsBuiltinStyle(style string) bool {
	if _, ok := styleAliases[style]; ok {
		return true
	}
	for _, s := range AvailableStyles() {
		if s.Name == style {
			return true
		}
	}
	return false
}

// ResolveStyle turns an alias into the glamour style name; other values pass through.
func ResolveStyle(style string) string {
	if style == "" {
		return StyleDark
	}
	if resolved, ok := styleAliases[style]; ok {
		return resolved
	}
	return style
}
