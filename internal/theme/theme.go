package theme

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// DefaultName is the theme used when no override is configured.
const DefaultName = "happy-light"

// Token names a semantic color slot.
type Token string

const (
	ColorTextPrimary Token = "text.primary"
	ColorTextMuted   Token = "text.muted"
	ColorBorder      Token = "border"
	ColorPrimary     Token = "primary"
	ColorPrimaryText Token = "primary.text"
	ColorAccent      Token = "accent"
	ColorSuccess     Token = "success"
	ColorWarning     Token = "warning"
	ColorDanger      Token = "danger"
	ColorDangerText  Token = "danger.text"
	ColorHighlight   Token = "highlight"
)

// Palette is a concrete theme. Colors hold hex values.
type Palette struct {
	Name        string
	DisplayName string
	Colors      map[Token]string
}

func (p Palette) Color(token Token) lipgloss.Color {
	if c, ok := p.Colors[token]; ok && c != "" {
		return lipgloss.Color(c)
	}
	return lipgloss.Color(defaultPalette().Colors[token])
}

func (p Palette) Foreground(token Token) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(p.Color(token))
}

// Dark reports whether the palette is meant for a dark background, judged by
// the lightness of its text color.
func (p Palette) Dark() bool {
	c, err := colorful.Hex(string(p.Color(ColorTextPrimary)))
	if err != nil {
		return false
	}
	l, _, _ := c.Lab()
	return l > 0.5
}

// Badge renders text on a token background with a readable foreground.
func (p Palette) Badge(token Token, text string) string {
	bg := string(p.Color(token))
	return lipgloss.NewStyle().
		Background(lipgloss.Color(bg)).
		Foreground(lipgloss.Color(contrastColor(bg))).
		Padding(0, 1).
		Render(text)
}

var (
	mu       sync.RWMutex
	registry = map[string]Palette{}
	order    []string
	current  string
)

func init() {
	for _, p := range []Palette{defaultPalette(), darkPalette(), monoPalette()} {
		registry[p.Name] = p
		order = append(order, p.Name)
	}
	current = DefaultName
}

// Available returns the registered theme names in registration order.
func Available() []string {
	mu.RLock()
	defer mu.RUnlock()
	return append([]string(nil), order...)
}

func Get(name string) (Palette, bool) {
	mu.RLock()
	defer mu.RUnlock()
	p, ok := registry[normalize(name)]
	return p, ok
}

func SetCurrent(name string) error {
	name = normalize(name)
	mu.Lock()
	defer mu.Unlock()
	if _, ok := registry[name]; !ok {
		names := append([]string(nil), order...)
		sort.Strings(names)
		return fmt.Errorf("unknown color theme %q, must be one of %v", name, names)
	}
	current = name
	return nil
}

func Current() Palette {
	mu.RLock()
	defer mu.RUnlock()
	return registry[current]
}

// Next returns the theme registered after name, wrapping around.
func Next(name string) Palette {
	mu.RLock()
	defer mu.RUnlock()
	name = normalize(name)
	for i, n := range order {
		if n == name {
			return registry[order[(i+1)%len(order)]]
		}
	}
	return registry[order[0]]
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Flag is a pflag.Value restricted to registered theme names.
type Flag struct {
	value string
}

func NewFlag(defaultValue string) *Flag {
	return &Flag{value: defaultValue}
}

func (f *Flag) String() string { return f.value }

func (f *Flag) Set(v string) error {
	if _, ok := Get(v); !ok {
		return fmt.Errorf("invalid value %q, must be one of %v", v, Available())
	}
	f.value = normalize(v)
	return nil
}

func (f *Flag) Type() string { return "string" }

// contrastColor picks near-black or near-white text for the given background.
func contrastColor(hex string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return "#121418"
	}
	r, g, b := c.LinearRgb()
	if 0.2126*r+0.7152*g+0.0722*b > 0.45 {
		return "#121418"
	}
	return "#F8F8F8"
}

// derive builds a palette from a handful of base colors. Muted text and
// highlight rows are blended from the text and surface colors.
func derive(name, display, text, surface, primary, accent, danger string) Palette {
	t, _ := colorful.Hex(text)
	s, _ := colorful.Hex(surface)
	return Palette{
		Name:        name,
		DisplayName: display,
		Colors: map[Token]string{
			ColorTextPrimary: text,
			ColorTextMuted:   t.BlendLab(s, 0.45).Clamped().Hex(),
			ColorBorder:      t.BlendLab(s, 0.75).Clamped().Hex(),
			ColorPrimary:     primary,
			ColorPrimaryText: contrastColor(primary),
			ColorAccent:      accent,
			ColorSuccess:     "#2E9E5B",
			ColorWarning:     "#E0A100",
			ColorDanger:      danger,
			ColorDangerText:  contrastColor(danger),
			ColorHighlight:   t.BlendLab(s, 0.9).Clamped().Hex(),
		},
	}
}

func defaultPalette() Palette {
	return derive(DefaultName, "Happy Light", "#1B1F3B", "#FFFFFF", "#4F46E5", "#F97316", "#DC2626")
}

func darkPalette() Palette {
	return derive("happy-dark", "Happy Dark", "#F1F5F9", "#0F172A", "#818CF8", "#FB923C", "#F87171")
}

func monoPalette() Palette {
	return derive("mono", "Monochrome", "#000000", "#FFFFFF", "#333333", "#777777", "#000000")
}
