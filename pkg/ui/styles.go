package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// ══════════════════════════════════════════════════════════════════════════════
// DESIGN TOKENS - Consistent spacing, colors, and visual language
// ══════════════════════════════════════════════════════════════════════════════

// Frame offsets of the widget box: one border cell plus one padding cell
// horizontally, one border row vertically.
const (
	frameLeft = 2
	frameTop  = 1
)

// ══════════════════════════════════════════════════════════════════════════════
// COLOR PALETTE - Dracula-inspired
// ══════════════════════════════════════════════════════════════════════════════

var (
	ColorBgSubtle    = lipgloss.Color("#363949")
	ColorBgHighlight = lipgloss.Color("#44475A")
	ColorText        = lipgloss.Color("#F8F8F2")
	ColorSubtext     = lipgloss.Color("#BFBFBF")
	ColorMuted       = lipgloss.Color("#6272A4")

	ColorPrimary   = lipgloss.Color("#BD93F9")
	ColorSecondary = lipgloss.Color("#6272A4")
	ColorSuccess   = lipgloss.Color("#50FA7B")
	ColorDanger    = lipgloss.Color("#FF5555")
)

// Theme carries the renderer and the adaptive colors the widget draws with
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Text      lipgloss.AdaptiveColor

	ChipFg   lipgloss.AdaptiveColor
	ChipBg   lipgloss.AdaptiveColor
	Selected lipgloss.AdaptiveColor
	Remove   lipgloss.AdaptiveColor
}

// DefaultTheme returns the widget theme for r; nil uses the default renderer
func DefaultTheme(r *lipgloss.Renderer) Theme {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return Theme{
		Renderer:  r,
		Primary:   lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: string(ColorPrimary)},
		Secondary: lipgloss.AdaptiveColor{Light: "#5A6A9C", Dark: string(ColorSecondary)},
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: string(ColorSubtext)},
		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: string(ColorBgHighlight)},
		Text:      lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: string(ColorText)},
		ChipFg:    lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: string(ColorText)},
		ChipBg:    lipgloss.AdaptiveColor{Light: "#E4DDFB", Dark: string(ColorBgSubtle)},
		Selected:  lipgloss.AdaptiveColor{Light: "#1E8A3C", Dark: string(ColorSuccess)},
		Remove:    lipgloss.AdaptiveColor{Light: "#C62828", Dark: string(ColorDanger)},
	}
}

func (t Theme) chipStyle() lipgloss.Style {
	return t.Renderer.NewStyle().
		Foreground(t.ChipFg).
		Background(t.ChipBg)
}

func (t Theme) overflowStyle() lipgloss.Style {
	return t.Renderer.NewStyle().
		Foreground(t.Primary).
		Bold(true)
}

func (t Theme) removeStyle() lipgloss.Style {
	return t.Renderer.NewStyle().
		Foreground(t.Remove).
		Background(t.ChipBg)
}

func (t Theme) placeholderStyle() lipgloss.Style {
	return t.Renderer.NewStyle().
		Foreground(t.Subtext).
		Italic(true)
}

func (t Theme) boxStyle(open bool) lipgloss.Style {
	border := t.Border
	if open {
		border = t.Primary
	}
	return t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)
}
