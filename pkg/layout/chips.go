// Package layout decides how many selected items fit in the widget's field
// before the rest collapse into a "+N" marker.
//
// Widths are estimated, not measured: each label costs its display width times
// an average character width plus a fixed padding.
package layout

import (
	"strconv"
	"strings"

	"github.com/Dicklesworthstone/chipselect/pkg/model"

	"github.com/mattn/go-runewidth"
)

// Metrics are the constants of the width estimate
type Metrics struct {
	CharWidth      int // average width of one character
	Padding        int // fixed cost per chip
	ReservedMargin int // space kept free at the end of the container
}

var (
	// PixelMetrics estimate in pixels for a proportional font
	PixelMetrics = Metrics{CharWidth: 8, Padding: 16, ReservedMargin: 50}

	// CellMetrics estimate in terminal cells for a chip rendered as "label ×"
	// followed by one gap cell, keeping room for the caret and the "+N" marker.
	CellMetrics = Metrics{CharWidth: 1, Padding: 3, ReservedMargin: 6}
)

// LabelSeparator joins chip labels in summaries
const LabelSeparator = ", "

// EstimateWidth returns the estimated rendered width of one chip
func EstimateWidth(label string, m Metrics) int {
	return runewidth.StringWidth(label)*m.CharWidth + m.Padding
}

// ComputeChips walks selected in order and keeps chips while their running
// width stays within width - ReservedMargin. Excluded items collapse into one
// trailing hidden chip labelled "+N". An unknown width (<= 0) or an empty
// selection yields nil.
func ComputeChips(selected []model.Option, width int, m Metrics) []model.Chip {
	if width <= 0 || len(selected) == 0 {
		return nil
	}

	budget := width - m.ReservedMargin
	used := 0
	chips := make([]model.Chip, 0, len(selected)+1)
	for _, opt := range selected {
		w := EstimateWidth(opt.Label, m)
		if used+w > budget {
			break
		}
		chips = append(chips, model.Chip{Option: opt})
		used += w
	}

	if hidden := len(selected) - len(chips); hidden > 0 {
		chips = append(chips, OverflowChip(hidden))
	}
	return chips
}

// OverflowChip builds the synthetic "+N" marker
func OverflowChip(n int) model.Chip {
	return model.Chip{
		Option:   model.Option{Label: "+" + strconv.Itoa(n)},
		Hidden:   true,
		Overflow: n,
	}
}

// SingleChip returns the one chip of a single-mode selection, or nil.
// No width estimate applies.
func SingleChip(selected *model.Option) []model.Chip {
	if selected == nil {
		return nil
	}
	return []model.Chip{{Option: *selected}}
}

// Labels joins the chip labels, the overflow marker included
func Labels(chips []model.Chip) string {
	parts := make([]string, 0, len(chips))
	for _, c := range chips {
		if c.Option.Label == "" {
			continue
		}
		parts = append(parts, c.Option.Label)
	}
	return strings.Join(parts, LabelSeparator)
}

// Summary returns the joined labels, or placeholder when there is nothing to show
func Summary(chips []model.Chip, placeholder string) string {
	if s := Labels(chips); s != "" {
		return s
	}
	return placeholder
}

// Visible counts the chips that are not the overflow marker
func Visible(chips []model.Chip) int {
	n := 0
	for _, c := range chips {
		if !c.Hidden {
			n++
		}
	}
	return n
}
