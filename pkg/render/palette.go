package render

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

// paletteHex runs from pink through green and cyan to a deep red, one entry
// per possible day of the month.
var paletteHex = [31]string{
	"#ff5ca9", "#ff6d6d", "#ff8942", "#ffa933", "#ffc938",
	"#eaff3b", "#c7ff49", "#a1ff57", "#7dff68", "#5aff7d",
	"#3aff98", "#25ffb7", "#16ffd6", "#10f2f2", "#1ddfff",
	"#3dc5ff", "#5fa9ff", "#7b8bff", "#936eff", "#a852ff",
	"#ba38ff", "#ca21ff", "#d80fff", "#e100f2", "#e900d1",
	"#ef00aa", "#f00084", "#ec005d", "#e1003a", "#ce0021",
	"#b10011",
}

var (
	// Palette holds the accent for each day, day 1 at index 0.
	Palette = mustParse(paletteHex[:])

	// Idle is the background of a cell that is not done.
	Idle = mustHex("#f3f3f3")

	// OnAccent is the foreground drawn on top of an accent.
	OnAccent = mustHex("#ffffff")
)

// Accent returns the color for day, reusing the palette cyclically.
func Accent(day int) colorful.Color {
	if day < 1 {
		return Idle
	}
	return Palette[(day-1)%len(Palette)]
}

func mustParse(hexes []string) []colorful.Color {
	out := make([]colorful.Color, len(hexes))
	for i, h := range hexes {
		out[i] = mustHex(h)
	}
	return out
}

func mustHex(h string) colorful.Color {
	c, err := colorful.Hex(h)
	if err != nil {
		panic(err)
	}
	return c
}
