package ui

import (
	"fmt"
	"strconv"
	"strings"
)

// paletteColors is the drawing palette, cycled with [ and ].
var paletteColors = []uint32{
	0xFF4500, // orange red
	0xFFD635, // yellow
	0x00A368, // green
	0x7EED56, // light green
	0x2450A4, // dark blue
	0x3690EA, // blue
	0x51E9F4, // cyan
	0x811E9F, // purple
	0xB44AC0, // magenta
	0xFF99AA, // pink
	0x9C6926, // brown
	0x000000, // black
	0x898D90, // gray
	0xD4D7D9, // light gray
	0xFFFFFF, // white
}

// nextColor returns the palette entry after c, or the first entry when c is
// not in the palette.
func nextColor(c uint32) uint32 {
	for i, pc := range paletteColors {
		if pc == c {
			return paletteColors[(i+1)%len(paletteColors)]
		}
	}
	return paletteColors[0]
}

// prevColor returns the palette entry before c.
func prevColor(c uint32) uint32 {
	for i, pc := range paletteColors {
		if pc == c {
			return paletteColors[(i+len(paletteColors)-1)%len(paletteColors)]
		}
	}
	return paletteColors[0]
}

// hexColor formats a packed RGB value as "#RRGGBB".
func hexColor(c uint32) string {
	return fmt.Sprintf("#%06X", c&0xFFFFFF)
}

// ParseColor reads "#RRGGBB" (case-insensitive, # optional) into a packed
// RGB value.
func ParseColor(s string) (uint32, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, false
	}
	return uint32(v), true
}
