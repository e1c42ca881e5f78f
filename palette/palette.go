package palette

import (
	"fmt"
	"strings"
)

// RGB is an 8-bit color triple
type RGB struct {
	R uint8 `json:"r" yaml:"r"`
	G uint8 `json:"g" yaml:"g"`
	B uint8 `json:"b" yaml:"b"`
}

// Hex returns the color as an ffmpeg color literal, e.g. 0xFFA500
func (c RGB) Hex() string {
	return fmt.Sprintf("0x%02X%02X%02X", c.R, c.G, c.B)
}

// CSS returns the color as #RRGGBB, the form lipgloss expects
func (c RGB) CSS() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Fallback is returned for unknown color names
var Fallback = RGB{0, 0, 0}

var colors = map[string]RGB{
	"red":         {255, 0, 0},
	"green":       {0, 255, 0},
	"blue":        {0, 0, 255},
	"yellow":      {255, 255, 0},
	"orange":      {255, 165, 0},
	"purple":      {128, 0, 128},
	"black":       {0, 0, 0},
	"white":       {255, 255, 255},
	"gray":        {128, 128, 128},
	"pink":        {255, 192, 203},
	"brown":       {165, 42, 42},
	"cyan":        {0, 255, 255},
	"magenta":     {255, 0, 255},
	"lightblue":   {173, 216, 230},
	"lightgreen":  {144, 238, 144},
	"lightgray":   {211, 211, 211},
	"darkred":     {139, 0, 0},
	"darkgreen":   {0, 100, 0},
	"darkblue":    {0, 0, 139},
	"darkyellow":  {139, 139, 0},
	"darkorange":  {255, 140, 0},
	"darkpurple":  {75, 0, 130},
	"darkcyan":    {0, 139, 139},
	"darkmagenta": {139, 0, 139},
	"darkpink":    {255, 20, 147},
	"darkbrown":   {139, 69, 19},
	"darkgray":    {169, 169, 169},
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Lookup resolves a palette name. Unknown names resolve to Fallback.
func Lookup(name string) RGB {
	if c, ok := colors[normalize(name)]; ok {
		return c
	}
	return Fallback
}

// Known reports whether name is part of the palette
func Known(name string) bool {
	_, ok := colors[normalize(name)]
	return ok
}
