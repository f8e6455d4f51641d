package scene

import "strings"

type colorRule struct {
	pattern string
	color   string
}

type transparencyRule struct {
	pattern string
	percent int
}

// ColorTable assigns display colours and transparency to volumes by
// substring match on their names. The first matching rule wins.
type ColorTable struct {
	colors       []colorRule
	transparency []transparencyRule
}

// NewColorTable returns an empty table.
func NewColorTable() *ColorTable {
	return &ColorTable{}
}

// AddColor assigns a "#rrggbb" colour to every volume whose name contains
// pattern.
func (c *ColorTable) AddColor(pattern, color string) {
	c.colors = append(c.colors, colorRule{pattern: pattern, color: color})
}

// AddTransparency assigns a transparency percentage (0 opaque, 100
// invisible) to every volume whose name contains pattern.
func (c *ColorTable) AddTransparency(pattern string, percent int) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	c.transparency = append(c.transparency, transparencyRule{pattern: pattern, percent: percent})
}

// Color returns the colour for a volume name.
func (c *ColorTable) Color(name string) (string, bool) {
	for _, r := range c.colors {
		if strings.Contains(name, r.pattern) {
			return r.color, true
		}
	}
	return "", false
}

// Transparency returns the transparency percentage for a volume name, 0 if
// no rule matches.
func (c *ColorTable) Transparency(name string) int {
	for _, r := range c.transparency {
		if strings.Contains(name, r.pattern) {
			return r.percent
		}
	}
	return 0
}
