package tui

import "strings"

// canvas is a fixed-size grid of terminal cells, each with a rune and a
// paint. Writes outside the canvas are dropped.
type canvas struct {
	w, h   int
	runes  [][]rune
	paints [][]paint
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, runes: make([][]rune, h), paints: make([][]paint, h)}
	for y := 0; y < h; y++ {
		c.runes[y] = []rune(strings.Repeat(" ", w))
		c.paints[y] = make([]paint, w)
	}
	return c
}

func (c *canvas) set(x, y int, r rune, p paint) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.runes[y][x] = r
	c.paints[y][x] = p
}

func (c *canvas) fill(x, y, w, h int, p paint) {
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			c.set(x+dx, y+dy, ' ', p)
		}
	}
}

// text writes s starting at (x, y), keeping the paint already under each
// cell when p is paintNone.
func (c *canvas) text(x, y int, s string, p paint) {
	for i, r := range []rune(s) {
		under := p
		if p == paintNone && y >= 0 && y < c.h && x+i >= 0 && x+i < c.w {
			under = c.paints[y][x+i]
		}
		c.set(x+i, y, r, under)
	}
}

// render styles each run of equal paint once.
func (c *canvas) render() string {
	var b strings.Builder
	for y := 0; y < c.h; y++ {
		start := 0
		for x := 1; x <= c.w; x++ {
			if x < c.w && c.paints[y][x] == c.paints[y][start] {
				continue
			}
			run := string(c.runes[y][start:x])
			if p := c.paints[y][start]; p == paintNone {
				b.WriteString(run)
			} else {
				b.WriteString(paints[p].Render(run))
			}
			start = x
		}
		if y < c.h-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// plain returns the canvas text without styling.
func (c *canvas) plain() string {
	lines := make([]string, c.h)
	for y := range lines {
		lines[y] = strings.TrimRight(string(c.runes[y]), " ")
	}
	return strings.Join(lines, "\n")
}
