package viz

import (
	"math"
	"strings"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800 // Empty braille char
		}
	}
	return c
}

// Set lights the dot at (x, y) in sub-pixel coordinates.
// The canvas size in sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	// Early bounds check for negative coordinates
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	subX := x % 2
	subY := y % 4

	c.Grid[row][col] |= rune(pixelMap[subY][subX])
}

// Unset clears a pixel
func (c *Canvas) Unset(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	subX := x % 2
	subY := y % 4

	mask := ^rune(pixelMap[subY][subX])
	c.Grid[row][col] &= mask
	if c.Grid[row][col] < 0x2800 {
		c.Grid[row][col] = 0x2800
	}
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Frame maps world coordinates in metres onto canvas sub-pixels with one
// scale for both axes, y pointing up.
type Frame struct {
	minX, minY float64
	scale      float64
	offX, offY float64
	h          int
}

// NewFrame fits the box [minX,maxX]x[minY,maxY] into c with a small margin.
func NewFrame(c *Canvas, minX, maxX, minY, maxY float64) Frame {
	cw, ch := float64(c.Width*2), float64(c.Height*4)
	rangeX := math.Max(maxX-minX, 1e-6)
	rangeY := math.Max(maxY-minY, 1e-6)

	scale := 0.9 * math.Min(cw/rangeX, ch/rangeY)
	return Frame{
		minX:  minX,
		minY:  minY,
		scale: scale,
		offX:  (cw - rangeX*scale) / 2,
		offY:  (ch - rangeY*scale) / 2,
		h:     c.Height * 4,
	}
}

func (f Frame) Project(x, y float64) (int, int) {
	px := f.offX + (x-f.minX)*f.scale
	py := float64(f.h) - 1 - (f.offY + (y-f.minY)*f.scale)
	return int(math.Round(px)), int(math.Round(py))
}

func (c *Canvas) Plot(f Frame, x, y float64) {
	px, py := f.Project(x, y)
	c.Set(px, py)
}

func (c *Canvas) Line(f Frame, x0, y0, x1, y1 float64) {
	ax, ay := f.Project(x0, y0)
	bx, by := f.Project(x1, y1)
	c.DrawLine(ax, ay, bx, by)
}
