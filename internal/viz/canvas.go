package viz

import (
	"math"
	"strings"

	"github.com/san-kum/gesturenav/internal/geom"
)

// Braille cells hold 2x4 dots:
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

const blank = 0x2800

// Canvas is a braille dot grid. Controller coordinates are dot
// coordinates, so one terminal cell is 2 units wide and 4 tall.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	text          map[[2]int]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		text:   make(map[[2]int]rune),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Viewport is the controller-space rectangle the canvas covers.
func (c *Canvas) Viewport() geom.Rect {
	return geom.Rect{Max: geom.V(float64(c.Width*2), float64(c.Height*4))}
}

// CellCenter maps a terminal cell to the dot at its center.
func CellCenter(col, row int) geom.Vec2 {
	return geom.V(float64(col*2)+1, float64(row*4)+2)
}

// Set turns on the dot at (x, y).
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) Unset(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] &^= rune(pixelMap[y%4][x%2])
	if c.Grid[row][col] < blank {
		c.Grid[row][col] = blank
	}
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
	clear(c.text)
}

func (c *Canvas) Point(p geom.Vec2) {
	c.Set(int(math.Round(p.X)), int(math.Round(p.Y)))
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

func (c *Canvas) Segment(a, b geom.Vec2) {
	c.DrawLine(
		int(math.Round(a.X)), int(math.Round(a.Y)),
		int(math.Round(b.X)), int(math.Round(b.Y)))
}

func (c *Canvas) Polyline(pts []geom.Vec2) {
	for i := 1; i < len(pts); i++ {
		c.Segment(pts[i-1], pts[i])
	}
	if len(pts) == 1 {
		c.Point(pts[0])
	}
}

// Ring draws a circle; dashed leaves every other arc step blank.
func (c *Canvas) Ring(center geom.Vec2, r float64, dashed bool) {
	steps := int(math.Max(16, 2*math.Pi*r/2))
	prev := center.Add(geom.V(r, 0))
	for i := 1; i <= steps; i++ {
		s, co := math.Sincos(2 * math.Pi * float64(i) / float64(steps))
		p := center.Add(geom.V(co*r, s*r))
		if !dashed || i%4 < 2 {
			c.Segment(prev, p)
		}
		prev = p
	}
}

// Disc fills a small circle, used for the handle.
func (c *Canvas) Disc(center geom.Vec2, r float64) {
	ri := int(math.Ceil(r))
	cx, cy := int(math.Round(center.X)), int(math.Round(center.Y))
	for dy := -ri; dy <= ri; dy++ {
		for dx := -ri; dx <= ri; dx++ {
			if float64(dx*dx+dy*dy) <= r*r {
				c.Set(cx+dx, cy+dy)
			}
		}
	}
}

// Text writes s into whole cells starting at the cell containing p. Text
// replaces dots in those cells.
func (c *Canvas) Text(p geom.Vec2, s string) {
	col, row := int(p.X)/2, int(p.Y)/4
	if row < 0 || row >= c.Height {
		return
	}
	for _, r := range s {
		if col >= 0 && col < c.Width {
			c.text[[2]int{col, row}] = r
		}
		col++
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for row, line := range c.Grid {
		for col, r := range line {
			if t, ok := c.text[[2]int{col, row}]; ok {
				r = t
			}
			b.WriteRune(r)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
