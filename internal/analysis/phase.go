package analysis

import (
	"strings"

	"github.com/san-kum/arena/internal/dynamo"
)

type Point struct{ X, Y float64 }

// PhasePortrait holds position against velocity of one body along one axis.
type PhasePortrait struct {
	Body, Axis int
	Points     []Point
}

// NewPhasePortrait collects the phase trajectory of body along axis (0 is x,
// 1 is y) from recorded frames.
func NewPhasePortrait(frames []dynamo.Frame, body, axis int) *PhasePortrait {
	p := &PhasePortrait{Body: body, Axis: axis, Points: make([]Point, 0, len(frames))}
	for _, fr := range frames {
		if body >= len(fr.Bodies) {
			continue
		}
		b := fr.Bodies[body]
		p.Points = append(p.Points, Point{X: b.Position[axis], Y: b.Velocity[axis]})
	}
	return p
}

// ASCII renders the portrait on a width by height character grid with the
// zero axes drawn where they are visible.
func (p *PhasePortrait) ASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := p.Points[0].X, p.Points[0].X
	minY, maxY := p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points {
		minX, maxX = min(minX, pt.X), max(maxX, pt.X)
		minY, maxY = min(minY, pt.Y), max(maxY, pt.Y)
	}

	// 10% padding each side
	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	col := func(x float64) int { return int((x - minX) / rangeX * float64(width-1)) }
	row := func(y float64) int { return height - 1 - int((y-minY)/rangeY*float64(height-1)) }

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	if c := col(0); minX <= 0 && c >= 0 && c < width {
		for r := range grid {
			grid[r][c] = '│'
		}
	}
	if r := row(0); minY <= 0 && r >= 0 && r < height {
		for c := range grid[r] {
			if grid[r][c] == '│' {
				grid[r][c] = '┼'
			} else {
				grid[r][c] = '─'
			}
		}
	}

	for _, pt := range p.Points {
		r, c := row(pt.Y), col(pt.X)
		if r >= 0 && r < height && c >= 0 && c < width {
			grid[r][c] = '•'
		}
	}

	var sb strings.Builder
	for _, r := range grid {
		sb.WriteString(string(r))
		sb.WriteByte('\n')
	}
	return sb.String()
}
