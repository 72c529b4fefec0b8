package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/arena/internal/dynamo"
)

var palette = []string{"#ff6b6b", "#feca57", "#48dbfb", "#1dd1a1", "#ff9ff3", "#54a0ff", "#c8d6e5"}

// TrajectoriesToSVG draws the arena square, one path per body through every
// frame, and each body's final circle at its radius. size is the side of
// the square image in pixels.
func TrajectoriesToSVG(frames []dynamo.Frame, arena dynamo.Arena, size int) string {
	if len(frames) == 0 || arena.Side <= 0 {
		return ""
	}

	scale := float64(size) / arena.Side
	half := arena.HalfSide()
	toPx := func(x, y float64) (float64, float64) {
		return (x + half) * scale, float64(size) - (y+half)*scale
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a" stroke="#444466" stroke-width="2"/>
`, size, size, size, size))

	n := len(frames[0].Bodies)
	for i := 0; i < n; i++ {
		color := palette[i%len(palette)]

		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1" stroke-opacity="0.6" d="`, color))
		for j, fr := range frames {
			if i >= len(fr.Bodies) {
				break
			}
			x, y := toPx(fr.Bodies[i].Position[0], fr.Bodies[i].Position[1])
			if j == 0 {
				sb.WriteString(fmt.Sprintf("M%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")

		last := frames[len(frames)-1]
		if i < len(last.Bodies) {
			b := last.Bodies[i]
			x, y := toPx(b.Position[0], b.Position[1])
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, x, y, b.Radius()*scale, color))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}
