package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/trackctl/internal/sim"
	"github.com/san-kum/trackctl/internal/trajectory"
)

type Point struct {
	X, Y float64
}

func FromPath(p trajectory.Path) []Point {
	pts := make([]Point, p.Len())
	for i := range pts {
		pts[i] = Point{X: p.X[i], Y: p.Y[i]}
	}
	return pts
}

func FromSamples(samples []sim.Sample) []Point {
	pts := make([]Point, len(samples))
	for i, s := range samples {
		pts[i] = Point{X: s.X, Y: s.Y}
	}
	return pts
}

type bounds struct {
	minX, maxX, minY, maxY float64
}

func boundsOf(sets ...[]Point) bounds {
	b := bounds{math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)}
	for _, pts := range sets {
		for _, p := range pts {
			b.minX = math.Min(b.minX, p.X)
			b.maxX = math.Max(b.maxX, p.X)
			b.minY = math.Min(b.minY, p.Y)
			b.maxY = math.Max(b.maxY, p.Y)
		}
	}

	// Add padding
	rangeX := b.maxX - b.minX
	rangeY := b.maxY - b.minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	b.minX -= rangeX * 0.1
	b.maxX += rangeX * 0.1
	b.minY -= rangeY * 0.1
	b.maxY += rangeY * 0.1
	return b
}

// TrajectorySVG draws the reference path and the driven trajectory on a
// shared, equally padded frame. Returns "" when both are shorter than two
// points.
func TrajectorySVG(ref, driven []Point, width, height int) string {
	if len(ref) < 2 && len(driven) < 2 {
		return ""
	}

	b := boundsOf(ref, driven)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	writePolyline(&sb, ref, b, width, height, "#555555", "4,3")
	writePolyline(&sb, driven, b, width, height, "#00ff00", "")

	sb.WriteString("</svg>")
	return sb.String()
}

func writePolyline(sb *strings.Builder, pts []Point, b bounds, width, height int, stroke, dash string) {
	if len(pts) < 2 {
		return
	}

	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5"`, stroke))
	if dash != "" {
		sb.WriteString(fmt.Sprintf(` stroke-dasharray="%s"`, dash))
	}
	sb.WriteString(` d="M`)

	rangeX := b.maxX - b.minX
	rangeY := b.maxY - b.minY
	for i, p := range pts {
		x := (p.X - b.minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-b.minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	sb.WriteString("\"/>\n")
}
