package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/piwi3910/backpack/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
)

type point struct {
	X, Y float64
}

// shape is a closed outline in drawing units.
type shape []point

func (s shape) bounds() (min, max point) {
	min = point{math.Inf(1), math.Inf(1)}
	max = point{math.Inf(-1), math.Inf(-1)}
	for _, p := range s {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}
	return min, max
}

func (s shape) area() float64 {
	n := len(s)
	if n < 3 {
		return 0
	}
	var a float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		a += s[i].X*s[j].Y - s[j].X*s[i].Y
	}
	return math.Abs(a) / 2
}

// segment is a line between two points, used for chaining loose LINE and
// ARC entities into closed outlines.
type segment struct {
	start, end point
}

// ImportDXF imports templates from a DXF drawing. Each closed shape
// (LWPOLYLINE, CIRCLE, or chain of connected LINEs/ARCs) becomes a template
// whose footprint is its bounding box measured in units of cellSize
// drawing units, rounded to the nearest whole cell.
func ImportDXF(path string, cellSize float64) ImportResult {
	result := ImportResult{}
	if cellSize <= 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid cell size %g", cellSize))
		return result
	}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var shapes []shape
	var segments []segment
	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			s := lwPolylineToShape(e)
			if len(s) >= 3 {
				shapes = append(shapes, s)
			} else {
				result.Warnings = append(result.Warnings, "Skipped LWPOLYLINE with fewer than 3 vertices")
			}
		case *entity.Circle:
			shapes = append(shapes, circleToShape(e, 32))
		case *entity.Arc:
			pts := arcToPoints(e, 16)
			for i := 0; i < len(pts)-1; i++ {
				segments = append(segments, segment{pts[i], pts[i+1]})
			}
		case *entity.Line:
			segments = append(segments, segment{
				start: point{e.Start[0], e.Start[1]},
				end:   point{e.End[0], e.End[1]},
			})
		}
	}
	shapes = append(shapes, chainSegments(segments, 0.01)...)

	if len(shapes) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	for i, s := range shapes {
		min, max := s.bounds()
		w := int(math.Round((max.X - min.X) / cellSize))
		h := int(math.Round((max.Y - min.Y) / cellSize))
		if w < 1 || h < 1 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped shape %d smaller than one cell (%.2f x %.2f)", i+1, max.X-min.X, max.Y-min.Y))
			continue
		}
		result.Templates = append(result.Templates, model.NewTemplate(fmt.Sprintf("DXF Item %d", len(result.Templates)+1), w, h))
	}

	return result
}

// lwPolylineToShape converts a LWPOLYLINE to a shape. Bulged vertices are
// expanded into arc points so the bounding box covers the curve.
func lwPolylineToShape(lw *entity.LwPolyline) shape {
	var s shape
	for i, v := range lw.Vertices {
		cur := point{v[0], v[1]}
		bulge := 0.0
		if i < len(lw.Bulges) {
			bulge = lw.Bulges[i]
		}
		if math.Abs(bulge) < 1e-9 {
			s = append(s, cur)
			continue
		}
		nv := lw.Vertices[(i+1)%len(lw.Vertices)]
		arc := bulgeArcPoints(cur, point{nv[0], nv[1]}, bulge, 16)
		s = append(s, arc[:len(arc)-1]...)
	}
	return s
}

// bulgeArcPoints generates points along an arc defined by two endpoints and a
// DXF bulge factor (tangent of a quarter of the included angle).
func bulgeArcPoints(p1, p2 point, bulge float64, n int) []point {
	mx, my := (p1.X+p2.X)/2, (p1.Y+p2.Y)/2
	dx, dy := p2.X-p1.X, p2.Y-p1.Y
	chord := math.Hypot(dx, dy)
	if chord < 1e-9 {
		return []point{p1, p2}
	}

	sagitta := math.Abs(bulge) * chord / 2
	radius := (chord*chord/(4*sagitta) + sagitta) / 2

	perpX, perpY := -dy/chord, dx/chord
	if bulge > 0 {
		perpX, perpY = -perpX, -perpY
	}
	dist := radius - sagitta
	cx, cy := mx+perpX*dist, my+perpY*dist

	start := math.Atan2(p1.Y-cy, p1.X-cx)
	end := math.Atan2(p2.Y-cy, p2.X-cx)
	if bulge < 0 && end > start {
		end -= 2 * math.Pi
	} else if bulge > 0 && end < start {
		end += 2 * math.Pi
	}

	pts := make([]point, n+1)
	for i := 0; i <= n; i++ {
		a := start + float64(i)/float64(n)*(end-start)
		pts[i] = point{cx + radius*math.Cos(a), cy + radius*math.Sin(a)}
	}
	return pts
}

// circleToShape approximates a circle as a regular polygon.
func circleToShape(c *entity.Circle, n int) shape {
	s := make(shape, n)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		s[i] = point{c.Center[0] + c.Radius*math.Cos(a), c.Center[1] + c.Radius*math.Sin(a)}
	}
	return s
}

// arcToPoints converts a DXF ARC entity to a series of points.
func arcToPoints(a *entity.Arc, n int) []point {
	cx, cy, r := a.Circle.Center[0], a.Circle.Center[1], a.Circle.Radius
	start := a.Angle[0] * math.Pi / 180
	end := a.Angle[1] * math.Pi / 180
	if end <= start {
		end += 2 * math.Pi
	}
	pts := make([]point, n+1)
	for i := 0; i <= n; i++ {
		ang := start + float64(i)/float64(n)*(end-start)
		pts[i] = point{cx + r*math.Cos(ang), cy + r*math.Sin(ang)}
	}
	return pts
}

// chainSegments connects segments whose endpoints lie within tolerance into
// closed shapes, largest first. Open chains are dropped.
func chainSegments(segs []segment, tolerance float64) []shape {
	used := make([]bool, len(segs))
	var shapes []shape

	for startIdx := range segs {
		if used[startIdx] {
			continue
		}
		used[startIdx] = true
		chain := shape{segs[startIdx].start, segs[startIdx].end}

		for extended := true; extended; {
			extended = false
			tail := chain[len(chain)-1]
			for i, seg := range segs {
				if used[i] {
					continue
				}
				switch {
				case near(tail, seg.start, tolerance):
					chain = append(chain, seg.end)
				case near(tail, seg.end, tolerance):
					chain = append(chain, seg.start)
				default:
					continue
				}
				used[i] = true
				extended = true
				break
			}
		}

		if len(chain) >= 4 && near(chain[0], chain[len(chain)-1], tolerance) {
			shapes = append(shapes, chain[:len(chain)-1])
		}
	}

	sort.SliceStable(shapes, func(i, j int) bool {
		return shapes[i].area() > shapes[j].area()
	})
	return shapes
}

func near(a, b point, tolerance float64) bool {
	return math.Hypot(a.X-b.X, a.Y-b.Y) <= tolerance
}
