package trajectory

import (
	"math"

	"github.com/san-kum/trackctl/internal/geom"
	"github.com/san-kum/trackctl/internal/vehicle"
)

// Projection is the vehicle pose expressed against the matched path sample.
type Projection struct {
	HeadingError float64 // vehicle yaw minus reference yaw, in (-π, π]
	LateralError float64 // signed distance, positive along the vehicle's left normal
	RefYaw       float64
	RefCurvature float64
	Index        int
}

// Analyzer matches vehicle states against a Path. The search cursor only
// moves forward: each call searches the samples from the last match to the
// end, so a vehicle that falls back along the path stays matched to the
// furthest sample reached so far.
type Analyzer struct {
	path   Path
	cursor int
}

func NewAnalyzer(path Path) *Analyzer {
	return &Analyzer{path: path}
}

func (a *Analyzer) Path() Path  { return a.path }
func (a *Analyzer) Cursor() int { return a.cursor }

// ProjectState finds the nearest sample at or after the cursor and returns
// the tracking errors against it. Ties resolve to the lowest index.
func (a *Analyzer) ProjectState(s *vehicle.State) (Projection, error) {
	end := a.path.Len()
	if a.cursor >= end {
		return Projection{}, ErrPathExhausted
	}

	best := a.cursor
	bestDist := math.Inf(1)
	for i := a.cursor; i < end; i++ {
		d := math.Hypot(s.X-a.path.X[i], s.Y-a.path.Y[i])
		if d < bestDist {
			best, bestDist = i, d
		}
	}

	dx := s.X - a.path.X[best]
	dy := s.Y - a.path.Y[best]
	nx, ny := geom.LeftNormal(s.Yaw)

	eCg := -bestDist
	if nx*dx+ny*dy > 0 {
		eCg = bestDist
	}

	a.cursor = best
	refYaw := a.path.Yaw[best]

	return Projection{
		HeadingError: geom.NormalizeAngle(s.Yaw - refYaw),
		LateralError: eCg,
		RefYaw:       refYaw,
		RefCurvature: a.path.K[best],
		Index:        best,
	}, nil
}
