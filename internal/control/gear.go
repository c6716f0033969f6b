package control

import "github.com/san-kum/trackctl/internal/vehicle"

// gearLaw supplies the gear-specific parts of the lateral controller: the
// kinematic row of the state matrix and the feedforward steering term.
type gearLaw interface {
	kinematicRow(v float64) (a01, a02 float64)
	feedforward(p vehicle.Params, v, kRef, k02 float64) float64
}

type driveLaw struct{}

func (driveLaw) kinematicRow(v float64) (float64, float64) { return 1, 0 }

func (driveLaw) feedforward(p vehicle.Params, v, kRef, k02 float64) float64 {
	l, m := p.Wheelbase(), p.Mass()
	return l*kRef + p.UndersteerGradient()*v*v*kRef -
		k02*(p.RearToCG*kRef-p.FrontToCG*m*v*v*kRef/(2*p.RearCornering*l))
}

type reverseLaw struct{}

func (reverseLaw) kinematicRow(v float64) (float64, float64) { return 0, v }

func (reverseLaw) feedforward(p vehicle.Params, v, kRef, k02 float64) float64 {
	return p.Wheelbase() * kRef
}

func lawFor(g vehicle.Gear) gearLaw {
	if g == vehicle.Reverse {
		return reverseLaw{}
	}
	return driveLaw{}
}
