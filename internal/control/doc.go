// Package control provides the tracking controllers that turn path errors
// into actuator commands:
//
//   - [Lateral]: LQR steering on a linearized bicycle model, with a
//     curvature feedforward term
//   - [Longitudinal]: proportional speed control with a braking override
//     near the goal
//
// # Usage
//
//	lat := control.NewLateral(control.DefaultLateralConfig())
//	lon := control.NewLongitudinal(control.DefaultLongitudinalConfig())
//	steer, err := lat.ComputeSteering(state, analyzer)
//	accel := lon.ComputeAcceleration(target, state, distToGoal)
//	state.UpdateState(steer.Angle, accel, steer.LateralError, steer.HeadingError, gear)
//
// The lateral gain is recomputed on every call because the model depends
// on speed. Controllers hold no per-tick state; the previous tick's errors
// live on the [vehicle.State].
package control
