// Package viz is the live terminal view of a tracking run, built on Bubble
// Tea. The vehicle, its trail and the reference course are drawn on a
// Braille [Canvas]; the side panel shows the tracking errors with an
// asciigraph chart.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Restart the run
//	+/-   - Control ticks per frame
//	[ ]   - Replay back/forward
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
package viz
