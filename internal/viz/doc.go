// Package viz is the terminal host for the portal.
//
// Each generator draws into its own [Layer], a braille [Canvas] addressed
// in logical pixels. [Compose] stacks terrain, points and particles into
// the screen canvas, which [Canvas.Render] colors with the current
// [Theme]. [Model] is the Bubble Tea program around it:
//
//   - one coordinator frame per tick
//   - mouse motion and clicks forwarded as pointer input
//   - a Research view with the draggable concept graph
//
// # Key Bindings
//
//	Space - Pause/Resume the portal
//	Tab   - Next view (Shift+Tab previous)
//	P     - Back to the portal
//	R     - Regenerate the field, or reheat the graph
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
