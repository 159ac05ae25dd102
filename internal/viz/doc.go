// Package viz is the terminal frontend.
//
// The table is drawn with upper half blocks so each terminal cell shows two
// pixels, and terminal mouse events are mapped back to table coordinates so
// balls can be dragged and recolored exactly as in the window frontend.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Reset the table
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	Q     - Quit
//
// With the color panel open, Left/Right cycle swatches, hex digits followed
// by Enter set an exact color and Esc closes the panel.
package viz
