// Package projection turns the unified table and a Selection into the point
// sets a renderer draws.
//
// Project is a pure function: it reads the table, never mutates the
// selection, keeps no state between calls and builds every RenderGroup
// fresh. Two calls with the same inputs return equal frames.
package projection
