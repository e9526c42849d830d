// Package core holds the cell, style and colour types shared by the
// renderer and its backends.
package core
