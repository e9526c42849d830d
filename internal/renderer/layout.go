package renderer

import (
	"github.com/dshills/keypad/internal/renderer/core"
)

// layout places the screen regions. Hidden regions are empty rects.
type layout struct {
	width, height int

	menuBar  core.Rect
	tabBar   core.Rect
	editor   core.Rect
	devtools core.Rect
	message  core.Rect
	status   core.Rect
}

// devtoolsRows is the preferred height of the traffic panel.
const devtoolsRows = 10

// computeLayout stacks, top to bottom: menu bar, tab bar, editor, developer
// tools, message line and status bar. Full screen hides the two bars.
func computeLayout(width, height int, fullscreen, devtools bool) layout {
	l := layout{width: width, height: height}
	if width <= 0 || height <= 0 {
		return l
	}

	row := func(y int) core.Rect { return core.RectFromSize(y, 0, 1, width) }

	bottom := height
	bottom--
	l.status = row(bottom)
	if bottom > 1 {
		bottom--
		l.message = row(bottom)
	}

	top := 0
	if !fullscreen && bottom-top > 2 {
		l.menuBar = row(top)
		l.tabBar = row(top + 1)
		top += 2
	}

	if devtools && bottom-top > 4 {
		rows := min(devtoolsRows, (bottom-top)/2)
		bottom -= rows
		l.devtools = core.RectFromSize(bottom, 0, rows, width)
	}

	if bottom > top {
		l.editor = core.RectFromSize(top, 0, bottom-top, width)
	}
	return l
}
