package renderer

import (
	"context"
	"fmt"

	"github.com/dshills/keypad/internal/bridge"
	"github.com/dshills/keypad/internal/menu"
	"github.com/dshills/keypad/internal/renderer/backend"
	"github.com/dshills/keypad/internal/textarea"
)

// wheelLines is how far one wheel notch scrolls.
const wheelLines = 3

// handleEvent processes one input event, then any queued bridge work.
func (a *App) handleEvent(ev backend.Event) {
	switch ev.Type {
	case backend.EventKey:
		a.handleKey(ev)
	case backend.EventMouse:
		a.handleMouse(ev)
	case backend.EventPaste:
		a.pasting = ev.PasteStart
		if ev.PasteStart {
			a.pasted.Reset()
		} else {
			a.endPaste()
		}
	case backend.EventResize:
		a.reveal = true
	}
	a.drain()
}

func (a *App) handleKey(ev backend.Event) {
	if a.prompts.active() {
		a.promptKey(ev)
		return
	}
	a.message.clear()

	if a.pasting {
		a.pasteKey(ev)
		return
	}

	if a.menus.isOpen() {
		a.menuKey(ev)
		return
	}

	c := ev.Chord
	if c != keyCloseTab {
		a.closeArmed = ""
	}
	switch c {
	case keyOpenMenu:
		a.menus.openMenu(0)
		return
	case keyCloseTab:
		a.closeActive()
		return
	case keyPrevTab:
		_ = a.ws.Prev()
		return
	case keyNextTab:
		_ = a.ws.Next()
		return
	}
	if id, ok := a.menus.match(c); ok {
		a.invoke(id)
		return
	}
	a.editKey(ev)
}

// pasteKey collects one key of a bracketed paste.
func (a *App) pasteKey(ev backend.Event) {
	switch ev.Chord.Key {
	case menu.KeyRune:
		r := ev.Rune
		if r == 0 {
			r = ev.Chord.Rune
		}
		a.pasted.WriteRune(r)
	case menu.KeyEnter:
		a.pasted.WriteByte('\n')
	case menu.KeyTab:
		a.pasted.WriteByte('\t')
	}
}

// endPaste inserts a finished paste as one edit, so one undo removes it.
func (a *App) endPaste() {
	text := a.pasted.String()
	a.pasted.Reset()
	tab := a.ws.Active()
	if tab == nil || text == "" {
		return
	}
	tab.Doc.InsertText(text)
	a.reveal = true
}

// menuKey drives an open dropdown.
func (a *App) menuKey(ev backend.Event) {
	switch ev.Chord.Key {
	case menu.KeyEscape, menu.KeyF10:
		a.menus.close()
	case menu.KeyLeft:
		a.menus.openMenu(a.menus.open - 1)
	case menu.KeyRight:
		a.menus.openMenu(a.menus.open + 1)
	case menu.KeyUp:
		a.menus.move(-1)
	case menu.KeyDown:
		a.menus.move(1)
	case menu.KeyEnter:
		it, ok := a.menus.selected()
		a.menus.close()
		if ok {
			a.invoke(it.ID)
		}
	}
}

// invoke asks the host to activate a menu item. Role items come back as
// edit-command messages.
func (a *App) invoke(id string) {
	a.send(string(bridge.ChannelMenuInvoke), func(ctx context.Context) error {
		return a.rend.InvokeMenu(ctx, id)
	})
}

// closeActive closes the active tab. A tab with unsaved changes needs the
// key twice.
func (a *App) closeActive() {
	tab := a.ws.Active()
	if tab == nil {
		return
	}
	if tab.Doc.Modified() && a.closeArmed != tab.ID {
		a.closeArmed = tab.ID
		a.message.set(fmt.Sprintf("%s has unsaved changes; press %s again to close it", tab.Name, keyCloseTab), bridge.StatusError)
		return
	}
	_ = a.ws.Close(a.ws.ActiveIndex())
}

// editKey sends a key to the widget of the active tab.
func (a *App) editKey(ev backend.Event) {
	tab := a.ws.Active()
	if tab == nil {
		return
	}
	doc := tab.Doc
	c := ev.Chord
	shift := c.Mods.Has(menu.ModShift)
	ctrl := c.Mods.Has(menu.ModCtrl)

	switch c.Key {
	case menu.KeyRune:
		if ctrl || c.Mods.Has(menu.ModAlt) || c.Mods.Has(menu.ModMeta) {
			return
		}
		r := ev.Rune
		if r == 0 {
			r = c.Rune
		}
		doc.InsertRune(r)
	case menu.KeyEnter:
		doc.Newline()
	case menu.KeyTab:
		if !shift {
			doc.Tab()
		}
	case menu.KeyBackspace:
		doc.Backspace()
	case menu.KeyDelete:
		doc.DeleteForward()
	case menu.KeyLeft:
		if ctrl {
			doc.Move(textarea.WordLeft, shift)
		} else {
			doc.Move(textarea.Left, shift)
		}
	case menu.KeyRight:
		if ctrl {
			doc.Move(textarea.WordRight, shift)
		} else {
			doc.Move(textarea.Right, shift)
		}
	case menu.KeyUp:
		doc.Move(textarea.Up, shift)
	case menu.KeyDown:
		doc.Move(textarea.Down, shift)
	case menu.KeyHome:
		if ctrl {
			doc.DocStart(shift)
		} else {
			doc.Home(shift)
		}
	case menu.KeyEnd:
		if ctrl {
			doc.DocEnd(shift)
		} else {
			doc.End(shift)
		}
	case menu.KeyPageUp:
		doc.PageUp(a.pageSize(), shift)
	case menu.KeyPageDown:
		doc.PageDown(a.pageSize(), shift)
	case menu.KeyEscape:
		doc.SetCursor(doc.Cursor())
	default:
		return
	}
	a.reveal = true
}

func (a *App) pageSize() int {
	return max(a.lay.editor.Height()-1, 1)
}

func (a *App) handleMouse(ev backend.Event) {
	if a.prompts.active() {
		return
	}
	x, y := ev.MouseX, ev.MouseY

	switch ev.Button {
	case backend.MouseWheelUp, backend.MouseWheelDown:
		if tab := a.ws.Active(); tab != nil && a.lay.editor.Contains(x, y) {
			delta := wheelLines
			if ev.Button == backend.MouseWheelUp {
				delta = -delta
			}
			a.view(tab).ScrollBy(delta)
		}
		return
	case backend.MouseNone:
		a.dragging = false
		return
	case backend.MouseLeft:
	default:
		return
	}

	if a.dragging {
		if tab := a.ws.Active(); tab != nil {
			tab.Doc.Select(a.dragAnchor, a.posAt(x, y))
			a.reveal = true
		}
		return
	}

	if a.menus.isOpen() {
		a.menuClick(x, y)
		return
	}
	switch {
	case a.lay.menuBar.Contains(x, y):
		if i, ok := a.menus.titleAt(x); ok {
			a.menus.openMenu(i)
		}
	case a.lay.tabBar.Contains(x, y):
		for _, h := range a.tabHits {
			if x >= h.left && x < h.right {
				_ = a.ws.SwitchTo(h.index)
				break
			}
		}
	case a.lay.editor.Contains(x, y):
		tab := a.ws.Active()
		if tab == nil {
			return
		}
		p := a.posAt(x, y)
		tab.Doc.SetCursor(p)
		a.dragAnchor = p
		a.dragging = true
	}
}

// menuClick handles a press while a dropdown is open.
func (a *App) menuClick(x, y int) {
	drop := a.menus.dropdownRect(a.lay.menuBar.Bottom, a.lay.width)
	if drop.Contains(x, y) {
		items := a.menus.items()
		i := y - drop.Top
		a.menus.close()
		if i >= 0 && i < len(items) && selectable(items[i]) {
			a.invoke(items[i].ID)
		}
		return
	}
	if a.lay.menuBar.Contains(x, y) {
		if i, ok := a.menus.titleAt(x); ok && i != a.menus.open {
			a.menus.openMenu(i)
			return
		}
	}
	a.menus.close()
}

// posAt converts a screen position in the editor to a document position
// using the rows of the last draw.
func (a *App) posAt(x, y int) textarea.Pos {
	tab := a.ws.Active()
	if tab == nil || len(a.rows) == 0 {
		return textarea.Pos{}
	}
	i := min(max(y-a.lay.editor.Top, 0), len(a.rows)-1)
	r := a.rows[i]
	if r.line < 0 {
		// Below the end of the document.
		last := tab.Doc.LineCount() - 1
		return textarea.Pos{Line: last, Col: len(tab.Doc.LineRunes(last))}
	}
	line := tab.Doc.LineRunes(r.line)
	end := min(r.end, len(line))
	start := min(r.start, end)
	seg := line[start:end]
	dx := max(x-a.textX, 0)
	col := start + runeColAt(seg, dx+r.scroll, tab.Doc.Options().TabSize)
	return textarea.Pos{Line: r.line, Col: col}
}
