// Package menu builds the application menu from a template, resolves
// accelerators and produces the descriptor tree the renderer draws.
package menu

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/dshills/keypad/internal/bridge"
)

// Menu errors.
var (
	ErrDuplicateID          = errors.New("duplicate menu id")
	ErrDuplicateAccelerator = errors.New("duplicate accelerator")
	ErrUnknownItem          = errors.New("unknown menu item")
)

// ItemType distinguishes normal items, separators and submenus.
type ItemType string

const (
	TypeNormal    ItemType = "normal"
	TypeSeparator ItemType = "separator"
	TypeSubmenu   ItemType = "submenu"
)

// Item is one menu entry.
type Item struct {
	ID           string
	Label        string
	Role         string
	Type         ItemType
	Accelerators []string
	Submenu      []Item
	Click        func(ctx context.Context)
}

// Template is the top-level menu bar.
type Template []Item

// Menu is a built template.
type Menu struct {
	items  []Item
	byID   map[string]*Item
	chords map[Chord]*Item
}

// Build assigns missing IDs and role defaults, validates IDs and
// accelerators, and indexes the result. The template is not modified.
func Build(tmpl Template) (*Menu, error) {
	m := &Menu{
		byID:   make(map[string]*Item),
		chords: make(map[Chord]*Item),
	}
	m.items = cloneItems(tmpl)
	if err := m.prepare(m.items, ""); err != nil {
		return nil, err
	}
	return m, nil
}

func cloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = it
		out[i].Accelerators = append([]string(nil), it.Accelerators...)
		out[i].Submenu = cloneItems(it.Submenu)
	}
	return out
}

func (m *Menu) prepare(items []Item, parent string) error {
	seps := 0
	for i := range items {
		it := &items[i]

		if def, ok := RoleDefaults[it.Role]; ok {
			if it.Label == "" {
				it.Label = def.Label
			}
			if len(it.Accelerators) == 0 {
				it.Accelerators = append([]string(nil), def.Accelerators...)
			}
		}

		switch {
		case it.Type != "":
		case len(it.Submenu) > 0:
			it.Type = TypeSubmenu
		default:
			it.Type = TypeNormal
		}

		if it.ID == "" {
			var name string
			if it.Type == TypeSeparator {
				seps++
				name = fmt.Sprintf("sep%d", seps)
			} else if it.Role != "" && parent != "" {
				name = it.Role
			} else if name = slug(it.Label); name == "" {
				name = it.Role
			}
			if parent != "" {
				name = parent + "." + name
			}
			it.ID = name
		}
		if it.ID == "" {
			return fmt.Errorf("menu item %d under %q has no label, role or id", i, parent)
		}
		if _, dup := m.byID[it.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateID, it.ID)
		}
		m.byID[it.ID] = it

		for _, acc := range it.Accelerators {
			chord, err := ParseAccelerator(acc)
			if err != nil {
				return fmt.Errorf("menu item %s: %w", it.ID, err)
			}
			if other, dup := m.chords[chord]; dup {
				return fmt.Errorf("%w: %s on %s and %s", ErrDuplicateAccelerator, chord, other.ID, it.ID)
			}
			m.chords[chord] = it
		}

		if err := m.prepare(it.Submenu, it.ID); err != nil {
			return err
		}
	}
	return nil
}

// slug turns "Save As..." into "save-as".
func slug(s string) string {
	var b strings.Builder
	dash, lower := false, false
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			if lower {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
			dash, lower = false, false
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash, lower = false, true
		default:
			if b.Len() > 0 && !dash {
				b.WriteByte('-')
				dash = true
			}
			lower = false
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// Items returns the built top-level items.
func (m *Menu) Items() []Item {
	return m.items
}

// Lookup returns the item with the given ID.
func (m *Menu) Lookup(id string) (Item, bool) {
	it, ok := m.byID[id]
	if !ok {
		return Item{}, false
	}
	return *it, true
}

// Match returns the item bound to chord.
func (m *Menu) Match(chord Chord) (Item, bool) {
	it, ok := m.chords[chord]
	if !ok {
		return Item{}, false
	}
	return *it, true
}

// Descriptors returns the serialisable menu tree.
func (m *Menu) Descriptors() []bridge.MenuDescriptor {
	return describe(m.items)
}

func describe(items []Item) []bridge.MenuDescriptor {
	if len(items) == 0 {
		return nil
	}
	out := make([]bridge.MenuDescriptor, len(items))
	for i, it := range items {
		d := bridge.MenuDescriptor{
			ID:      it.ID,
			Label:   it.Label,
			Role:    it.Role,
			Submenu: describe(it.Submenu),
		}
		if it.Type != TypeNormal {
			d.Type = string(it.Type)
		}
		for _, acc := range it.Accelerators {
			if c, err := ParseAccelerator(acc); err == nil {
				d.Accelerators = append(d.Accelerators, c.String())
			}
		}
		out[i] = d
	}
	return out
}
