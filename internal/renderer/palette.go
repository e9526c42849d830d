package renderer

import (
	"github.com/dshills/keypad/internal/bridge"
	"github.com/dshills/keypad/internal/renderer/core"
	"github.com/dshills/keypad/internal/textarea"
)

// Chrome colours used when the configuration leaves them empty.
var (
	defaultMenuBarColor   = core.Color{R: 0x3e, G: 0x3d, B: 0x32}
	defaultTabBarColor    = core.Color{R: 0x1e, G: 0x1f, B: 0x1c}
	defaultStatusBarColor = core.Color{R: 0x41, G: 0x43, B: 0x39}
	defaultEditorColor    = core.Color{R: 0x27, G: 0x28, B: 0x22}
	defaultTextColor      = core.Color{R: 0xf8, G: 0xf8, B: 0xf2}
)

type palette struct {
	text          core.Color
	background    core.Color
	lineHighlight core.Color
	lineNumber    core.Color
	selection     core.Color

	menuBar   core.Color
	tabBar    core.Color
	statusBar core.Color

	colors map[string]core.Color
}

func newPalette(cfg bridge.RendererConfig, theme textarea.Theme) palette {
	p := palette{
		text:       core.ParseColor(theme.Foreground, defaultTextColor),
		background: core.ParseColor(theme.Background, defaultEditorColor),
		menuBar:    core.ParseColor(cfg.MenuBarColor, defaultMenuBarColor),
		tabBar:     core.ParseColor(cfg.TabBarColor, defaultTabBarColor),
		statusBar:  core.ParseColor(cfg.StatusBarColor, defaultStatusBarColor),
		colors:     make(map[string]core.Color),
	}
	p.lineHighlight = core.ParseColor(theme.LineHighlight, p.background.Blend(p.text, 0.08))
	p.lineNumber = core.ParseColor(theme.LineNumber, p.background.Blend(p.text, 0.4))
	p.selection = p.background.Blend(p.text, 0.25)
	return p
}

// color parses a highlight colour, caching the result.
func (p palette) color(hex string) core.Color {
	if hex == "" {
		return p.text
	}
	if c, ok := p.colors[hex]; ok {
		return c
	}
	c := core.ParseColor(hex, p.text)
	p.colors[hex] = c
	return c
}

func (p palette) editor() core.Style {
	return core.Style{Foreground: p.text, Background: p.background}
}

func (p palette) menuStyle() core.Style {
	return core.Style{Foreground: p.menuBar.Contrast(), Background: p.menuBar}
}

func (p palette) menuSelected() core.Style {
	return p.menuStyle().Reverse()
}

func (p palette) tabStyle(active bool) core.Style {
	if active {
		return core.Style{Foreground: p.text, Background: p.background}.Bold()
	}
	return core.Style{Foreground: p.tabBar.Contrast().Blend(p.tabBar, 0.4), Background: p.tabBar}
}

func (p palette) statusStyle() core.Style {
	return core.Style{Foreground: p.statusBar.Contrast(), Background: p.statusBar}
}

func (p palette) messageStyle(isError bool) core.Style {
	s := p.editor()
	if isError {
		s.Foreground = core.ColorRed
		s = s.Bold()
	}
	return s
}

func (p palette) gutter(active bool) core.Style {
	s := core.Style{Foreground: p.lineNumber, Background: p.background}
	if active {
		s.Foreground = p.text
	}
	return s
}
