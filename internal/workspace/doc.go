// Package workspace tracks the renderer's open tabs.
//
// Each Tab owns its own textarea.Area, so switching tabs never copies
// content between documents. The Manager keeps the tab order and the
// active index (-1 when no tab is open) and reports every change through
// OnChange so the renderer can tell the host which file is active.
//
// File names are derived from paths on either separator, since the
// renderer never touches the filesystem and cannot ask it.
package workspace
