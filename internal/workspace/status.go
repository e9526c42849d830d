package workspace

import "fmt"

// NoFileOpen is shown in place of a file name when no tab is open.
const NoFileOpen = "No file open"

// Status is the content of the status bar.
type Status struct {
	FileInfo string
	Cursor   string
	Mode     string
	Modified bool
}

// CursorText formats a zero-based position as "Ln: L, Col: C", one-based.
func CursorText(line, col int) string {
	return fmt.Sprintf("Ln: %d, Col: %d", line+1, col+1)
}

// StatusBar describes the active tab. With no tab open the cursor reads
// as the start of an empty document.
func (m *Manager) StatusBar() Status {
	tab := m.Active()
	if tab == nil {
		return Status{FileInfo: NoFileOpen, Cursor: CursorText(0, 0)}
	}
	c := tab.Doc.Cursor()
	return Status{
		FileInfo: tab.Name,
		Cursor:   CursorText(c.Line, c.Col),
		Mode:     tab.Doc.Mode().String(),
		Modified: tab.Doc.Modified(),
	}
}
