package bridge

// FileOpened carries a file the host has read.
type FileOpened struct {
	FilePath string `json:"filePath"`
	Content  string `json:"content"`
}

// FileSave asks the renderer for the active document's content.
type FileSave struct {
	FilePath string `json:"filePath"`
}

// SaveContent is the renderer's reply to FileSave.
type SaveContent struct {
	FilePath string `json:"filePath"`
	Content  string `json:"content"`
}

// SaveResult acknowledges a SaveContent. Error is empty on success.
type SaveResult struct {
	FilePath string `json:"filePath"`
	Error    string `json:"error,omitempty"`
}

// EditCommand asks the renderer to run an edit or view role.
type EditCommand struct {
	Role string `json:"role"`
}

// MenuDescriptor is the serialisable form of a menu item.
type MenuDescriptor struct {
	ID           string           `json:"id"`
	Label        string           `json:"label,omitempty"`
	Role         string           `json:"role,omitempty"`
	Type         string           `json:"type,omitempty"`
	Accelerators []string         `json:"accelerators,omitempty"`
	Submenu      []MenuDescriptor `json:"submenu,omitempty"`
}

// MenuSet installs the application menu.
type MenuSet struct {
	Menus []MenuDescriptor `json:"menus"`
}

// MenuInvoke reports that the user activated a menu item.
type MenuInvoke struct {
	ID string `json:"id"`
}

// Dialog kinds.
const (
	DialogOpen    = "open"
	DialogSave    = "save"
	DialogMessage = "message"
)

// Filter restricts a file dialog to a set of extensions.
type Filter struct {
	Name       string   `json:"name"`
	Extensions []string `json:"extensions"`
}

// DialogRequest asks the renderer to prompt the user.
type DialogRequest struct {
	ID          string   `json:"id"`
	Kind        string   `json:"kind"`
	Title       string   `json:"title,omitempty"`
	Message     string   `json:"message,omitempty"`
	Detail      string   `json:"detail,omitempty"`
	DefaultPath string   `json:"defaultPath,omitempty"`
	Filters     []Filter `json:"filters,omitempty"`
}

// DialogResponse answers a DialogRequest with the same ID.
type DialogResponse struct {
	ID       string `json:"id"`
	Canceled bool   `json:"canceled"`
	FilePath string `json:"filePath,omitempty"`
}

// ActiveChanged reports the path of the newly active tab, empty when the
// tab is untitled or no tab is open.
type ActiveChanged struct {
	FilePath string `json:"filePath"`
}

// Status levels.
const (
	StatusInfo  = "info"
	StatusError = "error"
)

// StatusMessage is a transient notice for the status area.
type StatusMessage struct {
	Text  string `json:"text"`
	Level string `json:"level"`
}

// RendererConfig is the part of the configuration the renderer needs.
type RendererConfig struct {
	Theme             string `json:"theme"`
	TabSize           int    `json:"tabSize"`
	IndentWithTabs    bool   `json:"indentWithTabs"`
	LineNumbers       bool   `json:"lineNumbers"`
	AutoCloseBrackets bool   `json:"autoCloseBrackets"`
	MatchBrackets     bool   `json:"matchBrackets"`
	StyleActiveLine   bool   `json:"styleActiveLine"`
	LineWrapping      bool   `json:"lineWrapping"`

	MenuBarColor   string `json:"menuBarColor,omitempty"`
	TabBarColor    string `json:"tabBarColor,omitempty"`
	StatusBarColor string `json:"statusBarColor,omitempty"`

	// Modes maps a file extension, without the dot, to an editor mode.
	Modes map[string]string `json:"modes,omitempty"`
}

type empty struct{}
