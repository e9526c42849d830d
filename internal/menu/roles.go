package menu

// Roles understood by the renderer. They carry no click handler on the
// host; activating one sends an edit-command with the role name.
const (
	RoleUndo             = "undo"
	RoleRedo             = "redo"
	RoleCut              = "cut"
	RoleCopy             = "copy"
	RolePaste            = "paste"
	RoleDelete           = "delete"
	RoleSelectAll        = "selectAll"
	RoleReload           = "reload"
	RoleForceReload      = "forceReload"
	RoleToggleDevTools   = "toggleDevTools"
	RoleResetZoom        = "resetZoom"
	RoleZoomIn           = "zoomIn"
	RoleZoomOut          = "zoomOut"
	RoleToggleFullScreen = "togglefullscreen"
	RoleHelp             = "help"
)

// RoleDefault is the label and accelerators a role item gets when the
// template leaves them empty.
type RoleDefault struct {
	Label        string
	Accelerators []string
}

// RoleDefaults lists the built-in roles.
var RoleDefaults = map[string]RoleDefault{
	RoleUndo:             {"Undo", []string{"CmdOrCtrl+Z"}},
	RoleRedo:             {"Redo", []string{"CmdOrCtrl+Y"}},
	RoleCut:              {"Cut", []string{"CmdOrCtrl+X"}},
	RoleCopy:             {"Copy", []string{"CmdOrCtrl+C"}},
	RolePaste:            {"Paste", []string{"CmdOrCtrl+V"}},
	RoleDelete:           {"Delete", nil},
	RoleSelectAll:        {"Select All", []string{"CmdOrCtrl+A"}},
	RoleReload:           {"Reload", []string{"CmdOrCtrl+R"}},
	RoleForceReload:      {"Force Reload", []string{"CmdOrCtrl+Shift+R"}},
	RoleToggleDevTools:   {"Toggle Developer Tools", []string{"CmdOrCtrl+Shift+I"}},
	RoleResetZoom:        {"Actual Size", []string{"CmdOrCtrl+0"}},
	RoleZoomIn:           {"Zoom In", []string{"CmdOrCtrl+Plus"}},
	RoleZoomOut:          {"Zoom Out", []string{"CmdOrCtrl+-"}},
	RoleToggleFullScreen: {"Toggle Full Screen", []string{"F11"}},
	RoleHelp:             {"Help", nil},
}

// IsEditRole reports whether role is handled by the renderer.
func IsEditRole(role string) bool {
	_, ok := RoleDefaults[role]
	return ok && role != RoleHelp
}
