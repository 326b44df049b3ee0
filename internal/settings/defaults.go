package settings

import "path/filepath"

// NewDefaultManager returns a Manager pre-registered with the settings
// named in the persisted-state schema, each grounded on its upstream
// declaration (name, short description, options, and default value) from
// history_db.cpp, tab_completer.cpp, file_match_generator.cpp,
// win_terminal_in.cpp, and host.cpp.
func NewDefaultManager() *Manager {
	m := NewManager()

	m.Register(NewBool("history.shared", "Share history between instances", false))
	m.Register(NewBool("history.ignore_space", "Skip adding lines prefixed with whitespace", true))
	m.Register(NewEnum("history.dupe_mode", "Controls how duplicate entries are handled",
		[]string{"add", "ignore", "erase_prev"}, 2))
	m.Register(NewEnum("history.expand_mode", "Sets how command history expansion is applied",
		[]string{"off", "on", "not_squoted", "not_dquoted", "not_quoted"}, 4))

	m.Register(NewEnum("match.ignore_case", "Case insensitive matching",
		[]string{"off", "on", "relaxed"}, 2))
	m.Register(NewInt("match.query_threshold", "Ask if no. matches > threshold", 100))
	m.Register(NewBool("match.vertical", "Display matches vertically", true))
	m.Register(NewInt("match.column_pad", "Space between columns", 2))
	m.Register(NewInt("match.max_width", "Maximum display width", 106))

	m.Register(NewEnum("input.esc", "Remaps the escape key",
		[]string{"raw", "ctrl_c", "revert_line"}, 2))

	m.Register(NewBool("files.hidden", "Include hidden files", true))
	m.Register(NewBool("files.system", "Include system files", false))
	m.Register(NewBool("files.unc_paths", "Enables UNC/network path matches", false))

	return m
}

// SettingsPath returns the persisted clink_settings file path for a state
// directory, the base layer Load applies before any override search path.
func SettingsPath(stateDir string) string {
	return filepath.Join(stateDir, "clink_settings")
}
