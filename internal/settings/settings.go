// Package settings implements the clink_settings key/value text format and
// the typed bool/int/string/enum setting definitions that back it. Settings
// are registered once at process start into a Manager, which keeps them in
// a name-sorted slice — a straight replacement for the upstream doubly-
// linked, insertion-sorted global list, since iteration order is all that
// list ever needed.
package settings

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Kind identifies a Setting's value domain.
type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindString
	KindEnum
)

// String names Kind the way clink_settings' "# type:" comment does.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "boolean"
	case KindInt:
		return "integer"
	case KindString:
		return "string"
	case KindEnum:
		return "enum"
	default:
		return ""
	}
}

// Setting is a single named, typed, persisted value. The zero value isn't
// usable; construct one with NewBool/NewInt/NewString/NewEnum.
type Setting struct {
	Name      string
	ShortDesc string
	LongDesc  string
	Kind      Kind
	Options   []string // enum only, in declaration order

	def   string
	value string
}

// NewBool declares a boolean setting.
func NewBool(name, shortDesc string, def bool) *Setting {
	d := "0"
	if def {
		d = "1"
	}
	return &Setting{Name: name, ShortDesc: shortDesc, Kind: KindBool, def: d, value: d}
}

// NewInt declares an integer setting.
func NewInt(name, shortDesc string, def int) *Setting {
	d := strconv.Itoa(def)
	return &Setting{Name: name, ShortDesc: shortDesc, Kind: KindInt, def: d, value: d}
}

// NewString declares a free-text setting.
func NewString(name, shortDesc, def string) *Setting {
	return &Setting{Name: name, ShortDesc: shortDesc, Kind: KindString, def: def, value: def}
}

// NewEnum declares a setting restricted to one of options, addressed by
// index; def is the default option's index.
func NewEnum(name, shortDesc string, options []string, def int) *Setting {
	d := strconv.Itoa(def)
	return &Setting{Name: name, ShortDesc: shortDesc, Kind: KindEnum, Options: options, def: d, value: d}
}

// Set parses value against the setting's Kind and, if it's well-formed,
// stores it; it reports whether value was accepted. A rejected value
// leaves the setting unchanged, mirroring SettingImpl<T>::set's
// leave-as-is-on-failure behaviour.
func (s *Setting) Set(value string) bool {
	switch s.Kind {
	case KindBool:
		switch strings.ToLower(value) {
		case "true":
			s.value = "1"
			return true
		case "false":
			s.value = "0"
			return true
		}
		if len(value) == 0 || value[0] < '0' || value[0] > '9' {
			return false
		}
		if atoiPrefix(value) != 0 {
			s.value = "1"
		} else {
			s.value = "0"
		}
		return true

	case KindInt:
		if len(value) == 0 || (value[0] != '-' && (value[0] < '0' || value[0] > '9')) {
			return false
		}
		s.value = strconv.Itoa(atoiPrefix(value))
		return true

	case KindString:
		s.value = value
		return true

	case KindEnum:
		// Matches SettingEnum::set's strnicmp(option, value, option_len):
		// value need only share option's exact bytes as a case-insensitive
		// prefix — trailing characters past option's length are ignored,
		// so e.g. "onward" still matches the option "on". Preserved as-is
		// rather than tightened to a full-token match.
		for i, opt := range s.Options {
			if len(value) >= len(opt) && strings.EqualFold(value[:len(opt)], opt) {
				s.value = strconv.Itoa(i)
				return true
			}
		}
		return false
	}
	return false
}

// Get returns the setting's current value in its display form: "True"/
// "False" for bool, the decimal for int, the raw text for string, and the
// selected option name for enum.
func (s *Setting) Get() string {
	switch s.Kind {
	case KindBool:
		if s.value == "1" {
			return "True"
		}
		return "False"
	case KindEnum:
		idx, err := strconv.Atoi(s.value)
		if err != nil || idx < 0 || idx >= len(s.Options) {
			return ""
		}
		return s.Options[idx]
	default:
		return s.value
	}
}

// Bool returns the setting's value as a bool. Meaningless on a non-bool
// Setting.
func (s *Setting) Bool() bool { return s.value == "1" }

// Int returns the setting's value as an int. Meaningless on a non-int
// Setting.
func (s *Setting) Int() int {
	n, _ := strconv.Atoi(s.value)
	return n
}

// EnumIndex returns the selected option's index. Meaningless on a non-enum
// Setting.
func (s *Setting) EnumIndex() int {
	n, _ := strconv.Atoi(s.value)
	return n
}

// IsDefault reports whether the setting still holds its constructed
// default, the same check save() uses to skip unmodified settings.
func (s *Setting) IsDefault() bool { return s.value == s.def }

func (s *Setting) reset() { s.value = s.def }

// atoiPrefix parses the leading optional sign and run of decimal digits in
// s and returns their value, ignoring anything that follows — C's atoi,
// which SettingImpl<bool>::set and SettingImpl<int32>::set both lean on
// (e.g. "0abc" parses as 0). Returns 0 if s has no leading digits.
func atoiPrefix(s string) int {
	i := 0
	neg := false
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		neg = s[i] == '-'
		i++
	}
	start := i
	n := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		n = n*10 + int(s[i]-'0')
		i++
	}
	if i == start {
		return 0
	}
	if neg {
		return -n
	}
	return n
}

// Manager is a registry of Settings, loadable from and savable to the
// clink_settings text format. Load accepts one or more layered sources —
// generalising the teacher's fixed two-level user/project merge to an
// arbitrary ordered list, each later source overriding the ones before it
// (the base state-directory file first, then any override paths from
// environment-supplied search locations).
type Manager struct {
	settings []*Setting
}

// NewManager returns an empty registry.
func NewManager() *Manager {
	return &Manager{}
}

// Register inserts s into the registry in name-sorted (case-insensitive)
// order. Registering two settings with the same name is a caller bug; the
// second simply sorts next to the first rather than replacing it.
func (m *Manager) Register(s *Setting) {
	i := m.searchIndex(s.Name)
	m.settings = append(m.settings, nil)
	copy(m.settings[i+1:], m.settings[i:])
	m.settings[i] = s
}

func (m *Manager) searchIndex(name string) int {
	lo, hi := 0, len(m.settings)
	for lo < hi {
		mid := (lo + hi) / 2
		if strings.ToLower(m.settings[mid].Name) < strings.ToLower(name) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// Find looks up a registered setting by name, case-insensitively.
func (m *Manager) Find(name string) (*Setting, bool) {
	i := m.searchIndex(name)
	if i < len(m.settings) && strings.EqualFold(m.settings[i].Name, name) {
		return m.settings[i], true
	}
	return nil, false
}

// All returns every registered setting in name-sorted order. The returned
// slice is the Manager's own backing array; callers must not mutate it.
func (m *Manager) All() []*Setting {
	return m.settings
}

// Load resets every registered setting to its default and then applies
// each path in order, later paths overriding earlier ones. A path that
// doesn't exist is silently skipped, matching settings::load's "file
// couldn't be opened" case; any other read error aborts and is returned.
func (m *Manager) Load(paths ...string) error {
	for _, s := range m.settings {
		s.reset()
	}
	for _, path := range paths {
		if err := m.applyFile(path); err != nil {
			return fmt.Errorf("settings: load %s: %w", path, err)
		}
	}
	return nil
}

func (m *Manager) applyFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		applyLine(m, scanner.Text())
	}
	return scanner.Err()
}

// applyLine parses one "key = value" line, skipping leading whitespace,
// comment lines ('#'), and lines with no '=', matching settings::load's
// per-line parse exactly.
func applyLine(m *Manager, line string) {
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" || trimmed[0] == '#' {
		return
	}

	eq := strings.IndexByte(trimmed, '=')
	if eq < 0 {
		return
	}

	key := strings.TrimRight(trimmed[:eq], " \t")
	value := strings.TrimLeft(trimmed[eq+1:], " \t")
	if key == "" {
		return
	}

	if s, ok := m.Find(key); ok {
		s.Set(value)
	}
}

// Save writes every setting whose value differs from its default to path,
// in clink_settings format: a "# name:"/"# type:" (and, for enums,
// "# options:") comment block followed by the "key = value" body and a
// blank separator line. Settings left at their default are omitted
// entirely, matching settings::save's is_default() skip.
func (m *Manager) Save(path string) error {
	var b strings.Builder
	for _, s := range m.settings {
		if s.IsDefault() {
			continue
		}
		fmt.Fprintf(&b, "# name: %s\n", s.ShortDesc)
		fmt.Fprintf(&b, "# type: %s\n", s.Kind)
		if s.Kind == KindEnum {
			fmt.Fprintf(&b, "# options: %s\n", strings.Join(s.Options, ","))
		}
		fmt.Fprintf(&b, "%s = %s\n\n", s.Name, s.Get())
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}

// Watch watches path's containing directory for writes to path (an editor
// typically replaces the file rather than writing in place, so the watch is
// set on the directory, not the file handle) and calls onChange after each
// one settles, re-applying paths via Load. The returned watcher's Close
// stops watching; callers that never want hot-reload simply never call
// Watch. Errors from onChange itself are not surfaced here — the caller's
// onChange should log its own failures.
func (m *Manager) Watch(path string, onChange func(), paths ...string) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("settings: watch: %w", err)
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, fmt.Errorf("settings: watch: %w", err)
	}

	reload := paths
	if len(reload) == 0 {
		reload = []string{path}
	}

	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != filepath.Clean(path) {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if err := m.Load(reload...); err == nil {
					onChange()
				}
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return w, nil
}
