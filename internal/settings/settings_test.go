package settings

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBoolSettingParsesTrueFalseAndDigits(t *testing.T) {
	s := NewBool("one", "", true)

	for _, v := range []string{"0", "000", "false", "False", "FaLsE"} {
		if !s.Set(v) || s.Bool() {
			t.Fatalf("Set(%q) left Bool() = %v, want false", v, s.Bool())
		}
	}
	for _, v := range []string{"1", "101", "true", "True", "TrUe"} {
		if !s.Set(v) || !s.Bool() {
			t.Fatalf("Set(%q) left Bool() = %v, want true", v, s.Bool())
		}
	}
	if s.Get() != "True" {
		t.Fatalf("Get() = %q, want True", s.Get())
	}

	if s.Set("abc") {
		t.Fatalf("Set(abc) accepted, want rejected")
	}
	if !s.Bool() {
		t.Fatalf("rejected Set left Bool() = false, want unchanged true")
	}

	// C atoi semantics: leading digit run parses, trailing garbage ignored.
	if !s.Set("0abc") || s.Bool() {
		t.Fatalf("Set(0abc) should parse as 0 -> false, got Bool()=%v", s.Bool())
	}
	if s.Get() != "False" {
		t.Fatalf("Get() = %q, want False", s.Get())
	}
}

func TestIntSettingParsesSignedDigitsAndAtoiPrefix(t *testing.T) {
	s := NewInt("one", "", 1)

	for _, tc := range []struct {
		in   string
		want int
	}{
		{"100", 100}, {"101", 101}, {"102", 102},
		{"-2", -2}, {"-03", -3}, {"-14", -14},
	} {
		if !s.Set(tc.in) || s.Int() != tc.want {
			t.Fatalf("Set(%q) -> Int()=%d, want %d", tc.in, s.Int(), tc.want)
		}
	}

	if s.Get() != "-14" {
		t.Fatalf("Get() = %q, want -14", s.Get())
	}

	if !s.Set("999") {
		t.Fatalf("Set(999) rejected")
	}
	if s.Set("abc") {
		t.Fatalf("Set(abc) accepted, want rejected")
	}
	if s.Int() != 999 {
		t.Fatalf("rejected Set changed Int() to %d, want unchanged 999", s.Int())
	}
	if !s.Set("0abc") || s.Int() != 0 {
		t.Fatalf("Set(0abc) should parse as 0, got %d", s.Int())
	}
}

func TestStringSettingAcceptsAnyValue(t *testing.T) {
	s := NewString("one", "", "abc")
	if s.Get() != "abc" {
		t.Fatalf("Get() = %q, want abc", s.Get())
	}
	for _, v := range []string{"Abc", "ABc", "ABC"} {
		if !s.Set(v) || s.Get() != v {
			t.Fatalf("Set(%q) -> Get()=%q", v, s.Get())
		}
	}
}

func TestEnumSettingMatchesByIndex(t *testing.T) {
	s := NewEnum("one", "", []string{"zero", "one", "two"}, 1)
	if s.EnumIndex() != 1 {
		t.Fatalf("EnumIndex() = %d, want 1", s.EnumIndex())
	}

	for i, opt := range []string{"zero", "one", "two"} {
		if !s.Set(opt) || s.EnumIndex() != i {
			t.Fatalf("Set(%q) -> EnumIndex()=%d, want %d", opt, s.EnumIndex(), i)
		}
		if s.Get() != opt {
			t.Fatalf("Get() = %q, want %q", s.Get(), opt)
		}
	}

	if s.Set("abc") {
		t.Fatalf("Set(abc) accepted, want rejected")
	}
	if s.EnumIndex() != 2 {
		t.Fatalf("rejected Set changed EnumIndex() to %d, want unchanged 2", s.EnumIndex())
	}
}

func TestEnumSettingPrefixQuirkAcceptsLongerValue(t *testing.T) {
	// Ported verbatim from SettingEnum::set's strnicmp(option, value,
	// option_len): a value that merely starts with a shorter option's
	// bytes still matches that option, trailing characters ignored.
	s := NewEnum("mode", "", []string{"on", "off"}, 1)
	if !s.Set("onward") || s.EnumIndex() != 0 {
		t.Fatalf("Set(onward) should match the 'on' prefix, got index %d", s.EnumIndex())
	}
}

func TestManagerFindIsCaseInsensitiveAndSorted(t *testing.T) {
	m := NewManager()
	m.Register(NewBool("history.shared", "", false))
	m.Register(NewBool("Alpha.setting", "", false))
	m.Register(NewBool("zeta.setting", "", false))

	all := m.All()
	for i := 1; i < len(all); i++ {
		if strings.ToLower(all[i-1].Name) > strings.ToLower(all[i].Name) {
			t.Fatalf("All() not sorted: %q before %q", all[i-1].Name, all[i].Name)
		}
	}

	if _, ok := m.Find("HISTORY.SHARED"); !ok {
		t.Fatalf("Find is case-sensitive, want case-insensitive")
	}
	if _, ok := m.Find("nope"); ok {
		t.Fatalf("Find matched a name that was never registered")
	}
}

func TestManagerLoadParsesKeyValueFormatAndSkipsComments(t *testing.T) {
	m := NewDefaultManager()

	dir := t.TempDir()
	path := filepath.Join(dir, "clink_settings")
	body := "# name: Share history between instances\n" +
		"# type: boolean\n" +
		"history.shared = true\n\n" +
		"  match.column_pad   =   5  \n" +
		"not.a.real.setting = 1\n" +
		"no equals sign here\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := m.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}

	shared, _ := m.Find("history.shared")
	if !shared.Bool() {
		t.Fatalf("history.shared = %v, want true", shared.Bool())
	}
	pad, _ := m.Find("match.column_pad")
	if pad.Int() != 5 {
		t.Fatalf("match.column_pad = %d, want 5", pad.Int())
	}
}

func TestManagerLoadLayersLaterPathsOverEarlier(t *testing.T) {
	m := NewDefaultManager()
	dir := t.TempDir()

	base := filepath.Join(dir, "base")
	override := filepath.Join(dir, "override")
	os.WriteFile(base, []byte("match.query_threshold = 50\nmatch.vertical = false\n"), 0644)
	os.WriteFile(override, []byte("match.query_threshold = 75\n"), 0644)

	if err := m.Load(base, override); err != nil {
		t.Fatalf("Load: %v", err)
	}

	threshold, _ := m.Find("match.query_threshold")
	if threshold.Int() != 75 {
		t.Fatalf("match.query_threshold = %d, want override's 75", threshold.Int())
	}
	vertical, _ := m.Find("match.vertical")
	if vertical.Bool() {
		t.Fatalf("match.vertical = true, want base's false to survive (override doesn't mention it)")
	}
}

func TestManagerLoadMissingPathIsNotAnError(t *testing.T) {
	m := NewDefaultManager()
	if err := m.Load(filepath.Join(t.TempDir(), "does-not-exist")); err != nil {
		t.Fatalf("Load(missing path) = %v, want nil", err)
	}
}

func TestManagerSaveOmitsDefaultsAndRoundTrips(t *testing.T) {
	m := NewDefaultManager()
	shared, _ := m.Find("history.shared")
	shared.Set("true")
	dupeMode, _ := m.Find("history.dupe_mode")
	dupeMode.Set("ignore")

	dir := t.TempDir()
	path := filepath.Join(dir, "clink_settings")
	if err := m.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	out := string(data)

	if !strings.Contains(out, "history.shared = True") {
		t.Fatalf("saved file missing modified history.shared:\n%s", out)
	}
	if !strings.Contains(out, "# options: add,ignore,erase_prev") {
		t.Fatalf("saved file missing enum options comment:\n%s", out)
	}
	if strings.Contains(out, "match.vertical") {
		t.Fatalf("saved file should omit match.vertical (still at default):\n%s", out)
	}

	m2 := NewDefaultManager()
	if err := m2.Load(path); err != nil {
		t.Fatalf("reload Load: %v", err)
	}
	sharedAfter, _ := m2.Find("history.shared")
	if !sharedAfter.Bool() {
		t.Fatalf("reloaded history.shared = false, want true")
	}
	dupeAfter, _ := m2.Find("history.dupe_mode")
	if dupeAfter.Get() != "ignore" {
		t.Fatalf("reloaded history.dupe_mode = %q, want ignore", dupeAfter.Get())
	}
}

func TestSettingsPathJoinsStateDir(t *testing.T) {
	if got, want := SettingsPath("/state"), filepath.Join("/state", "clink_settings"); got != want {
		t.Fatalf("SettingsPath = %q, want %q", got, want)
	}
}
