// Package hostattach implements the two calls an embedding shell makes to
// bring this engine up and tear it back down: initialise() and shutdown()
// from the original's host ABI. It is the generalisation of the teacher's
// daemon.Run — where that wired a store, an agent map, an orchestrator, a
// timeline engine, and a transport server into one long-lived process,
// Initialise wires a settings Manager, a history DB, and an editor Kernel
// into one shell attachment, and Shutdown unwinds it.
package hostattach

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/ehrlich-b/clinkgo/internal/editor"
	"github.com/ehrlich-b/clinkgo/internal/history"
	"github.com/ehrlich-b/clinkgo/internal/logger"
	"github.com/ehrlich-b/clinkgo/internal/match"
	"github.com/ehrlich-b/clinkgo/internal/screen"
	"github.com/ehrlich-b/clinkgo/internal/settings"
	"github.com/ehrlich-b/clinkgo/internal/terminal"
)

// Desc describes one shell's attachment: where its persisted state lives,
// whether it inherits an existing session id (e.g. a subshell sharing its
// parent's history bank), and how noisy it should be.
type Desc struct {
	// StateDir holds clink_settings, clink_history and its session
	// siblings, and clink.log.
	StateDir string

	// SessionID names this attachment's history session bank. Left empty
	// with InheritSession false, a new session id is minted.
	SessionID string
	// InheritSession reuses SessionID as-is instead of treating an empty
	// value as "mint a new one" — set when a child shell is handed its
	// parent's session id explicitly.
	InheritSession bool

	// SettingsOverrides are additional clink_settings-format files layered
	// on top of StateDir's own, later paths overriding earlier ones.
	SettingsOverrides []string

	// LogLevel is "debug"/"info"/"warn"/"error"; defaults to "info".
	LogLevel string
	// Quiet suppresses the stdout half of logging; clink.log is still
	// written unless LogFile is explicitly set to "".
	Quiet bool
	// LogFile overrides the default StateDir/clink.log path. Leave unset
	// to use the default; set to a non-empty path to relocate it.
	LogFile string

	ShellName     string
	Prompt        string
	CommandDelims string
	WordDelims    string
	QuotePair     string
	CompareMode   match.CompareMode

	// In/Out default to os.Stdin/os.Stdout; overridden by tests to attach
	// to a pty instead of the real console.
	In  *os.File
	Out *os.File
}

// Attachment is a live shell attachment: its settings, its history store,
// and its running editor kernel.
type Attachment struct {
	Settings *settings.Manager
	History  *history.DB
	Kernel   *editor.Kernel
	Logger   *slog.Logger

	desc    Desc
	in      *terminal.In
	out     *terminal.Out
	shut    bool
	watcher *fsnotify.Watcher
}

// historyConfigFromSettings builds a history.Config from the persisted
// history.* settings, the one point where the settings schema and the
// history store's own Config field names need to agree.
func historyConfigFromSettings(mgr *settings.Manager, stateDir, sessionID string) history.Config {
	cfg := history.Config{StateDir: stateDir, SessionID: sessionID}
	if s, ok := mgr.Find("history.shared"); ok {
		cfg.Shared = s.Bool()
	}
	if s, ok := mgr.Find("history.ignore_space"); ok {
		cfg.IgnoreSpace = s.Bool()
	}
	if s, ok := mgr.Find("history.dupe_mode"); ok {
		cfg.DupeMode = history.DupeMode(s.EnumIndex())
	}
	if s, ok := mgr.Find("history.expand_mode"); ok {
		cfg.ExpandMode = history.ExpandMode(s.EnumIndex())
	}
	return cfg
}

func logFilePath(desc Desc) string {
	if desc.LogFile != "" {
		return desc.LogFile
	}
	if desc.LogFile == "" && desc.StateDir != "" {
		return filepath.Join(desc.StateDir, "clink.log")
	}
	return ""
}

// Initialise brings up one shell attachment: it creates the state
// directory, loads settings, opens the history store configured from
// those settings, and assembles a terminal-backed editor Kernel. It
// returns (nil, err) on any failure, leaving nothing partially open.
func Initialise(desc Desc) (*Attachment, error) {
	if desc.StateDir == "" {
		return nil, fmt.Errorf("hostattach: initialise: StateDir is required")
	}
	if err := os.MkdirAll(desc.StateDir, 0o755); err != nil {
		return nil, fmt.Errorf("hostattach: initialise: create state dir: %w", err)
	}

	level := desc.LogLevel
	if level == "" {
		level = "info"
	}
	logFile := logFilePath(desc)
	if desc.Quiet {
		logFile = ""
	}
	if err := logger.Init(level, logFile); err != nil {
		return nil, fmt.Errorf("hostattach: initialise: logger: %w", err)
	}
	log := logger.With("hostattach")

	mgr := settings.NewDefaultManager()
	paths := append([]string{settings.SettingsPath(desc.StateDir)}, desc.SettingsOverrides...)
	if err := mgr.Load(paths...); err != nil {
		return nil, fmt.Errorf("hostattach: initialise: settings: %w", err)
	}

	sessionID := desc.SessionID
	if !desc.InheritSession {
		sessionID = ""
	}
	db, err := history.Open(historyConfigFromSettings(mgr, desc.StateDir, sessionID))
	if err != nil {
		return nil, fmt.Errorf("hostattach: initialise: history: %w", err)
	}

	in := desc.In
	if in == nil {
		in = os.Stdin
	}
	out := desc.Out
	if out == nil {
		out = os.Stdout
	}
	termIn := terminal.NewIn(in)
	termOut := terminal.NewOut(out)
	printer := screen.NewPrinter(termOut.Shadow())

	kernel := editor.New(editor.Desc{
		ShellName:     desc.ShellName,
		Prompt:        desc.Prompt,
		CommandDelims: desc.CommandDelims,
		WordDelims:    desc.WordDelims,
		QuotePair:     desc.QuotePair,
		CompareMode:   desc.CompareMode,
	}, termIn, termOut, printer)
	kernel.AddModule(classicModule{})

	log.Info("attached", "state_dir", desc.StateDir, "session_id", db.SessionID())

	a := &Attachment{
		Settings: mgr,
		History:  db,
		Kernel:   kernel,
		Logger:   log,
		desc:     desc,
		in:       termIn,
		out:      termOut,
	}

	if w, err := mgr.Watch(paths[0], func() {
		log.Info("settings reloaded", "path", paths[0])
	}, paths...); err != nil {
		log.Warn("settings watch unavailable", "err", err)
	} else {
		a.watcher = w
	}

	return a, nil
}

// Shutdown tears an Attachment back down: it persists settings and closes
// the history store concurrently (an errgroup.Group stands in for the
// teacher's bare goroutines over a shared error channel — the two writes
// touch independent files and don't depend on each other's result), then
// logs detachment. It is idempotent — calling it twice on the same
// Attachment is a no-op the second time, mirroring shutdown()'s "safe to
// call even if initialise() never succeeded" contract.
func (a *Attachment) Shutdown() error {
	if a == nil || a.shut {
		return nil
	}
	a.shut = true

	if a.watcher != nil {
		a.watcher.Close()
	}

	g := new(errgroup.Group)
	g.Go(func() error {
		if a.Settings == nil {
			return nil
		}
		if err := a.Settings.Save(settings.SettingsPath(a.desc.StateDir)); err != nil {
			return fmt.Errorf("save settings: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if a.History == nil {
			return nil
		}
		if err := a.History.Close(); err != nil {
			return fmt.Errorf("close history: %w", err)
		}
		return nil
	})
	err := g.Wait()

	if a.Logger != nil {
		a.Logger.Info("detached", "state_dir", a.desc.StateDir)
	}
	if err != nil {
		return fmt.Errorf("hostattach: shutdown: %w", err)
	}
	return nil
}
