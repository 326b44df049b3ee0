// Package history implements the persistent command-line history store:
// an always-present shared "master" bank plus, unless history.shared is
// on, a private "session" bank per attached shell, reconciled by a reap
// pass that folds abandoned sessions back into master. Ported from
// history_db.cpp/.h.
package history

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// DupeMode mirrors the history.dupe_mode setting.
type DupeMode int

const (
	DupeAdd DupeMode = iota
	DupeIgnore
	DupeErasePrev
)

// Config configures one DB attachment.
type Config struct {
	// StateDir is the directory holding clink_history and its session
	// siblings — the same directory settings.SettingsPath places
	// clink_settings in.
	StateDir string
	// SessionID names this attachment's own bank file. Left empty, Open
	// mints one with NewSessionID.
	SessionID string
	// Shared disables the per-session bank: every Add lands in master and
	// every other attached shell sees it immediately.
	Shared      bool
	IgnoreSpace bool
	DupeMode    DupeMode
	ExpandMode  ExpandMode
}

// Entry is one line read back out of a bank via ReadLines.
type Entry struct {
	ID   LineID
	Text string
}

// DB is one shell's attachment to the on-disk history store.
type DB struct {
	cfg   Config
	banks [2]*bank
	alive *os.File
}

func masterPath(stateDir string) string {
	return filepath.Join(stateDir, "clink_history")
}

func sessionPath(stateDir, sessionID string) string {
	return filepath.Join(stateDir, "clink_history_"+sessionID)
}

func aliveFilePath(sessionBankPath string) string {
	return sessionBankPath + "~"
}

// Open attaches to the history store rooted at cfg.StateDir, opening the
// master bank and — unless cfg.Shared — a fresh session bank, then reaping
// any session banks left behind by shells that have since exited.
func Open(cfg Config) (*DB, error) {
	if err := os.MkdirAll(cfg.StateDir, 0o755); err != nil {
		return nil, fmt.Errorf("history: create state dir: %w", err)
	}

	master, err := openBank(masterPath(cfg.StateDir), masterBank)
	if err != nil {
		return nil, fmt.Errorf("history: open master bank: %w", err)
	}

	db := &DB{cfg: cfg}
	db.banks[masterBank] = master

	if !cfg.Shared {
		if cfg.SessionID == "" {
			cfg.SessionID = NewSessionID()
			db.cfg.SessionID = cfg.SessionID
		}

		session, err := openBank(sessionPath(cfg.StateDir, cfg.SessionID), sessionBank)
		if err != nil {
			master.Close()
			return nil, fmt.Errorf("history: open session bank: %w", err)
		}
		db.banks[sessionBank] = session

		alive, err := os.OpenFile(aliveFilePath(session.file.Name()), os.O_RDWR|os.O_CREATE, 0o644)
		if err != nil {
			session.Close()
			master.Close()
			return nil, fmt.Errorf("history: open alive file: %w", err)
		}
		if err := unix.Flock(int(alive.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
			alive.Close()
			session.Close()
			master.Close()
			return nil, fmt.Errorf("history: claim alive file: %w", err)
		}
		db.alive = alive
	}

	db.reap()

	return db, nil
}

// SessionID returns this attachment's session bank suffix, empty when
// opened with Shared true.
func (db *DB) SessionID() string { return db.cfg.SessionID }

// Close releases this attachment. The session bank (if any) and its alive
// file are left on disk — reaping only ever happens as a side effect of
// some other session's Open, never of its own Close, matching the
// original's "fold on next startup" shape.
func (db *DB) Close() error {
	var firstErr error
	if db.alive != nil {
		if err := unix.Flock(int(db.alive.Fd()), unix.LOCK_UN); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := db.alive.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for _, b := range db.banks {
		if b == nil {
			continue
		}
		if err := b.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (db *DB) writeBank() *bank {
	if db.banks[sessionBank] != nil {
		return db.banks[sessionBank]
	}
	return db.banks[masterBank]
}

// Add appends line to this attachment's write bank (the session bank when
// one is open, master otherwise), honouring history.ignore_space and
// history.dupe_mode. It returns a zero LineID with no error when the line
// was dropped rather than stored.
func (db *DB) Add(line string) (LineID, error) {
	if db.cfg.IgnoreSpace && stripIgnoreSpace(line) {
		return 0, nil
	}

	switch db.cfg.DupeMode {
	case DupeIgnore:
		if _, found, err := db.Find(line); err != nil {
			return 0, err
		} else if found {
			return 0, nil
		}
	case DupeErasePrev:
		if err := db.removeAllMatching(line); err != nil {
			return 0, err
		}
	}

	target := db.writeBank()
	lock, err := target.lockExclusive()
	if err != nil {
		return 0, fmt.Errorf("history: lock bank for add: %w", err)
	}
	defer lock.Unlock()

	return lock.Append(line)
}

// Remove tombstones the line named by id so future reads skip it.
func (db *DB) Remove(id LineID) error {
	if !id.Active() {
		return nil
	}
	target := db.banks[id.BankIndex()]
	if target == nil {
		return fmt.Errorf("history: remove: bank %d not open", id.BankIndex())
	}
	lock, err := target.lockExclusive()
	if err != nil {
		return fmt.Errorf("history: lock bank for remove: %w", err)
	}
	defer lock.Unlock()
	return lock.Tombstone(id.Offset())
}

func (db *DB) removeAllMatching(line string) error {
	entries, err := db.ReadLines()
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.Text == line {
			if err := db.Remove(e.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

// Find returns the most recent line equal to text, if any.
func (db *DB) Find(text string) (LineID, bool, error) {
	entries, err := db.ReadLines()
	if err != nil {
		return 0, false, err
	}
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Text == text {
			return entries[i].ID, true, nil
		}
	}
	return 0, false, nil
}

// ReadLines returns every live line across every open bank, master first
// and in file order within each bank — matching read_line_iter's
// bank-by-bank walk in history_db.cpp.
func (db *DB) ReadLines() ([]Entry, error) {
	var out []Entry
	for _, b := range db.banks {
		if b == nil {
			continue
		}
		lock, err := b.lockShared()
		if err != nil {
			return nil, fmt.Errorf("history: lock bank for read: %w", err)
		}
		it, err := lock.Lines()
		if err != nil {
			lock.Unlock()
			return nil, err
		}
		for {
			id, text, ok := it.Next()
			if !ok {
				break
			}
			out = append(out, Entry{ID: id, Text: text})
		}
		lock.Unlock()
	}
	return out, nil
}

// ExpandLine reports whether the history-expansion character at markerPos
// should be expanded, given this attachment's configured expand mode.
func (db *DB) ExpandLine(line string, markerPos int) bool {
	return expandControl(line, markerPos, db.cfg.ExpandMode)
}

// reap globs the state directory for session banks sibling to master,
// tries to claim each one's alive file with a non-blocking exclusive
// flock, and folds any it successfully claims (proof no live process still
// holds it) back into master before deleting the session's files.
func (db *DB) reap() {
	matches, err := filepath.Glob(filepath.Join(db.cfg.StateDir, "clink_history_*"))
	if err != nil {
		return
	}

	ownPath := ""
	if db.banks[sessionBank] != nil {
		ownPath = db.banks[sessionBank].file.Name()
	}

	for _, path := range matches {
		if strings.HasSuffix(path, "~") || path == ownPath {
			continue
		}
		db.reapOne(path)
	}
}

func (db *DB) reapOne(bankPath string) {
	alivePath := aliveFilePath(bankPath)

	alive, err := os.OpenFile(alivePath, os.O_RDWR, 0o644)
	if err != nil {
		if !os.IsNotExist(err) {
			return
		}
		// No alive file at all: either the session crashed before ever
		// writing one, or a previous reap already got partway through.
		// Either way it's safe to try folding it in.
	} else {
		defer alive.Close()
		if err := unix.Flock(int(alive.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
			// Another process still holds the alive file: that session is
			// still running, leave its bank alone.
			return
		}
		defer unix.Flock(int(alive.Fd()), unix.LOCK_UN)
	}

	orphan, err := openBank(bankPath, sessionBank)
	if err != nil {
		return
	}
	defer orphan.Close()

	readLock, err := orphan.lockShared()
	if err == nil {
		if it, err := readLock.Lines(); err == nil {
			master := db.banks[masterBank]
			writeLock, err := master.lockExclusive()
			if err == nil {
				for {
					_, text, ok := it.Next()
					if !ok {
						break
					}
					writeLock.Append(text)
				}
				writeLock.Unlock()
			}
		}
		readLock.Unlock()
	}

	os.Remove(bankPath)
	if alive != nil {
		os.Remove(alivePath)
	}
}
