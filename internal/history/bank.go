package history

import (
	"io"
	"os"

	"golang.org/x/sys/unix"
)

const (
	masterBank  = 0
	sessionBank = 1

	// fileIterBufSize mirrors history_db.cpp's read_lock::file_iter buffer:
	// large enough that almost every line fits in one fill, small enough
	// that reap() and read_lines() don't have to hold a whole history file
	// in memory at once.
	fileIterBufSize = 8192

	// maxLineLength bounds a single history entry, matching the original's
	// MAX_INPUT constant used when building history lines.
	maxLineLength = 8192

	controlByteCeiling = 0x1f
	tombstoneByte       = '|'
)

// bank wraps one history bank's backing file — either the shared master
// bank or a single session's own bank — with the range-lock discipline
// read_lock/write_lock apply around it.
type bank struct {
	file  *os.File
	index int
}

func openBank(path string, index int) (*bank, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}
	return &bank{file: f, index: index}, nil
}

func (b *bank) Close() error {
	if b == nil || b.file == nil {
		return nil
	}
	return b.file.Close()
}

func (b *bank) size() (int64, error) {
	info, err := b.file.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// readLock is a shared lock over a bank, good for iterating its lines.
// Windows clink takes a byte-range lock over the file; flock's whole-file
// advisory lock is the POSIX equivalent this port uses instead.
type readLock struct {
	b *bank
}

func (b *bank) lockShared() (*readLock, error) {
	if err := unix.Flock(int(b.file.Fd()), unix.LOCK_SH); err != nil {
		return nil, err
	}
	return &readLock{b: b}, nil
}

func (l *readLock) Unlock() error {
	return unix.Flock(int(l.b.file.Fd()), unix.LOCK_UN)
}

// Lines returns a pull iterator over every live line in the bank, in file
// order, skipping control bytes and tombstoned (removed) records.
func (l *readLock) Lines() (*lineIter, error) {
	return newLineIter(l.b.file, l.b.index)
}

// writeLock is an exclusive lock over a bank, required before add/remove.
type writeLock struct {
	b *bank
}

func (b *bank) lockExclusive() (*writeLock, error) {
	if err := unix.Flock(int(b.file.Fd()), unix.LOCK_EX); err != nil {
		return nil, err
	}
	return &writeLock{b: b}, nil
}

func (l *writeLock) Unlock() error {
	return unix.Flock(int(l.b.file.Fd()), unix.LOCK_UN)
}

// Append writes line as a new record at the end of the bank and returns the
// LineID of the line it just wrote.
func (l *writeLock) Append(line string) (LineID, error) {
	if len(line) > maxLineLength {
		line = line[:maxLineLength]
	}
	offset, err := l.b.file.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	if _, err := l.b.file.Write(append([]byte(line), '\n')); err != nil {
		return 0, err
	}
	return newLineID(l.b.index, uint32(offset)), nil
}

// Tombstone overwrites the first byte of the line at offset with the
// tombstone marker, the same single-byte "deleted" write history_db.cpp
// performs under an exclusive lock so a concurrent reader never observes a
// half-written removal.
func (l *writeLock) Tombstone(offset uint32) error {
	if _, err := l.b.file.WriteAt([]byte{tombstoneByte}, int64(offset)); err != nil {
		return err
	}
	return nil
}

// Truncate clears the bank back to empty and rewinds the file to its start.
func (l *writeLock) Truncate() error {
	if err := l.b.file.Truncate(0); err != nil {
		return err
	}
	_, err := l.b.file.Seek(0, io.SeekStart)
	return err
}

// fileIter reads a bank file in fixed-size blocks, keeping a "rollback"
// window of bytes from the previous block so a record straddling a block
// boundary can be re-read whole on the next fill — ported from
// read_lock::file_iter in history_db.cpp.
type fileIter struct {
	f         *os.File
	buffer    []byte
	bufSize   int
	bufOffset int64
	remaining int64
}

func newFileIter(f *os.File) (*fileIter, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return &fileIter{
		f:         f,
		buffer:    make([]byte, fileIterBufSize),
		bufOffset: 0,
		remaining: info.Size(),
	}, nil
}

// next slides the window forward, keeping the last rollback bytes of the
// previous fill at the front of the buffer, and returns the number of valid
// bytes now in the buffer (0 at end of file).
func (it *fileIter) next(rollback int) int {
	if it.remaining <= 0 && rollback == 0 {
		it.bufSize = 0
		return 0
	}
	if rollback > it.bufSize {
		rollback = it.bufSize
	}
	if rollback > 0 {
		copy(it.buffer, it.buffer[it.bufSize-rollback:it.bufSize])
	}
	it.bufOffset += int64(it.bufSize - rollback)

	room := len(it.buffer) - rollback
	if int64(room) > it.remaining {
		room = int(it.remaining)
	}
	n, _ := it.f.Read(it.buffer[rollback : rollback+room])
	it.remaining -= int64(n)
	it.bufSize = rollback + n
	return it.bufSize
}

// lineIter splits a fileIter's byte stream into individual history records,
// skipping control-byte padding and tombstoned lines — ported from
// read_lock::line_iter in history_db.cpp.
type lineIter struct {
	fi        *fileIter
	bankIndex int
	remaining int
}

func newLineIter(f *os.File, bankIndex int) (*lineIter, error) {
	fi, err := newFileIter(f)
	if err != nil {
		return nil, err
	}
	return &lineIter{fi: fi, bankIndex: bankIndex}, nil
}

func (it *lineIter) provision() bool {
	it.remaining = it.fi.next(it.remaining)
	return it.remaining != 0
}

// Next returns the next live line and its LineID, or ok=false at EOF.
func (it *lineIter) Next() (id LineID, text string, ok bool) {
	for it.remaining > 0 || it.provision() {
		last := it.fi.bufSize
		start := last - it.remaining

		for start != last && it.fi.buffer[start] <= controlByteCeiling {
			start++
			it.remaining--
		}

		end := start
		for end != last && it.fi.buffer[end] > controlByteCeiling {
			end++
		}

		if end == last && start != 0 {
			// The record may continue past what's buffered; refill with
			// everything from start retained as rollback and keep scanning.
			it.remaining = last - start
			if !it.provision() {
				break
			}
			continue
		}

		n := end - start
		it.remaining -= n
		if n == 0 {
			continue
		}

		offset := uint32(it.fi.bufOffset) + uint32(start)
		line := string(it.fi.buffer[start:end])
		if line[0] == tombstoneByte {
			continue
		}
		return newLineID(it.bankIndex, offset), line, true
	}
	return 0, "", false
}
