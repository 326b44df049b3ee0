package hook

import (
	"fmt"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/sys/unix"
)

// trampolineAlign matches TrampolineAllocator::alloc's 16-byte rounding.
const trampolineAlign = 16

// pageMagicSize reserves room at the front of every Page for a magic tag,
// the same role TrampolineAllocator::_magic plays in hook.cpp: a stamp
// that lets code holding a bare pointer to the page recognise it as one
// of this engine's own trampoline pages rather than arbitrary memory.
const pageMagicSize = 8

var pageMagic = func() [pageMagicSize]byte {
	sum := blake2b.Sum256([]byte("clinkgo-trampoline-page"))
	var tag [pageMagicSize]byte
	copy(tag[:], sum[:pageMagicSize])
	return tag
}()

// Page is a dedicated executable scratch page trampolines are written
// into. The original bump-allocates inside the trailing zero-pad of the
// hooked module's own .text section, reusing a magic-tagged allocator
// that lives there across hooks; this port can't assume anything about
// the layout of a process it didn't link, so per the redesign decision
// recorded for this component it instead mmaps one small page of its own
// with PROT_READ|PROT_WRITE|PROT_EXEC and bump-allocates within that. It
// still stamps the page with a magic tag up front, so a future allocator
// sharing this page (not needed today, since BuildJumpHook allocates from
// whichever Page its caller passes in and nothing looks a Page up by
// address) could recognise it as
// already initialised, the same check TrampolineAllocator::get performs
// before deciding whether to create a new allocator or reuse one.
type Page struct {
	mem  []byte
	used int
}

// NewPage mmaps a single page sized scratch buffer for trampolines and
// stamps it with the magic tag.
func NewPage() (*Page, error) {
	size := unix.Getpagesize()
	mem, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE|unix.PROT_EXEC, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, fmt.Errorf("hook: mmap trampoline page: %w", err)
	}
	copy(mem[:pageMagicSize], pageMagic[:])
	return &Page{mem: mem, used: pageMagicSize}, nil
}

// Tagged reports whether mem begins with this engine's trampoline-page
// magic tag, mirroring TrampolineAllocator::get's own-allocator check.
func Tagged(mem []byte) bool {
	return len(mem) >= pageMagicSize && string(mem[:pageMagicSize]) == string(pageMagic[:])
}

// Close releases the page's memory.
func (p *Page) Close() error {
	if p.mem == nil {
		return nil
	}
	err := unix.Munmap(p.mem)
	p.mem = nil
	return err
}

// Alloc reserves size bytes (rounded up to trampolineAlign), returning a
// slice into the page's backing memory and the slice's address for
// patching relative displacements against. Returns ok=false once the page
// is exhausted, mirroring TrampolineAllocator::alloc's null return.
func (p *Page) Alloc(size int) (buf []byte, addr uintptr, ok bool) {
	size = (size + trampolineAlign - 1) &^ (trampolineAlign - 1)
	if p.used+size > len(p.mem) {
		return nil, 0, false
	}
	buf = p.mem[p.used : p.used+size]
	addr = addressOf(buf)
	p.used += size
	return buf, addr, true
}
