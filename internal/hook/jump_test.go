package hook

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestBuildJumpHookOnPlainNops(t *testing.T) {
	page, err := NewPage()
	if err != nil {
		t.Fatalf("NewPage: %v", err)
	}
	defer page.Close()

	target := bytes.Repeat([]byte{0x90}, 10)
	targetAddr := addressOf(target)
	hookAddr := uintptr(0xdeadbeef)

	jh, err := BuildJumpHook(page, targetAddr, target, hookAddr)
	if err != nil {
		t.Fatalf("BuildJumpHook: %v", err)
	}

	if len(jh.Patch) != jmpInstructionSize {
		t.Fatalf("len(Patch) = %d, want %d", len(jh.Patch), jmpInstructionSize)
	}
	if jh.Patch[0] != 0xff || jh.Patch[1] != 0x25 {
		t.Fatalf("Patch opcode = % x, want ff 25 ...", jh.Patch[:2])
	}

	slotAddr := jh.Trampoline - hookSlotSize
	disp := int32(binary.LittleEndian.Uint32(jh.Patch[2:6]))
	gotSlot := int64(targetAddr) + jmpInstructionSize + int64(disp)
	if gotSlot != int64(slotAddr) {
		t.Fatalf("patch disp32 resolves to %x, want hook slot at %x", gotSlot, slotAddr)
	}

	if jh.Trampoline == 0 {
		t.Fatalf("Trampoline address is zero")
	}
}

func TestBuildJumpHookRejectsTooShortRelativeOperand(t *testing.T) {
	page, err := NewPage()
	if err != nil {
		t.Fatalf("NewPage: %v", err)
	}
	defer page.Close()

	// A short conditional jump (rel8, opcode 0x74 "jz") can't be safely
	// relocated — its 1-byte displacement has nowhere near enough range
	// once moved to a trampoline elsewhere in memory.
	target := []byte{0x74, 0x02, 0x90, 0x90, 0x90, 0x90, 0x90, 0x90}
	_, err = BuildJumpHook(page, addressOf(target), target, 0)
	if err != ErrUnrelocatable {
		t.Fatalf("BuildJumpHook(rel8 jz) err = %v, want ErrUnrelocatable", err)
	}
}

func TestBuildJumpHookFailsOnUndecodableOpcode(t *testing.T) {
	page, err := NewPage()
	if err != nil {
		t.Fatalf("NewPage: %v", err)
	}
	defer page.Close()

	target := []byte{0x0f, 0x1f, 0x00, 0x90, 0x90, 0x90, 0x90, 0x90}
	_, err = BuildJumpHook(page, addressOf(target), target, 0)
	if err != ErrDecodeFailed {
		t.Fatalf("BuildJumpHook(0f escape) err = %v, want ErrDecodeFailed", err)
	}
}

func TestPageAllocExhaustion(t *testing.T) {
	page, err := NewPage()
	if err != nil {
		t.Fatalf("NewPage: %v", err)
	}
	defer page.Close()

	size := len(page.mem)
	if _, _, ok := page.Alloc(size + 1); ok {
		t.Fatalf("Alloc(larger than page) ok = true, want false")
	}
}

func TestPageIsTaggedWithMagic(t *testing.T) {
	page, err := NewPage()
	if err != nil {
		t.Fatalf("NewPage: %v", err)
	}
	defer page.Close()

	if !Tagged(page.mem) {
		t.Fatalf("Tagged(page.mem) = false, want true right after NewPage")
	}
	if Tagged(bytes.Repeat([]byte{0}, pageMagicSize)) {
		t.Fatalf("Tagged(zeroed buffer) = true, want false")
	}
}
