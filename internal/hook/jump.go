package hook

import (
	"encoding/binary"
	"errors"
	"unsafe"
)

// ErrDecodeFailed is returned when the target's prologue can't be
// disassembled far enough to steal a clean 6+ bytes for the JMP.
var ErrDecodeFailed = errors.New("hook: could not decode target prologue")

// ErrUnrelocatable is returned when an instruction in the stolen prologue
// carries a relative operand too small to safely re-target once moved.
var ErrUnrelocatable = errors.New("hook: relative operand too small to relocate")

// ErrNoRoom is returned when the trampoline page has no space left.
var ErrNoRoom = errors.New("hook: trampoline page is full")

const jmpInstructionSize = 6 // FF 25 <disp32>
const jmpRelSize = 5         // E9 <disp32>
const hookSlotSize = 8       // the indirect jump's absolute target slot

func addressOf(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b[0]))
}

// decodePrologue disassembles code from its start until it has collected
// at least jmpInstructionSize bytes' worth of whole instructions,
// mirroring hook_jmp_impl's instruction-gathering loop (capped, like the
// original's FixedArray<Instruction, 8>, at 8 instructions).
func decodePrologue(code []byte) ([]Instruction, int, error) {
	const maxInstructions = 8

	var insts []Instruction
	total := 0
	for len(insts) < maxInstructions {
		if total >= len(code) {
			return nil, 0, ErrDecodeFailed
		}
		inst := Decode(code[total:])
		if !inst.Valid() {
			return nil, 0, ErrDecodeFailed
		}
		if inst.Relative && inst.RelSize < 4 {
			return nil, 0, ErrUnrelocatable
		}

		insts = append(insts, inst)
		total += inst.Length
		if total >= jmpInstructionSize {
			return insts, total, nil
		}
	}
	return nil, 0, ErrDecodeFailed
}

// JumpHook is an installed JMP-trampoline hook: Patch holds the bytes to
// write over the target function's first few instructions, and Trampoline
// is the address of the relocated original prologue a caller can jump to
// in order to run the original function (the classic "call through" a JMP
// hook provides).
type JumpHook struct {
	Patch      []byte
	Trampoline uintptr
}

// BuildJumpHook steals enough of targetCode's leading instructions to make
// room for a 6-byte indirect jump to hookAddr, relocates those
// instructions (plus a trailing jmp back to the rest of the original
// function) into page, and returns the patch to write at targetAddr.
//
// Ported from hook_jmp_impl in hook.cpp. The original embeds the hook
// address in a small struct immediately before the relocated bytes and
// makes the JMP at the target an indirect jump through that slot (so
// re-hooking later only has to rewrite the 8-byte slot, not the patch);
// this port keeps that shape: page.Alloc's returned buffer starts with
// hookSlotSize bytes holding hookAddr, followed by the relocated prologue,
// followed by the jmp disp32 back to the original.
func BuildJumpHook(page *Page, targetAddr uintptr, targetCode []byte, hookAddr uintptr) (*JumpHook, error) {
	insts, stolenLen, err := decodePrologue(targetCode)
	if err != nil {
		return nil, err
	}

	trampSize := hookSlotSize + stolenLen + jmpRelSize
	buf, bufAddr, ok := page.Alloc(trampSize)
	if !ok {
		return nil, ErrNoRoom
	}

	binary.LittleEndian.PutUint64(buf[:hookSlotSize], uint64(hookAddr))

	relocated := buf[hookSlotSize : hookSlotSize+stolenLen]
	relocatedAddr := bufAddr + hookSlotSize
	readCursor := 0
	writeCursor := 0
	for _, inst := range insts {
		src := targetCode[readCursor : readCursor+inst.Length]
		dst := relocated[writeCursor : writeCursor+inst.Length]
		copy(dst, src)

		if inst.Relative {
			patchRelative(dst, inst, relocatedAddr+uintptr(writeCursor), targetAddr+uintptr(readCursor))
		}

		readCursor += inst.Length
		writeCursor += inst.Length
	}

	jmpBack := buf[hookSlotSize+stolenLen:]
	jmpBack[0] = 0xe9
	backTarget := int32(int64(targetAddr) + int64(stolenLen) - int64(relocatedAddr+uintptr(stolenLen)+jmpRelSize))
	binary.LittleEndian.PutUint32(jmpBack[1:5], uint32(backTarget))

	patch := make([]byte, jmpInstructionSize)
	patch[0], patch[1] = 0xff, 0x25
	slotDisp := int32(int64(bufAddr) - int64(targetAddr) - jmpInstructionSize)
	binary.LittleEndian.PutUint32(patch[2:6], uint32(slotDisp))

	return &JumpHook{Patch: patch, Trampoline: relocatedAddr}, nil
}

// patchRelative adjusts a relocated instruction's relative operand so it
// still reaches the same absolute target from its new address, following
// Instruction::copy's literal arithmetic (operand += (newOperandAddr -
// oldOperandAddr)) rather than re-deriving the formula from scratch.
func patchRelative(relocated []byte, inst Instruction, newInstAddr, oldInstAddr uintptr) {
	newOperand := newInstAddr + uintptr(inst.RelOffset)
	oldOperand := oldInstAddr + uintptr(inst.RelOffset)
	distance := int64(newOperand) - int64(oldOperand)

	field := relocated[inst.RelOffset : inst.RelOffset+inst.RelSize]
	switch inst.RelSize {
	case 4:
		v := int32(binary.LittleEndian.Uint32(field))
		v += int32(distance)
		binary.LittleEndian.PutUint32(field, uint32(v))
	case 2:
		v := int16(binary.LittleEndian.Uint16(field))
		v += int16(distance)
		binary.LittleEndian.PutUint16(field, uint16(v))
	}
}
