package hook

import "testing"

func newSlot(initial uintptr) uintptr {
	buf := make([]byte, 8)
	slotAddr := addressOf(buf)
	writeSlot(slotAddr, initial)
	// Keep buf alive for the life of the test by leaking it onto the heap
	// via a package-level sink; tests are short-lived processes so this is
	// harmless and keeps the slot's address stable.
	slotSink = append(slotSink, buf)
	return slotAddr
}

var slotSink [][]byte

func TestHookIATByNameReturnsPreviousValue(t *testing.T) {
	slot := newSlot(0x1111)
	table := NewImportTable([]Import{{DLL: "kernel32.dll", Func: "ReadConsoleInputW", SlotAddr: slot}})

	prev, err := HookIAT(table, "ReadConsoleInputW", 0, 0x2222)
	if err != nil {
		t.Fatalf("HookIAT: %v", err)
	}
	if prev != 0x1111 {
		t.Fatalf("prev = %x, want 0x1111", prev)
	}
	if got := readSlot(slot); got != 0x2222 {
		t.Fatalf("slot after hook = %x, want 0x2222", got)
	}
}

func TestHookIATByAddrFindsCorrectEntry(t *testing.T) {
	slotA := newSlot(0xaaaa)
	slotB := newSlot(0xbbbb)
	table := NewImportTable([]Import{
		{DLL: "kernel32.dll", Func: "WriteConsoleW", SlotAddr: slotA},
		{DLL: "kernel32.dll", Func: "GetStdHandle", SlotAddr: slotB},
	})

	prev, err := HookIAT(table, "", slotB, 0x9999)
	if err != nil {
		t.Fatalf("HookIAT: %v", err)
	}
	if prev != 0xbbbb {
		t.Fatalf("prev = %x, want 0xbbbb", prev)
	}
	if got := readSlot(slotA); got != 0xaaaa {
		t.Fatalf("unrelated slot A changed: %x", got)
	}
}

func TestHookIATMissingImportErrors(t *testing.T) {
	table := NewImportTable(nil)
	if _, err := HookIAT(table, "NoSuchFunc", 0, 0); err == nil {
		t.Fatalf("HookIAT(missing) err = nil, want error")
	}
}
