package hook

import (
	"encoding/binary"
	"fmt"
	"sync/atomic"
	"unsafe"
)

// Import names one resolved import-address-table slot: which (dll, func)
// pair it satisfies, and where the 8-byte function pointer itself lives.
type Import struct {
	DLL      string
	Func     string
	SlotAddr uintptr
}

// ImportTable is a loaded module's parsed import directory — the
// (dll, func) -> IAT slot mapping hook_iat in hook.cpp walks PE import
// descriptors to build. Parsing a real PE import directory is out of
// scope here (this engine never attaches to a real Windows process); a
// host wiring this package up for real supplies one built from whatever
// introspection its platform offers, keyed exactly as hook_iat expects.
type ImportTable struct {
	bySlot map[uintptr]Import
	byName map[string]Import
}

// NewImportTable builds a table from a flat list of resolved imports.
func NewImportTable(imports []Import) *ImportTable {
	t := &ImportTable{
		bySlot: make(map[uintptr]Import, len(imports)),
		byName: make(map[string]Import, len(imports)),
	}
	for _, imp := range imports {
		t.bySlot[imp.SlotAddr] = imp
		t.byName[imp.DLL+"!"+imp.Func] = imp
	}
	return t
}

func (t *ImportTable) findByName(funcName string) (Import, bool) {
	for _, imp := range t.byName {
		if imp.Func == funcName {
			return imp, true
		}
	}
	return Import{}, false
}

func (t *ImportTable) findByAddr(addr uintptr) (Import, bool) {
	imp, ok := t.bySlot[addr]
	return imp, ok
}

func readSlot(addr uintptr) uintptr {
	return uintptr(binary.LittleEndian.Uint64(unsafe.Slice((*byte)(unsafe.Pointer(addr)), 8)))
}

func writeSlot(addr uintptr, value uintptr) {
	atomic.StoreUintptr((*uintptr)(unsafe.Pointer(addr)), value)
}

// HookIAT finds the import table entry for funcName — located either by
// name, or (when findByAddr is non-zero) by the address it currently
// resolves to — and atomically overwrites that slot with hookAddr. It
// returns the address that was there before, so the caller can chain to
// the original implementation.
//
// Ported from hook_iat in hook.cpp, minus the page-protection dance
// (VirtualProtect/mprotect around the write): in the original the IAT
// lives in the target process's own read-only data section, so the write
// must temporarily relax page protection; this port's ImportTable always
// points at memory the caller already made writable, since there is no
// cross-process memory-write primitive behind it.
func HookIAT(table *ImportTable, funcName string, findByAddr uintptr, hookAddr uintptr) (prevAddr uintptr, err error) {
	var imp Import
	var ok bool
	if findByAddr != 0 {
		imp, ok = table.findByAddr(findByAddr)
	} else {
		imp, ok = table.findByName(funcName)
	}
	if !ok {
		return 0, fmt.Errorf("hook: import %q not found in table", funcName)
	}

	prevAddr = readSlot(imp.SlotAddr)
	writeSlot(imp.SlotAddr, hookAddr)
	return prevAddr, nil
}
