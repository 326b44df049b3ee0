package linebuf

import "testing"

func TestInsertAdvancesCursor(t *testing.T) {
	b := New()
	b.Insert("hello")
	if b.Text() != "hello" {
		t.Fatalf("Text() = %q, want hello", b.Text())
	}
	if b.Cursor() != 5 {
		t.Fatalf("Cursor() = %d, want 5", b.Cursor())
	}
}

func TestInsertAtCursorSplitsText(t *testing.T) {
	b := New()
	b.Insert("helo")
	b.SetCursor(3)
	b.Insert("l")
	if b.Text() != "hello" {
		t.Fatalf("Text() = %q, want hello", b.Text())
	}
	if b.Cursor() != 4 {
		t.Fatalf("Cursor() = %d, want 4", b.Cursor())
	}
}

func TestRemoveDeletesRangeAndClampsCursor(t *testing.T) {
	b := New()
	b.Insert("hello world")
	if !b.Remove(5, 11) {
		t.Fatalf("Remove should succeed")
	}
	if b.Text() != "hello" {
		t.Fatalf("Text() = %q, want hello", b.Text())
	}
	if b.Cursor() != 5 {
		t.Fatalf("Cursor() = %d, want 5 after trailing removal", b.Cursor())
	}
}

func TestRemoveEmptyRangeFails(t *testing.T) {
	b := New()
	b.Insert("hello")
	if b.Remove(2, 2) {
		t.Fatalf("Remove of an empty range should fail")
	}
}

func TestSetCursorClamps(t *testing.T) {
	b := New()
	b.Insert("hi")
	if got := b.SetCursor(99); got != 2 {
		t.Fatalf("SetCursor(99) = %d, want clamp to 2", got)
	}
	if got := b.SetCursor(-5); got != 0 {
		t.Fatalf("SetCursor(-5) = %d, want clamp to 0", got)
	}
}

func TestUndoReversesInsert(t *testing.T) {
	b := New()
	b.Insert("hello")
	b.Insert(" world")
	if !b.Undo() {
		t.Fatalf("Undo should succeed")
	}
	if b.Text() != "hello" {
		t.Fatalf("Text() = %q, want hello after undoing the second insert", b.Text())
	}
	if !b.Undo() {
		t.Fatalf("second Undo should succeed")
	}
	if b.Text() != "" {
		t.Fatalf("Text() = %q, want empty after undoing the first insert", b.Text())
	}
	if b.Undo() {
		t.Fatalf("Undo with no history left should fail")
	}
}

func TestUndoReversesRemove(t *testing.T) {
	b := New()
	b.Insert("hello world")
	b.Remove(5, 11)
	b.Undo()
	if b.Text() != "hello world" {
		t.Fatalf("Text() = %q, want hello world after undoing the removal", b.Text())
	}
}

func TestUndoGroupCollapsesToOneStep(t *testing.T) {
	b := New()
	b.BeginUndoGroup()
	b.Insert("foo")
	b.Insert("bar")
	b.EndUndoGroup()

	if !b.Undo() {
		t.Fatalf("Undo should succeed")
	}
	if b.Text() != "" {
		t.Fatalf("Text() = %q, want empty: grouped edits should undo in one step", b.Text())
	}
	if b.Undo() {
		t.Fatalf("a single grouped Undo should have consumed both edits")
	}
}

func TestDrawCoalescesAndClears(t *testing.T) {
	b := New()
	b.Insert("x")
	b.Insert("y")
	if !b.Draw() {
		t.Fatalf("Draw() should report pending work after edits")
	}
	if b.Draw() {
		t.Fatalf("Draw() should report no pending work once flushed")
	}
}

func TestRedrawForcesPending(t *testing.T) {
	b := New()
	b.Draw() // clear any initial state
	b.Redraw()
	if !b.Draw() {
		t.Fatalf("Draw() should report pending work after Redraw()")
	}
}
