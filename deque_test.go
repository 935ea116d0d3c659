// deque_test.go: tests for the weakly-consistent eviction deque
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package ripplecache

import "testing"

func snapshotKeys(d *evictionDeque[string, int]) []string {
	out := make([]string, 0, d.len())
	for _, e := range d.snapshot() {
		out = append(out, e.key)
	}
	return out
}

func TestDeque_ApplyCommand_OpAdd_PushesFront(t *testing.T) {
	tb := newTestTable[int](16)
	d := newEvictionDeque[string, int](16, LRU, tb)

	e1, _, _, _, _ := tb.tryInsert("a", 1, false)
	e2, _, _, _, _ := tb.tryInsert("b", 2, false)
	d.applyCommand(opAdd, e1)
	d.applyCommand(opAdd, e2)

	if got := snapshotKeys(d); len(got) != 2 || got[0] != "b" || got[1] != "a" {
		t.Errorf("snapshot = %v, want [b a]", got)
	}
	if d.len() != 2 {
		t.Errorf("len() = %d, want 2", d.len())
	}
}

func TestDeque_ApplyCommand_OpAdd_IgnoresRemovedEntry(t *testing.T) {
	tb := newTestTable[int](16)
	d := newEvictionDeque[string, int](16, LRU, tb)

	e, _, _, _, _ := tb.tryInsert("a", 1, false)
	tb.tryRemove("a", nil) // sets e.removed before the opAdd is drained
	d.applyCommand(opAdd, e)

	if d.len() != 0 {
		t.Errorf("len() = %d, want 0 (opAdd on removed entry must be a no-op)", d.len())
	}
}

func TestDeque_ApplyCommand_OpRead_IgnoresRemovedEntry(t *testing.T) {
	tb := newTestTable[int](16)
	d := newEvictionDeque[string, int](16, LRU, tb)

	e, _, _, _, _ := tb.tryInsert("a", 1, false)
	d.applyCommand(opAdd, e)
	tb.tryRemove("a", nil)
	d.applyCommand(opRead, e) // stale read racing behind the remove

	if d.len() != 1 {
		t.Errorf("len() = %d, want 1 (stale read must leave the deque unchanged)", d.len())
	}
}

func TestDeque_LRU_MoveToFrontOnRead(t *testing.T) {
	tb := newTestTable[int](16)
	d := newEvictionDeque[string, int](16, LRU, tb)

	ea, _, _, _, _ := tb.tryInsert("a", 1, false)
	eb, _, _, _, _ := tb.tryInsert("b", 2, false)
	ec, _, _, _, _ := tb.tryInsert("c", 3, false)
	d.applyCommand(opAdd, ea)
	d.applyCommand(opAdd, eb)
	d.applyCommand(opAdd, ec)
	// order front-to-back: c, b, a

	d.applyCommand(opRead, ea)
	if got := snapshotKeys(d); len(got) != 3 || got[0] != "a" || got[1] != "c" || got[2] != "b" {
		t.Errorf("snapshot after touching tail = %v, want [a c b]", got)
	}
}

func TestDeque_LFU_PromoteOneStepOnRead(t *testing.T) {
	tb := newTestTable[int](16)
	d := newEvictionDeque[string, int](16, LFU, tb)

	ea, _, _, _, _ := tb.tryInsert("a", 1, false)
	eb, _, _, _, _ := tb.tryInsert("b", 2, false)
	ec, _, _, _, _ := tb.tryInsert("c", 3, false)
	d.applyCommand(opAdd, ea)
	d.applyCommand(opAdd, eb)
	d.applyCommand(opAdd, ec)
	// order front-to-back: c, b, a

	d.applyCommand(opRead, ea) // a swaps one step with its predecessor b
	if got := snapshotKeys(d); len(got) != 3 || got[0] != "c" || got[1] != "a" || got[2] != "b" {
		t.Errorf("snapshot after one promotion = %v, want [c a b]", got)
	}
	if ea.freqHint != 1 {
		t.Errorf("freqHint = %d, want 1", ea.freqHint)
	}

	d.applyCommand(opRead, ea) // a swaps with c, reaching the front
	if got := snapshotKeys(d); len(got) != 3 || got[0] != "a" || got[1] != "c" || got[2] != "b" {
		t.Errorf("snapshot after two promotions = %v, want [a c b]", got)
	}
}

func TestDeque_ApplyCommand_OpRemove_Unlinks(t *testing.T) {
	tb := newTestTable[int](16)
	d := newEvictionDeque[string, int](16, LRU, tb)

	ea, _, _, _, _ := tb.tryInsert("a", 1, false)
	eb, _, _, _, _ := tb.tryInsert("b", 2, false)
	d.applyCommand(opAdd, ea)
	d.applyCommand(opAdd, eb)

	d.applyCommand(opRemove, ea)
	if d.len() != 1 {
		t.Errorf("len() = %d, want 1", d.len())
	}
	if got := snapshotKeys(d); len(got) != 1 || got[0] != "b" {
		t.Errorf("snapshot = %v, want [b]", got)
	}
}

func TestDeque_ApplyCommand_OpRemove_IsIdempotent(t *testing.T) {
	tb := newTestTable[int](16)
	d := newEvictionDeque[string, int](16, LRU, tb)

	e, _, _, _, _ := tb.tryInsert("a", 1, false)
	d.applyCommand(opAdd, e)

	d.applyCommand(opRemove, e)
	d.applyCommand(opRemove, e) // a second, stale remove command for the same entry

	if d.len() != 0 {
		t.Errorf("len() = %d, want 0", d.len())
	}
}

func TestDeque_EvictOverflow_RemovesFromTable(t *testing.T) {
	tb := newTestTable[int](2)
	d := newEvictionDeque[string, int](2, LRU, tb)

	ea, _, _, _, _ := tb.tryInsert("a", 1, false)
	eb, _, _, _, _ := tb.tryInsert("b", 2, false)
	ec, _, _, _, _ := tb.tryInsert("c", 3, false)
	d.applyCommand(opAdd, ea)
	d.applyCommand(opAdd, eb)
	d.applyCommand(opAdd, ec) // pushes size to 3 > capacity 2, evicts "a"

	evicted := d.takeEvicted()
	if len(evicted) != 1 || evicted[0].key != "a" {
		t.Fatalf("evicted = %v, want [a]", evicted)
	}
	if _, found, _, _ := tb.tryGet("a"); found {
		t.Error("evicted entry should be gone from the table")
	}
	if d.len() != 2 {
		t.Errorf("len() = %d, want 2", d.len())
	}
}

func TestDeque_TakeEvicted_DrainsAccumulator(t *testing.T) {
	tb := newTestTable[int](1)
	d := newEvictionDeque[string, int](1, LRU, tb)

	ea, _, _, _, _ := tb.tryInsert("a", 1, false)
	eb, _, _, _, _ := tb.tryInsert("b", 2, false)
	d.applyCommand(opAdd, ea)
	d.applyCommand(opAdd, eb)

	first := d.takeEvicted()
	if len(first) != 1 {
		t.Fatalf("first takeEvicted() = %v, want 1 entry", first)
	}
	second := d.takeEvicted()
	if second != nil {
		t.Errorf("second takeEvicted() = %v, want nil", second)
	}
}

func TestDeque_Snapshot_EmptyDeque(t *testing.T) {
	tb := newTestTable[int](4)
	d := newEvictionDeque[string, int](4, LRU, tb)
	if got := d.snapshot(); len(got) != 0 {
		t.Errorf("snapshot() = %v, want empty", got)
	}
}
