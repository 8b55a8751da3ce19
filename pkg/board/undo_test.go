package board

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHistoryUndoRestoresDeletedTrack(t *testing.T) {
	b := New("undo")
	b.AddTrack(track(1, 0, 0, 0, 10, 0, 1))
	victim := b.AddTrack(track(1, 0, 10, 0, 20, 0, 1))
	b.AddTrack(track(2, 0, 0, 10, 10, 10, 1))
	before := b.Snapshot()

	pl := NewPickedList(b)
	added := track(1, 0, 20, 0, 30, 0, 1)
	if err := b.InsertTrack(b.BestInsertIndex(1), added); err != nil {
		t.Fatal(err)
	}
	pl.Record(UndoNew, added)

	pl.Record(UndoDeleted, victim)
	victim.Set(FlagDeleted)
	if _, err := b.RemoveTrack(victim.ID); err != nil {
		t.Fatal(err)
	}

	var h History
	h.Push("route", pl.Entries())
	pl.Clear()

	if h.Len() != 1 {
		t.Fatalf("Len() = %d", h.Len())
	}
	cmd, err := h.Undo(b)
	if err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if cmd.Label != "route" || len(cmd.Entries) != 2 {
		t.Errorf("Undo() = %+v", cmd)
	}
	if diff := cmp.Diff(before, b.Snapshot()); diff != "" {
		t.Errorf("board not restored (-want +got):\n%s", diff)
	}

	if _, err := h.Undo(b); err == nil {
		t.Error("Undo() on empty history should fail")
	}
}

func TestUndoKindString(t *testing.T) {
	for k, want := range map[UndoKind]string{UndoNew: "new", UndoChanged: "changed", UndoDeleted: "deleted"} {
		if k.String() != want {
			t.Errorf("%d.String() = %q, want %q", int(k), k.String(), want)
		}
	}
}
