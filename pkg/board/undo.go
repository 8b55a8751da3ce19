package board

import "fmt"

// UndoKind is the kind of change an undo entry reverts.
type UndoKind int

const (
	UndoNew     UndoKind = iota // item was created
	UndoChanged                 // item was modified; Saved holds the old value
	UndoDeleted                 // item was removed from the board
)

func (k UndoKind) String() string {
	switch k {
	case UndoNew:
		return "new"
	case UndoChanged:
		return "changed"
	case UndoDeleted:
		return "deleted"
	default:
		return fmt.Sprintf("UndoKind(%d)", int(k))
	}
}

// UndoSink receives the changes made to board tracks. Record is called
// before a change for UndoChanged and UndoDeleted, and after the item was
// added for UndoNew.
type UndoSink interface {
	Record(kind UndoKind, t *Track)
}

// UndoEntry is one recorded change.
type UndoEntry struct {
	Kind  UndoKind
	Track *Track // live item
	Saved *Track // copy taken at record time, for UndoChanged and UndoDeleted
	Index int    // collection position, for UndoDeleted
}

// PickedList accumulates the entries of one pending command. It is the
// UndoSink used while a routing session is open.
type PickedList struct {
	board   *Board
	entries []UndoEntry
}

// NewPickedList returns an empty list for changes made to b.
func NewPickedList(b *Board) *PickedList {
	return &PickedList{board: b}
}

// Record implements UndoSink.
func (l *PickedList) Record(kind UndoKind, t *Track) {
	e := UndoEntry{Kind: kind, Track: t, Index: -1}
	if kind != UndoNew {
		e.Saved = t.Clone()
	}
	if kind == UndoDeleted && l.board != nil {
		e.Index = l.board.IndexOf(t.ID)
	}
	l.entries = append(l.entries, e)
}

// Entries returns the recorded entries in order.
func (l *PickedList) Entries() []UndoEntry {
	return append([]UndoEntry(nil), l.entries...)
}

// Len returns the number of recorded entries.
func (l *PickedList) Len() int {
	return len(l.entries)
}

// Clear drops all entries without reverting them.
func (l *PickedList) Clear() {
	l.entries = nil
}

// Revert undoes the recorded changes in reverse order and clears the list.
func (l *PickedList) Revert() error {
	err := revert(l.board, l.entries)
	l.entries = nil
	return err
}

func revert(b *Board, entries []UndoEntry) error {
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		switch e.Kind {
		case UndoNew:
			if _, err := b.RemoveTrack(e.Track.ID); err != nil {
				return fmt.Errorf("failed to revert new track: %w", err)
			}
		case UndoChanged:
			*e.Track = *e.Saved
		case UndoDeleted:
			*e.Track = *e.Saved
			idx := e.Index
			if idx < 0 || idx > b.TrackCount() {
				idx = b.TrackCount()
			}
			if err := b.InsertTrack(idx, e.Track); err != nil {
				return fmt.Errorf("failed to revert deleted track: %w", err)
			}
		}
	}
	return nil
}

// Command is a committed group of undo entries.
type Command struct {
	Label   string
	Entries []UndoEntry
}

// History is the committed undo stack.
type History struct {
	commands []Command
}

// Push appends a command built from entries.
func (h *History) Push(label string, entries []UndoEntry) {
	h.commands = append(h.commands, Command{Label: label, Entries: entries})
}

// Len returns the number of commands.
func (h *History) Len() int {
	return len(h.commands)
}

// Last returns the most recent command.
func (h *History) Last() (Command, bool) {
	if len(h.commands) == 0 {
		return Command{}, false
	}
	return h.commands[len(h.commands)-1], true
}

// Commands returns a copy of the stack, oldest first.
func (h *History) Commands() []Command {
	return append([]Command(nil), h.commands...)
}

// Undo pops the last command and reverts it on b.
func (h *History) Undo(b *Board) (Command, error) {
	c, ok := h.Last()
	if !ok {
		return Command{}, fmt.Errorf("failed to undo: history is empty")
	}
	h.commands = h.commands[:len(h.commands)-1]
	if err := revert(b, c.Entries); err != nil {
		return c, fmt.Errorf("failed to undo %q: %w", c.Label, err)
	}
	return c, nil
}
