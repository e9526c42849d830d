package textarea

import (
	"errors"
	"time"
)

// History errors.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

const (
	maxHistory = 1000
	mergeDelay = time.Second
)

// operation is one undoable replacement of OldText by NewText at Start.
type operation struct {
	seq     uint64
	start   Pos
	oldText string
	newText string
	before  Pos
	after   Pos
	group   string
	at      time.Time
	sealed  bool
}

type history struct {
	undo    []*operation
	redo    []*operation
	nextSeq uint64
	now     func() time.Time

	// floor is the seq of the newest step trimmed from undo. An empty undo
	// stack stands for that state, not the loaded one.
	floor uint64
}

func newHistory() *history {
	return &history{now: time.Now}
}

// push records op. Consecutive insertions with the same group are merged
// into one undo step.
func (h *history) push(op *operation) {
	op.at = h.now()
	h.redo = nil

	if n := len(h.undo); n > 0 && op.group != "" {
		last := h.undo[n-1]
		if !last.sealed && last.group == op.group && op.at.Sub(last.at) < mergeDelay &&
			last.oldText == "" && op.oldText == "" && endOf(last.start, last.newText) == op.start {
			last.newText += op.newText
			last.after = op.after
			last.at = op.at
			return
		}
	}

	h.nextSeq++
	op.seq = h.nextSeq
	h.undo = append(h.undo, op)
	if n := len(h.undo) - maxHistory; n > 0 {
		h.floor = h.undo[n-1].seq
		h.undo = h.undo[n:]
	}
}

func (h *history) popUndo() (*operation, error) {
	if len(h.undo) == 0 {
		return nil, ErrNothingToUndo
	}
	op := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, op)
	return op, nil
}

func (h *history) popRedo() (*operation, error) {
	if len(h.redo) == 0 {
		return nil, ErrNothingToRedo
	}
	op := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, op)
	return op, nil
}

// top returns the seq of the newest undo step. When the stack is empty it
// is 0, or the seq of the last trimmed step.
func (h *history) top() uint64 {
	if len(h.undo) == 0 {
		return h.floor
	}
	return h.undo[len(h.undo)-1].seq
}

// seal stops further merging into the newest step.
func (h *history) seal() {
	if len(h.undo) > 0 {
		h.undo[len(h.undo)-1].sealed = true
	}
}

func (h *history) reset() {
	h.undo = nil
	h.redo = nil
	h.floor = 0
}
