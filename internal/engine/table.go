package engine

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yourpaljake/hitfinding/internal/detect"
)

// ErrTaskIndex marks every slot of a batch whose task indices are not 0..N-1
// in order. Such a batch is not dispatched.
var ErrTaskIndex = errors.New("task index does not match its batch position")

// SlotState is the outcome recorded for one batch index.
//
//nolint:recvcheck // UnmarshalJSON requires pointer receiver; String/MarshalJSON use value receivers.
type SlotState int

const (
	// SlotAbsent means no unit wrote the slot.
	SlotAbsent SlotState = iota
	// SlotDone means detection succeeded; Result may be empty.
	SlotDone
	// SlotFailed means detection failed; Err says why.
	SlotFailed
)

// String returns the human-readable label for a SlotState.
func (s SlotState) String() string {
	switch s {
	case SlotAbsent:
		return "absent"
	case SlotDone:
		return "done"
	case SlotFailed:
		return "failed"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// MarshalJSON implements json.Marshaler to output SlotState as string.
func (s SlotState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON implements json.Unmarshaler to parse SlotState from string.
func (s *SlotState) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("parsing slot state: %w", err)
	}
	switch str {
	case "absent":
		*s = SlotAbsent
	case "done":
		*s = SlotDone
	case "failed":
		*s = SlotFailed
	default:
		return fmt.Errorf("unknown slot state: %q", str)
	}
	return nil
}

// Slot holds one file's outcome.
type Slot struct {
	State  SlotState
	Result detect.Result
	Err    error
}

// ResultTable has exactly one slot per batch index. Units write disjoint
// slots; readers wait for the dispatch to return.
type ResultTable struct {
	slots []Slot
}

// NewResultTable returns n absent slots.
func NewResultTable(n int) *ResultTable {
	return &ResultTable{slots: make([]Slot, n)}
}

// Len returns the number of slots.
func (t *ResultTable) Len() int {
	return len(t.slots)
}

// Slot returns the slot at index i.
func (t *ResultTable) Slot(i int) Slot {
	return t.slots[i]
}

// complete records a success. Each index is written at most once.
func (t *ResultTable) complete(i int, res detect.Result) {
	if res == nil {
		res = detect.Result{}
	}
	t.slots[i] = Slot{State: SlotDone, Result: res}
}

func (t *ResultTable) fail(i int, err error) {
	t.slots[i] = Slot{State: SlotFailed, Err: err}
}
