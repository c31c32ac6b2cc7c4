package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// BatchState – immutable value object
// ---------------------------------------------------------------------------

// BatchState is the lifecycle stage of a submitted batch:
//
//	received -> computing -> completed   (synchronous path)
//	received -> computing -> failed      (synchronous path, rejected entry)
//	received -> accepted                 (deferred path)
//
// completed, failed and accepted are terminal. accepted is terminal as far as this service is concerned; progress after
// hand-off is owned by the batch consumer.
type BatchState struct {
	value string
}

const (
	batchStateReceived  = "received"
	batchStateComputing = "computing"
	batchStateCompleted = "completed"
	batchStateAccepted  = "accepted"
	batchStateFailed    = "failed"
)

var (
	BatchStateReceived  = BatchState{value: batchStateReceived}
	BatchStateComputing = BatchState{value: batchStateComputing}
	BatchStateCompleted = BatchState{value: batchStateCompleted}
	BatchStateAccepted  = BatchState{value: batchStateAccepted}
	BatchStateFailed    = BatchState{value: batchStateFailed}
)

var validBatchStates = map[string]BatchState{
	batchStateReceived:  BatchStateReceived,
	batchStateComputing: BatchStateComputing,
	batchStateCompleted: BatchStateCompleted,
	batchStateAccepted:  BatchStateAccepted,
	batchStateFailed:    BatchStateFailed,
}

var batchTransitions = map[string][]string{
	batchStateReceived:  {batchStateComputing, batchStateAccepted},
	batchStateComputing: {batchStateCompleted, batchStateFailed},
}

// NewBatchState creates a BatchState from a raw string.
func NewBatchState(s string) (BatchState, error) {
	v, ok := validBatchStates[s]
	if !ok {
		return BatchState{}, fmt.Errorf("invalid batch state: %q", s)
	}
	return v, nil
}

// String returns the string representation of the state.
func (s BatchState) String() string { return s.value }

// IsZero returns true if the state has not been initialised.
func (s BatchState) IsZero() bool { return s.value == "" }

// Equal returns true when both states carry the same value.
func (s BatchState) Equal(other BatchState) bool { return s.value == other.value }

// IsTerminal reports whether no further transition is modelled.
func (s BatchState) IsTerminal() bool { return len(batchTransitions[s.value]) == 0 }

// CanTransitionTo reports whether next is a legal successor of s.
func (s BatchState) CanTransitionTo(next BatchState) bool {
	for _, v := range batchTransitions[s.value] {
		if v == next.value {
			return true
		}
	}
	return false
}
