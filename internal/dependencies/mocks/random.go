package mocks

import (
	"github.com/jaminalder/tictactoe/internal/dependencies/random"
)

// MockRandom returns queued Intn results and records the bounds it was asked for
type MockRandom struct {
	IntnResults []int
	intnIndex   int

	// Calls holds the n of every Intn call, in order
	Calls []int
}

var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a MockRandom with the given queued results
func NewMockRandom(results ...int) *MockRandom {
	return &MockRandom{IntnResults: results}
}

// Intn returns the next queued result modulo n, or 0 if none remaining
func (r *MockRandom) Intn(n int) int {
	r.Calls = append(r.Calls, n)
	if r.intnIndex >= len(r.IntnResults) || n <= 0 {
		return 0
	}
	result := r.IntnResults[r.intnIndex]
	r.intnIndex++
	return result % n
}

// QueueIntn adds values to the Intn result queue
func (r *MockRandom) QueueIntn(values ...int) {
	r.IntnResults = append(r.IntnResults, values...)
}

