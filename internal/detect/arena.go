package detect

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Stats counts buffer leases handed out and returned by a capability.
type Stats struct {
	Acquired    int64
	Released    int64
	Outstanding int64
}

// arena hands out in-memory result buffers and tracks which are still leased.
type arena struct {
	acquired atomic.Int64
	released atomic.Int64

	mu   sync.Mutex
	live map[*arenaBuffer]struct{}
}

func newArena() *arena {
	return &arena{live: make(map[*arenaBuffer]struct{})}
}

func (a *arena) lease(hits []Hit) *arenaBuffer {
	buf := newArenaBuffer(hits)
	a.mu.Lock()
	a.live[buf] = struct{}{}
	a.acquired.Add(1)
	a.mu.Unlock()
	return buf
}

// free returns buf to the arena. rows must cover the whole buffer.
func (a *arena) free(buf Buffer, rows int) error {
	ab, ok := buf.(*arenaBuffer)
	if !ok {
		return fmt.Errorf("%w: %T", ErrUnknownBuffer, buf)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, leased := a.live[ab]; !leased {
		return ErrUnknownBuffer
	}
	if rows != len(ab.rows) {
		return fmt.Errorf("release of %d rows does not match the %d leased", rows, len(ab.rows))
	}
	delete(a.live, ab)
	ab.rows = nil
	a.released.Add(1)
	return nil
}

// Stats returns the current lease counters.
func (a *arena) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Stats{
		Acquired:    a.acquired.Load(),
		Released:    a.released.Load(),
		Outstanding: int64(len(a.live)),
	}
}

// arenaBuffer is the in-memory buffer layout: row 0 is {N, 2}, rows 1..N are
// {row, col}.
type arenaBuffer struct {
	rows [][2]int
}

func newArenaBuffer(hits []Hit) *arenaBuffer {
	rows := make([][2]int, len(hits)+1)
	rows[0] = [2]int{len(hits), 2}
	for i, h := range hits {
		rows[i+1] = [2]int{h.Row, h.Col}
	}
	return &arenaBuffer{rows: rows}
}

// Row implements Buffer.
func (b *arenaBuffer) Row(i int) (int, int, error) {
	if i < 0 || i >= len(b.rows) {
		return 0, 0, fmt.Errorf("row %d out of range [0,%d)", i, len(b.rows))
	}
	return b.rows[i][0], b.rows[i][1], nil
}
