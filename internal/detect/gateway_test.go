package detect

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBuffer serves scripted rows; failAt makes Row(i) fail.
type fakeBuffer struct {
	rows   [][2]int
	failAt int
}

func (b *fakeBuffer) Row(i int) (int, int, error) {
	if b.failAt > 0 && i == b.failAt {
		return 0, 0, errors.New("unreadable row")
	}
	if i >= len(b.rows) {
		return 0, 0, errors.New("row past end")
	}
	return b.rows[i][0], b.rows[i][1], nil
}

// fakeCapability records every acquire and release.
type fakeCapability struct {
	buf      Buffer
	findErr  error
	panicMsg string
	freeErr  error

	mu        sync.Mutex
	calls     int
	freed     int
	freedRows []int
	gotParams [3]float32
}

func (f *fakeCapability) Name() string    { return "fake" }
func (f *fakeCapability) Version() string { return "1.2.0" }

func (f *fakeCapability) FindHits(_ string, sf, sc, thr float32) (Buffer, error) {
	f.mu.Lock()
	f.calls++
	f.gotParams = [3]float32{sf, sc, thr}
	f.mu.Unlock()
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.buf, nil
}

func (f *fakeCapability) FreeBuffer(_ Buffer, rows int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.freed++
	f.freedRows = append(f.freedRows, rows)
	return f.freeErr
}

func hitsBuffer(hits ...Hit) *fakeBuffer {
	return newFakeBuffer(len(hits), hits...)
}

func newFakeBuffer(count int, hits ...Hit) *fakeBuffer {
	rows := [][2]int{{count, 2}}
	for _, h := range hits {
		rows = append(rows, [2]int{h.Row, h.Col})
	}
	return &fakeBuffer{rows: rows}
}

func TestGateway_Detect(t *testing.T) {
	params := NewParams(1, 5)

	t.Run("decodes hits in buffer order and releases N+1 rows", func(t *testing.T) {
		capability := &fakeCapability{buf: hitsBuffer(Hit{10, 20}, Hit{30, 40})}
		res, err := NewGateway(capability).Detect(context.Background(), "1.dat", params)

		require.NoError(t, err)
		assert.Equal(t, Result{{Row: 10, Col: 20}, {Row: 30, Col: 40}}, res)
		assert.Equal(t, []int{3}, capability.freedRows)
		assert.Equal(t, [3]float32{1, 2, 5}, capability.gotParams)
	})

	t.Run("zero hits still releases the count row", func(t *testing.T) {
		capability := &fakeCapability{buf: hitsBuffer()}
		res, err := NewGateway(capability).Detect(context.Background(), "1.dat", params)

		require.NoError(t, err)
		assert.NotNil(t, res)
		assert.Empty(t, res)
		assert.Equal(t, []int{1}, capability.freedRows)
	})

	t.Run("nil buffer means no hits and no release", func(t *testing.T) {
		capability := &fakeCapability{}
		res, err := NewGateway(capability).Detect(context.Background(), "1.dat", params)

		require.NoError(t, err)
		assert.Empty(t, res)
		assert.Zero(t, capability.freed)
	})

	t.Run("invocation error skips release", func(t *testing.T) {
		capability := &fakeCapability{findErr: errors.New("cannot open")}
		res, err := NewGateway(capability).Detect(context.Background(), "1.dat", params)

		assert.Nil(t, res)
		var invErr *InvocationError
		require.ErrorAs(t, err, &invErr)
		assert.Equal(t, "1.dat", invErr.Path)
		assert.Zero(t, capability.freed)
	})

	t.Run("capability panic becomes an invocation error", func(t *testing.T) {
		capability := &fakeCapability{panicMsg: "segfault"}
		res, err := NewGateway(capability).Detect(context.Background(), "1.dat", params)

		assert.Nil(t, res)
		var invErr *InvocationError
		require.ErrorAs(t, err, &invErr)
		assert.Contains(t, err.Error(), "segfault")
		assert.Zero(t, capability.freed)
	})

	t.Run("negative count is a decode error and releases one row", func(t *testing.T) {
		capability := &fakeCapability{buf: newFakeBuffer(-3)}
		res, err := NewGateway(capability).Detect(context.Background(), "1.dat", params)

		assert.Nil(t, res)
		var decErr *DecodeError
		require.ErrorAs(t, err, &decErr)
		assert.Equal(t, -3, decErr.Count)
		assert.Equal(t, []int{1}, capability.freedRows)
	})

	t.Run("count above the bound is a decode error", func(t *testing.T) {
		capability := &fakeCapability{buf: newFakeBuffer(11)}
		_, err := NewGateway(capability, WithMaxHits(10)).Detect(context.Background(), "1.dat", params)

		var decErr *DecodeError
		require.ErrorAs(t, err, &decErr)
		assert.Equal(t, []int{1}, capability.freedRows)
	})

	t.Run("row read failure releases the full buffer", func(t *testing.T) {
		buf := hitsBuffer(Hit{1, 1}, Hit{2, 2}, Hit{3, 3})
		buf.failAt = 2
		capability := &fakeCapability{buf: buf}
		res, err := NewGateway(capability).Detect(context.Background(), "1.dat", params)

		assert.Nil(t, res)
		var decErr *DecodeError
		require.ErrorAs(t, err, &decErr)
		assert.Equal(t, []int{4}, capability.freedRows)
	})

	t.Run("release failure discards the result", func(t *testing.T) {
		capability := &fakeCapability{buf: hitsBuffer(Hit{1, 1}), freeErr: errors.New("heap corrupt")}
		res, err := NewGateway(capability).Detect(context.Background(), "1.dat", params)

		assert.Nil(t, res)
		var relErr *ReleaseError
		require.ErrorAs(t, err, &relErr)
		assert.Equal(t, 2, relErr.Rows)
		assert.Equal(t, 1, capability.freed)
	})
}

func TestGateway_WithMaxHitsIgnoresNonPositive(t *testing.T) {
	g := NewGateway(&fakeCapability{}, WithMaxHits(0))
	assert.Equal(t, DefaultMaxHits, g.maxHits)
}

func TestLease_DoubleRelease(t *testing.T) {
	capability := &fakeCapability{}
	l := &lease{capability: capability, buf: hitsBuffer(), rows: 1}

	require.NoError(t, l.release())
	assert.ErrorIs(t, l.release(), ErrDoubleRelease)
	assert.Equal(t, 1, capability.freed)
}

func TestGateway_ConcurrentBalance(t *testing.T) {
	ref := NewReference()
	dir := t.TempDir()
	path := writeSpotMatrix(t, dir, "1.dat", 9, 9, [2]int{4, 4})
	g := NewGateway(ref)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := g.Detect(context.Background(), path, NewParams(1, 5))
			assert.NoError(t, err)
			assert.Equal(t, Result{{Row: 4, Col: 4}}, res)
		}()
	}
	wg.Wait()

	stats := ref.Stats()
	assert.Equal(t, int64(16), stats.Acquired)
	assert.Equal(t, int64(16), stats.Released)
	assert.Zero(t, stats.Outstanding)
}

func TestParams(t *testing.T) {
	p := NewParams(1.5, 5)
	assert.Equal(t, float32(1.5), p.SigmaFine)
	assert.Equal(t, float32(3), p.SigmaCoarse)
	require.NoError(t, p.Validate())

	bad := []Params{
		NewParams(0, 5),
		NewParams(1, -1),
		{SigmaFine: 1, SigmaCoarse: 3, Threshold: 5},
	}
	for _, b := range bad {
		assert.ErrorIs(t, b.Validate(), ErrInvalidParams)
	}
}
