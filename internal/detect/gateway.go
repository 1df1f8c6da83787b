package detect

import (
	"context"
	"errors"
	"fmt"

	"github.com/yourpaljake/hitfinding/internal/logging"
)

// DefaultMaxHits is used when a Gateway is built without WithMaxHits.
const DefaultMaxHits = 460 * 460

// Gateway runs the acquire, decode, release sequence against a Capability.
type Gateway struct {
	capability Capability
	maxHits    int
}

// GatewayOption configures a Gateway.
type GatewayOption func(*Gateway)

// WithMaxHits bounds the hit count accepted from a buffer. Larger counts are
// treated as corrupt.
func WithMaxHits(n int) GatewayOption {
	return func(g *Gateway) {
		if n > 0 {
			g.maxHits = n
		}
	}
}

// NewGateway wraps capability.
func NewGateway(capability Capability, opts ...GatewayOption) *Gateway {
	g := &Gateway{capability: capability, maxHits: DefaultMaxHits}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Capability returns the wrapped capability.
func (g *Gateway) Capability() Capability {
	return g.capability
}

// Detect runs the capability on path and decodes its buffer into a Result.
//
// The buffer is released before Detect returns, whatever happens while
// decoding. Release failures are joined onto the returned error and discard
// the result.
func (g *Gateway) Detect(ctx context.Context, path string, params Params) (res Result, err error) {
	log := logging.FromContext(ctx).With().
		Str("component", "detect").
		Str("capability", g.capability.Name()).
		Str("path", path).
		Logger()

	buf, err := g.invoke(path, params)
	if err != nil {
		return nil, err
	}
	if buf == nil {
		log.Debug().Msg("capability reported no hits without a buffer")
		return Result{}, nil
	}

	l := &lease{capability: g.capability, buf: buf, rows: 1}
	defer func() {
		if relErr := l.release(); relErr != nil {
			log.Error().Err(relErr).Int("rows", l.rows).Msg("buffer release failed")
			res = nil
			err = errors.Join(err, &ReleaseError{Path: path, Rows: l.rows, Err: relErr})
		}
	}()

	res, err = decode(path, l, g.maxHits)
	if err != nil {
		return nil, err
	}

	log.Debug().Int("hits", len(res)).Msg("buffer decoded")
	return res, nil
}

// invoke calls FindHits, turning errors and panics raised by the binding into
// an InvocationError.
func (g *Gateway) invoke(path string, params Params) (buf Buffer, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf = nil
			err = &InvocationError{Path: path, Err: fmt.Errorf("capability panic: %v", r)}
		}
	}()

	buf, err = g.capability.FindHits(path, params.SigmaFine, params.SigmaCoarse, params.Threshold)
	if err != nil {
		return nil, &InvocationError{Path: path, Err: err}
	}
	return buf, nil
}

// lease scopes one leased buffer. rows starts at 1 (the count row, the only
// row known to exist) and grows to N+1 once a plausible count is decoded.
type lease struct {
	capability Capability
	buf        Buffer
	rows       int
	released   bool
}

func (l *lease) release() error {
	if l.released {
		return ErrDoubleRelease
	}
	l.released = true
	return l.capability.FreeBuffer(l.buf, l.rows)
}

// decode reads the count row then N coordinate rows.
func decode(path string, l *lease, maxHits int) (Result, error) {
	count, _, err := l.buf.Row(0)
	if err != nil {
		return nil, &DecodeError{Path: path, Reason: "reading count row", Err: err}
	}
	if count < 0 || count > maxHits {
		return nil, &DecodeError{Path: path, Count: count, Reason: fmt.Sprintf("implausible hit count (max %d)", maxHits)}
	}
	l.rows = count + 1

	out := make(Result, 0, count)
	for i := 1; i <= count; i++ {
		row, col, rowErr := l.buf.Row(i)
		if rowErr != nil {
			return nil, &DecodeError{Path: path, Count: count, Reason: fmt.Sprintf("reading row %d", i), Err: rowErr}
		}
		out = append(out, Hit{Row: row, Col: col})
	}
	return out, nil
}
