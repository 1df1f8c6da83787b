package detect

import (
	"context"
	"fmt"
	"math"
)

// Hit is one detected coordinate.
type Hit struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Result is the ordered list of hits for one file.
type Result []Hit

// Params are the DoG inputs. SigmaCoarse is always twice SigmaFine; build
// values with NewParams.
type Params struct {
	SigmaFine   float32 `json:"sigma_fine"`
	SigmaCoarse float32 `json:"sigma_coarse"`
	Threshold   float32 `json:"threshold"`
}

// NewParams derives the scale pair (sigma, 2*sigma) from sigma.
func NewParams(sigma, threshold float64) Params {
	return Params{
		SigmaFine:   float32(sigma),
		SigmaCoarse: float32(2 * sigma),
		Threshold:   float32(threshold),
	}
}

// Validate rejects non-positive or non-finite values and a broken scale pair.
func (p Params) Validate() error {
	for _, v := range []struct {
		name string
		val  float32
	}{
		{"sigma fine", p.SigmaFine},
		{"sigma coarse", p.SigmaCoarse},
		{"threshold", p.Threshold},
	} {
		f := float64(v.val)
		if !(f > 0) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: %s must be positive and finite, got %v", ErrInvalidParams, v.name, v.val)
		}
	}
	if p.SigmaCoarse != 2*p.SigmaFine {
		return fmt.Errorf("%w: sigma coarse %v is not twice sigma fine %v", ErrInvalidParams, p.SigmaCoarse, p.SigmaFine)
	}
	return nil
}

// Detector runs detection on one file. Gateway implements it; so do the
// decorators in this package.
type Detector interface {
	Detect(ctx context.Context, path string, params Params) (Result, error)
}

// Buffer is a result buffer leased from a Capability. Row 0 carries the hit
// count in its first element; rows 1..N carry (row, col) pairs. Rows beyond N
// must not be read.
type Buffer interface {
	Row(i int) (first, second int, err error)
}

// Capability is the external DoG implementation.
//
// FindHits returns a leased buffer, or a nil buffer and nil error when the
// capability reports "no hits" without allocating. An error means nothing was
// leased. FreeBuffer must be called exactly once for every non-nil buffer,
// with rows = hit count + 1.
//
// Implementations must be safe for concurrent use.
type Capability interface {
	Name() string
	Version() string
	FindHits(path string, sigmaFine, sigmaCoarse, threshold float32) (Buffer, error)
	FreeBuffer(buf Buffer, rows int) error
}
