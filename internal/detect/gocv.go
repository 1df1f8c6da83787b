//go:build gocv

package detect

import (
	"encoding/binary"
	"fmt"
	"image"
	"math"

	"gocv.io/x/gocv"
)

// GoCVName and GoCVVersion identify the OpenCV-backed capability.
const (
	GoCVName    = "gocv"
	GoCVVersion = "1.0.0"
)

//nolint:gochecknoinits // Registration is the point of the build tag.
func init() {
	Register(GoCVName, func() (Capability, error) { return NewGoCV(), nil })
}

// GoCV runs the DoG kernel with OpenCV's GaussianBlur. Border handling follows
// OpenCV (reflected) rather than leaving a zero frame, so responses near the
// edges differ slightly from Reference.
type GoCV struct {
	*arena
}

// NewGoCV returns a ready GoCV capability.
func NewGoCV() *GoCV {
	return &GoCV{arena: newArena()}
}

// Name implements Capability.
func (g *GoCV) Name() string { return GoCVName }

// Version implements Capability.
func (g *GoCV) Version() string { return GoCVVersion }

// FindHits implements Capability.
func (g *GoCV) FindHits(path string, sigmaFine, sigmaCoarse, threshold float32) (Buffer, error) {
	m, err := ReadMatrixFile(path)
	if err != nil {
		return nil, err
	}

	src, err := matFromSamples(m)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	fine := gocv.NewMat()
	defer fine.Close()
	coarse := gocv.NewMat()
	defer coarse.Close()
	dog := gocv.NewMat()
	defer dog.Close()

	ksize := image.Pt(kernelSize, kernelSize)
	if err := gocv.GaussianBlur(src, &fine, ksize, float64(sigmaFine), float64(sigmaFine), gocv.BorderReflect101); err != nil {
		return nil, fmt.Errorf("blur at sigma %v: %w", sigmaFine, err)
	}
	if err := gocv.GaussianBlur(src, &coarse, ksize, float64(sigmaCoarse), float64(sigmaCoarse), gocv.BorderReflect101); err != nil {
		return nil, fmt.Errorf("blur at sigma %v: %w", sigmaCoarse, err)
	}
	if err := gocv.Subtract(fine, coarse, &dog); err != nil {
		return nil, fmt.Errorf("difference of gaussians: %w", err)
	}

	response := make([]float32, m.Rows*m.Cols)
	for r := 0; r < m.Rows; r++ {
		for c := 0; c < m.Cols; c++ {
			response[r*m.Cols+c] = dog.GetFloatAt(r, c)
		}
	}

	return g.lease(localMaxima(response, m.Rows, m.Cols, threshold)), nil
}

// FreeBuffer implements Capability.
func (g *GoCV) FreeBuffer(buf Buffer, rows int) error {
	return g.free(buf, rows)
}

// matFromSamples builds a CV_32F Mat from the filtered samples.
func matFromSamples(m *Matrix) (gocv.Mat, error) {
	raw := make([]byte, 4*len(m.Data))
	for i, v := range m.Data {
		if v < intensityFloor {
			v = 0
		}
		binary.LittleEndian.PutUint32(raw[4*i:], math.Float32bits(float32(v)))
	}
	mat, err := gocv.NewMatFromBytes(m.Rows, m.Cols, gocv.MatTypeCV32F, raw)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("building matrix: %w", err)
	}
	return mat, nil
}
