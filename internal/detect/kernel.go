package detect

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

const (
	// kernelSize is the side of the square Gaussian kernel.
	kernelSize = 5

	// intensityFloor zeroes raw samples below it before blurring.
	intensityFloor = 5

	// maxMatrixCells guards against corrupt headers asking for huge allocations.
	maxMatrixCells = 1 << 26
)

// Matrix is a row-major grid of raw samples.
type Matrix struct {
	Rows int
	Cols int
	Data []int32
}

// At returns the sample at (r, c).
func (m *Matrix) At(r, c int) int32 {
	return m.Data[r*m.Cols+c]
}

// ReadMatrixFile reads a matrix file: big-endian int32 rows, int32 cols, then
// rows*cols big-endian int32 samples.
func ReadMatrixFile(path string) (*Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := ReadMatrix(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return m, nil
}

// ReadMatrix decodes a matrix from r.
func ReadMatrix(r io.Reader) (*Matrix, error) {
	var header [2]int32
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}

	rows, cols := int(header[0]), int(header[1])
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("invalid dimensions %dx%d", rows, cols)
	}
	if rows > maxMatrixCells/cols {
		return nil, fmt.Errorf("dimensions %dx%d exceed %d cells", rows, cols, maxMatrixCells)
	}

	data := make([]int32, rows*cols)
	if err := binary.Read(r, binary.BigEndian, data); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("body: %w", err)
	}
	return &Matrix{Rows: rows, Cols: cols, Data: data}, nil
}

// WriteMatrix encodes m in the matrix file format.
func WriteMatrix(w io.Writer, m *Matrix) error {
	header := [2]int32{int32(m.Rows), int32(m.Cols)}
	if err := binary.Write(w, binary.BigEndian, header); err != nil {
		return err
	}
	return binary.Write(w, binary.BigEndian, m.Data)
}

// FindHits runs the DoG detector over m. Samples under the intensity floor
// are zeroed, the matrix is blurred at both scales, and a hit is an interior
// cell whose DoG response exceeds threshold in magnitude and is strictly
// greater than all eight neighbours. Hits come back in row-major order.
func FindHits(m *Matrix, sigmaFine, sigmaCoarse, threshold float32) []Hit {
	filtered := make([]int32, len(m.Data))
	for i, v := range m.Data {
		if v >= intensityFloor {
			filtered[i] = v
		}
	}

	fine := gaussianBlur(filtered, m.Rows, m.Cols, sigmaFine)
	coarse := gaussianBlur(filtered, m.Rows, m.Cols, sigmaCoarse)

	dog := make([]float32, len(filtered))
	for i := range dog {
		dog[i] = fine[i] - coarse[i]
	}

	return localMaxima(dog, m.Rows, m.Cols, threshold)
}

func gaussianKernel(sigma float32) [kernelSize][kernelSize]float32 {
	const radius = kernelSize / 2
	var k [kernelSize][kernelSize]float32
	var sum float32

	s2 := float64(sigma) * float64(sigma)
	for x := -radius; x <= radius; x++ {
		for y := -radius; y <= radius; y++ {
			v := float32(math.Exp(-float64(x*x+y*y)/(2*s2)) / (2 * math.Pi * s2))
			k[x+radius][y+radius] = v
			sum += v
		}
	}
	for i := range k {
		for j := range k[i] {
			k[i][j] /= sum
		}
	}
	return k
}

// gaussianBlur convolves the interior of src; the border stays zero. Each
// output sample is truncated toward zero.
func gaussianBlur(src []int32, rows, cols int, sigma float32) []float32 {
	const radius = kernelSize / 2
	k := gaussianKernel(sigma)
	out := make([]float32, len(src))

	for i := radius; i < rows-radius; i++ {
		for j := radius; j < cols-radius; j++ {
			var sum float32
			for x := -radius; x <= radius; x++ {
				base := (i + x) * cols
				for y := -radius; y <= radius; y++ {
					sum += k[x+radius][y+radius] * float32(src[base+j+y])
				}
			}
			out[i*cols+j] = float32(int32(sum))
		}
	}
	return out
}

func localMaxima(dog []float32, rows, cols int, threshold float32) []Hit {
	var hits []Hit
	for i := 1; i < rows-1; i++ {
		for j := 1; j < cols-1; j++ {
			center := dog[i*cols+j]
			if float32(math.Abs(float64(center))) <= threshold {
				continue
			}
			if isStrictMax(dog, cols, i, j, center) {
				hits = append(hits, Hit{Row: i, Col: j})
			}
		}
	}
	return hits
}

func isStrictMax(dog []float32, cols, i, j int, center float32) bool {
	for x := -1; x <= 1; x++ {
		for y := -1; y <= 1; y++ {
			if x == 0 && y == 0 {
				continue
			}
			if center <= dog[(i+x)*cols+j+y] {
				return false
			}
		}
	}
	return true
}
