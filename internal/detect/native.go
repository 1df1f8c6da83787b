//go:build cgo && hitfinding

package detect

/*
#cgo LDFLAGS: -lhit_finding
#include <stdlib.h>

int** findHitsDOG(char* filename, float sigma1, float sigma2, float threshold);
void freeArray(int** array, int rows);
*/
import "C"

import (
	"fmt"
	"os"
	"unsafe"
)

// NativeName and NativeVersion identify the libhit_finding binding.
const (
	NativeName    = "native"
	NativeVersion = "1.0.0"
)

//nolint:gochecknoinits // Registration is the point of the build tag.
func init() {
	Register(NativeName, func() (Capability, error) { return &Native{}, nil })
}

// Native calls findHitsDOG/freeArray from libhit_finding. The library keeps no
// shared state between calls, so concurrent use is safe.
type Native struct{}

// Name implements Capability.
func (*Native) Name() string { return NativeName }

// Version implements Capability.
func (*Native) Version() string { return NativeVersion }

// FindHits implements Capability. The library returns NULL both for "no blobs"
// and for an unreadable file; the two are told apart by opening the file.
func (*Native) FindHits(path string, sigmaFine, sigmaCoarse, threshold float32) (Buffer, error) {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	ptr := C.findHitsDOG(cpath, C.float(sigmaFine), C.float(sigmaCoarse), C.float(threshold))
	if ptr == nil {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		_ = f.Close()
		return nil, nil
	}
	return &nativeBuffer{ptr: ptr}, nil
}

// FreeBuffer implements Capability.
func (*Native) FreeBuffer(buf Buffer, rows int) error {
	nb, ok := buf.(*nativeBuffer)
	if !ok {
		return fmt.Errorf("%w: %T", ErrUnknownBuffer, buf)
	}
	if nb.ptr == nil {
		return ErrDoubleRelease
	}
	C.freeArray(nb.ptr, C.int(rows))
	nb.ptr = nil
	return nil
}

// nativeBuffer is the int** returned by findHitsDOG. Every row is an int[2].
type nativeBuffer struct {
	ptr **C.int
}

// Row implements Buffer. The caller guarantees i <= N.
func (b *nativeBuffer) Row(i int) (int, int, error) {
	if b.ptr == nil {
		return 0, 0, fmt.Errorf("row %d read after release", i)
	}
	rows := unsafe.Slice(b.ptr, i+1)
	if rows[i] == nil {
		return 0, 0, fmt.Errorf("row %d is NULL", i)
	}
	pair := unsafe.Slice(rows[i], 2)
	return int(pair[0]), int(pair[1]), nil
}
