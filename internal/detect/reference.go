package detect

// ReferenceName and ReferenceVersion identify the pure Go capability.
const (
	ReferenceName    = "reference"
	ReferenceVersion = "1.0.0"
)

// Reference is a pure Go DoG capability. It reads matrix files from disk and
// leases result buffers from an internal arena so that every acquire and
// release is accounted for.
type Reference struct {
	*arena
}

// NewReference returns a ready Reference capability.
func NewReference() *Reference {
	return &Reference{arena: newArena()}
}

// Name implements Capability.
func (r *Reference) Name() string { return ReferenceName }

// Version implements Capability.
func (r *Reference) Version() string { return ReferenceVersion }

// FindHits implements Capability. Zero hits still lease a one-row buffer.
func (r *Reference) FindHits(path string, sigmaFine, sigmaCoarse, threshold float32) (Buffer, error) {
	m, err := ReadMatrixFile(path)
	if err != nil {
		return nil, err
	}
	return r.lease(FindHits(m, sigmaFine, sigmaCoarse, threshold)), nil
}

// FreeBuffer implements Capability.
func (r *Reference) FreeBuffer(buf Buffer, rows int) error {
	return r.free(buf, rows)
}
