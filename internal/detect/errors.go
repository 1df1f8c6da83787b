package detect

import "fmt"

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors, comparable with errors.Is.
var (
	// ErrDoubleRelease is returned when a buffer is released a second time.
	ErrDoubleRelease = constError("detection buffer released twice")

	// ErrUnknownBuffer is returned by a capability asked to free a buffer it never leased.
	ErrUnknownBuffer = constError("detection buffer was not leased by this capability")

	// ErrIncompatibleCapability indicates a capability whose version the gateway does not support.
	ErrIncompatibleCapability = constError("incompatible detection capability")

	// ErrUnknownCapability is returned by Open for an unregistered backend name.
	ErrUnknownCapability = constError("unknown detection capability")

	// ErrInvalidParams indicates non-positive or non-finite detection parameters.
	ErrInvalidParams = constError("invalid detection parameters")
)

// InvocationError reports that the external capability could not complete a
// call. Nothing was leased, so nothing is released.
type InvocationError struct {
	Path string
	Err  error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("detect %s: invocation failed: %v", e.Path, e.Err)
}

func (e *InvocationError) Unwrap() error { return e.Err }

// DecodeError reports malformed buffer contents. The buffer has been released
// by the time the caller sees this error.
type DecodeError struct {
	Path   string
	Count  int
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("detect %s: decode (count %d): %s: %v", e.Path, e.Count, e.Reason, e.Err)
	}
	return fmt.Sprintf("detect %s: decode (count %d): %s", e.Path, e.Count, e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ReleaseError reports a buffer release that the capability refused, or a
// second release of the same buffer.
type ReleaseError struct {
	Path string
	Rows int
	Err  error
}

func (e *ReleaseError) Error() string {
	return fmt.Sprintf("detect %s: release of %d rows: %v", e.Path, e.Rows, e.Err)
}

func (e *ReleaseError) Unwrap() error { return e.Err }
