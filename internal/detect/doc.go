// Package detect wraps an external Difference-of-Gaussians capability behind a
// gateway that owns the lifecycle of the buffers the capability hands out.
//
// Every call follows the same sequence:
//
//	FindHits -> Buffer (leased) -> decode count and (row, col) pairs -> FreeBuffer
//
// The release happens exactly once per leased buffer, on every exit path of
// Gateway.Detect, including decode failures and panics. A failed FindHits
// leases nothing and releases nothing.
//
// Capabilities must be safe for concurrent use: the gateway never serializes
// calls into them. Three are provided:
//   - Reference: a pure Go port of the DoG kernel, the default
//   - native: cgo binding to libhit_finding (build tag "hitfinding")
//   - gocv: the same kernel on OpenCV (build tag "gocv")
package detect
