// Package batch runs indexed work items concurrently, optionally capped at a
// fixed number of goroutines.
//
// Every item runs to completion or is skipped because the context ended; one
// item's failure never stops the others. Errors come back per index so
// callers can attribute them. Progress is tracked for UI updates.
package batch
