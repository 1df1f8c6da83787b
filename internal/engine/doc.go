// Package engine dispatches detection over a batch and aggregates the
// per-file results.
//
// Dispatch runs one unit of work per file, all at once unless a worker cap is
// configured. Every unit writes only its own slot of a ResultTable, so the
// table needs no locking; it is read only after every unit has finished.
// Aggregate then walks the slots in index order and builds the point set, the
// per-file summary, and the failure list.
package engine
