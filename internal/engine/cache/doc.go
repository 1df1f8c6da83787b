// Package cache persists per-file detection results between runs.
//
// Entries are JSON files under a cache directory, one per key, with a TTL.
// Keys are SHA256 digests of everything that determines a detection result:
// the file's identity (path, size, modification time), the DoG parameters,
// and the capability name and version. Editing a data file or changing sigma
// therefore misses the cache instead of serving a stale result.
//
// The cache is off by default; enable it with cache.enabled in the config.
package cache
