package detect

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/yourpaljake/hitfinding/internal/engine/cache"
	"github.com/yourpaljake/hitfinding/internal/logging"
)

// CachedDetector serves results from a FileStore and falls through to next
// on a miss. Only successful results are stored; failures always re-run.
type CachedDetector struct {
	next       Detector
	store      *cache.FileStore
	capability string
	version    string
}

// NewCachedDetector wraps next. Keys include the capability name and version
// so results from different backends never mix.
func NewCachedDetector(next Detector, store *cache.FileStore, capability Capability) *CachedDetector {
	return &CachedDetector{
		next:       next,
		store:      store,
		capability: capability.Name(),
		version:    capability.Version(),
	}
}

// Detect implements Detector.
func (d *CachedDetector) Detect(ctx context.Context, path string, params Params) (Result, error) {
	if d.store == nil || !d.store.IsEnabled() {
		return d.next.Detect(ctx, path, params)
	}

	log := logging.FromContext(ctx).With().Str("component", "cache").Str("path", path).Logger()

	key, err := d.key(path, params)
	if err != nil {
		// Unstattable file: let the gateway produce the real failure.
		log.Debug().Err(err).Msg("cache key unavailable")
		return d.next.Detect(ctx, path, params)
	}

	entry, err := d.store.Get(key)
	switch {
	case err == nil:
		var cached Result
		if decodeErr := json.Unmarshal(entry.Data, &cached); decodeErr == nil {
			log.Debug().Int("hits", len(cached)).Msg("cache hit")
			return cached, nil
		}
		log.Warn().Msg("discarding undecodable cache entry")
		_ = d.store.Delete(key)
	case errors.Is(err, cache.ErrCacheNotFound), errors.Is(err, cache.ErrCacheExpired):
		log.Debug().Msg("cache miss")
	default:
		log.Warn().Err(err).Msg("cache read failed")
	}

	res, err := d.next.Detect(ctx, path, params)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(res)
	if err != nil {
		log.Warn().Err(err).Msg("encoding result for cache")
		return res, nil
	}
	if setErr := d.store.Set(key, path, data); setErr != nil {
		log.Warn().Err(setErr).Msg("cache write failed")
	}
	return res, nil
}

func (d *CachedDetector) key(path string, params Params) (string, error) {
	kp, err := cache.KeyParamsForFile(path)
	if err != nil {
		return "", err
	}
	kp.SigmaFine = params.SigmaFine
	kp.SigmaCoarse = params.SigmaCoarse
	kp.Threshold = params.Threshold
	kp.Capability = d.capability
	kp.CapabilityVersion = d.version
	return cache.GenerateKey(kp)
}
