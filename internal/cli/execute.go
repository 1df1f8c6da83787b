package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yourpaljake/hitfinding/internal/config"
	"github.com/yourpaljake/hitfinding/internal/detect"
	"github.com/yourpaljake/hitfinding/internal/engine"
	"github.com/yourpaljake/hitfinding/internal/engine/batch"
	"github.com/yourpaljake/hitfinding/internal/engine/cache"
	"github.com/yourpaljake/hitfinding/internal/logging"
	"github.com/yourpaljake/hitfinding/internal/resolve"
)

// ErrNoLocation is returned when neither the config nor the arguments name a
// location.
var ErrNoLocation = errors.New("no location: pass one as an argument or set detection.location")

// ExecuteOptions are the per-invocation switches that are not configuration.
type ExecuteOptions struct {
	SkipVersionCheck bool

	// Progress, when set, is called after each file finishes.
	Progress batch.ProgressCallback

	// Capability overrides the backend named in the config. Used by tests.
	Capability detect.Capability
}

// Execute resolves the batch, runs detection on every file, and aggregates
// the results. Per-file failures are part of the returned Aggregation; only
// configuration and resolution problems return an error.
func Execute(ctx context.Context, cfg *config.Config, opts ExecuteOptions) (*engine.Aggregation, error) {
	start := time.Now()
	log := logging.FromContext(ctx).With().Str("component", "cli").Logger()

	if cfg.Detection.Location == "" {
		return nil, configError(ErrNoLocation)
	}

	params := detect.NewParams(cfg.Detection.Sigma, cfg.Detection.Threshold)
	if err := params.Validate(); err != nil {
		return nil, configError(err)
	}

	capability, err := openCapability(cfg, opts)
	if err != nil {
		return nil, configError(err)
	}

	detector, err := buildDetector(ctx, cfg, capability)
	if err != nil {
		return nil, configError(err)
	}

	b, err := resolve.Resolve(cfg.Detection.Location)
	if err != nil {
		return nil, resolveError(err)
	}
	log.Info().
		Str("location", cfg.Detection.Location).
		Int("files", len(b)).
		Str("batch", resolve.Describe(b)).
		Str("capability", capability.Name()).
		Msg("batch resolved")

	dispatcher := engine.NewDispatcher(detector,
		engine.WithWorkers(cfg.EffectiveWorkers()),
		engine.WithProgress(opts.Progress),
	)
	table := dispatcher.Dispatch(ctx, b, params)

	return engine.Aggregate(ctx, b, table, start), nil
}

func openCapability(cfg *config.Config, opts ExecuteOptions) (detect.Capability, error) {
	capability := opts.Capability
	if capability == nil {
		var err error
		capability, err = detect.Open(cfg.Detection.Capability)
		if err != nil {
			return nil, err
		}
	}

	if !opts.SkipVersionCheck {
		if err := detect.CheckVersion(capability); err != nil {
			return nil, fmt.Errorf("%w (use --skip-version-check to override)", err)
		}
	}
	return capability, nil
}

// buildDetector wraps capability in a gateway and, when enabled, the result
// cache.
func buildDetector(ctx context.Context, cfg *config.Config, capability detect.Capability) (detect.Detector, error) {
	gateway := detect.NewGateway(capability, detect.WithMaxHits(cfg.Detection.MaxHits))
	if !cfg.Cache.Enabled {
		return gateway, nil
	}

	store, err := cache.NewFileStore(cfg.Cache.Directory, true, cfg.Cache.TTLSeconds)
	if err != nil {
		return nil, fmt.Errorf("opening result cache: %w", err)
	}
	if cleanupErr := store.CleanupExpired(); cleanupErr != nil {
		logging.FromContext(ctx).Warn().Err(cleanupErr).Str("component", "cache").Msg("cache cleanup failed")
	}
	return detect.NewCachedDetector(gateway, store, capability), nil
}
