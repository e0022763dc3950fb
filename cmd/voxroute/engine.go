package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/voxroute/voxroute/internal/config"
	"github.com/voxroute/voxroute/internal/metrics"
	"github.com/voxroute/voxroute/internal/oracle"
	"github.com/voxroute/voxroute/internal/orchestrator"
	"github.com/voxroute/voxroute/internal/workers"
)

// engine bundles the orchestrator with the resources it owns.
type engine struct {
	orch    *orchestrator.Orchestrator
	store   *metrics.PersistentStore // nil when persistence is off
	watcher *config.ManifestWatcher  // nil when watching is off
}

// buildEngine assembles a fully wired orchestrator from configuration:
// metrics store, optional Claude oracle, built-in workers, optional
// generation worker, and manifest-declared workers.
func buildEngine(cfg *config.Config) (*engine, error) {
	e := &engine{}

	var store *metrics.Store
	if cfg.Metrics.Persist {
		dbPath := cfg.Metrics.DBPath
		if dbPath == "" {
			dbPath = metrics.DefaultDBPath()
		}
		ps, err := metrics.OpenPersistentStore(dbPath)
		if err != nil {
			return nil, fmt.Errorf("opening metrics store: %w", err)
		}
		e.store = ps
		store = ps.Store
	}

	anthropicCfg, anthropicAvailable := anthropicConfig(cfg)

	var orc oracle.Oracle
	if anthropicAvailable {
		o, err := oracle.NewAnthropicOracle(anthropicCfg)
		if err != nil {
			e.close()
			return nil, fmt.Errorf("creating oracle: %w", err)
		}
		orc = o
	} else {
		log.Printf("[engine] no Anthropic credentials; tie-breaks fall back to highest score")
	}

	e.orch = orchestrator.New(orchestrator.Config{
		Oracle:              orc,
		Metrics:             store,
		TaskTimeout:         cfg.Engine.TaskTimeout,
		CeilingTimeout:      cfg.Engine.CeilingTimeout,
		BreakerThreshold:    cfg.Engine.BreakerThreshold,
		BreakerResetTimeout: cfg.Engine.BreakerResetTimeout,
		MaxConcurrent:       cfg.Engine.MaxConcurrent,
	})

	for _, reg := range workers.Builtin() {
		if err := e.orch.RegisterWorker(reg.Capability, reg.Adapter, false); err != nil {
			e.close()
			return nil, fmt.Errorf("registering %s: %w", reg.Capability.ID, err)
		}
	}

	if anthropicAvailable {
		gw, err := workers.NewGenerationWorker(anthropicCfg)
		if err != nil {
			e.close()
			return nil, fmt.Errorf("creating generation worker: %w", err)
		}
		if err := e.orch.RegisterWorker(gw.Capability(), gw, false); err != nil {
			e.close()
			return nil, fmt.Errorf("registering generation worker: %w", err)
		}
	}

	if cfg.Workers.Manifest != "" {
		entries, err := config.LoadManifest(cfg.Workers.Manifest)
		if err != nil {
			e.close()
			return nil, err
		}
		registerManifest(e.orch, entries)

		if cfg.Workers.Watch {
			watcher, err := config.WatchManifest(cfg.Workers.Manifest, func(entries []config.ManifestEntry) {
				registerManifest(e.orch, entries)
			})
			if err != nil {
				e.close()
				return nil, err
			}
			e.watcher = watcher
		}
	}

	return e, nil
}

// registerManifest registers manifest workers, replacing earlier
// registrations so manifest edits take effect on reload.
func registerManifest(orch *orchestrator.Orchestrator, entries []config.ManifestEntry) {
	for _, entry := range entries {
		adapter, ok := workers.ByName(entry.Adapter)
		if !ok {
			log.Printf("[engine] worker %s: unknown adapter %q, skipped", entry.Capability.ID, entry.Adapter)
			continue
		}
		if err := orch.RegisterWorker(entry.Capability, adapter, true); err != nil {
			log.Printf("[engine] worker %s: %v", entry.Capability.ID, err)
		}
	}
}

// anthropicConfig maps file configuration to the oracle package's
// client config and reports whether credentials are available.
func anthropicConfig(cfg *config.Config) (oracle.AnthropicConfig, bool) {
	ac := oracle.AnthropicConfig{
		Model:         anthropic.Model(cfg.Anthropic.Model),
		MaxTokens:     cfg.Anthropic.MaxTokens,
		UseAWSBedrock: cfg.Anthropic.UseBedrock,
		AWSRegion:     cfg.Anthropic.AWSRegion,
		AWSProfile:    cfg.Anthropic.AWSProfile,
	}
	if cfg.Anthropic.UseBedrock {
		return ac, true
	}
	key, err := config.GetAPIKey(cfg)
	if errors.Is(err, config.ErrNoAPIKey) {
		return ac, false
	}
	ac.APIKey = key
	return ac, true
}

// shutdown drains the orchestrator and releases engine resources.
func (e *engine) shutdown(ctx context.Context) error {
	err := e.orch.Shutdown(ctx)
	e.close()
	return err
}

// close releases resources without waiting for in-flight tasks.
func (e *engine) close() {
	if e.watcher != nil {
		e.watcher.Close()
		e.watcher = nil
	}
	if e.store != nil {
		if err := e.store.Flush(); err != nil {
			log.Printf("[engine] metrics flush failed: %v", err)
		}
		e.store.Close()
		e.store = nil
	}
}
