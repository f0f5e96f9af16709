package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"stagehand/internal/logging"
	"stagehand/internal/metadata"
	"stagehand/internal/report"
)

// Publish pushes each key's sidecar into the catalog and marks the sidecar
// synced. Publishing is first-write-wins: a key already cataloged keeps its
// original entry, and the local sidecar is still marked synced so reruns
// skip it. Keys already marked synced count as succeeded without touching
// the catalog.
func Publish(ctx context.Context, logger *slog.Logger, store *Store, baseDir string, keys []string) *report.Report {
	rep := report.New("publish metadata")
	if logger == nil {
		logger = logging.NewNop()
	}
	logger.Info("publishing sidecars",
		logging.String("base", baseDir),
		logging.String("catalog", store.Path()),
		logging.Int("keys", len(keys)),
	)
	if len(keys) == 0 {
		logger.Warn("no keys to publish")
		return rep
	}

	for _, key := range keys {
		keyDir := filepath.Join(baseDir, key)
		if _, err := os.Stat(keyDir); err != nil {
			logger.Warn("key directory not found", logging.String("key", key))
			rep.Skip(key, "key directory not found")
			continue
		}
		sidecarPath := filepath.Join(keyDir, metadata.Filename)
		sidecar, err := metadata.Load(sidecarPath)
		if err != nil {
			if errors.Is(err, metadata.ErrNotFound) {
				logger.Warn("no sidecar", logging.String("key", key))
				rep.Skip(key, "no metadata.yaml")
				continue
			}
			rep.Fail(key, err)
			continue
		}
		if sidecar.Synced {
			logger.Info("already synced", logging.String("key", key))
			rep.Success(key)
			continue
		}

		payload, err := sidecarPayload(sidecar)
		if err != nil {
			rep.Fail(key, err)
			continue
		}
		created, err := store.PublishIfAbsent(ctx, Entry{
			Key:         key,
			Author:      sidecar.Author,
			Week:        sidecar.Week,
			Status:      sidecar.Status,
			PayloadJSON: payload,
		})
		if err != nil {
			logger.Error("publish failed", logging.String("key", key), logging.Error(err))
			rep.Fail(key, err)
			continue
		}

		sidecar.Synced = true
		if err := metadata.Save(sidecarPath, sidecar); err != nil {
			rep.Fail(key, fmt.Errorf("mark synced: %w", err))
			continue
		}
		if created {
			logger.Info("published", logging.String("key", key))
		} else {
			logger.Info("already cataloged, marked synced", logging.String("key", key))
		}
		rep.Success(key)
	}
	return rep
}

// sidecarPayload renders the sidecar as JSON with the local-only synced
// flag stripped.
func sidecarPayload(sidecar *metadata.Sidecar) (string, error) {
	raw, err := yaml.Marshal(sidecar)
	if err != nil {
		return "", fmt.Errorf("encode sidecar: %w", err)
	}
	var fields map[string]any
	if err := yaml.Unmarshal(raw, &fields); err != nil {
		return "", fmt.Errorf("normalize sidecar: %w", err)
	}
	delete(fields, "synced")
	data, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}
	return string(data), nil
}
