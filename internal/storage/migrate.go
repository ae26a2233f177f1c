// ABOUTME: Data migration between fitcoach storage backends.
// ABOUTME: Copies every record key verbatim from source to destination.

package storage

import (
	"fmt"
)

// MigrateSummary reports which keys were copied.
type MigrateSummary struct {
	Copied  []string
	Missing []string
}

// Migrate copies all record keys from src to dst. Keys absent in src are
// removed from dst so the destination mirrors the source.
func Migrate(src, dst Backend) (*MigrateSummary, error) {
	summary := &MigrateSummary{}

	for _, key := range AllKeys {
		val, found, err := src.Get(key)
		if err != nil {
			return nil, fmt.Errorf("read %s from source: %w", key, err)
		}
		if !found {
			if err := dst.Delete(key); err != nil {
				return nil, fmt.Errorf("clear %s in destination: %w", key, err)
			}
			summary.Missing = append(summary.Missing, key)
			continue
		}
		if err := dst.Set(key, val); err != nil {
			return nil, fmt.Errorf("write %s to destination: %w", key, err)
		}
		summary.Copied = append(summary.Copied, key)
	}

	return summary, nil
}
