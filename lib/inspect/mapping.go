// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

package inspect

import (
	"errors"
	"log/slog"

	"github.com/JonatanNevo/portal-framework/lib/stringid"
)

// LoadMappings merges identifier mappings for display. Files are
// loaded in order, each overriding entries of the ones before; inline
// entries (KEY=VALUE) are applied last and win over every file. An
// unreadable file is logged, returned as a warning, and skipped.
// Malformed lines are logged at debug level. An invalid inline entry
// is an error.
func LoadMappings(files, inline []string, logger *slog.Logger) (*stringid.Registry, []error, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	merged := stringid.New()
	var warnings []error

	for _, path := range files {
		registry, lineErrors, err := stringid.LoadMappingFile(path)
		if err != nil {
			var sourceErr *stringid.SourceIOError
			if !errors.As(err, &sourceErr) {
				return nil, warnings, err
			}
			logger.Warn("skipping unreadable mapping file", "path", path, "error", err)
			warnings = append(warnings, err)
			if registry == nil {
				continue
			}
		}
		for _, lineErr := range lineErrors {
			logger.Debug("skipping mapping line", "error", lineErr)
		}
		logger.Info("loaded identifier mappings", "path", path, "count", registry.Len())
		merged.Merge(registry)
	}

	for _, argument := range inline {
		id, name, err := stringid.ParseInlineMapping(argument)
		if err != nil {
			return nil, warnings, err
		}
		merged.Set(id, name)
	}
	return merged, warnings, nil
}
