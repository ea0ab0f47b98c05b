// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

package stringid

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"slices"
	"strconv"
	"strings"
)

// ExecHasher runs an external executable once per string. The
// executable receives Args followed by the string, must print the hash
// as a base-10 uint64 on stdout, and must exit 0.
type ExecHasher struct {
	Command string
	Args    []string
}

// Name returns "exec:" followed by the command line without the string.
func (h *ExecHasher) Name() string {
	return "exec:" + strings.Join(append([]string{h.Command}, h.Args...), " ")
}

// Hash runs the command for s. Any failure, including output that is
// not a base-10 uint64, is an [*ExternalToolError] carrying the
// command's stderr.
func (h *ExecHasher) Hash(ctx context.Context, s string) (uint64, error) {
	args := append(slices.Clone(h.Args), s)
	var stdout, stderr bytes.Buffer
	command := exec.CommandContext(ctx, h.Command, args...)
	command.Stdout = &stdout
	command.Stderr = &stderr

	if err := command.Run(); err != nil {
		toolErr := &ExternalToolError{
			Command:  h.Command,
			Input:    s,
			ExitCode: -1,
			Stderr:   strings.TrimSpace(stderr.String()),
			Err:      err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			toolErr.ExitCode = exitErr.ExitCode()
		}
		return 0, toolErr
	}

	value, err := strconv.ParseUint(strings.TrimSpace(stdout.String()), 10, 64)
	if err != nil {
		return 0, &ExternalToolError{
			Command: h.Command,
			Input:   s,
			Stderr:  strings.TrimSpace(stderr.String()),
			Err:     fmt.Errorf("parsing hash output %q: %w", strings.TrimSpace(stdout.String()), err),
		}
	}
	return value, nil
}

// ExternalToolError reports a failed hashing subprocess.
type ExternalToolError struct {
	Command string
	Input   string
	// ExitCode is the process exit status, 0 when the process exited
	// cleanly but printed unusable output, or -1 when it did not run.
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ExternalToolError) Error() string {
	message := fmt.Sprintf("hashing %q with %s: %v", e.Input, e.Command, e.Err)
	if e.Stderr != "" {
		message += " (stderr: " + e.Stderr + ")"
	}
	return message
}

func (e *ExternalToolError) Unwrap() error { return e.Err }
