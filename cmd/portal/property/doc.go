// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

// Package property implements the "portal property" command group for
// producing property buffers by hand: test fixtures, reproductions of
// captured buffers, and inputs for "portal inspect".
//
// Properties are described as a JSON list. Integer64 elements given as
// strings that are not numbers are hashed with the configured hasher,
// so fixtures can name identifiers the way source code does.
package property
