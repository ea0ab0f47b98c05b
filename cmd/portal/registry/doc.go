// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

// Package registry implements the "portal registry" command group:
// building the identifier registry artifact from a source tree,
// hashing single strings, looking hashes up in mapping files, and
// dumping the build cache.
//
// Every subcommand starts from the resolved configuration (--config,
// then $PORTAL_CONFIG, then built-in defaults) and applies its flags
// on top, so a build system can run "portal registry build" with no
// flags against a checked-in portal.yaml.
package registry
