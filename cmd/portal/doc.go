// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

// Portal is the command-line front end for the property buffer codec
// and the identifier registry.
//
//	portal inspect [FILE]          decode and print a property buffer
//	portal registry build          generate the identifier registry artifact
//	portal registry hash STRING    print an identifier hash
//	portal registry lookup HASH    resolve hashes through mapping files
//	portal registry cache PATH     dump a registry build cache
//	portal property encode [FILE]  encode a JSON property list
//	portal property kinds          list container and value kinds
//	portal version                 print build information
//
// Exit status is 0 on success, 1 when a command reports a failure in
// its own output (a truncated buffer, a stale artifact, an unknown
// hash) or hits an internal error, 2 for invalid input, and 3 when a
// named file does not exist.
package main
