// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

package stringid

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// mappingLinePattern matches one key/value mapping line. The key is a
// 0x-prefixed hex or decimal integer, optionally carrying a C++ integer
// suffix (the generated artifact writes "ull"). The separator is '=',
// ':', ',' or whitespace. The value may be quoted.
var mappingLinePattern = regexp.MustCompile(`^(0[xX][0-9a-fA-F]+|[0-9]+)(?:[uU]?[lL]{0,2})\s*[=:,\s]\s*"?([^"]+)"?`)

// inlineMappingPattern is the stricter form accepted on the command
// line, where whitespace would have split the argument already.
var inlineMappingPattern = regexp.MustCompile(`^(0[xX][0-9a-fA-F]+|[0-9]+)\s*[=:]\s*"?([^"]+)"?`)

// ErrNotMapping is returned by [ParseMappingLine] for lines that are
// neither a mapping, a comment, nor blank.
var ErrNotMapping = errors.New("not a mapping line")

// ParseMappingLine parses one mapping file line. Accepted forms:
//
//	0x0db85f495cb4e4b0 = "SomeTypeName"
//	0x0db85f495cb4e4b0 = SomeTypeName
//	994927812739401904 = "SomeTypeName"
//	0x0db85f495cb4e4b0: SomeTypeName
//	0x0db85f495cb4e4b0 SomeTypeName
//	{ 994927812739401904ull, "SomeTypeName" },
//
// Comments (# or //) and blank lines return ok=false with a nil error.
func ParseMappingLine(line string) (id uint64, name string, ok bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
		return 0, "", false, nil
	}
	if strings.HasPrefix(line, "{") {
		line = strings.TrimSuffix(line, ",")
		line = strings.TrimSuffix(line, "}")
		line = strings.TrimSpace(strings.TrimPrefix(line, "{"))
	}
	return parseMatch(mappingLinePattern, line)
}

// ParseInlineMapping parses a KEY=VALUE or KEY:VALUE mapping given on
// the command line.
func ParseInlineMapping(argument string) (uint64, string, error) {
	id, name, ok, err := parseMatch(inlineMappingPattern, strings.TrimSpace(argument))
	if err != nil {
		return 0, "", fmt.Errorf("inline mapping %q: %w", argument, err)
	}
	if !ok {
		return 0, "", fmt.Errorf("inline mapping %q: %w", argument, ErrNotMapping)
	}
	return id, name, nil
}

func parseMatch(pattern *regexp.Regexp, line string) (uint64, string, bool, error) {
	match := pattern.FindStringSubmatch(line)
	if match == nil {
		return 0, "", false, ErrNotMapping
	}
	id, err := parseKey(match[1])
	if err != nil {
		return 0, "", false, err
	}
	name := strings.TrimSpace(match[2])
	if name == "" {
		return 0, "", false, ErrNotMapping
	}
	return id, name, true, nil
}

func parseKey(key string) (uint64, error) {
	if strings.HasPrefix(key, "0x") || strings.HasPrefix(key, "0X") {
		return strconv.ParseUint(key[2:], 16, 64)
	}
	return strconv.ParseUint(key, 10, 64)
}

// MappingLineError describes a line that was skipped while loading a
// mapping source.
type MappingLineError struct {
	Source string
	Line   int
	Text   string
	Err    error
}

func (e *MappingLineError) Error() string {
	return fmt.Sprintf("%s:%d: %v: %q", e.Source, e.Line, e.Err, e.Text)
}

func (e *MappingLineError) Unwrap() error { return e.Err }

// ParseMapping reads a line-oriented mapping source. Lines that do not
// parse are skipped and returned as *MappingLineError warnings. Later
// lines override earlier ones with the same key. The error is non-nil
// only when reading fails.
func ParseMapping(source string, r io.Reader) (*Registry, []error, error) {
	registry := New()
	var warnings []error
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		text := scanner.Text()
		id, name, ok, err := ParseMappingLine(text)
		if err != nil {
			warnings = append(warnings, &MappingLineError{
				Source: source,
				Line:   lineNumber,
				Text:   strings.TrimSpace(text),
				Err:    err,
			})
			continue
		}
		if ok {
			registry.Set(id, name)
		}
	}
	if err := scanner.Err(); err != nil {
		return registry, warnings, &SourceIOError{Path: source, Err: err}
	}
	return registry, warnings, nil
}

// LoadMappingFile parses the mapping file at path.
func LoadMappingFile(path string) (*Registry, []error, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, &SourceIOError{Path: path, Err: err}
	}
	defer file.Close()
	return ParseMapping(path, file)
}

// SourceIOError reports a source or mapping file that could not be read.
type SourceIOError struct {
	Path string
	Err  error
}

func (e *SourceIOError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Path, e.Err)
}

func (e *SourceIOError) Unwrap() error { return e.Err }
