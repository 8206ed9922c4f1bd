// Package ignore filters scanned paths against user-supplied patterns.
//
// Patterns are given as a comma-separated list of regular-expression
// fragments. Each fragment is compiled independently and matched unanchored
// against the slash-normalized relative path, so a fragment matches anywhere
// in the path ("contains" semantics). A match on a directory prunes the
// whole subtree.
package ignore

import (
	"fmt"
	"regexp"
	"strings"
)

// Filter evaluates paths against a compiled set of patterns.
// A nil *Filter matches nothing.
type Filter struct {
	patterns []*regexp.Regexp
}

// Compile builds a filter from a comma-separated pattern list. Empty
// fragments are skipped; an empty list yields a filter that matches nothing.
func Compile(spec string) (*Filter, error) {
	f := &Filter{}
	for _, fragment := range strings.Split(spec, ",") {
		fragment = strings.TrimSpace(fragment)
		if fragment == "" {
			continue
		}
		re, err := regexp.Compile(fragment)
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", fragment, err)
		}
		f.patterns = append(f.patterns, re)
	}
	return f, nil
}

// Match reports whether the path matches any pattern. The first matching
// pattern wins.
func (f *Filter) Match(relPath string) bool {
	if f == nil {
		return false
	}
	for _, re := range f.patterns {
		if re.MatchString(relPath) {
			return true
		}
	}
	return false
}

// Len returns the number of compiled patterns.
func (f *Filter) Len() int {
	if f == nil {
		return 0
	}
	return len(f.patterns)
}
