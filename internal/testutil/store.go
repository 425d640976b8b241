package testutil

import (
	"slices"
	"strings"

	"github.com/Norgate-AV/akcfg/internal/store"
)

// KeyExists reports whether the key at path is present in s.
func KeyExists(s store.Store, path string) bool {
	segments := store.Split(path)
	if len(segments) == 0 {
		return true
	}

	children, err := s.SubKeys(store.Join(segments[:len(segments)-1]...))
	if err != nil {
		return false
	}

	last := segments[len(segments)-1]
	return slices.ContainsFunc(children, func(c string) bool {
		return strings.EqualFold(c, last)
	})
}

// AppPathKeys lists every key at or below path that holds an AppPath value,
// sorted case-insensitively. It is nil when path does not exist.
func AppPathKeys(s store.Store, path string) []string {
	if !KeyExists(s, path) {
		return nil
	}

	var out []string
	var walk func(key string)
	walk = func(key string) {
		if _, err := s.GetString(key, "AppPath"); err == nil {
			out = append(out, key)
		}

		children, _ := s.SubKeys(key)
		for _, c := range children {
			walk(store.Join(key, c))
		}
	}
	walk(store.Join(store.Split(path)...))

	slices.SortFunc(out, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})

	return out
}
