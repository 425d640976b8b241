// Package keyed compares and deduplicates values by a projected key.
//
// Two values are equal under a Comparer iff their projected keys are equal
// by the key type's own ==. Hashing is delegated to Go maps keyed by K, so it
// always agrees with equality.
package keyed

import "iter"

// Comparer provides equality of T through a projection to K.
type Comparer[T any, K comparable] struct {
	key func(T) K
}

// By returns a Comparer that projects values with key.
func By[T any, K comparable](key func(T) K) Comparer[T, K] {
	return Comparer[T, K]{key: key}
}

// Key returns the projected key of v.
func (c Comparer[T, K]) Key(v T) K {
	return c.key(v)
}

// Equal reports whether a and b project to the same key.
func (c Comparer[T, K]) Equal(a, b T) bool {
	return c.key(a) == c.key(b)
}

// Set holds values keyed by projection. The first value added for a key is
// the one retained.
type Set[T any, K comparable] struct {
	cmp   Comparer[T, K]
	items map[K]T
}

// NewSet builds a Set from values using cmp.
func NewSet[T any, K comparable](cmp Comparer[T, K], values ...T) *Set[T, K] {
	s := &Set[T, K]{cmp: cmp, items: make(map[K]T, len(values))}
	for _, v := range values {
		s.Add(v)
	}

	return s
}

// Add inserts v and reports whether its key was new.
func (s *Set[T, K]) Add(v T) bool {
	k := s.cmp.Key(v)
	if _, ok := s.items[k]; ok {
		return false
	}

	s.items[k] = v
	return true
}

// Contains reports whether a value with v's key is present.
func (s *Set[T, K]) Contains(v T) bool {
	_, ok := s.items[s.cmp.Key(v)]
	return ok
}

// Len returns the number of distinct keys.
func (s *Set[T, K]) Len() int {
	return len(s.items)
}

// Distinct yields the values of seq whose key has not been seen yet, keeping
// the first occurrence and the source order. The returned sequence tracks
// seen keys per iteration, so ranging over it twice re-reads seq.
func Distinct[T any, K comparable](seq iter.Seq[T], key func(T) K) iter.Seq[T] {
	return func(yield func(T) bool) {
		seen := NewSet(By(key))
		for v := range seq {
			if !seen.Add(v) {
				continue
			}

			if !yield(v) {
				return
			}
		}
	}
}

// Except yields the values of seq not contained in exclude.
func Except[T any, K comparable](seq iter.Seq[T], exclude *Set[T, K]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for v := range seq {
			if exclude.Contains(v) {
				continue
			}

			if !yield(v) {
				return
			}
		}
	}
}
