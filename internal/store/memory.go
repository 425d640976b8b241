package store

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

type memKey struct {
	name     string
	children map[string]*memKey
	values   map[string]string
}

func newMemKey(name string) *memKey {
	return &memKey{
		name:     name,
		children: make(map[string]*memKey),
		values:   make(map[string]string),
	}
}

// Memory is an in-memory Store. Child names keep the casing they were
// created with; lookups ignore case like the registry does.
type Memory struct {
	mu   sync.RWMutex
	root *memKey
}

// NewMemory returns an empty tree.
func NewMemory() *Memory {
	return &Memory{root: newMemKey("")}
}

func fold(s string) string {
	return strings.ToLower(s)
}

// find walks to path; with create set it adds missing keys on the way.
func (m *Memory) find(path string, create bool) *memKey {
	k := m.root
	for _, seg := range Split(path) {
		child, ok := k.children[fold(seg)]
		if !ok {
			if !create {
				return nil
			}

			child = newMemKey(seg)
			k.children[fold(seg)] = child
		}

		k = child
	}

	return k
}

func (m *Memory) SubKeys(path string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	k := m.find(path, false)
	if k == nil {
		return nil, nil
	}

	names := make([]string, 0, len(k.children))
	for _, c := range k.children {
		names = append(names, c.name)
	}

	slices.SortFunc(names, func(a, b string) int {
		return strings.Compare(fold(a), fold(b))
	})

	return names, nil
}

func (m *Memory) GetString(path, name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	k := m.find(path, false)
	if k == nil {
		return "", fmt.Errorf("key %s: %w", path, ErrNotFound)
	}

	v, ok := k.values[fold(name)]
	if !ok {
		return "", fmt.Errorf("value %s\\%s: %w", path, name, ErrNotFound)
	}

	return v, nil
}

func (m *Memory) SetString(path, name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(Split(path)) == 0 {
		return fmt.Errorf("refusing to write value %q at the root", name)
	}

	m.find(path, true).values[fold(name)] = value
	return nil
}

func (m *Memory) DeleteTree(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	segments := Split(path)
	if len(segments) == 0 {
		return fmt.Errorf("refusing to delete the root")
	}

	parent := m.find(Join(segments[:len(segments)-1]...), false)
	if parent == nil {
		return nil
	}

	delete(parent.children, fold(segments[len(segments)-1]))
	return nil
}
