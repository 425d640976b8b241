//go:build windows

package store

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows/registry"
)

// Registry is a Store over one registry hive, HKEY_CURRENT_USER by default.
type Registry struct {
	hive registry.Key
}

// NewRegistry returns a Store rooted at the current user's hive.
func NewRegistry() *Registry {
	return &Registry{hive: registry.CURRENT_USER}
}

func notFound(err error) bool {
	return errors.Is(err, registry.ErrNotExist)
}

func (r *Registry) SubKeys(path string) ([]string, error) {
	k, err := registry.OpenKey(r.hive, path, registry.ENUMERATE_SUB_KEYS|registry.QUERY_VALUE)
	if err != nil {
		if notFound(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer k.Close()

	names, err := k.ReadSubKeyNames(-1)
	if err != nil {
		return nil, fmt.Errorf("enumerate %s: %w", path, err)
	}

	return names, nil
}

func (r *Registry) GetString(path, name string) (string, error) {
	k, err := registry.OpenKey(r.hive, path, registry.QUERY_VALUE)
	if err != nil {
		if notFound(err) {
			return "", fmt.Errorf("key %s: %w", path, ErrNotFound)
		}

		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer k.Close()

	v, _, err := k.GetStringValue(name)
	if err != nil {
		if notFound(err) {
			return "", fmt.Errorf("value %s\\%s: %w", path, name, ErrNotFound)
		}

		return "", fmt.Errorf("read %s\\%s: %w", path, name, err)
	}

	return v, nil
}

func (r *Registry) SetString(path, name, value string) error {
	k, _, err := registry.CreateKey(r.hive, path, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer k.Close()

	if err := k.SetStringValue(name, value); err != nil {
		return fmt.Errorf("write %s\\%s: %w", path, name, err)
	}

	return nil
}

// DeleteTree removes children depth-first since RegDeleteKey only removes
// keys without subkeys.
func (r *Registry) DeleteTree(path string) error {
	children, err := r.SubKeys(path)
	if err != nil {
		return err
	}

	for _, child := range children {
		if err := r.DeleteTree(Join(path, child)); err != nil {
			return err
		}
	}

	if err := registry.DeleteKey(r.hive, path); err != nil && !notFound(err) {
		return fmt.Errorf("delete %s: %w", path, err)
	}

	return nil
}
