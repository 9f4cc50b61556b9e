//go:build windows

package registry

import (
	winreg "golang.org/x/sys/windows/registry"
)

type systemStore struct{}

// NewSystemStore returns the store backed by the Windows registry
func NewSystemStore() Store {
	return systemStore{}
}

func predefinedKey(h Hive) winreg.Key {
	if h == CurrentUser {
		return winreg.CURRENT_USER
	}
	return winreg.LOCAL_MACHINE
}

func (systemStore) Root(h Hive) Key {
	return &systemKey{key: predefinedKey(h), predefined: true}
}

func (systemStore) OpenKey(h Hive, path string, access Access) (Key, error) {
	mask := uint32(winreg.ENUMERATE_SUB_KEYS | winreg.QUERY_VALUE)
	if access == AccessWrite {
		mask |= winreg.WRITE
	}

	k, err := winreg.OpenKey(predefinedKey(h), path, mask)
	if err != nil {
		return nil, err
	}
	return &systemKey{key: k}, nil
}

type systemKey struct {
	key        winreg.Key
	predefined bool
}

func (k *systemKey) SubKeyNames() ([]string, error) {
	return k.key.ReadSubKeyNames(-1)
}

func (k *systemKey) StringValue(name string) (string, error) {
	v, _, err := k.key.GetStringValue(name)
	return v, err
}

func (k *systemKey) DeleteTree(name string) error {
	return deleteTree(k.key, name)
}

func (k *systemKey) Close() error {
	if k.predefined {
		return nil
	}
	return k.key.Close()
}

// deleteTree removes children depth-first; DeleteKey refuses keys that still
// have subkeys.
func deleteTree(parent winreg.Key, name string) error {
	k, err := winreg.OpenKey(parent, name, winreg.ENUMERATE_SUB_KEYS|winreg.QUERY_VALUE)
	if err != nil {
		return err
	}

	children, err := k.ReadSubKeyNames(-1)
	if err != nil {
		k.Close()
		return err
	}
	for _, child := range children {
		if err := deleteTree(k, child); err != nil {
			k.Close()
			return err
		}
	}
	k.Close()

	return winreg.DeleteKey(parent, name)
}
