//go:build !windows

package registry

type systemStore struct{}

// NewSystemStore returns a store that reports ErrUnsupported for every
// operation; there is no registry outside Windows.
func NewSystemStore() Store {
	return systemStore{}
}

func (systemStore) Root(Hive) Key {
	return unsupportedKey{}
}

func (systemStore) OpenKey(Hive, string, Access) (Key, error) {
	return nil, ErrUnsupported
}

type unsupportedKey struct{}

func (unsupportedKey) SubKeyNames() ([]string, error) { return nil, ErrUnsupported }
func (unsupportedKey) StringValue(string) (string, error) { return "", ErrUnsupported }
func (unsupportedKey) DeleteTree(string) error { return ErrUnsupported }
func (unsupportedKey) Close() error { return nil }
