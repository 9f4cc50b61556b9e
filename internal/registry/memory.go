package registry

import (
	"sort"
	"strings"
	"sync"
)

type memoryNode struct {
	name      string
	children  map[string]*memoryNode // keyed by lowercased name
	values    map[string]string
	denyOpen  bool
	deleteErr error
}

func newMemoryNode(name string) *memoryNode {
	return &memoryNode{
		name:     name,
		children: make(map[string]*memoryNode),
		values:   make(map[string]string),
	}
}

// MemoryStore is an in-memory Store. Key names are matched
// case-insensitively and stored with their original case, like the Windows
// registry.
type MemoryStore struct {
	mu    sync.Mutex
	hives map[Hive]*memoryNode
}

// NewMemoryStore creates an empty store with all hives present
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{hives: make(map[Hive]*memoryNode)}
	for _, h := range Hives {
		s.hives[h] = newMemoryNode(h.String())
	}
	return s
}

// CreateKey creates the key and any missing ancestors
func (s *MemoryStore) CreateKey(h Hive, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.create(h, path)
}

// SetStringValue creates the key if needed and stores a string value on it
func (s *MemoryStore) SetStringValue(h Hive, path, name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.create(h, path).values[name] = value
}

// KeyExists reports whether the key is present
func (s *MemoryStore) KeyExists(h Hive, path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookup(h, path) != nil
}

// DenyAccess makes OpenKey fail with ErrAccessDenied for exactly this path
func (s *MemoryStore) DenyAccess(h Hive, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.create(h, path).denyOpen = true
}

// FailDelete makes DeleteTree fail with err for any subtree containing this key
func (s *MemoryStore) FailDelete(h Hive, path string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.create(h, path).deleteErr = err
}

// Root implements Store
func (s *MemoryStore) Root(h Hive) Key {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &memoryKey{store: s, node: s.hives[h]}
}

// OpenKey implements Store
func (s *MemoryStore) OpenKey(h Hive, path string, access Access) (Key, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	node := s.lookup(h, path)
	if node == nil {
		return nil, ErrNotFound
	}
	if node.denyOpen {
		return nil, ErrAccessDenied
	}
	return &memoryKey{store: s, node: node}, nil
}

func (s *MemoryStore) create(h Hive, path string) *memoryNode {
	node := s.hives[h]
	for _, part := range splitPath(path) {
		child, ok := node.children[strings.ToLower(part)]
		if !ok {
			child = newMemoryNode(part)
			node.children[strings.ToLower(part)] = child
		}
		node = child
	}
	return node
}

func (s *MemoryStore) lookup(h Hive, path string) *memoryNode {
	node, ok := s.hives[h]
	if !ok {
		return nil
	}
	for _, part := range splitPath(path) {
		node, ok = node.children[strings.ToLower(part)]
		if !ok {
			return nil
		}
	}
	return node
}

func splitPath(path string) []string {
	var parts []string
	for _, p := range strings.Split(path, Separator) {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

type memoryKey struct {
	store *MemoryStore
	node  *memoryNode
}

func (k *memoryKey) SubKeyNames() ([]string, error) {
	k.store.mu.Lock()
	defer k.store.mu.Unlock()

	names := make([]string, 0, len(k.node.children))
	for _, child := range k.node.children {
		names = append(names, child.name)
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	return names, nil
}

func (k *memoryKey) StringValue(name string) (string, error) {
	k.store.mu.Lock()
	defer k.store.mu.Unlock()

	v, ok := k.node.values[name]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (k *memoryKey) DeleteTree(name string) error {
	k.store.mu.Lock()
	defer k.store.mu.Unlock()

	child, ok := k.node.children[strings.ToLower(name)]
	if !ok {
		return ErrNotFound
	}
	if err := subtreeDeleteErr(child); err != nil {
		return err
	}
	delete(k.node.children, strings.ToLower(name))
	return nil
}

func (k *memoryKey) Close() error {
	return nil
}

func subtreeDeleteErr(n *memoryNode) error {
	if n.deleteErr != nil {
		return n.deleteErr
	}
	for _, child := range n.children {
		if err := subtreeDeleteErr(child); err != nil {
			return err
		}
	}
	return nil
}
