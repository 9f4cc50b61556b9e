package scanner

import (
	"go.uber.org/zap"

	"github.com/fenilsonani/kuri-uninstaller/internal/registry"
)

// RegistryRoot is a key whose direct children are searched. Prefix is the
// display form of the key that matched child names are appended to.
type RegistryRoot struct {
	Hive   registry.Hive
	Path   string
	Prefix string
}

// DefaultRegistryRoots are the machine-wide software root, its 32-bit
// mirror and the current user's software root
var DefaultRegistryRoots = []RegistryRoot{
	{Hive: registry.LocalMachine, Path: "SOFTWARE", Prefix: `HKEY_LOCAL_MACHINE\SOFTWARE`},
	{Hive: registry.LocalMachine, Path: `SOFTWARE\Wow6432Node`, Prefix: `HKEY_LOCAL_MACHINE\SOFTWARE\Wow6432Node`},
	{Hive: registry.CurrentUser, Path: "Software", Prefix: `HKEY_CURRENT_USER\Software`},
}

// RegistryScanner matches the names of direct child keys against terms.
// Values are never read.
type RegistryScanner struct {
	store  registry.Store
	roots  []RegistryRoot
	logger *zap.Logger
}

// NewRegistryScanner creates a scanner over the given roots
func NewRegistryScanner(store registry.Store, roots []RegistryRoot, logger *zap.Logger) *RegistryScanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistryScanner{
		store:  store,
		roots:  roots,
		logger: logger,
	}
}

// Scan enumerates one level below every root. Roots that cannot be opened
// or enumerated are skipped.
func (s *RegistryScanner) Scan(terms []string, progress ProgressCallback) []Artifact {
	var found []Artifact

	for _, root := range s.roots {
		if progress != nil {
			progress("registry", root.Prefix, len(found))
		}

		names, err := s.subKeyNames(root)
		if err != nil {
			s.logger.Debug("skipping registry root", zap.String("root", root.Prefix), zap.Error(err))
			continue
		}

		for _, name := range names {
			if Matches(name, terms) {
				found = append(found, RegistryKey(root.Prefix+registry.Separator+name))
			}
		}
	}

	return found
}

func (s *RegistryScanner) subKeyNames(root RegistryRoot) ([]string, error) {
	key, err := s.store.OpenKey(root.Hive, root.Path, registry.AccessRead)
	if err != nil {
		return nil, err
	}
	defer key.Close()

	return key.SubKeyNames()
}
