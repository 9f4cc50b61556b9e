package program

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fenilsonani/kuri-uninstaller/internal/registry"
)

func seedUninstall(s *registry.MemoryStore, root, key string, values map[string]string) {
	path := registry.Join(root, key)
	s.CreateKey(registry.LocalMachine, path)
	for name, value := range values {
		s.SetStringValue(registry.LocalMachine, path, name, value)
	}
}

func TestLoadInstalled(t *testing.T) {
	s := registry.NewMemoryStore()
	seedUninstall(s, UninstallPaths[0], "{A1}", map[string]string{
		"DisplayName":     "zebra Tool",
		"DisplayVersion":  "2.0",
		"InstallLocation": `C:\Program Files\Zebra`,
	})
	seedUninstall(s, UninstallPaths[0], "{B2}", map[string]string{
		"DisplayName": "Alpha",
	})
	seedUninstall(s, UninstallPaths[0], "{C3}", map[string]string{
		"DisplayName": "",
	})
	seedUninstall(s, UninstallPaths[0], "NoName", map[string]string{
		"DisplayVersion": "1.0",
	})
	seedUninstall(s, UninstallPaths[1], "{D4}", map[string]string{
		"DisplayName":    "Alpha",
		"DisplayVersion": "32-bit",
	})
	seedUninstall(s, UninstallPaths[1], "{E5}", map[string]string{
		"DisplayName":    "beta",
		"DisplayVersion": "0.1",
	})

	programs, err := LoadInstalled(s)
	require.NoError(t, err)

	want := []Identity{
		{Name: "Alpha"},
		{Name: "beta", Version: "0.1"},
		{Name: "zebra Tool", Version: "2.0", InstallLocation: `C:\Program Files\Zebra`},
	}
	assert.Equal(t, want, programs)
}

func TestLoadInstalledSkipsUnopenableRoots(t *testing.T) {
	s := registry.NewMemoryStore()
	seedUninstall(s, UninstallPaths[1], "{A1}", map[string]string{"DisplayName": "Only32"})
	s.CreateKey(registry.LocalMachine, UninstallPaths[0])
	s.DenyAccess(registry.LocalMachine, UninstallPaths[0])

	programs, err := LoadInstalled(s)
	require.NoError(t, err)
	assert.Equal(t, []Identity{{Name: "Only32"}}, programs)
}

func TestLoadInstalledUnsupportedStore(t *testing.T) {
	programs, err := LoadInstalled(registry.NewMemoryStore())
	require.NoError(t, err)
	assert.Empty(t, programs)
}

func TestFind(t *testing.T) {
	programs := []Identity{
		{Name: "Foo Bar"},
		{Name: "Foo Bar Helper"},
		{Name: "Other"},
	}

	got, err := Find(programs, "foo bar")
	require.NoError(t, err)
	assert.Equal(t, "Foo Bar", got.Name)

	_, err = Find(programs, "foo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did you mean: Foo Bar, Foo Bar Helper")

	_, err = Find(programs, "missing")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "did you mean")
}

func TestIdentityLabel(t *testing.T) {
	assert.Equal(t, "Foo (1.2)", Identity{Name: "Foo", Version: "1.2"}.Label())
	assert.Equal(t, "Foo", Identity{Name: "Foo"}.Label())
	assert.False(t, Identity{Name: "Foo"}.HasInstallLocation())
}
