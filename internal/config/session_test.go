package config

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSessionManager(t *testing.T) *SessionManager {
	t.Helper()
	sm, err := NewSessionManager(afero.NewMemMapFs(), "/state/sessions")
	require.NoError(t, err)
	return sm
}

func TestSessionSaveAndLoad(t *testing.T) {
	sm := newTestSessionManager(t)

	session := &Session{
		ProgramName: "Foo",
		Deleted:     []string{"[File] /x/foo.txt"},
		Failed:      []string{"Failed to delete /x/bar: boom"},
	}
	require.NoError(t, sm.Save(session))

	assert.NotEmpty(t, session.ID)
	assert.False(t, session.Timestamp.IsZero())

	loaded, err := sm.Load(session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ProgramName, loaded.ProgramName)
	assert.Equal(t, session.Deleted, loaded.Deleted)
	assert.Equal(t, session.Failed, loaded.Failed)
}

func TestSessionListNewestFirst(t *testing.T) {
	sm := newTestSessionManager(t)
	now := time.Now()

	require.NoError(t, sm.Save(&Session{ID: "old", Timestamp: now.Add(-time.Hour)}))
	require.NoError(t, sm.Save(&Session{ID: "new", Timestamp: now}))
	require.NoError(t, afero.WriteFile(sm.fs, sm.path("broken"), []byte("{"), 0644))

	sessions, err := sm.List()
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "new", sessions[0].ID)
	assert.Equal(t, "old", sessions[1].ID)

	latest, err := sm.GetLatest()
	require.NoError(t, err)
	assert.Equal(t, "new", latest.ID)
}

func TestSessionGetLatestEmpty(t *testing.T) {
	sm := newTestSessionManager(t)
	_, err := sm.GetLatest()
	assert.Error(t, err)
}

func TestCleanOldSessions(t *testing.T) {
	sm := newTestSessionManager(t)
	now := time.Now()

	require.NoError(t, sm.Save(&Session{ID: "ancient", Timestamp: now.AddDate(0, 0, -100)}))
	require.NoError(t, sm.Save(&Session{ID: "recent", Timestamp: now.AddDate(0, 0, -1)}))

	removed, err := sm.CleanOldSessions(0)
	require.NoError(t, err)
	assert.Zero(t, removed)

	removed, err = sm.CleanOldSessions(30)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	sessions, err := sm.List()
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "recent", sessions[0].ID)
}

func TestSessionDeleteMissing(t *testing.T) {
	sm := newTestSessionManager(t)
	assert.Error(t, sm.Delete("missing"))
}
