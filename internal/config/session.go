package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// Session records one deletion batch
type Session struct {
	ID             string    `json:"id"`
	Timestamp      time.Time `json:"timestamp"`
	ProgramName    string    `json:"program_name"`
	ProgramVersion string    `json:"program_version,omitempty"`
	Deleted        []string  `json:"deleted"`
	Failed         []string  `json:"failed,omitempty"`
	BackupPath     string    `json:"backup_path,omitempty"`
}

// SessionManager persists deletion sessions as JSON files
type SessionManager struct {
	fs          afero.Fs
	sessionsDir string
}

// NewSessionManager creates a session manager storing files in sessionsDir
func NewSessionManager(fs afero.Fs, sessionsDir string) (*SessionManager, error) {
	// Create sessions directory if it doesn't exist
	if err := fs.MkdirAll(sessionsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create sessions directory: %w", err)
	}

	return &SessionManager{
		fs:          fs,
		sessionsDir: sessionsDir,
	}, nil
}

// DefaultSessionsDir returns the per-user sessions directory
func DefaultSessionsDir() string {
	return StatePath("sessions")
}

// Save saves a session to disk
func (sm *SessionManager) Save(session *Session) error {
	// Generate ID if not set
	if session.ID == "" {
		session.ID = uuid.NewString()
	}

	// Set timestamp if not set
	if session.Timestamp.IsZero() {
		session.Timestamp = time.Now()
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := afero.WriteFile(sm.fs, sm.path(session.ID), data, 0644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// Load loads a session from disk by ID
func (sm *SessionManager) Load(id string) (*Session, error) {
	data, err := afero.ReadFile(sm.fs, sm.path(id))
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

// List returns all saved sessions, newest first
func (sm *SessionManager) List() ([]*Session, error) {
	entries, err := afero.ReadDir(sm.fs, sm.sessionsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read sessions directory: %w", err)
	}

	var sessions []*Session
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		session, err := sm.Load(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			// Skip invalid sessions
			continue
		}

		sessions = append(sessions, session)
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].Timestamp.After(sessions[j].Timestamp)
	})

	return sessions, nil
}

// Delete deletes a session by ID
func (sm *SessionManager) Delete(id string) error {
	if err := sm.fs.Remove(sm.path(id)); err != nil {
		return fmt.Errorf("failed to delete session file: %w", err)
	}
	return nil
}

// GetLatest returns the most recent session
func (sm *SessionManager) GetLatest() (*Session, error) {
	sessions, err := sm.List()
	if err != nil {
		return nil, err
	}

	if len(sessions) == 0 {
		return nil, fmt.Errorf("no sessions found")
	}

	return sessions[0], nil
}

// CleanOldSessions removes sessions older than the given number of days.
// Zero days keeps everything.
func (sm *SessionManager) CleanOldSessions(days int) (int, error) {
	if days <= 0 {
		return 0, nil
	}

	sessions, err := sm.List()
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().AddDate(0, 0, -days)

	removed := 0
	for _, session := range sessions {
		if session.Timestamp.Before(cutoff) {
			if err := sm.Delete(session.ID); err != nil {
				continue
			}
			removed++
		}
	}

	return removed, nil
}

// GetSessionsDir returns the sessions directory path
func (sm *SessionManager) GetSessionsDir() string {
	return sm.sessionsDir
}

func (sm *SessionManager) path(id string) string {
	return filepath.Join(sm.sessionsDir, id+".json")
}
