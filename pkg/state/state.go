// Package state persists installer state between runs.
//
// The state file lives at $XDG_STATE_HOME/<cli>/state.yaml and records the
// answers given in the setup wizard so that they can be offered as defaults
// the next time, together with the last project that was created.
//
//	mgr, _ := state.NewManager("maginium", 5)
//	mgr.Remember("db-host", "db.local")
//	host, ok := mgr.Recall("db-host")
//	_ = mgr.Save()
//
// Sensitive answers are never remembered; callers filter them before calling
// Remember.
package state

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// FileName is the name of the state file inside the state directory.
const FileName = "state.yaml"

// Manager loads, updates and saves the state file.
type Manager struct {
	cliName   string
	statePath string
	state     *State
	mu        sync.RWMutex
}

// State is the content of the state file.
type State struct {
	// Recent wizard answers keyed by option name.
	Recent *Recent `yaml:"recent,omitempty" json:"recent,omitempty"`

	// Last created project.
	LastProject *Project `yaml:"last_project,omitempty" json:"last_project,omitempty"`

	LastModified time.Time `yaml:"last_modified,omitempty" json:"last_modified,omitempty"`
}

// Project describes a project created by the installer.
type Project struct {
	Name      string    `yaml:"name" json:"name"`
	Directory string    `yaml:"directory" json:"directory"`
	URL       string    `yaml:"url,omitempty" json:"url,omitempty"`
	CreatedAt time.Time `yaml:"created_at" json:"created_at"`
}

// NewManager creates a manager for the XDG state file of cliName. A missing
// file is not an error; it is created on the first Save.
func NewManager(cliName string, maxPerList int) (*Manager, error) {
	return NewManagerAt(cliName, StatePath(cliName), maxPerList)
}

// NewManagerAt creates a manager for the state file at path.
func NewManagerAt(cliName, path string, maxPerList int) (*Manager, error) {
	m := &Manager{
		cliName:   cliName,
		statePath: path,
		state:     newDefaultState(maxPerList),
	}

	if err := m.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	m.state.Recent.SetMax(maxPerList)

	return m, nil
}

func newDefaultState(maxPerList int) *State {
	return &State{
		Recent:       NewRecentWithMax(maxPerList),
		LastModified: time.Now(),
	}
}

// StatePath returns the XDG path of the state file of cliName.
func StatePath(cliName string) string {
	return filepath.Join(xdg.StateHome, cliName, FileName)
}

// Load reads the state file.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.statePath)
	if err != nil {
		return err
	}

	var state State
	if err := yaml.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("failed to parse state file: %w", err)
	}

	if state.Recent == nil {
		state.Recent = NewRecentWithMax(m.state.Recent.MaxPerList)
	}
	state.Recent.normalize()

	m.state = &state
	return nil
}

// Save writes the state file atomically.
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(m.statePath), 0o700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	m.state.LastModified = time.Now()

	data, err := yaml.Marshal(m.state)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	tmpPath := m.statePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	if err := os.Rename(tmpPath, m.statePath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to save state file: %w", err)
	}

	return nil
}

// Remember records an answer for option name.
func (m *Manager) Remember(name, value string) {
	m.mu.RLock()
	recent := m.state.Recent
	m.mu.RUnlock()

	recent.Add(name, value)
}

// Recall returns the most recent answer for option name.
func (m *Manager) Recall(name string) (string, bool) {
	m.mu.RLock()
	recent := m.state.Recent
	m.mu.RUnlock()

	return recent.Latest(name)
}

// Recent returns the recent answers.
func (m *Manager) Recent() *Recent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Recent
}

// SetLastProject records the project created by the last run.
func (m *Manager) SetLastProject(p *Project) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p != nil && p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	m.state.LastProject = p
}

// LastProject returns the project created by the last run, if any.
func (m *Manager) LastProject() *Project {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.LastProject
}

// StatePath returns the path of the managed state file.
func (m *Manager) StatePath() string {
	return m.statePath
}

// Reset discards all state in memory. Save persists the reset.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = newDefaultState(m.state.Recent.MaxPerList)
}
