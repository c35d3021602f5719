package pkg

import (
	"context"
	"sync"
)

// MockManager is a scriptable Manager for tests. Zero value installs
// everything successfully.
type MockManager struct {
	mu        sync.Mutex
	name      string
	available bool
	installed map[string]bool
	failOn    map[string]error
	syncErr   error
	installs  [][]string
	removals  [][]string
}

// NewMockManager creates an available mock named after the given backend.
func NewMockManager(name string) *MockManager {
	return &MockManager{
		name:      name,
		available: true,
		installed: make(map[string]bool),
		failOn:    make(map[string]error),
	}
}

// FailOn makes Install return err whenever the named package is requested.
func (m *MockManager) FailOn(name string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failOn[name] = err
}

// FailSync makes Sync return err.
func (m *MockManager) FailSync(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncErr = err
}

// MarkInstalled pre-seeds installed packages.
func (m *MockManager) MarkInstalled(names ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range names {
		m.installed[n] = true
	}
}

// SetAvailable controls IsAvailable.
func (m *MockManager) SetAvailable(available bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.available = available
}

// Installs returns each Install call's package list.
func (m *MockManager) Installs() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]string{}, m.installs...)
}

// Install implements Manager.
func (m *MockManager) Install(_ context.Context, _ InstallOptions, packages ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.installs = append(m.installs, packages)
	for _, p := range packages {
		if err, ok := m.failOn[p]; ok {
			return err
		}
	}
	for _, p := range packages {
		m.installed[p] = true
	}
	return nil
}

// Remove implements Manager.
func (m *MockManager) Remove(_ context.Context, _ RemoveOptions, packages ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removals = append(m.removals, packages)
	for _, p := range packages {
		delete(m.installed, p)
	}
	return nil
}

// Sync implements Manager.
func (m *MockManager) Sync(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.syncErr
}

// Upgrade implements Manager.
func (m *MockManager) Upgrade(_ context.Context, _ ...string) error {
	return nil
}

// IsInstalled implements Manager.
func (m *MockManager) IsInstalled(_ context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.installed[name], nil
}

// ListInstalled implements Manager.
func (m *MockManager) ListInstalled(_ context.Context) ([]Package, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Package
	for n := range m.installed {
		out = append(out, Package{Name: n, Installed: true})
	}
	return out, nil
}

// Clean implements Manager.
func (m *MockManager) Clean(_ context.Context) error {
	return nil
}

// Name implements Manager.
func (m *MockManager) Name() string {
	return m.name
}

// IsAvailable implements Manager.
func (m *MockManager) IsAvailable() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.available
}

// Ensure MockManager implements Manager.
var _ Manager = (*MockManager)(nil)
