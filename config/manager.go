package config

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"

	"github.com/host-uk/coolifyctl/faults"
)

// Manager reads and writes the context catalog file. A zero Path uses the
// CatalogPath resolution. Methods are safe for concurrent use.
type Manager struct {
	Path string

	mu sync.Mutex
}

func (m *Manager) catalogPath() (string, error) {
	if strings.TrimSpace(m.Path) != "" {
		return m.Path, nil
	}
	return CatalogPath()
}

func (m *Manager) load() (*Catalog, error) {
	path, err := m.catalogPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist):
		return &Catalog{}, nil
	default:
		return nil, faults.NewTypedError(faults.InternalError, "read context catalog "+path, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return &Catalog{}, nil
	}

	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, faults.NewTypedError(faults.InternalError, "parse context catalog "+path, err)
	}
	return &catalog, nil
}

func (m *Manager) save(catalog *Catalog) error {
	path, err := m.catalogPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return faults.NewTypedError(faults.InternalError, "create catalog directory", err)
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(catalog); err != nil {
		return faults.NewTypedError(faults.InternalError, "encode context catalog", err)
	}
	if err := encoder.Close(); err != nil {
		return faults.NewTypedError(faults.InternalError, "encode context catalog", err)
	}

	// The catalog holds API tokens, so keep it private.
	return os.WriteFile(path, buf.Bytes(), 0o600)
}

// Save validates and persists a context, replacing any existing entry with
// the same name. The first saved context becomes current.
func (m *Manager) Save(cfg Context) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	catalog, err := m.load()
	if err != nil {
		return err
	}

	replaced := false
	for idx := range catalog.Contexts {
		if catalog.Contexts[idx].Name == cfg.Name {
			catalog.Contexts[idx] = cfg
			replaced = true
			break
		}
	}
	if !replaced {
		catalog.Contexts = append(catalog.Contexts, cfg)
	}
	if catalog.CurrentCtx == "" {
		catalog.CurrentCtx = cfg.Name
	}
	return m.save(catalog)
}

// Delete removes a context. Deleting the current context clears the
// selection.
func (m *Manager) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	catalog, err := m.load()
	if err != nil {
		return err
	}

	kept := catalog.Contexts[:0]
	found := false
	for _, entry := range catalog.Contexts {
		if entry.Name == name {
			found = true
			continue
		}
		kept = append(kept, entry)
	}
	if !found {
		return faults.NewTypedError(faults.ValidationError, "context '"+name+"' not found", nil)
	}
	catalog.Contexts = kept
	if catalog.CurrentCtx == name {
		catalog.CurrentCtx = ""
	}
	return m.save(catalog)
}

// Use marks a context as current.
func (m *Manager) Use(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	catalog, err := m.load()
	if err != nil {
		return err
	}
	if _, ok := lookup(catalog, name); !ok {
		return faults.NewTypedError(faults.ValidationError, "context '"+name+"' not found", nil)
	}
	catalog.CurrentCtx = name
	return m.save(catalog)
}

// List returns the context names in sorted order plus the current
// selection.
func (m *Manager) List() ([]string, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	catalog, err := m.load()
	if err != nil {
		return nil, "", err
	}

	names := make([]string, 0, len(catalog.Contexts))
	for _, entry := range catalog.Contexts {
		if entry.Name != "" {
			names = append(names, entry.Name)
		}
	}
	sort.Strings(names)
	return names, catalog.CurrentCtx, nil
}

// Get returns one context by name.
func (m *Manager) Get(name string) (Context, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	catalog, err := m.load()
	if err != nil {
		return Context{}, err
	}
	entry, ok := lookup(catalog, name)
	if !ok {
		return Context{}, faults.NewTypedError(faults.ValidationError, "context '"+name+"' not found", nil)
	}
	return entry, nil
}

// Resolve picks the context to use for a command: the named one when name
// is non-empty, otherwise the current selection. Environment overrides are
// applied last. With an empty catalog and no selection, Resolve still
// succeeds when the environment supplies an endpoint.
func (m *Manager) Resolve(name string) (Context, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	catalog, err := m.load()
	if err != nil {
		return Context{}, err
	}

	if name == "" {
		name = catalog.CurrentCtx
	}

	var selected Context
	if name != "" {
		entry, ok := lookup(catalog, name)
		if !ok {
			return Context{}, faults.NewTypedError(faults.ValidationError, "context '"+name+"' not found", nil)
		}
		selected = entry
	} else {
		selected = Context{Name: "default"}
	}

	selected = selected.ApplyEnvOverrides()
	if strings.TrimSpace(selected.APIURL) == "" {
		return Context{}, faults.NewTypedError(faults.ValidationError,
			"no context selected: run 'config setup' or set "+APIURLEnvVar, nil)
	}
	return selected, nil
}

func lookup(catalog *Catalog, name string) (Context, bool) {
	for _, entry := range catalog.Contexts {
		if entry.Name == name {
			return entry, true
		}
	}
	return Context{}, false
}
