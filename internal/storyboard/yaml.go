package storyboard

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const projectFileName = "project.yaml"

// YAMLStore keeps one directory per project under a root, each holding a
// project.yaml. Save writes to a temp file and renames so readers never see
// a partial document.
type YAMLStore struct {
	root string
}

func NewYAMLStore(root string) (*YAMLStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create projects dir: %w", err)
	}
	return &YAMLStore{root: root}, nil
}

func (s *YAMLStore) projectPath(name string) (string, error) {
	clean, err := NormalizeProjectName(name)
	if err != nil {
		return "", err
	}
	if clean != name {
		return "", &ValidationError{Field: "project.name", Value: name, Reason: "contains characters not allowed in project names"}
	}
	return filepath.Join(s.root, name, projectFileName), nil
}

func (s *YAMLStore) Save(ctx context.Context, p *Project) error {
	path, err := s.projectPath(p.Name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (s *YAMLStore) Load(ctx context.Context, name string) (*Project, error) {
	path, err := s.projectPath(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("stored project %q is invalid: %w", name, err)
	}
	return &p, nil
}

func (s *YAMLStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(s.root, entry.Name(), projectFileName)); err == nil {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

func (s *YAMLStore) Delete(ctx context.Context, name string) error {
	path, err := s.projectPath(name)
	if err != nil {
		return err
	}
	return os.RemoveAll(filepath.Dir(path))
}
