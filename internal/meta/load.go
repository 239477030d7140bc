package meta

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/hashicorp/go-version"
	"gopkg.in/yaml.v3"
)

// Snapshot is the version name of the newest, unreleased table.
const Snapshot = "snapshot"

// ErrNoSuchVersion is returned when a store has no file for a version.
var ErrNoSuchVersion = errors.New("no such meta version")

var extensions = []string{".yaml", ".yml", ".json"}

// Decode reads a callee table. JSON documents are accepted as YAML.
func Decode(r io.Reader) (*Meta, error) {
	var m Meta
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return &Meta{}, nil
		}
		return nil, fmt.Errorf("decode meta: %w", err)
	}
	for i, method := range m.Methods {
		for j, p := range method.Params {
			if !p.Branch.Known() {
				return nil, fmt.Errorf("method %d (%s) param %d: unknown branch %q", i, method.Name, j, p.Branch)
			}
		}
	}
	return &m, nil
}

// LoadFile reads a callee table from path.
func LoadFile(path string) (*Meta, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if m.Version == "" {
		m.Version = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return m, nil
}

// Store is a directory holding one file per table version.
type Store struct {
	Dir string
}

// Versions lists available versions: the snapshot first, then releases from
// newest to oldest, then anything that does not parse as a version.
func (s Store) Versions() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("read meta dir: %w", err)
	}

	var (
		snapshot bool
		releases []*version.Version
		raw      = map[*version.Version]string{}
		other    []string
	)
	for _, e := range entries {
		if e.IsDir() || !slices.Contains(extensions, filepath.Ext(e.Name())) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		if name == Snapshot {
			snapshot = true
			continue
		}
		v, err := version.NewVersion(name)
		if err != nil {
			other = append(other, name)
			continue
		}
		releases = append(releases, v)
		raw[v] = name
	}

	sort.Sort(sort.Reverse(version.Collection(releases)))
	sort.Strings(other)

	var out []string
	if snapshot {
		out = append(out, Snapshot)
	}
	for _, v := range releases {
		out = append(out, raw[v])
	}
	return append(out, other...), nil
}

// Load reads the table for a version. An empty version means the snapshot.
func (s Store) Load(v string) (*Meta, error) {
	if v == "" {
		v = Snapshot
	}
	for _, ext := range extensions {
		path := filepath.Join(s.Dir, v+ext)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoSuchVersion, v)
}
