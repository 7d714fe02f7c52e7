package arbor

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/danvale/arbor/internal/engine"
)

// TokenSet maps manifest names to identity tokens, creating each token on
// first use so that every reference to a name shares one key.
type TokenSet struct {
	mu     sync.Mutex
	tokens map[string]*Token
}

func NewTokenSet() *TokenSet {
	return &TokenSet{
		tokens: make(map[string]*Token),
	}
}

func (s *TokenSet) Token(name string) *Token {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tok, ok := s.tokens[name]; ok {
		return tok
	}
	tok := NewToken(name)
	s.tokens[name] = tok
	return tok
}

func (s *TokenSet) Lookup(name string) (*Token, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tok, ok := s.tokens[name]
	return tok, ok
}

// Manifest is the bootstrap provider list handed to the resolver by the
// module system: value providers and alias wiring for string-named tokens.
type Manifest struct {
	Providers []ManifestProvider `yaml:"providers"`
	Aliases   []ManifestAlias    `yaml:"aliases"`
}

type ManifestProvider struct {
	Token string `yaml:"token"`
	Value any    `yaml:"value"`
}

type ManifestAlias struct {
	Token string `yaml:"token"`
	To    string `yaml:"to"`
}

// ParseManifest decodes and validates a single manifest payload.
func ParseManifest(data []byte) (Manifest, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Manifest{}, errManifest("manifest payload is empty", nil)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, errManifest("failed to decode manifest", err)
	}
	if err := m.validate(); err != nil {
		return Manifest{}, err
	}
	return m.normalized(), nil
}

func (m Manifest) validate() error {
	for i, p := range m.Providers {
		if strings.TrimSpace(p.Token) == "" {
			return errManifest(fmt.Sprintf("provider %d has an empty token", i), nil)
		}
	}
	for i, a := range m.Aliases {
		if strings.TrimSpace(a.Token) == "" {
			return errManifest(fmt.Sprintf("alias %d has an empty token", i), nil)
		}
		if strings.TrimSpace(a.To) == "" {
			return errManifest(fmt.Sprintf("alias %q has an empty target", a.Token), nil)
		}
		if strings.TrimSpace(a.Token) == strings.TrimSpace(a.To) {
			return errManifest(fmt.Sprintf("alias %q targets itself", a.Token), nil)
		}
	}
	return nil
}

func (m Manifest) normalized() Manifest {
	for i := range m.Providers {
		m.Providers[i].Token = strings.TrimSpace(m.Providers[i].Token)
	}
	for i := range m.Aliases {
		m.Aliases[i].Token = strings.TrimSpace(m.Aliases[i].Token)
		m.Aliases[i].To = strings.TrimSpace(m.Aliases[i].To)
	}
	return m
}

// Build converts the manifest into provider declarations, resolving names
// through the token set.
func (m Manifest) Build(set *TokenSet) []Provider {
	providers := make([]Provider, 0, len(m.Providers)+len(m.Aliases))
	for _, p := range m.Providers {
		providers = append(providers, Value(set.Token(p.Token), p.Value))
	}
	for _, a := range m.Aliases {
		providers = append(providers, Existing(set.Token(a.Token), set.Token(a.To)))
	}
	return providers
}

// LoadManifestFile reads a YAML manifest from disk.
func LoadManifestFile(path string) (Manifest, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Manifest{}, errManifest(fmt.Sprintf("stat %s", path), err)
	}
	if info.IsDir() {
		return Manifest{}, errManifest(fmt.Sprintf("%s is a directory", path), nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, errManifest(fmt.Sprintf("read %s", path), err)
	}

	m, err := ParseManifest(data)
	if err != nil {
		return Manifest{}, errManifest(path, err)
	}
	return m, nil
}

// LoadManifestDir scans a directory for *.yaml manifests and returns them
// in path order. A missing directory is treated as no manifests.
func LoadManifestDir(dir string) ([]Manifest, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, nil
	}

	entries, err := os.ReadDir(trimmed)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errManifest(fmt.Sprintf("read %s", trimmed), err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !isYAMLFile(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var manifests []Manifest
	for _, name := range names {
		m, err := LoadManifestFile(filepath.Join(trimmed, name))
		if err != nil {
			return nil, err
		}
		manifests = append(manifests, m)
	}
	return manifests, nil
}

// ApplyManifest registers the manifest's providers at module scope.
func (a *App) ApplyManifest(m Manifest, set *TokenSet) error {
	return a.Provide(m.Build(set)...)
}

func isYAMLFile(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	return strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml")
}

func errManifest(message string, cause error) *Error {
	return engine.NewError(ErrCodeManifestInvalid, message, cause)
}
