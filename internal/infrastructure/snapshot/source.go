// Package snapshot implementa la fuente documental sobre un volcado JSON del árbol
// completo (export de la base documental), útil para desarrollo, CLI y pruebas.
package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/jhoicas/farma-analytics/internal/domain/repository"
)

var _ repository.DocumentSource = (*Source)(nil)

// Source árbol en memoria. Con un archivo asociado, Fetch relee el archivo si
// cambió su fecha de modificación, de modo que una recarga vea el volcado nuevo.
type Source struct {
	mu      sync.RWMutex
	path    string
	modTime int64
	root    map[string]any
}

// FromTree construye la fuente sobre un árbol ya decodificado.
func FromTree(root map[string]any) *Source {
	if root == nil {
		root = map[string]any{}
	}
	return &Source{root: root}
}

// FromJSON decodifica un árbol JSON preservando los números como json.Number.
func FromJSON(data []byte) (*Source, error) {
	root, err := decode(data)
	if err != nil {
		return nil, err
	}
	return &Source{root: root}, nil
}

// Open carga el volcado desde archivo.
func Open(path string) (*Source, error) {
	s := &Source{path: path}
	if err := s.refresh(); err != nil {
		return nil, err
	}
	return s, nil
}

// Fetch recorre el árbol por segmentos separados por "/".
func (s *Source) Fetch(ctx context.Context, path string) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.path != "" {
		if err := s.refresh(); err != nil {
			return nil, err
		}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var node any = s.root
	for _, seg := range strings.Split(strings.Trim(path, "/"), "/") {
		if seg == "" {
			continue
		}
		m, ok := node.(map[string]any)
		if !ok {
			return nil, nil
		}
		node, ok = m[seg]
		if !ok {
			return nil, nil
		}
	}
	return node, nil
}

func (s *Source) refresh() error {
	info, err := os.Stat(s.path)
	if err != nil {
		return fmt.Errorf("snapshot.refresh: %w", err)
	}
	mod := info.ModTime().UnixNano()
	s.mu.RLock()
	fresh := s.root != nil && mod == s.modTime
	s.mu.RUnlock()
	if fresh {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("snapshot.refresh: %w", err)
	}
	root, err := decode(data)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.root = root
	s.modTime = mod
	s.mu.Unlock()
	return nil
}

func decode(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var root map[string]any
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("snapshot.decode: %w", err)
	}
	if root == nil {
		root = map[string]any{}
	}
	return root, nil
}
