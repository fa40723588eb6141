// Package cache implementa un almacén en memoria con TTL por clave, purga periódica
// de vencidos y expulsión de las entradas menos accedidas cuando se supera el tope.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Valores por defecto.
const (
	DefaultMaxEntries      = 50
	DefaultSlack           = 5
	DefaultCleanupInterval = 300 * time.Second
)

// Options configuración del Manager.
type Options struct {
	MaxEntries      int
	Slack           int
	CleanupInterval time.Duration
	Now             func() time.Time // reloj inyectable (tests)
}

type entry struct {
	value     any
	expiresAt time.Time
	createdAt time.Time
	accesses  int64
}

// Stats instantánea del estado del caché.
type Stats struct {
	Entries     int              `json:"entries"`
	MaxEntries  int              `json:"max_entries"`
	Hits        int64            `json:"hits"`
	Misses      int64            `json:"misses"`
	Evictions   int64            `json:"evictions"`
	Expirations int64            `json:"expirations"`
	Accesses    map[string]int64 `json:"accesses"`
	LastCleanup time.Time        `json:"last_cleanup"`
}

// Manager caché con TTL protegido por mutex. Todas las operaciones que mutan
// el estado se hacen bajo el lock.
type Manager struct {
	mu          sync.Mutex
	entries     map[string]*entry
	opts        Options
	lastCleanup time.Time
	hits        int64
	misses      int64
	evictions   int64
	expirations int64
}

// New construye el Manager aplicando valores por defecto.
func New(opts Options) *Manager {
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = DefaultMaxEntries
	}
	if opts.Slack < 0 || opts.Slack >= opts.MaxEntries {
		opts.Slack = DefaultSlack
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = DefaultCleanupInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Manager{
		entries:     make(map[string]*entry),
		opts:        opts,
		lastCleanup: opts.Now(),
	}
}

// Get devuelve el valor si existe y no ha vencido. Cada acierto incrementa el
// contador de accesos de la clave.
func (m *Manager) Get(key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.opts.Now()
	m.maybeCleanup(now)

	e, ok := m.entries[key]
	if !ok {
		m.misses++
		return nil, false
	}
	if !now.Before(e.expiresAt) {
		delete(m.entries, key)
		m.expirations++
		m.misses++
		return nil, false
	}
	e.accesses++
	m.hits++
	return e.value, true
}

// Set guarda value bajo key con el ttl indicado.
func (m *Manager) Set(key string, value any, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.opts.Now()
	m.maybeCleanup(now)

	prev := int64(0)
	if e, ok := m.entries[key]; ok {
		prev = e.accesses
	}
	m.entries[key] = &entry{value: value, expiresAt: now.Add(ttl), createdAt: now, accesses: prev}

	if len(m.entries) > m.opts.MaxEntries {
		m.evict()
	}
}

// Invalidate elimina una clave; devuelve true si existía.
func (m *Manager) Invalidate(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[key]
	delete(m.entries, key)
	return ok
}

// InvalidatePrefix elimina todas las claves con el prefijo dado y devuelve cuántas.
func (m *Manager) InvalidatePrefix(prefix string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k := range m.entries {
		if strings.HasPrefix(k, prefix) {
			delete(m.entries, k)
			n++
		}
	}
	return n
}

// Clear vacía el caché (los contadores globales se conservan).
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]*entry)
}

// Stats devuelve una copia de los contadores y accesos por clave.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc := make(map[string]int64, len(m.entries))
	for k, e := range m.entries {
		acc[k] = e.accesses
	}
	return Stats{
		Entries:     len(m.entries),
		MaxEntries:  m.opts.MaxEntries,
		Hits:        m.hits,
		Misses:      m.misses,
		Evictions:   m.evictions,
		Expirations: m.expirations,
		Accesses:    acc,
		LastCleanup: m.lastCleanup,
	}
}

// Purge elimina las entradas vencidas y devuelve cuántas borró.
func (m *Manager) Purge() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.purgeExpired(m.opts.Now())
}

// maybeCleanup purga vencidos si pasó el intervalo desde la última limpieza.
// Requiere el lock.
func (m *Manager) maybeCleanup(now time.Time) {
	if now.Sub(m.lastCleanup) < m.opts.CleanupInterval {
		return
	}
	m.purgeExpired(now)
}

func (m *Manager) purgeExpired(now time.Time) int {
	n := 0
	for k, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, k)
			n++
		}
	}
	m.expirations += int64(n)
	m.lastCleanup = now
	return n
}

// evict expulsa las menos accedidas (empate: la más antigua) hasta quedar en
// MaxEntries - Slack. Requiere el lock.
func (m *Manager) evict() {
	type candidate struct {
		key string
		e   *entry
	}
	list := make([]candidate, 0, len(m.entries))
	for k, e := range m.entries {
		list = append(list, candidate{k, e})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].e.accesses != list[j].e.accesses {
			return list[i].e.accesses < list[j].e.accesses
		}
		if !list[i].e.createdAt.Equal(list[j].e.createdAt) {
			return list[i].e.createdAt.Before(list[j].e.createdAt)
		}
		return list[i].key < list[j].key
	})
	target := m.opts.MaxEntries - m.opts.Slack
	for _, c := range list {
		if len(m.entries) <= target {
			break
		}
		delete(m.entries, c.key)
		m.evictions++
	}
}

// GetOrCompute devuelve el valor cacheado bajo key o lo calcula con fn y lo guarda.
// Los errores de fn no se cachean.
func GetOrCompute[T any](m *Manager, key string, ttl time.Duration, fn func() (T, error)) (T, error) {
	if v, ok := m.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}
	val, err := fn()
	if err != nil {
		return val, err
	}
	m.Set(key, val, ttl)
	return val, nil
}

// Key construye la clave prefix + name + hash(args, kwargs ordenados).
func Key(prefix, name string, args []any, kwargs map[string]any) string {
	var b strings.Builder
	for _, a := range args {
		fmt.Fprintf(&b, "%v|", a)
	}
	names := make([]string, 0, len(kwargs))
	for k := range kwargs {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		fmt.Fprintf(&b, "%s=%v|", k, kwargs[k])
	}
	sum := sha256.Sum256([]byte(b.String()))
	return prefix + name + ":" + hex.EncodeToString(sum[:8])
}
