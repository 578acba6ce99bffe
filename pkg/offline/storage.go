package offline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"slices"
	"sync"
	"time"
)

// HeaderCacheStatus marks responses served from a cache generation.
const HeaderCacheStatus = "X-Offline-Cache"

type Entry struct {
	URL      string
	Status   int
	Header   http.Header
	Body     []byte
	StoredAt time.Time
}

// Storage holds named cache generations of stored responses.
type Storage interface {
	Put(ctx context.Context, cache string, entry Entry) error
	Match(ctx context.Context, cache string, url string) (Entry, bool, error)
	Caches(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, cache string) error
}

func (e Entry) Response(request *http.Request) *http.Response {
	header := e.Header.Clone()
	if header == nil {
		header = http.Header{}
	}

	header.Set(HeaderCacheStatus, "hit")

	return &http.Response{
		Status:        fmt.Sprintf("%d %s", e.Status, http.StatusText(e.Status)),
		StatusCode:    e.Status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(e.Body)),
		ContentLength: int64(len(e.Body)),
		Request:       request,
	}
}

type MemoryStorage struct {
	mu     sync.RWMutex
	caches map[string]map[string]Entry
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{caches: make(map[string]map[string]Entry)}
}

func (m *MemoryStorage) Put(_ context.Context, cache string, entry Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, found := m.caches[cache]
	if !found {
		entries = make(map[string]Entry)
		m.caches[cache] = entries
	}

	entry.Header = entry.Header.Clone()
	entry.Body = slices.Clone(entry.Body)
	entries[entry.URL] = entry

	return nil
}

func (m *MemoryStorage) Match(_ context.Context, cache string, url string) (Entry, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, found := m.caches[cache][url]

	return entry, found, nil
}

func (m *MemoryStorage) Caches(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	caches := make([]string, 0, len(m.caches))
	for name := range m.caches {
		caches = append(caches, name)
	}

	slices.Sort(caches)

	return caches, nil
}

func (m *MemoryStorage) Delete(_ context.Context, cache string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.caches, cache)

	return nil
}
