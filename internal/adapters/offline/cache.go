package offline

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"
)

// CachedResponse is a stored GET response.
type CachedResponse struct {
	URL      string
	Status   int
	Header   http.Header
	Body     []byte
	StoredAt time.Time
}

func (c *CachedResponse) toResponse(req *http.Request, generation string) *http.Response {
	header := c.Header.Clone()
	if header == nil {
		header = make(http.Header)
	}
	header.Set(HeaderCacheGeneration, generation)
	header.Set(HeaderCacheStoredAt, c.StoredAt.UTC().Format(time.RFC3339))

	return &http.Response{
		Status:        strconv.Itoa(c.Status) + " " + http.StatusText(c.Status),
		StatusCode:    c.Status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(c.Body)),
		ContentLength: int64(len(c.Body)),
		Request:       req,
	}
}

// Cache stores responses in named generations. A generation is dropped as a
// whole when the cache version changes.
type Cache interface {
	Get(ctx context.Context, generation, url string) (*CachedResponse, bool, error)
	Put(ctx context.Context, generation string, resp CachedResponse) error
	Generations(ctx context.Context) ([]string, error)
	DeleteGeneration(ctx context.Context, generation string) error
}

var _ Cache = (*MemoryCache)(nil)

type MemoryCache struct {
	mu   sync.RWMutex
	gens map[string]map[string]CachedResponse
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{gens: make(map[string]map[string]CachedResponse)}
}

func (m *MemoryCache) Get(ctx context.Context, generation, url string) (*CachedResponse, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.gens[generation][url]
	if !ok {
		return nil, false, nil
	}
	r.Body = append([]byte(nil), r.Body...)
	r.Header = r.Header.Clone()
	return &r, true, nil
}

func (m *MemoryCache) Put(ctx context.Context, generation string, resp CachedResponse) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.gens[generation] == nil {
		m.gens[generation] = make(map[string]CachedResponse)
	}
	resp.Body = append([]byte(nil), resp.Body...)
	resp.Header = resp.Header.Clone()
	m.gens[generation][resp.URL] = resp
	return nil
}

func (m *MemoryCache) Generations(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, 0, len(m.gens))
	for g := range m.gens {
		out = append(out, g)
	}
	sort.Strings(out)
	return out, nil
}

func (m *MemoryCache) DeleteGeneration(ctx context.Context, generation string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.gens, generation)
	return nil
}
