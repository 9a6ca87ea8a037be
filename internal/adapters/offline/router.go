// Package offline routes client requests through a response cache, the way
// the service worker of a PWA would: network-first for the API and for
// anything unknown, cache-first for static assets.
package offline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path"
	"slices"
	"strings"
	"time"
)

const (
	HeaderCacheGeneration = "X-Offline-Cache"
	HeaderCacheStoredAt   = "X-Offline-Stored-At"

	// maxCachedBody bounds what a single response may put in the cache.
	maxCachedBody = 4 << 20
)

var ErrInstallFailed = errors.New("offline: install failed")

type Class string

const (
	ClassAPI     Class = "api"
	ClassStatic  Class = "static"
	ClassDynamic Class = "dynamic"
)

var DefaultStaticExtensions = []string{".js", ".css", ".png", ".jpg", ".jpeg", ".svg", ".ico", ".webp", ".woff", ".woff2"}

type Config struct {
	// Version names the cache generations; changing it invalidates them all.
	Version string
	// APIHost is the host of the sync API.
	APIHost          string
	StaticPrefixes   []string
	StaticExtensions []string
	// Manifest lists the core asset URLs pre-fetched on install.
	Manifest []string
}

type Router struct {
	next  http.RoundTripper
	cache Cache
	cfg   Config
	now   func() time.Time
}

func NewRouter(next http.RoundTripper, cache Cache, cfg Config) *Router {
	if next == nil {
		next = http.DefaultTransport
	}
	if cfg.Version == "" {
		cfg.Version = "v1"
	}
	if len(cfg.StaticExtensions) == 0 {
		cfg.StaticExtensions = DefaultStaticExtensions
	}
	return &Router{next: next, cache: cache, cfg: cfg, now: time.Now}
}

func (r *Router) Generation(c Class) string {
	return fmt.Sprintf("itera-%s-%s", c, r.cfg.Version)
}

// Generations are the cache names of the current version.
func (r *Router) Generations() []string {
	return []string{r.Generation(ClassAPI), r.Generation(ClassStatic), r.Generation(ClassDynamic)}
}

func (r *Router) Classify(req *http.Request) Class {
	if r.cfg.APIHost != "" && strings.EqualFold(req.URL.Host, r.cfg.APIHost) {
		return ClassAPI
	}
	p := req.URL.Path
	for _, prefix := range r.cfg.StaticPrefixes {
		if strings.HasPrefix(p, prefix) {
			return ClassStatic
		}
	}
	if slices.Contains(r.cfg.StaticExtensions, strings.ToLower(path.Ext(p))) {
		return ClassStatic
	}
	return ClassDynamic
}

func (r *Router) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return r.next.RoundTrip(req)
	}

	class := r.Classify(req)
	gen := r.Generation(class)
	if class == ClassStatic {
		return r.cacheFirst(req, gen)
	}
	return r.networkFirst(req, gen)
}

func (r *Router) networkFirst(req *http.Request, gen string) (*http.Response, error) {
	resp, err := r.next.RoundTrip(req)
	if err == nil {
		return r.store(req, gen, resp), nil
	}

	cached, ok, cerr := r.cache.Get(req.Context(), gen, req.URL.String())
	if cerr != nil {
		log.Printf("[OFFLINE] Cache read failed for %s: %v", req.URL, cerr)
	}
	if !ok {
		return nil, err
	}
	return cached.toResponse(req, gen), nil
}

func (r *Router) cacheFirst(req *http.Request, gen string) (*http.Response, error) {
	cached, ok, err := r.cache.Get(req.Context(), gen, req.URL.String())
	if err != nil {
		log.Printf("[OFFLINE] Cache read failed for %s: %v", req.URL, err)
	}
	if ok {
		return cached.toResponse(req, gen), nil
	}

	resp, err := r.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	return r.store(req, gen, resp), nil
}

// store caches successful responses and hands back a response whose body can
// still be read by the caller.
func (r *Router) store(req *http.Request, gen string, resp *http.Response) *http.Response {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp
	}
	if resp.ContentLength > maxCachedBody {
		return resp
	}
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "text/event-stream") {
		return resp
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCachedBody+1))
	if err != nil || len(body) > maxCachedBody {
		// Give the caller back what was consumed, followed by the rest.
		resp.Body = struct {
			io.Reader
			io.Closer
		}{io.MultiReader(bytes.NewReader(body), resp.Body), resp.Body}
		return resp
	}
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(body))

	entry := CachedResponse{
		URL:      req.URL.String(),
		Status:   resp.StatusCode,
		Header:   resp.Header.Clone(),
		Body:     body,
		StoredAt: r.now().UTC(),
	}
	if err := r.cache.Put(req.Context(), gen, entry); err != nil {
		log.Printf("[OFFLINE] Cache write failed for %s: %v", req.URL, err)
	}
	return resp
}

// Install pre-fetches the manifest into the static generation, then activates
// the current version right away. Any failing asset fails the whole install
// and leaves older generations in place. It returns the removed generations.
func (r *Router) Install(ctx context.Context) ([]string, error) {
	if err := r.prefetch(ctx); err != nil {
		return nil, err
	}
	return r.Activate(ctx)
}

func (r *Router) prefetch(ctx context.Context) error {
	gen := r.Generation(ClassStatic)
	for _, url := range r.cfg.Manifest {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInstallFailed, url, err)
		}
		resp, err := r.next.RoundTrip(req)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInstallFailed, url, err)
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInstallFailed, url, err)
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return fmt.Errorf("%w: %s: status %d", ErrInstallFailed, url, resp.StatusCode)
		}
		if err := r.cache.Put(ctx, gen, CachedResponse{
			URL:      url,
			Status:   resp.StatusCode,
			Header:   resp.Header.Clone(),
			Body:     body,
			StoredAt: r.now().UTC(),
		}); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInstallFailed, url, err)
		}
	}
	log.Printf("[OFFLINE] Installed %d core assets into %s", len(r.cfg.Manifest), gen)
	return nil
}

// Activate deletes every generation that does not belong to the current
// version and returns their names.
func (r *Router) Activate(ctx context.Context) ([]string, error) {
	gens, err := r.cache.Generations(ctx)
	if err != nil {
		return nil, fmt.Errorf("offline: list generations: %w", err)
	}

	current := r.Generations()
	var deleted []string
	for _, g := range gens {
		if slices.Contains(current, g) {
			continue
		}
		if err := r.cache.DeleteGeneration(ctx, g); err != nil {
			return deleted, fmt.Errorf("offline: delete %s: %w", g, err)
		}
		deleted = append(deleted, g)
	}
	if len(deleted) > 0 {
		log.Printf("[OFFLINE] Removed stale generations: %s", strings.Join(deleted, ", "))
	}
	return deleted, nil
}
