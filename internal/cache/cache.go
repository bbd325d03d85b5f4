// Package cache keeps rendered pages in memory. Pages only change when the
// content changes, so a served page is reused until it expires, is evicted
// for space, or the cache is cleared on a content reload.
package cache

import (
	"bytes"
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Recorder observes lookups, typically for metrics
type Recorder interface {
	CacheLookup(hit bool)
}

type nopRecorder struct{}

func (nopRecorder) CacheLookup(bool) {}

// Config holds cache configuration
type Config struct {
	MaxSize  int64         // Maximum total size of cached bodies in bytes (default: 16 MB)
	MaxAge   time.Duration // Maximum age of an entry; zero disables the cache
	Clock    clockwork.Clock
	Recorder Recorder
}

// DefaultConfig returns the default cache configuration
func DefaultConfig() Config {
	return Config{
		MaxSize: 16 << 20,
		MaxAge:  time.Hour,
	}
}

// Entry is one cached response
type Entry struct {
	Key     string
	Body    []byte
	Header  http.Header
	ETag    string
	Created time.Time
}

// Stats tracks cache performance
type Stats struct {
	Hits       int64
	Misses     int64
	Evictions  int64
	TotalSize  int64
	EntryCount int
}

// Cache is an LRU cache of rendered responses
type Cache struct {
	mu       sync.Mutex
	maxSize  int64
	maxAge   time.Duration
	clock    clockwork.Clock
	recorder Recorder

	entries map[string]*list.Element
	order   *list.List // front is most recently used
	stats   Stats
}

// New creates a cache
func New(config Config) *Cache {
	if config.MaxSize <= 0 {
		config.MaxSize = DefaultConfig().MaxSize
	}
	if config.Clock == nil {
		config.Clock = clockwork.NewRealClock()
	}
	if config.Recorder == nil {
		config.Recorder = nopRecorder{}
	}
	return &Cache{
		maxSize:  config.MaxSize,
		maxAge:   config.MaxAge,
		clock:    config.Clock,
		recorder: config.Recorder,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

// Enabled reports whether entries are kept at all
func (c *Cache) Enabled() bool {
	return c.maxAge > 0
}

// Get returns the entry for key if it is present and fresh
func (c *Cache) Get(key string) (*Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		c.miss()
		return nil, false
	}
	entry := el.Value.(*Entry)
	if c.clock.Since(entry.Created) >= c.maxAge {
		c.removeLocked(el)
		c.miss()
		return nil, false
	}

	c.order.MoveToFront(el)
	c.stats.Hits++
	c.recorder.CacheLookup(true)
	return entry, true
}

func (c *Cache) miss() {
	c.stats.Misses++
	c.recorder.CacheLookup(false)
}

// Put stores body under key, evicting least recently used entries to make
// room. Bodies larger than the whole cache are not stored.
func (c *Cache) Put(key string, body []byte, header http.Header) {
	if !c.Enabled() || int64(len(body)) > c.maxSize {
		return
	}

	entry := &Entry{
		Key:     key,
		Body:    body,
		Header:  header.Clone(),
		ETag:    `"` + Key(string(body))[:16] + `"`,
		Created: c.clock.Now(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.entries[key]; ok {
		c.removeLocked(old)
	}
	for c.stats.TotalSize+int64(len(body)) > c.maxSize && c.order.Len() > 0 {
		c.removeLocked(c.order.Back())
		c.stats.Evictions++
	}

	c.entries[key] = c.order.PushFront(entry)
	c.stats.TotalSize += int64(len(body))
	c.stats.EntryCount = len(c.entries)
}

// Delete removes an entry from the cache
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[key]; ok {
		c.removeLocked(el)
	}
}

// Clear removes all cached entries. Statistics other than size are kept.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*list.Element)
	c.order.Init()
	c.stats.TotalSize = 0
	c.stats.EntryCount = 0
}

// GetStats returns cache statistics
func (c *Cache) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func (c *Cache) removeLocked(el *list.Element) {
	entry := c.order.Remove(el).(*Entry)
	delete(c.entries, entry.Key)
	c.stats.TotalSize -= int64(len(entry.Body))
	c.stats.EntryCount = len(c.entries)
}

// Key generates a cache key from inputs
func Key(inputs ...string) string {
	h := sha256.New()
	for _, input := range inputs {
		h.Write([]byte(input))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Handler serves GET and HEAD requests from the cache and stores successful
// HTML responses of next. Everything else passes straight through.
func (c *Cache) Handler(next http.Handler) http.Handler {
	if !c.Enabled() {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}

		key := r.URL.Path
		if entry, ok := c.Get(key); ok {
			serveEntry(w, r, entry)
			return
		}

		rec := &recorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, r)

		if rec.code == http.StatusOK && r.Method == http.MethodGet &&
			strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html") {
			c.Put(key, rec.body.Bytes(), rec.Header())
		}
	})
}

func serveEntry(w http.ResponseWriter, r *http.Request, entry *Entry) {
	for k, v := range entry.Header {
		w.Header()[k] = v
	}
	w.Header().Set("ETag", entry.ETag)
	w.Header().Set("X-Cache", "HIT")

	if r.Header.Get("If-None-Match") == entry.ETag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodGet {
		_, _ = w.Write(entry.Body)
	}
}

// recorder passes a response through while keeping a copy of the body
type recorder struct {
	http.ResponseWriter
	code        int
	body        bytes.Buffer
	wroteHeader bool
}

func (r *recorder) WriteHeader(code int) {
	if !r.wroteHeader {
		r.code = code
		r.wroteHeader = true
		r.Header().Set("X-Cache", "MISS")
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *recorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}
