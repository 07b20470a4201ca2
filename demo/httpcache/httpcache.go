// Package httpcache demonstrates a read-after-write edge across a real
// I/O-backed resource: a warm_cache task fetches a URL with resty.dev/v3
// and writes the response body into a shared cache entry; a read_cache task
// reads that entry back. The scheduler's ordering guarantee, not a lock on
// the cache, is what makes the read safe.
package httpcache

import (
	"context"
	"reflect"

	"resty.dev/v3"

	"github.com/vk/flowgrid/internal/annotation"
	"github.com/vk/flowgrid/internal/registry"
	"github.com/vk/flowgrid/internal/resource"
)

// Cache holds the single cached response body this demo operates on.
type Cache struct {
	client *resty.Client
	body   string
}

var bodyMember = resource.FieldOf(func(c *Cache) *string { return &c.body })

// WarmAnnotation is the warm_cache task's resource annotation.
var WarmAnnotation = annotation.New("httpcache.warm_cache", annotation.Writes(bodyMember))

// ReadAnnotation is the read_cache task's resource annotation.
var ReadAnnotation = annotation.New("httpcache.read_cache", annotation.Reads(bodyMember))

// NewCache returns an empty cache backed by a default resty client.
func NewCache() *Cache {
	return &Cache{client: resty.New()}
}

// Warm fetches url and stores its body in the cache entry. Fetch failures
// leave the cache entry empty rather than panicking — a demo task's job is
// to exercise the scheduler's ordering, not to model retry policy.
func (c *Cache) Warm(ctx context.Context, url string) {
	resp, err := c.client.R().SetContext(ctx).Get(url)
	if err != nil {
		c.body = ""
		return
	}
	c.body = resp.String()
}

// Read returns the cached body. url is accepted for symmetry with Warm and
// ignored: this demo caches a single entry.
func (c *Cache) Read(url string) string {
	return c.body
}

// Register binds the warm_cache and read_cache carrier tags to their
// annotations.
func Register(reg *registry.Registry) {
	reg.Register(reflect.TypeOf(WarmCacheTag{}), WarmAnnotation)
	reg.Register(reflect.TypeOf(ReadCacheTag{}), ReadAnnotation)
}

// WarmCacheTag and ReadCacheTag are the carrier tags for this package's two
// tasks.
type (
	WarmCacheTag struct{}
	ReadCacheTag struct{}
)
