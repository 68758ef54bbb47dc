package manifold

import (
	"math"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/san-kum/gesturenav/internal/geom"
)

type projKey struct{ x, y uint64 }

// ProjectionCache memoises Path.Project for exact pointer coordinates.
// Re-renders and throttled drag handlers tend to re-project the same
// pointer position; the cache returns exactly what Project would.
type ProjectionCache struct {
	path   *Path
	cache  *lru.Cache[projKey, Projection]
	hits   int
	misses int
}

func NewProjectionCache(path *Path, size int) (*ProjectionCache, error) {
	if size <= 0 {
		size = 64
	}
	c, err := lru.New[projKey, Projection](size)
	if err != nil {
		return nil, err
	}
	return &ProjectionCache{path: path, cache: c}, nil
}

func (c *ProjectionCache) Project(q geom.Vec2) Projection {
	k := projKey{math.Float64bits(q.X), math.Float64bits(q.Y)}
	if p, ok := c.cache.Get(k); ok {
		c.hits++
		return p
	}
	c.misses++
	p := c.path.Project(q)
	c.cache.Add(k, p)
	return p
}

func (c *ProjectionCache) Stats() (hits, misses int) { return c.hits, c.misses }

func (c *ProjectionCache) Path() *Path { return c.path }
