package training

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/juju/errors"
)

const DefaultCacheSize = 16

// Cache remembers results by dataset content and training config, so a file
// save that leaves the data unchanged does not trigger a refit.
type Cache struct {
	results *lru.Cache[string, *Result]
}

func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	results, err := lru.New[string, *Result](size)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &Cache{results: results}, nil
}

func cacheKey(digest string, config Config) string {
	return fmt.Sprintf("%s/%v/%d/%v/%v/%d", digest, config.TestRatio, config.Seed, config.C, config.Tol, config.MaxIter)
}

func (c *Cache) Get(digest string, config Config) (*Result, bool) {
	return c.results.Get(cacheKey(digest, config))
}

func (c *Cache) Add(config Config, result *Result) {
	c.results.Add(cacheKey(result.Digest, config), result)
}

func (c *Cache) Len() int {
	return c.results.Len()
}
