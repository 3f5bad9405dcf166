package pipeline

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// translationCache is a bounded map from (locator, region text, language)
// to a translated string. Capacity-based eviction keeps it from growing
// with the number of images ever processed. Disabled unless configured.
type translationCache struct {
	entries *lru.Cache[cacheKey, string]
}

type cacheKey struct {
	locator  string
	text     string
	language string
}

func newTranslationCache(size int) (*translationCache, error) {
	entries, err := lru.New[cacheKey, string](size)

	if err != nil {
		return nil, err
	}

	return &translationCache{
		entries: entries,
	}, nil
}

func (c *translationCache) get(locator, text, language string) (string, bool) {
	return c.entries.Get(cacheKey{locator, text, language})
}

func (c *translationCache) add(locator, text, language, translated string) {
	c.entries.Add(cacheKey{locator, text, language}, translated)
}
