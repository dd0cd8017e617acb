package engine

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/newshound/newshound/internal/config"
)

// urlFilterCache applies per-site URL patterns, memoizing compiled
// article regexes across pages.
type urlFilterCache struct {
	mu    sync.RWMutex
	cache map[string]*regexp.Regexp
}

func newURLFilterCache() *urlFilterCache {
	return &urlFilterCache{cache: make(map[string]*regexp.Regexp)}
}

// filtered reports whether the URL is disqualified by the site's
// patterns: it must match the article pattern when one is set, and must
// not contain any exclude substring.
func (c *urlFilterCache) filtered(site *config.SiteConfig, url string) (bool, error) {
	if pattern := site.URLPatterns.Article; pattern != "" {
		re, err := c.getOrCompile(pattern)
		if err != nil {
			return false, fmt.Errorf("source %q article pattern: %w", site.ID, err)
		}
		if !re.MatchString(url) {
			return true, nil
		}
	}

	lower := strings.ToLower(url)
	for _, exclude := range site.URLPatterns.Exclude {
		if exclude != "" && strings.Contains(lower, strings.ToLower(exclude)) {
			return true, nil
		}
	}
	return false, nil
}

func (c *urlFilterCache) getOrCompile(pattern string) (*regexp.Regexp, error) {
	c.mu.RLock()
	re, ok := c.cache[pattern]
	c.mu.RUnlock()
	if ok {
		return re, nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache[pattern] = re
	c.mu.Unlock()
	return re, nil
}
