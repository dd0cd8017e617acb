package selector

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/newshound/newshound/internal/config"
	"github.com/newshound/newshound/internal/types"
)

// evalRegex applies a regex rule against the raw page text. With capture
// groups the first group of the first match is returned; without, the
// whole first match.
func (r *Resolver) evalRegex(page *types.Page, rule config.SelectorRule) (string, error) {
	re, err := r.regex.getOrCompile(rule.Expression)
	if err != nil {
		return "", err
	}

	body := page.Text()
	if re.NumSubexp() > 0 {
		match := re.FindStringSubmatch(body)
		if len(match) > 1 {
			return match[1], nil
		}
		return "", nil
	}
	return re.FindString(body), nil
}

// regexCache memoizes compiled expressions across concurrent resolutions.
type regexCache struct {
	mu    sync.RWMutex
	cache map[string]*regexp.Regexp
}

func newRegexCache() *regexCache {
	return &regexCache{cache: make(map[string]*regexp.Regexp)}
}

func (c *regexCache) getOrCompile(pattern string) (*regexp.Regexp, error) {
	c.mu.RLock()
	re, ok := c.cache[pattern]
	c.mu.RUnlock()
	if ok {
		return re, nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regex %q: %w", pattern, err)
	}

	c.mu.Lock()
	c.cache[pattern] = re
	c.mu.Unlock()
	return re, nil
}
