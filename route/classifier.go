package route

import (
	"regexp"
	"strings"
)

type compiledCategory struct {
	category  Category
	exact     map[string]struct{}
	wildcards []string // "/*" patterns with the suffix stripped
	dynamic   []string // raw dynamic-segment patterns; regexes memoized in the cache
	prefixes  []string // literal patterns eligible for the prefix fallback
}

// Classifier maps request paths to security categories. It is immutable
// after construction; all mutable state lives in the injected [Cache].
type Classifier struct {
	categories []compiledCategory
	cache      *Cache
}

// NewClassifier compiles the matrix into match sets in declaration order.
// A nil cache gets the default bounds (500 entries, 5 minute TTL).
//
// NewClassifier does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewClassifier(m Matrix, cache *Cache) *Classifier {
	if cache == nil {
		cache = NewCache(0, 0)
	}
	return &Classifier{
		cache: cache,
		categories: []compiledCategory{
			compileCategory(CategoryPublicAPI, m.PublicAPI),
			compileCategory(CategoryAdminOnly, m.AdminOnly),
			compileCategory(CategoryProtected, m.Protected),
			compileCategory(CategoryAuthRestricted, m.AuthRestricted),
			compileCategory(CategoryPublicContent, m.PublicContent),
		},
	}
}

// Cache returns the injected classification cache.
//
// Cache does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Classifier) Cache() *Cache {
	return c.cache
}

// Classify returns the security category for pathname and whether any
// category matched. Results are cached; the cache-hit path and the
// cache-miss path always agree because entries are derived only from the
// immutable matrix.
//
// Classify does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Classifier) Classify(pathname string) (Category, bool) {
	if category, ok, cached := c.cache.lookup(pathname); cached {
		return category, ok
	}

	category, ok := c.classifyUncached(pathname)
	c.cache.store(pathname, category, ok)
	return category, ok
}

func (c *Classifier) classifyUncached(pathname string) (Category, bool) {
	for i := range c.categories {
		if c.categories[i].matches(pathname, c.cache) {
			return c.categories[i].category, true
		}
	}
	return 0, false
}

func (cc *compiledCategory) matches(pathname string, cache *Cache) bool {
	if _, ok := cc.exact[pathname]; ok {
		return true
	}
	for _, base := range cc.wildcards {
		if pathname == base || strings.HasPrefix(pathname, base+"/") {
			return true
		}
	}
	for _, pattern := range cc.dynamic {
		re, err := cache.regex(pattern)
		if err != nil {
			continue
		}
		if re.MatchString(pathname) {
			return true
		}
	}
	for _, base := range cc.prefixes {
		if strings.HasPrefix(pathname, base+"/") {
			return true
		}
	}
	return false
}

func compileCategory(category Category, patterns []string) compiledCategory {
	cc := compiledCategory{
		category: category,
		exact:    make(map[string]struct{}, len(patterns)),
	}
	for _, pattern := range patterns {
		switch {
		case strings.HasSuffix(pattern, "/*"):
			cc.wildcards = append(cc.wildcards, strings.TrimSuffix(pattern, "/*"))
		case isDynamicPattern(pattern):
			cc.dynamic = append(cc.dynamic, pattern)
		default:
			cc.exact[pattern] = struct{}{}
			// "/" as a prefix would swallow every path.
			if len(pattern) > 1 {
				cc.prefixes = append(cc.prefixes, pattern)
			}
		}
	}
	return cc
}

func isDynamicPattern(pattern string) bool {
	return strings.Contains(pattern, "[") || strings.Contains(pattern, "/:")
}

// dynamicPatternToRegex translates one dynamic pattern into an anchored
// regex: "[param]" and ":param" segments match exactly one path segment.
func dynamicPatternToRegex(pattern string) string {
	segments := strings.Split(pattern, "/")
	var b strings.Builder
	b.WriteString("^")
	for i, segment := range segments {
		if i > 0 {
			b.WriteString("/")
		}
		if isParamSegment(segment) {
			b.WriteString("[^/]+")
			continue
		}
		b.WriteString(regexp.QuoteMeta(segment))
	}
	b.WriteString("$")
	return b.String()
}

func isParamSegment(segment string) bool {
	if strings.HasPrefix(segment, "[") && strings.HasSuffix(segment, "]") && len(segment) > 2 {
		return true
	}
	return strings.HasPrefix(segment, ":") && len(segment) > 1
}
