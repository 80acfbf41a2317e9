package feature

import (
	"sync"
	"time"

	"github.com/rushteam/barkeep/core"
)

// MemoryFeatureCache 是配方特征的内存缓存，采用 LRU 策略。
// 配方不可变，所以只要目录返回的是同一个 *core.Recipe，特征就可以跨模式、跨运行复用；
// 同一 ID 对应了新的 Recipe 指针时会重新抽取。
type MemoryFeatureCache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	maxSize int

	hits   int64
	misses int64
}

type cacheEntry struct {
	features   *RecipeFeatures
	accessTime time.Time
}

// NewMemoryFeatureCache 创建特征缓存；maxSize <= 0 时使用 4096。
func NewMemoryFeatureCache(maxSize int) *MemoryFeatureCache {
	if maxSize <= 0 {
		maxSize = 4096
	}
	return &MemoryFeatureCache{
		entries: make(map[string]*cacheEntry),
		maxSize: maxSize,
	}
}

// Get 读取缓存；recipe 指针不一致视为未命中。
func (c *MemoryFeatureCache) Get(r *core.Recipe) (*RecipeFeatures, bool) {
	if r == nil || r.ID == "" {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[r.ID]
	if !ok || e.features.Recipe != r {
		c.misses++
		return nil, false
	}
	e.accessTime = time.Now()
	c.hits++
	return e.features, true
}

// Set 写入缓存，超过容量时淘汰最久未访问的条目。
func (c *MemoryFeatureCache) Set(f *RecipeFeatures) {
	if f == nil || f.Recipe == nil || f.Recipe.ID == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[f.Recipe.ID]; !exists && len(c.entries) >= c.maxSize {
		c.evictLRU()
	}
	c.entries[f.Recipe.ID] = &cacheEntry{features: f, accessTime: time.Now()}
}

func (c *MemoryFeatureCache) evictLRU() {
	var (
		oldestKey  string
		oldestTime time.Time
		first      = true
	)
	for key, e := range c.entries {
		if first || e.accessTime.Before(oldestTime) {
			oldestKey = key
			oldestTime = e.accessTime
			first = false
		}
	}
	if !first {
		delete(c.entries, oldestKey)
	}
}

// Len 返回当前缓存条目数。
func (c *MemoryFeatureCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats 返回命中/未命中次数。
func (c *MemoryFeatureCache) Stats() (hits, misses int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Clear 清空缓存
func (c *MemoryFeatureCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

// CachedExtractor 给任意 Extractor 加上缓存。
type CachedExtractor struct {
	Extractor Extractor
	Cache     *MemoryFeatureCache
}

// NewCachedExtractor 创建带缓存的抽取器；extractor 为 nil 时使用默认实现。
func NewCachedExtractor(extractor Extractor, cache *MemoryFeatureCache) *CachedExtractor {
	if extractor == nil {
		extractor = NewDefaultExtractor()
	}
	if cache == nil {
		cache = NewMemoryFeatureCache(0)
	}
	return &CachedExtractor{Extractor: extractor, Cache: cache}
}

func (e *CachedExtractor) Name() string { return "cached." + e.Extractor.Name() }

func (e *CachedExtractor) Extract(r *core.Recipe) *RecipeFeatures {
	if f, ok := e.Cache.Get(r); ok {
		return f
	}
	f := e.Extractor.Extract(r)
	e.Cache.Set(f)
	return f
}

var (
	_ Extractor = (*DefaultExtractor)(nil)
	_ Extractor = (*CachedExtractor)(nil)
	_ Extractor = (*ExtractorFunc)(nil)
)
