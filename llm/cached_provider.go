package llm

import (
	"context"

	"go.uber.org/zap"
)

// CacheMetrics 是上报缓存命中情况的最小接口。
// internal/metrics.Collector 满足该接口。
type CacheMetrics interface {
	RecordCacheHit(cacheType string)
	RecordCacheMiss(cacheType string)
}

// CachedProvider 在任意 Provider 外包一层响应缓存。
// 仅 Generate 走缓存；Stream 与 Embed 直接透传。
type CachedProvider struct {
	inner   Provider
	cache   *MultiLevelCache
	metrics CacheMetrics
	logger  *zap.Logger
}

// NewCachedProvider 创建带缓存的 Provider。cache 为 nil 时等价于直接透传。
func NewCachedProvider(inner Provider, cache *MultiLevelCache, logger *zap.Logger) *CachedProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedProvider{
		inner:  inner,
		cache:  cache,
		logger: logger.With(zap.String("component", "llm_cached_provider")),
	}
}

// WithMetrics 设置缓存命中指标上报，返回自身便于链式装配。
func (p *CachedProvider) WithMetrics(m CacheMetrics) *CachedProvider {
	p.metrics = m
	return p
}

func (p *CachedProvider) Name() string { return p.inner.Name() }

// Generate 先查缓存，未命中时调用底层 Provider 并回填。
func (p *CachedProvider) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	if p.cache == nil || !p.cache.IsCacheable(req) {
		return p.inner.Generate(ctx, req)
	}

	key := p.cache.GenerateKey(req)
	if entry, err := p.cache.Get(ctx, key); err == nil && entry.Response != nil {
		if p.metrics != nil {
			p.metrics.RecordCacheHit("llm_response")
		}
		p.logger.Debug("llm cache hit", zap.String("key", key))
		return entry.Response, nil
	}
	if p.metrics != nil {
		p.metrics.RecordCacheMiss("llm_response")
	}

	resp, err := p.inner.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := p.cache.Set(ctx, key, &CacheEntry{
		Response:    resp,
		TokensSaved: resp.Usage.TotalTokens,
	}); err != nil {
		p.logger.Warn("llm cache set failed", zap.Error(err))
	}

	return resp, nil
}

func (p *CachedProvider) Stream(ctx context.Context, req *GenerateRequest) (<-chan StreamChunk, error) {
	return p.inner.Stream(ctx, req)
}

func (p *CachedProvider) Embed(ctx context.Context, req *EmbedRequest) (*EmbedResponse, error) {
	return p.inner.Embed(ctx, req)
}
