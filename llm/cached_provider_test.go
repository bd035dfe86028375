package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingProvider struct {
	calls int
	text  string
}

func (p *countingProvider) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	p.calls++
	return &GenerateResponse{Model: req.Model, Text: p.text}, nil
}

func (p *countingProvider) Stream(ctx context.Context, req *GenerateRequest) (<-chan StreamChunk, error) {
	ch := make(chan StreamChunk)
	close(ch)
	return ch, nil
}

func (p *countingProvider) Embed(ctx context.Context, req *EmbedRequest) (*EmbedResponse, error) {
	return &EmbedResponse{Model: req.Model}, nil
}

func (p *countingProvider) Name() string { return "counting" }

func TestCachedProviderHit(t *testing.T) {
	inner := &countingProvider{text: "answer"}
	cache := NewMultiLevelCache(newTestRedis(t), nil, nil)
	p := NewCachedProvider(inner, cache, nil)
	ctx := context.Background()

	req := &GenerateRequest{Model: "gpt-4o", Prompt: "q", Temperature: 0.2}

	first, err := p.Generate(ctx, req)
	require.NoError(t, err)
	second, err := p.Generate(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, first.Text, second.Text)
	assert.Equal(t, 1, inner.calls, "second call should be served from cache")
}

func TestCachedProviderSkipsHighTemperature(t *testing.T) {
	inner := &countingProvider{text: "varied"}
	cache := NewMultiLevelCache(newTestRedis(t), nil, nil)
	p := NewCachedProvider(inner, cache, nil)
	ctx := context.Background()

	req := &GenerateRequest{Model: "gpt-4o", Prompt: "q", Temperature: 0.9}

	_, err := p.Generate(ctx, req)
	require.NoError(t, err)
	_, err = p.Generate(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedProviderNilCache(t *testing.T) {
	inner := &countingProvider{text: "direct"}
	p := NewCachedProvider(inner, nil, nil)

	resp, err := p.Generate(context.Background(), &GenerateRequest{Model: "gpt-4o", Prompt: "q"})
	require.NoError(t, err)
	assert.Equal(t, "direct", resp.Text)
	assert.Equal(t, 1, inner.calls)
}
