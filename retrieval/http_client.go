package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/lexflow/types"
)

// HTTPClientConfig 是外部文档服务客户端的配置。
type HTTPClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// HTTPClient 对接外部文档检索服务（POST /v1/search）。
type HTTPClient struct {
	cfg    HTTPClientConfig
	client *http.Client
	logger *zap.Logger
}

// NewHTTPClient 创建文档服务客户端。
func NewHTTPClient(cfg HTTPClientConfig, logger *zap.Logger) *HTTPClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.With(zap.String("component", "retrieval_client")),
	}
}

type searchRequest struct {
	Keywords []string `json:"keywords"`
	TopK     int      `json:"top_k"`
}

type searchResponse struct {
	Results []SearchResult `json:"results"`
}

// Search 调用文档服务检索接口。
func (c *HTTPClient) Search(ctx context.Context, keywords []string, topK int) ([]SearchResult, error) {
	payload, err := json.Marshal(searchRequest{Keywords: keywords, TopK: topK})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search request: %w", err)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/v1/search"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, types.WrapError(types.ErrUpstreamError, "document service unreachable", err).
			WithHTTPStatus(http.StatusBadGateway).WithRetryable(true)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, types.NewError(types.ErrUpstreamError,
			fmt.Sprintf("document service returned status %d", resp.StatusCode)).
			WithHTTPStatus(http.StatusBadGateway).
			WithRetryable(resp.StatusCode >= 500)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, types.WrapError(types.ErrUpstreamError, "decode document service response", err).
			WithHTTPStatus(http.StatusBadGateway).WithRetryable(true)
	}

	c.logger.Debug("document search completed",
		zap.Strings("keywords", keywords),
		zap.Int("results", len(sr.Results)))
	return sr.Results, nil
}
