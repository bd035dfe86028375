package casefile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/lexflow/types"
)

// HTTPClientConfig 是案件服务客户端的配置。
type HTTPClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// HTTPClient 对接外部案件服务。
// GET /v1/cases/{id} 读取案件；POST /v1/cases/{id}/timeline 追加事件。
type HTTPClient struct {
	cfg    HTTPClientConfig
	client *http.Client
	logger *zap.Logger
}

// NewHTTPClient 创建案件服务客户端。
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
		logger: logger.With(zap.String("component", "casefile_client")),
	}
}

func (c *HTTPClient) endpoint(parts ...string) string {
	base := strings.TrimRight(c.cfg.BaseURL, "/")
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}
	return base + "/v1/cases/" + strings.Join(escaped, "/")
}

func (c *HTTPClient) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
}

// GetCase 读取案件上下文。
func (c *HTTPClient) GetCase(ctx context.Context, caseID string) (*Case, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(caseID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, types.WrapError(types.ErrUpstreamError, "case service unreachable", err).
			WithHTTPStatus(http.StatusBadGateway).WithRetryable(true)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, types.NewError(types.ErrPreconditionFailed,
			fmt.Sprintf("case %s not found", caseID)).
			WithHTTPStatus(http.StatusNotFound)
	}
	if resp.StatusCode >= 400 {
		return nil, types.NewError(types.ErrUpstreamError,
			fmt.Sprintf("case service returned status %d", resp.StatusCode)).
			WithHTTPStatus(http.StatusBadGateway).
			WithRetryable(resp.StatusCode >= 500)
	}

	var cs Case
	if err := json.NewDecoder(resp.Body).Decode(&cs); err != nil {
		return nil, types.WrapError(types.ErrUpstreamError, "decode case service response", err).
			WithHTTPStatus(http.StatusBadGateway).WithRetryable(true)
	}
	return &cs, nil
}

// UpdateTimeline 向案件时间线追加一个事件。
func (c *HTTPClient) UpdateTimeline(ctx context.Context, caseID string, event TimelineEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal timeline event: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(caseID, "timeline"), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return types.WrapError(types.ErrUpstreamError, "case service unreachable", err).
			WithHTTPStatus(http.StatusBadGateway).WithRetryable(true)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return types.NewError(types.ErrUpstreamError,
			fmt.Sprintf("case service returned status %d", resp.StatusCode)).
			WithHTTPStatus(http.StatusBadGateway).
			WithRetryable(resp.StatusCode >= 500)
	}

	c.logger.Debug("timeline updated", zap.String("case_id", caseID))
	return nil
}
