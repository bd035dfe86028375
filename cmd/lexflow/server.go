package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/BaSui01/lexflow/api/handlers"
	"github.com/BaSui01/lexflow/casefile"
	"github.com/BaSui01/lexflow/config"
	"github.com/BaSui01/lexflow/internal/metrics"
	"github.com/BaSui01/lexflow/llm"
	"github.com/BaSui01/lexflow/llm/providers/openaicompat"
	"github.com/BaSui01/lexflow/retrieval"
	"github.com/BaSui01/lexflow/types"
)

// Server 组装全部依赖并承载 HTTP 与 Metrics 两个监听。
type Server struct {
	cfg    *config.Config
	logger *zap.Logger

	sessions  *handlers.SessionManager
	collector *metrics.Collector

	httpSrv    *http.Server
	metricsSrv *http.Server
}

// NewServer 按配置完成全部依赖装配。
func NewServer(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	s := &Server{cfg: cfg, logger: logger}

	s.collector = metrics.NewCollector("lexflow", prometheus.DefaultRegisterer, logger)

	provider := s.buildProvider()
	retriever := s.buildRetriever(provider)
	cases := s.buildCasefileClient()

	sessions, err := handlers.NewSessionManager(handlers.Deps{
		Provider:    provider,
		Retriever:   retriever,
		Cases:       cases,
		AgentConfig: s.agentConfig(),
		Collector:   s.collector,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build session manager: %w", err)
	}
	s.sessions = sessions

	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:      s.buildHandler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  2 * cfg.Server.ReadTimeout,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	s.metricsSrv = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler:      metricsMux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return s, nil
}

// agentConfig 将文件配置转换为代理实例配置。
func (s *Server) agentConfig() types.AgentConfig {
	return types.AgentConfig{
		MaxContextLength:  s.cfg.Agent.MaxContextLength,
		MaxResponseTokens: s.cfg.Agent.MaxResponseTokens,
		Temperature:       float32(s.cfg.Agent.Temperature),
		ModelName:         s.cfg.Agent.Model,
		EmbedModelName:    s.cfg.Agent.EmbedModel,
	}
}

// buildProvider 构建 LLM Provider，启用 Redis 时包裹响应缓存。
func (s *Server) buildProvider() llm.Provider {
	var provider llm.Provider = openaicompat.New(openaicompat.Config{
		ProviderName: s.cfg.LLM.Provider,
		APIKey:       s.cfg.LLM.APIKey,
		BaseURL:      s.cfg.LLM.BaseURL,
		DefaultModel: s.cfg.Agent.Model,
		Timeout:      s.cfg.LLM.Timeout,
	}, s.logger)
	// 指标层放在缓存层内侧，只统计真实上游调用。
	provider = llm.NewInstrumentedProvider(provider, s.collector)

	if s.cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     s.cfg.Redis.Addr,
			Password: s.cfg.Redis.Password,
			DB:       s.cfg.Redis.DB,
		})
		cacheCfg := llm.DefaultCacheConfig()
		cacheCfg.LocalMaxSize = s.cfg.Redis.LocalSize
		cacheCfg.RedisTTL = s.cfg.Redis.TTL
		cache := llm.NewMultiLevelCache(rdb, cacheCfg, s.logger)
		provider = llm.NewCachedProvider(provider, cache, s.logger).WithMetrics(s.collector)
		s.logger.Info("LLM response cache enabled", zap.String("redis_addr", s.cfg.Redis.Addr))
	}
	return provider
}

// buildRetriever 按模式构建检索客户端。
// memory 模式从空索引起步，文档由部署方通过嵌入任务灌入。
func (s *Server) buildRetriever(provider llm.Provider) retrieval.Client {
	if s.cfg.Retrieval.Mode == "http" {
		return retrieval.NewHTTPClient(retrieval.HTTPClientConfig{
			BaseURL: s.cfg.Retrieval.BaseURL,
			APIKey:  s.cfg.Retrieval.APIKey,
			Timeout: s.cfg.Retrieval.Timeout,
		}, s.logger)
	}
	return retrieval.NewVectorIndex(provider, s.cfg.Agent.EmbedModel, s.logger)
}

// buildCasefileClient 构建案件服务客户端，未配置时返回 nil 并禁用案件模式。
func (s *Server) buildCasefileClient() casefile.Client {
	if s.cfg.Casefile.BaseURL == "" {
		s.logger.Info("casefile service not configured, case mode disabled")
		return nil
	}
	return casefile.NewHTTPClient(casefile.HTTPClientConfig{
		BaseURL: s.cfg.Casefile.BaseURL,
		APIKey:  s.cfg.Casefile.APIKey,
		Timeout: s.cfg.Casefile.Timeout,
	}, s.logger)
}

// buildHandler 注册路由并套上中间件链。
func (s *Server) buildHandler() http.Handler {
	chatHandler := handlers.NewChatHandler(s.sessions, s.logger)
	wsHandler := handlers.NewWSHandler(s.sessions, s.logger)
	healthHandler := handlers.NewHealthHandler(Version, s.sessions, s.logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", healthHandler.HandleHealth)
	mux.HandleFunc("/v1/chat", chatHandler.HandleChat)
	mux.HandleFunc("/v1/chat/stream", chatHandler.HandleChatStream)
	mux.HandleFunc("/v1/chat/ws", wsHandler.HandleWS)

	return Chain(mux,
		Recovery(s.logger),
		RequestID(),
		Tracing(),
		RequestLogger(s.logger),
		MetricsMiddleware(s.collector),
		RateLimiter(float64(s.cfg.Server.RateLimitRPS), s.cfg.Server.RateLimitBurst, s.logger),
	)
}

// Run 启动两个监听并阻塞至收到终止信号或任一监听失败。
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("HTTP server started", zap.String("addr", s.httpSrv.Addr))
		if err := s.httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		s.logger.Info("Metrics server started", zap.String("addr", s.metricsSrv.Addr))
		if err := s.metricsSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer cancel()
		return errors.Join(
			s.httpSrv.Shutdown(shutdownCtx),
			s.metricsSrv.Shutdown(shutdownCtx),
		)
	})

	return g.Wait()
}
