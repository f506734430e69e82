package server

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/vango-go/vai-console-lite/pkg/console/knowledge"
	"github.com/vango-go/vai-console-lite/pkg/gateway/config"
	"github.com/vango-go/vai-console-lite/pkg/gateway/handlers"
	"github.com/vango-go/vai-console-lite/pkg/gateway/mw"
	"github.com/vango-go/vai-console-lite/pkg/gateway/upstream"
)

type Server struct {
	cfg    config.Config
	logger *slog.Logger
	mux    *http.ServeMux

	upstream *upstream.Client
}

func New(cfg config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout: cfg.UpstreamConnectTimeout,
			}).DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
			ResponseHeaderTimeout: cfg.UpstreamResponseHeaderTimeout,
		},
	}

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		mux:      http.NewServeMux(),
		upstream: upstream.New(cfg.UpstreamBaseURL, cfg.UpstreamAPIKey, httpClient),
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.Handle("/healthz", handlers.HealthHandler{})

	s.mux.Handle("/v1/console/session", handlers.SessionHandler{
		Config:   s.cfg,
		Upstream: s.upstream,
		Logger:   s.logger,
	})
	s.mux.Handle("/v1/console/context", handlers.ContextHandler{
		Base: knowledge.Default(),
	})

	// Unmatched paths fall through to the JSON 404.
	s.mux.Handle("/", handlers.NotFoundHandler{})
}

func (s *Server) Handler() http.Handler {
	var h http.Handler = s.mux
	h = mw.CORS(s.cfg, h)
	h = mw.Recover(s.logger, h)
	h = mw.AccessLog(s.logger, h)
	h = mw.RequestID(h)
	return h
}
