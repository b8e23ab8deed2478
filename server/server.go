package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"VidPlayer/config"
	"VidPlayer/core/auth"
	"VidPlayer/core/session"
	"VidPlayer/logger"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server HTTP API 服务
type Server struct {
	cfg    *config.Config
	api    *APIHandler
	auth   *AuthHandler
	hub    *EventHub
	router *mux.Router

	handler http.Handler
}

// New 创建服务并把事件 Hub 注册为会话观察者
func New(cfg *config.Config, s *session.Session, hub *EventHub) (*Server, error) {
	issuer, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return nil, fmt.Errorf("init token issuer: %w", err)
	}
	if cfg.AdminPasswordHash == "" {
		logger.Warn("ADMIN_PASSWORD_HASH is empty, mutating API routes are unusable")
	}
	srv := &Server{
		cfg:  cfg,
		api:  NewAPIHandler(s),
		auth: NewAuthHandler(issuer, cfg.AdminUser, cfg.AdminPasswordHash),
		hub:  hub,
	}
	s.Subscribe(hub)
	srv.router = srv.routes()
	// CORS 包在路由外层，预检请求不会匹配任何路由
	srv.handler = corsMiddleware(srv.router)
	return srv, nil
}

// Handler 返回路由器，便于测试
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() *mux.Router {
	router := mux.NewRouter()
	router.Use(metricsMiddleware)

	api, authed := s.api, s.auth.AuthMiddleware

	// 用户认证
	router.HandleFunc("/api/auth/login", s.auth.LoginHandler).Methods(http.MethodPost)

	// 目录
	router.HandleFunc("/api/videos", api.ListVideosHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/videos/{id}", api.GetVideoHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/videos/{id}/flag", authed(api.FlagHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/videos/{id}/flag", authed(api.UnflagHandler)).Methods(http.MethodDelete)

	// 播放控制
	router.HandleFunc("/api/player", api.NowPlayingHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/player/play", authed(api.PlayHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/player/random", authed(api.PlayRandomHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/player/stop", authed(api.StopHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/player/pause", authed(api.PauseHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/player/resume", authed(api.ResumeHandler)).Methods(http.MethodPost)

	// 播放列表
	router.HandleFunc("/api/playlists", api.ListPlaylistsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/playlists", authed(api.CreatePlaylistHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/playlists/{name}", api.GetPlaylistHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/playlists/{name}", authed(api.DeletePlaylistHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/api/playlists/{name}/videos", authed(api.AddToPlaylistHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/playlists/{name}/videos", authed(api.ClearPlaylistHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/api/playlists/{name}/videos/{id}", authed(api.RemoveFromPlaylistHandler)).Methods(http.MethodDelete)

	// 搜索
	router.HandleFunc("/api/search", api.SearchHandler).Methods(http.MethodGet)

	// 事件流与指标
	router.HandleFunc("/ws/events", s.hub.ServeWS).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	return router
}

// Run 启动服务，ctx 取消后优雅关闭
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:         s.cfg.HTTPAddr,
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go s.hub.Run()
	defer s.hub.Stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", logger.String("addr", s.cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}
