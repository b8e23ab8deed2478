package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"VidPlayer/core/outcome"
	"VidPlayer/core/session"
	"VidPlayer/logger"
	"VidPlayer/model"

	"github.com/gorilla/mux"
)

// APIHandler JSON API，所有请求共享同一个会话
type APIHandler struct {
	session *session.Session
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(s *session.Session) *APIHandler {
	return &APIHandler{session: s}
}

// errorResponse 失败结果的响应体
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}

// eventsResponse 成功的变更操作返回其事件
type eventsResponse struct {
	Events []model.Event `json:"events"`
}

// playingResponse 当前播放状态
type playingResponse struct {
	Playing bool         `json:"playing"`
	Video   *model.Video `json:"video,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("failed to encode response", logger.ErrorField(err))
	}
}

// StatusFor 将失败类型映射为 HTTP 状态码
func StatusFor(kind outcome.Kind) int {
	switch kind {
	case outcome.KindVideoNotFound, outcome.KindPlaylistNotFound:
		return http.StatusNotFound
	case outcome.KindInvalidName:
		return http.StatusBadRequest
	case outcome.KindFlagged, outcome.KindCatalogEmpty:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusConflict
	}
}

func writeOutcome(w http.ResponseWriter, err error) {
	var oe *outcome.Error
	if !errors.As(err, &oe) {
		logger.Error("request failed", logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, StatusFor(oe.Kind), errorResponse{
		Error:   oe.Kind.String(),
		Message: oe.Error(),
		Reason:  oe.Reason,
	})
}

func writeEvents(w http.ResponseWriter, status int, events []model.Event, err error) {
	if err != nil {
		writeOutcome(w, err)
		return
	}
	if events == nil {
		events = []model.Event{}
	}
	writeJSON(w, status, eventsResponse{Events: events})
}

// decodeBody 空请求体视为零值
func decodeBody(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func logActor(r *http.Request, op string) {
	if username, ok := GetUsernameFromContext(r.Context()); ok {
		logger.Info("api operation", logger.String("op", op), logger.String("user", username))
	}
}

// ========== 目录 ==========

// ListVideosHandler 按加载顺序返回所有视频
func (h *APIHandler) ListVideosHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":  h.session.CountVideos(),
		"videos": h.session.Videos(),
	})
}

// GetVideoHandler 返回单个视频
func (h *APIHandler) GetVideoHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	v, ok := h.session.Video(id)
	if !ok {
		writeOutcome(w, outcome.New(outcome.KindVideoNotFound, id))
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// ========== 播放控制 ==========

// NowPlayingHandler 返回当前视频
func (h *APIHandler) NowPlayingHandler(w http.ResponseWriter, r *http.Request) {
	v, ok := h.session.NowPlaying()
	if !ok {
		writeJSON(w, http.StatusOK, playingResponse{})
		return
	}
	writeJSON(w, http.StatusOK, playingResponse{Playing: true, Video: &v})
}

// PlayHandler 播放指定视频
func (h *APIHandler) PlayHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VideoID string `json:"videoId"`
	}
	if err := decodeBody(r, &req); err != nil || req.VideoID == "" {
		http.Error(w, "videoId is required", http.StatusBadRequest)
		return
	}
	logActor(r, "play")
	events, err := h.session.Play(req.VideoID)
	writeEvents(w, http.StatusOK, events, err)
}

// PlayRandomHandler 随机播放
func (h *APIHandler) PlayRandomHandler(w http.ResponseWriter, r *http.Request) {
	logActor(r, "play_random")
	events, err := h.session.PlayRandom()
	writeEvents(w, http.StatusOK, events, err)
}

// StopHandler 停止播放
func (h *APIHandler) StopHandler(w http.ResponseWriter, r *http.Request) {
	logActor(r, "stop")
	events, err := h.session.Stop()
	writeEvents(w, http.StatusOK, events, err)
}

// PauseHandler 暂停
func (h *APIHandler) PauseHandler(w http.ResponseWriter, r *http.Request) {
	logActor(r, "pause")
	events, err := h.session.Pause()
	writeEvents(w, http.StatusOK, events, err)
}

// ResumeHandler 继续播放
func (h *APIHandler) ResumeHandler(w http.ResponseWriter, r *http.Request) {
	logActor(r, "resume")
	events, err := h.session.Resume()
	writeEvents(w, http.StatusOK, events, err)
}

// ========== 审核 ==========

// FlagHandler 标记视频
func (h *APIHandler) FlagHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reason string `json:"reason"`
	}
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	logActor(r, "flag")
	events, err := h.session.Flag(mux.Vars(r)["id"], req.Reason)
	writeEvents(w, http.StatusOK, events, err)
}

// UnflagHandler 取消标记
func (h *APIHandler) UnflagHandler(w http.ResponseWriter, r *http.Request) {
	logActor(r, "unflag")
	events, err := h.session.Unflag(mux.Vars(r)["id"])
	writeEvents(w, http.StatusOK, events, err)
}

// ========== 播放列表 ==========

// ListPlaylistsHandler 按名称排序返回所有播放列表
func (h *APIHandler) ListPlaylistsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"playlists": h.session.Playlists(),
	})
}

// CreatePlaylistHandler 创建播放列表
func (h *APIHandler) CreatePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	logActor(r, "create_playlist")
	events, err := h.session.CreatePlaylist(req.Name)
	writeEvents(w, http.StatusCreated, events, err)
}

// GetPlaylistHandler 返回播放列表及其视频
func (h *APIHandler) GetPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	view, err := h.session.Playlist(mux.Vars(r)["name"])
	if err != nil {
		writeOutcome(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// DeletePlaylistHandler 删除播放列表
func (h *APIHandler) DeletePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	logActor(r, "delete_playlist")
	events, err := h.session.DeletePlaylist(mux.Vars(r)["name"])
	writeEvents(w, http.StatusOK, events, err)
}

// AddToPlaylistHandler 添加视频
func (h *APIHandler) AddToPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VideoID string `json:"videoId"`
	}
	if err := decodeBody(r, &req); err != nil || req.VideoID == "" {
		http.Error(w, "videoId is required", http.StatusBadRequest)
		return
	}
	logActor(r, "add_to_playlist")
	events, err := h.session.AddToPlaylist(mux.Vars(r)["name"], req.VideoID)
	writeEvents(w, http.StatusOK, events, err)
}

// RemoveFromPlaylistHandler 移除视频
func (h *APIHandler) RemoveFromPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	logActor(r, "remove_from_playlist")
	events, err := h.session.RemoveFromPlaylist(vars["name"], vars["id"])
	writeEvents(w, http.StatusOK, events, err)
}

// ClearPlaylistHandler 清空播放列表
func (h *APIHandler) ClearPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	logActor(r, "clear_playlist")
	events, err := h.session.ClearPlaylist(mux.Vars(r)["name"])
	writeEvents(w, http.StatusOK, events, err)
}

// ========== 搜索 ==========

// SearchHandler ?tag= 按标签精确匹配，否则 ?q= 按标题子串匹配
func (h *APIHandler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	var results []model.Video
	if tag := query.Get("tag"); tag != "" {
		results = h.session.SearchByTag(tag)
	} else {
		results = h.session.SearchByTitle(query.Get("q"))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
	})
}
