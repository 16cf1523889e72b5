package web

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/justestif/spotify-playlist-roaster/internal/logging"
	"github.com/justestif/spotify-playlist-roaster/internal/roaster"
	"github.com/justestif/spotify-playlist-roaster/internal/roasts"
)

const (
	maxBodyBytes  = 64 << 10
	healthTimeout = 2 * time.Second
	unknownClient = "unknown"
)

// Roaster runs roast requests.
type Roaster interface {
	Roast(ctx context.Context, req roaster.Request) (*roaster.Result, *roaster.Error)
}

// RoastReader serves stored public roasts.
type RoastReader interface {
	PublicFeed(ctx context.Context, page, limit int) (roasts.Feed, error)
	GetRoast(ctx context.Context, id string) (*roasts.Roast, error)
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers contains the HTTP handlers for the roast API.
type Handlers struct {
	roaster     Roaster
	roasts      RoastReader
	database    Pinger
	rateLimiter Pinger
	devErrors   bool
	logger      *zap.Logger
}

// NewHandlers creates a new Handlers instance. A nil database or rate limiter
// is reported as disabled by the health check.
func NewHandlers(r Roaster, feed RoastReader, database, rateLimiter Pinger, devErrors bool, logger *zap.Logger) *Handlers {
	return &Handlers{
		roaster:     r,
		roasts:      feed,
		database:    database,
		rateLimiter: rateLimiter,
		devErrors:   devErrors,
		logger:      logging.OrNop(logger),
	}
}

type roastRequest struct {
	PlaylistURL string `json:"playlist_url"`
}

type roastResponse struct {
	Success   bool          `json:"success"`
	Roast     roastSummary  `json:"roast"`
	Insights  roastInsights `json:"insights"`
	RateLimit rateLimitInfo `json:"rate_limit"`
}

type roastSummary struct {
	RoastID      string    `json:"roast_id,omitempty"`
	PlaylistName string    `json:"playlist_name"`
	TrackCount   int       `json:"track_count"`
	RoastText    string    `json:"roast_text"`
	CreatedAt    time.Time `json:"created_at"`
}

type roastInsights struct {
	AvgPopularity     int      `json:"avgPopularity"`
	LocalMusicCount   int      `json:"localMusicCount"`
	TopArtist         *string  `json:"topArtist"`
	IsMainstream      bool     `json:"isMainstream"`
	CulturalDiversity string   `json:"culturalDiversity"`
	RoastingAngles    []string `json:"roastingAngles"`
}

type rateLimitInfo struct {
	Remaining int `json:"remaining"`
	Limit     int `json:"limit"`
}

// RoastPlaylist roasts the submitted playlist (POST /api/roast).
func (h *Handlers) RoastPlaylist(w http.ResponseWriter, r *http.Request) {
	var body roastRequest
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body)
	if err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	res, rerr := h.roaster.Roast(r.Context(), roaster.Request{
		PlaylistURL: body.PlaylistURL,
		ClientIP:    clientIP(r),
	})
	if rerr != nil {
		h.writeRoastError(w, rerr)
		return
	}

	writeJSON(w, http.StatusOK, roastResponse{
		Success: true,
		Roast: roastSummary{
			RoastID:      res.RoastID,
			PlaylistName: res.Playlist.Name,
			TrackCount:   res.Playlist.TrackCount,
			RoastText:    res.RoastText,
			CreatedAt:    res.CreatedAt,
		},
		Insights: roastInsights{
			AvgPopularity:     res.Metadata.AvgPopularity,
			LocalMusicCount:   res.Metadata.LocalMusicCount,
			TopArtist:         res.Metadata.TopArtist,
			IsMainstream:      res.Metadata.IsVeryMainstream,
			CulturalDiversity: res.Metadata.CulturalDiversity,
			RoastingAngles:    res.Metadata.RoastingAngles,
		},
		RateLimit: rateLimitInfo{
			Remaining: res.Remaining,
			Limit:     res.Limit,
		},
	})
}

func (h *Handlers) writeRoastError(w http.ResponseWriter, rerr *roaster.Error) {
	status := statusForKind(rerr.Kind)
	details := rerr.Details
	if status == http.StatusInternalServerError {
		h.logger.Error("roast failed", zap.Error(rerr))
		if h.devErrors && rerr.Err != nil {
			details = map[string]any{"cause": rerr.Err.Error()}
		}
	}
	writeError(w, status, rerr.Message, details)
}

func statusForKind(k roaster.Kind) int {
	switch k {
	case roaster.KindValidation:
		return http.StatusBadRequest
	case roaster.KindNotFound:
		return http.StatusNotFound
	case roaster.KindConflict:
		return http.StatusConflict
	case roaster.KindRateLimited:
		return http.StatusTooManyRequests
	case roaster.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

type feedResponse struct {
	Success bool `json:"success"`
	roasts.Feed
}

// ListRoasts returns a page of public roasts (GET /api/roasts).
func (h *Handlers) ListRoasts(w http.ResponseWriter, r *http.Request) {
	page, errPage := queryInt(r, "page", roasts.DefaultPage)
	limit, errLimit := queryInt(r, "limit", roasts.DefaultLimit)
	if errPage != nil || errLimit != nil || roasts.ValidatePagination(page, limit) != nil {
		writeError(w, http.StatusBadRequest,
			"Invalid pagination parameters. Page must be >= 1, limit must be 1-50.", nil)
		return
	}

	feed, err := h.roasts.PublicFeed(r.Context(), page, limit)
	if err != nil {
		h.logger.Error("listing roasts failed", zap.Int("page", page), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to retrieve roasts", nil)
		return
	}

	writeJSON(w, http.StatusOK, feedResponse{Success: true, Feed: feed})
}

type roastDetailResponse struct {
	Success bool          `json:"success"`
	Roast   *roasts.Roast `json:"roast"`
}

// GetRoast returns a single public roast (GET /api/roasts/{id}).
func (h *Handlers) GetRoast(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	roast, err := h.roasts.GetRoast(r.Context(), id)
	if errors.Is(err, roasts.ErrNotFound) || errors.Is(err, roasts.ErrDisabled) {
		writeError(w, http.StatusNotFound, "Roast not found", nil)
		return
	}
	if err != nil {
		h.logger.Error("getting roast failed", zap.String("roast_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to retrieve roast", nil)
		return
	}

	writeJSON(w, http.StatusOK, roastDetailResponse{Success: true, Roast: roast})
}

// Backing store states reported by Health.
const (
	stateOK          = "ok"
	stateDisabled    = "disabled"
	stateUnavailable = "unavailable"
)

type healthResponse struct {
	Status      string `json:"status"`
	Database    string `json:"database"`
	RateLimiter string `json:"rate_limiter"`
}

// Health reports liveness and backing store reachability (GET /health).
// It always answers 200.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	writeJSON(w, http.StatusOK, healthResponse{
		Status:      stateOK,
		Database:    h.probe(ctx, "database", h.database),
		RateLimiter: h.probe(ctx, "rate_limiter", h.rateLimiter),
	})
}

func (h *Handlers) probe(ctx context.Context, name string, p Pinger) string {
	if p == nil {
		return stateDisabled
	}
	if err := p.Ping(ctx); err != nil {
		h.logger.Warn("health check failed", zap.String("store", name), zap.Error(err))
		return stateUnavailable
	}
	return stateOK
}

// NotFound answers unknown routes.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Route not found", nil)
}

// MethodNotAllowed answers known routes called with the wrong method.
func (h *Handlers) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

// clientIP identifies the caller by the first X-Forwarded-For hop, then
// X-Real-IP, then the connection address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if r.RemoteAddr == "" {
		return unknownClient
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
