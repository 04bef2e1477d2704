package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/satriahrh/mika/domain"
)

// Conversation is the pipeline the handlers drive
type Conversation interface {
	ProcessChat(ctx context.Context, sessionID, filename string, audio io.Reader) (*domain.ChatResult, error)
	Speak(ctx context.Context, text string) (string, error)
}

// SessionCounter reports how many sessions are held
type SessionCounter interface {
	Count() int
}

// Handler serves the HTTP API
type Handler struct {
	conversation Conversation
	sessions     SessionCounter
	fallbackURL  string
	debug        bool
	logger       *zap.Logger
}

// NewHandler creates a new API handler. With debug set, internal failures
// include the underlying error in the response body.
func NewHandler(conversation Conversation, sessions SessionCounter, fallbackURL string, debug bool, logger *zap.Logger) *Handler {
	return &Handler{
		conversation: conversation,
		sessions:     sessions,
		fallbackURL:  fallbackURL,
		debug:        debug,
		logger:       logger,
	}
}

// InitRoutes initializes all API routes
func InitRoutes(e *echo.Echo, h *Handler, staticDir string, gatherer prometheus.Gatherer) {
	// Health check
	e.GET("/health", h.health)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// Static pages and generated audio
	e.File("/", filepath.Join(staticDir, "welcome.html"))
	e.File("/mika", filepath.Join(staticDir, "index.html"))
	e.Static("/static", staticDir)

	e.POST("/tts", h.textToSpeech)
	e.POST("/agent/chat/:session_id", h.chat)
}

func (h *Handler) health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:   "ok",
		Service:  "mika",
		Sessions: h.sessions.Count(),
	})
}

func (h *Handler) chat(c echo.Context) error {
	sessionID := c.Param("session_id")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.logger.Warn("Chat request without audio file",
			zap.String("sessionID", sessionID),
			zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Audio file is required",
		})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return h.degraded(c, domain.NewDegradedError(domain.KindInternalFailure, h.fallbackURL, err))
	}
	defer src.Close()

	result, err := h.conversation.ProcessChat(c.Request().Context(), sessionID, fileHeader.Filename, src)
	if err != nil {
		var degraded *domain.DegradedError
		if !errors.As(err, &degraded) {
			degraded = domain.NewDegradedError(domain.KindInternalFailure, h.fallbackURL, err)
		}
		return h.degraded(c, degraded)
	}

	return c.JSON(http.StatusOK, ChatResponse{
		Transcription: result.Transcription,
		LLMResponse:   result.Reply,
		AudioURLs:     result.AudioURLs,
		History:       result.History,
	})
}

func (h *Handler) textToSpeech(c echo.Context) error {
	var req TTSRequest
	if err := c.Bind(&req); err != nil || req.Text == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Text is required",
		})
	}

	url, err := h.conversation.Speak(c.Request().Context(), req.Text)
	if err != nil {
		var degraded *domain.DegradedError
		if !errors.As(err, &degraded) {
			degraded = domain.NewDegradedError(domain.KindTTSFailure, h.fallbackURL, err)
		}

		resp := TTSResponse{Error: domain.ErrTTSFailure.Error()}
		if len(degraded.AudioURLs) > 0 {
			resp.AudioURL = degraded.AudioURLs[0]
		}
		return c.JSON(http.StatusBadGateway, resp)
	}

	return c.JSON(http.StatusOK, TTSResponse{AudioURL: url})
}

func (h *Handler) degraded(c echo.Context, err *domain.DegradedError) error {
	resp := ErrorResponse{
		AudioURLs: err.AudioURLs,
		Error:     err.Message,
	}
	if h.debug && err.Kind == domain.KindInternalFailure && err.Err != nil {
		resp.Detail = err.Err.Error()
	}

	return c.JSON(statusFor(err.Kind), resp)
}

// statusFor maps a failure kind to its HTTP status
func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindSTTFailure, domain.KindLLMFailure, domain.KindTTSFailure:
		return http.StatusBadGateway
	case domain.KindEmptyTranscription:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
