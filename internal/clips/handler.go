package clips

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/clipwise/backend/internal/transcript"
	"github.com/clipwise/backend/pkg/queue"
	"github.com/clipwise/backend/pkg/response"
)

// ProcessRequest is the body for POST /clips and POST /clips/async.
type ProcessRequest struct {
	VideoURL string `json:"video_url" binding:"required"`
}

// Handler handles clip HTTP endpoints.
type Handler struct {
	service *Service
	queue   *queue.Queue // nil disables the async endpoint
	logger  *zap.Logger
}

// NewHandler creates a clips handler.
func NewHandler(service *Service, q *queue.Queue, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, queue: q, logger: logger}
}

// Process handles POST /clips: run the full pipeline synchronously.
func (h *Handler) Process(c *gin.Context) {
	var req ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	result, err := h.service.ProcessVideo(c.Request.Context(), req.VideoURL)
	if err != nil {
		h.respondError(c, req.VideoURL, err)
		return
	}
	response.OK(c, result)
}

// ProcessAsync handles POST /clips/async: enqueue a pipeline job.
func (h *Handler) ProcessAsync(c *gin.Context) {
	if h.queue == nil {
		response.ServiceUnavailable(c, "async processing is not configured")
		return
	}
	var req ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if !transcript.ValidateURL(req.VideoURL) {
		response.BadRequest(c, "invalid video url")
		return
	}

	jobID, err := h.queue.EnqueueClipPipeline(c.Request.Context(), queue.ClipPipelinePayload{VideoURL: req.VideoURL})
	if err != nil {
		h.logger.Error("Enqueue failed", zap.String("video_url", req.VideoURL), zap.Error(err))
		response.Internal(c, "failed to enqueue job")
		return
	}
	response.Accepted(c, gin.H{"job_id": jobID})
}

// List handles GET /videos/:videoID/clips.
func (h *Handler) List(c *gin.Context) {
	videoID := c.Param("videoID")
	if videoID == "" {
		response.BadRequest(c, "missing video id")
		return
	}

	clips, err := h.service.ListClips(c.Request.Context(), videoID)
	if err != nil {
		h.logger.Error("List clips failed", zap.String("video_id", videoID), zap.Error(err))
		response.Internal(c, "failed to list clips")
		return
	}
	response.OK(c, gin.H{"video_id": videoID, "clips": clips})
}

// Delete handles DELETE /videos/:videoID/clips/:clipID.
func (h *Handler) Delete(c *gin.Context) {
	videoID := c.Param("videoID")
	clipID := c.Param("clipID")
	if videoID == "" || clipID == "" {
		response.BadRequest(c, "missing video or clip id")
		return
	}

	if err := h.service.DeleteClip(c.Request.Context(), videoID, clipID); err != nil {
		if errors.Is(err, ErrClipNotFound) {
			response.NotFound(c, "clip not found")
			return
		}
		h.logger.Error("Delete clip failed", zap.String("clip_id", clipID), zap.Error(err))
		response.Internal(c, "failed to delete clip")
		return
	}
	response.NoContent(c)
}

func (h *Handler) respondError(c *gin.Context, videoURL string, err error) {
	var srcErr *SourceUnavailableError
	switch {
	case errors.Is(err, transcript.ErrInvalidURL):
		response.BadRequest(c, "invalid video url")
	case errors.Is(err, ErrNoTranscript):
		response.UnprocessableEntity(c, "no transcript available for video")
	case errors.As(err, &srcErr):
		h.logger.Error("Source unavailable", zap.String("video_url", videoURL), zap.Error(err))
		response.ServiceUnavailable(c, "source video unavailable")
	default:
		h.logger.Error("Pipeline failed", zap.String("video_url", videoURL), zap.Error(err))
		response.Internal(c, "clip processing failed")
	}
}
