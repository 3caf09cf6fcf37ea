package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"yt-transcript/internal/api/dto"
	"yt-transcript/internal/api/errors"
	"yt-transcript/internal/api/middleware"
	apperrors "yt-transcript/internal/app/errors"
	"yt-transcript/internal/app/transcript"
)

// marshalResponse is swapped in tests to exercise the serialization failure path
var marshalResponse = json.Marshal

// TranscriptHandler handles transcript API endpoints
type TranscriptHandler struct {
	service transcript.Service
}

// NewTranscriptHandler creates a new transcript handler
func NewTranscriptHandler(service transcript.Service) *TranscriptHandler {
	return &TranscriptHandler{
		service: service,
	}
}

// FetchTranscript handles POST /api/fetch-transcript
//
// @Summary Transcribe a YouTube video
// @Description Downloads the best audio stream of the video and returns its transcript
// @Tags transcripts
// @Accept json
// @Produce json
// @Param request body dto.FetchTranscriptRequest true "Video to transcribe"
// @Success 200 {object} dto.TranscriptResponse "Transcript"
// @Failure 400 {object} dto.ErrorResponse "Missing or unsupported video URL"
// @Failure 413 {object} dto.ErrorResponse "Request body too large"
// @Failure 500 {object} dto.ErrorResponse "Download, transcription or server failure"
// @Router /api/fetch-transcript [post]
func (h *TranscriptHandler) FetchTranscript(c *gin.Context) {
	var req dto.FetchTranscriptRequest
	if err := middleware.ValidateRequest(c, &req, apperrors.ErrVideoURLRequired.Label()); err != nil {
		middleware.HandleError(c, err)
		return
	}

	result, err := h.service.FetchTranscript(c.Request.Context(), transcript.Request{
		VideoURL:  req.VideoURL,
		RequestID: c.GetString(middleware.RequestIDKey),
	})
	if err != nil {
		middleware.HandleError(c, errors.FromError(err))
		return
	}

	body, err := marshalResponse(dto.TranscriptResponse{Transcript: result.Transcript})
	if err != nil {
		_ = c.Error(err)
		middleware.HandleError(c, errors.FromError(apperrors.Wrap(err, apperrors.ErrResponseFailed)))
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}
