package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/SravanthiSinha/SmartClip/internal/lifecycle"
)

var validate = validator.New()

// ListVideos godoc
// @Summary List videos
// @Description Lists videos that are processing, transcribing, analyzing or ready, newest first.
// @Tags videos
// @Produce json
// @Success 200 {object} VideoListResponse "Videos"
// @Failure 500 {object} ErrorResponse "Store failure"
// @Router /api/videos [get]
func (h *ApplicationHandler) ListVideos(c *fiber.Ctx) error {
	videos, err := h.Videos.ListVideos(c.UserContext())
	if err != nil {
		return h.respondError(c, err, "list videos")
	}
	return c.JSON(VideoListResponse{Success: true, Videos: newVideoViews(videos)})
}

// CreateUpload godoc
// @Summary Create a direct upload
// @Description Issues a Mux direct upload URL and creates the video that tracks it.
// @Tags videos
// @Produce json
// @Success 201 {object} UploadResponse "Upload created"
// @Failure 500 {object} ErrorResponse "Hosting platform failure"
// @Router /api/videos/upload [post]
func (h *ApplicationHandler) CreateUpload(c *fiber.Ctx) error {
	session, err := h.Videos.CreateUpload(c.UserContext())
	if err != nil {
		return h.respondError(c, err, "create upload")
	}
	h.Logger.Infof("Created upload %s for video %s", session.UploadID, session.Video.ID)
	return c.Status(fiber.StatusCreated).JSON(UploadResponse{
		Success:   true,
		VideoID:   session.Video.ID.String(),
		UploadURL: session.UploadURL,
		UploadID:  session.UploadID,
	})
}

// GetVideo godoc
// @Summary Get a video
// @Description Returns a video after reconciling its status with the hosting platform.
// @Tags videos
// @Produce json
// @Param id path string true "Video ID"
// @Success 200 {object} VideoResponse "Video"
// @Failure 400 {object} ErrorResponse "Invalid video id"
// @Failure 404 {object} ErrorResponse "Video not found"
// @Failure 500 {object} ErrorResponse "Hosting platform failure"
// @Router /api/videos/{id} [get]
func (h *ApplicationHandler) GetVideo(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "video")
	if err != nil {
		return h.respondError(c, err, "get video")
	}
	v, err := h.Videos.Refresh(c.UserContext(), id)
	if err != nil {
		return h.respondError(c, err, "get video")
	}
	return c.JSON(VideoResponse{Success: true, Video: newVideoView(v)})
}

// GetVideoStatus godoc
// @Summary Get video status
// @Description Returns the processing status of a video after reconciling it with the hosting platform.
// @Tags videos
// @Produce json
// @Param id path string true "Video ID"
// @Success 200 {object} VideoStatusResponse "Status"
// @Failure 400 {object} ErrorResponse "Invalid video id"
// @Failure 404 {object} ErrorResponse "Video not found"
// @Failure 500 {object} ErrorResponse "Hosting platform failure"
// @Router /api/videos/{id}/status [get]
func (h *ApplicationHandler) GetVideoStatus(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "video")
	if err != nil {
		return h.respondError(c, err, "video status")
	}
	v, err := h.Videos.Refresh(c.UserContext(), id)
	if err != nil {
		return h.respondError(c, err, "video status")
	}
	resp := VideoStatusResponse{
		Success:      true,
		Status:       string(v.Status),
		VideoID:      v.ID.String(),
		AssetID:      v.AssetID,
		PlaybackID:   v.PlaybackID,
		ErrorMessage: v.ErrorMessage,
	}
	if v.Duration != nil {
		resp.Duration = *v.Duration
	}
	return c.JSON(resp)
}

// AnalyzeVideo godoc
// @Summary Analyze a video
// @Description Fetches the transcript and extracts highlight moments. While the transcript is still being generated the response has status "transcribing" and the call should be repeated later.
// @Tags videos
// @Produce json
// @Param id path string true "Video ID"
// @Success 200 {object} AnalyzeResponse "Moments, or transcript pending"
// @Failure 400 {object} AnalyzeResponse "Video cannot be analyzed"
// @Failure 404 {object} ErrorResponse "Video not found"
// @Failure 500 {object} AnalyzeResponse "Analysis failed"
// @Router /api/videos/{id}/analyze [post]
func (h *ApplicationHandler) AnalyzeVideo(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "video")
	if err != nil {
		return h.respondError(c, err, "analyze")
	}
	h.Logger.Infof("Received request to analyze video %s", id)

	res, err := h.Videos.Analyze(c.UserContext(), id)
	if err != nil {
		return h.respondError(c, err, "analyze")
	}

	switch res.Outcome {
	case lifecycle.OutcomeReady:
		moments := newMomentViews(res.Moments)
		return c.JSON(AnalyzeResponse{Success: true, Status: res.Outcome, Moments: &moments})
	case lifecycle.OutcomeTranscribing:
		return c.JSON(AnalyzeResponse{Success: true, Status: res.Outcome, Message: res.Message})
	default:
		code := statusFor(res.Err)
		if code >= fiber.StatusInternalServerError {
			h.Logger.WithError(res.Err).WithField("video_id", id).Error("Analysis failed")
		}
		return c.Status(code).JSON(AnalyzeResponse{Success: false, Status: res.Outcome, Error: res.Message})
	}
}

// ListMoments godoc
// @Summary List moments
// @Description Lists the moments extracted from a video in storage order.
// @Tags moments
// @Produce json
// @Param id path string true "Video ID"
// @Success 200 {object} MomentListResponse "Moments"
// @Failure 400 {object} ErrorResponse "Invalid video id"
// @Failure 404 {object} ErrorResponse "Video not found"
// @Router /api/videos/{id}/moments [get]
func (h *ApplicationHandler) ListMoments(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "video")
	if err != nil {
		return h.respondError(c, err, "list moments")
	}
	moments, err := h.Videos.ListMoments(c.UserContext(), id)
	if err != nil {
		return h.respondError(c, err, "list moments")
	}
	return c.JSON(MomentListResponse{Success: true, Moments: newMomentViews(moments)})
}
