package handlers

import (
	"time"

	"github.com/SravanthiSinha/SmartClip/internal/lifecycle"
	"github.com/SravanthiSinha/SmartClip/models"
)

// VideoView is the JSON shape of a video.
type VideoView struct {
	ID            string    `json:"id"`
	MuxAssetID    *string   `json:"muxAssetId"`
	MuxPlaybackID *string   `json:"muxPlaybackId"`
	Title         string    `json:"title"`
	Duration      float64   `json:"duration"`
	Status        string    `json:"status"`
	ErrorMessage  *string   `json:"errorMessage"`
	Transcript    *string   `json:"transcript"`
	CreatedAt     time.Time `json:"createdAt"`
}

// MomentView is the JSON shape of a moment.
type MomentView struct {
	ID                  string    `json:"id"`
	VideoID             string    `json:"videoId"`
	StartTime           float64   `json:"startTime"`
	EndTime             float64   `json:"endTime"`
	Title               string    `json:"title"`
	Description         string    `json:"description"`
	Reasoning           string    `json:"reasoning"`
	ConfidenceScore     float64   `json:"confidenceScore"`
	Keywords            []string  `json:"keywords"`
	EngagementPotential string    `json:"engagementPotential"`
	CreatedAt           time.Time `json:"createdAt"`
}

// ClipView is the JSON shape of a clip.
type ClipView struct {
	ID            string    `json:"id"`
	MomentID      string    `json:"momentId"`
	MuxAssetID    string    `json:"muxAssetId"`
	MuxPlaybackID *string   `json:"muxPlaybackId"`
	DownloadURL   *string   `json:"downloadUrl"`
	Status        string    `json:"status"`
	Caption       string    `json:"caption"`
	Hashtags      []string  `json:"hashtags"`
	CreatedAt     time.Time `json:"createdAt"`
}

func newVideoView(v *models.Video) VideoView {
	view := VideoView{
		ID:            v.ID.String(),
		MuxAssetID:    v.AssetID,
		MuxPlaybackID: v.PlaybackID,
		Title:         "Video " + v.ID.String(),
		Status:        string(v.Status),
		ErrorMessage:  v.ErrorMessage,
		Transcript:    v.Transcript,
		CreatedAt:     v.CreatedAt,
	}
	if v.Duration != nil {
		view.Duration = *v.Duration
	}
	return view
}

func newVideoViews(vs []models.Video) []VideoView {
	out := make([]VideoView, 0, len(vs))
	for i := range vs {
		out = append(out, newVideoView(&vs[i]))
	}
	return out
}

func newMomentView(m models.Moment) MomentView {
	reasoning := m.Reason
	if reasoning == "" {
		reasoning = m.Description
	}
	return MomentView{
		ID:                  m.ID.String(),
		VideoID:             m.VideoID.String(),
		StartTime:           m.StartTime,
		EndTime:             m.EndTime,
		Title:               m.Title,
		Description:         m.Description,
		Reasoning:           reasoning,
		ConfidenceScore:     m.Score,
		Keywords:            []string{},
		EngagementPotential: m.EngagementPotential(),
		CreatedAt:           m.CreatedAt,
	}
}

func newMomentViews(ms []models.Moment) []MomentView {
	out := make([]MomentView, 0, len(ms))
	for _, m := range ms {
		out = append(out, newMomentView(m))
	}
	return out
}

func newClipView(c *models.Clip) ClipView {
	hashtags := c.Hashtags
	if hashtags == nil {
		hashtags = []string{}
	}
	return ClipView{
		ID:            c.ID.String(),
		MomentID:      c.MomentID.String(),
		MuxAssetID:    c.AssetID,
		MuxPlaybackID: c.PlaybackID,
		DownloadURL:   c.DownloadURL,
		Status:        string(c.Status),
		Caption:       c.Caption,
		Hashtags:      hashtags,
		CreatedAt:     c.CreatedAt,
	}
}

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error"`
}

type VideoListResponse struct {
	Success bool        `json:"success"`
	Videos  []VideoView `json:"videos"`
}

type UploadResponse struct {
	Success   bool   `json:"success"`
	VideoID   string `json:"videoId"`
	UploadURL string `json:"uploadUrl"`
	UploadID  string `json:"uploadId"`
}

type VideoResponse struct {
	Success bool      `json:"success"`
	Video   VideoView `json:"video"`
}

type VideoStatusResponse struct {
	Success      bool    `json:"success"`
	Status       string  `json:"status"`
	VideoID      string  `json:"videoId"`
	AssetID      *string `json:"assetId"`
	Duration     float64 `json:"duration"`
	PlaybackID   *string `json:"playbackId"`
	ErrorMessage *string `json:"errorMessage"`
}

// AnalyzeResponse carries moments once ready, or a message while the
// transcript is still being generated.
type AnalyzeResponse struct {
	Success bool              `json:"success"`
	Status  lifecycle.Outcome `json:"status"`
	Moments *[]MomentView     `json:"moments,omitempty"`
	Message string            `json:"message,omitempty"`
	Error   string            `json:"error,omitempty"`
}

type MomentListResponse struct {
	Success bool         `json:"success"`
	Moments []MomentView `json:"moments"`
}

type RefineRequest struct {
	Feedback string `json:"feedback" validate:"required,max=2000"`
}

type RefineResponse struct {
	Success bool       `json:"success"`
	Refined bool       `json:"refined"`
	Moment  MomentView `json:"moment"`
}

type ClipResponse struct {
	Success bool     `json:"success"`
	Clip    ClipView `json:"clip"`
}

type WebhookResponse struct {
	Success bool `json:"success"`
}

type HealthResponse struct {
	Status    string    `json:"status" example:"healthy"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version" example:"1.0.0"`
	Error     string    `json:"error,omitempty"`
}
