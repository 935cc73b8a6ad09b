package handlers

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/SravanthiSinha/SmartClip/internal/lifecycle"
	"github.com/SravanthiSinha/SmartClip/internal/mux"
	"github.com/SravanthiSinha/SmartClip/models"
)

// VideoService is the video lifecycle as the handlers use it.
type VideoService interface {
	CreateUpload(ctx context.Context) (*lifecycle.UploadSession, error)
	ListVideos(ctx context.Context) ([]models.Video, error)
	Refresh(ctx context.Context, id uuid.UUID) (*models.Video, error)
	Analyze(ctx context.Context, id uuid.UUID) (lifecycle.AnalyzeResult, error)
	ListMoments(ctx context.Context, videoID uuid.UUID) ([]models.Moment, error)
	RefineMoment(ctx context.Context, momentID uuid.UUID, feedback string) (models.Moment, bool, error)
	HandleWebhook(ctx context.Context, ev mux.Event) error
}

// ClipService creates clips and tracks their remote status.
type ClipService interface {
	Create(ctx context.Context, momentID uuid.UUID) (*models.Clip, error)
	Refresh(ctx context.Context, id uuid.UUID) (*models.Clip, error)
}

type HealthChecker interface {
	Check(ctx context.Context) error
}

// ApplicationHandler holds shared dependencies for handlers.
type ApplicationHandler struct {
	Videos VideoService
	Clips  ClipService
	Health HealthChecker
	Logger *logrus.Logger
	// WebhookSecret enables Mux-Signature verification when non-empty.
	WebhookSecret string
}

// NewApplicationHandler creates a new ApplicationHandler with the given dependencies.
func NewApplicationHandler(videos VideoService, clips ClipService, health HealthChecker, logger *logrus.Logger, webhookSecret string) *ApplicationHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ApplicationHandler{
		Videos:        videos,
		Clips:         clips,
		Health:        health,
		Logger:        logger,
		WebhookSecret: webhookSecret,
	}
}
