package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/SravanthiSinha/SmartClip/internal/apperr"
	"github.com/SravanthiSinha/SmartClip/internal/mux"
	"github.com/SravanthiSinha/SmartClip/internal/store"
	"github.com/SravanthiSinha/SmartClip/models"
)

const (
	TrackErroredMessage = "Transcript generation failed. The video may not have audio or the audio quality may be insufficient."
	TranscribingMessage = "Transcript generation in progress. Please check back in a few moments."
	noAssetMessage      = "Video has no asset yet. Upload may still be processing."
	alreadyReadyMessage = "Video has already been analyzed"
	inProgressMessage   = "Analysis already in progress"
)

type Outcome string

const (
	OutcomeReady        Outcome = "ready"
	OutcomeTranscribing Outcome = "transcribing"
	OutcomeFailed       Outcome = "error"
)

// AnalyzeResult is the outcome of an analyze request. Err is set only for
// OutcomeFailed and carries the cause recorded on the video.
type AnalyzeResult struct {
	Outcome Outcome
	Video   *models.Video
	Moments []models.Moment
	Message string
	Err     error
}

// Analyze fetches the transcript, extracts moments and stores them. The
// returned error covers problems before analysis started; failures after
// that are reported through the result and recorded on the video.
func (s *Service) Analyze(ctx context.Context, id uuid.UUID) (AnalyzeResult, error) {
	v, err := s.GetVideo(ctx, id)
	if err != nil {
		return AnalyzeResult{}, err
	}
	if !v.HasAsset() {
		return AnalyzeResult{}, apperr.Precondition(noAssetMessage)
	}
	switch v.Status {
	case models.VideoReady:
		return AnalyzeResult{}, apperr.Precondition(alreadyReadyMessage)
	case models.VideoAnalyzing:
		return AnalyzeResult{}, apperr.Precondition(inProgressMessage)
	}

	// The write must move the row into analyzing; whoever loses the race
	// sees the status the winner left.
	var held models.VideoStatus
	v, err = s.transition(ctx, id, signal(SignalAnalyzeStarted), func(cur *models.Video, p *store.VideoPatch) {
		held = cur.Status
		if cur.Status == models.VideoReady || cur.Status == models.VideoAnalyzing {
			p.Status = nil
			return
		}
		if cur.ErrorMessage != nil {
			p.ClearError = true
		}
	})
	if err != nil {
		return AnalyzeResult{}, err
	}
	switch held {
	case models.VideoReady:
		return AnalyzeResult{}, apperr.Precondition(alreadyReadyMessage)
	case models.VideoAnalyzing:
		return AnalyzeResult{}, apperr.Precondition(inProgressMessage)
	}
	log := s.log.WithFields(logrus.Fields{"video_id": id, "asset_id": *v.AssetID})
	log.Info("Starting analysis")

	a, err := s.platform.GetAsset(ctx, *v.AssetID)
	if err != nil {
		return s.fail(ctx, log, id, err), nil
	}

	if errored := a.ErroredTextTrack(); errored != nil {
		log.WithField("track_id", errored.ID).Warn("Text track errored")
		return s.fail(ctx, log, id, apperr.Precondition(TrackErroredMessage)), nil
	}
	track := a.SubtitleTrack()
	if track == nil {
		if audio := a.AudioTrack(); audio != nil && a.Status == mux.AssetReady {
			if err := s.platform.GenerateSubtitles(ctx, a.ID, audio.ID); err != nil {
				log.WithError(err).Warn("Failed to request generated subtitles")
			} else {
				log.WithField("audio_track_id", audio.ID).Info("Requested generated subtitles")
			}
		}
		return s.pending(ctx, log, id), nil
	}

	transcript, err := s.platform.FetchTranscript(ctx, a)
	if err != nil {
		return s.fail(ctx, log, id, err), nil
	}
	if transcript == "" {
		return s.pending(ctx, log, id), nil
	}

	duration := v.Duration
	if duration == nil {
		duration = a.KnownDuration()
	}
	if _, err := s.update(ctx, id, func(cur *models.Video) store.VideoPatch {
		p := store.VideoPatch{Transcript: &transcript}
		if cur.Duration == nil {
			p.Duration = duration
		}
		return p
	}); err != nil {
		return s.fail(ctx, log, id, err), nil
	}

	found, err := s.moments.Extract(ctx, transcript, duration)
	if err != nil {
		return s.fail(ctx, log, id, err), nil
	}
	now := s.now()
	for i := range found {
		found[i].ID = uuid.New()
		found[i].VideoID = id
		// distinct timestamps keep storage order stable for created_at ordering
		found[i].CreatedAt = now.Add(time.Duration(i) * time.Microsecond)
	}
	if len(found) > 0 {
		if err := s.store.CreateMoments(ctx, found); err != nil {
			return s.fail(ctx, log, id, fmt.Errorf("store moments: %w", err)), nil
		}
	}

	v, err = s.transition(ctx, id, signal(SignalAnalysisComplete), onlyWhileAnalyzing)
	if err != nil {
		return s.fail(ctx, log, id, err), nil
	}
	log.WithField("moments", len(found)).Info("Analysis complete")
	return AnalyzeResult{Outcome: OutcomeReady, Video: v, Moments: found}, nil
}

// pending records that the transcript is not available yet.
func (s *Service) pending(ctx context.Context, log *logrus.Entry, id uuid.UUID) AnalyzeResult {
	v, err := s.transition(ctx, id, signal(SignalTranscriptPending), onlyWhileAnalyzing)
	if err != nil {
		log.WithError(err).Error("Failed to record transcribing status")
	}
	log.Info("Transcript not ready")
	return AnalyzeResult{Outcome: OutcomeTranscribing, Video: v, Message: TranscribingMessage}
}

// fail records cause on the video and returns the failed result.
func (s *Service) fail(ctx context.Context, log *logrus.Entry, id uuid.UUID, cause error) AnalyzeResult {
	log.WithError(cause).Error("Analysis failed")
	msg := cause.Error()
	v, err := s.transition(ctx, id, signal(SignalAnalysisFailed), func(cur *models.Video, p *store.VideoPatch) {
		onlyWhileAnalyzing(cur, p)
		if p.Status != nil {
			p.ErrorMessage = &msg
		}
	})
	if err != nil {
		log.WithError(err).Error("Failed to record analysis failure")
	}
	return AnalyzeResult{Outcome: OutcomeFailed, Video: v, Message: msg, Err: cause}
}

// onlyWhileAnalyzing drops the status change when another writer already
// moved the video out of analyzing.
func onlyWhileAnalyzing(cur *models.Video, p *store.VideoPatch) {
	if cur.Status != models.VideoAnalyzing {
		p.Status = nil
	}
}
