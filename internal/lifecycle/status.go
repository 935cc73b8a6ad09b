// Package lifecycle drives a video from upload to analyzed moments. Every
// status change goes through NextStatus and is written with a compare-and-set
// on the status it was computed from.
package lifecycle

import (
	"github.com/SravanthiSinha/SmartClip/internal/mux"
	"github.com/SravanthiSinha/SmartClip/models"
)

type SignalKind int

const (
	SignalAssetCreated SignalKind = iota + 1
	SignalAssetReady
	SignalTrackReady
	SignalUploadWaiting
	SignalUploadFailed
	SignalRemoteStatus
	SignalAnalyzeStarted
	SignalTrackErrored
	SignalTranscriptPending
	SignalAnalysisComplete
	SignalAnalysisFailed
)

var signalNames = map[SignalKind]string{
	SignalAssetCreated:      "asset_created",
	SignalAssetReady:        "asset_ready",
	SignalTrackReady:        "track_ready",
	SignalUploadWaiting:     "upload_waiting",
	SignalUploadFailed:      "upload_failed",
	SignalRemoteStatus:      "remote_status",
	SignalAnalyzeStarted:    "analyze_started",
	SignalTrackErrored:      "track_errored",
	SignalTranscriptPending: "transcript_pending",
	SignalAnalysisComplete:  "analysis_complete",
	SignalAnalysisFailed:    "analysis_failed",
}

func (k SignalKind) String() string {
	if n, ok := signalNames[k]; ok {
		return n
	}
	return "unknown"
}

// Signal is an event that may move a video's status. Remote carries the
// hosting platform's asset status for SignalRemoteStatus.
type Signal struct {
	Kind   SignalKind
	Remote string
}

func Remote(status string) Signal { return Signal{Kind: SignalRemoteStatus, Remote: status} }

func signal(k SignalKind) Signal { return Signal{Kind: k} }

// NextStatus returns the status a video in current should move to on sig.
// Unknown signals leave the status unchanged.
func NextStatus(current models.VideoStatus, sig Signal) models.VideoStatus {
	switch sig.Kind {
	case SignalAssetCreated:
		if current == models.VideoError {
			return current
		}
		return models.VideoProcessing
	case SignalAssetReady:
		switch current {
		case models.VideoAnalyzing, models.VideoTranscribing, models.VideoReady, models.VideoError:
			return current
		}
		return models.VideoProcessing
	case SignalTrackReady, SignalUploadWaiting:
		return current
	case SignalUploadFailed, SignalTrackErrored, SignalAnalysisFailed:
		return models.VideoError
	case SignalRemoteStatus:
		switch current {
		case models.VideoProcessing, models.VideoAnalyzing, models.VideoTranscribing,
			models.VideoError, models.VideoReady:
			return current
		}
		if mapped, ok := MapAssetStatus(sig.Remote); ok {
			return mapped
		}
		return current
	case SignalAnalyzeStarted:
		return models.VideoAnalyzing
	case SignalTranscriptPending:
		return models.VideoTranscribing
	case SignalAnalysisComplete:
		return models.VideoReady
	}
	return current
}

// MapAssetStatus maps a hosting platform asset status to a video status.
// A ready asset still needs analysis, so it maps to processing.
func MapAssetStatus(remote string) (models.VideoStatus, bool) {
	switch remote {
	case mux.AssetPreparing, mux.AssetReady:
		return models.VideoProcessing, true
	case mux.AssetErrored:
		return models.VideoError, true
	}
	return "", false
}
