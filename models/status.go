package models

// VideoStatus is the processing state of a Video.
type VideoStatus string

const (
	VideoWaitingForUpload VideoStatus = "waiting_for_upload"
	VideoProcessing       VideoStatus = "processing"
	VideoTranscribing     VideoStatus = "transcribing"
	VideoAnalyzing        VideoStatus = "analyzing"
	VideoReady            VideoStatus = "ready"
	VideoError            VideoStatus = "error"
)

// Valid reports whether s is one of the known video statuses.
func (s VideoStatus) Valid() bool {
	switch s {
	case VideoWaitingForUpload, VideoProcessing, VideoTranscribing, VideoAnalyzing, VideoReady, VideoError:
		return true
	}
	return false
}

// ClipStatus mirrors the remote clip asset state.
type ClipStatus string

const (
	ClipProcessing ClipStatus = "processing"
	ClipReady      ClipStatus = "ready"
	ClipError      ClipStatus = "error"
)
