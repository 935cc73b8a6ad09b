package mux

import "encoding/json"

// Upload statuses reported by the direct-upload API.
const (
	UploadWaiting      = "waiting"
	UploadAssetCreated = "asset_created"
	UploadErrored      = "errored"
	UploadCancelled    = "cancelled"
	UploadTimedOut     = "timed_out"
)

// Asset and track statuses.
const (
	AssetPreparing = "preparing"
	AssetReady     = "ready"
	AssetErrored   = "errored"

	TrackPreparing = "preparing"
	TrackReady     = "ready"
	TrackErrored   = "errored"
)

// Upload is a direct-upload session.
type Upload struct {
	ID      string       `json:"id"`
	URL     string       `json:"url"`
	Status  string       `json:"status"`
	AssetID string       `json:"asset_id,omitempty"`
	Timeout int          `json:"timeout,omitempty"`
	Error   *UploadError `json:"error,omitempty"`
}

type UploadError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Failed reports whether the upload ended without producing an asset.
func (u *Upload) Failed() bool {
	switch u.Status {
	case UploadErrored, UploadCancelled, UploadTimedOut:
		return true
	}
	return false
}

type PlaybackID struct {
	ID     string `json:"id"`
	Policy string `json:"policy"`
}

type Track struct {
	ID           string  `json:"id"`
	Type         string  `json:"type"`
	TextType     string  `json:"text_type,omitempty"`
	Status       string  `json:"status,omitempty"`
	LanguageCode string  `json:"language_code,omitempty"`
	Name         string  `json:"name,omitempty"`
	Duration     float64 `json:"duration,omitempty"`
}

// Asset is a hosted video or clip.
type Asset struct {
	ID          string       `json:"id"`
	Status      string       `json:"status"`
	Duration    float64      `json:"duration,omitempty"`
	UploadID    string       `json:"upload_id,omitempty"`
	PlaybackIDs []PlaybackID `json:"playback_ids,omitempty"`
	Tracks      []Track      `json:"tracks,omitempty"`
}

// PlaybackID returns the first playback id, or "".
func (a *Asset) PlaybackID() string {
	if len(a.PlaybackIDs) == 0 {
		return ""
	}
	return a.PlaybackIDs[0].ID
}

// SubtitleTrack returns the first text track of subtitle type, if any.
func (a *Asset) SubtitleTrack() *Track {
	for i := range a.Tracks {
		if a.Tracks[i].Type == "text" && a.Tracks[i].TextType == "subtitles" {
			return &a.Tracks[i]
		}
	}
	return nil
}

// ErroredTextTrack returns the first text track of any text type whose
// generation failed, if any.
func (a *Asset) ErroredTextTrack() *Track {
	for i := range a.Tracks {
		if a.Tracks[i].Type == "text" && a.Tracks[i].Status == TrackErrored {
			return &a.Tracks[i]
		}
	}
	return nil
}

// AudioTrack returns the first audio track, if any.
func (a *Asset) AudioTrack() *Track {
	for i := range a.Tracks {
		if a.Tracks[i].Type == "audio" {
			return &a.Tracks[i]
		}
	}
	return nil
}

// KnownDuration returns the duration when the platform has reported one.
func (a *Asset) KnownDuration() *float64 {
	if a.Duration <= 0 {
		return nil
	}
	d := a.Duration
	return &d
}

// Webhook event kinds handled by the lifecycle.
const (
	EventUploadAssetCreated = "video.upload.asset_created"
	EventAssetReady         = "video.asset.ready"
	EventAssetTrackReady    = "video.asset.track.ready"
)

// Event is a webhook delivery. Data is kept raw because its shape depends on Type.
type Event struct {
	ID     string          `json:"id"`
	Type   string          `json:"type"`
	Object *EventObject    `json:"object,omitempty"`
	Data   json.RawMessage `json:"data"`
}

type EventObject struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// EventData holds the fields of Data the lifecycle uses. For upload events ID
// is the upload id and AssetID the created asset; for asset events ID is the
// asset id; for track events AssetID names the parent asset.
type EventData struct {
	ID          string       `json:"id"`
	AssetID     string       `json:"asset_id,omitempty"`
	UploadID    string       `json:"upload_id,omitempty"`
	Status      string       `json:"status,omitempty"`
	Type        string       `json:"type,omitempty"`
	Duration    float64      `json:"duration,omitempty"`
	PlaybackIDs []PlaybackID `json:"playback_ids,omitempty"`
}

// ParseData decodes the event payload.
func (e *Event) ParseData() (EventData, error) {
	var d EventData
	if len(e.Data) == 0 {
		return d, nil
	}
	err := json.Unmarshal(e.Data, &d)
	return d, err
}
