package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/SravanthiSinha/SmartClip/internal/apperr"
	"github.com/SravanthiSinha/SmartClip/internal/lifecycle"
	"github.com/SravanthiSinha/SmartClip/internal/mux"
	"github.com/SravanthiSinha/SmartClip/models"
)

type fakeVideos struct {
	videos   map[uuid.UUID]*models.Video
	moments  map[uuid.UUID][]models.Moment
	analyze  lifecycle.AnalyzeResult
	err      error
	events   []mux.Event
	feedback string
}

func (f *fakeVideos) CreateUpload(context.Context) (*lifecycle.UploadSession, error) {
	if f.err != nil {
		return nil, f.err
	}
	v := &models.Video{ID: uuid.New(), Status: models.VideoWaitingForUpload}
	return &lifecycle.UploadSession{Video: v, UploadURL: "https://storage.example/put", UploadID: "up-1"}, nil
}

func (f *fakeVideos) ListVideos(context.Context) ([]models.Video, error) {
	out := []models.Video{}
	for _, v := range f.videos {
		out = append(out, *v)
	}
	return out, f.err
}

func (f *fakeVideos) Refresh(_ context.Context, id uuid.UUID) (*models.Video, error) {
	if f.err != nil {
		return nil, f.err
	}
	v, ok := f.videos[id]
	if !ok {
		return nil, apperr.NotFound("video")
	}
	return v, nil
}

func (f *fakeVideos) Analyze(_ context.Context, id uuid.UUID) (lifecycle.AnalyzeResult, error) {
	if _, ok := f.videos[id]; !ok {
		return lifecycle.AnalyzeResult{}, apperr.NotFound("video")
	}
	return f.analyze, f.err
}

func (f *fakeVideos) ListMoments(_ context.Context, id uuid.UUID) ([]models.Moment, error) {
	if _, ok := f.videos[id]; !ok {
		return nil, apperr.NotFound("video")
	}
	return f.moments[id], nil
}

func (f *fakeVideos) RefineMoment(_ context.Context, id uuid.UUID, feedback string) (models.Moment, bool, error) {
	f.feedback = feedback
	for _, ms := range f.moments {
		for _, m := range ms {
			if m.ID == id {
				m.Title = "Refined"
				return m, true, nil
			}
		}
	}
	return models.Moment{}, false, apperr.NotFound("moment")
}

func (f *fakeVideos) HandleWebhook(_ context.Context, ev mux.Event) error {
	f.events = append(f.events, ev)
	return f.err
}

type fakeClips struct {
	clip *models.Clip
	err  error
}

func (f *fakeClips) Create(_ context.Context, momentID uuid.UUID) (*models.Clip, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Clip{ID: uuid.New(), MomentID: momentID, AssetID: "clip-asset", Status: models.ClipProcessing}, nil
}

func (f *fakeClips) Refresh(_ context.Context, id uuid.UUID) (*models.Clip, error) {
	if f.clip == nil || f.clip.ID != id {
		return nil, apperr.NotFound("clip")
	}
	return f.clip, f.err
}

type fakeHealth struct{ err error }

func (f fakeHealth) Check(context.Context) error { return f.err }

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestApp(videos *fakeVideos, clips *fakeClips, health HealthChecker, secret string) *fiber.App {
	h := NewApplicationHandler(videos, clips, health, quietLogger(), secret)
	return NewApp(h, AppConfig{})
}

func do(t *testing.T, app *fiber.App, method, path, body string, headers map[string]string) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	var out map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			t.Fatalf("%s %s: body %q is not JSON: %v", method, path, raw, err)
		}
	}
	return resp.StatusCode, out
}

func strp(s string) *string { return &s }

func TestVideoRoutes(t *testing.T) {
	id := uuid.New()
	dur := 42.5
	videos := &fakeVideos{
		videos: map[uuid.UUID]*models.Video{
			id: {ID: id, Status: models.VideoProcessing, AssetID: strp("asset-1"), PlaybackID: strp("pb-1"), Duration: &dur},
		},
		moments: map[uuid.UUID][]models.Moment{},
	}
	app := newTestApp(videos, &fakeClips{}, nil, "")

	tests := []struct {
		name   string
		method string
		path   string
		status int
		check  func(t *testing.T, body map[string]any)
	}{
		{"list", "GET", "/api/videos", 200, func(t *testing.T, body map[string]any) {
			vs := body["videos"].([]any)
			if len(vs) != 1 {
				t.Fatalf("videos = %v", vs)
			}
			v := vs[0].(map[string]any)
			if v["muxAssetId"] != "asset-1" || v["title"] != "Video "+id.String() {
				t.Errorf("video view = %v", v)
			}
		}},
		{"upload", "POST", "/api/videos/upload", 201, func(t *testing.T, body map[string]any) {
			if body["uploadUrl"] != "https://storage.example/put" || body["uploadId"] != "up-1" || body["videoId"] == "" {
				t.Errorf("upload body = %v", body)
			}
		}},
		{"get", "GET", "/api/videos/" + id.String(), 200, func(t *testing.T, body map[string]any) {
			v := body["video"].(map[string]any)
			if v["status"] != "processing" || v["duration"] != 42.5 {
				t.Errorf("video = %v", v)
			}
		}},
		{"status", "GET", "/api/videos/" + id.String() + "/status", 200, func(t *testing.T, body map[string]any) {
			if body["status"] != "processing" || body["assetId"] != "asset-1" || body["playbackId"] != "pb-1" {
				t.Errorf("status body = %v", body)
			}
		}},
		{"missing", "GET", "/api/videos/" + uuid.NewString(), 404, func(t *testing.T, body map[string]any) {
			if body["success"] != false || body["error"] != "Video not found" {
				t.Errorf("body = %v", body)
			}
		}},
		{"bad id", "GET", "/api/videos/42", 400, func(t *testing.T, body map[string]any) {
			if body["error"] != "Invalid video id" {
				t.Errorf("body = %v", body)
			}
		}},
		{"moments", "GET", "/api/videos/" + id.String() + "/moments", 200, func(t *testing.T, body map[string]any) {
			if ms, ok := body["moments"].([]any); !ok || len(ms) != 0 {
				t.Errorf("moments = %v", body["moments"])
			}
		}},
		{"moments missing video", "GET", "/api/videos/" + uuid.NewString() + "/moments", 404, nil},
		{"unknown route", "GET", "/api/nope", 404, func(t *testing.T, body map[string]any) {
			if body["error"] != "Endpoint not found" {
				t.Errorf("body = %v", body)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, app, tt.method, tt.path, "", nil)
			if status != tt.status {
				t.Fatalf("status = %d, want %d (body %v)", status, tt.status, body)
			}
			if tt.check != nil {
				tt.check(t, body)
			}
		})
	}
}

func TestRemoteFailureIs500(t *testing.T) {
	videos := &fakeVideos{err: apperr.Remote("mux", "create upload", errors.New("HTTP 503"))}
	app := newTestApp(videos, &fakeClips{}, nil, "")
	status, body := do(t, app, "POST", "/api/videos/upload", "", nil)
	if status != 500 || body["success"] != false {
		t.Fatalf("status = %d body = %v", status, body)
	}
}

func TestAnalyzeOutcomes(t *testing.T) {
	id := uuid.New()
	m := models.Moment{ID: uuid.New(), VideoID: id, StartTime: 10, EndTime: 40, Title: "Hook", Description: "d", Score: 0.9}

	tests := []struct {
		name    string
		result  lifecycle.AnalyzeResult
		err     error
		status  int
		outcome any
		moments int
	}{
		{"ready", lifecycle.AnalyzeResult{Outcome: lifecycle.OutcomeReady, Moments: []models.Moment{m}}, nil, 200, "ready", 1},
		{"ready without moments", lifecycle.AnalyzeResult{Outcome: lifecycle.OutcomeReady}, nil, 200, "ready", 0},
		{"transcribing", lifecycle.AnalyzeResult{Outcome: lifecycle.OutcomeTranscribing, Message: lifecycle.TranscribingMessage}, nil, 200, "transcribing", -1},
		{"track errored", lifecycle.AnalyzeResult{
			Outcome: lifecycle.OutcomeFailed,
			Message: lifecycle.TrackErroredMessage,
			Err:     apperr.Precondition(lifecycle.TrackErroredMessage),
		}, nil, 400, "error", -1},
		{"extraction failed", lifecycle.AnalyzeResult{
			Outcome: lifecycle.OutcomeFailed,
			Message: "llm complete: timeout",
			Err:     apperr.Remote("llm", "complete", errors.New("timeout")),
		}, nil, 500, "error", -1},
		{"precondition", lifecycle.AnalyzeResult{}, apperr.Precondition("Video has already been analyzed"), 400, nil, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			videos := &fakeVideos{videos: map[uuid.UUID]*models.Video{id: {ID: id}}, analyze: tt.result, err: tt.err}
			app := newTestApp(videos, &fakeClips{}, nil, "")
			status, body := do(t, app, "POST", "/api/videos/"+id.String()+"/analyze", "", nil)
			if status != tt.status {
				t.Fatalf("status = %d, want %d (body %v)", status, tt.status, body)
			}
			if body["status"] != tt.outcome {
				t.Errorf("status field = %v, want %v", body["status"], tt.outcome)
			}
			ms, hasMoments := body["moments"].([]any)
			switch {
			case tt.moments < 0 && hasMoments:
				t.Errorf("unexpected moments %v", ms)
			case tt.moments >= 0 && (!hasMoments || len(ms) != tt.moments):
				t.Errorf("moments = %v, want %d", body["moments"], tt.moments)
			}
		})
	}

	t.Run("track errored message", func(t *testing.T) {
		videos := &fakeVideos{videos: map[uuid.UUID]*models.Video{id: {ID: id}}, analyze: tests[3].result}
		app := newTestApp(videos, &fakeClips{}, nil, "")
		_, body := do(t, app, "POST", "/api/videos/"+id.String()+"/analyze", "", nil)
		if body["error"] != lifecycle.TrackErroredMessage || body["success"] != false {
			t.Errorf("body = %v", body)
		}
	})
}

func TestMomentAndClipRoutes(t *testing.T) {
	videoID := uuid.New()
	m := models.Moment{ID: uuid.New(), VideoID: videoID, StartTime: 5, EndTime: 25, Title: "Hook", Description: "desc", Score: 0.65}
	clip := &models.Clip{ID: uuid.New(), MomentID: m.ID, AssetID: "clip-asset", Status: models.ClipReady,
		PlaybackID: strp("pb"), DownloadURL: strp("https://stream.example/pb.m3u8"), Hashtags: []string{"#a"}}
	videos := &fakeVideos{
		videos:  map[uuid.UUID]*models.Video{videoID: {ID: videoID}},
		moments: map[uuid.UUID][]models.Moment{videoID: {m}},
	}
	clips := &fakeClips{clip: clip}
	app := newTestApp(videos, clips, nil, "")

	status, body := do(t, app, "GET", "/api/videos/"+videoID.String()+"/moments", "", nil)
	if status != 200 {
		t.Fatalf("moments status = %d", status)
	}
	got := body["moments"].([]any)[0].(map[string]any)
	if got["reasoning"] != "desc" || got["engagementPotential"] != "medium" || got["confidenceScore"] != 0.65 {
		t.Errorf("moment view = %v", got)
	}

	status, body = do(t, app, "POST", "/api/moments/"+m.ID.String()+"/create-clip", "", nil)
	if status != 201 {
		t.Fatalf("create clip status = %d body %v", status, body)
	}
	if c := body["clip"].(map[string]any); c["status"] != "processing" || c["momentId"] != m.ID.String() {
		t.Errorf("clip = %v", c)
	}

	clips.err = apperr.Precondition("Video has no asset yet")
	status, _ = do(t, app, "POST", "/api/moments/"+m.ID.String()+"/create-clip", "", nil)
	if status != 400 {
		t.Errorf("create clip without asset status = %d", status)
	}
	clips.err = nil

	status, body = do(t, app, "GET", "/api/clips/"+clip.ID.String(), "", nil)
	if status != 200 {
		t.Fatalf("get clip status = %d", status)
	}
	if c := body["clip"].(map[string]any); c["downloadUrl"] != "https://stream.example/pb.m3u8" {
		t.Errorf("clip = %v", c)
	}
	status, _ = do(t, app, "GET", "/api/clips/"+uuid.NewString(), "", nil)
	if status != 404 {
		t.Errorf("missing clip status = %d", status)
	}
}

func TestRefineMoment(t *testing.T) {
	videoID := uuid.New()
	m := models.Moment{ID: uuid.New(), VideoID: videoID, StartTime: 5, EndTime: 25, Title: "Hook"}
	videos := &fakeVideos{moments: map[uuid.UUID][]models.Moment{videoID: {m}}}
	app := newTestApp(videos, &fakeClips{}, nil, "")
	path := "/api/moments/" + m.ID.String() + "/refine"

	status, body := do(t, app, "POST", path, `{"feedback":"  start two seconds later \u0000"}`, nil)
	if status != 200 || body["refined"] != true {
		t.Fatalf("status = %d body = %v", status, body)
	}
	if videos.feedback != "start two seconds later" {
		t.Errorf("feedback = %q", videos.feedback)
	}

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"empty feedback", path, `{"feedback":"   "}`, 400},
		{"missing feedback", path, `{}`, 400},
		{"bad json", path, `{"feedback":`, 400},
		{"unknown moment", "/api/moments/" + uuid.NewString() + "/refine", `{"feedback":"x"}`, 404},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, app, "POST", tt.path, tt.body, nil)
			if status != tt.status || body["success"] != false {
				t.Errorf("status = %d body = %v", status, body)
			}
		})
	}
}

func TestWebhook(t *testing.T) {
	payload := `{"id":"evt-1","type":"video.asset.ready","data":{"id":"asset-1","status":"ready"}}`

	t.Run("unsigned", func(t *testing.T) {
		videos := &fakeVideos{}
		app := newTestApp(videos, &fakeClips{}, nil, "")
		status, body := do(t, app, "POST", "/api/webhooks/mux", payload, nil)
		if status != 200 || body["success"] != true {
			t.Fatalf("status = %d body = %v", status, body)
		}
		if len(videos.events) != 1 || videos.events[0].Type != mux.EventAssetReady || videos.events[0].ID != "evt-1" {
			t.Errorf("events = %+v", videos.events)
		}
	})

	t.Run("bad json", func(t *testing.T) {
		app := newTestApp(&fakeVideos{}, &fakeClips{}, nil, "")
		status, _ := do(t, app, "POST", "/api/webhooks/mux", `{"type":`, nil)
		if status != 400 {
			t.Errorf("status = %d", status)
		}
	})

	t.Run("service failure", func(t *testing.T) {
		app := newTestApp(&fakeVideos{err: apperr.Remote("mux", "get asset", errors.New("boom"))}, &fakeClips{}, nil, "")
		status, _ := do(t, app, "POST", "/api/webhooks/mux", payload, nil)
		if status != 500 {
			t.Errorf("status = %d", status)
		}
	})

	const secret = "whsec"
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	signed := fmt.Sprintf("t=%s,v1=%s", ts, mux.Sign(ts, []byte(payload), secret))
	tests := []struct {
		name   string
		header string
		status int
		events int
	}{
		{"valid signature", signed, 200, 1},
		{"missing signature", "", 401, 0},
		{"wrong signature", fmt.Sprintf("t=%s,v1=%s", ts, mux.Sign(ts, []byte(payload), "other")), 401, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			videos := &fakeVideos{}
			app := newTestApp(videos, &fakeClips{}, nil, secret)
			headers := map[string]string{}
			if tt.header != "" {
				headers[mux.SignatureHeader] = tt.header
			}
			status, _ := do(t, app, "POST", "/api/webhooks/mux", payload, headers)
			if status != tt.status || len(videos.events) != tt.events {
				t.Errorf("status = %d events = %d", status, len(videos.events))
			}
		})
	}
}

func TestHealth(t *testing.T) {
	app := newTestApp(&fakeVideos{}, &fakeClips{}, fakeHealth{}, "")
	status, body := do(t, app, "GET", "/health", "", nil)
	if status != http.StatusOK || body["status"] != "healthy" || body["version"] != Version {
		t.Fatalf("status = %d body = %v", status, body)
	}

	app = newTestApp(&fakeVideos{}, &fakeClips{}, fakeHealth{err: errors.New("store unreachable")}, "")
	status, body = do(t, app, "GET", "/health", "", nil)
	if status != http.StatusServiceUnavailable || body["status"] != "unhealthy" {
		t.Fatalf("status = %d body = %v", status, body)
	}
}

func TestRequestIDHeader(t *testing.T) {
	app := newTestApp(&fakeVideos{}, &fakeClips{}, nil, "")
	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set(fiber.HeaderXRequestID, "req-123")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if got := resp.Header.Get(fiber.HeaderXRequestID); got != "req-123" {
		t.Errorf("X-Request-ID = %q", got)
	}
}
