// Package mux is a small client for the Mux Video REST API: direct uploads,
// assets, generated subtitles and clip assets.
package mux

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/SravanthiSinha/SmartClip/internal/apperr"
	"github.com/SravanthiSinha/SmartClip/internal/vtt"
)

const (
	DefaultBaseURL   = "https://api.mux.com"
	DefaultStreamURL = "https://stream.mux.com"
	requestTimeout   = 30 * time.Second
	service          = "mux"
)

var generatedSubtitles = []GeneratedSubtitle{{Name: "English CC", LanguageCode: "en"}}

type GeneratedSubtitle struct {
	Name         string `json:"name"`
	LanguageCode string `json:"language_code"`
}

type assetInput struct {
	URL                string              `json:"url,omitempty"`
	StartTime          *float64            `json:"start_time,omitempty"`
	EndTime            *float64            `json:"end_time,omitempty"`
	GeneratedSubtitles []GeneratedSubtitle `json:"generated_subtitles,omitempty"`
}

type assetSettings struct {
	Input          []assetInput `json:"input"`
	PlaybackPolicy []string     `json:"playback_policy"`
}

type uploadRequest struct {
	CORSOrigin       string        `json:"cors_origin"`
	NewAssetSettings assetSettings `json:"new_asset_settings"`
}

type subtitlesRequest struct {
	GeneratedSubtitles []GeneratedSubtitle `json:"generated_subtitles"`
}

// envelope is the {"data": ...} wrapper of every Mux response.
type envelope[T any] struct {
	Data *T `json:"data"`
}

// Options configures New. Empty URLs fall back to the public Mux endpoints.
type Options struct {
	TokenID     string
	TokenSecret string
	BaseURL     string
	StreamURL   string
	CORSOrigin  string
	HTTPClient  *http.Client
	Logger      *logrus.Logger
}

// Client calls the Mux API with basic auth.
type Client struct {
	api        *resty.Client
	stream     *resty.Client
	streamURL  string
	corsOrigin string
	log        *logrus.Logger
}

func New(opts Options) *Client {
	c := &Client{
		streamURL:  strings.TrimRight(opts.StreamURL, "/"),
		corsOrigin: opts.CORSOrigin,
		log:        opts.Logger,
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if c.streamURL == "" {
		c.streamURL = DefaultStreamURL
	}
	if c.corsOrigin == "" {
		c.corsOrigin = "*"
	}
	if c.log == nil {
		c.log = logrus.StandardLogger()
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}

	c.api = resty.NewWithClient(hc).
		SetBaseURL(baseURL).
		SetBasicAuth(opts.TokenID, opts.TokenSecret).
		SetHeader("Accept", "application/json").
		SetTimeout(requestTimeout).
		SetLogger(c.log).
		OnAfterResponse(c.logResponse)
	// Playback files are public and must not carry the API credentials.
	c.stream = resty.NewWithClient(hc).
		SetTimeout(requestTimeout).
		SetLogger(c.log)
	return c
}

// request starts an API call. Mux answers JSON even when the content type is
// missing.
func (c *Client) request(ctx context.Context) *resty.Request {
	return c.api.R().SetContext(ctx).ForceContentType("application/json")
}

func (c *Client) logResponse(_ *resty.Client, resp *resty.Response) error {
	entry := c.log.WithFields(logrus.Fields{
		"method":      resp.Request.Method,
		"path":        resp.Request.RawRequest.URL.Path,
		"status_code": resp.StatusCode(),
		"latency_ms":  resp.Time().Milliseconds(),
	})
	if resp.IsError() {
		entry.Warn("Mux API request failed")
		return nil
	}
	entry.Debug("Mux API request completed")
	return nil
}

// CreateDirectUpload opens an upload session whose asset gets public playback
// and generated English subtitles.
func (c *Client) CreateDirectUpload(ctx context.Context) (*Upload, error) {
	body := uploadRequest{
		CORSOrigin: c.corsOrigin,
		NewAssetSettings: assetSettings{
			Input:          []assetInput{{GeneratedSubtitles: generatedSubtitles}},
			PlaybackPolicy: []string{"public"},
		},
	}
	var out envelope[Upload]
	if err := c.send(c.request(ctx).SetBody(body).SetResult(&out), http.MethodPost, "/video/v1/uploads"); err != nil {
		return nil, apperr.Remote(service, "create upload", err)
	}
	if out.Data == nil {
		return nil, apperr.Remote(service, "create upload", errNoData)
	}
	return out.Data, nil
}

func (c *Client) GetUpload(ctx context.Context, uploadID string) (*Upload, error) {
	var out envelope[Upload]
	req := c.request(ctx).SetPathParam("id", uploadID).SetResult(&out)
	if err := c.send(req, http.MethodGet, "/video/v1/uploads/{id}"); err != nil {
		return nil, apperr.Remote(service, "get upload", err)
	}
	if out.Data == nil {
		return nil, apperr.Remote(service, "get upload", errNoData)
	}
	return out.Data, nil
}

func (c *Client) GetAsset(ctx context.Context, assetID string) (*Asset, error) {
	var out envelope[Asset]
	req := c.request(ctx).SetPathParam("id", assetID).SetResult(&out)
	if err := c.send(req, http.MethodGet, "/video/v1/assets/{id}"); err != nil {
		return nil, apperr.Remote(service, "get asset", err)
	}
	if out.Data == nil {
		return nil, apperr.Remote(service, "get asset", errNoData)
	}
	return out.Data, nil
}

// GenerateSubtitles requests generated English subtitles from an audio track.
func (c *Client) GenerateSubtitles(ctx context.Context, assetID, audioTrackID string) error {
	req := c.request(ctx).
		SetPathParam("asset", assetID).
		SetPathParam("track", audioTrackID).
		SetBody(subtitlesRequest{GeneratedSubtitles: generatedSubtitles})
	if err := c.send(req, http.MethodPost, "/video/v1/assets/{asset}/tracks/{track}/generate-subtitles"); err != nil {
		return apperr.Remote(service, "generate subtitles", err)
	}
	c.log.WithField("asset_id", assetID).Info("Transcript generation started")
	return nil
}

// FetchTranscript downloads the ready subtitle track of a and returns it as a
// timestamped transcript. It returns "" when no ready subtitle track or
// playback id exists yet.
func (c *Client) FetchTranscript(ctx context.Context, a *Asset) (string, error) {
	track := a.SubtitleTrack()
	if track == nil || track.Status != TrackReady || track.ID == "" {
		return "", nil
	}
	pb := a.PlaybackID()
	if pb == "" {
		c.log.WithField("asset_id", a.ID).Warn("Subtitle track ready but asset has no playback id")
		return "", nil
	}

	resp, err := c.stream.R().SetContext(ctx).Get(c.TextTrackURL(pb, track.ID))
	if err != nil {
		return "", apperr.Remote(service, "fetch transcript", err)
	}
	if resp.IsError() {
		return "", apperr.Remote(service, "fetch transcript", statusError(resp))
	}
	return vtt.Transcript(resp.String()), nil
}

// CreateClip creates a new asset cut from assetID between start and end seconds.
func (c *Client) CreateClip(ctx context.Context, assetID string, start, end float64) (*Asset, error) {
	body := assetSettings{
		Input:          []assetInput{{URL: "mux://assets/" + assetID, StartTime: &start, EndTime: &end}},
		PlaybackPolicy: []string{"public"},
	}
	var out envelope[Asset]
	if err := c.send(c.request(ctx).SetBody(body).SetResult(&out), http.MethodPost, "/video/v1/assets"); err != nil {
		return nil, apperr.Remote(service, "create clip", err)
	}
	if out.Data == nil {
		return nil, apperr.Remote(service, "create clip", errNoData)
	}
	return out.Data, nil
}

func (c *Client) DeleteAsset(ctx context.Context, assetID string) error {
	req := c.request(ctx).SetPathParam("id", assetID)
	if err := c.send(req, http.MethodDelete, "/video/v1/assets/{id}"); err != nil {
		return apperr.Remote(service, "delete asset", err)
	}
	return nil
}

// PlaybackURL is the HLS URL of a playback id; it doubles as the clip download URL.
func (c *Client) PlaybackURL(playbackID string) string {
	return c.streamURL + "/" + playbackID + ".m3u8"
}

func (c *Client) TextTrackURL(playbackID, trackID string) string {
	return c.streamURL + "/" + playbackID + "/text/" + trackID + ".vtt"
}

var errNoData = errors.New("response has no data")

// send executes req and turns a non-2xx reply into an error.
func (c *Client) send(req *resty.Request, method, path string) error {
	resp, err := req.Execute(method, path)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return statusError(resp)
	}
	return nil
}

func statusError(resp *resty.Response) error {
	msg := strings.TrimSpace(resp.String())
	var body struct {
		Error struct {
			Type     string   `json:"type"`
			Messages []string `json:"messages"`
		} `json:"error"`
	}
	if json.Unmarshal(resp.Body(), &body) == nil && len(body.Error.Messages) > 0 {
		msg = body.Error.Type + ": " + strings.Join(body.Error.Messages, "; ")
	}
	return fmt.Errorf("status %d: %s", resp.StatusCode(), truncate(msg, 300))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
