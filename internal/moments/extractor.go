// Package moments derives highlight moments from a transcript with one
// completion call and validates every candidate before it can be stored.
package moments

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/SravanthiSinha/SmartClip/internal/aiclient"
	"github.com/SravanthiSinha/SmartClip/internal/apperr"
	"github.com/SravanthiSinha/SmartClip/models"
)

const (
	DefaultMinDuration = 5.0
	DefaultMaxDuration = 180.0
	DefaultMaxMoments  = 5
)

// Completer is the completion service the extractor depends on.
type Completer interface {
	Complete(ctx context.Context, req aiclient.Request) (string, error)
}

// Config bounds accepted moments. Zero values fall back to the defaults.
type Config struct {
	MinDuration float64
	MaxDuration float64
	MaxMoments  int
}

func (c Config) withDefaults() Config {
	if c.MinDuration <= 0 {
		c.MinDuration = DefaultMinDuration
	}
	if c.MaxDuration <= 0 {
		c.MaxDuration = DefaultMaxDuration
	}
	if c.MaxMoments <= 0 {
		c.MaxMoments = DefaultMaxMoments
	}
	return c
}

// candidate is one moment as returned by the model. Pointers distinguish a
// missing field from an explicit zero.
type candidate struct {
	StartTime   *float64 `json:"start_time" validate:"required"`
	EndTime     *float64 `json:"end_time" validate:"required"`
	Title       *string  `json:"title" validate:"required"`
	Description *string  `json:"description" validate:"required"`
	Reason      *string  `json:"reason" validate:"required"`
	Score       *float64 `json:"score"`
}

// Extractor turns transcripts into validated moments.
type Extractor struct {
	llm      Completer
	cfg      Config
	log      *logrus.Logger
	validate *validator.Validate
}

// NewExtractor creates an Extractor.
func NewExtractor(llm Completer, cfg Config, logger *logrus.Logger) *Extractor {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Extractor{llm: llm, cfg: cfg.withDefaults(), log: logger, validate: validator.New()}
}

// Config returns the effective bounds.
func (e *Extractor) Config() Config { return e.cfg }

// Extract asks the model for moments in transcript and returns the accepted
// ones in the order the model listed them. The returned moments carry no
// identifiers; the caller assigns them when persisting.
func (e *Extractor) Extract(ctx context.Context, transcript string, duration *float64) ([]models.Moment, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, apperr.Precondition("Transcript is empty")
	}

	content, err := e.llm.Complete(ctx, aiclient.Request{
		System:      extractSystemPrompt,
		User:        extractUserPrompt(transcript, duration, e.cfg.MinDuration, e.cfg.MaxDuration),
		Temperature: 0.7,
		MaxTokens:   2000,
	})
	if err != nil {
		return nil, apperr.Remote("llm", "extract moments", err)
	}

	items, err := parseCandidates(content)
	if err != nil {
		e.log.WithField("response", truncate(content, 500)).Error("Failed to parse moments response")
		return nil, apperr.MalformedAIResponse("extract moments", err)
	}

	out := make([]models.Moment, 0, e.cfg.MaxMoments)
	for i, raw := range items {
		if len(out) >= e.cfg.MaxMoments {
			break
		}
		m, reason := e.accept(raw, duration)
		if reason != "" {
			e.log.WithFields(logrus.Fields{"index": i, "reason": reason}).Warn("Dropping moment candidate")
			continue
		}
		out = append(out, m)
	}

	e.log.WithFields(logrus.Fields{"candidates": len(items), "accepted": len(out)}).Info("Detected moments")
	return out, nil
}

func parseCandidates(content string) ([]json.RawMessage, error) {
	var items []json.RawMessage
	arr, arrErr := aiclient.ExtractJSONArray(content)
	if arrErr == nil {
		if err := json.Unmarshal([]byte(arr), &items); err == nil {
			return items, nil
		}
	}

	// Some models wrap the list: {"moments": [...]}.
	obj, err := aiclient.ExtractJSONObject(content)
	if err != nil {
		if arrErr != nil {
			return nil, arrErr
		}
		return nil, err
	}
	var wrapped struct {
		Moments []json.RawMessage `json:"moments"`
	}
	if err := json.Unmarshal([]byte(obj), &wrapped); err != nil {
		return nil, fmt.Errorf("decode moments: %w", err)
	}
	if wrapped.Moments == nil {
		return nil, fmt.Errorf("no moments array in response")
	}
	return wrapped.Moments, nil
}

// accept validates one raw candidate. A non-empty reason means rejection.
func (e *Extractor) accept(raw json.RawMessage, duration *float64) (models.Moment, string) {
	var c candidate
	if err := json.Unmarshal(raw, &c); err != nil {
		return models.Moment{}, fmt.Sprintf("not a valid moment object: %v", err)
	}
	if err := e.validate.Struct(c); err != nil {
		return models.Moment{}, fmt.Sprintf("missing required field: %v", err)
	}

	m := models.Moment{
		StartTime:   *c.StartTime,
		EndTime:     *c.EndTime,
		Title:       strings.TrimSpace(*c.Title),
		Description: strings.TrimSpace(*c.Description),
		Reason:      strings.TrimSpace(*c.Reason),
		Score:       models.DefaultMomentScore,
	}
	if c.Score != nil {
		m.Score = clamp(*c.Score, 0, 1)
	}
	if m.Title == "" {
		return models.Moment{}, "empty title"
	}
	if reason := CheckBounds(m.StartTime, m.EndTime, duration, e.cfg); reason != "" {
		return models.Moment{}, reason
	}
	return m, ""
}

// CheckBounds applies the timing rules shared by extraction and refinement.
// It returns an empty string when the interval is acceptable.
func CheckBounds(start, end float64, duration *float64, cfg Config) string {
	cfg = cfg.withDefaults()
	if start < 0 {
		return fmt.Sprintf("negative start %g", start)
	}
	if start >= end {
		return fmt.Sprintf("start %g >= end %g", start, end)
	}
	if d := end - start; d < cfg.MinDuration || d > cfg.MaxDuration {
		return fmt.Sprintf("clip duration %gs outside [%g, %g]", d, cfg.MinDuration, cfg.MaxDuration)
	}
	if duration != nil && *duration > 0 && end > *duration {
		return fmt.Sprintf("end %g exceeds video duration %g", end, *duration)
	}
	return ""
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
