package moments

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/SravanthiSinha/SmartClip/internal/aiclient"
	"github.com/SravanthiSinha/SmartClip/models"
)

// Refine asks the model to adjust m according to free-text feedback. The
// original moment is returned with changed=false whenever the call fails or
// the adjusted moment breaks the timing rules.
func (e *Extractor) Refine(ctx context.Context, m models.Moment, feedback string, duration *float64) (models.Moment, bool) {
	current, err := json.MarshalIndent(map[string]any{
		"start_time":  m.StartTime,
		"end_time":    m.EndTime,
		"title":       m.Title,
		"description": m.Description,
		"reason":      m.Reason,
		"score":       m.Score,
	}, "", "  ")
	if err != nil {
		return m, false
	}

	entry := e.log.WithField("moment_id", m.ID.String())
	content, err := e.llm.Complete(ctx, aiclient.Request{
		System:      refineSystemPrompt,
		User:        refineUserPrompt(string(current), feedback),
		Temperature: 0.5,
		MaxTokens:   500,
	})
	if err != nil {
		entry.WithError(err).Error("Error refining moment")
		return m, false
	}

	obj, err := aiclient.ExtractJSONObject(content)
	if err != nil {
		entry.WithError(err).Warn("Refined moment is not JSON, keeping original")
		return m, false
	}
	var c struct {
		StartTime   *float64 `json:"start_time"`
		EndTime     *float64 `json:"end_time"`
		Title       *string  `json:"title"`
		Description *string  `json:"description"`
	}
	if err := json.Unmarshal([]byte(obj), &c); err != nil {
		entry.WithError(err).Warn("Refined moment is malformed, keeping original")
		return m, false
	}

	out := m
	if c.StartTime != nil {
		out.StartTime = *c.StartTime
	}
	if c.EndTime != nil {
		out.EndTime = *c.EndTime
	}
	if c.Title != nil && strings.TrimSpace(*c.Title) != "" {
		out.Title = strings.TrimSpace(*c.Title)
	}
	if c.Description != nil {
		out.Description = strings.TrimSpace(*c.Description)
	}
	if reason := CheckBounds(out.StartTime, out.EndTime, duration, e.cfg); reason != "" {
		entry.WithField("reason", reason).Warn("Refined moment failed validation, returning original")
		return m, false
	}

	changed := out.StartTime != m.StartTime || out.EndTime != m.EndTime ||
		out.Title != m.Title || out.Description != m.Description
	if changed {
		entry.WithFields(logrus.Fields{"start_time": out.StartTime, "end_time": out.EndTime}).Info("Moment refined")
	}
	return out, changed
}
