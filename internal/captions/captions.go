// Package captions writes social captions and hashtags for clips.
package captions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/SravanthiSinha/SmartClip/internal/aiclient"
)

// DefaultHashtags is used whenever generation fails.
var DefaultHashtags = []string{"video", "content", "highlights"}

const systemPrompt = "You are a social media expert who creates viral content."

// Completer is the completion service the generator depends on.
type Completer interface {
	Complete(ctx context.Context, req aiclient.Request) (string, error)
}

// Caption is a generated caption and its hashtags (without the leading #).
type Caption struct {
	Text     string   `json:"caption"`
	Hashtags []string `json:"hashtags"`
	Fallback bool     `json:"-"`
}

// Generator produces captions, falling back to a deterministic one on failure.
type Generator struct {
	llm Completer
	log *logrus.Logger
}

func NewGenerator(llm Completer, logger *logrus.Logger) *Generator {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Generator{llm: llm, log: logger}
}

// Generate never fails: any error yields Fallback(title, description).
func (g *Generator) Generate(ctx context.Context, title, description string) Caption {
	c, err := g.generate(ctx, title, description)
	if err != nil {
		g.log.WithError(err).WithField("title", title).Warn("Error generating social caption, using fallback")
		return Fallback(title, description)
	}
	return c
}

func (g *Generator) generate(ctx context.Context, title, description string) (Caption, error) {
	if g.llm == nil {
		return Caption{}, errors.New("no completion service configured")
	}
	content, err := g.llm.Complete(ctx, aiclient.Request{
		System:      systemPrompt,
		User:        userPrompt(title, description),
		Temperature: 0.8,
		MaxTokens:   500,
	})
	if err != nil {
		return Caption{}, err
	}
	obj, err := aiclient.ExtractJSONObject(content)
	if err != nil {
		return Caption{}, err
	}

	var raw struct {
		Caption  *string  `json:"caption"`
		Hashtags []string `json:"hashtags"`
	}
	if err := json.Unmarshal([]byte(obj), &raw); err != nil {
		return Caption{}, fmt.Errorf("decode caption: %w", err)
	}
	if raw.Caption == nil || strings.TrimSpace(*raw.Caption) == "" {
		return Caption{}, errors.New("response has no caption")
	}

	tags := make([]string, 0, len(raw.Hashtags))
	seen := make(map[string]struct{}, len(raw.Hashtags))
	for _, h := range raw.Hashtags {
		h = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(h), "#"))
		if h == "" {
			continue
		}
		if _, dup := seen[strings.ToLower(h)]; dup {
			continue
		}
		seen[strings.ToLower(h)] = struct{}{}
		tags = append(tags, h)
	}
	if len(tags) == 0 {
		return Caption{}, errors.New("response has no hashtags")
	}
	return Caption{Text: strings.TrimSpace(*raw.Caption), Hashtags: tags}, nil
}

// Fallback builds the caption used when generation is unavailable.
func Fallback(title, description string) Caption {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)

	text := title + ". " + description
	switch {
	case title == "" && description == "":
		text = "Check out this clip!"
	case description == "":
		text = title
	case title == "":
		text = description
	}
	tags := make([]string, len(DefaultHashtags))
	copy(tags, DefaultHashtags)
	return Caption{Text: text, Hashtags: tags, Fallback: true}
}

func userPrompt(title, description string) string {
	return "Create an engaging social media caption for a video clip:\n\n" +
		"TITLE: " + title + "\n" +
		"DESCRIPTION: " + description + "\n\n" +
		"Generate:\n" +
		"1. A compelling caption (2-3 sentences) that hooks viewers and encourages engagement\n" +
		"2. 5-8 relevant hashtags\n\n" +
		"Make it exciting and shareable! Focus on the value or entertainment for viewers.\n\n" +
		"Return as JSON:\n" +
		"{\n  \"caption\": \"Your engaging caption here...\",\n  \"hashtags\": [\"hashtag1\", \"hashtag2\", \"hashtag3\"]\n}\n\n" +
		"Respond with ONLY the JSON, no additional text."
}
