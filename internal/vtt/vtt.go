// Package vtt turns WebVTT subtitle tracks into the plain, timestamped
// transcript handed to the moment extractor.
package vtt

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Cue is one timed text unit of a subtitle track.
type Cue struct {
	ID       string
	StartRaw string
	EndRaw   string
	Start    time.Duration
	End      time.Duration
	Text     string
}

var (
	// tagRe matches voice, class and inline timestamp markup such as <v Bob>, </c> or <00:00:01.000>.
	tagRe   = regexp.MustCompile(`<[^>]*>`)
	spaceRe = regexp.MustCompile(`\s+`)
)

// Parse extracts the cues of raw in source order. Blocks that are not cues
// (header, NOTE, STYLE, REGION, stray text) are skipped, as are cues whose
// start timestamp does not parse or whose text is empty.
func Parse(raw string) []Cue {
	raw = strings.TrimPrefix(raw, "\uFEFF")
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")

	var cues []Cue
	for _, block := range splitBlocks(raw) {
		if cue, ok := parseBlock(block); ok {
			cues = append(cues, cue)
		}
	}
	return cues
}

// Format renders cues as "[start] text" entries separated by a blank line.
func Format(cues []Cue) string {
	parts := make([]string, 0, len(cues))
	for _, c := range cues {
		parts = append(parts, fmt.Sprintf("[%s] %s", c.StartRaw, c.Text))
	}
	return strings.Join(parts, "\n\n")
}

// Transcript parses raw and formats the result. Empty or unparseable input
// yields "".
func Transcript(raw string) string {
	return Format(Parse(raw))
}

func splitBlocks(raw string) [][]string {
	var (
		blocks  [][]string
		current []string
	)
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			if len(current) > 0 {
				blocks = append(blocks, current)
				current = nil
			}
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		blocks = append(blocks, current)
	}
	return blocks
}

func parseBlock(lines []string) (Cue, bool) {
	first := strings.TrimSpace(lines[0])
	if strings.HasPrefix(first, "NOTE") || first == "STYLE" || first == "REGION" {
		return Cue{}, false
	}
	// Tolerate a cue that follows the header, and its metadata lines,
	// without a separating blank line.
	header := strings.HasPrefix(first, "WEBVTT")

	timing := -1
	for i, line := range lines {
		if strings.Contains(line, "-->") {
			timing = i
			break
		}
	}
	if timing < 0 {
		return Cue{}, false
	}

	var cue Cue
	// Only the line right before the timing line can be the identifier.
	if !header && timing > 0 {
		cue.ID = strings.TrimSpace(lines[timing-1])
	}

	left, right, _ := strings.Cut(lines[timing], "-->")
	cue.StartRaw = strings.TrimSpace(left)
	start, err := ParseTimestamp(cue.StartRaw)
	if err != nil {
		return Cue{}, false
	}
	cue.Start = start
	// Cue settings (position, align, ...) follow the end timestamp.
	if fields := strings.Fields(right); len(fields) > 0 {
		cue.EndRaw = fields[0]
		if end, err := ParseTimestamp(cue.EndRaw); err == nil {
			cue.End = end
		}
	}

	texts := make([]string, 0, len(lines)-timing-1)
	for _, line := range lines[timing+1:] {
		if t := cleanText(line); t != "" {
			texts = append(texts, t)
		}
	}
	if len(texts) == 0 {
		return Cue{}, false
	}
	cue.Text = strings.Join(texts, " ")
	return cue, true
}

func cleanText(line string) string {
	line = tagRe.ReplaceAllString(line, "")
	line = html.UnescapeString(line)
	return strings.TrimSpace(spaceRe.ReplaceAllString(line, " "))
}

// ParseTimestamp parses "hh:mm:ss.ttt" or "mm:ss.ttt". The hour field may
// have any number of digits; the fraction is optional.
func ParseTimestamp(s string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid timestamp %q", s)
	}

	secPart := parts[len(parts)-1]
	whole, frac, hasFrac := strings.Cut(secPart, ".")
	secs, err := strconv.Atoi(whole)
	if err != nil || secs < 0 || secs > 59 {
		return 0, fmt.Errorf("invalid seconds in %q", s)
	}
	var millis int
	if hasFrac {
		if frac == "" || len(frac) > 3 {
			return 0, fmt.Errorf("invalid fraction in %q", s)
		}
		for len(frac) < 3 {
			frac += "0"
		}
		if millis, err = strconv.Atoi(frac); err != nil {
			return 0, fmt.Errorf("invalid fraction in %q", s)
		}
	}

	mins, err := strconv.Atoi(parts[len(parts)-2])
	if err != nil || mins < 0 || mins > 59 {
		return 0, fmt.Errorf("invalid minutes in %q", s)
	}
	var hours int
	if len(parts) == 3 {
		if hours, err = strconv.Atoi(parts[0]); err != nil || hours < 0 {
			return 0, fmt.Errorf("invalid hours in %q", s)
		}
	}

	d := time.Duration(hours)*time.Hour +
		time.Duration(mins)*time.Minute +
		time.Duration(secs)*time.Second +
		time.Duration(millis)*time.Millisecond
	return d, nil
}
