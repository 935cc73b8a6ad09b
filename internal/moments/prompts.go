package moments

import (
	"fmt"
	"strings"
)

const extractSystemPrompt = `You are an expert video editor and content strategist.
Your task is to analyze video transcripts and identify the most engaging moments that would make great social media clips.

Look for:
1. Emotional peaks (excitement, surprise, humor, inspiration)
2. Key insights or "aha moments"
3. Compelling stories or anecdotes
4. Action-packed or visually interesting segments
5. Quotable statements
6. Topic changes or transitions
7. Moments with high engagement potential

For each moment, provide:
- start_time: When the moment begins (in seconds from transcript timestamps)
- end_time: When the moment ends (ideal clip length: 15-60 seconds)
- title: Catchy title for the moment (5-8 words)
- description: Brief description (1-2 sentences)
- reason: Why this would make a good clip (engagement potential)
- score: Confidence score 0-1 (how strong this moment is)

Return 3-5 of the BEST moments only. Quality over quantity.
Format your response as valid JSON array.`

const extractExample = `[
  {
    "start_time": 45.5,
    "end_time": 78.2,
    "title": "The Surprising Truth About AI",
    "description": "Speaker reveals unexpected insight about artificial intelligence that challenges common beliefs.",
    "reason": "Contains a surprising revelation with emotional impact. Great hook for social media.",
    "score": 0.92
  }
]`

func extractUserPrompt(transcript string, duration *float64, minSec, maxSec float64) string {
	var b strings.Builder
	b.WriteString("Analyze this video transcript and identify the top 3-5 highlight moments:\n\n")
	b.WriteString("TRANSCRIPT:\n")
	b.WriteString(transcript)
	b.WriteString("\n\n")
	if duration != nil {
		fmt.Fprintf(&b, "VIDEO DURATION: %g seconds\n", *duration)
	}
	fmt.Fprintf(&b, "Each moment must last between %g and %g seconds.\n\n", minSec, maxSec)
	b.WriteString("Return a JSON array of moments. Example format:\n")
	b.WriteString(extractExample)
	b.WriteString("\n\nRespond with ONLY the JSON array, no additional text.")
	return b.String()
}

const refineSystemPrompt = "You are a video editing assistant helping refine video clips."

func refineUserPrompt(momentJSON, feedback string) string {
	return "A user wants to adjust a video clip moment. Here's the current data:\n\n" +
		"CURRENT MOMENT:\n" + momentJSON + "\n\n" +
		"USER FEEDBACK:\n" + feedback + "\n\n" +
		"Adjust the moment based on the feedback. You can modify:\n" +
		"- start_time and end_time (timing adjustments)\n" +
		"- title (make it more compelling)\n" +
		"- description (add more detail or adjust focus)\n\n" +
		"Return the updated moment as JSON with the same structure.\n" +
		"Respond with ONLY the JSON, no additional text."
}
