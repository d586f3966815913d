package stations

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/benmill23/Image-Uploader/internal/models"
	"github.com/benmill23/Image-Uploader/internal/ports"
)

const classifyPrompt = `You are a digestive-health assistant. Below is a description of a photo.

Description: %q

If the description is of a stool sample in a toilet, respond with a JSON object:
{
  "relevant": true,
  "bristol_score": <integer 1-7 on the Bristol stool scale>,
  "size_bucket": "<small|normal|large>",
  "indicators": {"blood": <bool>, "mucus": <bool>, "undigested_food": <bool>, "unusual_color": <bool>},
  "warnings": ["<short warning strings, may be empty>"],
  "notes": "<one or two sentences of observations>"
}

If the description is of anything else, respond with: {"relevant": false}

Respond with the JSON object only.`

type S3Classify struct {
	gpt ports.ClassifierService
}

func NewS3Classify(gpt ports.ClassifierService) *S3Classify {
	return &S3Classify{gpt: gpt}
}

func (s *S3Classify) Run(ctx context.Context, caption string) (*models.Analysis, error) {
	log.Printf("[S3][IN] %q", trim(caption, 180))

	raw, err := s.gpt.Complete(ctx, fmt.Sprintf(classifyPrompt, caption))
	if err != nil {
		log.Printf("[S3][ERR] %v", err)
		return nil, err
	}

	analysis, err := ParseAnalysis(raw)
	if err != nil {
		log.Printf("[S3][ERR-parse] %v", err)
		return nil, err
	}

	log.Printf("[S3][OK] relevant=%v score=%d", analysis.Relevant, analysis.BristolScore)
	return analysis, nil
}

// ParseAnalysis locates the first balanced {...} span in the model's
// free-text reply and decodes it. Models wrap JSON in prose and code
// fences often enough that decoding the whole reply is a losing game.
func ParseAnalysis(raw string) (*models.Analysis, error) {
	span, err := firstJSONObject(raw)
	if err != nil {
		return nil, err
	}

	var a models.Analysis
	if err := json.Unmarshal([]byte(span), &a); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}

	if !a.Relevant {
		return &models.Analysis{Relevant: false}, nil
	}
	if a.BristolScore < 1 || a.BristolScore > 7 {
		return nil, fmt.Errorf("bristol score %d out of range", a.BristolScore)
	}
	if !models.SizeBuckets[a.SizeBucket] {
		return nil, fmt.Errorf("unknown size bucket %q", a.SizeBucket)
	}
	return &a, nil
}

func firstJSONObject(s string) (string, error) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, r := range s {
		if start >= 0 && inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}
		switch r {
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
			if start >= 0 {
				depth--
				if depth == 0 {
					return s[start : i+1], nil
				}
			}
		case '"':
			if start >= 0 {
				inString = true
			}
		}
	}

	return "", fmt.Errorf("no JSON object in reply")
}

func trim(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
