package briefing

import "github.com/abhisek/examprep/internal/llm"

const systemPrompt = `You are a study coach helping a student prepare for an exam.
Given the student's tasks for one day, write a short briefing.
- headline: one sentence, at most 80 characters, naming what matters today.
- focus: up to 5 lesson titles to concentrate on, most important first.
- tips: up to 3 concrete, practical tips for today's tasks.
Do not invent tasks or lessons that are not listed.`

var responseSchema = &llm.Schema{
	Name:        "daily-briefing",
	Description: "A short briefing for one study day",
	Definition: map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"headline": map[string]any{
				"type":      "string",
				"minLength": 1,
				"maxLength": 120,
			},
			"focus": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"maxItems": maxFocus,
			},
			"tips": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"maxItems": maxTips,
			},
		},
		"required": []string{"headline", "focus", "tips"},
	},
}
