package input

const datePattern = `^[0-9]{4}-[0-9]{2}-[0-9]{2}$`

var lessonKeySchema = map[string]any{
	"type":     "object",
	"required": []string{"course_id", "lesson_index"},
	"properties": map[string]any{
		"course_id":    map[string]any{"type": "string", "minLength": 1},
		"lesson_index": map[string]any{"type": "integer", "minimum": 0},
	},
}

// planSchema describes a plan input file.
var planSchema = map[string]any{
	"type":                 "object",
	"required":             []string{"exam_date", "daily_minutes", "lessons"},
	"additionalProperties": false,
	"properties": map[string]any{
		"exam_date":     map[string]any{"type": "string", "pattern": datePattern},
		"today":         map[string]any{"type": "string", "pattern": datePattern},
		"daily_minutes": map[string]any{"type": "integer", "minimum": 1, "maximum": 1440},
		"skip_days": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string", "pattern": datePattern},
		},
		"skipped_lessons": map[string]any{
			"type":  "array",
			"items": lessonKeySchema,
		},
		"lessons": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type":     "object",
				"required": []string{"course_id", "lesson_index", "lesson_title"},
				"properties": map[string]any{
					"course_id":    map[string]any{"type": "string", "minLength": 1},
					"course_title": map[string]any{"type": "string"},
					"lesson_index": map[string]any{"type": "integer", "minimum": 0},
					"lesson_title": map[string]any{"type": "string", "minLength": 1},
				},
			},
		},
		"mastery": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []string{"course_id", "lesson_index", "score"},
				"properties": map[string]any{
					"course_id":    map[string]any{"type": "string", "minLength": 1},
					"lesson_index": map[string]any{"type": "integer", "minimum": 0},
					"score":        map[string]any{"type": "number", "minimum": 0, "maximum": 1},
				},
			},
		},
		"review_placement": map[string]any{"type": "string", "enum": []string{"even", "random"}},
		"review_seed":      map[string]any{"type": "integer", "minimum": 0},
	},
}

// cardSchema describes a review card import file.
var cardSchema = map[string]any{
	"type":     "object",
	"required": []string{"cards"},
	"properties": map[string]any{
		"cards": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []string{"id", "course_id", "lesson_index", "state"},
				"properties": map[string]any{
					"id":           map[string]any{"type": "string", "minLength": 1},
					"user_id":      map[string]any{"type": "string"},
					"course_id":    map[string]any{"type": "string", "minLength": 1},
					"lesson_index": map[string]any{"type": "integer", "minimum": 0},
					"state": map[string]any{
						"type": "string",
						"enum": []string{"new", "learning", "review", "relearning"},
					},
					"due":    map[string]any{"type": "string"},
					"reps":   map[string]any{"type": "integer", "minimum": 0},
					"lapses": map[string]any{"type": "integer", "minimum": 0},
					"front":  map[string]any{"type": "string"},
					"back":   map[string]any{"type": "string"},
				},
			},
		},
	},
}
