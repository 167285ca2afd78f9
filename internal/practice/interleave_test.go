package practice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func topics(keys ...string) []AnnotatedCard {
	out := make([]AnnotatedCard, len(keys))
	for i, k := range keys {
		out[i] = AnnotatedCard{TopicKey: k}
		out[i].ID = k + string(rune('0'+i))
	}
	return out
}

func keysOf(cards []AnnotatedCard) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.TopicKey
	}
	return out
}

func TestSpacedInterleave(t *testing.T) {
	tests := []struct {
		name   string
		in     []string
		maxRun int
		want   []string
	}{
		{"already valid", []string{"a", "b", "a"}, 1, []string{"a", "b", "a"}},
		{"breaks runs", []string{"a", "a", "a", "b", "b"}, 1, []string{"a", "b", "a", "b", "a"}},
		{"run of two allowed", []string{"a", "a", "a", "b"}, 2, []string{"a", "a", "b", "a"}},
		{"stranded topic", []string{"a", "b", "c", "a", "a"}, 1, []string{"a", "b", "a", "c", "a"}},
		{"largest topic leads", []string{"b", "a", "a", "a", "c"}, 1, []string{"a", "b", "a", "c", "a"}},
		{"single topic", []string{"a", "a", "a"}, 1, []string{"a", "a", "a"}},
		{"disabled", []string{"a", "a", "a"}, 0, []string{"a", "a", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SpacedInterleave(topics(tt.in...), tt.maxRun)
			assert.Equal(t, tt.want, keysOf(got))
		})
	}
}

func TestGenerateSpacedInterleaving_UsesConfig(t *testing.T) {
	cfg := DefaultConfig()
	got := GenerateSpacedInterleaving(topics("x", "x", "x", "y", "y", "y"), cfg)
	assert.LessOrEqual(t, LongestRun(got), cfg.MaxConsecutiveSameTopic)
	assert.Len(t, got, 6)
}

func TestSpacedInterleave_KeepsOrderWithinTopic(t *testing.T) {
	got := SpacedInterleave(topics("a", "a", "b", "a", "b", "c"), 1)
	assert.Equal(t, []string{"a0", "b2", "a1", "b4", "a3", "c5"}, idsOf(got))
}

func TestLongestRun(t *testing.T) {
	assert.Equal(t, 0, LongestRun(nil))
	assert.Equal(t, 3, LongestRun(topics("a", "b", "b", "b", "a")))
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.Error(t, Config{CardCount: 0}.Validate())
	assert.Error(t, Config{CardCount: 5, MaxConsecutiveSameTopic: -1}.Validate())
}
