package mastery

import "testing"

func TestStateFor(t *testing.T) {
	tests := []struct {
		name    string
		score   float64
		present bool
		want    LessonState
	}{
		{"absent", 0.9, false, StateNew},
		{"zero", 0, true, StateNew},
		{"just below new threshold", 0.09, true, StateNew},
		{"at new threshold", 0.1, true, StateWeak},
		{"mid weak", 0.45, true, StateWeak},
		{"at weak threshold", 0.6, true, StateLearned},
		{"strong", 0.95, true, StateLearned},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StateFor(tt.score, tt.present); got != tt.want {
				t.Errorf("StateFor(%v, %v) = %s, want %s", tt.score, tt.present, got, tt.want)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	for in, want := range map[float64]float64{-0.5: 0, 0: 0, 0.42: 0.42, 1: 1, 3: 1} {
		if got := Clamp(in); got != want {
			t.Errorf("Clamp(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestBucketFor(t *testing.T) {
	if BucketFor(0.1) != BucketLow || BucketFor(0.4) != BucketMedium || BucketFor(0.8) != BucketHigh {
		t.Error("unexpected bucket boundaries")
	}
}
