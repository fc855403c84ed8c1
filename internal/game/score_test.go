package game

import "testing"

func TestScore(t *testing.T) {
	tests := []struct {
		name   string
		secret Code
		guess  Code
		want   string
	}{
		{"all black", Code{1, 2, 3, 4}, Code{1, 2, 3, 4}, "bbbb"},
		{"all miss", Code{1, 2, 3, 4}, Code{5, 5, 6, 6}, "...."},
		{"all white", Code{1, 2, 3, 4}, Code{4, 3, 2, 1}, "wwww"},
		{"mixed", Code{1, 2, 3, 4}, Code{1, 3, 5, 6}, "bw.."},
		// Repeated guess colors are not matched against multiplicities.
		{"repeats score white each time", Code{1, 2, 3, 4}, Code{1, 1, 2, 2}, "bwww"},
		{"repeated secret", Code{1, 1, 2, 2}, Code{2, 1, 1, 3}, "wbw."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.secret, tt.guess).String(); got != tt.want {
				t.Errorf("Score(%v, %v) = %q, want %q", tt.secret, tt.guess, got, tt.want)
			}
		})
	}
}

func TestFeedbackSolved(t *testing.T) {
	if !(Feedback{PegBlack, PegBlack}).Solved() {
		t.Error("all black should be solved")
	}
	if (Feedback{PegBlack, PegWhite}).Solved() {
		t.Error("a white peg is not solved")
	}
	if (Feedback{}).Solved() {
		t.Error("empty feedback is not solved")
	}
}
