package navigator

import "testing"

func TestNextStopsAtLast(t *testing.T) {
	n := New()
	for i := 0; i < 10; i++ {
		n.Next()
	}
	if got := n.Current(); got != Template {
		t.Fatalf("expected Template, got %s", got)
	}
}

func TestPreviousStopsAtFirst(t *testing.T) {
	n := New()
	if got := n.Previous(); got != Personal {
		t.Fatalf("expected Personal, got %s", got)
	}
	n.Next()
	n.Next()
	if got := n.Previous(); got != Education {
		t.Fatalf("expected Education, got %s", got)
	}
}

func TestJumpToClamps(t *testing.T) {
	n := New()
	tests := []struct {
		in   int
		want Step
	}{
		{-3, Personal},
		{0, Personal},
		{3, Skills},
		{5, Template},
		{42, Template},
	}
	for _, tt := range tests {
		if got := n.JumpTo(tt.in); got != tt.want {
			t.Fatalf("JumpTo(%d) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestReset(t *testing.T) {
	n := New()
	n.JumpTo(4)
	n.Reset()
	if n.Current() != Personal {
		t.Fatalf("expected reset to Personal")
	}
}

func TestStepTitles(t *testing.T) {
	want := []string{"Personal", "Education", "Experience", "Skills", "Additional", "Template"}
	steps := Steps()
	if len(steps) != len(want) {
		t.Fatalf("expected %d steps, got %d", len(want), len(steps))
	}
	for i, s := range steps {
		if s.String() != want[i] {
			t.Fatalf("step %d = %q, want %q", i, s.String(), want[i])
		}
	}
	if Step(9).String() != "Unknown" {
		t.Fatalf("expected Unknown for out-of-range step")
	}
}
