// Package navigator tracks which editing step of the wizard is active.
package navigator

import "sync"

// Step is a wizard position. Steps have no completion guards.
type Step int

const (
	Personal Step = iota
	Education
	Experience
	Skills
	Additional
	Template
)

const (
	First = Personal
	Last  = Template
)

var stepTitles = [...]string{"Personal", "Education", "Experience", "Skills", "Additional", "Template"}

func (s Step) String() string {
	if s < First || s > Last {
		return "Unknown"
	}
	return stepTitles[s]
}

// Steps lists every step in order.
func Steps() []Step {
	out := make([]Step, 0, int(Last)+1)
	for s := First; s <= Last; s++ {
		out = append(out, s)
	}
	return out
}

// Clamp pins n into the valid step range.
func Clamp(n int) Step {
	switch {
	case n < int(First):
		return First
	case n > int(Last):
		return Last
	}
	return Step(n)
}

// Navigator is safe for concurrent use.
type Navigator struct {
	mu      sync.Mutex
	current Step
}

func New() *Navigator {
	return &Navigator{}
}

func (n *Navigator) Current() Step {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Next advances one step; it is a no-op on the last step.
func (n *Navigator) Next() Step {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current < Last {
		n.current++
	}
	return n.current
}

// Previous goes back one step; it is a no-op on the first step.
func (n *Navigator) Previous() Step {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current > First {
		n.current--
	}
	return n.current
}

// JumpTo moves to step i, clamped to the valid range.
func (n *Navigator) JumpTo(i int) Step {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = Clamp(i)
	return n.current
}

func (n *Navigator) Reset() {
	n.mu.Lock()
	n.current = First
	n.mu.Unlock()
}
