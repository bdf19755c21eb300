package title

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

// RandomMax is the inclusive upper bound of a random fragment draw.
const RandomMax = 999_999_999

// Sources supplies the non-deterministic inputs of an evaluation. Nil fields
// fall back to the process-wide defaults.
type Sources struct {
	// Draw returns a uniformly distributed integer in [1, RandomMax].
	Draw func() int
	// Now returns the current wall-clock time.
	Now func() time.Time
	// UUID returns a fresh random UUID in canonical form.
	UUID func() string
}

// DefaultSources returns the production sources.
func DefaultSources() Sources {
	return Sources{
		Draw: defaultDraw,
		Now:  time.Now,
		UUID: uuid.NewString,
	}
}

func defaultDraw() int {
	return rand.IntN(RandomMax) + 1
}

func (s Sources) withDefaults() Sources {
	if s.Draw == nil {
		s.Draw = defaultDraw
	}
	if s.Now == nil {
		s.Now = time.Now
	}
	if s.UUID == nil {
		s.UUID = uuid.NewString
	}
	return s
}
