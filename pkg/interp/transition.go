package interp

import (
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/harmonica"

	"github.com/matzehuels/forcegraph/pkg/errors"
)

// Transition maps linear animation progress in [0, 1] to eased progress.
// Every transition returns 0 at 0 and 1 at 1.
type Transition func(t float64) float64

// DefaultTransition is the easing used when none is configured.
const DefaultTransition = "quart:in-out"

// LinearTransition is the identity easing.
func LinearTransition(t float64) float64 { return t }

// EaseInOut builds a symmetric in-out curve from an ease-in curve: the first
// half runs the curve forward, the second half mirrors it.
func EaseInOut(in Transition) Transition {
	return func(t float64) float64 {
		if t <= 0.5 {
			return in(2*t) / 2
		}
		return (2 - in(2*(1-t))) / 2
	}
}

// Pow returns the ease-in curve t^n.
func Pow(n float64) Transition {
	return func(t float64) float64 { return math.Pow(t, n) }
}

// SineIn is the ease-in curve 1 - sin((1-t)π/2).
func SineIn(t float64) float64 { return 1 - math.Sin((1-t)*math.Pi/2) }

// Spring samples a critically or under-damped spring running from 0 to 1
// over the given number of frames. An under-damped spring (damping < 1)
// overshoots before settling. The last sample is pinned to 1 so the
// animation always ends on its target.
func Spring(frames int, frequency, damping float64) Transition {
	frames = max(frames, 2)
	spring := harmonica.NewSpring(harmonica.FPS(frames), frequency, damping)
	samples := make([]float64, frames+1)
	var pos, vel float64
	for i := 1; i < frames; i++ {
		pos, vel = spring.Update(pos, vel, 1)
		samples[i] = pos
	}
	samples[frames] = 1
	return func(t float64) float64 {
		t = max(0, min(t, 1))
		x := t * float64(frames)
		i := int(x)
		if i >= frames {
			return 1
		}
		frac := x - float64(i)
		return samples[i] + (samples[i+1]-samples[i])*frac
	}
}

var transitions = map[string]Transition{
	"linear":       LinearTransition,
	"quad:in":      Pow(2),
	"quad:in-out":  EaseInOut(Pow(2)),
	"cubic:in":     Pow(3),
	"cubic:in-out": EaseInOut(Pow(3)),
	"quart:in":     Pow(4),
	"quart:in-out": EaseInOut(Pow(4)),
	"sine:in-out":  EaseInOut(SineIn),
	"spring":       Spring(60, 6, 0.5),
}

// TransitionByName resolves a configured easing name. Names are
// case-insensitive; the empty name selects [DefaultTransition].
func TransitionByName(name string) (Transition, error) {
	if name == "" {
		name = DefaultTransition
	}
	tr, ok := transitions[strings.ToLower(name)]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownTransition, "unknown transition %q (have %s)",
			name, strings.Join(TransitionNames(), ", "))
	}
	return tr, nil
}

// TransitionNames lists the built-in easing names.
func TransitionNames() []string {
	names := make([]string, 0, len(transitions))
	for n := range transitions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
