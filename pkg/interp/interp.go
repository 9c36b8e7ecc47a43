package interp

import (
	"math"
	"math/cmplx"
	"slices"
	"sync"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
)

// Mode names an interpolation strategy.
type Mode string

const (
	Linear    Mode = "linear"
	Polar     Mode = "polar"
	Moebius   Mode = "moebius"
	FadeNodes Mode = "fade:nodes"
	FadeEdges Mode = "fade:vertex"
)

// Func moves one node (and, for edge fades, its adjacencies) to the state
// at delta. vector is only read by [Moebius]; callers pass the transform
// vector already scaled for the current tick.
type Func func(n *graph.Node, delta float64, vector r2.Vec)

// Registry maps mode names to interpolation functions.
type Registry struct {
	mu    sync.RWMutex
	funcs map[Mode]Func
}

// NewRegistry returns a registry holding the built-in modes.
func NewRegistry() *Registry {
	return &Registry{funcs: map[Mode]Func{
		Linear:    LinearPos,
		Polar:     PolarPos,
		Moebius:   MoebiusPos,
		FadeNodes: func(n *graph.Node, delta float64, _ r2.Vec) { FadeNode(n, delta) },
		FadeEdges: func(n *graph.Node, delta float64, _ r2.Vec) { FadeAdjacencies(n, delta) },
	}}
}

// Register adds or replaces a mode.
func (r *Registry) Register(m Mode, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.funcs[m] = fn
}

// Lookup returns the function registered for m.
func (r *Registry) Lookup(m Mode) (Func, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.funcs[m]
	return fn, ok
}

// Modes returns the registered mode names, sorted.
func (r *Registry) Modes() []Mode {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Mode, 0, len(r.funcs))
	for m := range r.funcs {
		out = append(out, m)
	}
	slices.Sort(out)
	return out
}

// Validate reports the first mode in modes that is not registered.
func (r *Registry) Validate(modes []Mode) error {
	for _, m := range modes {
		if _, ok := r.Lookup(m); !ok {
			return errors.New(errors.ErrCodeInvalidMode, "unknown interpolation mode %q (known: %v)", m, r.Modes())
		}
	}
	return nil
}

// Resolve looks up every mode once so a tick loop does not take the lock
// per node.
func (r *Registry) Resolve(modes []Mode) ([]Func, error) {
	if err := r.Validate(modes); err != nil {
		return nil, err
	}
	out := make([]Func, len(modes))
	for i, m := range modes {
		out[i], _ = r.Lookup(m)
	}
	return out, nil
}

// Apply runs modes in order on n.
func (r *Registry) Apply(modes []Mode, n *graph.Node, delta float64, vector r2.Vec) error {
	fns, err := r.Resolve(modes)
	if err != nil {
		return err
	}
	for _, fn := range fns {
		fn(n, delta, vector)
	}
	return nil
}

// ParseModes converts configuration strings to modes.
func ParseModes(names []string) []Mode {
	out := make([]Mode, len(names))
	for i, s := range names {
		out[i] = Mode(s)
	}
	return out
}

// LinearPos sets pos = startPos + (endPos - startPos) * delta.
func LinearPos(n *graph.Node, delta float64, _ r2.Vec) {
	n.Pos = Lerp(n.StartPos, n.EndPos, delta)
}

// Lerp interpolates componentwise.
func Lerp(from, to r2.Vec, delta float64) r2.Vec {
	return r2.Vec{
		X: (to.X-from.X)*delta + from.X,
		Y: (to.Y-from.Y)*delta + from.Y,
	}
}

// PolarPos interpolates in angle/radius space.
func PolarPos(n *graph.Node, delta float64, _ r2.Vec) {
	from := ToPolar(n.StartPos)
	to := ToPolar(n.EndPos)
	n.Pos = InterpolatePolar(from, to, delta).Cartesian()
}

// MoebiusPos applies the Möbius transform z -> (z + c) / (1 + conj(c) z)
// to startPos with c = vector. It only acts while delta <= 1 or while the
// vector lies within the unit disc.
func MoebiusPos(n *graph.Node, delta float64, vector r2.Vec) {
	if delta <= 1 || r2.Norm(vector) <= 1 {
		n.Pos = MoebiusTransform(n.StartPos, vector)
	}
}

// MoebiusTransform returns (z + c) / (1 + conj(c) z).
func MoebiusTransform(z, c r2.Vec) r2.Vec {
	zc := complex(z.X, z.Y)
	cc := complex(c.X, c.Y)
	w := (zc + cc) / (1 + cmplx.Conj(cc)*zc)
	return r2.Vec{X: real(w), Y: imag(w)}
}

// FadeNode blends alpha from startAlpha to endAlpha. It leaves the node
// alone once delta > 1 or once alpha already equals endAlpha.
func FadeNode(n *graph.Node, delta float64) {
	fade(&n.Alpha, n.StartAlpha, n.EndAlpha, delta)
}

// FadeAdjacencies applies the alpha blend to every adjacency record of n
// rather than to n itself.
func FadeAdjacencies(n *graph.Node, delta float64) {
	for _, a := range n.Adjacencies() {
		fade(&a.Alpha, a.StartAlpha, a.EndAlpha, delta)
	}
}

func fade(alpha *float64, start, end, delta float64) {
	if delta <= 1 && end != *alpha {
		*alpha = start + (end-start)*delta
	}
}

// PolarVec is a point in polar form. Theta is kept in [0, 2π).
type PolarVec struct {
	Theta float64
	Rho   float64
}

// ToPolar converts a Cartesian point.
func ToPolar(v r2.Vec) PolarVec {
	theta := math.Atan2(v.Y, v.X)
	if theta < 0 {
		theta += 2 * math.Pi
	}
	return PolarVec{Theta: theta, Rho: r2.Norm(v)}
}

// Cartesian converts back to a Cartesian point.
func (p PolarVec) Cartesian() r2.Vec {
	return r2.Vec{X: p.Rho * math.Cos(p.Theta), Y: p.Rho * math.Sin(p.Theta)}
}

// InterpolatePolar blends two polar points. Rho is interpolated linearly;
// theta travels the short way round, wrapping through 0 when the two angles
// are more than π apart, and the result is normalized into [0, 2π).
func InterpolatePolar(from, to PolarVec, delta float64) PolarVec {
	const pi2 = 2 * math.Pi
	norm := func(t float64) float64 {
		if t < 0 {
			return math.Mod(t, pi2) + pi2
		}
		return math.Mod(t, pi2)
	}

	tt, et := to.Theta, from.Theta
	var theta float64
	if math.Abs(tt-et) > math.Pi {
		if tt > et {
			theta = norm(et + ((tt-pi2)-et)*delta)
		} else {
			theta = norm(et - pi2 + (tt-(et-pi2))*delta)
		}
	} else {
		theta = norm(et + (tt-et)*delta)
	}
	return PolarVec{
		Theta: theta,
		Rho:   (to.Rho-from.Rho)*delta + from.Rho,
	}
}
