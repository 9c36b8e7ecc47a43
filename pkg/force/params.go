package force

import "github.com/matzehuels/forcegraph/pkg/errors"

// Defaults for [Params]. They reproduce the behaviour of the classic
// spring-electrical layout this engine is modelled on.
const (
	DefaultNaturalLength  = 75.0
	DefaultRestoringForce = 2.0
	DefaultRepulsion      = 500.0
	DefaultMass           = 1.0
	DefaultFriction       = 10.0
	DefaultMaxForce       = 50.0
	DefaultDamping        = 0.4
	DefaultQuietThreshold = 10.0
	DefaultQuietLimit     = 10
	DefaultMaxIterations  = 1000
)

// Params configures a [Simulator]. Zero fields take the package defaults, so
// Params{} is a valid configuration.
type Params struct {
	// rest length of every edge spring
	NaturalLength float64 `toml:"natural_length" yaml:"natural_length" json:"natural_length,omitempty"`

	// spring constant; force = RestoringForce * (distance - NaturalLength)
	RestoringForce float64 `toml:"restoring_force" yaml:"restoring_force" json:"restoring_force,omitempty"`

	// node/node repulsion strength k; force = k / distance
	Repulsion float64 `toml:"repulsion" yaml:"repulsion" json:"repulsion,omitempty"`

	// friction force = accumulated force * Mass / Friction (jittered)
	Mass     float64 `toml:"mass" yaml:"mass" json:"mass,omitempty"`
	Friction float64 `toml:"friction" yaml:"friction" json:"friction,omitempty"`

	// per-axis clamp applied to the summed force before damping
	MaxForce float64 `toml:"max_force" yaml:"max_force" json:"max_force,omitempty"`

	// multiplier applied to the clamped force before moving a node
	Damping float64 `toml:"damping" yaml:"damping" json:"damping,omitempty"`

	// the loop stops once |total - previous total| < QuietThreshold for
	// QuietLimit consecutive iterations
	QuietThreshold float64 `toml:"quiet_threshold" yaml:"quiet_threshold" json:"quiet_threshold,omitempty"`
	QuietLimit     int     `toml:"quiet_limit" yaml:"quiet_limit" json:"quiet_limit,omitempty"`

	// hard iteration cap
	MaxIterations int `toml:"max_iterations" yaml:"max_iterations" json:"max_iterations,omitempty"`

	// random seed; 0 seeds from the clock
	Seed uint64 `toml:"seed" yaml:"seed" json:"seed,omitempty"`
}

// DefaultParams returns Params with every field set to its default.
func DefaultParams() Params { return Params{}.withDefaults() }

func (p Params) withDefaults() Params {
	if p.NaturalLength == 0 {
		p.NaturalLength = DefaultNaturalLength
	}
	if p.RestoringForce == 0 {
		p.RestoringForce = DefaultRestoringForce
	}
	if p.Repulsion == 0 {
		p.Repulsion = DefaultRepulsion
	}
	if p.Mass == 0 {
		p.Mass = DefaultMass
	}
	if p.Friction == 0 {
		p.Friction = DefaultFriction
	}
	if p.MaxForce == 0 {
		p.MaxForce = DefaultMaxForce
	}
	if p.Damping == 0 {
		p.Damping = DefaultDamping
	}
	if p.QuietThreshold == 0 {
		p.QuietThreshold = DefaultQuietThreshold
	}
	if p.QuietLimit == 0 {
		p.QuietLimit = DefaultQuietLimit
	}
	if p.MaxIterations == 0 {
		p.MaxIterations = DefaultMaxIterations
	}
	return p
}

// Validate rejects negative or otherwise unusable parameters.
func (p Params) Validate() error {
	switch {
	case p.NaturalLength < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "natural length must not be negative")
	case p.RestoringForce < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "restoring force must not be negative")
	case p.Repulsion < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "repulsion must not be negative")
	case p.Mass < 0, p.Friction < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "mass and friction must not be negative")
	case p.MaxForce < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "max force must not be negative")
	case p.Damping < 0 || p.Damping > 1:
		return errors.New(errors.ErrCodeInvalidConfig, "damping must be in [0, 1], got %g", p.Damping)
	case p.QuietLimit < 0 || p.MaxIterations < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "iteration limits must not be negative")
	}
	return nil
}
