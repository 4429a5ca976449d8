package spaces

import (
	"math"

	"github.com/google/uuid"
)

// DefaultSegmentLength is the discretization step spaces start with when no
// WithSegmentLength option is supplied.
const DefaultSegmentLength = 1.0

// SpaceOption configures a leaf state space at construction time.
type SpaceOption func(*spaceConfig)

type spaceConfig struct {
	name          string
	segmentLength float64
}

// WithName sets the human-readable label of the space being constructed.
func WithName(name string) SpaceOption {
	return func(cfg *spaceConfig) {
		cfg.name = name
	}
}

// WithSegmentLength sets the maximal per-segment discretization step. The
// constructor rejects non-positive values with ErrInvalidConfiguration.
func WithSegmentLength(length float64) SpaceOption {
	return func(cfg *spaceConfig) {
		cfg.segmentLength = length
	}
}

func applySpaceOptions(defaultName string, opts []SpaceOption) (spaceConfig, error) {
	cfg := spaceConfig{
		name:          defaultName,
		segmentLength: DefaultSegmentLength,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.segmentLength <= 0 {
		return spaceConfig{}, invalidConfigf("segment length %v must be positive", cfg.segmentLength)
	}
	return cfg, nil
}

// spaceCore carries the identity, label, and segment length every space
// shares. Embedding types provide the metric behaviour.
type spaceCore struct {
	id            SpaceID
	name          string
	segmentLength float64
}

func newSpaceCore(cfg spaceConfig) spaceCore {
	return spaceCore{
		id:            uuid.New(),
		name:          cfg.name,
		segmentLength: cfg.segmentLength,
	}
}

// ID returns the identity assigned at construction.
func (c *spaceCore) ID() SpaceID {
	return c.id
}

// Name returns the human-readable label.
func (c *spaceCore) Name() string {
	return c.name
}

// SetName replaces the human-readable label. Configuration-time only.
func (c *spaceCore) SetName(name string) {
	c.name = name
}

// SegmentLength returns the configured discretization step.
func (c *spaceCore) SegmentLength() float64 {
	return c.segmentLength
}

// SetSegmentLength configures the discretization step. Configuration-time
// only; non-positive values fail with ErrInvalidConfiguration.
func (c *spaceCore) SetSegmentLength(length float64) error {
	if length <= 0 {
		return invalidConfigf("segment length %v must be positive", length)
	}
	c.segmentLength = length
	return nil
}

// segmentCount converts a distance into a segment count at the configured
// step. Zero distance needs zero segments.
func (c *spaceCore) segmentCount(distance float64) int {
	if distance <= 0 {
		return 0
	}
	return int(math.Ceil(distance / c.segmentLength))
}
