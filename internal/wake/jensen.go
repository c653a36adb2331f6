// Package wake implements the Jensen (park) wake model used to estimate
// array losses inside the wind farm. Each upstream turbine casts a cone of
// reduced wind speed; deficits from multiple wakes combine as the root sum
// of squares.
package wake

import (
	"errors"
	"fmt"
	"math"
)

// Config is the on-disk wake-model configuration shape (YAML).
type Config struct {
	// Model selects the wake model. Only "jensen" is implemented.
	Model string `yaml:"model"`
	// DecayConstant is the Jensen wake expansion coefficient k. Typical
	// values: 0.05 offshore, 0.075 onshore.
	DecayConstant float64 `yaml:"decay_constant"`
	// ThrustCoefficient Ct used for the initial velocity deficit.
	ThrustCoefficient float64 `yaml:"thrust_coefficient"`
	// Farm layout in meters, one entry per turbine.
	LayoutX []float64 `yaml:"layout_x"`
	LayoutY []float64 `yaml:"layout_y"`
}

func (c *Config) Validate() error {
	if c.Model == "" {
		return errors.New("wake model is required")
	}
	if c.Model != "jensen" {
		return fmt.Errorf("unsupported wake model: %q", c.Model)
	}
	if c.DecayConstant <= 0 || c.DecayConstant >= 1 {
		return errors.New("decay_constant must be in (0, 1)")
	}
	if c.ThrustCoefficient <= 0 || c.ThrustCoefficient >= 1 {
		return errors.New("thrust_coefficient must be in (0, 1)")
	}
	if len(c.LayoutX) == 0 {
		return errors.New("layout_x is required")
	}
	if len(c.LayoutX) != len(c.LayoutY) {
		return fmt.Errorf("layout_x/layout_y length mismatch: %d vs %d",
			len(c.LayoutX), len(c.LayoutY))
	}
	return nil
}

// NumTurbines returns the number of turbines in the configured layout.
func (c *Config) NumTurbines() int { return len(c.LayoutX) }

// Jensen evaluates per-turbine waked wind speeds for a farm layout.
type Jensen struct {
	k           float64
	ct          float64
	rotorRadius float64
	x, y        []float64
}

func NewJensen(cfg *Config, rotorDiameterM float64) (*Jensen, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rotorDiameterM <= 0 {
		return nil, errors.New("rotor diameter must be > 0")
	}
	return &Jensen{
		k:           cfg.DecayConstant,
		ct:          cfg.ThrustCoefficient,
		rotorRadius: rotorDiameterM / 2,
		x:           cfg.LayoutX,
		y:           cfg.LayoutY,
	}, nil
}

// WakedSpeeds returns the effective hub-height wind speed at each turbine
// for a free-stream speed and direction. Direction is meteorological
// (degrees the wind blows FROM, clockwise from north).
func (j *Jensen) WakedSpeeds(freeStreamMS, directionDeg float64) []float64 {
	n := len(j.x)
	speeds := make([]float64, n)
	if freeStreamMS <= 0 {
		return speeds
	}

	// Rotate coordinates so the wind blows along +x. A turbine at larger
	// rotated x is downstream.
	theta := (270 - directionDeg) * math.Pi / 180
	cos, sin := math.Cos(theta), math.Sin(theta)
	dx := make([]float64, n)
	dy := make([]float64, n)
	for i := 0; i < n; i++ {
		dx[i] = j.x[i]*cos + j.y[i]*sin
		dy[i] = -j.x[i]*sin + j.y[i]*cos
	}

	a := 1 - math.Sqrt(1-j.ct)
	for i := 0; i < n; i++ {
		sumSq := 0.0
		for u := 0; u < n; u++ {
			if u == i {
				continue
			}
			downstream := dx[i] - dx[u]
			if downstream <= 0 {
				continue
			}
			wakeRadius := j.rotorRadius + j.k*downstream
			lateral := math.Abs(dy[i] - dy[u])
			if lateral >= wakeRadius+j.rotorRadius {
				continue
			}
			deficit := a / math.Pow(1+j.k*downstream/j.rotorRadius, 2)
			// Partial overlap tapers the deficit linearly.
			if lateral > wakeRadius-j.rotorRadius {
				overlap := (wakeRadius + j.rotorRadius - lateral) / (2 * j.rotorRadius)
				deficit *= overlap
			}
			sumSq += deficit * deficit
		}
		deficit := math.Sqrt(sumSq)
		if deficit > 1 {
			deficit = 1
		}
		speeds[i] = freeStreamMS * (1 - deficit)
	}
	return speeds
}
