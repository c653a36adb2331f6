package model

// Action is a human-friendly battery operating mode for a timestep.
// Keep these values stable; they are intended for CSV output.
type Action string

const (
	ActionCharging    Action = "CHARGING"
	ActionIdle        Action = "IDLE"
	ActionDischarging Action = "DISCHARGING"
)

// ActionFromEnergy classifies a battery step by its energy flows.
func ActionFromEnergy(absorbedKWh, deliveredKWh float64) Action {
	switch {
	case absorbedKWh > 0:
		return ActionCharging
	case deliveredKWh > 0:
		return ActionDischarging
	default:
		return ActionIdle
	}
}
