package core

// Color is a semantic foreground color for a canvas cell.
// The platform layer decides how each one looks.
type Color uint8

const (
	ColorDefault Color = iota
	ColorLane
	ColorDefender
	ColorHealthy
	ColorWounded
	ColorCritical
	ColorLoot
	ColorMuted
	ColorAccent
)

// HealthColor picks a unit color from its remaining health fraction.
func HealthColor(percent float64) Color {
	switch {
	case percent > 0.66:
		return ColorHealthy
	case percent > 0.33:
		return ColorWounded
	default:
		return ColorCritical
	}
}
