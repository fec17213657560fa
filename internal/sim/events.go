package sim

// Event is something that happened during one Step.
type Event interface {
	simEvent()
}

// WaveStartedEvent is emitted on the frame a wave begins.
type WaveStartedEvent struct {
	Wave int
	Size int
}

func (WaveStartedEvent) simEvent() {}

// WaveEndedEvent is emitted on the frame a wave's last slot elapses.
// Bonus is the item awarded for the wave, empty when the table gave none.
type WaveEndedEvent struct {
	Wave  int
	Bonus string
}

func (WaveEndedEvent) simEvent() {}

// SpawnedEvent is emitted when a spawn request becomes a unit.
type SpawnedEvent struct {
	UnitID int
	Kind   string
	Wave   int
}

func (SpawnedEvent) simEvent() {}

// UnknownSpawnEvent is emitted when a request names a kind with no unit config.
// The request is dropped.
type UnknownSpawnEvent struct {
	Kind string
	Wave int
}

func (UnknownSpawnEvent) simEvent() {}

// KilledEvent is emitted when the defender destroys a unit.
type KilledEvent struct {
	UnitID int
	Kind   string
	Drops  []string
}

func (KilledEvent) simEvent() {}

// LeakedEvent is emitted when a unit reaches the end of the lane.
type LeakedEvent struct {
	UnitID int
	Kind   string
}

func (LeakedEvent) simEvent() {}
