package voxelverse

import "time"

// Clock is the ambient tick-counting resource. Velocity is already expressed
// in units/tick, so nothing here scales anything by wall-clock time —
// Duration is carried purely for a host's own pacing or logging, never
// consulted by Integrate or refresh.
type Clock struct {
	TickCount uint64
	Time      time.Time
	Duration  time.Duration
}

// ClockModule installs a Clock resource and a system that stamps it once
// per tick, at the start of CollectInputs.
type ClockModule struct{}

func (m ClockModule) Install(s *Scheduler, cmd *Commands) {
	s.AddSystem(CollectInputs, clockSystem)
	cmd.AddResource(&Clock{Time: time.Now()})
}

func clockSystem(clock *Clock) {
	now := time.Now()
	clock.Duration = now.Sub(clock.Time)
	clock.Time = now
	clock.TickCount++
}
