package ecs

// System updates a world each frame.
type System interface {
	Update(w *World)
}

// FixedSystem is advanced once per physics step. A system may implement
// both interfaces.
type FixedSystem interface {
	FixedUpdate(w *World)
}

// Scheduler runs systems in registration order.
type Scheduler struct {
	systems []System
	fixed   []FixedSystem
}

func NewScheduler(systems ...System) *Scheduler {
	s := &Scheduler{}
	for _, system := range systems {
		s.Add(system)
	}
	return s
}

// Add registers system for the frame phase and, if it implements
// FixedSystem, for the fixed phase as well.
func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
	if fs, ok := system.(FixedSystem); ok {
		s.fixed = append(s.fixed, fs)
	}
}

// AddFixed registers a system that only runs in the fixed phase.
func (s *Scheduler) AddFixed(system FixedSystem) {
	if system == nil {
		return
	}
	s.fixed = append(s.fixed, system)
}

func (s *Scheduler) Update(w *World) {
	for _, system := range s.systems {
		system.Update(w)
	}
}

func (s *Scheduler) FixedUpdate(w *World) {
	for _, system := range s.fixed {
		system.FixedUpdate(w)
	}
}

func (s *Scheduler) Systems() []System {
	systems := make([]System, 0, len(s.systems))
	return append(systems, s.systems...)
}
