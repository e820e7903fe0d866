package swipe

import "time"

// Sample is a drag offset relative to the gesture start.
type Sample struct {
	DX, DY float64
	T      time.Time
}

// Sampler turns pointer moves into samples and computes the exit velocity
// on release. Only the start, previous and latest samples are kept.
type Sampler struct {
	now   func() time.Time
	armed bool
	start Sample
	prev  Sample
	last  Sample
}

// NewSampler creates a sampler reading time from now. A nil clock uses
// time.Now.
func NewSampler(now func() time.Time) *Sampler {
	if now == nil {
		now = time.Now
	}
	return &Sampler{now: now}
}

// Begin arms the sampler at offset zero.
func (s *Sampler) Begin() {
	t := s.now()
	s.start = Sample{T: t}
	s.prev = s.start
	s.last = s.start
	s.armed = true
}

// Armed reports whether a gesture is in progress.
func (s *Sampler) Armed() bool {
	return s.armed
}

// Update records the latest offset and returns it unchanged.
// Calls while disarmed are ignored.
func (s *Sampler) Update(dx, dy float64) Sample {
	sample := Sample{DX: dx, DY: dy, T: s.now()}
	if !s.armed {
		return sample
	}
	s.prev = s.last
	s.last = sample
	return sample
}

// End disarms the sampler and returns the release vector. Velocity is the
// finite difference of the last two samples; a release at the last moved
// position does not add a sample. End without Begin returns a zero vector.
func (s *Sampler) End(dx, dy float64) Vector {
	if !s.armed {
		return Vector{}
	}
	if dx != s.last.DX || dy != s.last.DY {
		s.Update(dx, dy)
	}
	s.armed = false

	v := Vector{DX: dx, DY: dy}
	dt := float64(s.last.T.Sub(s.prev.T)) / float64(time.Millisecond)
	if dt > 0 {
		v.VX = (s.last.DX - s.prev.DX) / dt
		v.VY = (s.last.DY - s.prev.DY) / dt
	}
	s.start, s.prev, s.last = Sample{}, Sample{}, Sample{}
	return v
}
