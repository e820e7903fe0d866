package swipe

import "math"

// Classify maps a release vector to a decision. Rules are evaluated in
// order and the first match wins:
//  1. distance past the threshold on an enabled axis, dominant axis first
//  2. velocity past the threshold on an enabled axis, dominant axis first
//  3. None
//
// cfg must already be resolved against the viewport.
func Classify(v Vector, cfg Config) (Decision, Direction) {
	for _, dir := range axisCandidates(v.DX, v.DY) {
		if !cfg.Allows(dir) {
			continue
		}
		if axisValue(dir, v.DX, v.DY) > cfg.DistanceThreshold {
			return cfg.Actions[dir], dir
		}
	}

	if cfg.VelocityThreshold > 0 {
		for _, dir := range axisCandidates(v.VX, v.VY) {
			if !cfg.Allows(dir) {
				continue
			}
			if axisValue(dir, v.VX, v.VY) > cfg.VelocityThreshold {
				return cfg.Actions[dir], dir
			}
		}
	}

	return None, NoDirection
}

// axisCandidates returns the direction on each axis, dominant first. A zero
// component yields NoDirection, which no config allows.
func axisCandidates(dx, dy float64) [2]Direction {
	h := signDirection(dx, Left, Right)
	vert := signDirection(dy, Up, Down)
	if math.Abs(dy) > math.Abs(dx) {
		return [2]Direction{vert, h}
	}
	return [2]Direction{h, vert}
}

func signDirection(v float64, neg, pos Direction) Direction {
	switch {
	case v < 0:
		return neg
	case v > 0:
		return pos
	}
	return NoDirection
}

// axisValue returns the magnitude of the component along dir's axis.
func axisValue(dir Direction, x, y float64) float64 {
	if dir.horizontal() {
		return math.Abs(x)
	}
	return math.Abs(y)
}
