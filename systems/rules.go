package systems

import "gonum.org/v1/gonum/spatial/r3"

// RuleParams holds the radii and weights of the three flocking rules and
// the speed ceiling applied to their combined result.
type RuleParams struct {
	Rule1Distance float64 // Cohesion
	Rule2Distance float64 // Separation
	Rule3Distance float64 // Alignment
	Rule1Scale    float64
	Rule2Scale    float64
	Rule3Scale    float64
	MaxSpeed      float64
}

// MaxDistance returns the largest of the three rule radii.
func (p RuleParams) MaxDistance() float64 {
	return max(p.Rule1Distance, p.Rule2Distance, p.Rule3Distance)
}

// RuleAccumulator gathers the three rule sums for one agent.
// Feed it every candidate neighbor except the agent itself.
type RuleAccumulator struct {
	self             r3.Vec
	r1Sq, r2Sq, r3Sq float64

	center      r3.Vec
	centerCount int
	separation  r3.Vec
	align       r3.Vec
	alignCount  int
}

// NewRuleAccumulator starts an accumulation for the agent at self.
func NewRuleAccumulator(p RuleParams, self r3.Vec) RuleAccumulator {
	return RuleAccumulator{
		self: self,
		r1Sq: p.Rule1Distance * p.Rule1Distance,
		r2Sq: p.Rule2Distance * p.Rule2Distance,
		r3Sq: p.Rule3Distance * p.Rule3Distance,
	}
}

// Add folds one neighbor into the sums. Radii are strict.
func (a *RuleAccumulator) Add(pos, vel r3.Vec) {
	d := r3.Sub(a.self, pos)
	distSq := r3.Norm2(d)

	if distSq < a.r1Sq {
		a.center = r3.Add(a.center, pos)
		a.centerCount++
	}
	if distSq < a.r2Sq {
		a.separation = r3.Add(a.separation, d)
	}
	if distSq < a.r3Sq {
		a.align = r3.Add(a.align, vel)
		a.alignCount++
	}
}

// Contributions returns the cohesion, separation and alignment terms.
// Cohesion and alignment are zero when no neighbor fell within their radius.
func (a *RuleAccumulator) Contributions(p RuleParams) (cohesion, separation, alignment r3.Vec) {
	if a.centerCount > 0 {
		mean := r3.Scale(1/float64(a.centerCount), a.center)
		cohesion = r3.Scale(p.Rule1Scale, r3.Sub(mean, a.self))
	}
	separation = r3.Scale(p.Rule2Scale, a.separation)
	if a.alignCount > 0 {
		mean := r3.Scale(1/float64(a.alignCount), a.align)
		alignment = r3.Scale(p.Rule3Scale, mean)
	}
	return cohesion, separation, alignment
}

// Velocity returns vel plus the three contributions, clamped to MaxSpeed.
func (a *RuleAccumulator) Velocity(p RuleParams, vel r3.Vec) r3.Vec {
	c, s, al := a.Contributions(p)
	return ClampSpeed(r3.Add(r3.Add(vel, c), r3.Add(s, al)), p.MaxSpeed)
}

// ClampSpeed rescales v to maxSpeed when it is faster, keeping its direction.
func ClampSpeed(v r3.Vec, maxSpeed float64) r3.Vec {
	speed := r3.Norm(v)
	if speed > maxSpeed {
		return r3.Scale(maxSpeed/speed, v)
	}
	return v
}

// EvaluateRules computes the new velocity of agent self from every other
// agent in pos/vel. It is the reference form of the rule math.
func EvaluateRules(p RuleParams, self int, pos, vel []r3.Vec) r3.Vec {
	acc := NewRuleAccumulator(p, pos[self])
	for j := range pos {
		if j == self {
			continue
		}
		acc.Add(pos[j], vel[j])
	}
	return acc.Velocity(p, vel[self])
}
