// Package opt wraps derivative-free optimizers behind a small interface so
// baseline searches can be swapped without touching callers.
package opt

// Optimizer is a global minimizer over a box-constrained continuous space.
type Optimizer interface {
	// Run minimizes eval over the box [lower, upper] in dim dimensions and
	// returns the best parameter vector along with its cost.
	Run(eval func([]float64) float64, lower, upper []float64, dim int) ([]float64, float64)
}
