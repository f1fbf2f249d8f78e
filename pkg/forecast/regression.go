package forecast

import "math"

// Point is one (x, y) pair: x is an instant in milliseconds, y a reading
type Point struct {
	X float64
	Y float64
}

// Model is a fitted line y = Slope*x + Intercept.
type Model struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// Predict evaluates the line at x. Extrapolation is allowed.
func (m Model) Predict(x float64) float64 {
	return m.Slope*x + m.Intercept
}

// Fit computes the ordinary least-squares line through points.
//
// It uses the closed form over the running sums Σx, Σy, Σxy and Σx²:
//
//	D         = n·Σx² − (Σx)²
//	slope     = (n·Σxy − Σx·Σy) / D
//	intercept = (Σy − slope·Σx) / n
//
// The second return value is false when the line cannot be determined,
// either because points is empty or because every x is identical (D == 0).
// That is an expected outcome on degenerate data, not a failure.
//
// Large x magnitudes (epoch milliseconds) with few samples lose precision
// in D through cancellation; that is inherent to the closed form.
func Fit(points []Point) (Model, bool) {
	n := len(points)
	if n == 0 {
		return Model{}, false
	}

	var sumX, sumY, sumXY, sumX2 float64
	for _, p := range points {
		sumX += p.X
		sumY += p.Y
		sumXY += p.X * p.Y
		sumX2 += p.X * p.X
	}

	fn := float64(n)
	denominator := fn*sumX2 - sumX*sumX
	if denominator == 0 {
		return Model{}, false
	}

	slope := (fn*sumXY - sumX*sumY) / denominator
	intercept := (sumY - slope*sumX) / fn

	return Model{Slope: slope, Intercept: intercept}, true
}

// RSquared returns the coefficient of determination of model over points,
// clamped to [0, 1].
//
// A model that fits worse than the mean reports 0 rather than a negative
// score. When the observed values are constant (SS_tot within rounding of
// zero) the result is 1 if the residuals are negligible and 0 otherwise.
func RSquared(points []Point, model Model) float64 {
	n := len(points)
	if n == 0 {
		return 0
	}

	var sumY float64
	for _, p := range points {
		sumY += p.Y
	}
	mean := sumY / float64(n)

	var ssTot, ssRes float64
	for _, p := range points {
		dt := p.Y - mean
		dr := p.Y - model.Predict(p.X)
		ssTot += dt * dt
		ssRes += dr * dr
	}

	// sumY/n is rarely exact, so a constant series leaves a tiny ssTot
	if ssTot <= residualTolerance(n, mean) {
		if ssRes <= residualTolerance(n, mean) {
			return 1
		}
		return 0
	}

	r2 := 1 - ssRes/ssTot
	if math.IsNaN(r2) || r2 < 0 {
		return 0
	}
	if r2 > 1 {
		return 1
	}
	return r2
}

// RMSE returns the root mean square of the residuals of model over points
func RMSE(points []Point, model Model) float64 {
	if len(points) == 0 {
		return 0
	}

	var sumSq float64
	for _, p := range points {
		diff := p.Y - model.Predict(p.X)
		sumSq += diff * diff
	}

	return math.Sqrt(sumSq / float64(len(points)))
}

// residualTolerance is the SS_res below which a constant series counts as perfectly fitted
func residualTolerance(n int, mean float64) float64 {
	return 1e-12 * float64(n) * math.Max(1, mean*mean)
}
