// Package forecast fits ordinary least-squares lines to sensor history and
// projects future temperature and humidity readings.
//
// The independent variable is always the observation instant expressed as
// milliseconds since the Unix epoch; the dependent variable is a single
// scalar reading. Temperature and humidity are fitted independently over the
// same instants and travel together in an Outcome.
//
// Everything here is a pure computation over in-memory slices. An Outcome is
// an immutable snapshot: retraining produces a new one, and callers decide
// which snapshot a prediction should use.
//
// The confidence figure attached to a Prediction is the mean of the two R²
// values scaled to a percentage. It is a coarse reliability heuristic, not a
// statistical confidence interval, and it does not shrink with distance from
// the training range.
package forecast
