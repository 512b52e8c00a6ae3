// Package drift implements the streaming concept-drift detectors consumed by
// the Adaptive Random Forest ensemble: DDM, HDDM-W, Page-Hinckley and ADWIN.
// Each type is fed a scalar per update (for the tree detectors this is the
// 0/1 prediction error of the tree it watches) and exposes whether a drift
// has just been flagged.
package drift

// Detector is the contract every drift detector in this package satisfies.
// It replaces the C++ IsDetector concept: update with one observation,
// report whether the most recent update tripped a drift. The detectors in
// this package are pointer types; the ensemble holds one per tree, each
// minted fresh from a Factory.
type Detector interface {
	// Update folds one observation into the detector's running state. If the
	// previous call had flagged a drift, Update first resets internal state
	// before processing x.
	Update(x float64)
	// DriftDetected reports whether the most recent Update call flagged a
	// drift.
	DriftDetected() bool
}

// Factory constructs a fresh Detector of type D with a fixed parameter set.
// It is the Go analogue of the C++ DetectorFactory template: the ensemble is
// generic over a detector type D and holds a Factory[D] to mint new warning
// and drift detectors for every background and promoted tree.
type Factory[D Detector] func() D
