package pipeline

import "errors"

// ErrPredictProbaUnsupported is returned by Pipeline.PredictProbaOne. The
// source's PipelineClassifier throws unconditionally from predict_proba_one
// rather than passing the transformed vector through to the inner
// classifier's own implementation; this module preserves that refusal as a
// sentinel error instead of a panic so callers can use errors.Is.
var ErrPredictProbaUnsupported = errors.New("pipeline: predict_proba_one is not supported")
