// Package pipeline composes a core.Transformer in front of a core.Classifier,
// so the classifier always trains and predicts on transformed features.
package pipeline

import "github.com/Apolynoid/riverstream/core"

// Pipeline chains a Transformer and a Classifier. It is not itself a
// core.Classifier: PredictProbaOne returns an error rather than a vector,
// matching the source's refusal to support it.
type Pipeline struct {
	transformer core.Transformer
	classifier  core.Classifier
}

// New returns a Pipeline that feeds transformer's output to classifier.
func New(transformer core.Transformer, classifier core.Classifier) *Pipeline {
	return &Pipeline{transformer: transformer, classifier: classifier}
}

// LearnOne updates the transformer with the raw observation, then folds the
// transformed observation into the classifier at weight w.
func (p *Pipeline) LearnOne(x []float64, y int, w float64) {
	p.transformer.LearnOne(x, y)
	p.classifier.LearnOne(p.transformer.TransformOne(x), y, w)
}

// PredictOne transforms x and delegates to the wrapped classifier.
func (p *Pipeline) PredictOne(x []float64) int {
	return p.classifier.PredictOne(p.transformer.TransformOne(x))
}

// PredictProbaOne always returns ErrPredictProbaUnsupported.
func (p *Pipeline) PredictProbaOne(x []float64) ([]float64, error) {
	return nil, ErrPredictProbaUnsupported
}
