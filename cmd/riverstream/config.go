package main

import (
	"fmt"
	"os"

	"github.com/Apolynoid/riverstream/classifiers/hoeffding"
	"github.com/Apolynoid/riverstream/drift"
	"github.com/Apolynoid/riverstream/ensemble"
	"gopkg.in/yaml.v3"
)

// detectorKind names one of the four drift.Detector implementations this
// driver knows how to build from a config file.
type detectorKind string

const (
	detectorDDM          detectorKind = "ddm"
	detectorHDDMW        detectorKind = "hddmw"
	detectorPageHinckley detectorKind = "page_hinckley"
	detectorADWIN        detectorKind = "adwin"
)

// detectorSpec selects and parameterizes one drift detector. Which fields
// apply depends on Kind; unused fields are ignored.
type detectorSpec struct {
	Kind         detectorKind `yaml:"kind"`
	Threshold    float64      `yaml:"threshold"`
	WarmStart    int          `yaml:"warm_start"`
	Confidence   float64      `yaml:"confidence"`
	Lambda       float64      `yaml:"lambda"`
	Delta        float64      `yaml:"delta"`
	DeltaAlpha   float64      `yaml:"delta_alpha"`
	MinInstances int          `yaml:"min_instances"`
	Clock        int          `yaml:"clock"`
	MinWindow    int          `yaml:"min_window"`
	GracePeriod  int          `yaml:"grace_period"`
}

func (s detectorSpec) build() (drift.Detector, error) {
	switch s.Kind {
	case detectorDDM, "":
		return drift.NewDDM(orDefault(s.Threshold, 3.0), orDefaultInt(s.WarmStart, 30)), nil
	case detectorHDDMW:
		return drift.NewHDDMW(orDefault(s.Confidence, 0.001), orDefault(s.Lambda, 0.05)), nil
	case detectorPageHinckley:
		return drift.NewPageHinckley(orDefault(s.Threshold, 10.0), orDefault(s.Delta, 0.005), orDefault(s.DeltaAlpha, 0.9999), orDefaultInt(s.MinInstances, 30)), nil
	case detectorADWIN:
		return drift.NewADWIN(orDefault(s.Delta, 0.002), orDefaultInt(s.Clock, 32), orDefaultInt(s.MinWindow, 5), orDefaultInt(s.GracePeriod, 10)), nil
	default:
		return nil, fmt.Errorf("config: unknown detector kind %q", s.Kind)
	}
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

func orDefaultInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

// runConfig is the YAML-loadable hyperparameter surface for a run. It
// unmarshals directly into the library's own Config structs — there is no
// separate config DSL, per SPEC_FULL.md's ambient stack.
type runConfig struct {
	NumFeatures int `yaml:"num_features"`
	NumClasses  int `yaml:"num_classes"`

	Tree hoeffding.Config `yaml:"tree"`

	NumModels   int          `yaml:"num_models"`
	MaxFeatures int          `yaml:"max_features"`
	Seed        int64        `yaml:"seed"`
	LambdaValue float64      `yaml:"lambda_value"`
	Warning     detectorSpec `yaml:"warning_detector"`
	Drift       detectorSpec `yaml:"drift_detector"`
}

func defaultRunConfig(numFeatures, numClasses int) runConfig {
	tree := hoeffding.DefaultConfig(numFeatures, numClasses)
	return runConfig{
		NumFeatures: numFeatures,
		NumClasses:  numClasses,
		Tree:        *tree,
		NumModels:   10,
		MaxFeatures: isqrtDefault(numFeatures),
		Seed:        42,
		LambdaValue: 6,
		Warning:     detectorSpec{Kind: detectorDDM, Threshold: 2.0, WarmStart: 30},
		Drift:       detectorSpec{Kind: detectorDDM, Threshold: 3.0, WarmStart: 30},
	}
}

func isqrtDefault(n int) int {
	r := 1
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}

func loadRunConfig(path string, numFeatures, numClasses int) (runConfig, error) {
	cfg := defaultRunConfig(numFeatures, numClasses)
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

func (c runConfig) buildForest() (*ensemble.Forest[drift.Detector], error) {
	// Build once to validate the specs before handing the factories to the
	// ensemble, so a bad config fails before the first record rather than
	// inside a background-tree creation mid-stream.
	if _, err := c.Warning.build(); err != nil {
		return nil, fmt.Errorf("warning_detector: %w", err)
	}
	if _, err := c.Drift.build(); err != nil {
		return nil, fmt.Errorf("drift_detector: %w", err)
	}

	warningSpec, driftSpec := c.Warning, c.Drift
	warningFactory := drift.Factory[drift.Detector](func() drift.Detector {
		d, _ := warningSpec.build()
		return d
	})
	driftFactory := drift.Factory[drift.Detector](func() drift.Detector {
		d, _ := driftSpec.build()
		return d
	})

	econf := ensemble.DefaultConfig[drift.Detector](c.NumFeatures, c.NumClasses, warningFactory, driftFactory)
	econf.NumModels = c.NumModels
	econf.MaxFeatures = c.MaxFeatures
	econf.Seed = c.Seed
	econf.LambdaValue = c.LambdaValue
	econf.GracePeriod = c.Tree.GracePeriod
	econf.Delta = c.Tree.Delta
	econf.Tau = c.Tree.Tau
	econf.MaxShareToSplit = c.Tree.MaxShareToSplit
	econf.MinBranchFraction = c.Tree.MinBranchFraction
	econf.MaxDepth = c.Tree.MaxDepth
	econf.MaxSizeMB = c.Tree.MaxSizeMB
	econf.MeritPreprune = c.Tree.MeritPreprune

	return ensemble.New[drift.Detector](econf), nil
}
