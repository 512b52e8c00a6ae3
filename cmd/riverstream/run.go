package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Apolynoid/riverstream/pipeline"
	"github.com/Apolynoid/riverstream/transform"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var runFlags struct {
	input       string
	configPath  string
	numFeatures int
	numClasses  int
	delimiter   string
	skipHeader  bool
	labelFirst  bool
	rateHz      float64
	plotPath    string
	logEvery    int
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Replay a CSV stream through a Pipeline, reporting prequential accuracy",
		RunE:  runRun,
	}
	f := cmd.Flags()
	f.StringVar(&runFlags.input, "input", "", "path to a delimited data file (required)")
	f.StringVar(&runFlags.configPath, "config", "", "path to a YAML hyperparameter file (optional)")
	f.IntVar(&runFlags.numFeatures, "num-features", 0, "number of numeric feature columns (required)")
	f.IntVar(&runFlags.numClasses, "num-classes", 0, "number of class labels (required)")
	f.StringVar(&runFlags.delimiter, "delimiter", ",", "field delimiter")
	f.BoolVar(&runFlags.skipHeader, "skip-header", false, "skip the first line of the input file")
	f.BoolVar(&runFlags.labelFirst, "label-first", false, "label is the first column instead of the last")
	f.Float64Var(&runFlags.rateHz, "rate", 0, "throttle replay to this many records/sec (0 = unthrottled)")
	f.StringVar(&runFlags.plotPath, "plot", "", "write a PNG of prequential accuracy vs. record index to this path")
	f.IntVar(&runFlags.logEvery, "log-every", 10000, "log a progress line every N records")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("num-features")
	_ = cmd.MarkFlagRequired("num-classes")
	return cmd
}

// prequentialAccuracy tracks a running test-then-train accuracy: a true
// positive if the model's prediction (made before training on that record)
// matched the label.
type prequentialAccuracy struct {
	correct, total float64
	history        []float64
}

func (a *prequentialAccuracy) update(correct bool) {
	a.total++
	if correct {
		a.correct++
	}
	a.history = append(a.history, a.correct/a.total)
}

func (a *prequentialAccuracy) get() float64 {
	if a.total == 0 {
		return 0
	}
	return a.correct / a.total
}

func parseRecord(line, delimiter string, labelFirst bool) ([]float64, int, error) {
	fields := strings.Split(strings.TrimRight(line, "\r\n"), delimiter)
	if len(fields) < 2 {
		return nil, 0, fmt.Errorf("expected at least 2 fields, got %d", len(fields))
	}
	var labelField string
	var featureFields []string
	if labelFirst {
		labelField, featureFields = fields[0], fields[1:]
	} else {
		labelField, featureFields = fields[len(fields)-1], fields[:len(fields)-1]
	}
	labelVal, err := strconv.ParseFloat(strings.TrimSpace(labelField), 64)
	if err != nil {
		return nil, 0, fmt.Errorf("parsing label %q: %w", labelField, err)
	}
	x := make([]float64, len(featureFields))
	for i, f := range featureFields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, 0, fmt.Errorf("parsing feature %d %q: %w", i, f, err)
		}
		x[i] = v
	}
	return x, int(labelVal), nil
}

func runRun(cmd *cobra.Command, _ []string) error {
	runID := uuid.New().String()
	logger := rootLogger.With(zap.String("run_id", runID))

	if runFlags.numFeatures <= 0 || runFlags.numClasses <= 0 {
		return fmt.Errorf("--num-features and --num-classes must both be positive")
	}

	cfg, err := loadRunConfig(runFlags.configPath, runFlags.numFeatures, runFlags.numClasses)
	if err != nil {
		return err
	}
	forest, err := cfg.buildForest()
	if err != nil {
		return fmt.Errorf("building ensemble: %w", err)
	}
	scaler := transform.NewStandardScaler(runFlags.numFeatures)
	model := pipeline.New(scaler, forest)

	file, err := os.Open(runFlags.input)
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	defer file.Close()

	var limiter *rate.Limiter
	if runFlags.rateHz > 0 {
		limiter = rate.NewLimiter(rate.Limit(runFlags.rateHz), 1)
	}
	ctx := context.Background()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	metric := &prequentialAccuracy{}
	lineNo := 0
	skipped := 0

	start := time.Now()
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if lineNo == 1 && runFlags.skipHeader {
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		x, y, err := parseRecord(line, runFlags.delimiter, runFlags.labelFirst)
		if err != nil {
			logger.Warn("skipping unparseable record", zap.Int("line", lineNo), zap.Error(err))
			skipped++
			continue
		}

		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return fmt.Errorf("rate limiter: %w", err)
			}
		}

		pred := model.PredictOne(x)
		metric.update(pred == y)
		model.LearnOne(x, y, 1.0)

		if runFlags.logEvery > 0 && metric.total > 0 && int(metric.total)%runFlags.logEvery == 0 {
			logger.Info("progress",
				zap.Int("records", int(metric.total)),
				zap.Float64("accuracy", metric.get()))
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	elapsed := time.Since(start)

	if runFlags.plotPath != "" {
		if err := plotAccuracy(runFlags.plotPath, metric.history); err != nil {
			return fmt.Errorf("writing plot: %w", err)
		}
	}

	summary := fmt.Sprintf("records=%d skipped=%d accuracy=%.4f elapsed=%s", int(metric.total), skipped, metric.get(), elapsed)
	if metric.get() >= 0.5 {
		color.Green(summary)
	} else {
		color.Yellow(summary)
	}
	logger.Info("run complete",
		zap.Int("records", int(metric.total)),
		zap.Int("skipped", skipped),
		zap.Float64("accuracy", metric.get()),
		zap.Duration("elapsed", elapsed))
	return nil
}
