package pipeline

import (
	"github.com/Da050/Data-Analyzer-Pro/ensemble"
	"github.com/Da050/Data-Analyzer-Pro/pkg/log"
	"github.com/Da050/Data-Analyzer-Pro/task"
)

const (
	// DefaultTestFraction is the share of rows held out for evaluation.
	DefaultTestFraction = 0.2
	// DefaultRandomState seeds the split and every stochastic model choice.
	DefaultRandomState uint64 = 42
	// MinRows is the smallest table Train accepts.
	MinRows = 10
)

type settings struct {
	testFraction        float64
	randomState         uint64
	nEstimators         int
	nJobs               int
	maxClassCardinality int
	logger              log.Logger
}

// Option configures Train and CrossValidate.
type Option func(*settings)

// WithTestFraction sets the held-out share of rows, in (0, 1).
func WithTestFraction(f float64) Option {
	return func(s *settings) { s.testFraction = f }
}

// WithRandomState sets the seed for the split and the forest.
func WithRandomState(seed uint64) Option {
	return func(s *settings) { s.randomState = seed }
}

// WithNEstimators sets the number of trees in random forests.
func WithNEstimators(n int) Option {
	return func(s *settings) { s.nEstimators = n }
}

// WithNJobs bounds how many trees are grown concurrently; 0 uses every CPU.
func WithNJobs(n int) Option {
	return func(s *settings) { s.nJobs = n }
}

// WithMaxClassCardinality overrides task.DefaultMaxClassCardinality.
func WithMaxClassCardinality(n int) Option {
	return func(s *settings) { s.maxClassCardinality = n }
}

// WithLogger sets the logger for training progress.
func WithLogger(l log.Logger) Option {
	return func(s *settings) { s.logger = l }
}

func newSettings(opts []Option) *settings {
	s := &settings{
		testFraction:        DefaultTestFraction,
		randomState:         DefaultRandomState,
		nEstimators:         ensemble.DefaultNEstimators,
		maxClassCardinality: task.DefaultMaxClassCardinality,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.GetLoggerWithName("pipeline")
	}
	return s
}

func (s *settings) selector() task.Selector {
	return task.Selector{MaxClassCardinality: s.maxClassCardinality}
}
