package ensemble

// DefaultNEstimators is the number of trees grown when WithNEstimators is not given.
const DefaultNEstimators = 100

type config struct {
	nEstimators     int
	maxDepth        int
	minSamplesSplit int
	minSamplesLeaf  int
	maxFeatures     int // 0 means the per-kind default
	randomState     uint64
	nJobs           int // 0 means GOMAXPROCS
}

// Option configures a random forest.
type Option func(*config)

// WithNEstimators sets the number of trees.
func WithNEstimators(n int) Option {
	return func(c *config) { c.nEstimators = n }
}

// WithMaxDepth limits every tree's depth; 0 means unlimited.
func WithMaxDepth(depth int) Option {
	return func(c *config) { c.maxDepth = depth }
}

// WithMinSamplesSplit sets the minimum samples needed to split a node.
func WithMinSamplesSplit(n int) Option {
	return func(c *config) { c.minSamplesSplit = n }
}

// WithMinSamplesLeaf sets the minimum samples per leaf.
func WithMinSamplesLeaf(n int) Option {
	return func(c *config) { c.minSamplesLeaf = n }
}

// WithMaxFeatures overrides the number of features examined per split.
func WithMaxFeatures(n int) Option {
	return func(c *config) { c.maxFeatures = n }
}

// WithRandomState seeds bootstrap sampling and feature selection.
func WithRandomState(seed uint64) Option {
	return func(c *config) { c.randomState = seed }
}

// WithNJobs bounds the number of trees grown concurrently.
func WithNJobs(n int) Option {
	return func(c *config) { c.nJobs = n }
}

func newConfig(opts []Option) config {
	c := config{
		nEstimators:     DefaultNEstimators,
		minSamplesSplit: 2,
		minSamplesLeaf:  1,
		randomState:     42,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (c config) asMap() map[string]interface{} {
	return map[string]interface{}{
		"n_estimators":      c.nEstimators,
		"max_depth":         c.maxDepth,
		"min_samples_split": c.minSamplesSplit,
		"min_samples_leaf":  c.minSamplesLeaf,
		"max_features":      c.maxFeatures,
		"random_state":      c.randomState,
		"n_jobs":            c.nJobs,
	}
}
