package tree

// Criterion names a split quality measure.
type Criterion string

const (
	Gini         Criterion = "gini"
	Entropy      Criterion = "entropy"
	SquaredError Criterion = "squared_error"
)

// params holds the hyperparameters shared by both tree kinds.
type params struct {
	criterion       Criterion
	maxDepth        int // 0 means unlimited
	minSamplesSplit int
	minSamplesLeaf  int
	maxFeatures     int // 0 means all features
	randomState     uint64
}

// Option configures a decision tree.
type Option func(*params)

// WithCriterion sets the split quality measure.
func WithCriterion(c Criterion) Option {
	return func(p *params) { p.criterion = c }
}

// WithMaxDepth limits the depth of the tree; 0 means unlimited.
func WithMaxDepth(depth int) Option {
	return func(p *params) { p.maxDepth = depth }
}

// WithMinSamplesSplit sets the minimum number of samples needed to split a node.
func WithMinSamplesSplit(n int) Option {
	return func(p *params) { p.minSamplesSplit = n }
}

// WithMinSamplesLeaf sets the minimum number of samples in each leaf.
func WithMinSamplesLeaf(n int) Option {
	return func(p *params) { p.minSamplesLeaf = n }
}

// WithMaxFeatures sets how many features are examined per split; 0 means all.
// Candidate features are drawn in random order, and constant features do not
// count towards the limit.
func WithMaxFeatures(n int) Option {
	return func(p *params) { p.maxFeatures = n }
}

// WithRandomState seeds the feature permutation.
func WithRandomState(seed uint64) Option {
	return func(p *params) { p.randomState = seed }
}

func newParams(criterion Criterion, opts []Option) params {
	p := params{
		criterion:       criterion,
		minSamplesSplit: 2,
		minSamplesLeaf:  1,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

func (p params) asMap() map[string]interface{} {
	return map[string]interface{}{
		"criterion":         string(p.criterion),
		"max_depth":         p.maxDepth,
		"min_samples_split": p.minSamplesSplit,
		"min_samples_leaf":  p.minSamplesLeaf,
		"max_features":      p.maxFeatures,
		"random_state":      p.randomState,
	}
}
