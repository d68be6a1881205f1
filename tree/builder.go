package tree

import (
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/mat"
)

const (
	leaf          = -1
	impurityFloor = 1e-12
)

// node is one entry of the flattened tree. Leaves have left == right == leaf.
type node struct {
	feature   int
	threshold float64
	left      int
	right     int
	// value is the class distribution for classifiers and the mean target
	// (single entry) for regressors.
	value    []float64
	nSamples int
	impurity float64
}

// builder grows a tree by recursive binary splitting.
type builder struct {
	p        params
	cols     [][]float64 // column-major copy of X
	y        []float64   // class index for classifiers, target for regressors
	nClasses int         // 0 for regression
	rng      *rand.Rand

	nodes       []node
	importances []float64
	depth       int
}

func columns(X mat.Matrix) [][]float64 {
	r, c := X.Dims()
	cols := make([][]float64, c)
	for j := range cols {
		cols[j] = make([]float64, r)
		mat.Col(cols[j], j, X)
	}
	return cols
}

func newBuilder(p params, X mat.Matrix, y []float64, nClasses int) *builder {
	_, c := X.Dims()
	return &builder{
		p:           p,
		cols:        columns(X),
		y:           y,
		nClasses:    nClasses,
		rng:         rand.New(rand.NewPCG(p.randomState, 0x5851f42d4c957f2d)),
		importances: make([]float64, c),
	}
}

// grow builds the tree over rows (duplicates allowed) and returns the
// flattened nodes and normalised impurity-decrease importances.
func (b *builder) grow(rows []int) ([]node, []float64, int) {
	b.split(rows, 0)

	total := 0.0
	for _, v := range b.importances {
		total += v
	}
	if total > 0 {
		for j := range b.importances {
			b.importances[j] /= total
		}
	}
	return b.nodes, b.importances, b.depth
}

func (b *builder) split(rows []int, depth int) int {
	if depth > b.depth {
		b.depth = depth
	}
	idx := len(b.nodes)
	value, impurity := b.summarise(rows)
	b.nodes = append(b.nodes, node{
		feature:  leaf,
		left:     leaf,
		right:    leaf,
		value:    value,
		nSamples: len(rows),
		impurity: impurity,
	})

	n := len(rows)
	if impurity <= impurityFloor ||
		n < b.p.minSamplesSplit ||
		n < 2*b.p.minSamplesLeaf ||
		(b.p.maxDepth > 0 && depth >= b.p.maxDepth) {
		return idx
	}

	feature, threshold, childImpurity, ok := b.bestSplit(rows)
	if !ok || childImpurity >= impurity-impurityFloor {
		return idx
	}

	var left, right []int
	for _, r := range rows {
		if b.cols[feature][r] <= threshold {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}

	_, impL := b.summarise(left)
	_, impR := b.summarise(right)
	b.importances[feature] += float64(n)*impurity - float64(len(left))*impL - float64(len(right))*impR

	l := b.split(left, depth+1)
	r := b.split(right, depth+1)
	b.nodes[idx].feature = feature
	b.nodes[idx].threshold = threshold
	b.nodes[idx].left = l
	b.nodes[idx].right = r
	return idx
}

// summarise returns the node value and impurity for rows.
func (b *builder) summarise(rows []int) ([]float64, float64) {
	n := float64(len(rows))
	if b.nClasses == 0 {
		sum, sumSq := 0.0, 0.0
		for _, r := range rows {
			sum += b.y[r]
			sumSq += b.y[r] * b.y[r]
		}
		mean := sum / n
		return []float64{mean}, math.Max(sumSq/n-mean*mean, 0)
	}

	counts := make([]float64, b.nClasses)
	for _, r := range rows {
		counts[int(b.y[r])]++
	}
	imp := b.classImpurity(counts, n)
	for k := range counts {
		counts[k] /= n
	}
	return counts, imp
}

func (b *builder) classImpurity(counts []float64, n float64) float64 {
	if n == 0 {
		return 0
	}
	if b.p.criterion == Entropy {
		h := 0.0
		for _, c := range counts {
			if c > 0 {
				p := c / n
				h -= p * math.Log2(p)
			}
		}
		return h
	}
	g := 1.0
	for _, c := range counts {
		p := c / n
		g -= p * p
	}
	return g
}

// bestSplit searches candidate features for the threshold minimising the
// weighted child impurity.
func (b *builder) bestSplit(rows []int) (feature int, threshold, best float64, ok bool) {
	nFeatures := len(b.cols)
	order := b.rng.Perm(nFeatures)
	limit := b.p.maxFeatures
	if limit <= 0 || limit > nFeatures {
		limit = nFeatures
	}

	best = math.Inf(1)
	sorted := make([]int, len(rows))
	visited := 0
	for _, f := range order {
		if visited >= limit {
			break
		}
		col := b.cols[f]
		copy(sorted, rows)
		sort.Slice(sorted, func(i, j int) bool { return col[sorted[i]] < col[sorted[j]] })
		if col[sorted[0]] == col[sorted[len(sorted)-1]] {
			continue
		}
		visited++

		t, imp, found := b.scanFeature(col, sorted)
		if found && imp < best {
			feature, threshold, best, ok = f, t, imp, true
		}
	}
	return feature, threshold, best, ok
}

// scanFeature sweeps the thresholds between consecutive distinct values of
// col over sorted rows.
func (b *builder) scanFeature(col []float64, sorted []int) (float64, float64, bool) {
	n := len(sorted)
	minLeaf := b.p.minSamplesLeaf
	best := math.Inf(1)
	threshold := 0.0
	found := false

	if b.nClasses == 0 {
		totalSum, totalSq := 0.0, 0.0
		for _, r := range sorted {
			totalSum += b.y[r]
			totalSq += b.y[r] * b.y[r]
		}
		leftSum, leftSq := 0.0, 0.0
		for i := 0; i < n-1; i++ {
			v := b.y[sorted[i]]
			leftSum += v
			leftSq += v * v
			if col[sorted[i]] == col[sorted[i+1]] {
				continue
			}
			nl, nr := float64(i+1), float64(n-i-1)
			if int(nl) < minLeaf || int(nr) < minLeaf {
				continue
			}
			rightSum, rightSq := totalSum-leftSum, totalSq-leftSq
			impL := math.Max(leftSq/nl-(leftSum/nl)*(leftSum/nl), 0)
			impR := math.Max(rightSq/nr-(rightSum/nr)*(rightSum/nr), 0)
			imp := (nl*impL + nr*impR) / float64(n)
			if imp < best {
				best, threshold, found = imp, midpoint(col[sorted[i]], col[sorted[i+1]]), true
			}
		}
		return threshold, best, found
	}

	total := make([]float64, b.nClasses)
	for _, r := range sorted {
		total[int(b.y[r])]++
	}
	left := make([]float64, b.nClasses)
	right := make([]float64, b.nClasses)
	for i := 0; i < n-1; i++ {
		left[int(b.y[sorted[i]])]++
		if col[sorted[i]] == col[sorted[i+1]] {
			continue
		}
		nl, nr := float64(i+1), float64(n-i-1)
		if int(nl) < minLeaf || int(nr) < minLeaf {
			continue
		}
		for k := range right {
			right[k] = total[k] - left[k]
		}
		imp := (nl*b.classImpurity(left, nl) + nr*b.classImpurity(right, nr)) / float64(n)
		if imp < best {
			best, threshold, found = imp, midpoint(col[sorted[i]], col[sorted[i+1]]), true
		}
	}
	return threshold, best, found
}

func midpoint(a, b float64) float64 {
	m := a + (b-a)/2
	if m >= b {
		return a
	}
	return m
}

// leafFor walks the tree for one row of X.
func leafFor(nodes []node, X mat.Matrix, i int) *node {
	n := &nodes[0]
	for n.left != leaf {
		if X.At(i, n.feature) <= n.threshold {
			n = &nodes[n.left]
		} else {
			n = &nodes[n.right]
		}
	}
	return n
}
