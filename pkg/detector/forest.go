package detector

import (
	"math"
	"math/rand"
	"sort"
)

const eulerGamma = 0.5772156649015329

// IsolationForest is an ensemble of random isolation trees over a single feature
type IsolationForest struct {
	numTrees      int
	contamination float64
	seed          int64

	sampleSize int
	trees      []*isolationNode
	threshold  float64
}

// isolationNode is a node in an isolation tree
type isolationNode struct {
	splitValue float64
	left       *isolationNode
	right      *isolationNode
	size       int
	isLeaf     bool
}

// NewIsolationForest creates an untrained forest
func NewIsolationForest(numTrees int, contamination float64, seed int64) *IsolationForest {
	return &IsolationForest{
		numTrees:      numTrees,
		contamination: contamination,
		seed:          seed,
	}
}

// FitPredict fits the forest on values and labels each value -1 (anomalous) or +1 (normal)
func (f *IsolationForest) FitPredict(values []float64) []int {
	f.fit(values)

	scores := f.scoreSamples(values)
	labels := make([]int, len(values))
	for i, s := range scores {
		if s < f.threshold {
			labels[i] = -1
		} else {
			labels[i] = 1
		}
	}
	return labels
}

func (f *IsolationForest) fit(values []float64) {
	rng := rand.New(rand.NewSource(f.seed))

	f.sampleSize = len(values)
	if f.sampleSize > 256 {
		f.sampleSize = 256
	}
	maxDepth := int(math.Ceil(math.Log2(math.Max(float64(f.sampleSize), 2))))

	f.trees = make([]*isolationNode, f.numTrees)
	for i := range f.trees {
		sample := subsample(rng, values, f.sampleSize)
		f.trees[i] = buildNode(rng, sample, 0, maxDepth)
	}

	f.threshold = percentile(f.scoreSamples(values), 100*f.contamination)
}

// scoreSamples returns the negated anomaly score; lower means more abnormal
func (f *IsolationForest) scoreSamples(values []float64) []float64 {
	norm := averagePathLength(f.sampleSize)
	scores := make([]float64, len(values))
	for i, v := range values {
		depth := 0.0
		for _, tree := range f.trees {
			depth += pathLength(v, tree, 0)
		}
		depth /= float64(len(f.trees))

		if norm == 0 {
			scores[i] = -1
			continue
		}
		scores[i] = -math.Pow(2, -depth/norm)
	}
	return scores
}

// subsample draws size values without replacement
func subsample(rng *rand.Rand, values []float64, size int) []float64 {
	perm := rng.Perm(len(values))
	sample := make([]float64, size)
	for i := 0; i < size; i++ {
		sample[i] = values[perm[i]]
	}
	return sample
}

// buildNode recursively splits data at a uniform point between its min and max
func buildNode(rng *rand.Rand, data []float64, depth, maxDepth int) *isolationNode {
	if len(data) <= 1 || depth >= maxDepth {
		return &isolationNode{isLeaf: true, size: len(data)}
	}

	minVal, maxVal := data[0], data[0]
	for _, d := range data {
		if d < minVal {
			minVal = d
		}
		if d > maxVal {
			maxVal = d
		}
	}
	if minVal == maxVal {
		return &isolationNode{isLeaf: true, size: len(data)}
	}

	splitValue := minVal + rng.Float64()*(maxVal-minVal)

	var leftData, rightData []float64
	for _, d := range data {
		if d < splitValue {
			leftData = append(leftData, d)
		} else {
			rightData = append(rightData, d)
		}
	}

	return &isolationNode{
		splitValue: splitValue,
		left:       buildNode(rng, leftData, depth+1, maxDepth),
		right:      buildNode(rng, rightData, depth+1, maxDepth),
		size:       len(data),
	}
}

// pathLength is the depth at which v lands, plus the expected remaining depth of its leaf
func pathLength(v float64, node *isolationNode, depth int) float64 {
	if node.isLeaf {
		return float64(depth) + averagePathLength(node.size)
	}
	if v < node.splitValue {
		return pathLength(v, node.left, depth+1)
	}
	return pathLength(v, node.right, depth+1)
}

// averagePathLength is c(n), the mean unsuccessful-search depth of a BST with n nodes
func averagePathLength(n int) float64 {
	if n <= 1 {
		return 0
	}
	if n == 2 {
		return 1
	}
	fn := float64(n)
	return 2*(math.Log(fn-1)+eulerGamma) - 2*(fn-1)/fn
}

// percentile uses linear interpolation between closest ranks
func percentile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	rank := q / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (rank-float64(lo))*(sorted[hi]-sorted[lo])
}
