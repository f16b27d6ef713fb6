package training

import (
	"math/rand"
	"sort"
)

// Node is one decision-tree node. Exported fields keep the trained forest
// JSON-serializable as the model artifact.
type Node struct {
	Leaf      bool    `json:"leaf"`
	Feature   int     `json:"feature,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
	Class     int     `json:"class"`
	Left      *Node   `json:"left,omitempty"`
	Right     *Node   `json:"right,omitempty"`
}

// treeParams bounds the growth of a single tree.
type treeParams struct {
	maxDepth        int
	minSamplesSplit int
	maxFeatures     int
}

// buildTree grows a CART tree with Gini splits over the sample indices.
// Inputs are dense numeric matrices; the cleaning stage guarantees no
// missing values reach training.
func buildTree(x [][]float64, y []int, idx []int, depth int, p treeParams, rnd *rand.Rand) *Node {
	counts := classCounts(y, idx)
	node := &Node{Class: majorityClass(counts)}

	if len(counts) <= 1 || len(idx) < p.minSamplesSplit || (p.maxDepth > 0 && depth >= p.maxDepth) {
		node.Leaf = true
		return node
	}

	feature, threshold, left, right, ok := bestSplit(x, y, idx, p.maxFeatures, rnd)
	if !ok {
		node.Leaf = true
		return node
	}

	node.Feature = feature
	node.Threshold = threshold
	node.Left = buildTree(x, y, left, depth+1, p, rnd)
	node.Right = buildTree(x, y, right, depth+1, p, rnd)
	return node
}

// bestSplit scans a random feature subset for the threshold with the best
// Gini gain. Thresholds are midpoints between adjacent distinct values.
func bestSplit(x [][]float64, y []int, idx []int, maxFeatures int, rnd *rand.Rand) (feature int, threshold float64, left, right []int, ok bool) {
	nFeatures := len(x[0])
	features := rnd.Perm(nFeatures)
	if maxFeatures > 0 && maxFeatures < nFeatures {
		features = features[:maxFeatures]
	}

	parent := gini(classCounts(y, idx))
	bestGain := 0.0

	for _, f := range features {
		ordered := make([]int, len(idx))
		copy(ordered, idx)
		sort.Slice(ordered, func(a, b int) bool { return x[ordered[a]][f] < x[ordered[b]][f] })

		for s := 1; s < len(ordered); s++ {
			prev, cur := x[ordered[s-1]][f], x[ordered[s]][f]
			if prev == cur {
				continue
			}
			l, r := ordered[:s], ordered[s:]
			weighted := (float64(len(l))*gini(classCounts(y, l)) +
				float64(len(r))*gini(classCounts(y, r))) / float64(len(idx))
			gain := parent - weighted
			if gain > bestGain {
				bestGain = gain
				feature = f
				threshold = (prev + cur) / 2
				left = append([]int(nil), l...)
				right = append([]int(nil), r...)
				ok = true
			}
		}
	}
	return feature, threshold, left, right, ok
}

// predictTree walks a sample down to a leaf.
func predictTree(node *Node, sample []float64) int {
	for !node.Leaf {
		if sample[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Class
}

func classCounts(y []int, idx []int) map[int]int {
	counts := make(map[int]int)
	for _, i := range idx {
		counts[y[i]]++
	}
	return counts
}

func majorityClass(counts map[int]int) int {
	best, bestCount := 0, -1
	for class, count := range counts {
		if count > bestCount || (count == bestCount && class < best) {
			best, bestCount = class, count
		}
	}
	return best
}

func gini(counts map[int]int) float64 {
	n := 0
	for _, c := range counts {
		n += c
	}
	if n == 0 {
		return 0
	}
	impurity := 1.0
	for _, c := range counts {
		p := float64(c) / float64(n)
		impurity -= p * p
	}
	return impurity
}
