package training

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/Kiiichu/stress-estimator/internal/domain/model"
	"github.com/Kiiichu/stress-estimator/internal/infrastructure/oracle"
)

// minGain is the smallest squared-error reduction worth a split.
const minGain = 1e-9

// ForestConfig controls regression forest training.
type ForestConfig struct {
	Trees    int
	MaxDepth int
	MinLeaf  int
	Seed     uint64
	// Workers bounds parallel tree construction. Zero means GOMAXPROCS.
	Workers int
}

// Validate checks the configuration.
func (c ForestConfig) Validate() error {
	if c.Trees < 1 {
		return fmt.Errorf("trees must be at least 1, got %d", c.Trees)
	}
	if c.MaxDepth < 1 {
		return fmt.Errorf("max depth must be at least 1, got %d", c.MaxDepth)
	}
	if c.MinLeaf < 1 {
		return fmt.Errorf("min leaf must be at least 1, got %d", c.MinLeaf)
	}
	return nil
}

// TrainForest grows cfg.Trees regression trees on bootstrap samples of d.
// Every tree has its own seeded generator, so the result does not depend on
// scheduling.
func TrainForest(ctx context.Context, d Dataset, cfg ForestConfig) ([]oracle.Tree, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if d.Len() == 0 {
		return nil, fmt.Errorf("cannot train on an empty dataset")
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	trees := make([]oracle.Tree, cfg.Trees)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range trees {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			rng := rand.New(rand.NewPCG(cfg.Seed, uint64(i)))
			sample := make([]int, d.Len())
			for j := range sample {
				sample[j] = rng.IntN(d.Len())
			}

			b := &treeBuilder{data: d, maxDepth: cfg.MaxDepth, minLeaf: cfg.MinLeaf}
			b.build(sample, 0)
			trees[i] = oracle.Tree{Nodes: b.nodes}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("train forest: %w", err)
	}
	return trees, nil
}

type treeBuilder struct {
	data     Dataset
	nodes    []oracle.Node
	maxDepth int
	minLeaf  int
}

type split struct {
	feature   int
	threshold float64
}

// build appends the subtree for idx and returns its root index. Children are
// always appended after their parent.
func (b *treeBuilder) build(idx []int, depth int) int {
	pos := len(b.nodes)
	b.nodes = append(b.nodes, oracle.Node{Feature: oracle.LeafFeature, Value: b.mean(idx)})

	if depth >= b.maxDepth || len(idx) < 2*b.minLeaf {
		return pos
	}

	s, ok := b.bestSplit(idx)
	if !ok {
		return pos
	}

	var left, right []int
	for _, i := range idx {
		if b.data.X[i][s.feature] <= s.threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	l := b.build(left, depth+1)
	r := b.build(right, depth+1)
	b.nodes[pos] = oracle.Node{Feature: s.feature, Threshold: s.threshold, Left: l, Right: r}

	return pos
}

func (b *treeBuilder) mean(idx []int) float64 {
	var sum float64
	for _, i := range idx {
		sum += b.data.Y[i]
	}
	return sum / float64(len(idx))
}

// bestSplit scans every feature for the threshold with the largest
// reduction in squared error, respecting the minimum leaf size.
func (b *treeBuilder) bestSplit(idx []int) (split, bool) {
	n := len(idx)

	var total float64
	for _, i := range idx {
		total += b.data.Y[i]
	}
	parent := total * total / float64(n)

	best := split{}
	bestScore := parent + minGain
	found := false

	sorted := make([]int, n)
	for f := 0; f < model.FeatureCount; f++ {
		copy(sorted, idx)
		slices.SortFunc(sorted, func(a, c int) int {
			xa, xc := b.data.X[a][f], b.data.X[c][f]
			switch {
			case xa < xc:
				return -1
			case xa > xc:
				return 1
			default:
				return 0
			}
		})

		var leftSum float64
		for k := 1; k < n; k++ {
			leftSum += b.data.Y[sorted[k-1]]

			if k < b.minLeaf || n-k < b.minLeaf {
				continue
			}
			lo, hi := b.data.X[sorted[k-1]][f], b.data.X[sorted[k]][f]
			if lo == hi {
				continue
			}

			rightSum := total - leftSum
			score := leftSum*leftSum/float64(k) + rightSum*rightSum/float64(n-k)
			if score > bestScore {
				bestScore = score
				best = split{feature: f, threshold: (lo + hi) / 2}
				found = true
			}
		}
	}

	return best, found
}
