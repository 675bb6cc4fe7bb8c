package oracle

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Pair struct {
	Name string `yaml:"name" json:"name"`
	A    string `yaml:"a" json:"a"`
	B    string `yaml:"b" json:"b"`
}

type Report struct {
	ID      string   `json:"id"`
	Pair    Pair     `json:"pair"`
	Verdict *Verdict `json:"-"`
}

// RunBatch checks every pair on at most workers goroutines. Reports keep the
// order of pairs.
func RunBatch(o *Oracle, pairs []Pair, workers int) []*Report {
	if workers < 1 {
		workers = 1
	}

	reports := make([]*Report, len(pairs))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				reports[i] = o.checkPair(pairs[i])
			}
		}()
	}

	for i := range pairs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return reports
}

func (o *Oracle) checkPair(p Pair) *Report {
	r := &Report{ID: uuid.NewString(), Pair: p}
	if r.Pair.Name == "" {
		r.Pair.Name = r.ID
	}

	logger := o.logger.With(zap.String("id", r.ID), zap.String("pair", r.Pair.Name))
	logger.Debug("Checking pair")

	scoped := *o
	scoped.logger = logger
	r.Verdict = scoped.Check(p.A, p.B)

	if !r.Verdict.Pass() {
		logger.Info("Pair failed",
			zap.Bool("structural", r.Verdict.Structural),
			zap.Bool("semantic", r.Verdict.Semantic),
		)
	}

	return r
}
