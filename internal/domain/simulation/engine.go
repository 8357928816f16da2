package simulation

import (
	"context"
	"math"
	"math/rand"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/quantlab-id/riskcast/internal/domain"
	"github.com/quantlab-id/riskcast/internal/domain/stats"
)

// PercentileLevels are the cross-path percentile bands computed per day.
var PercentileLevels = []int{5, 25, 50, 75, 95}

// Ensemble is the result of one Monte Carlo run: cumulative simulated
// returns per path per day, each path's final return and max drawdown
// (signed negative), and per-day cross-path percentile curves. Ensembles
// are read-only to consumers; a new run produces a new ensemble.
type Ensemble struct {
	Paths        [][]float64       // num_simulations x time_horizon
	FinalReturns []float64         // length num_simulations
	MaxDrawdowns []float64         // length num_simulations, <= 0
	Percentiles  map[int][]float64 // level -> per-day curve of length time_horizon
	TimeHorizon  int
	MeanReturn   float64
	Volatility   float64
	Weights      []float64
	Assets       []string
}

// seedStride decorrelates per-path generator seeds (golden-ratio increment).
const seedStride int64 = -0x61c8864680b583eb

// Engine generates return-path ensembles. Paths are statistically
// independent, so they are fanned out over a bounded worker pool; each path
// owns a generator seeded from the base seed and the path index, which
// keeps results bit-identical for a given seed regardless of worker count.
type Engine struct {
	workers int
}

// NewEngine returns an engine sized to the available CPUs.
func NewEngine() *Engine {
	return &Engine{workers: runtime.GOMAXPROCS(0)}
}

// NewEngineWithWorkers returns an engine with a fixed worker count.
func NewEngineWithWorkers(workers int) *Engine {
	if workers < 1 {
		workers = 1
	}
	return &Engine{workers: workers}
}

// Simulate draws numSimulations independent paths of timeHorizon i.i.d.
// daily returns from Normal(model.MeanDailyReturn, model.Volatility) and
// reduces them into an Ensemble. A non-nil seed makes the run exactly
// reproducible; otherwise each call uses fresh entropy. The context is
// honored between paths; on cancellation no partial ensemble is returned.
func (e *Engine) Simulate(ctx context.Context, model *ReturnModel, numSimulations, timeHorizon int, seed *int64) (*Ensemble, error) {
	if model == nil {
		return nil, domain.NewInputError("simulate: nil return model")
	}
	if numSimulations <= 0 {
		return nil, domain.NewInputError("simulate: num_simulations must be positive, got %d", numSimulations)
	}
	if timeHorizon <= 0 {
		return nil, domain.NewInputError("simulate: time_horizon must be positive, got %d", timeHorizon)
	}
	mean, vol := model.MeanDailyReturn, model.Volatility
	if math.IsNaN(mean) || math.IsInf(mean, 0) {
		return nil, domain.NewInputError("simulate: mean daily return %v is not finite", mean)
	}
	if math.IsNaN(vol) || math.IsInf(vol, 0) || vol < 0 {
		return nil, domain.NewInputError("simulate: volatility %v must be finite and >= 0", vol)
	}

	base := time.Now().UnixNano()
	if seed != nil {
		base = *seed
	}

	paths := make([][]float64, numSimulations)
	finals := make([]float64, numSimulations)
	drawdowns := make([]float64, numSimulations)

	jobs := make(chan int)
	go func() {
		defer close(jobs)
		for i := 0; i < numSimulations; i++ {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	workers := e.workers
	if workers > numSimulations {
		workers = numSimulations
	}
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				rng := rand.New(rand.NewSource(base + int64(i)*seedStride))
				curve, final, maxDD := simulatePath(rng, mean, vol, timeHorizon)
				paths[i] = curve
				finals[i] = final
				drawdowns[i] = maxDD
			}
		}()
	}
	wg.Wait()

	// The percentile reduction is only valid over the complete ensemble.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &Ensemble{
		Paths:        paths,
		FinalReturns: finals,
		MaxDrawdowns: drawdowns,
		Percentiles:  crossPathPercentiles(paths, timeHorizon),
		TimeHorizon:  timeHorizon,
		MeanReturn:   mean,
		Volatility:   vol,
		Weights:      append([]float64(nil), model.Weights...),
		Assets:       append([]string(nil), model.Symbols...),
	}, nil
}

// simulatePath draws one path: cumulative return curve cumprod(1+r)-1 and
// the max drawdown tracked against a running peak that starts at 0 and only
// increases. The drawdown is returned negated (more negative = worse).
func simulatePath(rng *rand.Rand, mean, vol float64, horizon int) (curve []float64, final, maxDD float64) {
	curve = make([]float64, horizon)
	cum := 1.0
	peak := 0.0
	worst := 0.0
	for t := 0; t < horizon; t++ {
		r := mean + vol*rng.NormFloat64()
		cum *= 1 + r
		v := cum - 1
		curve[t] = v
		if v > peak {
			peak = v
		}
		if dd := (peak - v) / (1 + peak); dd > worst {
			worst = dd
		}
	}
	return curve, curve[horizon-1], -worst
}

// crossPathPercentiles computes the per-day percentile bands across all
// paths: at each time step independently, not per path.
func crossPathPercentiles(paths [][]float64, horizon int) map[int][]float64 {
	out := make(map[int][]float64, len(PercentileLevels))
	for _, level := range PercentileLevels {
		out[level] = make([]float64, horizon)
	}
	scratch := make([]float64, len(paths))
	for t := 0; t < horizon; t++ {
		for i, path := range paths {
			scratch[i] = path[t]
		}
		sort.Float64s(scratch)
		for _, level := range PercentileLevels {
			out[level][t] = stats.PercentileSorted(scratch, float64(level))
		}
	}
	return out
}
