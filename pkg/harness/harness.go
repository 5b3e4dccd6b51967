// Package harness runs programs on the cpu core under explicit budgets.
// The core itself never fails; distinguishing a clean HALT from a runaway
// program is a host duty, and this package owns it.
package harness

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/oisee/z80-twin/pkg/cpu"
)

// Budget bounds one run. Zero fields mean unbounded for that dimension;
// a fully zero budget falls back to DefaultBudget.
type Budget struct {
	MaxCycles uint64
	MaxSteps  uint64
}

// DefaultBudget is generous enough for every bundled program while still
// catching infinite loops promptly.
var DefaultBudget = Budget{MaxCycles: 10_000_000}

// Job is one program execution: an image to load plus an optional register
// setup applied after reset.
type Job struct {
	Program []uint8
	Base    uint16
	Init    func(*cpu.CPU)
}

// Outcome reports how a run ended. Halted distinguishes clean termination
// from budget exhaustion; the CPU is handed back for state inspection.
type Outcome struct {
	Halted bool
	Cycles uint64
	Steps  uint64
	CPU    *cpu.CPU
}

// Run executes one job on a fresh core until it halts or the budget runs
// out.
func Run(job Job, budget Budget) Outcome {
	if budget.MaxCycles == 0 && budget.MaxSteps == 0 {
		budget = DefaultBudget
	}

	c := cpu.New()
	c.LoadProgram(job.Program, job.Base)
	c.PC = job.Base
	if job.Init != nil {
		job.Init(c)
	}

	start := c.TStates
	var steps uint64
	for !c.Halted {
		if budget.MaxCycles != 0 && c.TStates-start >= budget.MaxCycles {
			break
		}
		if budget.MaxSteps != 0 && steps >= budget.MaxSteps {
			break
		}
		c.Step()
		steps++
	}

	return Outcome{
		Halted: c.Halted,
		Cycles: c.TStates - start,
		Steps:  steps,
		CPU:    c,
	}
}

// Pool fans jobs out across worker goroutines. Every job gets its own
// core; workers share nothing but the counters.
type Pool struct {
	NumWorkers int

	completed atomic.Int64
	halted    atomic.Int64
}

// NewPool creates a pool with the given number of workers (0 = NumCPU).
func NewPool(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &Pool{NumWorkers: numWorkers}
}

// Stats returns how many jobs finished and how many of those halted
// cleanly.
func (p *Pool) Stats() (completed, halted int64) {
	return p.completed.Load(), p.halted.Load()
}

// RunJobs executes all jobs under one budget and returns the outcomes in
// job order.
func (p *Pool) RunJobs(jobs []Job, budget Budget) []Outcome {
	outcomes := make([]Outcome, len(jobs))

	ch := make(chan int, len(jobs))
	for i := range jobs {
		ch <- i
	}
	close(ch)

	var wg sync.WaitGroup
	for w := 0; w < p.NumWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range ch {
				out := Run(jobs[i], budget)
				outcomes[i] = out
				p.completed.Add(1)
				if out.Halted {
					p.halted.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	return outcomes
}
