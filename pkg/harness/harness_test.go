package harness

import (
	"testing"

	"github.com/oisee/z80-twin/pkg/cpu"
)

var gcdProgram = []uint8{
	0x7A, 0xB3, 0x28, 0x0B, 0xB7, 0xED, 0x52, 0x30,
	0x02, 0x19, 0xEB, 0x18, 0xF3, 0x18, 0xF1, 0x76,
}

// TestRunHalts: a terminating program reports Halted with its result
// readable from the returned core.
func TestRunHalts(t *testing.T) {
	out := Run(Job{
		Program: gcdProgram,
		Init: func(c *cpu.CPU) {
			c.SetHL(1071)
			c.SetDE(462)
		},
	}, Budget{})

	if !out.Halted {
		t.Fatal("GCD program must halt")
	}
	if got := out.CPU.HL(); got != 21 {
		t.Errorf("HL=%d, want 21", got)
	}
	if out.Cycles == 0 || out.Steps == 0 {
		t.Error("outcome must report nonzero work")
	}
}

// TestRunBudgetExhaustion: an endless loop comes back non-halted, not
// hung.
func TestRunBudgetExhaustion(t *testing.T) {
	loop := []uint8{0xC3, 0x00, 0x00} // JP 0

	out := Run(Job{Program: loop}, Budget{MaxCycles: 5000})
	if out.Halted {
		t.Fatal("JP loop must not halt")
	}
	if out.Cycles < 5000 {
		t.Errorf("budget run stopped early at %d cycles", out.Cycles)
	}

	out = Run(Job{Program: loop}, Budget{MaxSteps: 100})
	if out.Halted || out.Steps != 100 {
		t.Errorf("step budget: halted=%v steps=%d", out.Halted, out.Steps)
	}
}

// TestRunBaseAddress: programs load and start at the requested base.
func TestRunBaseAddress(t *testing.T) {
	out := Run(Job{
		Program: []uint8{0x3E, 0x42, 0x76}, // LD A,42; HALT
		Base:    0x4000,
	}, Budget{})
	if !out.Halted {
		t.Fatal("program did not halt")
	}
	if out.CPU.A != 0x42 {
		t.Errorf("A=%02X, want 42", out.CPU.A)
	}
	if out.CPU.PC != 0x4003 {
		t.Errorf("PC=%04X, want 4003", out.CPU.PC)
	}
}

// TestPoolRunsAllJobs: outcomes come back in job order with independent
// cores, and the counters agree.
func TestPoolRunsAllJobs(t *testing.T) {
	pairs := []struct{ a, b, want uint16 }{
		{1071, 462, 21},
		{48, 18, 6},
		{240, 46, 2},
		{99, 78, 3},
		{5, 5, 5},
		{64, 32, 32},
		{17, 13, 1},
		{1000, 35, 5},
	}

	jobs := make([]Job, len(pairs))
	for i, p := range pairs {
		a, b := p.a, p.b
		jobs[i] = Job{
			Program: gcdProgram,
			Init: func(c *cpu.CPU) {
				c.SetHL(a)
				c.SetDE(b)
			},
		}
	}

	pool := NewPool(4)
	outcomes := pool.RunJobs(jobs, Budget{})

	for i, out := range outcomes {
		if !out.Halted {
			t.Errorf("job %d did not halt", i)
			continue
		}
		if got := out.CPU.HL(); got != pairs[i].want {
			t.Errorf("job %d: gcd=%d, want %d", i, got, pairs[i].want)
		}
	}

	completed, halted := pool.Stats()
	if completed != int64(len(pairs)) || halted != int64(len(pairs)) {
		t.Errorf("stats: completed=%d halted=%d, want %d each", completed, halted, len(pairs))
	}
}

// TestPoolMixedOutcomes: budget failures and clean halts coexist.
func TestPoolMixedOutcomes(t *testing.T) {
	jobs := []Job{
		{Program: []uint8{0x76}},             // HALT immediately
		{Program: []uint8{0xC3, 0x00, 0x00}}, // never halts
	}

	pool := NewPool(2)
	outcomes := pool.RunJobs(jobs, Budget{MaxCycles: 1000})

	if !outcomes[0].Halted {
		t.Error("job 0 should halt")
	}
	if outcomes[1].Halted {
		t.Error("job 1 should exhaust its budget")
	}
	_, halted := pool.Stats()
	if halted != 1 {
		t.Errorf("halted=%d, want 1", halted)
	}
}
