package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/oisee/z80-twin/pkg/cpu"
	"github.com/oisee/z80-twin/pkg/harness"
	"github.com/oisee/z80-twin/pkg/inst"
	"github.com/spf13/cobra"
)

// gcdProgram is a subtractive Euclidean GCD. Input HL and DE, result HL.
var gcdProgram = []uint8{
	0x7A,       // 0x00: LD A, D        ; done when DE == 0
	0xB3,       // 0x01: OR E
	0x28, 0x0B, // 0x02: JR Z, end
	0xB7,       // 0x04: OR A           ; clear carry
	0xED, 0x52, // 0x05: SBC HL, DE     ; HL -= DE
	0x30, 0x02, // 0x07: JR NC, continue
	0x19,       // 0x09: ADD HL, DE     ; undo, then swap
	0xEB,       // 0x0A: EX DE, HL
	0x18, 0xF3, // 0x0B: JR main_loop
	0x18, 0xF1, // 0x0D: JR main_loop
	0x76, // 0x0F: HALT           ; result in HL
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "z80twin",
		Short: "Z80 digital twin — run programs on the emulated core",
	}

	// gcd command
	gcdCmd := &cobra.Command{
		Use:   "gcd <a> <b>",
		Short: "Compute GCD(a, b) on the emulated Z80",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := parseOperand(args[0])
			if err != nil {
				return err
			}
			b, err := parseOperand(args[1])
			if err != nil {
				return err
			}

			out := harness.Run(harness.Job{
				Program: gcdProgram,
				Init: func(c *cpu.CPU) {
					c.SetHL(a)
					c.SetDE(b)
				},
			}, harness.Budget{})
			if !out.Halted {
				return fmt.Errorf("program did not halt within %d cycles", out.Cycles)
			}

			fmt.Printf("GCD(%d, %d) = %d\n", a, b, out.CPU.HL())
			fmt.Printf("  %d instructions, %d T-states\n", out.Steps, out.Cycles)
			return nil
		},
	}

	// run command
	var base uint16
	var maxCycles uint64
	var trace bool

	runCmd := &cobra.Command{
		Use:   "run <file.bin>",
		Short: "Load a raw binary and run it until HALT or the cycle budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			program, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			c := cpu.New()
			c.LoadProgram(program, base)
			c.PC = base

			var steps uint64
			for !c.Halted && c.TStates < maxCycles {
				if trace {
					text, _ := inst.Disassemble(c.ReadMemory, c.PC)
					fmt.Printf("%04X  %s\n", c.PC, text)
				}
				c.Step()
				steps++
			}

			if c.Halted {
				fmt.Printf("halted after %d instructions, %d T-states\n", steps, c.TStates)
			} else {
				fmt.Printf("cycle budget (%d) exhausted after %d instructions\n", maxCycles, steps)
			}
			dumpRegisters(c)
			return nil
		},
	}
	runCmd.Flags().Uint16Var(&base, "base", 0, "Load and start address")
	runCmd.Flags().Uint64Var(&maxCycles, "max-cycles", 10_000_000, "T-state budget")
	runCmd.Flags().BoolVar(&trace, "trace", false, "Disassemble each instruction before executing it")

	// stress command
	var count int
	var numWorkers int
	var seed int64

	stressCmd := &cobra.Command{
		Use:   "stress",
		Short: "Randomized GCD sweep across a worker pool, checked against the host",
		RunE: func(cmd *cobra.Command, args []string) error {
			rng := rand.New(rand.NewSource(seed))

			type testCase struct{ a, b uint16 }
			cases := make([]testCase, count)
			jobs := make([]harness.Job, count)
			for i := range jobs {
				a := uint16(rng.Intn(65535) + 1)
				b := uint16(rng.Intn(65535) + 1)
				cases[i] = testCase{a, b}
				jobs[i] = harness.Job{
					Program: gcdProgram,
					Init: func(c *cpu.CPU) {
						c.SetHL(a)
						c.SetDE(b)
					},
				}
			}

			pool := harness.NewPool(numWorkers)
			fmt.Printf("Running %d GCD programs on %d workers\n", count, pool.NumWorkers)

			start := time.Now()
			outcomes := pool.RunJobs(jobs, harness.Budget{})
			elapsed := time.Since(start)

			failures := 0
			var totalCycles uint64
			for i, out := range outcomes {
				totalCycles += out.Cycles
				want := hostGCD(cases[i].a, cases[i].b)
				if !out.Halted {
					fmt.Printf("  FAIL gcd(%d, %d): did not halt\n", cases[i].a, cases[i].b)
					failures++
				} else if got := out.CPU.HL(); got != want {
					fmt.Printf("  FAIL gcd(%d, %d): got %d, want %d\n", cases[i].a, cases[i].b, got, want)
					failures++
				}
			}

			completed, halted := pool.Stats()
			fmt.Printf("%d completed, %d halted, %d failures\n", completed, halted, failures)
			fmt.Printf("%d T-states emulated in %v\n", totalCycles, elapsed)
			if failures > 0 {
				return fmt.Errorf("%d of %d runs failed", failures, count)
			}
			return nil
		},
	}
	stressCmd.Flags().IntVar(&count, "count", 1000, "Number of random GCD pairs")
	stressCmd.Flags().IntVar(&numWorkers, "workers", 0, "Number of workers (0 = NumCPU)")
	stressCmd.Flags().Int64Var(&seed, "seed", 1, "Random seed")

	// bench command
	var benchCycles uint64

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "Emulation throughput on a tight arithmetic loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			// INC A / DEC B / JR NZ back / JP 0: B=0 makes it loop the
			// full 256 counts, then start over via JP.
			program := []uint8{
				0x3C,       // INC A
				0x05,       // DEC B
				0x20, 0xFC, // JR NZ, -4
				0xC3, 0x00, 0x00, // JP 0
			}

			c := cpu.New()
			c.LoadProgram(program, 0)

			start := time.Now()
			c.RunUntilCycle(benchCycles)
			elapsed := time.Since(start)

			mhz := float64(c.TStates) / elapsed.Seconds() / 1e6
			fmt.Printf("%d T-states in %v (%.1f emulated MHz, %.1fx a 3.5 MHz part)\n",
				c.TStates, elapsed, mhz, mhz/3.5)
			return nil
		},
	}
	benchCmd.Flags().Uint64Var(&benchCycles, "cycles", 100_000_000, "T-states to emulate")

	rootCmd.AddCommand(gcdCmd, runCmd, stressCmd, benchCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// parseOperand validates a 1..65535 numeric argument before the CPU is
// ever touched.
func parseOperand(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil || v < 1 || v > 65535 {
		return 0, fmt.Errorf("operand %q must be an integer between 1 and 65535", s)
	}
	return uint16(v), nil
}

func hostGCD(a, b uint16) uint16 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func dumpRegisters(c *cpu.CPU) {
	fmt.Printf("  AF=%04X BC=%04X DE=%04X HL=%04X\n", c.AF(), c.BC(), c.DE(), c.HL())
	fmt.Printf("  IX=%04X IY=%04X SP=%04X PC=%04X\n", c.IX, c.IY, c.SP, c.PC)
	fmt.Printf("  IFF1=%v IFF2=%v IM=%d halted=%v T=%d\n", c.IFF1, c.IFF2, c.IM, c.Halted, c.TStates)
}
