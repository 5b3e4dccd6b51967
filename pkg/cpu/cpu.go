// Package cpu implements a cycle-counting Z80 core: the full register file
// with shadow bank and index registers, a flat 64 KiB memory, 256 I/O ports,
// and all four decode planes (unprefixed, CB, ED, DD/FD plus DD-CB/FD-CB).
package cpu

const (
	// MemorySize is the span of the flat address space.
	MemorySize = 1 << 16
	// PortCount is the span of the flat I/O space.
	PortCount = 1 << 8
	// StackTop is the SP value after reset.
	StackTop uint16 = 0xFFFF
)

// prefixState tracks which prefix byte sequence is in flight between fetches.
type prefixState uint8

const (
	stateNormal prefixState = iota
	stateCB
	stateDD
	stateED
	stateFD
	stateDDCB
	stateFDCB
)

// CPU is a single Z80 core. Instantiate one per emulated processor; cores
// share nothing and are not safe for concurrent use.
type CPU struct {
	// Main register bank.
	A, F, B, C, D, E, H, L uint8
	// Shadow bank (AF', BC', DE', HL'). Storage only: instructions never
	// fetch operands from it, they only exchange with it.
	A1, F1, B1, C1, D1, E1, H1, L1 uint8

	I, R uint8

	IX, IY uint16
	SP, PC uint16
	// WZ is the internal address latch (MEMPTR).
	WZ uint16

	IFF1, IFF2 bool
	IM         uint8

	Halted bool

	// TStates is the monotonic clock cycle counter.
	TStates uint64

	state prefixState
	// disp holds the displacement byte of an in-flight DD CB / FD CB
	// sequence, already captured from the instruction stream.
	disp int8

	mem   [MemorySize]uint8
	ports [PortCount]uint8
}

// New returns a CPU in its post-reset state.
func New() *CPU {
	c := &CPU{}
	c.Reset()
	return c
}

// Reset zeroes every register and puts SP at the top of memory. Memory,
// ports and the cycle counter are left as they are; hosts that want a clean
// image load one explicitly.
func (c *CPU) Reset() {
	c.A, c.F, c.B, c.C, c.D, c.E, c.H, c.L = 0, 0, 0, 0, 0, 0, 0, 0
	c.A1, c.F1, c.B1, c.C1, c.D1, c.E1, c.H1, c.L1 = 0, 0, 0, 0, 0, 0, 0, 0
	c.I, c.R = 0, 0
	c.IX, c.IY = 0, 0
	c.WZ = 0
	c.PC = 0
	c.SP = StackTop
	c.IFF1, c.IFF2 = false, false
	c.IM = 0
	c.Halted = false
	c.state = stateNormal
	c.disp = 0
}

// RunUntilCycle steps until the cycle counter reaches target or the CPU
// halts.
func (c *CPU) RunUntilCycle(target uint64) {
	for c.TStates < target && !c.Halted {
		c.Step()
	}
}

// Step executes one fetch: either a prefix byte (4 T-states, state change)
// or a complete instruction. While halted it does nothing; PC stays parked
// one past the HALT opcode and the counter stays frozen until the host
// clears Halted.
func (c *CPU) Step() {
	if c.Halted {
		return
	}

	opcode := c.fetch()

	switch c.state {
	case stateNormal:
		switch opcode {
		case 0xCB:
			c.state = stateCB
			c.TStates += 4
		case 0xDD:
			c.state = stateDD
			c.TStates += 4
		case 0xED:
			c.state = stateED
			c.TStates += 4
		case 0xFD:
			c.state = stateFD
			c.TStates += 4
		default:
			mainOps[opcode](c)
		}

	case stateCB:
		c.execCB(opcode)
		c.state = stateNormal

	case stateDD:
		switch opcode {
		case 0xCB:
			c.state = stateDDCB
			c.TStates += 4
		case 0xDD:
			// Repeated DD prefixes stay in DD.
			c.TStates += 4
		case 0xED:
			c.state = stateED
			c.TStates += 4
		case 0xFD:
			c.state = stateFD
			c.TStates += 4
		default:
			mainOps[opcode](c)
			c.state = stateNormal
		}

	case stateED:
		edOps[opcode](c)
		c.state = stateNormal

	case stateFD:
		switch opcode {
		case 0xCB:
			c.state = stateFDCB
			c.TStates += 4
		case 0xDD:
			c.state = stateDD
			c.TStates += 4
		case 0xED:
			c.state = stateED
			c.TStates += 4
		case 0xFD:
			c.TStates += 4
		default:
			mainOps[opcode](c)
			c.state = stateNormal
		}

	case stateDDCB, stateFDCB:
		// Layout is DD CB d op: the byte just fetched is the displacement,
		// the next one is the CB-style opcode.
		c.disp = int8(opcode)
		c.execCB(c.fetch())
		c.state = stateNormal
	}
}

// fetch reads the byte at PC and advances PC.
func (c *CPU) fetch() uint8 {
	b := c.mem[c.PC]
	c.PC++
	return b
}

// fetch16 reads a little-endian word at PC and advances PC by two.
func (c *CPU) fetch16() uint16 {
	lo := uint16(c.fetch())
	hi := uint16(c.fetch())
	return hi<<8 | lo
}

// LoadProgram copies bytes into memory starting at base, truncating at the
// top of the address space.
func (c *CPU) LoadProgram(program []uint8, base uint16) {
	for i := 0; i < len(program) && int(base)+i < MemorySize; i++ {
		c.mem[int(base)+i] = program[i]
	}
}

// ReadMemory returns the byte at address.
func (c *CPU) ReadMemory(address uint16) uint8 { return c.mem[address] }

// WriteMemory stores value at address.
func (c *CPU) WriteMemory(address uint16, value uint8) { c.mem[address] = value }

// CopyMemory returns a copy of the full 64 KiB image.
func (c *CPU) CopyMemory() []uint8 {
	out := make([]uint8, MemorySize)
	copy(out, c.mem[:])
	return out
}

// ReadPort returns the byte last written to port.
func (c *CPU) ReadPort(port uint8) uint8 { return c.ports[port] }

// WritePort stores value at port.
func (c *CPU) WritePort(port uint8, value uint8) { c.ports[port] = value }

// readMem16 reads a little-endian word at address.
func (c *CPU) readMem16(address uint16) uint16 {
	return uint16(c.mem[address]) | uint16(c.mem[address+1])<<8
}

// writeMem16 stores a little-endian word at address.
func (c *CPU) writeMem16(address uint16, value uint16) {
	c.mem[address] = uint8(value)
	c.mem[address+1] = uint8(value >> 8)
}

// Push16 pushes a word: SP drops by two, then low byte at SP, high at SP+1.
func (c *CPU) Push16(value uint16) {
	c.SP -= 2
	c.writeMem16(c.SP, value)
}

// Pop16 pops a little-endian word at SP and raises SP by two.
func (c *CPU) Pop16() uint16 {
	v := c.readMem16(c.SP)
	c.SP += 2
	return v
}

// effPair reads the pair the current opcode treats as HL: HL, IX or IY.
func (c *CPU) effPair() uint16 {
	switch c.state {
	case stateDD:
		return c.IX
	case stateFD:
		return c.IY
	default:
		return c.HL()
	}
}

// setEffPair writes the pair the current opcode treats as HL.
func (c *CPU) setEffPair(v uint16) {
	switch c.state {
	case stateDD:
		c.IX = v
	case stateFD:
		c.IY = v
	default:
		c.SetHL(v)
	}
}

// effMemAddr resolves a memory operand written as (HL). Under DD/FD it
// consumes the displacement byte at PC and charges the 12 T-states of the
// displacement computation; under DD CB / FD CB the displacement was
// captured earlier and the fixed sequence cost covers it.
func (c *CPU) effMemAddr() uint16 {
	switch c.state {
	case stateDD:
		c.TStates += 12
		return c.IX + uint16(int8(c.fetch()))
	case stateFD:
		c.TStates += 12
		return c.IY + uint16(int8(c.fetch()))
	case stateDDCB:
		return c.IX + uint16(c.disp)
	case stateFDCB:
		return c.IY + uint16(c.disp)
	default:
		return c.HL()
	}
}

// effH reads the register the current opcode treats as H (H, IXH or IYH).
func (c *CPU) effH() uint8 {
	switch c.state {
	case stateDD:
		return uint8(c.IX >> 8)
	case stateFD:
		return uint8(c.IY >> 8)
	default:
		return c.H
	}
}

func (c *CPU) setEffH(v uint8) {
	switch c.state {
	case stateDD:
		c.IX = c.IX&0x00FF | uint16(v)<<8
	case stateFD:
		c.IY = c.IY&0x00FF | uint16(v)<<8
	default:
		c.H = v
	}
}

// effL reads the register the current opcode treats as L (L, IXL or IYL).
func (c *CPU) effL() uint8 {
	switch c.state {
	case stateDD:
		return uint8(c.IX)
	case stateFD:
		return uint8(c.IY)
	default:
		return c.L
	}
}

func (c *CPU) setEffL(v uint8) {
	switch c.state {
	case stateDD:
		c.IX = c.IX&0xFF00 | uint16(v)
	case stateFD:
		c.IY = c.IY&0xFF00 | uint16(v)
	default:
		c.L = v
	}
}

// Register codes as encoded in bits of the opcode: B,C,D,E,H,L,(HL),A.
// Code 6 is the memory operand.

// getReg8 reads operand code r with prefix substitution applied: H and L
// become IXH/IXL (IYH/IYL) and (HL) becomes (IX+d)/(IY+d) while a DD/FD
// prefix is active.
func (c *CPU) getReg8(code uint8) uint8 {
	switch code {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return c.effH()
	case 5:
		return c.effL()
	case 6:
		return c.mem[c.effMemAddr()]
	default:
		return c.A
	}
}

// setReg8 writes operand code r with prefix substitution applied.
func (c *CPU) setReg8(code uint8, v uint8) {
	switch code {
	case 0:
		c.B = v
	case 1:
		c.C = v
	case 2:
		c.D = v
	case 3:
		c.E = v
	case 4:
		c.setEffH(v)
	case 5:
		c.setEffL(v)
	case 6:
		c.mem[c.effMemAddr()] = v
	default:
		c.A = v
	}
}

// getRegTrue reads operand code r without prefix substitution: H and L
// always name the true halves. Code 6 never reaches here.
func (c *CPU) getRegTrue(code uint8) uint8 {
	switch code {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return c.H
	case 5:
		return c.L
	default:
		return c.A
	}
}

// setRegTrue writes operand code r without prefix substitution.
func (c *CPU) setRegTrue(code uint8, v uint8) {
	switch code {
	case 0:
		c.B = v
	case 1:
		c.C = v
	case 2:
		c.D = v
	case 3:
		c.E = v
	case 4:
		c.H = v
	case 5:
		c.L = v
	default:
		c.A = v
	}
}

// Condition codes as encoded in bits 5-3 of conditional jumps, calls and
// returns: NZ, Z, NC, C, PO, PE, P, M.
func (c *CPU) condition(code uint8) bool {
	switch code {
	case 0:
		return c.F&FlagZ == 0
	case 1:
		return c.F&FlagZ != 0
	case 2:
		return c.F&FlagC == 0
	case 3:
		return c.F&FlagC != 0
	case 4:
		return c.F&FlagP == 0
	case 5:
		return c.F&FlagP != 0
	case 6:
		return c.F&FlagS == 0
	default:
		return c.F&FlagS != 0
	}
}
