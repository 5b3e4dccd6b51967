package cpu

// The ED plane. Mostly empty on real silicon too: every slot not assigned
// below behaves as an 8-T-state NOP.

var edOps [256]func(*CPU)

func init() {
	for i := range edOps {
		edOps[i] = (*CPU).edNop
	}

	// IN r,(C) / OUT (C),r. ED 70 reads the port for flags only, ED 71
	// writes zero (both undocumented).
	for code := uint8(0); code < 8; code++ {
		r := code
		edOps[0x40+8*int(code)] = func(c *CPU) { c.edInRC(r) }
		edOps[0x41+8*int(code)] = func(c *CPU) { c.edOutCR(r) }
	}

	edOps[0x42] = func(c *CPU) { c.sbcHL(c.BC()); c.TStates += 15 }
	edOps[0x52] = func(c *CPU) { c.sbcHL(c.DE()); c.TStates += 15 }
	edOps[0x62] = func(c *CPU) { c.sbcHL(c.HL()); c.TStates += 15 }
	edOps[0x72] = func(c *CPU) { c.sbcHL(c.SP); c.TStates += 15 }
	edOps[0x4A] = func(c *CPU) { c.adcHL(c.BC()); c.TStates += 15 }
	edOps[0x5A] = func(c *CPU) { c.adcHL(c.DE()); c.TStates += 15 }
	edOps[0x6A] = func(c *CPU) { c.adcHL(c.HL()); c.TStates += 15 }
	edOps[0x7A] = func(c *CPU) { c.adcHL(c.SP); c.TStates += 15 }

	edOps[0x43] = func(c *CPU) { c.edStorePair(c.BC()) }
	edOps[0x53] = func(c *CPU) { c.edStorePair(c.DE()) }
	edOps[0x63] = func(c *CPU) { c.edStorePair(c.HL()) }
	edOps[0x73] = func(c *CPU) { c.edStorePair(c.SP) }
	edOps[0x4B] = func(c *CPU) { c.SetBC(c.edLoadPair()) }
	edOps[0x5B] = func(c *CPU) { c.SetDE(c.edLoadPair()) }
	edOps[0x6B] = func(c *CPU) { c.SetHL(c.edLoadPair()) }
	edOps[0x7B] = func(c *CPU) { c.SP = c.edLoadPair() }

	// NEG is decoded for all eight aliases.
	for _, op := range []int{0x44, 0x4C, 0x54, 0x5C, 0x64, 0x6C, 0x74, 0x7C} {
		edOps[op] = func(c *CPU) { c.neg(); c.TStates += 8 }
	}

	edOps[0x45] = (*CPU).edRETN
	edOps[0x4D] = (*CPU).edRETI
	for _, op := range []int{0x55, 0x65, 0x75} {
		edOps[op] = (*CPU).edRETN
	}
	for _, op := range []int{0x5D, 0x6D, 0x7D} {
		edOps[op] = (*CPU).edRETI
	}

	for _, op := range []int{0x46, 0x4E, 0x66, 0x6E} {
		edOps[op] = func(c *CPU) { c.IM = 0; c.TStates += 8 }
	}
	edOps[0x56] = func(c *CPU) { c.IM = 1; c.TStates += 8 }
	edOps[0x5E] = func(c *CPU) { c.IM = 2; c.TStates += 8 }
	edOps[0x7E] = func(c *CPU) { c.IM = 2; c.TStates += 8 }

	edOps[0x47] = func(c *CPU) { c.I = c.A; c.TStates += 9 }
	edOps[0x4F] = func(c *CPU) { c.R = c.A; c.TStates += 9 }
	edOps[0x57] = func(c *CPU) { c.edLoadAFrom(c.I) }
	edOps[0x5F] = func(c *CPU) { c.edLoadAFrom(c.R) }

	edOps[0x67] = (*CPU).edRRD
	edOps[0x6F] = (*CPU).edRLD

	// ED 76: SLL (HL), undocumented.
	edOps[0x76] = (*CPU).edSLLmHL

	edOps[0xA0] = func(c *CPU) { c.blockLD(1); c.TStates += 16 }
	edOps[0xA8] = func(c *CPU) { c.blockLD(-1); c.TStates += 16 }
	edOps[0xA1] = func(c *CPU) { c.blockCP(1); c.TStates += 16 }
	edOps[0xA9] = func(c *CPU) { c.blockCP(-1); c.TStates += 16 }
	edOps[0xA2] = func(c *CPU) { c.blockIN(1); c.TStates += 16 }
	edOps[0xAA] = func(c *CPU) { c.blockIN(-1); c.TStates += 16 }
	edOps[0xA3] = func(c *CPU) { c.blockOUT(1); c.TStates += 16 }
	edOps[0xAB] = func(c *CPU) { c.blockOUT(-1); c.TStates += 16 }

	// Repeat forms run one element per step, backing PC up onto the ED
	// prefix while the repeat continues, so hosts observe every iteration.
	edOps[0xB0] = func(c *CPU) { c.blockLD(1); c.repeatWhile(c.BC() != 0) }
	edOps[0xB8] = func(c *CPU) { c.blockLD(-1); c.repeatWhile(c.BC() != 0) }
	edOps[0xB1] = func(c *CPU) { c.blockCP(1); c.repeatWhile(c.BC() != 0 && c.F&FlagZ == 0) }
	edOps[0xB9] = func(c *CPU) { c.blockCP(-1); c.repeatWhile(c.BC() != 0 && c.F&FlagZ == 0) }
	edOps[0xB2] = func(c *CPU) { c.blockIN(1); c.repeatWhile(c.B != 0) }
	edOps[0xBA] = func(c *CPU) { c.blockIN(-1); c.repeatWhile(c.B != 0) }
	edOps[0xB3] = func(c *CPU) { c.blockOUT(1); c.repeatWhile(c.B != 0) }
	edOps[0xBB] = func(c *CPU) { c.blockOUT(-1); c.repeatWhile(c.B != 0) }
}

func (c *CPU) edNop() { c.TStates += 8 }

func (c *CPU) edInRC(code uint8) {
	v := c.ports[c.C]
	if code != 6 {
		// ED 70 sets flags only.
		c.setReg8(code, v)
	}
	c.F = (c.F & FlagC) | Sz53pTable[v]
	c.TStates += 12
}

func (c *CPU) edOutCR(code uint8) {
	var v uint8
	if code != 6 {
		v = c.getReg8(code)
	}
	// ED 71 writes zero.
	c.ports[c.C] = v
	c.TStates += 12
}

func (c *CPU) edStorePair(v uint16) {
	nn := c.fetch16()
	c.writeMem16(nn, v)
	c.WZ = nn + 1
	c.TStates += 20
}

func (c *CPU) edLoadPair() uint16 {
	nn := c.fetch16()
	c.WZ = nn + 1
	c.TStates += 20
	return c.readMem16(nn)
}

func (c *CPU) edRETN() {
	c.PC = c.Pop16()
	c.IFF1 = c.IFF2
	c.TStates += 14
}

func (c *CPU) edRETI() {
	c.PC = c.Pop16()
	c.IFF1 = c.IFF2
	c.TStates += 14
}

// edLoadAFrom is LD A,I / LD A,R: S and Z from the value, H and N cleared,
// P/V mirrors IFF2, carry untouched.
func (c *CPU) edLoadAFrom(v uint8) {
	c.A = v
	c.F = (c.F & FlagC) | Sz53Table[v] | bsel(c.IFF2, FlagP, 0)
	c.TStates += 9
}

// edRRD rotates the low nibble of A right through (HL), one nibble at a
// time: A.lo <- m.lo, m.lo <- m.hi, m.hi <- A.lo.
func (c *CPU) edRRD() {
	m := c.mem[c.HL()]
	aLow := c.A & 0x0F
	c.A = (c.A & 0xF0) | (m & 0x0F)
	c.mem[c.HL()] = (aLow << 4) | (m >> 4)
	c.F = (c.F & FlagC) | Sz53pTable[c.A]
	c.TStates += 18
}

// edRLD is the mirror rotation: m.lo <- A.lo, m.hi <- m.lo, A.lo <- m.hi.
func (c *CPU) edRLD() {
	m := c.mem[c.HL()]
	aLow := c.A & 0x0F
	c.A = (c.A & 0xF0) | (m >> 4)
	c.mem[c.HL()] = (m << 4) | aLow
	c.F = (c.F & FlagC) | Sz53pTable[c.A]
	c.TStates += 18
}

func (c *CPU) edSLLmHL() {
	c.mem[c.HL()] = c.sllVal(c.mem[c.HL()])
	c.TStates += 15
}

// repeatWhile finishes a block repeat step: while the condition holds, PC
// backs up onto the two-byte ED instruction and the step costs 21 T-states;
// the terminating step costs 16.
func (c *CPU) repeatWhile(cont bool) {
	if cont {
		c.PC -= 2
		c.TStates += 21
	} else {
		c.TStates += 16
	}
}

// blockLD is one element of LDI/LDD: move a byte from (HL) to (DE), step
// both pointers, count BC down. P/V becomes BC!=0; S, Z, C survive.
func (c *CPU) blockLD(dir int16) {
	c.mem[c.DE()] = c.mem[c.HL()]
	c.SetHL(c.HL() + uint16(dir))
	c.SetDE(c.DE() + uint16(dir))
	c.SetBC(c.BC() - 1)
	c.F = (c.F & (FlagC | FlagZ | FlagS)) | bsel(c.BC() != 0, FlagP, 0)
}

// blockCP is one element of CPI/CPD. Half-carry is computed from the byte
// read before HL moves.
func (c *CPU) blockCP(dir int16) {
	val := c.mem[c.HL()]
	result := c.A - val
	c.SetHL(c.HL() + uint16(dir))
	c.SetBC(c.BC() - 1)
	c.F = (c.F & FlagC) | FlagN |
		bsel(result == 0, FlagZ, 0) |
		(result & FlagS) |
		bsel(c.A&0x0F < val&0x0F, FlagH, 0) |
		bsel(c.BC() != 0, FlagP, 0)
}

// blockIN is one element of INI/IND: port (C) to (HL), B counts down.
func (c *CPU) blockIN(dir int16) {
	c.mem[c.HL()] = c.ports[c.C]
	c.SetHL(c.HL() + uint16(dir))
	c.B--
	c.F = FlagN | bsel(c.B == 0, FlagZ, 0) | (c.B & FlagS)
}

// blockOUT is one element of OUTI/OUTD: (HL) to port (C), B counts down.
func (c *CPU) blockOUT(dir int16) {
	c.ports[c.C] = c.mem[c.HL()]
	c.SetHL(c.HL() + uint16(dir))
	c.B--
	c.F = FlagN | bsel(c.B == 0, FlagZ, 0) | (c.B & FlagS)
}
