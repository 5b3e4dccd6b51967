package cpu

// The unprefixed plane. A 256-entry dispatch table; the regular regions
// (LD r,r', the ALU block, INC/DEC r, LD r,n) are populated from the
// operand codes baked into the encoding, the irregular opcodes are assigned
// one by one. Prefix bytes (CB/DD/ED/FD) never reach this table — Step
// intercepts them first.

var mainOps [256]func(*CPU)

func init() {
	for i := range mainOps {
		mainOps[i] = (*CPU).opNop
	}

	// 0x40-0x7F: LD r,r' (0x76 is HALT)
	for op := 0x40; op < 0x80; op++ {
		if op == 0x76 {
			continue
		}
		dst, src := uint8(op>>3)&7, uint8(op)&7
		mainOps[op] = func(c *CPU) { c.ldRR(dst, src) }
	}

	// 0x80-0xBF: ADD/ADC/SUB/SBC/AND/XOR/OR/CP A,r
	for op := 0x80; op < 0xC0; op++ {
		alu, src := uint8(op>>3)&7, uint8(op)&7
		mainOps[op] = func(c *CPU) { c.aluOp(alu, src) }
	}

	// INC r / DEC r / LD r,n spread across 0x04..0x3E
	for code := uint8(0); code < 8; code++ {
		r := code
		mainOps[0x04+8*int(code)] = func(c *CPU) { c.incR(r) }
		mainOps[0x05+8*int(code)] = func(c *CPU) { c.decR(r) }
		mainOps[0x06+8*int(code)] = func(c *CPU) { c.ldRN(r) }
	}

	// Immediate-operand ALU column 0xC6..0xFE
	for alu := uint8(0); alu < 8; alu++ {
		op := alu
		mainOps[0xC6+8*int(alu)] = func(c *CPU) { c.aluN(op) }
	}

	// Conditional JP/CALL/RET and RST spread across 0xC0..0xFF
	for cc := uint8(0); cc < 8; cc++ {
		cond := cc
		mainOps[0xC0+8*int(cc)] = func(c *CPU) { c.retCC(cond) }
		mainOps[0xC2+8*int(cc)] = func(c *CPU) { c.jpCC(cond) }
		mainOps[0xC4+8*int(cc)] = func(c *CPU) { c.callCC(cond) }
		target := uint16(cc) * 8
		mainOps[0xC7+8*int(cc)] = func(c *CPU) { c.rst(target) }
	}

	mainOps[0x00] = (*CPU).opNop
	mainOps[0x01] = func(c *CPU) { c.SetBC(c.fetch16()); c.TStates += 10 }
	mainOps[0x02] = func(c *CPU) { c.mem[c.BC()] = c.A; c.TStates += 7 }
	mainOps[0x03] = func(c *CPU) { c.SetBC(c.BC() + 1); c.TStates += 6 }
	mainOps[0x07] = (*CPU).opRLCA
	mainOps[0x08] = func(c *CPU) { c.ExchangeAF(); c.TStates += 4 }
	mainOps[0x09] = func(c *CPU) { c.addPair16(c.BC()); c.TStates += 11 }
	mainOps[0x0A] = func(c *CPU) { c.A = c.mem[c.BC()]; c.TStates += 7 }
	mainOps[0x0B] = func(c *CPU) { c.SetBC(c.BC() - 1); c.TStates += 6 }
	mainOps[0x0F] = (*CPU).opRRCA

	mainOps[0x10] = (*CPU).opDJNZ
	mainOps[0x11] = func(c *CPU) { c.SetDE(c.fetch16()); c.TStates += 10 }
	mainOps[0x12] = func(c *CPU) { c.mem[c.DE()] = c.A; c.TStates += 7 }
	mainOps[0x13] = func(c *CPU) { c.SetDE(c.DE() + 1); c.TStates += 6 }
	mainOps[0x17] = (*CPU).opRLA
	mainOps[0x18] = func(c *CPU) { c.jr(true) }
	mainOps[0x19] = func(c *CPU) { c.addPair16(c.DE()); c.TStates += 11 }
	mainOps[0x1A] = func(c *CPU) { c.A = c.mem[c.DE()]; c.TStates += 7 }
	mainOps[0x1B] = func(c *CPU) { c.SetDE(c.DE() - 1); c.TStates += 6 }
	mainOps[0x1F] = (*CPU).opRRA

	mainOps[0x20] = func(c *CPU) { c.jr(c.F&FlagZ == 0) }
	mainOps[0x21] = func(c *CPU) { c.setEffPair(c.fetch16()); c.TStates += 10 }
	mainOps[0x22] = (*CPU).opStoreHLAbs
	mainOps[0x23] = func(c *CPU) { c.setEffPair(c.effPair() + 1); c.TStates += 6 }
	mainOps[0x27] = func(c *CPU) { c.daa(); c.TStates += 4 }
	mainOps[0x28] = func(c *CPU) { c.jr(c.F&FlagZ != 0) }
	mainOps[0x29] = func(c *CPU) { c.addPair16(c.effPair()); c.TStates += 11 }
	mainOps[0x2A] = (*CPU).opLoadHLAbs
	mainOps[0x2B] = func(c *CPU) { c.setEffPair(c.effPair() - 1); c.TStates += 6 }
	mainOps[0x2F] = (*CPU).opCPL

	mainOps[0x30] = func(c *CPU) { c.jr(c.F&FlagC == 0) }
	mainOps[0x31] = func(c *CPU) { c.SP = c.fetch16(); c.TStates += 10 }
	mainOps[0x32] = (*CPU).opStoreAAbs
	mainOps[0x33] = func(c *CPU) { c.SP++; c.TStates += 6 }
	mainOps[0x37] = (*CPU).opSCF
	mainOps[0x38] = func(c *CPU) { c.jr(c.F&FlagC != 0) }
	mainOps[0x39] = func(c *CPU) { c.addPair16(c.SP); c.TStates += 11 }
	mainOps[0x3A] = (*CPU).opLoadAAbs
	mainOps[0x3B] = func(c *CPU) { c.SP--; c.TStates += 6 }
	mainOps[0x3F] = (*CPU).opCCF

	mainOps[0x76] = (*CPU).opHALT

	mainOps[0xC1] = func(c *CPU) { c.SetBC(c.Pop16()); c.TStates += 10 }
	mainOps[0xC3] = (*CPU).opJP
	mainOps[0xC5] = func(c *CPU) { c.Push16(c.BC()); c.TStates += 11 }
	mainOps[0xC9] = func(c *CPU) { c.PC = c.Pop16(); c.TStates += 10 }
	mainOps[0xCD] = (*CPU).opCALL

	mainOps[0xD1] = func(c *CPU) { c.SetDE(c.Pop16()); c.TStates += 10 }
	mainOps[0xD3] = (*CPU).opOutNA
	mainOps[0xD5] = func(c *CPU) { c.Push16(c.DE()); c.TStates += 11 }
	mainOps[0xD9] = func(c *CPU) { c.ExchangeAll(); c.TStates += 4 }
	mainOps[0xDB] = (*CPU).opInAN

	mainOps[0xE1] = func(c *CPU) { c.setEffPair(c.Pop16()); c.TStates += 10 }
	mainOps[0xE3] = (*CPU).opExSPHL
	mainOps[0xE5] = func(c *CPU) { c.Push16(c.effPair()); c.TStates += 11 }
	mainOps[0xE9] = func(c *CPU) { c.PC = c.effPair(); c.TStates += 4 }
	mainOps[0xEB] = func(c *CPU) { c.ExchangeDEHL(); c.TStates += 4 }

	mainOps[0xF1] = func(c *CPU) { c.SetAF(c.Pop16()); c.TStates += 10 }
	mainOps[0xF3] = func(c *CPU) { c.IFF1, c.IFF2 = false, false; c.TStates += 4 }
	mainOps[0xF5] = func(c *CPU) { c.Push16(c.AF()); c.TStates += 11 }
	mainOps[0xF9] = func(c *CPU) { c.SP = c.effPair(); c.TStates += 6 }
	mainOps[0xFB] = func(c *CPU) { c.IFF1, c.IFF2 = true, true; c.TStates += 4 }
}

func (c *CPU) opNop() { c.TStates += 4 }

// ldRR is LD r,r'. With a DD/FD prefix the register-register forms
// substitute IXH/IXL for H/L, but once one operand is the indexed memory
// byte the other names the true register (LD H,(IX+d) loads H, not IXH).
// dst==src==6 is HALT and never reaches here.
func (c *CPU) ldRR(dst, src uint8) {
	switch {
	case src == 6:
		v := c.mem[c.effMemAddr()]
		c.setRegTrue(dst, v)
		c.TStates += 7
	case dst == 6:
		c.mem[c.effMemAddr()] = c.getRegTrue(src)
		c.TStates += 7
	default:
		c.setReg8(dst, c.getReg8(src))
		c.TStates += 4
	}
}

// aluOp dispatches the 0x80-0xBF block by the operation code in bits 5-3.
func (c *CPU) aluOp(alu, src uint8) {
	v := c.getReg8(src)
	c.aluA(alu, v)
	if src == 6 {
		c.TStates += 7
	} else {
		c.TStates += 4
	}
}

// aluN is the immediate-operand column (ADD A,n .. CP n).
func (c *CPU) aluN(alu uint8) {
	c.aluA(alu, c.fetch())
	c.TStates += 7
}

func (c *CPU) aluA(alu uint8, v uint8) {
	switch alu {
	case 0:
		c.addA(v)
	case 1:
		c.adcA(v)
	case 2:
		c.subA(v)
	case 3:
		c.sbcA(v)
	case 4:
		c.andA(v)
	case 5:
		c.xorA(v)
	case 6:
		c.orA(v)
	default:
		c.cpA(v)
	}
}

func (c *CPU) incR(code uint8) {
	if code == 6 {
		addr := c.effMemAddr()
		c.mem[addr] = c.incVal(c.mem[addr])
		c.TStates += 11
		return
	}
	c.setReg8(code, c.incVal(c.getReg8(code)))
	c.TStates += 4
}

func (c *CPU) decR(code uint8) {
	if code == 6 {
		addr := c.effMemAddr()
		c.mem[addr] = c.decVal(c.mem[addr])
		c.TStates += 11
		return
	}
	c.setReg8(code, c.decVal(c.getReg8(code)))
	c.TStates += 4
}

// ldRN is LD r,n. For the memory form the displacement byte precedes the
// immediate in the stream (DD 36 d n), so the address resolves first.
func (c *CPU) ldRN(code uint8) {
	if code == 6 {
		addr := c.effMemAddr()
		c.mem[addr] = c.fetch()
		c.TStates += 10
		return
	}
	c.setReg8(code, c.fetch())
	c.TStates += 7
}

func (c *CPU) opRLCA() {
	c.A = (c.A << 1) | (c.A >> 7)
	c.F = (c.F & (FlagP | FlagZ | FlagS)) | (c.A & (FlagC | Flag3 | Flag5))
	c.TStates += 4
}

func (c *CPU) opRRCA() {
	c.F = (c.F & (FlagP | FlagZ | FlagS)) | (c.A & FlagC)
	c.A = (c.A >> 1) | (c.A << 7)
	c.F |= c.A & (Flag3 | Flag5)
	c.TStates += 4
}

func (c *CPU) opRLA() {
	old := c.A
	c.A = (c.A << 1) | (c.F & FlagC)
	c.F = (c.F & (FlagP | FlagZ | FlagS)) | (c.A & (Flag3 | Flag5)) | (old >> 7)
	c.TStates += 4
}

func (c *CPU) opRRA() {
	old := c.A
	c.A = (c.A >> 1) | (c.F << 7)
	c.F = (c.F & (FlagP | FlagZ | FlagS)) | (c.A & (Flag3 | Flag5)) | (old & FlagC)
	c.TStates += 4
}

func (c *CPU) opCPL() {
	c.A ^= 0xFF
	c.F = (c.F & (FlagC | FlagP | FlagZ | FlagS)) | (c.A & (Flag3 | Flag5)) | FlagN | FlagH
	c.TStates += 4
}

func (c *CPU) opSCF() {
	c.F = (c.F & (FlagP | FlagZ | FlagS)) | (c.A & (Flag3 | Flag5)) | FlagC
	c.TStates += 4
}

func (c *CPU) opCCF() {
	oldC := c.F & FlagC
	c.F = (c.F & (FlagP | FlagZ | FlagS)) | (c.A & (Flag3 | Flag5))
	if oldC != 0 {
		c.F |= FlagH
	} else {
		c.F |= FlagC
	}
	c.TStates += 4
}

func (c *CPU) opHALT() {
	c.Halted = true
	c.TStates += 4
}

// jr covers JR d and the four conditional forms.
func (c *CPU) jr(taken bool) {
	d := int8(c.fetch())
	if taken {
		c.PC += uint16(d)
		c.WZ = c.PC
		c.TStates += 12
	} else {
		c.TStates += 7
	}
}

func (c *CPU) opDJNZ() {
	c.B--
	d := int8(c.fetch())
	if c.B != 0 {
		c.PC += uint16(d)
		c.WZ = c.PC
		c.TStates += 13
	} else {
		c.TStates += 8
	}
}

func (c *CPU) opJP() {
	nn := c.fetch16()
	c.WZ = nn
	c.PC = nn
	c.TStates += 10
}

func (c *CPU) jpCC(cond uint8) {
	nn := c.fetch16()
	c.WZ = nn
	if c.condition(cond) {
		c.PC = nn
	}
	c.TStates += 10
}

func (c *CPU) opCALL() {
	nn := c.fetch16()
	c.WZ = nn
	c.Push16(c.PC)
	c.PC = nn
	c.TStates += 17
}

func (c *CPU) callCC(cond uint8) {
	nn := c.fetch16()
	c.WZ = nn
	if c.condition(cond) {
		c.Push16(c.PC)
		c.PC = nn
		c.TStates += 17
	} else {
		c.TStates += 10
	}
}

func (c *CPU) retCC(cond uint8) {
	if c.condition(cond) {
		c.PC = c.Pop16()
		c.WZ = c.PC
		c.TStates += 11
	} else {
		c.TStates += 5
	}
}

func (c *CPU) rst(target uint16) {
	c.Push16(c.PC)
	c.PC = target
	c.WZ = target
	c.TStates += 11
}

func (c *CPU) opStoreHLAbs() {
	nn := c.fetch16()
	c.writeMem16(nn, c.effPair())
	c.WZ = nn + 1
	c.TStates += 16
}

func (c *CPU) opLoadHLAbs() {
	nn := c.fetch16()
	c.setEffPair(c.readMem16(nn))
	c.WZ = nn + 1
	c.TStates += 16
}

func (c *CPU) opStoreAAbs() {
	nn := c.fetch16()
	c.mem[nn] = c.A
	c.WZ = uint16(c.A)<<8 | (nn+1)&0x00FF
	c.TStates += 13
}

func (c *CPU) opLoadAAbs() {
	nn := c.fetch16()
	c.A = c.mem[nn]
	c.WZ = nn + 1
	c.TStates += 13
}

func (c *CPU) opExSPHL() {
	old := c.effPair()
	v := c.readMem16(c.SP)
	c.writeMem16(c.SP, old)
	c.setEffPair(v)
	c.WZ = v
	c.TStates += 19
}

func (c *CPU) opOutNA() {
	port := c.fetch()
	c.ports[port] = c.A
	c.TStates += 11
}

func (c *CPU) opInAN() {
	port := c.fetch()
	c.A = c.ports[port]
	c.TStates += 11
}
