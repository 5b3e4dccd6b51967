package cpu

import "testing"

// TestIXHalfAccess: LD IX,1234; LD A,IXH; LD B,A; LD A,IXL; LD C,A; HALT.
func TestIXHalfAccess(t *testing.T) {
	c := runProgram(t, []uint8{
		0xDD, 0x21, 0x34, 0x12, // LD IX, 1234
		0xDD, 0x7C, // LD A, IXH
		0x47,       // LD B, A
		0xDD, 0x7D, // LD A, IXL
		0x4F, // LD C, A
		0x76, // HALT
	})
	if c.IX != 0x1234 {
		t.Errorf("IX=%04X, want 1234", c.IX)
	}
	if c.B != 0x12 {
		t.Errorf("B=%02X, want 12 (IXH)", c.B)
	}
	if c.C != 0x34 {
		t.Errorf("C=%02X, want 34 (IXL)", c.C)
	}
}

// TestIYMirror: the FD plane mirrors DD onto IY.
func TestIYMirror(t *testing.T) {
	c := runProgram(t, []uint8{
		0xFD, 0x21, 0x78, 0x56, // LD IY, 5678
		0xFD, 0x7C, // LD A, IYH
		0x47,       // LD B, A
		0xFD, 0x7D, // LD A, IYL
		0x4F, // LD C, A
		0x76, // HALT
	})
	if c.IY != 0x5678 || c.B != 0x56 || c.C != 0x78 {
		t.Errorf("IY=%04X B=%02X C=%02X", c.IY, c.B, c.C)
	}
}

// TestIndexedMemory: loads and stores through IX+d and IY+d.
func TestIndexedMemory(t *testing.T) {
	c := New()
	c.IX = 0x2000
	c.WriteMemory(0x2005, 0x99)
	c.LoadProgram([]uint8{
		0xDD, 0x7E, 0x05, // LD A, (IX+5)
		0xDD, 0x77, 0xFE, // LD (IX-2), A
		0x76,
	}, 0)
	for !c.Halted {
		c.Step()
	}
	if c.A != 0x99 {
		t.Errorf("A=%02X, want 99", c.A)
	}
	if c.ReadMemory(0x1FFE) != 0x99 {
		t.Errorf("mem[1FFE]=%02X, want 99 (negative displacement)", c.ReadMemory(0x1FFE))
	}
}

// TestIndexedMemoryKeepsTrueHL: with a memory operand in play, H and L
// name the true registers, not the index halves.
func TestIndexedMemoryKeepsTrueHL(t *testing.T) {
	c := New()
	c.IX = 0x3000
	c.H = 0x5A
	c.LoadProgram([]uint8{
		0xDD, 0x74, 0x01, // LD (IX+1), H
		0xDD, 0x66, 0x01, // LD H, (IX+1)
		0x76,
	}, 0)
	for !c.Halted {
		c.Step()
	}
	if c.ReadMemory(0x3001) != 0x5A {
		t.Errorf("mem[3001]=%02X, want 5A (true H)", c.ReadMemory(0x3001))
	}
	if c.H != 0x5A {
		t.Errorf("H=%02X, want 5A", c.H)
	}
	if c.IXH() != 0x30 {
		t.Errorf("IXH=%02X, IX must be untouched", c.IXH())
	}
}

// TestPrefixOverrides: with repeated and overriding prefix bytes the last
// one wins.
func TestPrefixOverrides(t *testing.T) {
	// DD DD DD 21 nn: still LD IX,nn.
	c := New()
	c.LoadProgram([]uint8{0xDD, 0xDD, 0xDD, 0x21, 0x11, 0x47, 0x76}, 0)
	for !c.Halted {
		c.Step()
	}
	if c.IX != 0x4711 {
		t.Errorf("repeated DD: IX=%04X, want 4711", c.IX)
	}
	if c.HL() != 0 {
		t.Errorf("repeated DD: HL=%04X, want 0000", c.HL())
	}

	// DD FD 21 nn: FD overrides, loads IY.
	c = New()
	c.LoadProgram([]uint8{0xDD, 0xFD, 0x21, 0x22, 0x33, 0x76}, 0)
	for !c.Halted {
		c.Step()
	}
	if c.IY != 0x3322 || c.IX != 0 {
		t.Errorf("DD FD: IX=%04X IY=%04X", c.IX, c.IY)
	}

	// DD ED 52: ED wins, SBC HL,DE on the true HL.
	c = New()
	c.SetHL(0x1000)
	c.SetDE(0x0400)
	c.LoadProgram([]uint8{0xDD, 0xED, 0x52, 0x76}, 0)
	for !c.Halted {
		c.Step()
	}
	if c.HL() != 0x0C00 {
		t.Errorf("DD ED 52: HL=%04X, want 0C00", c.HL())
	}
}

// TestIndexedSixteenBit: the 16-bit HL family redirects to IX under DD.
func TestIndexedSixteenBit(t *testing.T) {
	c := New()
	c.IX = 0x00FF
	c.SetBC(0x0001)
	c.SetHL(0x1111)
	c.LoadProgram([]uint8{
		0xDD, 0x09, // ADD IX, BC
		0xDD, 0x23, // INC IX
		0xDD, 0xE5, // PUSH IX
		0xDD, 0xE1, // POP IX
		0x76,
	}, 0)
	for !c.Halted {
		c.Step()
	}
	if c.IX != 0x0101 {
		t.Errorf("IX=%04X, want 0101", c.IX)
	}
	if c.HL() != 0x1111 {
		t.Errorf("HL=%04X, must be untouched", c.HL())
	}
}

// TestExDEHLIgnoresPrefix: EX DE,HL always exchanges the true HL, even
// after DD/FD.
func TestExDEHLIgnoresPrefix(t *testing.T) {
	c := New()
	c.IX = 0xBBAA
	c.IY = 0xDDCC
	c.SetHL(0x1122)
	c.SetDE(0x3344)
	c.LoadProgram([]uint8{0xDD, 0xEB, 0x76}, 0)
	for !c.Halted {
		c.Step()
	}
	if c.HL() != 0x3344 || c.DE() != 0x1122 {
		t.Errorf("DD EB: HL=%04X DE=%04X", c.HL(), c.DE())
	}
	if c.IX != 0xBBAA || c.IY != 0xDDCC {
		t.Error("DD EB disturbed the index registers")
	}
}

// TestPrefixStateBetweenSteps: after a lone prefix byte the CPU is
// observably mid-sequence, and the next step completes the instruction.
func TestPrefixStateBetweenSteps(t *testing.T) {
	c := New()
	c.LoadProgram([]uint8{0xDD, 0x7C, 0x76}, 0)
	c.Step()
	if c.state != stateDD {
		t.Fatal("after DD byte the prefix state must be DD")
	}
	if c.PC != 1 {
		t.Errorf("prefix byte advances PC by 1, PC=%04X", c.PC)
	}
	c.Step()
	if c.state != stateNormal {
		t.Error("after the leaf opcode the prefix state must reset")
	}
}

// TestIndexedJPAndSP: JP (IX) and LD SP,IX.
func TestIndexedJPAndSP(t *testing.T) {
	c := New()
	c.IX = 0x5000
	c.LoadProgram([]uint8{0xDD, 0xF9, 0xDD, 0xE9}, 0) // LD SP,IX; JP (IX)
	c.LoadProgram([]uint8{0x76}, 0x5000)
	for !c.Halted {
		c.Step()
	}
	if c.SP != 0x5000 {
		t.Errorf("SP=%04X, want 5000", c.SP)
	}
	if c.PC != 0x5001 {
		t.Errorf("PC=%04X, want 5001", c.PC)
	}
}
