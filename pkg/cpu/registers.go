package cpu

// 16-bit views of the register pairs. Low byte sits at offset 0 of the
// pair, high byte at offset 1; a write through either view is observable
// through the other.

// AF returns A||F.
func (c *CPU) AF() uint16 { return uint16(c.A)<<8 | uint16(c.F) }

// SetAF writes A and F from a 16-bit value.
func (c *CPU) SetAF(v uint16) { c.A, c.F = uint8(v>>8), uint8(v) }

// BC returns B||C.
func (c *CPU) BC() uint16 { return uint16(c.B)<<8 | uint16(c.C) }

// SetBC writes B and C from a 16-bit value.
func (c *CPU) SetBC(v uint16) { c.B, c.C = uint8(v>>8), uint8(v) }

// DE returns D||E.
func (c *CPU) DE() uint16 { return uint16(c.D)<<8 | uint16(c.E) }

// SetDE writes D and E from a 16-bit value.
func (c *CPU) SetDE(v uint16) { c.D, c.E = uint8(v>>8), uint8(v) }

// HL returns H||L.
func (c *CPU) HL() uint16 { return uint16(c.H)<<8 | uint16(c.L) }

// SetHL writes H and L from a 16-bit value.
func (c *CPU) SetHL(v uint16) { c.H, c.L = uint8(v>>8), uint8(v) }

// IR returns I||R.
func (c *CPU) IR() uint16 { return uint16(c.I)<<8 | uint16(c.R) }

// SetIR writes I and R from a 16-bit value.
func (c *CPU) SetIR(v uint16) { c.I, c.R = uint8(v>>8), uint8(v) }

// Index register halves. IX and IY are first-class 16-bit registers whose
// bytes are independently addressable; they share no storage with H/L.

// IXH returns the high byte of IX.
func (c *CPU) IXH() uint8 { return uint8(c.IX >> 8) }

// IXL returns the low byte of IX.
func (c *CPU) IXL() uint8 { return uint8(c.IX) }

// SetIXH writes the high byte of IX.
func (c *CPU) SetIXH(v uint8) { c.IX = c.IX&0x00FF | uint16(v)<<8 }

// SetIXL writes the low byte of IX.
func (c *CPU) SetIXL(v uint8) { c.IX = c.IX&0xFF00 | uint16(v) }

// IYH returns the high byte of IY.
func (c *CPU) IYH() uint8 { return uint8(c.IY >> 8) }

// IYL returns the low byte of IY.
func (c *CPU) IYL() uint8 { return uint8(c.IY) }

// SetIYH writes the high byte of IY.
func (c *CPU) SetIYH(v uint8) { c.IY = c.IY&0x00FF | uint16(v)<<8 }

// SetIYL writes the low byte of IY.
func (c *CPU) SetIYL(v uint8) { c.IY = c.IY&0xFF00 | uint16(v) }

// ExchangeAF swaps AF with AF' (EX AF,AF').
func (c *CPU) ExchangeAF() {
	c.A, c.A1 = c.A1, c.A
	c.F, c.F1 = c.F1, c.F
}

// ExchangeAll swaps BC, DE and HL with the shadow bank (EXX).
func (c *CPU) ExchangeAll() {
	c.B, c.B1 = c.B1, c.B
	c.C, c.C1 = c.C1, c.C
	c.D, c.D1 = c.D1, c.D
	c.E, c.E1 = c.E1, c.E
	c.H, c.H1 = c.H1, c.H
	c.L, c.L1 = c.L1, c.L
}

// ExchangeDEHL swaps DE with HL (EX DE,HL). Always the true HL: a DD/FD
// prefix does not redirect this exchange to IX or IY.
func (c *CPU) ExchangeDEHL() {
	c.D, c.H = c.H, c.D
	c.E, c.L = c.L, c.E
}
