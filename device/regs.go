// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package device

// Register addresses recognized by the peripheral. Writes to any other
// address complete at the protocol level but have no effect.
const (
	AddrStatic    = 0x00 // static output byte (pre-PWM-override)
	AddrSecondary = 0x01 // secondary output byte
	AddrPWMMask   = 0x02 // PWM enable mask for the primary output
	AddrPWMDuty   = 0x04 // PWM duty value, shared by all enabled bits
)

// Registers is the peripheral's addressable configuration state. Single
// writer (the frame decoder), many readers (the output stage). Zero value
// is the reset state.
type Registers struct {
	static    uint8
	secondary uint8
	mask      uint8
	duty      uint8
}

// Apply overwrites the register at addr with value. Unrecognized addresses
// are silently ignored; Apply never fails.
func (r *Registers) Apply(addr, value uint8) {
	switch addr {
	case AddrStatic:
		r.static = value
	case AddrSecondary:
		r.secondary = value
	case AddrPWMMask:
		r.mask = value
	case AddrPWMDuty:
		r.duty = value
	}
}

// Read returns the current value of the register at addr, or 0 for
// unrecognized or never-written addresses.
func (r *Registers) Read(addr uint8) uint8 {
	switch addr {
	case AddrStatic:
		return r.static
	case AddrSecondary:
		return r.secondary
	case AddrPWMMask:
		return r.mask
	case AddrPWMDuty:
		return r.duty
	}
	return 0
}

// Reset forces all registers to 0.
func (r *Registers) Reset() {
	*r = Registers{}
}
