// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package device

// Clock rates. The carrier period is fixed by the system clock and is
// independent of the duty value and of how many output bits are enabled.
const (
	// ClockHz is the system clock rate the peripheral is designed for.
	ClockHz = 10_000_000
	// CarrierHz is the PWM carrier frequency.
	CarrierHz = 3_000
	// Period is the carrier period in system clock cycles.
	Period = ClockHz / CarrierHz
)

// Threshold converts an 8-bit duty value to a counter threshold, rounding
// d/255*Period with integer arithmetic only. Threshold(0) == 0 (output
// never rises) and Threshold(255) == Period (output never falls).
func Threshold(duty uint8) uint32 {
	return (uint32(duty)*Period + 127) / 255
}

// PWM is the free-running carrier generator. A single counter serves every
// enabled output bit, so simultaneously enabled bits are phase locked. Zero
// value is the reset state.
type PWM struct {
	counter uint32
}

// Reset forces the counter to 0.
func (p *PWM) Reset() {
	p.counter = 0
}

// High reports the carrier level for the given duty at the current counter
// position, without advancing the counter.
func (p *PWM) High(duty uint8) bool {
	return p.counter < Threshold(duty)
}

// Step returns the carrier level for the given duty and advances the
// counter by one system clock cycle, wrapping at Period.
func (p *PWM) Step(duty uint8) bool {
	high := p.High(duty)
	p.counter++
	if p.counter >= Period {
		p.counter = 0
	}
	return high
}
