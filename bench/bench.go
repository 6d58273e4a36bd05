// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package bench drives the simulated peripheral the way the hardware
// harness does: function-backed input pins, bit-banged SPI frames and
// cycle-accurate edge measurements on the output pins.
package bench

import (
	"github.com/pkg/errors"

	"spipwm"
	"spipwm/device"
)

// DefaultHalfPeriod is the default serial clock half period in system
// clock cycles: 10 µs at 10 MHz, the rate used by the original harness.
const DefaultHalfPeriod = 100

// A Bench owns a circuit with a mounted peripheral and drives its input
// pins. All methods advance simulated time; none of them touch wall clock.
type Bench struct {
	// HalfPeriod is the serial clock half period in cycles. The decoder
	// does not care as long as both halves span at least one cycle.
	HalfPeriod int

	c *spipwm.Circuit

	csn, sdi, sclk bool
	rstn, ena      bool

	uo, uio uint8
}

// New builds a bench around a freshly mounted peripheral. The device comes
// up unreset; call Reset before driving transactions.
func New() (*Bench, error) {
	b := &Bench{
		HalfPeriod: DefaultHalfPeriod,
		csn:        true,
		rstn:       true,
		ena:        true,
	}
	c, err := spipwm.New(
		spipwm.Input(func() bool { return b.csn })(spipwm.W{"out": "csn"}),
		spipwm.Input(func() bool { return b.sdi })(spipwm.W{"out": "sdi"}),
		spipwm.Input(func() bool { return b.sclk })(spipwm.W{"out": "sclk"}),
		spipwm.Input(func() bool { return b.rstn })(spipwm.W{"out": "rstn"}),
		spipwm.Input(func() bool { return b.ena })(spipwm.W{"out": "ena"}),
		device.New(spipwm.W{
			"csn": "csn", "sdi": "sdi", "sclk": "sclk",
			"rstn": "rstn", "ena": "ena",
			"uo[0..7]":  "uo[0..7]",
			"uio[0..7]": "uio[0..7]",
		}),
		spipwm.OutputN(8, func(v int64) { b.uo = uint8(v) })(spipwm.W{"in[0..7]": "uo[0..7]"}),
		spipwm.OutputN(8, func(v int64) { b.uio = uint8(v) })(spipwm.W{"in[0..7]": "uio[0..7]"}),
	)
	if err != nil {
		return nil, errors.Wrap(err, "bench")
	}
	b.c = c
	return b, nil
}

// Run advances the simulation by n system clock cycles.
func (b *Bench) Run(n int) { b.c.Run(n) }

// Ticks returns the number of cycles elapsed since the bench was built.
func (b *Bench) Ticks() uint64 { return b.c.Ticks() }

// UO returns the primary output byte as last driven by the peripheral.
func (b *Bench) UO() uint8 { return b.uo }

// UIO returns the secondary output byte.
func (b *Bench) UIO() uint8 { return b.uio }

// Bit returns bit n of the primary output byte.
func (b *Bench) Bit(n int) bool { return b.uo>>uint(n)&1 == 1 }

// Reset pulses the active-low reset: 5 cycles asserted, 5 cycles released.
func (b *Bench) Reset() {
	b.csn, b.sdi, b.sclk = true, false, false
	b.rstn = false
	b.Run(5)
	b.rstn = true
	b.Run(5)
}

// SetEnabled drives the enable pin. While deasserted the peripheral holds
// all state.
func (b *Bench) SetEnabled(v bool) { b.ena = v }

// WriteReg sends a write frame for the given register address.
func (b *Bench) WriteReg(addr, data uint8) {
	b.SendFrame(true, addr, data)
}

// ReadReg sends a read frame. The peripheral has no read-back path; the
// frame completes and does nothing, which is exactly what tests probe for.
func (b *Bench) ReadReg(addr, data uint8) {
	b.SendFrame(false, addr, data)
}

// SendFrame bit-bangs a complete 16-bit frame, MSB first: chip select low,
// sixteen serial clock periods of HalfPeriod+HalfPeriod cycles, chip
// select high again, plus a short idle tail.
func (b *Bench) SendFrame(write bool, addr, data uint8) {
	b.shiftBits(frameWord(write, addr, data), 16)
	b.endFrame()
}

// AbortFrame starts a frame but deasserts chip select after only bits of
// the 16 have been clocked in, leaving a truncated transaction behind.
func (b *Bench) AbortFrame(write bool, addr, data uint8, bits int) {
	b.shiftBits(frameWord(write, addr, data), bits)
	b.endFrame()
}

func frameWord(write bool, addr, data uint8) uint16 {
	w := uint16(addr&0x7f)<<8 | uint16(data)
	if write {
		w |= 0x8000
	}
	return w
}

func (b *Bench) shiftBits(word uint16, bits int) {
	b.sclk = false
	b.csn = false
	b.Run(1)
	for i := 0; i < bits; i++ {
		b.sclk = false
		b.sdi = word&(0x8000>>uint(i)) != 0
		b.Run(b.HalfPeriod)
		b.sclk = true
		b.Run(b.HalfPeriod)
	}
}

func (b *Bench) endFrame() {
	b.sclk = false
	b.sdi = false
	b.csn = true
	b.Run(b.HalfPeriod)
}

// AwaitRise runs the simulation until a low-to-high transition on bit n of
// the primary output, up to max cycles. It returns the number of cycles
// consumed.
func (b *Bench) AwaitRise(n, max int) (int, error) {
	return b.await(n, true, max)
}

// AwaitFall runs the simulation until a high-to-low transition on bit n of
// the primary output, up to max cycles.
func (b *Bench) AwaitFall(n, max int) (int, error) {
	return b.await(n, false, max)
}

func (b *Bench) await(n int, rise bool, max int) (int, error) {
	prev := b.Bit(n)
	for i := 1; i <= max; i++ {
		b.c.Step()
		cur := b.Bit(n)
		if cur != prev && cur == rise {
			return i, nil
		}
		prev = cur
	}
	dir := "rising"
	if !rise {
		dir = "falling"
	}
	return max, errors.Errorf("timeout waiting for %s edge on uo[%d] after %d cycles", dir, n, max)
}

// MeasurePWM measures one full carrier period on bit n of the primary
// output: the cycle count from one rising edge to the next, and the high
// time within it. The wait for each edge is capped at two carrier periods.
func (b *Bench) MeasurePWM(n int) (period, high int, err error) {
	const max = 2 * device.Period
	if _, err = b.AwaitRise(n, max); err != nil {
		return 0, 0, err
	}
	high, err = b.AwaitFall(n, max)
	if err != nil {
		return 0, 0, err
	}
	low, err := b.AwaitRise(n, max)
	if err != nil {
		return 0, 0, err
	}
	return high + low, high, nil
}
