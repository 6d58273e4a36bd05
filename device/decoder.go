// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package device

// A Frame is one complete 16-bit transaction shifted in over the serial
// link: 1 read/write bit (1 = write), 7 address bits, 8 data bits, MSB
// first.
type Frame struct {
	Write bool
	Addr  uint8
	Data  uint8
}

// State enumerates the decoder's shift states.
type State uint8

const (
	// Idle: chip select deasserted, nothing shifting.
	Idle State = iota
	// Header: shifting the read/write bit and the 7 address bits.
	Header
	// Data: shifting the 8 data bits.
	Data
	// Complete: a full frame has been shifted; waiting for chip select to
	// deassert before re-arming.
	Complete
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Header:
		return "header"
	case Data:
		return "data"
	case Complete:
		return "complete"
	}
	return "invalid"
}

// Decoder converts the sampled serial lines into discrete frames. The
// serial clock is a data signal sampled once per system clock cycle; a bit
// is captured on its rising edge. Deasserting chip select anywhere outside
// Idle drops the partial frame silently.
type Decoder struct {
	state State
	shift uint16
	nbits uint8
	sclk  bool // sclk as sampled on the previous cycle
}

// State returns the decoder's current shift state.
func (d *Decoder) State() State { return d.state }

// Reset returns the decoder to Idle and clears all shift state.
func (d *Decoder) Reset() {
	*d = Decoder{}
}

// Step advances the decoder by one system clock cycle. csn is the
// active-low chip select as sampled this cycle (true = deasserted). The
// returned frame is valid only when ok is true, which happens on the cycle
// the 16th bit is captured.
func (d *Decoder) Step(csn, sdi, sclk bool) (f Frame, ok bool) {
	rising := sclk && !d.sclk
	d.sclk = sclk

	if csn {
		// abort or re-arm; partial frames are dropped with no side effect
		d.state = Idle
		d.shift = 0
		d.nbits = 0
		return Frame{}, false
	}
	if d.state == Idle {
		d.state = Header
	}
	if d.state == Complete || !rising {
		return Frame{}, false
	}

	d.shift <<= 1
	if sdi {
		d.shift |= 1
	}
	d.nbits++
	switch d.nbits {
	case 8:
		d.state = Data
	case 16:
		d.state = Complete
		return Frame{
			Write: d.shift&0x8000 != 0,
			Addr:  uint8(d.shift>>8) & 0x7f,
			Data:  uint8(d.shift),
		}, true
	}
	return Frame{}, false
}
