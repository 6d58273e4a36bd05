// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package device models an SPI-configured dual-output peripheral: a frame
// decoder shifting 16-bit write commands off a bit-banged serial link, a
// four-register configuration file, and an output stage that blends a
// static byte with a fixed-frequency PWM carrier.
//
// The decoder, register file and PWM generator are plain state machines
// advanced once per system clock cycle; New composes them into a circuit
// part exposing the pin-level interface.
package device

import "spipwm"

var spec = spipwm.PartSpec{
	Name:    "spipwm",
	Inputs:  spipwm.IO("csn, sdi, sclk, rstn, ena"),
	Outputs: spipwm.IO("uo[8], uio[8]"),
	Mount:   mount,
}

// New returns the peripheral as a circuit part.
//
//	Inputs:  csn (chip select, active low), sdi (serial data),
//	         sclk (serial clock), rstn (reset, active low), ena (enable)
//	Outputs: uo[8] (primary, static/PWM blend), uio[8] (secondary)
func New(w spipwm.W) spipwm.Part {
	return spec.NewPart(w)
}

func mount(s *spipwm.Socket) []spipwm.Component {
	var (
		csn  = s.Pin("csn")
		sdi  = s.Pin("sdi")
		sclk = s.Pin("sclk")
		rstn = s.Pin("rstn")
		ena  = s.Pin("ena")
		uo   = s.Bus("uo", 8)
		uio  = s.Bus("uio", 8)

		dec  Decoder
		regs Registers
		pwm  PWM
	)
	drive := func(c *spipwm.Circuit, high bool) {
		mask := regs.Read(AddrPWMMask)
		out := regs.Read(AddrStatic) &^ mask
		if high {
			out |= mask
		}
		spipwm.SetBus(c, uo, int64(out))
		spipwm.SetBus(c, uio, int64(regs.Read(AddrSecondary)))
	}
	return []spipwm.Component{
		func(c *spipwm.Circuit) {
			if !c.Get(rstn) {
				// synchronous level-sensitive reset: all state held at zero,
				// anything in flight is discarded
				dec.Reset()
				regs.Reset()
				pwm.Reset()
				drive(c, false)
				return
			}
			if !c.Get(ena) {
				// powered down: hold state, keep driving it
				drive(c, pwm.High(regs.Read(AddrPWMDuty)))
				return
			}
			if f, ok := dec.Step(c.Get(csn), c.Get(sdi), c.Get(sclk)); ok && f.Write {
				// at most one register mutates per completed frame; read
				// frames complete the protocol but touch nothing
				regs.Apply(f.Addr, f.Data)
			}
			drive(c, pwm.Step(regs.Read(AddrPWMDuty)))
		},
	}
}
