// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package spipwm

import "strconv"

// GetBus returns the state of the given wires as an int64. Wire 0 is lsb.
func GetBus(c *Circuit, pins []int) int64 {
	var out int64
	for bit := range pins {
		if c.Get(pins[bit]) {
			out |= 1 << uint(bit)
		}
	}
	return out
}

// SetBus sets the given wires to the given int64 value.
func SetBus(c *Circuit, pins []int, v int64) {
	for bit := range pins {
		c.Set(pins[bit], v&(1<<uint(bit)) != 0)
	}
}

// Input creates a function based input.
//
//	Outputs: out
//	Function: out = f()
func Input(f func() bool) NewPartFn {
	p := &PartSpec{
		Name:    "Input",
		Inputs:  nil,
		Outputs: []string{"out"},
		Mount: func(s *Socket) []Component {
			pin := s.Pin("out")
			return []Component{
				func(c *Circuit) { c.Set(pin, f()) },
			}
		},
	}
	return p.NewPart
}

// Output creates an output or probe. The fn function is called with the
// named wire state on every circuit update.
//
//	Inputs: in
//	Function: f(in)
func Output(f func(bool)) NewPartFn {
	p := &PartSpec{
		Name:    "Output",
		Inputs:  []string{"in"},
		Outputs: nil,
		Mount: func(s *Socket) []Component {
			in := s.Pin("in")
			return []Component{
				func(c *Circuit) { f(c.Get(in)) },
			}
		},
	}
	return p.NewPart
}

// InputN creates an input bus of the given bits size.
func InputN(bits int, f func() int64) NewPartFn {
	return (&PartSpec{
		Name:    "Input" + strconv.Itoa(bits),
		Inputs:  nil,
		Outputs: IO("out[" + strconv.Itoa(bits) + "]"),
		Mount: func(s *Socket) []Component {
			pins := s.Bus("out", bits)
			return []Component{func(c *Circuit) {
				SetBus(c, pins, f())
			}}
		}}).NewPart
}

// OutputN creates an output bus of the given bits size.
func OutputN(bits int, f func(int64)) NewPartFn {
	return (&PartSpec{
		Name:    "Output" + strconv.Itoa(bits),
		Inputs:  IO("in[" + strconv.Itoa(bits) + "]"),
		Outputs: nil,
		Mount: func(s *Socket) []Component {
			pins := s.Bus("in", bits)
			return []Component{func(c *Circuit) {
				f(GetBus(c, pins))
			}}
		}}).NewPart
}
