// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package spipwm

import (
	"github.com/pkg/errors"
)

// A Component is a component in a circuit that can Get and Set wire states.
// Components run exactly once per Step, read the previous state frame and
// write the next one.
type Component func(c *Circuit)

// A MountFn mounts a part into socket s. MountFn's should query the socket
// for assigned wire numbers and return closures around these numbers.
//
// For example, an inverter can be defined like this:
//
//	inv := &PartSpec{
//		Name:    "Inv",
//		Inputs:  []string{"in"},
//		Outputs: []string{"out"},
//		Mount: func(s *Socket) []Component {
//			in, out := s.Pin("in"), s.Pin("out")
//			return []Component{
//				func(c *Circuit) { c.Set(out, !c.Get(in)) },
//			}
//		}}
type MountFn func(s *Socket) []Component

// A PartSpec wraps a part specification (its blueprint).
//
// Stateful parts keep their state in variables captured by the components
// returned from Mount; a new mount gets a fresh state.
type PartSpec struct {
	// Part name.
	Name string
	// Input pin names. Must be distinct pin names.
	// Use the IO() function to expand an input description like
	// "a, b, bus[2]" to []string{"a", "b", "bus[0]", "bus[1]"}.
	Inputs []string
	// Output pin names. Must be distinct pin names.
	Outputs []string

	// Mount function (see MountFn).
	Mount MountFn
}

// NewPart wraps p together with the given wiring into a Part.
// It panics if w contains a malformed bus range.
func (p *PartSpec) NewPart(w W) Part {
	conns, err := w.expand()
	if err != nil {
		panic(err)
	}
	return Part{p, conns}
}

// A NewPartFn is a function that takes a wiring map and returns a new Part.
type NewPartFn func(w W) Part

// A Part wraps a part specification together with its wiring within a
// circuit.
type Part struct {
	*PartSpec
	conns map[string]string
}

// Circuit is a runnable circuit simulation. One Step is one system clock
// cycle: a component's output written during tick T is visible to readers
// from tick T+1 onward, so there is no intra-tick ordering dependency
// between parts.
type Circuit struct {
	s0    []bool // wire states, read frame
	s1    []bool // wire states, write frame
	cs    []Component
	count int // wire count
	ticks uint64
}

// New builds a new circuit from the given parts.
//
// Wires are named: parts connecting a pin to the same wire name share that
// wire. Unconnected inputs read the constant False wire; unconnected
// outputs drive a throwaway wire.
func New(parts ...Part) (*Circuit, error) {
	if len(parts) == 0 {
		return nil, errors.New("empty part list")
	}
	c := &Circuit{count: cstCount}
	wires := map[string]int{False: cstFalse, True: cstTrue}
	for _, p := range parts {
		s := newSocket(c)
		for _, in := range p.Inputs {
			if w, ok := p.conns[in]; ok {
				s.m[in] = wireNum(c, wires, w)
			} else {
				s.m[in] = cstFalse
			}
		}
		for _, out := range p.Outputs {
			if w, ok := p.conns[out]; ok {
				s.m[out] = wireNum(c, wires, w)
			} else {
				s.m[out] = c.allocPin()
			}
		}
		for k := range p.conns {
			if _, ok := s.m[k]; !ok {
				return nil, errors.Errorf("invalid pin name %q for part %s", k, p.Name)
			}
		}
		c.cs = append(c.cs, p.Mount(s)...)
	}
	c.s0 = make([]bool, c.count)
	c.s1 = make([]bool, c.count)
	// constant wires are never written by components, so both frames get
	// them at build time.
	c.s0[cstTrue] = true
	c.s1[cstTrue] = true
	return c, nil
}

func wireNum(c *Circuit, wires map[string]int, name string) int {
	n, ok := wires[name]
	if !ok {
		n = c.allocPin()
		wires[name] = n
	}
	return n
}

// allocPin allocates a wire and returns its number.
func (c *Circuit) allocPin() int {
	cnt := c.count
	c.count++
	return cnt
}

// Get returns the state of wire n. The value of n should be obtained in a
// MountFn by a call to one of the Socket methods.
func (c *Circuit) Get(n int) bool {
	return c.s0[n]
}

// Set sets the state s of wire n for the next tick.
func (c *Circuit) Set(n int, s bool) {
	c.s1[n] = s
}

// Step advances the simulation by one clock cycle.
func (c *Circuit) Step() {
	for _, f := range c.cs {
		f(c)
	}
	c.ticks++
	c.s0, c.s1 = c.s1, c.s0
}

// Run advances the simulation by n clock cycles.
func (c *Circuit) Run(n int) {
	for i := 0; i < n; i++ {
		c.Step()
	}
}

// Ticks returns the number of clock cycles elapsed since the circuit was
// built.
func (c *Circuit) Ticks() uint64 {
	return c.ticks
}

// Size returns the component count in the circuit.
func (c *Circuit) Size() int { return len(c.cs) }
