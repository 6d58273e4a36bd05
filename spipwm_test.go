package spipwm_test

import (
	"testing"

	"github.com/pkg/errors"

	hw "spipwm"
)

func trace(t *testing.T, err error) {
	t.Helper()
	if err, ok := err.(interface {
		StackTrace() errors.StackTrace
	}); ok {
		for _, f := range err.StackTrace() {
			t.Logf("%+v ", f)
		}
	}
}

func Test_input_output(t *testing.T) {
	var in, out bool

	c, err := hw.New(
		hw.Input(func() bool { return in })(hw.W{"out": "w"}),
		hw.Output(func(v bool) { out = v })(hw.W{"in": "w"}),
	)
	if err != nil {
		trace(t, err)
		t.Fatal(err)
	}

	// an input value crosses one wire in one step and reaches the output
	// probe on the next.
	in = true
	c.Step()
	if out {
		t.Fatal("output updated within the same tick")
	}
	c.Step()
	if !out {
		t.Fatal("output not updated on the next tick")
	}
	in = false
	c.Run(2)
	if out {
		t.Fatal("output stuck high")
	}
}

func Test_bus_roundtrip(t *testing.T) {
	var in, out int64

	c, err := hw.New(
		hw.InputN(8, func() int64 { return in })(hw.W{"out[0..7]": "b[0..7]"}),
		hw.OutputN(8, func(v int64) { out = v })(hw.W{"in[0..7]": "b[0..7]"}),
	)
	if err != nil {
		trace(t, err)
		t.Fatal(err)
	}
	for _, v := range []int64{0x00, 0x01, 0x80, 0xAA, 0xFF} {
		in = v
		c.Run(2)
		if out != v {
			t.Fatalf("sent %#02x over the bus, got %#02x", v, out)
		}
	}
}

func Test_unconnected_input_reads_false(t *testing.T) {
	var out bool

	probe := &hw.PartSpec{
		Name:    "probe",
		Inputs:  []string{"in"},
		Outputs: nil,
		Mount: func(s *hw.Socket) []hw.Component {
			in := s.Pin("in")
			return []hw.Component{
				func(c *hw.Circuit) { out = c.Get(in) },
			}
		}}

	c, err := hw.New(probe.NewPart(hw.W{}))
	if err != nil {
		t.Fatal(err)
	}
	out = true
	c.Run(2)
	if out {
		t.Fatal("unconnected input did not read false")
	}
}

func Test_constant_wires(t *testing.T) {
	var hi, lo bool

	c, err := hw.New(
		hw.Output(func(v bool) { hi = v })(hw.W{"in": hw.True}),
		hw.Output(func(v bool) { lo = v })(hw.W{"in": hw.False}),
	)
	if err != nil {
		t.Fatal(err)
	}
	c.Run(4)
	if !hi || lo {
		t.Fatalf("constants: true=%v false=%v", hi, lo)
	}
}

func Test_build_errors(t *testing.T) {
	if _, err := hw.New(); err == nil {
		t.Error("empty part list: expected error")
	}
	if _, err := hw.New(hw.Input(func() bool { return false })(hw.W{"bogus": "w"})); err == nil {
		t.Error("invalid pin name: expected error")
	}
}

func Test_bad_bus_range_panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("mismatched bus range: expected panic")
		}
	}()
	hw.Input(func() bool { return false })(hw.W{"out[0..7]": "w[0..3]"})
}

func Test_io_expansion(t *testing.T) {
	got := hw.IO("csn, uo[2], sdi")
	want := []string{"csn", "uo[0]", "uo[1]", "sdi"}
	if len(got) != len(want) {
		t.Fatalf("IO() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("IO() = %v, want %v", got, want)
		}
	}
}
