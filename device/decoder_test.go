package device_test

import (
	"testing"

	"spipwm/device"
)

// clockBits shifts the top bits of word into the decoder, one low half and
// one high half per bit, chip select held low. It returns the last frame
// delivered, if any.
func clockBits(d *device.Decoder, word uint16, bits, halfCycles int) (device.Frame, bool) {
	var (
		frame device.Frame
		got   bool
	)
	for i := 0; i < bits; i++ {
		sdi := word&(0x8000>>uint(i)) != 0
		for c := 0; c < halfCycles; c++ {
			if f, ok := d.Step(false, sdi, false); ok {
				frame, got = f, true
			}
		}
		for c := 0; c < halfCycles; c++ {
			if f, ok := d.Step(false, sdi, true); ok {
				frame, got = f, true
			}
		}
	}
	return frame, got
}

func word(write bool, addr, data uint8) uint16 {
	w := uint16(addr&0x7F)<<8 | uint16(data)
	if write {
		w |= 0x8000
	}
	return w
}

func TestDecoderWriteFrame(t *testing.T) {
	var d device.Decoder

	f, ok := clockBits(&d, word(true, 0x04, 0xCF), 16, 1)
	if !ok {
		t.Fatal("no frame after 16 bits")
	}
	if !f.Write || f.Addr != 0x04 || f.Data != 0xCF {
		t.Fatalf("decoded %+v, want write to 0x04 with 0xCF", f)
	}
	if d.State() != device.Complete {
		t.Fatalf("state = %v after a full frame, want %v", d.State(), device.Complete)
	}

	// chip select release re-arms the decoder
	d.Step(true, false, false)
	if d.State() != device.Idle {
		t.Fatalf("state = %v after chip select release, want %v", d.State(), device.Idle)
	}
}

func TestDecoderReadFrame(t *testing.T) {
	var d device.Decoder

	f, ok := clockBits(&d, word(false, 0x30, 0xBE), 16, 1)
	if !ok {
		t.Fatal("read frame did not complete")
	}
	if f.Write {
		t.Fatalf("decoded %+v as a write", f)
	}
	if f.Addr != 0x30 || f.Data != 0xBE {
		t.Fatalf("decoded %+v, want addr 0x30 data 0xBE", f)
	}
}

func TestDecoderStateSequence(t *testing.T) {
	var d device.Decoder

	if d.State() != device.Idle {
		t.Fatalf("fresh decoder in state %v", d.State())
	}
	clockBits(&d, word(true, 0x00, 0x00), 7, 1)
	if d.State() != device.Header {
		t.Fatalf("state = %v after 7 bits, want %v", d.State(), device.Header)
	}
	clockBits(&d, 0, 1, 1)
	if d.State() != device.Data {
		t.Fatalf("state = %v after 8 bits, want %v", d.State(), device.Data)
	}
}

func TestDecoderAbortMidFrame(t *testing.T) {
	var d device.Decoder

	// 10 of 16 bits, then chip select deasserts
	if _, ok := clockBits(&d, word(true, 0x00, 0xFF), 10, 1); ok {
		t.Fatal("partial frame delivered")
	}
	d.Step(true, false, false)
	if d.State() != device.Idle {
		t.Fatalf("state = %v after abort, want %v", d.State(), device.Idle)
	}

	// no leftover bits: the next full frame decodes cleanly
	f, ok := clockBits(&d, word(true, 0x01, 0x55), 16, 1)
	if !ok {
		t.Fatal("no frame after re-arm")
	}
	if !f.Write || f.Addr != 0x01 || f.Data != 0x55 {
		t.Fatalf("decoded %+v after abort, want write to 0x01 with 0x55", f)
	}
}

func TestDecoderExtraEdgesAfterComplete(t *testing.T) {
	var d device.Decoder

	if _, ok := clockBits(&d, word(true, 0x00, 0xAA), 16, 1); !ok {
		t.Fatal("no frame after 16 bits")
	}
	// extra serial clock activity while chip select stays low is ignored
	if _, ok := clockBits(&d, 0xFFFF, 4, 1); ok {
		t.Fatal("frame delivered past the 16th bit")
	}
	if d.State() != device.Complete {
		t.Fatalf("state = %v, want %v", d.State(), device.Complete)
	}
}

func TestDecoderSlowSerialClock(t *testing.T) {
	var d device.Decoder

	// many system cycles per serial half period: each bit must still be
	// captured exactly once
	f, ok := clockBits(&d, word(true, 0x02, 0x01), 16, 100)
	if !ok {
		t.Fatal("no frame with a slow serial clock")
	}
	if !f.Write || f.Addr != 0x02 || f.Data != 0x01 {
		t.Fatalf("decoded %+v, want write to 0x02 with 0x01", f)
	}
}

func TestDecoderReset(t *testing.T) {
	var d device.Decoder

	clockBits(&d, 0xFFFF, 12, 1)
	d.Reset()
	if d.State() != device.Idle {
		t.Fatalf("state = %v after reset, want %v", d.State(), device.Idle)
	}
	f, ok := clockBits(&d, word(true, 0x00, 0x0F), 16, 1)
	if !ok || !f.Write || f.Addr != 0x00 || f.Data != 0x0F {
		t.Fatalf("decoded %+v (ok=%v) after reset", f, ok)
	}
}
