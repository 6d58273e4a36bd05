// Command spipwm runs a scripted set of SPI transactions against the
// simulated peripheral, reports the measured carrier, and can dump the
// primary output's bit 0 to a WAV file for inspection (a 3 kHz carrier sits
// comfortably in the audible range).
package main

import (
	"flag"
	"log"
	"os"

	wav "github.com/youpy/go-wav"

	"spipwm/bench"
	"spipwm/device"
)

func main() {
	var (
		static = flag.Uint("static", 0x01, "static output byte (register 0x00)")
		mask   = flag.Uint("mask", 0x01, "PWM enable mask (register 0x02)")
		duty   = flag.Uint("duty", 0x80, "PWM duty value (register 0x04)")
		ms     = flag.Int("ms", 20, "simulated milliseconds to record")
		out    = flag.String("wav", "", "write the uo[0] waveform to this WAV file")
		rate   = flag.Uint("rate", 44100, "WAV sample rate")
	)
	flag.Parse()

	b, err := bench.New()
	if err != nil {
		log.Fatal(err)
	}
	b.Reset()
	b.WriteReg(device.AddrStatic, uint8(*static))
	b.WriteReg(device.AddrPWMDuty, uint8(*duty))
	b.WriteReg(device.AddrPWMMask, uint8(*mask))
	log.Printf("configured: static=%#02x mask=%#02x duty=%#02x", *static, *mask, *duty)

	period, high, err := b.MeasurePWM(0)
	if err != nil {
		log.Printf("no carrier on uo[0]: %v", err)
	} else {
		freq := float64(device.ClockHz) / float64(period)
		log.Printf("uo[0]: period %d cycles (%.1f Hz), high %d cycles (%.1f%% duty)",
			period, freq, high, float64(high)*100/float64(period))
	}

	if *out == "" {
		return
	}
	if err := record(b, *out, *ms, int(*rate)); err != nil {
		log.Fatal(err)
	}
}

// record buffers bit 0 of the primary output, downsampled from the system
// clock to the WAV sample rate, and writes it on completion.
func record(b *bench.Bench, name string, ms, rate int) (rerr error) {
	decim := device.ClockHz / rate
	cycles := ms * (device.ClockHz / 1000)

	samples := make([]wav.Sample, 0, cycles/decim+1)
	for i := 0; i < cycles; i++ {
		b.Run(1)
		if i%decim != 0 {
			continue
		}
		v := 0x00
		if b.Bit(0) {
			v = 0xff
		}
		samples = append(samples, wav.Sample{Values: [2]int{v, v}})
	}

	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = err
		}
	}()

	enc := wav.NewWriter(f, uint32(len(samples)), 1, uint32(rate), 8)
	if err := enc.WriteSamples(samples); err != nil {
		return err
	}
	log.Printf("wrote %d samples (%d ms) to %s", len(samples), ms, name)
	return nil
}
