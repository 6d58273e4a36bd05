// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package spipwm

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// W is a set of wires, connecting a part's I/O pins (the map key) to named
// wires in the circuit. Bus ranges expand element-wise:
//
//	W{"uo[0..7]": "led[0..7]", "csn": "cs"}
type W map[string]string

// expand builds a pin-to-wire map by expanding bus ranges.
func (w W) expand() (map[string]string, error) {
	r := make(map[string]string, len(w))
	for k, v := range w {
		if k == "" || v == "" {
			return nil, errors.New("invalid pin mapping " + k + ":" + v)
		}
		ks, err := expandRange(k)
		if err != nil {
			return nil, errors.Wrap(err, "expand key "+k)
		}
		vs, err := expandRange(v)
		if err != nil {
			return nil, errors.Wrap(err, "expand value "+v)
		}
		if len(ks) != len(vs) {
			return nil, errors.New("pin count mismatch in pin mapping: " + k + ":" + v)
		}
		for i := range ks {
			r[ks[i]] = vs[i]
		}
	}
	return r, nil
}

func expandRange(name string) ([]string, error) {
	i := strings.IndexRune(name, '[')
	if i < 0 {
		return []string{name}, nil
	}
	bus := name[:i]
	if bus == "" {
		return nil, errors.New("empty bus name")
	}
	n := name[i+1:]
	i = strings.Index(n, "..")
	if i < 0 {
		return []string{name}, nil
	}
	start, err := strconv.Atoi(n[:i])
	if err != nil {
		return nil, err
	}
	n = n[i+2:]
	i = strings.IndexRune(n, ']')
	if i < 0 {
		return nil, errors.New("no terminating ] in bus range")
	}
	end, err := strconv.Atoi(n[:i])
	if err != nil {
		return nil, err
	}
	if end < start {
		return nil, errors.New("inverted bus range " + name)
	}
	r := make([]string, 0, end-start+1)
	for i := start; i <= end; i++ {
		r = append(r, BusPinName(bus, i))
	}
	return r, nil
}

// BusPinName returns the pin name for the n-th bit of the named bus.
func BusPinName(name string, n int) string {
	return name + "[" + strconv.Itoa(n) + "]"
}

// IO expands a pin description string to individual pin names:
//
//	IO("csn, sdi, uo[8]") // []string{"csn", "sdi", "uo[0]", ... "uo[7]"}
//
// It panics on a malformed description; pin lists are compile-time
// constants in practice.
func IO(spec string) []string {
	pins, err := parseIO(spec)
	if err != nil {
		panic(err)
	}
	return pins
}

func parseIO(spec string) ([]string, error) {
	var out []string
	for _, f := range strings.Split(spec, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			return nil, errors.Errorf("empty pin name in %q", spec)
		}
		i := strings.IndexRune(f, '[')
		if i < 0 {
			out = append(out, f)
			continue
		}
		if i == 0 || !strings.HasSuffix(f, "]") {
			return nil, errors.Errorf("invalid bus declaration %q", f)
		}
		size, err := strconv.Atoi(f[i+1 : len(f)-1])
		if err != nil {
			return nil, errors.Wrapf(err, "invalid bus size in %q", f)
		}
		for b := 0; b < size; b++ {
			out = append(out, BusPinName(f[:i], b))
		}
	}
	return out, nil
}
