/*
Package spipwm provides a clock-accurate simulation of a small SPI-configured
PWM peripheral, together with the naive synchronous simulator it runs on.

The root package is the simulator: a Circuit holds double-buffered wire
states and advances every mounted component once per Step (one system clock
cycle). Components are closures mounted through sockets, so stateful parts
keep their state in captured variables.

The device package models the peripheral itself (frame decoder, register
file, output stage with the PWM generator), the bench package drives it the
way the original harness does (bit-banged SPI frames, edge timing
measurements), and cmd/spipwm runs scripted transactions against it.

The API relies heavily on closures and can feel a bit awkward when
implementing custom components; see the device package for a worked example.
*/
package spipwm
