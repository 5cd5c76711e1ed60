//go:build nogpu

// Package gpu is empty when built with the nogpu tag; simulations solve on
// the CPU.
package gpu
