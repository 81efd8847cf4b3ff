//go:build !(amd64 || arm64 || 386 || arm || riscv64 || loong64 || mipsle || mips64le || ppc64le || wasm)

// be_unsupported.go - deliberate compile error on any architecture not
// covered by le_check.go.

package main

var _ [-1]int // this emulator requires a little-endian host architecture
