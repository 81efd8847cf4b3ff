package main

import "testing"

func TestZexHarnessTrapsCharacterOutputAndHalts(t *testing.T) {
	program := []byte{
		0x0E, 0x02, // LD C, 2 (BDOS console-out)
		0x1E, 0x41, // LD E, 'A'
		0xCD, 0x05, 0x00, // CALL 5
		0x76, // HALT
	}
	h := NewZexHarness(program)
	output, halted := h.Run(1000)
	if !halted {
		t.Fatal("harness should report halted after executing HALT")
	}
	if output != "A" {
		t.Fatalf("output = %q, want %q", output, "A")
	}
}

func TestZexHarnessTrapsStringOutput(t *testing.T) {
	program := []byte{
		0x11, 0x00, 0x02, // LD DE, 0x0200
		0x0E, 0x09, // LD C, 9 (BDOS string-out)
		0xCD, 0x05, 0x00, // CALL 5
		0x76, // HALT
	}
	h := NewZexHarness(program)
	copy(h.memory.ram[0x0200:], []byte("HI$"))

	output, halted := h.Run(1000)
	if !halted {
		t.Fatal("harness should report halted after executing HALT")
	}
	if output != "HI" {
		t.Fatalf("output = %q, want %q", output, "HI")
	}
}

func TestZexHarnessReportsNotHaltedWhenInstructionBudgetExpires(t *testing.T) {
	program := []byte{
		0xC3, 0x00, 0x01, // JP 0x0100 (infinite loop, never halts)
	}
	h := NewZexHarness(program)
	_, halted := h.Run(50)
	if halted {
		t.Fatal("harness should not report halted when the instruction budget runs out first")
	}
}

func TestZexHarnessOutputAndStringMatchAfterPartialRun(t *testing.T) {
	program := []byte{
		0x0E, 0x02, // LD C, 2
		0x1E, 0x58, // LD E, 'X'
		0xCD, 0x05, 0x00, // CALL 5
		0xC3, 0x00, 0x01, // JP 0x0100 (loop forever after printing, never HALTs)
	}
	h := NewZexHarness(program)
	h.Run(20)
	if h.Output() != "X" {
		t.Fatalf("Output() = %q, want %q", h.Output(), "X")
	}
	if h.String() == "" {
		t.Fatal("String() should return a non-empty diagnostic")
	}
}
