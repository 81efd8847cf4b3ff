// keyboard.go - 10x8 key matrix (spec §4.10).
//
// Grounded on original_source/src/keyboard.rs: the 82-entry KEYS table (name,
// shifted-flag) in its original declaration order, the matrix position
// derived the same way the original firmware table does - index/8 for line,
// index%8 for bit - and the Keyboard struct's active-line latch and
// bit-clear-on-press convention (unpressed is 1, pressed is 0, matching the
// real matrix's pull-up wiring). Entries 80-81 (JoystickFire2/3) fall past
// the 80-slot 10x8 matrix and are host-side-only, exactly as in the original.
package main

import "fmt"

const keyboardLineCount = 10

// keyNames is the CPC key table in matrix order: keyNames[i] sits at line
// i/8, bit i%8. keyShifted records whether PressKey should also assert the
// Shift line for that key (the firmware's own idea of which legends require
// Shift on a real CPC keyboard, independent of host keyboard layout).
var keyNames = [82]string{
	"Escape", "Key1", "Key2", "Key3", "Key4", "Key5", "Key6", "Key7",
	"Key8", "Key9", "Key0", "Minus", "Caret", "Clear", "Delete", "Tab",
	"Q", "W", "E", "R", "T", "Y", "U", "I",
	"O", "P", "At", "BracketLeft", "Enter", "CapsLock", "A", "S",
	"D", "F", "G", "H", "J", "K", "L", "Colon",
	"Semicolon", "BracketRight", "ShiftLeft", "Z", "X", "C", "V", "B",
	"N", "M", "Comma", "Period", "Slash", "Backslash", "ShiftRight", "Space",
	"Control", "ArrowUp", "ArrowLeft", "Copy", "ArrowRight", "ArrowDown", "Numpad7", "Numpad8",
	"Numpad9", "Numpad4", "Numpad5", "Numpad6", "Numpad1", "Numpad2", "Numpad3", "Numpad0",
	"NumpadPeriod", "NumpadEnter", "ToggleJoystick", "JoystickUp", "JoystickLeft", "JoystickRight", "JoystickDown", "JoystickFire1",
	"JoystickFire2", "JoystickFire3",
}

var keyShifted = [82]bool{
	false, true, true, true, true, true, true, true,
	true, true, true, true, true, false, false, false,
	true, true, true, true, true, true, true, true,
	true, true, true, false, false, false, true, true,
	true, true, true, true, true, true, true, true,
	true, false, false, true, true, true, true, true,
	true, true, true, true, true, false, true, false,
	false, false, false, false, false, false, false, false,
	false, false, false, false, false, false, false, false,
	false, false, false, false, false, false, false, false,
	false, false,
}

// keyLineBit maps a key name to its matrix line/bit, built once from
// keyNames. Entries past index 79 (the two extra joystick fire buttons) are
// left out of the matrix: they have no real line/bit on a CPC and are
// handled by whatever joystick emulation sits above this keyboard.
var keyLineBit = func() map[string][2]int {
	m := make(map[string][2]int, 80)
	for i := 0; i < 80; i++ {
		m[keyNames[i]] = [2]int{i / 8, i % 8}
	}
	return m
}()

var keyShiftRequired = func() map[string]bool {
	m := make(map[string]bool, len(keyNames))
	for i, name := range keyNames {
		m[name] = keyShifted[i]
	}
	return m
}()

// Keyboard is the CPC's 10x8 key matrix, selected one line at a time
// through the PPI's port C lower nibble and scanned back through port B.
type Keyboard struct {
	lines      [keyboardLineCount]byte
	activeLine int
}

// NewKeyboard returns a keyboard with no keys held (every matrix bit set,
// matching the pull-up-resistor idle state).
func NewKeyboard() *Keyboard {
	k := &Keyboard{}
	k.Reset()
	return k
}

// Reset releases every key.
func (k *Keyboard) Reset() {
	for i := range k.lines {
		k.lines[i] = 0xFF
	}
	k.activeLine = 0
}

// SetActiveLine latches which matrix line ScanActiveLine reads back,
// written by the PPI from port C's lower nibble.
func (k *Keyboard) SetActiveLine(line int) {
	k.activeLine = line
}

// ScanActiveLine returns the currently selected line's bits, or 0xFF (no
// keys held) if the selected line is outside the matrix, matching the real
// PPI's floating-bus behaviour for unconnected lines.
func (k *Keyboard) ScanActiveLine() byte {
	if k.activeLine < 0 || k.activeLine >= keyboardLineCount {
		return 0xFF
	}
	return k.lines[k.activeLine]
}

func (k *Keyboard) setBit(line, bit int, held bool) {
	if held {
		k.lines[line] &^= 1 << uint(bit)
	} else {
		k.lines[line] |= 1 << uint(bit)
	}
}

// PressKey clears the named key's matrix bit (and ShiftLeft's, if the key's
// legend requires Shift) to signal it held. Unknown key names are rejected
// with a KindUnknownKey error.
func (k *Keyboard) PressKey(name string) error {
	return k.setKey(name, true)
}

// ReleaseKey sets the named key's matrix bit back to idle.
func (k *Keyboard) ReleaseKey(name string) error {
	return k.setKey(name, false)
}

func (k *Keyboard) setKey(name string, held bool) error {
	pos, ok := keyLineBit[name]
	if !ok {
		return newCoreError(KindUnknownKey, fmt.Sprintf("unknown key %q", name), nil)
	}
	k.setBit(pos[0], pos[1], held)
	if keyShiftRequired[name] {
		shiftPos := keyLineBit["ShiftLeft"]
		k.setBit(shiftPos[0], shiftPos[1], held)
	}
	return nil
}
