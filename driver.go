// driver.go - Public embedding API (spec §6).
//
// Grounded on original_source/ronald-core/src/lib.rs's Driver: New/WithConfig
// construction, step (run for a budget of emulated microseconds) and
// step_single (one instruction), key press/release by name, disk loading,
// JSON snapshotting, disassembly and a frozen debug view. The original's
// save_rom/load_snapshot/save_snapshot were all `todo!()`; this implements
// them, with the binary snapshot covering RAM contents only.
package main

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
)

// SystemConfig selects which ROM images a Driver boots with.
type SystemConfig struct {
	LowerROM  []byte
	BasicROM  []byte
	SampleRate int
}

// Driver is the embeddable entry point: construct one, feed it a VideoSink
// and AudioSink, and call Step/StepSingle to run the machine.
type Driver struct {
	system *AmstradCpc
}

// New constructs a Driver with no ROMs installed; callers must use
// WithConfig or this Driver will run against blank lower ROM memory.
func New() (*Driver, error) {
	return WithConfig(SystemConfig{SampleRate: defaultSampleRate})
}

const defaultSampleRate = 44100

// WithConfig constructs a Driver booting the given ROM set.
func WithConfig(config SystemConfig) (*Driver, error) {
	rate := config.SampleRate
	if rate == 0 {
		rate = defaultSampleRate
	}
	system, err := NewAmstradCpc(config.LowerROM, config.BasicROM, rate)
	if err != nil {
		return nil, err
	}
	return &Driver{system: system}, nil
}

// Step runs the machine until at least usecs microseconds of emulated time
// have elapsed, pushing frames/samples to the given sinks as they're
// produced.
func (d *Driver) Step(usecs int, video VideoSink, audio AudioSink) {
	// Emulate reports master-clock ticks, which run at 4 per microsecond.
	var elapsed int
	for elapsed < usecs*4 {
		elapsed += int(d.system.Emulate(video, audio))
	}
}

// StepSingle runs exactly one CPU instruction.
func (d *Driver) StepSingle(video VideoSink, audio AudioSink) {
	d.system.Emulate(video, audio)
}

// PressKey presses the named key. Unknown names are ignored (host
// GUI/keymap concern per spec's error propagation rules), matching the
// original's HashMap lookup that silently no-ops on a miss.
func (d *Driver) PressKey(name string) {
	_ = d.system.PressKey(name)
}

// ReleaseKey releases the named key.
func (d *Driver) ReleaseKey(name string) {
	_ = d.system.ReleaseKey(name)
}

// LoadDisk inserts a DSK image into the given drive.
func (d *Driver) LoadDisk(drive int, image []byte) error {
	return d.system.LoadDisk(drive, image)
}

// SubscribeDebugEvents registers fn to receive the machine's internal debug
// event stream (spec §9), dispatched synchronously from inside Step/
// StepSingle.
func (d *Driver) SubscribeDebugEvents(fn func(DebugEvent)) {
	d.system.SubscribeDebugEvents(fn)
}

// GetJSONSnapshot serializes a human-inspectable snapshot of machine state.
func (d *Driver) GetJSONSnapshot() (string, error) {
	view := d.system.DebugView()
	data, err := json.Marshal(view)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Disassemble returns count decoded instructions from the current PC,
// JSON-encoded.
func (d *Driver) Disassemble(count int) (string, error) {
	lines := d.system.Disassemble(count)
	data, err := json.Marshal(lines)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DebugView returns a frozen snapshot of CPU and memory state.
func (d *Driver) DebugView() SystemDebugView {
	return d.system.DebugView()
}

const (
	snapshotMagic   = "RCPC"
	snapshotVersion = 1
)

// SaveSnapshot serializes the machine's 64 KiB RAM into a compact binary
// blob. CPU registers, ROM selection and peripheral register state are not
// included, so LoadSnapshot restores RAM contents only. The original left
// this as `todo!()`; this implements it using the same
// gzip+binary framing convention the engine's debug_snapshot.go used for
// its own (now-superseded) MachineSnapshot format.
func (d *Driver) SaveSnapshot() ([]byte, error) {
	var raw bytes.Buffer
	raw.WriteString(snapshotMagic)
	binary.Write(&raw, binary.LittleEndian, uint32(snapshotVersion))

	ram := d.system.memory.RAMSnapshot()
	binary.Write(&raw, binary.LittleEndian, uint32(len(ram)))
	raw.Write(ram)

	var out bytes.Buffer
	gz := gzip.NewWriter(&out)
	if _, err := gz.Write(raw.Bytes()); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// LoadSnapshot restores the RAM contents previously saved by SaveSnapshot.
// All other machine state is left as it is.
func (d *Driver) LoadSnapshot(data []byte) error {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return newCoreError(KindInvalidDiskImage, "snapshot is not gzip-compressed", err)
	}
	defer gz.Close()

	raw, err := io.ReadAll(gz)
	if err != nil {
		return newCoreError(KindInvalidDiskImage, "truncated snapshot", err)
	}
	if len(raw) < 8 || string(raw[0:4]) != snapshotMagic {
		return newCoreError(KindInvalidDiskImage, "bad snapshot magic", nil)
	}
	version := binary.LittleEndian.Uint32(raw[4:8])
	if version != snapshotVersion {
		return newCoreError(KindInvalidDiskImage, fmt.Sprintf("unsupported snapshot version %d", version), nil)
	}

	ramLen := binary.LittleEndian.Uint32(raw[8:12])
	ramStart := 12
	if uint32(len(raw)-ramStart) < ramLen {
		return newCoreError(KindInvalidDiskImage, "snapshot RAM section truncated", nil)
	}
	d.system.memory.RestoreRAM(raw[ramStart : ramStart+int(ramLen)])
	return nil
}

// SaveROM returns the currently installed lower ROM image, letting a
// frontend persist the exact firmware this Driver was booted with. The
// original left this as `todo!()`.
func (d *Driver) SaveROM() []byte {
	return append([]byte(nil), d.system.memory.lowerROM...)
}
