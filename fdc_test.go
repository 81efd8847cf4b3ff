package main

import (
	"bytes"
	"testing"
)

func TestFDCMainStatusRegisterIdleIsReady(t *testing.T) {
	f := NewFDC()
	if got := f.mainStatusRegister(); got&0x80 == 0 {
		t.Fatalf("idle MSR = %#02x, RQM bit should be set", got)
	}
}

func TestFDCSpecifyCommandReturnsToIdle(t *testing.T) {
	f := NewFDC()
	f.WritePort(0xFB7F, fdcCmdSpecify)
	f.WritePort(0xFB7F, 0x00)
	f.WritePort(0xFB7F, 0x00)
	if f.phase != fdcPhaseIdle {
		t.Fatalf("phase after SPECIFY = %v, want idle", f.phase)
	}
}

func TestFDCSenseInterruptStatusWithoutPendingSeekReportsInvalid(t *testing.T) {
	f := NewFDC()
	f.WritePort(0xFB7F, fdcCmdSenseInterruptStatus)
	if f.phase != fdcPhaseResult {
		t.Fatalf("phase after SENSE-INTERRUPT-STATUS = %v, want result", f.phase)
	}
	st0 := f.ReadPort(0xFB7F)
	if st0&0xC0 != 0xC0 {
		t.Fatalf("ST0 = %#02x, want invalid-command bits set", st0)
	}
}

func TestFDCRecalibrateThenSenseInterruptStatus(t *testing.T) {
	f := NewFDC()
	f.WritePort(0xFB7F, fdcCmdRecalibrate)
	f.WritePort(0xFB7F, 0x00) // drive 0

	f.WritePort(0xFB7F, fdcCmdSenseInterruptStatus)
	if f.phase != fdcPhaseResult {
		t.Fatalf("phase after SENSE-INTERRUPT-STATUS = %v, want result", f.phase)
	}
	st0 := f.ReadPort(0xFB7F)
	if st0&0x20 == 0 {
		t.Fatalf("ST0 = %#02x, want seek-end bit set", st0)
	}
	cylinder := f.ReadPort(0xFB7F)
	if cylinder != 0 {
		t.Fatalf("cylinder after RECALIBRATE = %d, want 0", cylinder)
	}
}

func TestFDCReadIDWithNoDiskFails(t *testing.T) {
	f := NewFDC()
	f.WritePort(0xFB7F, fdcCmdReadID)
	f.WritePort(0xFB7F, 0x00) // drive/head
	if f.phase != fdcPhaseResult {
		t.Fatalf("phase after READ-ID = %v, want result", f.phase)
	}
	st0 := f.ReadPort(0xFB7F)
	if st0&0x40 == 0 {
		t.Fatalf("ST0 = %#02x, want abnormal-termination bit set", st0)
	}
}

func TestFDCReadDataRoundTrip(t *testing.T) {
	f := NewFDC()
	image := buildTestDisk(0xC1, []byte("HELLO DISK"))
	if err := f.LoadDisk(0, image); err != nil {
		t.Fatalf("LoadDisk: %v", err)
	}

	f.WritePort(0xFB7F, fdcCmdReadData)
	for _, b := range []byte{0x00, 0x00, 0x00, 0xC1, 0x02, 0x01, 0x02, 0x2A} {
		f.WritePort(0xFB7F, b)
	}
	if f.phase != fdcPhaseExecution {
		t.Fatalf("phase after READ-DATA command bytes = %v, want execution", f.phase)
	}

	got := make([]byte, 10)
	for i := range got {
		got[i] = f.ReadPort(0xFB7F)
	}
	if !bytes.Equal(got, []byte("HELLO DISK")) {
		t.Fatalf("read data = %q, want %q", got, "HELLO DISK")
	}
}

func TestFDCWriteDataRoundTrip(t *testing.T) {
	f := NewFDC()
	image := buildTestDisk(0xC1, []byte("0000000000"))
	if err := f.LoadDisk(0, image); err != nil {
		t.Fatalf("LoadDisk: %v", err)
	}

	f.WritePort(0xFB7F, fdcCmdWriteData)
	for _, b := range []byte{0x00, 0x00, 0x00, 0xC1, 0x02, 0x01, 0x02, 0x2A} {
		f.WritePort(0xFB7F, b)
	}
	if f.phase != fdcPhaseExecution {
		t.Fatalf("phase after WRITE-DATA command bytes = %v, want execution", f.phase)
	}

	payload := []byte("WRITTEN!!!")
	for i := 0; i < 512; i++ {
		var b byte
		if i < len(payload) {
			b = payload[i]
		}
		f.WritePort(0xFB7F, b)
	}

	track := f.disks[0].Tracks[0]
	idx := track.FindSector(0xC1)
	if !bytes.HasPrefix(track.Sectors[idx], payload) {
		t.Fatalf("sector data after write = %q, want prefix %q", track.Sectors[idx][:len(payload)], payload)
	}
}

func TestFDCSetMotorViaPort(t *testing.T) {
	f := NewFDC()
	f.WritePort(0xFA7E, 0x01)
	if !f.motorOn {
		t.Fatal("motor should be on after writing 0x01 to the motor port")
	}
	f.WritePort(0xFA7E, 0x00)
	if f.motorOn {
		t.Fatal("motor should be off after writing 0x00 to the motor port")
	}
}
