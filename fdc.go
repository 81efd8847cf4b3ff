// fdc.go - NEC µPD765-compatible floppy disk controller (spec §4.8).
//
// original_source references an fdc module (ronald-core/src/system/bus.rs's
// `mod fdc; use fdc::NecUpd765;`, ports 0xFB7E/0xFB7F data+status and
// 0xFA7E motor) but the module's own source was not part of the retrieved
// pack, so the command state machine below is built from the documented
// NEC765 command set spec §4.8 names (SPECIFY, RECALIBRATE, SEEK,
// READ-DATA, WRITE-DATA, READ-ID, SENSE-INTERRUPT-STATUS,
// SENSE-DRIVE-STATUS) and the idle/command/execution/result phase model
// common to every 765-compatible implementation, in the same
// struct-plus-methods idiom as this machine's other peripherals. DSK
// backing comes from dsk.go, itself ported from src/dsk_file.rs.
package main

type fdcPhase int

const (
	fdcPhaseIdle fdcPhase = iota
	fdcPhaseCommand
	fdcPhaseExecution
	fdcPhaseResult
)

// FDC command opcodes (low 5 bits of the command byte the firmware writes).
const (
	fdcCmdReadData               = 0x06
	fdcCmdWriteData              = 0x05
	fdcCmdReadID                 = 0x0A
	fdcCmdRecalibrate            = 0x07
	fdcCmdSenseInterruptStatus   = 0x08
	fdcCmdSpecify                = 0x03
	fdcCmdSenseDriveStatus       = 0x04
	fdcCmdSeek                   = 0x0F
)

const maxDrives = 2

// FDC is the NEC 765 controller mediating disk I/O for up to 2 drives.
type FDC struct {
	disks     [maxDrives]*Disk
	cylinder  [maxDrives]byte

	phase fdcPhase

	commandBuffer []byte
	commandLen    int

	resultBuffer []byte
	resultPos    int

	execBuffer []byte
	execPos    int
	execWrite  bool
	execDrive  byte

	pendingWriteTrack  *Track
	pendingWriteSector int

	seekInterruptPending bool
	lastSeekDrive        byte

	motorOn bool

	st0, st1, st2 byte
}

// NewFDC returns a controller with no disks loaded and the motor off.
func NewFDC() *FDC {
	return &FDC{}
}

// Reset returns the controller to its idle phase. Loaded disks survive a
// reset, matching real hardware (the disk stays in the drive).
func (f *FDC) Reset() {
	f.phase = fdcPhaseIdle
	f.commandBuffer = nil
	f.resultBuffer = nil
	f.execBuffer = nil
	f.motorOn = false
	f.seekInterruptPending = false
}

// LoadDisk parses and inserts a DSK image into the given drive (0 or 1).
func (f *FDC) LoadDisk(drive int, image []byte) error {
	if drive < 0 || drive >= maxDrives {
		return newCoreError(KindInvalidDiskImage, "drive index out of range", nil)
	}
	disk, err := LoadDisk(image)
	if err != nil {
		return err
	}
	f.disks[drive] = disk
	return nil
}

// SetMotor latches the motor-on control line (written through port 0xFA7E;
// WritePort calls this for that port).
func (f *FDC) SetMotor(on bool) {
	f.motorOn = on
}

// mainStatusRegister reports RQM (ready for the next byte), DIO (transfer
// direction) and CB (command busy) in the bit positions real firmware
// polls before touching the data register.
func (f *FDC) mainStatusRegister() byte {
	var msr byte = 0x80 // RQM: always ready in this single-threaded model
	switch f.phase {
	case fdcPhaseResult:
		msr |= 0x40 // DIO: FDC -> CPU
		msr |= 0x10 // CB: command busy until the result is fully read
	case fdcPhaseExecution:
		msr |= 0x10
		if !f.execWrite {
			msr |= 0x40
		}
	case fdcPhaseCommand:
		msr |= 0x10
	}
	return msr
}

// ReadPort handles a read from the FDC's data (0xFB7F) or status (0xFB7E)
// port.
func (f *FDC) ReadPort(port uint16) byte {
	if port&0xFFFF == 0xFB7E {
		return f.mainStatusRegister()
	}
	return f.readData()
}

// WritePort handles a write to the FDC's data (0xFB7F) or motor (0xFA7E)
// port.
func (f *FDC) WritePort(port uint16, value byte) {
	if port&0xFFFF == 0xFA7E {
		f.SetMotor(value&0x01 != 0)
		return
	}
	f.writeData(value)
}

func (f *FDC) readData() byte {
	switch f.phase {
	case fdcPhaseResult:
		if f.resultPos >= len(f.resultBuffer) {
			f.phase = fdcPhaseIdle
			return 0
		}
		b := f.resultBuffer[f.resultPos]
		f.resultPos++
		if f.resultPos >= len(f.resultBuffer) {
			f.phase = fdcPhaseIdle
		}
		return b
	case fdcPhaseExecution:
		if f.execWrite || f.execPos >= len(f.execBuffer) {
			return 0xFF
		}
		b := f.execBuffer[f.execPos]
		f.execPos++
		if f.execPos >= len(f.execBuffer) {
			f.finishExecution()
		}
		return b
	default:
		return 0xFF
	}
}

func (f *FDC) writeData(value byte) {
	switch f.phase {
	case fdcPhaseIdle:
		f.commandBuffer = []byte{value}
		f.commandLen = fdcCommandLength(value & 0x1F)
		if f.commandLen == 1 {
			f.executeCommand()
		} else {
			f.phase = fdcPhaseCommand
		}
	case fdcPhaseCommand:
		f.commandBuffer = append(f.commandBuffer, value)
		if len(f.commandBuffer) >= f.commandLen {
			f.executeCommand()
		}
	case fdcPhaseExecution:
		if f.execWrite && f.execPos < len(f.execBuffer) {
			f.execBuffer[f.execPos] = value
			f.execPos++
			if f.execPos >= len(f.execBuffer) {
				f.finishExecution()
			}
		}
	}
}

// fdcCommandLength returns how many bytes (including the opcode byte) each
// command consumes before execution begins.
func fdcCommandLength(opcode byte) int {
	switch opcode {
	case fdcCmdSpecify:
		return 3
	case fdcCmdRecalibrate:
		return 2
	case fdcCmdSenseInterruptStatus:
		return 1
	case fdcCmdSenseDriveStatus:
		return 2
	case fdcCmdSeek:
		return 3
	case fdcCmdReadID:
		return 2
	case fdcCmdReadData, fdcCmdWriteData:
		return 9
	default:
		return 1
	}
}

func (f *FDC) executeCommand() {
	opcode := f.commandBuffer[0] & 0x1F
	switch opcode {
	case fdcCmdSpecify:
		f.phase = fdcPhaseIdle

	case fdcCmdRecalibrate:
		drive := f.commandBuffer[1] & 0x03
		f.cylinder[drive] = 0
		f.seekInterruptPending = true
		f.lastSeekDrive = drive
		f.phase = fdcPhaseIdle

	case fdcCmdSeek:
		driveHead := f.commandBuffer[1]
		drive := driveHead & 0x03
		f.cylinder[drive] = f.commandBuffer[2]
		f.seekInterruptPending = true
		f.lastSeekDrive = drive
		f.phase = fdcPhaseIdle

	case fdcCmdSenseInterruptStatus:
		st0 := byte(0x20) // seek end
		if !f.seekInterruptPending {
			st0 = 0x80 | 0x40 // invalid command: no interrupt was pending
			f.resultBuffer = []byte{st0}
		} else {
			f.resultBuffer = []byte{st0 | f.lastSeekDrive, f.cylinder[f.lastSeekDrive]}
			f.seekInterruptPending = false
		}
		f.resultPos = 0
		f.phase = fdcPhaseResult

	case fdcCmdSenseDriveStatus:
		driveHead := f.commandBuffer[1]
		drive := driveHead & 0x03
		var st3 byte = drive & 0x03
		st3 |= 0x08 // ready
		if f.disks[drive] != nil {
			st3 |= 0x20 // track 0, best-effort flag reuse: write-protect left clear
		}
		f.resultBuffer = []byte{st3}
		f.resultPos = 0
		f.phase = fdcPhaseResult

	case fdcCmdReadID:
		f.doReadID()

	case fdcCmdReadData:
		f.doReadData()

	case fdcCmdWriteData:
		f.doWriteData()

	default:
		f.resultBuffer = []byte{0x80} // ST0: invalid command
		f.resultPos = 0
		f.phase = fdcPhaseResult
	}

	f.commandBuffer = nil
}

func (f *FDC) driveAndTrack() (drive byte, track *Track, ok bool) {
	driveHead := f.commandBuffer[1]
	drive = driveHead & 0x03
	side := (driveHead >> 2) & 0x01
	disk := f.disks[drive]
	if disk == nil {
		return drive, nil, false
	}
	idx, ok := disk.FindTrackIndex(f.cylinder[drive], side)
	if !ok {
		return drive, nil, false
	}
	return drive, &disk.Tracks[idx], true
}

func (f *FDC) doReadID() {
	_, track, ok := f.driveAndTrack()
	if !ok || len(track.SectorInfos) == 0 {
		f.resultBuffer = []byte{0x40, 0x01, 0x00, 0, 0, 0, 0} // ST0 abnormal termination, ST1 bit 0: missing address mark
		f.resultPos = 0
		f.phase = fdcPhaseResult
		return
	}
	info := track.SectorInfos[0]
	f.resultBuffer = []byte{0, 0, 0, info.Track, info.Side, info.SectorID, info.SectorSize}
	f.resultPos = 0
	f.phase = fdcPhaseResult
}

func (f *FDC) doReadData() {
	drive, track, ok := f.driveAndTrack()
	sectorID := f.commandBuffer[4]
	if !ok {
		f.readDataFailed(drive)
		return
	}
	sectorIdx := track.FindSector(sectorID)
	if sectorIdx < 0 {
		f.readDataFailed(drive)
		return
	}

	data := make([]byte, len(track.Sectors[sectorIdx]))
	copy(data, track.Sectors[sectorIdx])

	f.execBuffer = data
	f.execPos = 0
	f.execWrite = false
	f.execDrive = drive
	f.phase = fdcPhaseExecution

	info := track.SectorInfos[sectorIdx]
	f.resultBuffer = []byte{0, 0, 0, info.Track, info.Side, info.SectorID, info.SectorSize}
}

func (f *FDC) readDataFailed(drive byte) {
	f.resultBuffer = []byte{0x40, 0x04, 0x00, f.cylinder[drive], 0, 0, 0} // ST1 bit 2: no data
	f.resultPos = 0
	f.phase = fdcPhaseResult
}

func (f *FDC) doWriteData() {
	drive, track, ok := f.driveAndTrack()
	sectorID := f.commandBuffer[4]
	if !ok {
		f.readDataFailed(drive)
		return
	}
	sectorIdx := track.FindSector(sectorID)
	if sectorIdx < 0 {
		f.readDataFailed(drive)
		return
	}

	f.execBuffer = make([]byte, len(track.Sectors[sectorIdx]))
	f.execPos = 0
	f.execWrite = true
	f.execDrive = drive
	f.phase = fdcPhaseExecution

	info := track.SectorInfos[sectorIdx]
	f.resultBuffer = []byte{0, 0, 0, info.Track, info.Side, info.SectorID, info.SectorSize}

	f.pendingWriteTrack = track
	f.pendingWriteSector = sectorIdx
}

func (f *FDC) finishExecution() {
	if f.execWrite && f.pendingWriteTrack != nil {
		copy(f.pendingWriteTrack.Sectors[f.pendingWriteSector], f.execBuffer)
		f.pendingWriteTrack = nil
	}
	f.resultPos = 0
	f.phase = fdcPhaseResult
}
