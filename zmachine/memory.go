package zmachine

// Header field offsets, per the story-file format shared by all versions
// this interpreter supports (1-5, 7, 8).
const (
	hVersion           = 0x00
	hFlags1            = 0x01
	hRelease           = 0x02
	hHighMemBase       = 0x04
	hInitialPC         = 0x06
	hDictionary        = 0x08
	hObjectTable       = 0x0a
	hGlobals           = 0x0c
	hStaticBase        = 0x0e
	hFlags2            = 0x10
	hSerial            = 0x12
	hAbbrevTable       = 0x18
	hFileLength        = 0x1a
	hChecksum          = 0x1c
	hInterpNumber      = 0x1e
	hInterpVersion     = 0x1f
	hScreenHeightChars = 0x20
	hScreenWidthChars  = 0x21
	hScreenWidthUnits  = 0x22
	hScreenHeightUnits = 0x24
	hFontHeightUnits   = 0x26
	hFontWidthUnits    = 0x27
	hRoutinesOffset    = 0x28
	hStringsOffset     = 0x2a
	hDefaultBackground = 0x2c
	hDefaultForeground = 0x2d
	hTermCharTable     = 0x2e
	hAlphabetTable     = 0x34
)

// Memory is the Z-machine's byte-addressable story image: header, dynamic
// memory, static memory, and high memory, all in one contiguous slice.
// Bounds are checked against the image length only; the dynamic/static/high
// boundaries are advisory to callers (CPU, ObjectTable), not enforced here,
// matching the original's ZMemory which never distinguished them either.
type Memory struct {
	data []byte
}

// NewMemory copies story into a fresh Memory. The caller's slice is never
// aliased, so a later Restart can always rebuild from a pristine copy.
func NewMemory(story []byte) *Memory {
	data := make([]byte, len(story))
	copy(data, story)
	return &Memory{data: data}
}

// Len returns the size of the memory image in bytes.
func (m *Memory) Len() int { return len(m.data) }

// Reset replaces the image contents with a copy of story, resizing if the
// lengths differ.
func (m *Memory) Reset(story []byte) {
	if cap(m.data) >= len(story) {
		m.data = m.data[:len(story)]
	} else {
		m.data = make([]byte, len(story))
	}
	copy(m.data, story)
}

func (m *Memory) checkAddr(addr uint32) error {
	if int64(addr) >= int64(len(m.data)) {
		return fault(MemoryFault, "address %#x out of range (image length %#x)", addr, len(m.data))
	}
	return nil
}

// FetchByte reads a single byte at addr.
func (m *Memory) FetchByte(addr uint32) (uint8, error) {
	if err := m.checkAddr(addr); err != nil {
		return 0, err
	}
	return m.data[addr], nil
}

// PutByte writes a single byte at addr.
func (m *Memory) PutByte(addr uint32, v uint8) error {
	if err := m.checkAddr(addr); err != nil {
		return err
	}
	m.data[addr] = v
	return nil
}

// FetchWord reads a big-endian 16-bit word at addr.
func (m *Memory) FetchWord(addr uint32) (uint16, error) {
	if err := m.checkAddr(addr + 1); err != nil {
		return 0, err
	}
	return uint16(m.data[addr])<<8 | uint16(m.data[addr+1]), nil
}

// PutWord writes a big-endian 16-bit word at addr.
func (m *Memory) PutWord(addr uint32, v uint16) error {
	if err := m.checkAddr(addr + 1); err != nil {
		return err
	}
	m.data[addr] = uint8(v >> 8)
	m.data[addr+1] = uint8(v)
	return nil
}

// Dump copies length bytes starting at addr out of the image. save.go uses
// it to snapshot dynamic memory for save/undo.
func (m *Memory) Dump(addr, length uint32) ([]byte, error) {
	if err := m.checkAddr(addr + length - 1); length > 0 {
		if err != nil {
			return nil, err
		}
	}
	out := make([]byte, length)
	copy(out, m.data[addr:addr+length])
	return out, nil
}

// Load overwrites length bytes starting at addr with data. save.go uses it
// to restore dynamic memory from a save or undo snapshot.
func (m *Memory) Load(addr uint32, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if err := m.checkAddr(addr + uint32(len(data)) - 1); err != nil {
		return err
	}
	copy(m.data[addr:], data)
	return nil
}

// Version returns the story file's version byte.
func (m *Memory) Version() (uint8, error) {
	return m.FetchByte(hVersion)
}

// UnpackAddress converts a packed routine or string address to a byte
// address, per the Z-machine standard's version-dependent scale factor.
// isRoutine distinguishes the V6/V7 routine-offset vs. string-offset case;
// pass isRoutine=true for CALL targets and false for literal-string operands
// (PRINT_PADDR and the like).
func (m *Memory) UnpackAddress(packed uint16, version uint8, isRoutine bool) (uint32, error) {
	p := uint32(packed)
	switch {
	case version <= 3:
		return 2 * p, nil
	case version == 4 || version == 5:
		return 4 * p, nil
	case version == 6 || version == 7:
		offsetField := uint32(hStringsOffset)
		if isRoutine {
			offsetField = hRoutinesOffset
		}
		offset, err := m.FetchWord(offsetField)
		if err != nil {
			return 0, err
		}
		return 4*p + 8*uint32(offset), nil
	case version == 8:
		return 8 * p, nil
	default:
		return 0, fault(UnsupportedVersion, "version %d", version)
	}
}
