package zmachine

import "strings"

// Screen, window, and input/output-stream opcodes, plus the READ family
// which ties text input to the dictionary.

func (m *Machine) opOutputStream(ops []uint16) error {
	stream := signed(ops[0])
	var table uint16
	if len(ops) > 1 {
		table = ops[1]
	}
	return m.io.SelectOutputStream(stream, table)
}

func (m *Machine) opInputStream(ops []uint16) error {
	return m.io.SelectInputStream(signed(ops[0]))
}

func (m *Machine) opSplitWindow(ops []uint16) error {
	return m.ui.SplitWindow(int(ops[0]))
}

func (m *Machine) opSetWindow(ops []uint16) error {
	w := int(ops[0])
	m.io.SetWindow(w)
	return m.ui.SetWindow(w)
}

func (m *Machine) opEraseWindow(ops []uint16) error {
	return m.ui.EraseWindow(int(signed(ops[0])))
}

func (m *Machine) opEraseLine() error {
	return m.ui.EraseLine()
}

func (m *Machine) opSetCursor(ops []uint16) error {
	return m.ui.SetCursor(int(ops[0]), int(ops[1]))
}

func (m *Machine) opGetCursor(ops []uint16) error {
	line, col := m.ui.GetCursor()
	addr := uint32(ops[0])
	if err := m.mem.PutWord(addr, uint16(line)); err != nil {
		return err
	}
	return m.mem.PutWord(addr+2, uint16(col))
}

func (m *Machine) opSetTextStyle(ops []uint16) error {
	return m.ui.SetTextStyle(TextStyle(ops[0]))
}

func (m *Machine) opBufferMode(ops []uint16) error {
	return m.ui.SetBufferMode(ops[0] != 0)
}

func (m *Machine) opSetColour(ops []uint16) error {
	return m.ui.SetColor(int(signed(ops[0])), int(signed(ops[1])))
}

// opSetFont stores the previous font's id, or 0 if the requested font isn't
// available; since this interpreter doesn't track distinct font ids beyond
// on/off, any successful switch reports 1.
func (m *Machine) opSetFont(ops []uint16) uint16 {
	if m.ui.SetFont(int(ops[0])) {
		return 1
	}
	return 0
}

// opSoundEffect is a no-op: no sound backend is wired up. Consuming its
// operands without complaint matches how most terminal interpreters handle
// stories that politely probe for sound support before giving up on it.
func (m *Machine) opSoundEffect(ops []uint16) {}

func (m *Machine) opShowStatus() error {
	locObj, err := m.getVariable(16)
	if err != nil {
		return err
	}
	g1, err := m.getVariable(17)
	if err != nil {
		return err
	}
	g2, err := m.getVariable(18)
	if err != nil {
		return err
	}
	flags1, err := m.mem.FetchByte(hFlags1)
	if err != nil {
		return err
	}
	timeMode := flags1&0x02 != 0

	var location string
	if locObj != 0 {
		nameAddr, err := m.objects.ObjectName(locObj)
		if err != nil {
			return err
		}
		location, _, err = m.text.Decode(nameAddr)
		if err != nil {
			return err
		}
	}
	return m.ui.ShowStatus(location, int(signed(g1)), int(signed(g2)), timeMode)
}

// opVerify implements VERIFY: sum every byte from 0x40 to the declared end
// of the story file and compare against the header checksum.
func (m *Machine) opVerify() (bool, error) {
	declared, err := m.mem.FetchWord(hFileLength)
	if err != nil {
		return false, err
	}
	var scale uint32
	switch {
	case m.version <= 3:
		scale = 2
	case m.version <= 5:
		scale = 4
	default:
		scale = 8
	}
	length := uint32(declared) * scale
	if length == 0 || length > uint32(m.mem.Len()) {
		length = uint32(m.mem.Len())
	}

	var sum uint16
	for addr := uint32(0x40); addr < length; addr++ {
		b, err := m.mem.FetchByte(addr)
		if err != nil {
			return false, err
		}
		sum += uint16(b)
	}
	checksum, err := m.mem.FetchWord(hChecksum)
	if err != nil {
		return false, err
	}
	return sum == checksum, nil
}

// readTextBuffer extracts the ZSCII input line already written into buf by
// opRead, returning it as a Go string.
func (m *Machine) readTextBuffer(buf uint32) (string, error) {
	var length uint32
	if m.version >= 5 {
		b, err := m.mem.FetchByte(buf + 1)
		if err != nil {
			return "", err
		}
		length = uint32(b)
		buf += 2
	} else {
		buf++
		for {
			b, err := m.mem.FetchByte(buf + length)
			if err != nil {
				return "", err
			}
			if b == 0 {
				break
			}
			length++
		}
	}
	raw, err := m.mem.Dump(buf, length)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// writeTextBuffer lowercases and stores a line the player typed into the
// V1-4 (max length, then a 0-terminated run) or V5+ (max length, actual
// length, then unterminated run) text-buffer layout.
func (m *Machine) writeTextBuffer(buf uint32, line string) error {
	line = strings.ToLower(line)
	maxLen, err := m.mem.FetchByte(buf)
	if err != nil {
		return err
	}
	if m.version >= 5 {
		if maxLen > 0 {
			maxLen--
		}
	}
	if uint32(len(line)) > uint32(maxLen) {
		line = line[:maxLen]
	}

	start := buf + 1
	if m.version >= 5 {
		if err := m.mem.PutByte(buf+1, uint8(len(line))); err != nil {
			return err
		}
		start = buf + 2
	}
	for i := 0; i < len(line); i++ {
		if err := m.mem.PutByte(start+uint32(i), line[i]); err != nil {
			return err
		}
	}
	if m.version < 5 {
		return m.mem.PutByte(start+uint32(len(line)), 0)
	}
	return nil
}

// opRead implements READ (sread/aread): read a line from the keyboard (or
// the active command-script input stream), store it into the text buffer,
// and tokenise it against the dictionary into the parse buffer. V5+ stores
// the terminating character; this implementation always reports the
// return key (13), since timed-input terminator tracking isn't wired up.
// V1-3 show the status line unconditionally before reading, since they have
// no other way to keep it current.
//
// A nonzero time gives the interrupt routine in ops[3] a chance to run on
// every timeout; if it returns nonzero the read is aborted (text buffer left
// empty, result 0), otherwise the read is retried.
func (m *Machine) opRead(ops []uint16) error {
	if m.version <= 3 {
		if err := m.opShowStatus(); err != nil {
			return err
		}
	}

	textBuf := uint32(ops[0])
	var parseBuf uint32
	if len(ops) > 1 {
		parseBuf = uint32(ops[1])
	}
	var timeTenths int
	if len(ops) > 2 {
		timeTenths = int(ops[2])
	}
	var raddr uint16
	if len(ops) > 3 {
		raddr = ops[3]
	}

	line, aborted, err := m.readLineWithInterrupt(timeTenths, raddr)
	if err != nil {
		return err
	}

	if err := m.writeTextBuffer(textBuf, line); err != nil {
		return err
	}
	if !aborted && parseBuf != 0 {
		stored, err := m.readTextBuffer(textBuf)
		if err != nil {
			return err
		}
		if err := m.tokeniseInto(stored, parseBuf, 0); err != nil {
			return err
		}
	}

	if m.version >= 5 {
		resultVar, err := m.fetchByteAdvance()
		if err != nil {
			return err
		}
		if aborted {
			return m.putVariable(resultVar, 0)
		}
		return m.putVariable(resultVar, 13)
	}
	return nil
}

// readLineWithInterrupt reads a line from the active command script or the
// keyboard, retrying across timeouts by calling the interrupt routine at
// raddr (if nonzero) after each one. A nonzero interrupt return value aborts
// the read, reporting an empty line.
func (m *Machine) readLineWithInterrupt(timeTenths int, raddr uint16) (line string, aborted bool, err error) {
	for {
		var ok bool
		if scripted, sok, serr := m.io.ReadScriptLine(); serr != nil {
			return "", false, serr
		} else if sok {
			line, ok = scripted, true
		} else {
			line, ok, err = m.ui.ReadLine("", timeTenths)
			if err != nil {
				return "", false, wrapFault(IOError, err, "reading line")
			}
		}
		if ok {
			return line, false, nil
		}
		if raddr == 0 {
			return "", false, nil
		}
		ret, err := m.interrupt(raddr)
		if err != nil {
			return "", false, err
		}
		if ret != 0 {
			return "", true, nil
		}
	}
}

// opReadChar implements READ_CHAR (V4+): read a single character. Operand
// order is device, time, routine; device is unused since only the keyboard
// is supported.
func (m *Machine) opReadChar(ops []uint16) (uint16, error) {
	var timeTenths int
	if len(ops) > 1 {
		timeTenths = int(ops[1])
	}
	var raddr uint16
	if len(ops) > 2 {
		raddr = ops[2]
	}

	for {
		ch, ok, err := m.ui.ReadChar(timeTenths)
		if err != nil {
			return 0, wrapFault(IOError, err, "reading character")
		}
		if ok {
			return uint16(ch), nil
		}
		if raddr == 0 {
			return 0, nil
		}
		ret, err := m.interrupt(raddr)
		if err != nil {
			return 0, err
		}
		if ret != 0 {
			return 0, nil
		}
	}
}

// opTokenise implements TOKENISE: like the parsing half of READ, but
// operating on text already sitting in a buffer rather than reading new
// input.
func (m *Machine) opTokenise(ops []uint16) error {
	textBuf := uint32(ops[0])
	parseBuf := uint32(ops[1])
	var dict uint32
	if len(ops) > 2 {
		dict = uint32(ops[2])
	}
	stored, err := m.readTextBuffer(textBuf)
	if err != nil {
		return err
	}
	return m.tokeniseInto(stored, parseBuf, dict)
}
