package zmachine

// Arithmetic, comparison, and raw-memory opcodes: the ones whose semantics
// are pure bit/word manipulation with no object table or text codec
// involvement.

func (m *Machine) opJe(ops []uint16) bool {
	for _, v := range ops[1:] {
		if ops[0] == v {
			return true
		}
	}
	return false
}

func (m *Machine) opDecChk(ops []uint16) (bool, error) {
	varNum := uint8(ops[0])
	v, err := m.getVariable(varNum)
	if err != nil {
		return false, err
	}
	nv := uint16(signed(v) - 1)
	if err := m.putVariable(varNum, nv); err != nil {
		return false, err
	}
	return signed(nv) < signed(ops[1]), nil
}

func (m *Machine) opIncChk(ops []uint16) (bool, error) {
	varNum := uint8(ops[0])
	v, err := m.getVariable(varNum)
	if err != nil {
		return false, err
	}
	nv := uint16(signed(v) + 1)
	if err := m.putVariable(varNum, nv); err != nil {
		return false, err
	}
	return signed(nv) > signed(ops[1]), nil
}

func (m *Machine) opInc(ops []uint16) error {
	varNum := uint8(ops[0])
	v, err := m.getVariable(varNum)
	if err != nil {
		return err
	}
	return m.putVariable(varNum, uint16(signed(v)+1))
}

func (m *Machine) opDec(ops []uint16) error {
	varNum := uint8(ops[0])
	v, err := m.getVariable(varNum)
	if err != nil {
		return err
	}
	return m.putVariable(varNum, uint16(signed(v)-1))
}

func (m *Machine) opStore(ops []uint16) error {
	return m.putVariable(uint8(ops[0]), ops[1])
}

func (m *Machine) opPull(ops []uint16) error {
	v, ok := m.stack.Current.pop()
	if !ok {
		return fault(StackUnderflow, "pull: operand stack underflow")
	}
	return m.putVariable(uint8(ops[0]), v)
}

// opLoad implements LOAD: read the named variable's value without the
// usual pop-on-read behavior variable 0 (the stack) would otherwise get.
func (m *Machine) opLoad(ops []uint16) (uint16, error) {
	v := uint8(ops[0])
	if v == 0 {
		top, ok := m.stack.Current.peek()
		if !ok {
			return 0, fault(StackUnderflow, "load: operand stack is empty")
		}
		return top, nil
	}
	return m.getVariable(v)
}

func (m *Machine) opLoadw(ops []uint16) (uint16, error) {
	return m.mem.FetchWord(uint32(ops[0]) + 2*uint32(signed(ops[1])))
}

func (m *Machine) opLoadb(ops []uint16) (uint16, error) {
	b, err := m.mem.FetchByte(uint32(ops[0]) + uint32(signed(ops[1])))
	return uint16(b), err
}

func (m *Machine) opStorew(ops []uint16) error {
	return m.mem.PutWord(uint32(ops[0])+2*uint32(signed(ops[1])), ops[2])
}

func (m *Machine) opStoreb(ops []uint16) error {
	return m.mem.PutByte(uint32(ops[0])+uint32(signed(ops[1])), uint8(ops[2]))
}

func (m *Machine) opDiv(ops []uint16) (uint16, error) {
	divisor := signed(ops[1])
	if divisor == 0 {
		return 0, fault(DivideByZero, "division by zero")
	}
	return uint16(signed(ops[0]) / divisor), nil
}

func (m *Machine) opMod(ops []uint16) (uint16, error) {
	divisor := signed(ops[1])
	if divisor == 0 {
		return 0, fault(DivideByZero, "modulo by zero")
	}
	return uint16(signed(ops[0]) % divisor), nil
}

// opScanTable implements SCAN_TABLE: linear search of len words (or bytes,
// if flags bit 7 is clear) starting at table for value x, returning the
// matching address or 0.
func (m *Machine) opScanTable(ops []uint16) (uint16, bool, error) {
	x := ops[0]
	table := uint32(ops[1])
	length := ops[2]
	fields := uint16(0x82) // default: word entries, 2 bytes per entry
	if len(ops) > 3 {
		fields = ops[3]
	}
	wordEntries := fields&0x80 != 0
	entrySize := uint32(fields & 0x7f)
	if entrySize == 0 {
		entrySize = 2
	}
	addr := table
	for i := uint16(0); i < length; i++ {
		var v uint16
		var err error
		if wordEntries {
			v, err = m.mem.FetchWord(addr)
		} else {
			var b uint8
			b, err = m.mem.FetchByte(addr)
			v = uint16(b)
		}
		if err != nil {
			return 0, false, err
		}
		if v == x {
			return uint16(addr), true, nil
		}
		addr += entrySize
	}
	return 0, false, nil
}

// opCopyTable implements COPY_TABLE: copy abs(size) bytes from first to
// second (0 means zero out first's region instead); a positive size treats
// overlap the way memmove would, a negative size forces a forward copy even
// when that would corrupt an overlapping destination (per the standard).
func (m *Machine) opCopyTable(ops []uint16) error {
	first := uint32(ops[0])
	second := uint32(ops[1])
	size := signed(ops[2])
	n := uint32(size)
	if size < 0 {
		n = uint32(-size)
	}
	if second == 0 {
		for i := uint32(0); i < n; i++ {
			if err := m.mem.PutByte(first+i, 0); err != nil {
				return err
			}
		}
		return nil
	}
	if size < 0 {
		for i := uint32(0); i < n; i++ {
			b, err := m.mem.FetchByte(first + i)
			if err != nil {
				return err
			}
			if err := m.mem.PutByte(second+i, b); err != nil {
				return err
			}
		}
		return nil
	}
	buf, err := m.mem.Dump(first, n)
	if err != nil {
		return err
	}
	if size >= 0 && second > first && second < first+n {
		for i := int(n) - 1; i >= 0; i-- {
			if err := m.mem.PutByte(second+uint32(i), buf[i]); err != nil {
				return err
			}
		}
		return nil
	}
	return m.mem.Load(second, buf)
}
