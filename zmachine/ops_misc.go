package zmachine

// QUIT, RESTART, shift/bit opcodes, and the version-5+ store-based
// SAVE/RESTORE reached through the EXT form.

func (m *Machine) opQuit() error {
	m.ui.Quit()
	return errQuit
}

func (m *Machine) opRestart() error {
	return errRestart
}

func (m *Machine) opLogShift(ops []uint16) uint16 {
	n := signed(ops[1])
	if n >= 0 {
		return ops[0] << uint(n)
	}
	return ops[0] >> uint(-n)
}

func (m *Machine) opArtShift(ops []uint16) uint16 {
	n := signed(ops[1])
	v := signed(ops[0])
	if n >= 0 {
		return uint16(v << uint(n))
	}
	return uint16(v >> uint(-n))
}

// opSaveExt and opRestoreExt implement the EXT-form (V5+) SAVE/RESTORE,
// which always stores its result rather than branching.
func (m *Machine) opSaveExt(resultVar uint8) error {
	ok, err := m.saveToFile(true, resultVar)
	if err != nil {
		return err
	}
	var v uint16
	if ok {
		v = 1
	}
	return m.putVariable(resultVar, v)
}

func (m *Machine) opRestoreExt(resultVar uint8) error {
	restored, err := m.restoreFromFile()
	if err != nil {
		return err
	}
	if restored {
		return nil // the snapshot's own fixup already wrote 2
	}
	return m.putVariable(resultVar, 0)
}
