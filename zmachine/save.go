package zmachine

import "github.com/zaxsoft/zax/persist"

// undoSnapshot is the in-memory state kept by SAVE_UNDO, restored by
// RESTORE_UNDO without touching the user's filesystem. It reuses the same
// wire-format struct as file-based saves; Clone avoids sharing backing
// arrays with the live machine.
type undoSnapshot = persist.State

// snapshot captures the machine's entire resumable state: dynamic memory
// plus the full call stack, in save/restore/undo's common wire format.
func (m *Machine) snapshot(saveIsStore bool, saveResultVar uint8) (*persist.State, error) {
	release, err := m.mem.FetchWord(hRelease)
	if err != nil {
		return nil, err
	}
	checksum, err := m.mem.FetchWord(hChecksum)
	if err != nil {
		return nil, err
	}
	serial := make([]byte, 6)
	for i := range serial {
		b, err := m.mem.FetchByte(hSerial + uint32(i))
		if err != nil {
			return nil, err
		}
		serial[i] = b
	}
	dyn, err := m.mem.Dump(0, m.dynamicSize)
	if err != nil {
		return nil, err
	}

	frames := make([]persist.Frame, 0, m.stack.depth()+1)
	for _, f := range m.stack.Suspended {
		frames = append(frames, frameToWire(f))
	}
	frames = append(frames, frameToWire(m.stack.Current))

	return &persist.State{
		Release:         release,
		Serial:          serial,
		Checksum:        checksum,
		DynamicMemory:   dyn,
		Frames:          frames,
		NextFrameNumber: m.nextFrameNumber,
		SaveIsStore:     saveIsStore,
		SaveResultVar:   saveResultVar,
	}, nil
}

func frameToWire(f *Frame) persist.Frame {
	return persist.Frame{
		PC:          f.PC,
		Locals:      append([]uint16(nil), f.Locals[:]...),
		NumLocals:   f.NumLocals,
		Stack:       append([]uint16(nil), f.Stack...),
		CallType:    uint8(f.CallType),
		ArgCount:    f.ArgCount,
		FrameNumber: f.FrameNumber,
		ResultVar:   f.ResultVar,
	}
}

func frameFromWire(w persist.Frame) *Frame {
	f := newFrame()
	f.PC = w.PC
	copy(f.Locals[:], w.Locals)
	f.NumLocals = w.NumLocals
	f.Stack = append([]uint16(nil), w.Stack...)
	f.CallType = CallType(w.CallType)
	f.ArgCount = w.ArgCount
	f.FrameNumber = w.FrameNumber
	f.ResultVar = w.ResultVar
	return f
}

// restoreFromState replaces dynamic memory and the call stack with a
// previously captured snapshot. If the snapshot's SAVE wrote its own result
// as a stored variable, that variable is rewritten to 2 to signal "resumed
// from RESTORE" to the story, per the standard.
func (m *Machine) restoreFromState(s *persist.State) error {
	flags2, err := m.mem.FetchWord(hFlags2)
	if err != nil {
		return err
	}
	transcriptOn := flags2&1 == 1

	if err := m.mem.Load(0, s.DynamicMemory); err != nil {
		return err
	}

	flags2, err = m.mem.FetchWord(hFlags2)
	if err != nil {
		return err
	}
	if transcriptOn {
		flags2 |= 1
	} else {
		flags2 &^= 1
	}
	if err := m.mem.PutWord(hFlags2, flags2); err != nil {
		return err
	}

	if len(s.Frames) == 0 {
		return fault(CorruptObjectTable, "save state has no call frames")
	}
	newStack := &CallStack{}
	for _, w := range s.Frames[:len(s.Frames)-1] {
		newStack.Suspended = append(newStack.Suspended, frameFromWire(w))
	}
	newStack.Current = frameFromWire(s.Frames[len(s.Frames)-1])
	m.stack = newStack
	m.nextFrameNumber = s.NextFrameNumber

	if s.SaveIsStore {
		if err := m.putVariable(s.SaveResultVar, 2); err != nil {
			return err
		}
	}
	return nil
}

// execSaveOp implements the 0OP-form SAVE (V1-3 branches on success, V4
// stores a result). V5+ stories use the EXT-form SAVE instead, handled by
// the ordinary dispatch path in ops_misc.go.
func (m *Machine) execSaveOp(ops []uint16) error {
	if m.version <= 3 {
		onTrue, offset, err := m.readBranch()
		if err != nil {
			return err
		}
		ok, err := m.saveToFile(false, 0)
		if err != nil {
			return err
		}
		return m.takeBranch(ok, onTrue, offset)
	}
	resultVar, err := m.fetchByteAdvance()
	if err != nil {
		return err
	}
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

// execRestoreOp implements the 0OP-form RESTORE.
func (m *Machine) execRestoreOp(ops []uint16) error {
	restored, err := m.restoreFromFile()
	if err != nil {
		return err
	}
	if restored {
		return nil // resultVar/branch already resolved inside restoreFromState
	}
	if m.version <= 3 {
		onTrue, offset, err := m.readBranch()
		if err != nil {
			return err
		}
		return m.takeBranch(false, onTrue, offset)
	}
	resultVar, err := m.fetchByteAdvance()
	if err != nil {
		return err
	}
	return m.putVariable(resultVar, 0)
}

// saveToFile snapshots the machine and writes it to a user-chosen file via
// the UI. It returns false (not an error) if the user cancels.
func (m *Machine) saveToFile(saveIsStore bool, saveResultVar uint8) (bool, error) {
	state, err := m.snapshot(saveIsStore, saveResultVar)
	if err != nil {
		return false, err
	}
	data, err := persist.Marshal(state)
	if err != nil {
		return false, wrapFault(IOError, err, "encoding save state")
	}
	w, err := m.ui.OpenSaveFile()
	if err != nil {
		return false, wrapFault(IOError, err, "opening save file")
	}
	if w == nil {
		return false, nil
	}
	defer w.Close()
	if _, err := w.Write(data); err != nil {
		return false, wrapFault(IOError, err, "writing save file")
	}
	return true, nil
}

// restoreFromFile reads a save file via the UI and, on success, applies it
// to the running machine. It returns false (not an error) if the user
// cancels or the interpreter declines to restore (e.g. release/serial
// mismatch would be checked here by a stricter interpreter).
func (m *Machine) restoreFromFile() (bool, error) {
	r, err := m.ui.OpenRestoreFile()
	if err != nil {
		return false, wrapFault(IOError, err, "opening restore file")
	}
	if r == nil {
		return false, nil
	}
	defer r.Close()
	buf := make([]byte, 0, 4096)
	chunk := make([]byte, 4096)
	for {
		n, err := r.Read(chunk)
		buf = append(buf, chunk[:n]...)
		if err != nil {
			break
		}
	}
	state, err := persist.Unmarshal(buf)
	if err != nil {
		return false, wrapFault(IOError, err, "decoding save file")
	}
	if err := m.restoreFromState(state); err != nil {
		return false, err
	}
	return true, nil
}

// execSaveUndo and execRestoreUndo implement EXT SAVE_UNDO/RESTORE_UNDO:
// an in-memory snapshot slot with no filesystem involvement. Most
// interpreters only keep one level of undo; this one does the same.
func (m *Machine) execSaveUndo(resultVar uint8) error {
	state, err := m.snapshot(false, 0)
	if err != nil {
		return err
	}
	m.undo = persist.Clone(state)
	return m.putVariable(resultVar, 1)
}

func (m *Machine) execRestoreUndo(resultVar uint8) error {
	if m.undo == nil {
		return m.putVariable(resultVar, 0)
	}
	if err := m.restoreFromState(persist.Clone(m.undo)); err != nil {
		return err
	}
	return m.putVariable(resultVar, 2)
}
