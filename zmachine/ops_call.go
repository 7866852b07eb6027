package zmachine

// Routine call and return opcodes. All CALL variants funnel through
// callRoutine (cpu.go); this file only picks apart each form's operand
// layout (which operand is the routine address, which are arguments) and
// chooses CallFunction vs. CallProcedure.

func (m *Machine) opCallFunction(ops []uint16, resultVar uint8) error {
	return m.callRoutine(ops[0], ops[1:], CallFunction, resultVar)
}

func (m *Machine) opCallProcedure(ops []uint16) error {
	return m.callRoutine(ops[0], ops[1:], CallProcedure, 0)
}

func (m *Machine) opJump(offset uint16) {
	m.stack.Current.PC = uint32(int64(m.stack.Current.PC) + int64(signed(offset)) - 2)
}

func (m *Machine) opThrow(ops []uint16) error {
	return m.doThrow(ops[0], uint32(ops[1]))
}

func (m *Machine) opCheckArgCount(ops []uint16) bool {
	return uint16(m.stack.Current.ArgCount) >= ops[0]
}
