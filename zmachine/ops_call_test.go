package zmachine

import "testing"

func TestOpCallFunctionAndProcedure(t *testing.T) {
	m := newTestMachine(t)
	const routineAddr = 0x40
	buildRoutine(t, m.mem, routineAddr, []uint16{0})

	if err := m.opCallFunction([]uint16{uint16(routineAddr / 2), 9}, 5); err != nil {
		t.Fatalf("opCallFunction: %v", err)
	}
	if m.stack.Current.Locals[0] != 9 {
		t.Fatalf("local 1 = %d, want 9", m.stack.Current.Locals[0])
	}
	if m.stack.Current.CallType != CallFunction {
		t.Fatalf("CallType = %v, want CallFunction", m.stack.Current.CallType)
	}
	if err := m.doReturn(42); err != nil {
		t.Fatalf("doReturn: %v", err)
	}
	if v, _ := m.getVariable(5); v != 42 {
		t.Fatalf("result var 5 = %d, want 42", v)
	}

	if err := m.opCallProcedure([]uint16{uint16(routineAddr / 2)}); err != nil {
		t.Fatalf("opCallProcedure: %v", err)
	}
	if m.stack.Current.CallType != CallProcedure {
		t.Fatalf("CallType = %v, want CallProcedure", m.stack.Current.CallType)
	}
}

func TestOpJumpAdjustsPC(t *testing.T) {
	m := newTestMachine(t)
	m.stack.Current.PC = 0x100
	m.opJump(uint16(int16(20)))
	if m.stack.Current.PC != 0x100+20-2 {
		t.Fatalf("PC after opJump(20) = %#x, want %#x", m.stack.Current.PC, 0x100+20-2)
	}

	m.stack.Current.PC = 0x100
	m.opJump(u16(-5))
	if m.stack.Current.PC != uint32(0x100-5-2) {
		t.Fatalf("PC after opJump(-5) = %#x, want %#x", m.stack.Current.PC, uint32(0x100-5-2))
	}
}

func TestOpThrowUnwinds(t *testing.T) {
	m := newTestMachine(t)
	const routineAddr = 0x40
	buildRoutine(t, m.mem, routineAddr, nil)

	if err := m.callRoutine(routineAddr/2, nil, CallProcedure, 0); err != nil {
		t.Fatalf("callRoutine: %v", err)
	}
	target := m.stack.Current.FrameNumber
	if err := m.callRoutine(routineAddr/2, nil, CallProcedure, 0); err != nil {
		t.Fatalf("callRoutine: %v", err)
	}

	if err := m.opThrow([]uint16{123, uint16(target)}); err != nil {
		t.Fatalf("opThrow: %v", err)
	}
	if m.stack.depth() != 0 {
		t.Fatalf("depth after opThrow = %d, want 0", m.stack.depth())
	}
}

func TestOpCheckArgCount(t *testing.T) {
	m := newTestMachine(t)
	m.stack.Current.ArgCount = 2

	if !m.opCheckArgCount([]uint16{2}) {
		t.Fatal("opCheckArgCount(2) with ArgCount=2 should be true")
	}
	if !m.opCheckArgCount([]uint16{1}) {
		t.Fatal("opCheckArgCount(1) with ArgCount=2 should be true")
	}
	if m.opCheckArgCount([]uint16{3}) {
		t.Fatal("opCheckArgCount(3) with ArgCount=2 should be false")
	}
}
