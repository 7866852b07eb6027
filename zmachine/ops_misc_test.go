package zmachine

import "testing"

func TestOpQuitReturnsErrQuitAndCallsUI(t *testing.T) {
	m, ui := newTestMachineWithIO(t)
	m.ui = ui
	if err := m.opQuit(); err != errQuit {
		t.Fatalf("opQuit error = %v, want errQuit", err)
	}
}

func TestOpRestartReturnsErrRestart(t *testing.T) {
	m := newTestMachine(t)
	if err := m.opRestart(); err != errRestart {
		t.Fatalf("opRestart error = %v, want errRestart", err)
	}
}

func TestOpLogShift(t *testing.T) {
	m := newTestMachine(t)
	if v := m.opLogShift([]uint16{1, 4}); v != 16 {
		t.Fatalf("opLogShift(1, 4) = %d, want 16", v)
	}
	if v := m.opLogShift([]uint16{16, u16(-4)}); v != 1 {
		t.Fatalf("opLogShift(16, -4) = %d, want 1", v)
	}
}

func TestOpArtShiftPreservesSign(t *testing.T) {
	m := newTestMachine(t)
	// Arithmetic right shift of a negative number keeps the sign bit.
	v := m.opArtShift([]uint16{u16(-16), u16(-2)})
	if int16(v) != -4 {
		t.Fatalf("opArtShift(-16, -2) = %d, want -4", int16(v))
	}
	v = m.opArtShift([]uint16{2, 3})
	if int16(v) != 16 {
		t.Fatalf("opArtShift(2, 3) = %d, want 16", int16(v))
	}
}
