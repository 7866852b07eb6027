package zmachine

import "testing"

func TestOpOutputStreamMemoryTableCapturesPrint(t *testing.T) {
	m, ui := newTestMachineWithIO(t)
	const table = 0x100

	if err := m.opOutputStream([]uint16{3, table}); err != nil {
		t.Fatalf("opOutputStream(enable 3): %v", err)
	}
	if err := m.opPrint("hi"); err != nil {
		t.Fatalf("opPrint: %v", err)
	}
	if len(ui.printed) != 0 {
		t.Fatal("while stream 3 is selected, screen output must be suppressed")
	}
	if err := m.opOutputStream([]uint16{u16(-3)}); err != nil {
		t.Fatalf("opOutputStream(disable 3): %v", err)
	}

	n, err := m.mem.FetchWord(table)
	if err != nil || n != 2 {
		t.Fatalf("captured length word = %d, %v; want 2, nil", n, err)
	}
	dump, _ := m.mem.Dump(table+2, 2)
	if string(dump) != "hi" {
		t.Fatalf("captured text = %q, want %q", dump, "hi")
	}
}

func TestOpSetWindowUpdatesIOCardAndUI(t *testing.T) {
	m, _ := newTestMachineWithIO(t)
	if err := m.opSetWindow([]uint16{1}); err != nil {
		t.Fatalf("opSetWindow: %v", err)
	}
	if m.io.curWindow != 1 {
		t.Fatalf("io.curWindow = %d, want 1", m.io.curWindow)
	}
}

func TestOpShowStatusDecodesLocationName(t *testing.T) {
	ot := newTestObjects(t)
	ui := &fakeUI{}
	m := &Machine{
		mem:        ot.mem,
		objects:    ot,
		text:       newText(ot.mem, 3, 0),
		version:    3,
		globalVars: 0x1A0,
		stack:      newCallStack(0x300),
	}
	m.io = newIOCard(m.mem, ui)
	m.ui = ui

	m.putVariable(16, 1) // current location = object 1
	m.putVariable(17, 42)
	m.putVariable(18, 7)

	if err := m.opShowStatus(); err != nil {
		t.Fatalf("opShowStatus: %v", err)
	}
}

func TestOpVerifyChecksum(t *testing.T) {
	m := newTestMachine(t)
	m.mem.PutWord(hFileLength, uint16(len(m.mem.data)/2))
	var sum uint16
	for addr := uint32(0x40); addr < uint32(len(m.mem.data)); addr++ {
		b, _ := m.mem.FetchByte(addr)
		sum += uint16(b)
	}
	m.mem.PutWord(hChecksum, sum)

	ok, err := m.opVerify()
	if err != nil || !ok {
		t.Fatalf("opVerify = %v, %v; want true, nil", ok, err)
	}

	m.mem.PutWord(hChecksum, sum+1)
	ok, err = m.opVerify()
	if err != nil || ok {
		t.Fatalf("opVerify with wrong checksum = %v, %v; want false, nil", ok, err)
	}
}

func TestReadWriteTextBufferV3(t *testing.T) {
	m := newTestMachine(t)
	const buf = 0x100
	m.mem.PutByte(buf, 20) // max length

	if err := m.writeTextBuffer(buf, "Look North"); err != nil {
		t.Fatalf("writeTextBuffer: %v", err)
	}
	got, err := m.readTextBuffer(buf)
	if err != nil {
		t.Fatalf("readTextBuffer: %v", err)
	}
	if got != "look north" {
		t.Fatalf("round trip = %q, want %q (lowercased)", got, "look north")
	}
}

func TestReadWriteTextBufferV5TruncatesToMax(t *testing.T) {
	m := newTestMachine(t)
	m.version = 5
	const buf = 0x100
	m.mem.PutByte(buf, 4) // max length 4 (V5 stores it inclusive of the count byte's own slot)

	if err := m.writeTextBuffer(buf, "hello"); err != nil {
		t.Fatalf("writeTextBuffer: %v", err)
	}
	got, err := m.readTextBuffer(buf)
	if err != nil {
		t.Fatalf("readTextBuffer: %v", err)
	}
	if got != "hel" {
		t.Fatalf("truncated round trip = %q, want %q", got, "hel")
	}
}

func TestOpTokeniseUsesExplicitDictionary(t *testing.T) {
	mem := &Memory{data: make([]byte, 0x400)}
	tx := newText(mem, 3, 0)
	const dictAddr = 0x100
	newTestDictionary(t, mem, tx, dictAddr)

	m := &Machine{mem: mem, text: tx, version: 3, dictionary: 0}
	const textBuf = 0x200
	mem.PutByte(textBuf, 20)
	if err := m.writeTextBuffer(textBuf, "cat dog"); err != nil {
		t.Fatalf("writeTextBuffer: %v", err)
	}

	const parseAddr = 0x300
	mem.PutByte(parseAddr, 4)
	if err := m.opTokenise([]uint16{textBuf, parseAddr, dictAddr}); err != nil {
		t.Fatalf("opTokenise: %v", err)
	}
	count, _ := mem.FetchByte(parseAddr + 1)
	if count != 2 {
		t.Fatalf("parsed word count = %d, want 2", count)
	}
}
