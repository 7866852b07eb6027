package persist

import "testing"

func sampleState() *State {
	return &State{
		Release:       7,
		Serial:        []byte("123456"),
		Checksum:      0xBEEF,
		DynamicMemory: []byte{1, 2, 3, 4, 5},
		Frames: []Frame{
			{PC: 0x1000, Locals: []uint16{1, 2, 3}, NumLocals: 3, Stack: []uint16{9}, CallType: 1, ArgCount: 2, FrameNumber: 1, ResultVar: 5},
			{PC: 0x2000, Locals: nil, NumLocals: 0, Stack: nil, CallType: 0, ArgCount: 0, FrameNumber: 2, ResultVar: 0},
		},
		NextFrameNumber: 3,
		SaveIsStore:     true,
		SaveResultVar:   17,
	}
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	want := sampleState()
	data, err := Marshal(want)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if got.Release != want.Release || got.Checksum != want.Checksum || got.NextFrameNumber != want.NextFrameNumber {
		t.Fatalf("scalar fields did not round-trip: got %+v, want %+v", got, want)
	}
	if string(got.Serial) != string(want.Serial) {
		t.Fatalf("Serial = %q, want %q", got.Serial, want.Serial)
	}
	if len(got.DynamicMemory) != len(want.DynamicMemory) {
		t.Fatalf("DynamicMemory length = %d, want %d", len(got.DynamicMemory), len(want.DynamicMemory))
	}
	for i := range want.DynamicMemory {
		if got.DynamicMemory[i] != want.DynamicMemory[i] {
			t.Fatalf("DynamicMemory[%d] = %d, want %d", i, got.DynamicMemory[i], want.DynamicMemory[i])
		}
	}
	if len(got.Frames) != len(want.Frames) {
		t.Fatalf("Frames length = %d, want %d", len(got.Frames), len(want.Frames))
	}
	if got.Frames[0].PC != want.Frames[0].PC || got.Frames[0].ResultVar != want.Frames[0].ResultVar {
		t.Fatalf("Frames[0] = %+v, want %+v", got.Frames[0], want.Frames[0])
	}
	if len(got.Frames[0].Locals) != 3 || got.Frames[0].Locals[2] != 3 {
		t.Fatalf("Frames[0].Locals = %v, want [1 2 3]", got.Frames[0].Locals)
	}
	if !got.SaveIsStore || got.SaveResultVar != 17 {
		t.Fatalf("SaveIsStore/SaveResultVar = %v/%d, want true/17", got.SaveIsStore, got.SaveResultVar)
	}
}

func TestCloneIsIndependentOfSource(t *testing.T) {
	src := sampleState()
	clone := Clone(src)

	if clone.SaveIsStore != src.SaveIsStore || clone.SaveResultVar != src.SaveResultVar {
		t.Fatalf("Clone dropped SaveIsStore/SaveResultVar: got %v/%d, want %v/%d",
			clone.SaveIsStore, clone.SaveResultVar, src.SaveIsStore, src.SaveResultVar)
	}

	clone.DynamicMemory[0] = 0xFF
	if src.DynamicMemory[0] == 0xFF {
		t.Fatal("Clone aliased DynamicMemory with the source")
	}

	clone.Frames[0].Locals[0] = 0xFFFF
	if src.Frames[0].Locals[0] == 0xFFFF {
		t.Fatal("Clone aliased a frame's Locals with the source")
	}

	clone.Frames[0].Stack[0] = 0xFFFF
	if src.Frames[0].Stack[0] == 0xFFFF {
		t.Fatal("Clone aliased a frame's Stack with the source")
	}

	clone.Serial[0] = 'X'
	if src.Serial[0] == 'X' {
		t.Fatal("Clone aliased Serial with the source")
	}
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	if _, err := Unmarshal([]byte("not cbor")); err == nil {
		t.Fatal("Unmarshal should fault on malformed input")
	}
}
