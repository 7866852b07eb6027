// Package persist defines the save/restore/undo wire format for a running
// story and serializes it with CBOR. It knows nothing about the zmachine
// package's internal types; the interpreter builds a State from its own
// state and reads one back into itself, keeping the two packages decoupled.
package persist

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("persist: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Frame is one call-stack entry: a routine invocation's program counter,
// locals, operand stack, and the bookkeeping needed to resume it correctly.
type Frame struct {
	PC          uint32   `cbor:"pc"`
	Locals      []uint16 `cbor:"locals"`
	NumLocals   uint8    `cbor:"num_locals"`
	Stack       []uint16 `cbor:"stack"`
	CallType    uint8    `cbor:"call_type"`
	ArgCount    uint8    `cbor:"arg_count"`
	FrameNumber uint32   `cbor:"frame_number"`
	ResultVar   uint8    `cbor:"result_var"`
}

// State is a complete snapshot of a running story: everything needed to
// resume play exactly where SAVE_UNDO or SAVE left off. DynamicMemory holds
// the full dynamic-memory region (bytes 0 through the static-memory
// boundary); static and high memory never change at runtime and are not
// saved, matching the standard's save-file format.
type State struct {
	Release         uint16  `cbor:"release"`
	Serial          []byte  `cbor:"serial"`
	Checksum        uint16  `cbor:"checksum"`
	DynamicMemory   []byte  `cbor:"dynamic_memory"`
	Frames          []Frame `cbor:"frames"`
	NextFrameNumber uint32  `cbor:"next_frame_number"`

	// SaveIsStore and SaveResultVar record where the SAVE opcode that
	// produced this state wrote its own result (V4+ stores a variable;
	// V1-3 branches instead and needs no fixup here). A successful RESTORE
	// rewrites that variable from 1 to 2, per the standard's convention
	// that a resumed SAVE call can tell the two outcomes apart.
	SaveIsStore   bool  `cbor:"save_is_store"`
	SaveResultVar uint8 `cbor:"save_result_var"`
}

// Marshal serializes a State to CBOR bytes suitable for writing to a save
// file.
func Marshal(s *State) ([]byte, error) {
	b, err := cborEncMode.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("persist: marshal state: %w", err)
	}
	return b, nil
}

// Unmarshal reads a State back from bytes previously produced by Marshal.
func Unmarshal(data []byte) (*State, error) {
	var s State
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("persist: unmarshal state: %w", err)
	}
	return &s, nil
}

// Clone deep-copies a State, used for the in-memory SAVE_UNDO slot where
// round-tripping through CBOR would be wasted work.
func Clone(s *State) *State {
	c := &State{
		Release:         s.Release,
		Checksum:        s.Checksum,
		NextFrameNumber: s.NextFrameNumber,
		SaveIsStore:     s.SaveIsStore,
		SaveResultVar:   s.SaveResultVar,
	}
	c.Serial = append([]byte(nil), s.Serial...)
	c.DynamicMemory = append([]byte(nil), s.DynamicMemory...)
	c.Frames = make([]Frame, len(s.Frames))
	for i, f := range s.Frames {
		c.Frames[i] = Frame{
			PC:          f.PC,
			NumLocals:   f.NumLocals,
			CallType:    f.CallType,
			ArgCount:    f.ArgCount,
			FrameNumber: f.FrameNumber,
			ResultVar:   f.ResultVar,
		}
		c.Frames[i].Locals = append([]uint16(nil), f.Locals...)
		c.Frames[i].Stack = append([]uint16(nil), f.Stack...)
	}
	return c
}
