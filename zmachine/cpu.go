package zmachine

import (
	"errors"
	"fmt"
)

// errQuit unwinds every nested decodeLoop all the way back to Run, which
// treats it as a normal (non-fault) end of execution.
var errQuit = errors.New("zmachine: quit")

// errRestart is like errQuit but tells Run to reload the pristine story
// image and start over instead of stopping.
var errRestart = errors.New("zmachine: restart")

// Machine ties every component together and runs the fetch/decode/dispatch
// loop. One Machine plays one story at a time.
type Machine struct {
	mem     *Memory
	objects *ObjectTable
	text    *Text
	rnd     *Random
	io      *IOCard
	ui      UserInterface

	version uint8
	stack   *CallStack

	abbrevTable uint32
	globalVars  uint32
	dictionary  uint32
	dynamicSize uint32

	origStory []byte

	nextFrameNumber uint32
	didNewline      bool
	decodeReturn    bool
	retValue        uint16

	undo *undoSnapshot

	// Trace, when set, makes the decode loop print each instruction's
	// address and name to standard output; off by default, matching the
	// teacher's pattern of a plain boolean trace switch rather than a
	// structured logging dependency in the hot loop.
	Trace bool
	depth int
}

// NewMachine constructs a Machine bound to ui. Call Load to bring in a
// story file before Run.
func NewMachine(ui UserInterface) *Machine {
	return &Machine{ui: ui}
}

// Load reads a story file image and prepares every component to run it.
// RESTART later rebuilds every component from the bytes kept here, through
// bringUp, without calling Load again.
func (m *Machine) Load(story []byte) error {
	m.origStory = append([]byte(nil), story...)
	return m.bringUp(false)
}

func (m *Machine) bringUp(isRestart bool) error {
	var transcriptOn bool
	if isRestart && m.mem != nil {
		flags2, err := m.mem.FetchWord(hFlags2)
		if err != nil {
			return err
		}
		transcriptOn = flags2&1 == 1
	}

	m.mem = NewMemory(m.origStory)
	version, err := m.mem.Version()
	if err != nil {
		return err
	}
	if version < 1 || version > 8 || version == 6 {
		return fault(UnsupportedVersion, "storyfile version %d", version)
	}
	m.version = version

	if err := m.ui.Initialize(version); err != nil {
		return wrapFault(IOError, err, "initializing user interface")
	}
	m.rnd = newRandom()
	m.io = newIOCard(m.mem, m.ui)

	objBase, err := m.mem.FetchWord(hObjectTable)
	if err != nil {
		return err
	}
	m.objects = newObjectTable(m.mem, version, uint32(objBase))

	flags1, err := m.mem.FetchByte(hFlags1)
	if err != nil {
		return err
	}
	if version <= 3 {
		flags1 &^= 0x08
		if m.ui.HasStatusLine() {
			flags1 &^= 0x10
		} else {
			flags1 |= 0x10
		}
		if m.ui.HasUpperWindow() {
			flags1 |= 0x20
		} else {
			flags1 &^= 0x20
		}
		if m.ui.DefaultFontProportional() {
			flags1 |= 0x40
		} else {
			flags1 &^= 0x40
		}
	} else {
		if version >= 5 && m.ui.HasColors() {
			flags1 |= 0x01
		}
		if m.ui.HasBoldface() {
			flags1 |= 0x04
		}
		if m.ui.HasItalic() {
			flags1 |= 0x08
		}
		if m.ui.HasFixedWidth() {
			flags1 |= 0x10
		}
		if m.ui.HasTimedInput() {
			flags1 |= 0x80
		}
	}
	if err := m.mem.PutByte(hFlags1, flags1); err != nil {
		return err
	}

	if version >= 4 {
		if err := m.mem.PutByte(hInterpNumber, 6); err != nil { // MS-DOS interpreter
			return err
		}
		if err := m.mem.PutByte(hInterpVersion, 'A'); err != nil {
			return err
		}
		screen := m.ui.ScreenCharacters()
		if err := m.mem.PutByte(hScreenHeightChars, uint8(screen.Height)); err != nil {
			return err
		}
		if err := m.mem.PutByte(hScreenWidthChars, uint8(screen.Width)); err != nil {
			return err
		}
		if version >= 5 {
			units := m.ui.ScreenUnits()
			if err := m.mem.PutWord(hScreenWidthUnits, uint16(units.Width)); err != nil {
				return err
			}
			if err := m.mem.PutWord(hScreenHeightUnits, uint16(units.Height)); err != nil {
				return err
			}
			font := m.ui.FontSize()
			if err := m.mem.PutByte(hFontHeightUnits, uint8(font.Height)); err != nil {
				return err
			}
			if err := m.mem.PutByte(hFontWidthUnits, uint8(font.Width)); err != nil {
				return err
			}
			if err := m.mem.PutByte(hDefaultBackground, m.ui.DefaultBackground()); err != nil {
				return err
			}
			if err := m.mem.PutByte(hDefaultForeground, m.ui.DefaultForeground()); err != nil {
				return err
			}
		}
	}

	if isRestart {
		flags2, err := m.mem.FetchWord(hFlags2)
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
	}

	if version > 1 {
		w, err := m.mem.FetchWord(hAbbrevTable)
		if err != nil {
			return err
		}
		m.abbrevTable = uint32(w)
	}
	m.text = newText(m.mem, version, m.abbrevTable)

	g, err := m.mem.FetchWord(hGlobals)
	if err != nil {
		return err
	}
	m.globalVars = uint32(g)

	d, err := m.mem.FetchWord(hDictionary)
	if err != nil {
		return err
	}
	m.dictionary = uint32(d)

	dynSize, err := m.mem.FetchWord(hStaticBase)
	if err != nil {
		return err
	}
	m.dynamicSize = uint32(dynSize)

	if version >= 5 {
		termTable, err := m.mem.FetchWord(hTermCharTable)
		if err != nil {
			return err
		}
		if termTable != 0 {
			var terminators []byte
			addr := uint32(termTable)
			for {
				b, err := m.mem.FetchByte(addr)
				if err != nil {
					return err
				}
				if b == 0 {
					break
				}
				terminators = append(terminators, b)
				addr++
			}
			m.ui.SetTerminatingCharacters(terminators)
		}
	}

	return nil
}

// Run starts executing the loaded story, looping on RESTART until the
// story QUITs or a fault occurs.
func (m *Machine) Run() error {
	if m.mem == nil {
		return fault(IOError, "no story loaded")
	}
	for {
		initialPC, err := m.mem.FetchWord(hInitialPC)
		if err != nil {
			return err
		}
		m.stack = newCallStack(uint32(initialPC))
		m.nextFrameNumber = 1

		err = m.decodeLoop()
		if errors.Is(err, errRestart) {
			if err := m.bringUp(true); err != nil {
				return err
			}
			continue
		}
		if errors.Is(err, errQuit) {
			return nil
		}
		return err
	}
}

// decodeLoop fetches and executes instructions until the current nesting
// level returns (a timed-interrupt return, via decodeReturn) or the whole
// machine stops (QUIT/RESTART, via a returned sentinel error, or a real
// fault). It is called recursively by interrupt() for timed READ/READ_CHAR.
func (m *Machine) decodeLoop() error {
	m.depth++
	defer func() { m.depth-- }()

	for {
		if err := m.step(); err != nil {
			return err
		}
		if m.decodeReturn {
			m.decodeReturn = false
			return nil
		}
	}
}

// interrupt calls the routine at raddr (a packed address) as a timed-input
// interrupt, recursing into decodeLoop, and returns its RET value.
func (m *Machine) interrupt(raddr uint16) (uint16, error) {
	addr, err := m.mem.UnpackAddress(raddr, m.version, true)
	if err != nil {
		return 0, err
	}
	numVars, err := m.mem.FetchByte(addr)
	if err != nil {
		return 0, err
	}
	addr++

	newFrame := newFrame()
	if m.version < 5 {
		newFrame.PC = addr + uint32(numVars)*2
	} else {
		newFrame.PC = addr
	}
	for i := uint8(0); i < numVars; i++ {
		if m.version < 5 {
			v, err := m.mem.FetchWord(addr + uint32(i)*2)
			if err != nil {
				return 0, err
			}
			newFrame.Locals[i] = v
		}
	}
	newFrame.NumLocals = numVars
	newFrame.CallType = CallInterrupt
	newFrame.ArgCount = 0
	newFrame.FrameNumber = m.nextFrameNumber
	m.nextFrameNumber++

	m.stack.suspend(m.stack.Current)
	m.stack.Current = newFrame

	if err := m.decodeLoop(); err != nil {
		return 0, err
	}
	return m.retValue, nil
}

// getVariable implements the variable-number convention shared by every
// operand and store-target: 0 is the current frame's operand stack, 1-15
// are locals, 16-255 are globals.
func (m *Machine) getVariable(v uint8) (uint16, error) {
	switch {
	case v == 0:
		val, ok := m.stack.Current.pop()
		if !ok {
			return 0, fault(StackUnderflow, "routine stack underflow")
		}
		return val, nil
	case v <= 15:
		return m.stack.Current.Locals[v-1], nil
	default:
		return m.mem.FetchWord(m.globalVars + uint32(v-16)*2)
	}
}

// putVariable writes value to variable v: 0 pushes it onto the stack, 1-15
// are the current routine's locals, and 16-255 are globals.
func (m *Machine) putVariable(v uint8, value uint16) error {
	switch {
	case v == 0:
		m.stack.Current.push(value)
		return nil
	case v <= 15:
		m.stack.Current.Locals[v-1] = value
		return nil
	default:
		return m.mem.PutWord(m.globalVars+uint32(v-16)*2, value)
	}
}

func signed(w uint16) int16 { return int16(w) }

// callRoutine implements CALL/CALL_VS/CALL_1S/CALL_2S/.../CALL_VN2: it
// builds a new frame for the routine at packedAddr with the given
// arguments, and suspends the caller. resultVar describes where the
// callee's eventual RET value should land when ctype is CallFunction;
// ctype is CallFunction or CallProcedure.
func (m *Machine) callRoutine(packedAddr uint16, args []uint16, ctype CallType, resultVar uint8) error {
	if packedAddr == 0 {
		// Calling address 0 returns false immediately without a new frame.
		if ctype == CallFunction {
			return m.putVariable(resultVar, 0)
		}
		return nil
	}

	addr, err := m.mem.UnpackAddress(packedAddr, m.version, true)
	if err != nil {
		return err
	}
	numVars, err := m.mem.FetchByte(addr)
	if err != nil {
		return err
	}
	addr++

	newFrame := newFrame()
	if m.version < 5 {
		newFrame.PC = addr + uint32(numVars)*2
	} else {
		newFrame.PC = addr
	}
	for i := uint8(0); i < numVars; i++ {
		if int(i) < len(args) {
			newFrame.Locals[i] = args[i]
			continue
		}
		if m.version < 5 {
			v, err := m.mem.FetchWord(addr + uint32(i)*2)
			if err != nil {
				return err
			}
			newFrame.Locals[i] = v
			continue
		}
		newFrame.Locals[i] = 0
	}
	newFrame.NumLocals = numVars
	newFrame.CallType = ctype
	newFrame.ResultVar = resultVar
	argCount := len(args)
	if argCount > int(numVars) {
		argCount = int(numVars)
	}
	newFrame.ArgCount = uint8(argCount)
	newFrame.FrameNumber = m.nextFrameNumber
	m.nextFrameNumber++

	m.stack.suspend(m.stack.Current)
	m.stack.Current = newFrame
	return nil
}

// doReturn implements RET: it unwinds the current frame and, depending on
// how it was called, stores the value, discards it, or hands it back to
// an enclosing interrupt() call.
func (m *Machine) doReturn(value uint16) error {
	finishing := m.stack.Current
	caller, ok := m.stack.resume()
	if !ok {
		return fault(StackUnderflow, "call stack underflow on return")
	}
	m.stack.Current = caller

	switch finishing.CallType {
	case CallProcedure:
		return nil
	case CallFunction:
		return m.putVariable(finishing.ResultVar, value)
	case CallInterrupt:
		m.decodeReturn = true
		m.retValue = value
		return nil
	default:
		return fault(CorruptObjectTable, "corrupted call frame")
	}
}

// doThrow implements THROW: unwind frames until one with FrameNumber ==
// target is current, then return value from it.
func (m *Machine) doThrow(value uint16, target uint32) error {
	for m.stack.Current.FrameNumber != target {
		caller, ok := m.stack.resume()
		if !ok {
			return fault(StackUnderflow, "THROW: call stack underflow")
		}
		m.stack.Current = caller
	}
	return m.doReturn(value)
}

// takeBranch implements the branch-argument semantics shared by every
// branching opcode: if cond matches onTrue, either return from the current
// routine (offset 0 or 1 meaning return false/true) or jump by offset-2
// relative to the post-decode PC.
func (m *Machine) takeBranch(cond, onTrue bool, offset int32) error {
	if cond != onTrue {
		return nil
	}
	if offset == 0 {
		return m.doReturn(0)
	}
	if offset == 1 {
		return m.doReturn(1)
	}
	m.stack.Current.PC = uint32(int64(m.stack.Current.PC) + int64(offset) - 2)
	return nil
}

func (m *Machine) trace(name string) {
	if m.Trace {
		fmt.Printf("zmachine: %#06x %s\n", m.stack.Current.PC, name)
	}
}
