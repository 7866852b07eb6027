package zmachine

import (
	"bufio"
	"io"
)

// memStream is one nesting level of output stream 3 (the "print into a
// memory table" stream): text is accumulated and, when the stream is
// deselected, written back at tableAddr as a word holding the byte count
// followed by the raw ZSCII bytes.
type memStream struct {
	tableAddr uint32
	buf       []byte
}

// IOCard multiplexes the four output streams (screen, transcript, memory
// table, command script) and the two input streams (keyboard, command
// script playback) that the story file can select via OUTPUT_STREAM and
// INPUT_STREAM. Per the standard, selecting stream 3 suppresses all other
// output until it is deselected again; streams 3 can nest up to 16 deep.
type IOCard struct {
	mem *Memory
	ui  UserInterface

	screenOn     bool
	transcriptOn bool
	transcript   io.WriteCloser
	scriptEchoOn bool
	scriptEcho   io.WriteCloser

	memStack []memStream

	inputStream int // 0 = keyboard, 1 = command script
	scriptIn    io.ReadCloser
	scriptInBuf *bufio.Reader

	curWindow int
}

func newIOCard(mem *Memory, ui UserInterface) *IOCard {
	return &IOCard{mem: mem, ui: ui, screenOn: true}
}

// SelectOutputStream implements OUTPUT_STREAM: stream is 1-4, negative to
// disable instead of enable. tableAddr is only meaningful for stream 3.
func (c *IOCard) SelectOutputStream(stream int16, tableAddr uint16) error {
	enable := stream > 0
	n := stream
	if !enable {
		n = -stream
	}

	switch n {
	case 1:
		c.screenOn = enable
	case 2:
		if enable {
			c.transcriptOn = true
			if c.transcript == nil {
				w, err := c.ui.OpenTranscript()
				if err != nil {
					return wrapFault(IOError, err, "opening transcript")
				}
				c.transcript = w
			}
		} else {
			c.transcriptOn = false
		}
	case 3:
		if enable {
			if len(c.memStack) >= 16 {
				return fault(MemoryFault, "output stream 3 nested too deep")
			}
			c.memStack = append(c.memStack, memStream{tableAddr: uint32(tableAddr)})
		} else {
			if len(c.memStack) == 0 {
				return fault(IOError, "output stream 3 not selected")
			}
			top := c.memStack[len(c.memStack)-1]
			c.memStack = c.memStack[:len(c.memStack)-1]
			if err := c.mem.PutWord(top.tableAddr, uint16(len(top.buf))); err != nil {
				return err
			}
			for i, b := range top.buf {
				if err := c.mem.PutByte(top.tableAddr+2+uint32(i), b); err != nil {
					return err
				}
			}
		}
	case 4:
		if enable {
			c.scriptEchoOn = true
			if c.scriptEcho == nil {
				w, err := c.ui.OpenTranscript()
				if err != nil {
					return wrapFault(IOError, err, "opening command script echo")
				}
				c.scriptEcho = w
			}
		} else {
			c.scriptEchoOn = false
		}
	default:
		return fault(IOError, "invalid output stream %d", n)
	}
	return nil
}

// SelectInputStream implements INPUT_STREAM: 0 selects the keyboard, 1
// selects a previously-recorded command script.
func (c *IOCard) SelectInputStream(stream int16) error {
	switch stream {
	case 0:
		c.inputStream = 0
	case 1:
		r, err := c.ui.OpenCommandScript()
		if err != nil {
			return wrapFault(IOError, err, "opening command script")
		}
		if r == nil {
			return nil // no-op: interface has no script facility
		}
		c.scriptIn = r
		c.scriptInBuf = bufio.NewReader(r)
		c.inputStream = 1
	default:
		return fault(IOError, "invalid input stream %d", stream)
	}
	return nil
}

// Print sends text to whichever output streams are active. If stream 3 is
// selected, text goes only into its memory buffer, per the standard.
func (c *IOCard) Print(text string) error {
	if n := len(c.memStack); n > 0 {
		c.memStack[n-1].buf = append(c.memStack[n-1].buf, text...)
		return nil
	}

	if c.screenOn {
		if err := c.ui.Print(c.curWindow, text); err != nil {
			return wrapFault(IOError, err, "screen output")
		}
	}
	if c.transcriptOn && c.transcript != nil {
		if _, err := c.transcript.Write([]byte(text)); err != nil {
			return wrapFault(IOError, err, "transcript output")
		}
	}
	if c.scriptEchoOn && c.scriptEcho != nil {
		if _, err := c.scriptEcho.Write([]byte(text)); err != nil {
			return wrapFault(IOError, err, "command script output")
		}
	}
	return nil
}

// SetWindow records the currently active window (0 lower, 1 upper) so
// Print knows where screen output goes.
func (c *IOCard) SetWindow(window int) {
	c.curWindow = window
}

// ReadScriptLine reads the next recorded command when stream 1 input is
// active. ok is false at end of script, in which case the caller should
// fall back to the keyboard.
func (c *IOCard) ReadScriptLine() (line string, ok bool, err error) {
	if c.inputStream != 1 || c.scriptInBuf == nil {
		return "", false, nil
	}
	l, err := c.scriptInBuf.ReadString('\n')
	if err != nil && l == "" {
		c.inputStream = 0
		return "", false, nil
	}
	for len(l) > 0 && (l[len(l)-1] == '\n' || l[len(l)-1] == '\r') {
		l = l[:len(l)-1]
	}
	return l, true, nil
}

// Close releases any open transcript/script handles.
func (c *IOCard) Close() error {
	if c.transcript != nil {
		c.transcript.Close()
	}
	if c.scriptEcho != nil {
		c.scriptEcho.Close()
	}
	if c.scriptIn != nil {
		c.scriptIn.Close()
	}
	return nil
}

// TranscriptOn reports whether output stream 2 (the transcript) is
// currently selected.
func (c *IOCard) TranscriptOn() bool { return c.transcriptOn }
