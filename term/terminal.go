// Package term implements zmachine.UserInterface against a real terminal.
//
// It is the only concurrent part of the module: ReadLine/ReadChar spawn a
// goroutine to read from stdin so a timed read can give up without blocking
// the caller, since a blocking stdin read cannot be interrupted directly.
package term

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/mitchellh/go-wordwrap"
	"github.com/muesli/termenv"

	"github.com/zaxsoft/zax/config"
	"github.com/zaxsoft/zax/zmachine"
)

// Terminal is a zmachine.UserInterface backed by the process's stdin/stdout.
// One Terminal serves one story at a time, matching Machine's own lifecycle.
type Terminal struct {
	cfg *config.Config

	out     *termenv.Output
	profile termenv.Profile
	in      *bufio.Reader

	cols, rows int

	curWindow  int
	upperLines int
	cursorRow  int
	cursorCol  int
	lowerCol   int

	style      zmachine.TextStyle
	foreground int
	background int
	bufferMode bool

	terminators []byte
}

// NewTerminal builds a Terminal using cfg's screen/color defaults until the
// story negotiates its own via the header (see zmachine.Machine.bringUp).
func NewTerminal(cfg *config.Config) *Terminal {
	out := termenv.NewOutput(os.Stdout)
	t := &Terminal{
		cfg:        cfg,
		out:        out,
		profile:    out.ColorProfile(),
		in:         bufio.NewReader(os.Stdin),
		cols:       80,
		rows:       24,
		foreground: 9,
		background: 2,
		bufferMode: true,
	}
	if cfg != nil {
		if cfg.Screen.Columns > 0 {
			t.cols = cfg.Screen.Columns
		}
		if cfg.Screen.Rows > 0 {
			t.rows = cfg.Screen.Rows
		}
		if cfg.Colors.Foreground != 0 {
			t.foreground = cfg.Colors.Foreground
		}
		if cfg.Colors.Background != 0 {
			t.background = cfg.Colors.Background
		}
	}
	return t
}

// Initialize satisfies zmachine.UserInterface. The terminal's geometry and
// color defaults are already fixed by NewTerminal; nothing here depends on
// the story version beyond what bringUp itself queries through the other
// capability methods.
func (t *Terminal) Initialize(version uint8) error {
	return nil
}

func (t *Terminal) HasStatusLine() bool           { return true }
func (t *Terminal) HasUpperWindow() bool          { return true }
func (t *Terminal) DefaultFontProportional() bool { return false }
func (t *Terminal) HasColors() bool               { return t.profile != termenv.Ascii }
func (t *Terminal) HasBoldface() bool             { return true }
func (t *Terminal) HasItalic() bool               { return true }
func (t *Terminal) HasFixedWidth() bool           { return true }
func (t *Terminal) HasTimedInput() bool           { return true }

func (t *Terminal) ScreenCharacters() zmachine.ScreenSize {
	return zmachine.ScreenSize{Width: t.cols, Height: t.rows}
}

// ScreenUnits reports screen units equal to character cells; a fixed-width
// terminal has no finer resolution to offer.
func (t *Terminal) ScreenUnits() zmachine.ScreenSize {
	return zmachine.ScreenSize{Width: t.cols, Height: t.rows}
}

func (t *Terminal) FontSize() zmachine.ScreenSize {
	return zmachine.ScreenSize{Width: 1, Height: 1}
}

func (t *Terminal) DefaultBackground() uint8 { return uint8(t.background) }
func (t *Terminal) DefaultForeground() uint8 { return uint8(t.foreground) }

func (t *Terminal) SetTerminatingCharacters(chars []byte) {
	t.terminators = chars
}

// Print writes text to the given window. Window 1 (upper/status) is placed
// at the tracked cursor position and does not disturb the lower window's
// scroll position; window 0 (lower) soft-wraps at the negotiated screen
// width and scrolls normally.
func (t *Terminal) Print(window int, text string) error {
	if window == 1 {
		return t.printUpper(text)
	}
	return t.printLower(text)
}

func (t *Terminal) printLower(text string) error {
	out := text
	if t.bufferMode && t.cols > 0 {
		out = wordwrap.WrapString(text, uint(t.cols))
	}
	for _, r := range out {
		if r == '\n' {
			t.lowerCol = 0
		} else {
			t.lowerCol += runewidth.RuneWidth(r)
		}
	}
	_, err := io.WriteString(t.out, t.styled(out))
	return err
}

func (t *Terminal) printUpper(text string) error {
	// Save cursor, jump to the tracked upper-window position, print, restore.
	fmt.Fprintf(t.out, "\x1b[s\x1b[%d;%dH", t.cursorRow+1, t.cursorCol+1)
	n, err := io.WriteString(t.out, t.styled(text))
	t.cursorCol += n
	fmt.Fprint(t.out, "\x1b[u")
	return err
}

// styled renders text through termenv according to the current
// SET_TEXT_STYLE bits and SET_COLOUR selection.
func (t *Terminal) styled(text string) string {
	s := t.out.String(text)
	if t.style&zmachine.StyleReverse != 0 {
		s = s.Reverse()
	}
	if t.style&zmachine.StyleBold != 0 {
		s = s.Bold()
	}
	if t.style&zmachine.StyleItalic != 0 {
		s = s.Italic()
	}
	if fg, ok := zcolorToANSI(t.foreground); ok {
		s = s.Foreground(t.profile.Color(fg))
	}
	if bg, ok := zcolorToANSI(t.background); ok {
		s = s.Background(t.profile.Color(bg))
	}
	return s.String()
}

// zcolorToANSI maps the Z-machine's 2-9 color numbers to ANSI 16-color
// indices; 0 (current) and 1 (default) are left for the caller to resolve
// before reaching here.
func zcolorToANSI(z int) (string, bool) {
	switch z {
	case 2:
		return "0", true // black
	case 3:
		return "1", true // red
	case 4:
		return "2", true // green
	case 5:
		return "3", true // yellow
	case 6:
		return "4", true // blue
	case 7:
		return "5", true // magenta
	case 8:
		return "6", true // cyan
	case 9:
		return "7", true // white
	default:
		return "", false
	}
}

func (t *Terminal) ShowStatus(location string, score, moves int, timeMode bool) error {
	label := fmt.Sprintf(" %-30s", location)
	var right string
	if timeMode {
		right = fmt.Sprintf("Time: %d:%02d ", score, moves)
	} else {
		right = fmt.Sprintf("Score: %d  Moves: %d ", score, moves)
	}
	line := label + right
	if len(line) > t.cols {
		line = line[:t.cols]
	}
	t.cursorRow, t.cursorCol = 0, 0
	return t.printUpper(line)
}

func (t *Terminal) SplitWindow(lines int) error {
	t.upperLines = lines
	return nil
}

func (t *Terminal) SetWindow(window int) error {
	t.curWindow = window
	if window == 1 {
		t.cursorRow, t.cursorCol = 0, 0
	}
	return nil
}

func (t *Terminal) EraseWindow(window int) error {
	switch window {
	case -1:
		fmt.Fprint(t.out, "\x1b[2J\x1b[H")
		t.upperLines = 0
	case -2:
		fmt.Fprint(t.out, "\x1b[2J\x1b[H")
	case 1:
		for row := 0; row < t.upperLines; row++ {
			fmt.Fprintf(t.out, "\x1b[%d;1H\x1b[2K", row+1)
		}
	default:
		fmt.Fprint(t.out, "\x1b[2J\x1b[H")
	}
	return nil
}

func (t *Terminal) EraseLine() error {
	fmt.Fprint(t.out, "\x1b[2K")
	return nil
}

func (t *Terminal) SetCursor(line, column int) error {
	t.cursorRow, t.cursorCol = line, column
	return nil
}

func (t *Terminal) GetCursor() (line, column int) {
	return t.cursorRow, t.cursorCol
}

func (t *Terminal) SetTextStyle(style zmachine.TextStyle) error {
	t.style = style
	return nil
}

func (t *Terminal) SetBufferMode(on bool) error {
	t.bufferMode = on
	return nil
}

func (t *Terminal) SetColor(foreground, background int) error {
	if foreground != 0 {
		t.foreground = foreground
	}
	if background != 0 {
		t.background = background
	}
	return nil
}

// SetFont reports failure for every font but the default (font 1); the
// terminal has no picture or character-graphics font to switch to.
func (t *Terminal) SetFont(font int) bool {
	return font == 1
}

type lineResult struct {
	line string
	err  error
}

// ReadLine blocks for up to timeTenths tenths of a second (0 means no
// limit). A timeout returns ok=false with prefill unchanged; the stdin read
// itself keeps running in its goroutine; since it cannot be cancelled, the
// next call to ReadLine/ReadChar reuses whatever that stray read produces.
func (t *Terminal) ReadLine(prefill string, timeTenths int) (string, bool, error) {
	if timeTenths <= 0 {
		line, err := t.readLineBlocking(prefill)
		if err != nil {
			return "", false, err
		}
		return line, true, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeTenths)*100*time.Millisecond)
	defer cancel()

	ch := make(chan lineResult, 1)
	go func() {
		line, err := t.readLineBlocking(prefill)
		ch <- lineResult{line: line, err: err}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			return "", false, res.err
		}
		return res.line, true, nil
	case <-ctx.Done():
		return prefill, false, nil
	}
}

func (t *Terminal) readLineBlocking(prefill string) (string, error) {
	if prefill != "" {
		fmt.Fprint(t.out, prefill)
	}
	raw, err := t.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return prefill + strings.TrimRight(raw, "\r\n"), nil
}

type charResult struct {
	ch  byte
	err error
}

// ReadChar is like ReadLine but returns a single character. The dependency
// stack has no raw-mode terminal library, so a plain stdin reader cannot see
// a keystroke before Enter; this degrades to reading a line and returning
// its first byte (a carriage return for an empty line), which keeps every READ_CHAR story
// runnable on a plain pipe or pty without reaching for an out-of-pack
// dependency just for raw mode.
func (t *Terminal) ReadChar(timeTenths int) (byte, bool, error) {
	if timeTenths <= 0 {
		ch, err := t.readCharBlocking()
		if err != nil {
			return 0, false, err
		}
		return ch, true, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeTenths)*100*time.Millisecond)
	defer cancel()

	ch := make(chan charResult, 1)
	go func() {
		c, err := t.readCharBlocking()
		ch <- charResult{ch: c, err: err}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			return 0, false, res.err
		}
		return res.ch, true, nil
	case <-ctx.Done():
		return 0, false, nil
	}
}

func (t *Terminal) readCharBlocking() (byte, error) {
	raw, err := t.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return 0, err
	}
	raw = strings.TrimRight(raw, "\r\n")
	if len(raw) == 0 {
		return '\r', nil
	}
	return raw[0], nil
}

// OpenSaveFile prompts for a filename on stdin and opens it for writing,
// matching the original's file-dialog-as-prompt fallback for terminal use.
func (t *Terminal) OpenSaveFile() (io.WriteCloser, error) {
	name, ok, err := t.ReadLine("", 0)
	if err != nil || !ok || name == "" {
		return nil, err
	}
	return os.Create(name)
}

func (t *Terminal) OpenRestoreFile() (io.ReadCloser, error) {
	name, ok, err := t.ReadLine("", 0)
	if err != nil || !ok || name == "" {
		return nil, err
	}
	return os.Open(name)
}

// OpenTranscript and OpenCommandScript use a fixed filename rather than a
// second prompt, since the player has already committed to turning the
// stream on via OUTPUT_STREAM/INPUT_STREAM.
func (t *Terminal) OpenTranscript() (io.WriteCloser, error) {
	return os.OpenFile("zax.transcript", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

func (t *Terminal) OpenCommandScript() (io.ReadCloser, error) {
	return os.Open("zax.script")
}

func (t *Terminal) Fatal(msg string) {
	fmt.Fprintf(os.Stderr, "zax: %s\n", msg)
}

func (t *Terminal) Quit() {
	fmt.Fprintln(t.out)
}
