package zmachine

import "io"

// ScreenSize is a width/height pair, used both in character units (status
// line geometry) and in the finer-grained screen units V5+ games expect.
type ScreenSize struct {
	Width  int
	Height int
}

// TextStyle is a bitmask matching SET_TEXT_STYLE's argument: Roman (0)
// clears all styles; the others combine.
type TextStyle uint8

const (
	StyleReverse TextStyle = 1 << iota
	StyleBold
	StyleItalic
	StyleFixedWidth
)

// UserInterface is the external collaborator a Machine drives for
// everything screen-, input-, and file-related. It never touches story
// memory; Machine decodes the Z-string/number arguments and calls through
// this port with plain Go values. A concrete implementation (see the term
// package) owns the actual terminal, timers, and save-file I/O.
type UserInterface interface {
	// Initialize is called once the story version is known, before any
	// header capability bits are negotiated.
	Initialize(version uint8) error

	// Capability queries, consulted while bringing up header flags.
	HasStatusLine() bool
	HasUpperWindow() bool
	DefaultFontProportional() bool
	HasColors() bool
	HasBoldface() bool
	HasItalic() bool
	HasFixedWidth() bool
	HasTimedInput() bool

	ScreenCharacters() ScreenSize
	ScreenUnits() ScreenSize
	FontSize() ScreenSize
	DefaultBackground() uint8
	DefaultForeground() uint8
	SetTerminatingCharacters(chars []byte)

	// Output. window selects 0 (lower/main) or 1 (upper/status) per
	// SET_WINDOW; streams route here only for stream 1 (screen).
	Print(window int, text string) error
	ShowStatus(location string, score, moves int, timeMode bool) error
	SplitWindow(lines int) error
	SetWindow(window int) error
	EraseWindow(window int) error
	EraseLine() error
	SetCursor(line, column int) error
	GetCursor() (line, column int)
	SetTextStyle(style TextStyle) error
	SetBufferMode(on bool) error
	SetColor(foreground, background int) error
	SetFont(font int) (ok bool)

	// Input. ReadLine blocks for up to timeTenths tenths of a second (0
	// means no limit) and returns the accumulated buffer plus ok=false if
	// the read timed out before a terminator was seen. ReadChar is the
	// single-character analogue used by READ_CHAR.
	ReadLine(prefill string, timeTenths int) (line string, ok bool, err error)
	ReadChar(timeTenths int) (ch byte, ok bool, err error)

	// File I/O for SAVE/RESTORE (SAVE_UNDO/RESTORE_UNDO keep their snapshot
	// in memory and do not use this). Returns nil, nil if the user cancels.
	OpenSaveFile() (io.WriteCloser, error)
	OpenRestoreFile() (io.ReadCloser, error)

	// OpenTranscript and OpenCommandScript back output stream 2 and input
	// stream 1 respectively; either may return nil, nil if the interface
	// has no such facility (in which case selecting that stream is a
	// no-op rather than a fault).
	OpenTranscript() (io.WriteCloser, error)
	OpenCommandScript() (io.ReadCloser, error)

	// Lifecycle.
	Fatal(msg string)
	Quit()
}
