package zmachine

import "io"

// fakeUI is a minimal UserInterface stub for tests that need a Machine's
// IOCard wired up but don't care about real terminal behavior: it just
// records what was printed.
type fakeUI struct {
	printed []string
}

func (f *fakeUI) Initialize(version uint8) error { return nil }

func (f *fakeUI) HasStatusLine() bool          { return true }
func (f *fakeUI) HasUpperWindow() bool         { return true }
func (f *fakeUI) DefaultFontProportional() bool { return false }
func (f *fakeUI) HasColors() bool              { return false }
func (f *fakeUI) HasBoldface() bool            { return false }
func (f *fakeUI) HasItalic() bool              { return false }
func (f *fakeUI) HasFixedWidth() bool          { return true }
func (f *fakeUI) HasTimedInput() bool          { return false }

func (f *fakeUI) ScreenCharacters() ScreenSize { return ScreenSize{Width: 80, Height: 24} }
func (f *fakeUI) ScreenUnits() ScreenSize      { return ScreenSize{Width: 640, Height: 480} }
func (f *fakeUI) FontSize() ScreenSize         { return ScreenSize{Width: 8, Height: 8} }
func (f *fakeUI) DefaultBackground() uint8     { return 9 }
func (f *fakeUI) DefaultForeground() uint8     { return 2 }
func (f *fakeUI) SetTerminatingCharacters(chars []byte) {}

func (f *fakeUI) Print(window int, text string) error {
	f.printed = append(f.printed, text)
	return nil
}
func (f *fakeUI) ShowStatus(location string, score, moves int, timeMode bool) error { return nil }
func (f *fakeUI) SplitWindow(lines int) error                                       { return nil }
func (f *fakeUI) SetWindow(window int) error                                        { return nil }
func (f *fakeUI) EraseWindow(window int) error                                      { return nil }
func (f *fakeUI) EraseLine() error                                                  { return nil }
func (f *fakeUI) SetCursor(line, column int) error                                  { return nil }
func (f *fakeUI) GetCursor() (line, column int)                                     { return 0, 0 }
func (f *fakeUI) SetTextStyle(style TextStyle) error                                { return nil }
func (f *fakeUI) SetBufferMode(on bool) error                                       { return nil }
func (f *fakeUI) SetColor(foreground, background int) error                        { return nil }
func (f *fakeUI) SetFont(font int) bool                                             { return true }

func (f *fakeUI) ReadLine(prefill string, timeTenths int) (string, bool, error) { return "", true, nil }
func (f *fakeUI) ReadChar(timeTenths int) (byte, bool, error)                   { return 0, true, nil }

func (f *fakeUI) OpenSaveFile() (io.WriteCloser, error)    { return nil, nil }
func (f *fakeUI) OpenRestoreFile() (io.ReadCloser, error)  { return nil, nil }
func (f *fakeUI) OpenTranscript() (io.WriteCloser, error)  { return nil, nil }
func (f *fakeUI) OpenCommandScript() (io.ReadCloser, error) { return nil, nil }

func (f *fakeUI) Fatal(msg string) {}
func (f *fakeUI) Quit()            {}
