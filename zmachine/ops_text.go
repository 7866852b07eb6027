package zmachine

import (
	"fmt"
	"strings"
)

func (m *Machine) opPrint(text string) error {
	return m.io.Print(text)
}

// opPrintRet implements PRINT_RET: print the inline string, a newline, then
// return true.
func (m *Machine) opPrintRet(text string) error {
	if err := m.io.Print(text); err != nil {
		return err
	}
	if err := m.io.Print("\n"); err != nil {
		return err
	}
	return m.doReturn(1)
}

func (m *Machine) opNewLine() error {
	return m.io.Print("\n")
}

func (m *Machine) opPrintAddr(addr uint32) error {
	s, _, err := m.text.Decode(addr)
	if err != nil {
		return err
	}
	return m.io.Print(s)
}

func (m *Machine) opPrintPaddr(packed uint16) error {
	addr, err := m.mem.UnpackAddress(packed, m.version, false)
	if err != nil {
		return err
	}
	s, _, err := m.text.Decode(addr)
	if err != nil {
		return err
	}
	return m.io.Print(s)
}

func (m *Machine) opPrintChar(code uint16) error {
	return m.io.Print(string(rune(code)))
}

func (m *Machine) opPrintNum(v uint16) error {
	return m.io.Print(fmt.Sprintf("%d", signed(v)))
}

// opPrintTable implements PRINT_TABLE: print a width x height grid of ZSCII
// characters from table, each row separated by a newline and advanced by
// skip bytes (defaulting to width) between rows.
func (m *Machine) opPrintTable(ops []uint16) error {
	table := uint32(ops[0])
	width := ops[1]
	height := uint16(1)
	if len(ops) > 2 {
		height = ops[2]
	}
	skip := width
	if len(ops) > 3 {
		skip = ops[3]
	}
	var out strings.Builder
	for row := uint16(0); row < height; row++ {
		if row > 0 {
			out.WriteByte('\n')
		}
		base := table + uint32(row)*uint32(skip)
		for col := uint16(0); col < width; col++ {
			b, err := m.mem.FetchByte(base + uint32(col))
			if err != nil {
				return err
			}
			out.WriteByte(b)
		}
	}
	return m.io.Print(out.String())
}

// opEncodeText implements ENCODE_TEXT: encode length ZSCII characters from
// text (starting at offset) as a dictionary word and write it to coded.
func (m *Machine) opEncodeText(ops []uint16) error {
	text := uint32(ops[0])
	length := uint32(ops[1])
	from := uint32(ops[2])
	coded := uint32(ops[3])
	raw, err := m.mem.Dump(text+from, length)
	if err != nil {
		return err
	}
	wordLen := 2
	if m.version >= 4 {
		wordLen = 3
	}
	encoded := m.text.Encode(string(raw), wordLen)
	for i, w := range encoded {
		if err := m.mem.PutWord(coded+uint32(i)*2, w); err != nil {
			return err
		}
	}
	return nil
}
