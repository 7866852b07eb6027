package zmachine

import "strings"

// alphabet indices.
const (
	alphaL = 0 // lower case
	alphaU = 1 // upper case
	alphaP = 2 // punctuation/digits (3 in V1, which uses a different table)
)

// The three 32-entry Z-character alphabets. Entries 0-5 are the control
// codes (space, the abbreviation or V1-2 newline/shift codes, and the
// alphabet shifts) and are never indexed through this table; only 6-31 are
// looked up here, and entry 6 of the punctuation alphabet is the 10-bit
// literal escape. Table 3 is the V1-only punctuation alphabet: it has no
// newline entry, so the digits start one place earlier, and '<' appears
// before '-'.
var zalphabet = [4][32]byte{
	{' ', 0, 0, 0, 0, 0, 'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h', 'i',
		'j', 'k', 'l', 'm', 'n', 'o', 'p', 'q', 'r', 's', 't', 'u', 'v', 'w',
		'x', 'y', 'z'},
	{' ', 0, 0, 0, 0, 0, 'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'I',
		'J', 'K', 'L', 'M', 'N', 'O', 'P', 'Q', 'R', 'S', 'T', 'U', 'V', 'W',
		'X', 'Y', 'Z'},
	{' ', 0, 0, 0, 0, 0, 0, '\n', '0', '1', '2', '3', '4', '5', '6', '7',
		'8', '9', '.', ',', '!', '?', '_', '#', '\'', '"', '/', '\\', '-',
		':', '(', ')'},
	{' ', 0, 0, 0, 0, 0, 0, '0', '1', '2', '3', '4', '5', '6', '7',
		'8', '9', '.', ',', '!', '?', '_', '#', '\'', '"', '/', '\\', '<', '-',
		':', '(', ')'},
}

// Text decodes and encodes the Z-character string format: 3 five-bit
// Z-characters per 16-bit word, terminated by a word with its high bit set.
type Text struct {
	mem         *Memory
	version     uint8
	abbrevTable uint32
	alphaPTable int // index into zalphabet for the punctuation alphabet: 2, or 3 in V1
}

func newText(mem *Memory, version uint8, abbrevTable uint32) *Text {
	pIdx := alphaP
	if version == 1 {
		pIdx = 3
	}
	return &Text{mem: mem, version: version, abbrevTable: abbrevTable, alphaPTable: pIdx}
}

// splitZChars reads the Z-character stream at addr (a word-terminated run
// of 16-bit words) and returns the unpacked 5-bit codes plus the byte
// address immediately following the string.
func (t *Text) splitZChars(addr uint32) ([]byte, uint32, error) {
	var chars []byte
	cur := addr
	for {
		w, err := t.mem.FetchWord(cur)
		if err != nil {
			return nil, 0, err
		}
		cur += 2
		chars = append(chars, byte(w>>10)&0x1f, byte(w>>5)&0x1f, byte(w)&0x1f)
		if w&0x8000 != 0 {
			break
		}
	}
	return chars, cur, nil
}

// Decode decodes the Z-string at addr, returning the text and the address
// immediately following it.
func (t *Text) Decode(addr uint32) (string, uint32, error) {
	chars, next, err := t.splitZChars(addr)
	if err != nil {
		return "", 0, err
	}
	s, err := t.decodeChars(chars, 0)
	if err != nil {
		return "", 0, err
	}
	return s, next, nil
}

// decodeChars renders an already-split Z-character slice, following
// abbreviation references recursively. depth guards against a corrupt story
// file that abbreviates into an abbreviation loop.
func (t *Text) decodeChars(chars []byte, depth int) (string, error) {
	if depth > 8 {
		return "", fault(CorruptObjectTable, "abbreviation recursion too deep")
	}

	var out strings.Builder
	current := alphaL
	lock := alphaL

	for i := 0; i < len(chars); i++ {
		c := chars[i]
		switch c {
		case 1:
			if t.version == 1 {
				out.WriteByte('\n')
				current = lock
				continue
			}
			fallthrough
		case 2, 3:
			if c != 1 && t.version <= 2 {
				if c == 2 {
					current = shiftUp(current, t.alphaPTable)
				} else {
					current = shiftDown(current, t.alphaPTable)
				}
				continue
			}
			// Abbreviation reference.
			i++
			if i >= len(chars) {
				break
			}
			c2 := chars[i]
			abbrevIdx := uint32(c-1)*32 + uint32(c2)
			entryAddr := t.abbrevTable + abbrevIdx*2
			wordAddr, err := t.mem.FetchWord(entryAddr)
			if err != nil {
				return "", err
			}
			abbrevChars, _, err := t.splitZChars(uint32(wordAddr) * 2)
			if err != nil {
				return "", err
			}
			sub, err := t.decodeChars(abbrevChars, depth+1)
			if err != nil {
				return "", err
			}
			out.WriteString(sub)
		case 4:
			current = shiftUp(current, t.alphaPTable)
			if t.version <= 2 {
				lock = current
			}
		case 5:
			current = shiftDown(current, t.alphaPTable)
			if t.version <= 2 {
				lock = current
			}
		case 6:
			if current == t.alphaPTable {
				i++
				if i >= len(chars) {
					break
				}
				c2 := chars[i]
				i++
				if i >= len(chars) {
					break
				}
				c3 := chars[i]
				zscii := uint16(c2)<<5&0x03e0 | uint16(c3)&0x1f
				out.WriteByte(byte(zscii))
				current = lock
			} else {
				out.WriteByte(zalphabet[current][c])
				current = lock
			}
		default:
			out.WriteByte(zalphabet[current][c])
			current = lock
		}
	}
	return out.String(), nil
}

func shiftUp(current, pIdx int) int {
	if current == pIdx {
		return alphaL
	}
	return current + 1
}

func shiftDown(current, pIdx int) int {
	switch current {
	case alphaL:
		return pIdx
	case pIdx:
		return alphaU
	default:
		return alphaL
	}
}

// Encode converts text into packed Z-character words, padded with Z-char 5
// to a multiple of 3 characters, with the final word's high bit set.
// wordCount limits the number of 16-bit words emitted (2 in V1-3, 3 in V4+
// for dictionary entries, i.e. 6 or 9 Z-characters); pass 0 for an
// unbounded PRINT-family encode.
func (t *Text) Encode(s string, wordCount int) []uint16 {
	chars := t.encodeChars(s)
	if wordCount > 0 {
		need := wordCount * 3
		if len(chars) > need {
			chars = chars[:need]
		}
		for len(chars) < need {
			chars = append(chars, 5)
		}
	} else {
		for len(chars)%3 != 0 {
			chars = append(chars, 5)
		}
	}

	words := make([]uint16, 0, len(chars)/3)
	for i := 0; i < len(chars); i += 3 {
		w := uint16(chars[i])<<10 | uint16(chars[i+1])<<5 | uint16(chars[i+2])
		words = append(words, w)
	}
	if len(words) > 0 {
		words[len(words)-1] |= 0x8000
	}
	return words
}

func (t *Text) encodeChars(s string) []byte {
	shiftP := byte(3)
	shiftU := byte(2)
	if t.version >= 3 {
		shiftP = 5
		shiftU = 4
	}

	var out []byte
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			out = append(out, byte(r-'a')+6)
			continue
		case r >= 'A' && r <= 'Z':
			out = append(out, shiftU, byte(r-'A')+6)
			continue
		case r == '\r' || r == '\n':
			if t.version == 1 {
				out = append(out, 1)
			} else {
				out = append(out, shiftP, 7)
			}
			continue
		}

		if idx := indexInAlphabet(alphaL, r); idx >= 0 {
			out = append(out, byte(idx))
			continue
		}
		if idx := indexInAlphabet(alphaU, r); idx >= 0 {
			out = append(out, shiftU, byte(idx))
			continue
		}
		pIdx := alphaP
		if t.version == 1 {
			pIdx = 3
		}
		if idx := indexInAlphabet(pIdx, r); idx >= 0 {
			out = append(out, shiftP, byte(idx))
			continue
		}

		// Literal 10-bit ZSCII escape.
		out = append(out, shiftP, 6, byte(r>>5)&0x1f, byte(r)&0x1f)
	}
	return out
}

func indexInAlphabet(which int, r rune) int {
	for i := 6; i < 32; i++ {
		if rune(zalphabet[which][i]) == r {
			return i
		}
	}
	return -1
}
