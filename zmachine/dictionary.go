package zmachine

import (
	"bytes"
	"strings"
)

// dictionaryLayout describes the fixed fields at the front of the
// dictionary table: a count-prefixed separator-character list, then the
// length and count of the sorted entry array that follows.
type dictionaryLayout struct {
	separators  []byte
	entryLength uint8
	entryCount  int
	sorted      bool // false when the header gave a negative entry count
	entriesBase uint32
	wordLen     int // z-words of encoded text stored per entry: 2 (V1-3) or 3 (V4+)
}

func (m *Machine) dictionaryLayout(addr uint32) (dictionaryLayout, error) {
	n, err := m.mem.FetchByte(addr)
	if err != nil {
		return dictionaryLayout{}, err
	}
	seps := make([]byte, n)
	for i := uint32(0); i < uint32(n); i++ {
		b, err := m.mem.FetchByte(addr + 1 + i)
		if err != nil {
			return dictionaryLayout{}, err
		}
		seps[i] = b
	}
	entryLenAddr := addr + 1 + uint32(n)
	entryLen, err := m.mem.FetchByte(entryLenAddr)
	if err != nil {
		return dictionaryLayout{}, err
	}
	countWord, err := m.mem.FetchWord(entryLenAddr + 1)
	if err != nil {
		return dictionaryLayout{}, err
	}
	// A negative entry count means the entries aren't sorted; its absolute
	// value is still the count.
	signedCount := int16(countWord)
	entryCount := int(signedCount)
	sorted := true
	if signedCount < 0 {
		entryCount = -entryCount
		sorted = false
	}
	wordLen := 2
	if m.version >= 4 {
		wordLen = 3
	}
	return dictionaryLayout{
		separators:  seps,
		entryLength: entryLen,
		entryCount:  entryCount,
		sorted:      sorted,
		entriesBase: entryLenAddr + 3,
		wordLen:     wordLen,
	}, nil
}

// lookupWord binary-searches the dictionary for word, returning its entry
// address, or 0 if not present. Entries are sorted by their encoded text.
func (m *Machine) lookupWord(word string) (uint32, error) {
	return m.lookupWordIn(word, m.dictionary)
}

func (m *Machine) lookupWordIn(word string, dictAddr uint32) (uint32, error) {
	dl, err := m.dictionaryLayout(dictAddr)
	if err != nil {
		return 0, err
	}
	if dl.entryCount <= 0 {
		return 0, nil
	}

	encoded := m.text.Encode(strings.ToLower(word), dl.wordLen)
	target := make([]byte, 0, dl.wordLen*2)
	for _, w := range encoded {
		target = append(target, byte(w>>8), byte(w))
	}

	if !dl.sorted {
		for i := 0; i < dl.entryCount; i++ {
			entryAddr := dl.entriesBase + uint32(i)*uint32(dl.entryLength)
			candidate := make([]byte, len(target))
			for j := range candidate {
				b, err := m.mem.FetchByte(entryAddr + uint32(j))
				if err != nil {
					return 0, err
				}
				candidate[j] = b
			}
			if bytes.Equal(target, candidate) {
				return entryAddr, nil
			}
		}
		return 0, nil
	}

	lo, hi := 0, dl.entryCount-1
	for lo <= hi {
		mid := lo + (hi-lo)/2
		entryAddr := dl.entriesBase + uint32(mid)*uint32(dl.entryLength)
		candidate := make([]byte, len(target))
		for i := range candidate {
			b, err := m.mem.FetchByte(entryAddr + uint32(i))
			if err != nil {
				return 0, err
			}
			candidate[i] = b
		}
		cmp := bytes.Compare(target, candidate)
		switch {
		case cmp == 0:
			return entryAddr, nil
		case cmp < 0:
			hi = mid - 1
		default:
			lo = mid + 1
		}
	}
	return 0, nil
}

// tokeniseInto splits text on spaces and the dictionary's separator
// characters (each separator is itself a one-character token) and writes up
// to maxWords entries (the parse buffer's first byte) into the parse buffer
// at parseAddr, each as dictionary word address, length byte, then
// text-buffer position byte per the standard's parse-table format. A
// nonzero dict selects that dictionary instead of the story's own.
func (m *Machine) tokeniseInto(text string, parseAddr uint32, dict uint32) error {
	dictAddr := m.dictionary
	if dict != 0 {
		dictAddr = dict
	}
	dl, err := m.dictionaryLayout(dictAddr)
	if err != nil {
		return err
	}

	maxWords, err := m.mem.FetchByte(parseAddr)
	if err != nil {
		return err
	}

	type token struct {
		text string
		pos  int
	}
	var tokens []token
	isSep := func(b byte) bool {
		if b == ' ' {
			return true
		}
		for _, s := range dl.separators {
			if s == b {
				return true
			}
		}
		return false
	}

	i := 0
	for i < len(text) {
		b := text[i]
		if b == ' ' {
			i++
			continue
		}
		if isSep(b) {
			tokens = append(tokens, token{text: string(b), pos: i})
			i++
			continue
		}
		start := i
		for i < len(text) && !isSep(text[i]) {
			i++
		}
		tokens = append(tokens, token{text: text[start:i], pos: start})
	}

	count := len(tokens)
	if count > int(maxWords) {
		count = int(maxWords)
	}
	if err := m.mem.PutByte(parseAddr+1, uint8(count)); err != nil {
		return err
	}
	// Positions are written relative to the real text buffer, which carries
	// a 1-byte max-length prefix in V1-4 or a 2-byte max/actual-length
	// prefix in V5+; text has already had that prefix stripped.
	bufOffset := 1
	if m.version >= 5 {
		bufOffset = 2
	}
	for idx := 0; idx < count; idx++ {
		found, err := m.lookupWordIn(tokens[idx].text, dictAddr)
		if err != nil {
			return err
		}
		entryAddr := found
		base := parseAddr + 2 + uint32(idx)*4
		if err := m.mem.PutWord(base, uint16(entryAddr)); err != nil {
			return err
		}
		if err := m.mem.PutByte(base+2, uint8(len(tokens[idx].text))); err != nil {
			return err
		}
		if err := m.mem.PutByte(base+3, uint8(tokens[idx].pos+bufOffset)); err != nil {
			return err
		}
	}
	return nil
}
