package zmachine

import "testing"

func newTestText(version uint8) (*Text, *Memory) {
	mem := &Memory{data: make([]byte, 0x200)}
	return newText(mem, version, 0), mem
}

func TestTextEncodeDecodeLowercaseRoundTrip(t *testing.T) {
	tx, mem := newTestText(3)
	words := tx.Encode("hello", 0)
	if len(words) == 0 {
		t.Fatal("Encode produced no words")
	}
	if words[len(words)-1]&0x8000 == 0 {
		t.Fatal("Encode must set the high bit on the final word")
	}

	addr := uint32(0x100)
	for i, w := range words {
		if err := mem.PutWord(addr+uint32(i)*2, w); err != nil {
			t.Fatal(err)
		}
	}

	got, next, err := tx.Decode(addr)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != "hello" {
		t.Fatalf("Decode = %q, want %q", got, "hello")
	}
	if want := addr + uint32(len(words))*2; next != want {
		t.Fatalf("Decode next = %#x, want %#x", next, want)
	}
}

func TestTextEncodeUppercaseUsesShift(t *testing.T) {
	tx, mem := newTestText(3)
	words := tx.Encode("Hi", 0)
	addr := uint32(0x100)
	for i, w := range words {
		mem.PutWord(addr+uint32(i)*2, w)
	}
	got, _, err := tx.Decode(addr)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != "Hi" {
		t.Fatalf("Decode = %q, want %q", got, "Hi")
	}
}

func TestTextEncodeFixedWordCountPadsAndTruncates(t *testing.T) {
	tx, _ := newTestText(3)

	// "hi" is 2 z-chars; padded to 6 (2 words) with shift-5 filler.
	words := tx.Encode("hi", 2)
	if len(words) != 2 {
		t.Fatalf("Encode(\"hi\", wordCount=2) produced %d words, want 2", len(words))
	}

	// A long word must be truncated to exactly wordCount words, not grown.
	words = tx.Encode("averylongdictionaryword", 2)
	if len(words) != 2 {
		t.Fatalf("Encode(long, wordCount=2) produced %d words, want 2", len(words))
	}
}

func TestTextDecodeAbbreviation(t *testing.T) {
	mem := &Memory{data: make([]byte, 0x200)}
	abbrevTable := uint32(0x40)
	tx := newText(mem, 3, abbrevTable)

	// Abbreviation 0 (Z-chars 1,0) expands to "the ".
	sub := tx.Encode("the ", 0)
	subAddr := uint32(0x80)
	for i, w := range sub {
		mem.PutWord(subAddr+uint32(i)*2, w)
	}
	// Abbreviation table entries are word addresses (byte address / 2).
	mem.PutWord(abbrevTable, uint16(subAddr/2))

	// Encode a string containing Z-chars {1, 0} (abbreviation 0) followed by
	// "x", by hand: (1<<10)|(0<<5)|encodeChar('x'), high bit set.
	xChar := tx.encodeChars("x")[0]
	word := uint16(1)<<10 | uint16(0)<<5 | uint16(xChar)
	word |= 0x8000
	mainAddr := uint32(0x100)
	if err := mem.PutWord(mainAddr, word); err != nil {
		t.Fatal(err)
	}

	got, _, err := tx.Decode(mainAddr)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != "the x" {
		t.Fatalf("Decode with abbreviation = %q, want %q", got, "the x")
	}
}

func TestTextLiteralZSCIIEscapeRoundTrip(t *testing.T) {
	tx, mem := newTestText(3)
	// A character outside every alphabet forces the 10-bit literal escape.
	words := tx.Encode(string(rune(200)), 0)
	addr := uint32(0x100)
	for i, w := range words {
		mem.PutWord(addr+uint32(i)*2, w)
	}
	got, _, err := tx.Decode(addr)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got) != 1 || got[0] != 200 {
		t.Fatalf("Decode literal escape = %q, want a single byte 200", got)
	}
}
