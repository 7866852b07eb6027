package zmachine

// opForm identifies an opcode's operand-count class (0OP, 1OP, 2OP, VAR or
// EXT), which combined with its number selects the dispatch table entry.
type opForm uint8

const (
	form0OP opForm = iota
	form1OP
	form2OP
	formVAR
	formEXT
)

type opKey struct {
	form opForm
	num  uint8
}

// OpInfo is the static shape of one opcode: its name (for tracing) and
// which trailing arguments follow its operands, per the
// fixed decode order the standard mandates (store variable, then branch
// offset, then inline literal string).
type OpInfo struct {
	Name       string
	StoreVar   bool
	Branch     bool
	Text       bool
	MinVersion uint8
}

var opcodeTable = map[opKey]OpInfo{
	// 0OP
	{form0OP, 0x00}: {Name: "rtrue"},
	{form0OP, 0x01}: {Name: "rfalse"},
	{form0OP, 0x02}: {Name: "print", Text: true},
	{form0OP, 0x03}: {Name: "print_ret", Text: true},
	{form0OP, 0x04}: {Name: "nop"},
	{form0OP, 0x05}: {Name: "save"}, // store/branch handled specially by version
	{form0OP, 0x06}: {Name: "restore"},
	{form0OP, 0x07}: {Name: "restart"},
	{form0OP, 0x08}: {Name: "ret_popped"},
	{form0OP, 0x09}: {Name: "pop/catch"}, // V1-4 pop, V5+ catch (stores)
	{form0OP, 0x0a}: {Name: "quit"},
	{form0OP, 0x0b}: {Name: "new_line"},
	{form0OP, 0x0c}: {Name: "show_status"},
	{form0OP, 0x0d}: {Name: "verify", Branch: true},
	{form0OP, 0x0f}: {Name: "piracy", Branch: true},

	// 1OP
	{form1OP, 0x00}: {Name: "jz", Branch: true},
	{form1OP, 0x01}: {Name: "get_sibling", StoreVar: true, Branch: true},
	{form1OP, 0x02}: {Name: "get_child", StoreVar: true, Branch: true},
	{form1OP, 0x03}: {Name: "get_parent", StoreVar: true},
	{form1OP, 0x04}: {Name: "get_prop_len", StoreVar: true},
	{form1OP, 0x05}: {Name: "inc"},
	{form1OP, 0x06}: {Name: "dec"},
	{form1OP, 0x07}: {Name: "print_addr"},
	{form1OP, 0x08}: {Name: "call_1s", StoreVar: true, MinVersion: 4},
	{form1OP, 0x09}: {Name: "remove_obj"},
	{form1OP, 0x0a}: {Name: "print_obj"},
	{form1OP, 0x0b}: {Name: "ret"},
	{form1OP, 0x0c}: {Name: "jump"},
	{form1OP, 0x0d}: {Name: "print_paddr"},
	{form1OP, 0x0e}: {Name: "load", StoreVar: true},
	{form1OP, 0x0f}: {Name: "not/call_1n"}, // V<5 not (stores), V5+ call_1n (doesn't)

	// 2OP
	{form2OP, 0x01}: {Name: "je", Branch: true},
	{form2OP, 0x02}: {Name: "jl", Branch: true},
	{form2OP, 0x03}: {Name: "jg", Branch: true},
	{form2OP, 0x04}: {Name: "dec_chk", Branch: true},
	{form2OP, 0x05}: {Name: "inc_chk", Branch: true},
	{form2OP, 0x06}: {Name: "jin", Branch: true},
	{form2OP, 0x07}: {Name: "test", Branch: true},
	{form2OP, 0x08}: {Name: "or", StoreVar: true},
	{form2OP, 0x09}: {Name: "and", StoreVar: true},
	{form2OP, 0x0a}: {Name: "test_attr", Branch: true},
	{form2OP, 0x0b}: {Name: "set_attr"},
	{form2OP, 0x0c}: {Name: "clear_attr"},
	{form2OP, 0x0d}: {Name: "store"},
	{form2OP, 0x0e}: {Name: "insert_obj"},
	{form2OP, 0x0f}: {Name: "loadw", StoreVar: true},
	{form2OP, 0x10}: {Name: "loadb", StoreVar: true},
	{form2OP, 0x11}: {Name: "get_prop", StoreVar: true},
	{form2OP, 0x12}: {Name: "get_prop_addr", StoreVar: true},
	{form2OP, 0x13}: {Name: "get_next_prop", StoreVar: true},
	{form2OP, 0x14}: {Name: "add", StoreVar: true},
	{form2OP, 0x15}: {Name: "sub", StoreVar: true},
	{form2OP, 0x16}: {Name: "mul", StoreVar: true},
	{form2OP, 0x17}: {Name: "div", StoreVar: true},
	{form2OP, 0x18}: {Name: "mod", StoreVar: true},
	{form2OP, 0x19}: {Name: "call_2s", StoreVar: true, MinVersion: 4},
	{form2OP, 0x1a}: {Name: "call_2n", MinVersion: 5},
	{form2OP, 0x1b}: {Name: "set_colour", MinVersion: 5},
	{form2OP, 0x1c}: {Name: "throw", MinVersion: 5},

	// VAR
	{formVAR, 0x00}: {Name: "call", StoreVar: true},
	{formVAR, 0x01}: {Name: "storew"},
	{formVAR, 0x02}: {Name: "storeb"},
	{formVAR, 0x03}: {Name: "put_prop"},
	{formVAR, 0x04}: {Name: "sread/aread"},
	{formVAR, 0x05}: {Name: "print_char"},
	{formVAR, 0x06}: {Name: "print_num"},
	{formVAR, 0x07}: {Name: "random", StoreVar: true},
	{formVAR, 0x08}: {Name: "push"},
	{formVAR, 0x09}: {Name: "pull"},
	{formVAR, 0x0a}: {Name: "split_window", MinVersion: 3},
	{formVAR, 0x0b}: {Name: "set_window", MinVersion: 3},
	{formVAR, 0x0c}: {Name: "call_vs2", StoreVar: true, MinVersion: 4},
	{formVAR, 0x0d}: {Name: "erase_window", MinVersion: 4},
	{formVAR, 0x0e}: {Name: "erase_line", MinVersion: 4},
	{formVAR, 0x0f}: {Name: "set_cursor", MinVersion: 4},
	{formVAR, 0x10}: {Name: "get_cursor", MinVersion: 4},
	{formVAR, 0x11}: {Name: "set_text_style", MinVersion: 4},
	{formVAR, 0x12}: {Name: "buffer_mode", MinVersion: 4},
	{formVAR, 0x13}: {Name: "output_stream"},
	{formVAR, 0x14}: {Name: "input_stream"},
	{formVAR, 0x15}: {Name: "sound_effect", MinVersion: 5},
	{formVAR, 0x16}: {Name: "read_char", StoreVar: true, MinVersion: 4},
	{formVAR, 0x17}: {Name: "scan_table", StoreVar: true, Branch: true, MinVersion: 4},
	{formVAR, 0x18}: {Name: "not", StoreVar: true, MinVersion: 5},
	{formVAR, 0x19}: {Name: "call_vn", MinVersion: 5},
	{formVAR, 0x1a}: {Name: "call_vn2", MinVersion: 5},
	{formVAR, 0x1b}: {Name: "tokenise", MinVersion: 5},
	{formVAR, 0x1c}: {Name: "encode_text", MinVersion: 5},
	{formVAR, 0x1d}: {Name: "copy_table", MinVersion: 5},
	{formVAR, 0x1e}: {Name: "print_table", MinVersion: 5},
	{formVAR, 0x1f}: {Name: "check_arg_count", Branch: true, MinVersion: 5},

	// EXT
	{formEXT, 0x00}: {Name: "save", StoreVar: true, MinVersion: 5},
	{formEXT, 0x01}: {Name: "restore", StoreVar: true, MinVersion: 5},
	{formEXT, 0x02}: {Name: "log_shift", StoreVar: true, MinVersion: 5},
	{formEXT, 0x03}: {Name: "art_shift", StoreVar: true, MinVersion: 5},
	{formEXT, 0x04}: {Name: "set_font", StoreVar: true, MinVersion: 5},
	{formEXT, 0x09}: {Name: "save_undo", StoreVar: true, MinVersion: 5},
	{formEXT, 0x0a}: {Name: "restore_undo", StoreVar: true, MinVersion: 5},
}

// V6-only opcodes (DRAW_PICTURE, PICTURE_DATA, MOVE_WINDOW, WINDOW_SIZE,
// POP_STACK, PUSH_STACK, and the rest of the V6 window/graphics surface)
// are intentionally absent: this interpreter supports versions 1-5, 7, and
// 8, never 6, so lookupOpcode naturally faults on them instead of carrying
// unreachable stubs.

func lookupOpcode(form opForm, num uint8) (OpInfo, bool) {
	info, ok := opcodeTable[opKey{form, num}]
	return info, ok
}
