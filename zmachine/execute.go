package zmachine

// execute carries out one already-decoded instruction: form and num select
// which opcode, ops holds its operands, and resultVar/branchOnTrue/
// branchOffset/text are the trailing arguments dispatch already consumed
// according to the opcode's static shape (hasStore, hasBranch say whether
// resultVar/the branch pair are meaningful at all).
func (m *Machine) execute(form opForm, num uint8, ops []uint16, resultVar uint8, hasStore bool, branchOnTrue bool, branchOffset int32, hasBranch bool, text string) error {
	store := func(v uint16, err error) error {
		if err != nil {
			return err
		}
		return m.putVariable(resultVar, v)
	}
	branch := func(cond bool, err error) error {
		if err != nil {
			return err
		}
		return m.takeBranch(cond, branchOnTrue, branchOffset)
	}

	switch form {
	case form0OP:
		switch num {
		case 0x00: // rtrue
			return m.doReturn(1)
		case 0x01: // rfalse
			return m.doReturn(0)
		case 0x02: // print
			return m.opPrint(text)
		case 0x03: // print_ret
			return m.opPrintRet(text)
		case 0x04: // nop
			return nil
		case 0x07: // restart
			return m.opRestart()
		case 0x08: // ret_popped
			v, ok := m.stack.Current.pop()
			if !ok {
				return fault(StackUnderflow, "ret_popped: operand stack is empty")
			}
			return m.doReturn(v)
		case 0x0a: // quit
			return m.opQuit()
		case 0x0b: // new_line
			return m.opNewLine()
		case 0x0c: // show_status
			return m.opShowStatus()
		case 0x0d: // verify
			ok, err := m.opVerify()
			return branch(ok, err)
		case 0x0f: // piracy
			return branch(true, nil)
		}

	case form1OP:
		switch num {
		case 0x00: // jz
			return branch(ops[0] == 0, nil)
		case 0x01: // get_sibling
			v, err := m.opGetSibling(ops)
			if err != nil {
				return err
			}
			if err := m.putVariable(resultVar, v); err != nil {
				return err
			}
			return m.takeBranch(v != 0, branchOnTrue, branchOffset)
		case 0x02: // get_child
			v, err := m.opGetChild(ops)
			if err != nil {
				return err
			}
			if err := m.putVariable(resultVar, v); err != nil {
				return err
			}
			return m.takeBranch(v != 0, branchOnTrue, branchOffset)
		case 0x03: // get_parent
			return store(m.opGetParent(ops))
		case 0x04: // get_prop_len
			return store(m.opGetPropLen(ops))
		case 0x05: // inc
			return m.opInc(ops)
		case 0x06: // dec
			return m.opDec(ops)
		case 0x07: // print_addr
			return m.opPrintAddr(uint32(ops[0]))
		case 0x08: // call_1s
			return m.opCallFunction(ops, resultVar)
		case 0x09: // remove_obj
			return m.opRemoveObj(ops)
		case 0x0a: // print_obj
			return m.opPrintObj(ops[0])
		case 0x0b: // ret
			return m.doReturn(ops[0])
		case 0x0c: // jump
			m.opJump(ops[0])
			return nil
		case 0x0d: // print_paddr
			return m.opPrintPaddr(ops[0])
		case 0x0e: // load
			return store(m.opLoad(ops))
		}

	case form2OP:
		switch num {
		case 0x01: // je
			return branch(m.opJe(ops), nil)
		case 0x02: // jl
			return branch(signed(ops[0]) < signed(ops[1]), nil)
		case 0x03: // jg
			return branch(signed(ops[0]) > signed(ops[1]), nil)
		case 0x04: // dec_chk
			return branch(m.opDecChk(ops))
		case 0x05: // inc_chk
			return branch(m.opIncChk(ops))
		case 0x06: // jin
			return branch(m.opJin(ops))
		case 0x07: // test
			return branch(m.opTest(ops), nil)
		case 0x08: // or
			return store(ops[0]|ops[1], nil)
		case 0x09: // and
			return store(ops[0]&ops[1], nil)
		case 0x0a: // test_attr
			return branch(m.opTestAttr(ops))
		case 0x0b: // set_attr
			return m.opSetAttr(ops)
		case 0x0c: // clear_attr
			return m.opClearAttr(ops)
		case 0x0d: // store
			return m.opStore(ops)
		case 0x0e: // insert_obj
			return m.opInsertObj(ops)
		case 0x0f: // loadw
			return store(m.opLoadw(ops))
		case 0x10: // loadb
			return store(m.opLoadb(ops))
		case 0x11: // get_prop
			return store(m.opGetProp(ops))
		case 0x12: // get_prop_addr
			return store(m.opGetPropAddr(ops))
		case 0x13: // get_next_prop
			return store(m.opGetNextProp(ops))
		case 0x14: // add
			return store(uint16(signed(ops[0])+signed(ops[1])), nil)
		case 0x15: // sub
			return store(uint16(signed(ops[0])-signed(ops[1])), nil)
		case 0x16: // mul
			return store(uint16(signed(ops[0])*signed(ops[1])), nil)
		case 0x17: // div
			return store(m.opDiv(ops))
		case 0x18: // mod
			return store(m.opMod(ops))
		case 0x19: // call_2s
			return m.opCallFunction(ops, resultVar)
		case 0x1a: // call_2n
			return m.opCallProcedure(ops)
		case 0x1b: // set_colour
			return m.opSetColour(ops)
		case 0x1c: // throw
			return m.opThrow(ops)
		}

	case formVAR:
		switch num {
		case 0x00: // call
			return m.opCallFunction(ops, resultVar)
		case 0x01: // storew
			return m.opStorew(ops)
		case 0x02: // storeb
			return m.opStoreb(ops)
		case 0x03: // put_prop
			return m.opPutProp(ops)
		case 0x04: // sread/aread
			return m.opRead(ops)
		case 0x05: // print_char
			return m.opPrintChar(ops[0])
		case 0x06: // print_num
			return m.opPrintNum(ops[0])
		case 0x07: // random
			return store(m.rnd.Roll(signed(ops[0])), nil)
		case 0x08: // push
			m.stack.Current.push(ops[0])
			return nil
		case 0x09: // pull
			return m.opPull(ops)
		case 0x0a: // split_window
			return m.opSplitWindow(ops)
		case 0x0b: // set_window
			return m.opSetWindow(ops)
		case 0x0c: // call_vs2
			return m.opCallFunction(ops, resultVar)
		case 0x0d: // erase_window
			return m.opEraseWindow(ops)
		case 0x0e: // erase_line
			return m.opEraseLine()
		case 0x0f: // set_cursor
			return m.opSetCursor(ops)
		case 0x10: // get_cursor
			return m.opGetCursor(ops)
		case 0x11: // set_text_style
			return m.opSetTextStyle(ops)
		case 0x12: // buffer_mode
			return m.opBufferMode(ops)
		case 0x13: // output_stream
			return m.opOutputStream(ops)
		case 0x14: // input_stream
			return m.opInputStream(ops)
		case 0x15: // sound_effect
			m.opSoundEffect(ops)
			return nil
		case 0x16: // read_char
			return store(m.opReadChar(ops))
		case 0x17: // scan_table
			v, found, err := m.opScanTable(ops)
			if err != nil {
				return err
			}
			if err := m.putVariable(resultVar, v); err != nil {
				return err
			}
			return m.takeBranch(found, branchOnTrue, branchOffset)
		case 0x18: // not
			return store(^ops[0], nil)
		case 0x19: // call_vn
			return m.opCallProcedure(ops)
		case 0x1a: // call_vn2
			return m.opCallProcedure(ops)
		case 0x1b: // tokenise
			return m.opTokenise(ops)
		case 0x1c: // encode_text
			return m.opEncodeText(ops)
		case 0x1d: // copy_table
			return m.opCopyTable(ops)
		case 0x1e: // print_table
			return m.opPrintTable(ops)
		case 0x1f: // check_arg_count
			return branch(m.opCheckArgCount(ops), nil)
		}

	case formEXT:
		switch num {
		case 0x00: // save
			return m.opSaveExt(resultVar)
		case 0x01: // restore
			return m.opRestoreExt(resultVar)
		case 0x02: // log_shift
			return store(m.opLogShift(ops), nil)
		case 0x03: // art_shift
			return store(m.opArtShift(ops), nil)
		case 0x04: // set_font
			return store(m.opSetFont(ops), nil)
		case 0x09: // save_undo
			return m.execSaveUndo(resultVar)
		case 0x0a: // restore_undo
			return m.execRestoreUndo(resultVar)
		}
	}

	return fault(UnsupportedOpcode, "unimplemented opcode: form %d num %#x", form, num)
}
