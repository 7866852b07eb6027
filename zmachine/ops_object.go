package zmachine

// Object/attribute/property opcodes, all thin wrappers over ObjectTable.

func (m *Machine) opJin(ops []uint16) (bool, error) {
	parent, err := m.objects.Parent(ops[0])
	if err != nil {
		return false, err
	}
	return parent == ops[1], nil
}

func (m *Machine) opTest(ops []uint16) bool {
	return ops[0]&ops[1] == ops[1]
}

func (m *Machine) opTestAttr(ops []uint16) (bool, error) {
	return m.objects.HasAttribute(ops[0], uint8(ops[1]))
}

func (m *Machine) opSetAttr(ops []uint16) error {
	return m.objects.SetAttribute(ops[0], uint8(ops[1]))
}

func (m *Machine) opClearAttr(ops []uint16) error {
	return m.objects.ClearAttribute(ops[0], uint8(ops[1]))
}

func (m *Machine) opInsertObj(ops []uint16) error {
	return m.objects.InsertObject(ops[0], ops[1])
}

func (m *Machine) opRemoveObj(ops []uint16) error {
	return m.objects.RemoveObject(ops[0])
}

func (m *Machine) opGetParent(ops []uint16) (uint16, error) {
	return m.objects.Parent(ops[0])
}

func (m *Machine) opGetSibling(ops []uint16) (uint16, error) {
	return m.objects.Sibling(ops[0])
}

func (m *Machine) opGetChild(ops []uint16) (uint16, error) {
	return m.objects.Child(ops[0])
}

func (m *Machine) opGetProp(ops []uint16) (uint16, error) {
	return m.objects.GetProperty(ops[0], uint8(ops[1]))
}

func (m *Machine) opGetPropAddr(ops []uint16) (uint16, error) {
	addr, err := m.objects.GetPropertyAddress(ops[0], uint8(ops[1]))
	return uint16(addr), err
}

func (m *Machine) opGetPropLen(ops []uint16) (uint16, error) {
	length, err := m.objects.GetPropertyLength(uint32(ops[0]))
	return uint16(length), err
}

func (m *Machine) opGetNextProp(ops []uint16) (uint16, error) {
	next, err := m.objects.GetNextProperty(ops[0], uint8(ops[1]))
	return uint16(next), err
}

func (m *Machine) opPutProp(ops []uint16) error {
	return m.objects.PutProperty(ops[0], uint8(ops[1]), ops[2])
}

// opPrintObj implements PRINT_OBJ: decode and print obj's short name.
func (m *Machine) opPrintObj(obj uint16) error {
	addr, err := m.objects.ObjectName(obj)
	if err != nil {
		return err
	}
	s, _, err := m.text.Decode(addr)
	if err != nil {
		return err
	}
	return m.io.Print(s)
}
