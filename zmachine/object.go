package zmachine

// ObjectTable implements the object/property/attribute database: a
// default-properties table, followed by fixed-size object entries, each
// pointing at a variable-length property list. Entry layout and field
// widths are version-dependent: V1-3 objects are 9 bytes with 32 attribute
// bits and byte-sized parent/sibling/child handles; V4+ objects are 14
// bytes with 48 attribute bits and word-sized handles.
type ObjectTable struct {
	mem *Memory

	base        uint32 // header word at 0x0a
	version     uint8
	attrSize    uint32 // 4 or 6
	handleSize  uint32 // 1 or 2
	entrySize   uint32 // attrSize + 3*handleSize + 2
	defaultsLen uint32 // 31 or 63 entries
	entriesBase uint32 // base + defaultsLen*2
}

func newObjectTable(mem *Memory, version uint8, base uint32) *ObjectTable {
	ot := &ObjectTable{mem: mem, version: version, base: base}
	if version <= 3 {
		ot.attrSize = 4
		ot.handleSize = 1
		ot.defaultsLen = 31
	} else {
		ot.attrSize = 6
		ot.handleSize = 2
		ot.defaultsLen = 63
	}
	ot.entrySize = ot.attrSize + 3*ot.handleSize + 2
	ot.entriesBase = base + ot.defaultsLen*2
	return ot
}

func (ot *ObjectTable) entryAddr(obj uint16) uint32 {
	return ot.entriesBase + uint32(obj-1)*ot.entrySize
}

func (ot *ObjectTable) readHandle(addr uint32) (uint16, error) {
	if ot.handleSize == 1 {
		b, err := ot.mem.FetchByte(addr)
		return uint16(b), err
	}
	return ot.mem.FetchWord(addr)
}

func (ot *ObjectTable) writeHandle(addr uint32, v uint16) error {
	if ot.handleSize == 1 {
		return ot.mem.PutByte(addr, uint8(v))
	}
	return ot.mem.PutWord(addr, v)
}

// Parent returns obj's parent object number, or 0 if it has none.
func (ot *ObjectTable) Parent(obj uint16) (uint16, error) {
	return ot.readHandle(ot.entryAddr(obj) + ot.attrSize)
}

func (ot *ObjectTable) setParent(obj, v uint16) error {
	return ot.writeHandle(ot.entryAddr(obj)+ot.attrSize, v)
}

// Sibling returns obj's next sibling, or 0 if it has none.
func (ot *ObjectTable) Sibling(obj uint16) (uint16, error) {
	return ot.readHandle(ot.entryAddr(obj) + ot.attrSize + ot.handleSize)
}

func (ot *ObjectTable) setSibling(obj, v uint16) error {
	return ot.writeHandle(ot.entryAddr(obj)+ot.attrSize+ot.handleSize, v)
}

// Child returns obj's first child, or 0 if it has none.
func (ot *ObjectTable) Child(obj uint16) (uint16, error) {
	return ot.readHandle(ot.entryAddr(obj) + ot.attrSize + 2*ot.handleSize)
}

func (ot *ObjectTable) setChild(obj, v uint16) error {
	return ot.writeHandle(ot.entryAddr(obj)+ot.attrSize+2*ot.handleSize, v)
}

func (ot *ObjectTable) propertyListAddr(obj uint16) (uint32, error) {
	w, err := ot.mem.FetchWord(ot.entryAddr(obj) + ot.attrSize + 3*ot.handleSize)
	return uint32(w), err
}

// ObjectName returns the byte address of obj's short-name Z-string (the
// property-list header, one length byte followed by the encoded name).
func (ot *ObjectTable) ObjectName(obj uint16) (uint32, error) {
	addr, err := ot.propertyListAddr(obj)
	if err != nil {
		return 0, err
	}
	return addr + 1, nil
}

// HasAttribute reports whether attribute bit attr is set on obj.
func (ot *ObjectTable) HasAttribute(obj uint16, attr uint8) (bool, error) {
	whichByte := uint32(attr) / 8
	whichBit := attr % 8
	b, err := ot.mem.FetchByte(ot.entryAddr(obj) + whichByte)
	if err != nil {
		return false, err
	}
	mask := byte(0x80) >> whichBit
	return b&mask != 0, nil
}

// SetAttribute sets attribute bit attr on obj.
func (ot *ObjectTable) SetAttribute(obj uint16, attr uint8) error {
	whichByte := uint32(attr) / 8
	whichBit := attr % 8
	addr := ot.entryAddr(obj) + whichByte
	b, err := ot.mem.FetchByte(addr)
	if err != nil {
		return err
	}
	return ot.mem.PutByte(addr, b|(0x80>>whichBit))
}

// ClearAttribute clears attribute bit attr on obj.
func (ot *ObjectTable) ClearAttribute(obj uint16, attr uint8) error {
	whichByte := uint32(attr) / 8
	whichBit := attr % 8
	addr := ot.entryAddr(obj) + whichByte
	b, err := ot.mem.FetchByte(addr)
	if err != nil {
		return err
	}
	return ot.mem.PutByte(addr, b&^(0x80>>whichBit))
}

// RemoveObject unlinks obj from its parent's child list, leaving obj's own
// children untouched. A no-op if obj has no parent.
func (ot *ObjectTable) RemoveObject(obj uint16) error {
	parent, err := ot.Parent(obj)
	if err != nil {
		return err
	}
	if parent == 0 {
		return nil
	}

	firstChild, err := ot.Child(parent)
	if err != nil {
		return err
	}
	if firstChild == obj {
		sib, err := ot.Sibling(obj)
		if err != nil {
			return err
		}
		if err := ot.setChild(parent, sib); err != nil {
			return err
		}
	} else {
		cur := firstChild
		for cur != 0 {
			sib, err := ot.Sibling(cur)
			if err != nil {
				return err
			}
			if sib == obj {
				objSib, err := ot.Sibling(obj)
				if err != nil {
					return err
				}
				if err := ot.setSibling(cur, objSib); err != nil {
					return err
				}
				break
			}
			cur = sib
		}
		if cur == 0 {
			return fault(CorruptObjectTable, "object %d not found in parent %d's child chain", obj, parent)
		}
	}

	if err := ot.setParent(obj, 0); err != nil {
		return err
	}
	return ot.setSibling(obj, 0)
}

// InsertObject removes obj from wherever it currently lives, then makes it
// the first child of dest.
func (ot *ObjectTable) InsertObject(obj, dest uint16) error {
	parent, err := ot.Parent(obj)
	if err != nil {
		return err
	}
	if parent != 0 {
		if err := ot.RemoveObject(obj); err != nil {
			return err
		}
	}

	oldFirst, err := ot.Child(dest)
	if err != nil {
		return err
	}
	if err := ot.setSibling(obj, oldFirst); err != nil {
		return err
	}
	if err := ot.setChild(dest, obj); err != nil {
		return err
	}
	return ot.setParent(obj, dest)
}

// propSize describes one property list entry: its number, the byte address
// of its size-byte header, the address of its data, and its data length.
type propSize struct {
	num      uint8
	hdrAddr  uint32
	dataAddr uint32
	length   uint32
}

// readPropSize reads the size-byte(s) header at addr, returning the decoded
// property and the address immediately after its data (i.e. the next
// entry's header address, or the terminator if num == 0).
func (ot *ObjectTable) readPropSize(addr uint32) (propSize, uint32, error) {
	b, err := ot.mem.FetchByte(addr)
	if err != nil {
		return propSize{}, 0, err
	}
	if b == 0 {
		return propSize{num: 0, hdrAddr: addr}, addr + 1, nil
	}

	if ot.version <= 3 {
		num := b & 0x1f
		length := uint32(b>>5) + 1
		return propSize{num: num, hdrAddr: addr, dataAddr: addr + 1, length: length}, addr + 1 + length, nil
	}

	num := b & 0x3f
	if b&0x80 == 0 {
		length := uint32(1)
		if b&0x40 != 0 {
			length = 2
		}
		return propSize{num: num, hdrAddr: addr, dataAddr: addr + 1, length: length}, addr + 1 + length, nil
	}
	b2, err := ot.mem.FetchByte(addr + 1)
	if err != nil {
		return propSize{}, 0, err
	}
	length := uint32(b2 & 0x3f)
	if length == 0 {
		length = 64
	}
	return propSize{num: num, hdrAddr: addr, dataAddr: addr + 2, length: length}, addr + 2 + length, nil
}

// firstPropAddr returns the address of the first property's size-byte
// header, skipping the short-name text header.
func (ot *ObjectTable) firstPropAddr(obj uint16) (uint32, error) {
	listAddr, err := ot.propertyListAddr(obj)
	if err != nil {
		return 0, err
	}
	nameLenWords, err := ot.mem.FetchByte(listAddr)
	if err != nil {
		return 0, err
	}
	return listAddr + 1 + uint32(nameLenWords)*2, nil
}

func (ot *ObjectTable) findProp(obj uint16, prop uint8) (propSize, bool, error) {
	addr, err := ot.firstPropAddr(obj)
	if err != nil {
		return propSize{}, false, err
	}
	for {
		ps, next, err := ot.readPropSize(addr)
		if err != nil {
			return propSize{}, false, err
		}
		if ps.num == 0 {
			return propSize{}, false, nil
		}
		if ps.num == prop {
			return ps, true, nil
		}
		if ps.num < prop {
			// Properties are stored in descending order; once we pass the
			// target, it isn't present.
			return propSize{}, false, nil
		}
		addr = next
	}
}

// GetPropertyAddress returns the byte address of prop's data on obj, or 0
// if obj has no such property.
func (ot *ObjectTable) GetPropertyAddress(obj uint16, prop uint8) (uint32, error) {
	ps, ok, err := ot.findProp(obj, prop)
	if err != nil || !ok {
		return 0, err
	}
	return ps.dataAddr, nil
}

// GetPropertyLength returns the length, in bytes, of the property whose
// data starts at dataAddr (0 if dataAddr is 0, per the GET_PROP_LEN spec).
func (ot *ObjectTable) GetPropertyLength(dataAddr uint32) (uint32, error) {
	if dataAddr == 0 {
		return 0, nil
	}
	ps, _, err := ot.readPropSize(ot.propHeaderFromData(dataAddr))
	if err != nil {
		return 0, err
	}
	return ps.length, nil
}

// propHeaderFromData recovers a property's size-byte header address given
// its data address: one byte back in V1-3, or one or two bytes back in
// V4+ depending on whether the top bit of the preceding byte is set.
func (ot *ObjectTable) propHeaderFromData(dataAddr uint32) uint32 {
	if ot.version <= 3 {
		return dataAddr - 1
	}
	b, err := ot.mem.FetchByte(dataAddr - 1)
	if err == nil && b&0x80 != 0 {
		return dataAddr - 2
	}
	return dataAddr - 1
}

// GetNextProperty returns the number of the property following prop on
// obj, or the first property's number if prop is 0, or 0 if prop was the
// last property.
func (ot *ObjectTable) GetNextProperty(obj uint16, prop uint8) (uint8, error) {
	addr, err := ot.firstPropAddr(obj)
	if err != nil {
		return 0, err
	}
	if prop == 0 {
		ps, _, err := ot.readPropSize(addr)
		return ps.num, err
	}
	for {
		ps, next, err := ot.readPropSize(addr)
		if err != nil {
			return 0, err
		}
		if ps.num == 0 {
			return 0, fault(CorruptObjectTable, "property %d not found on object %d", prop, obj)
		}
		if ps.num == prop {
			nextPs, _, err := ot.readPropSize(next)
			return nextPs.num, err
		}
		addr = next
	}
}

// defaultProperty returns the fallback value for prop from the defaults
// table, used by GetProperty when obj doesn't define it.
func (ot *ObjectTable) defaultProperty(prop uint8) (uint16, error) {
	return ot.mem.FetchWord(ot.base + uint32(prop-1)*2)
}

// GetProperty returns prop's value on obj, word-sized: if obj defines it as
// a one-byte property, the byte is zero-extended; if longer than a word,
// the first word is used (matching how GET_PROP behaves on oversized
// properties per the standard's out-of-spec-but-defined-by-convention
// reading). If obj doesn't define prop, the value comes from the defaults
// table.
func (ot *ObjectTable) GetProperty(obj uint16, prop uint8) (uint16, error) {
	ps, ok, err := ot.findProp(obj, prop)
	if err != nil {
		return 0, err
	}
	if !ok {
		return ot.defaultProperty(prop)
	}
	if ps.length == 1 {
		b, err := ot.mem.FetchByte(ps.dataAddr)
		return uint16(b), err
	}
	return ot.mem.FetchWord(ps.dataAddr)
}

// PutProperty stores value into prop on obj. Silently does nothing if obj
// doesn't define prop, matching the original's tolerant behavior.
func (ot *ObjectTable) PutProperty(obj uint16, prop uint8, value uint16) error {
	ps, ok, err := ot.findProp(obj, prop)
	if err != nil || !ok {
		return err
	}
	if ps.length == 1 {
		return ot.mem.PutByte(ps.dataAddr, uint8(value))
	}
	return ot.mem.PutWord(ps.dataAddr, value)
}
