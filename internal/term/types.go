package term

import (
	qerrors "qfbv/internal/errors"
)

// TypeID indexes the type subtable. 0 is reserved; 1 is the Boolean type
// (spec.md §3, "Type").
type TypeID uint32

const (
	reservedTypeID TypeID = 0
	// BoolTypeID is the predefined Boolean type.
	BoolTypeID TypeID = 1
)

// MaxBitWidth is the bit-width ceiling of spec.md §3 ("BitVec(n) for
// 1 <= n <= 2^20").
const MaxBitWidth = 1 << 20

type typeEntry struct {
	width uint32 // 0 for Bool, else the BitVec width
	mark  bool
}

// typeTable is the hash-consed store of Boolean/BitVec(n) types. It is
// embedded in Table rather than exposed as a separate package: spec.md
// describes it as a subtable of the term table with its own GC pass tied
// to the term sweep (spec.md §4.1 Garbage collection), not an
// independently constructed component like pprod.
type typeTable struct {
	entries  []typeEntry // entries[0] reserved, entries[1] = Bool
	byWidth  map[uint32]TypeID
}

func newTypeTable() *typeTable {
	t := &typeTable{
		entries: make([]typeEntry, 2),
		byWidth: make(map[uint32]TypeID),
	}
	t.entries[BoolTypeID] = typeEntry{width: 0}
	return t
}

// bitVec returns (hash-consing) the type BitVec(width).
func (t *typeTable) bitVec(width uint32) (TypeID, error) {
	if width == 0 || width > MaxBitWidth {
		return 0, qerrors.Newf(qerrors.ErrBadBitwidth, "bit-vector width %d out of range [1, %d]", width, MaxBitWidth)
	}
	if id, ok := t.byWidth[width]; ok {
		return id, nil
	}
	id := TypeID(len(t.entries))
	t.entries = append(t.entries, typeEntry{width: width})
	t.byWidth[width] = id
	return id, nil
}

func (t *typeTable) isBool(id TypeID) bool {
	return id == BoolTypeID
}

func (t *typeTable) width(id TypeID) uint32 {
	return t.entries[id].width
}

func (t *typeTable) mark(id TypeID) {
	if id == reservedTypeID {
		return
	}
	t.entries[id].mark = true
}

// sweep removes unmarked, non-Bool types and returns the old->new ID
// remapping (Bool's ID never changes).
func (t *typeTable) sweep() map[TypeID]TypeID {
	remap := map[TypeID]TypeID{BoolTypeID: BoolTypeID}
	newEntries := make([]typeEntry, 2, len(t.entries))
	newEntries[BoolTypeID] = t.entries[BoolTypeID]
	newEntries[BoolTypeID].mark = false

	for i := TypeID(2); int(i) < len(t.entries); i++ {
		e := t.entries[i]
		if !e.mark {
			continue
		}
		e.mark = false
		newEntries = append(newEntries, e)
		remap[i] = TypeID(len(newEntries) - 1)
	}
	t.entries = newEntries
	t.byWidth = make(map[uint32]TypeID, len(newEntries))
	for id := TypeID(2); int(id) < len(newEntries); id++ {
		t.byWidth[newEntries[id].width] = id
	}
	return remap
}
