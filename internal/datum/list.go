package datum

// GetAt implements `getAt(list, i)`: 1-indexed; out-of-range returns Void,
// never an error.
func GetAt(list Datum, i int32) Datum {
	idx := int(i) - 1
	if idx < 0 || idx >= len(list.List) {
		return Void()
	}
	return list.List[idx]
}

// SetAt implements `setAt(list, i, v)`: 1-indexed; indices beyond
// count+1 pad with Void up to i-1 then store v.
func SetAt(list Datum, i int32, v Datum) Datum {
	idx := int(i) - 1
	if idx < 0 {
		return list
	}
	for len(list.List) <= idx {
		list.List = append(list.List, Void())
	}
	list.List[idx] = v
	return list
}

// AddAt inserts v at 1-based position i, shifting subsequent elements.
func AddAt(list Datum, i int32, v Datum) Datum {
	idx := int(i) - 1
	if idx < 0 {
		idx = 0
	}
	if idx > len(list.List) {
		idx = len(list.List)
	}
	list.List = append(list.List, Void())
	copy(list.List[idx+1:], list.List[idx:])
	list.List[idx] = v
	return list
}

// Append adds v to the end of list.
func Append(list Datum, v Datum) Datum {
	list.List = append(list.List, v)
	return list
}

// DeleteAt removes the 1-based index i, if present.
func DeleteAt(list Datum, i int32) Datum {
	idx := int(i) - 1
	if idx < 0 || idx >= len(list.List) {
		return list
	}
	list.List = append(list.List[:idx], list.List[idx+1:]...)
	return list
}

// DeleteOne removes the first structural match of v.
func DeleteOne(list Datum, v Datum) Datum {
	for i, item := range list.List {
		if Equal(item, v) {
			list.List = append(list.List[:i], list.List[i+1:]...)
			return list
		}
	}
	return list
}

// GetPos returns the 1-based position of the first structural match of v,
// or 0 if absent.
func GetPos(list Datum, v Datum) int32 {
	for i, item := range list.List {
		if Equal(item, v) {
			return int32(i + 1)
		}
	}
	return 0
}

// Count returns the number of elements.
func Count(list Datum) int32 { return int32(len(list.List)) }

// Sort sorts list in place by Compare order (numeric/string natural order);
// incomparable elements retain their relative position (stable).
func Sort(list Datum) Datum {
	items := append([]Datum(nil), list.List...)
	// simple stable insertion sort; movie lists are small.
	for i := 1; i < len(items); i++ {
		j := i
		for j > 0 {
			cmp, ok := Compare(items[j-1], items[j])
			if !ok || cmp <= 0 {
				break
			}
			items[j-1], items[j] = items[j], items[j-1]
			j--
		}
	}
	list.List = items
	return list
}

// --- PropList ---

func findEntry(pl *PropListValue, key Datum) int {
	if pl == nil {
		return -1
	}
	for i, e := range pl.Entries {
		if Equal(e.Key, key) {
			return i
		}
	}
	return -1
}

// GetAProp looks up key (case-insensitive when key is symbol/string);
// returns Void if absent.
func GetAProp(pl Datum, key Datum) Datum {
	i := findEntry(pl.PropList, key)
	if i < 0 {
		return Void()
	}
	return pl.PropList.Entries[i].Value
}

// SetAProp sets key to v, adding a new entry if key is absent (insertion
// order preserved).
func SetAProp(pl Datum, key, v Datum) Datum {
	if pl.PropList == nil {
		pl.PropList = &PropListValue{}
	}
	if i := findEntry(pl.PropList, key); i >= 0 {
		pl.PropList.Entries[i].Value = v
		return pl
	}
	pl.PropList.Entries = append(pl.PropList.Entries, PropEntry{Key: key, Value: v})
	return pl
}

// AddProp is an alias for SetAProp used by the `addProp` builtin, which
// Director treats identically to setaProp for unique keys.
func AddProp(pl Datum, key, v Datum) Datum { return SetAProp(pl, key, v) }

// DeleteProp removes key if present.
func DeleteProp(pl Datum, key Datum) Datum {
	if pl.PropList == nil {
		return pl
	}
	if i := findEntry(pl.PropList, key); i >= 0 {
		pl.PropList.Entries = append(pl.PropList.Entries[:i], pl.PropList.Entries[i+1:]...)
	}
	return pl
}

// FindPos returns the 1-based position of key, or 0 if absent.
func FindPos(pl Datum, key Datum) int32 {
	i := findEntry(pl.PropList, key)
	if i < 0 {
		return 0
	}
	return int32(i + 1)
}

// GetPropAt returns the 1-based i-th entry's value.
func GetPropAt(pl Datum, i int32) Datum {
	if pl.PropList == nil || i < 1 || int(i) > len(pl.PropList.Entries) {
		return Void()
	}
	return pl.PropList.Entries[i-1].Value
}

// PropCount returns the number of entries.
func PropCount(pl Datum) int32 {
	if pl.PropList == nil {
		return 0
	}
	return int32(len(pl.PropList.Entries))
}
