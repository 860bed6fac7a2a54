package chunks

import (
	"github.com/libreshockwave/shockwave/internal/codec"
	coreerrors "github.com/libreshockwave/shockwave/internal/errors"
)

// ScriptType classifies a decoded Script chunk.
type ScriptType uint8

const (
	ScriptTypeBehavior ScriptType = iota
	ScriptTypeMovie
	ScriptTypeParent
	ScriptTypeScore
)

// Instruction is one decoded bytecode instruction. Offset is the byte
// position used by branch targets; Opcode is the masked base opcode (low 6
// bits); Argument is sign-extended per the 2-bit width selector.
type Instruction struct {
	Offset   uint32
	Opcode   uint8
	Argument int32
}

// Handler is a named routine: bytecode + argument/local name-id tables.
type Handler struct {
	NameID       uint16
	ArgNameIDs   []uint16
	LocalNameIDs []uint16
	Bytecode     []Instruction
}

// Script is the decoded Lscr chunk: the handler table plus the script's own
// literal/property/global name-id lists.
type Script struct {
	Type          ScriptType
	PropNameIDs   []uint16
	GlobalNameIDs []uint16
	Literals      []Literal
	Handlers      []Handler
}

// LiteralKind tags a Script literal pool entry.
type LiteralKind uint8

const (
	LiteralString LiteralKind = iota
	LiteralInt
	LiteralFloat
)

// Literal is one entry of a Script's literal pool.
type Literal struct {
	Kind LiteralKind
	Str  string
	Int  int32
	Flt  float64
}

// ScriptNames (Lnam) is the flat interned-name table shared by every Script
// in a ScriptContext. Always big-endian.
type ScriptNames struct {
	Names []string
}

// Name returns the name at id, or the synthetic "#<id>" placeholder if id is
// out of range — name-table lookups never panic.
func (n *ScriptNames) Name(id uint16) string {
	if n == nil || int(id) >= len(n.Names) {
		return syntheticName(id)
	}
	return n.Names[id]
}

func syntheticName(id uint16) string {
	return "#" + itoa(int(id))
}

func itoa(v int) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [12]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// DecodeScriptNames parses an Lnam chunk: a count followed by
// length-prefixed byte strings.
func DecodeScriptNames(body []byte) (*ScriptNames, error) {
	r := codec.NewReader(body, codec.BigEndian)
	// Header layout mirrors Lscr's: skip to the name count the way the
	// source's Lnam header does (two reserved words then the count).
	if _, err := r.U32(); err != nil {
		return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeScriptNames: header0", err)
	}
	if _, err := r.U32(); err != nil {
		return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeScriptNames: header1", err)
	}
	count, err := r.U16()
	if err != nil {
		return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeScriptNames: count", err)
	}
	names := make([]string, 0, count)
	for i := 0; i < int(count); i++ {
		n, err := r.U8()
		if err != nil {
			return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeScriptNames: entry length", err)
		}
		b, err := r.Bytes(int(n))
		if err != nil {
			return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeScriptNames: entry bytes", err)
		}
		names = append(names, string(b))
	}
	return &ScriptNames{Names: names}, nil
}

// ScriptContextEntry pairs a ScriptContext slot with its backing Script
// chunk id (or marks the slot invalid).
type ScriptContextEntry struct {
	ScriptChunkID uint32
	Valid         bool
}

// ScriptContext (Lctx/LctX) maps script-context slots to Script chunks.
type ScriptContext struct {
	Entries []ScriptContextEntry
}

// DecodeScriptContext parses an Lctx/LctX chunk: a count followed by
// 32-bit chunk ids, where an id of 0 or -1 marks an invalid slot.
func DecodeScriptContext(body []byte) (*ScriptContext, error) {
	r := codec.NewReader(body, codec.BigEndian)
	if _, err := r.U32(); err != nil { // unknown1
		return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeScriptContext: header", err)
	}
	if _, err := r.U32(); err != nil { // unknown2
		return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeScriptContext: header", err)
	}
	count, err := r.I32()
	if err != nil {
		return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeScriptContext: count", err)
	}
	entries := make([]ScriptContextEntry, 0, count)
	for i := int32(0); i < count; i++ {
		id, err := r.I32()
		if err != nil {
			break
		}
		valid := id > 0
		cid := uint32(0)
		if valid {
			cid = uint32(id - 1) // entries are 1-based chunk references
		}
		entries = append(entries, ScriptContextEntry{ScriptChunkID: cid, Valid: valid})
	}
	return &ScriptContext{Entries: entries}, nil
}

// opcodeArgWidth decodes the top two bits of a raw opcode byte into an
// argument byte-width: 0=none, 1=unsigned 1 byte, 2=signed 2 bytes
// big-endian, 3=signed 4 bytes big-endian.
func opcodeArgWidth(raw uint8) int {
	switch raw >> 6 {
	case 0:
		return 0
	case 1:
		return 1
	case 2:
		return 2
	default:
		return 4
	}
}

// DecodeScript parses an Lscr chunk into its handler table. Always
// big-endian regardless of container order.
func DecodeScript(body []byte) (*Script, error) {
	r := codec.NewReader(body, codec.BigEndian)

	if _, err := r.U32(); err != nil { // total length
		return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeScript: header", err)
	}
	if _, err := r.U32(); err != nil { // header length
		return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeScript: header", err)
	}
	scriptTypeRaw, err := r.I16()
	if err != nil {
		return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeScript: type", err)
	}

	propCount, err := r.U16()
	if err != nil {
		return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeScript: propCount", err)
	}
	propIDs, err := readU16List(r, int(propCount))
	if err != nil {
		return nil, err
	}

	globalCount, err := r.U16()
	if err != nil {
		return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeScript: globalCount", err)
	}
	globalIDs, err := readU16List(r, int(globalCount))
	if err != nil {
		return nil, err
	}

	literalCount, err := r.U16()
	if err != nil {
		return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeScript: literalCount", err)
	}
	literals := make([]Literal, 0, literalCount)
	for i := 0; i < int(literalCount); i++ {
		kindRaw, err := r.U16()
		if err != nil {
			return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeScript: literal kind", err)
		}
		switch kindRaw {
		case 1: // int
			v, err := r.I32()
			if err != nil {
				return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeScript: literal int", err)
			}
			literals = append(literals, Literal{Kind: LiteralInt, Int: v})
		case 2: // float
			v, err := r.F64()
			if err != nil {
				return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeScript: literal float", err)
			}
			literals = append(literals, Literal{Kind: LiteralFloat, Flt: v})
		default: // string
			n, err := r.U32()
			if err != nil {
				return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeScript: literal string length", err)
			}
			b, err := r.Bytes(int(n))
			if err != nil {
				return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeScript: literal string bytes", err)
			}
			literals = append(literals, Literal{Kind: LiteralString, Str: string(b)})
		}
	}

	handlerCount, err := r.U16()
	if err != nil {
		return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeScript: handlerCount", err)
	}
	handlers := make([]Handler, 0, handlerCount)
	for i := 0; i < int(handlerCount); i++ {
		h, err := decodeHandler(r)
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, h)
	}

	return &Script{
		Type:          ScriptType(scriptTypeRaw),
		PropNameIDs:   propIDs,
		GlobalNameIDs: globalIDs,
		Literals:      literals,
		Handlers:      handlers,
	}, nil
}

func readU16List(r *codec.Reader, n int) ([]uint16, error) {
	out := make([]uint16, 0, n)
	for i := 0; i < n; i++ {
		v, err := r.U16()
		if err != nil {
			return nil, coreerrors.NewDecodeError("Truncated", "chunks.readU16List", err)
		}
		out = append(out, v)
	}
	return out, nil
}

func decodeHandler(r *codec.Reader) (Handler, error) {
	nameID, err := r.U16()
	if err != nil {
		return Handler{}, coreerrors.NewDecodeError("Truncated", "chunks.decodeHandler: nameID", err)
	}
	argCount, err := r.U16()
	if err != nil {
		return Handler{}, coreerrors.NewDecodeError("Truncated", "chunks.decodeHandler: argCount", err)
	}
	argIDs, err := readU16List(r, int(argCount))
	if err != nil {
		return Handler{}, err
	}
	localCount, err := r.U16()
	if err != nil {
		return Handler{}, coreerrors.NewDecodeError("Truncated", "chunks.decodeHandler: localCount", err)
	}
	localIDs, err := readU16List(r, int(localCount))
	if err != nil {
		return Handler{}, err
	}
	codeLen, err := r.U32()
	if err != nil {
		return Handler{}, coreerrors.NewDecodeError("Truncated", "chunks.decodeHandler: codeLen", err)
	}
	code, err := r.Bytes(int(codeLen))
	if err != nil {
		return Handler{}, coreerrors.NewDecodeError("Truncated", "chunks.decodeHandler: bytecode", err)
	}

	instrs, err := decodeBytecode(code)
	if err != nil {
		return Handler{}, err
	}

	return Handler{NameID: nameID, ArgNameIDs: argIDs, LocalNameIDs: localIDs, Bytecode: instrs}, nil
}

// decodeBytecode splits a raw instruction stream into Instructions, each
// tagged with its byte offset so branch targets can resolve against it.
func decodeBytecode(code []byte) ([]Instruction, error) {
	r := codec.NewReader(code, codec.BigEndian)
	var out []Instruction
	for r.Remaining() > 0 {
		offset := uint32(r.Pos())
		raw, err := r.U8()
		if err != nil {
			return nil, coreerrors.NewDecodeError("Truncated", "chunks.decodeBytecode: opcode", err)
		}
		opcode := raw & 0x3f
		width := opcodeArgWidth(raw)
		var arg int32
		switch width {
		case 0:
			arg = 0
		case 1:
			v, err := r.U8()
			if err != nil {
				return nil, coreerrors.NewDecodeError("Truncated", "chunks.decodeBytecode: arg1", err)
			}
			arg = int32(v)
		case 2:
			v, err := r.I16()
			if err != nil {
				return nil, coreerrors.NewDecodeError("Truncated", "chunks.decodeBytecode: arg2", err)
			}
			arg = int32(v)
		case 4:
			v, err := r.I32()
			if err != nil {
				return nil, coreerrors.NewDecodeError("Truncated", "chunks.decodeBytecode: arg4", err)
			}
			arg = v
		}
		out = append(out, Instruction{Offset: offset, Opcode: opcode, Argument: arg})
	}
	return out, nil
}
