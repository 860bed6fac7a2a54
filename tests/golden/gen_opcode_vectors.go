//go:build ignore

// Code generated for golden test vectors (Lingo bytecode instruction
// encoding). Run: go run tests/golden/gen_opcode_vectors.go
// Deterministic (no randomness) so CI can validate byte-for-byte.
//
// Raw instruction byte: top 2 bits select argument width (0=none,
// 1=unsigned 1 byte, 2=signed 2 byte BE, 3=signed 4 byte BE), low 6 bits are
// the opcode, matching internal/chunks.opcodeArgWidth and the Opcode
// constants in internal/lingo/opcode.go (declaration order 0-57).
// Produces the following files in tests/golden/:
//   - opcode_push_zero.bin        (OpPushZero, no argument)
//   - opcode_push_int8.bin        (OpPushInt8, 1-byte argument = 7)
//   - opcode_push_int16.bin       (OpPushInt16, 2-byte argument = 1000)
//   - opcode_push_int32.bin       (OpPushInt32, 4-byte argument = 70000)
//   - opcode_add_sequence.bin     (push 2, push 3, add: a tiny expression)
//   - opcode_jmp_forward.bin      (OpJmp with a 2-byte forward offset)
//   - opcode_ext_call.bin         (push an arg list, then OpExtCall by name id)
package main

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
)

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Opcode values, mirroring internal/lingo/opcode.go's declaration order.
const (
	opPushZero = 0
	opPushInt8 = 1
	opPushInt16 = 2
	opPushInt32 = 3
	opArgList  = 9
	opAdd      = 14
	opJmp      = 39
	opExtCall  = 51
)

func instrNoArg(opcode uint8) []byte {
	return []byte{opcode} // width selector 0
}

func instrArg1(opcode uint8, v uint8) []byte {
	return []byte{(1 << 6) | opcode, v}
}

func instrArg2(opcode uint8, v int16) []byte {
	b := make([]byte, 3)
	b[0] = (2 << 6) | opcode
	binary.BigEndian.PutUint16(b[1:], uint16(v))
	return b
}

func instrArg4(opcode uint8, v int32) []byte {
	b := make([]byte, 5)
	b[0] = (3 << 6) | opcode
	binary.BigEndian.PutUint32(b[1:], uint32(v))
	return b
}

func write(path string, data []byte) {
	must(os.WriteFile(path, data, 0o644))
	fmt.Printf("Wrote %-30s size=%d\n", filepath.Base(path), len(data))
}

func main() {
	outDir := filepath.Join("tests", "golden")
	must(os.MkdirAll(outDir, 0o755))

	write(filepath.Join(outDir, "opcode_push_zero.bin"), instrNoArg(opPushZero))
	write(filepath.Join(outDir, "opcode_push_int8.bin"), instrArg1(opPushInt8, 7))
	write(filepath.Join(outDir, "opcode_push_int16.bin"), instrArg2(opPushInt16, 1000))
	write(filepath.Join(outDir, "opcode_push_int32.bin"), instrArg4(opPushInt32, 70000))

	// push 2, push 3, add -- evaluates to 5 at runtime.
	var addSeq []byte
	addSeq = append(addSeq, instrArg1(opPushInt8, 2)...)
	addSeq = append(addSeq, instrArg1(opPushInt8, 3)...)
	addSeq = append(addSeq, instrNoArg(opAdd)...)
	write(filepath.Join(outDir, "opcode_add_sequence.bin"), addSeq)

	// Unconditional jump to bytecode offset 4 (the argument is an absolute
	// offset within the handler, not a relative distance).
	write(filepath.Join(outDir, "opcode_jmp_forward.bin"), instrArg2(opJmp, 4))

	// argList count 0, then extCall by name id 12 (2-byte name-id argument).
	var extCall []byte
	extCall = append(extCall, instrArg1(opArgList, 0)...)
	extCall = append(extCall, instrArg2(opExtCall, 12)...)
	write(filepath.Join(outDir, "opcode_ext_call.bin"), extCall)

	fmt.Println("Opcode golden vector files generated in", outDir)
}
