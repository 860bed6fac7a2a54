package lingo

// Opcode is the low 6 bits of a raw bytecode byte (chunks.Instruction.Opcode
// is already masked to this form). The top two bits of the original byte
// selected the argument width and are recorded separately by the Script
// decoder (chunks.opcodeArgWidth); the VM only ever sees the base opcode and
// its decoded, sign-extended Argument.
type Opcode uint8

const (
	OpPushZero Opcode = iota
	OpPushInt8
	OpPushInt16
	OpPushInt32
	OpPushFloat32
	OpConst
	OpSymbol
	OpList
	OpPropList
	OpArgList
	OpArgListNoRet
	OpPop
	OpSwap
	OpPeek

	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpNeg
	OpNot
	OpAnd
	OpOr
	OpLt
	OpLe
	OpGt
	OpGe
	OpEq
	OpNe

	OpJoinStr
	OpJoinPadStr
	OpContainsStr
	OpGetChunk

	OpGetLocal
	OpSetLocal
	OpGetParam
	OpSetParam
	OpGetGlobal
	OpSetGlobal

	OpJmp
	OpJmpIfZero
	OpEndRepeat
	OpRet
	OpRetFactory

	OpGetProp
	OpSetProp
	OpGetObjProp
	OpSetObjProp
	OpGetChainedProp
	OpGetMovieProp
	OpSetMovieProp

	OpExtCall
	OpLocalCall
	OpObjCall
	OpTellCall

	OpStartTell
	OpEndTell

	OpNewObj
)
