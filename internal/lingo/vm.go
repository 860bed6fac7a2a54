// Package lingo implements the Lingo bytecode interpreter: opcode dispatch,
// the call stack, arithmetic/comparison/string semantics via the datum
// package, the builtin registry, and the tell-target stack.
package lingo

import (
	"github.com/libreshockwave/shockwave/internal/chunks"
	"github.com/libreshockwave/shockwave/internal/datum"
	coreerrors "github.com/libreshockwave/shockwave/internal/errors"
)

// DefaultStepBudget bounds a single top-level call.
const DefaultStepBudget = 1_000_000

// Builtin is a registered global/builtin handler.
type Builtin func(vm *VM, args []datum.Datum) (datum.Datum, error)

// MoviePropHost exposes movie-level properties to GetMovieProp/SetMovieProp
// without coupling the VM to the player package directly.
type MoviePropHost interface {
	GetMovieProp(name string) datum.Datum
	SetMovieProp(name string, v datum.Datum)
}

// NetHost backs the network builtins (preloadNetThing, netDone, ...)
// without coupling the VM to the resource package directly.
type NetHost interface {
	PreloadNetThing(url string) int32
	PostNetText(url, body string) int32
	NetDone(netID int32) bool
	NetTextResult(netID int32) datum.Datum
	NetError(netID int32) string
	GetStreamStatus(netID int32) datum.Datum
}

// SoundHost backs the sound-channel builtins without coupling the VM to
// the player package directly.
type SoundHost interface {
	PuppetSound(channel int, member datum.Datum)
	PlaySound(channel int, member datum.Datum)
	StopSound(channel int)
	SoundBusy(channel int) bool
	SoundLevel(channel int) int32
	SetSoundLevel(channel int, level int32)
}

// StageHost backs the playback-control builtins (go/play/stop/...) without
// coupling the VM to the player package directly.
type StageHost interface {
	Go(frame datum.Datum)
	Play(frame datum.Datum)
	Stop()
	Pause()
	SetPuppetTempo(fps int32)
	UpdateStage()
	Preload(member datum.Datum)
	CurrentFrame() int32
}

// VM is the single-threaded Lingo interpreter. It never suspends a handler;
// long computations are bounded purely by the step budget.
type VM struct {
	Globals       map[string]datum.Datum
	Builtins      map[string]Builtin
	ItemDelimiter string

	Names   *chunks.ScriptNames
	Scripts map[uint32]*chunks.Script

	Movie MoviePropHost
	Net   NetHost
	Sound SoundHost
	Stage StageHost

	StepBudget int

	arena     *instanceArena
	callStack []*Scope
	steps     int
	lastPass  bool
	resolver  ScriptNameResolver
}

// New creates a VM with default step budget and an empty instance arena.
func New() *VM {
	return &VM{
		Globals:       map[string]datum.Datum{},
		Builtins:      map[string]Builtin{},
		ItemDelimiter: ",",
		Scripts:       map[uint32]*chunks.Script{},
		StepBudget:    DefaultStepBudget,
		arena:         newInstanceArena(),
	}
}

// LastPass reports whether the most recently completed top-level Execute
// call invoked `pass`. EventDispatcher polls this after each handler
// invocation to decide whether to continue propagation.
func (vm *VM) LastPass() bool { return vm.lastPass }

// Pass marks the current top-level call as having invoked the `pass`
// builtin. Called from the builtin registry, not from step dispatch
// directly, since `pass` itself carries no special opcode.
func (vm *VM) Pass() { vm.lastPass = true }

// NewInstance allocates a ScriptInstance bound to scriptID and returns its
// arena id.
func (vm *VM) NewInstance(scriptID uint32) uint32 {
	script := vm.Scripts[scriptID]
	var propNames []string
	if script != nil {
		for _, id := range script.PropNameIDs {
			propNames = append(propNames, vm.Names.Name(id))
		}
	}
	return vm.arena.New(scriptID, propNames)
}

// Instance dereferences an instance id.
func (vm *VM) Instance(id uint32) *ScriptInstance { return vm.arena.Get(id) }

// ReleaseInstance frees an instance id for reuse.
func (vm *VM) ReleaseInstance(id uint32) { vm.arena.Release(id) }

// FindHandler looks up a handler by name within script, case-insensitively.
func (vm *VM) FindHandler(script *chunks.Script, name string) *chunks.Handler {
	if script == nil {
		return nil
	}
	for i := range script.Handlers {
		if equalFold(vm.Names.Name(script.Handlers[i].NameID), name) {
			return &script.Handlers[i]
		}
	}
	return nil
}

// Execute runs handler in script with the given args and optional receiver,
// resetting the VM's step counter and pass flag at the start of each
// top-level dispatch.
func (vm *VM) Execute(scriptID uint32, script *chunks.Script, handler *chunks.Handler, args []datum.Datum, receiver *uint32) (datum.Datum, error) {
	vm.steps = 0
	vm.lastPass = false
	return vm.call(scriptID, script, handler, args, receiver)
}

// call pushes a new Scope, runs it to completion, and pops it -- used both
// for the top-level Execute entry point and for LocalCall/ObjCall from
// within a running handler.
func (vm *VM) call(scriptID uint32, script *chunks.Script, handler *chunks.Handler, args []datum.Datum, receiver *uint32) (datum.Datum, error) {
	scope := newScope(scriptID, script, handler, args, receiver)
	vm.callStack = append(vm.callStack, scope)
	defer func() { vm.callStack = vm.callStack[:len(vm.callStack)-1] }()

	err := vm.run(scope)
	if err != nil {
		return datum.Void(), err
	}
	return scope.Return, nil
}

func (vm *VM) handlerName(scope *Scope) string {
	return vm.Names.Name(scope.Handler.NameID)
}

// run executes scope's bytecode until Ret/RetFactory/end-of-bytecode, a step
// limit, or an error.
func (vm *VM) run(scope *Scope) error {
	for scope.IP < len(scope.Handler.Bytecode) {
		vm.steps++
		if vm.steps > vm.StepBudget {
			return coreerrors.NewScriptError("StepLimit", "lingo.run", int32(scope.ScriptID), vm.handlerName(scope), scope.Handler.Bytecode[scope.IP].Offset, nil)
		}

		instr := scope.Handler.Bytecode[scope.IP]
		done, err := vm.step(scope, instr)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
	return nil
}

// step executes one instruction and advances the instruction pointer
// (branch opcodes set it explicitly). Returns done=true when Ret/RetFactory
// was executed.
func (vm *VM) step(scope *Scope, instr chunks.Instruction) (bool, error) {
	op := Opcode(instr.Opcode)
	switch op {
	case OpPushZero:
		scope.push(datum.Int(0))
	case OpPushInt8, OpPushInt16, OpPushInt32:
		scope.push(datum.Int(instr.Argument))
	case OpPushFloat32:
		scope.push(datum.Float(float64(instr.Argument)))
	case OpConst:
		lit, err := vm.literal(scope, instr.Argument)
		if err != nil {
			return false, err
		}
		scope.push(lit)
	case OpSymbol:
		scope.push(datum.Sym(vm.Names.Name(uint16(instr.Argument))))
	case OpList:
		items, err := popN(scope, int(instr.Argument))
		if err != nil {
			return false, err
		}
		scope.push(datum.NewList(items...))
	case OpPropList:
		n := int(instr.Argument)
		pl := datum.NewPropList()
		items, err := popN(scope, n*2)
		if err != nil {
			return false, err
		}
		for i := 0; i < len(items); i += 2 {
			pl = datum.SetAProp(pl, items[i], items[i+1])
		}
		scope.push(pl)
	case OpArgList:
		items, err := popN(scope, int(instr.Argument))
		if err != nil {
			return false, err
		}
		scope.push(datum.NewArgList(items...))
	case OpArgListNoRet:
		items, err := popN(scope, int(instr.Argument))
		if err != nil {
			return false, err
		}
		scope.push(datum.NewArgListNoRet(items...))
	case OpPop:
		for i := int32(0); i < instr.Argument; i++ {
			if _, ok := scope.pop(); !ok {
				return false, vm.stackUnderflow(scope, instr)
			}
		}
	case OpSwap:
		a, ok1 := scope.pop()
		b, ok2 := scope.pop()
		if !ok1 || !ok2 {
			return false, vm.stackUnderflow(scope, instr)
		}
		scope.push(a)
		scope.push(b)
	case OpPeek:
		v, ok := scope.peek()
		if !ok {
			return false, vm.stackUnderflow(scope, instr)
		}
		scope.push(v)

	case OpAdd, OpSub, OpMul, OpDiv, OpMod:
		if err := vm.binaryArith(scope, op, instr); err != nil {
			return false, err
		}
	case OpNeg:
		a, ok := scope.pop()
		if !ok {
			return false, vm.stackUnderflow(scope, instr)
		}
		r, err := datum.Neg(a)
		if err != nil {
			return false, vm.wrapScriptErr(scope, instr, err)
		}
		scope.push(r)
	case OpNot:
		a, ok := scope.pop()
		if !ok {
			return false, vm.stackUnderflow(scope, instr)
		}
		scope.push(boolOf(!a.Truthy()))
	case OpAnd:
		a, b, err := vm.popPair(scope, instr)
		if err != nil {
			return false, err
		}
		scope.push(boolOf(a.Truthy() && b.Truthy()))
	case OpOr:
		a, b, err := vm.popPair(scope, instr)
		if err != nil {
			return false, err
		}
		scope.push(boolOf(a.Truthy() || b.Truthy()))
	case OpLt, OpLe, OpGt, OpGe:
		if err := vm.compareOp(scope, op, instr); err != nil {
			return false, err
		}
	case OpEq:
		a, b, err := vm.popPair(scope, instr)
		if err != nil {
			return false, err
		}
		scope.push(boolOf(datum.Equal(a, b)))
	case OpNe:
		a, b, err := vm.popPair(scope, instr)
		if err != nil {
			return false, err
		}
		scope.push(boolOf(!datum.Equal(a, b)))

	case OpJoinStr:
		a, b, err := vm.popPair(scope, instr)
		if err != nil {
			return false, err
		}
		scope.push(datum.Str(datum.JoinStr(a.String(), b.String())))
	case OpJoinPadStr:
		a, b, err := vm.popPair(scope, instr)
		if err != nil {
			return false, err
		}
		scope.push(datum.Str(datum.JoinPadStr(a.String(), b.String())))
	case OpContainsStr:
		a, b, err := vm.popPair(scope, instr)
		if err != nil {
			return false, err
		}
		scope.push(boolOf(datum.ContainsStr(a.String(), b.String())))
	case OpGetChunk:
		if err := vm.getChunk(scope, instr); err != nil {
			return false, err
		}

	case OpGetLocal:
		if int(instr.Argument) >= len(scope.Locals) {
			return false, vm.wrapScriptErr(scope, instr, coreerrors.NewScriptError("TypeMismatch", "lingo.GetLocal", 0, "", 0, nil))
		}
		scope.push(scope.Locals[instr.Argument])
	case OpSetLocal:
		v, ok := scope.pop()
		if !ok {
			return false, vm.stackUnderflow(scope, instr)
		}
		for int(instr.Argument) >= len(scope.Locals) {
			scope.Locals = append(scope.Locals, datum.Void())
		}
		scope.Locals[instr.Argument] = v
	case OpGetParam:
		if int(instr.Argument) >= len(scope.Args) {
			scope.push(datum.Void())
		} else {
			scope.push(scope.Args[instr.Argument])
		}
	case OpSetParam:
		v, ok := scope.pop()
		if !ok {
			return false, vm.stackUnderflow(scope, instr)
		}
		if int(instr.Argument) < len(scope.Args) {
			scope.Args[instr.Argument] = v
		}
	case OpGetGlobal:
		name := vm.Names.Name(uint16(instr.Argument))
		scope.push(vm.Globals[name])
	case OpSetGlobal:
		v, ok := scope.pop()
		if !ok {
			return false, vm.stackUnderflow(scope, instr)
		}
		name := vm.Names.Name(uint16(instr.Argument))
		vm.Globals[name] = v

	case OpJmp:
		ip, ok := scope.offsetToIP[uint32(instr.Argument)]
		if !ok {
			return false, vm.wrapScriptErr(scope, instr, coreerrors.NewScriptError("BadBranchTarget", "lingo.Jmp", 0, "", 0, nil))
		}
		scope.IP = ip
		return false, nil
	case OpJmpIfZero:
		v, ok := scope.pop()
		if !ok {
			return false, vm.stackUnderflow(scope, instr)
		}
		if !v.Truthy() {
			ip, ok := scope.offsetToIP[uint32(instr.Argument)]
			if !ok {
				return false, vm.wrapScriptErr(scope, instr, coreerrors.NewScriptError("BadBranchTarget", "lingo.JmpIfZero", 0, "", 0, nil))
			}
			scope.IP = ip
			return false, nil
		}
	case OpEndRepeat:
		ip, ok := scope.offsetToIP[uint32(instr.Argument)]
		if !ok {
			return false, vm.wrapScriptErr(scope, instr, coreerrors.NewScriptError("BadBranchTarget", "lingo.EndRepeat", 0, "", 0, nil))
		}
		scope.IP = ip
		return false, nil
	case OpRet:
		if v, ok := scope.pop(); ok {
			scope.Return = v
		}
		return true, nil
	case OpRetFactory:
		if scope.Receiver != nil {
			scope.Return = datum.ScriptInstance(*scope.Receiver)
		}
		return true, nil

	case OpGetProp:
		if err := vm.getPropOp(scope, instr); err != nil {
			return false, err
		}
	case OpSetProp:
		if err := vm.setPropOp(scope, instr); err != nil {
			return false, err
		}
	case OpGetObjProp:
		if err := vm.getObjPropOp(scope); err != nil {
			return false, err
		}
	case OpSetObjProp:
		if err := vm.setObjPropOp(scope); err != nil {
			return false, err
		}
	case OpGetChainedProp:
		if err := vm.getPropOp(scope, instr); err != nil {
			return false, err
		}
	case OpGetMovieProp:
		name := vm.Names.Name(uint16(instr.Argument))
		if vm.Movie != nil {
			scope.push(vm.Movie.GetMovieProp(name))
		} else {
			scope.push(datum.Void())
		}
	case OpSetMovieProp:
		v, ok := scope.pop()
		if !ok {
			return false, vm.stackUnderflow(scope, instr)
		}
		name := vm.Names.Name(uint16(instr.Argument))
		if vm.Movie != nil {
			vm.Movie.SetMovieProp(name, v)
		}

	case OpExtCall:
		if err := vm.extCall(scope, instr); err != nil {
			return false, err
		}
	case OpLocalCall:
		if err := vm.localCall(scope, instr); err != nil {
			return false, err
		}
	case OpObjCall:
		if err := vm.objCall(scope, instr); err != nil {
			return false, err
		}
	case OpTellCall:
		if err := vm.extCall(scope, instr); err != nil { // tell target preferred by getProp/call already
			return false, err
		}

	case OpStartTell:
		v, ok := scope.pop()
		if !ok {
			return false, vm.stackUnderflow(scope, instr)
		}
		if v.Kind == datum.KindScriptInstance {
			scope.TellStack = append(scope.TellStack, v.InstanceID)
		}
	case OpEndTell:
		if len(scope.TellStack) > 0 {
			scope.TellStack = scope.TellStack[:len(scope.TellStack)-1]
		}

	case OpNewObj:
		name := vm.Names.Name(uint16(instr.Argument))
		if err := vm.newObj(scope, name); err != nil {
			return false, err
		}

	default:
		// Unknown opcodes are recoverable: log and skip to end-of-handler.
		scope.IP = len(scope.Handler.Bytecode)
		return false, coreerrors.NewScriptError("UnknownOpcode", "lingo.step", int32(scope.ScriptID), vm.handlerName(scope), instr.Offset, nil)
	}

	scope.IP++
	return false, nil
}

func boolOf(b bool) datum.Datum {
	if b {
		return datum.Int(1)
	}
	return datum.Int(0)
}

func popN(scope *Scope, n int) ([]datum.Datum, error) {
	if n < 0 || n > len(scope.stack) {
		return nil, coreerrors.NewScriptError("StackUnderflow", "lingo.popN", int32(scope.ScriptID), "", 0, nil)
	}
	items := make([]datum.Datum, n)
	copy(items, scope.stack[len(scope.stack)-n:])
	scope.stack = scope.stack[:len(scope.stack)-n]
	return items, nil
}

func (vm *VM) popPair(scope *Scope, instr chunks.Instruction) (datum.Datum, datum.Datum, error) {
	b, ok1 := scope.pop()
	a, ok2 := scope.pop()
	if !ok1 || !ok2 {
		return datum.Datum{}, datum.Datum{}, vm.stackUnderflow(scope, instr)
	}
	return a, b, nil
}

func (vm *VM) stackUnderflow(scope *Scope, instr chunks.Instruction) error {
	return coreerrors.NewScriptError("StackUnderflow", "lingo.step", int32(scope.ScriptID), vm.handlerName(scope), instr.Offset, nil)
}

// wrapScriptErr attaches the current frame's location (script/handler/
// offset) to a ScriptError carrying one of the listed codes, keeping that
// code and the original error as the cause. Other core errors (for example
// a RuntimeError) are returned unchanged; any non-core error is wrapped as
// a TypeMismatch ScriptError.
func (vm *VM) wrapScriptErr(scope *Scope, instr chunks.Instruction, err error) error {
	for _, code := range []string{"DivideByZero", "TypeMismatch", "BadBranchTarget", "UnknownOpcode", "StackUnderflow"} {
		if coreerrors.IsScriptError(err, code) {
			return coreerrors.NewScriptError(code, "lingo.step", int32(scope.ScriptID), vm.handlerName(scope), instr.Offset, err)
		}
	}
	if coreerrors.IsCoreError(err) {
		return err
	}
	return coreerrors.NewScriptError("TypeMismatch", "lingo.step", int32(scope.ScriptID), vm.handlerName(scope), instr.Offset, err)
}

func (vm *VM) binaryArith(scope *Scope, op Opcode, instr chunks.Instruction) error {
	a, b, err := vm.popPair(scope, instr)
	if err != nil {
		return err
	}
	var r datum.Datum
	var opErr error
	switch op {
	case OpAdd:
		r, opErr = datum.Add(a, b)
	case OpSub:
		r, opErr = datum.Sub(a, b)
	case OpMul:
		r, opErr = datum.Mul(a, b)
	case OpDiv:
		r, opErr = datum.Div(a, b)
	case OpMod:
		r, opErr = datum.Mod(a, b)
	}
	if opErr != nil {
		return vm.wrapScriptErr(scope, instr, opErr)
	}
	scope.push(r)
	return nil
}

func (vm *VM) compareOp(scope *Scope, op Opcode, instr chunks.Instruction) error {
	a, b, err := vm.popPair(scope, instr)
	if err != nil {
		return err
	}
	cmp, ok := datum.Compare(a, b)
	if !ok {
		return vm.wrapScriptErr(scope, instr, coreerrors.NewScriptError("TypeMismatch", "lingo.compareOp", 0, "", 0, nil))
	}
	var result bool
	switch op {
	case OpLt:
		result = cmp < 0
	case OpLe:
		result = cmp <= 0
	case OpGt:
		result = cmp > 0
	case OpGe:
		result = cmp >= 0
	}
	scope.push(boolOf(result))
	return nil
}

func (vm *VM) literal(scope *Scope, id int32) (datum.Datum, error) {
	if scope.Script == nil || int(id) >= len(scope.Script.Literals) || id < 0 {
		return datum.Void(), nil
	}
	lit := scope.Script.Literals[id]
	switch lit.Kind {
	case chunks.LiteralInt:
		return datum.Int(lit.Int), nil
	case chunks.LiteralFloat:
		return datum.Float(lit.Flt), nil
	default:
		return datum.Str(lit.Str), nil
	}
}

func (vm *VM) getChunk(scope *Scope, instr chunks.Instruction) error {
	items, err := popN(scope, 4)
	if err != nil {
		return err
	}
	str, kindD, first, last := items[0], items[1], items[2], items[3]
	kind := chunkKindFromSymbol(kindD.S)
	result := datum.Chunk(str.String(), kind, first.I, last.I, vm.ItemDelimiter)
	scope.push(datum.Str(result))
	return nil
}

func chunkKindFromSymbol(s string) datum.ChunkKind {
	switch s {
	case "word":
		return datum.ChunkWord
	case "item":
		return datum.ChunkItem
	case "line":
		return datum.ChunkLine
	default:
		return datum.ChunkChar
	}
}

func (vm *VM) getPropOp(scope *Scope, instr chunks.Instruction) error {
	name := vm.Names.Name(uint16(instr.Argument))
	target := vm.propTarget(scope)
	if target == nil {
		scope.push(datum.Void())
		return nil
	}
	scope.push(vm.ResolveProp(*target, name))
	return nil
}

func (vm *VM) setPropOp(scope *Scope, instr chunks.Instruction) error {
	v, ok := scope.pop()
	if !ok {
		return vm.stackUnderflow(scope, instr)
	}
	name := vm.Names.Name(uint16(instr.Argument))
	target := vm.propTarget(scope)
	if target == nil {
		return nil
	}
	vm.SetProp(*target, name, v)
	return nil
}

// propTarget resolves the implicit receiver for GetProp/SetProp: the
// current tell target if one is active, else the handler's receiver.
func (vm *VM) propTarget(scope *Scope) *uint32 {
	if t := scope.currentTellTarget(); t != nil {
		return t
	}
	return scope.Receiver
}

func (vm *VM) getObjPropOp(scope *Scope) error {
	items, err := popN(scope, 2)
	if err != nil {
		return err
	}
	obj, name := items[0], items[1]
	if obj.Kind != datum.KindScriptInstance {
		scope.push(datum.Void())
		return nil
	}
	scope.push(vm.ResolveProp(obj.InstanceID, name.String()))
	return nil
}

func (vm *VM) setObjPropOp(scope *Scope) error {
	items, err := popN(scope, 3)
	if err != nil {
		return err
	}
	obj, name, value := items[0], items[1], items[2]
	if obj.Kind != datum.KindScriptInstance {
		return nil
	}
	vm.SetProp(obj.InstanceID, name.String(), value)
	return nil
}

func (vm *VM) extCall(scope *Scope, instr chunks.Instruction) error {
	name := vm.Names.Name(uint16(instr.Argument))
	args, err := vm.popCallArgs(scope)
	if err != nil {
		return err
	}
	fn, ok := vm.Builtins[name]
	if !ok {
		return vm.wrapScriptErr(scope, instr, coreerrors.NewScriptError("UndefinedHandler", "lingo.extCall", 0, name, 0, nil))
	}
	result, err := fn(vm, args)
	if err != nil {
		return vm.wrapScriptErr(scope, instr, err)
	}
	scope.push(result)
	return nil
}

func (vm *VM) localCall(scope *Scope, instr chunks.Instruction) error {
	name := vm.Names.Name(uint16(instr.Argument))
	args, err := vm.popCallArgs(scope)
	if err != nil {
		return err
	}
	handler := vm.FindHandler(scope.Script, name)
	if handler == nil {
		return vm.wrapScriptErr(scope, instr, coreerrors.NewScriptError("UndefinedHandler", "lingo.localCall", int32(scope.ScriptID), name, instr.Offset, nil))
	}
	result, err := vm.call(scope.ScriptID, scope.Script, handler, args, scope.Receiver)
	if err != nil {
		return err
	}
	scope.push(result)
	return nil
}

func (vm *VM) objCall(scope *Scope, instr chunks.Instruction) error {
	name := vm.Names.Name(uint16(instr.Argument))
	args, err := vm.popCallArgs(scope)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return vm.wrapScriptErr(scope, instr, coreerrors.NewRuntimeError("BadReceiver", "lingo.objCall", nil))
	}
	receiver := args[0]
	rest := args[1:]
	if receiver.Kind != datum.KindScriptInstance {
		return vm.wrapScriptErr(scope, instr, coreerrors.NewRuntimeError("BadReceiver", "lingo.objCall", nil))
	}
	inst := vm.arena.Get(receiver.InstanceID)
	if inst == nil {
		return vm.wrapScriptErr(scope, instr, coreerrors.NewRuntimeError("BadReceiver", "lingo.objCall", nil))
	}
	script := vm.Scripts[inst.ScriptID]
	handler := vm.FindHandler(script, name)
	for hop := 0; handler == nil && hop < maxAncestorHops; hop++ {
		ancestor, ok := lookupOwn(inst, "ancestor")
		if !ok || ancestor.Kind != datum.KindScriptInstance {
			break
		}
		next := vm.arena.Get(ancestor.InstanceID)
		if next == nil {
			break
		}
		inst = next
		script = vm.Scripts[inst.ScriptID]
		handler = vm.FindHandler(script, name)
	}
	if handler == nil {
		return vm.wrapScriptErr(scope, instr, coreerrors.NewScriptError("UndefinedHandler", "lingo.objCall", int32(inst.ScriptID), name, instr.Offset, nil))
	}
	id := receiver.InstanceID
	result, err := vm.call(inst.ScriptID, script, handler, rest, &id)
	if err != nil {
		return err
	}
	scope.push(result)
	return nil
}

// popCallArgs pops a single ArgList/ArgListNoRet off the stack, or treats
// the absence of one as a zero-arg call.
func (vm *VM) popCallArgs(scope *Scope) ([]datum.Datum, error) {
	v, ok := scope.pop()
	if !ok {
		return nil, nil
	}
	if v.Kind == datum.KindArgList || v.Kind == datum.KindArgListNoRet {
		return v.List, nil
	}
	return []datum.Datum{v}, nil
}

func (vm *VM) newObj(scope *Scope, scriptName string) error {
	args, err := vm.popCallArgs(scope)
	if err != nil {
		return err
	}
	// Script chunks carry no self-referential name; resolving a script
	// literal by its cast-member name is the movie layer's job (it owns
	// the KeyTable/CastMember join). The VM just calls back into it.
	scriptID, ok := vm.resolveScriptByName(scriptName)
	if !ok {
		scope.push(datum.Void())
		return nil
	}
	script := vm.Scripts[scriptID]
	id := vm.NewInstance(scriptID)
	if handler := vm.FindHandler(script, "new"); handler != nil {
		idCopy := id
		if _, err := vm.call(scriptID, script, handler, args, &idCopy); err != nil {
			return err
		}
	}
	scope.push(datum.ScriptInstance(id))
	return nil
}

// ScriptNameResolver is supplied by the movie/player layer so NewObj can map
// a script's declared name to its chunk id.
type ScriptNameResolver func(name string) (uint32, bool)

func (vm *VM) resolveScriptByName(name string) (uint32, bool) {
	if vm.resolver == nil {
		return 0, false
	}
	return vm.resolver(name)
}

// SetScriptNameResolver installs the resolver used by NewObj.
func (vm *VM) SetScriptNameResolver(r ScriptNameResolver) { vm.resolver = r }
