package lingo

import (
	"github.com/libreshockwave/shockwave/internal/chunks"
	"github.com/libreshockwave/shockwave/internal/datum"
)

// Scope is one call-stack frame: the script/handler being executed, the
// instruction pointer, arguments and locals, the receiver bound to `me`
// (absent for movie/global calls), and the handler's private tell-target
// stack.
type Scope struct {
	ScriptID  uint32
	Script    *chunks.Script
	Handler   *chunks.Handler
	IP        int
	Args      []datum.Datum
	Locals    []datum.Datum
	Receiver  *uint32 // instance id, nil if none
	TellStack []uint32
	Return    datum.Datum

	stack      []datum.Datum
	offsetToIP map[uint32]int
}

func newScope(scriptID uint32, script *chunks.Script, handler *chunks.Handler, args []datum.Datum, receiver *uint32) *Scope {
	s := &Scope{
		ScriptID: scriptID,
		Script:   script,
		Handler:  handler,
		Args:     args,
		Locals:   make([]datum.Datum, len(handler.LocalNameIDs)),
		Receiver: receiver,
	}
	s.offsetToIP = make(map[uint32]int, len(handler.Bytecode))
	for i, instr := range handler.Bytecode {
		s.offsetToIP[instr.Offset] = i
	}
	for i := range s.Locals {
		s.Locals[i] = datum.Void()
	}
	return s
}

func (s *Scope) push(d datum.Datum) { s.stack = append(s.stack, d) }

func (s *Scope) pop() (datum.Datum, bool) {
	if len(s.stack) == 0 {
		return datum.Datum{}, false
	}
	v := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	return v, true
}

func (s *Scope) peek() (datum.Datum, bool) {
	if len(s.stack) == 0 {
		return datum.Datum{}, false
	}
	return s.stack[len(s.stack)-1], true
}

// currentTellTarget returns the innermost tell target, or nil.
func (s *Scope) currentTellTarget() *uint32 {
	if len(s.TellStack) == 0 {
		return nil
	}
	id := s.TellStack[len(s.TellStack)-1]
	return &id
}
