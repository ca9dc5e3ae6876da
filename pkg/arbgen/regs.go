// Register allocation for ARB code generation.
// Hands out compiler-generated registers and records their declarations
// in the program being built.

package arbgen

import (
	"fmt"

	"github.com/raymyers/ralph-fp/pkg/arb"
)

// Reserved prefixes for compiler-generated registers. User registers start
// with '$', so these never collide with them.
const (
	tempPrefix      = "__$temp_"
	longLivedPrefix = "__$templl_"
	paramPrefix     = "__$param_"
)

// RegAllocator manages intermediate register allocation.
//
// Reusable temporaries are handed out by position within a session: the
// n-th request of every session returns the same register. Long-lived
// registers and immediates are never reused.
type RegAllocator struct {
	prog      *arb.Program
	pos       int // position within the current session
	longLived int // number of long-lived registers declared
	params    int // number of immediates declared, sentinels excluded
}

// NewRegAllocator creates an allocator declaring into prog
func NewRegAllocator(prog *arb.Program) *RegAllocator {
	return &RegAllocator{prog: prog}
}

// ResetSession starts a new session; subsequent Temp calls reuse
// already-declared temporaries from the first one on.
func (a *RegAllocator) ResetSession() {
	a.pos = 0
}

// Temp returns the temporary at the current session position, declaring
// a new one when all existing temporaries are in use.
func (a *RegAllocator) Temp() string {
	if a.pos < len(a.prog.Temps) {
		r := a.prog.Temps[a.pos]
		a.pos++
		return r
	}
	r := fmt.Sprintf("%s%d", tempPrefix, len(a.prog.Temps))
	a.prog.DeclareTemp(r)
	a.pos++
	return r
}

// SessionSize returns the number of temporaries used by the current session
func (a *RegAllocator) SessionSize() int {
	return a.pos
}

// LongLived declares a fresh register that is never handed out again
func (a *RegAllocator) LongLived() string {
	r := fmt.Sprintf("%s%d", longLivedPrefix, a.longLived)
	a.longLived++
	a.prog.DeclareLongLived(r)
	return r
}

// Immediate declares a fresh immediate register holding value.
// Values are not deduplicated.
func (a *RegAllocator) Immediate(value string) string {
	r := fmt.Sprintf("%s%d", paramPrefix, a.params)
	a.params++
	a.prog.DeclareImmediate(r, value)
	return r
}
