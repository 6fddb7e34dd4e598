package keymap

import "fmt"

// BindingKind tags the variant held by a Binding.
type BindingKind int

const (
	Unbound BindingKind = iota
	OpBinding
	MacroBinding
	CallbackBinding
	TableBinding
)

// Binding is the value stored in a key table slot: an operation, a literal
// macro whose bytes are replayed as input, a callback, or a nested table for
// multi-byte sequences. The zero value is Unbound.
type Binding struct {
	Kind     BindingKind
	Op       Operation
	Macro    string
	Callback func()
	Table    *KeyMap
}

func Op(op Operation) Binding {
	return Binding{Kind: OpBinding, Op: op}
}

func Macro(s string) Binding {
	return Binding{Kind: MacroBinding, Macro: s}
}

func Callback(fn func()) Binding {
	if fn == nil {
		return Binding{}
	}
	return Binding{Kind: CallbackBinding, Callback: fn}
}

func Table(km *KeyMap) Binding {
	if km == nil {
		return Binding{}
	}
	return Binding{Kind: TableBinding, Table: km}
}

func (b Binding) IsBound() bool {
	return b.Kind != Unbound
}

// Is reports whether b is bound to exactly the given operation.
func (b Binding) Is(op Operation) bool {
	return b.Kind == OpBinding && b.Op == op
}

func (b Binding) String() string {
	switch b.Kind {
	case OpBinding:
		return b.Op.String()
	case MacroBinding:
		return fmt.Sprintf("macro(%q)", b.Macro)
	case CallbackBinding:
		return "callback"
	case TableBinding:
		return "keymap(" + b.Table.Name() + ")"
	default:
		return "unbound"
	}
}
