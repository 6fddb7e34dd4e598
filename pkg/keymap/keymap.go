package keymap

// Names of the built-in key tables.
const (
	ViMove        = "vi-move"
	ViInsert      = "vi-insert"
	Emacs         = "emacs"
	EmacsStandard = "emacs-standard"
	EmacsCtlX     = "emacs-ctlx"
	EmacsMeta     = "emacs-meta"

	anonymous = "anonymous"
)

// Size is the number of slots in every table, one per input byte.
const Size = 256

// KeyMap is one node of the byte-sequence trie. Slots hold the binding for
// the next input byte; anotherKey is what the node resolves to when the
// sequence ends here (a lone ESC, for example).
type KeyMap struct {
	name       string
	vi         bool
	mapping    [Size]Binding
	anotherKey Binding
}

func New(name string, vi bool) *KeyMap {
	return &KeyMap{name: name, vi: vi}
}

func (km *KeyMap) Name() string {
	return km.name
}

// IsVi reports whether the table belongs to one of the vi editing modes.
func (km *KeyMap) IsVi() bool {
	return km.vi
}

func (km *KeyMap) AnotherKey() Binding {
	return km.anotherKey
}

// Slot returns the binding stored directly in this node for byte c.
func (km *KeyMap) Slot(c byte) Binding {
	return km.mapping[c]
}

// Bound walks seq through the trie. A sequence that ends on a nested table
// yields that table; a sequence that falls off a leaf early yields the leaf.
func (km *KeyMap) Bound(seq string) Binding {
	if len(seq) == 0 {
		return Binding{}
	}
	m := km
	for i := 0; i < len(seq); i++ {
		b := m.mapping[seq[i]]
		if b.Kind != TableBinding {
			return b
		}
		if i == len(seq)-1 {
			return b
		}
		m = b.Table
	}
	return Binding{}
}

// Bind binds seq to b, creating intermediate tables as needed. A slot that
// already held a plain binding keeps it as the new table's fallback.
func (km *KeyMap) Bind(seq string, b Binding) {
	km.bind(seq, b, false)
}

func (km *KeyMap) BindOp(seq string, op Operation) {
	km.bind(seq, Op(op), false)
}

// BindIfNotBound only replaces empty slots and the placeholder bindings
// DO_LOWERCASE_VERSION and VI_MOVEMENT_MODE.
func (km *KeyMap) BindIfNotBound(seq string, b Binding) {
	km.bind(seq, b, true)
}

func (km *KeyMap) bind(seq string, b Binding, onlyIfNotBound bool) {
	if len(seq) == 0 {
		return
	}
	m := km
	for i := 0; i < len(seq); i++ {
		c := seq[i]
		if i < len(seq)-1 {
			if m.mapping[c].Kind != TableBinding {
				sub := New(anonymous, false)
				if !m.mapping[c].Is(DoLowercaseVersion) {
					sub.anotherKey = m.mapping[c]
				}
				m.mapping[c] = Table(sub)
			}
			m = m.mapping[c].Table
			continue
		}

		if m.mapping[c].Kind == TableBinding {
			m.mapping[c].Table.anotherKey = b
			return
		}
		cur := m.mapping[c]
		if !onlyIfNotBound || !cur.IsBound() || cur.Is(DoLowercaseVersion) || cur.Is(ViMovementMode) {
			m.mapping[c] = b
		}
	}
}

// SetBlinkMatchingParen binds the closing brackets to their blinking insert
// operations. Turning it off leaves existing bindings alone.
func (km *KeyMap) SetBlinkMatchingParen(on bool) {
	if !on {
		return
	}
	km.BindOp("}", InsertCloseCurly)
	km.BindOp(")", InsertCloseParen)
	km.BindOp("]", InsertCloseSquare)
}

// IsMeta reports whether c has the eighth bit set.
func IsMeta(c byte) bool {
	return c > 0x7f
}

func UnMeta(c byte) byte {
	return c & 0x7f
}

func Meta(c byte) byte {
	return c | 0x80
}
