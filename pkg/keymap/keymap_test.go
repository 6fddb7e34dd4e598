package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperationNames(t *testing.T) {
	assert.Equal(t, 138, int(operationCount))
	assert.Equal(t, "abort", Abort.String())
	assert.Equal(t, "vi-beginning-of-line-or-arg-digit", ViBeginningOfLineOrArgDigit.String())
	assert.Equal(t, Operation(137), Interrupt)

	for op := Operation(0); op < operationCount; op++ {
		parsed, err := ParseOperation(op.String())
		require.NoError(t, err, op.String())
		assert.Equal(t, op, parsed)
	}

	_, err := ParseOperation("no-such-thing")
	assert.ErrorIs(t, err, ErrUnknownOperation)
}

func TestKeyMap_BoundExactMatch(t *testing.T) {
	km := New("test", false)
	km.BindOp("ab", KillLine)

	b := km.Bound("a")
	require.Equal(t, TableBinding, b.Kind)
	assert.True(t, km.Bound("ab").Is(KillLine))
	assert.False(t, km.Bound("b").IsBound())
	assert.False(t, km.Bound("").IsBound())
}

func TestKeyMap_BoundStopsAtLeaf(t *testing.T) {
	km := New("test", false)
	km.BindOp("a", Yank)

	assert.True(t, km.Bound("axyz").Is(Yank))
}

func TestKeyMap_BindKeepsOldSlotAsAnotherKey(t *testing.T) {
	km := New("test", false)
	km.BindOp("\x1b", ViMovementMode)
	km.BindOp("\x1b[A", PreviousHistory)

	b := km.Bound("\x1b")
	require.Equal(t, TableBinding, b.Kind)
	assert.True(t, b.Table.AnotherKey().Is(ViMovementMode))
	assert.True(t, km.Bound("\x1b[A").Is(PreviousHistory))
}

func TestKeyMap_BindDoesNotInheritLowercase(t *testing.T) {
	km := New("test", false)
	km.BindOp("X", DoLowercaseVersion)
	km.BindOp("XY", Yank)

	assert.False(t, km.Bound("X").Table.AnotherKey().IsBound())
}

func TestKeyMap_BindOnTableSetsAnotherKey(t *testing.T) {
	km := New("test", false)
	km.BindOp("ab", Yank)
	km.BindOp("a", KillLine)

	assert.True(t, km.Bound("a").Table.AnotherKey().Is(KillLine))
	assert.True(t, km.Bound("ab").Is(Yank))
}

func TestKeyMap_BindIfNotBound(t *testing.T) {
	km := New("test", false)
	km.BindOp("a", Yank)
	km.BindIfNotBound("a", Op(KillLine))
	assert.True(t, km.Bound("a").Is(Yank))

	km.BindOp("b", ViMovementMode)
	km.BindIfNotBound("b", Op(KillLine))
	assert.True(t, km.Bound("b").Is(KillLine))

	km.BindIfNotBound("c", Macro("hi"))
	assert.Equal(t, MacroBinding, km.Bound("c").Kind)
	assert.Equal(t, "hi", km.Bound("c").Macro)
}

func TestKeyMap_Meta(t *testing.T) {
	assert.True(t, IsMeta(0xe1))
	assert.False(t, IsMeta('a'))
	assert.Equal(t, byte('a'), UnMeta(0xe1))
	assert.Equal(t, byte(0xe1), Meta('a'))
}

func TestDefaults(t *testing.T) {
	maps := Defaults()

	emacs := maps[Emacs]
	require.NotNil(t, emacs)
	assert.Same(t, emacs, maps[EmacsStandard])
	assert.Same(t, maps[ViMove], maps["vi-command"])
	assert.Same(t, maps[ViInsert], maps["vi"])
	assert.False(t, emacs.IsVi())
	assert.True(t, maps[ViInsert].IsVi())
	assert.True(t, maps[ViMove].IsVi())

	assert.True(t, emacs.Bound("\x01").Is(BeginningOfLine))
	assert.True(t, emacs.Bound("a").Is(SelfInsert))
	assert.True(t, emacs.Bound("\x1b[A").Is(PreviousHistory))
	assert.True(t, emacs.Bound("\x1bOD").Is(BackwardChar))
	assert.True(t, emacs.Bound("\x1b[3~").Is(DeleteChar))
	assert.True(t, emacs.Bound("\x1bf").Is(ForwardWord))
	assert.True(t, emacs.Bound("\x1bF").Is(DoLowercaseVersion))
	assert.True(t, emacs.Bound("\x18(").Is(StartKbdMacro))
	assert.Same(t, maps[EmacsCtlX], emacs.Bound("\x18").Table)
	assert.Same(t, maps[EmacsMeta], emacs.Bound("\x1b").Table)

	viIns := maps[ViInsert]
	esc := viIns.Bound("\x1b")
	require.Equal(t, TableBinding, esc.Kind)
	assert.True(t, esc.Table.AnotherKey().Is(ViMovementMode))
	assert.True(t, viIns.Bound("\x1b[A").Is(PreviousHistory))
	assert.True(t, viIns.Bound("\x03").Is(Interrupt))

	viMov := maps[ViMove]
	assert.True(t, viMov.Bound("d").Is(ViDeleteTo))
	assert.True(t, viMov.Bound("0").Is(ViBeginningOfLineOrArgDigit))
	assert.True(t, viMov.Bound("w").Is(ViNextWord))
	assert.True(t, viMov.Bound("\x7f").Is(ViDelete))
}

func TestDefaults_FreshCopies(t *testing.T) {
	a := Defaults()
	b := Defaults()
	a[Emacs].BindOp("a", KillLine)

	assert.True(t, b[Emacs].Bound("a").Is(SelfInsert))
}

func TestSet_SetVariable(t *testing.T) {
	s := NewSet()
	assert.True(t, s.IsKeyMap(Emacs))
	assert.False(t, s.IsVi())

	s.SetVariable("editing-mode", "vi")
	assert.True(t, s.IsKeyMap(ViInsert))
	assert.True(t, s.IsVi())

	s.SetVariable("keymap", "vi-command")
	assert.True(t, s.IsKeyMap(ViMove))

	s.SetVariable("keymap", "bogus")
	assert.True(t, s.IsKeyMap(ViMove))

	s.SetVariable("editing-mode", "EMACS")
	assert.True(t, s.IsKeyMap(Emacs))

	s.SetVariable("blink-matching-paren", "on")
	assert.True(t, s.Current().Bound(")").Is(InsertCloseParen))

	s.SetVariable("bell-style", "none")
	v, ok := s.Variable("bell-style")
	assert.True(t, ok)
	assert.Equal(t, "none", v)

	_, ok = s.Variable("missing")
	assert.False(t, ok)
}

func TestSet_SetKeyMapAndReset(t *testing.T) {
	s := NewSet()
	require.NoError(t, s.SetKeyMap(ViMove))
	assert.ErrorIs(t, s.SetKeyMap("nope"), ErrUnknownKeyMap)

	s.Bind("q", Op(KillLine))
	assert.True(t, s.Current().Bound("q").Is(KillLine))

	km, ok := s.Lookup("vi")
	require.True(t, ok)
	assert.Equal(t, ViInsert, km.Name())

	s.Reset()
	assert.True(t, s.IsKeyMap(Emacs))
	mov, _ := s.Lookup(ViMove)
	assert.False(t, mov.Bound("q").IsBound())
	assert.Contains(t, s.Names(), "emacs-standard")
}

func TestBindingString(t *testing.T) {
	assert.Equal(t, "unbound", Binding{}.String())
	assert.Equal(t, "yank", Op(Yank).String())
	assert.Equal(t, `macro("ls\r")`, Macro("ls\r").String())
	assert.Equal(t, "callback", Callback(func() {}).String())
	assert.False(t, Callback(nil).IsBound())
	assert.Equal(t, "keymap(test)", Table(New("test", false)).String())
}
