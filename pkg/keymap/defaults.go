package keymap

const (
	ctrlD  = 0x04
	ctrlG  = 0x07
	ctrlH  = 0x08
	ctrlI  = 0x09
	ctrlJ  = 0x0A
	ctrlM  = 0x0D
	ctrlR  = 0x12
	ctrlU  = 0x15
	ctrlX  = 0x18
	ctrlY  = 0x19
	escape = 0x1B
	ctrlCB = 0x1D // Ctrl-]
	del    = 0x7F
)

// Defaults builds a fresh set of the built-in tables keyed by name,
// including the emacs-standard, vi-command and vi aliases.
func Defaults() map[string]*KeyMap {
	maps := make(map[string]*KeyMap)

	emacs := emacsMap()
	bindArrowKeys(emacs)
	maps[Emacs] = emacs
	maps[EmacsStandard] = emacs
	maps[EmacsCtlX] = emacs.Bound(string(rune(ctrlX))).Table
	maps[EmacsMeta] = emacs.Bound(string(rune(escape))).Table

	viMov := viMovementMap()
	bindArrowKeys(viMov)
	maps[ViMove] = viMov
	maps["vi-command"] = viMov

	viIns := viInsertionMap()
	bindArrowKeys(viIns)
	maps[ViInsert] = viIns
	maps["vi"] = viIns

	return maps
}

func fill(km *KeyMap, from int, ops []Binding) {
	for i, b := range ops {
		km.mapping[from+i] = b
	}
}

func emacsMap() *KeyMap {
	km := New(Emacs, false)
	fill(km, 0, []Binding{
		Op(SetMark),              // ^@
		Op(BeginningOfLine),      // ^A
		Op(BackwardChar),         // ^B
		Op(Interrupt),            // ^C
		Op(ExitOrDeleteChar),     // ^D
		Op(EndOfLine),            // ^E
		Op(ForwardChar),          // ^F
		Op(Abort),                // ^G
		Op(BackwardDeleteChar),   // ^H
		Op(Complete),             // ^I
		Op(AcceptLine),           // ^J
		Op(KillLine),             // ^K
		Op(ClearScreen),          // ^L
		Op(AcceptLine),           // ^M
		Op(NextHistory),          // ^N
		{},                       // ^O
		Op(PreviousHistory),      // ^P
		Op(QuotedInsert),         // ^Q
		Op(ReverseSearchHistory), // ^R
		Op(ForwardSearchHistory), // ^S
		Op(TransposeChars),       // ^T
		Op(UnixLineDiscard),      // ^U
		Op(QuotedInsert),         // ^V
		Op(UnixWordRubout),       // ^W
		Table(emacsCtlXMap()),    // ^X
		Op(Yank),                 // ^Y
		{},                       // ^Z
		Table(emacsMetaMap()),    // ^[
		{},                       // ^\
		Op(CharacterSearch),      // ^]
		{},                       // ^^
		Op(Undo),                 // ^_
	})
	for i := 32; i < Size; i++ {
		km.mapping[i] = Op(SelfInsert)
	}
	km.mapping[del] = Op(BackwardDeleteChar)
	return km
}

func emacsCtlXMap() *KeyMap {
	km := New(EmacsCtlX, false)
	km.mapping[ctrlG] = Op(Abort)
	km.mapping[ctrlR] = Op(ReReadInitFile)
	km.mapping[ctrlU] = Op(Undo)
	km.mapping[ctrlX] = Op(ExchangePointAndMark)
	km.mapping['('] = Op(StartKbdMacro)
	km.mapping[')'] = Op(EndKbdMacro)
	for c := 'A'; c <= 'Z'; c++ {
		km.mapping[c] = Op(DoLowercaseVersion)
	}
	km.mapping['e'] = Op(CallLastKbdMacro)
	km.mapping[del] = Op(KillLine)
	return km
}

func emacsMetaMap() *KeyMap {
	km := New(EmacsMeta, false)
	km.mapping[ctrlG] = Op(Abort)
	km.mapping[ctrlH] = Op(BackwardKillWord)
	km.mapping[ctrlI] = Op(TabInsert)
	km.mapping[ctrlJ] = Op(ViEditingMode)
	km.mapping[ctrlM] = Op(ViEditingMode)
	km.mapping[ctrlR] = Op(RevertLine)
	km.mapping[ctrlY] = Op(YankNthArg)
	km.mapping[escape] = Op(Complete)
	km.mapping[ctrlCB] = Op(CharacterSearchBackward)
	km.mapping[' '] = Op(SetMark)
	km.mapping['#'] = Op(InsertComment)
	km.mapping['&'] = Op(TildeExpand)
	km.mapping['*'] = Op(InsertCompletions)
	km.mapping['-'] = Op(DigitArgument)
	for c := '0'; c <= '9'; c++ {
		km.mapping[c] = Op(DigitArgument)
	}
	km.mapping['.'] = Op(YankLastArg)
	km.mapping['<'] = Op(BeginningOfHistory)
	km.mapping['='] = Op(PossibleCompletions)
	km.mapping['>'] = Op(EndOfHistory)
	km.mapping['?'] = Op(PossibleCompletions)
	for c := 'A'; c <= 'Z'; c++ {
		km.mapping[c] = Op(DoLowercaseVersion)
	}
	km.mapping['\\'] = Op(DeleteHorizontalSpace)
	km.mapping['_'] = Op(YankLastArg)
	km.mapping['b'] = Op(BackwardWord)
	km.mapping['c'] = Op(CapitalizeWord)
	km.mapping['d'] = Op(KillWord)
	km.mapping['f'] = Op(ForwardWord)
	km.mapping['l'] = Op(DowncaseWord)
	km.mapping['p'] = Op(NonIncrementalReverseSearchHistory)
	km.mapping['r'] = Op(RevertLine)
	km.mapping['t'] = Op(TransposeWords)
	km.mapping['u'] = Op(UpcaseWord)
	km.mapping['v'] = Op(PasteFromClipboard)
	km.mapping['y'] = Op(YankPop)
	km.mapping['~'] = Op(TildeExpand)
	km.mapping[del] = Op(BackwardKillWord)
	return km
}

func viInsertionMap() *KeyMap {
	km := New(ViInsert, true)
	fill(km, 0, []Binding{
		{},                         // ^@
		Op(SelfInsert),             // ^A
		Op(SelfInsert),             // ^B
		Op(Interrupt),              // ^C
		Op(ViEOFMaybe),             // ^D
		Op(SelfInsert),             // ^E
		Op(SelfInsert),             // ^F
		Op(SelfInsert),             // ^G
		Op(BackwardDeleteChar),     // ^H
		Op(Complete),               // ^I
		Op(AcceptLine),             // ^J
		Op(SelfInsert),             // ^K
		Op(SelfInsert),             // ^L
		Op(AcceptLine),             // ^M
		Op(MenuComplete),           // ^N
		Op(SelfInsert),             // ^O
		Op(MenuCompleteBackward),   // ^P
		Op(SelfInsert),             // ^Q
		Op(ReverseSearchHistory),   // ^R
		Op(ForwardSearchHistory),   // ^S
		Op(TransposeChars),         // ^T
		Op(UnixLineDiscard),        // ^U
		Op(QuotedInsert),           // ^V
		Op(UnixWordRubout),         // ^W
		Op(SelfInsert),             // ^X
		Op(Yank),                   // ^Y
		Op(SelfInsert),             // ^Z
		Op(ViMovementMode),         // ^[
		Op(SelfInsert),             // ^\
		Op(SelfInsert),             // ^]
		Op(SelfInsert),             // ^^
		Op(Undo),                   // ^_
	})
	for i := 32; i < Size; i++ {
		km.mapping[i] = Op(SelfInsert)
	}
	km.mapping[del] = Op(BackwardDeleteChar)
	return km
}

func viMovementMap() *KeyMap {
	km := New(ViMove, true)
	fill(km, 0, []Binding{
		{},                              // ^@
		{},                              // ^A
		{},                              // ^B
		Op(Interrupt),                   // ^C
		Op(ViEOFMaybe),                  // ^D
		Op(EmacsEditingMode),            // ^E
		{},                              // ^F
		Op(Abort),                       // ^G
		Op(BackwardChar),                // ^H
		{},                              // ^I
		Op(ViMoveAcceptLine),            // ^J
		Op(KillLine),                    // ^K
		Op(ClearScreen),                 // ^L
		Op(ViMoveAcceptLine),            // ^M
		Op(ViNextHistory),               // ^N
		{},                              // ^O
		Op(ViPreviousHistory),           // ^P
		Op(QuotedInsert),                // ^Q
		Op(ReverseSearchHistory),        // ^R
		Op(ForwardSearchHistory),        // ^S
		Op(TransposeChars),              // ^T
		Op(UnixLineDiscard),             // ^U
		Op(QuotedInsert),                // ^V
		Op(UnixWordRubout),              // ^W
		{},                              // ^X
		Op(Yank),                        // ^Y
		{},                              // ^Z
		Table(emacsMetaMap()),           // ^[
		{},                              // ^\
		Op(CharacterSearch),             // ^]
		{},                              // ^^
		Op(Undo),                        // ^_
		Op(ForwardChar),                 // SPACE
		{},                              // !
		{},                              // "
		Op(ViInsertComment),             // #
		Op(EndOfLine),                   // $
		Op(ViMatch),                     // %
		Op(ViTildeExpand),               // &
		{},                              // '
		{},                              // (
		{},                              // )
		Op(ViComplete),                  // *
		Op(ViNextHistory),               // +
		Op(ViCharSearch),                // ,
		Op(ViPreviousHistory),           // -
		Op(ViRedo),                      // .
		Op(ViSearch),                    // /
		Op(ViBeginningOfLineOrArgDigit), // 0
		Op(ViArgDigit),                  // 1
		Op(ViArgDigit),                  // 2
		Op(ViArgDigit),                  // 3
		Op(ViArgDigit),                  // 4
		Op(ViArgDigit),                  // 5
		Op(ViArgDigit),                  // 6
		Op(ViArgDigit),                  // 7
		Op(ViArgDigit),                  // 8
		Op(ViArgDigit),                  // 9
		{},                              // :
		Op(ViCharSearch),                // ;
		{},                              // <
		Op(ViComplete),                  // =
		{},                              // >
		Op(ViSearch),                    // ?
		{},                              // @
		Op(ViAppendEol),                 // A
		Op(ViPrevWord),                  // B
		Op(ViChangeTo),                  // C
		Op(ViDeleteTo),                  // D
		Op(ViEndWord),                   // E
		Op(ViCharSearch),                // F
		Op(ViFetchHistory),              // G
		{},                              // H
		Op(ViInsertBeg),                 // I
		{},                              // J
		{},                              // K
		{},                              // L
		{},                              // M
		Op(ViSearchAgain),               // N
		{},                              // O
		Op(ViPut),                       // P
		{},                              // Q
		Op(ViReplace),                   // R
		Op(ViSubst),                     // S
		Op(ViCharSearch),                // T
		Op(RevertLine),                  // U
		{},                              // V
		Op(ViNextWord),                  // W
		Op(ViRubout),                    // X
		Op(ViYankTo),                    // Y
		{},                              // Z
		{},                              // [
		Op(ViComplete),                  // \
		{},                              // ]
		Op(ViFirstPrint),                // ^
		Op(ViYankArg),                   // _
		Op(ViGotoMark),                  // `
		Op(ViAppendMode),                // a
		Op(ViPrevWord),                  // b
		Op(ViChangeTo),                  // c
		Op(ViDeleteTo),                  // d
		Op(ViEndWord),                   // e
		Op(ViCharSearch),                // f
		{},                              // g
		Op(BackwardChar),                // h
		Op(ViInsertionMode),             // i
		Op(NextHistory),                 // j
		Op(PreviousHistory),             // k
		Op(ForwardChar),                 // l
		Op(ViSetMark),                   // m
		Op(ViSearchAgain),               // n
		{},                              // o
		Op(ViPut),                       // p
		{},                              // q
		Op(ViChangeChar),                // r
		Op(ViSubst),                     // s
		Op(ViCharSearch),                // t
		Op(Undo),                        // u
		{},                              // v
		Op(ViNextWord),                  // w
		Op(ViDelete),                    // x
		Op(ViYankTo),                    // y
		{},                              // z
		{},                              // {
		Op(ViColumn),                    // |
		{},                              // }
		Op(ViChangeCase),                // ~
		Op(ViDelete),                    // DEL
	})
	return km
}

// bindArrowKeys adds the cursor and editing keys sent by common terminals,
// including the MS-DOS and Windows console scan-code forms.
func bindArrowKeys(km *KeyMap) {
	// MS-DOS
	km.BindOp("\x1b[0A", PreviousHistory)
	km.BindOp("\x1b[0B", BackwardChar)
	km.BindOp("\x1b[0C", ForwardChar)
	km.BindOp("\x1b[0D", NextHistory)

	// Windows
	km.BindOp("\xe0\x00", KillWholeLine)
	km.BindOp("\xe0\x47", BeginningOfLine)
	km.BindOp("\xe0\x48", PreviousHistory)
	km.BindOp("\xe0\x49", BeginningOfHistory)
	km.BindOp("\xe0\x4b", BackwardChar)
	km.BindOp("\xe0\x4d", ForwardChar)
	km.BindOp("\xe0\x4f", EndOfLine)
	km.BindOp("\xe0\x50", NextHistory)
	km.BindOp("\xe0\x51", EndOfHistory)
	km.BindOp("\xe0\x52", OverwriteMode)
	km.BindOp("\xe0\x53", DeleteChar)
	km.BindOp("\x00\x48", PreviousHistory)
	km.BindOp("\x00\x4b", BackwardChar)
	km.BindOp("\x00\x4d", ForwardChar)
	km.BindOp("\x00\x50", NextHistory)
	km.BindOp("\x00\x53", DeleteChar)

	km.BindOp("\x1b[A", PreviousHistory)
	km.BindOp("\x1b[B", NextHistory)
	km.BindOp("\x1b[C", ForwardChar)
	km.BindOp("\x1b[D", BackwardChar)
	km.BindOp("\x1b[H", BeginningOfLine)
	km.BindOp("\x1b[F", EndOfLine)

	km.BindOp("\x1bOA", PreviousHistory)
	km.BindOp("\x1bOB", NextHistory)
	km.BindOp("\x1bOC", ForwardChar)
	km.BindOp("\x1bOD", BackwardChar)
	km.BindOp("\x1bOH", BeginningOfLine)
	km.BindOp("\x1bOF", EndOfLine)

	km.BindOp("\x1b[3~", DeleteChar)

	// MINGW32
	km.BindOp("\x1c0H", PreviousHistory)
	km.BindOp("\x1c0P", NextHistory)
	km.BindOp("\x1c0M", ForwardChar)
	km.BindOp("\x1c0K", BackwardChar)
}
