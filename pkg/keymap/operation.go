package keymap

import (
	"fmt"
	"strings"
)

// Operation is a single editing intent bound to a key sequence. The numeric
// values are stable and match the order used by inputrc function tables.
type Operation int

const (
	Abort Operation = iota
	AcceptLine
	ArrowKeyPrefix
	BackwardByte
	BackwardChar
	BackwardDeleteChar
	BackwardKillLine
	BackwardKillWord
	BackwardWord
	BeginningOfHistory
	BeginningOfLine
	CallLastKbdMacro
	CapitalizeWord
	CharacterSearch
	CharacterSearchBackward
	ClearScreen
	Complete
	CopyBackwardWord
	CopyForwardWord
	CopyRegionAsKill
	DeleteChar
	DeleteCharOrList
	DeleteHorizontalSpace
	DigitArgument
	DoLowercaseVersion
	DowncaseWord
	DumpFunctions
	DumpMacros
	DumpVariables
	EmacsEditingMode
	EndKbdMacro
	EndOfHistory
	EndOfLine
	ExchangePointAndMark
	ExitOrDeleteChar
	ForwardBackwardDeleteChar
	ForwardByte
	ForwardChar
	ForwardSearchHistory
	ForwardWord
	HistorySearchBackward
	HistorySearchForward
	InsertCloseCurly
	InsertCloseParen
	InsertCloseSquare
	InsertComment
	InsertCompletions
	KillWholeLine
	KillLine
	KillRegion
	KillWord
	MenuComplete
	MenuCompleteBackward
	NextHistory
	NonIncrementalForwardSearchHistory
	NonIncrementalReverseSearchHistory
	NonIncrementalForwardSearchHistoryAgain
	NonIncrementalReverseSearchHistoryAgain
	OldMenuComplete
	OverwriteMode
	PasteFromClipboard
	PossibleCompletions
	PreviousHistory
	QuotedInsert
	ReReadInitFile
	RedrawCurrentLine
	ReverseSearchHistory
	RevertLine
	SelfInsert
	SetMark
	SkipCSISequence
	StartKbdMacro
	TabInsert
	TildeExpand
	TransposeChars
	TransposeWords
	TTYStatus
	Undo
	UniversalArgument
	UnixFilenameRubout
	UnixLineDiscard
	UnixWordRubout
	UpcaseWord
	Yank
	YankLastArg
	YankNthArg
	YankPop
	ViAppendEol
	ViAppendMode
	ViArgDigit
	ViBackToIndent
	ViBackwardBigword
	ViBackwardWord
	ViBword
	ViChangeCase
	ViChangeChar
	ViChangeTo
	ViCharSearch
	ViColumn
	ViComplete
	ViDelete
	ViDeleteTo
	ViEditingMode
	ViEndBigword
	ViEndWord
	ViEOFMaybe
	ViEword
	ViFword
	ViFetchHistory
	ViFirstPrint
	ViForwardBigword
	ViForwardWord
	ViGotoMark
	ViInsertBeg
	ViInsertionMode
	ViMatch
	ViMovementMode
	ViNextWord
	ViOverstrike
	ViOverstrikeDelete
	ViPrevWord
	ViPut
	ViRedo
	ViReplace
	ViRubout
	ViSearch
	ViSearchAgain
	ViSetMark
	ViSubst
	ViTildeExpand
	ViYankArg
	ViYankTo
	ViMoveAcceptLine
	ViNextHistory
	ViPreviousHistory
	ViInsertComment
	ViBeginningOfLineOrArgDigit
	Interrupt

	operationCount
)

var operationNames = [operationCount]string{
	Abort:                                   "abort",
	AcceptLine:                              "accept-line",
	ArrowKeyPrefix:                          "arrow-key-prefix",
	BackwardByte:                            "backward-byte",
	BackwardChar:                            "backward-char",
	BackwardDeleteChar:                      "backward-delete-char",
	BackwardKillLine:                        "backward-kill-line",
	BackwardKillWord:                        "backward-kill-word",
	BackwardWord:                            "backward-word",
	BeginningOfHistory:                      "beginning-of-history",
	BeginningOfLine:                         "beginning-of-line",
	CallLastKbdMacro:                        "call-last-kbd-macro",
	CapitalizeWord:                          "capitalize-word",
	CharacterSearch:                         "character-search",
	CharacterSearchBackward:                 "character-search-backward",
	ClearScreen:                             "clear-screen",
	Complete:                                "complete",
	CopyBackwardWord:                        "copy-backward-word",
	CopyForwardWord:                         "copy-forward-word",
	CopyRegionAsKill:                        "copy-region-as-kill",
	DeleteChar:                              "delete-char",
	DeleteCharOrList:                        "delete-char-or-list",
	DeleteHorizontalSpace:                   "delete-horizontal-space",
	DigitArgument:                           "digit-argument",
	DoLowercaseVersion:                      "do-lowercase-version",
	DowncaseWord:                            "downcase-word",
	DumpFunctions:                           "dump-functions",
	DumpMacros:                              "dump-macros",
	DumpVariables:                           "dump-variables",
	EmacsEditingMode:                        "emacs-editing-mode",
	EndKbdMacro:                             "end-kbd-macro",
	EndOfHistory:                            "end-of-history",
	EndOfLine:                               "end-of-line",
	ExchangePointAndMark:                    "exchange-point-and-mark",
	ExitOrDeleteChar:                        "exit-or-delete-char",
	ForwardBackwardDeleteChar:               "forward-backward-delete-char",
	ForwardByte:                             "forward-byte",
	ForwardChar:                             "forward-char",
	ForwardSearchHistory:                    "forward-search-history",
	ForwardWord:                             "forward-word",
	HistorySearchBackward:                   "history-search-backward",
	HistorySearchForward:                    "history-search-forward",
	InsertCloseCurly:                        "insert-close-curly",
	InsertCloseParen:                        "insert-close-paren",
	InsertCloseSquare:                       "insert-close-square",
	InsertComment:                           "insert-comment",
	InsertCompletions:                       "insert-completions",
	KillWholeLine:                           "kill-whole-line",
	KillLine:                                "kill-line",
	KillRegion:                              "kill-region",
	KillWord:                                "kill-word",
	MenuComplete:                            "menu-complete",
	MenuCompleteBackward:                    "menu-complete-backward",
	NextHistory:                             "next-history",
	NonIncrementalForwardSearchHistory:      "non-incremental-forward-search-history",
	NonIncrementalReverseSearchHistory:      "non-incremental-reverse-search-history",
	NonIncrementalForwardSearchHistoryAgain: "non-incremental-forward-search-history-again",
	NonIncrementalReverseSearchHistoryAgain: "non-incremental-reverse-search-history-again",
	OldMenuComplete:                         "old-menu-complete",
	OverwriteMode:                           "overwrite-mode",
	PasteFromClipboard:                      "paste-from-clipboard",
	PossibleCompletions:                     "possible-completions",
	PreviousHistory:                         "previous-history",
	QuotedInsert:                            "quoted-insert",
	ReReadInitFile:                          "re-read-init-file",
	RedrawCurrentLine:                       "redraw-current-line",
	ReverseSearchHistory:                    "reverse-search-history",
	RevertLine:                              "revert-line",
	SelfInsert:                              "self-insert",
	SetMark:                                 "set-mark",
	SkipCSISequence:                         "skip-csi-sequence",
	StartKbdMacro:                           "start-kbd-macro",
	TabInsert:                               "tab-insert",
	TildeExpand:                             "tilde-expand",
	TransposeChars:                          "transpose-chars",
	TransposeWords:                          "transpose-words",
	TTYStatus:                               "tty-status",
	Undo:                                    "undo",
	UniversalArgument:                       "universal-argument",
	UnixFilenameRubout:                      "unix-filename-rubout",
	UnixLineDiscard:                         "unix-line-discard",
	UnixWordRubout:                          "unix-word-rubout",
	UpcaseWord:                              "upcase-word",
	Yank:                                    "yank",
	YankLastArg:                             "yank-last-arg",
	YankNthArg:                              "yank-nth-arg",
	YankPop:                                 "yank-pop",
	ViAppendEol:                             "vi-append-eol",
	ViAppendMode:                            "vi-append-mode",
	ViArgDigit:                              "vi-arg-digit",
	ViBackToIndent:                          "vi-back-to-indent",
	ViBackwardBigword:                       "vi-backward-bigword",
	ViBackwardWord:                          "vi-backward-word",
	ViBword:                                 "vi-bword",
	ViChangeCase:                            "vi-change-case",
	ViChangeChar:                            "vi-change-char",
	ViChangeTo:                              "vi-change-to",
	ViCharSearch:                            "vi-char-search",
	ViColumn:                                "vi-column",
	ViComplete:                              "vi-complete",
	ViDelete:                                "vi-delete",
	ViDeleteTo:                              "vi-delete-to",
	ViEditingMode:                           "vi-editing-mode",
	ViEndBigword:                            "vi-end-bigword",
	ViEndWord:                               "vi-end-word",
	ViEOFMaybe:                              "vi-eof-maybe",
	ViEword:                                 "vi-eword",
	ViFword:                                 "vi-fword",
	ViFetchHistory:                          "vi-fetch-history",
	ViFirstPrint:                            "vi-first-print",
	ViForwardBigword:                        "vi-forward-bigword",
	ViForwardWord:                           "vi-forward-word",
	ViGotoMark:                              "vi-goto-mark",
	ViInsertBeg:                             "vi-insert-beg",
	ViInsertionMode:                         "vi-insertion-mode",
	ViMatch:                                 "vi-match",
	ViMovementMode:                          "vi-movement-mode",
	ViNextWord:                              "vi-next-word",
	ViOverstrike:                            "vi-overstrike",
	ViOverstrikeDelete:                      "vi-overstrike-delete",
	ViPrevWord:                              "vi-prev-word",
	ViPut:                                   "vi-put",
	ViRedo:                                  "vi-redo",
	ViReplace:                               "vi-replace",
	ViRubout:                                "vi-rubout",
	ViSearch:                                "vi-search",
	ViSearchAgain:                           "vi-search-again",
	ViSetMark:                               "vi-set-mark",
	ViSubst:                                 "vi-subst",
	ViTildeExpand:                           "vi-tilde-expand",
	ViYankArg:                               "vi-yank-arg",
	ViYankTo:                                "vi-yank-to",
	ViMoveAcceptLine:                        "vi-move-accept-line",
	ViNextHistory:                           "vi-next-history",
	ViPreviousHistory:                       "vi-previous-history",
	ViInsertComment:                         "vi-insert-comment",
	ViBeginningOfLineOrArgDigit:             "vi-beginning-of-line-or-arg-digit",
	Interrupt:                               "interrupt",
}

var operationsByName = func() map[string]Operation {
	m := make(map[string]Operation, operationCount)
	for op, name := range operationNames {
		m[name] = Operation(op)
	}
	return m
}()

// String returns the inputrc function name, e.g. "backward-kill-word".
func (op Operation) String() string {
	if op < 0 || op >= operationCount {
		return fmt.Sprintf("operation(%d)", int(op))
	}
	return operationNames[op]
}

// ParseOperation maps an inputrc function name to its Operation. Matching is
// case-insensitive and accepts underscores in place of dashes.
func ParseOperation(name string) (Operation, error) {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "_", "-"))
	if op, ok := operationsByName[key]; ok {
		return op, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
}
