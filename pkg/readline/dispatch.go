package readline

import (
	"io"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/robottwo/bishline/pkg/keymap"
	"go.uber.org/zap"
)

// viOperatorRemap limits what may follow a vi delete-to, change-to or
// yank-to. Anything else cancels the operator.
func viOperatorRemap(op keymap.Operation) keymap.Operation {
	switch op {
	case keymap.ViEOFMaybe,
		keymap.Abort,
		keymap.BackwardChar,
		keymap.ForwardChar,
		keymap.EndOfLine,
		keymap.ViMatch,
		keymap.ViBeginningOfLineOrArgDigit,
		keymap.ViArgDigit,
		keymap.ViPrevWord,
		keymap.ViEndWord,
		keymap.ViCharSearch,
		keymap.ViNextWord,
		keymap.ViFirstPrint,
		keymap.ViGotoMark,
		keymap.ViColumn,
		keymap.ViDeleteTo,
		keymap.ViYankTo,
		keymap.ViChangeTo:
		return op
	}
	return keymap.ViMovementMode
}

func (r *Reader) inViMoveOperationState() bool {
	return r.state == stateViChangeTo || r.state == stateViDeleteTo || r.state == stateViYankTo
}

// maxRepeatCount caps numeric arguments so that repeated digits cannot
// overflow.
const maxRepeatCount = 1 << 16

func (r *Reader) addArgDigit(c byte) {
	r.repeatCount = min(r.repeatCount*10+int(c-'0'), maxRepeatCount)
}

func isKillOp(op keymap.Operation) bool {
	switch op {
	case keymap.KillLine, keymap.KillWholeLine, keymap.UnixLineDiscard, keymap.BackwardKillLine,
		keymap.UnixWordRubout, keymap.UnixFilenameRubout, keymap.BackwardKillWord, keymap.KillWord,
		keymap.KillRegion, keymap.CopyRegionAsKill, keymap.CopyBackwardWord, keymap.CopyForwardWord:
		return true
	}
	return false
}

// dispatch runs one resolved operation. done is set when ReadLine has a
// result to return.
func (r *Reader) dispatch(op keymap.Operation, seq []byte) (string, bool, error) {
	if r.state == stateSearch {
		if !r.searchKey(op, seq) {
			r.lastOp = op
			return "", false, nil
		}
	}

	isArgDigit := false
	count := r.repeatCount
	if count == 0 {
		count = 1
	}
	success := true
	wasYank := false

	cursorStart := r.buf.cursor
	origState := r.state
	if r.inViMoveOperationState() {
		op = viOperatorRemap(op)
	}
	if op != keymap.MenuComplete && op != keymap.MenuCompleteBackward && op != keymap.OldMenuComplete {
		r.menu = menuState{}
	}
	if op != keymap.YankLastArg {
		r.lastArg = lastArgState{}
	}

	switch op {
	case keymap.Complete, keymap.ViComplete:
		success = r.complete()

	case keymap.PossibleCompletions:
		r.printCompletionCandidates()

	case keymap.InsertCompletions:
		success = r.insertCompletions()

	case keymap.MenuComplete, keymap.OldMenuComplete:
		success = r.menuComplete(true)

	case keymap.MenuCompleteBackward:
		success = r.menuComplete(false)

	case keymap.DeleteCharOrList:
		if r.buf.cursor < r.buf.Len() {
			success = r.deleteCurrentCharacter()
		} else {
			r.printCompletionCandidates()
		}

	case keymap.BeginningOfLine:
		success = r.setCursorPosition(0)

	case keymap.EndOfLine:
		success = r.moveToEnd()

	case keymap.KillLine:
		success = r.killWith(killDirectionForward, r.killLine)

	case keymap.KillWholeLine:
		success = r.killWith(killDirectionForward, func() bool {
			return r.setCursorPosition(0) && r.killLine()
		})

	case keymap.UnixLineDiscard, keymap.BackwardKillLine:
		success = r.killWith(killDirectionBackward, r.backspaceAll)

	case keymap.UnixWordRubout:
		success = r.killWith(killDirectionBackward, func() bool { return r.unixWordRubout(count) })

	case keymap.UnixFilenameRubout:
		success = r.killWith(killDirectionBackward, r.unixFilenameRubout)

	case keymap.BackwardKillWord:
		success = r.killWith(killDirectionBackward, r.deletePreviousWord)

	case keymap.KillWord:
		success = r.killWith(killDirectionForward, r.deleteNextWord)

	case keymap.KillRegion:
		success = r.killRegion(true)

	case keymap.CopyRegionAsKill:
		success = r.killRegion(false)

	case keymap.CopyBackwardWord:
		success = r.copyWord(false)

	case keymap.CopyForwardWord:
		success = r.copyWord(true)

	case keymap.Yank:
		success = r.killRing.Yank(r)
		wasYank = true

	case keymap.YankPop:
		success = (r.lastOp == keymap.Yank || r.lastOp == keymap.YankPop) && r.killRing.YankPop(r)
		wasYank = success

	case keymap.YankLastArg:
		success = r.yankLastArg()

	case keymap.YankNthArg:
		n := 1
		if r.repeatCount > 0 {
			n = r.repeatCount
		}
		success = r.yankNthArg(n)

	case keymap.ClearScreen:
		success = r.clearScreen()

	case keymap.RedrawCurrentLine:
		r.redrawLine()

	case keymap.OverwriteMode:
		r.buf.SetOvertyping(!r.buf.Overtyping())

	case keymap.SelfInsert:
		s := string(r.completeRune(seq))
		r.putString(strings.Repeat(s, count))

	case keymap.TabInsert:
		r.putString("\t")

	case keymap.QuotedInsert:
		c := r.nextByte()
		if c < 0 {
			success = false
			break
		}
		r.putString(string(r.completeRune([]byte{byte(c)})))

	case keymap.AcceptLine:
		return r.accept()

	case keymap.ViMoveAcceptLine:
		_ = r.keys.SetKeyMap(keymap.ViInsert)
		return r.accept()

	case keymap.BackwardWord:
		success = r.previousWord()

	case keymap.ForwardWord:
		success = r.nextWord()

	case keymap.PreviousHistory:
		success = r.moveHistory(false, 1)

	case keymap.ViPreviousHistory:
		success = r.moveHistory(false, count) && r.setCursorPosition(0)

	case keymap.NextHistory:
		success = r.moveHistory(true, 1)

	case keymap.ViNextHistory:
		success = r.moveHistory(true, count) && r.setCursorPosition(0)

	case keymap.BeginningOfHistory:
		success = r.beginningOfHistory()

	case keymap.EndOfHistory:
		success = r.endOfHistory()

	case keymap.ViFetchHistory:
		success = r.fetchHistory(r.repeatCount)

	case keymap.RevertLine:
		r.setBuffer(r.originalLine)

	case keymap.BackwardDeleteChar:
		success = r.backspace()

	case keymap.ExitOrDeleteChar:
		if r.buf.Len() == 0 {
			r.flush()
			return "", true, io.EOF
		}
		success = r.deleteCurrentCharacter()

	case keymap.DeleteChar:
		success = r.deleteCurrentCharacter()

	case keymap.ForwardBackwardDeleteChar:
		if r.buf.cursor < r.buf.Len() {
			success = r.deleteCurrentCharacter()
		} else {
			success = r.backspace()
		}

	case keymap.BackwardChar, keymap.BackwardByte:
		success = r.moveCursor(-count) != 0

	case keymap.ForwardChar, keymap.ForwardByte:
		success = r.moveCursor(count) != 0

	case keymap.ReverseSearchHistory, keymap.HistorySearchBackward:
		r.startSearch(false)

	case keymap.ForwardSearchHistory, keymap.HistorySearchForward:
		r.startSearch(true)

	case keymap.NonIncrementalReverseSearchHistory:
		r.runViSearch('?')

	case keymap.NonIncrementalForwardSearchHistory:
		r.runViSearch('/')

	case keymap.NonIncrementalReverseSearchHistoryAgain:
		success = r.viSearchAgain(false)

	case keymap.NonIncrementalForwardSearchHistoryAgain:
		success = r.viSearchAgain(true)

	case keymap.CapitalizeWord:
		success = r.capitalizeWord()

	case keymap.UpcaseWord:
		success = r.upCaseWord()

	case keymap.DowncaseWord:
		success = r.downCaseWord()

	case keymap.TransposeChars:
		success = r.transposeChars(count)

	case keymap.TransposeWords:
		success = r.transposeWords()

	case keymap.DeleteHorizontalSpace:
		success = r.deleteHorizontalSpace()

	case keymap.TildeExpand, keymap.ViTildeExpand:
		success = r.tildeExpand()

	case keymap.CharacterSearch, keymap.CharacterSearchBackward:
		ch, ok := r.readRune()
		success = ok && r.characterSearch(ch, count, op == keymap.CharacterSearch)

	case keymap.SetMark:
		r.mark = r.buf.cursor

	case keymap.ExchangePointAndMark:
		success = r.exchangePointAndMark()

	case keymap.ViSetMark:
		_, ok := r.readRune()
		if ok {
			r.mark = r.buf.cursor
		}
		success = ok

	case keymap.ViGotoMark:
		_, ok := r.readRune()
		success = ok && r.mark >= 0 && r.setCursorPosition(min(r.mark, r.buf.Len()))

	case keymap.DigitArgument:
		if c := seq[len(seq)-1]; c >= '0' && c <= '9' {
			r.addArgDigit(c)
		}
		isArgDigit = true

	case keymap.UniversalArgument:
		r.repeatCount = min(max(r.repeatCount, 1)*4, maxRepeatCount)
		isArgDigit = true

	case keymap.ReReadInitFile:
		name := r.KeyMap()
		r.loadInputrc()
		_ = r.keys.SetKeyMap(name)

	case keymap.StartKbdMacro:
		r.recording = true
		r.macro = nil

	case keymap.EndKbdMacro:
		r.recording = false
		// drop the keys that ended the recording
		r.macro = r.macro[:max(0, len(r.macro)-len(seq))]

	case keymap.CallLastKbdMacro:
		r.pushBack(r.macro...)

	case keymap.PasteFromClipboard:
		text, err := clipboard.ReadAll()
		if err != nil {
			r.logger.Debug("clipboard unavailable", zap.Error(err))
			success = false
			break
		}
		r.putString(strings.ReplaceAll(text, "\r\n", "\n"))

	case keymap.InsertComment:
		return r.insertComment(false)

	case keymap.ViInsertComment:
		return r.insertComment(true)

	case keymap.InsertCloseCurly:
		r.insertClose("}")

	case keymap.InsertCloseParen:
		r.insertClose(")")

	case keymap.InsertCloseSquare:
		r.insertClose("]")

	case keymap.Interrupt:
		if r.options.HandleUserInterrupt {
			partial := r.buf.String()
			r.moveToEnd()
			r.println()
			r.buf.Clear()
			r.history.MoveToEnd()
			r.flush()
			return "", true, &InterruptError{Partial: partial}
		}

	case keymap.Abort, keymap.Undo, keymap.ViRedo, keymap.TTYStatus:
		success = false

	case keymap.ArrowKeyPrefix:

	case keymap.SkipCSISequence:
		r.skipCSISequence()

	case keymap.DumpFunctions:
		r.dumpFunctions()

	case keymap.DumpVariables:
		r.dumpVariables()

	case keymap.DumpMacros:
		r.dumpMacros()

	case keymap.EmacsEditingMode:
		_ = r.keys.SetKeyMap(keymap.Emacs)

	case keymap.ViEditingMode, keymap.ViInsertionMode:
		_ = r.keys.SetKeyMap(keymap.ViInsert)

	case keymap.ViMovementMode:
		// only an explicit ESC moves back, not a cancelled operator
		if r.state == stateNormal {
			r.moveCursor(-1)
		}
		r.buf.SetOvertyping(false)
		_ = r.keys.SetKeyMap(keymap.ViMove)

	case keymap.ViAppendMode:
		r.moveCursor(1)
		_ = r.keys.SetKeyMap(keymap.ViInsert)

	case keymap.ViAppendEol:
		success = r.moveToEnd()
		_ = r.keys.SetKeyMap(keymap.ViInsert)

	case keymap.ViInsertBeg:
		success = r.setCursorPosition(0)
		_ = r.keys.SetKeyMap(keymap.ViInsert)

	case keymap.ViReplace:
		r.buf.SetOvertyping(true)
		_ = r.keys.SetKeyMap(keymap.ViInsert)

	case keymap.ViOverstrike:
		over := r.buf.Overtyping()
		r.buf.SetOvertyping(true)
		r.putString(string(r.completeRune(seq)))
		r.buf.SetOvertyping(over)

	case keymap.ViOverstrikeDelete:
		success = r.backspace()

	case keymap.ViSubst:
		success = r.viDelete(count)
		_ = r.keys.SetKeyMap(keymap.ViInsert)

	case keymap.ViEOFMaybe:
		if r.buf.Len() == 0 {
			r.flush()
			return "", true, io.EOF
		}
		return r.accept()

	case keymap.ViMatch:
		success = r.viMatch()

	case keymap.ViSearch:
		r.runViSearch(rune(seq[0]))

	case keymap.ViSearchAgain:
		success = r.viSearchAgain(seq[0] != 'N')

	case keymap.ViArgDigit:
		r.addArgDigit(seq[0])
		isArgDigit = true

	case keymap.ViBeginningOfLineOrArgDigit:
		if r.repeatCount > 0 {
			r.addArgDigit(seq[0])
			isArgDigit = true
		} else {
			success = r.setCursorPosition(0)
		}

	case keymap.ViFirstPrint, keymap.ViBackToIndent:
		success = r.viFirstPrint()

	case keymap.ViColumn:
		success = r.setCursorPosition(min(count-1, r.buf.Len()))

	case keymap.ViPrevWord, keymap.ViBword, keymap.ViBackwardWord, keymap.ViBackwardBigword:
		success = r.viPreviousWord(count)

	case keymap.ViNextWord, keymap.ViFword, keymap.ViForwardWord, keymap.ViForwardBigword:
		success = r.viNextWord(count)

	case keymap.ViEndWord, keymap.ViEword, keymap.ViEndBigword:
		success = r.viEndWord(count)

	case keymap.ViRubout:
		success = r.viRubout(count)

	case keymap.ViDelete:
		success = r.viDelete(count)

	case keymap.ViDeleteTo:
		// "dd" clears the whole line
		if r.state == stateViDeleteTo {
			r.yankBuffer = r.buf.String()
			success = r.setCursorPosition(0) && r.killLine()
			r.state, origState = stateNormal, stateNormal
		} else {
			r.state = stateViDeleteTo
		}

	case keymap.ViYankTo:
		if r.state == stateViYankTo {
			r.yankBuffer = r.buf.String()
			r.state, origState = stateNormal, stateNormal
		} else {
			r.state = stateViYankTo
		}

	case keymap.ViChangeTo:
		if r.state == stateViChangeTo {
			r.yankBuffer = r.buf.String()
			success = r.setCursorPosition(0) && r.killLine()
			r.state, origState = stateNormal, stateNormal
			_ = r.keys.SetKeyMap(keymap.ViInsert)
		} else {
			r.state = stateViChangeTo
		}

	case keymap.ViPut:
		success = r.viPut(count)

	case keymap.ViYankArg:
		success = r.viYankArg()

	case keymap.ViCharSearch:
		// ; and , repeat the previous search and take no argument
		invoke := rune(seq[0])
		var ch rune
		ok := true
		if invoke != ';' && invoke != ',' {
			ch, ok = r.readRune()
		}
		success = ok && r.viCharSearch(count, invoke, ch)

	case keymap.ViChangeCase:
		success = r.viChangeCase(count)

	case keymap.ViChangeChar:
		ch, ok := r.readRune()
		success = r.viChangeChar(count, ch, ok)

	default:
		r.logger.Debug("operation not handled", zap.Stringer("operation", op))
	}

	// finish a pending delete-to, change-to or yank-to now that the motion ran
	if origState != stateNormal && !isArgDigit {
		switch origState {
		case stateViDeleteTo:
			success = r.viDeleteTo(cursorStart, r.buf.cursor)
		case stateViChangeTo:
			success = r.viDeleteTo(cursorStart, r.buf.cursor)
			_ = r.keys.SetKeyMap(keymap.ViInsert)
		case stateViYankTo:
			success = r.viYankTo(cursorStart, r.buf.cursor)
		}
		r.state = stateNormal
	}

	// the count survives while an operator waits for its motion
	if r.state == stateNormal && !isArgDigit {
		r.repeatCount = 0
	}

	if !success {
		r.beep()
	}
	r.killRing.endSequence(isKillOp(op), wasYank)
	r.lastOp = op
	return "", false, nil
}

// killWith runs fn and records whatever it removed in the kill ring.
func (r *Reader) killWith(direction killDirection, fn func() bool) bool {
	before := r.buf.Runes()
	ok := fn()
	if removed := len(before) - r.buf.Len(); removed > 0 {
		from := r.buf.cursor
		r.recordKill(before[from:from+removed], direction)
	}
	return ok
}

func (r *Reader) insertComment(vi bool) (string, bool, error) {
	r.setCursorPosition(0)
	r.putString(r.options.CommentBegin)
	if vi {
		_ = r.keys.SetKeyMap(keymap.ViInsert)
	}
	return r.accept()
}

// insertClose inserts a closing bracket and briefly shows its match.
func (r *Reader) insertClose(s string) {
	r.putString(s)
	closePosition := r.buf.cursor

	r.moveCursor(-1)
	r.viMatch()
	if r.in.NonBlockingEnabled() {
		r.flush()
		r.in.Peek(parenBlinkTimeout)
	}
	r.setCursorPosition(closePosition)
}

// skipCSISequence consumes the rest of an unbound CSI escape sequence.
func (r *Reader) skipCSISequence() {
	for {
		c := r.nextByte()
		if c < 0 || (c >= 0x40 && c <= 0x7e) {
			return
		}
	}
}
