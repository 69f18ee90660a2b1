package vscreen

import (
	"fmt"
	"image/color"
	"sync"

	"github.com/danielgatis/go-ansicode"
	log "github.com/sirupsen/logrus"
)

// Ensure Interpreter implements ansicode.Handler
var _ ansicode.Handler = (*Interpreter)(nil)

// tabWidth is the distance between fixed tab stops.
const tabWidth = 8

// Interpreter decodes an ANSI byte stream and drives a Screen.
// It is the single writer of the screen it wraps.
type Interpreter struct {
	mu      sync.Mutex
	screen  *Screen
	decoder *ansicode.Decoder

	response ResponseProvider
	bell     BellProvider
	logger   log.FieldLogger

	titleStack []string
}

// InterpreterOption configures an Interpreter.
type InterpreterOption func(*Interpreter)

// WithResponse sets where replies such as cursor position reports are written.
func WithResponse(p ResponseProvider) InterpreterOption {
	return func(i *Interpreter) {
		i.response = p
	}
}

// WithBell sets the receiver of BEL characters.
func WithBell(p BellProvider) InterpreterOption {
	return func(i *Interpreter) {
		i.bell = p
	}
}

// NewInterpreter creates an interpreter writing to screen. It logs through
// the screen's logger.
func NewInterpreter(screen *Screen, opts ...InterpreterOption) *Interpreter {
	i := &Interpreter{
		screen:   screen,
		response: NoopResponse{},
		bell:     NoopBell{},
		logger:   screen.logger,
	}
	for _, opt := range opts {
		opt(i)
	}
	i.decoder = ansicode.NewDecoder(i)
	return i
}

// Screen returns the screen driven by the interpreter.
func (i *Interpreter) Screen() *Screen {
	return i.screen
}

// Write feeds raw bytes from the host into the decoder. It implements io.Writer.
func (i *Interpreter) Write(data []byte) (n int, err error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			i.logger.WithField("panic", r).Warn("escape sequence handler failed")
			n, err = len(data), nil
		}
	}()
	return i.decoder.Write(data)
}

// WriteString is a convenience wrapper around Write.
func (i *Interpreter) WriteString(s string) (int, error) {
	return i.Write([]byte(s))
}

func (i *Interpreter) respond(format string, args ...any) {
	if _, err := fmt.Fprintf(i.response, format, args...); err != nil {
		i.logger.WithError(err).Debug("write response")
	}
}

func (i *Interpreter) unsupported(name string, args ...any) {
	i.logger.WithField("args", args).Debugf("unsupported sequence %s", name)
}

// --- Text and control characters ---

// Input writes a printable character at the cursor.
func (i *Interpreter) Input(r rune) {
	i.screen.PutRune(r)
}

// Backspace moves the cursor one column left.
func (i *Interpreter) Backspace() {
	i.screen.CursorMove(0, -1, false)
}

// Bell rings the bell provider.
func (i *Interpreter) Bell() {
	i.bell.Ring()
}

// CarriageReturn moves the cursor to column 0.
func (i *Interpreter) CarriageReturn() {
	i.screen.CursorSetX(0)
}

// LineFeed moves the cursor down, scrolling at the bottom. In newline mode
// it also returns to column 0.
func (i *Interpreter) LineFeed() {
	i.screen.CursorMove(1, 0, true)
	if i.screen.Cursor().NewlineMode {
		i.screen.CursorSetX(0)
	}
}

// ReverseIndex moves the cursor up, scrolling at the top.
func (i *Interpreter) ReverseIndex() {
	i.screen.CursorMove(-1, 0, true)
}

// Substitute prints the replacement glyph for a cancelled sequence.
func (i *Interpreter) Substitute() {
	i.screen.PutRune('?')
}

// Tab advances to the n-th next tab stop. Tab stops are fixed every 8 columns.
func (i *Interpreter) Tab(n int) {
	i.MoveForwardTabs(n)
}

// MoveForwardTabs advances to the n-th next tab stop.
func (i *Interpreter) MoveForwardTabs(n int) {
	if n <= 0 {
		n = 1
	}
	_, x := i.screen.CursorGet()
	i.screen.CursorSetX((x/tabWidth + n) * tabWidth)
}

// MoveBackwardTabs goes back to the n-th previous tab stop.
func (i *Interpreter) MoveBackwardTabs(n int) {
	if n <= 0 {
		n = 1
	}
	_, x := i.screen.CursorGet()
	i.screen.CursorSetX(((x+tabWidth-1)/tabWidth - n) * tabWidth)
}

func (i *Interpreter) HorizontalTabSet() {
	i.unsupported("HorizontalTabSet")
}

func (i *Interpreter) ClearTabs(mode ansicode.TabulationClearMode) {
	i.unsupported("ClearTabs", mode)
}

// --- Clearing and editing ---

// ClearLine erases part of the cursor row.
func (i *Interpreter) ClearLine(mode ansicode.LineClearMode) {
	switch mode {
	case ansicode.LineClearModeRight:
		i.screen.ClearLine(ClearFromCursor)
	case ansicode.LineClearModeLeft:
		i.screen.ClearLine(ClearToCursor)
	case ansicode.LineClearModeAll:
		i.screen.ClearLine(ClearAll)
	}
}

// ClearScreen erases part of the screen. There is no scrollback to clear.
func (i *Interpreter) ClearScreen(mode ansicode.ClearMode) {
	switch mode {
	case ansicode.ClearModeBelow:
		i.screen.Clear(ClearFromCursor)
	case ansicode.ClearModeAbove:
		i.screen.Clear(ClearToCursor)
	case ansicode.ClearModeAll:
		i.screen.Clear(ClearAll)
	case ansicode.ClearModeSaved:
		i.unsupported("ClearScreen", mode)
	}
}

// Decaln fills the screen with 'E' (DEC screen alignment test).
func (i *Interpreter) Decaln() {
	i.screen.FillWithE()
}

// DeleteChars removes n characters at the cursor.
func (i *Interpreter) DeleteChars(n int) {
	i.screen.DeleteCharacters(n)
}

// DeleteLines removes n lines at the cursor row.
func (i *Interpreter) DeleteLines(n int) {
	i.screen.DeleteLines(n)
}

// EraseChars blanks n characters from the cursor without shifting.
func (i *Interpreter) EraseChars(n int) {
	i.screen.ClearInLine(n)
}

// InsertBlank inserts n blank characters at the cursor.
func (i *Interpreter) InsertBlank(n int) {
	i.screen.InsertCharacters(n)
}

// InsertBlankLines inserts n blank lines at the cursor row.
func (i *Interpreter) InsertBlankLines(n int) {
	i.screen.InsertLines(n)
}

// ScrollUp shifts the screen content up by n lines.
func (i *Interpreter) ScrollUp(n int) {
	i.screen.ScrollUp(n)
}

// ScrollDown shifts the screen content down by n lines.
func (i *Interpreter) ScrollDown(n int) {
	i.screen.ScrollDown(n)
}

// SetScrollingRegion is not supported: scrolling always covers the whole screen.
func (i *Interpreter) SetScrollingRegion(top, bottom int) {
	i.unsupported("SetScrollingRegion", top, bottom)
	i.screen.CursorSet(0, 0)
}

// --- Cursor movement ---

// Goto moves the cursor to (row, col).
func (i *Interpreter) Goto(row, col int) {
	i.screen.CursorSet(row, col)
}

// GotoCol moves the cursor to col, keeping the row.
func (i *Interpreter) GotoCol(col int) {
	i.screen.CursorSetX(col)
}

// GotoLine moves the cursor to row, keeping the column.
func (i *Interpreter) GotoLine(row int) {
	i.screen.CursorSetY(row)
}

func (i *Interpreter) MoveBackward(n int) {
	i.screen.CursorMove(0, -n, false)
}

func (i *Interpreter) MoveForward(n int) {
	i.screen.CursorMove(0, n, false)
}

func (i *Interpreter) MoveUp(n int) {
	i.screen.CursorMove(-n, 0, false)
}

func (i *Interpreter) MoveDown(n int) {
	i.screen.CursorMove(n, 0, false)
}

// MoveUpCr moves up n+1 lines and to column 0.
func (i *Interpreter) MoveUpCr(n int) {
	i.screen.CursorMove(-lineCount(n), 0, false)
	i.screen.CursorSetX(0)
}

// MoveDownCr moves down n+1 lines and to column 0.
func (i *Interpreter) MoveDownCr(n int) {
	i.screen.CursorMove(lineCount(n), 0, false)
	i.screen.CursorSetX(0)
}

// lineCount converts the zero-based count the decoder passes for CNL and
// CPL into a line count of at least one.
func lineCount(n int) int {
	if n < 0 {
		return 1
	}
	return n + 1
}

// SaveCursorPosition saves the position, pen and charsets (DECSC).
func (i *Interpreter) SaveCursorPosition() {
	i.screen.CursorSave(true)
}

// RestoreCursorPosition restores what SaveCursorPosition stored (DECRC).
func (i *Interpreter) RestoreCursorPosition() {
	i.screen.CursorRestore(true)
}

func (i *Interpreter) SetCursorStyle(style ansicode.CursorStyle) {
	i.unsupported("SetCursorStyle", style)
}

// --- Charsets ---

// ConfigureCharset designates a charset for slot G0 or G1.
func (i *Interpreter) ConfigureCharset(index ansicode.CharsetIndex, charset ansicode.Charset) {
	designator := CharsetUS
	if int(charset) == 1 {
		designator = CharsetDECGraphics
	}
	i.screen.SetCharset(int(index), designator)
}

// SetActiveCharset selects the slot used for subsequent characters.
func (i *Interpreter) SetActiveCharset(n int) {
	i.screen.SetCharsetN(n)
}

// --- Modes ---

// SetMode enables a terminal mode.
func (i *Interpreter) SetMode(mode ansicode.TerminalMode) {
	i.setMode(mode, true)
}

// UnsetMode disables a terminal mode.
func (i *Interpreter) UnsetMode(mode ansicode.TerminalMode) {
	i.setMode(mode, false)
}

func (i *Interpreter) setMode(mode ansicode.TerminalMode, set bool) {
	switch mode {
	case ansicode.TerminalModeCursorKeys:
		i.screen.SetCursorsAltMode(set)
	case ansicode.TerminalModeInsert:
		i.screen.SetInsertMode(set)
	case ansicode.TerminalModeLineWrap:
		i.screen.WrapEnable(set)
	case ansicode.TerminalModeLineFeedNewLine:
		i.screen.SetNewlineMode(set)
	case ansicode.TerminalModeShowCursor:
		i.screen.CursorVisible(set)
	default:
		i.unsupported("SetMode", mode, set)
	}
}

// SetKeypadApplicationMode enables application keypad mode (DECKPAM).
func (i *Interpreter) SetKeypadApplicationMode() {
	i.screen.SetNumpadAltMode(true)
}

// UnsetKeypadApplicationMode returns the keypad to numeric mode (DECKPNM).
func (i *Interpreter) UnsetKeypadApplicationMode() {
	i.screen.SetNumpadAltMode(false)
}

// ResetState performs a full reset (RIS).
func (i *Interpreter) ResetState() {
	i.screen.Reset()
	i.titleStack = nil
}

// --- Rendition ---

// SetTerminalCharAttribute applies one SGR attribute to the pen.
func (i *Interpreter) SetTerminalCharAttribute(attr ansicode.TerminalCharAttribute) {
	s := i.screen
	switch attr.Attr {
	case ansicode.CharAttributeReset:
		s.ResetSGR()
	case ansicode.CharAttributeBold:
		s.AttrEnable(AttrBold)
	case ansicode.CharAttributeDim:
		s.AttrEnable(AttrFaint)
	case ansicode.CharAttributeItalic:
		s.AttrEnable(AttrItalic)
	case ansicode.CharAttributeUnderline,
		ansicode.CharAttributeDoubleUnderline,
		ansicode.CharAttributeCurlyUnderline,
		ansicode.CharAttributeDottedUnderline,
		ansicode.CharAttributeDashedUnderline:
		s.AttrEnable(AttrUnderline)
	case ansicode.CharAttributeBlinkSlow, ansicode.CharAttributeBlinkFast:
		s.AttrEnable(AttrBlink)
	case ansicode.CharAttributeReverse:
		s.InverseEnable(true)
	case ansicode.CharAttributeStrike:
		s.AttrEnable(AttrStrike)
	case ansicode.CharAttributeCancelBold:
		s.AttrDisable(AttrBold)
	case ansicode.CharAttributeCancelBoldDim:
		s.AttrDisable(AttrBold | AttrFaint)
	case ansicode.CharAttributeCancelItalic:
		s.AttrDisable(AttrItalic | AttrFraktur)
	case ansicode.CharAttributeCancelUnderline:
		s.AttrDisable(AttrUnderline)
	case ansicode.CharAttributeCancelBlink:
		s.AttrDisable(AttrBlink)
	case ansicode.CharAttributeCancelReverse:
		s.InverseEnable(false)
	case ansicode.CharAttributeCancelStrike:
		s.AttrDisable(AttrStrike)
	case ansicode.CharAttributeForeground:
		s.SetFg(i.resolveColor(attr, true))
	case ansicode.CharAttributeBackground:
		s.SetBg(i.resolveColor(attr, false))
	default:
		i.unsupported("SetTerminalCharAttribute", attr.Attr)
	}
}

// resolveColor maps an SGR color onto the 16 screen colors. Extended colors
// are matched to the nearest palette entry; defaults come from the config.
func (i *Interpreter) resolveColor(attr ansicode.TerminalCharAttribute, fg bool) Color {
	if attr.RGBColor != nil {
		return NearestColor(color.RGBA{R: attr.RGBColor.R, G: attr.RGBColor.G, B: attr.RGBColor.B, A: 255})
	}
	if attr.IndexedColor != nil {
		return IndexedColor(int(attr.IndexedColor.Index))
	}

	cfg := i.screen.Scratch()
	def := cfg.DefaultBg
	if fg {
		def = cfg.DefaultFg
	}
	if attr.NamedColor == nil {
		return def
	}

	switch name := int(*attr.NamedColor); {
	case name >= 0 && name < 16:
		return Color(name)
	case name == 256: // foreground
		return cfg.DefaultFg
	case name == 257: // background
		return cfg.DefaultBg
	case name >= 259 && name <= 266: // dim variants
		return Color(name - 259)
	case name == 267: // bright foreground
		return ColorBrightWhite
	default:
		return def
	}
}

// --- Reports ---

// DeviceStatus answers DSR: ready (n=5) or cursor position (n=6).
func (i *Interpreter) DeviceStatus(n int) {
	switch n {
	case 5:
		i.respond("\x1b[0n")
	case 6:
		y, x := i.screen.CursorGet()
		i.respond("\x1b[%d;%dR", y+1, x+1)
	}
}

// IdentifyTerminal answers DA as a VT220.
func (i *Interpreter) IdentifyTerminal(b byte) {
	i.respond("\x1b[?62;c")
}

// TextAreaSizeChars reports the screen size in characters.
func (i *Interpreter) TextAreaSizeChars() {
	i.respond("\x1b[8;%d;%dt", i.screen.Rows(), i.screen.Cols())
}

func (i *Interpreter) TextAreaSizePixels() {
	i.unsupported("TextAreaSizePixels")
}

func (i *Interpreter) CellSizePixels() {
	i.unsupported("CellSizePixels")
}

// --- Title ---

// SetTitle sets the title shown by the front-end.
func (i *Interpreter) SetTitle(title string) {
	i.screen.SetTitle(title)
}

// PushTitle saves the current title.
func (i *Interpreter) PushTitle() {
	i.titleStack = append(i.titleStack, i.screen.Scratch().Title)
}

// PopTitle restores the last pushed title.
func (i *Interpreter) PopTitle() {
	if len(i.titleStack) == 0 {
		return
	}
	title := i.titleStack[len(i.titleStack)-1]
	i.titleStack = i.titleStack[:len(i.titleStack)-1]
	i.screen.SetTitle(title)
}

// --- Ignored sequences ---

func (i *Interpreter) ApplicationCommandReceived(data []byte) {
	i.unsupported("APC", len(data))
}

func (i *Interpreter) PrivacyMessageReceived(data []byte) {
	i.unsupported("PM", len(data))
}

func (i *Interpreter) StartOfStringReceived(data []byte) {
	i.unsupported("SOS", len(data))
}

func (i *Interpreter) ClipboardLoad(clipboard byte, terminator string) {
	i.unsupported("ClipboardLoad", clipboard)
}

func (i *Interpreter) ClipboardStore(clipboard byte, data []byte) {
	i.unsupported("ClipboardStore", clipboard)
}

func (i *Interpreter) PushKeyboardMode(mode ansicode.KeyboardMode) {
	i.unsupported("PushKeyboardMode", mode)
}

func (i *Interpreter) PopKeyboardMode(n int) {
	i.unsupported("PopKeyboardMode", n)
}

func (i *Interpreter) SetKeyboardMode(mode ansicode.KeyboardMode, behavior ansicode.KeyboardModeBehavior) {
	i.unsupported("SetKeyboardMode", mode, behavior)
}

func (i *Interpreter) ReportKeyboardMode() {
	i.unsupported("ReportKeyboardMode")
}

func (i *Interpreter) SetModifyOtherKeys(modify ansicode.ModifyOtherKeys) {
	i.unsupported("SetModifyOtherKeys", modify)
}

func (i *Interpreter) ReportModifyOtherKeys() {
	i.unsupported("ReportModifyOtherKeys")
}

func (i *Interpreter) SetColor(index int, c color.Color) {
	i.unsupported("SetColor", index)
}

func (i *Interpreter) ResetColor(index int) {
	i.unsupported("ResetColor", index)
}

func (i *Interpreter) SetDynamicColor(prefix string, index int, terminator string) {
	i.unsupported("SetDynamicColor", prefix, index)
}

func (i *Interpreter) SetHyperlink(hyperlink *ansicode.Hyperlink) {
	i.unsupported("SetHyperlink")
}

func (i *Interpreter) DesktopNotification(payload *ansicode.NotificationPayload) {
	i.unsupported("DesktopNotification")
}

func (i *Interpreter) SetUserVar(name, value string) {
	i.unsupported("SetUserVar", name)
}

func (i *Interpreter) SetWorkingDirectory(uri string) {
	i.unsupported("SetWorkingDirectory", uri)
}

func (i *Interpreter) ShellIntegrationMark(mark ansicode.ShellIntegrationMark, exitCode int) {
	i.unsupported("ShellIntegrationMark", mark, exitCode)
}

func (i *Interpreter) SixelReceived(params [][]uint16, data []byte) {
	i.unsupported("Sixel", len(data))
}
