package vscreen

import (
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Screen is the virtual screen: a cell grid, a cursor and the live and
// scratch configuration. All methods are safe for concurrent use; edits are
// exclusive and serialization passes take a shared lock per chunk.
//
// Out-of-range input is clamped or ignored. No operation returns an error.
type Screen struct {
	mu sync.RWMutex

	grid   Grid
	cursor Cursor
	saved  *savedCursor

	// live is the committed configuration, scratch the working copy
	// mutated by in-band settings sequences.
	live    TerminalConfig
	scratch TerminalConfig

	// gen changes whenever anything encoded in a frame changes.
	gen uint64

	notifier Notifier
	logger   log.FieldLogger
}

// Option configures a Screen.
type Option func(*Screen)

// WithConfig sets the initial live configuration. The scratch copy is
// seeded from it.
func WithConfig(cfg TerminalConfig) Option {
	return func(s *Screen) {
		s.live = cfg
	}
}

// WithNotifier sets the receiver of change notifications.
func WithNotifier(n Notifier) Option {
	return func(s *Screen) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithLogger sets the logger used for debug traces.
func WithLogger(l log.FieldLogger) Option {
	return func(s *Screen) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a screen initialized from the default configuration.
func New(opts ...Option) *Screen {
	s := &Screen{
		live:     DefaultTerminalConfig(),
		notifier: NoopNotifier{},
		logger:   log.StandardLogger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.live.Normalize()
	s.scratch = s.live
	s.initLocked()
	return s
}

// mutate runs fn under the write lock. When fn reports a change the
// generation is bumped and topics are notified after the lock is released.
func (s *Screen) mutate(fn func() bool, topics ...Topic) {
	s.mu.Lock()
	changed := fn()
	if changed {
		s.gen++
	}
	notifier := s.notifier
	s.mu.Unlock()

	if !changed {
		return
	}
	for _, topic := range topics {
		notifier.NotifyChange(topic)
	}
}

// fillCell returns a blank cell in the default colors.
func (s *Screen) fillCell() Cell {
	return NewCell(s.scratch.DefaultFg, s.scratch.DefaultBg)
}

func (s *Screen) defaultPen() Pen {
	return Pen{Fg: s.scratch.DefaultFg, Bg: s.scratch.DefaultBg}
}

// clampCursor moves the cursor back inside the grid after a resize.
func (s *Screen) clampCursor() {
	s.cursor.Y = clamp(s.cursor.Y, 0, s.grid.rows-1)
	s.cursor.X = clamp(s.cursor.X, 0, s.grid.cols-1)
}

// --- Lifecycle ---

// Init resizes the grid to the configured dimensions and resets it.
func (s *Screen) Init() {
	s.mutate(func() bool {
		s.initLocked()
		return true
	}, ChangeContent)
}

func (s *Screen) initLocked() {
	s.resizeLocked(s.scratch.Height, s.scratch.Width)
	s.resetLocked()
}

// Reset restores the cursor and modes to their defaults, drops the saved
// cursor and clears the grid without changing its size.
func (s *Screen) Reset() {
	s.mutate(func() bool {
		s.resetLocked()
		return true
	}, ChangeContent)
}

func (s *Screen) resetLocked() {
	s.cursor = newCursor(s.scratch.DefaultFg, s.scratch.DefaultBg)
	s.saved = nil
	s.grid.ClearAll(s.fillCell())
}

// Resize changes the grid dimensions, keeping the content that fits.
// The scratch configuration records the resulting size.
func (s *Screen) Resize(rows, cols int) {
	s.mutate(func() bool {
		oldRows, oldCols := s.grid.rows, s.grid.cols
		s.resizeLocked(rows, cols)
		return oldRows != s.grid.rows || oldCols != s.grid.cols
	}, ChangeContent)
}

func (s *Screen) resizeLocked(rows, cols int) {
	s.grid.Resize(rows, cols, s.fillCell())
	if s.grid.rows != rows || s.grid.cols != cols {
		s.logger.WithFields(log.Fields{
			"rows": rows, "cols": cols,
			"clamped_rows": s.grid.rows, "clamped_cols": s.grid.cols,
		}).Debug("screen size clamped")
	}
	s.scratch.Height, s.scratch.Width = s.grid.rows, s.grid.cols
	s.clampCursor()
}

// IsCoordValid reports whether (y, x) lies inside the grid.
func (s *Screen) IsCoordValid(y, x int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.grid.IsCoordValid(y, x)
}

// --- Configuration ---

// Live returns a copy of the committed configuration.
func (s *Screen) Live() TerminalConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.live
}

// Scratch returns a copy of the working configuration.
func (s *Screen) Scratch() TerminalConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scratch
}

// UpdateLive edits the committed configuration. It takes effect on the
// screen only after ReloadSettings or RestoreDefaults.
func (s *Screen) UpdateLive(fn func(cfg *TerminalConfig)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.live)
	s.live.Normalize()
}

// UpdateScratch edits the working configuration. Colors, theme and labels
// are visible immediately; a new width or height is only applied by
// ApplySettings or ApplySettingsNoClear.
func (s *Screen) UpdateScratch(fn func(cfg *TerminalConfig)) {
	s.mutate(func() bool {
		rows, cols := s.grid.rows, s.grid.cols
		fn(&s.scratch)
		s.scratch.Normalize()
		if s.scratch.Height != rows || s.scratch.Width != cols {
			s.logger.WithFields(log.Fields{
				"width": s.scratch.Width, "height": s.scratch.Height,
			}).Debug("screen size pending until settings are applied")
		}
		return true
	}, ChangeContent, ChangeLabels)
}

// SetTitle sets the scratch title, truncated to TitleLen bytes.
func (s *Screen) SetTitle(title string) {
	title = truncateUTF8(title, TitleLen)
	s.mutate(func() bool {
		if s.scratch.Title == title {
			return false
		}
		s.scratch.Title = title
		return true
	}, ChangeLabels)
}

// SetButtonLabel sets the scratch label of button n (0-based), truncated
// to ButtonLen bytes. Out-of-range buttons are ignored.
func (s *Screen) SetButtonLabel(n int, label string) {
	if n < 0 || n >= ButtonCount {
		return
	}
	label = truncateUTF8(label, ButtonLen)
	s.mutate(func() bool {
		if s.scratch.Buttons[n] == label {
			return false
		}
		s.scratch.Buttons[n] = label
		return true
	}, ChangeLabels)
}

// ApplySettings commits the scratch configuration and reinitializes the
// screen to the committed dimensions.
func (s *Screen) ApplySettings() {
	s.mutate(func() bool {
		s.live = s.scratch
		s.logger.WithFields(log.Fields{
			"width": s.live.Width, "height": s.live.Height,
		}).Debug("settings applied")
		s.initLocked()
		return true
	}, ChangeContent, ChangeLabels)
}

// ApplySettingsNoClear commits the scratch configuration and resizes the
// grid in place, keeping the cells within the old bounds.
func (s *Screen) ApplySettingsNoClear() {
	s.mutate(func() bool {
		s.live = s.scratch
		s.logger.WithFields(log.Fields{
			"width": s.live.Width, "height": s.live.Height,
		}).Debug("settings applied without clearing")
		s.resizeLocked(s.live.Height, s.live.Width)
		return true
	}, ChangeContent, ChangeLabels)
}

// ReloadSettings discards scratch edits by re-seeding the scratch copy from
// the live configuration. The grid is resized in place, not cleared.
func (s *Screen) ReloadSettings() {
	s.mutate(func() bool {
		s.scratch = s.live
		s.resizeLocked(s.scratch.Height, s.scratch.Width)
		return true
	}, ChangeContent, ChangeLabels)
}

// RestoreDefaults resets both configurations to factory settings and
// reinitializes the screen.
func (s *Screen) RestoreDefaults() {
	s.mutate(func() bool {
		s.live = DefaultTerminalConfig()
		s.scratch = s.live
		s.logger.Debug("terminal settings restored to defaults")
		s.initLocked()
		return true
	}, ChangeContent, ChangeLabels)
}

// --- Accessors ---

// Rows returns the grid height.
func (s *Screen) Rows() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.grid.rows
}

// Cols returns the grid width.
func (s *Screen) Cols() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.grid.cols
}

// Cell returns a copy of the cell at (y, x) and whether the coordinate is valid.
func (s *Screen) Cell(y, x int) (Cell, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := s.grid.Cell(y, x)
	if c == nil {
		return Cell{}, false
	}
	return *c, true
}

// Cursor returns a copy of the cursor state.
func (s *Screen) Cursor() Cursor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursor
}

// Generation returns a counter that changes whenever the encoded frame would change.
func (s *Screen) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

// LineContent returns the text of row y with trailing spaces trimmed.
func (s *Screen) LineContent(y int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.grid.LineContent(y)
}

// String returns the visible text, one line per row, trailing spaces and
// trailing empty lines trimmed.
func (s *Screen) String() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lines := make([]string, s.grid.rows)
	for y := range lines {
		lines[y] = s.grid.LineContent(y)
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}
