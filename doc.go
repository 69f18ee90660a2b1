// Package vscreen provides the virtual screen of a small network terminal.
//
// The screen is a fixed-capacity grid of cells (glyph, colors, attributes)
// driven by editing primitives, and serialized into a compact text-safe
// format that a web front-end decodes and renders.
//
// # Quick Start
//
// Create a screen, feed it ANSI output through an interpreter and encode it:
//
//	screen := vscreen.New()
//	term := vscreen.NewInterpreter(screen)
//	term.WriteString("\x1b[31mHello \x1b[32mWorld\x1b[0m!")
//
//	buf := make([]byte, 512)
//	var cur vscreen.SerializeCursor
//	for {
//	    n, status := screen.SerializeToBuffer(buf, &cur)
//	    send(buf[:n])
//	    if status != vscreen.SerializeMore {
//	        break
//	    }
//	}
//
// # Architecture
//
//   - [Screen]: the grid, the cursor and the live and scratch configuration
//   - [Grid]: a rows x cols view over a fixed [MaxScreenSize] cell arena
//   - [Cell]: a UTF-8 glyph with 16-color fg/bg and attribute bits
//   - [Cursor]: position, pen, charsets and terminal modes
//   - [Interpreter]: an ANSI decoder that turns a byte stream into screen edits
//
// # Editing
//
// Screen methods such as [Screen.PutRune], [Screen.Clear], [Screen.InsertLines]
// and [Screen.CursorMove] never fail. Out-of-range coordinates, counts and
// colors are clamped or ignored. Erased cells take the configured default
// colors, not the pen's.
//
// # Configuration
//
// A screen holds two [TerminalConfig] values. The scratch copy is what
// in-band settings (title, button labels) and [Screen.UpdateScratch] modify;
// [Screen.ApplySettings] commits it and reinitializes the grid, while
// [Screen.ApplySettingsNoClear] commits and resizes in place.
// [Screen.ReloadSettings] throws scratch edits away. The persisted record is
// a fixed [TermConfSize] byte layout produced by [TerminalConfig.MarshalBinary].
//
// # Wire Format
//
// [Screen.SerializeToBuffer] writes a frame in chunks of any size from
// [MinChunkSize] up. Numbers use a base-91 codec ([Encode2B], [Encode3B])
// whose bytes are printable and never '"' or '\', so frames can be embedded
// in JSON or sent as text WebSocket messages. If the screen changes between
// chunks the pass returns [SerializeRestart] and the caller starts over.
// [DecodeFrame] and [DecodeLabels] parse the output.
//
// # Change Notification
//
// Every mutation that changes a frame bumps [Screen.Generation] and calls
// [Notifier.NotifyChange] with [ChangeContent] or [ChangeLabels] after the
// screen lock is released. [Broadcaster] fans these out to channels.
//
// # Thread Safety
//
// All Screen methods are safe for concurrent use. An [Interpreter] serializes
// its own writes and should be the only writer of its screen.
package vscreen
