package vscreen

// MaxScreenSize is the capacity of the cell arena (80x25).
const MaxScreenSize = 80 * 25

// Grid stores a rows x cols view over a fixed-capacity cell arena.
// Cells are addressed as y*cols+x. Resizing never reallocates.
type Grid struct {
	rows  int
	cols  int
	cells [MaxScreenSize]Cell
}

// NewGrid creates a grid with the given dimensions, filled with fill.
func NewGrid(rows, cols int, fill Cell) *Grid {
	g := &Grid{}
	g.rows, g.cols = clampDims(rows, cols)
	g.ClearAll(fill)
	return g
}

// clampDims limits rows and cols so that rows*cols fits the arena.
// Widths beyond the arena collapse to a single row.
func clampDims(rows, cols int) (int, int) {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	if cols > MaxScreenSize {
		return 1, MaxScreenSize
	}
	if rows > MaxScreenSize/cols {
		rows = MaxScreenSize / cols
	}
	return rows, cols
}

// Rows returns the grid height in character rows.
func (g *Grid) Rows() int {
	return g.rows
}

// Cols returns the grid width in character columns.
func (g *Grid) Cols() int {
	return g.cols
}

// IsCoordValid reports whether (y, x) lies inside the logical view.
func (g *Grid) IsCoordValid(y, x int) bool {
	return y >= 0 && y < g.rows && x >= 0 && x < g.cols
}

// Cell returns a pointer to the cell at (y, x).
// Returns nil if coordinates are out of bounds.
func (g *Grid) Cell(y, x int) *Cell {
	if !g.IsCoordValid(y, x) {
		return nil
	}
	return &g.cells[y*g.cols+x]
}

// SetCell replaces the cell at (y, x).
// Does nothing if coordinates are out of bounds.
func (g *Grid) SetCell(y, x int, cell Cell) {
	if !g.IsCoordValid(y, x) {
		return
	}
	g.cells[y*g.cols+x] = cell
}

// row returns the slice backing row y. The caller must validate y.
func (g *Grid) row(y int) []Cell {
	start := y * g.cols
	return g.cells[start : start+g.cols]
}

// view returns all logical cells in row-major order.
func (g *Grid) view() []Cell {
	return g.cells[:g.rows*g.cols]
}

func fillCells(cells []Cell, fill Cell) {
	for i := range cells {
		cells[i] = fill
	}
}

// ClearAll sets every logical cell to fill.
func (g *Grid) ClearAll(fill Cell) {
	fillCells(g.view(), fill)
}

// ClearRange sets the cells from index start (inclusive) to end (exclusive),
// counted in row-major order, to fill. The range is clamped to the view.
func (g *Grid) ClearRange(start, end int, fill Cell) {
	if start < 0 {
		start = 0
	}
	if total := g.rows * g.cols; end > total {
		end = total
	}
	if start >= end {
		return
	}
	fillCells(g.cells[start:end], fill)
}

// ClearRowRange sets cells in row y from startCol (inclusive) to endCol (exclusive) to fill.
func (g *Grid) ClearRowRange(y, startCol, endCol int, fill Cell) {
	if y < 0 || y >= g.rows {
		return
	}
	startCol = clamp(startCol, 0, g.cols)
	endCol = clamp(endCol, 0, g.cols)
	if startCol >= endCol {
		return
	}
	fillCells(g.row(y)[startCol:endCol], fill)
}

// ScrollUp shifts lines up by n positions within [top, bottom).
// Lines scrolled off the top are discarded. Exposed lines are filled.
func (g *Grid) ScrollUp(top, bottom, n int, fill Cell) {
	if top < 0 {
		top = 0
	}
	if bottom > g.rows {
		bottom = g.rows
	}
	if n <= 0 || top >= bottom {
		return
	}
	if n > bottom-top {
		n = bottom - top
	}

	region := g.cells[top*g.cols : bottom*g.cols]
	copy(region, region[n*g.cols:])
	fillCells(region[len(region)-n*g.cols:], fill)
}

// ScrollDown shifts lines down by n positions within [top, bottom).
// Lines pushed past bottom are discarded. Exposed lines are filled.
func (g *Grid) ScrollDown(top, bottom, n int, fill Cell) {
	if top < 0 {
		top = 0
	}
	if bottom > g.rows {
		bottom = g.rows
	}
	if n <= 0 || top >= bottom {
		return
	}
	if n > bottom-top {
		n = bottom - top
	}

	region := g.cells[top*g.cols : bottom*g.cols]
	copy(region[n*g.cols:], region)
	fillCells(region[:n*g.cols], fill)
}

// InsertLines inserts n blank lines at row y, shifting the lines below down.
func (g *Grid) InsertLines(y, n int, fill Cell) {
	if y < 0 || y >= g.rows || n <= 0 {
		return
	}
	g.ScrollDown(y, g.rows, n, fill)
}

// DeleteLines removes n lines at row y, shifting the lines below up.
func (g *Grid) DeleteLines(y, n int, fill Cell) {
	if y < 0 || y >= g.rows || n <= 0 {
		return
	}
	g.ScrollUp(y, g.rows, n, fill)
}

// InsertBlanks inserts n blank cells at (y, x), shifting the rest of the row right.
// Cells pushed past the last column are discarded.
func (g *Grid) InsertBlanks(y, x, n int, fill Cell) {
	if !g.IsCoordValid(y, x) || n <= 0 {
		return
	}
	line := g.row(y)[x:]
	if n > len(line) {
		n = len(line)
	}
	copy(line[n:], line)
	fillCells(line[:n], fill)
}

// DeleteChars removes n cells at (y, x), shifting the rest of the row left.
// The end of the row is filled.
func (g *Grid) DeleteChars(y, x, n int, fill Cell) {
	if !g.IsCoordValid(y, x) || n <= 0 {
		return
	}
	line := g.row(y)[x:]
	if n > len(line) {
		n = len(line)
	}
	copy(line, line[n:])
	fillCells(line[len(line)-n:], fill)
}

// Resize changes the logical dimensions, keeping every (y, x) that lies inside
// both the old and the new bounds. Newly exposed cells are set to fill.
// Requests beyond the arena capacity are clamped.
func (g *Grid) Resize(rows, cols int, fill Cell) {
	rows, cols = clampDims(rows, cols)
	oldRows, oldCols := g.rows, g.cols
	if rows == oldRows && cols == oldCols {
		return
	}

	keepRows := min(rows, oldRows)
	keepCols := min(cols, oldCols)

	if cols > oldCols {
		// rows move towards higher addresses; walk backwards so sources survive
		for y := keepRows - 1; y >= 0; y-- {
			dst := g.cells[y*cols : y*cols+cols]
			copy(dst, g.cells[y*oldCols:y*oldCols+keepCols])
			fillCells(dst[keepCols:], fill)
		}
	} else {
		for y := 0; y < keepRows; y++ {
			copy(g.cells[y*cols:y*cols+keepCols], g.cells[y*oldCols:y*oldCols+keepCols])
		}
	}

	g.rows, g.cols = rows, cols
	if rows > keepRows {
		fillCells(g.cells[keepRows*cols:rows*cols], fill)
	}
}

// FillWithE replaces every cell with 'E' in the colors of fill (DECALN).
func (g *Grid) FillWithE(fill Cell) {
	fill.Glyph = GlyphOf('E')
	fill.Attrs = 0
	fillCells(g.view(), fill)
}

// LineContent returns the text content of row y with trailing spaces trimmed.
// Returns an empty string if the row is empty or out of bounds.
func (g *Grid) LineContent(y int) string {
	if y < 0 || y >= g.rows {
		return ""
	}

	line := g.row(y)
	last := -1
	for x := len(line) - 1; x >= 0; x-- {
		if r := line[x].Rune(); r != ' ' {
			last = x
			break
		}
	}
	if last < 0 {
		return ""
	}

	runes := make([]rune, 0, last+1)
	for x := 0; x <= last; x++ {
		runes = append(runes, line[x].Rune())
	}
	return string(runes)
}

// Position identifies a cell location in the grid (0-based).
type Position struct {
	Row int
	Col int
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
