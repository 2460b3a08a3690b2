package game

// direction is a unit step; offsets −3..+3 along it are scanned through
// the placed cell.
type direction struct{ dRow, dCol int }

// scanOrder is also the tie-break: when one move completes lines in two
// directions, only the first one listed here is reported.
var scanOrder = [...]direction{
	{1, 0},  // vertical
	{1, 1},  // diagonal ↘
	{1, -1}, // diagonal ↙
	{0, 1},  // horizontal
}

// Detect reports whether the token owner just placed at (row, col)
// completes four in a row, and if so which line.  Cells off the board
// count as unowned and break a run.
func Detect(b *Board, row, col int, owner Cell) (Line, bool) {
	if !owner.IsPlayer() {
		return Line{}, false
	}
	for _, d := range scanOrder {
		run := 0
		var first Point
		for i := -(ToWin - 1); i <= ToWin-1; i++ {
			r, c := row+i*d.dRow, col+i*d.dCol
			if b.At(r, c) != owner {
				run = 0
				continue
			}
			if run == 0 {
				first = Point{r, c}
			}
			run++
			if run == ToWin {
				return Line{From: first, To: Point{r, c}}, true
			}
		}
	}
	return Line{}, false
}
