package game

// Board is the 6×7 grid.  The zero value is an empty board.
type Board struct {
	cells [Rows][Columns]Cell
}

// At returns the owner of (row, col); positions off the board are Empty.
func (b *Board) At(row, col int) Cell {
	if !inBounds(row, col) {
		return Empty
	}
	return b.cells[row][col]
}

// Drop places owner's token in the lowest empty row of col and returns
// that row.
func (b *Board) Drop(col int, owner Cell) (int, error) {
	if !owner.IsPlayer() {
		return -1, ErrNotAPlayer
	}
	if col < 0 || col >= Columns {
		return -1, ErrInvalidColumn
	}
	for row := Rows - 1; row >= 0; row-- {
		if b.cells[row][col] == Empty {
			b.cells[row][col] = owner
			return row, nil
		}
	}
	return -1, ErrColumnFull
}

// Set records owner at an explicit position.  The client mirror uses it
// to apply placements the server already validated; it still refuses to
// overwrite a cell.
func (b *Board) Set(row, col int, owner Cell) error {
	if !owner.IsPlayer() {
		return ErrNotAPlayer
	}
	if !inBounds(row, col) {
		return ErrInvalidCell
	}
	if b.cells[row][col] != Empty {
		return ErrCellOccupied
	}
	b.cells[row][col] = owner
	return nil
}

// ColumnFull reports whether col has no empty cell left.  Out-of-range
// columns count as full.
func (b *Board) ColumnFull(col int) bool {
	if col < 0 || col >= Columns {
		return true
	}
	return b.cells[0][col] != Empty
}

// Full reports whether every cell is occupied.
func (b *Board) Full() bool {
	for col := 0; col < Columns; col++ {
		if b.cells[0][col] == Empty {
			return false
		}
	}
	return true
}

// Count returns the number of occupied cells.
func (b *Board) Count() int {
	n := 0
	for row := range b.cells {
		for _, c := range b.cells[row] {
			if c != Empty {
				n++
			}
		}
	}
	return n
}

// Reset empties the board.
func (b *Board) Reset() { *b = Board{} }

func inBounds(row, col int) bool {
	return row >= 0 && row < Rows && col >= 0 && col < Columns
}
