package game

import (
	"errors"
	"testing"
)

func TestDrop_Gravity(t *testing.T) {
	var b Board
	for i, want := range []int{5, 4, 3, 2, 1, 0} {
		owner := Player1
		if i%2 == 1 {
			owner = Player2
		}
		row, err := b.Drop(3, owner)
		if err != nil {
			t.Fatalf("drop %d: %v", i, err)
		}
		if row != want {
			t.Errorf("drop %d landed on row %d, want %d", i, row, want)
		}
		if got := b.At(row, 3); got != owner {
			t.Errorf("cell (%d,3) = %d, want %d", row, got, owner)
		}
	}

	if _, err := b.Drop(3, Player1); !errors.Is(err, ErrColumnFull) {
		t.Errorf("seventh drop: got %v, want ErrColumnFull", err)
	}
	if !b.ColumnFull(3) {
		t.Error("column 3 should be full")
	}
}

func TestDrop_NeverOverwrites(t *testing.T) {
	var b Board
	row, _ := b.Drop(0, Player1)
	if _, err := b.Drop(0, Player2); err != nil {
		t.Fatal(err)
	}
	if b.At(row, 0) != Player1 {
		t.Error("first token was overwritten")
	}
}

func TestDrop_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		col   int
		owner Cell
		want  error
	}{
		{"negative column", -1, Player1, ErrInvalidColumn},
		{"column past edge", Columns, Player2, ErrInvalidColumn},
		{"empty owner", 0, Empty, ErrNotAPlayer},
		{"bogus owner", 0, Cell(7), ErrNotAPlayer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b Board
			if _, err := b.Drop(tt.col, tt.owner); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
			if b.Count() != 0 {
				t.Error("rejected drop mutated the board")
			}
		})
	}
}

func TestSet(t *testing.T) {
	var b Board
	if err := b.Set(5, 6, Player2); err != nil {
		t.Fatal(err)
	}
	if err := b.Set(5, 6, Player1); !errors.Is(err, ErrCellOccupied) {
		t.Errorf("overwrite: got %v", err)
	}
	if err := b.Set(Rows, 0, Player1); !errors.Is(err, ErrInvalidCell) {
		t.Errorf("off board: got %v", err)
	}
	if b.At(5, 6) != Player2 {
		t.Error("cell lost its owner")
	}
}

func TestAt_OutOfBounds(t *testing.T) {
	var b Board
	for _, p := range []Point{{-1, 0}, {0, -1}, {Rows, 0}, {0, Columns}} {
		if got := b.At(p.Row, p.Col); got != Empty {
			t.Errorf("At%v = %d, want Empty", p, got)
		}
	}
}

func TestFullAndReset(t *testing.T) {
	var b Board
	for col := 0; col < Columns; col++ {
		for row := 0; row < Rows; row++ {
			if _, err := b.Drop(col, Player1); err != nil {
				t.Fatal(err)
			}
		}
	}
	if !b.Full() || b.Count() != Rows*Columns {
		t.Fatalf("board should be full, count = %d", b.Count())
	}

	b.Reset()
	if b.Full() || b.Count() != 0 {
		t.Errorf("reset left %d tokens", b.Count())
	}
}

func TestCell_Opponent(t *testing.T) {
	if Player1.Opponent() != Player2 || Player2.Opponent() != Player1 {
		t.Error("players should be each other's opponent")
	}
	if Empty.Opponent() != Empty {
		t.Error("Empty has no opponent")
	}
}

func TestStateStrings(t *testing.T) {
	if GameOver.String() != "game-over" || Terminated.String() != "terminated" {
		t.Error("session state names changed")
	}
	if PlayerTurn.String() != "player-turn" || SessionState(42).String() != "unknown" {
		t.Error("state names changed")
	}
}
