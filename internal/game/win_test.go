package game

import "testing"

// place sets tokens directly, ignoring gravity, for geometric tests.
func place(t *testing.T, b *Board, owner Cell, pts ...Point) {
	t.Helper()
	for _, p := range pts {
		if err := b.Set(p.Row, p.Col, owner); err != nil {
			t.Fatalf("set %v: %v", p, err)
		}
	}
}

func TestDetect_VerticalScenario(t *testing.T) {
	var b Board
	var row int
	for i := 0; i < 4; i++ {
		var err error
		row, err = b.Drop(0, Player1)
		if err != nil {
			t.Fatal(err)
		}
		if i < 3 {
			if _, ok := Detect(&b, row, 0, Player1); ok {
				t.Fatalf("premature win after %d tokens", i+1)
			}
		}
	}

	line, ok := Detect(&b, row, 0, Player1)
	if !ok {
		t.Fatal("expected a vertical win")
	}
	want := Line{From: Point{2, 0}, To: Point{5, 0}}
	if line != want {
		t.Errorf("line = %v, want %v", line, want)
	}
}

func TestDetect_Directions(t *testing.T) {
	tests := []struct {
		name  string
		cells []Point
		last  Point
		want  Line
	}{
		{
			name:  "horizontal, placed at right end",
			cells: []Point{{5, 1}, {5, 2}, {5, 3}, {5, 4}},
			last:  Point{5, 4},
			want:  Line{Point{5, 1}, Point{5, 4}},
		},
		{
			name:  "horizontal, placed in the middle",
			cells: []Point{{5, 3}, {5, 4}, {5, 5}, {5, 6}},
			last:  Point{5, 4},
			want:  Line{Point{5, 3}, Point{5, 6}},
		},
		{
			name:  "diagonal down-right",
			cells: []Point{{2, 0}, {3, 1}, {4, 2}, {5, 3}},
			last:  Point{3, 1},
			want:  Line{Point{2, 0}, Point{5, 3}},
		},
		{
			name:  "diagonal down-left",
			cells: []Point{{2, 6}, {3, 5}, {4, 4}, {5, 3}},
			last:  Point{5, 3},
			want:  Line{Point{2, 6}, Point{5, 3}},
		},
		{
			name:  "five in a row reports the first four scanned",
			cells: []Point{{4, 0}, {4, 1}, {4, 2}, {4, 3}, {4, 4}},
			last:  Point{4, 2},
			want:  Line{Point{4, 0}, Point{4, 3}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b Board
			place(t, &b, Player2, tt.cells...)
			line, ok := Detect(&b, tt.last.Row, tt.last.Col, Player2)
			if !ok {
				t.Fatal("expected a win")
			}
			if line != tt.want {
				t.Errorf("line = %v, want %v", line, tt.want)
			}
		})
	}
}

func TestDetect_TieBreakOrder(t *testing.T) {
	// One token at (2,3) completes a vertical and a horizontal line:
	// vertical is scanned first.
	var b Board
	place(t, &b, Player1,
		Point{3, 3}, Point{4, 3}, Point{5, 3},
		Point{2, 0}, Point{2, 1}, Point{2, 2},
		Point{2, 3})

	line, ok := Detect(&b, 2, 3, Player1)
	if !ok {
		t.Fatal("expected a win")
	}
	if want := (Line{Point{2, 3}, Point{5, 3}}); line != want {
		t.Errorf("line = %v, want vertical %v", line, want)
	}

	// Diagonal ↘ beats horizontal.
	var d Board
	place(t, &d, Player2,
		Point{2, 1}, Point{3, 2}, Point{5, 4},
		Point{4, 0}, Point{4, 1}, Point{4, 2},
		Point{4, 3})
	line, ok = Detect(&d, 4, 3, Player2)
	if !ok {
		t.Fatal("expected a win")
	}
	if want := (Line{Point{2, 1}, Point{5, 4}}); line != want {
		t.Errorf("line = %v, want diagonal %v", line, want)
	}

	// Diagonal ↘ beats diagonal ↙.
	var x Board
	place(t, &x, Player1,
		Point{0, 0}, Point{1, 1}, Point{3, 3},
		Point{0, 4}, Point{1, 3}, Point{3, 1},
		Point{2, 2})
	line, ok = Detect(&x, 2, 2, Player1)
	if !ok {
		t.Fatal("expected a win")
	}
	if want := (Line{Point{0, 0}, Point{3, 3}}); line != want {
		t.Errorf("line = %v, want ↘ %v", line, want)
	}
}

func TestDetect_NoWin(t *testing.T) {
	tests := []struct {
		name  string
		mine  []Point
		other []Point
		last  Point
	}{
		{"three only", []Point{{5, 0}, {5, 1}, {5, 2}}, nil, Point{5, 2}},
		{"broken by opponent", []Point{{5, 0}, {5, 1}, {5, 3}, {5, 4}}, []Point{{5, 2}}, Point{5, 4}},
		{"four not through placed cell", []Point{{5, 0}, {5, 1}, {5, 2}, {5, 3}, {3, 6}}, nil, Point{3, 6}},
		{"no wrap across row end", []Point{{4, 5}, {4, 6}, {5, 0}, {5, 1}}, nil, Point{5, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b Board
			place(t, &b, Player1, tt.mine...)
			place(t, &b, Player2, tt.other...)
			if line, ok := Detect(&b, tt.last.Row, tt.last.Col, Player1); ok {
				t.Errorf("unexpected win %v", line)
			}
		})
	}
}

func TestDetect_WrongOwner(t *testing.T) {
	var b Board
	place(t, &b, Player1, Point{5, 0}, Point{5, 1}, Point{5, 2}, Point{5, 3})
	if _, ok := Detect(&b, 5, 3, Player2); ok {
		t.Error("player 2 cannot win with player 1's tokens")
	}
	if _, ok := Detect(&b, 5, 3, Empty); ok {
		t.Error("Empty never wins")
	}
}

// drawSequence fills all 42 cells column by column without ever
// producing four in a row: rows alternate owners, and every pair of
// rows swaps the pattern, so no direction holds more than two.
func drawSequence() [Columns][Rows]Cell {
	a := [Rows]Cell{Player1, Player1, Player2, Player2, Player1, Player1}
	c := [Rows]Cell{Player2, Player2, Player1, Player1, Player2, Player2}
	return [Columns][Rows]Cell{a, c, a, c, a, c, a}
}

func TestDetect_DrawBoard(t *testing.T) {
	var b Board
	seq := drawSequence()
	for col := 0; col < Columns; col++ {
		for i := 0; i < Rows; i++ {
			owner := seq[col][i]
			row, err := b.Drop(col, owner)
			if err != nil {
				t.Fatal(err)
			}
			if line, ok := Detect(&b, row, col, owner); ok {
				t.Fatalf("unexpected win %v at (%d,%d)", line, row, col)
			}
		}
	}
	if !b.Full() {
		t.Error("board should be full")
	}
}
