package client

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"c4net/internal/protocol"
)

type fakeIntents struct {
	columns  []int
	newGames int
	closed   bool
	err      error
}

func (f *fakeIntents) PlaceToken(col int) error {
	f.columns = append(f.columns, col)
	return f.err
}

func (f *fakeIntents) RequestNewGame() error {
	f.newGames++
	return f.err
}

func (f *fakeIntents) Close() error {
	f.closed = true
	return nil
}

func TestConsole_ReadIntents(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("4\n\n  7 \nN\n0\nabc\n1\nq\n3\n")
	c := NewConsole(in, &out)
	fi := &fakeIntents{}

	if err := c.ReadIntents(context.Background(), fi); err != nil {
		t.Fatal(err)
	}
	if want := []int{3, 6, 0}; !equalInts(fi.columns, want) {
		t.Errorf("columns = %v, want %v", fi.columns, want)
	}
	if fi.newGames != 1 || !fi.closed {
		t.Errorf("newGames = %d closed = %v", fi.newGames, fi.closed)
	}
	if strings.Count(out.String(), "unknown command") != 2 {
		t.Errorf("expected two complaints, got:\n%s", out.String())
	}
}

func TestConsole_IntentErrorStops(t *testing.T) {
	c := NewConsole(strings.NewReader("1\n2\n"), &bytes.Buffer{})
	boom := errors.New("write failed")
	fi := &fakeIntents{err: boom}
	if err := c.ReadIntents(context.Background(), fi); !errors.Is(err, boom) {
		t.Errorf("got %v", err)
	}
	if len(fi.columns) != 1 {
		t.Errorf("kept reading after an error: %v", fi.columns)
	}
}

func TestConsole_Render(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(strings.NewReader(""), &out)
	m := NewMachine("ann", c)
	c.Attach(m)

	m.Handle(protocol.Number{Player: 1})
	for i := 0; i < 4; i++ {
		m.Handle(protocol.Added{Player: 2, Row: 5, Column: uint8(i + 1)})
		if i < 3 {
			m.Handle(protocol.Added{Player: 1, Row: 4, Column: uint8(i + 1)})
		}
	}
	out.Reset()
	c.Repaint()

	want := strings.Join([]string{
		"| . . . . . . . |",
		"| . . . . . . . |",
		"| . . . . . . . |",
		"| . . . . . . . |",
		"| . x x x . . . |",
		"| . O O O O . . |",
		"  1 2 3 4 5 6 7",
		"",
	}, "\n")
	if out.String() != want {
		t.Errorf("render:\n%s\nwant:\n%s", out.String(), want)
	}
}

func TestConsole_StatusAndNewGame(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(strings.NewReader(""), &out)

	c.SetStatus("Your turn")
	c.SetStatus("Your turn")
	c.EnableNewGame()
	c.EnableNewGame()
	c.Repaint() // nothing attached yet

	want := "Your turn\n(type n for a new game, q to quit)\n"
	if out.String() != want {
		t.Errorf("got %q, want %q", out.String(), want)
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
