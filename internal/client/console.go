package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/term"

	"c4net/internal/game"
)

// Intents is what the console can ask of a running client.
type Intents interface {
	PlaceToken(column int) error
	RequestNewGame() error
	Close() error
}

// Console is a line-oriented front-end: it prints the grid and status
// lines, and reads "1".."7", "n" and "q" from its input.
type Console struct {
	in  io.Reader
	out io.Writer

	// clear redraws in place with ANSI escapes; only on a terminal.
	clear bool

	mu      sync.Mutex
	view    BoardView
	status  string
	newGame bool
}

// NewConsole writes to out and reads commands from in.
func NewConsole(in io.Reader, out io.Writer) *Console {
	c := &Console{in: in, out: out}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		c.clear = true
	}
	return c
}

// Attach sets the board the console draws.
func (c *Console) Attach(view BoardView) {
	c.mu.Lock()
	c.view = view
	c.mu.Unlock()
}

func (c *Console) Repaint() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.view == nil {
		return
	}
	var b strings.Builder
	if c.clear {
		b.WriteString("\x1b[H\x1b[2J")
	}
	renderBoard(&b, c.view)
	if c.clear && c.status != "" {
		fmt.Fprintf(&b, "%s\n", c.status)
	}
	io.WriteString(c.out, b.String()) //nolint:errcheck
}

func (c *Console) SetStatus(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if text == c.status {
		return
	}
	c.status = text
	fmt.Fprintf(c.out, "%s\n", text)
}

func (c *Console) EnableNewGame() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.newGame {
		c.newGame = true
		fmt.Fprintln(c.out, "(type n for a new game, q to quit)")
	}
}

// renderBoard draws the grid top row first.  Cells on the win line are
// shown in upper case.
func renderBoard(w io.Writer, view BoardView) {
	line, won := view.WinLine()
	onLine := map[game.Point]bool{}
	if won {
		dr, dc := sign(line.To.Row-line.From.Row), sign(line.To.Col-line.From.Col)
		p := line.From
		for i := 0; i < game.ToWin; i++ {
			onLine[p] = true
			p = game.Point{Row: p.Row + dr, Col: p.Col + dc}
		}
	}

	for row := 0; row < game.Rows; row++ {
		var b strings.Builder
		b.WriteString("|")
		for col := 0; col < game.Columns; col++ {
			ch := cellRune(view.Cell(row, col))
			if onLine[game.Point{Row: row, Col: col}] {
				ch = unicode.ToUpper(ch)
			}
			b.WriteRune(' ')
			b.WriteRune(ch)
		}
		b.WriteString(" |\n")
		io.WriteString(w, b.String()) //nolint:errcheck
	}
	io.WriteString(w, "  1 2 3 4 5 6 7\n") //nolint:errcheck
}

func cellRune(c game.Cell) rune {
	switch c {
	case game.Player1:
		return 'x'
	case game.Player2:
		return 'o'
	}
	return '.'
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}

// ReadIntents forwards commands from the console input to cl until the
// input ends, the user quits or ctx is cancelled.  Quitting closes cl.
func (c *Console) ReadIntents(ctx context.Context, cl Intents) error {
	sc := bufio.NewScanner(c.in)
	for sc.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		cmd := strings.ToLower(strings.TrimSpace(sc.Text()))
		var err error
		switch cmd {
		case "":
			continue
		case "q", "quit":
			return cl.Close()
		case "n", "new":
			err = cl.RequestNewGame()
		default:
			col, convErr := strconv.Atoi(cmd)
			if convErr != nil || col < 1 || col > game.Columns {
				fmt.Fprintf(c.out, "unknown command %q: use 1-%d, n or q\n", cmd, game.Columns)
				continue
			}
			err = cl.PlaceToken(col - 1)
		}
		if err != nil {
			return err
		}
	}
	return sc.Err()
}
