package protocol

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	c4err "c4net/internal/errors"
)

func TestEncode_Frames(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want []byte
	}{
		{"join", Join{Name: "ann"}, []byte{'J', 0, 3, 'a', 'n', 'n'}},
		{"join empty name", Join{}, []byte{'J', 0, 0}},
		{"place", Place{Player: 2, Column: 6}, []byte{'A', 2, 6}},
		{"clear", Clear{}, []byte{'C'}},
		{"number", Number{Player: 1}, []byte{'I', 1}},
		{"name", Name{Player: 2, Name: "bö"}, []byte{'N', 2, 0, 3, 'b', 0xc3, 0xb6}},
		{"turn", Turn{Player: 1}, []byte{'T', 1}},
		{"game over", Turn{Player: GameOver}, []byte{'T', 0}},
		{"added", Added{Player: 1, Row: 5, Column: 0}, []byte{'A', 1, 5, 0}},
		{"cleared", Cleared{}, []byte{'C'}},
		{"quit", Quit{}, []byte{'Q'}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.msg)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Encode(%v) = %v, want %v", tt.msg, got, tt.want)
			}
		})
	}
}

func TestEncode_RejectsBadNames(t *testing.T) {
	long := strings.Repeat("x", MaxNameLen+1)
	if _, err := Encode(Join{Name: long}); !errors.Is(err, errNameTooLong) || !c4err.IsProtocol(err) {
		t.Errorf("long name: got %v", err)
	}
	if _, err := Encode(Name{Player: 1, Name: "\xff"}); !errors.Is(err, errNameEncoding) {
		t.Errorf("bad utf-8: got %v", err)
	}
	if _, err := Encode(Join{Name: strings.Repeat("x", MaxNameLen)}); err != nil {
		t.Errorf("name at limit: %v", err)
	}
}

func TestReader_DirectionSelectsPayload(t *testing.T) {
	// The same bytes mean different things in each direction.
	stream := []byte{'A', 1, 5, 0, 'C'}

	srv := NewReader(bytes.NewReader(stream), ServerToClient)
	m, err := srv.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	if m != (Added{Player: 1, Row: 5, Column: 0}) {
		t.Errorf("server→client A = %#v", m)
	}
	if m, _ = srv.ReadMessage(); m != (Cleared{}) {
		t.Errorf("server→client C = %#v", m)
	}

	cli := NewReader(bytes.NewReader(stream), ClientToServer)
	m, err = cli.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	if m != (Place{Player: 1, Column: 5}) {
		t.Errorf("client→server A = %#v", m)
	}
}

func TestReader_Stream(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	sent := []Message{
		Number{Player: 1},
		Name{Player: 1, Name: "ann"},
		Name{Player: 2, Name: "bob"},
		Turn{Player: 1},
		Added{Player: 1, Row: 5, Column: 3},
		Turn{Player: 2},
		Cleared{},
		Quit{},
	}
	total := 0
	for _, m := range sent {
		n, err := w.WriteMessage(m)
		if err != nil {
			t.Fatal(err)
		}
		total += n
	}

	r := NewReader(&buf, ServerToClient)
	for i, want := range sent {
		got, err := r.ReadMessage()
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if got != want {
			t.Errorf("frame %d = %v, want %v", i, got, want)
		}
	}
	if _, err := r.ReadMessage(); err != io.EOF {
		t.Errorf("end of stream: got %v, want io.EOF", err)
	}
	if r.BytesRead() != int64(total) {
		t.Errorf("BytesRead = %d, want %d", r.BytesRead(), total)
	}
}

func TestReader_Errors(t *testing.T) {
	tests := []struct {
		name       string
		dir        Direction
		in         []byte
		unexpected bool
		protocol   bool
	}{
		{"unknown client opcode", ClientToServer, []byte{'Z'}, false, true},
		{"server opcode sent by client", ClientToServer, []byte{'Q'}, false, true},
		{"client opcode sent by server", ServerToClient, []byte{'J', 0, 0}, false, true},
		{"truncated place", ClientToServer, []byte{'A', 1}, true, false},
		{"truncated name header", ClientToServer, []byte{'J', 0}, true, false},
		{"truncated name body", ClientToServer, []byte{'J', 0, 4, 'a'}, true, false},
		{"missing added payload", ServerToClient, []byte{'A'}, true, false},
		{"oversized name", ClientToServer, []byte{'J', 0x01, 0x00}, false, true},
		{"invalid utf-8", ServerToClient, []byte{'N', 1, 0, 1, 0xff}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReader(bytes.NewReader(tt.in), tt.dir).ReadMessage()
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := errors.Is(err, io.ErrUnexpectedEOF); got != tt.unexpected {
				t.Errorf("ErrUnexpectedEOF = %v, want %v (%v)", got, tt.unexpected, err)
			}
			if got := c4err.IsProtocol(err); got != tt.protocol {
				t.Errorf("IsProtocol = %v, want %v (%v)", got, tt.protocol, err)
			}
		})
	}
}

func TestReader_UnknownOpcodeNamesIt(t *testing.T) {
	_, err := NewReader(bytes.NewReader([]byte{'Z'}), ClientToServer).ReadMessage()
	var pe *c4err.ProtocolError
	if !errors.As(err, &pe) {
		t.Fatalf("got %T", err)
	}
	if pe.Opcode != 'Z' {
		t.Errorf("opcode = %q", pe.Opcode)
	}
}

func TestMessage_Strings(t *testing.T) {
	tests := []struct {
		msg  Message
		want string
	}{
		{Join{Name: "ann"}, `J "ann"`},
		{Place{Player: 1, Column: 4}, "A 1 4"},
		{Name{Player: 2, Name: "bob"}, `N 2 "bob"`},
		{Turn{}, "T 0"},
		{Added{Player: 2, Row: 4, Column: 6}, "A 2 4 6"},
		{Quit{}, "Q"},
	}
	for _, tt := range tests {
		if got := tt.msg.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestMessage_Directions(t *testing.T) {
	for _, m := range []Message{Join{}, Place{}, Clear{}} {
		if m.Direction() != ClientToServer {
			t.Errorf("%T should be client→server", m)
		}
	}
	for _, m := range []Message{Number{}, Name{}, Turn{}, Added{}, Cleared{}, Quit{}} {
		if m.Direction() != ServerToClient {
			t.Errorf("%T should be server→client", m)
		}
	}
}
