package protocol

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	c4err "c4net/internal/errors"
)

var (
	errUnknownOpcode = errors.New("unknown opcode")
	errNameTooLong   = fmt.Errorf("name longer than %d bytes", MaxNameLen)
	errNameEncoding  = errors.New("name is not valid UTF-8")
)

// ── Encoding ─────────────────────────────────────────────────────────

// Encode returns the complete frame for m.
func Encode(m Message) ([]byte, error) {
	return appendFrame(make([]byte, 0, 8), m)
}

func appendFrame(b []byte, m Message) ([]byte, error) {
	b = append(b, m.Opcode())
	b, err := m.appendPayload(b)
	if err != nil {
		return nil, &c4err.ProtocolError{Op: "encode", Opcode: m.Opcode(), Err: err}
	}
	return b, nil
}

func appendName(b []byte, name string) ([]byte, error) {
	if len(name) > MaxNameLen {
		return nil, errNameTooLong
	}
	if !utf8.ValidString(name) {
		return nil, errNameEncoding
	}
	b = binary.BigEndian.AppendUint16(b, uint16(len(name)))
	return append(b, name...), nil
}

// Writer encodes messages onto w, one Write call per frame.  It is not
// safe for concurrent use.
type Writer struct {
	w   io.Writer
	buf []byte
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, buf: make([]byte, 0, 64)}
}

// WriteMessage writes m as a single frame and returns the number of
// bytes written.
func (w *Writer) WriteMessage(m Message) (int, error) {
	frame, err := appendFrame(w.buf[:0], m)
	if err != nil {
		return 0, err
	}
	w.buf = frame[:0]
	return w.w.Write(frame)
}

// ── Decoding ─────────────────────────────────────────────────────────

// Reader decodes frames sent in one direction.
type Reader struct {
	br  *bufio.Reader
	dir Direction
	n   int64
}

func NewReader(r io.Reader, dir Direction) *Reader {
	return &Reader{br: bufio.NewReader(r), dir: dir}
}

// BytesRead is the total number of bytes consumed by decoded frames.
func (r *Reader) BytesRead() int64 { return r.n }

// ReadMessage blocks for the next complete frame.  A stream that ends
// cleanly between frames returns io.EOF; one that ends inside a frame
// returns an error wrapping io.ErrUnexpectedEOF.  Frames that violate the
// format return a *errors.ProtocolError, after which the stream position
// is undefined.
func (r *Reader) ReadMessage() (Message, error) {
	op, err := r.br.ReadByte()
	if err != nil {
		return nil, err
	}
	r.n++

	var m Message
	if r.dir == ClientToServer {
		m, err = r.readClientFrame(op)
	} else {
		m, err = r.readServerFrame(op)
	}
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		if !c4err.IsProtocol(err) {
			err = fmt.Errorf("read %c frame: %w", op, err)
		}
		return nil, err
	}
	return m, nil
}

func (r *Reader) readClientFrame(op byte) (Message, error) {
	switch op {
	case OpJoin:
		name, err := r.readName(op)
		return Join{Name: name}, err
	case OpPlace:
		var p [2]byte
		if err := r.readFull(p[:]); err != nil {
			return nil, err
		}
		return Place{Player: p[0], Column: p[1]}, nil
	case OpClear:
		return Clear{}, nil
	}
	return nil, c4err.Protocol(op, errUnknownOpcode)
}

func (r *Reader) readServerFrame(op byte) (Message, error) {
	switch op {
	case OpNumber, OpTurn:
		var p [1]byte
		if err := r.readFull(p[:]); err != nil {
			return nil, err
		}
		if op == OpNumber {
			return Number{Player: p[0]}, nil
		}
		return Turn{Player: p[0]}, nil
	case OpName:
		var p [1]byte
		if err := r.readFull(p[:]); err != nil {
			return nil, err
		}
		name, err := r.readName(op)
		return Name{Player: p[0], Name: name}, err
	case OpAdded:
		var p [3]byte
		if err := r.readFull(p[:]); err != nil {
			return nil, err
		}
		return Added{Player: p[0], Row: p[1], Column: p[2]}, nil
	case OpCleared:
		return Cleared{}, nil
	case OpQuit:
		return Quit{}, nil
	}
	return nil, c4err.Protocol(op, errUnknownOpcode)
}

func (r *Reader) readName(op byte) (string, error) {
	var hdr [2]byte
	if err := r.readFull(hdr[:]); err != nil {
		return "", err
	}
	n := int(binary.BigEndian.Uint16(hdr[:]))
	if n > MaxNameLen {
		return "", c4err.Protocol(op, fmt.Errorf("%w (got %d)", errNameTooLong, n))
	}
	buf := make([]byte, n)
	if err := r.readFull(buf); err != nil {
		return "", err
	}
	if !utf8.Valid(buf) {
		return "", c4err.Protocol(op, errNameEncoding)
	}
	return string(buf), nil
}

func (r *Reader) readFull(p []byte) error {
	n, err := io.ReadFull(r.br, p)
	r.n += int64(n)
	return err
}
