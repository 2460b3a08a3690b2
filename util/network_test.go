package util

import (
	"net"
	"testing"
)

func TestFormatAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"1.2.3.4", 22, "1.2.3.4:22"},
		{"::1", 4444, "[::1]:4444"},
		{"localhost", 9000, "localhost:9000"},
	}
	for _, tt := range tests {
		if got := FormatAddr(tt.host, tt.port); got != tt.want {
			t.Errorf("FormatAddr(%q, %d) = %q, want %q", tt.host, tt.port, got, tt.want)
		}
	}
}

func TestSplitAddr(t *testing.T) {
	host, port, err := SplitAddr("[::1]:4444")
	if err != nil {
		t.Fatal(err)
	}
	if host != "::1" || port != 4444 {
		t.Errorf("got (%q, %d)", host, port)
	}

	if _, _, err := SplitAddr("localhost:http"); err == nil {
		t.Error("expected error for non-numeric port")
	}
	if _, _, err := SplitAddr("no-port"); err == nil {
		t.Error("expected error for missing port")
	}
}

func TestRemoteName(t *testing.T) {
	if got := RemoteName(nil); got != "-" {
		t.Errorf("nil conn: got %q", got)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	conn, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	if got := RemoteName(conn); got != ln.Addr().String() {
		t.Errorf("got %q, want %q", got, ln.Addr().String())
	}
}

func TestFindFreePort(t *testing.T) {
	port, err := FindFreePort()
	if err != nil {
		t.Fatal(err)
	}
	if port < 1 || port > 65535 {
		t.Errorf("port %d out of range", port)
	}
}
