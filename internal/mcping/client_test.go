// Craftwatch - Minecraft Server Population Monitor
// Copyright 2026 Craftwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/craftwatch/craftwatch

package mcping

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"net"
	"testing"
	"time"
)

// startFakeServer listens on a loopback port and serves exactly one
// connection with handle. It returns the host and port to probe.
func startFakeServer(t *testing.T, handle func(conn net.Conn)) (string, int) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		handle(conn)
	}()

	return "127.0.0.1", ln.Addr().(*net.TCPAddr).Port
}

// readFrame consumes one length-prefixed packet from the connection.
func readFrame(r io.Reader) ([]byte, error) {
	length, err := readVarInt(r)
	if err != nil {
		return nil, err
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// consumeRequest reads the handshake and status request frames the client
// sends, returning the handshake payload.
func consumeRequest(conn net.Conn) ([]byte, error) {
	handshake, err := readFrame(conn)
	if err != nil {
		return nil, err
	}
	if _, err := readFrame(conn); err != nil {
		return nil, err
	}
	return handshake, nil
}

// writeStatusFrame sends a framed status response carrying body as the JSON
// payload, under the given packet id.
func writeStatusFrame(conn net.Conn, packetID int32, body string) error {
	var payload bytes.Buffer
	writeVarInt(&payload, packetID)
	writeString(&payload, body)
	return writeFrame(conn, payload.Bytes())
}

func testClient(timeout time.Duration) *Client {
	return NewClient(Config{DialTimeout: timeout, ReadTimeout: timeout})
}

func TestStatus(t *testing.T) {
	body := `{
		"version": {"name": "1.20.1", "protocol": 763},
		"players": {
			"online": 5,
			"max": 100,
			"sample": [
				{"name": "Alice", "id": "11111111-1111-1111-1111-111111111111"},
				{"name": "Bob", "id": "22222222-2222-2222-2222-222222222222"}
			]
		},
		"description": {"text": "A Minecraft Server"}
	}`
	host, port := startFakeServer(t, func(conn net.Conn) {
		if _, err := consumeRequest(conn); err != nil {
			return
		}
		_ = writeStatusFrame(conn, packetIDStatus, body)
	})

	status, err := testClient(2*time.Second).Status(context.Background(), host, port)
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}

	if status.Players.Online != 5 {
		t.Errorf("Players.Online = %d, want 5", status.Players.Online)
	}
	if status.Players.Max != 100 {
		t.Errorf("Players.Max = %d, want 100", status.Players.Max)
	}
	if len(status.Players.Sample) != 2 {
		t.Fatalf("len(Players.Sample) = %d, want 2", len(status.Players.Sample))
	}
	if status.Players.Sample[0].Name != "Alice" {
		t.Errorf("Sample[0].Name = %q, want %q", status.Players.Sample[0].Name, "Alice")
	}
	if status.Version.Name != "1.20.1" {
		t.Errorf("Version.Name = %q, want %q", status.Version.Name, "1.20.1")
	}
}

// TestStatusHandshake decodes the handshake frame the client sends and checks
// every field of the packet.
func TestStatusHandshake(t *testing.T) {
	handshakeCh := make(chan []byte, 1)
	host, port := startFakeServer(t, func(conn net.Conn) {
		handshake, err := consumeRequest(conn)
		if err != nil {
			return
		}
		handshakeCh <- handshake
		_ = writeStatusFrame(conn, packetIDStatus, `{"players":{"online":0,"max":20}}`)
	})

	if _, err := testClient(2*time.Second).Status(context.Background(), host, port); err != nil {
		t.Fatalf("Status() error = %v", err)
	}

	handshake := <-handshakeCh
	r := bytes.NewReader(handshake)

	packetID, err := readVarInt(r)
	if err != nil {
		t.Fatalf("read packet id: %v", err)
	}
	if packetID != packetIDHandshake {
		t.Errorf("packet id = 0x%02x, want 0x%02x", packetID, packetIDHandshake)
	}

	proto, err := readVarInt(r)
	if err != nil {
		t.Fatalf("read protocol version: %v", err)
	}
	if proto != handshakeProtocolVersion {
		t.Errorf("protocol version = %d, want %d", proto, handshakeProtocolVersion)
	}

	hostLen, err := readVarInt(r)
	if err != nil {
		t.Fatalf("read host length: %v", err)
	}
	hostBytes := make([]byte, hostLen)
	if _, err := io.ReadFull(r, hostBytes); err != nil {
		t.Fatalf("read host: %v", err)
	}
	if string(hostBytes) != host {
		t.Errorf("host = %q, want %q", hostBytes, host)
	}

	var portBytes [2]byte
	if _, err := io.ReadFull(r, portBytes[:]); err != nil {
		t.Fatalf("read port: %v", err)
	}
	if got := int(binary.BigEndian.Uint16(portBytes[:])); got != port {
		t.Errorf("port = %d, want %d", got, port)
	}

	state, err := readVarInt(r)
	if err != nil {
		t.Fatalf("read next state: %v", err)
	}
	if state != stateStatus {
		t.Errorf("next state = %d, want %d", state, stateStatus)
	}
	if r.Len() != 0 {
		t.Errorf("handshake has %d trailing bytes", r.Len())
	}
}

func TestStatusDialFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	if _, err := testClient(time.Second).Status(context.Background(), "127.0.0.1", port); err == nil {
		t.Error("Status() = nil error, want dial failure")
	}
}

func TestStatusMalformedResponses(t *testing.T) {
	tests := []struct {
		name   string
		handle func(conn net.Conn)
	}{
		{
			name: "unexpected packet id",
			handle: func(conn net.Conn) {
				if _, err := consumeRequest(conn); err != nil {
					return
				}
				_ = writeStatusFrame(conn, 0x01, `{"players":{"online":0,"max":20}}`)
			},
		},
		{
			name: "negative online count",
			handle: func(conn net.Conn) {
				if _, err := consumeRequest(conn); err != nil {
					return
				}
				_ = writeStatusFrame(conn, packetIDStatus, `{"players":{"online":-3,"max":20}}`)
			},
		},
		{
			name: "invalid json",
			handle: func(conn net.Conn) {
				if _, err := consumeRequest(conn); err != nil {
					return
				}
				_ = writeStatusFrame(conn, packetIDStatus, `{"players":`)
			},
		},
		{
			name: "zero frame length",
			handle: func(conn net.Conn) {
				if _, err := consumeRequest(conn); err != nil {
					return
				}
				var frame bytes.Buffer
				writeVarInt(&frame, 0)
				_, _ = conn.Write(frame.Bytes())
			},
		},
		{
			name: "connection closed before response",
			handle: func(conn net.Conn) {
				_, _ = consumeRequest(conn)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, port := startFakeServer(t, tt.handle)
			if _, err := testClient(2*time.Second).Status(context.Background(), host, port); err == nil {
				t.Error("Status() = nil error, want failure")
			}
		})
	}
}

// A server that accepts but never answers must not hang the probe past its
// read timeout.
func TestStatusReadTimeout(t *testing.T) {
	block := make(chan struct{})
	t.Cleanup(func() { close(block) })
	host, port := startFakeServer(t, func(conn net.Conn) {
		if _, err := consumeRequest(conn); err != nil {
			return
		}
		<-block
	})

	start := time.Now()
	_, err := testClient(100*time.Millisecond).Status(context.Background(), host, port)
	if err == nil {
		t.Fatal("Status() = nil error, want timeout")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Status() took %v, want prompt timeout", elapsed)
	}
}

func TestStatusContextDeadline(t *testing.T) {
	block := make(chan struct{})
	t.Cleanup(func() { close(block) })
	host, port := startFakeServer(t, func(conn net.Conn) {
		if _, err := consumeRequest(conn); err != nil {
			return
		}
		<-block
	})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	// The context deadline is tighter than the configured read timeout and
	// must win.
	if _, err := testClient(time.Minute).Status(ctx, host, port); err == nil {
		t.Error("Status() = nil error, want context deadline failure")
	}
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Config{})
	if c.cfg.DialTimeout != 5*time.Second {
		t.Errorf("DialTimeout = %v, want 5s", c.cfg.DialTimeout)
	}
	if c.cfg.ReadTimeout != 5*time.Second {
		t.Errorf("ReadTimeout = %v, want 5s", c.cfg.ReadTimeout)
	}
}
