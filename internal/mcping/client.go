// Craftwatch - Minecraft Server Population Monitor
// Copyright 2026 Craftwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/craftwatch/craftwatch

// Package mcping implements the Minecraft Server List Ping status query.
//
// The protocol is a short TCP exchange: a handshake packet switching the
// connection into status state, a status request, and a JSON status response.
// Every packet is framed as VarInt(length) || VarInt(packet id) || payload.
package mcping

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

const (
	// handshakeProtocolVersion of -1 asks the server to answer a status
	// query regardless of its own protocol version.
	handshakeProtocolVersion = -1

	// stateStatus is the post-handshake connection state for status queries.
	stateStatus = 1

	packetIDHandshake = 0x00
	packetIDStatus    = 0x00

	// maxResponseBytes caps the status frame we are willing to read. Vanilla
	// status payloads are a few KB; the favicon pushes them towards 64KB.
	maxResponseBytes = 1 << 21
)

// Config tunes one Client.
type Config struct {
	// DialTimeout bounds the TCP connect.
	DialTimeout time.Duration

	// ReadTimeout bounds the whole request/response exchange after connect.
	ReadTimeout time.Duration
}

// DefaultConfig returns conservative production defaults.
func DefaultConfig() Config {
	return Config{
		DialTimeout: 5 * time.Second,
		ReadTimeout: 5 * time.Second,
	}
}

// Client performs status queries. A Client is stateless and safe for
// concurrent use; each query opens its own connection.
type Client struct {
	cfg    Config
	dialer net.Dialer
}

// NewClient creates a status query client.
func NewClient(cfg Config) *Client {
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = DefaultConfig().DialTimeout
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultConfig().ReadTimeout
	}
	return &Client{
		cfg:    cfg,
		dialer: net.Dialer{Timeout: cfg.DialTimeout},
	}
}

// Status performs one Server List Ping against host:port. It makes a single
// attempt; retrying is the caller's policy. The context cancels the dial and,
// via connection deadlines, the exchange itself.
func (c *Client) Status(ctx context.Context, host string, port int) (*StatusResponse, error) {
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	conn, err := c.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("mcping: dial %s: %w", addr, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(c.cfg.ReadTimeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return nil, fmt.Errorf("mcping: set deadline for %s: %w", addr, err)
	}

	if err := writeHandshake(conn, host, port); err != nil {
		return nil, fmt.Errorf("mcping: handshake with %s: %w", addr, err)
	}
	if err := writeStatusRequest(conn); err != nil {
		return nil, fmt.Errorf("mcping: status request to %s: %w", addr, err)
	}

	status, err := readStatusResponse(conn)
	if err != nil {
		return nil, fmt.Errorf("mcping: status response from %s: %w", addr, err)
	}
	return status, nil
}

// writeHandshake sends the handshake packet that moves the connection into
// status state: protocol version, server address, port, next state.
func writeHandshake(w io.Writer, host string, port int) error {
	var payload bytes.Buffer
	writeVarInt(&payload, packetIDHandshake)
	writeVarInt(&payload, handshakeProtocolVersion)
	writeString(&payload, host)
	var portBytes [2]byte
	binary.BigEndian.PutUint16(portBytes[:], uint16(port))
	payload.Write(portBytes[:])
	writeVarInt(&payload, stateStatus)
	return writeFrame(w, payload.Bytes())
}

func writeStatusRequest(w io.Writer) error {
	var payload bytes.Buffer
	writeVarInt(&payload, packetIDStatus)
	return writeFrame(w, payload.Bytes())
}

// writeFrame length-prefixes a packet payload.
func writeFrame(w io.Writer, payload []byte) error {
	var frame bytes.Buffer
	writeVarInt(&frame, int32(len(payload)))
	frame.Write(payload)
	_, err := w.Write(frame.Bytes())
	return err
}

func readStatusResponse(r io.Reader) (*StatusResponse, error) {
	frameLen, err := readVarInt(r)
	if err != nil {
		return nil, fmt.Errorf("read frame length: %w", err)
	}
	if frameLen <= 0 || frameLen > maxResponseBytes {
		return nil, fmt.Errorf("invalid frame length %d", frameLen)
	}

	frame := io.LimitReader(r, int64(frameLen))

	packetID, err := readVarInt(frame)
	if err != nil {
		return nil, fmt.Errorf("read packet id: %w", err)
	}
	if packetID != packetIDStatus {
		return nil, fmt.Errorf("unexpected packet id 0x%02x", packetID)
	}

	jsonLen, err := readVarInt(frame)
	if err != nil {
		return nil, fmt.Errorf("read payload length: %w", err)
	}
	if jsonLen <= 0 || jsonLen > maxResponseBytes {
		return nil, fmt.Errorf("invalid payload length %d", jsonLen)
	}

	payload := make([]byte, jsonLen)
	if _, err := io.ReadFull(frame, payload); err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}

	var status StatusResponse
	if err := json.Unmarshal(payload, &status); err != nil {
		return nil, fmt.Errorf("decode status payload: %w", err)
	}
	if status.Players.Online < 0 {
		return nil, fmt.Errorf("negative online count %d", status.Players.Online)
	}
	return &status, nil
}
