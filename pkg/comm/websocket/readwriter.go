// Package websocket streams frame events to websocket clients.
package websocket

import "golang.org/x/net/websocket"

// ReadWriter implements comm.PacketReadWriter.
type ReadWriter struct {
	Conn *websocket.Conn
	// Text sends packets as text frames.
	Text bool
}

// New wraps websocket.Conn.
func New(conn *websocket.Conn, text bool) *ReadWriter {
	return &ReadWriter{Conn: conn, Text: text}
}

// ReadPacket implements comm.PacketReader.
func (p *ReadWriter) ReadPacket() (pkt []byte, err error) {
	err = websocket.Message.Receive(p.Conn, &pkt)
	return
}

// WritePacket implements comm.PacketWriter.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	if p.Text {
		return websocket.Message.Send(p.Conn, string(pkt))
	}
	return websocket.Message.Send(p.Conn, pkt)
}
