package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
)

// Info is a decoded S2A_INFO reply: one status snapshot as reported by a
// game server.
type Info struct {
	Name        string
	Map         string
	Folder      string
	Game        string
	Version     string
	ID          int16
	Players     uint8
	MaxPlayers  uint8
	Bots        uint8
	ServerType  ServerType
	Environment Environment
	Visibility  Visibility
	VAC         VAC
	Header      uint8
	Protocol    uint8
}

func (*Info) isReply() {}

// decodeInfo parses the fixed/variable S2A_INFO layout from the start of the
// datagram: the 4-byte packet header consumed as a legacy int32, the type
// byte echo, the protocol version, four NUL-terminated strings, the app id,
// three counters, four strictly validated enums, and the version string.
func decodeInfo(pkt []byte) (*Info, error) {
	r := infoReader{r: bytes.NewReader(pkt)}

	_ = r.int32() // legacy packet header, consumed but unused

	info := &Info{
		Header:     r.byte(),
		Protocol:   r.byte(),
		Name:       r.cstring(),
		Map:        r.cstring(),
		Folder:     r.cstring(),
		Game:       r.cstring(),
		ID:         r.int16(),
		Players:    r.byte(),
		MaxPlayers: r.byte(),
		Bots:       r.byte(),
	}

	serverType := r.byte()
	environment := r.byte()
	visibility := r.byte()
	vac := r.byte()
	info.Version = r.cstring()

	if r.err != nil {
		return nil, fmt.Errorf("info reply: %w", r.err)
	}

	var err error
	if info.ServerType, err = ParseServerType(serverType); err != nil {
		return nil, fmt.Errorf("info reply: %w", err)
	}
	if info.Environment, err = ParseEnvironment(environment); err != nil {
		return nil, fmt.Errorf("info reply: %w", err)
	}
	if info.Visibility, err = ParseVisibility(visibility); err != nil {
		return nil, fmt.Errorf("info reply: %w", err)
	}
	if info.VAC, err = ParseVAC(vac); err != nil {
		return nil, fmt.Errorf("info reply: %w", err)
	}

	return info, nil
}

// infoReader is a cursor over one datagram. The first failed read sticks in
// err and turns every following read into a no-op, so the layout can be
// consumed without per-field error plumbing.
type infoReader struct {
	r   *bytes.Reader
	err error
}

func (ir *infoReader) byte() byte {
	if ir.err != nil {
		return 0
	}

	b, err := ir.r.ReadByte()
	if err != nil {
		ir.err = ErrShortPacket
		return 0
	}

	return b
}

func (ir *infoReader) int16() int16 {
	if ir.err != nil {
		return 0
	}

	var v int16
	if err := binary.Read(ir.r, binary.LittleEndian, &v); err != nil {
		ir.err = ErrShortPacket
		return 0
	}

	return v
}

func (ir *infoReader) int32() int32 {
	if ir.err != nil {
		return 0
	}

	var v int32
	if err := binary.Read(ir.r, binary.LittleEndian, &v); err != nil {
		ir.err = ErrShortPacket
		return 0
	}

	return v
}

// cstring reads up to the first NUL byte or the end of the buffer, whichever
// comes first; running off the end is not an error. Invalid UTF-8 sequences
// are replaced, never rejected.
func (ir *infoReader) cstring() string {
	if ir.err != nil {
		return ""
	}

	var raw []byte
	for {
		b, err := ir.r.ReadByte()
		if err != nil || b == 0 {
			break
		}
		raw = append(raw, b)
	}

	return strings.ToValidUTF8(string(raw), "�")
}
