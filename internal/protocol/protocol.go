// Package protocol implements the Source Engine Query (A2S) wire format:
// encoding of A2S_INFO requests and strict decoding of single-packet replies.
package protocol

import (
	"bytes"
	"errors"
	"fmt"
)

// MaxReplySize is the receive buffer size for inbound datagrams. A2S replies
// fit a single non-fragmented UDP payload.
const MaxReplySize = 1400

const (
	queryTag     = 0x54 // A2S_INFO
	infoTag      = 0x49 // S2A_INFO
	challengeTag = 0x41 // S2C_CHALLENGE

	// ChallengeLen is the fixed size of the anti-spoof token.
	ChallengeLen = 4
)

var (
	header       = []byte{0xFF, 0xFF, 0xFF, 0xFF}
	splitHeader  = []byte{0xFE, 0xFF, 0xFF, 0xFF}
	queryPayload = []byte("Source Engine Query\x00")
)

var (
	// ErrSplitPacket marks a multi-packet reply; reassembly is not supported
	// and the datagram is dropped.
	ErrSplitPacket = errors.New("split packet not supported")

	// ErrBadHeader marks a datagram without the single-packet header.
	ErrBadHeader = errors.New("missing single-packet header")

	// ErrShortPacket marks a datagram that ends before its layout is complete.
	ErrShortPacket = errors.New("datagram too short")
)

// Reply is one decoded inbound datagram, either *Info or Challenge.
type Reply interface {
	isReply()
}

// Challenge is the anti-spoof token a server hands out before it answers an
// unauthenticated A2S_INFO query. The token must be echoed back verbatim.
type Challenge []byte

func (Challenge) isReply() {}

// EncodeQuery builds an outbound A2S_INFO datagram. A non-empty challenge
// token is appended verbatim; an empty one yields the bare 25-byte query.
func EncodeQuery(challenge []byte) []byte {
	msg := make([]byte, 0, len(header)+1+len(queryPayload)+len(challenge))
	msg = append(msg, header...)
	msg = append(msg, queryTag)
	msg = append(msg, queryPayload...)
	msg = append(msg, challenge...)

	return msg
}

// DecodeReply classifies and decodes one inbound datagram.
//
// Split packets and datagrams without the single-packet header are returned
// as errors for the caller to drop. A recognized header followed by an
// unknown tag decodes to (nil, nil): ignored, not an error.
func DecodeReply(pkt []byte) (Reply, error) {
	if bytes.HasPrefix(pkt, splitHeader) {
		return nil, ErrSplitPacket
	}
	if !bytes.HasPrefix(pkt, header) {
		return nil, ErrBadHeader
	}
	if len(pkt) <= len(header) {
		return nil, fmt.Errorf("datagram without type byte: %w", ErrShortPacket)
	}

	switch pkt[len(header)] {
	case infoTag:
		info, err := decodeInfo(pkt)
		if err != nil {
			return nil, err
		}
		return info, nil

	case challengeTag:
		token, err := decodeChallenge(pkt)
		if err != nil {
			return nil, err
		}
		return token, nil

	default:
		return nil, nil
	}
}

// decodeChallenge extracts the 4-byte token following header and tag.
func decodeChallenge(pkt []byte) (Challenge, error) {
	body := pkt[len(header)+1:]
	if len(body) < ChallengeLen {
		return nil, fmt.Errorf("challenge reply carries %d of %d token bytes: %w",
			len(body), ChallengeLen, ErrShortPacket)
	}

	token := make(Challenge, ChallengeLen)
	copy(token, body[:ChallengeLen])

	return token, nil
}
