// Package savegame persists sessions: a binary codec, the catalog of saves in
// a directory, and a store that reads and atomically writes save files.
package savegame

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/fxamacker/cbor/v2"
	"github.com/ulikunitz/xz"

	"github.com/samdwyer/darkcave/internal/session"
	"github.com/samdwyer/darkcave/internal/world"
)

// Save file layout:
//
//	magic   [4]byte  "DCSV"
//	version uint16   big endian
//	sum     uint64   xxhash64 of payload, big endian
//	payload []byte   xz(cbor(session.Session))
const (
	magic      = "DCSV"
	headerSize = len(magic) + 2 + 8

	// FormatVersion is the save format written by Encode. Decode rejects
	// any other version.
	FormatVersion uint16 = 1

	// maxDecodedSize bounds decompression so a hostile file cannot exhaust memory.
	maxDecodedSize = 64 << 20
)

// ErrCorrupt matches every *DecodeError via errors.Is.
var ErrCorrupt = errors.New("corrupt save data")

// DecodeError reports why bytes could not be turned back into a session.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("corrupt save data: %s: %v", e.Reason, e.Err)
	}
	return "corrupt save data: " + e.Reason
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrCorrupt) true for any DecodeError.
func (e *DecodeError) Is(target error) bool { return target == ErrCorrupt }

// Codec converts sessions to and from compressed bytes.
type Codec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

// NewCodec builds a codec with deterministic encoding and strict decoding.
func NewCodec() (*Codec, error) {
	enc, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("cbor encoder: %w", err)
	}
	dec, err := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
		MaxArrayElements:  world.MaxWidth * world.MaxHeight,
	}.DecMode()
	if err != nil {
		return nil, fmt.Errorf("cbor decoder: %w", err)
	}
	return &Codec{enc: enc, dec: dec}, nil
}

// MustNewCodec is NewCodec for package-level initialisation.
func MustNewCodec() *Codec {
	c, err := NewCodec()
	if err != nil {
		panic(err)
	}
	return c
}

// Encode serialises and compresses s.
func (c *Codec) Encode(s *session.Session) ([]byte, error) {
	if s == nil {
		return nil, errors.New("encode: nil session")
	}
	if d := s.Dungeon; d != nil && (d.Width > world.MaxWidth || d.Height > world.MaxHeight) {
		return nil, fmt.Errorf("encode: map %dx%d exceeds %dx%d", d.Width, d.Height, world.MaxWidth, world.MaxHeight)
	}
	body, err := c.enc.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}

	var payload bytes.Buffer
	w, err := xz.NewWriter(&payload)
	if err != nil {
		return nil, fmt.Errorf("create compressor: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return nil, fmt.Errorf("compress session: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("compress session: %w", err)
	}

	out := make([]byte, headerSize, headerSize+payload.Len())
	copy(out, magic)
	binary.BigEndian.PutUint16(out[4:6], FormatVersion)
	binary.BigEndian.PutUint64(out[6:14], xxhash.Sum64(payload.Bytes()))
	return append(out, payload.Bytes()...), nil
}

// Decode decompresses and deserialises data into a new session. Any failure
// is a *DecodeError; no partially decoded session is ever returned.
func (c *Codec) Decode(data []byte) (*session.Session, error) {
	if len(data) < headerSize {
		return nil, &DecodeError{Reason: "truncated header"}
	}
	if string(data[:4]) != magic {
		return nil, &DecodeError{Reason: "not a save file"}
	}
	if v := binary.BigEndian.Uint16(data[4:6]); v != FormatVersion {
		return nil, &DecodeError{Reason: fmt.Sprintf("unsupported format version %d", v)}
	}
	payload := data[headerSize:]
	if binary.BigEndian.Uint64(data[6:14]) != xxhash.Sum64(payload) {
		return nil, &DecodeError{Reason: "checksum mismatch"}
	}

	r, err := xz.NewReader(bytes.NewReader(payload))
	if err != nil {
		return nil, &DecodeError{Reason: "decompress", Err: err}
	}
	body, err := io.ReadAll(io.LimitReader(r, maxDecodedSize+1))
	if err != nil {
		return nil, &DecodeError{Reason: "decompress", Err: err}
	}
	if len(body) > maxDecodedSize {
		return nil, &DecodeError{Reason: "decompressed data too large"}
	}

	var s session.Session
	if err := c.dec.Unmarshal(body, &s); err != nil {
		return nil, &DecodeError{Reason: "decode session", Err: err}
	}
	if err := s.Validate(); err != nil {
		return nil, &DecodeError{Reason: "invalid session", Err: err}
	}
	return &s, nil
}
