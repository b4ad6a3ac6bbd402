package token

import (
	"encoding/binary"
	"fmt"

	"github.com/arloliu/aura/errs"
	"github.com/arloliu/aura/format"
)

// Encode appends the tag-byte serialization (§3.3) of tokens to dst and
// returns the extended slice. This byte stream is what the rANS stage (C4)
// entropy codes for method=0x01 containers.
func Encode(dst []byte, tokens []Token) ([]byte, error) {
	for _, t := range tokens {
		var err error
		dst, err = encodeOne(dst, t)
		if err != nil {
			return nil, err
		}
	}

	return dst, nil
}

func encodeOne(dst []byte, t Token) ([]byte, error) {
	switch t.Kind {
	case format.TokenLiteral:
		dst = append(dst, byte(format.TokenLiteral), t.Literal)
	case format.TokenDictionary:
		dst = append(dst, byte(format.TokenDictionary), t.DictID)
	case format.TokenMatch:
		if t.Distance < 1 || t.Distance > 32768 {
			return nil, fmt.Errorf("token: match distance %d out of range", t.Distance)
		}
		if t.Length < 3 || t.Length > 258 {
			return nil, fmt.Errorf("token: match length %d out of range", t.Length)
		}
		var buf [2]byte
		binary.BigEndian.PutUint16(buf[:], uint16(t.Distance)) //nolint:gosec
		dst = append(dst, byte(format.TokenMatch))
		dst = append(dst, buf[0], buf[1])
		dst = append(dst, byte(t.Length-3))
	case format.TokenTemplate:
		dst = appendTemplatePayload(dst, true, t.TemplateID, t.Slots)
	default:
		return nil, fmt.Errorf("token: unknown kind %d", t.Kind)
	}

	return dst, nil
}

// appendTemplatePayload writes [template_id u16][slot_count u8]{[len
// u16][bytes]}*, optionally preceded by the 0x03 tag byte (tagged=true for
// the token stream, tagged=false for the method=0x02 container payload,
// which shares this exact layout per §6.1).
func appendTemplatePayload(dst []byte, tagged bool, id uint16, slots []string) []byte {
	if tagged {
		dst = append(dst, byte(format.TokenTemplate))
	}

	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], id)
	dst = append(dst, buf[0], buf[1])
	dst = append(dst, byte(len(slots))) //nolint:gosec

	for _, s := range slots {
		binary.BigEndian.PutUint16(buf[:], uint16(len(s))) //nolint:gosec
		dst = append(dst, buf[0], buf[1])
		dst = append(dst, s...)
	}

	return dst
}

// EncodeTemplatePayload writes the method=0x02 container payload layout
// (no leading tag byte): [template_id u16][slot_count u8]{[len u16][bytes]}*.
func EncodeTemplatePayload(dst []byte, id uint16, slots []string) []byte {
	return appendTemplatePayload(dst, false, id, slots)
}

// DecodeTemplatePayload parses the method=0x02 container payload layout.
func DecodeTemplatePayload(data []byte) (id uint16, slots []string, err error) {
	r := reader{data: data}
	id, err = r.u16()
	if err != nil {
		return 0, nil, err
	}
	count, err := r.u8()
	if err != nil {
		return 0, nil, err
	}
	slots, err = r.slots(int(count))
	if err != nil {
		return 0, nil, err
	}
	if !r.atEnd() {
		return 0, nil, fmt.Errorf("%w: trailing bytes in template payload", errs.ErrCorruptPayload)
	}

	return id, slots, nil
}

// Decode parses the tag-byte token stream produced by Encode.
func Decode(data []byte) ([]Token, error) {
	r := reader{data: data}
	var tokens []Token

	for !r.atEnd() {
		tag, err := r.u8()
		if err != nil {
			return nil, err
		}

		switch format.TokenKind(tag) {
		case format.TokenLiteral:
			b, err := r.u8()
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, NewLiteral(b))
		case format.TokenDictionary:
			id, err := r.u8()
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, NewDictionary(id))
		case format.TokenMatch:
			dist, err := r.u16()
			if err != nil {
				return nil, err
			}
			lenByte, err := r.u8()
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, NewMatch(int(dist), int(lenByte)+3))
		case format.TokenTemplate:
			id, err := r.u16()
			if err != nil {
				return nil, err
			}
			count, err := r.u8()
			if err != nil {
				return nil, err
			}
			slots, err := r.slots(int(count))
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, NewTemplate(id, slots))
		default:
			return nil, fmt.Errorf("%w: unknown token tag 0x%02x", errs.ErrCorruptPayload, tag)
		}
	}

	return tokens, nil
}

// reader is a small bounds-checked cursor over a byte slice, shared by the
// token stream and template-payload decoders.
type reader struct {
	data []byte
	pos  int
}

func (r *reader) atEnd() bool { return r.pos >= len(r.data) }

func (r *reader) u8() (uint8, error) {
	if r.pos+1 > len(r.data) {
		return 0, fmt.Errorf("%w: truncated while reading u8", errs.ErrCorruptPayload)
	}
	v := r.data[r.pos]
	r.pos++

	return v, nil
}

func (r *reader) u16() (uint16, error) {
	if r.pos+2 > len(r.data) {
		return 0, fmt.Errorf("%w: truncated while reading u16", errs.ErrCorruptPayload)
	}
	v := binary.BigEndian.Uint16(r.data[r.pos : r.pos+2])
	r.pos += 2

	return v, nil
}

func (r *reader) slots(count int) ([]string, error) {
	slots := make([]string, count)
	for i := 0; i < count; i++ {
		length, err := r.u16()
		if err != nil {
			return nil, err
		}
		if r.pos+int(length) > len(r.data) {
			return nil, fmt.Errorf("%w: truncated while reading slot bytes", errs.ErrCorruptPayload)
		}
		slots[i] = string(r.data[r.pos : r.pos+int(length)])
		r.pos += int(length)
	}

	return slots, nil
}
