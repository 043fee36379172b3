package ndn

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// TLV type numbers used by this package, following the NDN packet format
// assignments.
const (
	tlvInterest       = 0x05
	tlvData           = 0x06
	tlvName           = 0x07
	tlvNameComponent  = 0x08
	tlvContent        = 0x15
	tlvSignatureInfo  = 0x16
	tlvSignatureValue = 0x17
	tlvSignatureType  = 0x1b
	tlvKeyLocator     = 0x1c
)

var errTruncated = errors.New("truncated TLV")

// appendVarNum appends a TLV variable-size number.
func appendVarNum(b []byte, n uint64) []byte {
	switch {
	case n < 253:
		return append(b, byte(n))
	case n <= 0xffff:
		b = append(b, 253)
		return binary.BigEndian.AppendUint16(b, uint16(n))
	case n <= 0xffffffff:
		b = append(b, 254)
		return binary.BigEndian.AppendUint32(b, uint32(n))
	default:
		b = append(b, 255)
		return binary.BigEndian.AppendUint64(b, n)
	}
}

// appendTLV appends a complete TLV block.
func appendTLV(b []byte, typ uint64, value []byte) []byte {
	b = appendVarNum(b, typ)
	b = appendVarNum(b, uint64(len(value)))
	return append(b, value...)
}

// readVarNum reads a variable-size number and returns it together with the
// remaining bytes.
func readVarNum(b []byte) (uint64, []byte, error) {
	if len(b) == 0 {
		return 0, nil, errTruncated
	}
	switch first := b[0]; {
	case first < 253:
		return uint64(first), b[1:], nil
	case first == 253:
		if len(b) < 3 {
			return 0, nil, errTruncated
		}
		return uint64(binary.BigEndian.Uint16(b[1:3])), b[3:], nil
	case first == 254:
		if len(b) < 5 {
			return 0, nil, errTruncated
		}
		return uint64(binary.BigEndian.Uint32(b[1:5])), b[5:], nil
	default:
		if len(b) < 9 {
			return 0, nil, errTruncated
		}
		return binary.BigEndian.Uint64(b[1:9]), b[9:], nil
	}
}

// readTLV reads one TLV block and returns its type, its value and the
// remaining bytes.
func readTLV(b []byte) (uint64, []byte, []byte, error) {
	typ, rest, err := readVarNum(b)
	if err != nil {
		return 0, nil, nil, err
	}
	length, rest, err := readVarNum(rest)
	if err != nil {
		return 0, nil, nil, err
	}
	if uint64(len(rest)) < length {
		return 0, nil, nil, errTruncated
	}
	return typ, rest[:length], rest[length:], nil
}

// expectTLV reads one TLV block and checks its type.
func expectTLV(b []byte, typ uint64) ([]byte, []byte, error) {
	got, value, rest, err := readTLV(b)
	if err != nil {
		return nil, nil, err
	}
	if got != typ {
		return nil, nil, fmt.Errorf("unexpected TLV type %#x, want %#x", got, typ)
	}
	return value, rest, nil
}
