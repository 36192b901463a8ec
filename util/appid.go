package util

import (
	"errors"
	"math/big"
)

// ErrInvalidAppID is returned when the raw application id bytes cannot be decoded.
var ErrInvalidAppID = errors.New("invalid app id encoding")

// DecodeAppIDHex decodes the compact variable-length application id encoding from a
// hex string. The value is packed little-endian; the encoded length selects the
// trailing mode bits to shift away: two bits for encodings of up to four bytes,
// a full byte for longer ones.
func DecodeAppIDHex(hexStr string) (uint64, error) {
	v := TrimHexPrefix(hexStr)
	if len(v) == 0 || len(v)%2 != 0 {
		return 0, ErrInvalidAppID
	}
	bz, err := HexToBytes(v)
	if err != nil {
		return 0, ErrInvalidAppID
	}
	return DecodeAppID(bz)
}

// DecodeAppID decodes the compact application id encoding from raw bytes.
func DecodeAppID(bz []byte) (uint64, error) {
	if len(bz) == 0 {
		return 0, ErrInvalidAppID
	}
	s := new(big.Int)
	for i, b := range bz {
		s.Or(s, new(big.Int).Lsh(big.NewInt(int64(b)), uint(i*8)))
	}
	shift := uint(8)
	if len(bz) <= 4 {
		shift = 2
	}
	return s.Rsh(s, shift).Uint64(), nil
}
