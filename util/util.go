package util

import (
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// StringToUint64 converts string to uint64
func StringToUint64(str string) (uint64, error) {
	ui64, err := strconv.ParseUint(str, 10, 64)
	if err != nil {
		return 0, err
	}
	return ui64, nil
}

// Uint64ToString coverts uint64 to string
func Uint64ToString(u uint64) string {
	return strconv.FormatUint(u, 10)
}

func SplitByComma(str string) []string {
	str = strings.TrimSpace(str)
	strArr := strings.Split(str, ",")
	var trimStr []string
	for _, item := range strArr {
		if len(strings.TrimSpace(item)) > 0 {
			trimStr = append(trimStr, strings.TrimSpace(item))
		}
	}
	return trimStr
}

func JoinWithComma(slice []string) string {
	return strings.Join(slice, ",")
}

// HexToUint64 converts hex string to uint64
func HexToUint64(hexStr string) (uint64, error) {
	intValue, err := strconv.ParseUint(hexStr, 0, 64)
	if err != nil {
		return 0, err
	}
	return intValue, nil
}

// TrimHexPrefix strips a leading 0x if present.
func TrimHexPrefix(hexStr string) string {
	return strings.TrimPrefix(hexStr, "0x")
}

// BytesToHex formats bytes as lowercase hex without the 0x prefix.
func BytesToHex(bz []byte) string {
	return TrimHexPrefix(hexutil.Encode(bz))
}

// HexToBytes decodes a hex string with or without the 0x prefix.
func HexToBytes(hexStr string) ([]byte, error) {
	if !strings.HasPrefix(hexStr, "0x") {
		hexStr = "0x" + hexStr
	}
	return hexutil.Decode(hexStr)
}
