package types

import (
	"fmt"
	"strconv"
	"strings"
)

// BlockID is the store key of a block, its decimal height.
func BlockID(height uint64) string {
	return strconv.FormatUint(height, 10)
}

// ExtrinsicID keys an extrinsic by block height and position within the block.
func ExtrinsicID(height uint64, index int) string {
	return fmt.Sprintf("%d-%d", height, index)
}

// EventID keys an event by block height and position within the block.
func EventID(height uint64, index int) string {
	return fmt.Sprintf("%d-%d", height, index)
}

// LogID keys a digest log by block height and position within the digest.
func LogID(height uint64, index int) string {
	return fmt.Sprintf("%d-%d", height, index)
}

// ParseCompositeID splits a {height}-{index} key back into its parts.
func ParseCompositeID(id string) (height uint64, index int, err error) {
	parts := strings.SplitN(id, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed composite id %q", id)
	}
	height, err = strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return
	}
	index, err = strconv.Atoi(parts[1])
	return
}
