package events

import (
	"encoding/hex"
	"strconv"
)

func intToString(v int64) string {
	return strconv.FormatInt(v, 10)
}

func boolToString(v bool) string {
	return strconv.FormatBool(v)
}

func hashToString(h [32]byte) string {
	return hex.EncodeToString(h[:])
}
