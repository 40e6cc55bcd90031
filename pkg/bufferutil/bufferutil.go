package bufferutil

import (
	"encoding/hex"
)

// ReverseBytes returns a reversed copy of buffer.
func ReverseBytes(buffer []byte) []byte {
	reversed := make([]byte, len(buffer))
	for i, b := range buffer {
		reversed[len(buffer)-1-i] = b
	}
	return reversed
}

// TxIDFromBytes encodes a hash in internal byte order as a displayed txid.
func TxIDFromBytes(buffer []byte) string {
	return hex.EncodeToString(ReverseBytes(buffer))
}

// TxIDToBytes decodes a displayed txid into internal byte order.
func TxIDToBytes(str string) ([]byte, error) {
	buffer, err := hex.DecodeString(str)
	if err != nil {
		return nil, err
	}
	return ReverseBytes(buffer), nil
}
