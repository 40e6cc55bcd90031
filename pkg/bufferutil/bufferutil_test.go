package bufferutil_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/template-scenarios/pkg/bufferutil"
)

func TestReverseBytes(t *testing.T) {
	buffer := []byte{1, 2, 3}
	require.Equal(t, []byte{3, 2, 1}, bufferutil.ReverseBytes(buffer))
	require.Equal(t, []byte{1, 2, 3}, buffer)
	require.Equal(t, []byte{}, bufferutil.ReverseBytes(nil))
}

func TestTxID(t *testing.T) {
	txid := "0000000000000000000000000000000000000000000000000000000000000001"

	buffer, err := bufferutil.TxIDToBytes(txid)
	require.NoError(t, err)
	require.Equal(t, byte(0x01), buffer[0])
	require.Equal(t, txid, bufferutil.TxIDFromBytes(buffer))

	_, err = bufferutil.TxIDToBytes("zz")
	require.Error(t, err)
}
