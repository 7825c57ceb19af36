package netserver

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteReadFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, StatusOKDone, []byte("hello")))

	h, payload, err := ReadFrame(&buf)
	require.NoError(t, err)
	require.Equal(t, StatusOKDone, h.Status)
	require.Equal(t, "hello", string(payload))
}

func TestWriteReadFrameEmptyPayload(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, StatusObjectNotFound, nil))

	h, payload, err := ReadFrame(&buf)
	require.NoError(t, err)
	require.Equal(t, StatusObjectNotFound, h.Status)
	require.Empty(t, payload)
}

func TestInt32BytesRoundTrip(t *testing.T) {
	in := []int32{1, -2, 3}
	buf := int32Bytes(in)
	require.Len(t, buf, 12)

	got := int32(byteOrder.Uint32(buf[4:8]))
	require.Equal(t, int32(-2), got)
}
