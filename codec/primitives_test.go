package codec

import (
	"bytes"
	"testing"

	"github.com/TheBearodactyl/boundbook/internal/errs"
	"github.com/stretchr/testify/require"
)

func TestUint_RoundTrip(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteUint8(&buf, 0xAB))
	require.NoError(t, WriteUint16(&buf, 0x1234))
	require.NoError(t, WriteUint32(&buf, 0xDEADBEEF))
	require.NoError(t, WriteUint64(&buf, 0x0102030405060708))
	require.NoError(t, WriteInt64(&buf, -12345))

	v8, err := ReadUint8(&buf)
	require.NoError(t, err)
	require.Equal(t, uint8(0xAB), v8)

	v16, err := ReadUint16(&buf)
	require.NoError(t, err)
	require.Equal(t, uint16(0x1234), v16)

	v32, err := ReadUint32(&buf)
	require.NoError(t, err)
	require.Equal(t, uint32(0xDEADBEEF), v32)

	v64, err := ReadUint64(&buf)
	require.NoError(t, err)
	require.Equal(t, uint64(0x0102030405060708), v64)

	vi64, err := ReadInt64(&buf)
	require.NoError(t, err)
	require.Equal(t, int64(-12345), vi64)
}

func TestString_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteString(&buf, "héllo, 世界"))

	s, err := ReadString(&buf)
	require.NoError(t, err)
	require.Equal(t, "héllo, 世界", s)
}

func TestString_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteString(&buf, ""))

	s, err := ReadString(&buf)
	require.NoError(t, err)
	require.Equal(t, "", s)
}

func TestReadString_RejectsMalformedUTF8(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBytes(&buf, []byte{0xff, 0xfe, 0xfd}))

	_, err := ReadString(&buf)
	require.ErrorIs(t, err, errs.ErrMalformedUTF8)
}

func TestReadBytes_RejectsOverCap(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteUint64(&buf, 1<<31))

	_, err := ReadBytes(&buf)
	require.ErrorIs(t, err, errs.ErrOverflow)
}

func TestReadUint8_UnexpectedEOF(t *testing.T) {
	_, err := ReadUint8(bytes.NewReader(nil))
	require.ErrorIs(t, err, errs.ErrUnexpectedEOF)
}

func TestWriteZeros_ExactLength(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteZeros(&buf, 10000))
	require.Equal(t, 10000, buf.Len())
	require.True(t, bytes.Equal(buf.Bytes(), make([]byte, 10000)))
}

func TestWriteZeros_NonPositiveIsNoop(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteZeros(&buf, 0))
	require.NoError(t, WriteZeros(&buf, -5))
	require.Equal(t, 0, buf.Len())
}
