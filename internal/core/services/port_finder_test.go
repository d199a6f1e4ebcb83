package services

import (
	"net"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindAvailablePort(t *testing.T) {
	port, err := FindAvailablePort(18760, 18799)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, port, 18760)
	assert.LessOrEqual(t, port, 18799)
}

func TestFindAvailablePort_SkipsBusyPort(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	busy := l.Addr().(*net.TCPAddr).Port
	_, err = FindAvailablePort(busy, busy)
	assert.ErrorContains(t, err, "no available port in range "+strconv.Itoa(busy))
}
