package stream

import (
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseShortinfo(t *testing.T) {
	query, port, id, err := parseShortinfo([]byte("LSL:shortinfo\r\nname='ViewPoint'\r\n16572 1234\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "name='ViewPoint'", query)
	assert.Equal(t, 16572, port)
	assert.Equal(t, "1234", id)

	for _, msg := range []string{
		"LSL:fullinfo\r\n\r\n16572 1\r\n",
		"LSL:shortinfo\r\n\r\n",
		"LSL:shortinfo\r\n\r\nport 1\r\n",
		"LSL:shortinfo\r\n\r\n70000 1\r\n",
		"LSL:shortinfo\r\n\r\n16572\r\n",
	} {
		_, _, _, err := parseShortinfo([]byte(msg))
		assert.ErrorIs(t, err, ErrQuery, msg)
	}
}

func TestServerAnswer(t *testing.T) {
	s := newTestServer(t)
	_, err := s.NewOutlet(NewInfo("ViewPoint-A", "Gaze", []string{"a"}, 220, "ViewPoint"))
	require.NoError(t, err)
	_, err = s.NewOutlet(NewInfo("ViewPoint-B", "Gaze", []string{"a"}, 220, "ViewPoint"))
	require.NoError(t, err)

	port, replies, err := s.answer([]byte("LSL:shortinfo\r\n\r\n4000 77\r\n"))
	require.NoError(t, err)
	assert.Equal(t, 4000, port)
	assert.Len(t, replies, 2)

	_, replies, err = s.answer([]byte("LSL:shortinfo\r\nname='ViewPoint-B'\r\n4000 77\r\n"))
	require.NoError(t, err)
	require.Len(t, replies, 1)
	id, doc, ok := strings.Cut(string(replies[0]), "\r\n")
	require.True(t, ok)
	assert.Equal(t, "77", id)

	var info Info
	require.NoError(t, info.UnmarshalText([]byte(doc)))
	assert.Equal(t, "ViewPoint-B", info.Name)

	_, _, err = s.answer([]byte("LSL:shortinfo\r\ncolor='red'\r\n4000 77\r\n"))
	assert.ErrorIs(t, err, ErrQuery)
}

func freeUDPPort(t *testing.T) int {
	t.Helper()
	pc, err := net.ListenPacket("udp4", "127.0.0.1:0")
	require.NoError(t, err)
	defer pc.Close()
	return pc.LocalAddr().(*net.UDPAddr).Port
}

func TestDiscoveryRoundTrip(t *testing.T) {
	s, err := NewServer(ServerOptions{Host: "127.0.0.1", Discovery: true, DiscoveryPort: freeUDPPort(t)})
	if err != nil {
		t.Skipf("multicast unavailable: %v", err)
	}
	defer s.Close()

	_, err = s.NewOutlet(NewInfo("ViewPoint", "Gaze", []string{"a"}, 220, "ViewPoint"))
	require.NoError(t, err)

	reply, err := net.ListenPacket("udp4", "127.0.0.1:0")
	require.NoError(t, err)
	defer reply.Close()
	replyPort := reply.LocalAddr().(*net.UDPAddr).Port

	conn, err := net.Dial("udp4", net.JoinHostPort("127.0.0.1", strconv.Itoa(s.opts.DiscoveryPort)))
	require.NoError(t, err)
	defer conn.Close()
	_, err = conn.Write([]byte("LSL:shortinfo\r\ntype='Gaze'\r\n" + strconv.Itoa(replyPort) + " 9\r\n"))
	require.NoError(t, err)

	buf := make([]byte, maxDatagram)
	_ = reply.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, _, err := reply.ReadFrom(buf)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(buf[:n]), "9\r\n<?xml"))
	assert.Contains(t, string(buf[:n]), "<name>ViewPoint</name>")
}
