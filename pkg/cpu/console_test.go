package cpu

import (
	"bufio"
	"bytes"
	"log"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogConsolePrint(t *testing.T) {
	var buf bytes.Buffer
	lc := NewLogConsole(log.New(&buf, "", 0))
	lc.Print("42")
	assert.Equal(t, "42\n", buf.String())
}

// TestNetConsoleMirrorsOutput constructs a NetConsole directly over an
// in-memory net.Pipe, sidestepping NewNetConsole's TCP accept handshake
// (irrelevant once a connection exists), and checks that Print both
// logs locally and writes the line to the peer.
func TestNetConsoleMirrorsOutput(t *testing.T) {
	local, peer := net.Pipe()
	defer local.Close()
	defer peer.Close()

	var buf bytes.Buffer
	nc := &NetConsole{LogConsole: *NewLogConsole(log.New(&buf, "", 0))}
	nc.conn = local

	readDone := make(chan string, 1)
	go func() {
		line, _ := bufio.NewReader(peer).ReadString('\n')
		readDone <- line
	}()

	nc.Print("42")
	assert.Equal(t, "42\n", buf.String())
	assert.Equal(t, "42\n", <-readDone)
}

func TestNetConsoleToleratesDetachedPeer(t *testing.T) {
	local, peer := net.Pipe()
	peer.Close()
	defer local.Close()

	var buf bytes.Buffer
	nc := &NetConsole{LogConsole: *NewLogConsole(log.New(&buf, "", 0))}
	nc.conn = local

	require.NotPanics(t, func() { nc.Print("hello") })
	assert.Equal(t, "hello\n", buf.String())
}
