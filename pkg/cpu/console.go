package cpu

import (
	"fmt"
	"log"
	"net"
	"os"
	"strings"
	"time"
)

// ConsoleIO is the host I/O seam the ecall handler (see itype.go)
// calls through for service 1, which prints a signed decimal value.
// Service 0xA (terminate) does not go through the console: the
// handler returns a KindUserTerminate ExecutionError instead.
//
// Generalized from the teacher's status-register-backed SerialTTY
// (pkg/vm/tty.go): RV32I has no status register, but the shape of "a
// pluggable host console the engine writes ecall output through" is
// the same idea, minus the polling interrupt machinery RiSC-32's
// status register required.
type ConsoleIO interface {
	// Print emits one line of ecall service-1 output.
	Print(line string)
}

// LogConsole is the default ConsoleIO, backed by a *log.Logger built
// the way the teacher's cmd/*/main.go build theirs: log.New(os.Stdout,
// "", 0), i.e. log.SetFlags(0) with no timestamp prefix.
type LogConsole struct {
	logger *log.Logger
}

// NewLogConsole returns a LogConsole writing to logger, or to a
// default no-timestamp stdout logger if logger is nil.
func NewLogConsole(logger *log.Logger) *LogConsole {
	if logger == nil {
		logger = log.New(os.Stdout, "", 0)
	}
	return &LogConsole{logger: logger}
}

// Print implements ConsoleIO.
func (lc *LogConsole) Print(line string) {
	lc.logger.Print(line)
}

// ErrTTYDetach indicates the controlling TCP connection of a
// NetConsole has gone away.
var ErrTTYDetach = fmt.Errorf("tty: detach")

// NetConsole mirrors ecall service-1 output to a single attached TCP
// connection, in addition to printing it via an embedded LogConsole.
// Adapted from the teacher's SerialTTY (pkg/vm/tty.go): same
// TCPListen-then-Accept handshake on 127.0.0.1:0, same short-deadline
// polling write so a stalled peer never blocks the emulator, but
// stripped of the status-register interrupt bits RiSC-32 needed and
// RV32I has no equivalent of.
type NetConsole struct {
	LogConsole
	conn net.Conn
}

// NewNetConsole waits for a controlling TCP connection to attach, the
// way TTYAcceptConn did, and returns a NetConsole instance once one
// has connected.
func NewNetConsole(logger *log.Logger) (*NetConsole, error) {
	nl, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	log.Printf("tty: waiting for console to attach on %s/tcp...", nl.Addr())
	conn, err := nl.Accept()
	if err != nil {
		return nil, err
	}
	return &NetConsole{LogConsole: *NewLogConsole(logger), conn: conn}, nil
}

// LocalAddr returns the address where NewNetConsole is listening,
// before a peer has attached this is unavailable; call it only after
// construction succeeds.
func (nc *NetConsole) LocalAddr() net.Addr {
	return nc.conn.LocalAddr()
}

// Close closes the underlying connection.
func (nc *NetConsole) Close() error {
	return nc.conn.Close()
}

// Print implements ConsoleIO: it logs the line locally and best-effort
// mirrors it, newline-terminated and in a single write, to the attached
// peer within a 100ms deadline.
func (nc *NetConsole) Print(line string) {
	nc.LogConsole.Print(line)
	nc.conn.SetDeadline(time.Now().Add(100 * time.Millisecond))
	if _, err := nc.conn.Write([]byte(line + "\n")); err != nil {
		if !strings.HasSuffix(err.Error(), "i/o timeout") {
			log.Printf("%v: %s", ErrTTYDetach, err)
		}
	}
}
