package vantage

import (
	"crypto/tls"
	"fmt"
	"io"
	"net"

	"go.bug.st/serial.v1"
)

// Default Host Command service ports.
const (
	DefaultPort    = 3001
	DefaultPortTLS = 3010
)

// DialTCP opens a Host Command transport over TCP, optionally with TLS. The
// address may omit the port, in which case the service default is used.
func DialTCP(address string, tlsConfig *tls.Config) (io.ReadWriteCloser, error) {
	if _, _, err := net.SplitHostPort(address); err != nil {
		port := DefaultPort
		if tlsConfig != nil {
			port = DefaultPortTLS
		}

		address = fmt.Sprintf("%s:%d", address, port)
	}

	if tlsConfig != nil {
		conn, err := tls.Dial("tcp", address, tlsConfig)
		if err != nil {
			return nil, fmt.Errorf("%w: dial %s: %s", ErrConnection, address, err.Error())
		}

		return conn, nil
	}

	conn, err := net.Dial("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %s", ErrConnection, address, err.Error())
	}

	return conn, nil
}

// OpenSerial opens a Host Command transport over the controller's RS-232
// station port.
func OpenSerial(name string, baud int) (io.ReadWriteCloser, error) {
	port, err := serial.Open(name, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("%w: open serial port %s: %s", ErrConnection, name, err.Error())
	}

	return port, nil
}
