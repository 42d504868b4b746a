package vantage

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
)

// Session is a single Host Command connection to an InFusion controller.
// Requests are line oriented and answered with a single "R:" line; the
// controller additionally pushes unsolicited "S:" status lines which are
// delivered to the status handler.
type Session interface {
	Invoke(ctx context.Context, command string) (string, error)
	OnStatus(handler func(line string))
	Close() error
}

type hostCommandSession struct {
	rw io.ReadWriteCloser

	writeMu sync.Mutex
	pending chan string

	statusMu sync.Mutex
	status   func(string)

	closeOnce sync.Once
	closed    chan struct{}
}

// NewSession wraps an established transport in a Host Command session and
// starts its read loop.
func NewSession(rw io.ReadWriteCloser) Session {
	s := &hostCommandSession{
		rw:      rw,
		pending: make(chan string, 1),
		closed:  make(chan struct{}),
	}

	go s.readLoop()

	return s
}

func (s *hostCommandSession) OnStatus(handler func(line string)) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()

	s.status = handler
}

// Invoke sends one command and waits for its response line. Only one command
// is in flight at a time; the controller answers in order.
func (s *hostCommandSession) Invoke(ctx context.Context, command string) (string, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	select {
	case <-s.closed:
		return "", fmt.Errorf("%w: session closed", ErrConnection)
	default:
	}

	// Discard a response line left behind by a caller that stopped waiting,
	// so it is not paired with this command.
	select {
	case <-s.pending:
	default:
	}

	if _, err := io.WriteString(s.rw, command+"\r\n"); err != nil {
		return "", fmt.Errorf("%w: write: %s", ErrConnection, err.Error())
	}

	select {
	case line, ok := <-s.pending:
		if !ok {
			return "", fmt.Errorf("%w: session closed", ErrConnection)
		}

		return line, parseErrorLine(line)
	case <-s.closed:
		return "", fmt.Errorf("%w: session closed", ErrConnection)
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %s", ErrConnection, ctx.Err().Error())
	}
}

func (s *hostCommandSession) Close() error {
	var err error

	s.closeOnce.Do(func() {
		close(s.closed)
		err = s.rw.Close()
	})

	return err
}

func (s *hostCommandSession) readLoop() {
	scanner := bufio.NewScanner(s.rw)

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")

		switch {
		case strings.HasPrefix(line, "R:"):
			select {
			case s.pending <- line:
			default:
			}
		case strings.HasPrefix(line, "S:"):
			s.statusMu.Lock()
			handler := s.status
			s.statusMu.Unlock()

			if handler != nil {
				handler(line)
			}
		}
	}

	s.Close()
}

// parseErrorLine maps "R:ERROR:<code> <detail>" lines into the client error
// taxonomy; any other response line is a success.
func parseErrorLine(line string) error {
	if !strings.HasPrefix(line, "R:ERROR:") {
		return nil
	}

	rest := strings.TrimPrefix(line, "R:ERROR:")
	codeStr, detail, _ := strings.Cut(rest, " ")

	code, err := strconv.Atoi(codeStr)
	if err != nil {
		return fmt.Errorf("%w: malformed error line: %s", ErrClient, line)
	}

	return errorForCode(code, strings.TrimSpace(detail))
}
