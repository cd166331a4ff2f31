package stream

import (
	"bufio"
	"io"
	"os"
	"sync"

	"github.com/hashicorp/go-multierror"

	"github.com/robotalks/uart.go/pkg/comm"
	"github.com/robotalks/uart.go/pkg/msgs"
)

// Logger appends frame events to a file.
type Logger struct {
	*comm.EventWriter

	lock sync.Mutex
	file *os.File
	buf  *bufio.Writer
}

type lockedWriter struct {
	l *Logger
}

func (w lockedWriter) Write(p []byte) (int, error) {
	w.l.lock.Lock()
	defer w.l.lock.Unlock()
	return w.l.buf.Write(p)
}

// CreateLogger creates or truncates the log file.
func CreateLogger(path string) (*Logger, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	l := &Logger{file: f, buf: bufio.NewWriter(f)}
	l.EventWriter = comm.NewEventWriter(NewWriter(lockedWriter{l}), comm.EncodingProto)
	return l, nil
}

// Flush writes buffered events to the file.
func (l *Logger) Flush() error {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.buf.Flush()
}

// Close flushes and closes the file.
func (l *Logger) Close() error {
	var errs *multierror.Error
	if err := l.Flush(); err != nil {
		errs = multierror.Append(errs, err)
	}
	if err := l.file.Close(); err != nil {
		errs = multierror.Append(errs, err)
	}
	if err := l.Err(); err != nil {
		errs = multierror.Append(errs, err)
	}
	return errs.ErrorOrNil()
}

// ReadLog calls fn for every event in a log file, in order.
func ReadLog(path string, fn func(*msgs.FrameEvent) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return ReadEvents(bufio.NewReader(f), fn)
}

// ReadEvents calls fn for every event on a stream until EOF.
func ReadEvents(r io.Reader, fn func(*msgs.FrameEvent) error) error {
	pr := NewReader(r)
	for {
		e, err := comm.ReadEvent(pr, comm.EncodingProto)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err = fn(e); err != nil {
			return err
		}
	}
}
