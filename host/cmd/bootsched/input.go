package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	tty "github.com/mattn/go-tty"
)

// lineReader yields one command line per call
type lineReader interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

// ttyReader edits lines on the controlling terminal
type ttyReader struct {
	io *tty.TTY
}

func (t *ttyReader) ReadLine(prompt string) (string, error) {
	t.io.Output().WriteString(prompt)
	return t.io.ReadString()
}

func (t *ttyReader) Close() error {
	return t.io.Close()
}

// scanReader reads piped input, one line at a time
type scanReader struct {
	scanner *bufio.Scanner
}

func (s *scanReader) ReadLine(prompt string) (string, error) {
	fmt.Print(prompt)
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.scanner.Text(), nil
}

func (s *scanReader) Close() error {
	return nil
}

// newLineReader uses the terminal when there is one and stdin otherwise
func newLineReader(interactive bool) lineReader {
	if interactive {
		if t, err := tty.Open(); err == nil {
			return &ttyReader{io: t}
		}
	}
	return &scanReader{scanner: bufio.NewScanner(os.Stdin)}
}
