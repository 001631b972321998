package console

import (
	"bytes"
	"errors"
	"testing"

	"bootsched/core"
)

func TestConsoleDrainsFromCyclic(t *testing.T) {
	counter := core.NewManualCounter(64, 1000000, false)
	d := core.NewDispatcher(counter, core.NewHeap(1<<16))

	var out bytes.Buffer
	c := New(&out, 64)
	c.Start(d.Cyclic, 1000)

	w := c.Writer()
	w("hello")
	w("world")

	if out.Len() != 0 {
		t.Fatal("Output written before the console task ran")
	}
	if c.Pending() != 12 {
		t.Errorf("Expected 12 queued bytes, got %d", c.Pending())
	}

	counter.Set(1000)
	d.Schedule()

	if out.String() != "hello\nworld\n" {
		t.Errorf("Unexpected console output %q", out.String())
	}

	if err := c.Stop(); err != nil {
		t.Errorf("Stop failed: %v", err)
	}
	if d.Cyclic.Len() != 0 {
		t.Error("Console task still registered after Stop")
	}
}

func TestConsoleDropsWhenFull(t *testing.T) {
	var out bytes.Buffer
	c := New(&out, 8)

	n, err := c.Write([]byte("0123456789"))
	if n != 10 || err != nil {
		t.Errorf("Write must not fail on overflow, got n=%d err=%v", n, err)
	}
	if c.Dropped != 3 {
		t.Errorf("Expected 3 dropped bytes, got %d", c.Dropped)
	}

	if err := c.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if out.String() != "0123456" {
		t.Errorf("Expected the bytes that fit, got %q", out.String())
	}
}

func TestConsoleFlushDrainsEverything(t *testing.T) {
	var out bytes.Buffer
	c := New(&out, 16)

	c.Puts("abcdefghij")
	c.Flush()
	c.Puts("klmnopqrst")
	c.Flush()

	if out.String() != "abcdefghijklmnopqrst" {
		t.Errorf("Unexpected output %q", out.String())
	}
	if c.Pending() != 0 {
		t.Errorf("Expected nothing pending, got %d", c.Pending())
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("line down")
}

func TestConsoleWriteErrors(t *testing.T) {
	c := New(failingWriter{}, 16)
	c.Puts("lost")

	if err := c.Flush(); err == nil {
		t.Error("Expected the writer error from Flush")
	}
	if c.WriteErrors != 1 {
		t.Errorf("Expected one write error, got %d", c.WriteErrors)
	}
}

func TestConsoleAsDebugWriter(t *testing.T) {
	var out bytes.Buffer
	c := New(&out, 256)

	core.SetDebugWriter(c.Writer())
	t.Cleanup(func() { core.SetDebugWriter(nil) })

	core.ErrorPrintln("cyclic function slow took too long")
	c.Flush()

	if out.String() != "cyclic function slow took too long\n" {
		t.Errorf("Unexpected output %q", out.String())
	}
}
