package console

import "testing"

func TestFifoBufferWrap(t *testing.T) {
	f := NewFifoBuffer(8)

	if n := f.Write([]byte("abcdef")); n != 6 {
		t.Fatalf("Expected 6 bytes written, got %d", n)
	}
	out := make([]byte, 4)
	if n := f.Read(out); n != 4 || string(out) != "abcd" {
		t.Fatalf("Expected abcd, got %q", out[:n])
	}

	// Write across the end of the backing array
	if n := f.WriteString("ghijk"); n != 5 {
		t.Fatalf("Expected 5 bytes written, got %d", n)
	}
	if f.Available() != 7 || f.Free() != 0 {
		t.Errorf("Expected a full buffer, available=%d free=%d", f.Available(), f.Free())
	}

	out = make([]byte, 16)
	n := f.Read(out)
	if string(out[:n]) != "efghijk" {
		t.Errorf("Expected efghijk, got %q", out[:n])
	}
	if !f.IsEmpty() {
		t.Error("Expected the buffer to be empty")
	}
}

func TestFifoBufferFull(t *testing.T) {
	f := NewFifoBuffer(4)
	if n := f.Write([]byte("hello")); n != 3 {
		t.Errorf("Expected 3 bytes to fit, got %d", n)
	}
	if n := f.WriteString("x"); n != 0 {
		t.Errorf("Expected nothing to fit in a full buffer, got %d", n)
	}

	f.Reset()
	if !f.IsEmpty() || f.Free() != 3 {
		t.Error("Reset did not clear the buffer")
	}
}
