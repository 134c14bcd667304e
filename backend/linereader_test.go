package backend

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func expectToRead(t *testing.T, reader io.Reader, expected []byte) {
	t.Helper()
	var scratch [1024]byte
	n, err := reader.Read(scratch[:])
	if err != nil {
		t.Errorf("expected read to succeed, got: %v", err)
	} else if !bytes.Equal(scratch[:n], expected) {
		t.Errorf("expected read to yield %q, got: %q", expected, scratch[:n])
	}
}

func expectReadEOF(t *testing.T, reader io.Reader) {
	t.Helper()
	var scratch [1024]byte
	n, err := reader.Read(scratch[:])
	if !errors.Is(err, io.EOF) {
		t.Errorf("expected read to give EOF, got: %v", err)
	} else if n != 0 {
		t.Errorf("expected read to read nothing, read %q", scratch[:n])
	}
}

func TestLineReader(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	first := "x,y\n"
	second := "1,2\n"
	buf.WriteString(first)
	buf.WriteString(second)
	l := NewLineReader(buf)
	expectToRead(t, l, []byte(first))
	expectToRead(t, l, []byte(second))
	third := "3,"
	buf.WriteString(third)
	expectReadEOF(t, l)
	fourth := "4\n"
	buf.WriteString(fourth)
	expectToRead(t, l, []byte(third+fourth))
	buf.WriteString("5")
	expectReadEOF(t, l)
	buf.WriteString(",")
	expectReadEOF(t, l)
	buf.WriteString("6\n7")
	expectToRead(t, l, []byte("5,6\n"))
}

func TestLineReaderLongLine(t *testing.T) {
	long := strings.Repeat("1,", 1500) + "1\n"
	l := NewLineReader(strings.NewReader(long))
	got, err := io.ReadAll(l)
	if err != nil {
		t.Fatalf("expected read to succeed, got: %v", err)
	}
	if string(got) != long {
		t.Errorf("expected a line longer than the read buffer to survive, got %d of %d bytes", len(got), len(long))
	}
}
