package utils

import (
	"errors"
	"os"
	"testing"
)

type closer struct {
	closed bool
	err    error
}

func (c *closer) Close() error {
	c.closed = true
	return c.err
}

func TestCloseOrWarn(t *testing.T) {
	c := &closer{}
	CloseOrWarn(c, "test")
	if !c.closed {
		t.Error("closer was not closed")
	}

	failing := &closer{err: errors.New("busy")}
	CloseOrWarn(failing, "test")
	if !failing.closed {
		t.Error("failing closer was not closed")
	}

	CloseOrWarn(nil, "nothing")
}

func TestIsStdStream(t *testing.T) {
	if !IsStdStream(os.Stdout) || !IsStdStream(os.Stderr) {
		t.Error("standard streams not detected")
	}
	if IsStdStream(os.Stdin) || IsStdStream(&closer{}) {
		t.Error("non-output value reported as a standard stream")
	}
}
