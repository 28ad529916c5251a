package vm

import (
	"fmt"
	"io"
	"sync"
)

// Sink receives the argument of every log call, in call order.
type Sink interface {
	Log(v Value) error
}

// Capture is a Sink that records log output in memory. It is safe for
// concurrent use; entries keep the order in which Log was called.
type Capture struct {
	mu     sync.Mutex
	values []Value
}

// Log appends v.
func (c *Capture) Log(v Value) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = append(c.values, v)
	return nil
}

// Values returns a copy of the recorded values.
func (c *Capture) Values() []Value {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Value(nil), c.values...)
}

// Lines returns the recorded values formatted as log output.
func (c *Capture) Lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	lines := make([]string, len(c.values))
	for i, v := range c.values {
		lines[i] = v.String()
	}
	return lines
}

// WriterSink writes each value on its own line.
type WriterSink struct {
	W io.Writer
}

// Log writes v and a newline.
func (s WriterSink) Log(v Value) error {
	_, err := fmt.Fprintln(s.W, v)
	return err
}
