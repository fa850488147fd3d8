package flash

import (
	"sync"
	"time"

	"github.com/buckleypaul/flashmon/internal/serial"
)

// fakeConn replays scripted chunks, then either idles or fails. Poll idles
// briefly when nothing is scripted so test read loops stay cool.
type fakeConn struct {
	mu     sync.Mutex
	chunks [][]byte
	repeat []byte // delivered forever once chunks run out
	err    error  // returned once chunks are exhausted, nil means idle
	closes int
}

func (c *fakeConn) Poll(p []byte) (int, error) {
	c.mu.Lock()
	if len(c.chunks) > 0 {
		chunk := c.chunks[0]
		c.chunks = c.chunks[1:]
		c.mu.Unlock()
		return copy(p, chunk), nil
	}
	repeat := c.repeat
	err := c.err
	c.mu.Unlock()

	if len(repeat) > 0 {
		time.Sleep(time.Millisecond)
		return copy(p, repeat), nil
	}
	if err != nil {
		return 0, err
	}
	time.Sleep(time.Millisecond)
	return 0, nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	c.closes++
	c.mu.Unlock()
	return nil
}

func (c *fakeConn) closeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closes
}

// fakeOpener hands out one fakeConn per port name, or fails every open.
type fakeOpener struct {
	mu      sync.Mutex
	conns   map[string]*fakeConn
	openErr error
	opens   int
}

func (o *fakeOpener) Open(portName string, baudRate int) (serial.Conn, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.opens++
	if o.openErr != nil {
		return nil, o.openErr
	}
	c, ok := o.conns[portName]
	if !ok {
		c = &fakeConn{}
		if o.conns == nil {
			o.conns = make(map[string]*fakeConn)
		}
		o.conns[portName] = c
	}
	return c, nil
}
