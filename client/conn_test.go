package client

import (
	"net"
	"sync"
	"time"
)

var testServerAddr = &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 9000}

type fakePacket struct {
	data []byte
	addr net.Addr
	err  error
}

// fakeConn 内存中的 net.PacketConn：inbox 为待读数据报，WriteTo 记录发出的数据报
type fakeConn struct {
	inbox     chan fakePacket
	closed    chan struct{}
	closeOnce sync.Once

	mu       sync.Mutex
	sent     [][]byte
	writeErr error
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		inbox:  make(chan fakePacket, 64),
		closed: make(chan struct{}),
	}
}

func (c *fakeConn) deliver(b []byte) {
	c.inbox <- fakePacket{data: b, addr: testServerAddr}
}

func (c *fakeConn) deliverFrom(b []byte, addr net.Addr) {
	c.inbox <- fakePacket{data: b, addr: addr}
}

func (c *fakeConn) deliverErr(err error) {
	c.inbox <- fakePacket{err: err}
}

func (c *fakeConn) ReadFrom(b []byte) (int, net.Addr, error) {
	// 已排队的数据报优先于关闭
	select {
	case p := <-c.inbox:
		return c.read(b, p)
	default:
	}
	select {
	case p := <-c.inbox:
		return c.read(b, p)
	case <-c.closed:
		return 0, nil, net.ErrClosed
	}
}

func (c *fakeConn) read(b []byte, p fakePacket) (int, net.Addr, error) {
	if p.err != nil {
		return 0, nil, p.err
	}
	return copy(b, p.data), p.addr, nil
}

func (c *fakeConn) WriteTo(b []byte, addr net.Addr) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeErr != nil {
		return 0, c.writeErr
	}
	c.sent = append(c.sent, append([]byte(nil), b...))
	return len(b), nil
}

func (c *fakeConn) setWriteErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writeErr = err
}

func (c *fakeConn) Sent() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]byte(nil), c.sent...)
}

// joins / updates 按包头区分已发出的加入请求与周期上报
func (c *fakeConn) joins() int {
	n := 0
	for _, b := range c.Sent() {
		if h, _, err := DecodeClientPacket(b); err == nil && h.Request {
			n++
		}
	}
	return n
}

func (c *fakeConn) updates() []PlayerRecord {
	var out []PlayerRecord
	for _, b := range c.Sent() {
		if h, rec, err := DecodeClientPacket(b); err == nil && !h.Request && rec != nil {
			out = append(out, *rec)
		}
	}
	return out
}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) isClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

func (c *fakeConn) LocalAddr() net.Addr                { return &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 40000} }
func (c *fakeConn) SetDeadline(t time.Time) error      { return nil }
func (c *fakeConn) SetReadDeadline(t time.Time) error  { return nil }
func (c *fakeConn) SetWriteDeadline(t time.Time) error { return nil }
