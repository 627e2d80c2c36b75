package client

import (
	"math"
	"math/rand"
	"net"
	"sync"
	"sync/atomic"
)

// LossyConn 在 net.PacketConn 外包一层模拟丢包，用于在不可靠网络下检验同步协议
// 入站与出站使用同一个丢包概率；丢弃的出站包对调用方表现为发送成功。
type LossyConn struct {
	net.PacketConn

	prob    atomic.Uint64 // float64 bits
	metrics *Metrics

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewLossyConn metrics 可为 nil
func NewLossyConn(conn net.PacketConn, prob float64, seed int64, metrics *Metrics) *LossyConn {
	c := &LossyConn{
		PacketConn: conn,
		metrics:    metrics,
		rnd:        rand.New(rand.NewSource(seed)),
	}
	c.SetDropProb(prob)
	return c
}

// DropProb 当前丢包概率
func (c *LossyConn) DropProb() float64 {
	return math.Float64frombits(c.prob.Load())
}

// SetDropProb 运行期热更新丢包概率，超出 [0,1] 的值被裁剪
func (c *LossyConn) SetDropProb(p float64) {
	p = math.Max(0, math.Min(1, p))
	c.prob.Store(math.Float64bits(p))
}

func (c *LossyConn) drop() bool {
	p := c.DropProb()
	if p <= 0 {
		return false
	}
	c.mu.Lock()
	r := c.rnd.Float64()
	c.mu.Unlock()
	if r >= p {
		return false
	}
	if c.metrics != nil {
		c.metrics.DropsSimulated.Add(1)
	}
	return true
}

func (c *LossyConn) ReadFrom(b []byte) (int, net.Addr, error) {
	for {
		n, addr, err := c.PacketConn.ReadFrom(b)
		if err != nil || !c.drop() {
			return n, addr, err
		}
	}
}

func (c *LossyConn) WriteTo(b []byte, addr net.Addr) (int, error) {
	if c.drop() {
		return len(b), nil
	}
	return c.PacketConn.WriteTo(b, addr)
}
