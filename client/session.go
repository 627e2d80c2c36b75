package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/sasha-s/go-deadlock"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Score 红蓝两队比分
type Score struct {
	Red  int32 `json:"red" msgpack:"red"`
	Blue int32 `json:"blue" msgpack:"blue"`
}

// Session 客户端同步核心：持有玩家表、比分、序列号与激光冷却状态，
// 输入路径与两个网络循环通过同一把互斥锁访问它们。
type Session struct {
	ID string

	cfg     Config
	conn    net.PacketConn
	lossy   *LossyConn // conn 带模拟丢包时非 nil
	server  net.Addr
	clock   clock.Clock
	log     *zap.SugaredLogger
	metrics *Metrics
	// 错误日志限流，套接字持续出错时避免刷屏
	errLimit *rate.Limiter

	mu       deadlock.Mutex
	players  Registry
	score    Score
	localID  PlayerID
	joined   bool
	lastSeq  uint32 // 最后接受的服务端序列号
	sendSeq  uint32 // 本地上报序列号，允许回绕
	laser    *LaserController
	joinedCh chan struct{}

	wg sync.WaitGroup
}

// Option 配置 Session 的可选项
type Option func(*Session)

// WithClock 注入时钟，测试中使用 clock.NewMock()
func WithClock(c clock.Clock) Option {
	return func(s *Session) { s.clock = c }
}

// WithLogger 替换默认的全局 Log
func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Session) { s.log = l }
}

// WithMetrics 共享外部的指标对象
func WithMetrics(m *Metrics) Option {
	return func(s *Session) { s.metrics = m }
}

// Dial 解析服务端地址并在临时端口上绑定本地 UDP 套接字
func Dial(cfg Config, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	addr, err := net.ResolveUDPAddr("udp4", cfg.ServerAddr())
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", cfg.ServerAddr(), err)
	}
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{})
	if err != nil {
		return nil, fmt.Errorf("bind local socket: %w", err)
	}
	lossy := NewLossyConn(conn, cfg.DropProb, time.Now().UnixNano(), nil)
	return NewSession(lossy, addr, cfg, opts...), nil
}

// NewSession 在已有的数据报连接上创建会话；Run 之前不会发送任何数据
func NewSession(conn net.PacketConn, server net.Addr, cfg Config, opts ...Option) *Session {
	s := &Session{
		ID:       uuid.NewString(),
		cfg:      cfg,
		conn:     conn,
		server:   server,
		clock:    clock.New(),
		metrics:  &Metrics{},
		errLimit: rate.NewLimiter(1, 5),
		players:  make(Registry),
		joinedCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = Log
	}
	if lc, ok := conn.(*LossyConn); ok {
		if lc.metrics == nil {
			lc.metrics = s.metrics
		}
		s.lossy = lc
	}
	s.log = s.log.With("session", s.ID)
	s.laser = NewLaserController(s.clock, &s.mu, cfg.LaserBeam, cfg.LaserRecharge, s.setLocalLaser)
	return s
}

// Run 依次启动加入握手与快照接收循环，首个快照到达后启动状态上报循环。
// 阻塞直到 ctx 结束，随后关闭套接字并等待所有循环退出。网络错误不会返回给调用方。
func (s *Session) Run(ctx context.Context) error {
	s.log.Infow("session starting", "server", s.server.String())

	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		s.receiveLoop(ctx)
	}()
	go func() {
		defer s.wg.Done()
		s.handshake(ctx)
	}()

	<-ctx.Done()
	if err := s.conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		s.log.Warnw("close socket", "err", err)
	}
	s.wg.Wait()

	s.mu.Lock()
	s.laser.Stop()
	s.mu.Unlock()
	s.log.Infow("session stopped", "metrics", s.metrics.Snapshot())
	return nil
}

// ApplyInput 在锁内把一个输入符号作用到本地玩家或激光控制器上。
// 未知符号以及握手完成前的输入均为空操作；返回是否产生了效果。
func (s *Session) ApplyInput(in Input) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	me := s.localPlayerLocked()
	if me == nil {
		return false
	}
	switch in {
	case InputForward:
		me.MoveForward()
	case InputBackward:
		me.MoveBackward()
	case InputRotateLeft:
		me.RotateLeft()
	case InputRotateRight:
		me.RotateRight()
	case InputFire:
		return s.laser.Fire()
	default:
		return false
	}
	return true
}

// Players 返回玩家表在锁内拷贝的快照
func (s *Session) Players() map[PlayerID]Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.players.Copy()
}

// WithPlayers 在锁内以实时玩家表调用 fn；fn 不得再调用 Session 的其它方法
func (s *Session) WithPlayers(fn func(Registry)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.players)
}

func (s *Session) Score() Score {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

// LocalPlayerID 握手完成前 ok 为 false
func (s *Session) LocalPlayerID() (PlayerID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.localID, s.joined
}

// LaserAvailable 本地激光是否可再次开火
func (s *Session) LaserAvailable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.laser.Available()
}

// Joined 首个快照被接受后关闭
func (s *Session) Joined() <-chan struct{} {
	return s.joinedCh
}

func (s *Session) Metrics() *Metrics {
	return s.metrics
}

// localPlayerLocked 按编号查找本地玩家；未加入或已被移除时返回 nil
func (s *Session) localPlayerLocked() *Player {
	if !s.joined {
		return nil
	}
	return s.players[s.localID]
}

func (s *Session) setLocalLaser(on bool) {
	if me := s.localPlayerLocked(); me != nil {
		me.LaserActive = on
	}
}

// logTransportError 限流记录可恢复的传输错误
func (s *Session) logTransportError(op string, err error) {
	if s.errLimit.Allow() {
		s.log.Warnw("transport error", "op", op, "err", err)
	}
}
