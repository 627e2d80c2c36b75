package client

import (
	"context"

	"github.com/benbjohnson/clock"
)

// startPusherLocked 首个快照被接受时调用（持有锁）。
// 计时器在这里同步创建，之后每个 SendInterval 推送一次本地状态。
func (s *Session) startPusherLocked(ctx context.Context) {
	ticker := s.clock.Ticker(s.cfg.SendInterval)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer ticker.Stop()
		s.pushLoop(ctx, ticker)
	}()
}

// pushLoop 无论发送成功与否节奏都不变，直到会话拆除
func (s *Session) pushLoop(ctx context.Context, ticker *clock.Ticker) {
	buf := make([]byte, 0, UpdateSize)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.pushState(buf[:0])
		}
	}
}

// pushState 发送一次本地玩家状态（不确认、不重传）。本地玩家不在表中时不发送。
func (s *Session) pushState(buf []byte) bool {
	s.mu.Lock()
	me := s.localPlayerLocked()
	if me == nil {
		s.mu.Unlock()
		return false
	}
	seq := s.sendSeq
	s.sendSeq++
	buf = AppendUpdate(buf, seq, me.Record())
	s.mu.Unlock()

	if _, err := s.conn.WriteTo(buf, s.server); err != nil {
		s.metrics.SendErrors.Add(1)
		s.logTransportError("update", err)
		return false
	}
	s.metrics.UpdatesSent.Add(1)
	return true
}
