package client

import "context"

// handshake 发送加入请求并每隔 JoinRetry 重发，直到首个快照被接受。
// 没有重试上限，也没有"连接失败"状态：服务端不应答时会一直重试。
func (s *Session) handshake(ctx context.Context) {
	// 计时器先于首次发送建立，保证每次发送时重传计时已经生效
	timer := s.clock.Timer(s.cfg.JoinRetry)
	defer timer.Stop()

	if !s.sendJoin() {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.joinedCh:
			return
		case <-timer.C:
			timer.Reset(s.cfg.JoinRetry)
			s.log.Debugw("join request timed out, retrying", "attempts", s.metrics.JoinRequests.Load())
			if !s.sendJoin() {
				return
			}
		}
	}
}

// sendJoin 已加入时返回 false。发送在锁内完成，首个快照被接受后不会再有加入请求发出。
func (s *Session) sendJoin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.joined {
		return false
	}
	if _, err := s.conn.WriteTo(AppendJoinRequest(nil), s.server); err != nil {
		s.metrics.SendErrors.Add(1)
		s.logTransportError("join", err)
		return true
	}
	s.metrics.JoinRequests.Add(1)
	return true
}
