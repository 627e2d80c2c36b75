package client

import (
	"context"
	"errors"
	"net"
)

// receiveLoop 同一时刻只有一个未完成的接收；每次完成后校验、应用，然后立即发起下一次接收。
// 传输错误只计数并继续，循环只在会话拆除（ctx 结束或套接字关闭）时退出。
func (s *Session) receiveLoop(ctx context.Context) {
	// ReadFrom 在本协程内同步完成，缓冲区可以复用
	buf := make([]byte, MaxSnapshotSize)
	for {
		n, from, err := s.conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return
			}
			s.metrics.RecvErrors.Add(1)
			s.logTransportError("receive", err)
			continue
		}
		if !sameAddr(from, s.server) {
			s.metrics.ForeignDropped.Add(1)
			continue
		}
		snap, err := DecodeSnapshot(buf[:n])
		if err != nil {
			s.metrics.Malformed.Add(1)
			s.log.Debugw("drop malformed snapshot", "bytes", n, "err", err)
			continue
		}
		s.applySnapshot(ctx, snap)
	}
}

// applySnapshot 在锁内完成序列号校验、比分更新以及插入/更新/移除。
// 首个快照无条件接受：记录服务端分配的本地编号，并以其序列号作为基线。
// 之后只接受序列号严格递增的快照，过期快照整体丢弃（比分也不更新）。
func (s *Session) applySnapshot(ctx context.Context, snap Snapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := snap.Header
	first := !s.joined
	if !first && h.ServerSeq <= s.lastSeq {
		s.metrics.StaleIgnored.Add(1)
		return false
	}
	if first {
		s.localID = PlayerID(h.ClientPlayerNum)
		s.joined = true
	}

	s.lastSeq = h.ServerSeq
	s.score = Score{Red: h.RedScore, Blue: h.BlueScore}
	if s.players.Reconcile(snap.Records, s.localID, s.cfg.CorrectionThreshold) {
		s.metrics.LocalCorrections.Add(1)
		s.log.Debugw("local position corrected by server", "seq", h.ServerSeq)
	}
	s.metrics.SnapshotsAccepted.Add(1)

	if first {
		s.startPusherLocked(ctx)
		close(s.joinedCh)
		s.log.Infow("joined game", "player", s.localID, "seq", h.ServerSeq, "players", len(snap.Records))
	}
	return true
}

func sameAddr(a, b net.Addr) bool {
	ua, okA := a.(*net.UDPAddr)
	ub, okB := b.(*net.UDPAddr)
	if okA && okB {
		return ua.Port == ub.Port && ua.IP.Equal(ub.IP)
	}
	return a != nil && b != nil && a.Network() == b.Network() && a.String() == b.String()
}
