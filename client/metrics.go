package client

import "sync/atomic"

// Metrics 记录会话运行期的协议事件（用于监控与调试）
type Metrics struct {
	JoinRequests      atomic.Int64 // 已发送的加入请求
	SnapshotsAccepted atomic.Int64 // 被接受的快照
	StaleIgnored      atomic.Int64 // 因序列号未递增被丢弃的快照
	Malformed         atomic.Int64 // 无法解析的数据报
	ForeignDropped    atomic.Int64 // 来源不是服务端的数据报
	LocalCorrections  atomic.Int64 // 本地玩家被服务端位置纠正的次数
	UpdatesSent       atomic.Int64 // 已发送的周期上报
	SendErrors        atomic.Int64
	RecvErrors        atomic.Int64
	DropsSimulated    atomic.Int64 // 因模拟丢包被丢弃的数据报
}

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *Metrics) Snapshot() map[string]int64 {
	return map[string]int64{
		"join_requests":      m.JoinRequests.Load(),
		"snapshots_accepted": m.SnapshotsAccepted.Load(),
		"stale_ignored":      m.StaleIgnored.Load(),
		"malformed":          m.Malformed.Load(),
		"foreign_dropped":    m.ForeignDropped.Load(),
		"local_corrections":  m.LocalCorrections.Load(),
		"updates_sent":       m.UpdatesSent.Load(),
		"send_errors":        m.SendErrors.Load(),
		"recv_errors":        m.RecvErrors.Load(),
		"drops_simulated":    m.DropsSimulated.Load(),
	}
}
