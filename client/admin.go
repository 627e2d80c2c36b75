package client

import (
	"encoding/json"
	"net/http"
)

// NewAdminMux 管理与监控接口；会话未使用 LossyConn 时不支持修改丢包配置
func NewAdminMux(s *Session) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", HandleMetrics(s))
	mux.HandleFunc("/admin/config", HandleAdminConfig(s.lossy))
	mux.HandleFunc("/ws", HandleFeed(s))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// HandleMetrics 输出会话的运行指标
// GET /metrics
func HandleMetrics(s *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, joined := s.LocalPlayerID()
		payload := map[string]any{
			"session": s.ID,
			"joined":  joined,
			"player":  id,
			"score":   s.Score(),
			"metrics": s.metrics.Snapshot(),
		}
		writeJSON(w, payload)
	}
}

// HandleAdminConfig 读取与热更新模拟丢包配置
// GET /admin/config  返回当前配置
// POST /admin/config 以 JSON 载荷更新，如 {"dropProb":0.2}
func HandleAdminConfig(lossy *LossyConn) http.HandlerFunc {
	type cfg struct {
		DropProb *float64 `json:"dropProb,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if lossy == nil {
			http.Error(w, "packet loss simulation disabled", http.StatusNotFound)
			return
		}
		switch r.Method {
		case http.MethodGet:
			p := lossy.DropProb()
			writeJSON(w, cfg{DropProb: &p})
		case http.MethodPost:
			var body cfg
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}
			if body.DropProb != nil {
				if *body.DropProb < 0 || *body.DropProb > 1 {
					http.Error(w, "dropProb must be in [0,1]", http.StatusBadRequest)
					return
				}
				lossy.SetDropProb(*body.DropProb)
			}
			Log.Infof("config updated: dropProb=%.2f", lossy.DropProb())
			writeJSON(w, map[string]any{"ok": true})
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
