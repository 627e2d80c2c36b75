package client

import (
	"errors"
	"fmt"
	"net"
	"time"
)

// Config 客户端会话的可调参数
type Config struct {
	// 服务端地址与服务名（端口），会话开始时解析一次
	ServerHost string
	ServerPort string

	JoinRetry     time.Duration // 加入请求重发间隔
	SendInterval  time.Duration // 本地状态上报周期
	LaserBeam     time.Duration // 激光持续时长
	LaserRecharge time.Duration // 激光冷却时长（自开火时刻计）

	// CorrectionThreshold 本地玩家与服务端位置偏差超过该值才采用服务端位置
	CorrectionThreshold float64

	// DropProb 模拟丢包概率（0 表示不丢包）
	DropProb float64

	AdminAddr    string        // 管理/监控 HTTP 地址，空则不启动
	FeedInterval time.Duration // 视图推送周期
	LogFile      string        // 日志文件路径，空则不写日志
}

// DefaultConfig 返回协议规定的默认时序
func DefaultConfig() Config {
	return Config{
		ServerHost:          "127.0.0.1",
		ServerPort:          "9000",
		JoinRetry:           time.Second,
		SendInterval:        50 * time.Millisecond,
		LaserBeam:           250 * time.Millisecond,
		LaserRecharge:       time.Second,
		CorrectionThreshold: 25,
		FeedInterval:        100 * time.Millisecond,
	}
}

// ServerAddr 返回 host:port 形式的地址
func (c Config) ServerAddr() string {
	return net.JoinHostPort(c.ServerHost, c.ServerPort)
}

// Validate 检查时序和概率参数
func (c Config) Validate() error {
	var errs []error
	if c.ServerHost == "" || c.ServerPort == "" {
		errs = append(errs, errors.New("server host and port are required"))
	}
	for name, d := range map[string]time.Duration{
		"join retry":     c.JoinRetry,
		"send interval":  c.SendInterval,
		"laser beam":     c.LaserBeam,
		"laser recharge": c.LaserRecharge,
		"feed interval":  c.FeedInterval,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", name, d))
		}
	}
	if c.CorrectionThreshold < 0 {
		errs = append(errs, fmt.Errorf("correction threshold must not be negative, got %v", c.CorrectionThreshold))
	}
	if c.DropProb < 0 || c.DropProb > 1 {
		errs = append(errs, fmt.Errorf("drop probability must be in [0,1], got %v", c.DropProb))
	}
	return errors.Join(errs...)
}
