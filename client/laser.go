package client

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// LaserController 本地玩家的激光冷却状态机：Ready → Firing → Recharging → Ready
//
// 开火时同时启动两个互相独立的计时器：beam 到期熄灭光束，recharge 到期恢复可用。
// Fire 与 Available 须在持有 lock 时调用；计时器回调自己获取 lock。
type LaserController struct {
	clock    clock.Clock
	lock     sync.Locker
	beam     time.Duration
	recharge time.Duration
	setBeam  func(on bool)

	available     bool
	beamTimer     *clock.Timer
	rechargeTimer *clock.Timer
}

// NewLaserController setBeam 在持有 lock 的情况下被调用，用来设置本地玩家的激光标志
func NewLaserController(clk clock.Clock, lock sync.Locker, beam, recharge time.Duration, setBeam func(on bool)) *LaserController {
	return &LaserController{
		clock:     clk,
		lock:      lock,
		beam:      beam,
		recharge:  recharge,
		setBeam:   setBeam,
		available: true,
	}
}

// Fire 冷却中调用为空操作（不重置任何计时器），返回是否真正开火
func (l *LaserController) Fire() bool {
	if !l.available {
		return false
	}
	l.available = false
	l.setBeam(true)

	l.beamTimer = l.clock.AfterFunc(l.beam, func() {
		l.lock.Lock()
		defer l.lock.Unlock()
		l.setBeam(false)
	})
	l.rechargeTimer = l.clock.AfterFunc(l.recharge, func() {
		l.lock.Lock()
		defer l.lock.Unlock()
		l.available = true
	})
	return true
}

// Available 是否允许下一次开火
func (l *LaserController) Available() bool {
	return l.available
}

// Stop 会话结束时停止未到期的计时器
func (l *LaserController) Stop() {
	if l.beamTimer != nil {
		l.beamTimer.Stop()
	}
	if l.rechargeTimer != nil {
		l.rechargeTimer.Stop()
	}
}
