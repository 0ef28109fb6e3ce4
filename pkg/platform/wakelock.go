// Package platform holds the OS-specific glue: keeping the machine awake
// while an alarm rings.
package platform

import (
	"os/exec"
	"sync"

	"go.uber.org/zap"
)

// WakeLock keeps the system from sleeping while held. It shells out to the
// platform's inhibitor tool (caffeinate on macOS, systemd-inhibit on Linux)
// and is a no-op where neither exists. Failures are logged and swallowed;
// an alarm still rings on a machine that refuses the lock.
type WakeLock struct {
	logger *zap.Logger

	mu  sync.Mutex
	cmd *exec.Cmd
}

func NewWakeLock(logger *zap.Logger) *WakeLock {
	return &WakeLock{logger: logger}
}

// Acquire starts the inhibitor process. Holding an already-held lock is a
// no-op.
func (w *WakeLock) Acquire() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cmd != nil {
		return nil
	}

	cmd := inhibitCommand()
	if cmd == nil {
		w.logger.Debug("no wake lock tool on this platform")
		return nil
	}
	if err := cmd.Start(); err != nil {
		w.logger.Warn("failed to acquire wake lock", zap.Error(err))
		return err
	}

	w.cmd = cmd
	w.logger.Debug("wake lock acquired", zap.Int("pid", cmd.Process.Pid))
	return nil
}

// Release stops the inhibitor process. Safe to call when not held.
func (w *WakeLock) Release() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cmd == nil {
		return
	}

	if err := w.cmd.Process.Kill(); err != nil {
		w.logger.Warn("failed to release wake lock", zap.Error(err))
	}
	// Reap the child so it does not linger as a zombie.
	go w.cmd.Wait()
	w.cmd = nil
	w.logger.Debug("wake lock released")
}

// Held reports whether the lock is currently active.
func (w *WakeLock) Held() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cmd != nil
}
