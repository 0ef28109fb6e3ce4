//go:build !darwin && !linux

package platform

import "os/exec"

// No inhibitor tool on this platform; the lock is a no-op.
func inhibitCommand() *exec.Cmd {
	return nil
}
