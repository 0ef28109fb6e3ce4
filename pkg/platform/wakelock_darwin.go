//go:build darwin

package platform

import "os/exec"

// caffeinate -d keeps the display on, -i blocks idle sleep. The process
// holds the assertion until killed.
func inhibitCommand() *exec.Cmd {
	return exec.Command("caffeinate", "-d", "-i")
}
