//go:build linux

package platform

import "os/exec"

func inhibitCommand() *exec.Cmd {
	if _, err := exec.LookPath("systemd-inhibit"); err != nil {
		return nil
	}
	return exec.Command("systemd-inhibit",
		"--what=idle:sleep",
		"--who=Clarion",
		"--why=Alarm ringing",
		"sleep", "infinity")
}
