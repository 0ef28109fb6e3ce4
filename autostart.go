package main

import (
	"os"
	"path/filepath"

	"github.com/emersion/go-autostart"
)

const prefAutostart = "autostart"

// setupAutostart syncs the login-item registration with the stored
// preference.
func setupAutostart(enable bool) error {
	execPath, err := os.Executable()
	if err != nil {
		return err
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return err
	}

	app := &autostart.App{
		Name:        "clarion",
		DisplayName: "Clarion",
		Exec:        []string{execPath},
	}

	if enable {
		if app.IsEnabled() {
			return nil
		}
		return app.Enable()
	}
	if !app.IsEnabled() {
		return nil
	}
	return app.Disable()
}
