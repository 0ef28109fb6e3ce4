//go:build !darwin

package main

import "golang.design/x/hotkey"

func quitModifiers() []hotkey.Modifier {
	return []hotkey.Modifier{hotkey.ModCtrl}
}
