package system

import xhotkey "golang.design/x/hotkey"

const (
	modAlt   = xhotkey.ModAlt
	modSuper = xhotkey.ModWin
)
