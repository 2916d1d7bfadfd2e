package system

import xhotkey "golang.design/x/hotkey"

const (
	modAlt   = xhotkey.ModOption
	modSuper = xhotkey.ModCmd
)
