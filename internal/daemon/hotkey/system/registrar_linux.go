package system

import xhotkey "golang.design/x/hotkey"

// X11 maps Alt to Mod1 and Super to Mod4.
const (
	modAlt   = xhotkey.Mod1
	modSuper = xhotkey.Mod4
)
