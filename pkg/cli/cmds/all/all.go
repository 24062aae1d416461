// Package all registers all shell commands.
package all

import (
	_ "github.com/robotalks/xmodem.go/pkg/cli/cmds/lines"
	_ "github.com/robotalks/xmodem.go/pkg/cli/cmds/xfer"
)
