package lines

import (
	"fmt"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/xmodem.go/pkg/cli/sh"
)

func parseOnOff(args []string) (bool, error) {
	if len(args) != 1 {
		return false, fmt.Errorf("on|off expected")
	}
	switch args[0] {
	case "on", "1":
		return true, nil
	case "off", "0":
		return false, nil
	}
	return false, fmt.Errorf("invalid value %q, on|off expected", args[0])
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

var (
	// LinesCmd prints modem status lines.
	LinesCmd = ishell.Cmd{
		Name:    "lines",
		Aliases: []string{"status"},
		Help:    "",
		Func: sh.MustBeOpen(func(c *ishell.Context) {
			lines, err := sh.ShellFrom(c).Lines()
			if err != nil {
				c.Err(err)
				return
			}
			st, err := lines.ModemStatus()
			if err != nil {
				c.Err(err)
				return
			}
			c.Printf("CTS=%s DSR=%s RI=%s DCD=%s\n",
				onOff(st.CTS), onOff(st.DSR), onOff(st.RI), onOff(st.DCD))
		}),
	}

	// RTSCmd sets RTS.
	RTSCmd = ishell.Cmd{
		Name: "rts",
		Help: "on|off",
		Func: sh.MustBeOpen(func(c *ishell.Context) {
			on, err := parseOnOff(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			lines, err := sh.ShellFrom(c).Lines()
			if err == nil {
				err = lines.SetRTS(on)
			}
			if err != nil {
				c.Err(err)
			}
		}),
	}

	// DTRCmd sets DTR.
	DTRCmd = ishell.Cmd{
		Name: "dtr",
		Help: "on|off",
		Func: sh.MustBeOpen(func(c *ishell.Context) {
			on, err := parseOnOff(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			lines, err := sh.ShellFrom(c).Lines()
			if err == nil {
				err = lines.SetDTR(on)
			}
			if err != nil {
				c.Err(err)
			}
		}),
	}
)

func init() {
	sh.AddCmds(
		&LinesCmd,
		&RTSCmd,
		&DTRCmd,
	)
}
