package xfer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/xmodem.go/pkg/cli/sh"
	"github.com/robotalks/xmodem.go/pkg/session"
	"github.com/robotalks/xmodem.go/pkg/xmodem"
)

// FormatStats prints session statistics into friendly string for display.
func FormatStats(st xmodem.Stats) string {
	return fmt.Sprintf("blocks=%d framing=%d checksum=%d duplicates=%d out-of-order=%d noise=%d",
		st.Blocks, st.FramingErrors, st.ChecksumErrors, st.Duplicates, st.OutOfOrder, st.Noise)
}

func progress(c *ishell.Context) xmodem.EventHandler {
	return xmodem.HandleEventFunc(func(_ context.Context, ev xmodem.Event) {
		switch ev.Kind {
		case xmodem.EventAccepted:
			c.Printf("block %d: %q\n", ev.Seq, ev.Payload)
		case xmodem.EventFramingError, xmodem.EventChecksumError, xmodem.EventOutOfOrder:
			c.Printf("block %d: %v\n", ev.Seq, ev.Err)
		case xmodem.EventDuplicate:
			c.Printf("block %d: %s\n", ev.Seq, ev.Kind)
		}
	})
}

var (
	// ReceiveCmd receives a message on the open transport.
	ReceiveCmd = ishell.Cmd{
		Name:    "receive",
		Aliases: []string{"rx"},
		Help:    "[strict]",
		Func: sh.MustBeOpen(func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			conf := *s.Config
			if len(c.Args) > 0 {
				if c.Args[0] != "strict" {
					c.Err(fmt.Errorf("unknown option %q", c.Args[0]))
					return
				}
				conf.Strict = true
			}
			rx := session.New(&conf, s.Conn)
			if s.Interactive {
				rx.Handler = progress(c)
			}
			res, err := rx.Run(context.Background())
			if err != nil {
				var ioErr *xmodem.IOError
				if errors.As(err, &ioErr) {
					// the transport is unusable now
					s.Close()
				}
				c.Err(err)
			}
			if res != nil {
				c.Println(string(res.Message))
				if s.Interactive {
					c.Println(FormatStats(res.Stats))
				}
			}
		}),
	}

	// SendCmd sends a message on the open transport.
	SendCmd = ishell.Cmd{
		Name:    "send",
		Aliases: []string{"tx"},
		Help:    "MESSAGE",
		Func: sh.MustBeOpen(func(c *ishell.Context) {
			if len(c.Args) == 0 {
				c.Err(fmt.Errorf("message expected"))
				return
			}
			s := sh.ShellFrom(c)
			ctx := context.Background()
			if s.Config.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, s.Config.Timeout)
				defer cancel()
			}
			msg := strings.Join(c.Args, " ")
			if err := xmodem.NewSender(s.Conn).Send(ctx, []byte(msg)); err != nil {
				c.Err(err)
				return
			}
			c.Println("OK")
		}),
	}
)

func init() {
	sh.AddCmds(
		&ReceiveCmd,
		&SendCmd,
	)
}
