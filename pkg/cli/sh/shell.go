package sh

import (
	"context"
	"flag"
	"fmt"
	"log"
	"sort"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/xmodem.go/pkg/env"
	"github.com/robotalks/xmodem.go/pkg/transport"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	AutoOpen    bool

	Shell  *ishell.Shell
	Config *env.Config
	Conn   transport.Conn
}

const (
	shellKey     = "$shell"
	closedPrompt = "[closed] > "
)

var (
	// flags

	evalOnly bool

	// commands
	commands = []*ishell.Cmd{
		&PortsCmd,
		&OpenCmd,
		&CloseCmd,
		&DrainCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *env.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(closedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeOpen wraps command func requires an open transport.
func MustBeOpen(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Conn == nil {
			c.Err(fmt.Errorf("not open"))
			return
		}
		fn(c)
	}
}

// WithAutoOpen sets AutoOpen.
func (s *Shell) WithAutoOpen(en bool) *Shell {
	s.AutoOpen = en
	return s
}

// Open opens target and replaces the current transport.
func (s *Shell) Open(target string) error {
	conn, err := transport.Dial(context.TODO(), target, s.Config.Serial)
	if err != nil {
		return err
	}
	s.Close()
	s.Conn, s.Config.Target = conn, target
	s.Shell.SetPrompt(fmt.Sprintf("%s > ", target))
	return nil
}

// Close closes the current transport.
func (s *Shell) Close() {
	if s.Conn != nil {
		s.Conn.Close()
		s.Conn = nil
		s.Shell.SetPrompt(closedPrompt)
	}
}

// Lines returns the modem lines of the current transport.
func (s *Shell) Lines() (transport.ModemLines, error) {
	if s.Conn == nil {
		return nil, fmt.Errorf("not open")
	}
	lines, ok := s.Conn.(transport.ModemLines)
	if !ok {
		return nil, fmt.Errorf("%s has no modem lines", s.Config.Target)
	}
	return lines, nil
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if s.AutoOpen && s.Config.Target != "" {
		if s.Interactive {
			s.Shell.Printf("Opening %s ...\n", s.Config.Target)
		}
		if err := s.Open(s.Config.Target); err != nil {
			log.Fatalf("open %q failed: %v", s.Config.Target, err)
		}
	}
	defer s.Close()

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

var (
	// PortsCmd lists serial ports.
	PortsCmd = ishell.Cmd{
		Name:    "ports",
		Aliases: []string{"list", "l"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ports, err := transport.ListPorts()
			if err != nil {
				c.Err(err)
				return
			}
			if len(ports) == 0 {
				c.Println("No serial ports found")
				return
			}
			sort.Strings(ports)
			for _, port := range ports {
				c.Println(port)
			}
		},
	}

	// OpenCmd opens a transport.
	OpenCmd = ishell.Cmd{
		Name:    "open",
		Aliases: []string{"o"},
		Help:    "TARGET",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			target := s.Config.Target
			if len(c.Args) > 0 {
				target = c.Args[0]
			}
			if target == "" {
				c.Err(fmt.Errorf("target expected"))
				return
			}
			if err := s.Open(target); err != nil {
				c.Err(err)
			}
		},
	}

	// CloseCmd closes the current transport.
	CloseCmd = ishell.Cmd{
		Name:    "close",
		Aliases: []string{"c"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Close()
		},
	}

	// DrainCmd discards pending input.
	DrainCmd = ishell.Cmd{
		Name: "drain",
		Help: "",
		Func: MustBeOpen(func(c *ishell.Context) {
			data, err := transport.Drain(ShellFrom(c).Conn)
			if err != nil {
				c.Err(err)
				return
			}
			c.Printf("%d bytes discarded\n", len(data))
			if len(data) > 0 {
				c.Printf("% x\n", data)
			}
		}),
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	conf, err := env.ParseOptionalTarget()
	if err != nil {
		log.Fatalln(err)
	}
	New(conf).WithAutoOpen(true).Run(flag.Args()...)
}
