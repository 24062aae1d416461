package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/golang/glog"

	fx "github.com/robotalks/xmodem.go/pkg/framework"
	"github.com/robotalks/xmodem.go/pkg/env"
	"github.com/robotalks/xmodem.go/pkg/xmodem"
)

var (
	msgFile    string
	maxRetries = xmodem.DefaultMaxRetries
)

func init() {
	env.SetupFlags()
	flag.StringVar(&msgFile, "file", msgFile, "Send the content of the file instead of arguments.")
	flag.IntVar(&maxRetries, "retries", maxRetries, "Max retransmissions of a rejected block.")
}

func main() {
	defer glog.Flush()
	conf, err := env.Parse()
	if err != nil {
		log.Fatalln(err)
	}

	var msg []byte
	if msgFile != "" {
		if msg, err = os.ReadFile(msgFile); err != nil {
			log.Fatalln(err)
		}
	} else {
		msg = []byte(strings.Join(flag.Args(), " "))
	}

	conn, err := conf.Dial(context.Background())
	if err != nil {
		log.Fatalf("open %s failed: %v", conf.Target, err)
	}
	defer conn.Close()

	sender := xmodem.NewSender(conn)
	sender.MaxRetries = maxRetries
	runner := fx.NewRunner().HandleSignals()
	runCtx := runner.Context
	if conf.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, conf.Timeout)
		defer cancel()
	}
	runner.GoWith(runCtx, fx.NamedRun("send", fx.RunnableFunc(func(ctx context.Context) error {
		return sender.Send(ctx, msg)
	})))
	if err := runner.Wait(); err != nil {
		glog.Errorf("send failed: %v", err)
		glog.Flush()
		os.Exit(1)
	}
	glog.Infof("sent %d bytes to %s", len(msg), conf.Target)
}
