package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/golang/glog"

	fx "github.com/robotalks/xmodem.go/pkg/framework"
	"github.com/robotalks/xmodem.go/pkg/env"
	"github.com/robotalks/xmodem.go/pkg/publish/mqtt"
	"github.com/robotalks/xmodem.go/pkg/session"
	"github.com/robotalks/xmodem.go/pkg/xmodem"
)

var (
	partial bool
)

func init() {
	env.SetupFlags()
	flag.BoolVar(&partial, "partial", partial, "Print the partial message when the transfer fails.")
}

func main() {
	defer glog.Flush()
	conf, err := env.Parse()
	if err != nil {
		log.Fatalln(err)
	}

	conn, err := conf.Dial(context.Background())
	if err != nil {
		glog.Flush()
		log.Fatalf("open %s failed: %v", conf.Target, err)
	}
	defer conn.Close()

	s := session.New(conf, conn)
	if conf.PublishURL != "" {
		q, err := mqtt.Dial(conf.PublishURL, "xmodem-rx-"+conf.ID())
		if err != nil {
			glog.Warningf("receipts will not be published: %v", err)
		} else {
			defer q.Close()
			s.Publisher = q
		}
	}

	var res *xmodem.Result
	runner := fx.NewRunner().HandleSignals()
	runner.Go(fx.NamedRun("receive", fx.RunnableFunc(func(ctx context.Context) (err error) {
		res, err = s.Run(ctx)
		return
	})))
	err = runner.Wait()

	if err == nil {
		os.Stdout.Write(res.Message)
		fmt.Println()
		return
	}
	var ioErr *xmodem.IOError
	if errors.As(err, &ioErr) {
		glog.Errorf("transfer failed after %d blocks: %v", res.Stats.Blocks, ioErr)
	} else {
		glog.Errorf("transfer failed: %v", err)
	}
	if partial && res != nil && len(res.Message) > 0 {
		os.Stdout.Write(res.Message)
		fmt.Println()
	}
	glog.Flush()
	os.Exit(1)
}
