package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/robotalks/xmodem.go/pkg/publish/mqtt"
	"github.com/robotalks/xmodem.go/pkg/receipt"
)

var (
	mqttURL = "mqtt://localhost:1883/xmodem/"
)

func init() {
	if val := os.Getenv("XMODEM_PUBLISH_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	host, _ := os.Hostname()
	q, err := mqtt.Dial(mqttURL, "xmodem-mon-"+host)
	if err != nil {
		log.Fatalln(err)
	}

	err = q.SubscribeReceipts(func(receiverID string, r *receipt.Receipt) {
		status := "complete"
		if !r.Complete {
			status = "FAILED: " + r.Error
		}
		log.Printf("%s: [%s] %s %q blocks=%d framing=%d checksum=%d dup=%d ooo=%d noise=%d (%s)",
			receiverID, r.Target, status, r.Message,
			r.Blocks, r.FramingErrors, r.ChecksumErrors, r.Duplicates, r.OutOfOrder, r.Noise,
			r.Time().Format(time.RFC3339))
	})
	if err != nil {
		log.Fatalln(err)
	}
	<-(chan struct{})(nil)
}
