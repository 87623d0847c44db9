package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/polarysfoundation/chainlab/modules/cli"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetLevel(logrus.WarnLevel)

	// Ctrl-C abandons a running finalization instead of killing the store mid-write.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx, logger); err != nil {
		stop()
		os.Exit(1)
	}
}
