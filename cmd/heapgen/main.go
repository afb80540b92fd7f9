// Command heapgen writes accessor methods for heap.Box struct fields.
//
// Usage:
//
//	heapgen [flags] [packages]
//
// Without packages, the package in the current directory is used, which
// is what a
//
//	//go:generate go run github.com/ChloeMayhewELT/HeapStorageMacro/cmd/heapgen
//
// line in the package expects.
package main

import (
	"context"
	"os"
	"os/signal"

	log "github.com/sirupsen/logrus"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := log.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&log.TextFormatter{DisableTimestamp: true})

	if err := newRootCmd(logger).ExecuteContext(ctx); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}
