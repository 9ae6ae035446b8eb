// Command mediafx renders an image effect over clips read from images,
// image directories or video files.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/pion/mediafx/internal/config"
	"github.com/pion/mediafx/internal/logging"
)

var logger = logging.NewLogger("mediafx")

func main() {
	flags := config.NewFlags(flag.CommandLine)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s -effect invert|switch|timeoffset -in clip[,clip...] -out dir|file.mp4 [flags]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	job, err := flags.Job()
	if err == nil {
		err = job.Validate()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, job); err != nil {
		logger.Errorf("%v", err)
		stop()
		os.Exit(1)
	}
}
