package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/easelapp/easel/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override easel config path (optional)")
	pollSeconds := flag.Int("poll", 0, "base sync interval in seconds (optional)")
	discover := flag.Bool("discover", false, "find a gridd server via mDNS")
	importPath := flag.String("import", "", "stage an image into the drawing layer on startup")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		Discover:   *discover,
		ImportPath: *importPath,
	}
	if poll := *pollSeconds; poll > 0 {
		opts.PollEvery = poll
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "easel: %v\n", err)
		return 1
	}
	return 0
}
