package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/comicshelf/comicshelf/internal/client/cli"
	"github.com/comicshelf/comicshelf/internal/client/config"
	"github.com/comicshelf/comicshelf/internal/logging"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer app.Close()

	if err := app.Run(ctx, commandArgs(os.Args[1:])); err != nil {
		log.Fatalf("%v", err)
	}
}

// commandArgs strips configuration flags so only the command and its
// arguments reach the dispatcher.
func commandArgs(args []string) []string {
	out := make([]string, 0, len(args))
	skip := false
	for _, a := range args {
		if skip {
			skip = false
			continue
		}
		switch a {
		case "-a", "-d", "-i", "-c", "-config":
			skip = true
			continue
		}
		out = append(out, a)
	}
	return out
}
