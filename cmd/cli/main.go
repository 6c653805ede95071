package main

import (
	"context"
	"log"
	"os"

	"github.com/minhwalab/minhwa-cli/internal/buildinfo"
	"github.com/minhwalab/minhwa-cli/internal/client/cli"
	"github.com/minhwalab/minhwa-cli/internal/client/config"
	"github.com/minhwalab/minhwa-cli/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.New(os.Stderr)

	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)
}
