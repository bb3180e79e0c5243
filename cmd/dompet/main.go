package main

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/dmarifin/dompet/internal/buildinfo"
	"github.com/dmarifin/dompet/internal/cli"
	"github.com/dmarifin/dompet/internal/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	// The subcommand comes first; flags follow it and are parsed by the
	// config package with flag filtering.
	var args []string
	if len(os.Args) > 1 && !strings.HasPrefix(os.Args[1], "-") {
		args = os.Args[1:2]
	}

	code := app.Run(ctx, args)
	_ = app.Close()
	os.Exit(code)
}
