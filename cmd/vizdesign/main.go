package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/iafilius/DataVizDesign/cmd/vizdesign/commands"
	"github.com/iafilius/DataVizDesign/src/vizerr"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := commands.Execute(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "vizdesign: %s error: %v\n", vizerr.Kind(err), err)
		os.Exit(vizerr.ExitCode(err))
	}
}
