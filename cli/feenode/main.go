package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/alphabill-org/feecharging/cli/feenode/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cmd.New().Execute(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
