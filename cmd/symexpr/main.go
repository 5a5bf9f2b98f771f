// cmd/symexpr is the command-line front end of the symexpr tool interface.
//
//	symexpr tool derivative --params '{"expr":{"type":"sym","name":"x"},"var":"x"}'
//	symexpr run worksheet.yaml
//	symexpr schema
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
