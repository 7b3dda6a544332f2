package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/interfaces/cli/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := commands.Execute(ctx, commands.DefaultAppFactory, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
