// Command hitfind runs batch DoG hit detection and plots the results.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yourpaljake/hitfinding/internal/cli"
	"github.com/yourpaljake/hitfinding/pkg/version"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCmd(versionString())
	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return cli.ExitCode(err)
}

func versionString() string {
	return version.GetVersion() + " (" + version.GetCommit() + ")"
}
