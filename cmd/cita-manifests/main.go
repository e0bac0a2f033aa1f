package main

import (
	"context"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/cita-cloud/cita-manifests/cmd/cita-manifests/cli"
	"github.com/spf13/cobra"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	name := path.Base(os.Args[0])

	c := cli.NewCLI(name)
	err := cli.RootCmd(c).ExecuteContext(ctx)
	_ = c.Close()
	cobra.CheckErr(err)
}
