package main

import (
	"context"
	"fmt"
	"os"

	"github.com/setanarut/prettycolors/internal/cli"
)

func main() {
	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitCode(err))
	}
}
