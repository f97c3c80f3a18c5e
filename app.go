package main

import (
	"os"

	"github.com/flowci/flow-impex/cmd"
	"github.com/flowci/flow-impex/util"
)

func main() {
	app := cmd.NewApp()

	if err := app.Run(os.Args); err != nil {
		util.LogIfError(err)
		os.Exit(1)
	}
}
