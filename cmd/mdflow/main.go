package main

import (
	"os"

	"github.com/open-cli-collective/mdflow/internal/cmd/root"
	"github.com/open-cli-collective/mdflow/internal/view"
)

func main() {
	cmd := root.NewCmdRoot()
	if err := cmd.Execute(); err != nil {
		r := view.NewRenderer(view.FormatTable, false)
		r.SetWriter(os.Stderr)
		r.Error(err.Error())
		os.Exit(1)
	}
}
