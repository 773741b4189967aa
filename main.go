package main

import (
	"context"
	"fmt"
	"os"

	"fjacquet/agri-potential/cmd/aggregate"
	"fjacquet/agri-potential/cmd/customers"
	"fjacquet/agri-potential/cmd/export"
	"fjacquet/agri-potential/cmd/hydrate"
	"fjacquet/agri-potential/cmd/ingest"
	"fjacquet/agri-potential/cmd/match"
	"fjacquet/agri-potential/cmd/purge"
	"fjacquet/agri-potential/cmd/root"
	"fjacquet/agri-potential/cmd/run"
	"fjacquet/agri-potential/cmd/snapshot"
)

func init() {
	root.Cmd.AddCommand(run.Cmd)
	root.Cmd.AddCommand(ingest.Cmd)
	root.Cmd.AddCommand(aggregate.Cmd)
	root.Cmd.AddCommand(match.Cmd)
	root.Cmd.AddCommand(snapshot.Cmd)
	root.Cmd.AddCommand(hydrate.Cmd)
	root.Cmd.AddCommand(purge.Cmd)
	root.Cmd.AddCommand(customers.Cmd)
	root.Cmd.AddCommand(export.Cmd)
}

func main() {
	err := root.Cmd.ExecuteContext(context.Background())
	root.Shutdown()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
