package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/shopadmin/internal/kernel"
	"github.com/shashiranjanraj/shopadmin/internal/server"
)

// shopadmin serve
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run"},
	Short:   "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Start()
	},
}

// shopadmin route:list
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all named routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Routes only; nothing is opened.
		app, err := kernel.New(kernel.Options{AssetWorkers: 1})
		if err != nil {
			return err
		}
		defer app.Pool.Shutdown()

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range app.Routes() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}
