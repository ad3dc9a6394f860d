package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/patial10/Construction-App/app/controllers"
	"github.com/patial10/Construction-App/app/routes"
	"github.com/patial10/Construction-App/config"
	"github.com/patial10/Construction-App/database/seeders"
	"github.com/patial10/Construction-App/internal/server"
	"github.com/patial10/Construction-App/pkg/database"
	"github.com/patial10/Construction-App/pkg/router"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "construction-app",
	Short: "Customer and order service for building-materials purchases",
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)
	rootCmd.AddCommand(seedCmd)
}

// serve — start the HTTP server and block until SIGINT/SIGTERM.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server (alias: run)",
	Aliases: []string{
		"run",
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Run()
	},
}

// route:list — print all registered routes.
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		r := router.New()
		// Handlers are registered but never invoked, so nil deps are fine.
		routes.RegisterAPI(r,
			controllers.NewCustomerController(nil),
			controllers.NewFeedController(),
			nil,
		)

		infos := r.Routes()
		if len(infos) == 0 {
			fmt.Println("No routes registered.")
			return nil
		}

		sort.Slice(infos, func(i, j int) bool {
			if infos[i].Path != infos[j].Path {
				return infos[i].Path < infos[j].Path
			}
			return infos[i].Method < infos[j].Method
		})

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range infos {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}

// seed — insert demo customers for local development.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo customers (no-op when the collection is non-empty)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}

		ctx := cmd.Context()
		db, err := database.Connect(ctx)
		if err != nil {
			return err
		}
		defer db.Close(context.Background()) //nolint:errcheck

		return seeders.Run(ctx, db.Database())
	},
}
