package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/recera/clueso-site/app/routes"
	"github.com/recera/clueso-site/app/views"
	"github.com/recera/clueso-site/internal/content"
	"github.com/recera/clueso-site/internal/submit"
)

func newRoutesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the site's routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := content.NewStore(content.Default(), nil)
			router := routes.NewRouter(routes.Deps{
				Content: store,
				Views:   views.NewFactory(store, views.Options{}),
				Submit:  submit.NewService(submit.NewSimulatedSubmitter(nil, 0)),
			})

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PATH\tKIND")
			for _, r := range router.Routes() {
				fmt.Fprintf(w, "%s\t%s\n", r.Path, r.Kind)
			}
			fmt.Fprintln(w, "/live\twebsocket")
			fmt.Fprintln(w, "/metrics\thandler")
			return w.Flush()
		},
	}
}
