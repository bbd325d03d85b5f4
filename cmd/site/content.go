package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/recera/clueso-site/internal/content"
)

func newContentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Work with site content files",
	}
	cmd.AddCommand(newContentValidateCommand())
	return cmd
}

func newContentValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a content file",
		Long:  `Parses and validates a content file, or the embedded default when no file is given.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}

			c, err := content.Load(path)
			if err != nil {
				return err
			}

			name := path
			if name == "" {
				name = "embedded content"
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s is valid\n", name)
			fmt.Fprintf(out, "  hero steps:   %d\n", len(c.Hero.Steps))
			fmt.Fprintf(out, "  testimonials: %d\n", len(c.Testimonials))
			fmt.Fprintf(out, "  logos:        %d\n", len(c.Logos))
			fmt.Fprintf(out, "  plans:        %d\n", len(c.Plans))
			fmt.Fprintf(out, "  languages:    %d\n", len(c.Translate.Languages))
			fmt.Fprintf(out, "  stories:      %d\n", len(c.Customers.Stories))
			fmt.Fprintf(out, "  projects:     %d\n", len(c.Dashboard.Projects))
			return nil
		},
	}
}
