package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/recera/clueso-site/internal/content"
	"github.com/recera/clueso-site/internal/preview"
)

func newPreviewCommand() *cobra.Command {
	var contentPath string

	cmd := &cobra.Command{
		Use:   "preview [set]",
		Short: "Preview a rotation set in the terminal",
		Long: `Runs one of the site's rotating sections (hero, testimonials, logos) in the
terminal with the same timing as the site. Use the arrow keys to navigate and
space to pause or resume.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"hero", "testimonials", "logos"},
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := content.Load(contentPath)
			if err != nil {
				return err
			}

			sets := preview.Sets(c)
			name := "hero"
			if len(args) > 0 {
				name = args[0]
			}
			set, ok := preview.Find(sets, name)
			if !ok {
				names := make([]string, len(sets))
				for i, s := range sets {
					names[i] = s.Name
				}
				return fmt.Errorf("unknown set %q (choose from %s)", name, strings.Join(names, ", "))
			}

			m, err := preview.NewModel(set, nil)
			if err != nil {
				return err
			}
			defer m.Close()

			if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
				return fmt.Errorf("preview: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&contentPath, "content", "c", "", "Content file overriding the embedded default")
	return cmd
}
