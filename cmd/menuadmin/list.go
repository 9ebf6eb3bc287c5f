package main

import (
	"fmt"

	"github.com/arthur-debert/menuadmin/dashboard"
	"github.com/arthur-debert/menuadmin/types"
	"github.com/spf13/cobra"
)

func (cli *CLI) newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List menu items",
		Long: `Fetch the menu and show the dishes matching the search and category.
The search matches name or description, ignoring case.`,
		Args: cobra.NoArgs,
		RunE: cli.runList,
	}
	cmd.Flags().StringP("search", "s", "", "Text to look for in name or description")
	cmd.Flags().StringP("category", "c", types.AllCategories, "Category to show, or All")
	return cmd
}

func (cli *CLI) runList(cmd *cobra.Command, args []string) error {
	if err := cli.requireDashboard("list items"); err != nil {
		return err
	}

	search, _ := cmd.Flags().GetString("search")
	category, _ := cmd.Flags().GetString("category")
	facet, err := types.ParseFacet(category)
	if err != nil {
		return NewFlagError("list items", "category", err)
	}

	if err := cli.engine.Reload(cmd.Context()); err != nil {
		return WrapError("list items", dashboard.OpLoad, err)
	}
	cli.engine.SetFilter(search, facet)

	visible, total := cli.engine.Counts()
	fmt.Fprintf(cli.errOut, "Showing %d of %d dishes\n", visible, total)
	return cli.printer.Items(cli.out, cli.engine.Visible())
}

func (cli *CLI) newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the category filter values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, c := range dashboard.Categories() {
				fmt.Fprintln(cli.out, c)
			}
			return nil
		},
	}
}
