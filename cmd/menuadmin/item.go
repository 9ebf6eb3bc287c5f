package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arthur-debert/menuadmin/dashboard"
	"github.com/arthur-debert/menuadmin/types"
	"github.com/spf13/cobra"
)

// DeletePrompt is asked before an item is deleted
const DeletePrompt = "Are you sure you want to delete this item?"

func addItemFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("name", "", "Dish name")
	flags.String("description", "", "Dish description")
	flags.Float64("price", 0, "Price in rupees, greater than 0")
	flags.String("category", string(types.MainCourse), "Category (Starter, Main Course, Sweets, Drinks, Desserts, Beverages)")
	flags.String("spice", string(types.Medium), "Spice level (Mild, Medium, Spicy)")
	flags.String("image", "", "Image URL")
	flags.String("image-file", "", "Local image to embed as a data URL")
	flags.Bool("vegetarian", false, "Dish is vegetarian")
	flags.Bool("available", true, "Dish can be ordered")
	cmd.MarkFlagsMutuallyExclusive("image", "image-file")
}

// applyItemFlags copies the flags the user set onto draft. Unset flags leave
// the draft's value alone.
func applyItemFlags(cmd *cobra.Command, operation string, draft *types.MenuItemDraft) error {
	flags := cmd.Flags()

	if flags.Changed("name") {
		v, _ := flags.GetString("name")
		draft.Name = types.Ptr(v)
	}
	if flags.Changed("description") {
		v, _ := flags.GetString("description")
		draft.Description = types.Ptr(v)
	}
	if flags.Changed("price") {
		v, _ := flags.GetFloat64("price")
		draft.Price = types.Ptr(v)
	}
	if flags.Changed("category") {
		v, _ := flags.GetString("category")
		c, err := types.ParseCategory(v)
		if err != nil {
			return NewFlagError(operation, "category", err)
		}
		draft.Category = types.Ptr(c)
	}
	if flags.Changed("spice") {
		v, _ := flags.GetString("spice")
		l, err := types.ParseSpiceLevel(v)
		if err != nil {
			return NewFlagError(operation, "spice", err)
		}
		draft.SpiceLevel = types.Ptr(l)
	}
	if flags.Changed("image") {
		v, _ := flags.GetString("image")
		draft.Image = types.Ptr(v)
	}
	if flags.Changed("image-file") {
		path, _ := flags.GetString("image-file")
		image, err := readImageFile(path)
		if err != nil {
			return NewFlagError(operation, "image-file", err)
		}
		draft.Image = types.Ptr(image)
	}
	if flags.Changed("vegetarian") {
		v, _ := flags.GetBool("vegetarian")
		draft.Vegetarian = types.Ptr(v)
	}
	if flags.Changed("available") {
		v, _ := flags.GetBool("available")
		draft.IsAvailable = types.Ptr(v)
	}
	return nil
}

func readImageFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return types.ImageDataURL(data)
}

func (cli *CLI) newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a dish to the menu",
		Long: `Add a dish. Name, description and a price above zero are required;
category defaults to Main Course and spice level to Medium.`,
		Args: cobra.NoArgs,
		RunE: cli.runAdd,
	}
	addItemFlags(cmd)
	return cmd
}

func (cli *CLI) runAdd(cmd *cobra.Command, args []string) error {
	const operation = "add item"
	if err := cli.requireDashboard(operation); err != nil {
		return err
	}

	draft := types.Defaults()
	if err := applyItemFlags(cmd, operation, &draft); err != nil {
		return err
	}

	item, err := cli.engine.Create(cmd.Context(), draft)
	return cli.finishMutation(operation, dashboard.OpCreate, item, err)
}

func (cli *CLI) newEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a dish",
		Long:  `Change a dish. Only the flags you pass are changed; everything else keeps its current value.`,
		Args:  cobra.ExactArgs(1),
		RunE:  cli.runEdit,
	}
	addItemFlags(cmd)
	return cmd
}

func (cli *CLI) runEdit(cmd *cobra.Command, args []string) error {
	const operation = "edit item"
	if err := cli.requireDashboard(operation); err != nil {
		return err
	}

	id := args[0]
	if err := cli.engine.Reload(cmd.Context()); err != nil {
		return WrapError(operation, dashboard.OpLoad, err)
	}
	current, ok := cli.engine.Find(id)
	if !ok {
		return NewNotFoundError(operation, id)
	}

	draft := types.DraftFrom(current)
	if err := applyItemFlags(cmd, operation, &draft); err != nil {
		return err
	}

	item, err := cli.engine.Update(cmd.Context(), id, draft)
	return cli.finishMutation(operation, dashboard.OpUpdate, item, err)
}

// finishMutation reports the outcome of a create or update. A failed reload
// after a successful write is a warning, not an error.
func (cli *CLI) finishMutation(operation string, op dashboard.Op, item types.MenuItem, err error) error {
	var reloadErr *dashboard.ReloadError
	if err != nil && !errors.As(err, &reloadErr) {
		return WrapError(operation, op, err)
	}
	cli.notify(dashboard.NoticeFor(op, err))
	return cli.printer.Item(cli.out, item)
}

func (cli *CLI) newDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a dish from the menu",
		Args:  cobra.ExactArgs(1),
		RunE:  cli.runDelete,
	}
	cmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func (cli *CLI) runDelete(cmd *cobra.Command, args []string) error {
	const operation = "delete item"
	if err := cli.requireDashboard(operation); err != nil {
		return err
	}

	id := args[0]
	if err := cli.engine.Reload(cmd.Context()); err != nil {
		return WrapError(operation, dashboard.OpLoad, err)
	}
	item, ok := cli.engine.Find(id)
	if !ok {
		return NewNotFoundError(operation, id)
	}

	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		fmt.Fprintf(cli.errOut, "%s\n  %s (%s)\n[y/N] ", DeletePrompt, item.Name, id)
		if !confirmed(cli.in) {
			fmt.Fprintln(cli.errOut, "Cancelled")
			return nil
		}
	}

	if err := cli.engine.Remove(cmd.Context(), id); err != nil {
		return WrapError(operation, dashboard.OpDelete, err)
	}
	cli.notify(dashboard.NoticeFor(dashboard.OpDelete, nil))

	visible, total := cli.engine.Counts()
	fmt.Fprintf(cli.errOut, "Showing %d of %d dishes\n", visible, total)
	return nil
}

func confirmed(in io.Reader) bool {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
