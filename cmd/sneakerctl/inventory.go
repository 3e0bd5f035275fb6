package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/SanderWeide/sneaker-engine/internal/inventory"
	"github.com/SanderWeide/sneaker-engine/internal/model"
)

func printSneakers(sneakers []model.Sneaker) {
	w := tabwriter.NewWriter(rootCmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSKU\tBRAND\tMODEL\tSIZE\tCOLOR")
	for _, s := range sneakers {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			s.ID, s.SKU, s.Brand, s.Model,
			strconv.FormatFloat(s.Size, 'f', -1, 64), s.Color)
	}
	w.Flush()
}

func printSneaker(s *model.Sneaker) {
	fmt.Printf("ID:     %d\n", s.ID)
	fmt.Printf("SKU:    %s\n", s.SKU)
	fmt.Printf("Brand:  %s\n", s.Brand)
	fmt.Printf("Model:  %s\n", s.Model)
	fmt.Printf("Size:   %s\n", strconv.FormatFloat(s.Size, 'f', -1, 64))
	if s.Color != "" {
		fmt.Printf("Color:  %s\n", s.Color)
	}
	if s.PurchasePrice != nil {
		fmt.Printf("Price:  %.2f\n", *s.PurchasePrice)
	}
	if s.Description != "" {
		fmt.Printf("Notes:  %s\n", s.Description)
	}
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your sneakers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		search, _ := cmd.Flags().GetString("search")
		brand, _ := cmd.Flags().GetString("brand")
		size, _ := cmd.Flags().GetString("size")
		facets, _ := cmd.Flags().GetBool("facets")

		c, s, err := requireSession()
		if err != nil {
			return err
		}

		view := inventory.NewListView(c, s)
		view.Load(cmd.Context())
		if err := view.LastError.Get(); err != nil {
			return err
		}

		view.SetSearchText(search)
		view.SetBrand(brand)
		view.SetSize(size)

		filtered := view.FilteredItems()
		if len(filtered) == 0 {
			fmt.Println("No sneakers found.")
			return nil
		}
		printSneakers(filtered)

		if facets {
			fmt.Printf("\nBrands: %s\n", strings.Join(view.AvailableBrands(), ", "))
			fmt.Printf("Sizes:  %s\n", strings.Join(view.AvailableSizes(), ", "))
		}
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a sneaker to your collection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, s, err := requireSession()
		if err != nil {
			return err
		}

		view := inventory.NewListView(c, s)

		form := inventory.CreateForm{}
		form.SKU, _ = cmd.Flags().GetString("sku")
		form.Brand, _ = cmd.Flags().GetString("brand")
		form.Model, _ = cmd.Flags().GetString("model")
		form.Size, _ = cmd.Flags().GetString("size")
		form.Color, _ = cmd.Flags().GetString("color")
		form.PurchasePrice, _ = cmd.Flags().GetString("price")
		form.Description, _ = cmd.Flags().GetString("description")
		view.Form.Set(form)

		view.Submit(cmd.Context())
		if err := view.LastError.Get(); err != nil {
			return err
		}

		items := view.Items.Get()
		created := items[len(items)-1]
		fmt.Printf("Added sneaker %d (%s %s)\n", created.ID, created.Brand, created.Model)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a sneaker's details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}

		c, s, err := requireSession()
		if err != nil {
			return err
		}

		view := inventory.NewDetailView(c, s, id, false)
		view.Load(cmd.Context())
		if view.Redirect.Get() {
			return fmt.Errorf("sneaker %d not found", id)
		}

		printSneaker(view.Item.Get())
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a sneaker",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}

		c, s, err := requireSession()
		if err != nil {
			return err
		}

		view := inventory.NewDetailView(c, s, id, true)
		view.Load(cmd.Context())
		if view.Redirect.Get() {
			return fmt.Errorf("sneaker %d not found", id)
		}

		// Only flags the user set override the loaded values.
		form := view.Form.Get()
		set := func(flag string, target *string) {
			if cmd.Flags().Changed(flag) {
				*target, _ = cmd.Flags().GetString(flag)
			}
		}
		set("sku", &form.SKU)
		set("brand", &form.Brand)
		set("model", &form.Model)
		set("size", &form.Size)
		set("color", &form.Color)
		set("price", &form.PurchasePrice)
		set("description", &form.Description)
		view.Form.Set(form)

		view.Submit(cmd.Context())
		if err := view.LastError.Get(); err != nil {
			return err
		}

		fmt.Println("Updated:")
		printSneaker(view.Item.Get())
		return nil
	},
}

func init() {
	listCmd.Flags().String("search", "", "match against brand, model, sku or color")
	listCmd.Flags().String("brand", "", "exact brand filter")
	listCmd.Flags().String("size", "", "exact size filter")
	listCmd.Flags().Bool("facets", false, "also print available brands and sizes")

	for _, cmd := range []*cobra.Command{addCmd, editCmd} {
		cmd.Flags().String("sku", "", "stock keeping unit")
		cmd.Flags().String("brand", "", "brand name")
		cmd.Flags().String("model", "", "model name")
		cmd.Flags().String("size", "", "shoe size")
		cmd.Flags().String("color", "", "colorway")
		cmd.Flags().String("price", "", "purchase price")
		cmd.Flags().String("description", "", "notes")
	}
}
