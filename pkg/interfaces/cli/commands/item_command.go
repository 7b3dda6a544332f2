package commands

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/application/services"
	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/entities"
	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/interfaces/cli/output"
)

func newItemCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage supply items",
	}
	cmd.AddCommand(newItemAddCommand(rt))
	cmd.AddCommand(newItemListCommand(rt))
	cmd.AddCommand(newItemDeleteCommand(rt))
	cmd.AddCommand(newItemRestockCommand(rt))
	cmd.AddCommand(newItemHistoryCommand(rt))
	return cmd
}

func newItemAddCommand(rt *runtime) *cobra.Command {
	var name, unit, quantity, minStock string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a supply item to the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := parseDecimal("quantity", quantity)
			if err != nil {
				return err
			}
			threshold, err := parseDecimal("min", minStock)
			if err != nil {
				return err
			}
			app, err := rt.App()
			if err != nil {
				return err
			}

			item, err := app.Catalog.AddItem(cmd.Context(), services.NewItem{Name: name, Unit: unit, Quantity: qty, MinStock: threshold})
			if err != nil {
				return operationError("add item", err)
			}
			return rt.renderer(cmd).Render(item, func(w io.Writer) error {
				return output.WriteItem(w, "Added", item)
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "item name (required)")
	cmd.Flags().StringVar(&unit, "unit", "", "display unit (default \"un\")")
	cmd.Flags().StringVar(&quantity, "quantity", "0", "opening quantity")
	cmd.Flags().StringVar(&minStock, "min", "0", "reorder threshold")
	cmd.MarkFlagRequired("name")
	return cmd
}

func newItemListCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List supply items in catalog order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rt.App()
			if err != nil {
				return err
			}
			items, err := app.Catalog.ListItems(cmd.Context())
			if err != nil {
				return operationError("list items", err)
			}
			return rt.renderer(cmd).Render(items, func(w io.Writer) error {
				return output.WriteItems(w, items)
			})
		},
	}
}

func newItemDeleteCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ITEM_ID",
		Short: "Remove an item no scheduled session uses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rt.App()
			if err != nil {
				return err
			}
			id := entities.ItemID(args[0])
			if err := app.Catalog.DeleteItem(cmd.Context(), id); err != nil {
				return operationError("delete item", err)
			}
			result := map[string]string{"deleted": string(id)}
			return rt.renderer(cmd).Render(result, func(w io.Writer) error {
				_, err := io.WriteString(w, "Deleted "+string(id)+"\n")
				return err
			})
		},
	}
}

func newItemRestockCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "restock ITEM_ID AMOUNT",
		Short: "Add stock to an item and record an entry movement",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseDecimal("amount", args[1])
			if err != nil {
				return err
			}
			app, err := rt.App()
			if err != nil {
				return err
			}
			item, err := app.Engine.Restock(cmd.Context(), entities.ItemID(args[0]), amount)
			if err != nil {
				return operationError("restock", err)
			}
			return rt.renderer(cmd).Render(item, func(w io.Writer) error {
				return output.WriteItem(w, "Restocked", item)
			})
		},
	}
}

func newItemHistoryCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "history [ITEM_ID]",
		Short: "Show stock movements newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rt.App()
			if err != nil {
				return err
			}
			var id entities.ItemID
			if len(args) == 1 {
				id = entities.ItemID(args[0])
			}
			entries, err := app.Dashboard.ItemHistory(cmd.Context(), id)
			if err != nil {
				return operationError("item history", err)
			}
			if entries == nil {
				entries = []entities.LedgerEntry{}
			}
			return rt.renderer(cmd).Render(entries, func(w io.Writer) error {
				return output.WriteHistory(w, entries)
			})
		},
	}
}
