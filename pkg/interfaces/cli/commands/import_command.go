package commands

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/application/dto"
	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/interfaces/cli/output"
)

func newImportCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import inventory or schedule CSV files",
	}

	cmd.AddCommand(newImportFileCommand(rt, "inventory", "Import name,unit,quantity,minStock lines",
		func(ctx context.Context, app *App, r io.Reader) (*dto.ImportResult, error) {
			return app.Imports.ImportInventory(ctx, r)
		}))
	cmd.AddCommand(newImportFileCommand(rt, "schedule", "Import patient,item name,dose,YYYY-MM-DD lines",
		func(ctx context.Context, app *App, r io.Reader) (*dto.ImportResult, error) {
			return app.Imports.ImportSchedule(ctx, r)
		}))
	return cmd
}

type importFunc func(ctx context.Context, app *App, r io.Reader) (*dto.ImportResult, error)

func newImportFileCommand(rt *runtime, kind, short string, run importFunc) *cobra.Command {
	return &cobra.Command{
		Use:   kind + " FILE",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "open "+kind+" file", err)
			}
			defer file.Close()

			app, err := rt.App()
			if err != nil {
				return err
			}
			result, err := run(cmd.Context(), app, file)
			if err != nil {
				return operationError("import "+kind, err)
			}
			return rt.renderer(cmd).Render(result, func(w io.Writer) error {
				return output.WriteImport(w, result)
			})
		},
	}
}
