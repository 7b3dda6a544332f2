package commands

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/interfaces/cli/output"
)

func newProjectCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "project",
		Short: "Forecast stock against pending sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rt.App()
			if err != nil {
				return err
			}
			projections, err := app.Dashboard.Projection(cmd.Context())
			if err != nil {
				return operationError("project stock", err)
			}
			return rt.renderer(cmd).Render(projections, func(w io.Writer) error {
				return output.WriteProjection(w, projections)
			})
		},
	}
}

func newSummaryCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show dashboard counters for today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rt.App()
			if err != nil {
				return err
			}
			summary, err := app.Dashboard.Summary(cmd.Context())
			if err != nil {
				return operationError("summary", err)
			}
			return rt.renderer(cmd).Render(summary, func(w io.Writer) error {
				return output.WriteSummary(w, summary)
			})
		},
	}
}

func newPatientsCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "patients [SEARCH]",
		Short: "List patient names, optionally matching SEARCH",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rt.App()
			if err != nil {
				return err
			}
			names, err := app.Dashboard.Patients(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return operationError("list patients", err)
			}
			return rt.renderer(cmd).Render(names, func(w io.Writer) error {
				return output.WritePatients(w, names)
			})
		},
	}
}
