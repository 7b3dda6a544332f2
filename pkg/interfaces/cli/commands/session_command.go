package commands

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/application/dto"
	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/entities"
	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/interfaces/cli/output"
)

func newSessionCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Apply, undo and list sessions",
	}
	cmd.AddCommand(newSessionApplyCommand(rt))
	cmd.AddCommand(newSessionUndoCommand(rt))
	cmd.AddCommand(newSessionListCommand(rt))
	return cmd
}

func newSessionApplyCommand(rt *runtime) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "apply SESSION_ID",
		Short: "Administer a session, consuming its doses from stock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDate("date", date)
			if err != nil {
				return err
			}
			app, err := rt.App()
			if err != nil {
				return err
			}
			session, err := app.Engine.Apply(cmd.Context(), entities.SessionID(args[0]), day)
			if err != nil {
				return operationError("apply session", err)
			}
			return rt.renderer(cmd).Render(session, func(w io.Writer) error {
				return output.WriteSession(w, "Applied", session)
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "administration date YYYY-MM-DD (default today)")
	return cmd
}

func newSessionUndoCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "undo SESSION_ID",
		Short: "Reverse an applied session, restoring its doses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rt.App()
			if err != nil {
				return err
			}
			session, err := app.Engine.Undo(cmd.Context(), entities.SessionID(args[0]))
			if err != nil {
				return operationError("undo session", err)
			}
			return rt.renderer(cmd).Render(session, func(w io.Writer) error {
				return output.WriteSession(w, "Reverted", session)
			})
		},
	}
}

func newSessionListCommand(rt *runtime) *cobra.Command {
	var status, patient string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions by date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := dto.SessionFilter{Status: entities.SessionStatus(status), Patient: patient}
			if status != "" && !filter.Status.IsValid() {
				return usageError("invalid --status %q: must be scheduled or applied", status)
			}
			app, err := rt.App()
			if err != nil {
				return err
			}
			views, err := app.Dashboard.Sessions(cmd.Context(), filter)
			if err != nil {
				return operationError("list sessions", err)
			}
			return rt.renderer(cmd).Render(views, func(w io.Writer) error {
				return output.WriteSessions(w, views)
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "only sessions in this state (scheduled|applied)")
	cmd.Flags().StringVar(&patient, "patient", "", "only sessions of this patient")
	return cmd
}
