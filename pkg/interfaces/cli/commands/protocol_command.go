package commands

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/application/services"
	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/entities"
	domainservices "github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/services"
	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/interfaces/cli/output"
)

func newProtocolCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "protocol",
		Short: "Schedule, edit and remove treatment sessions",
	}
	cmd.AddCommand(newProtocolScheduleCommand(rt))
	cmd.AddCommand(newProtocolEditCommand(rt))
	cmd.AddCommand(newProtocolDeleteCommand(rt))
	return cmd
}

func newProtocolScheduleCommand(rt *runtime) *cobra.Command {
	var (
		patient string
		items   []string
		start   string
		repeat  int
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Expand a protocol into weekly sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doses, err := parseDoses(items)
			if err != nil {
				return err
			}
			startDate, err := parseDate("start", start)
			if err != nil {
				return err
			}
			app, err := rt.App()
			if err != nil {
				return err
			}

			expansion, err := app.Protocols.Schedule(cmd.Context(), domainservices.ProtocolRequest{
				PatientName: patient,
				Items:       doses,
				StartDate:   startDate,
				RepeatCount: repeat,
			})
			if err != nil {
				return operationError("schedule protocol", err)
			}
			return rt.renderer(cmd).Render(expansion, func(w io.Writer) error {
				return output.WriteSchedule(w, expansion.Sessions, len(expansion.Dropped))
			})
		},
	}

	cmd.Flags().StringVar(&patient, "patient", "", "patient name (required)")
	cmd.Flags().StringArrayVar(&items, "item", nil, "ITEM_ID:DOSE, repeatable")
	cmd.Flags().StringVar(&start, "start", "", "first session date YYYY-MM-DD (required)")
	cmd.Flags().IntVar(&repeat, "repeat", 1, "number of weekly sessions")
	cmd.MarkFlagRequired("patient")
	cmd.MarkFlagRequired("start")
	return cmd
}

func newProtocolEditCommand(rt *runtime) *cobra.Command {
	var (
		patient string
		items   []string
		date    string
	)

	cmd := &cobra.Command{
		Use:   "edit SESSION_ID",
		Short: "Replace patient, items and date of a scheduled session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doses, err := parseDoses(items)
			if err != nil {
				return err
			}
			day, err := parseDate("date", date)
			if err != nil {
				return err
			}
			app, err := rt.App()
			if err != nil {
				return err
			}

			session, err := app.Protocols.EditSession(cmd.Context(), entities.SessionID(args[0]), services.SessionEdit{
				PatientName: patient,
				Items:       doses,
				Date:        day,
			})
			if err != nil {
				return operationError("edit session", err)
			}
			return rt.renderer(cmd).Render(session, func(w io.Writer) error {
				return output.WriteSession(w, "Edited", session)
			})
		},
	}

	cmd.Flags().StringVar(&patient, "patient", "", "patient name (required)")
	cmd.Flags().StringArrayVar(&items, "item", nil, "ITEM_ID:DOSE, repeatable")
	cmd.Flags().StringVar(&date, "date", "", "session date YYYY-MM-DD (required)")
	cmd.MarkFlagRequired("patient")
	cmd.MarkFlagRequired("date")
	return cmd
}

func newProtocolDeleteCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "delete SESSION_ID",
		Short: "Remove a scheduled session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rt.App()
			if err != nil {
				return err
			}
			id := entities.SessionID(args[0])
			if err := app.Protocols.DeleteSession(cmd.Context(), id); err != nil {
				return operationError("delete session", err)
			}
			result := map[string]string{"deleted": string(id)}
			return rt.renderer(cmd).Render(result, func(w io.Writer) error {
				_, err := io.WriteString(w, "Deleted session "+string(id)+"\n")
				return err
			})
		},
	}
}
