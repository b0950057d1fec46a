package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/GTD-web/ems-backend-sub025/internal/domain/progress"
)

func newStatusCmd(opts *options) *cobra.Command {
	var periodID, employeeID string
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show evaluation progress for a period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := opts.load()
			if err != nil {
				return err
			}
			database, err := opts.connect(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer database.Close()

			svc := progress.NewService(database.DB)
			var statuses []progress.EmployeeStatus
			if employeeID != "" {
				s, err := svc.GetEmployeeStatus(cmd.Context(), periodID, employeeID)
				if err != nil {
					return err
				}
				statuses = []progress.EmployeeStatus{s}
			} else {
				statuses, err = svc.ListPeriodStatuses(cmd.Context(), periodID)
				if err != nil {
					return err
				}
			}
			return printStatuses(cmd.OutOrStdout(), statuses)
		},
	}
	cmd.Flags().StringVar(&periodID, "period", "", "evaluation period id")
	cmd.Flags().StringVar(&employeeID, "employee", "", "limit output to one employee")
	_ = cmd.MarkFlagRequired("period")
	return cmd
}

var (
	completeColor   = color.New(color.FgGreen)
	inProgressColor = color.New(color.FgYellow)
	noneColor       = color.New(color.FgHiBlack)
	excludedColor   = color.New(color.FgRed)
	nameColor       = color.New(color.Bold)
)

func stageLabel(status string) string {
	switch status {
	case progress.StatusComplete:
		return completeColor.Sprint(status)
	case progress.StatusInProgress:
		return inProgressColor.Sprint(status)
	default:
		return noneColor.Sprint(status)
	}
}

func printStatuses(w io.Writer, statuses []progress.EmployeeStatus) error {
	if len(statuses) == 0 {
		_, err := fmt.Fprintln(w, "no evaluation targets")
		return err
	}
	for i, s := range statuses {
		if i > 0 {
			fmt.Fprintln(w)
		}
		header := nameColor.Sprintf("%s (%s)", s.EmployeeName, s.EmployeeID)
		if s.IsExcluded {
			header += excludedColor.Sprint(" [excluded]")
		}
		fmt.Fprintln(w, header)
		fmt.Fprintf(w, "  %-22s %s (%d/%d)\n", "criteria", stageLabel(s.WbsCriteria.Status),
			s.WbsCriteria.WbsWithCriteriaCount, s.WbsCriteria.TotalWbsCount)
		stages := []struct {
			name  string
			stage progress.StageSummary
		}{
			{"self to evaluator", s.Summary.SelfToEvaluator},
			{"self to manager", s.Summary.SelfToManager},
			{"primary downward", s.Summary.DownwardPrimary},
			{"secondary downward", s.Summary.DownwardSecondary},
			{"peer", s.Summary.Peer},
			{"final", s.Summary.Final},
		}
		for _, st := range stages {
			if _, err := fmt.Fprintf(w, "  %-22s %s (%d/%d)\n", st.name, stageLabel(st.stage.Status), st.stage.Completed, st.stage.Total); err != nil {
				return err
			}
		}
	}
	return nil
}
