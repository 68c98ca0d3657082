package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// NewRunCmd создаёт группу команд для управления прогонами.
func NewRunCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Manage sequence runs",
	}

	cmd.AddCommand(
		newRunListCmd(clientFn, outputFn),
		newRunStartCmd(clientFn, outputFn),
		newRunShowCmd(clientFn, outputFn),
		newRunCancelCmd(clientFn, outputFn),
		newRunRecordsCmd(clientFn, outputFn),
	)

	return cmd
}

func newRunListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var status string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			runs, err := client.ListRuns(ListRunsOpts{
				Status: status,
				Limit:  limit,
			})
			if err != nil {
				return err
			}

			headers := []string{"ID", "STEPS", "STATUS", "STEPS_RUN", "ERROR", "CREATED"}
			rows := make([][]string, len(runs))
			for i, r := range runs {
				rows[i] = []string{
					r.ID,
					strings.Join(r.StepIDs, ","),
					r.Status,
					strconv.Itoa(r.StepsRun),
					r.Error,
					r.CreatedAt,
				}
			}

			out.Print(headers, rows, runs)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (PENDING, RUNNING, SUCCEEDED, FAILED, CANCELLED)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of results")

	return cmd
}

func newRunStartCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var paramFlags []string
	var async bool

	cmd := &cobra.Command{
		Use:   "start STEP_ID [STEP_ID...]",
		Short: "Run a sequence of steps",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			req := CreateRunRequest{
				StepIDs: args,
			}

			if len(paramFlags) > 0 {
				req.Params = make(map[string]any)
				for _, kv := range paramFlags {
					parts := strings.SplitN(kv, "=", 2)
					if len(parts) != 2 {
						return fmt.Errorf("invalid param format %q, expected KEY=VALUE", kv)
					}
					req.Params[parts[0]] = parts[1]
				}
			}

			if async {
				run, err := client.StartRunAsync(req)
				if err != nil {
					return err
				}

				out.Success(fmt.Sprintf("Run started: %s", run.ID))
				out.Print(
					[]string{"ID", "STATUS", "CREATED"},
					[][]string{{run.ID, run.Status, run.CreatedAt}},
					run,
				)
				return nil
			}

			detail, err := client.StartRun(req)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Run finished: %s (%s)", detail.ID, detail.Status))
			out.Print(
				recordHeaders,
				recordRows(detail.Records),
				detail,
			)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&paramFlags, "param", nil, "Input parameter as KEY=VALUE (repeatable)")
	cmd.Flags().BoolVar(&async, "async", false, "Start the run in the background")

	return cmd
}

func newRunShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show run details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			run, err := client.GetRun(args[0])
			if err != nil {
				return err
			}

			out.Print(
				[]string{"ID", "STEPS", "STATUS", "STEPS_RUN", "ERROR", "CREATED"},
				[][]string{{
					run.ID,
					strings.Join(run.StepIDs, ","),
					run.Status,
					strconv.Itoa(run.StepsRun),
					run.Error,
					run.CreatedAt,
				}},
				run,
			)
			return nil
		},
	}
}

func newRunCancelCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel ID",
		Short: "Cancel a running run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			if err := client.CancelRun(args[0]); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Run cancelled: %s", args[0]))
			return nil
		},
	}
}

func newRunRecordsCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "records RUN_ID",
		Short: "List history records of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			records, err := client.ListRunRecords(args[0])
			if err != nil {
				return err
			}

			out.Print(recordHeaders, recordRows(records), records)
			return nil
		},
	}
}

// recordHeaders — общие заголовки таблицы записей истории.
var recordHeaders = []string{"STEP_ID", "STEP_NAME", "SUCCESS", "DURATION", "MESSAGE", "ERROR"}

// recordRows строит строки таблицы из записей истории.
func recordRows(records []RecordResponse) [][]string {
	rows := make([][]string, len(records))
	for i, rec := range records {
		message := ""
		if rec.Outcome != nil {
			if m, ok := rec.Outcome["message"].(string); ok {
				message = m
			}
		}
		rows[i] = []string{
			rec.StepID,
			rec.StepName,
			strconv.FormatBool(rec.Success),
			time.Duration(rec.DurationNs).String(),
			message,
			rec.Error,
		}
	}
	return rows
}
