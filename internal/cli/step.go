package cli

import (
	"github.com/spf13/cobra"
)

// NewStepCmd создаёт группу команд для просмотра шагов.
func NewStepCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "step",
		Short: "Inspect registered steps",
	}

	cmd.AddCommand(
		newStepListCmd(clientFn, outputFn),
	)

	return cmd
}

func newStepListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered steps",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			steps, err := client.ListSteps()
			if err != nil {
				return err
			}

			headers := []string{"ID", "NAME"}
			rows := make([][]string, len(steps))
			for i, s := range steps {
				rows[i] = []string{s.ID, s.Name}
			}

			out.Print(headers, rows, steps)
			return nil
		},
	}
}
