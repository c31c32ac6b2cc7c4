package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bibbank/credit-simulator/internal/application/dto"
)

// batchOutput is printed for a batch computed in-process.
type batchOutput struct {
	BatchID string                   `json:"batchId"`
	Results []dto.SimulationResponse `json:"results"`
}

func newBatchCommand(now func() time.Time, newLogger func(*cobra.Command) *slog.Logger) *cobra.Command {
	var (
		file    string
		workers int
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Simulate a batch of loans from a YAML or JSON file",
		Long: `Reads a file with an optional batchId and a simulations list and runs
it through the batch dispatcher. Batches above the synchronous limit are
acknowledged, not computed.`,
		Example: `  simulatorctl batch --file loans.yaml --workers 8`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := readBatchFile(file)
			if err != nil {
				return err
			}

			rt := newSession(workers, now, newLogger(cmd))
			defer rt.Close()

			resp, err := rt.batch.Execute(cmd.Context(), req)
			if err != nil {
				return err
			}
			if resp.IsAccepted() {
				return printJSON(cmd.OutOrStdout(), resp.Accepted)
			}
			return printJSON(cmd.OutOrStdout(), batchOutput{BatchID: resp.BatchID, Results: resp.Results})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "batch file (.yaml, .yml or .json)")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker pool size (0 = number of CPUs)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// readBatchFile decodes a batch file. JSON documents are valid YAML, so one
// decoder serves both.
func readBatchFile(path string) (dto.BatchSimulationRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return dto.BatchSimulationRequest{}, fmt.Errorf("read batch file: %w", err)
	}

	var req dto.BatchSimulationRequest
	if err := yaml.Unmarshal(data, &req); err != nil {
		return dto.BatchSimulationRequest{}, fmt.Errorf("decode batch file %s: %w", path, err)
	}
	return req, nil
}
