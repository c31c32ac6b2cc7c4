// Package cli implements simulatorctl, an offline front end to the simulation
// engine. It needs no network services: deferred batches are only logged.
package cli

import (
	"encoding/json"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/bibbank/credit-simulator/internal/application/usecase"
	"github.com/bibbank/credit-simulator/internal/domain/service"
	"github.com/bibbank/credit-simulator/internal/infrastructure/messaging"
	"github.com/bibbank/credit-simulator/internal/infrastructure/persistence/memory"
	"github.com/bibbank/credit-simulator/internal/infrastructure/workerpool"
	"github.com/bibbank/credit-simulator/pkg/observability"
)

// statusTTL only has to outlive a single command.
const statusTTL = time.Hour

// NewRootCommand builds the simulatorctl command tree. now is the clock used
// for age and due-date computation; nil means time.Now.
func NewRootCommand(now func() time.Time) *cobra.Command {
	if now == nil {
		now = time.Now
	}

	var logLevel string
	root := &cobra.Command{
		Use:   "simulatorctl",
		Short: "Offline credit simulations",
		Long: `simulatorctl runs loan simulations locally with the same engine,
age policy and rate policy as the credit-simulator service.

Results are printed as JSON.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	newLogger := func(cmd *cobra.Command) *slog.Logger {
		return observability.NewLogger(observability.LogConfig{
			Level:  logLevel,
			Format: "text",
			Output: cmd.ErrOrStderr(),
		})
	}

	root.AddCommand(newSimulateCommand(now, newLogger))
	root.AddCommand(newBatchCommand(now, newLogger))
	return root
}

// session is the per-command wiring of engine, pool and use cases.
type session struct {
	pool     *workerpool.Pool
	simulate *usecase.SimulateUseCase
	batch    *usecase.SimulateBatchUseCase
}

func newSession(workers int, now func() time.Time, logger *slog.Logger) *session {
	pool := workerpool.New(workers)
	engine := service.NewSimulationEngine(service.NewAgePolicy(), service.NewInterestRatePolicy(), now)
	dispatcher := service.NewBatchDispatcher(engine, pool, now)
	statuses := memory.NewBatchStatusRepo(statusTTL, now)
	queue := messaging.NewLoggingBatchQueue(logger)

	return &session{
		pool:     pool,
		simulate: usecase.NewSimulateUseCase(engine, nil, logger, now),
		batch:    usecase.NewSimulateBatchUseCase(dispatcher, queue, statuses, nil, logger, now),
	}
}

func (s *session) Close() { s.pool.Close() }

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
