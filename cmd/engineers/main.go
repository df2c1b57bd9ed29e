// Command engineers runs the software engineers registry API.
//
//	engineers serve     migrate the schema, then serve HTTP until SIGINT/SIGTERM
//	engineers migrate   migrate the schema and exit
//
// Configuration is read from ENGINEERS_* environment variables and an
// optional .env file.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/deppfellow/software-engineers/internal/config"
	"github.com/deppfellow/software-engineers/internal/logger"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "engineers",
		Short:         "Software engineers registry API",
		SilenceUsage: true,
	}

	root.AddCommand(newServeCommand(), newMigrateCommand())
	return root
}

// bootstrap loads the configuration and builds the application logger.
// The returned LoggerService must be shut down by the caller.
func bootstrap() (*config.Config, *logger.LoggerService, *zerolog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	loggerService, err := logger.NewLoggerService(cfg.Observability)
	if err != nil {
		// APM is optional; continue with a plain logger
		fmt.Fprintf(os.Stderr, "new relic disabled: %v\n", err)
	}

	log := logger.NewLoggerWithService(cfg.Observability, loggerService)
	return cfg, loggerService, &log, nil
}
