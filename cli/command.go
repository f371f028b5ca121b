package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	yaml "github.com/goccy/go-yaml"
	rungroup "github.com/oklog/run"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andydunstall/rumour/batch"
	"github.com/andydunstall/rumour/batch/config"
	"github.com/andydunstall/rumour/pkg/build"
	rumourconfig "github.com/andydunstall/rumour/pkg/config"
	"github.com/andydunstall/rumour/pkg/log"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "rumour <input csv> <output csv> (flags)",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		Long: `Rumour simulates a rumour spreading to quorum across a network of
nodes using round-based push-pull anti-entropy gossip.

Each row of the input CSV configures one simulation with columns 'n' (the
number of nodes), 'k' (the number of designated voters, which must be a strict
majority of n) and 'voting_steps' (the number of rounds the k votes are spread
over).

Each round, the voters scheduled for that round vote for the rumour, then
every node exchanges its observed votes with a random peer. The simulation
completes once every node has observed votes from a majority of the network.

The output CSV contains one row per input row, in input order, with the
number of rounds ('num_iterations') and pairwise exchanges
('num_exchanges') until every node reached quorum. Rows that can't be parsed
or describe an invalid configuration are reported with status 'invalid'
rather than failing the batch.

Supports both YAML configuration and command line flags. Configure a YAML file
using '--config.path'. When enabling '--config.expand-env', Rumour will expand
environment variables in the loaded YAML configuration.

Examples:
  # Simulate each configuration in params.csv.
  rumour params.csv results.csv

  # Use a fixed seed so the results are reproducible.
  rumour params.csv results.csv --seed 42

  # Write a trace of every round and the batch metrics.
  rumour params.csv results.csv --trace.path trace.jsonl --metrics.path metrics.prom
`,
	}

	conf := config.Default()
	var loadConf rumourconfig.Config

	// Register flags and set default values.
	conf.RegisterFlags(cmd.Flags())
	loadConf.RegisterFlags(cmd.Flags())

	var logger log.Logger

	cmd.PreRun = func(_ *cobra.Command, _ []string) {
		if err := rumourconfig.Load(conf, loadConf.Path, loadConf.ExpandEnv); err != nil {
			fmt.Println(err.Error())
			os.Exit(1)
		}

		if err := conf.Validate(); err != nil {
			fmt.Printf("config: %s\n", err.Error())
			os.Exit(1)
		}

		var err error
		logger, err = log.NewLogger(conf.Log.Level, conf.Log.Subsystems)
		if err != nil {
			fmt.Printf("failed to setup logger: %s\n", err.Error())
			os.Exit(1)
		}
	}

	cmd.Run = func(cmd *cobra.Command, args []string) {
		if err := run(conf, args[0], args[1], cmd.OutOrStdout(), logger); err != nil {
			logger.Error("failed to run batch", zap.Error(err))
			os.Exit(1)
		}
	}

	return cmd
}

func run(
	conf *config.Config,
	inputPath string,
	outputPath string,
	stdout io.Writer,
	logger log.Logger,
) error {
	logger.Info(
		"starting rumour",
		zap.String("version", build.Version),
	)
	logger.Debug("rumour config", zap.Any("config", conf))

	b := batch.NewBatch(conf, logger)

	var group rungroup.Group

	// Batch.
	batchCtx, batchCancel := context.WithCancel(context.Background())
	group.Add(func() error {
		summary, err := b.Run(batchCtx, inputPath, outputPath)
		if err != nil {
			return err
		}

		out, err := yaml.Marshal(summary)
		if err != nil {
			return fmt.Errorf("marshal summary: %w", err)
		}
		_, err = stdout.Write(out)
		return err
	}, func(error) {
		batchCancel()
	})

	// Termination handler.
	signalCtx, signalCancel := context.WithCancel(context.Background())
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signalCh)
	group.Add(func() error {
		select {
		case sig := <-signalCh:
			logger.Info(
				"received shutdown signal",
				zap.String("signal", sig.String()),
			)
			return fmt.Errorf("interrupted: %s", sig)
		case <-signalCtx.Done():
			return nil
		}
	}, func(error) {
		signalCancel()
	})

	return group.Run()
}

func init() {
	cobra.EnableCommandSorting = false
}
