package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/quizvault/internal/config"
	"github.com/abhisek/quizvault/internal/llm"
	"github.com/abhisek/quizvault/internal/logging"
	"github.com/abhisek/quizvault/internal/metrics"
	"github.com/abhisek/quizvault/internal/store"
	"github.com/abhisek/quizvault/internal/vault"
)

// env bundles what a command needs once configuration is resolved.
type env struct {
	cfg     config.Config
	logger  *zap.Logger
	store   *store.Store
	svc     *vault.Service
	metrics *metrics.Metrics
}

type envOptions struct {
	// console forces stderr logging regardless of --verbose.
	console bool
	// tui keeps stderr free for a full-screen program.
	tui bool
	// withMetrics registers LLM and attempt collectors.
	withMetrics bool
}

// setup loads configuration and opens the store. The LLM provider is
// optional: when it cannot be built the AI operations report why.
func setup(cmd *cobra.Command, o envOptions) (*env, error) {
	ctx := cmd.Context()

	v, err := config.ForCommand(cmd)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	logger, err := logging.New(logging.Options{
		LogConfig: cfg.Log,
		Console:   cmd.ErrOrStderr(),
		Quiet:     o.tui || !(verbose || o.console),
	})
	if err != nil {
		return nil, err
	}

	st, err := cfg.OpenStore(ctx)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("open database: %w", err)
	}

	e := &env{cfg: cfg, logger: logger, store: st}

	var (
		opts []vault.Option
		obs  llm.Observer
	)
	if o.withMetrics {
		e.metrics = metrics.New()
		obs = e.metrics
		opts = append(opts, vault.WithAttemptObserver(e.metrics))
	}

	provider, err := llm.NewProvider(ctx, cfg.LLM, st.EventRepo(), logger, obs)
	if err != nil {
		logger.Debug("llm provider unavailable", zap.String("provider", cfg.LLM.Provider), zap.Error(err))
		opts = append(opts, vault.WithProviderError(err))
	} else {
		logger.Debug("llm provider ready", zap.String("provider", cfg.LLM.Provider), zap.String("model", provider.ModelID()))
		opts = append(opts, vault.WithProvider(provider))
	}

	e.svc = vault.New(st, logger, opts...)
	return e, nil
}

func (e *env) Close() {
	if err := e.store.Close(); err != nil {
		e.logger.Warn("close database", zap.Error(err))
	}
	_ = e.logger.Sync()
}

// withEnv adapts a command body that needs an env.
func withEnv(o envOptions, run func(cmd *cobra.Command, args []string, e *env) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, o)
		if err != nil {
			return err
		}
		defer e.Close()
		return run(cmd, args, e)
	}
}
