package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/bft-labs/walletpoll/internal/adapters/engine"
	fsAdapter "github.com/bft-labs/walletpoll/internal/adapters/fs"
	logAdapter "github.com/bft-labs/walletpoll/internal/adapters/log"
	"github.com/bft-labs/walletpoll/internal/adapters/metrics"
	"github.com/bft-labs/walletpoll/internal/adapters/report"
	"github.com/bft-labs/walletpoll/internal/app"
	"github.com/bft-labs/walletpoll/internal/cliconfig"
	"github.com/bft-labs/walletpoll/internal/domain"
	"github.com/bft-labs/walletpoll/internal/ports"
)

const helpDescription = `
Open (or create) a wallet, start synchronizing it with a node and poll its
status and unspent outputs at a fixed interval until stopped.

Signals:
  SIGINT, SIGTERM  stop polling and exit
  SIGUSR1          poll now instead of waiting for the next interval

Configuration is read once at startup from defaults, the TOML config file,
WALLETPOLL_* environment variables (optionally loaded from --env-file) and
flags, in increasing order of precedence.
`

var exampleUsage = strings.TrimSpace(`
  walletpoll --wallet test --node 172.104.249.212:8101
  walletpoll --config $HOME/.walletpoll/config.toml --metrics-addr :9100
  walletpoll status --status-file /var/lib/walletpoll/status.json
`)

const metricsShutdownTimeout = 5 * time.Second

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath, envFile string

	log := logAdapter.NewZerologAdapter(zerolog.InfoLevel).Logger()

	root := &cobra.Command{
		Use:           "walletpoll",
		Short:         "Bootstrap a wallet session and poll its status",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			cfgFile, err := loadConfig(&cfg, cfgPath, envFile, changed)
			if err != nil {
				return err
			}
			return run(cfg, cfgFile)
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.walletpoll/config.toml)")
	root.Flags().StringVar(&envFile, "env-file", "", "load WALLETPOLL_* variables from a .env file")

	root.Flags().StringVar(&cfg.NodeAddress, "node", cfg.NodeAddress, "node address (host:port) the wallet synchronizes against")
	root.Flags().StringVar(&cfg.WalletName, "wallet", cfg.WalletName, "wallet name")
	root.Flags().StringVar(&cfg.Password, "password", cfg.Password, "wallet password (prompted when empty on a terminal)")
	root.Flags().StringVar(&cfg.OwnerSeed, "owner-seed", cfg.OwnerSeed, "owner seed phrase, used only when the wallet is created")

	root.Flags().IntVar(&cfg.PollIntervalMillis, "poll-interval-ms", cfg.PollIntervalMillis, "milliseconds between polling iterations")
	root.Flags().StringVar(&cfg.Overlap, "overlap", cfg.Overlap, "what to do when the previous query is still in flight: allow or drop")

	root.Flags().StringVar(&cfg.EngineURL, "engine-url", cfg.EngineURL, "wallet daemon base URL")
	root.Flags().DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "wallet daemon request timeout")

	root.Flags().StringVar(&cfg.StatusFile, "status-file", cfg.StatusFile, "write the latest wallet status to this JSON file")
	root.Flags().StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "serve Prometheus metrics on this address (e.g. :9100)")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")

	root.AddCommand(newStatusCommand())

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("walletpoll")
		os.Exit(1)
	}
}

// loadConfig layers env file, config file and environment under the flags
// already parsed into cfg. It returns the config file in use, if any.
func loadConfig(cfg *cliconfig.Config, cfgPath, envFile string, changed map[string]bool) (string, error) {
	if err := cliconfig.LoadEnvFile(envFile); err != nil {
		return "", err
	}

	cfgFile := cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}
	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return "", fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(cfg, fc, changed); err != nil {
			return "", err
		}
	} else {
		cfgFile = ""
	}

	if err := cliconfig.ApplyEnvConfig(cfg, changed); err != nil {
		return "", err
	}

	if cfg.Password == "" && cliconfig.IsTerminal(int(os.Stdin.Fd())) {
		pw, err := cliconfig.PromptPassword(int(os.Stdin.Fd()), os.Stderr, cfg.WalletName)
		if err != nil {
			return "", err
		}
		cfg.Password = pw
	}

	if err := cfg.Validate(); err != nil {
		return "", err
	}
	return cfgFile, nil
}

func run(cfg cliconfig.Config, cfgFile string) error {
	level, err := logAdapter.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := logAdapter.NewZerologAdapter(level)
	zl := logger.Logger()
	zl.Info().Interface("config", cfg.Masked()).Msg("configuration")

	endpoint, err := cfg.Endpoint()
	if err != nil {
		return err
	}
	pollCfg, err := cfg.PollConfig()
	if err != nil {
		return err
	}

	opts := []app.Option{
		app.WithLogger(logger),
		app.WithReporter(report.NewLogReporter(logger)),
	}

	var m *metrics.Metrics
	if cfg.MetricsAddr != "" {
		m = metrics.New()
		opts = append(opts, app.WithReporter(m), app.WithStateObserver(m))
	}
	if cfg.StatusFile != "" {
		sf := fsAdapter.NewStatusFile(cfg.StatusFile, cfg.WalletName, endpoint, logger)
		opts = append(opts, app.WithReporter(sf), app.WithStateObserver(sf))
	}

	eng := engine.New(engine.Config{BaseURL: cfg.EngineURL, Timeout: cfg.HTTPTimeout}, logger)
	client, err := app.NewClient(app.ClientConfig{
		Identity: cfg.Identity(),
		Endpoint: endpoint,
		Poll:     pollCfg,
	}, eng, opts...)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stopNudge := notifyNudge(client.Nudge)
	defer stopNudge()

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()
	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		// The other workers only live as long as the client.
		defer cancelRun()
		return client.Run(gctx)
	})

	if m != nil {
		serveMetrics(gctx, g, cfg.MetricsAddr, m.Handler(), logger)
	}

	if cfgFile != "" {
		g.Go(func() error {
			return cliconfig.WatchConfigFile(gctx, cfgFile, logger, func() {
				logger.Warn("config file changed, restart walletpoll to apply it",
					ports.String("path", cfgFile),
				)
			})
		})
	}

	err = g.Wait()
	if errors.Is(err, domain.ErrShutdownTimeout) {
		logger.Warn("stopped with replies still in flight")
		return nil
	}
	if err != nil {
		return err
	}
	logger.Info("stopped", ports.Uint64("iterations", client.Iterations()))
	return nil
}

func serveMetrics(ctx context.Context, g *errgroup.Group, addr string, h http.Handler, logger ports.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", h)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g.Go(func() error {
		logger.Info("metrics server listening", ports.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}
