package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sslscout/sslscout/internal/cli"
	"github.com/sslscout/sslscout/internal/config"
	"github.com/sslscout/sslscout/internal/connectivity"
	"github.com/sslscout/sslscout/internal/handshake"
	"github.com/sslscout/sslscout/internal/log"
	"github.com/sslscout/sslscout/internal/parallel"
	"github.com/sslscout/sslscout/internal/report"
)

var (
	schema *cli.Schema

	flagVerbose bool // value of --verbose flag
)

func main() {
	schema = cli.BuildSchema(cli.BuiltinPlugins())
	rootCmd.Flags().AddFlagSet(schema.Flags)
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "verbose logging")

	// never print messages, errors are logged below
	rootCmd.SilenceErrors = true

	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("sslscout failed", "err", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "sslscout [options] target1.com target2.com:443 target3.com:443{ip} ...",
	Short:        "Fast and powerful TLS/SSL scanning tool",
	RunE:         doScan,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "version provides the version of sslscout",
	Run: func(cmd *cobra.Command, args []string) {
		info, ok := debug.ReadBuildInfo()
		if !ok {
			fmt.Println("sslscout: version info not available")
			return
		}
		fmt.Printf("sslscout: %s\n", info.Main.Version)
		fmt.Printf("go:       %s\n", info.GoVersion)
	},
}

func doScan(cmd *cobra.Command, args []string) error {
	slog.SetDefault(log.New(flagVerbose))

	runID := uuid.New()
	ctx := log.ContextAttrs(cmd.Context(), slog.Group("run",
		slog.String("id", runID.String()),
		slog.Int("pid", os.Getpid()),
	))

	opts, err := schema.Options()
	if err != nil {
		return err
	}

	cfg, targets, err := config.Resolve(opts, args)
	if err != nil {
		return err
	}
	slog.DebugContext(ctx, "configuration resolved", "targets", len(targets))

	prober := connectivity.DialProber{
		Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		Retries: cfg.Retries,
	}
	descriptors, failures, err := connectivity.ResolveAll(ctx, targets, cfg, prober)
	if err != nil {
		return err
	}
	slog.DebugContext(ctx, "targets resolved",
		"resolved", len(descriptors), "invalid", len(failures))

	if cfg.Enabled("certinfo_basic") || cfg.Enabled("certinfo_full") {
		inspectAll(ctx, descriptors, cfg)
	}

	rep := report.New(runID, version(), descriptors, failures)
	if !cfg.Quiet {
		rep.WriteText(os.Stdout)
	}
	return rep.WriteSinks(ctx, cfg)
}

// inspectAll grabs the certificates of every resolved server. Results go to
// the log for now; full plugin output is the scanning engine's job.
func inspectAll(ctx context.Context, descriptors []*connectivity.Descriptor, cfg *config.ScanConfiguration) {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	results, errs := parallel.Map(ctx, 4, descriptors,
		func(ctx context.Context, d *connectivity.Descriptor) (handshake.Result, error) {
			return handshake.Inspect(ctx, d, timeout)
		})

	for i, d := range descriptors {
		if errs[i] != nil {
			slog.WarnContext(ctx, "certificate inspection failed",
				"target", d.ServerString, "err", errs[i])
			continue
		}
		state := results[i].State
		slog.InfoContext(ctx, "certificate inspected",
			"target", d.ServerString,
			"subject", state.PeerCertificates[0].Subject.String(),
			"issuer", state.PeerCertificates[0].Issuer.String(),
			"chain", len(state.PeerCertificates),
		)
	}
}

func version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	return info.Main.Version
}
