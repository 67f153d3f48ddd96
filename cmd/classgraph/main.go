package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/classgraph/config"
	"github.com/dhamidi/classgraph/importer"
	"github.com/dhamidi/classgraph/maven"
)

var log = commonlog.GetLogger("classgraph.cli")

func main() {
	var configFile string

	rootCmd := &cobra.Command{
		Use:          "classgraph",
		Short:        "Import JVM class files into a queryable class graph",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "configuration file (default "+config.DefaultFile+" if present)")
	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile, cmd.Flags())
		if err != nil {
			return err
		}
		commonlog.Initialize(cfg.Log.Verbosity, cfg.Log.File)
		cmd.SetContext(withConfig(cmd.Context(), cfg))
		return nil
	}

	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newClassesCmd())
	rootCmd.AddCommand(newClassCmd())
	rootCmd.AddCommand(newPackagesCmd())
	rootCmd.AddCommand(newDepsCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newServeCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

type configKey struct{}

func withConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// importLocations runs one import session with the loaded configuration.
func importLocations(cmd *cobra.Command, locations []string) (*importer.Result, error) {
	ctx := cmd.Context()
	cfg, _ := ctx.Value(configKey{}).(*config.Config)
	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	opts, err := cfg.ImporterOptions()
	if err != nil {
		return nil, err
	}
	if cfg.Maven.POM != "" {
		jars, err := maven.NewRepository(cfg.Maven.Repository).Classpath(ctx, cfg.Maven.POM)
		if err != nil {
			return nil, fmt.Errorf("maven class path: %w", err)
		}
		opts.Classpath = append(opts.Classpath, jars...)
	}
	res, err := importer.New(opts).Import(ctx, locations...)
	if err != nil {
		return nil, err
	}
	for _, f := range res.Failures {
		log.Warningf("skipped %s: %s", f.Source, f.Err)
	}
	return res, nil
}
