package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/awsl-project/dontcaught/internal/config"
	"github.com/awsl-project/dontcaught/internal/core"
	"github.com/awsl-project/dontcaught/internal/domain"
	"github.com/awsl-project/dontcaught/internal/version"
	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	dataDir string
	addr    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "dontcaught",
		Short:         "Headless access to the DontCaught settings store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.dataDir, "data", "", "Data directory for config, database and logs (default: ~/.config/dontcaught)")

	serve := newServeCmd(opts)
	serve.Flags().StringVar(&opts.addr, "addr", "", "Server address (overrides config)")

	root.AddCommand(serve, newGetCmd(opts), newSetCmd(opts), newExportCmd(opts), newImportCmd(opts), newVersionCmd())
	return root
}

// open loads config and components without a window; the host effect is
// applied by the desktop app on its next start.
func (o *rootOptions) open(ctx context.Context) (*core.Components, error) {
	cfg, err := config.Load(config.ResolveDataDir(o.dataDir))
	if err != nil {
		return nil, err
	}
	if o.addr != "" {
		cfg.Server.Addr = o.addr
	}
	c, err := core.NewComponents(cfg, nil)
	if err != nil {
		return nil, err
	}
	c.Initialize(ctx)
	return c, nil
}

// --- serve ---

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the settings HTTP API without the desktop window",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			c, err := opts.open(ctx)
			if err != nil {
				return err
			}
			defer c.Close()

			closer, err := core.SetupLogging(c.Config.LogPath())
			if err != nil {
				log.Printf("Warning: %v", err)
			} else {
				defer closer.Close()
			}

			server := core.NewManagedServer(&core.ServerConfig{
				Addr:    c.Config.Server.Addr,
				Handler: c.Handler(),
			})
			if err := server.Start(ctx); err != nil {
				return err
			}

			log.Printf("Starting DontCaught %s (headless)", version.Info())
			log.Printf("Data directory: %s", c.Config.DataDir)
			log.Printf("Settings API: http://%s/api/settings", server.GetAddr())
			log.Printf("WebSocket: ws://%s/ws", server.GetAddr())

			<-ctx.Done()
			log.Printf("Shutting down...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), core.GracefulShutdownTimeout+core.HTTPShutdownTimeout)
			defer cancel()
			return server.Stop(shutdownCtx)
		},
	}
}

// --- get ---

func newGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get [key]",
		Short: "Show one setting, or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			states := c.Page.States()
			if len(args) == 1 {
				t, ok := c.Page.Get(args[0])
				if !ok {
					return fmt.Errorf("%w: %s", domain.ErrUnknownSetting, args[0])
				}
				states = []domain.ToggleState{t.State()}
			}
			for _, s := range states {
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %v (%s, %s)\n", s.Key, s.Value, s.Label, s.Policy)
			}
			return nil
		},
	}
}

// --- set ---

func newSetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <true|false>",
		Short: "Change a setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value, ok := domain.ParseBool(args[1])
			if !ok {
				return fmt.Errorf("value must be %q or %q, got %q", domain.SettingValueTrue, domain.SettingValueFalse, args[1])
			}

			c, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			state, err := c.Page.Toggle(cmd.Context(), key, value)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %v (%s)\n", state.Key, state.Value, state.Label)
			return nil
		},
	}
}

// --- export / import ---

func newExportCmd(opts *rootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export persisted settings as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			backup, err := c.Backup.Export(cmd.Context())
			if err != nil {
				return err
			}
			data, err := sonic.ConfigStd.MarshalIndent(backup, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding backup: %w", err)
			}
			if output == "" {
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			return os.WriteFile(output, data, 0o644)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
	return cmd
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	var importOpts domain.ImportOptions
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import settings from an exported JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var backup domain.BackupFile
			if err := sonic.Unmarshal(data, &backup); err != nil {
				return fmt.Errorf("decoding backup: %w", err)
			}

			c, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()
			result, err := c.Backup.Import(ctx, &backup, importOpts)
			if err != nil {
				return err
			}
			summary := result.Summary["settings"]
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d, updated %d, skipped %d\n", summary.Imported, summary.Updated, summary.Skipped)
			for _, e := range result.Errors {
				fmt.Fprintf(cmd.ErrOrStderr(), "error: %s\n", e)
			}
			if !result.Success {
				return fmt.Errorf("import finished with %d errors", len(result.Errors))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&importOpts.ConflictStrategy, "conflict", domain.ConflictSkip, "Conflict strategy: skip, overwrite or error")
	cmd.Flags().BoolVar(&importOpts.DryRun, "dry-run", false, "Report what would change without writing")
	return cmd
}

// --- version ---

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Name, version.Full())
		},
	}
}
