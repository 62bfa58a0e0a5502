package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/curator/internal/client"
	"github.com/JaimeStill/curator/internal/config"
	"github.com/JaimeStill/curator/pkg/review"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := newRootCmd()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	runCmd := newRunCmd()

	rootCmd := &cobra.Command{
		Use:   "review",
		Short: "Review pending product text corrections",
		Long: `review walks the pending-correction queue one product at a time.

Press enter to approve the text as shown, type a replacement to correct it,
or use :r to reload, :s to show the queue state, and :q to quit.`,
		SilenceUsage: true,
		RunE:         runCmd.RunE,
	}

	rootCmd.PersistentFlags().String("api", "", "Backend base URL (overrides config)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Request timeout (overrides config)")
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		runCmd,
		newListCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the interactive review loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, logger, err := setup(cmd)
			if err != nil {
				return err
			}

			ctrl := review.NewController(backend, logger)
			s := newSession(ctrl, cmd.InOrStdin(), cmd.OutOrStdout())
			return s.Run(cmd.Context())
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the pending queue without reviewing",
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, logger, err := setup(cmd)
			if err != nil {
				return err
			}

			q, err := review.Load(cmd.Context(), backend, logger)
			if err != nil {
				return fmt.Errorf("failed to load products: %w", err)
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(q.Items())
			}

			if q.Len() == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No products need review right now.")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tID\tTEXT\tCATEGORY\tPRICE\tSTATUS")
			for i, r := range q.Items() {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
					i+1, r.ID, truncate(r.TextContent, 60), deref(r.Category), amount(r.Price), r.Status)
			}
			return tw.Flush()
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]string{"version": version})
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "review version %s\n", version)
			}
		},
	}
}

// setup resolves the client config from files, environment, and flags, in that
// order of increasing precedence.
func setup(cmd *cobra.Command) (*client.Client, *slog.Logger, error) {
	levelFlag, _ := cmd.Flags().GetString("log-level")
	level, err := config.ParseLogLevel(levelFlag)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.LoadClient()
	if err != nil {
		return nil, nil, err
	}

	if api, _ := cmd.Flags().GetString("api"); api != "" {
		cfg.BaseURL = api
	}
	if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout > 0 {
		cfg.Timeout = timeout.String()
	}
	if err := cfg.Finalize(nil); err != nil {
		return nil, nil, fmt.Errorf("client config: %w", err)
	}

	logger.Debug("using api", "base_url", cfg.BaseURL, "timeout", cfg.Timeout)
	return client.New(cfg, logger), logger, nil
}
