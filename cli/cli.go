/* cli.go
 * The scoreline command line: parse a score locally, list formats, or run the Discord bot or HTTP server
 */

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"scoreline-bot/api/api"
	"scoreline-bot/api/parser"
	"scoreline-bot/bot"
	"scoreline-bot/config"
	"scoreline-bot/web"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	var envFile string
	rootCmd := &cobra.Command{
		Use:           "scoreline",
		Short:         "Reads free-form tennis style match scores",
		Long:          "Parses scores such as \"64 46 107\" or \"6-7(5) 6-3 ret\" under a matchUpFormat, and records them from Discord or HTTP.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "env file read before the environment")

	load := func() (*config.Config, error) {
		cfg, err := config.Load(envFile)
		if err != nil {
			return nil, err
		}
		zerolog.SetGlobalLevel(cfg.Level())
		return cfg, nil
	}

	rootCmd.AddCommand(parseCmd(load))
	rootCmd.AddCommand(formatsCmd())
	rootCmd.AddCommand(botCmd(load))
	rootCmd.AddCommand(serveCmd(load))
	return rootCmd
}

type loader func() (*config.Config, error)

func parseCmd(load loader) *cobra.Command {
	var matchUpFormat string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "parse <score>...",
		Short: "Parse a score and print how it was read",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			a, err := api.New(nil, nil, cfg.DefaultFormat)
			if err != nil {
				return err
			}
			result, err := a.ParseScore(cmd.Context(), strings.Join(args, " "), matchUpFormat)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			printResult(cmd.OutOrStdout(), result)
			return nil
		},
	}
	cmd.Flags().StringVarP(&matchUpFormat, "format", "f", "", "matchUpFormat code or preset name (default DEFAULT_FORMAT)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")
	return cmd
}

func formatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the named formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := &api.API{}
			for _, preset := range a.ListFormats() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-16s %-26s %s\n", preset.Name, preset.Code, preset.Description)
			}
			return nil
		},
	}
}

func botCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the Discord bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if cfg.DiscordToken == "" {
				return fmt.Errorf("DISCORD_TOKEN is not set")
			}

			ctx, cancel := setupContext(cmd.Context())
			defer cancel()

			a, err := api.NewAPI(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeAPI(a)

			b, err := bot.NewBot(cfg.DiscordToken, a)
			if err != nil {
				return err
			}
			return b.Run(ctx)
		},
	}
}

func serveCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}

			ctx, cancel := setupContext(cmd.Context())
			defer cancel()

			a, err := api.NewAPI(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeAPI(a)

			return web.Start(ctx, web.Config{
				Addr:      cfg.HTTPAddr,
				API:       a,
				RateLimit: cfg.ParseRateLimit,
				RateBurst: cfg.ParseRateBurst,
			})
		},
	}
}

// printResult writes a human readable summary of result
func printResult(w io.Writer, result *parser.ParseResult) {
	fmt.Fprintf(w, "score:      %s\n", result.FormattedScore)
	if result.MatchUpStatus != "" {
		fmt.Fprintf(w, "status:     %s\n", result.MatchUpStatus)
	}
	fmt.Fprintf(w, "valid:      %t\n", result.Valid)
	fmt.Fprintf(w, "complete:   %t\n", result.MatchComplete)
	if result.MatchComplete {
		fmt.Fprintf(w, "winner:     side %d\n", result.WinningSide)
	}
	fmt.Fprintf(w, "incomplete: %t\n", result.Incomplete)
	fmt.Fprintf(w, "confidence: %.2f\n", result.Confidence)
	for _, d := range result.Errors {
		fmt.Fprintf(w, "error:      %s at %d: %s\n", d.Code, d.Offset, d.Message)
	}
	for _, d := range result.Warnings {
		fmt.Fprintf(w, "warning:    %s at %d: %s\n", d.Code, d.Offset, d.Message)
	}
	for _, alt := range result.Ambiguities {
		fmt.Fprintf(w, "or:         %s (%.2f)\n", alt.FormattedScore, alt.Plausibility)
	}
	for _, s := range result.Suggestions {
		fmt.Fprintf(w, "suggest:    %s\n", s)
	}
}

// setupContext returns a context cancelled on SIGINT or SIGTERM
func setupContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		log.Warn().Msg("shutting down")
	}()
	return ctx, cancel
}

func closeAPI(a *api.API) {
	if err := a.Close(context.Background()); err != nil {
		log.Error().Err(err).Msg("failed to close store")
	}
}
