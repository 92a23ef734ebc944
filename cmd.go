package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"pokedex-cards/app"
	"pokedex-cards/config"
	"pokedex-cards/logger"
	"pokedex-cards/models"
)

var (
	verbose     bool
	envFile     string
	searchQuery string
)

var rootCmd = &cobra.Command{
	Use:   "pokedex",
	Short: "Pokedex card catalog backed by PokeAPI",
	Long: `pokedex loads the first POKEDEX_LIMIT pokemon from PokeAPI, resolves their
details in parallel and renders them as cards with name search.

Run without a subcommand to start the HTTP server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logger.Init(verbose); err != nil {
			return err
		}
		config.LoadDotEnv(envFile)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Load the catalog and serve it over HTTP",
	RunE:  runServe,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Load the catalog and print one line per card",
	Example: `  pokedex list
  pokedex list --search char`,
	RunE: runList,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path of the .env file loaded outside production")
	listCmd.Flags().StringVarP(&searchQuery, "search", "s", "", "Only print pokemon whose name contains this text (case-sensitive)")

	rootCmd.AddCommand(serveCmd, listCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Debug && !verbose {
		if err := logger.Init(true); err != nil {
			return err
		}
	}

	application := app.Initialize(cfg, nil)
	defer application.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The page shows a loading state until the catalog is ready
	go func() {
		if err := application.Catalog.Load(ctx); err != nil {
			logger.L().Errorf("❌ Catalog unavailable: %v", err)
		}
	}()

	// Listen on 0.0.0.0 to accept connections from all interfaces (required for Docker)
	addr := "0.0.0.0:" + cfg.Port
	server := &http.Server{
		Addr:              addr,
		Handler:           application.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.L().Infof("Server starting on %s", addr)
		logger.L().Infof("Catalog page: %s/", cfg.BaseURL)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed to start: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.L().Infof("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	application := app.Initialize(cfg, nil)
	defer application.Close()

	ctx := cmd.Context()
	if err := application.Catalog.Load(ctx); err != nil {
		return err
	}
	if searchQuery != "" {
		if _, err := application.Catalog.Search(ctx, searchQuery); err != nil {
			return err
		}
	}

	printSnapshot(cmd.OutOrStdout(), application.Catalog.Snapshot())
	return nil
}

func printSnapshot(w io.Writer, snap models.DisplaySnapshot) {
	if snap.Notice != nil {
		fmt.Fprintf(w, "[%s] %s\n", snap.Notice.Kind, snap.Notice.Message)
	}
	for _, card := range snap.Cards {
		types := make([]string, 0, len(card.Pills))
		for _, pill := range card.Pills {
			types = append(types, pill.Label)
		}
		fmt.Fprintf(w, "#%03d %-12s %-16s %9s %9s  %s\n",
			card.ID, card.Name, strings.Join(types, "/"), card.Height, card.Weight, card.MovesText)
	}
}
