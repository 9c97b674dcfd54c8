package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/text/language"

	"github.com/pavelanni/gradeace/internal/config"
	"github.com/pavelanni/gradeace/internal/grade"
	"github.com/pavelanni/gradeace/internal/handler"
	appI18n "github.com/pavelanni/gradeace/internal/i18n"
	"github.com/pavelanni/gradeace/internal/repl"
	"github.com/pavelanni/gradeace/internal/session"
	"github.com/pavelanni/gradeace/internal/sheet"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gradeace",
		Short: "Weighted course grade calculator",
	}

	serve := serveCmd()
	root.AddCommand(serve, calcCmd(), replCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `gradeace --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the calculator web page",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.String("base-path", "", "URL prefix for sub-path deployments (e.g. /grades)")
	f.Bool("secure-cookies", true, "Set Secure flag on session cookies")
	f.Duration("session-ttl", session.DefaultTTL, "How long an idle calculator session is kept")
	config.AddCommonFlags(cmd)
	return cmd
}

func calcCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calc [sheet]",
		Short: "Calculate a grade from a YAML/JSON sheet or --category flags",
		Example: `  gradeace calc grades.yaml
  gradeace calc -c Homework:20:90 -c Exam:80:70
  cat grades.json | gradeace calc - --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCalc,
	}
	f := cmd.Flags()
	f.StringArrayP("category", "c", nil, "Category as name:weight:score (repeatable)")
	f.Bool("json", false, "Print the result as JSON")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	config.AddCommonFlags(cmd)
	return cmd
}

func replCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Edit categories and calculate interactively in the terminal",
		RunE:  runREPL,
	}
	config.AddCommonFlags(cmd)
	return cmd
}

func loadConfig(cmd *cobra.Command) (*config.Config, *viper.Viper, error) {
	v := config.Viper(cmd)
	cfg, err := config.FromViper(v)
	if err != nil {
		return nil, nil, err
	}
	config.SetupLogging(cfg)
	if err := appI18n.Init(cfg.Lang); err != nil {
		return nil, nil, fmt.Errorf("init i18n: %w", err)
	}
	return cfg, v, nil
}

func newModel(cfg *config.Config) *grade.Model {
	return grade.NewModel(grade.WithOptions(grade.Options{Tolerance: cfg.WeightTolerance}))
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions := session.NewStore(cfg.SessionTTL, func() *grade.Model { return newModel(cfg) })
	go sessions.Run(ctx, 10*time.Minute)

	h := handler.New(sessions, handler.Config{
		BasePath:      cfg.BasePath,
		SecureCookies: cfg.SecureCookies,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           h.NewRouter(cfg.Lang),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("starting server",
		"addr", cfg.Addr,
		"lang", cfg.Lang,
		"base_path", cfg.BasePath,
		"session_ttl", cfg.SessionTTL,
		"weight_tolerance", cfg.WeightTolerance,
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	slog.Info("server stopped")
	return nil
}

func runCalc(cmd *cobra.Command, args []string) error {
	cfg, v, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var entries []sheet.Entry
	if len(args) == 1 {
		entries, err = sheet.Load(args[0])
		if err != nil {
			return err
		}
	}
	flagEntries, err := cmd.Flags().GetStringArray("category")
	if err != nil {
		return err
	}
	for _, s := range flagEntries {
		e, err := sheet.ParseFlag(s)
		if err != nil {
			return err
		}
		entries = append(entries, e)
	}
	if len(entries) == 0 {
		return errors.New("no categories: pass a sheet file or --category flags")
	}

	ctx := appI18n.WithLanguage(context.Background(), language.Make(cfg.Lang))
	m := newModel(cfg)
	sheet.Fill(m, entries)
	m.Attach(grade.LogNotifier{Logger: slog.Default()}, appI18n.NewPhrases(ctx))
	g, calcErr := m.Calculate()

	// Text mode has nothing to write on failure; JSON mode always reports.
	if v.GetBool("json") || calcErr == nil {
		err := writeOutput(cmd, v.GetString("output"), func(w io.Writer) error {
			if v.GetBool("json") {
				return sheet.WriteJSON(w, sheet.NewResult(m, calcErr))
			}
			if _, err := fmt.Fprintf(w, "%s: %s%%\n", appI18n.T(ctx, "TotalWeight"), appI18n.FormatPercent(ctx, m.TotalWeight())); err != nil {
				return err
			}
			_, err := fmt.Fprintf(w, "%s: %s%%\n", appI18n.T(ctx, "FinalGrade"), appI18n.FormatPercent(ctx, g))
			return err
		})
		if err != nil {
			return err
		}
	}

	if calcErr != nil {
		cmd.SilenceUsage = true
		return fmt.Errorf("calculation failed: %w", calcErr)
	}
	return nil
}

// writeOutput runs write against stdout, or against the file at path when
// one is given.
func writeOutput(cmd *cobra.Command, path string, write func(io.Writer) error) (err error) {
	if path == "" || path == "-" {
		return write(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output file: %w", cerr)
		}
	}()
	if err := write(f); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	return nil
}

func runREPL(cmd *cobra.Command, _ []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = appI18n.WithLanguage(ctx, language.Make(cfg.Lang))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %s\n", appI18n.T(ctx, "AppTitle"), appI18n.T(ctx, "AppTagline"))
	fmt.Fprintln(out, `Type "help" for commands.`)

	r := repl.New(ctx, newModel(cfg), out)
	if err := r.Run(cmd.InOrStdin()); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
