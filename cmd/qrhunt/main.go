// Package main provides the CLI entrypoint for qrhunt.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/qrhunt/internal/catalog"
	"github.com/verte-zerg/qrhunt/internal/config"
	"github.com/verte-zerg/qrhunt/internal/generator"
	"github.com/verte-zerg/qrhunt/internal/logger"
	"github.com/verte-zerg/qrhunt/internal/matcher"
	"github.com/verte-zerg/qrhunt/internal/model"
	"github.com/verte-zerg/qrhunt/internal/stats"
	"github.com/verte-zerg/qrhunt/internal/store"
	"github.com/verte-zerg/qrhunt/internal/tui"
)

const (
	defaultDebounceMs = 300
	defaultEngine     = store.EngineCSV
	defaultLogLevel   = "info"
)

var (
	huntPrefix      string
	huntDebounceMs  int
	huntEngine      string
	huntLogDir      string
	huntDBPath      string
	huntCatalogFile string
	huntLogLevel    string

	codesCopies int
	codesOut    string
	codesForce  bool

	resultsDay string
	resultsTop int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "qrhunt",
		Short:         "Scavenger hunt timer and scan scorer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runHuntCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&huntPrefix, "prefix", matcher.DefaultPrefix, "scan code prefix")
	flags.IntVar(&huntDebounceMs, "debounce-ms", defaultDebounceMs, "quiet period before a scan batch is processed")
	flags.StringVar(&huntEngine, "engine", defaultEngine, "result log engine (csv or sqlite)")
	flags.StringVar(&huntLogDir, "log-dir", config.DefaultLogDir(), "directory for per-day CSV result logs")
	flags.StringVar(&huntDBPath, "db", config.DefaultDBPath(), "SQLite result log path")
	flags.StringVar(&huntCatalogFile, "catalog", "", "catalog file with one \"name points\" entry per line")
	flags.StringVar(&huntLogLevel, "log-level", defaultLogLevel, "debug log level")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newCatalogCmd())
	rootCmd.AddCommand(newCodesCmd())
	rootCmd.AddCommand(newResultsCmd())

	return rootCmd
}

// loadSettings merges the config file under the flags and validates the result.
func loadSettings(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "prefix", &huntPrefix, fileCfg.Hunt.Prefix)
	applyIntConfig(cmd, "debounce-ms", &huntDebounceMs, fileCfg.Hunt.DebounceMs)
	applyStringConfig(cmd, "engine", &huntEngine, fileCfg.Hunt.Engine)
	applyStringConfig(cmd, "log-dir", &huntLogDir, fileCfg.Hunt.LogDir)
	applyStringConfig(cmd, "db", &huntDBPath, fileCfg.Hunt.DBPath)
	applyStringConfig(cmd, "catalog", &huntCatalogFile, fileCfg.Hunt.CatalogFile)
	applyStringConfig(cmd, "log-level", &huntLogLevel, fileCfg.Hunt.LogLevel)

	cfg := model.Config{
		Prefix:      huntPrefix,
		DebounceMs:  huntDebounceMs,
		Engine:      strings.ToLower(strings.TrimSpace(huntEngine)),
		LogDir:      huntLogDir,
		DBPath:      huntDBPath,
		CatalogFile: huntCatalogFile,
		LogLevel:    strings.ToLower(strings.TrimSpace(huntLogLevel)),
		Catalog:     fileCfg.Entities(),
	}
	if err := config.Validate(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func loadCatalog(cfg model.Config) (*catalog.Catalog, error) {
	if cfg.CatalogFile != "" {
		cat, err := catalog.LoadFile(cfg.CatalogFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog %s: %w", cfg.CatalogFile, err)
		}
		return cat, nil
	}
	if len(cfg.Catalog) > 0 {
		cat, err := catalog.New(cfg.Catalog)
		if err != nil {
			return nil, fmt.Errorf("invalid [[catalog]] in config: %w", err)
		}
		return cat, nil
	}
	return catalog.Default(), nil
}

func openStore(cfg model.Config) (store.Store, error) {
	location := cfg.LogDir
	if cfg.Engine == store.EngineSQLite {
		location = cfg.DBPath
	}
	st, err := store.NewByEngine(cfg.Engine, location, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open result log: %w", err)
	}
	return st, nil
}

func runHuntCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if err := logger.Init(logger.Options{Level: cfg.LogLevel, Path: config.DefaultDebugLogPath()}); err != nil {
		logErrf("failed to open debug log: %v\n", err)
	}
	defer func() {
		if cerr := logger.Close(); cerr != nil {
			logErrf("failed to close debug log: %v\n", cerr)
		}
	}()
	log := logger.Named("main")

	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	m, err := matcher.New(cfg.Prefix, cat)
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close result log: %v\n", cerr)
		}
	}()

	log.Info().
		Str("engine", cfg.Engine).
		Str("prefix", cfg.Prefix).
		Int("debounce_ms", cfg.DebounceMs).
		Int("entities", cat.Len()).
		Msg("hunt starting")

	ui, err := tui.NewModel(tui.Deps{
		Catalog: cat,
		Matcher: m,
		Log:     st,
		Quiet:   cfg.Debounce(),
	})
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	program := tea.NewProgram(ui, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if err := ui.Err(); err != nil {
		log.Error().Err(err).Msg("session aborted")
		return err
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List scannable entities and their points",
		Args:  cobra.NoArgs,
		RunE:  runCatalogCmd,
	}
}

func runCatalogCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	for _, e := range cat.Entities() {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-12s %5s\n", e.Name, stats.FormatPoints(e.Points)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newCodesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "codes",
		Short: "Print or write scan code payloads",
		Args:  cobra.NoArgs,
		RunE:  runCodesCmd,
	}
	cmd.Flags().IntVar(&codesCopies, "copies", 0, "codes per entity with distinct mutation ids (0: one bare code)")
	cmd.Flags().StringVar(&codesOut, "out", "", "directory to write one <name>.txt per entity")
	cmd.Flags().BoolVar(&codesForce, "force", false, "overwrite existing files")
	return cmd
}

func runCodesCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	codes, err := generator.New().Codes(cat.Entities(), cfg.Prefix, codesCopies)
	if err != nil {
		return fmt.Errorf("--%w", err)
	}

	if codesOut == "" {
		for _, c := range codes {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), c.Payload); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
		return nil
	}

	if err := os.MkdirAll(codesOut, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	byEntity := map[string][]string{}
	for _, c := range codes {
		byEntity[c.Entity.Name] = append(byEntity[c.Entity.Name], c.Payload)
	}
	for _, e := range cat.Entities() {
		outPath := filepath.Join(codesOut, e.Name+".txt")
		if !codesForce {
			if _, err := os.Stat(outPath); err == nil {
				return fmt.Errorf("codes file already exists: %s (use --force to overwrite)", outPath)
			} else if !os.IsNotExist(err) {
				return fmt.Errorf("failed to stat codes file: %w", err)
			}
		}
		if err := writeLines(outPath, byEntity[e.Name]); err != nil {
			return fmt.Errorf("failed to write %s: %w", outPath, err)
		}
		logErrf("Wrote %s\n", outPath)
	}
	return nil
}

func newResultsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "results",
		Short: "Show a day's results",
		Args:  cobra.NoArgs,
		RunE:  runResultsCmd,
	}
	cmd.Flags().StringVar(&resultsDay, "day", "", "day to show (YYYY-MM-DD, default: today)")
	cmd.Flags().IntVar(&resultsTop, "top", 0, "limit to the top N results")
	return cmd
}

func runResultsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	day := time.Now()
	if resultsDay != "" {
		parsed, err := store.ParseDay(resultsDay)
		if err != nil {
			return fmt.Errorf("invalid --day value: %w", err)
		}
		day = parsed
	}
	if resultsTop < 0 {
		return fmt.Errorf("--top must be >= 0")
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close result log: %v\n", cerr)
		}
	}()

	report, err := stats.BuildReport(context.Background(), st, model.ResultsConfig{Day: day, Top: resultsTop})
	if err != nil {
		return fmt.Errorf("failed to load results: %w", err)
	}
	return stats.RenderReport(cmd.OutOrStdout(), report, terminalWidth())
}

func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return width
}

func writeLines(path string, lines []string) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "codes-*.txt")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	for _, line := range lines {
		if _, err := fmt.Fprintln(writer, line); err != nil {
			return fmt.Errorf("failed to write codes: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush codes: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close codes: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write codes: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# qrhunt configuration
# Uncomment a value to enable it. CLI flags override config values.

[hunt]
# prefix = %q            # Scan code prefix
# debounce-ms = %d          # Quiet period before a scan batch is processed
# engine = %q            # Result log engine: csv or sqlite
# log-dir = %q
# db = %q
# catalog-file = ""         # "name points" per line; replaces [[catalog]]
# log-level = %q

# Entities replace the built-in catalog when present.
# [[catalog]]
# name = "Srnec"
# points = 10
#
# [[catalog]]
# name = "Clovek"
# points = -10
`,
		matcher.DefaultPrefix,
		defaultDebounceMs,
		defaultEngine,
		config.DefaultLogDir(),
		config.DefaultDBPath(),
		defaultLogLevel,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
