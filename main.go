// sitegen builds the java.evolved snippet site for every configured locale.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/javaevolved/sitegen/catalog"
	"github.com/javaevolved/sitegen/config"
	"github.com/javaevolved/sitegen/convert"
	"github.com/javaevolved/sitegen/i18n"
	"github.com/javaevolved/sitegen/langmeta"
	"github.com/javaevolved/sitegen/lockfile"
	"github.com/javaevolved/sitegen/logfields"
	"github.com/javaevolved/sitegen/site"
	"github.com/javaevolved/sitegen/watch"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorBlue+"[INFO]"+colorReset+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"[OK]"+colorReset+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorYellow+"[WARN]"+colorReset+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[ERROR]"+colorReset+" "+format+"\n", args...)
}

// ---------------------------------------------------------------------------
// Global flags
// ---------------------------------------------------------------------------

var (
	rootDir  string
	logLevel string
)

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "sitegen",
		Short: "Static site generator for java.evolved",
		Long: `sitegen builds the java.evolved snippet site.

Each snippet record under content/ becomes a detail page, an entry in the
search index and a card on the index page, once per configured locale.
Translated pages overlay translations/content/<locale>/ on the base record
and use the UI strings in translations/strings/<locale>.*.

Commands:
  build     Generate pages, search index and index page
  status    Show project info and translation coverage
  convert   Convert JSON content to YAML and verify the result
  watch     Rebuild whenever sources change`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			i18n.Init("")
			return loadDotEnv(rootDir)
		},
	}

	root.PersistentFlags().StringVar(&rootDir, "root", ".", "Project root directory")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	root.AddCommand(
		newBuildCmd(),
		newStatusCmd(),
		newConvertCmd(),
		newWatchCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// loadDotEnv loads <root>/.env into the environment. Variables that are
// already set win. A missing file is not an error.
func loadDotEnv(root string) error {
	path := filepath.Join(root, ".env")
	if !fileExists(path) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// newLogger returns a text logger on stderr at the given level.
func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf(i18n.T("invalid log level %q"), level)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}

// setup loads the site config and the logger shared by all commands.
func setup() (*config.Site, *slog.Logger, error) {
	logger, err := newLogger(logLevel)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(rootDir)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("sitegen version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}

	return cmd
}

// ---------------------------------------------------------------------------
// build
// ---------------------------------------------------------------------------

func newBuildCmd() *cobra.Command {
	var (
		locale     string
		allLocales bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Generate the site",
		Long: `Generate detail pages, the search index and the index page.

Without flags every configured locale is built, base locale first. Existing
outputs are overwritten. Checksums of the written files are kept in the
build manifest (sitegen.lock) to report what changed between builds.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			return runBuild(cfg, logger, selectLocales(cfg, locale))
		},
	}

	cmd.Flags().StringVarP(&locale, "locale", "l", "", "Build a single locale")
	cmd.Flags().BoolVar(&allLocales, "all-locales", false, "Build all locales (default)")
	cmd.MarkFlagsMutuallyExclusive("locale", "all-locales")

	return cmd
}

// selectLocales returns the locales to build: just locale when set, all
// configured locales otherwise.
func selectLocales(cfg *config.Site, locale string) []string {
	if locale = strings.TrimSpace(locale); locale != "" {
		return []string{locale}
	}
	return cfg.LocaleCodes()
}

// runBuild builds locales in order and saves the manifest.
func runBuild(cfg *config.Site, logger *slog.Logger, locales []string) error {
	buildID := uuid.NewString()
	logger = logger.With(logfields.BuildID(buildID))

	manifest, err := lockfile.Load(cfg.ManifestPath)
	if err != nil {
		return err
	}

	b, err := site.Open(cfg, site.Options{Logger: logger, Manifest: manifest})
	if err != nil {
		return err
	}
	logInfo(i18n.N("Loaded %d snippet", "Loaded %d snippets", b.Records().Len()), b.Records().Len())

	for _, loc := range locales {
		res, err := b.Build(loc)
		if err != nil {
			return err
		}
		reportResult(cfg, res)
	}

	if err := manifest.Save(); err != nil {
		return err
	}
	logger.Debug("Saved manifest", logfields.Path(cfg.ManifestPath))
	return nil
}

func reportResult(cfg *config.Site, res *site.Result) {
	out, err := filepath.Rel(cfg.Root, cfg.LocaleOutputDir(res.Locale))
	if err != nil {
		out = cfg.LocaleOutputDir(res.Locale)
	}

	logSuccess(i18n.T("%s: %d pages, %d translated, written to %s"), res.Locale, res.Pages, res.Translated, out)
	if n := len(res.MissingStrings); n > 0 {
		logWarning(i18n.N("%s: %d string falls back to %s", "%s: %d strings fall back to %s", n), res.Locale, n, cfg.BaseLocale)
	}
	if res.Added+res.Modified+res.Unchanged > 0 {
		logInfo(i18n.T("%s: %d added, %d modified, %d unchanged"), res.Locale, res.Added, res.Modified, res.Unchanged)
	}
	for _, p := range res.Stale {
		logWarning(i18n.T("%s: no longer generated: %s"), res.Locale, p)
	}
}

// ---------------------------------------------------------------------------
// status (read-only: project info + translation coverage)
// ---------------------------------------------------------------------------

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show project info and translation coverage",
		Long: `Show the resolved project configuration and, per locale, how many UI
strings and snippet records are translated. Does not modify any files.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := setup()
			if err != nil {
				return err
			}
			return runStatus(cfg)
		},
	}

	return cmd
}

func runStatus(cfg *config.Site) error {
	fmt.Fprintf(os.Stderr, "\n%s%s%s\n", colorBlue, i18n.T("Project"), colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
	fmt.Fprintf(os.Stderr, "  %-12s %s\n", i18n.T("Site:"), cfg.SiteName)
	fmt.Fprintf(os.Stderr, "  %-12s %s\n", i18n.T("Base URL:"), cfg.BaseURL)
	fmt.Fprintf(os.Stderr, "  %-12s %s\n", i18n.T("Root:"), cfg.Root)
	fmt.Fprintf(os.Stderr, "  %-12s %s\n", i18n.T("Content:"), cfg.ContentDir)
	fmt.Fprintf(os.Stderr, "  %-12s %s\n", i18n.T("Output:"), cfg.OutputDir)
	fmt.Fprintf(os.Stderr, "  %-12s %s\n", i18n.T("Categories:"), strings.Join(cfg.CategoryKeys(), ", "))
	fmt.Fprintf(os.Stderr, "  %-12s %s\n", i18n.T("Locales:"), strings.Join(cfg.LocaleCodes(), ", "))
	fmt.Fprintln(os.Stderr)

	b, err := site.Open(cfg, site.Options{})
	if err != nil {
		return err
	}
	records := b.Records().All()

	strs := catalog.NewLoader(cfg, nil)
	base, err := strs.Load(cfg.BaseLocale)
	if err != nil {
		return err
	}

	codes := cfg.LocaleCodes()
	width := langColumnWidth(codes)

	fmt.Fprintf(os.Stderr, "%s%s%s\n", colorBlue, i18n.T("Translation Coverage"), colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
	fmt.Fprintf(os.Stderr, "\n%s  %-24s %-24s\n", padRight(i18n.T("Lang"), width+3), i18n.T("Strings"), i18n.T("Snippets"))

	for _, code := range codes {
		cat, err := strs.Load(code)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s  %s\n", langCell(code, width), colorRed+err.Error()+colorReset)
			continue
		}
		translatedStrings := base.Len() - len(cat.Missing())

		translatedRecords := len(records)
		if !cfg.IsBase(code) {
			translatedRecords = 0
			for _, rec := range records {
				if b.Resolver().TranslationPath(rec, code) != "" {
					translatedRecords++
				}
			}
		}

		fmt.Fprintf(os.Stderr, "%s  %s %s\n",
			langCell(code, width),
			progressBar(percent(translatedStrings, base.Len()), 10),
			progressBar(percent(translatedRecords, len(records)), 10),
		)
	}

	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
	fmt.Fprintf(os.Stderr, "%s %d, %s %d\n", i18n.T("Strings:"), base.Len(), i18n.T("snippets:"), len(records))

	manifest, err := lockfile.Load(cfg.ManifestPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "%s %s\n\n", i18n.T("Manifest:"), manifest.Summary())
	return nil
}

func percent(n, total int) int {
	if total == 0 {
		return 100
	}
	return n * 100 / total
}

// progressBar renders a colored bar followed by the percentage.
func progressBar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * width / 100

	color := colorYellow
	switch {
	case percent >= 100:
		color = colorGreen
	case percent < 25:
		color = colorRed
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("%s%s%s %3d%%", color, bar, colorReset, percent)
}

// flagFromRegion returns the emoji flag for a two-letter region code.
func flagFromRegion(region string) string {
	if len(region) != 2 {
		return ""
	}
	region = strings.ToUpper(region)
	var b strings.Builder
	for _, r := range region {
		if r < 'A' || r > 'Z' {
			return ""
		}
		b.WriteRune(0x1F1E6 + r - 'A')
	}
	return b.String()
}

// langFlag returns the registry flag for lang, or one derived from its
// region subtag.
func langFlag(lang string) string {
	if f := langmeta.Resolve(lang).Flag; f != "" {
		return f
	}
	parts := strings.Split(langmeta.Canonicalize(lang), "-")
	if len(parts) < 2 {
		return ""
	}
	return flagFromRegion(parts[len(parts)-1])
}

func langColumnWidth(langs []string) int {
	width := 4
	for _, l := range langs {
		if len(l) > width {
			width = len(l)
		}
	}
	return width
}

// langCell renders "<flag> <code>" padded to width. Flags count as two
// columns.
func langCell(lang string, width int) string {
	flag := langFlag(lang)
	if flag == "" {
		flag = "  "
	}
	return flag + " " + padRight(lang, width)
}

func padRight(s string, width int) string {
	if n := len([]rune(s)); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// ---------------------------------------------------------------------------
// convert
// ---------------------------------------------------------------------------

func newConvertCmd() *cobra.Command {
	var (
		outputDir string
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert JSON content to YAML",
		Long: `Convert every content/<category>/*.json record to YAML and verify that the
YAML reads back to the same data. Multi-line text is written as literal
blocks, all other strings are double-quoted.

Without --output-directory the conversion is only verified. With it, each
verified file is written to <dir>/<category>/<slug>.yaml.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			return runConvert(cfg, logger, outputDir, verbose)
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-directory", "o", "", "Write YAML files under this directory")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Report every file and show mismatches")

	return cmd
}

func runConvert(cfg *config.Site, logger *slog.Logger, outputDir string, verbose bool) error {
	if outputDir != "" {
		abs, err := filepath.Abs(outputDir)
		if err != nil {
			return err
		}
		outputDir = abs
	}

	report, err := convert.Run(convert.Options{
		SourceDir: cfg.ContentDir,
		TargetDir: outputDir,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	for _, f := range report.Files {
		name := filepath.Base(f.Source)
		switch {
		case errors.Is(f.Err, convert.ErrMismatch):
			logError(i18n.T("%s: YAML does not match the JSON source"), name)
			if verbose {
				if data, err := os.ReadFile(f.Source); err == nil {
					fmt.Fprintf(os.Stderr, "--- JSON\n%s\n--- YAML\n%s\n", data, f.YAML)
				}
			}
		case f.Err != nil:
			logError("%s: %v", name, f.Err)
		case verbose:
			logSuccess(i18n.T("%s: converted and verified"), name)
		}
	}

	logInfo(i18n.T("%d verified, %d written, %d failed"), report.Verified, report.Written, report.Failed)
	if report.Failed > 0 {
		return fmt.Errorf(i18n.N("%d file failed to convert", "%d files failed to convert", report.Failed), report.Failed)
	}
	return nil
}

// ---------------------------------------------------------------------------
// watch
// ---------------------------------------------------------------------------

func newWatchCmd() *cobra.Command {
	var locale string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild the site when sources change",
		Long: `Build once, then watch content, templates, translations, proof files and
the properties files, rebuilding after each burst of changes. The project
configuration is reloaded before every rebuild. A failed rebuild is
reported and watching continues. Stop with Ctrl+C.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, cfg, logger, locale)
		},
	}

	cmd.Flags().StringVarP(&locale, "locale", "l", "", "Rebuild only this locale")

	return cmd
}

// watchRoots lists the directory trees whose changes trigger a rebuild.
func watchRoots(cfg *config.Site) []string {
	return []string{
		cfg.ContentDir,
		cfg.TemplatesDir,
		cfg.TranslationsDir,
		cfg.ProofDir,
	}
}

// watchOptions watches the properties files on their own, since they may sit
// in the project root, and never reacts to what a build writes.
func watchOptions(cfg *config.Site, logger *slog.Logger) watch.Options {
	return watch.Options{
		Logger:  logger,
		Files:   []string{cfg.CategoriesFile, cfg.LocalesFile},
		Exclude: []string{cfg.OutputDir, cfg.ManifestPath},
	}
}

func runWatch(ctx context.Context, cfg *config.Site, logger *slog.Logger, locale string) error {
	if err := runBuild(cfg, logger, selectLocales(cfg, locale)); err != nil {
		return err
	}

	rebuild := func(ctx context.Context, changed []string) error {
		for _, p := range changed {
			if rel, err := filepath.Rel(cfg.Root, p); err == nil {
				p = rel
			}
			logInfo(i18n.T("Changed: %s"), p)
		}
		fresh, err := config.Load(rootDir)
		if err != nil {
			logError("%v", err)
			return err
		}
		if err := runBuild(fresh, logger, selectLocales(fresh, locale)); err != nil {
			logError("%v", err)
			return err
		}
		return nil
	}

	w, err := watch.New(watchRoots(cfg), rebuild, watchOptions(cfg, logger))
	if err != nil {
		return err
	}
	logInfo(i18n.T("Watching for changes (Ctrl+C to stop)"))
	return w.Run(ctx)
}

// fileExists reports whether path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
