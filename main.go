// kalid — Persian text to translation key migration tool.
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/kalid-tool/kalid/backup"
	"github.com/kalid-tool/kalid/config"
	"github.com/kalid-tool/kalid/dedup"
	"github.com/kalid-tool/kalid/i18n"
	"github.com/kalid-tool/kalid/keyrules"
	"github.com/kalid-tool/kalid/langmeta"
	"github.com/kalid-tool/kalid/ledger"
	"github.com/kalid-tool/kalid/resolver"
	"github.com/kalid-tool/kalid/scanner"
	"github.com/kalid-tool/kalid/store"
	"github.com/kalid-tool/kalid/translit"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors. Disabled when stderr is not a terminal or NO_COLOR is set.
var (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

func init() {
	if os.Getenv("NO_COLOR") != "" || !isatty.IsTerminal(os.Stderr.Fd()) {
		colorReset, colorRed, colorGreen, colorYellow, colorBlue = "", "", "", "", ""
	}
}

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
// Global flag
// ---------------------------------------------------------------------------

var rootDir string

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "kalid",
		Short: "Persian text to translation key migration tool",
		Long: `kalid — turn Persian UI text into stable translation identifiers.

Reads configuration from .kalid.yaml in the project root (defaults apply
when the file is absent) and maintains a per-locale JSON translation store
with duplicate detection, consolidation, and crash-safe backups.

Commands:
  status       Show configuration, locale stores, and backups
  resolve      Resolve text (args or stdin) into translation keys
  scan         Report duplicate values committed to the store
  consolidate  Interactively merge duplicate values
  backup       Manage store snapshots`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global persistent flag — inherited by all subcommands
	root.PersistentFlags().StringVar(&rootDir, "root", ".", "Project root directory")

	root.AddCommand(
		newStatusCmd(),
		newResolveCmd(),
		newScanCmd(),
		newConsolidateCmd(),
		newBackupCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	i18n.Init("")
	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// loadProject loads the configuration and opens the locale store.
func loadProject() (*config.Config, *store.Store, error) {
	cfg, err := config.Load(rootDir)
	if err != nil {
		return nil, nil, err
	}
	return cfg, store.New(cfg.StoreDir(rootDir)), nil
}

// newResolverFor builds a key resolver from the configuration, seeded with
// everything already persisted.
func newResolverFor(cfg *config.Config, st *store.Store) (*resolver.Resolver, error) {
	r := resolver.New(resolver.Options{
		Synthesis: translit.Options{
			MaxLength:  cfg.KeyGeneration.MaxLength,
			UseContext: cfg.KeyGeneration.UseContext,
			Prefix:     cfg.KeyGeneration.Prefix,
		},
		Rules: keyrules.DefaultRules(),
	})

	existing, err := st.ReadAll()
	if err != nil {
		return nil, err
	}
	r.LoadExisting(existing)
	return r, nil
}

// backupBeforeMutation snapshots the store when backups are enabled.
func backupBeforeMutation(cfg *config.Config, st *store.Store, description string) error {
	if !cfg.FileProcessing.CreateBackups {
		return nil
	}
	id, err := backup.NewManager(st.Dir()).Create(description)
	if err != nil {
		return err
	}
	logInfo("%s: %s", i18n.T("Backup created"), id)
	return nil
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("kalid version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}
}

// ---------------------------------------------------------------------------
// status (read-only: config + store + backup overview)
// ---------------------------------------------------------------------------

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configuration, locale stores, and backups",
		Long: `Show the effective configuration (defaults when no .kalid.yaml exists),
the locale stores with entry counts, and the available backups.
Does not modify any files.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus()
		},
	}
}

func runStatus() error {
	cfg, st, err := loadProject()
	if err != nil {
		return err
	}

	absRoot, _ := filepath.Abs(rootDir)
	fmt.Fprintf(os.Stderr, "\n%sProject%s\n", colorBlue, colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
	fmt.Fprintf(os.Stderr, "  Root:        %s\n", absRoot)
	fmt.Fprintf(os.Stderr, "  Source:      %s (%s)\n", cfg.Locales.Source, localeLabel(cfg.Locales.Source))
	fmt.Fprintf(os.Stderr, "  Target:      %s (%s)\n", cfg.Locales.Target, localeLabel(cfg.Locales.Target))
	fmt.Fprintf(os.Stderr, "  Store:       %s\n", st.Dir())
	fmt.Fprintf(os.Stderr, "  Max length:  %d\n", cfg.KeyGeneration.MaxLength)
	fmt.Fprintf(os.Stderr, "  Context:     %v\n", cfg.KeyGeneration.UseContext)
	if cfg.KeyGeneration.Prefix != "" {
		fmt.Fprintf(os.Stderr, "  Prefix:      %s\n", cfg.KeyGeneration.Prefix)
	}
	fmt.Fprintf(os.Stderr, "  Backups:     %v\n", cfg.FileProcessing.CreateBackups)
	fmt.Fprintln(os.Stderr)

	locales, err := st.Locales()
	if err != nil {
		return err
	}
	if len(locales) == 0 {
		logInfo("No locale files yet under %s", st.Dir())
	} else {
		fmt.Fprintf(os.Stderr, "%sLocales%s\n", colorBlue, colorReset)
		fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
		for _, loc := range locales {
			entries, err := st.Read(loc)
			if err != nil {
				logWarning("%s: %v", loc, err)
				continue
			}
			rep, err := st.ValidateStructure(loc)
			status := "ok"
			if err != nil || !rep.IsValid {
				status = "invalid"
			}
			fmt.Fprintf(os.Stderr, "  %-8s %4d entries  (%s)\n", loc, len(entries), status)
		}
		fmt.Fprintln(os.Stderr)
	}

	backups, err := backup.NewManager(st.Dir()).List()
	if err != nil {
		return err
	}
	if len(backups) > 0 {
		fmt.Fprintf(os.Stderr, "  Snapshots:   %d (newest %s)\n",
			len(backups), backups[0].Timestamp.Format("2006-01-02 15:04:05"))
	}

	lg, err := ledger.Load(rootDir)
	if err != nil {
		return err
	}
	if locales, entries := lg.Stats(); entries > 0 {
		fmt.Fprintf(os.Stderr, "  Ledger:      %d resolutions across %d locales\n", entries, locales)
	}
	fmt.Fprintln(os.Stderr)
	return nil
}

// localeLabel renders a locale as its native name, marking RTL scripts.
func localeLabel(locale string) string {
	m := langmeta.Resolve(locale)
	if m.RTL {
		return m.Name + ", RTL"
	}
	return m.Name
}

// ---------------------------------------------------------------------------
// resolve (text → keys, optionally committed to the store)
// ---------------------------------------------------------------------------

func newResolveCmd() *cobra.Command {
	var (
		context string
		save    bool
		dryRun  bool
	)

	cmd := &cobra.Command{
		Use:   "resolve [text...]",
		Short: "Resolve text into translation keys",
		Long: `Resolve Persian text into translation identifiers.

Text is taken from the arguments, or from stdin (one text per line) when no
arguments are given, so an extraction step can be piped in. With --save the
resolved entries are committed to the source locale store, through a backup
when backups are enabled.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(args, context, save, dryRun)
		},
	}

	cmd.Flags().StringVarP(&context, "context", "c", "", "Context token prepended to keys (e.g. btn, label)")
	cmd.Flags().BoolVar(&save, "save", false, "Commit resolved entries to the source locale store")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be saved without writing")

	return cmd
}

func runResolve(args []string, context string, save, dryRun bool) error {
	cfg, st, err := loadProject()
	if err != nil {
		return err
	}
	r, err := newResolverFor(cfg, st)
	if err != nil {
		return err
	}

	var matches []resolver.TextMatch
	if len(args) > 0 {
		for _, text := range args {
			matches = append(matches, resolver.TextMatch{Text: text, Context: context})
		}
	} else {
		sc := bufio.NewScanner(os.Stdin)
		line := 0
		for sc.Scan() {
			line++
			text := strings.TrimSpace(sc.Text())
			if text == "" {
				continue
			}
			matches = append(matches, resolver.TextMatch{Text: text, File: "stdin", Line: line, Context: context})
		}
		if err := sc.Err(); err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
	}
	if len(matches) == 0 {
		logInfo("%s", i18n.T("Nothing to do"))
		return nil
	}

	// The ledger pins text already resolved in an earlier run to its key, so
	// re-running over the same input does not mint suffixed variants.
	lg, err := ledger.Load(rootDir)
	if err != nil {
		return err
	}
	stored, err := st.Read(cfg.Locales.Source)
	if err != nil {
		return err
	}
	storeKeys := make([]string, 0, len(stored))
	for k := range stored {
		storeKeys = append(storeKeys, k)
	}
	lg.Clean(cfg.Locales.Source, storeKeys)

	entries := make(map[string]string)
	fresh := matches[:0]
	reused := 0
	for _, m := range matches {
		fp := ledger.Fingerprint(translit.Normalize(m.Text), m.Context)
		if key, ok := lg.Lookup(cfg.Locales.Source, fp); ok {
			fmt.Printf("%-40s %s  %s\n", key, "prev", m.Text)
			reused++
			continue
		}
		fresh = append(fresh, m)
	}

	keys, warnings := r.ResolveBatch(cfg.Locales.Source, fresh)
	for _, w := range warnings {
		logWarning("%s", w)
	}

	for _, k := range keys {
		fmt.Printf("%-40s %.2f  %s\n", k.Key, k.Confidence, k.OriginalText)
		if len(k.Suggestions) > 0 {
			fmt.Printf("  %salternatives:%s %s\n", colorYellow, colorReset, strings.Join(k.Suggestions, ", "))
		}
		entries[k.Key] = k.OriginalText
		lg.Record(cfg.Locales.Source, ledger.Fingerprint(translit.Normalize(k.OriginalText), k.Context), k.Key)
	}
	total := len(keys) + reused
	logSuccess("%s", fmt.Sprintf(i18n.N("%d key resolved", "%d keys resolved", total), total))
	if reused > 0 {
		logInfo("%d reused from %s", reused, ledger.FileName)
	}

	if !save && !dryRun {
		return nil
	}
	if dryRun {
		logInfo("Dry run: %d entries would be written to %s", len(entries), st.Path(cfg.Locales.Source))
		return nil
	}

	if err := backupBeforeMutation(cfg, st, "before resolve --save"); err != nil {
		return err
	}
	added, replaced, err := st.Update(cfg.Locales.Source, entries)
	if err != nil {
		return err
	}
	if err := lg.Save(); err != nil {
		return err
	}
	logSuccess("Saved %d new and %d replaced entries to %s", added, replaced, st.Path(cfg.Locales.Source))
	return nil
}

// ---------------------------------------------------------------------------
// scan (report duplicates committed to disk)
// ---------------------------------------------------------------------------

func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Report duplicate values committed to the store",
		Long: `Sweep the persisted locale files for values shared by more than one key.
Read-only: use 'kalid consolidate' to act on the findings.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := loadProject()
			if err != nil {
				return err
			}
			return runScan(st)
		},
	}
}

func runScan(st *store.Store) error {
	logInfo("%s", i18n.T("Scanning for duplicate values"))
	rep, err := scanner.New(st).Scan()
	if err != nil {
		return err
	}
	if rep.TotalDuplicates == 0 {
		logSuccess("%s", i18n.T("No duplicates found"))
		return nil
	}

	locales := make([]string, 0, len(rep.ByLocale))
	for loc := range rep.ByLocale {
		locales = append(locales, loc)
	}
	sort.Strings(locales)

	for _, loc := range locales {
		fmt.Fprintf(os.Stderr, "\n%s%s%s\n", colorBlue, loc, colorReset)
		fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
		for _, g := range rep.ByLocale[loc] {
			fmt.Fprintf(os.Stderr, "  %q\n", g.Value)
			for _, k := range g.Keys {
				fmt.Fprintf(os.Stderr, "    - %s\n", k)
			}
		}
	}
	fmt.Fprintln(os.Stderr)
	logWarning("%s", fmt.Sprintf(
		i18n.N("%d duplicate group found", "%d duplicate groups found", rep.TotalDuplicates),
		rep.TotalDuplicates))
	return nil
}

// ---------------------------------------------------------------------------
// consolidate (interactive duplicate resolution)
// ---------------------------------------------------------------------------

func newConsolidateCmd() *cobra.Command {
	var (
		dryRun  bool
		yesKeep bool
	)

	cmd := &cobra.Command{
		Use:   "consolidate",
		Short: "Interactively merge duplicate values",
		Long: `Walk through every duplicate group and decide its fate: keep one key,
rename the value under a new key, or leave the group alone. Nothing is ever
merged without an explicit decision. The store is backed up first when
backups are enabled.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsolidate(dryRun, yesKeep)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show decisions without writing")
	cmd.Flags().BoolVar(&yesKeep, "yes-keep", false, "Keep every group separate without prompting")

	return cmd
}

func runConsolidate(dryRun, yesKeep bool) error {
	cfg, st, err := loadProject()
	if err != nil {
		return err
	}

	rep, err := scanner.New(st).Scan()
	if err != nil {
		return err
	}
	if rep.TotalDuplicates == 0 {
		logSuccess("%s", i18n.T("No duplicates found"))
		return nil
	}

	if !dryRun && !yesKeep {
		if err := backupBeforeMutation(cfg, st, "before consolidate"); err != nil {
			return err
		}
	}

	sc := scanner.New(st)
	reader := bufio.NewReader(os.Stdin)
	applied := 0

	locales := make([]string, 0, len(rep.ByLocale))
	for loc := range rep.ByLocale {
		locales = append(locales, loc)
	}
	sort.Strings(locales)

	for _, loc := range locales {
		for _, g := range rep.ByLocale[loc] {
			var decision scanner.Decision = scanner.KeepSeparate{}
			if !yesKeep {
				decision, err = promptDecision(reader, loc, g)
				if err != nil {
					return err
				}
			}
			if _, keep := decision.(scanner.KeepSeparate); keep {
				logInfo("%s: keeping %v separate", loc, g.Keys)
				continue
			}
			if dryRun {
				logInfo("%s: would apply %T to %v", loc, decision, g.Keys)
				continue
			}
			if err := sc.Apply(loc, g, decision); err != nil {
				return err
			}
			applied++
		}
	}

	if applied > 0 {
		logSuccess("Applied %d consolidations", applied)
	}
	return nil
}

// promptDecision asks the user what to do with one duplicate group.
func promptDecision(reader *bufio.Reader, locale string, g dedup.DuplicateValue) (scanner.Decision, error) {
	fmt.Fprintf(os.Stderr, "\n%s%s%s: %q is held by %d keys:\n", colorBlue, locale, colorReset, g.Value, len(g.Keys))
	for i, k := range g.Keys {
		fmt.Fprintf(os.Stderr, "  %d) %s\n", i+1, k)
	}

	for {
		fmt.Fprintf(os.Stderr, "Keep one [number], [r]ename, or [s]kip? ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("reading decision: %w", err)
		}
		answer := strings.TrimSpace(line)

		switch {
		case answer == "s" || answer == "":
			return scanner.KeepSeparate{}, nil
		case answer == "r":
			fmt.Fprintf(os.Stderr, "New key: ")
			name, err := reader.ReadString('\n')
			if err != nil {
				return nil, fmt.Errorf("reading key name: %w", err)
			}
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			return scanner.Rename{NewKey: name}, nil
		default:
			n, err := strconv.Atoi(answer)
			if err != nil || n < 1 || n > len(g.Keys) {
				logWarning("Enter a number between 1 and %d, r, or s", len(g.Keys))
				continue
			}
			return scanner.Consolidate{TargetKey: g.Keys[n-1]}, nil
		}
	}
}

// ---------------------------------------------------------------------------
// backup (snapshot management)
// ---------------------------------------------------------------------------

func newBackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Manage store snapshots",
	}

	cmd.AddCommand(
		newBackupCreateCmd(),
		newBackupListCmd(),
		newBackupRestoreCmd(),
		newBackupDeleteCmd(),
		newBackupCleanupCmd(),
	)
	return cmd
}

func backupManager() (*backup.Manager, error) {
	_, st, err := loadProject()
	if err != nil {
		return nil, err
	}
	return backup.NewManager(st.Dir()), nil
}

func newBackupCreateCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Snapshot the current locale files",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := backupManager()
			if err != nil {
				return err
			}
			id, err := m.Create(description)
			if err != nil {
				return err
			}
			logSuccess("%s: %s", i18n.T("Backup created"), id)
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Snapshot description")
	return cmd
}

func newBackupListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List snapshots, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := backupManager()
			if err != nil {
				return err
			}
			infos, err := m.List()
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				logInfo("%s", i18n.T("No backups found"))
				return nil
			}
			for _, info := range infos {
				desc := info.Description
				if desc != "" {
					desc = "  " + desc
				}
				fmt.Printf("%s  %s  %d files%s\n",
					info.ID, info.Timestamp.Format("2006-01-02 15:04:05"), len(info.Files), desc)
			}
			return nil
		},
	}
}

func newBackupRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <backup-id>",
		Short: "Restore the files of one snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := backupManager()
			if err != nil {
				return err
			}
			if err := m.Restore(args[0]); err != nil {
				return err
			}
			logSuccess("%s: %s", i18n.T("Backup restored"), args[0])
			return nil
		},
	}
}

func newBackupDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <backup-id>",
		Short: "Delete one snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := backupManager()
			if err != nil {
				return err
			}
			if err := m.Delete(args[0]); err != nil {
				return err
			}
			logSuccess("Deleted %s", args[0])
			return nil
		},
	}
}

func newBackupCleanupCmd() *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete all but the most recent snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := backupManager()
			if err != nil {
				return err
			}
			removed, err := m.CleanupOld(keep)
			if err != nil {
				return err
			}
			if removed == 0 {
				logInfo("%s", i18n.T("Nothing to do"))
			} else {
				logSuccess("Removed %d old snapshots", removed)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&keep, "keep", "k", 5, "Number of snapshots to keep")
	return cmd
}
