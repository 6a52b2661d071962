package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/slidefit/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure fit thresholds, display scaling, the geometry cache,
the content generator and collaboration.

Use subcommands to configure specific settings or run the interactive wizard.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure all settings step by step.`,
	RunE:  runSettingsWizard,
}

var settingsFitCmd = &cobra.Command{
	Use:   "fit [warning-percent]",
	Short: "Set the warning threshold",
	Long: `Set the percentage of a region's budget at which content turns from OK
to WARNING. Content at or above 100% of the budget is always ERROR.`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsFit,
}

var settingsDisplayCmd = &cobra.Command{
	Use:   "display",
	Short: "Configure display font scaling",
	Long: `Configure how fonts are scaled in previews.

Every nominal size is multiplied by --scale. Over-budget regions shrink
further, but never below --min and never above the nominal size or --max.
Stored and exported formatting is never affected.`,
	RunE: runSettingsDisplay,
}

var settingsCacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Configure the geometry cache",
	Long: `Configure where analysis results are cached.

Backends:
  none   - always ask the analysis service
  memory - in-process LRU, bounded by --max-entries
  sqlite - persistent, bounded by --max-entries and --ttl`,
	RunE: runSettingsCache,
}

var settingsGenerationCmd = &cobra.Command{
	Use:   "generation",
	Short: "Configure the content generator",
	Long:  `Configure the LLM provider used to generate slide content.`,
	RunE:  runSettingsGeneration,
}

var settingsCollabCmd = &cobra.Command{
	Use:   "collab",
	Short: "Configure collaboration",
	Long: `Configure how edits are shared with other participants.

Backends:
  none   - edits stay local
  memory - participants in the same process
  dir    - a shared directory, watched for changes (requires --dir)`,
	RunE: runSettingsCollab,
}

func init() {
	settingsDisplayCmd.Flags().Float64("scale", 0, "ratio applied to nominal font sizes")
	settingsDisplayCmd.Flags().Float64("min", 0, "minimum displayed font size in points")
	settingsDisplayCmd.Flags().Float64("max", 0, "maximum displayed font size in points")

	settingsCacheCmd.Flags().String("backend", "", "cache backend (none, memory, sqlite)")
	settingsCacheCmd.Flags().Int("max-entries", 0, "maximum cached slides")
	settingsCacheCmd.Flags().Duration("ttl", 0, "entry lifetime, e.g. 168h")

	settingsCollabCmd.Flags().String("backend", "", "collaboration backend (none, memory, dir)")
	settingsCollabCmd.Flags().String("dir", "", "shared directory for the dir backend")
	settingsCollabCmd.Flags().String("user", "", "name attached to your edits")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	settingsCmd.AddCommand(settingsFitCmd)
	settingsCmd.AddCommand(settingsDisplayCmd)
	settingsCmd.AddCommand(settingsCacheCmd)
	settingsCmd.AddCommand(settingsGenerationCmd)
	settingsCmd.AddCommand(settingsCollabCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Fit]")
	cmd.Printf("  Warning threshold: %g%%\n", settings.Fit.WarningPercent)
	cmd.Println()

	cmd.Println("[Display]")
	cmd.Printf("  Scale: %g\n", settings.Display.Scale)
	cmd.Printf("  Font bounds: %g-%g pt\n", settings.Display.MinFontPt, settings.Display.MaxFontPt)
	cmd.Println()

	cmd.Println("[Cache]")
	cmd.Printf("  Backend: %s\n", settings.Cache.Backend.Description())
	if settings.Cache.Backend != domain.CacheNone {
		cmd.Printf("  Max entries: %d\n", settings.Cache.MaxEntries)
	}
	if settings.Cache.Backend == domain.CacheSQLite {
		cmd.Printf("  TTL: %s\n", settings.Cache.TTL)
	}
	cmd.Println()

	cmd.Println("[Analysis]")
	if settings.Analysis.IsConfigured() {
		cmd.Printf("  Endpoint: %s\n", settings.Analysis.BaseURL)
		auth := "none"
		if settings.Analysis.UsesOAuth() {
			auth = "client credentials"
		}
		cmd.Printf("  Auth: %s\n", auth)
		cmd.Printf("  Rate limit: %g req/s, burst %d\n", settings.Analysis.RequestsPerSecond, settings.Analysis.Burst)
	} else {
		cmd.Println("  Endpoint: (not set, results are read from disk)")
	}
	cmd.Println()

	cmd.Println("[Generation]")
	gen := settings.Generation
	if gen.Provider == "" {
		cmd.Println("  Provider: (not set)")
	} else {
		cmd.Printf("  Provider: %s\n", gen.Provider.Description())
		cmd.Printf("  Model: %s\n", gen.Model)
		if gen.Provider.IsLocal() {
			cmd.Printf("  Base URL: %s\n", gen.BaseURL)
		}
		if gen.Provider.RequiresAPIKey() {
			if gen.APIKey != "" {
				cmd.Printf("  API Key: %s\n", maskAPIKey(gen.APIKey))
			} else {
				cmd.Printf("  API Key: (not set)\n")
			}
		}
	}
	status := "configured"
	if !gen.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	cmd.Println("[Collaboration]")
	cmd.Printf("  Backend: %s\n", settings.Collab.Backend)
	if settings.Collab.Dir != "" {
		cmd.Printf("  Directory: %s\n", settings.Collab.Dir)
	}
	if settings.Collab.User != "" {
		cmd.Printf("  User: %s\n", settings.Collab.User)
	}
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'slidefit settings wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	cmd.Println("slidefit Settings Wizard")
	cmd.Println("========================")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())

	current, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	// Step 1: Warning threshold
	cmd.Println("Step 1: Warning Threshold")
	cmd.Println("-------------------------")
	cmd.Println("Content at or above this share of a region's budget is flagged WARNING.")
	cmd.Printf("\nEnter percent [%g]: ", current.Fit.WarningPercent)
	percent := current.Fit.WarningPercent
	if input := readLine(reader); input != "" {
		v, err := strconv.ParseFloat(input, 64)
		if err != nil {
			return fmt.Errorf("%w: %q is not a number", domain.ErrInvalidInput, input)
		}
		percent = v
	}
	if err := settingsService.SetWarningPercent(percent); err != nil {
		return fmt.Errorf("failed to set warning threshold: %w", err)
	}
	cmd.Printf("Set warning threshold to: %g%%\n\n", percent)

	// Step 2: Geometry cache
	cmd.Println("Step 2: Geometry Cache")
	cmd.Println("----------------------")
	backends := []domain.CacheBackend{domain.CacheMemory, domain.CacheSQLite, domain.CacheNone}
	for i, b := range backends {
		cmd.Printf("  %d. %s\n", i+1, b.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	backend := backends[parseChoice(readLine(reader), len(backends), 1)-1]
	cache := current.Cache
	cache.Backend = backend
	if err := settingsService.SetCache(cache); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	cmd.Printf("Set geometry cache to: %s\n\n", backend.Description())

	// Step 3: Content generator
	cmd.Println("Step 3: Content Generator (optional)")
	cmd.Println("------------------------------------")
	cmd.Print("Configure a content generator? [y/N]: ")
	if strings.EqualFold(readLine(reader), "y") {
		if err := configureGenerationProvider(cmd, reader); err != nil {
			return err
		}
	} else {
		cmd.Println("Skipped.")
		cmd.Println()
	}

	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("All settings are valid and saved.")
	}

	return nil
}

func runSettingsFit(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	percent, err := strconv.ParseFloat(strings.TrimSuffix(args[0], "%"), 64)
	if err != nil {
		return fmt.Errorf("%w: %q is not a number", domain.ErrInvalidInput, args[0])
	}
	if err := settingsService.SetWarningPercent(percent); err != nil {
		return fmt.Errorf("failed to set warning threshold: %w", err)
	}

	cmd.Printf("Warning threshold set to: %g%%\n", percent)
	return nil
}

func runSettingsDisplay(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	display := settings.Display
	flags := cmd.Flags()
	if flags.Changed("scale") {
		display.Scale, _ = flags.GetFloat64("scale") //nolint:errcheck // flag is registered
	}
	if flags.Changed("min") {
		display.MinFontPt, _ = flags.GetFloat64("min") //nolint:errcheck // flag is registered
	}
	if flags.Changed("max") {
		display.MaxFontPt, _ = flags.GetFloat64("max") //nolint:errcheck // flag is registered
	}

	if err := settingsService.SetDisplay(display); err != nil {
		return fmt.Errorf("failed to set display scaling: %w", err)
	}

	cmd.Printf("Display scaling set to: %g (%g-%g pt)\n", display.Scale, display.MinFontPt, display.MaxFontPt)
	return nil
}

func runSettingsCache(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cache := settings.Cache
	flags := cmd.Flags()
	if flags.Changed("backend") {
		backend, _ := flags.GetString("backend") //nolint:errcheck // flag is registered
		cache.Backend = domain.CacheBackend(strings.ToLower(backend))
	}
	if flags.Changed("max-entries") {
		cache.MaxEntries, _ = flags.GetInt("max-entries") //nolint:errcheck // flag is registered
	}
	if flags.Changed("ttl") {
		cache.TTL, _ = flags.GetDuration("ttl") //nolint:errcheck // flag is registered
	}

	if err := settingsService.SetCache(cache); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}

	cmd.Printf("Geometry cache set to: %s\n", cache.Backend.Description())
	return nil
}

func runSettingsGeneration(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	return configureGenerationProvider(cmd, reader)
}

func runSettingsCollab(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	collab := settings.Collab
	flags := cmd.Flags()
	if flags.Changed("dir") {
		collab.Dir, _ = flags.GetString("dir") //nolint:errcheck // flag is registered
		collab.Backend = domain.CollabDir
	}
	if flags.Changed("backend") {
		backend, _ := flags.GetString("backend") //nolint:errcheck // flag is registered
		collab.Backend = domain.CollabBackend(strings.ToLower(backend))
	}
	if flags.Changed("user") {
		collab.User, _ = flags.GetString("user") //nolint:errcheck // flag is registered
	}

	if err := settingsService.SetCollab(collab); err != nil {
		return fmt.Errorf("failed to set collaboration: %w", err)
	}

	cmd.Printf("Collaboration set to: %s\n", collab.Backend)
	if collab.Backend == domain.CollabDir {
		cmd.Printf("  Directory: %s\n", collab.Dir)
	}
	return nil
}

func configureGenerationProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select LLM Provider")
	providers := domain.AllLLMProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	// Get model
	defaults := domain.DefaultLLMModels()
	defaultModel := defaults[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	// Get API key if needed
	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword(cmd.InOrStdin(), reader)
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetGenerationProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure content generator: %w", err)
	}

	// Validate the configuration by pinging the service
	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateGenerationConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("content generator validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("Content generator configured: %s (%s)\n\n", selectedProvider.Description(), model)
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo when in is a terminal, otherwise a plain line.
func readPassword(in io.Reader, reader *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return string(password)
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
