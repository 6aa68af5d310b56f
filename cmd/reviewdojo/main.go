package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"reviewdojo/internal/app"
)

var (
	envFile     string
	contentDir  string
	bundlePath  string
	logPath     string
	logLevel    string
	devMode     bool
	devHTTP     string
	demoName    string
	asciiOnly   bool
	styleName   string
	challengeID int
	explainID   int
)

// rootCmd runs the trainer; it is the same as `play`.
var rootCmd = &cobra.Command{
	Use:   "reviewdojo",
	Short: "Practice code review in the terminal",
	Long: `reviewdojo shows pre-authored code with planted issues. Mark the lines
you would flag in review, submit, and compare against the answer key.
Explanations walk through annotated code one step at a time.`,
	SilenceUsage: true,
	RunE:         runPlay,
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Open the trainer, optionally on a challenge or explanation",
	Example: `  reviewdojo play
  reviewdojo play --challenge 102
  reviewdojo play --explanation 201`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&envFile, "env-file", "", "dotenv file to read before the environment (default .env)")
	pf.StringVar(&contentDir, "content", "", "content directory holding challenges and explanations")
	pf.StringVar(&bundlePath, "bundle", "", "SQLite content bundle; takes precedence over --content")
	pf.StringVar(&logPath, "log", "", "JSON log file (empty discards)")
	pf.StringVar(&logLevel, "log-level", "", "debug, info, warn or error")

	for _, c := range []*cobra.Command{rootCmd, playCmd} {
		f := c.Flags()
		f.BoolVar(&devMode, "dev", false, "serve the dev HTTP endpoints")
		f.StringVar(&devHTTP, "dev-http", "", "dev HTTP listen address")
		f.StringVar(&demoName, "demo", "", "demo scenario to load at start (dev mode)")
		f.BoolVar(&asciiOnly, "ascii", false, "draw with ASCII glyphs only")
		f.StringVar(&styleName, "style", "", "colour variant: midnight, daylight or phosphor")
		f.IntVar(&challengeID, "challenge", 0, "open this challenge id")
		f.IntVar(&explainID, "explanation", 0, "open this explanation id")
		c.MarkFlagsMutuallyExclusive("challenge", "explanation")
	}

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(bundleCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads .env and REVIEWDOJO_* variables, then applies the flags
// the user actually set.
func loadConfig(cmd *cobra.Command) (app.Config, error) {
	cfg, err := app.LoadConfig(envFile)
	if err != nil {
		return app.Config{}, err
	}
	flags := cmd.Flags()
	if flags.Changed("content") {
		cfg.ContentDir = contentDir
	}
	if flags.Changed("bundle") {
		cfg.BundlePath = bundlePath
	}
	if flags.Changed("log") {
		cfg.LogPath = logPath
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("dev") {
		cfg.Dev = devMode
	}
	if flags.Changed("dev-http") {
		cfg.DevHTTP = devHTTP
	}
	if flags.Changed("demo") {
		cfg.DemoScenario = demoName
	}
	if flags.Changed("ascii") {
		cfg.ASCIIOnly = asciiOnly
	}
	if flags.Changed("style") {
		cfg.UI.StyleVariant = styleName
	}
	if err := cfg.Validate(); err != nil {
		return app.Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	switch {
	case challengeID != 0:
		a.OnOpenChallenge(challengeID)
	case explainID != 0:
		a.OnOpenExplanation(explainID)
	}
	return a.Run(cmd.Context())
}
