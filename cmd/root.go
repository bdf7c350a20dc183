package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/flashquiz/internal/config"
	"github.com/abhisek/flashquiz/internal/logger"
)

var (
	cfg *config.Config
	log = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "flashquiz",
	Short: "Flashcard quiz from a question PDF",
	Long: "flashquiz turns a PDF of multiple-choice questions into a terminal quiz.\n" +
		"Questions answered correctly are remembered and never asked again;\n" +
		"missed questions come back after every other pending question.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Config file (default ./flashquiz.yaml or $XDG_CONFIG_HOME/flashquiz/flashquiz.yaml)")
	pf.String("questions", "", "Question set JSON file")
	pf.String("backend", "", "Progress backend: file or sqlite")
	pf.String("progress", "", "Progress file or SQLite database path")
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	pf.String("log-format", "", "Log format: console or json")
	pf.String("log-file", "", "Write logs to this file instead of stderr")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup resolves configuration and builds the logger before any command runs.
func setup(cmd *cobra.Command) error {
	configFile, _ := cmd.Flags().GetString("config")
	c, err := config.Load(config.LoadOptions{
		ConfigFile: configFile,
		Flags:      cmd.Flags(),
	})
	if err != nil {
		return err
	}

	l, err := logger.New(c.Log.Level, c.Log.Format, c.Log.File)
	if err != nil {
		return err
	}

	cfg = c
	log = l
	log.Debug("configuration loaded",
		zap.String("questions", cfg.QuestionsPath),
		zap.String("backend", cfg.Progress.Backend),
		zap.String("extractor", cfg.Extractor),
	)
	return nil
}
