package main

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "agentwatch",
	Short: "Track agent tool activity from an event stream",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogging(viper.GetString("log-level"))
	},
}

func initLogging(level string) error {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if isatty.IsTerminal(os.Stderr.Fd()) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	parsed, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return errors.Wrapf(err, "invalid log level %q", level)
	}
	zerolog.SetGlobalLevel(parsed)
	return nil
}

// openInput returns the frame source: a file path argument, or stdin when
// the argument is missing or "-".
func openInput(args []string) (io.ReadCloser, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, errors.Wrapf(err, "could not open %s", args[0])
	}
	return f, nil
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().String("topic", "activity", "event topic name")
	rootCmd.PersistentFlags().Duration("linger", 2500*time.Millisecond, "how long the tracker holds in leaving before sleeping")
	rootCmd.PersistentFlags().Bool("verbose", false, "verbose event router logging")

	viper.SetEnvPrefix("AGENTWATCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	cobra.CheckErr(viper.BindPFlags(rootCmd.PersistentFlags()))

	rootCmd.AddCommand(newReplayCommand())
	rootCmd.AddCommand(newHistoryCommand())
	rootCmd.AddCommand(newWatchCommand())
}

func main() {
	cobra.CheckErr(rootCmd.Execute())
}
