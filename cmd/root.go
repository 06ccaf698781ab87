package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oshokin/tube-grabber/internal/app"
	"github.com/oshokin/tube-grabber/internal/config"
	"github.com/oshokin/tube-grabber/internal/logger"
)

var (
	//nolint:gochecknoglobals // It is required for configuration initialization before the application starts.
	configFilenameFromFlag string

	//nolint:gochecknoglobals,lll // It is initialized once during the application's startup and shared across the command execution logic.
	appConfig *config.Config

	//nolint:gochecknoglobals,lll // Cobra command requires a global definition for proper command-line parsing and execution.
	rootCmd = &cobra.Command{
		Use:   "tube-grabber [flags]",
		Short: "Batch-download YouTube playlists as audio or video files.",
		Long: `Tube Grabber is a CLI tool for downloading YouTube playlists described in a JSON catalog.
For every playlist it extracts the video entries from the playlist page and downloads them:
- as MP3 audio extracted with ffmpeg (the default), or
- as merged MP4 video files when the playlist is marked with "with_video".

The ffmpeg binary is provisioned automatically on first run.`,
		Args:             cobra.NoArgs,
		PersistentPreRun: initConfig,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := bindFlagsToConfig(cmd.Flags(), appConfig); err != nil {
				logger.Fatalf(cmd.Context(), "Failed to parse flags: %v", err)
			}

			logger.SetLevel(appConfig.ParsedLogLevel)

			app.ExecuteRootCommand(cmd.Context(), appConfig)
		},
	}
)

// Execute executes the root command.
func Execute() {
	signals := []os.Signal{syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM}
	ctx, stop := signal.NotifyContext(context.Background(), signals...)

	defer func() {
		_ = logger.Logger().Sync()
	}()

	defer stop()

	go func() {
		defer stop()

		err := rootCmd.ExecuteContext(ctx)
		cobra.CheckErr(err)
	}()

	<-ctx.Done()
}

//nolint:gochecknoinits // Cobra requires the init function to set up flags before the command is executed.
func init() {
	rootCmd.PersistentFlags().StringVarP(
		&configFilenameFromFlag,
		"config",
		"c",
		"",
		fmt.Sprintf("path to the configuration file (default is '%s')",
			config.DefaultConfigFilename))

	rootCmdFlags := rootCmd.Flags()

	rootCmdFlags.StringP(
		"playlists",
		"p",
		"",
		fmt.Sprintf("path to the playlists catalog (default is '%s')",
			config.DefaultPlaylistsFilename))

	rootCmdFlags.StringP(
		"output",
		"o",
		"",
		"directory to save extracted audio files (the path will be created if it doesn't exist).")

	rootCmdFlags.String(
		"video-output",
		"",
		"directory to save downloaded video files (the path will be created if it doesn't exist).")

	rootCmdFlags.Bool(
		"video",
		false,
		"download every playlist as video, overriding per-playlist settings.")

	rootCmdFlags.String(
		"log-level",
		"",
		"logging verbosity: debug, info, warn, error.")
}

func initConfig(cmd *cobra.Command, _ []string) {
	var err error

	appConfig, err = config.LoadConfig(configFilenameFromFlag)
	if err != nil {
		logger.Fatalf(cmd.Context(), "Failed to load configuration: %v", err)
	}

	logger.SetLevel(appConfig.ParsedLogLevel)
}

func bindFlagsToConfig(flags *pflag.FlagSet, cfg *config.Config) error {
	if flag := flags.Lookup("playlists"); flag != nil && flag.Changed {
		cfg.PlaylistsPath, _ = flags.GetString("playlists")
	}

	if flag := flags.Lookup("output"); flag != nil && flag.Changed {
		cfg.AudioOutputPath, _ = flags.GetString("output")
	}

	if flag := flags.Lookup("video-output"); flag != nil && flag.Changed {
		cfg.VideoOutputPath, _ = flags.GetString("video-output")
	}

	if flag := flags.Lookup("video"); flag != nil && flag.Changed {
		cfg.ForceVideo, _ = flags.GetBool("video")
	}

	if flag := flags.Lookup("log-level"); flag != nil && flag.Changed {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}

	return config.ValidateConfig(cfg)
}
