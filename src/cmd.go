package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/contre95/beebridge/src/features/config"
	"github.com/contre95/beebridge/src/features/hosting"
	"github.com/contre95/beebridge/src/features/logging"
	"github.com/contre95/beebridge/src/features/metrics"
	"github.com/contre95/beebridge/src/features/nowplaying"
	"github.com/contre95/beebridge/src/infra/hotkey"
	"github.com/contre95/beebridge/src/infra/lastfm"
	"github.com/contre95/beebridge/src/infra/mpris"
	"github.com/contre95/beebridge/src/music"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "beebridge <metadata_dir> | beebridge <tags_path> <art_path>",
		Short: "Run an MPRIS server for MusicBee running in Wine",
		Long: `Run an MPRIS server for MusicBee running in Wine.

MusicBee must export the playing track to a tab separated tags file and its
cover art to an image file, both in the same directory. beebridge watches that
directory and publishes the track on D-Bus as the "MusicBee" player. Playback
commands from media keys and desktop widgets are sent back to MusicBee as its
configured hotkeys, using xdotool.

Example usage:
  beebridge ~/.wine/drive_c/musicbee-export
  beebridge ~/export/tags.txt ~/export/cover.jpg --play-pause-key ctrl+alt+p
  beebridge ~/export --lastfm-api-key KEY --serve --port 5795`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	flags := cmd.Flags()
	flags.String("config", config.DefaultPath(), "Path of the YAML config file")
	flags.String("lastfm-api-key", "", "Last.fm API key, enables remote cover art lookup")
	flags.String("play-pause-key", "", "MusicBee hotkey for play/pause, as an xdotool key name")
	flags.String("next-key", "", "MusicBee hotkey for next track")
	flags.String("prev-key", "", "MusicBee hotkey for previous track")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.Bool("serve", false, "Serve the read-only status and metrics API")
	flags.Uint32("port", 0, "Status server port")
	return cmd
}

// applyFlags overrides the file configuration with the command line.
func applyFlags(cmd *cobra.Command, args []string, cfg *config.Config) error {
	switch len(args) {
	case 1:
		cfg.MetadataDir = args[0]
	case 2:
		tagsDir, artDir := filepath.Dir(args[0]), filepath.Dir(args[1])
		if filepath.Clean(tagsDir) != filepath.Clean(artDir) {
			return fmt.Errorf("tags file and art file must be in the same directory, got %s and %s", tagsDir, artDir)
		}
		cfg.MetadataDir = tagsDir
		cfg.TagsFile = filepath.Base(args[0])
		cfg.ArtFile = filepath.Base(args[1])
	}

	flags := cmd.Flags()
	if flags.Changed("lastfm-api-key") {
		cfg.LastFM.APIKey, _ = flags.GetString("lastfm-api-key")
	}
	if flags.Changed("play-pause-key") {
		cfg.Hotkeys.PlayPause, _ = flags.GetString("play-pause-key")
	}
	if flags.Changed("next-key") {
		cfg.Hotkeys.Next, _ = flags.GetString("next-key")
	}
	if flags.Changed("prev-key") {
		cfg.Hotkeys.Previous, _ = flags.GetString("prev-key")
	}
	if flags.Changed("log-level") {
		cfg.Logger.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("serve") {
		cfg.Server.Enabled, _ = flags.GetBool("serve")
	}
	if flags.Changed("port") {
		cfg.Server.Port, _ = flags.GetUint32("port")
	}
	return cfg.Validate()
}

func run(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := applyFlags(cmd, args, cfg); err != nil {
		return err
	}
	cfgManager := config.NewManager(cfg)

	logger := logging.SetupLogger(cfgManager)
	slog.SetDefault(logger)
	slog.Debug("Configuration", "config", cfgManager.GetJSON())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.New()
	store := music.NewStore()

	bus, err := mpris.Connect(cfg.Bus.PlayerName)
	if err != nil {
		slog.Error("Failed to start MPRIS server", "error", err)
		return err
	}
	defer bus.Close()

	var lookup nowplaying.ArtLookup
	if cfg.LastFM.APIKey != "" {
		slog.Info("Last.fm API key passed, fetching art from Last.fm")
		lookup = lastfm.NewClient(cfg.LastFM.APIKey, cfg.LastFM.Endpoint, cfg.LastFM.Timeout)
	}

	tagLoader := nowplaying.NewTagLoader(cfg.TagsPath(), cfg.Tags.MinFields, nowplaying.Settle{
		Interval: cfg.Watch.SettleInterval,
		Timeout:  cfg.Watch.SettleTimeout,
	}, store, m)
	artResolver := nowplaying.NewArtResolver(cfg.ArtPath(), cfg.Art.MinBytes, lookup, store, m)
	dispatcher := hotkey.NewDispatcher(hotkey.ExecRunner{}, cfg.Hotkeys.WindowName)

	service := nowplaying.NewService(store, tagLoader, artResolver, dispatcher, nowplaying.Hotkeys{
		PlayPause: cfg.Hotkeys.PlayPause,
		Next:      cfg.Hotkeys.Next,
		Previous:  cfg.Hotkeys.Previous,
	}, bus, m)

	if err := bus.Export(service); err != nil {
		slog.Error("Failed to export MPRIS interface", "error", err)
		return err
	}
	service.Refresh(ctx)

	coordinator := nowplaying.NewCoordinator(nowplaying.CoordinatorOptions{
		Dir:          cfg.MetadataDir,
		TagsFile:     cfg.TagsFile,
		ArtFile:      cfg.ArtFile,
		TagsDebounce: cfg.Watch.TagsDebounce,
		ArtDebounce:  cfg.Watch.ArtDebounce,
		JoinTimeout:  cfg.Watch.JoinTimeout,
	}, service, m)
	if err := coordinator.Start(ctx); err != nil {
		slog.Error("Running without live updates", "error", err)
	}

	var server *hosting.Server
	if cfg.Server.Enabled {
		server = hosting.NewServer(cfgManager, service, m)
		go func() {
			if err := server.Start(); err != nil {
				slog.Error("Status server stopped", "error", err)
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	sig := <-quit
	slog.Info("Shutting down...", "signal", sig.String())

	coordinator.Stop()
	if server != nil {
		if err := server.Shutdown(); err != nil {
			slog.Error("Failed to shutdown status server", "error", err)
		}
	}
	return nil
}
