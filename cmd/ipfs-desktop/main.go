package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/wailsapp/wails/v3/pkg/application"

	"github.com/stivas/ipfs-desktop/internal/appconfig"
	"github.com/stivas/ipfs-desktop/internal/auth"
	"github.com/stivas/ipfs-desktop/internal/autostart"
	"github.com/stivas/ipfs-desktop/internal/daemon"
	"github.com/stivas/ipfs-desktop/internal/database"
	"github.com/stivas/ipfs-desktop/internal/i18n"
	"github.com/stivas/ipfs-desktop/internal/logger"
	"github.com/stivas/ipfs-desktop/internal/notify"
	"github.com/stivas/ipfs-desktop/internal/settings"
	"github.com/stivas/ipfs-desktop/internal/tray"
	"github.com/stivas/ipfs-desktop/internal/version"
	"github.com/stivas/ipfs-desktop/internal/web"
	"github.com/stivas/ipfs-desktop/internal/window"
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	cfgPath := appconfig.ConfigPath()
	route := ""
	debug := false

	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "--route", "-r":
			if i+1 < len(args) {
				i++
				route = args[i]
			}
		case "--config", "-c":
			if i+1 < len(args) {
				i++
				cfgPath = args[i]
			}
		case "--debug":
			debug = true
		case "-v", "--version", "version":
			fmt.Printf("ipfs-desktop %s (build %s)\n", version.Version, version.Build)
			return 0
		case "-h", "--help", "help":
			fmt.Println(usage())
			return 0
		default:
			fmt.Fprintf(os.Stderr, "unknown argument: %s\n\n%s\n", args[i], usage())
			return 2
		}
	}

	cfg, err := appconfig.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
	}
	// First run: write the defaults out so users have a file to edit.
	if _, statErr := os.Stat(cfgPath); os.IsNotExist(statErr) {
		if saveErr := appconfig.Save(cfgPath, cfg); saveErr != nil {
			fmt.Fprintf(os.Stderr, "config save failed: %v\n", saveErr)
		}
	}
	if debug {
		cfg.Log.Level = "debug"
		cfg.Log.Mode = "debug"
	}

	logger.Init(cfg.Log)
	logger.Log.Info().
		Str("version", version.Version).
		Str("build", version.Build).
		Msg("ipfs-desktop starting")

	if err := i18n.Init(); err != nil {
		logger.Log.Error().Err(err).Msg("i18n init failed")
		return 1
	}

	if err := database.Init(filepath.Join(appconfig.DataDir(), "ipfs-desktop.db"), debug); err != nil {
		logger.Log.Error().Err(err).Msg("database init failed")
		return 1
	}
	defer database.Close()

	store := settings.NewStore()

	lang := store.Get(settings.KeyLang, i18n.DetectSystemLanguage())
	i18n.SetLanguage(lang)

	secret, err := auth.NewSecret()
	if err != nil {
		logger.Log.Error().Err(err).Msg("session secret generation failed")
		return 1
	}
	token, err := auth.NewSessionToken(secret, store.DeviceID(), 24*time.Hour)
	if err != nil {
		logger.Log.Error().Err(err).Msg("session token mint failed")
		return 1
	}

	ipfsd := daemon.New(daemon.Config{
		BinPath:  cfg.Daemon.BinPath,
		RepoPath: cfg.Daemon.RepoPath,
	})

	bridge, err := web.NewServer(cfg.Bridge.Port, secret, store, ipfsd.Status)
	if err != nil {
		logger.Log.Error().Err(err).Msg("bridge start failed")
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bridge.Start(ctx)

	notifier := notify.NewManager()
	notifier.Reload(store)

	if err := autostart.Apply(store.GetBool(settings.KeyLaunchAtStartup, false)); err != nil {
		logger.Log.Warn().Err(err).Msg("autostart apply failed")
	}

	app := application.New(application.Options{
		Name:        "IPFS Desktop",
		Description: "Desktop client for a local IPFS daemon",
		Mac: application.MacOptions{
			// Closing the window keeps the app alive in the tray.
			ApplicationShouldTerminateAfterLastWindowClosed: false,
		},
		Windows: application.WindowsOptions{
			DisableQuitOnLastWindowClosed: true,
		},
		Linux: application.LinuxOptions{
			DisableQuitOnLastWindowClosed: true,
			ProgramName:                   "ipfs-desktop",
		},
		OnShutdown: func() {
			cancel()
			if err := ipfsd.Stop(); err != nil {
				logger.Daemon.Warn().Err(err).Msg("daemon stop failed")
			}
			logger.Log.Info().Msg("ipfs-desktop stopped")
		},
	})

	mgr := window.NewManager(app, store, window.Params{
		BridgeURL: bridge.URL(),
		Token:     token,
		Lang:      lang,
		DeviceID:  store.DeviceID(),
	})

	tr := tray.New(app, mgr, bridge.URL()+"?token="+token, func() {
		cancel()
	})

	monitor := daemon.NewMonitor(ipfsd, time.Duration(cfg.Daemon.PollIntervalSec)*time.Second, func(st daemon.Status) {
		if st.State == daemon.StateRunning {
			addr := ipfsd.APIAddr()
			bridge.Proxy().SetAPIAddr(addr)
			mgr.UpdateAPIAddr(addr)
		}
		// Skip building the translated message when nothing would send it.
		if notifier.HasChannels() {
			switch st.State {
			case daemon.StateRunning:
				notifier.Send(ctx, i18n.T(i18n.MsgNotifyDaemonUp, map[string]interface{}{"Addr": st.APIAddr}))
			case daemon.StateUnreachable:
				notifier.Send(ctx, i18n.T(i18n.MsgNotifyDaemonDown, map[string]interface{}{"Addr": st.APIAddr}))
			}
		}
		bridge.Hub().BroadcastStatus(st)
		tr.UpdateStatus(st)
	})

	go func() {
		if err := ipfsd.Start(ctx); err != nil && ctx.Err() == nil {
			logger.Daemon.Error().Err(err).Msg("daemon start failed")
		}
	}()
	go monitor.Run(ctx)

	mgr.Launch(route)

	if err := app.Run(); err != nil {
		logger.Log.Error().Err(err).Msg("application run failed")
		return 1
	}
	return 0
}

func usage() string {
	return `IPFS Desktop — desktop client for a local IPFS daemon

Usage:
  ipfs-desktop [options]

Options:
  -r, --route <path>   in-app navigation path to open
  -c, --config <file>  config file (default ~/.ipfs-desktop/config.toml)
      --debug          verbose logging to the console
  -v, --version        print version
  -h, --help           this help`
}
