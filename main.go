package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	charmlog "github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"go-smfplay/config"
	"go-smfplay/debug"
	"go-smfplay/dump"
	"go-smfplay/midi"
	"go-smfplay/playlist"
	"go-smfplay/sequencer"
	"go-smfplay/smf"
	"go-smfplay/theme"
	"go-smfplay/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", "", "config file (default ~/.config/go-smfplay/config.json)")
		port       = flag.String("port", "", "output port name or substring")
		step       = flag.String("step", "", `scheduler step mode: "jump" or "tick"`)
		abort      = flag.Bool("abort", false, "stop at the first output error")
		loop       = flag.Bool("loop", false, "repeat the playlist")
		dumpText   = flag.Bool("dump", false, "write a .txt listing next to each file")
		lenient    = flag.Bool("skip-unknown-meta", false, "ignore unknown meta events instead of failing")
		dryRun     = flag.Bool("dry-run", false, "log messages instead of sending them")
		plain      = flag.Bool("plain", false, "log output instead of the interactive view")
		debugLog   = flag.Bool("debug", false, "write debug.log")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] file.mid|dir|glob|list.playlist ...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	// Flags override the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Output.PortName = *port
		case "step":
			cfg.Playback.StepMode = config.StepMode(*step)
		case "abort":
			cfg.Playback.AbortOnError = *abort
		case "loop":
			cfg.Playback.Loop = *loop
		case "dump":
			cfg.Dump.Enabled = *dumpText
		case "debug":
			cfg.Debug = *debugLog
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.Debug {
		if err := debug.Enable(); err != nil {
			return fmt.Errorf("debug log: %w", err)
		}
		defer debug.Disable()
	}

	paths, err := playlist.Resolve(flag.Args())
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		flag.Usage()
		return errors.New("nothing to play")
	}

	text, err := dump.NewTextDecoder(cfg.Dump.TextEncoding)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	interactive := !*plain && isatty.IsTerminal(os.Stdout.Fd())

	logger := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Prefix:          "smfplay",
	})
	if cfg.Debug {
		logger.SetLevel(charmlog.DebugLevel)
	}
	if interactive {
		// stderr would tear the view
		logger = debug.Logger()
	}
	ctx = charmlog.WithContext(ctx, logger)

	var dev midi.Device
	if *dryRun {
		rec := midi.NewRecorder()
		rec.OnSend = func(msg midi.ShortMessage) {
			logger.Info("send", "msg", msg.String())
		}
		dev = rec
	} else {
		dev = midi.NewLocked(midi.NewPortSink(cfg.Output.PortName))
		defer midi.CloseDriver()
	}
	defer dev.Close()

	manager := sequencer.NewManager(dev, sequencer.ManagerOptions{
		Options: sequencer.Options{
			Step:         cfg.Playback.StepMode,
			AbortOnError: cfg.Playback.AbortOnError,
		},
		ResetBetween: cfg.Playback.ResetBetween,
		Loop:         cfg.Playback.Loop,
		Decoder:      smf.Decoder{SkipUnknownMeta: *lenient},
		OnLoad: func(seq *smf.Sequence) error {
			if !cfg.Dump.Enabled {
				return nil
			}
			out, err := dump.SaveSibling(seq, text)
			if err == nil {
				logger.Info("wrote listing", "path", out)
			}
			return err
		},
	})

	if !interactive {
		if err := manager.Play(ctx, paths); err != nil {
			return err
		}
		return manager.Wait()
	}

	palette := theme.Builtin()
	if cfg.UI.PalettePath != "" {
		if palette, err = theme.LoadGPL(cfg.UI.PalettePath); err != nil {
			return err
		}
	}
	th := theme.New(palette)

	var watcher *midi.PortWatcher
	if !*dryRun {
		watcher = midi.NewPortWatcher()
		go watcher.Run(ctx)
	}

	if err := manager.Play(ctx, paths); err != nil {
		return err
	}

	m := tui.NewModel(ctx, manager, watcher, th, cfg.Output.PortName, paths)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	manager.Stop()
	return manager.Wait()
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFile(path)
}
