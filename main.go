package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"go-slmkii/config"
	"go-slmkii/debug"
	"go-slmkii/driver"
	"go-slmkii/midi"
	"go-slmkii/session"
	"go-slmkii/theme"
	"go-slmkii/tui"
)

var (
	configPath string
	noTUI      bool
	debugLog   bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "go-slmkii",
	Short: "Novation SL MkII mixer surface for a live set",
	Long: `go-slmkii drives the mixer half of a Novation SL MkII: eight strips paged
across the set's tracks, the transport section and its locked mode.

Examples:
  go-slmkii run
  go-slmkii run --no-tui --debug
  go-slmkii ports
  go-slmkii config init`,
	SilenceUsage: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Drive the surface against the virtual set",
	RunE:  runSurface,
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List MIDI ports",
	RunE:  runPorts,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config file",
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective config",
	RunE:  runConfigShow,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default ~/.config/go-slmkii/config.yaml)")

	runCmd.Flags().BoolVar(&noTUI, "no-tui", false, "Run without the monitor, until interrupted")
	runCmd.Flags().BoolVar(&debugLog, "debug", false, "Write a debug log to "+debug.DefaultPath())

	configCmd.AddCommand(configInitCmd, configShowCmd)
	rootCmd.AddCommand(runCmd, portsCmd, configCmd)
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	return config.Load()
}

func runSurface(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if debugLog || cfg.Debug {
		if err := debug.Enable(debug.DefaultPath()); err != nil {
			return err
		}
		defer debug.Disable()
	}

	th := theme.New(nil)
	if cfg.Palette != "" {
		palette, err := theme.LoadGPL(cfg.Palette)
		if err != nil {
			return err
		}
		th = theme.New(palette)
	}

	set := session.NewDemoSet(cfg.Demo.Tracks, cfg.Demo.Returns)
	drv := driver.New(set, nil, driver.OptionsFromConfig(cfg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runCtx, cancelRun := context.WithCancel(ctx)
	runDone := make(chan struct{})
	go func() {
		drv.Run(runCtx)
		close(runDone)
	}()

	watcher := midi.NewWatcher(cfg.InputPort, cfg.OutputPort)
	go watcher.Run(runCtx)
	go connectDevices(runCtx, watcher, drv, cfg)

	if noTUI {
		fmt.Printf("go-slmkii: waiting for %q / %q, Ctrl+C to quit\n", cfg.InputPort, cfg.OutputPort)
		<-ctx.Done()
	} else {
		m := tui.NewModel(drv, set, th, cfg.OutputPort)
		p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := p.Run(); err != nil && ctx.Err() == nil {
			cancelRun()
			<-runDone
			return err
		}
	}

	cancelRun()
	<-runDone
	err = drv.Close()
	midi.CloseDriver()
	return err
}

// connectDevices opens the surface whenever the watcher sees it and hands the
// port to the driver.
func connectDevices(ctx context.Context, w *midi.Watcher, drv *driver.Driver, cfg *config.Config) {
	var port *midi.Port
	for ev := range w.Events() {
		switch ev.Type {
		case midi.DeviceConnected:
			ports, err := midi.ListPorts(midi.PortScanTimeout)
			if err != nil {
				debug.Warn("port", "list: %v", err)
				continue
			}
			p, err := midi.Open(ports, ev.In, ev.Out, drv.Deliver)
			if err != nil {
				debug.Warn("port", "open %s: %v", ev.Out, err)
				continue
			}
			if ctx.Err() != nil {
				p.Close()
				return
			}
			port = p
			drv.Post(func() { drv.SetOutput(p) })

		case midi.DeviceDisconnected:
			if port == nil {
				continue
			}
			old := port
			port = nil
			if ctx.Err() != nil {
				return
			}
			drv.Post(func() { drv.SetOutput(nil) })
			if err := old.Close(); err != nil {
				debug.Warn("port", "close %s: %v", old.Name(), err)
			}
		}
	}
}

func runPorts(cmd *cobra.Command, args []string) error {
	ports, err := midi.ListPorts(midi.PortScanTimeout)
	if err != nil {
		return fmt.Errorf("%w (on macOS try: sudo killall coreaudiod midiserver)", err)
	}
	defer midi.CloseDriver()

	fmt.Println("Inputs:")
	for i, p := range ports.Ins {
		fmt.Printf("  %d: %s\n", i, p.String())
	}
	fmt.Println("Outputs:")
	for i, p := range ports.Outs {
		fmt.Printf("  %d: %s\n", i, p.String())
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		p, err := config.ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := config.DefaultConfig().Save(path); err != nil {
		return err
	}
	fmt.Println("wrote", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	out, err := cfg.Marshal()
	if err != nil {
		return err
	}
	fmt.Print(string(out))
	return nil
}
