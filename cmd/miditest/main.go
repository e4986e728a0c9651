package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"

	"go-slmkii/config"
	"go-slmkii/midi"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	defer midi.CloseDriver()

	switch os.Args[1] {
	case "list":
		listPorts()
	case "detect":
		detect(cfg)
	case "sysex":
		testSysEx(cfg)
	case "leds":
		testLEDs(cfg)
	case "monitor":
		monitor(cfg)
	case "poll":
		poll(cfg)
	default:
		usage()
	}
}

func usage() {
	fmt.Println("SL MkII test scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list     - List all MIDI ports")
	fmt.Println("  detect   - Find the SL MkII script ports")
	fmt.Println("  sysex    - Send welcome, then goodbye")
	fmt.Println("  leds     - Walk the mixer LEDs")
	fmt.Println("  monitor  - Print decoded incoming messages")
	fmt.Println("  poll     - Watch for the device coming and going")
}

func listPorts() {
	fmt.Println("(waiting up to 3 seconds...)")
	ports, err := midi.ListPorts(midi.PortScanTimeout)
	if err != nil {
		fmt.Println("\nTIMEOUT! CoreMIDI is hung.")
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
		return
	}
	fmt.Println("=== MIDI Input Ports ===")
	for i, p := range ports.Ins {
		fmt.Printf("  %d: %s\n", i, p.String())
	}
	fmt.Println("\n=== MIDI Output Ports ===")
	for i, p := range ports.Outs {
		fmt.Printf("  %d: %s\n", i, p.String())
	}
}

func detect(cfg *config.Config) {
	fmt.Printf("Looking for %q / %q...\n", cfg.InputPort, cfg.OutputPort)
	ports, err := midi.ListPorts(midi.PortScanTimeout)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	in, inErr := ports.FindIn(cfg.InputPort)
	out, outErr := ports.FindOut(cfg.OutputPort)
	if inErr == nil {
		fmt.Printf("Found input: %s\n", in.String())
	}
	if outErr == nil {
		fmt.Printf("Found output: %s\n", out.String())
	}
	if inErr == nil && outErr == nil {
		fmt.Println("\nSL MkII detected!")
	} else {
		fmt.Println("\nSL MkII not found")
	}
}

func open(cfg *config.Config, recv func(gomidi.Message)) *midi.Port {
	ports, err := midi.ListPorts(midi.PortScanTimeout)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return nil
	}
	port, err := midi.Open(ports, cfg.InputPort, cfg.OutputPort, recv)
	if err != nil {
		fmt.Printf("Error opening port: %v\n", err)
		return nil
	}
	fmt.Printf("Using: %s\n", port.Name())
	return port
}

func testSysEx(cfg *config.Config) {
	port := open(cfg, func(msg gomidi.Message) {
		if hs, ok := midi.ParseHandshake(msg); ok {
			fmt.Printf("  <- handshake pid=%d mode=%d\n", hs.ProductID, hs.Mode)
		}
	})
	if port == nil {
		return
	}
	defer port.Close()

	fmt.Printf("Sending welcome: % X\n", []byte(midi.Welcome(cfg.ProductID)))
	if err := port.Send(midi.Welcome(cfg.ProductID)); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Println("Press Enter to say goodbye...")
	fmt.Scanln()

	port.Send(midi.AllLEDsOff())
	fmt.Printf("Sending goodbye: % X\n", []byte(midi.Goodbye(cfg.ProductID)))
	port.Send(midi.Goodbye(cfg.ProductID))
	fmt.Println("Done!")
}

func testLEDs(cfg *config.Config) {
	port := open(cfg, nil)
	if port == nil {
		return
	}
	defer port.Close()

	port.Send(midi.Welcome(cfg.ProductID))
	time.Sleep(100 * time.Millisecond)

	ch := uint8(cfg.Channel)
	led := func(cc, v uint8) {
		port.Send(midi.OnChannel(midi.LED(cc, v), ch))
	}

	rows := []struct {
		name string
		role midi.Role
		on   uint8
	}{
		{"solo", midi.RoleSolo, midi.Full},
		{"stop", midi.RoleStop, midi.Full},
		{"button 1", midi.RoleButton1, midi.Pressed},
		{"button 2", midi.RoleButton2, midi.Pressed},
	}
	for _, row := range rows {
		fmt.Printf("Lighting %s row...\n", row.name)
		for _, cc := range midi.CCsFor(row.role) {
			led(cc, row.on)
			time.Sleep(80 * time.Millisecond)
		}
	}

	fmt.Println("Encoder rings...")
	for i := uint8(0); i < midi.NumStrips; i++ {
		led(midi.RingModeBaseCC+i, midi.RingVolumeMode)
		led(midi.RingFeedbackBaseCC+i, i+1)
	}

	fmt.Println("Press Enter to clear...")
	fmt.Scanln()

	port.Send(midi.OnChannel(midi.AllLEDsOff(), ch))
	port.Send(midi.Goodbye(cfg.ProductID))
	fmt.Println("Done!")
}

func describe(msg gomidi.Message) string {
	var ch, num, val uint8
	switch {
	case msg.GetControlChange(&ch, &num, &val):
		if c, ok := midi.Lookup(midi.CCAddress(num)); ok {
			return fmt.Sprintf("%-14s cc %3d = %3d", c, num, val)
		}
		return fmt.Sprintf("%-14s cc %3d = %3d", "?", num, val)
	case msg.GetNoteOn(&ch, &num, &val):
		if c, ok := midi.Lookup(midi.NoteAddress(num)); ok {
			return fmt.Sprintf("%-14s note %3d vel %3d", c, num, val)
		}
		return fmt.Sprintf("%-14s note %3d vel %3d", "pad", num, val)
	}
	if hs, ok := midi.ParseHandshake(msg); ok {
		return fmt.Sprintf("handshake pid=%d mode=%d", hs.ProductID, hs.Mode)
	}
	return msg.String()
}

func monitor(cfg *config.Config) {
	port := open(cfg, func(msg gomidi.Message) {
		fmt.Printf("[%s] %s\n", time.Now().Format("15:04:05.000"), describe(msg))
	})
	if port == nil {
		return
	}
	defer port.Close()

	fmt.Println("Move controls on the device. Ctrl+C to exit.")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	<-ctx.Done()
}

func poll(cfg *config.Config) {
	fmt.Println("Polling for the SL MkII every second...")
	fmt.Println("Connect/disconnect it to test. Ctrl+C to exit.")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	w := midi.NewWatcher(cfg.InputPort, cfg.OutputPort)
	go w.Run(ctx)
	for ev := range w.Events() {
		fmt.Printf("[%s] %s in=%q out=%q\n", time.Now().Format("15:04:05"), ev.Type, ev.In, ev.Out)
	}
}
