package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"go-smfplay/config"
	"go-smfplay/dump"
	"go-smfplay/midi"
	"go-smfplay/sequencer"
	"go-smfplay/smf"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}
	defer midi.CloseDriver()

	switch os.Args[1] {
	case "list":
		listPorts()
	case "dump":
		dumpFile(os.Args[2:])
	case "info":
		fileInfo(os.Args[2:])
	case "note":
		testNote(os.Args[2:])
	case "poll":
		pollDevices()
	default:
		usage()
	}
}

func usage() {
	fmt.Println("MIDI Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list              - List all MIDI output ports")
	fmt.Println("  dump <file>       - Print the decoded event listing")
	fmt.Println("  info <file>       - Print header, tempo map and length")
	fmt.Println("  note [port]       - Play middle C on a port")
	fmt.Println("  poll              - Watch for port changes")
}

func listPorts() {
	fmt.Println("=== MIDI Output Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	names, err := midi.ListOutPorts()
	if err != nil {
		fmt.Printf("\n%v\n", err)
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
		return
	}
	for i, name := range names {
		fmt.Printf("  %d: %s\n", i, name)
	}
}

func openArg(args []string) *smf.Sequence {
	if len(args) < 1 {
		fmt.Println("missing file argument")
		os.Exit(2)
	}
	seq, err := smf.Open(args[0])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	return seq
}

func dumpFile(args []string) {
	seq := openArg(args)
	defer seq.Close()

	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	text, err := dump.NewTextDecoder(cfg.Dump.TextEncoding)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if err := dump.Write(os.Stdout, seq, text); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func fileInfo(args []string) {
	seq := openArg(args)
	defer seq.Close()

	tm := sequencer.NewTempoMap(seq)
	fmt.Printf("File:     %s\n", seq.FilePath())
	fmt.Printf("Format:   %s\n", seq.Format())
	fmt.Printf("Tracks:   %d\n", seq.TrackCount())
	fmt.Printf("Events:   %d\n", seq.EventCount())
	fmt.Printf("Division: %s\n", seq.Division)
	fmt.Printf("Length:   %s (%d ticks)\n", tm.Length(), tm.End)

	fmt.Println("Tempo map:")
	for _, c := range tm.Changes {
		fmt.Printf("  tick %8d  %10s  %7.2f bpm\n", c.Tick, tm.Time(c.Tick), c.Tempo.BPM())
	}
}

func testNote(args []string) {
	name := ""
	if len(args) > 0 {
		name = args[0]
	}

	sink := midi.NewPortSink(name)
	if err := sink.Init(); err != nil {
		fmt.Printf("Error opening port: %v\n", err)
		return
	}
	defer sink.Close()
	fmt.Printf("Using output: %s\n", sink.Name())

	on := midi.Pack(midi.NoteOn, 60, 100)
	off := midi.Pack(midi.NoteOff, 60, 0)

	fmt.Printf("Sending: %s\n", on)
	if err := sink.Send(on); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	time.Sleep(500 * time.Millisecond)

	fmt.Printf("Sending: %s\n", off)
	if err := sink.Send(off); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println("Done!")
}

func pollDevices() {
	fmt.Println("Polling for port changes...")
	fmt.Println("Connect/disconnect devices to test. Ctrl+C to exit.")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	watcher := midi.NewPortWatcher()
	go watcher.Run(ctx)

	for ev := range watcher.Events() {
		verb := "connected"
		if ev.Type == midi.PortDisconnected {
			verb = "disconnected"
		}
		fmt.Printf("[%s] %s: %s\n", time.Now().Format("15:04:05"), verb, ev.Name)
	}
}
