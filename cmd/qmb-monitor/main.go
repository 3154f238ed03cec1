// cmd/qmb-monitor/main.go
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/qmbtools/qmb-monitor/internal/config"
	"github.com/qmbtools/qmb-monitor/internal/poll"
	"github.com/qmbtools/qmb-monitor/internal/tui"
)

func main() {
	var (
		cfgPath      = flag.String("config", "registers.yaml", "register map file")
		port         = flag.String("port", "", "serial port override, e.g. /dev/ttyUSB0 or COM5")
		baud         = flag.Int("baud", 0, "baud rate override, e.g. 115200")
		parity       = flag.String("parity", "N", "parity override: N, E or O")
		scanInterval = flag.Duration("scan-interval", poll.DefaultScanInterval, "delay between discovery scans")
		samplePeriod = flag.Duration("sample-period", poll.DefaultSamplePeriod, "delay between acquisition passes")
		headless     = flag.Bool("headless", false, "log readings instead of running the UI")
	)
	flag.Parse()

	// --------------------
	// Load + validate register map
	// --------------------

	doc, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if err := config.Validate(doc); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}

	opts := poll.Options{
		ScanInterval: *scanInterval,
		SamplePeriod: *samplePeriod,
	}
	// a fixed triple bypasses discovery entirely
	if *port != "" && *baud > 0 {
		opts.Override = &poll.Candidate{Port: *port, Baud: *baud, Parity: *parity}
	}

	mon, err := poll.Build(doc, opts)
	if err != nil {
		log.Fatalf("monitor build failed: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go mon.Run(ctx)

	if *headless {
		runHeadless(ctx, mon)
		return
	}

	p := tea.NewProgram(tui.New(mon, mon.Registers()), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("ui failed: %v", err)
	}
	cancel()
}

// runHeadless consumes monitor events on the terminal: every status
// transition, plus at most one snapshot line per second.
func runHeadless(ctx context.Context, mon *poll.Monitor) {
	log.Printf("waiting for device...")

	var lastPrint time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-mon.Events():
			if !ok {
				return
			}
			switch ev.Kind {
			case poll.EventStatus:
				log.Printf("status: %s", ev.Status)
			case poll.EventData:
				if time.Since(lastPrint) < time.Second {
					continue
				}
				lastPrint = time.Now()
				for _, r := range ev.Snapshot.Readings {
					log.Printf("  %s = %s", r.Name, r.Value)
				}
			}
		}
	}
}
