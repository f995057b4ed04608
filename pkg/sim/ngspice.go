package sim

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/OpenTraceLab/OpenTraceSpice/pkg/netlist"
)

// NgspiceRunner executes decks with ngspice in batch mode and parses the
// measurement results and operating-point table out of its log.
type NgspiceRunner struct {
	// Binary is the ngspice executable, "ngspice" when empty.
	Binary string
	// WorkDir receives the rendered deck and log files.
	WorkDir string
}

// NewNgspiceRunner creates a runner writing its artifacts into workDir.
func NewNgspiceRunner(workDir string) *NgspiceRunner {
	return &NgspiceRunner{WorkDir: workDir}
}

// Run implements Runner: render, execute, parse.
func (r *NgspiceRunner) Run(ctx context.Context, net *netlist.Netlist, name string) (*Result, error) {
	binary := r.Binary
	if binary == "" {
		binary = "ngspice"
	}
	if r.WorkDir != "" {
		if err := os.MkdirAll(r.WorkDir, 0o755); err != nil {
			return nil, fmt.Errorf("sim: workdir: %w", err)
		}
	}

	cirPath := filepath.Join(r.WorkDir, name+".cir")
	logPath := filepath.Join(r.WorkDir, name+".log")
	if err := os.WriteFile(cirPath, []byte(net.Render()), 0o644); err != nil {
		return nil, fmt.Errorf("sim: write deck: %w", err)
	}

	cmd := exec.CommandContext(ctx, binary, "-b", "-o", logPath, cirPath)
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("sim: ngspice run %s: %w", name, err)
	}

	logFile, err := os.Open(logPath)
	if err != nil {
		return nil, fmt.Errorf("sim: open log: %w", err)
	}
	defer logFile.Close()

	log, op, err := ParseNgspiceLog(logFile)
	if err != nil {
		return nil, fmt.Errorf("sim: parse log %s: %w", name, err)
	}
	return &Result{Log: log, Trace: NewTrace(), Op: op}, nil
}

// measLine matches ngspice measurement results, with or without the trailing
// trigger instant: "name = 3.30e+00 at= 1.00e-08".
var measLine = regexp.MustCompile(`(?i)^\s*([a-z_][\w.]*)\s*=\s*([-+]?[0-9.]+(?:e[-+]?\d+)?)(?:\s+at\s*=?\s*([-+]?[0-9.]+(?:e[-+]?\d+)?))?\s*$`)

// opHeader starts the operating-point node voltage table in a batch log.
var opHeader = regexp.MustCompile(`(?i)^\s*Node\s+Voltage\s*$`)

// ParseNgspiceLog extracts the measurement log and, when present, the
// operating-point node table from an ngspice batch log. Measurement trigger
// instants are recorded under "<name>_at", mirroring how measurement readers
// conventionally expose them.
func ParseNgspiceLog(r io.Reader) (*Log, *Trace, error) {
	log := NewLog()
	var op *Trace

	scanner := bufio.NewScanner(r)
	inOpTable := false
	for scanner.Scan() {
		line := scanner.Text()

		if opHeader.MatchString(line) {
			inOpTable = true
			if op == nil {
				op = NewTrace()
			}
			continue
		}
		if inOpTable {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" || strings.HasPrefix(trimmed, "----") {
				continue
			}
			fields := strings.Fields(line)
			parsed := false
			if len(fields) == 2 {
				if v, err := strconv.ParseFloat(fields[1], 64); err == nil {
					op.Set(fields[0], []float64{v})
					parsed = true
				}
			}
			if parsed {
				continue
			}
			inOpTable = false
		}

		m := measLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		value, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		log.Add(m[1], value)
		if m[3] != "" {
			at, err := strconv.ParseFloat(m[3], 64)
			if err == nil {
				log.Add(m[1]+"_at", at)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("sim: scan log: %w", err)
	}
	return log, op, nil
}
