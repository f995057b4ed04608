package sim

import (
	"context"
	"strings"
	"testing"

	"github.com/OpenTraceLab/OpenTraceSpice/pkg/netlist"
)

func TestLogMeasurementDefaults(t *testing.T) {
	log := NewLog()
	log.Add("OUT_OBSERVE_LOW_FALL_at", 5e-9)

	if got := log.Measurement("out_observe_low_fall_at", -1); got != 5e-9 {
		t.Fatalf("Measurement = %g, want 5e-9", got)
	}
	// Case folding both ways.
	if got := log.Measurement("OUT_OBSERVE_LOW_FALL_AT", -1); got != 5e-9 {
		t.Fatalf("case-folded Measurement = %g, want 5e-9", got)
	}
	if got := log.Measurement("never_triggered", -1); got != -1 {
		t.Fatalf("missing Measurement = %g, want sentinel -1", got)
	}

	var nilLog *Log
	if got := nilLog.Measurement("x", -1); got != -1 {
		t.Fatalf("nil log Measurement = %g, want -1", got)
	}
}

func TestTraceNodeNormalization(t *testing.T) {
	trace := NewTrace()
	trace.Set("out", []float64{3.3, 3.2})

	for _, name := range []string{"out", "OUT", "V(out)", "v(OUT)"} {
		v, ok := trace.Initial(name)
		if !ok || v != 3.3 {
			t.Fatalf("Initial(%q) = %v/%v, want 3.3/true", name, v, ok)
		}
	}
	if _, ok := trace.Node("missing"); ok {
		t.Fatalf("Node(missing) reported present")
	}

	var nilTrace *Trace
	if _, ok := nilTrace.Node("out"); ok {
		t.Fatalf("nil trace reported a node")
	}
}

func TestSimRunnerRecordsDecks(t *testing.T) {
	store := netlist.NewMemStore("sim test")
	if err := store.Insert(netlist.Component{Reference: "R1", Ports: []string{"a", "b"}, Value: "1k"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	net := netlist.New(store, netlist.Config{})

	runner := NewSimRunner(nil)
	res, err := runner.Run(context.Background(), net, "baseline")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Log == nil || res.Trace == nil {
		t.Fatalf("empty runner returned nil log/trace")
	}
	if res.Op != nil {
		t.Fatalf("empty runner invented an operating-point trace")
	}

	runs := runner.Runs()
	if len(runs) != 1 || runs[0].Name != "baseline" {
		t.Fatalf("runs = %+v", runs)
	}
	if !strings.Contains(runner.LastDeck(), "R1 a b 1k") {
		t.Fatalf("deck not recorded:\n%s", runner.LastDeck())
	}
}

func TestSimRunnerOnRunHook(t *testing.T) {
	net := netlist.New(netlist.NewMemStore("t"), netlist.Config{})

	runner := &SimRunner{OnRun: func(name, deck string) (*Result, error) {
		log := NewLog()
		log.Add("marker", 1)
		return &Result{Log: log, Trace: NewTrace()}, nil
	}}

	res, err := runner.Run(context.Background(), net, "hooked")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := res.Log.Measurement("marker", -1); got != 1 {
		t.Fatalf("hook result not returned, marker = %g", got)
	}
}

func TestSimRunnerHonorsContext(t *testing.T) {
	net := netlist.New(netlist.NewMemStore("t"), netlist.Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewSimRunner(nil).Run(ctx, net, "canceled"); err == nil {
		t.Fatalf("Run with canceled context succeeded")
	}
}

const sampleLog = `
Note: No compatibility mode selected!

Circuit: fault testbench

Doing analysis at TEMP = 27.000000 and TNOM = 27.000000

 Node                  Voltage
 ----                  -------
 out                  3.300000e+00
 in                   0.000000e+00

No. of Data Rows : 513
out_observe_low_fall = 1.000000e-01 at= 5.000000e-09
out_observe_high_rise = 3.200000e+00 at= 2.300000e-08
total_power = -1.23e-03
`

func TestParseNgspiceLog(t *testing.T) {
	log, op, err := ParseNgspiceLog(strings.NewReader(sampleLog))
	if err != nil {
		t.Fatalf("ParseNgspiceLog: %v", err)
	}

	if got := log.Measurement("out_observe_low_fall", -1); got != 0.1 {
		t.Fatalf("low_fall value = %g, want 0.1", got)
	}
	if got := log.Measurement("out_observe_low_fall_at", -1); got != 5e-9 {
		t.Fatalf("low_fall at = %g, want 5e-9", got)
	}
	if got := log.Measurement("out_observe_high_rise_at", -1); got != 2.3e-8 {
		t.Fatalf("high_rise at = %g, want 2.3e-8", got)
	}
	if got := log.Measurement("total_power", 0); got != -1.23e-3 {
		t.Fatalf("total_power = %g", got)
	}

	if op == nil {
		t.Fatalf("operating-point table not parsed")
	}
	if v, ok := op.Initial("out"); !ok || v != 3.3 {
		t.Fatalf("op out = %v/%v, want 3.3/true", v, ok)
	}
	if v, ok := op.Initial("V(in)"); !ok || v != 0 {
		t.Fatalf("op in = %v/%v, want 0/true", v, ok)
	}
}

func TestParseNgspiceLogWithoutOpTable(t *testing.T) {
	log, op, err := ParseNgspiceLog(strings.NewReader("x = 1.0\n"))
	if err != nil {
		t.Fatalf("ParseNgspiceLog: %v", err)
	}
	if op != nil {
		t.Fatalf("op trace invented")
	}
	if got := log.Measurement("x", -1); got != 1 {
		t.Fatalf("x = %g", got)
	}
}
