package probe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestProfileValidateFillsDefaults(t *testing.T) {
	var p Profile
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if diff := cmp.Diff(DefaultProfile(), p); diff != "" {
		t.Fatalf("empty profile should validate to defaults (-want +got):\n%s", diff)
	}
}

func TestProfileValidateKeepsOverrides(t *testing.T) {
	p := Profile{NMOSModel: "2N7002", TriggerTime: 20e-9}
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if p.NMOSModel != "2N7002" {
		t.Errorf("NMOSModel = %q, want override kept", p.NMOSModel)
	}
	if p.TriggerTime != 20e-9 {
		t.Errorf("TriggerTime = %g, want override kept", p.TriggerTime)
	}
	if p.PMOSModel != "BSS84" {
		t.Errorf("PMOSModel = %q, want default fill", p.PMOSModel)
	}
}

func TestProfileValidateRejectsNegatives(t *testing.T) {
	p := Profile{TriggerTime: -1e-9}
	if err := p.Validate(); err == nil {
		t.Errorf("negative trigger time should fail")
	}
	p = Profile{LogicMargin: -0.1}
	if err := p.Validate(); err == nil {
		t.Errorf("negative logic margin should fail")
	}
}

func TestLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	data := []byte("nmos_model: 2N7002\ntrigger_time: 2.0e-8\nlogic_margin: 0.2\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if p.NMOSModel != "2N7002" {
		t.Errorf("NMOSModel = %q", p.NMOSModel)
	}
	if p.TriggerTime != 2.0e-8 {
		t.Errorf("TriggerTime = %g", p.TriggerTime)
	}
	if p.LogicMargin != 0.2 {
		t.Errorf("LogicMargin = %g", p.LogicMargin)
	}
	if p.PMOSModel != "BSS84" {
		t.Errorf("PMOSModel = %q, want default fill", p.PMOSModel)
	}
}

func TestLoadProfileErrors(t *testing.T) {
	if _, err := LoadProfile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("missing file should fail")
	}
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("nmos_model: [broken"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := LoadProfile(path); err == nil {
		t.Errorf("malformed YAML should fail")
	}
}
