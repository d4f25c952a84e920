package target

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/greatliontech/wrapgen/pkg/component"
)

func TestWriteBundle(t *testing.T) {
	ctx := context.Background()
	srcDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(srcDir, "helper.py"), []byte("print('hi')\n"), 0644); err != nil {
		t.Fatal(err)
	}
	comp := &component.Component{
		Name:    "trimmer",
		Version: "0.3.1",
		Dir:     srcDir,
		Resources: []component.Resource{
			{Path: "trim.sh", Text: "#!/bin/bash\necho hi\n", Executable: true},
			{Path: "helper.py"},
		},
	}

	outDir := filepath.Join(t.TempDir(), "out")
	tgt, err := New(ctx, outDir)
	if err != nil {
		t.Fatal(err)
	}
	defer tgt.Close()

	info := NewBuildInfo(comp, filepath.Join(srcDir, "config.yaml"), "native", "", "dev")
	wrapper := []byte("#!/usr/bin/env bash\necho wrapper\n")
	if err := tgt.Write(ctx, comp, wrapper, info); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(filepath.Join(outDir, "trimmer"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(wrapper) {
		t.Error("wrapper content mismatch")
	}
	fi, err := os.Stat(filepath.Join(outDir, "trimmer"))
	if err != nil {
		t.Fatal(err)
	}
	if fi.Mode().Perm()&0111 == 0 {
		t.Errorf("wrapper is not executable: %v", fi.Mode())
	}

	for _, name := range []string{"trim.sh", "helper.py", BuildInfoFile} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("missing bundle file %s: %v", name, err)
		}
	}

	infoBytes, err := os.ReadFile(filepath.Join(outDir, BuildInfoFile))
	if err != nil {
		t.Fatal(err)
	}
	var round BuildInfo
	if err := yaml.Unmarshal(infoBytes, &round); err != nil {
		t.Fatal(err)
	}
	if round.Component != "trimmer" || round.Version != "0.3.1" || round.Engine != "native" {
		t.Errorf("unexpected build info %+v", round)
	}
	if round.BuildID == "" {
		t.Error("build id not set")
	}
}

func TestWriteMissingResource(t *testing.T) {
	ctx := context.Background()
	comp := &component.Component{
		Name:      "trimmer",
		Dir:       t.TempDir(),
		Resources: []component.Resource{{Path: "gone.sh"}},
	}
	tgt, err := New(ctx, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer tgt.Close()
	if err := tgt.Write(ctx, comp, []byte("x"), &BuildInfo{}); err == nil {
		t.Fatal("expected error for missing resource")
	}
}

func TestAnonymize(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	tests := []struct {
		in   string
		want string
	}{
		{filepath.Join(home, "work", "config.yaml"), filepath.Join("~", "work", "config.yaml")},
		{home, "~"},
		{"/opt/configs/config.yaml", "/opt/configs/config.yaml"},
	}
	for _, tt := range tests {
		if got := Anonymize(tt.in); got != tt.want {
			t.Errorf("Anonymize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
