package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/san-kum/portalsim/internal/config"
	"github.com/san-kum/portalsim/internal/experiment"
)

func snapshotConfig() experiment.Config {
	cfg := config.DefaultConfig()
	cfg.Width, cfg.Height = 200, 120
	cfg.Field.Count = 20
	cfg.Terrain.Count = 5
	return experiment.Config{Portal: cfg, Frames: 3, Seed: 1, Pointer: "idle"}
}

func TestRenderSnapshot(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
		marker  string
	}{
		{"svg", false, "<svg"},
		{"braille", false, "<svg"},
		{"png", false, "\x89PNG"},
		{"gif", true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			write, res, err := renderSnapshot(context.Background(), snapshotConfig(), tt.format, false)
			if tt.wantErr {
				if err == nil || write != nil {
					t.Fatal("expected an error and no writer for an unknown format")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if len(res.Frames) == 0 {
				t.Error("experiment recorded no frames")
			}
			var buf bytes.Buffer
			if err := write(&buf); err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(buf.String(), tt.marker) {
				t.Errorf("%s output missing %q", tt.format, tt.marker)
			}
		})
	}
}
