package main

import (
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/chriscorrea/nearest/internal/app"
	"github.com/chriscorrea/nearest/internal/config"
)

// newTestCommand returns a fresh command with the nearest flags parsed from flags
func newTestCommand(t *testing.T, flags ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "nearest"}
	addFlags(cmd)
	if err := cmd.Flags().Parse(flags); err != nil {
		t.Fatalf("failed to parse flags %v: %v", flags, err)
	}
	return cmd
}

func TestBuildConfig(t *testing.T) {
	threshold := 0.2
	precision := 2
	fileConfig := config.Default()
	fileConfig.Threshold = &threshold
	fileConfig.Precision = &precision

	tests := []struct {
		name          string
		flags         []string
		args          []string
		terminal      bool
		wantSources   []string
		wantQuestion  string
		wantFormat    app.OutputFormat
		wantThreshold float64
		wantPrecision int
		wantSplit     app.SplitMode
		wantBM25      bool
		wantErr       bool
	}{
		{
			name:          "config defaults on a terminal",
			terminal:      true,
			wantQuestion:  fileConfig.Question,
			wantFormat:    app.Markdown,
			wantThreshold: 0.2,
			wantPrecision: 2,
		},
		{
			name:          "piped stdin",
			terminal:      false,
			wantSources:   []string{"-"},
			wantQuestion:  fileConfig.Question,
			wantFormat:    app.Markdown,
			wantThreshold: 0.2,
			wantPrecision: 2,
		},
		{
			name:          "flags override config",
			flags:         []string{"-q", "¿Qué animal maúlla?", "--json", "--threshold", "0.05", "-p", "4", "--split", "sentences", "--bm25"},
			args:          []string{"docs.txt", "https://example.com"},
			terminal:      true,
			wantSources:   []string{"docs.txt", "https://example.com"},
			wantQuestion:  "¿Qué animal maúlla?",
			wantFormat:    app.JSON,
			wantThreshold: 0.05,
			wantPrecision: 4,
			wantSplit:     app.Sentences,
			wantBM25:      true,
		},
		{
			name:     "threshold out of range",
			flags:    []string{"--threshold", "1"},
			terminal: true,
			wantErr:  true,
		},
		{
			name:     "precision out of range",
			flags:    []string{"--precision", "11"},
			terminal: true,
			wantErr:  true,
		},
		{
			name:     "unknown split mode",
			flags:    []string{"--split", "words"},
			terminal: true,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newTestCommand(t, tt.flags...)
			cfg, err := buildConfig(cmd, tt.args, fileConfig, tt.terminal)
			if tt.wantErr {
				if err == nil {
					t.Errorf("buildConfig() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("buildConfig() unexpected error: %v", err)
			}

			if len(cfg.Sources) != len(tt.wantSources) {
				t.Fatalf("Sources = %v, want %v", cfg.Sources, tt.wantSources)
			}
			for i := range cfg.Sources {
				if cfg.Sources[i] != tt.wantSources[i] {
					t.Errorf("Sources[%d] = %q, want %q", i, cfg.Sources[i], tt.wantSources[i])
				}
			}
			if cfg.Question != tt.wantQuestion {
				t.Errorf("Question = %q, want %q", cfg.Question, tt.wantQuestion)
			}
			if cfg.OutputFormat != tt.wantFormat {
				t.Errorf("OutputFormat = %v, want %v", cfg.OutputFormat, tt.wantFormat)
			}
			if cfg.Analysis.Threshold != tt.wantThreshold {
				t.Errorf("Threshold = %v, want %v", cfg.Analysis.Threshold, tt.wantThreshold)
			}
			if cfg.Precision != tt.wantPrecision {
				t.Errorf("Precision = %d, want %d", cfg.Precision, tt.wantPrecision)
			}
			if cfg.Split != tt.wantSplit {
				t.Errorf("Split = %v, want %v", cfg.Split, tt.wantSplit)
			}
			if cfg.Analysis.CompareBM25 != tt.wantBM25 {
				t.Errorf("CompareBM25 = %v, want %v", cfg.Analysis.CompareBM25, tt.wantBM25)
			}
			if cfg.DefaultDocuments != fileConfig.Documents {
				t.Errorf("DefaultDocuments not taken from config")
			}
		})
	}
}

func TestEffectiveConfigRoundTrip(t *testing.T) {
	defaults := config.Default()
	cmd := newTestCommand(t, "-q", "¿Qué animal maúlla?", "--threshold", "0.1", "--precision", "5")
	cfg, err := buildConfig(cmd, nil, defaults, true)
	if err != nil {
		t.Fatalf("buildConfig() unexpected error: %v", err)
	}

	path := filepath.Join(t.TempDir(), "nested", "nearest.yaml")
	if err := config.Save(path, effectiveConfig(defaults, cfg)); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}

	loaded, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if loaded.Question != "¿Qué animal maúlla?" {
		t.Errorf("Question = %q", loaded.Question)
	}
	if loaded.ThresholdValue() != 0.1 {
		t.Errorf("Threshold = %v, want 0.1", loaded.ThresholdValue())
	}
	if loaded.PrecisionValue() != 5 {
		t.Errorf("Precision = %d, want 5", loaded.PrecisionValue())
	}
	if loaded.Documents != defaults.Documents || len(loaded.Suggestions) != len(defaults.Suggestions) {
		t.Errorf("documents or suggestions not preserved")
	}
}
