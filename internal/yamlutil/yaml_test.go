package yamlutil_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-mdlatex/internal/yamlutil"
)

type serverSection struct {
	Addr string `yaml:"addr"`
}

type testConfig struct {
	Server serverSection `yaml:"server"`
	Width  float64       `yaml:"width"`
}

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		dest    any
		wantErr error
		anyErr  bool
	}{
		{
			name: "valid YAML",
			data: []byte("server:\n  addr: 127.0.0.1:9000\nwidth: 420"),
			dest: &testConfig{},
		},
		{
			name:    "nil data",
			data:    nil,
			dest:    &testConfig{},
			wantErr: yamlutil.ErrNilData,
		},
		{
			name:    "nil destination",
			data:    []byte("width: 1"),
			dest:    nil,
			wantErr: yamlutil.ErrNilDestination,
		},
		{
			name:   "unknown field rejected",
			data:   []byte("server:\n  port: 80"),
			dest:   &testConfig{},
			anyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.UnmarshalStrict(tt.data, tt.dest)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if tt.anyErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			cfg := tt.dest.(*testConfig)
			if cfg.Server.Addr != "127.0.0.1:9000" || cfg.Width != 420 {
				t.Errorf("decoded %+v", cfg)
			}
		})
	}
}

func TestUnmarshalStrict_TooLarge(t *testing.T) {
	t.Parallel()

	data := []byte("width: " + strings.Repeat("9", yamlutil.MaxInputSize+1))
	err := yamlutil.UnmarshalStrict(data, &testConfig{})
	if !errors.Is(err, yamlutil.ErrInputTooLarge) {
		t.Errorf("expected ErrInputTooLarge, got %v", err)
	}
}

func TestMarshal(t *testing.T) {
	t.Parallel()

	out, err := yamlutil.Marshal(testConfig{Server: serverSection{Addr: "localhost:1"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(out), "addr: localhost:1") {
		t.Errorf("output missing addr: %s", out)
	}
}
