package module

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/krsacme/ansible-modules-extras/pkg/imagestate"
)

func TestParseArgs_Defaults(t *testing.T) {
	args, err := ParseArgs(map[string]any{"name": "rhel7/rsyslog"})
	if err != nil {
		t.Fatalf("ParseArgs() error = %v", err)
	}

	want := imagestate.Params{Name: "rhel7/rsyslog", State: imagestate.StateStarted}
	if args.Params != want {
		t.Errorf("Params = %+v, want %+v", args.Params, want)
	}
	if args.CheckMode {
		t.Error("CheckMode should default to false")
	}
}

func TestParseArgs_Booleans(t *testing.T) {
	tests := []struct {
		value any
		want  bool
	}{
		{true, true},
		{false, false},
		{"yes", true},
		{"no", false},
		{"True", true},
		{"off", false},
		{"1", true},
		{0, false},
		{1, true},
	}

	for _, tt := range tests {
		args, err := ParseArgs(map[string]any{"name": "rhel7/rsyslog", "upgrade": tt.value})
		if err != nil {
			t.Errorf("upgrade=%v: unexpected error: %v", tt.value, err)
			continue
		}
		if args.Params.Upgrade != tt.want {
			t.Errorf("upgrade=%v: Upgrade = %v, want %v", tt.value, args.Params.Upgrade, tt.want)
		}
	}
}

func TestParseArgs_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		want string
	}{
		{
			name: "unsupported parameters",
			raw:  map[string]any{"name": "x", "tag": "latest", "force": true},
			want: "Unsupported parameters for (atomic_image) module: force, tag. Supported parameters include: name, state, upgrade",
		},
		{
			name: "missing name",
			raw:  map[string]any{"state": "stopped"},
			want: "missing required arguments: name",
		},
		{
			name: "null name",
			raw:  map[string]any{"name": nil},
			want: "missing required arguments: name",
		},
		{
			name: "bad state",
			raw:  map[string]any{"name": "x", "state": "restarted"},
			want: "value of state must be one of: started, stopped, got: restarted",
		},
		{
			name: "bad boolean",
			raw:  map[string]any{"name": "x", "upgrade": "maybe"},
			want: "argument upgrade is of type string and we were unable to convert to bool",
		},
		{
			name: "unsupported wins over missing",
			raw:  map[string]any{"image": "x"},
			want: "Unsupported parameters for (atomic_image) module: image. Supported parameters include: name, state, upgrade",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseArgs(tt.raw)
			var argErr *ArgumentError
			if !stderrors.As(err, &argErr) {
				t.Fatalf("ParseArgs() error = %v, want *ArgumentError", err)
			}
			if argErr.Msg != tt.want {
				t.Errorf("Msg = %q, want %q", argErr.Msg, tt.want)
			}
		})
	}
}

func TestParseArgs_InternalKeys(t *testing.T) {
	args, err := ParseArgs(map[string]any{
		"name":                "rhel7/rsyslog",
		"_ansible_check_mode": true,
		"_ansible_no_log":     false,
		"_ansible_verbosity":  3,
	})
	if err != nil {
		t.Fatalf("ParseArgs() error = %v", err)
	}
	if !args.CheckMode {
		t.Error("CheckMode should be true")
	}
}

func TestLoadArgs(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		want    imagestate.Params
	}{
		{
			name:    "json",
			content: `{"name": "rhel7/rsyslog", "state": "stopped", "upgrade": "yes"}`,
			want:    imagestate.Params{Name: "rhel7/rsyslog", State: imagestate.StateStopped, Upgrade: true},
		},
		{
			name:    "wrapped json",
			content: `{"ANSIBLE_MODULE_ARGS": {"name": "fedora/etcd"}}`,
			want:    imagestate.Params{Name: "fedora/etcd", State: imagestate.StateStarted},
		},
		{
			name:    "json escaped solidus",
			content: `{"name": "rhel7\/rsyslog", "upgrade": 1}`,
			want:    imagestate.Params{Name: "rhel7/rsyslog", State: imagestate.StateStarted, Upgrade: true},
		},
		{
			name:    "json duplicate keys keep last",
			content: `{"name": "fedora/etcd", "name": "rhel7/rsyslog", "state": "started", "state": "stopped"}`,
			want:    imagestate.Params{Name: "rhel7/rsyslog", State: imagestate.StateStopped},
		},
		{
			name:    "yaml",
			content: "name: fedora/etcd\nupgrade: true\n",
			want:    imagestate.Params{Name: "fedora/etcd", State: imagestate.StateStarted, Upgrade: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".args")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatalf("failed to write args file: %v", err)
			}

			raw, err := LoadArgs(path)
			if err != nil {
				t.Fatalf("LoadArgs() error = %v", err)
			}
			args, err := ParseArgs(raw)
			if err != nil {
				t.Fatalf("ParseArgs() error = %v", err)
			}
			if args.Params != tt.want {
				t.Errorf("Params = %+v, want %+v", args.Params, tt.want)
			}
		})
	}
}

func TestLoadArgs_Errors(t *testing.T) {
	if _, err := LoadArgs(filepath.Join(t.TempDir(), "missing.args")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := DecodeArgs([]byte(`{"name": [`)); err == nil {
		t.Error("expected error for malformed JSON")
	}
	if _, err := DecodeArgs([]byte(`{"ANSIBLE_MODULE_ARGS": "name=x"}`)); err == nil {
		t.Error("expected error for non-mapping envelope")
	}
}
