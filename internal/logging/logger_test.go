package logging

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"debug", zapcore.DebugLevel, false},
		{"INFO", zapcore.InfoLevel, false},
		{"warning", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"verbose", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestInitialize_SilentByDefault(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")
	if err := Initialize(""); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if GetLogger().Core().Enabled(zapcore.ErrorLevel) {
		t.Error("logger should be silent when no level is configured")
	}
}

func TestInitialize_FromEnv(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "warn")
	if err := InitializeFromEnv(); err != nil {
		t.Fatalf("InitializeFromEnv() error = %v", err)
	}
	core := GetLogger().Core()
	if !core.Enabled(zapcore.WarnLevel) || core.Enabled(zapcore.InfoLevel) {
		t.Error("logger level should be warn")
	}
}

func TestInitialize_UnknownLevel(t *testing.T) {
	if err := Initialize("chatty"); err == nil {
		t.Error("Initialize(\"chatty\") should fail")
	}
}

func TestLogPacket(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	LogPacket("received", "192.168.1.64:37020", []byte(`<ProbeMatch><Types>inquiry</Types><MAC>44-19-b6-11-22-33</MAC></ProbeMatch>`))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["direction"] != "received" {
		t.Errorf("direction = %v", ctx["direction"])
	}
	fields, ok := ctx["fields"].(map[string]string)
	if !ok {
		t.Fatalf("fields = %#v, want map[string]string", ctx["fields"])
	}
	if fields["MAC"] != "44-19-b6-11-22-33" {
		t.Errorf("fields[MAC] = %q", fields["MAC"])
	}
}

func TestLogPacket_SkippedAboveDebug(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	LogPacket("sent", "255.255.255.255:37020", []byte("<Probe/>"))
	if logs.Len() != 0 {
		t.Errorf("got %d entries at info level, want 0", logs.Len())
	}
}

func TestAsciiDump(t *testing.T) {
	if got := asciiDump([]byte("ab\x00\ncd")); got != "ab..cd" {
		t.Errorf("asciiDump() = %q, want %q", got, "ab..cd")
	}

	long := []byte(strings.Repeat("x", maxDumpBytes+10))
	if got := asciiDump(long); len(got) != maxDumpBytes {
		t.Errorf("len(asciiDump(long)) = %d, want %d", len(got), maxDumpBytes)
	}
	if got := hexDump(long); !strings.HasSuffix(got, "...") {
		t.Error("hexDump(long) should be truncated")
	}
}
