package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/muurk/sadp/internal/device"
)

var seenCamera = device.Record{
	Serial:          "DS-2CD2042WD-I20160101AAWR123456789",
	Description:     "DS-2CD2042WD-I",
	MAC:             "44-19-b6-11-22-33",
	IPv4Address:     "192.168.1.64",
	SoftwareVersion: "V5.4.5build 170123",
	Activated:       true,
}

func TestGetConfigDir(t *testing.T) {
	if runtime.GOOS != "windows" && runtime.GOOS != "darwin" {
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	}

	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if filepath.Base(configDir) != "sadp" {
		t.Errorf("GetConfigDir() = %v, should end in 'sadp'", configDir)
	}

	switch runtime.GOOS {
	case "windows":
		if !strings.Contains(configDir, "AppData") && !strings.Contains(configDir, "Local") {
			t.Errorf("Windows config dir should contain 'AppData' or 'Local', got: %v", configDir)
		}
	case "darwin":
		if !strings.Contains(configDir, ".config") {
			t.Errorf("macOS config dir should contain '.config', got: %v", configDir)
		}
	default:
		if configDir != filepath.Join("/tmp/xdg", "sadp") {
			t.Errorf("GetConfigDir() = %v, want XDG_CONFIG_HOME/sadp", configDir)
		}
	}
}

func TestGetPaths(t *testing.T) {
	registryPath, err := GetRegistryPath()
	if err != nil {
		t.Fatalf("GetRegistryPath() error = %v", err)
	}
	if filepath.Base(registryPath) != "config.yaml" {
		t.Errorf("GetRegistryPath() should end with 'config.yaml', got: %v", registryPath)
	}

	settingsPath, err := GetSettingsPath()
	if err != nil {
		t.Fatalf("GetSettingsPath() error = %v", err)
	}
	if filepath.Base(settingsPath) != "settings.yaml" {
		t.Errorf("GetSettingsPath() should end with 'settings.yaml', got: %v", settingsPath)
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry("/tmp/x.yaml")

	if reg.Version != 1 {
		t.Errorf("Version = %v, want 1", reg.Version)
	}
	if reg.Cameras == nil {
		t.Error("Cameras should not be nil")
	}
	if reg.Path() != "/tmp/x.yaml" {
		t.Errorf("Path() = %q", reg.Path())
	}
}

func TestRegistryEnsureCamera(t *testing.T) {
	reg := NewRegistry("")

	cam1 := reg.EnsureCamera("123456")
	if cam1 == nil {
		t.Fatal("EnsureCamera() returned nil")
	}
	if cam2 := reg.EnsureCamera("123456"); cam1 != cam2 {
		t.Error("EnsureCamera() should return same instance for same serial")
	}
	if cam3 := reg.EnsureCamera("789012"); cam1 == cam3 {
		t.Error("EnsureCamera() should create new instance for different serial")
	}

	// Zero-value registry
	var empty Registry
	if empty.EnsureCamera("1") == nil {
		t.Error("EnsureCamera() on zero Registry returned nil")
	}
}

func TestRegistryRecordSeen(t *testing.T) {
	reg := NewRegistry("")
	reg.SetNickname(seenCamera.Serial, "Front door")

	before := time.Now()
	reg.RecordSeen(seenCamera)
	after := time.Now()

	cam := reg.GetCamera(seenCamera.Serial)
	if cam == nil {
		t.Fatal("camera should exist after RecordSeen()")
	}
	if cam.LastIP != "192.168.1.64" {
		t.Errorf("LastIP = %v, want 192.168.1.64", cam.LastIP)
	}
	if cam.Model != "DS-2CD2042WD-I" || cam.MAC != "44-19-b6-11-22-33" || cam.Firmware != "V5.4.5build 170123" {
		t.Errorf("camera = %+v", cam)
	}
	if !cam.Activated {
		t.Error("Activated should be true")
	}
	if cam.Nickname != "Front door" {
		t.Errorf("Nickname = %q, RecordSeen() should keep it", cam.Nickname)
	}
	if cam.LastSeen.Before(before) || cam.LastSeen.After(after) {
		t.Errorf("LastSeen = %v, should be between %v and %v", cam.LastSeen, before, after)
	}
}

func TestRegistryRecordSeen_IgnoresEmptySerial(t *testing.T) {
	reg := NewRegistry("")
	reg.RecordSeen(device.Record{IPv4Address: "192.168.1.64"})
	if len(reg.Cameras) != 0 {
		t.Errorf("Cameras = %v, want none", reg.Cameras)
	}
}

func TestRegistryNicknames(t *testing.T) {
	reg := NewRegistry("")
	reg.SetNickname("SN-1", "Garage")

	if got := reg.Nickname("SN-1"); got != "Garage" {
		t.Errorf("Nickname(SN-1) = %q", got)
	}
	if got := reg.Nickname("SN-2"); got != "" {
		t.Errorf("Nickname(SN-2) = %q, want empty", got)
	}
	if got := reg.Resolve("Garage"); got != "SN-1" {
		t.Errorf("Resolve(Garage) = %q, want SN-1", got)
	}
	if got := reg.Resolve("SN-9"); got != "SN-9" {
		t.Errorf("Resolve(SN-9) = %q, want unchanged", got)
	}
}

func TestRegistryForgetAndSerials(t *testing.T) {
	reg := NewRegistry("")
	reg.EnsureCamera("b")
	reg.EnsureCamera("a")
	reg.EnsureCamera("c")

	if got := strings.Join(reg.Serials(), ","); got != "a,b,c" {
		t.Errorf("Serials() = %v, want sorted", got)
	}
	if !reg.Forget("b") {
		t.Error("Forget(b) = false, want true")
	}
	if reg.Forget("b") {
		t.Error("Forget(b) twice = true, want false")
	}
	if got := strings.Join(reg.Serials(), ","); got != "a,c" {
		t.Errorf("Serials() after Forget = %v", got)
	}
}

func TestRegistrySaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	reg, err := OpenRegistry(path)
	if err != nil {
		t.Fatalf("OpenRegistry() on missing file error = %v", err)
	}
	reg.RecordSeen(seenCamera)
	reg.SetNickname(seenCamera.Serial, "Front door")

	if err := reg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should be gone after Save()")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != 0600 {
		t.Errorf("file mode = %v, want 0600", info.Mode().Perm())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.HasPrefix(string(data), "# SADP known cameras") {
		t.Error("saved file should start with the header comment")
	}
	if strings.Contains(strings.ToLower(string(data)), "password:") {
		t.Error("registry must not contain a password field")
	}

	loaded, err := OpenRegistry(path)
	if err != nil {
		t.Fatalf("OpenRegistry() error = %v", err)
	}
	cam := loaded.GetCamera(seenCamera.Serial)
	if cam == nil {
		t.Fatal("camera missing after reload")
	}
	if cam.Nickname != "Front door" || cam.LastIP != "192.168.1.64" {
		t.Errorf("reloaded camera = %+v", cam)
	}
	if loaded.Path() != path {
		t.Errorf("Path() = %q, want %q", loaded.Path(), path)
	}
}

func TestLoadRegistry_DefaultLocation(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG_CONFIG_HOME only applies on Linux")
	}
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	reg, err := LoadRegistry()
	if err != nil {
		t.Fatalf("LoadRegistry() error = %v", err)
	}
	if reg.Path() != filepath.Join(dir, "sadp", "config.yaml") {
		t.Errorf("Path() = %q", reg.Path())
	}
}

func TestOpenRegistry_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"invalid yaml", "version: [1\n"},
		{"wrong version", "version: 2\ncameras: {}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			if _, err := OpenRegistry(path); err == nil {
				t.Error("OpenRegistry() should fail")
			}
		})
	}
}

func TestRegistrySave_NoPath(t *testing.T) {
	if err := NewRegistry("").Save(); err == nil {
		t.Error("Save() without a path should fail")
	}
}
