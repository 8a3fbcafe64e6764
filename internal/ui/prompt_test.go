package ui

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
)

func pipeWith(t *testing.T, input string) *os.File {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.WriteString(input); err != nil {
		t.Fatal(err)
	}
	w.Close()
	t.Cleanup(func() { r.Close() })
	return r
}

func TestReadPassword_Piped(t *testing.T) {
	var out bytes.Buffer
	got, err := ReadPassword(pipeWith(t, "12345\n"), &out, "Password: ")
	if err != nil {
		t.Fatalf("ReadPassword() error = %v", err)
	}
	if got != "12345" {
		t.Errorf("ReadPassword() = %q, want 12345", got)
	}
	if out.String() != "Password: " {
		t.Errorf("prompt = %q", out.String())
	}
}

func TestReadPassword_NoTrailingNewline(t *testing.T) {
	got, err := ReadPassword(pipeWith(t, "abc\r\n"), &bytes.Buffer{}, "")
	if err != nil || got != "abc" {
		t.Errorf("ReadPassword() = %q, %v", got, err)
	}

	got, err = ReadPassword(pipeWith(t, "xyz"), &bytes.Buffer{}, "")
	if err != nil || got != "xyz" {
		t.Errorf("ReadPassword() without newline = %q, %v", got, err)
	}
}

func TestReadPassword_Empty(t *testing.T) {
	_, err := ReadPassword(pipeWith(t, "\n"), &bytes.Buffer{}, "")
	if !errors.Is(err, ErrEmptyPassword) {
		t.Errorf("ReadPassword() error = %v, want ErrEmptyPassword", err)
	}

	if _, err := ReadPassword(pipeWith(t, ""), &bytes.Buffer{}, ""); err == nil {
		t.Error("ReadPassword() on closed input should fail")
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{" yes \n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		got := Confirm(strings.NewReader(tt.input), &out, "Change network settings", []string{"DHCP: off → on"})
		if got != tt.want {
			t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if !strings.Contains(out.String(), "DHCP: off → on") {
			t.Errorf("Confirm() should list the changes, got:\n%s", out.String())
		}
	}
}

func TestConfirmThenPassword(t *testing.T) {
	in := pipeWith(t, "y\nsecret\n")
	var out bytes.Buffer

	if !Confirm(in, &out, "Change", []string{"DHCP: off → on"}) {
		t.Fatal("Confirm() = false, want true")
	}
	got, err := ReadPassword(in, &out, "Password: ")
	if err != nil {
		t.Fatalf("ReadPassword() error = %v", err)
	}
	if got != "secret" {
		t.Errorf("ReadPassword() = %q, want the line after the confirmation", got)
	}
}
