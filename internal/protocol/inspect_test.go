package protocol

import "testing"

func TestFields(t *testing.T) {
	fields, err := Fields([]byte(mockInquiryReply))
	if err != nil {
		t.Fatalf("Fields() error = %v", err)
	}

	tests := []struct {
		key  string
		want string
	}{
		{"Types", "inquiry"},
		{"DeviceSN", "DS-2CD2042WD-I20160101AAWR123456789"},
		{"HCPlatformEnable", "flase"},
		{"Encrypt", "true"},
		{"CommandPort", "8000"},
	}

	for _, tt := range tests {
		if got := fields[tt.key]; got != tt.want {
			t.Errorf("Fields()[%q] = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestFields_Malformed(t *testing.T) {
	if _, err := Fields([]byte("<ProbeMatch><Types>inquiry")); err == nil {
		t.Error("Fields() should fail on a truncated document")
	}
}

func TestRoot(t *testing.T) {
	root, err := Root([]byte(mockInquiryReply))
	if err != nil {
		t.Fatalf("Root() error = %v", err)
	}
	if root != RootProbeMatch {
		t.Errorf("Root() = %q, want %q", root, RootProbeMatch)
	}

	data, err := Encode(Inquiry{UUID: "u"})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	root, err = Root(data)
	if err != nil {
		t.Fatalf("Root() error = %v", err)
	}
	if root != RootProbe {
		t.Errorf("Root() = %q, want %q", root, RootProbe)
	}
}
