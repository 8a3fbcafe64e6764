package device

import "testing"

func TestValidateIPv4(t *testing.T) {
	tests := []struct {
		addr    string
		wantErr bool
	}{
		{"192.168.1.64", false},
		{"0.0.0.0", false},
		{"10.0.0.256", true},
		{"::1", true},
		{"", true},
		{"camera.local", true},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			err := ValidateIPv4("IPv4Address", tt.addr)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateIPv4(%q) error = %v, wantErr %v", tt.addr, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSubnetMask(t *testing.T) {
	tests := []struct {
		mask    string
		wantErr bool
	}{
		{"255.255.255.0", false},
		{"255.255.0.0", false},
		{"255.255.255.252", false},
		{"255.0.255.0", true},
		{"255.255.255.1", true},
		{"not-a-mask", true},
	}

	for _, tt := range tests {
		t.Run(tt.mask, func(t *testing.T) {
			err := ValidateSubnetMask(tt.mask)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSubnetMask(%q) error = %v, wantErr %v", tt.mask, err, tt.wantErr)
			}
		})
	}
}

func TestValidateGateway(t *testing.T) {
	tests := []struct {
		name    string
		gateway string
		wantErr bool
	}{
		{"same subnet", "192.168.1.1", false},
		{"unset", "0.0.0.0", false},
		{"other subnet", "192.168.2.1", true},
		{"invalid", "gateway", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGateway("192.168.1.64", "255.255.255.0", tt.gateway)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateGateway(%q) error = %v, wantErr %v", tt.gateway, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePort(t *testing.T) {
	tests := []struct {
		port    int
		wantErr bool
	}{
		{80, false},
		{8000, false},
		{1, false},
		{65535, false},
		{0, true},
		{-1, true},
		{65536, true},
	}

	for _, tt := range tests {
		err := ValidatePort("HttpPort", tt.port)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePort(%d) error = %v, wantErr %v", tt.port, err, tt.wantErr)
		}
	}
}

func TestValidateIPv6(t *testing.T) {
	for _, addr := range []string{"::", "fe80::1", "2001:db8::64"} {
		if err := ValidateIPv6("IPv6Address", addr); err != nil {
			t.Errorf("ValidateIPv6(%q) error = %v", addr, err)
		}
	}
	for _, addr := range []string{"192.168.1.1", "", "fe80:::1"} {
		if err := ValidateIPv6("IPv6Address", addr); err == nil {
			t.Errorf("ValidateIPv6(%q) should fail", addr)
		}
	}
}

func TestValidateIPv6Prefix(t *testing.T) {
	tests := []struct {
		prefix  int
		wantErr bool
	}{
		{0, false},
		{64, false},
		{128, false},
		{129, true},
		{-1, true},
	}

	for _, tt := range tests {
		err := ValidateIPv6Prefix(tt.prefix)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateIPv6Prefix(%d) error = %v, wantErr %v", tt.prefix, err, tt.wantErr)
		}
	}
}

func TestOverrides_Validate(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		if errs := (Overrides{}).Validate(); len(errs) != 0 {
			t.Errorf("Validate() = %v, want none", errs)
		}
	})

	t.Run("all valid", func(t *testing.T) {
		o := Overrides{
			DHCP:             ptr(false),
			IPv4Address:      ptr("192.168.1.10"),
			IPv4SubnetMask:   ptr("255.255.255.0"),
			IPv4Gateway:      ptr("192.168.1.1"),
			CommandPort:      ptr(8000),
			HTTPPort:         ptr(80),
			IPv6Address:      ptr("::"),
			IPv6Gateway:      ptr("::"),
			IPv6PrefixLength: ptr(64),
		}
		if errs := o.Validate(); len(errs) != 0 {
			t.Errorf("Validate() = %v, want none", errs)
		}
	})

	t.Run("collects every problem", func(t *testing.T) {
		o := Overrides{
			IPv4Address:      ptr("nope"),
			HTTPPort:         ptr(0),
			IPv6PrefixLength: ptr(200),
		}
		errs := o.Validate()
		if len(errs) != 3 {
			t.Fatalf("Validate() returned %d errors, want 3: %v", len(errs), errs)
		}
		for _, err := range errs {
			if !IsValidationError(err) {
				t.Errorf("error %v is not a *ValidationError", err)
			}
		}
	})
}
