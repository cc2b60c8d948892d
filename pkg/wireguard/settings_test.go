package wireguard

import "testing"

func TestValidateAllowedRanges(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"single", "10.8.0.0/24", 1, false},
		{"mixed families", "10.8.0.0/24, fd00::/64", 2, false},
		{"default route", "0.0.0.0/0,::/0", 2, false},
		{"empty", "", 0, false},
		{"blank items", " , ,", 0, false},
		{"missing mask", "10.8.0.1", 0, true},
		{"garbage", "10.8.0.0/24,nope", 0, true},
		{"bad mask", "10.8.0.0/33", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateAllowedRanges(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateAllowedRanges(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if len(got) != tt.want {
				t.Errorf("ValidateAllowedRanges(%q) = %v, want %d prefixes", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateDNS(t *testing.T) {
	if got, err := ValidateDNS("1.1.1.1, 2606:4700:4700::1111"); err != nil || len(got) != 2 {
		t.Errorf("ValidateDNS(valid) = %v, %v", got, err)
	}
	if _, err := ValidateDNS("dns.example.com"); err == nil {
		t.Error("ValidateDNS(hostname) error = nil, want error")
	}
}

func TestValidatePort(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"", false},
		{"51820", false},
		{" 1 ", false},
		{"0", true},
		{"65536", true},
		{"abc", true},
	}
	for _, tt := range tests {
		if err := ValidatePort(tt.input); (err != nil) != tt.wantErr {
			t.Errorf("ValidatePort(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}
