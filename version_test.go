package dsflint

import "testing"

func TestParseAPIVersion(t *testing.T) {
	tests := []struct {
		in      string
		want    APIVersion
		wantErr bool
	}{
		{"1", V1, false},
		{"v1", V1, false},
		{"2", V2, false},
		{"v2", V2, false},
		{"3", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseAPIVersion(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseAPIVersion(%q) should fail", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAPIVersion(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseAPIVersion(%q) = %s; want %s", tt.in, got, tt.want)
		}
	}
}

func TestAPIVersion_IsValid(t *testing.T) {
	if !V1.IsValid() || !V2.IsValid() {
		t.Error("V1 and V2 must be valid")
	}
	if APIVersion("3").IsValid() {
		t.Error("version 3 must be invalid")
	}
}
