package extract

import "testing"

func TestPropName(t *testing.T) {
	tests := []struct {
		name    string
		boolean bool
		want    string
	}{
		{"getName", false, "name"},
		{"GetName", false, "name"},
		{"isActive", true, "active"},
		{"isActive", false, ""},
		{"getActive", true, "active"},
		{"getURL", false, "URL"},
		{"getX", false, "x"},
		{"getter", false, ""},
		{"get", false, ""},
		{"name", false, ""},
		{"island", true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := propName(tt.name, tt.boolean); got != tt.want {
				t.Errorf("propName(%q, %v) = %q, want %q", tt.name, tt.boolean, got, tt.want)
			}
		})
	}
}
