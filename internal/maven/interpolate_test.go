package maven

import "testing"

func TestInterpolate(t *testing.T) {
	props := map[string]string{
		"a":       "1",
		"b":       "${a}.2",
		"cycle.x": "${cycle.y}",
		"cycle.y": "${cycle.x}",
	}

	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"${a}", "1"},
		{"v${b}", "v1.2"},
		{"${unknown}", "${unknown}"},
		{"${a}-${a}", "1-1"},
	}
	for _, tt := range tests {
		if got := Interpolate(tt.in, props); got != tt.want {
			t.Errorf("Interpolate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	// Cycles terminate at the depth limit instead of spinning.
	got := Interpolate("${cycle.x}", props)
	if got != "${cycle.x}" && got != "${cycle.y}" {
		t.Errorf("cyclic interpolation did not settle: %q", got)
	}
}

func TestProjectProperties(t *testing.T) {
	pom := &Pom{
		GroupID:    "org.example",
		ArtifactID: "app",
		Version:    "3.0.0",
		Properties: map[string]string{"local": "x"},
	}
	props := projectProperties(pom, map[string]string{"inherited": "y", "local": "shadowed"})

	if props["project.version"] != "3.0.0" || props["pom.groupId"] != "org.example" {
		t.Errorf("built-in properties missing: %v", props)
	}
	if props["local"] != "x" {
		t.Errorf("local property should shadow inherited, got %q", props["local"])
	}
	if props["inherited"] != "y" {
		t.Errorf("inherited property lost: %v", props)
	}
}
