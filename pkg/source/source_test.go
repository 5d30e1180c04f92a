package source

import "testing"

func TestNormalizeEntityName(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain label", "Aspirin", "Aspirin"},
		{"dbpedia uri", "http://dbpedia.org/resource/Warfarin", "Warfarin"},
		{"uri with underscores", "http://dbpedia.org/resource/Acetylsalicylic_acid", "Acetylsalicylic acid"},
		{"percent escapes", "http://dbpedia.org/resource/Vitamin%20K", "Vitamin K"},
		{"label with underscores", "Acetylsalicylic_acid", "Acetylsalicylic acid"},
		{"extra whitespace", "  Aspirin   tablet ", "Aspirin tablet"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeEntityName(tt.raw); got != tt.want {
				t.Errorf("NormalizeEntityName(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestSubjectIdentifier(t *testing.T) {
	tests := []struct {
		subject string
		want    string
	}{
		{"Aspirin", "Aspirin"},
		{"Acetylsalicylic acid", "Acetylsalicylic_acid"},
		{" Vitamin K ", "Vitamin_K"},
	}

	for _, tt := range tests {
		if got := SubjectIdentifier(tt.subject); got != tt.want {
			t.Errorf("SubjectIdentifier(%q) = %q, want %q", tt.subject, got, tt.want)
		}
	}
}

func TestResultOK(t *testing.T) {
	ok := Success("x", []string{"a"})
	if !ok.OK() {
		t.Error("Success result must be OK")
	}

	failed := Failure("x", errTest)
	if failed.OK() {
		t.Error("Failure result must not be OK")
	}
	if len(failed.Neighbors) != 0 {
		t.Error("Failure result must carry an empty neighbor set")
	}
}
