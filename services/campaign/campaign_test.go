package campaign

import "testing"

func TestHasCharacterName(t *testing.T) {
	players := []CampaignPlayer{
		{UserID: "u1", CharacterName: "Thorin"},
		{UserID: "u2", CharacterName: "Elara Moonwhisper"},
	}

	tests := []struct {
		name      string
		candidate string
		want      bool
	}{
		{"exact match", "Thorin", true},
		{"case-insensitive match", "thorin", true},
		{"mixed case match", "ELARA moonwhisper", true},
		{"distinct name", "Grimnir", false},
		{"prefix is not a collision", "Thor", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hasCharacterName(players, tt.candidate); got != tt.want {
				t.Errorf("hasCharacterName(%q) = %v, want %v", tt.candidate, got, tt.want)
			}
		})
	}

	t.Run("empty roster", func(t *testing.T) {
		if hasCharacterName(nil, "Thorin") {
			t.Error("hasCharacterName on empty roster = true, want false")
		}
	})
}
