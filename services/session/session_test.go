package session

import (
	"testing"
	"time"
)

func TestNextSessionNumber(t *testing.T) {
	tests := []struct {
		name            string
		totalSessions   int64
		highestExisting int64
		want            int64
	}{
		{"fresh campaign", 0, 0, 1},
		{"counter and numbers in sync", 3, 3, 4},
		{"after a deletion numbers win", 2, 3, 4},
		{"counter ahead of documents", 5, 3, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nextSessionNumber(tt.totalSessions, tt.highestExisting); got != tt.want {
				t.Errorf("nextSessionNumber(%d, %d) = %d, want %d", tt.totalSessions, tt.highestExisting, got, tt.want)
			}
		})
	}

	t.Run("sequence with deletion never reuses a number", func(t *testing.T) {
		// Simulates: create 1, 2, 3; delete session 2; create again.
		var counter, highest int64
		var numbers []int64
		for i := 0; i < 3; i++ {
			n := nextSessionNumber(counter, highest)
			numbers = append(numbers, n)
			counter++
			highest = n
		}
		counter-- // delete session 2; highest existing number is still 3

		n := nextSessionNumber(counter, highest)
		numbers = append(numbers, n)

		want := []int64{1, 2, 3, 4}
		for i := range want {
			if numbers[i] != want[i] {
				t.Fatalf("numbers = %v, want %v", numbers, want)
			}
		}
	})
}

func TestUpsertPlayer(t *testing.T) {
	now := time.Now()
	roster := []SessionPlayer{
		{UserID: "u1", CharacterName: "Thorin", Attended: false, JoinedAt: now},
		{UserID: "u2", CharacterName: "Elara", Attended: true, JoinedAt: now},
	}

	t.Run("appends a new player", func(t *testing.T) {
		got := upsertPlayer(roster, SessionPlayer{UserID: "u3", CharacterName: "Grimnir"})
		if len(got) != 3 {
			t.Fatalf("len = %d, want 3", len(got))
		}
		if got[2].UserID != "u3" {
			t.Errorf("appended player = %q, want u3", got[2].UserID)
		}
	})

	t.Run("replaces an existing entry", func(t *testing.T) {
		got := upsertPlayer(roster, SessionPlayer{UserID: "u1", CharacterName: "Thorin", Attended: true})
		if len(got) != 2 {
			t.Fatalf("len = %d, want 2", len(got))
		}
		if !got[0].Attended {
			t.Error("expected attendance to be updated")
		}
	})

	t.Run("does not mutate the input roster", func(t *testing.T) {
		_ = upsertPlayer(roster, SessionPlayer{UserID: "u2", CharacterName: "Elara", Attended: false})
		if !roster[1].Attended {
			t.Error("input roster was mutated")
		}
	})
}
