package achievement

import (
	"errors"
	"testing"

	"questTally/utils"
)

func validInput() CreateInput {
	return CreateInput{
		Name:        "Monster Slayer",
		Description: "Defeat monsters in combat",
		BasePoints:  10,
		CreatedBy:   "user-1",
		Upgrades: []UpgradeInput{
			{Name: "Veteran Slayer", Description: "Defeat 5 monsters", RequiredCount: 5, Points: 25},
			{Name: "Legendary Slayer", Description: "Defeat 20 monsters", RequiredCount: 20, Points: 100},
		},
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid input passes", func(t *testing.T) {
		if err := Validate(validInput()); err != nil {
			t.Errorf("Validate() = %v, want nil", err)
		}
	})

	t.Run("no upgrades is valid", func(t *testing.T) {
		input := validInput()
		input.Upgrades = nil
		if err := Validate(input); err != nil {
			t.Errorf("Validate() = %v, want nil", err)
		}
	})

	tests := []struct {
		name      string
		mutate    func(*CreateInput)
		wantField string
	}{
		{
			name:      "empty name",
			mutate:    func(in *CreateInput) { in.Name = "   " },
			wantField: "name",
		},
		{
			name:      "empty description",
			mutate:    func(in *CreateInput) { in.Description = "" },
			wantField: "description",
		},
		{
			name:      "negative base points",
			mutate:    func(in *CreateInput) { in.BasePoints = -1 },
			wantField: "basePoints",
		},
		{
			name:      "empty upgrade name",
			mutate:    func(in *CreateInput) { in.Upgrades[1].Name = " " },
			wantField: "upgrades[1].name",
		},
		{
			name:      "empty upgrade description",
			mutate:    func(in *CreateInput) { in.Upgrades[0].Description = "" },
			wantField: "upgrades[0].description",
		},
		{
			name:      "zero required count",
			mutate:    func(in *CreateInput) { in.Upgrades[0].RequiredCount = 0 },
			wantField: "upgrades[0].requiredCount",
		},
		{
			name:      "non-increasing required count",
			mutate:    func(in *CreateInput) { in.Upgrades[1].RequiredCount = 5 },
			wantField: "upgrades[1].requiredCount",
		},
		{
			name:      "negative upgrade points",
			mutate:    func(in *CreateInput) { in.Upgrades[1].Points = -5 },
			wantField: "upgrades[1].points",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(&input)
			err := Validate(input)
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("Validate() = %T, want *ValidationError", err)
			}
			if vErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", vErr.Field, tt.wantField)
			}
		})
	}

	t.Run("reports first violated field", func(t *testing.T) {
		input := validInput()
		input.Name = ""
		input.BasePoints = -1
		err := Validate(input)
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("Validate() = %T, want *ValidationError", err)
		}
		if vErr.Field != "name" {
			t.Errorf("Field = %q, want %q", vErr.Field, "name")
		}
	})

	t.Run("explicit private flag honored", func(t *testing.T) {
		input := validInput()
		input.IsPublic = utils.ToPointer(false)
		if err := Validate(input); err != nil {
			t.Errorf("Validate() = %v, want nil", err)
		}
	})
}
