package player

import (
	"strings"
	"testing"
)

func strPtr(s string) *string     { return &s }
func intPtr(v int) *int           { return &v }
func posPtr(p Position) *Position { return &p }

func TestPatchValidate(t *testing.T) {
	cases := []struct {
		name    string
		patch   Patch
		wantErr string
	}{
		{
			name:  "full valid patch",
			patch: Patch{Name: strPtr("Bukayo Saka"), Position: posPtr(PositionForward), Age: intPtr(23), Nationality: strPtr("England")},
		},
		{
			name:  "empty patch is valid",
			patch: Patch{},
		},
		{
			name:    "blank name",
			patch:   Patch{Name: strPtr("   ")},
			wantErr: "player name cannot be empty",
		},
		{
			name:    "age below minimum",
			patch:   Patch{Age: intPtr(15)},
			wantErr: "player age must be between 16 and 50",
		},
		{
			name:    "age above maximum",
			patch:   Patch{Age: intPtr(51)},
			wantErr: "player age must be between 16 and 50",
		},
		{
			name:  "age boundaries pass",
			patch: Patch{Age: intPtr(16)},
		},
		{
			name:  "upper age boundary passes",
			patch: Patch{Age: intPtr(50)},
		},
		{
			name:    "blank nationality",
			patch:   Patch{Nationality: strPtr("")},
			wantErr: "player nationality cannot be empty",
		},
		{
			name:    "unknown position",
			patch:   Patch{Position: posPtr(Position("STRIKER"))},
			wantErr: "invalid player position",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.patch.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestPatchIsEmpty(t *testing.T) {
	if !(Patch{}).IsEmpty() {
		t.Fatal("zero patch must be empty")
	}
	if (Patch{Age: intPtr(20)}).IsEmpty() {
		t.Fatal("patch with a field must not be empty")
	}
}
