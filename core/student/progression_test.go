package student

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextClass(t *testing.T) {
	tests := []struct {
		name   string
		class  string
		level  Level
		want   string
		wantOK bool
	}{
		{"nursery first", "PS", LevelNursery, "MS", true},
		{"nursery terminal", "GS", LevelNursery, "", false},
		{"primary", "CM1", LevelPrimary, "CM2", true},
		{"primary terminal", "CM2", LevelPrimary, "", false},
		{"lower secondary", "6ème", LevelLowerSecondary, "5ème", true},
		{"lower secondary terminal", "3ème", LevelLowerSecondary, "", false},
		{"upper secondary", "2nde", LevelUpperSecondary, "1ère", true},
		{"upper secondary terminal", "Tle", LevelUpperSecondary, "", false},
		{"class not in level", "CM2", LevelLowerSecondary, "", false},
		{"unknown class", "CM3", LevelPrimary, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NextClass(tt.class, tt.level)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLevelForClass(t *testing.T) {
	tests := []struct {
		class  string
		want   Level
		wantOK bool
	}{
		{"GS", LevelNursery, true},
		{"CE2", LevelPrimary, true},
		{"4ème", LevelLowerSecondary, true},
		{"Tle", LevelUpperSecondary, true},
		{"Quatrième", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.class, func(t *testing.T) {
			got, ok := LevelForClass(tt.class)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStudent_Normalize(t *testing.T) {
	std := Student{
		EnrollmentNumber: " 2024001 ",
		LastName:         "  rakoto ",
		FirstName:        "niry  ",
		Class:            " CM2 ",
	}
	std.Normalize()

	assert.Equal(t, "2024001", std.EnrollmentNumber)
	assert.Equal(t, "RAKOTO", std.LastName)
	assert.Equal(t, "Niry", std.FirstName)
	assert.Equal(t, "CM2", std.Class)
	assert.Equal(t, LevelPrimary, std.Level)
}

func TestStudent_Normalize_levelHoldsClassLabel(t *testing.T) {
	std := Student{
		EnrollmentNumber: "2024002",
		LastName:         "Martin",
		FirstName:        "Sophie",
		Level:            Level("6ème"), // legacy records store the class here
		Class:            "6ème",
	}
	std.Normalize()
	assert.Equal(t, LevelLowerSecondary, std.Level)
}
