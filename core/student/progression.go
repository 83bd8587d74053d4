package student

// classProgression is the canonical ordered class list per level; promotion
// moves a student to the next entry within their level's list.
var classProgression = map[Level][]string{
	LevelNursery:        {"PS", "MS", "GS"},
	LevelPrimary:        {"CP", "CE1", "CE2", "CM1", "CM2"},
	LevelLowerSecondary: {"6ème", "5ème", "4ème", "3ème"},
	LevelUpperSecondary: {"2nde", "1ère", "Tle"},
}

// Progression returns the ordered class list for a level.
func Progression(level Level) []string {
	classes := classProgression[level]
	out := make([]string, len(classes))
	copy(out, classes)
	return out
}

// AllClasses returns every known class label, in progression order.
func AllClasses() []string {
	var out []string
	for _, lvl := range Levels {
		out = append(out, classProgression[lvl]...)
	}
	return out
}

// NextClass returns the class following `class` within `level`'s
// progression. ok is false when the class is the last of its level or is
// not part of the level's list: the student cannot be advanced.
func NextClass(class string, level Level) (string, bool) {
	classes := classProgression[level]
	for i, c := range classes {
		if c == class {
			if i == len(classes)-1 {
				return "", false
			}
			return classes[i+1], true
		}
	}
	return "", false
}

// LevelForClass returns the level a known class label belongs to.
func LevelForClass(class string) (Level, bool) {
	for _, lvl := range Levels {
		for _, c := range classProgression[lvl] {
			if c == class {
				return lvl, true
			}
		}
	}
	return "", false
}
