package types

import "fmt"

// Level is one of the seven granularities at which profitability is
// reported. A closed enum: every per-level code path dispatches on this
// rather than on free-form strings.
type Level int

const (
	LevelService Level = iota
	LevelSpecialty
	LevelDoctor
	LevelBed
	LevelOT
	LevelCathLab
	LevelFacility
)

var levelNames = [...]string{
	"service", "specialty", "doctor", "bed", "ot", "cath_lab", "facility",
}

// String returns the level name
func (l Level) String() string {
	if l < 0 || int(l) >= len(levelNames) {
		return fmt.Sprintf("level(%d)", int(l))
	}
	return levelNames[l]
}

// MarshalText emits the level name
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText parses a level name
func (l *Level) UnmarshalText(text []byte) error {
	for i, name := range levelNames {
		if name == string(text) {
			*l = Level(i)
			return nil
		}
	}
	return fmt.Errorf("unknown level %q", string(text))
}

// AllLevels returns the seven levels in reporting order
func AllLevels() []Level {
	return []Level{
		LevelService, LevelSpecialty, LevelDoctor,
		LevelBed, LevelOT, LevelCathLab, LevelFacility,
	}
}
