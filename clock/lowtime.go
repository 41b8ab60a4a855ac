package clock

// Level is a low-time warning threshold.
type Level int

const (
	Normal Level = iota
	LowTime
	CriticalTime
)

const (
	LowTimeSeconds      = 30
	CriticalTimeSeconds = 10
)

func (l Level) String() string {
	switch l {
	case LowTime:
		return "low"
	case CriticalTime:
		return "critical"
	}
	return "normal"
}

// LevelOf returns the warning level for a displayed time.
func LevelOf(secs int) Level {
	switch {
	case secs <= CriticalTimeSeconds:
		return CriticalTime
	case secs <= LowTimeSeconds:
		return LowTime
	}
	return Normal
}

// Crossings returns the thresholds crossed downward going from prev to cur
// seconds, lowest threshold last.
func Crossings(prev, cur int) []Level {
	var out []Level
	if prev > LowTimeSeconds && cur <= LowTimeSeconds {
		out = append(out, LowTime)
	}
	if prev > CriticalTimeSeconds && cur <= CriticalTimeSeconds {
		out = append(out, CriticalTime)
	}
	return out
}
