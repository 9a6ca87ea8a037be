package domain

// Kind selects the progress rules a tracker follows.
type Kind string

const (
	KindChallenge Kind = "challenge"
	KindBadHabit  Kind = "bad_habit"
)

// Difficulty tunes the points model of bad habits.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}

// Scoring is one row of the difficulty table.
type Scoring struct {
	PointsPerDay int
	Penalty      int
}

var difficultyTable = map[Difficulty]Scoring{
	DifficultyEasy:   {PointsPerDay: 1, Penalty: 3},
	DifficultyMedium: {PointsPerDay: 2, Penalty: 5},
	DifficultyHard:   {PointsPerDay: 3, Penalty: 10},
}

// ScoringFor returns the scoring row for d, falling back to medium.
func ScoringFor(d Difficulty) Scoring {
	if s, ok := difficultyTable[d]; ok {
		return s
	}
	return difficultyTable[DifficultyMedium]
}

const (
	// RecoveryThreshold is the number of consecutive misses that turns recovery mode on.
	RecoveryThreshold = 2

	ShortDuration      = 7
	LongDuration       = 30
	ExtensionThreshold = 0.70
)

// Policy captures everything that differs between the tracker kinds.
type Policy struct {
	Kind Kind

	// Next is the mark a day cell moves to when toggled.
	Next func(Mark) Mark

	// UnsetIsMiss is true when an untouched past day counts as a miss and
	// therefore ends a streak.
	UnsetIsMiss bool

	Scored bool

	// Milestones are percentages for challenges and streak lengths for bad habits.
	Milestones          []int
	MilestonesOnStreaks bool

	RecoveryThreshold int
}

var (
	challengePolicy = Policy{
		Kind: KindChallenge,
		Next: func(m Mark) Mark {
			if m == MarkDone {
				return MarkUnset
			}
			return MarkDone
		},
		UnsetIsMiss:       true,
		Milestones:        []int{25, 50, 75, 100},
		RecoveryThreshold: RecoveryThreshold,
	}

	badHabitPolicy = Policy{
		Kind: KindBadHabit,
		// neutral -> clean -> relapse -> clean ...; neutral is never re-entered.
		Next: func(m Mark) Mark {
			if m == MarkDone {
				return MarkMissed
			}
			return MarkDone
		},
		Scored:              true,
		Milestones:          []int{7, 30},
		MilestonesOnStreaks: true,
		RecoveryThreshold:   RecoveryThreshold,
	}
)

// PolicyFor returns the rules for k. Unknown kinds get the challenge rules.
func PolicyFor(k Kind) Policy {
	if k == KindBadHabit {
		return badHabitPolicy
	}
	return challengePolicy
}

// crossedMilestone returns the highest milestone in ms with before < m <= after, or 0.
func crossedMilestone(ms []int, before, after int) int {
	crossed := 0
	for _, m := range ms {
		if before < m && after >= m {
			crossed = m
		}
	}
	return crossed
}
