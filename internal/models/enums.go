package models

// Classification labels a move by quality. The set is closed so switches
// over it stay exhaustive.
type Classification string

const (
	ClassificationBook       Classification = "book"
	ClassificationBrilliant  Classification = "brilliant"
	ClassificationGood       Classification = "good"
	ClassificationInaccuracy Classification = "inaccuracy"
	ClassificationMistake    Classification = "mistake"
	ClassificationBlunder    Classification = "blunder"
)

// Classifications lists all labels, best first.
var Classifications = []Classification{
	ClassificationBook,
	ClassificationBrilliant,
	ClassificationGood,
	ClassificationInaccuracy,
	ClassificationMistake,
	ClassificationBlunder,
}

func (c Classification) Valid() bool {
	switch c {
	case ClassificationBook, ClassificationBrilliant, ClassificationGood,
		ClassificationInaccuracy, ClassificationMistake, ClassificationBlunder:
		return true
	}
	return false
}

// Phase labels the stage of the game a move belongs to.
type Phase string

const (
	PhaseOpening    Phase = "opening"
	PhaseMiddlegame Phase = "middlegame"
	PhaseEndgame    Phase = "endgame"
)

// Phases lists phases in game order. Iteration over phase-keyed maps must
// use this slice, never map order.
var Phases = []Phase{PhaseOpening, PhaseMiddlegame, PhaseEndgame}

func (p Phase) Valid() bool {
	return p == PhaseOpening || p == PhaseMiddlegame || p == PhaseEndgame
}

// Ord gives the position of a phase in game order; phase sequences within a
// game are non-decreasing under this ordering.
func (p Phase) Ord() int {
	switch p {
	case PhaseOpening:
		return 0
	case PhaseMiddlegame:
		return 1
	case PhaseEndgame:
		return 2
	}
	return -1
}

// Archetype is one of the six fixed playstyle categories.
type Archetype string

const (
	ArchetypeAttacker   Archetype = "attacker"
	ArchetypeDefender   Archetype = "defender"
	ArchetypeGrinder    Archetype = "grinder"
	ArchetypeImproviser Archetype = "improviser"
	ArchetypePositional Archetype = "positional"
	ArchetypeSpeedster  Archetype = "speedster"
)

// Archetypes is sorted alphabetically; this ordering is the documented
// tie-break for primary/secondary selection.
var Archetypes = []Archetype{
	ArchetypeAttacker,
	ArchetypeDefender,
	ArchetypeGrinder,
	ArchetypeImproviser,
	ArchetypePositional,
	ArchetypeSpeedster,
}

// Result is the game outcome from the player's perspective.
type Result string

const (
	ResultWin  Result = "win"
	ResultLoss Result = "loss"
	ResultDraw Result = "draw"
)

// Color is the side the player held in a game.
type Color string

const (
	ColorWhite Color = "white"
	ColorBlack Color = "black"
)
