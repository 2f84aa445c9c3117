package analysis

import "chesslens/internal/models"

// featureWeight contributes one normalized feature to an archetype score.
// A negative weight rewards low values: abs(w) * (1 - value).
type featureWeight struct {
	key    string
	weight float64
}

// archetypeWeights define each archetype as an ordered weighted
// combination of normalized features. Order is fixed so score arithmetic
// is reproducible bit-for-bit. The absolute weights of each archetype sum
// to 1.0, putting every score on the same 0-100 footing.
var archetypeWeights = map[models.Archetype][]featureWeight{
	models.ArchetypeAttacker: {
		{FeatCaptureRate, 0.3},
		{FeatCheckRate, 0.2},
		{FeatSacrificeRate, 0.2},
		{FeatThinkTimeMean, -0.15},
		{FeatDecisiveRate, 0.15},
	},
	models.ArchetypeDefender: {
		{FeatACPL, -0.35},
		{FeatBlunderRate, -0.3},
		{FeatCaptureRate, -0.15},
		{FeatDecisiveRate, -0.2},
	},
	models.ArchetypeGrinder: {
		{FeatGameLength, 0.3},
		{FeatEndgameFreq, 0.3},
		{FeatACPLEndgame, -0.2},
		{FeatDecisiveRate, 0.2},
	},
	models.ArchetypeImproviser: {
		{FeatDeviationRate, 0.3},
		{FeatThinkTimeStdev, 0.2},
		{FeatSacrificeRate, 0.2},
		{FeatCaptureRate, 0.15},
		{FeatACPL, 0.15},
	},
	models.ArchetypePositional: {
		{FeatACPL, -0.3},
		{FeatBlunderRate, -0.2},
		{FeatThinkTimeStdev, -0.25},
		{FeatEndgameFreq, 0.25},
	},
	models.ArchetypeSpeedster: {
		{FeatThinkTimeMean, -0.35},
		{FeatThinkTimeStdev, -0.2},
		{FeatTimePressure, 0.25},
		{FeatBlunderRate, 0.2},
	},
}

// Fingerprint maps a player's normalized feature vector onto the six
// archetype scores. Scores are independent 0-100 values; they are never
// renormalized against each other, so one strong dimension cannot shrink
// another. Primary and secondary are the two highest scores, with ties
// broken by the alphabetical ordering of models.Archetypes.
func Fingerprint(normalized FeatureVector) models.PlaystyleProfile {
	scores := make(map[models.Archetype]float64, len(models.Archetypes))
	for _, arch := range models.Archetypes {
		var score float64
		for _, fw := range archetypeWeights[arch] {
			v := featureOrDefault(normalized, fw.key)
			if fw.weight < 0 {
				score += -fw.weight * (1 - v)
			} else {
				score += fw.weight * v
			}
		}
		scores[arch] = score * 100
	}

	primary, secondary := topTwo(scores)
	return models.PlaystyleProfile{
		PrimaryArchetype:   primary,
		SecondaryArchetype: secondary,
		Scores:             scores,
		Radar:              buildRadar(normalized),
	}
}

// featureOrDefault treats an absent signal as the neutral midpoint rather
// than an extreme.
func featureOrDefault(fv FeatureVector, key string) float64 {
	if v, ok := fv[key]; ok {
		return v
	}
	return 0.5
}

// topTwo walks archetypes in their fixed alphabetical order with strict
// greater-than comparisons, so equal scores resolve the same way on every
// run.
func topTwo(scores map[models.Archetype]float64) (primary, secondary models.Archetype) {
	primary = models.Archetypes[0]
	for _, arch := range models.Archetypes[1:] {
		if scores[arch] > scores[primary] {
			primary = arch
		}
	}
	for _, arch := range models.Archetypes {
		if arch == primary {
			continue
		}
		if secondary == "" || scores[arch] > scores[secondary] {
			secondary = arch
		}
	}
	return primary, secondary
}

// buildRadar derives the six presentation axes from the normalized
// features.
func buildRadar(fv FeatureVector) []models.RadarAxis {
	avg := func(keys ...string) float64 {
		var sum float64
		for _, k := range keys {
			sum += featureOrDefault(fv, k)
		}
		return sum / float64(len(keys)) * 100
	}
	inv := func(key string) float64 {
		return (1 - featureOrDefault(fv, key)) * 100
	}

	return []models.RadarAxis{
		{Label: "Aggression", Value: avg(FeatCaptureRate, FeatCheckRate, FeatSacrificeRate)},
		{Label: "Accuracy", Value: inv(FeatACPL)},
		{Label: "Positional", Value: (inv(FeatACPL) + inv(FeatThinkTimeStdev)) / 2},
		{Label: "Endgame", Value: (featureOrDefault(fv, FeatEndgameFreq)*100 + inv(FeatACPLEndgame)) / 2},
		{Label: "Speed", Value: inv(FeatThinkTimeMean)},
		{Label: "Creativity", Value: avg(FeatSacrificeRate, FeatDeviationRate)},
	}
}
