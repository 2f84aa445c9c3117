package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr   string
	DBPath string

	EngineAPIURL string
	EngineDepth  int
	BookAPIURL   string

	LogLevel string

	AnalysisWorkerCount int
	AnalysisQueueSize   int
	ImportWorkerCount   int
	ImportQueueSize     int
	ArchiveLimit        int

	Analysis AnalysisConfig
}

// AnalysisConfig carries every tunable threshold of the derivation
// pipeline. The numeric policy is configuration, not contract.
type AnalysisConfig struct {
	// Classification bands: loss < Good is good, < Inaccuracy is an
	// inaccuracy, < Mistake is a mistake, anything above is a blunder.
	GoodThreshold       int
	InaccuracyThreshold int
	MistakeThreshold    int
	// WinningMargin gates brilliant moves: a sacrifice only counts when the
	// mover was not already ahead by this many centipawns.
	WinningMargin int

	// Phase segmentation.
	OpeningMoveCutoff  int
	OpeningMaterialMin int
	EndgameMaterialMax int

	// Deviation detection.
	BookPlyLimit   int
	BookNoiseFloor int // minimum reference games for a book move to count

	// Time pressure.
	TimePressureSeconds float64

	// Cross-game minimum sample sizes.
	MinGamesForPatterns int
	MinMovesPerGame     int
	MinGamesForBest     int
}

// Load reads configuration from a .env file (if present) and environment
// variables, applying defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:   envOr("ADDR", ":8080"),
		DBPath: envOr("DB_PATH", "file:chesslens.db"),

		EngineAPIURL: envOr("ENGINE_API_URL", "https://chess-api.com/v1"),
		EngineDepth:  envIntOr("ENGINE_DEPTH", 16),
		BookAPIURL:   envOr("BOOK_API_URL", "https://explorer.lichess.ovh"),

		LogLevel: envOr("LOG_LEVEL", "INFO"),

		AnalysisWorkerCount: envIntOr("ANALYSIS_WORKER_COUNT", 2),
		AnalysisQueueSize:   envIntOr("ANALYSIS_QUEUE_SIZE", 64),
		ImportWorkerCount:   envIntOr("IMPORT_WORKER_COUNT", 2),
		ImportQueueSize:     envIntOr("IMPORT_QUEUE_SIZE", 32),
		ArchiveLimit:        envIntOr("ARCHIVE_LIMIT", 0),

		Analysis: LoadAnalysis(),
	}
}

// LoadAnalysis reads only the pipeline thresholds, for callers that do not
// need the full server configuration.
func LoadAnalysis() AnalysisConfig {
	return AnalysisConfig{
		GoodThreshold:       envIntOr("CLASSIFY_GOOD_CP", 10),
		InaccuracyThreshold: envIntOr("CLASSIFY_INACCURACY_CP", 50),
		MistakeThreshold:    envIntOr("CLASSIFY_MISTAKE_CP", 150),
		WinningMargin:       envIntOr("CLASSIFY_WINNING_MARGIN_CP", 300),

		OpeningMoveCutoff:  envIntOr("PHASE_OPENING_MOVES", 12),
		OpeningMaterialMin: envIntOr("PHASE_OPENING_MATERIAL", 60),
		EndgameMaterialMax: envIntOr("PHASE_ENDGAME_MATERIAL", 26),

		BookPlyLimit:   envIntOr("BOOK_PLY_LIMIT", 40),
		BookNoiseFloor: envIntOr("BOOK_NOISE_FLOOR", 10),

		TimePressureSeconds: envFloatOr("TIME_PRESSURE_SECONDS", 60),

		MinGamesForPatterns: envIntOr("MIN_GAMES_FOR_PATTERNS", 5),
		MinMovesPerGame:     envIntOr("MIN_MOVES_PER_GAME", 5),
		MinGamesForBest:     envIntOr("MIN_GAMES_FOR_BEST_OPENING", 3),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envFloatOr(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("invalid value for %s=%q, using default %g", key, v, def)
	}
	return def
}
