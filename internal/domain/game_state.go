package domain

// GameState - сводное состояние сессии.
type GameState struct {
	IsPaused         bool `json:"isPaused"`
	IsGameOver       bool `json:"isGameOver"`
	Victory          bool `json:"victory"`
	CurrentWave      int  `json:"currentWave"`
	EnemiesRemaining int  `json:"enemiesRemaining"`
	Score            int  `json:"score"`
}

// NewGameState - состояние на старте миссии.
func NewGameState() GameState {
	return GameState{CurrentWave: 1}
}
