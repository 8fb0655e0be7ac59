package models

import "gorm.io/datatypes"

const (
	GameTypeQuiz       = "quiz"
	GameTypeCTF        = "ctf"
	GameTypePuzzle     = "puzzle"
	GameTypeSimulation = "simulation"
)

const (
	DefaultGameMaxScore     = 100
	DefaultGamePassingScore = 70
)

// Game holds scoring rules of a game content item
type Game struct {
	Base
	ContentID    uint           `json:"contentId" gorm:"not null;uniqueIndex"`
	GameType     string         `json:"gameType" gorm:"size:20;not null"`
	MaxScore     int            `json:"maxScore"`
	PassingScore int            `json:"passingScore"`
	TimeLimit    int            `json:"timeLimit"` // minutes, 0 means unlimited
	Config       datatypes.JSON `json:"config"`
}

// NewGame returns the detail row a game starts with before any client values apply
func NewGame(contentID uint) Game {
	return Game{
		ContentID:    contentID,
		GameType:     GameTypeQuiz,
		MaxScore:     DefaultGameMaxScore,
		PassingScore: DefaultGamePassingScore,
		Config:       datatypes.JSON("{}"),
	}
}
