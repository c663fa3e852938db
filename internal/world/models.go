package world

import (
	"gorm.io/gorm"
)

// RecordStatus tracks the lifecycle of a persisted game record. Live turn
// state never reaches the database; records only describe which games exist
// and how they ended.
type RecordStatus string

const (
	StatusWaiting  RecordStatus = "waiting"
	StatusPlaying  RecordStatus = "playing"
	StatusFinished RecordStatus = "finished"
	StatusArchived RecordStatus = "archived"
)

// World is an author-created setting. The bulk of the content (lore,
// creation rules, item catalog, boss roster) is an opaque JSON document in
// Data; the relational columns exist for listing, search and ownership.
type World struct {
	gorm.Model
	Name        string `json:"name" gorm:"size:128;index"`
	Description string `json:"description" gorm:"size:512"`
	Public      bool   `json:"public"`
	OwnerID     uint   `json:"owner_id" gorm:"index"`
	// Data holds the world document as JSON text. The server never
	// interprets it; editors read and write it wholesale.
	Data string `json:"data" gorm:"type:text"`
}

func (World) TableName() string { return "worlds" }

// User is a registered account. AuthID ties the row to the external
// identity provider.
type User struct {
	gorm.Model
	Name   string `json:"name" gorm:"size:64"`
	Email  string `json:"email" gorm:"uniqueIndex"`
	AuthID string `json:"auth_id" gorm:"index"`
}

func (User) TableName() string { return "users" }

// GameRecord is the durable trace of a hosted game: join code, world,
// host and final status. The in-memory session carries everything else.
type GameRecord struct {
	gorm.Model
	Code       string       `json:"code" gorm:"uniqueIndex"`
	Name       string       `json:"name" gorm:"size:128"`
	Public     bool         `json:"public"`
	WorldID    uint         `json:"world_id" gorm:"index"`
	HostID     uint         `json:"host_id" gorm:"index"`
	MaxPlayers int          `json:"max_players"`
	Status     RecordStatus `json:"status" gorm:"size:16;index"`
}

func (GameRecord) TableName() string { return "games" }
