package storage

import (
	"github.com/2n4a/loreshifter/internal/world"
)

// WorldListParams mirrors the world listing query surface: pagination,
// sorting, free-text search and an optional public/private filter.
type WorldListParams struct {
	Limit  int
	Offset int
	// Sort is one of name, created_at, last_updated_at. Invalid values fall
	// back to last_updated_at.
	Sort  string
	Order string
	// Search matches against name and description, case-insensitive.
	Search string
	// Public filters by visibility when non-nil.
	Public *bool
	// OwnerID restricts results to one owner when non-zero.
	OwnerID uint
}

type Repository interface {
	// Worlds
	ListWorlds(params WorldListParams) ([]world.World, error)
	// ListPublicWorlds is the hot anonymous listing; concurrent identical
	// calls are collapsed into one query.
	ListPublicWorlds(limit int) ([]world.World, error)
	GetWorldByID(id uint) (*world.World, error)
	CreateWorld(w *world.World) error
	UpdateWorld(w *world.World) error
	// DeleteWorld soft-deletes; the row stays recoverable.
	DeleteWorld(id uint) error
	// CopyWorld duplicates a world's content under a new owner and returns
	// the copy.
	CopyWorld(id uint, newOwnerID uint) (*world.World, error)

	// Users
	GetUserByID(id uint) (*world.User, error)
	GetUserByEmail(email string) (*world.User, error)
	// UpsertUser creates or refreshes the account row for an external
	// identity and returns it.
	UpsertUser(email, name, authID string) (*world.User, error)
	UpdateUser(u *world.User) error

	// Game records
	CreateGameRecord(g *world.GameRecord) error
	GetGameRecordByID(id uint) (*world.GameRecord, error)
	FindGameRecordByCode(code string) (*world.GameRecord, error)
	ListGameRecords(limit, offset int) ([]world.GameRecord, error)
}
