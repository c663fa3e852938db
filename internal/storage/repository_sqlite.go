package storage

import (
	"fmt"
	"strings"

	"github.com/2n4a/loreshifter/internal/world"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

type sqliteRepository struct {
	db *gorm.DB
	// publicListGroup collapses concurrent identical public-listing queries
	// into a single database round trip.
	publicListGroup singleflight.Group
}

func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

var worldSortColumns = map[string]string{
	"name":            "name",
	"created_at":      "created_at",
	"last_updated_at": "updated_at",
}

func (r *sqliteRepository) ListWorlds(params WorldListParams) ([]world.World, error) {
	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}
	column, ok := worldSortColumns[params.Sort]
	if !ok {
		column = "updated_at"
	}
	direction := "DESC"
	if strings.EqualFold(params.Order, "asc") {
		direction = "ASC"
	}

	q := r.db.Model(&world.World{})
	if params.Search != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(params.Search)) + "%"
		q = q.Where("lower(name) LIKE ? OR lower(description) LIKE ?", pattern, pattern)
	}
	if params.Public != nil {
		q = q.Where("public = ?", *params.Public)
	}
	if params.OwnerID != 0 {
		q = q.Where("owner_id = ?", params.OwnerID)
	}

	var worlds []world.World
	err := q.Order(column + " " + direction).Limit(limit).Offset(offset).Find(&worlds).Error
	return worlds, err
}

func (r *sqliteRepository) ListPublicWorlds(limit int) ([]world.World, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	key := fmt.Sprintf("public-worlds:%d", limit)
	v, err, _ := r.publicListGroup.Do(key, func() (interface{}, error) {
		pub := true
		return r.ListWorlds(WorldListParams{Limit: limit, Public: &pub})
	})
	if err != nil {
		return nil, err
	}
	return v.([]world.World), nil
}

func (r *sqliteRepository) GetWorldByID(id uint) (*world.World, error) {
	var w world.World
	if err := r.db.First(&w, id).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *sqliteRepository) CreateWorld(w *world.World) error {
	return r.db.Create(w).Error
}

func (r *sqliteRepository) UpdateWorld(w *world.World) error {
	return r.db.Save(w).Error
}

func (r *sqliteRepository) DeleteWorld(id uint) error {
	return r.db.Delete(&world.World{}, id).Error
}

func (r *sqliteRepository) CopyWorld(id uint, newOwnerID uint) (*world.World, error) {
	src, err := r.GetWorldByID(id)
	if err != nil {
		return nil, err
	}
	copyRow := world.World{
		Name:        src.Name + " (copy)",
		Description: src.Description,
		Public:      false,
		OwnerID:     newOwnerID,
		Data:        src.Data,
	}
	if err := r.db.Create(&copyRow).Error; err != nil {
		return nil, err
	}
	return &copyRow, nil
}

func (r *sqliteRepository) GetUserByID(id uint) (*world.User, error) {
	var u world.User
	if err := r.db.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *sqliteRepository) GetUserByEmail(email string) (*world.User, error) {
	var u world.User
	if err := r.db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *sqliteRepository) UpsertUser(email, name, authID string) (*world.User, error) {
	var u world.User
	if err := r.db.Where("email = ?", email).First(&u).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			return nil, err
		}
		u = world.User{Email: email}
	}
	if name != "" {
		u.Name = name
	}
	if authID != "" {
		u.AuthID = authID
	}
	if err := r.db.Save(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *sqliteRepository) UpdateUser(u *world.User) error {
	return r.db.Save(u).Error
}

func (r *sqliteRepository) CreateGameRecord(g *world.GameRecord) error {
	return r.db.Create(g).Error
}

func (r *sqliteRepository) GetGameRecordByID(id uint) (*world.GameRecord, error) {
	var g world.GameRecord
	if err := r.db.First(&g, id).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *sqliteRepository) FindGameRecordByCode(code string) (*world.GameRecord, error) {
	var g world.GameRecord
	if err := r.db.Where("code = ?", code).First(&g).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *sqliteRepository) ListGameRecords(limit, offset int) ([]world.GameRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	if offset < 0 {
		offset = 0
	}
	var games []world.GameRecord
	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&games).Error
	return games, err
}
