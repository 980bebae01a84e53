package seed

import (
	"context"
	"fmt"
	"strings"

	"chirp/internal/models"

	"gorm.io/gorm"
)

// DataStatus summarises what the chirp tables currently hold.
type DataStatus struct {
	Rows map[string]int64
	// FixturesLoaded is set when every fixture user is present under its
	// fixture id.
	FixturesLoaded bool
}

// String renders the status as a single log line.
func (s *DataStatus) String() string {
	parts := make([]string, 0, len(sequenceTables)+1)
	for _, table := range sequenceTables {
		parts = append(parts, fmt.Sprintf("%s=%d", table, s.Rows[table]))
	}
	parts = append(parts, fmt.Sprintf("fixtures=%t", s.FixturesLoaded))
	return strings.Join(parts, " ")
}

// Inspect counts the rows of every chirp table and checks whether the
// reference dataset is in place.
func Inspect(ctx context.Context, db *gorm.DB) (*DataStatus, error) {
	counted := map[string]any{
		"users":   &models.User{},
		"tweets":  &models.Tweet{},
		"medias":  &models.Media{},
		"follows": &models.Follow{},
		"likes":   &models.Like{},
	}

	status := &DataStatus{Rows: make(map[string]int64, len(counted))}
	for _, table := range sequenceTables {
		var n int64
		if err := db.WithContext(ctx).Model(counted[table]).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		status.Rows[table] = n
	}

	ds, err := LoadFixtures()
	if err != nil {
		return nil, err
	}
	if status.Rows["users"] == 0 {
		return status, nil
	}
	var matched int64
	for _, u := range ds.Users {
		var n int64
		if err := db.WithContext(ctx).Model(&models.User{}).
			Where("id = ? AND name = ?", u.ID, u.Name).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("check fixture user %s: %w", u.Name, err)
		}
		matched += n
	}
	status.FixturesLoaded = matched == int64(len(ds.Users))
	return status, nil
}
