package service

import (
	"strings"
	"testing"
	"time"
	"youth_hub_backend/internal/config"
	"youth_hub_backend/internal/model"
	"youth_hub_backend/internal/repository"
	"youth_hub_backend/internal/token"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB 每个测试用独立的内存库，cache=shared 让连接池内的连接看到同一份数据
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.CounsellingSession{},
		&model.Resource{},
		&model.Message{},
		&model.UserProgress{},
		&model.Notification{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string, role model.UserRole) *model.User {
	t.Helper()
	u := &model.User{
		Email:     email,
		Password:  "not-a-real-hash",
		FirstName: strings.Split(email, "@")[0],
		LastName:  "Test",
		Role:      role,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func newTestSessionService(db *gorm.DB) *SessionService {
	return NewSessionService(
		repository.NewSessionRepository(db),
		repository.NewUserRepository(db),
		NewNotificationService(repository.NewNotificationRepository(db)),
	)
}

func newTestAuthService(t *testing.T, db *gorm.DB) *AuthService {
	t.Helper()
	store := token.NewMemoryStore(time.Hour)
	t.Cleanup(store.Stop)
	return NewAuthService(repository.NewUserRepository(db), store, &config.Config{})
}
