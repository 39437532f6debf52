package session

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"cms-dashboard/internal/config"

	"github.com/alexedwards/scs/mysqlstore"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// Session keys.
const (
	SubjectKey = "user_subject"
	FlashKey   = "flash"
	ErrorKey   = "flash_error"
)

// Manager is an interface that abstracts the session management implementation.
// This allows for easier testing and dependency injection.
type Manager interface {
	LoadAndSave(next http.Handler) http.Handler
	Put(ctx context.Context, key string, val interface{})
	GetString(ctx context.Context, key string) string
	PopString(ctx context.Context, key string) string
	RenewToken(ctx context.Context) error
	Destroy(ctx context.Context) error
	Remove(ctx context.Context, key string)
}

var _ Manager = (*scs.SessionManager)(nil)

// New creates a session manager storing sessions in db. The sessions table
// comes from the migrations of driver.
func New(cfg config.SessionConfig, driver string, db *sql.DB) *scs.SessionManager {
	sm := scs.New()
	switch driver {
	case "mysql":
		sm.Store = mysqlstore.New(db)
	default:
		sm.Store = sqlite3store.New(db)
	}
	lifetime := cfg.LifetimeHours
	if lifetime <= 0 {
		lifetime = 24
	}
	sm.Lifetime = time.Duration(lifetime) * time.Hour
	sm.Cookie.Name = "cms_session"
	sm.Cookie.Persist = true
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = cfg.Secure
	return sm
}

// NewMemory creates a session manager keeping sessions in process memory.
func NewMemory() *scs.SessionManager {
	return scs.New()
}
