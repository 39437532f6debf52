package auth

import (
	_ "embed"
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/casbin/casbin/v2/util"
	sqlxadapter "github.com/memwey/casbin-sqlx-adapter"
)

// Role names used in policies.
const (
	RoleAnonymous = "anonymous"
	RoleEditor    = "editor"
)

//go:embed auth_model.conf
var modelText string

// NewModel parses the embedded RBAC model. Requests are (subject, path,
// method); paths are matched with keyMatch2 so "/gallery/:id" covers every id.
func NewModel() (model.Model, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse casbin model: %w", err)
	}
	return m, nil
}

// NewEnforcer creates and configures a new Casbin enforcer.
// It sets up the database adapter, loads the embedded model,
// and loads all authorization policies from the database.
//
// Parameters:
//   - driverName: The name of the database driver ("mysql" or "sqlite3").
//   - dsn: The Data Source Name for the database connection.
//
// Returns a fully configured Casbin enforcer or an error if setup fails.
func NewEnforcer(driverName, dsn string) (*casbin.Enforcer, error) {
	// Policies live in the application's database next to the content.
	opts := &sqlxadapter.AdapterOptions{
		DriverName:     driverName,
		DataSourceName: dsn,
		TableName:      "casbin_rule",
	}
	adapter := sqlxadapter.NewAdapterFromOptions(opts)

	m, err := NewModel()
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)

	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}

	return enforcer, nil
}

// NewMemoryEnforcer creates an enforcer without persistence. Policies added
// to it are lost on exit.
func NewMemoryEnforcer() (*casbin.Enforcer, error) {
	m, err := NewModel()
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}
	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)
	return enforcer, nil
}
