package model

import (
	"database/sql"
)

// Agent is a bearer-token principal for the private API. Agents are
// provisioned out of band; the API only reads them.
type Agent struct {
	ID       int64          `db:"id"`
	Username sql.NullString `db:"username"`
	APIToken string         `db:"api_token"`
}
