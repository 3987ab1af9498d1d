package postgresql

import (
	"context"
	"database/sql"

	"github.com/vizstack/filtersetsrv/internal/filtersetsrv/db/dbmanager"
)

// Filter Set Manager
type filterSetManager struct {
	c dbmanager.DbConn
}

func (fm *filterSetManager) conn() *sql.Conn {
	return fm.c.Conn()
}

func newFilterSetManager(c dbmanager.DbConn) *filterSetManager {
	return &filterSetManager{c: c}
}

// Connection Manager
type connectionManager struct {
	c dbmanager.DbConn
}

func newConnectionManager(c dbmanager.DbConn) *connectionManager {
	return &connectionManager{c: c}
}

func (cm *connectionManager) Close(ctx context.Context) {
	cm.c.Close(ctx)
}
