// Description: This file wires the manager implementations for the PostgreSQL database.
package postgresql

import (
	"github.com/vizstack/filtersetsrv/internal/filtersetsrv/db/dbmanager"
)

type filterSetDb struct {
	fm *filterSetManager
	cm *connectionManager
}

func NewFilterSetDb(c dbmanager.DbConn) (*filterSetManager, *connectionManager) {
	d := &filterSetDb{}
	d.fm = newFilterSetManager(c)
	d.cm = newConnectionManager(c)
	return d.fm, d.cm
}
