package models

import (
	"database/sql"
	"time"
)

/*
 Table "public.dashboards"
     Column      |           Type           | Collation | Nullable |  Default
-----------------+--------------------------+-----------+----------+-----------
 id              | bigint                   |           | not null | nextval(...)
 dashboard_title | character varying(500)   |           | not null |
 slug            | character varying(255)   |           |          |
 created_on      | timestamp with time zone |           | not null | now()
Indexes:
    "dashboards_pkey" PRIMARY KEY, btree (id)
    "dashboards_slug_key" UNIQUE CONSTRAINT, btree (slug)
Referenced by:
    TABLE "dashboard_owners" FOREIGN KEY (dashboard_id) REFERENCES dashboards(id) ON DELETE CASCADE
    TABLE "filter_sets" FOREIGN KEY (dashboard_id) REFERENCES dashboards(id) ON DELETE CASCADE
*/

// Dashboard model definition. The dashboard entity is owned by an external
// subsystem; the store only resolves it and loads its owners.
type Dashboard struct {
	ID        int64          `db:"id"`
	Title     string         `db:"dashboard_title"`
	Slug      sql.NullString `db:"slug"`
	CreatedOn time.Time      `db:"created_on"`

	// OwnerIDs are the user ids recorded in dashboard_owners.
	OwnerIDs []int64
}

// IsOwner reports whether userID is recorded as an owner of the dashboard.
func (d *Dashboard) IsOwner(userID int64) bool {
	for _, id := range d.OwnerIDs {
		if id == userID {
			return true
		}
	}
	return false
}
