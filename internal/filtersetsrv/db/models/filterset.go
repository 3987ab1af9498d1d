package models

import (
	"database/sql"
	"time"

	"github.com/jackc/pgtype"

	"github.com/vizstack/filtersetsrv/internal/filtersetsrv/fscommon"
)

/*
 Table "public.filter_sets"
    Column     |           Type           | Collation | Nullable |  Default
---------------+--------------------------+-----------+----------+-----------
 id            | bigint                   |           | not null | nextval(...)
 name          | character varying(500)   |           | not null |
 description   | character varying(1000)  |           |          |
 json_metadata | jsonb                    |           | not null |
 dashboard_id  | bigint                   |           | not null |
 owner_type    | character varying(16)    |           | not null |
 owner_id      | bigint                   |           | not null |
 user_id       | bigint                   |           | not null |
 is_primary    | boolean                  |           | not null | false
 created_on    | timestamp with time zone |           | not null | now()
 changed_on    | timestamp with time zone |           | not null | now()
 created_by    | bigint                   |           |          |
 changed_by    | bigint                   |           |          |
Indexes:
    "filter_sets_pkey" PRIMARY KEY, btree (id)
    "filter_sets_name_key" UNIQUE CONSTRAINT, btree (name)
    "filter_sets_user_primary_idx" UNIQUE, btree (user_id, dashboard_id) WHERE is_primary
Check constraints:
    "filter_sets_owner_type_check" CHECK (owner_type IN ('User', 'Dashboard'))
Foreign-key constraints:
    "filter_sets_dashboard_id_fkey" FOREIGN KEY (dashboard_id) REFERENCES dashboards(id) ON DELETE CASCADE
    "filter_sets_user_id_fkey" FOREIGN KEY (user_id) REFERENCES users(id)
*/

// FilterSet model definition
type FilterSet struct {
	ID           int64              `db:"id"`
	Name         string             `db:"name"`
	Description  sql.NullString     `db:"description"`
	JSONMetadata pgtype.JSONB       `db:"json_metadata"`
	DashboardID  int64              `db:"dashboard_id"`
	OwnerType    fscommon.OwnerType `db:"owner_type"`
	OwnerID      int64              `db:"owner_id"`
	UserID       int64              `db:"user_id"`
	IsPrimary    bool               `db:"is_primary"`
	CreatedOn    time.Time          `db:"created_on"`
	ChangedOn    time.Time          `db:"changed_on"`
	CreatedBy    sql.NullInt64      `db:"created_by"`
	ChangedBy    sql.NullInt64      `db:"changed_by"`
}

// FilterSetChanges carries a partial update of the mutable FilterSet fields.
// Nil fields are left untouched. dashboard_id and user_id are immutable and
// deliberately absent.
type FilterSetChanges struct {
	Name         *string
	Description  *string
	JSONMetadata []byte
	OwnerType    *fscommon.OwnerType
	OwnerID      *int64
	IsPrimary    *bool
	ChangedBy    int64
}

// VisibilityScope restricts which filter sets a caller may see. It compiles
// to a SQL predicate in the store so listing never over-fetches.
type VisibilityScope struct {
	// All makes every filter set visible (admin callers).
	All bool
	// UserID is the caller used for ownership matching when All is false.
	UserID int64
}
