package models

import (
	"time"
)

/*
 Table "public.users"
   Column   |           Type           | Collation | Nullable |  Default
------------+--------------------------+-----------+----------+-----------
 id         | bigint                   |           | not null | nextval(...)
 username   | character varying(128)   |           | not null |
 is_admin   | boolean                  |           | not null | false
 created_on | timestamp with time zone |           | not null | now()
Indexes:
    "users_pkey" PRIMARY KEY, btree (id)
    "users_username_key" UNIQUE CONSTRAINT, btree (username)
*/

// User model definition
type User struct {
	ID        int64     `db:"id"`
	Username  string    `db:"username"`
	IsAdmin   bool      `db:"is_admin"`
	CreatedOn time.Time `db:"created_on"`
}
