// Package dbtx lets gorm repositories take part in a database/sql
// transaction opened by a service.
package dbtx

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// Bind returns a gorm handle for ctx that executes on tx when tx is not nil.
// The session clones the statement, so the base handle is left untouched.
func Bind(ctx context.Context, db *gorm.DB, tx *sql.Tx) *gorm.DB {
	session := db.Session(&gorm.Session{Context: ctx})
	if tx != nil {
		session.Statement.ConnPool = tx
	}
	return session
}
