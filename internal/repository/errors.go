// Package repository holds the MySQL queries behind every service.  Every
// query that touches tenant data takes the company id and filters on it.
// Row-not-found conditions come back as apperr not-found errors so services
// and handlers never inspect sql.ErrNoRows themselves.
package repository

import (
	"database/sql"
	"errors"

	"github.com/iliyamo/repair-shop/internal/apperr"
	"github.com/iliyamo/repair-shop/internal/database"
)

// notFound converts sql.ErrNoRows into a not-found error carrying msg.
func notFound(err error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound(msg)
	}
	return err
}

// duplicate converts a unique-key violation into a conflict carrying msg.
func duplicate(err error, msg string) error {
	if database.IsDuplicate(err) {
		return apperr.Conflict(msg)
	}
	return err
}

// affected returns a not-found error when res touched no row.  The DSN sets
// clientFoundRows, so an update that changes nothing still counts its match.
func affected(res sql.Result, msg string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound(msg)
	}
	return nil
}
