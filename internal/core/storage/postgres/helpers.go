package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hooksmith/usersync/internal/core/storage"
	"github.com/lib/pq"
)

// pgUniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanUserRow scans a users row in the column order used by every user query.
// Compatible with both sql.Row (single) and sql.Rows (multiple).
func scanUserRow(row scanner) (*storage.UserRecord, error) {
	var u storage.UserRecord
	if err := row.Scan(
		&u.ID,
		&u.ExternalID,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.Username,
		&u.UniqueGlobalID,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}

// buildInsertLinkedAccounts returns a multi-row insert for n accounts and its flattened args.
func buildInsertLinkedAccounts(accounts []storage.LinkedAccount) (string, []interface{}) {
	const cols = 5

	var b strings.Builder
	b.WriteString(insertLinkedAccountsPrefix)

	args := make([]interface{}, 0, len(accounts)*cols)
	for i, acc := range accounts {
		if i > 0 {
			b.WriteString(", ")
		}
		base := i * cols
		fmt.Fprintf(&b, "($%d, $%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4, base+5)
		args = append(args, acc.UserID, acc.Provider, acc.ProviderUserID, acc.Email, acc.ProfileURL)
	}
	b.WriteString(insertLinkedAccountsSuffix)

	return b.String(), args
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint failure.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgUniqueViolation
	}
	return false
}
