package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// codeUniqueViolation SQLSTATE de clave duplicada; CREATE TABLE IF NOT EXISTS
// concurrente puede devolverlo sobre pg_type.
const codeUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePrefix patrón LIKE que busca prefix de forma literal.
func likePrefix(prefix string) string {
	return likeEscaper.Replace(prefix) + "%"
}
