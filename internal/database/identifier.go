package database

import (
	"regexp"
	"strings"
)

const maxIdentifierLength = 63

var (
	identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	columnTypePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_ (),]*$`)
)

func validateName(ident, whole string) error {
	if ident == "" {
		return &IdentifierError{Identifier: whole, Reason: "empty name"}
	}
	if len(ident) > maxIdentifierLength {
		return &IdentifierError{Identifier: whole, Reason: "name exceeds 63 characters"}
	}
	if !identifierPattern.MatchString(ident) {
		return &IdentifierError{Identifier: whole, Reason: "only letters, digits and underscores are allowed"}
	}
	return nil
}

// quoteTable validates a table name, optionally schema qualified, and returns it quoted.
func (c *Client) quoteTable(table string) (string, error) {
	parts := strings.Split(table, ".")
	if len(parts) > 2 {
		return "", &IdentifierError{Identifier: table, Reason: "at most one schema qualifier is allowed"}
	}
	for _, p := range parts {
		if err := validateName(p, table); err != nil {
			return "", err
		}
	}
	return c.dialect.Quote(table), nil
}

// quoteColumn validates an unqualified column name and returns it quoted.
func (c *Client) quoteColumn(column string) (string, error) {
	if err := validateName(column, column); err != nil {
		return "", err
	}
	return c.dialect.Quote(column), nil
}

func validateColumnType(decl string) error {
	decl = strings.TrimSpace(decl)
	if decl == "" {
		return &IdentifierError{Identifier: decl, Reason: "empty column type"}
	}
	if !columnTypePattern.MatchString(decl) || strings.Contains(decl, "--") {
		return &IdentifierError{Identifier: decl, Reason: "column type contains disallowed characters"}
	}
	if !balancedParens(decl) {
		return &IdentifierError{Identifier: decl, Reason: "unbalanced parentheses in column type"}
	}
	return nil
}

// balancedParens reports whether every ")" closes an earlier "(" and none stay open.
func balancedParens(s string) bool {
	depth := 0
	for _, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// splitTable separates an optional schema qualifier from the table name.
func splitTable(table string) (schema, name string) {
	if i := strings.IndexByte(table, '.'); i >= 0 {
		return table[:i], table[i+1:]
	}
	return "", table
}
