package protection

import (
	"fmt"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"
)

// Config is the protection checker's own config type.
type Config struct {
	// AllowDrop permits DROP DOMAIN / DROP FUNCTION without CASCADE.
	AllowDrop bool
}

// Checker validates schema statements before the installer runs them. Only
// the statement kinds the installer emits are accepted.
type Checker struct {
	config Config
}

// NewChecker creates a new Checker with the given config.
func NewChecker(config Config) *Checker {
	return &Checker{config: config}
}

// Check parses sql with pg_query_go and walks the AST.
// Returns nil if allowed, descriptive error if blocked.
func (c *Checker) Check(sql string) error {
	result, err := pg_query.Parse(sql)
	if err != nil {
		return fmt.Errorf("SQL parse error: %w", err)
	}

	if len(result.Stmts) == 0 {
		return fmt.Errorf("SQL parse error: empty statement")
	}

	if len(result.Stmts) > 1 {
		return fmt.Errorf("multi-statement scripts are not allowed: found %d statements", len(result.Stmts))
	}

	return c.checkNode(result.Stmts[0].Stmt)
}

func (c *Checker) checkNode(node *pg_query.Node) error {
	switch n := node.Node.(type) {
	case *pg_query.Node_CreateDomainStmt:
		return nil

	case *pg_query.Node_CreateFunctionStmt:
		return checkFunction(n.CreateFunctionStmt)

	case *pg_query.Node_CommentStmt:
		switch n.CommentStmt.Objtype {
		case pg_query.ObjectType_OBJECT_DOMAIN, pg_query.ObjectType_OBJECT_FUNCTION:
			return nil
		}
		return fmt.Errorf("COMMENT is only allowed on domains and functions")

	case *pg_query.Node_DropStmt:
		if !c.config.AllowDrop {
			return fmt.Errorf("DROP statements are not allowed")
		}
		switch n.DropStmt.RemoveType {
		case pg_query.ObjectType_OBJECT_DOMAIN, pg_query.ObjectType_OBJECT_FUNCTION:
		default:
			return fmt.Errorf("DROP is only allowed for domains and functions")
		}
		if n.DropStmt.Behavior == pg_query.DropBehavior_DROP_CASCADE {
			return fmt.Errorf("DROP ... CASCADE is not allowed: it would drop dependent columns")
		}
		return nil
	}
	return fmt.Errorf("%s statements are not allowed in the schema script", statementKind(node))
}

// checkFunction accepts only plain SQL-language functions.
func checkFunction(stmt *pg_query.CreateFunctionStmt) error {
	if stmt.IsProcedure {
		return fmt.Errorf("CREATE PROCEDURE is not allowed")
	}
	language := ""
	for _, opt := range stmt.Options {
		def := opt.GetDefElem()
		if def == nil {
			continue
		}
		switch def.Defname {
		case "language":
			language = def.GetArg().GetString_().GetSval()
		case "security":
			if def.GetArg().GetBoolean().GetBoolval() {
				return fmt.Errorf("SECURITY DEFINER functions are not allowed")
			}
		}
	}
	if !strings.EqualFold(language, "sql") {
		return fmt.Errorf("functions must be LANGUAGE sql, got %q", language)
	}
	return nil
}

// statementKind turns *pg_query.Node_SelectStmt into "SelectStmt".
func statementKind(node *pg_query.Node) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", node.Node), "*pg_query.Node_")
}
