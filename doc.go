// Package pname parses, validates, orders and hashes person names written as
// "Family, Given Given2", and stores them in PostgreSQL through pgx.
//
// A [PersonName] is an immutable value holding its canonical text
// ("Smith, John Paul"). Family and given names are views into that text.
// [Compare] orders by family name, then by the given names; [PersonName.Hash]
// equals hashtext() of the canonical text on the server.
//
// Three validation policies exist. [PolicyPattern] (the default) requires
// every word to be capitalized and at least two letters long.
// [PolicyStructural] only checks the first letter of each side of the comma
// and allows one-letter words; [PolicyStructuralStrict] adds the two-letter
// minimum back.
//
// # Library Usage
//
//	name, err := pname.Parse("Smith, John Paul")
//	if err != nil {
//		var fe *pname.FormatError
//		if errors.As(err, &fe) {
//			log.Printf("%s name rejected: %s", fe.Part, fe.Reason)
//		}
//		return err
//	}
//	fmt.Println(name.Family(), name.Display()) // Smith John Smith
//
// # PostgreSQL
//
// [InstallSchema] creates a personname domain over text COLLATE "C" whose
// CHECK uses [CanonicalPattern], plus family(), given(), show() and
// sort_key() SQL functions and a to_personname(text) conversion. Use
// ORDER BY sort_key(name) for [Compare] order on the server. Register the
// codec on every pool connection to encode [PersonName] and to scan
// personname[] arrays with a chosen [Validator]:
//
//	config, _ := pgxpool.ParseConfig(connString)
//	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
//		return pname.RegisterTypes(ctx, conn, pname.SchemaConfig{}, nil)
//	}
//	pool, _ := pgxpool.NewWithConfig(ctx, config)
//
//	var author pname.PersonName
//	err = pool.QueryRow(ctx, "SELECT author FROM books WHERE id = $1", id).Scan(&author)
//
// # MCP
//
// [Processor] wraps a policy, size limits and hint rules behind
// request/response methods; [RegisterMCPTools] exposes them as the
// validate_name, parse_name, compare_names and sort_names tools.
package pname
