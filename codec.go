package pname

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// Codec is the pgx codec for the personname SQL type. The type is a domain
// over text, so the text and binary wire forms are the same bytes.
// A nil Validator means DefaultPolicy.
type Codec struct {
	Validator Validator
}

func (c *Codec) validator() Validator {
	if c.Validator == nil {
		return defaultValidator
	}
	return c.Validator
}

func (c *Codec) FormatSupported(format int16) bool {
	return format == pgtype.TextFormatCode || format == pgtype.BinaryFormatCode
}

func (c *Codec) PreferredFormat() int16 {
	return pgtype.TextFormatCode
}

func (c *Codec) PlanEncode(m *pgtype.Map, oid uint32, format int16, value any) pgtype.EncodePlan {
	switch value.(type) {
	case PersonName:
		return encodePlanPersonName{}
	case string:
		return &encodePlanString{validator: c.validator()}
	}
	return nil
}

type encodePlanPersonName struct{}

func (encodePlanPersonName) Encode(value any, buf []byte) ([]byte, error) {
	p := value.(PersonName)
	if p.IsZero() {
		return nil, nil
	}
	return append(buf, p.text...), nil
}

type encodePlanString struct {
	validator Validator
}

func (plan *encodePlanString) Encode(value any, buf []byte) ([]byte, error) {
	p, err := ParseWith(plan.validator, value.(string))
	if err != nil {
		return nil, err
	}
	return append(buf, p.text...), nil
}

func (c *Codec) PlanScan(m *pgtype.Map, oid uint32, format int16, target any) pgtype.ScanPlan {
	switch target.(type) {
	case *PersonName:
		return &scanPlanPersonName{validator: c.validator()}
	case *string:
		return scanPlanString{}
	}
	return nil
}

type scanPlanPersonName struct {
	validator Validator
}

func (plan *scanPlanPersonName) Scan(src []byte, dst any) error {
	p := dst.(*PersonName)
	if src == nil {
		*p = PersonName{}
		return nil
	}
	parsed, err := ParseWith(plan.validator, string(src))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

type scanPlanString struct{}

func (scanPlanString) Scan(src []byte, dst any) error {
	if src == nil {
		return fmt.Errorf("cannot scan NULL into %T", dst)
	}
	*(dst.(*string)) = string(src)
	return nil
}

func (c *Codec) DecodeDatabaseSQLValue(m *pgtype.Map, oid uint32, format int16, src []byte) (driver.Value, error) {
	if src == nil {
		return nil, nil
	}
	return string(src), nil
}

func (c *Codec) DecodeValue(m *pgtype.Map, oid uint32, format int16, src []byte) (any, error) {
	if src == nil {
		return nil, nil
	}
	return ParseWith(c.validator(), string(src))
}

const typeOIDSQL = `SELECT t.oid, t.typarray FROM pg_catalog.pg_type t WHERE t.oid = to_regtype($1)`

// RegisterTypes looks up the personname type described by cfg and registers
// Codec (and its array type, when present) on conn. It fits
// pgxpool.Config.AfterConnect. A nil v means DefaultPolicy.
//
// v validates personname[] result columns and binary-format string
// parameters. The server describes a scalar domain result column as text, so
// pgx scans it through PersonName.Scan under DefaultPolicy, and pgx sends
// string parameters as text without the codec. The domain CHECK never stores
// text DefaultPolicy rejects.
func RegisterTypes(ctx context.Context, conn *pgx.Conn, cfg SchemaConfig, v Validator) error {
	cfg = cfg.withDefaults()
	qualified := cfg.qualifiedType()

	var oid, arrayOID uint32
	err := conn.QueryRow(ctx, typeOIDSQL, qualified).Scan(&oid, &arrayOID)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("type %s does not exist: install the schema first", qualified)
	}
	if err != nil {
		return fmt.Errorf("failed to look up type %s: %w", qualified, err)
	}

	m := conn.TypeMap()
	elem := &pgtype.Type{Name: cfg.TypeName, OID: oid, Codec: &Codec{Validator: v}}
	m.RegisterType(elem)
	m.RegisterDefaultPgType(PersonName{}, cfg.TypeName)
	if arrayOID != 0 {
		arrayName := "_" + cfg.TypeName
		m.RegisterType(&pgtype.Type{Name: arrayName, OID: arrayOID, Codec: &pgtype.ArrayCodec{ElementType: elem}})
		m.RegisterDefaultPgType([]PersonName{}, arrayName)
	}
	return nil
}
