package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/lib/pq"
	"go.nhat.io/otelsql"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"

	"github.com/patrolscribe/assistant/store"
)

var DRIVER string

func init() {
	driver, err := otelsql.Register(
		"postgres",
		otelsql.TraceQueryWithoutArgs(),
		otelsql.TraceRowsClose(),
		otelsql.TraceRowsAffected(),
		otelsql.WithSystem(semconv.DBSystemPostgreSQL),
	)
	if err != nil {
		detail := "failed to register postgres store with otel"
		slog.ErrorContext(context.Background(), detail, "error", err)
		panic(detail)
	}

	DRIVER = driver
}

type Store struct {
	options store.Options
	conn    *sql.DB
}

func (s *Store) AppendMessage(ctx context.Context, sessionId string, fromUser bool, text string) (string, error) {
	query := `
		INSERT INTO messages (session_id, from_user, text)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	var id string
	if err := s.conn.QueryRowContext(ctx, query, sessionId, fromUser, text).Scan(&id); err != nil {
		return "", err
	}

	return id, nil
}

func (s *Store) PatchMessageText(ctx context.Context, id string, text string) error {
	query := `
		UPDATE messages
		SET text = $2
		WHERE id = $1
	`

	res, err := s.conn.ExecContext(ctx, query, id, text)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.New("message not found")
	}

	return nil
}

func (s *Store) ListBySession(ctx context.Context, sessionId string) ([]store.Message, error) {
	query := `
		SELECT id, session_id, from_user, text
		FROM messages
		WHERE session_id = $1
		ORDER BY id
	`

	rows, err := s.conn.QueryContext(ctx, query, sessionId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	msgs := []store.Message{}
	for rows.Next() {
		var m store.Message
		if err := rows.Scan(&m.Id, &m.SessionId, &m.FromUser, &m.Text); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return msgs, nil
}

func (s *Store) GetCrimeElement(ctx context.Context, codeNumber string) (*store.CrimeElement, error) {
	query := `
		SELECT code_number, elements, calcrim_examples
		FROM crime_elements
		WHERE code_number = $1
	`

	var el store.CrimeElement
	err := s.conn.QueryRowContext(ctx, query, codeNumber).Scan(
		&el.CodeNumber,
		pq.Array(&el.Elements),
		pq.Array(&el.CalcrimExamples),
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &el, nil
}

func (s *Store) PutCrimeElement(ctx context.Context, element store.CrimeElement) error {
	query := `
		INSERT INTO crime_elements (code_number, elements, calcrim_examples)
		VALUES ($1, $2, $3)
		ON CONFLICT (code_number) DO UPDATE
		SET elements = EXCLUDED.elements, calcrim_examples = EXCLUDED.calcrim_examples
	`

	_, err := s.conn.ExecContext(
		ctx,
		query,
		element.CodeNumber,
		pq.Array(element.Elements),
		pq.Array(element.CalcrimExamples),
	)

	return err
}

func (s *Store) GetPenalCode(ctx context.Context, codeNumber string) (*store.PenalCode, error) {
	query := `
		SELECT code_number, code_type, narrative, class
		FROM penal_codes
		WHERE code_number = $1
	`

	var pc store.PenalCode
	if err := s.conn.QueryRowContext(ctx, query, codeNumber).Scan(
		&pc.CodeNumber,
		&pc.CodeType,
		&pc.Narrative,
		&pc.Class,
	); err != nil {
		return nil, err
	}

	return &pc, nil
}

func NewStore(opts ...store.Option) *Store {
	options := store.NewOptions(opts...)

	s := &Store{
		options: options,
	}

	conn, err := sql.Open(DRIVER, s.options.Location)
	if err != nil {
		detail := "failed to connect with postgres store"
		slog.ErrorContext(context.Background(), detail, "error", err)
		panic(detail)
	}

	if err := conn.Ping(); err != nil {
		detail := "failed to ping with postgres store"
		slog.ErrorContext(context.Background(), detail, "error", err)
		panic(detail)
	}

	if err := otelsql.RecordStats(conn); err != nil {
		detail := "failed to initialize postgres instrumentation for postgres store"
		slog.ErrorContext(context.Background(), detail, "error", err)
		panic(detail)
	}

	s.conn = conn

	return s
}
