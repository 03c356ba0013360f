package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strogmv/chatnotify/internal/domain"
)

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = r.values[i].(string)
		case **string:
			if r.values[i] != nil {
				s := r.values[i].(string)
				*p = &s
			}
		case *[]string:
			*p = r.values[i].([]string)
		}
	}
	return nil
}

type fakeQuerier struct {
	row     fakeRow
	lastSQL string
	args    []any
}

func (q *fakeQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	q.lastSQL = sql
	q.args = args
	return q.row
}

func TestConversationRepository_FindByID(t *testing.T) {
	q := &fakeQuerier{row: fakeRow{values: []any{"c1", []string{"a", "b"}}}}
	c, err := NewConversationRepository(q).FindByID(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, c.ParticipantIDs)
	assert.Equal(t, []any{"c1"}, q.args)

	q.row = fakeRow{err: pgx.ErrNoRows}
	_, err = NewConversationRepository(q).FindByID(context.Background(), "c1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	q.row = fakeRow{err: errors.New("conn reset")}
	_, err = NewConversationRepository(q).FindByID(context.Background(), "c1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepository_FindByID_NullColumns(t *testing.T) {
	q := &fakeQuerier{row: fakeRow{values: []any{"u1", "Alice", nil, nil}}}
	u, err := NewUserRepository(q).FindByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Name)
	assert.Empty(t, u.PhotoURL)
	assert.Empty(t, u.FCMToken)

	q.row = fakeRow{err: pgx.ErrNoRows}
	_, err = NewUserRepository(q).FindByID(context.Background(), "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
