package match

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return NewPostgresRepository(sqlx.NewDb(mockDB, "sqlmock")), mock
}

func expectPairLock(mock sqlmock.Sqlmock, a, b int64) {
	mock.ExpectExec(regexp.QuoteMeta("pg_advisory_xact_lock(LEAST($1, $2)::int, GREATEST($1, $2)::int)")).
		WithArgs(a, b).
		WillReturnResult(sqlmock.NewResult(0, 0))
}

func expectLikeUpsert(mock sqlmock.Sqlmock, a, b int64) {
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO match_interactions") +
		".*" + regexp.QuoteMeta("DO UPDATE SET status = 'liked'")).
		WithArgs(a, b).
		WillReturnResult(sqlmock.NewResult(0, 1))
}

func TestRecordLikeCompletesReciprocalMatch(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	expectPairLock(mock, 1, 2)
	expectLikeUpsert(mock, 1, 2)
	mock.ExpectQuery("SELECT status FROM match_interactions").
		WithArgs(int64(2), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(InteractionLiked))
	mock.ExpectExec(regexp.QuoteMeta("SET status = 'matched'")).
		WithArgs(int64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO friendships").
		WithArgs(int64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	matched, err := repo.RecordLike(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.True(t, matched)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordLikeWithoutReciprocalStaysPending(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	expectPairLock(mock, 1, 2)
	expectLikeUpsert(mock, 1, 2)
	mock.ExpectQuery("SELECT status FROM match_interactions").
		WithArgs(int64(2), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"status"}))
	mock.ExpectCommit()

	matched, err := repo.RecordLike(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.False(t, matched)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordLikeSkippedReciprocalStaysPending(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	expectPairLock(mock, 1, 2)
	expectLikeUpsert(mock, 1, 2)
	mock.ExpectQuery("SELECT status FROM match_interactions").
		WithArgs(int64(2), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(InteractionSkipped))
	mock.ExpectCommit()

	matched, err := repo.RecordLike(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.False(t, matched)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordLikeAfterMatchIsIdempotent(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	expectPairLock(mock, 2, 1)
	expectLikeUpsert(mock, 2, 1)
	mock.ExpectQuery("SELECT status FROM match_interactions").
		WithArgs(int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(InteractionMatched))
	mock.ExpectExec(regexp.QuoteMeta("SET status = 'matched'")).
		WithArgs(int64(2), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO friendships").
		WithArgs(int64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	matched, err := repo.RecordLike(context.Background(), 2, 1)
	require.NoError(t, err)
	assert.True(t, matched)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordSkipNeverDemotesMatched(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("DO UPDATE SET status = 'skipped'") +
		".*" + regexp.QuoteMeta("WHERE match_interactions.status != 'matched'")).
		WithArgs(int64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.RecordSkip(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindCandidatesFiltersInteractedAndFriends(t *testing.T) {
	repo, mock := newMockRepo(t)

	// the interaction filter covers skips and likes alike; a friendship
	// filter keeps already-matched pairs out even if rows were pruned
	query := regexp.QuoteMeta("FROM match_profiles mp") +
		".*" + regexp.QuoteMeta("SELECT 1 FROM match_interactions mi") +
		".*" + regexp.QuoteMeta("SELECT 1 FROM friendships f")
	mock.ExpectQuery(query).
		WithArgs(int64(1), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{
			"user_id", "username", "display_name", "avatar_url", "bio",
			"hiking", "gardening", "board_games", "singing", "reading",
			"walking", "cooking", "movies", "tai_chi", "last_updated",
		}).AddRow(
			int64(7), "marta", nil, nil, "keen gardener",
			false, true, false, false, true,
			false, false, false, false, time.Now(),
		))

	candidates, err := repo.FindCandidates(context.Background(), 1, nil)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, int64(7), candidates[0].UserID)
	assert.True(t, candidates[0].Hobbies.Gardening)
	assert.NoError(t, mock.ExpectationsWereMet())
}
