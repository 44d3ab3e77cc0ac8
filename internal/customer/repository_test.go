package customer

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"ration-be/internal/apperr"
	"ration-be/internal/rationcard"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var customerColumns = []string{
	"id", "name", "phone", "address", "national_id", "card_type", "card_number",
	"family_members", "version", "created_at", "updated_at",
}

func TestRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("Success with legacy family document", func(t *testing.T) {
		rows := sqlmock.NewRows(customerColumns).AddRow(
			"c-1", "Meena", "9999", "Street 1", "123412341234", "YELLOW", "YL-1",
			[]byte(`[{"name":"Ravi","aadhaarNumber":"1","relationship":"son","age":4}]`),
			int64(3), now, now,
		)

		mock.ExpectQuery(`SELECT .* FROM customers WHERE id = \$1`).
			WithArgs("c-1").
			WillReturnRows(rows)

		c, err := repo.GetByID(ctx, "c-1")
		require.NoError(t, err)
		assert.Equal(t, rationcard.Type("YELLOW"), c.CardType)
		assert.Equal(t, int64(3), c.Version)
		require.Len(t, c.FamilyMembers, 1)
		assert.Equal(t, "son", c.FamilyMembers[0].Relation)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM customers WHERE id = \$1`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(ctx, "missing")
		assert.Equal(t, ErrCustomerNotFound, err)
		assert.True(t, errors.Is(err, apperr.ErrNotFound))
	})

	t.Run("Corrupt document", func(t *testing.T) {
		rows := sqlmock.NewRows(customerColumns).AddRow(
			"c-2", "X", "", "", "1", "YELLOW", "YL-2",
			[]byte(`{"schemaVersion":9}`), int64(1), now, now,
		)
		mock.ExpectQuery(`SELECT .* FROM customers WHERE id = \$1`).
			WithArgs("c-2").
			WillReturnRows(rows)

		_, err := repo.GetByID(ctx, "c-2")
		assert.True(t, errors.Is(err, ErrUnsupportedDocument))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	c := &Customer{ID: "c-1", Name: "Meena", NationalID: "1234", CardType: "PINK", CardNumber: "PK-9"}

	t.Run("Success", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery(`INSERT INTO customers`).
			WithArgs("c-1", "Meena", "", "", "1234", "PINK", "PK-9", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"version", "created_at", "updated_at"}).AddRow(int64(1), now, now))

		require.NoError(t, repo.Create(ctx, c))
		assert.Equal(t, int64(1), c.Version)
		assert.Equal(t, now, c.CreatedAt)
	})

	t.Run("Duplicate national id", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO customers`).
			WillReturnError(&pq.Error{Code: "23505"})

		err := repo.Create(ctx, c)
		assert.Equal(t, ErrNationalIDExists, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()
	c := &Customer{ID: "c-1", Name: "Meena", CardType: "PINK", CardNumber: "PK-9", Version: 4}

	t.Run("Success bumps version", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE customers SET .* WHERE id = \$7 AND version = \$8`).
			WithArgs("Meena", "", "", "PINK", "PK-9", sqlmock.AnyArg(), "c-1", int64(4)).
			WillReturnRows(sqlmock.NewRows([]string{"version", "updated_at"}).AddRow(int64(5), time.Now()))

		require.NoError(t, repo.Update(ctx, c))
		assert.Equal(t, int64(5), c.Version)
	})

	t.Run("Stale version", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE customers`).
			WillReturnError(sql.ErrNoRows)

		err := repo.Update(ctx, c)
		assert.True(t, errors.Is(err, apperr.ErrTransactionConflict))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	search := "meena"
	cardType := rationcard.Type("PINK")

	mock.ExpectQuery(`SELECT .* FROM customers WHERE 1=1 AND \(name ILIKE \$1 OR card_number ILIKE \$1\) AND card_type = \$2 ORDER BY name ASC LIMIT \$3 OFFSET \$4`).
		WithArgs("%meena%", "PINK", 20, 0).
		WillReturnRows(sqlmock.NewRows(customerColumns))

	customers, err := repo.List(context.Background(), ListFilter{Search: &search, CardType: &cardType, Limit: 20})
	require.NoError(t, err)
	assert.Empty(t, customers)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CountAndHasOrders(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM customers`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM orders WHERE customer_id = \$1\)`).
		WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	has, err := repo.HasOrders(ctx, "c-1")
	require.NoError(t, err)
	assert.True(t, has)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM customers WHERE id = \$1`).
			WithArgs("c-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(ctx, "c-1"))
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM customers WHERE id = \$1`).
			WithArgs("missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.Equal(t, ErrCustomerNotFound, repo.Delete(ctx, "missing"))
	})

	t.Run("Still referenced", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM customers WHERE id = \$1`).
			WithArgs("c-2").
			WillReturnError(&pq.Error{Code: "23503"})

		err := repo.Delete(ctx, "c-2")
		assert.Equal(t, ErrCustomerInUse, err)
		assert.True(t, errors.Is(err, apperr.ErrForbidden))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
