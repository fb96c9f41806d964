package store

import (
	"context"
	"testing"
	"time"

	"syafa-store/internal/domain/order/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockedGormStore(t *testing.T) (*GormStore, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormStore(db), mock
}

func orderRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"reff_id", "package_id", "package_name", "ram", "disk", "cpu", "price",
		"panel_username", "customer_email", "payment_method", "qris_url",
		"qris_content", "atlantic_transaction_id", "panel_domain",
		"panel_password", "user_id", "server_id", "status", "error_message",
		"created_at", "updated_at",
	}).AddRow(
		"WEB_SYAFA_1_aa", 1, "1GB Starter", 1024, 1024, 2, 15000,
		"alice", "", "qris", "", "", "", "", "", 0, 0, "pending", "",
		time.Now(), time.Now(),
	)
}

func TestGormStoreGet(t *testing.T) {
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		st, mock := newMockedGormStore(t)
		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE reff_id = .+`).
			WillReturnRows(orderRows())

		order, err := st.Get(ctx, "WEB_SYAFA_1_aa")
		assert.NoError(t, err)
		assert.Equal(t, model.StatusPending, order.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not found", func(t *testing.T) {
		st, mock := newMockedGormStore(t)
		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE reff_id = .+`).
			WillReturnRows(sqlmock.NewRows([]string{"reff_id"}))

		_, err := st.Get(ctx, "WEB_SYAFA_missing")
		assert.ErrorIs(t, err, ErrOrderNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStoreTransitionStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("Wins when the row matches", func(t *testing.T) {
		st, mock := newMockedGormStore(t)
		mock.ExpectExec(`UPDATE "orders" SET .+ WHERE reff_id = .+ AND status = .+`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		won, err := st.TransitionStatus(ctx, "WEB_SYAFA_1_aa", model.StatusPending, model.StatusProcessing)
		assert.NoError(t, err)
		assert.True(t, won)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Loses when another writer moved the status", func(t *testing.T) {
		st, mock := newMockedGormStore(t)
		mock.ExpectExec(`UPDATE "orders" SET .+ WHERE reff_id = .+ AND status = .+`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE reff_id = .+`).
			WillReturnRows(orderRows())

		won, err := st.TransitionStatus(ctx, "WEB_SYAFA_1_aa", model.StatusPending, model.StatusProcessing)
		assert.NoError(t, err)
		assert.False(t, won)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown order surfaces not found", func(t *testing.T) {
		st, mock := newMockedGormStore(t)
		mock.ExpectExec(`UPDATE "orders" SET .+ WHERE reff_id = .+ AND status = .+`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE reff_id = .+`).
			WillReturnRows(sqlmock.NewRows([]string{"reff_id"}))

		_, err := st.TransitionStatus(ctx, "WEB_SYAFA_missing", model.StatusPending, model.StatusProcessing)
		assert.ErrorIs(t, err, ErrOrderNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStorePatch(t *testing.T) {
	ctx := context.Background()

	t.Run("Not found", func(t *testing.T) {
		st, mock := newMockedGormStore(t)
		mock.ExpectExec(`UPDATE "orders" SET .+ WHERE reff_id = .+`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		status := model.StatusFailed
		_, err := st.Patch(ctx, "WEB_SYAFA_missing", model.Patch{Status: &status})
		assert.ErrorIs(t, err, ErrOrderNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Updates and reloads", func(t *testing.T) {
		st, mock := newMockedGormStore(t)
		mock.ExpectExec(`UPDATE "orders" SET .+ WHERE reff_id = .+`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE reff_id = .+`).
			WillReturnRows(orderRows())

		domain := "https://panel.example.com"
		order, err := st.Patch(ctx, "WEB_SYAFA_1_aa", model.Patch{PanelDomain: &domain})
		assert.NoError(t, err)
		assert.Equal(t, "WEB_SYAFA_1_aa", order.ReffID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
