package leavebalance

import (
	"context"
	"testing"

	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/leavecalc"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestRepository_WithTx_RunsOnCallerTransaction(t *testing.T) {
	poolConn, poolMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer poolConn.Close()

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: poolConn}), &gorm.Config{})
	assert.NoError(t, err)

	txConn, txMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer txConn.Close()

	txMock.ExpectBegin()
	txMock.ExpectExec(`UPDATE "leave_balances" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	txMock.ExpectRollback()

	tx, err := txConn.Begin()
	assert.NoError(t, err)

	repo := NewRepository(gormDB).WithTx(tx)
	err = repo.Debit(context.Background(), uuid.New().String(), 2026,
		leavecalc.BucketVacation, decimal.NewFromInt(5), decimal.RequireFromString("1.25"))
	assert.NoError(t, err)

	assert.NoError(t, tx.Rollback())

	// the debit travelled on the caller's transaction and rolled back
	// with it; nothing leaked onto the shared pool
	assert.NoError(t, txMock.ExpectationsWereMet())
	assert.NoError(t, poolMock.ExpectationsWereMet())
}
