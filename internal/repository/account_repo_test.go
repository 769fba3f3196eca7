package repository

import (
	"context"
	"testing"

	"bankledger/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.Account{}, &model.AccountTransaction{}))
	return db
}

func testAccount(no, mail, mobile string, balance int64) *model.Account {
	return &model.Account{
		AccountNo: no,
		Name:      "测试用户",
		Mail:      mail,
		MobileNum: mobile,
		Balance:   balance,
		PinHash:   "salt$hash",
	}
}

func TestAccountCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, nil, testAccount("1000000001", "a@example.com", "1300000001", 100)))

	account, err := repo.GetByAccountNo(ctx, "1000000001")
	require.NoError(t, err)
	assert.Equal(t, int64(100), account.Balance)

	_, err = repo.GetByAccountNo(ctx, "1000000002")
	assert.ErrorIs(t, err, ErrAccountNotFound)

	exists, err := repo.ExistsByAccountNo(ctx, nil, "1000000001")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestAccountCreateUniqueness(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, nil, testAccount("1000000001", "a@example.com", "1300000001", 0)))

	err := repo.Create(ctx, nil, testAccount("1000000002", "a@example.com", "1300000002", 0))
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	err = repo.Create(ctx, nil, testAccount("1000000003", "c@example.com", "1300000001", 0))
	assert.ErrorIs(t, err, ErrDuplicateMobile)

	count, err := repo.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUpdateBalance(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, nil, testAccount("1000000001", "a@example.com", "1300000001", 100)))

	account, err := repo.GetByAccountNo(ctx, "1000000001")
	require.NoError(t, err)

	require.NoError(t, repo.UpdateBalance(ctx, nil, "1000000001", 250, account.Version))

	updated, err := repo.GetByAccountNo(ctx, "1000000001")
	require.NoError(t, err)
	assert.Equal(t, int64(250), updated.Balance)
	assert.Equal(t, account.Version+1, updated.Version)

	// 版本号过期：乐观锁冲突
	err = repo.UpdateBalance(ctx, nil, "1000000001", 300, account.Version)
	assert.ErrorIs(t, err, ErrOptimisticLock)

	// 账户不存在
	err = repo.UpdateBalance(ctx, nil, "1000000009", 300, 0)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestAccountDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, nil, testAccount("1000000001", "a@example.com", "1300000001", 0)))

	require.NoError(t, repo.Delete(ctx, nil, "1000000001"))
	assert.ErrorIs(t, repo.Delete(ctx, nil, "1000000001"), ErrAccountNotFound)

	_, err := repo.GetByAccountNo(ctx, "1000000001")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestSumBalance(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	// 空表返回0
	total, err := repo.SumBalance(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	require.NoError(t, repo.Create(ctx, nil, testAccount("1000000001", "a@example.com", "1300000001", 100)))
	require.NoError(t, repo.Create(ctx, nil, testAccount("1000000002", "b@example.com", "1300000002", 250)))

	total, err = repo.SumBalance(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(350), total)
}
