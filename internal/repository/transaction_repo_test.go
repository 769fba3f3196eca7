package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"bankledger/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var transSeq int

func appendTrans(t *testing.T, repo *TransactionRepository, accountNo, transType string, amount, balance int64) {
	t.Helper()
	transSeq++
	err := repo.Create(context.Background(), nil, &model.AccountTransaction{
		TransactionNo:  fmt.Sprintf("TXN%010d", transSeq),
		AccountNo:      accountNo,
		Type:           transType,
		Amount:         amount,
		CurrentBalance: balance,
		CreatedAt:      time.Now(),
	})
	require.NoError(t, err)
}

func TestListByAccountNo(t *testing.T) {
	db := newTestDB(t)
	repo := NewTransactionRepository(db)
	ctx := context.Background()

	appendTrans(t, repo, "1000000001", model.TransactionTypeCreated, 100, 100)
	appendTrans(t, repo, "1000000001", model.TransactionTypeDeposit, 50, 150)
	appendTrans(t, repo, "1000000002", model.TransactionTypeCreated, 0, 0)

	// 只返回本账户的流水，按追加顺序倒序
	records, err := repo.ListByAccountNo(ctx, "1000000001")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, model.TransactionTypeDeposit, records[0].Type)
	assert.Equal(t, model.TransactionTypeCreated, records[1].Type)
}

func TestDeleteByAccountNo(t *testing.T) {
	db := newTestDB(t)
	repo := NewTransactionRepository(db)
	ctx := context.Background()

	appendTrans(t, repo, "1000000001", model.TransactionTypeCreated, 100, 100)
	appendTrans(t, repo, "1000000002", model.TransactionTypeCreated, 200, 200)

	require.NoError(t, repo.DeleteByAccountNo(ctx, nil, "1000000001"))

	records, err := repo.ListByAccountNo(ctx, "1000000001")
	require.NoError(t, err)
	assert.Empty(t, records)

	// 其他账户的流水不受影响
	records, err = repo.ListByAccountNo(ctx, "1000000002")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestNetFlow(t *testing.T) {
	db := newTestDB(t)
	repo := NewTransactionRepository(db)
	ctx := context.Background()

	// 开户100 + 存款50 - 取款30 + 转入20 - 转出20 = 120
	appendTrans(t, repo, "1000000001", model.TransactionTypeCreated, 100, 100)
	appendTrans(t, repo, "1000000001", model.TransactionTypeDeposit, 50, 150)
	appendTrans(t, repo, "1000000001", model.TransactionTypeWithdraw, 30, 120)
	appendTrans(t, repo, "1000000001", model.TransactionTypeTransferOut, 20, 100)
	appendTrans(t, repo, "1000000002", model.TransactionTypeCreated, 0, 0)
	appendTrans(t, repo, "1000000002", model.TransactionTypeTransferIn, 20, 20)

	net, err := repo.NetFlow(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(120), net)

	// 销户按最终余额计出账
	appendTrans(t, repo, "1000000002", model.TransactionTypeClosed, 20, 20)

	net, err = repo.NetFlow(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(100), net)
}
