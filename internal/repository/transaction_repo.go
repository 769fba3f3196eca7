package repository

import (
	"context"

	"bankledger/internal/model"

	"gorm.io/gorm"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create 追加一条流水，必须在调用方事务内执行
func (r *TransactionRepository) Create(ctx context.Context, tx *gorm.DB, trans *model.AccountTransaction) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(trans).Error
}

// ListByAccountNo 查询账户全部流水，按追加顺序倒序（最新在前）
func (r *TransactionRepository) ListByAccountNo(ctx context.Context, accountNo string) ([]*model.AccountTransaction, error) {
	var transactions []*model.AccountTransaction
	err := r.db.WithContext(ctx).
		Where("account_no = ?", accountNo).
		Order("id DESC").
		Find(&transactions).Error
	return transactions, err
}

// DeleteByAccountNo 删除账户全部流水
// 仅供销户级联清理使用（purge_history_on_close 开启时）
func (r *TransactionRepository) DeleteByAccountNo(ctx context.Context, tx *gorm.DB, accountNo string) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).
		Where("account_no = ?", accountNo).
		Delete(&model.AccountTransaction{}).Error
}

// NetFlow 计算全部流水的净资金流
// 开户、存款、转入计正；取款、转出计负；销户按最终余额计负（资金离开银行）。
// 对账时该值应等于全行余额总和。
func (r *TransactionRepository) NetFlow(ctx context.Context, tx *gorm.DB) (int64, error) {
	if tx == nil {
		tx = r.db
	}

	var net int64
	err := tx.WithContext(ctx).
		Model(&model.AccountTransaction{}).
		Select(`COALESCE(SUM(CASE
			WHEN type IN (?, ?, ?) THEN amount
			WHEN type IN (?, ?, ?) THEN -amount
			ELSE 0 END), 0)`,
			model.TransactionTypeCreated,
			model.TransactionTypeDeposit,
			model.TransactionTypeTransferIn,
			model.TransactionTypeWithdraw,
			model.TransactionTypeTransferOut,
			model.TransactionTypeClosed,
		).
		Scan(&net).Error
	return net, err
}
