package repository

import (
	"context"
	"errors"

	"bankledger/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrAccountNotFound = errors.New("账户不存在")
	ErrDuplicateEmail  = errors.New("邮箱已被注册")
	ErrDuplicateMobile = errors.New("手机号已被注册")
	ErrOptimisticLock  = errors.New("乐观锁冲突，请重试")
)

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create 创建账户
// 插入前在同一事务内校验邮箱、手机号唯一性；唯一索引兜底，
// 保证即使扩展为多写入方约束依然成立
func (r *AccountRepository) Create(ctx context.Context, tx *gorm.DB, account *model.Account) error {
	if tx == nil {
		tx = r.db
	}

	var count int64
	if err := tx.WithContext(ctx).
		Model(&model.Account{}).
		Where("mail = ?", account.Mail).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateEmail
	}

	if err := tx.WithContext(ctx).
		Model(&model.Account{}).
		Where("mobile_num = ?", account.MobileNum).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateMobile
	}

	return tx.WithContext(ctx).Create(account).Error
}

func (r *AccountRepository) GetByAccountNo(ctx context.Context, accountNo string) (*model.Account, error) {
	var account model.Account
	err := r.db.WithContext(ctx).Where("account_no = ?", accountNo).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// lockForUpdate 仅在支持行锁的方言上追加 FOR UPDATE
// SQLite 不支持该语法，写事务本身在文件层串行化，乐观锁版本号兜底
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// GetByAccountNoForUpdate 在事务内加行锁读取账户
// 转账等多账户操作必须按账户号升序依次加锁，避免死锁
func (r *AccountRepository) GetByAccountNoForUpdate(ctx context.Context, tx *gorm.DB, accountNo string) (*model.Account, error) {
	var account model.Account
	err := lockForUpdate(tx.WithContext(ctx)).
		Where("account_no = ?", accountNo).
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepository) ExistsByAccountNo(ctx context.Context, tx *gorm.DB, accountNo string) (bool, error) {
	if tx == nil {
		tx = r.db
	}
	var count int64
	err := tx.WithContext(ctx).
		Model(&model.Account{}).
		Where("account_no = ?", accountNo).
		Count(&count).Error
	return count > 0, err
}

// UpdateBalance 更新账户余额（余额的唯一修改入口）
// 带乐观锁版本校验；行锁 + 版本号双保险
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx *gorm.DB, accountNo string, newBalance int64, version int) error {
	if tx == nil {
		tx = r.db
	}

	result := tx.WithContext(ctx).
		Model(&model.Account{}).
		Where("account_no = ? AND version = ?", accountNo, version).
		Updates(map[string]interface{}{
			"balance": newBalance,
			"version": gorm.Expr("version + 1"),
		})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		exists, err := r.ExistsByAccountNo(ctx, tx, accountNo)
		if err != nil {
			return err
		}
		if !exists {
			return ErrAccountNotFound
		}
		return ErrOptimisticLock
	}

	return nil
}

func (r *AccountRepository) Delete(ctx context.Context, tx *gorm.DB, accountNo string) error {
	if tx == nil {
		tx = r.db
	}

	result := tx.WithContext(ctx).
		Where("account_no = ?", accountNo).
		Delete(&model.Account{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// Count 统计在册账户数（报表用）
func (r *AccountRepository) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	if tx == nil {
		tx = r.db
	}
	var count int64
	err := tx.WithContext(ctx).Model(&model.Account{}).Count(&count).Error
	return count, err
}

// SumBalance 统计全行余额总和（报表、对账用）
func (r *AccountRepository) SumBalance(ctx context.Context, tx *gorm.DB) (int64, error) {
	if tx == nil {
		tx = r.db
	}
	var total int64
	err := tx.WithContext(ctx).
		Model(&model.Account{}).
		Select("COALESCE(SUM(balance), 0)").
		Scan(&total).Error
	return total, err
}
