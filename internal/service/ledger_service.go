package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"bankledger/internal/config"
	"bankledger/internal/model"
	"bankledger/internal/repository"
	"bankledger/pkg/idgen"
	"bankledger/pkg/pinauth"

	"gorm.io/gorm"
)

var (
	ErrInvalidAmount     = errors.New("金额必须大于0")
	ErrInsufficientFunds = errors.New("余额不足")
	ErrSameAccount       = errors.New("转入和转出账户不能相同")
	ErrWrongPin          = errors.New("PIN 错误")
)

// ============================================================================
// 账本引擎
// ============================================================================
//
// 所有资金变动的唯一入口。每个操作是一个事务：
//
//   校验参数 -> 加行锁读账户 -> 校验 PIN -> 改余额 + 追加流水 -> 提交
//
// 余额更新与流水追加在同一个数据库事务内，要么全部提交，要么全部回滚，
// 不会出现只改余额不记流水（或反之）的中间状态。
// 转账涉及两个账户时，按账户号升序加锁，双边更新与双边流水同一事务提交。

type LedgerService struct {
	db              *gorm.DB
	cfg             *config.Config
	accountRepo     *repository.AccountRepository
	transactionRepo *repository.TransactionRepository
}

func NewLedgerService(db *gorm.DB, cfg *config.Config) *LedgerService {
	return &LedgerService{
		db:              db,
		cfg:             cfg,
		accountRepo:     repository.NewAccountRepository(db),
		transactionRepo: repository.NewTransactionRepository(db),
	}
}

type CreateAccountRequest struct {
	Name           string `json:"name"`
	Mail           string `json:"mail"`
	MobileNum      string `json:"mobile_num"`
	Address        string `json:"address"`
	InitialDeposit int64  `json:"initial_deposit"`
	Pin            string `json:"pin"`
}

// CreateAccount 开户
// 生成 10 位唯一账户号（碰撞时重试），哈希 PIN，落库并追加 CREATED 流水
func (s *LedgerService) CreateAccount(ctx context.Context, req *CreateAccountRequest) (string, error) {
	if req.InitialDeposit < 0 {
		return "", ErrInvalidAmount
	}

	pinHash, err := pinauth.Hash(req.Pin)
	if err != nil {
		return "", err
	}

	var accountNo string

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// 账户号碰撞校验
		maxRetry := s.cfg.Business.AccountNoMaxRetry
		for i := 0; i < maxRetry; i++ {
			candidate := idgen.GenerateAccountNo()
			exists, err := s.accountRepo.ExistsByAccountNo(ctx, tx, candidate)
			if err != nil {
				return fmt.Errorf("校验账户号失败: %w", err)
			}
			if !exists {
				accountNo = candidate
				break
			}
		}
		if accountNo == "" {
			return fmt.Errorf("生成账户号失败：连续 %d 次碰撞", maxRetry)
		}

		account := &model.Account{
			AccountNo: accountNo,
			Name:      req.Name,
			Mail:      req.Mail,
			MobileNum: req.MobileNum,
			Address:   req.Address,
			Balance:   req.InitialDeposit,
			PinHash:   pinHash,
		}
		if err := s.accountRepo.Create(ctx, tx, account); err != nil {
			return err
		}

		trans := &model.AccountTransaction{
			TransactionNo:  idgen.GenerateTransactionNo(),
			AccountNo:      accountNo,
			Type:           model.TransactionTypeCreated,
			Amount:         req.InitialDeposit,
			CurrentBalance: req.InitialDeposit,
			CreatedAt:      time.Now(),
		}
		if err := s.transactionRepo.Create(ctx, tx, trans); err != nil {
			return fmt.Errorf("记录流水失败: %w", err)
		}

		return nil
	})

	if err != nil {
		return "", err
	}

	log.Printf("开户成功: accountNo=%s, initialDeposit=%d", accountNo, req.InitialDeposit)
	return accountNo, nil
}

// Authenticate 校验账户号与 PIN
func (s *LedgerService) Authenticate(ctx context.Context, accountNo, pin string) error {
	account, err := s.accountRepo.GetByAccountNo(ctx, accountNo)
	if err != nil {
		return err
	}
	if !pinauth.Verify(pin, account.PinHash) {
		return ErrWrongPin
	}
	return nil
}

// Deposit 存款，返回最新余额
func (s *LedgerService) Deposit(ctx context.Context, accountNo, pin string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	var newBalance int64

	err := s.db.Transaction(func(tx *gorm.DB) error {
		account, err := s.accountRepo.GetByAccountNoForUpdate(ctx, tx, accountNo)
		if err != nil {
			return err
		}
		if !pinauth.Verify(pin, account.PinHash) {
			return ErrWrongPin
		}

		newBalance = account.Balance + amount
		if err := s.accountRepo.UpdateBalance(ctx, tx, accountNo, newBalance, account.Version); err != nil {
			return fmt.Errorf("存款入账失败: %w", err)
		}

		trans := &model.AccountTransaction{
			TransactionNo:  idgen.GenerateTransactionNo(),
			AccountNo:      accountNo,
			Type:           model.TransactionTypeDeposit,
			Amount:         amount,
			CurrentBalance: newBalance,
			CreatedAt:      time.Now(),
		}
		if err := s.transactionRepo.Create(ctx, tx, trans); err != nil {
			return fmt.Errorf("记录流水失败: %w", err)
		}

		return nil
	})

	if err != nil {
		return 0, err
	}

	log.Printf("存款成功: accountNo=%s, amount=%d, balance=%d", accountNo, amount, newBalance)
	return newBalance, nil
}

// Withdraw 取款，返回最新余额
// 余额不足直接拒绝，不产生任何状态变更
func (s *LedgerService) Withdraw(ctx context.Context, accountNo, pin string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	var newBalance int64

	err := s.db.Transaction(func(tx *gorm.DB) error {
		account, err := s.accountRepo.GetByAccountNoForUpdate(ctx, tx, accountNo)
		if err != nil {
			return err
		}
		if !pinauth.Verify(pin, account.PinHash) {
			return ErrWrongPin
		}
		if account.Balance < amount {
			return ErrInsufficientFunds
		}

		newBalance = account.Balance - amount
		if err := s.accountRepo.UpdateBalance(ctx, tx, accountNo, newBalance, account.Version); err != nil {
			return fmt.Errorf("取款扣账失败: %w", err)
		}

		trans := &model.AccountTransaction{
			TransactionNo:  idgen.GenerateTransactionNo(),
			AccountNo:      accountNo,
			Type:           model.TransactionTypeWithdraw,
			Amount:         amount,
			CurrentBalance: newBalance,
			CreatedAt:      time.Now(),
		}
		if err := s.transactionRepo.Create(ctx, tx, trans); err != nil {
			return fmt.Errorf("记录流水失败: %w", err)
		}

		return nil
	})

	if err != nil {
		return 0, err
	}

	log.Printf("取款成功: accountNo=%s, amount=%d, balance=%d", accountNo, amount, newBalance)
	return newBalance, nil
}

// Transfer 转账
// 只认证转出方 PIN。双边余额更新与双边流水在同一事务内提交，
// 任一步失败（包括转入账户不存在）整体回滚，转出方余额保持不变。
func (s *LedgerService) Transfer(ctx context.Context, fromNo, pin, toNo string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if fromNo == toNo {
		return ErrSameAccount
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// 按账户号升序加锁，避免两笔反向转账互相死锁
		first, second := fromNo, toNo
		if second < first {
			first, second = second, first
		}

		locked := make(map[string]*model.Account, 2)
		for _, no := range []string{first, second} {
			account, err := s.accountRepo.GetByAccountNoForUpdate(ctx, tx, no)
			if err != nil {
				return err
			}
			locked[no] = account
		}
		from := locked[fromNo]
		to := locked[toNo]

		if !pinauth.Verify(pin, from.PinHash) {
			return ErrWrongPin
		}
		if from.Balance < amount {
			return ErrInsufficientFunds
		}

		// 双边流水共享同一时间戳
		now := time.Now()
		fromBalance := from.Balance - amount
		toBalance := to.Balance + amount

		if err := s.accountRepo.UpdateBalance(ctx, tx, fromNo, fromBalance, from.Version); err != nil {
			return fmt.Errorf("转出扣账失败: %w", err)
		}
		if err := s.accountRepo.UpdateBalance(ctx, tx, toNo, toBalance, to.Version); err != nil {
			return fmt.Errorf("转入入账失败: %w", err)
		}

		outTrans := &model.AccountTransaction{
			TransactionNo:  idgen.GenerateTransactionNo(),
			AccountNo:      fromNo,
			Type:           model.TransactionTypeTransferOut,
			Amount:         amount,
			CurrentBalance: fromBalance,
			CreatedAt:      now,
		}
		if err := s.transactionRepo.Create(ctx, tx, outTrans); err != nil {
			return fmt.Errorf("记录转出流水失败: %w", err)
		}

		inTrans := &model.AccountTransaction{
			TransactionNo:  idgen.GenerateTransactionNo(),
			AccountNo:      toNo,
			Type:           model.TransactionTypeTransferIn,
			Amount:         amount,
			CurrentBalance: toBalance,
			CreatedAt:      now,
		}
		if err := s.transactionRepo.Create(ctx, tx, inTrans); err != nil {
			return fmt.Errorf("记录转入流水失败: %w", err)
		}

		return nil
	})

	if err != nil {
		return err
	}

	log.Printf("转账成功: from=%s, to=%s, amount=%d", fromNo, toNo, amount)
	return nil
}

// CloseAccount 销户，返回销户时的最终余额
// 追加 CLOSED 流水（金额为最终余额）后删除账户记录；
// 流水默认保留用于审计，purge_history_on_close 开启时级联删除
func (s *LedgerService) CloseAccount(ctx context.Context, accountNo, pin string) (int64, error) {
	var finalBalance int64

	err := s.db.Transaction(func(tx *gorm.DB) error {
		account, err := s.accountRepo.GetByAccountNoForUpdate(ctx, tx, accountNo)
		if err != nil {
			return err
		}
		if !pinauth.Verify(pin, account.PinHash) {
			return ErrWrongPin
		}
		finalBalance = account.Balance

		trans := &model.AccountTransaction{
			TransactionNo:  idgen.GenerateTransactionNo(),
			AccountNo:      accountNo,
			Type:           model.TransactionTypeClosed,
			Amount:         finalBalance,
			CurrentBalance: finalBalance,
			CreatedAt:      time.Now(),
		}
		if err := s.transactionRepo.Create(ctx, tx, trans); err != nil {
			return fmt.Errorf("记录流水失败: %w", err)
		}

		if s.cfg.Business.PurgeHistoryOnClose {
			if err := s.transactionRepo.DeleteByAccountNo(ctx, tx, accountNo); err != nil {
				return fmt.Errorf("清理流水失败: %w", err)
			}
		}

		if err := s.accountRepo.Delete(ctx, tx, accountNo); err != nil {
			return fmt.Errorf("删除账户失败: %w", err)
		}

		return nil
	})

	if err != nil {
		return 0, err
	}

	log.Printf("销户成功: accountNo=%s, finalBalance=%d", accountNo, finalBalance)
	return finalBalance, nil
}
