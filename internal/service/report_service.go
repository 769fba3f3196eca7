package service

import (
	"context"

	"bankledger/internal/model"
	"bankledger/internal/repository"

	"gorm.io/gorm"
)

// ReportService 只读报表服务
// 不修改任何状态；跨表统计在单个只读事务内完成，保证取到一致性快照，
// 不会读到多步操作提交一半的中间态
type ReportService struct {
	db              *gorm.DB
	accountRepo     *repository.AccountRepository
	transactionRepo *repository.TransactionRepository
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{
		db:              db,
		accountRepo:     repository.NewAccountRepository(db),
		transactionRepo: repository.NewTransactionRepository(db),
	}
}

type BranchReport struct {
	AccountCount int64 `json:"account_count"` // 在册账户数
	TotalFunds   int64 `json:"total_funds"`   // 全行余额总和
}

type ReconcileResult struct {
	TotalFunds int64 `json:"total_funds"` // 账户表余额总和
	LedgerNet  int64 `json:"ledger_net"`  // 流水净资金流
	Balanced   bool  `json:"balanced"`    // 两者是否一致
}

// Balance 查询账户余额
func (s *ReportService) Balance(ctx context.Context, accountNo string) (int64, error) {
	account, err := s.accountRepo.GetByAccountNo(ctx, accountNo)
	if err != nil {
		return 0, err
	}
	return account.Balance, nil
}

// History 查询账户流水，最新在前
func (s *ReportService) History(ctx context.Context, accountNo string) ([]*model.AccountTransaction, error) {
	return s.transactionRepo.ListByAccountNo(ctx, accountNo)
}

// GetBranchReport 网点汇总报表
func (s *ReportService) GetBranchReport(ctx context.Context) (*BranchReport, error) {
	report := &BranchReport{}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		count, err := s.accountRepo.Count(ctx, tx)
		if err != nil {
			return err
		}
		total, err := s.accountRepo.SumBalance(ctx, tx)
		if err != nil {
			return err
		}
		report.AccountCount = count
		report.TotalFunds = total
		return nil
	})

	if err != nil {
		return nil, err
	}
	return report, nil
}

// Reconcile 对账
// 校验不变量：账户表余额总和 == 流水净资金流（资金既不凭空产生也不凭空消失）
func (s *ReportService) Reconcile(ctx context.Context) (*ReconcileResult, error) {
	result := &ReconcileResult{}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		total, err := s.accountRepo.SumBalance(ctx, tx)
		if err != nil {
			return err
		}
		net, err := s.transactionRepo.NetFlow(ctx, tx)
		if err != nil {
			return err
		}
		result.TotalFunds = total
		result.LedgerNet = net
		result.Balanced = total == net
		return nil
	})

	if err != nil {
		return nil, err
	}
	return result, nil
}
