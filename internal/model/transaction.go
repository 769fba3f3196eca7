package model

import (
	"time"
)

// ============================================================================
// 交易类型常量
// ============================================================================

const (
	TransactionTypeCreated     = "CREATED"      // 开户（初始存款）
	TransactionTypeDeposit     = "DEPOSIT"      // 存款
	TransactionTypeWithdraw    = "WITHDRAW"     // 取款
	TransactionTypeTransferOut = "TRANSFER_OUT" // 转账转出
	TransactionTypeTransferIn  = "TRANSFER_IN"  // 转账转入
	TransactionTypeClosed      = "CLOSED"       // 销户（金额为销户时的最终余额）
)

// ============================================================================
// 账户流水实体
// ============================================================================

// AccountTransaction 账户流水表
// 记录账户的每一笔资金变动，是对账和余额重建的核心依据
//
// 【重要】流水表设计原则：
// 1. 只追加，不修改 —— 保证审计可追溯（仅销户清理策略开启时级联删除）
// 2. 每笔流水记录事件后余额快照 —— 便于校验余额一致性
// 3. 同一账户内按追加顺序（自增 ID）排序，时间戳单调不减
//
// 注意：CreatedAt 不使用 autoCreateTime，由 LedgerService 在提交前显式赋值，
// 以保证转账双边流水共享同一时间戳。
type AccountTransaction struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	TransactionNo  string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"transaction_no"` // 流水号（全局唯一）
	AccountNo      string    `gorm:"type:varchar(10);index;not null" json:"account_no"`           // 所属账户号
	Type           string    `gorm:"type:varchar(20);not null" json:"type"`                       // 交易类型
	Amount         int64     `gorm:"not null" json:"amount"`                                      // 本次变动金额（幅值）
	CurrentBalance int64     `gorm:"not null" json:"current_balance"`                             // 事件后余额快照
	CreatedAt      time.Time `gorm:"index;not null" json:"created_at"`
}

func (AccountTransaction) TableName() string {
	return "account_transaction"
}
