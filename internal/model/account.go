package model

import (
	"time"
)

// Account 银行账户表
// 账户号是业务主键（10位数字），创建后不可变；余额只允许 LedgerService 修改
type Account struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	AccountNo string    `gorm:"type:varchar(10);uniqueIndex;not null" json:"account_no"` // 账户号（10位数字）
	Name      string    `gorm:"type:varchar(64);not null" json:"name"`                   // 户主姓名
	Mail      string    `gorm:"type:varchar(128);uniqueIndex;not null" json:"mail"`      // 邮箱（全局唯一）
	MobileNum string    `gorm:"type:varchar(10);uniqueIndex;not null" json:"mobile_num"` // 手机号（10位数字，全局唯一）
	Address   string    `gorm:"type:varchar(256)" json:"address"`                        // 联系地址
	Balance   int64     `gorm:"not null;default:0" json:"balance"`                       // 余额（最小货币单位，不允许为负）
	PinHash   string    `gorm:"type:varchar(128);not null" json:"-"`                     // PIN 单向哈希，不可还原明文
	Version   int       `gorm:"not null;default:0" json:"version"`                       // 乐观锁版本号
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Account) TableName() string {
	return "account"
}
