package model

import "time"

// 会员等级
const (
	TierBronze   = "bronze"
	TierSilver   = "silver"
	TierGold     = "gold"
	TierPlatinum = "platinum"
)

// 积分流水类型
const (
	LoyaltyEarn   = "earn"
	LoyaltyRedeem = "redeem"
	LoyaltyAdjust = "adjust"
)

// Customer 顾客表 — 对应 customers
type Customer struct {
	CustomerID     string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"customer_id"`
	Name           string  `gorm:"type:varchar(100);not null"                     json:"name"`
	Email          *string `gorm:"type:varchar(255)"                              json:"email,omitempty"`
	Phone          *string `gorm:"type:varchar(30)"                               json:"phone,omitempty"`
	PointsBalance  int     `gorm:"not null;default:0"                             json:"points_balance"`
	LifetimePoints int     `gorm:"not null;default:0"                             json:"lifetime_points"`
	Tier           string  `gorm:"type:varchar(20);not null;default:'bronze'"     json:"tier"`
	CreatedBy      *string `gorm:"type:uuid"                                      json:"created_by,omitempty"`
	VersionedModel
}

// TableName 指定表名
func (Customer) TableName() string { return "customers" }

// TierFor 按累计积分计算会员等级
func TierFor(lifetimePoints int) string {
	switch {
	case lifetimePoints >= 5000:
		return TierPlatinum
	case lifetimePoints >= 2000:
		return TierGold
	case lifetimePoints >= 500:
		return TierSilver
	default:
		return TierBronze
	}
}

// LoyaltyTransaction 积分流水表 — 对应 loyalty_transactions
type LoyaltyTransaction struct {
	TransactionID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"transaction_id"`
	CustomerID    string    `gorm:"type:uuid;not null"                             json:"customer_id"`
	Points        int       `gorm:"not null"                                       json:"points"` // 正数入账，负数扣减
	Kind          string    `gorm:"type:varchar(20);not null"                      json:"kind"`   // earn | redeem | adjust
	Reason        string    `gorm:"type:varchar(255)"                              json:"reason,omitempty"`
	EmployeeID    *string   `gorm:"type:uuid"                                      json:"employee_id,omitempty"`
	CreatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"           json:"created_at"`
}

// TableName 指定表名
func (LoyaltyTransaction) TableName() string { return "loyalty_transactions" }
