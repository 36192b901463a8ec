package db

import (
	"time"
)

// Account is the mutable balance record of one address. The three rounded
// fields are always recomputed from their raw counterparts on write.
type Account struct {
	Address                      string `gorm:"primaryKey;size:64"`
	Amount                       string // free minus frozen, raw integer string
	AmountFrozen                 string
	AmountTotal                  string // free plus reserved
	AmountRounded                float64
	AmountFrozenRounded          float64
	AmountTotalRounded           float64
	Validator                    bool `gorm:"index:idx_account_validator"`
	ValidatorSessionParticipated uint32
	CreatedAt                    time.Time
	UpdatedAt                    time.Time
}

func (*Account) TableName() string {
	return "account"
}
