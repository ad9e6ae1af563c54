// File: internal/strategy/model.go
package strategy

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"strategy_backend/internal/common"

	"github.com/google/uuid"
)

// Strategy statuses.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusExpired   = "expired"
)

// JSONMap stores a free-form JSON object in a jsonb column.
type JSONMap map[string]interface{}

// Value implements driver.Valuer.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *JSONMap) Scan(src interface{}) error {
	if src == nil {
		*m = nil
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for JSONMap: %T", src)
	}
	return json.Unmarshal(data, m)
}

// JSONArray stores a free-form JSON array in a jsonb column.
type JSONArray []interface{}

// Value implements driver.Valuer.
func (a JSONArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner.
func (a *JSONArray) Scan(src interface{}) error {
	if src == nil {
		*a = nil
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for JSONArray: %T", src)
	}
	return json.Unmarshal(data, a)
}

// Strategy is the GORM model for a recorded options strategy.
type Strategy struct {
	common.BaseModel
	UserID             uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Name               string     `gorm:"type:varchar(200);not null" json:"name"`
	Slug               string     `gorm:"type:varchar(255);not null;uniqueIndex" json:"slug"`
	StrategyType       string     `gorm:"type:varchar(100);not null;index" json:"strategy_type"`
	Status             string     `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	EntryDate          *time.Time `json:"entry_date,omitempty"`
	ExpiryDate         *time.Time `gorm:"index" json:"expiry_date,omitempty"`
	ExitDate           *time.Time `json:"exit_date,omitempty"`
	UnderlyingPrice    *float64   `json:"underlying_price,omitempty"`
	ActualProfit       *float64   `json:"actual_profit,omitempty"`
	Parameters         JSONMap    `gorm:"type:jsonb" json:"parameters,omitempty"`
	Legs               JSONArray  `gorm:"type:jsonb" json:"custom_legs,omitempty"`
	HistoricalSnapshot JSONMap    `gorm:"type:jsonb" json:"historical_snapshot,omitempty"`
	Notes              string     `gorm:"type:text" json:"notes,omitempty"`
}

// TableName specifies the table name for the Strategy model.
func (Strategy) TableName() string {
	return "strategies"
}

// CreateStrategyRequest is the payload for creating a strategy record.
type CreateStrategyRequest struct {
	Name               string     `json:"name" binding:"required,min=1,max=200"`
	StrategyType       string     `json:"strategy_type" binding:"required,min=1,max=100"`
	EntryDate          *time.Time `json:"entry_date"`
	ExpiryDate         *time.Time `json:"expiry_date"`
	UnderlyingPrice    *float64   `json:"underlying_price"`
	Parameters         JSONMap    `json:"parameters"`
	Legs               JSONArray  `json:"custom_legs"`
	HistoricalSnapshot JSONMap    `json:"historical_snapshot"`
	Notes              string     `json:"notes" binding:"max=10000"`
}

// UpdateStrategyRequest is the payload for partially updating a strategy.
// Only fields present in the request are applied.
type UpdateStrategyRequest struct {
	Name               *string    `json:"name" binding:"omitempty,min=1,max=200"`
	StrategyType       *string    `json:"strategy_type" binding:"omitempty,min=1,max=100"`
	Status             *string    `json:"status" binding:"omitempty,oneof=active completed expired"`
	EntryDate          *time.Time `json:"entry_date"`
	ExpiryDate         *time.Time `json:"expiry_date"`
	ExitDate           *time.Time `json:"exit_date"`
	UnderlyingPrice    *float64   `json:"underlying_price"`
	ActualProfit       *float64   `json:"actual_profit"`
	Parameters         JSONMap    `json:"parameters"`
	Legs               JSONArray  `json:"custom_legs"`
	HistoricalSnapshot JSONMap    `json:"historical_snapshot"`
	Notes              *string    `json:"notes" binding:"omitempty,max=10000"`
}

// ListQuery holds filtering and pagination parameters for listing strategies.
type ListQuery struct {
	common.PaginationQuery
	Status string `form:"status" binding:"omitempty,oneof=active completed expired"`
}
