package domain

import (
	"errors"
	"fmt"
)

// StockStatus is the filter bucket of a stock quantity.
type StockStatus string

const (
	StockIn  StockStatus = "in-stock"
	StockLow StockStatus = "low-stock"
	StockOut StockStatus = "out-of-stock"
)

// StockLevel is the finer grained level used for badges. StockLimited is a
// display refinement of StockIn, never a filter value.
type StockLevel string

const (
	LevelOut     StockLevel = "out"
	LevelLow     StockLevel = "low"
	LevelLimited StockLevel = "limited"
	LevelHigh    StockLevel = "high"
)

// StockThresholds is the one place stock quantities are bucketed.
//
//	0                        out of stock
//	1 .. LowStockMax         low stock
//	LowStockMax+1 .. Mid     in stock (shown as limited)
//	> MidStockMax            in stock
type StockThresholds struct {
	LowStockMax int `json:"lowStockMax"`
	MidStockMax int `json:"midStockMax"`
}

var DefaultStockThresholds = StockThresholds{LowStockMax: 50, MidStockMax: 100}

func (t StockThresholds) Validate() error {
	if t.LowStockMax < 1 {
		return errors.New("low stock max must be at least 1")
	}
	if t.MidStockMax < t.LowStockMax {
		return fmt.Errorf("mid stock max %d below low stock max %d", t.MidStockMax, t.LowStockMax)
	}
	return nil
}

func (t StockThresholds) Bucket(stock int) StockStatus {
	switch {
	case stock <= 0:
		return StockOut
	case stock <= t.LowStockMax:
		return StockLow
	default:
		return StockIn
	}
}

func (t StockThresholds) Level(stock int) StockLevel {
	switch {
	case stock <= 0:
		return LevelOut
	case stock <= t.LowStockMax:
		return LevelLow
	case stock <= t.MidStockMax:
		return LevelLimited
	default:
		return LevelHigh
	}
}

func (t StockThresholds) Label(stock int) string {
	switch t.Level(stock) {
	case LevelOut:
		return "Out of Stock"
	case LevelLow:
		return fmt.Sprintf("Low Stock (%d left)", stock)
	case LevelLimited:
		return fmt.Sprintf("Limited (%d units)", stock)
	default:
		return fmt.Sprintf("In Stock (%d)", stock)
	}
}

// Badge maps the level to the badge variant used by the tables.
func (t StockThresholds) Badge(stock int) string {
	switch t.Level(stock) {
	case LevelHigh:
		return "success"
	case LevelLimited:
		return "warning"
	default:
		return "error"
	}
}

func ParseStockStatus(s string) (StockStatus, bool) {
	switch StockStatus(s) {
	case StockIn, StockLow, StockOut:
		return StockStatus(s), true
	}
	return "", false
}
