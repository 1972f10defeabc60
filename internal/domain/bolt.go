package domain

import (
	"strings"
	"time"
)

// BoltType описывает тип замкового механизма.
type BoltType string

const (
	BoltTypeSingle BoltType = "single"
	BoltTypeDouble BoltType = "double"
)

// BoltTypes перечисляет допустимые типы болтов.
var BoltTypes = []BoltType{BoltTypeSingle, BoltTypeDouble}

// IsValid проверяет, что тип входит в закрытый набор.
func (t BoltType) IsValid() bool {
	for _, known := range BoltTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Bolt представляет складскую позицию — компонент замкового механизма.
// Описательные поля опциональны и хранятся как есть.
type Bolt struct {
	ID              int64
	Name            string
	Type            BoltType
	MetalStrip      string
	Screw           string
	Rod             string
	Plate           string
	SquareMechanism string
	Stamp           string
	// Qty — количество на складе. Отрицательные значения на этом уровне
	// не запрещены: пол нуля контролирует вызывающая сторона.
	Qty int64
	// LastUpdated обновляется при каждой мутации записи.
	LastUpdated time.Time
}

// Validate проверяет болт перед записью.
func (b *Bolt) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return ErrNameRequired
	}
	if !b.Type.IsValid() {
		return ErrInvalidBoltType
	}
	if b.Qty < 0 {
		return ErrQtyNegative
	}
	return nil
}
