package domain

import "strings"

// Customer представляет клиента, на которого оформляются заказы.
type Customer struct {
	ID   int64
	Name string
	// Phone хранится нормализованным: ровно 10 цифр либо пустая строка.
	Phone string
}

// NormalizePhone приводит телефон к канонической форме из 10 цифр.
// Пробелы, дефисы и скобки отбрасываются; пустой номер допустим.
func NormalizePhone(raw string) (string, error) {
	cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return "", nil
	}

	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return "", ErrPhoneNotDigits
		}
	}
	if len(cleaned) != 10 {
		return "", ErrPhoneLength
	}

	return cleaned, nil
}

// Validate проверяет клиента перед записью и нормализует телефон.
func (c *Customer) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrNameRequired
	}

	phone, err := NormalizePhone(c.Phone)
	if err != nil {
		return err
	}
	c.Phone = phone

	return nil
}
