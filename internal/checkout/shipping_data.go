package checkout

import (
	"net/mail"
	"regexp"
	"strings"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9\-()\s]{6,20}$`)

// ShippingData 收货信息，字段名与订单后端保持一致
type ShippingData struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Zip       string `json:"zip"`
	Notes     string `json:"notes"`
}

// Normalize 去除首尾空白
func (d ShippingData) Normalize() ShippingData {
	return ShippingData{
		FirstName: strings.TrimSpace(d.FirstName),
		LastName:  strings.TrimSpace(d.LastName),
		Email:     strings.TrimSpace(d.Email),
		Phone:     strings.TrimSpace(d.Phone),
		Address:   strings.TrimSpace(d.Address),
		City:      strings.TrimSpace(d.City),
		Zip:       strings.TrimSpace(d.Zip),
		Notes:     strings.TrimSpace(d.Notes),
	}
}

// InvalidFields 返回缺失或格式错误的字段名，全部合法时为空
func (d ShippingData) InvalidFields() []string {
	d = d.Normalize()
	var invalid []string
	if d.FirstName == "" {
		invalid = append(invalid, "firstName")
	}
	if d.Email == "" {
		invalid = append(invalid, "email")
	} else if _, err := mail.ParseAddress(d.Email); err != nil {
		invalid = append(invalid, "email")
	}
	if !phonePattern.MatchString(d.Phone) {
		invalid = append(invalid, "phone")
	}
	if d.Address == "" {
		invalid = append(invalid, "address")
	}
	if d.City == "" {
		invalid = append(invalid, "city")
	}
	return invalid
}
