package operator

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a day-precision timestamp. It travels as "YYYY-MM-DD" in JSON and
// persists as a date column.
type Date struct {
	time.Time
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("date invalide %q (format attendu YYYY-MM-DD)", s)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return errors.New("date_engagement ne peut pas être vide")
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Value() (driver.Value, error) {
	return d.Format(dateLayout), nil
}

func (d *Date) Scan(v interface{}) error {
	switch val := v.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		d.Time = val
		return nil
	case string:
		return d.scanString(val)
	case []byte:
		return d.scanString(string(val))
	default:
		return fmt.Errorf("type %T non supporté pour une date", v)
	}
}

func (d *Date) scanString(s string) error {
	// Postgres returns plain dates, sqlite may hand back a full timestamp.
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (Date) GormDataType() string {
	return "date"
}

// Operator is one certified organic business, keyed externally by SIRET.
// The surrogate id never leaves the API.
type Operator struct {
	ID                     uint   `gorm:"primaryKey;autoIncrement" json:"-"`
	Siret                  int64  `gorm:"uniqueIndex;not null" json:"siret"`
	NumeroBio              int64  `gorm:"not null;column:numero_bio" json:"numero_bio"`
	Nom                    string `gorm:"size:150;not null" json:"nom"`
	CP                     int    `gorm:"not null;column:cp" json:"cp"`
	DateEngagement         Date   `gorm:"type:date;not null;column:date_engagement" json:"date_engagement"`
	Producteur             bool   `json:"producteur"`
	Preparateur            bool   `json:"preparateur"`
	Distributeur           bool   `json:"distributeur"`
	Restaurateur           bool   `json:"restaurateur"`
	Stockeur               bool   `json:"stockeur"`
	Importateur            bool   `json:"importateur"`
	Exportateur            bool   `json:"exportateur"`
	OrganismeCertificateur string `gorm:"size:100;not null" json:"organisme_certificateur"`
}

func (Operator) TableName() string {
	return "operateurs"
}

// CreateInput is the PUT body. Every field is required; the booleans are
// pointers so an explicit false still binds.
type CreateInput struct {
	Nom                    string `json:"nom" binding:"required"`
	CP                     *int   `json:"cp" binding:"required"`
	DateEngagement         Date   `json:"date_engagement" binding:"required"`
	Producteur             *bool  `json:"producteur" binding:"required"`
	Preparateur            *bool  `json:"preparateur" binding:"required"`
	Distributeur           *bool  `json:"distributeur" binding:"required"`
	Restaurateur           *bool  `json:"restaurateur" binding:"required"`
	Stockeur               *bool  `json:"stockeur" binding:"required"`
	Importateur            *bool  `json:"importateur" binding:"required"`
	Exportateur            *bool  `json:"exportateur" binding:"required"`
	OrganismeCertificateur string `json:"organisme_certificateur" binding:"required"`
}

// PatchInput is the PATCH body. A nil field is left untouched; a non-nil
// field overwrites, including booleans set to false.
type PatchInput struct {
	Nom                    *string `json:"nom"`
	CP                     *int    `json:"cp"`
	DateEngagement         *Date   `json:"date_engagement"`
	Producteur             *bool   `json:"producteur"`
	Preparateur            *bool   `json:"preparateur"`
	Distributeur           *bool   `json:"distributeur"`
	Restaurateur           *bool   `json:"restaurateur"`
	Stockeur               *bool   `json:"stockeur"`
	Importateur            *bool   `json:"importateur"`
	Exportateur            *bool   `json:"exportateur"`
	OrganismeCertificateur *string `json:"organisme_certificateur"`
}

func (in PatchInput) columns() map[string]interface{} {
	updates := map[string]interface{}{}
	if in.Nom != nil {
		updates["nom"] = *in.Nom
	}
	if in.CP != nil {
		updates["cp"] = *in.CP
	}
	if in.DateEngagement != nil {
		updates["date_engagement"] = *in.DateEngagement
	}
	if in.Producteur != nil {
		updates["producteur"] = *in.Producteur
	}
	if in.Preparateur != nil {
		updates["preparateur"] = *in.Preparateur
	}
	if in.Distributeur != nil {
		updates["distributeur"] = *in.Distributeur
	}
	if in.Restaurateur != nil {
		updates["restaurateur"] = *in.Restaurateur
	}
	if in.Stockeur != nil {
		updates["stockeur"] = *in.Stockeur
	}
	if in.Importateur != nil {
		updates["importateur"] = *in.Importateur
	}
	if in.Exportateur != nil {
		updates["exportateur"] = *in.Exportateur
	}
	if in.OrganismeCertificateur != nil {
		updates["organisme_certificateur"] = *in.OrganismeCertificateur
	}
	return updates
}
