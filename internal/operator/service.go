package operator

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("pas d'opérateur trouvé en base pour le SIRET fourni")
	ErrSiretExists   = errors.New("un enregistrement existe déjà pour ce numéro SIRET")
	ErrEmptyFilter   = errors.New("veuillez spécifier au moins un élément de filtre")
	ErrUnknownFilter = errors.New("champ de filtre inconnu")
)

// filterableColumns whitelists the columns the list/export endpoints may
// filter on. Never build a WHERE clause from a column outside this set.
var filterableColumns = map[string]bool{
	"nom":                     true,
	"cp":                      true,
	"date_engagement":         true,
	"producteur":              true,
	"preparateur":             true,
	"distributeur":            true,
	"restaurateur":            true,
	"stockeur":                true,
	"importateur":             true,
	"exportateur":             true,
	"organisme_certificateur": true,
}

type OperatorService struct {
	DB *gorm.DB
}

func (s *OperatorService) GetBySiret(siret int64) (*Operator, error) {
	var op Operator
	err := s.DB.Where("siret = ?", siret).First(&op).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &op, nil
}

// numeroBioLockKey scopes the postgres advisory lock that serializes
// numero_bio assignment across connections.
const numeroBioLockKey = 423913

// Create inserts a new operator for the given siret. The numero_bio is
// assigned inside one transaction that reads the current maximum and
// inserts. sqlite has a single writer; postgres runs READ COMMITTED, so
// there the read-then-insert additionally holds an advisory lock, keeping
// two concurrent creations from assigning the same value. An empty store
// starts at 1.
func (s *OperatorService) Create(siret int64, input CreateInput) (*Operator, error) {
	op := Operator{
		Siret:                  siret,
		Nom:                    input.Nom,
		CP:                     *input.CP,
		DateEngagement:         input.DateEngagement,
		Producteur:             *input.Producteur,
		Preparateur:            *input.Preparateur,
		Distributeur:           *input.Distributeur,
		Restaurateur:           *input.Restaurateur,
		Stockeur:               *input.Stockeur,
		Importateur:            *input.Importateur,
		Exportateur:            *input.Exportateur,
		OrganismeCertificateur: input.OrganismeCertificateur,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" {
			// Released automatically at commit or rollback.
			if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", int64(numeroBioLockKey)).Error; err != nil {
				return err
			}
		}

		var count int64
		if err := tx.Model(&Operator{}).Where("siret = ?", siret).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrSiretExists
		}

		var maxNumero int64
		row := tx.Model(&Operator{}).Select("COALESCE(MAX(numero_bio), 0)").Row()
		if err := row.Scan(&maxNumero); err != nil {
			return err
		}
		op.NumeroBio = maxNumero + 1

		return tx.Create(&op).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost the race against a concurrent create; the unique index on
		// siret caught it.
		return nil, ErrSiretExists
	}
	if err != nil {
		return nil, err
	}
	return &op, nil
}

func (s *OperatorService) Patch(siret int64, input PatchInput) (*Operator, error) {
	var op Operator
	err := s.DB.Where("siret = ?", siret).First(&op).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	updates := input.columns()
	if len(updates) == 0 {
		return &op, nil
	}

	if err := s.DB.Model(&op).Updates(updates).Error; err != nil {
		return nil, err
	}

	var updated Operator
	if err := s.DB.Where("siret = ?", siret).First(&updated).Error; err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *OperatorService) Delete(siret int64) error {
	res := s.DB.Where("siret = ?", siret).Delete(&Operator{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FindByFilters returns every operator matching all given equality filters.
// An empty filter set is a caller error, not a request for the full table.
func (s *OperatorService) FindByFilters(filters map[string]interface{}) ([]Operator, error) {
	if len(filters) == 0 {
		return nil, ErrEmptyFilter
	}

	q := s.DB.Model(&Operator{})
	for col, val := range filters {
		if !filterableColumns[col] {
			return nil, fmt.Errorf("%w: %s", ErrUnknownFilter, col)
		}
		q = q.Where(col+" = ?", val)
	}

	var ops []Operator
	if err := q.Order("numero_bio ASC").Find(&ops).Error; err != nil {
		return nil, err
	}
	if len(ops) == 0 {
		return nil, ErrNotFound
	}
	return ops, nil
}

func (s *OperatorService) MaxNumeroBio() (int64, error) {
	var maxNumero int64
	row := s.DB.Model(&Operator{}).Select("COALESCE(MAX(numero_bio), 0)").Row()
	if err := row.Scan(&maxNumero); err != nil {
		return 0, err
	}
	return maxNumero, nil
}

const exportSheet = "Operateurs"

var exportHeader = []interface{}{
	"siret", "numero_bio", "nom", "cp", "date_engagement",
	"producteur", "preparateur", "distributeur", "restaurateur",
	"stockeur", "importateur", "exportateur", "organisme_certificateur",
}

// ExportByFilters builds an xlsx workbook of the operators matching the
// filters, with the same filter and error semantics as FindByFilters.
func (s *OperatorService) ExportByFilters(filters map[string]interface{}) (string, string, []byte, error) {
	ops, err := s.FindByFilters(filters)
	if err != nil {
		return "", "", nil, err
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return "", "", nil, err
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	_ = f.SetSheetRow(exportSheet, "A1", &exportHeader)
	_ = f.SetRowStyle(exportSheet, 1, 1, headerStyle)

	for i, op := range ops {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", "", nil, err
		}
		row := []interface{}{
			op.Siret, op.NumeroBio, op.Nom, op.CP, op.DateEngagement.String(),
			op.Producteur, op.Preparateur, op.Distributeur, op.Restaurateur,
			op.Stockeur, op.Importateur, op.Exportateur, op.OrganismeCertificateur,
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return "", "", nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return "", "", nil, err
	}
	return "operateurs.xlsx",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes(), nil
}
