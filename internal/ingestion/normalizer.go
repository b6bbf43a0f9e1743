package ingestion

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"operateurs-bio-api/internal/operator"
)

// Feed column headers, as published on data.gouv.fr.
const (
	colSiret     = "SIRET"
	colNumeroBio = "NUMERO BIO"
	colNom       = "DENOMINATION"
	colCP        = "CODE POSTAL SIEGE SOCIAL"
	colDate      = "DATEENGAGEMENT"
	colActivites = "ACTIVITES"
	colOrganisme = "ORGANISME CERTIFICATEUR"
)

// RawRow is one feed record keyed by column header.
type RawRow map[string]string

// NormalizeRow turns a raw feed row into an operator draft, or an error
// describing why the row must be discarded. siret and numero_bio come
// straight from the source columns; the store does not re-derive them.
func NormalizeRow(row RawRow) (*operator.Operator, error) {
	siret, err := parseNumeric(row[colSiret])
	if err != nil {
		return nil, fmt.Errorf("champ %s: %v", colSiret, err)
	}

	numeroBio, err := parseNumeric(row[colNumeroBio])
	if err != nil {
		return nil, fmt.Errorf("champ %s: %v", colNumeroBio, err)
	}

	cp, err := parseNumeric(row[colCP])
	if err != nil {
		return nil, fmt.Errorf("champ %s: %v", colCP, err)
	}

	date, err := operator.ParseDate(row[colDate])
	if err != nil {
		return nil, fmt.Errorf("champ %s: %v", colDate, err)
	}

	nom := strings.TrimSpace(row[colNom])
	if nom == "" {
		return nil, fmt.Errorf("champ %s vide", colNom)
	}

	organisme := strings.TrimSpace(row[colOrganisme])
	if organisme == "" {
		return nil, fmt.Errorf("champ %s vide", colOrganisme)
	}

	op := &operator.Operator{
		Siret:                  siret,
		NumeroBio:              numeroBio,
		Nom:                    nom,
		CP:                     int(cp),
		DateEngagement:         date,
		OrganismeCertificateur: organisme,
	}
	deriveActivities(row[colActivites], op)
	return op, nil
}

// deriveActivities sets the seven flags from the free-text activities
// column. The substring tests are case sensitive on purpose: the source
// data really does mix "Production" with "restauration". A blank column
// just leaves every flag false.
func deriveActivities(raw string, op *operator.Operator) {
	op.Producteur = strings.Contains(raw, "Production")
	op.Preparateur = strings.Contains(raw, "Préparation")
	op.Distributeur = strings.Contains(raw, "Distribution")
	op.Restaurateur = strings.Contains(raw, "restauration")
	op.Stockeur = strings.Contains(raw, "stockage")
	op.Importateur = strings.Contains(raw, "importation")
	op.Exportateur = strings.Contains(raw, "exportation")
}

// parseNumeric accepts both integer and decimal notation; decimals are
// truncated. The feed serializes some numeric columns as floats.
func parseNumeric(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, errors.New("valeur vide")
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("valeur non numérique %q", s)
	}
	return int64(f), nil
}
