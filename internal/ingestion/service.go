package ingestion

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"operateurs-bio-api/internal/logs"
	"operateurs-bio-api/internal/operator"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// upsertBatchSize bounds how many rows share one insert statement, so a
// large feed never holds one long transaction open against readers.
const upsertBatchSize = 500

type Report struct {
	Inserted  int `json:"inserted"`
	Discarded int `json:"discarded"`
}

type IngestionService struct {
	DB   *gorm.DB
	Feed FeedSource
	Logs LogServicePort
}

// Run streams the full feed, normalizes every row and upserts the survivors
// keyed by siret. Re-running against an unchanged feed leaves the table as
// it is. Feed failures abort the run; row failures cost one discard each.
func (is *IngestionService) Run(ctx context.Context) (Report, error) {
	var report Report

	body, err := is.Feed.Open(ctx)
	if err != nil {
		return report, err
	}
	defer body.Close()

	reader := csv.NewReader(body)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return report, fmt.Errorf("%w: en-tête du flux illisible: %v", ErrFeedUnavailable, err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	batch := make([]operator.Operator, 0, upsertBatchSize)
	lines := make([]int, 0, upsertBatchSize)
	line := 1
	for {
		select {
		case <-ctx.Done():
			return report, ctx.Err()
		default:
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			report.Discarded++
			is.logDiscard(line, "ligne CSV malformée: "+err.Error())
			continue
		}

		row := RawRow{}
		for name, i := range index {
			if i < len(record) {
				row[name] = record[i]
			}
		}

		op, err := NormalizeRow(row)
		if err != nil {
			report.Discarded++
			is.logDiscard(line, err.Error())
			continue
		}

		batch = append(batch, *op)
		lines = append(lines, line)
		if len(batch) == upsertBatchSize {
			is.flush(batch, lines, &report)
			batch, lines = batch[:0], lines[:0]
		}
	}
	if len(batch) > 0 {
		is.flush(batch, lines, &report)
	}

	log.Printf("ingestion terminée: %d chargés, %d écartés", report.Inserted, report.Discarded)
	if is.Logs != nil {
		_ = is.Logs.Log(logs.SystemLog{
			Level:   "INFO",
			Service: "ingestion",
			Action:  "run_completed",
			Message: fmt.Sprintf("%d enregistrements chargés, %d lignes écartées", report.Inserted, report.Discarded),
		}, report)
	}

	return report, nil
}

var upsertOnSiret = clause.OnConflict{
	Columns:   []clause.Column{{Name: "siret"}},
	UpdateAll: true,
}

// flush upserts one batch. When the whole statement fails, the rows are
// retried one by one so a single bad row costs one discard, not the batch.
// lines carries the feed line of each batch element for the discard log.
func (is *IngestionService) flush(batch []operator.Operator, lines []int, report *Report) {
	if err := is.DB.Clauses(upsertOnSiret).Create(&batch).Error; err == nil {
		report.Inserted += len(batch)
		return
	}

	for i := range batch {
		row := batch[i]
		if err := is.DB.Clauses(upsertOnSiret).Create(&row).Error; err != nil {
			report.Discarded++
			is.logDiscard(lines[i], "échec d'insertion du siret "+strconv.FormatInt(row.Siret, 10)+": "+err.Error())
			continue
		}
		report.Inserted++
	}
}

func (is *IngestionService) logDiscard(line int, reason string) {
	log.Printf("ingestion: ligne %d écartée: %s", line, reason)
	if is.Logs == nil {
		return
	}
	_ = is.Logs.Log(logs.SystemLog{
		Level:   "WARN",
		Service: "ingestion",
		Action:  "row_discarded",
		Message: reason,
	}, map[string]interface{}{"line": line})
}
