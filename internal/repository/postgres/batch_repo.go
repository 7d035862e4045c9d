package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"concil/internal/domain"
	"concil/internal/port"
)

type batchRepo struct {
	db *sqlx.DB
}

// NewBatchRepo creates a new PostgreSQL-backed BatchRepository.
func NewBatchRepo(db *sqlx.DB) port.BatchRepository {
	return &batchRepo{db: db}
}

// batchRow mirrors the batches table. Email and correlation are stored as
// JSONB so the full judgement survives round-trips without a column per field.
type batchRow struct {
	ID           uuid.UUID       `db:"id"`
	Status       string          `db:"status"`
	Discrepancy  float64         `db:"discrepancy"`
	EmailSubject string          `db:"email_subject"`
	Email        json.RawMessage `db:"email"`
	Correlation  json.RawMessage `db:"correlation"`
	CreatedAt    time.Time       `db:"created_at"`
}

// documentRow mirrors the batch_documents table. Kind-specific fields live in
// the payload JSONB column.
type documentRow struct {
	ID            uuid.UUID       `db:"id"`
	BatchID       uuid.UUID       `db:"batch_id"`
	Position      int             `db:"position"`
	SourceFile    string          `db:"source_file"`
	RawSnippet    string          `db:"raw_snippet"`
	Kind          string          `db:"kind"`
	Source        string          `db:"source"`
	SupplierName  string          `db:"supplier_name"`
	SupplierTaxID string          `db:"supplier_tax_id"`
	IssueDate     string          `db:"issue_date"`
	DueDate       string          `db:"due_date"`
	TotalAmount   float64         `db:"total_amount"`
	Settlement    string          `db:"settlement"`
	SettledAmount float64         `db:"settled_amount"`
	Notes         string          `db:"notes"`
	InternalNotes string          `db:"internal_notes"`
	Company       string          `db:"company"`
	Payload       json.RawMessage `db:"payload"`
}

// documentPayload is the JSONB shape of the kind-specific variant.
type documentPayload struct {
	Service *domain.ServiceNoteFields `json:"service,omitempty"`
	Goods   *domain.GoodsNoteFields   `json:"goods,omitempty"`
	Slip    *domain.SlipFields        `json:"slip,omitempty"`
	Other   *domain.OtherFields       `json:"other,omitempty"`
	Notice  *domain.NoticeFields      `json:"notice,omitempty"`
}

func (r *batchRepo) Create(ctx context.Context, batch *domain.Batch) error {
	if batch.CreatedAt.IsZero() {
		batch.CreatedAt = time.Now().UTC()
	}

	row, err := toBatchRow(batch)
	if err != nil {
		return fmt.Errorf("batchRepo.Create: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("batchRepo.Create begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO batches (id, status, discrepancy, email_subject, email, correlation, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		row.ID, row.Status, row.Discrepancy, row.EmailSubject, row.Email, row.Correlation, row.CreatedAt)
	if err != nil {
		return fmt.Errorf("batchRepo.Create batch: %w", err)
	}

	for i, doc := range batch.Documents {
		payload, err := json.Marshal(documentPayload{
			Service: doc.Service,
			Goods:   doc.Goods,
			Slip:    doc.Slip,
			Other:   doc.Other,
			Notice:  doc.Notice,
		})
		if err != nil {
			return fmt.Errorf("batchRepo.Create payload: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO batch_documents (
				id, batch_id, position, source_file, raw_snippet, kind, source,
				supplier_name, supplier_tax_id, issue_date, due_date, total_amount,
				settlement, settled_amount, notes, internal_notes, company, payload)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
			uuid.New(), batch.ID, i, doc.SourceFile, doc.RawSnippet, string(doc.Kind), string(doc.Source),
			doc.SupplierName, doc.SupplierTaxID, doc.IssueDate, doc.DueDate, doc.TotalAmount,
			string(doc.Settlement), doc.SettledAmount, doc.Notes, doc.InternalNotes, doc.Company, payload)
		if err != nil {
			return fmt.Errorf("batchRepo.Create document %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("batchRepo.Create commit: %w", err)
	}
	return nil
}

func (r *batchRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Batch, error) {
	var row batchRow
	err := r.db.GetContext(ctx, &row, "SELECT * FROM batches WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("batchRepo.GetByID: %w", err)
	}

	var docRows []documentRow
	err = r.db.SelectContext(ctx, &docRows,
		"SELECT * FROM batch_documents WHERE batch_id = $1 ORDER BY position", id)
	if err != nil {
		return nil, fmt.Errorf("batchRepo.GetByID documents: %w", err)
	}

	return fromBatchRow(&row, docRows)
}

func (r *batchRepo) List(ctx context.Context, offset, limit int) ([]domain.BatchSummary, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM batches")
	if err != nil {
		return nil, 0, fmt.Errorf("batchRepo.List count: %w", err)
	}

	var summaries []domain.BatchSummary
	err = r.db.SelectContext(ctx, &summaries,
		`SELECT b.id, b.status, b.discrepancy, b.email_subject, b.created_at,
			(SELECT COUNT(*) FROM batch_documents d WHERE d.batch_id = b.id) AS document_count
		 FROM batches b
		 ORDER BY b.created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("batchRepo.List: %w", err)
	}
	return summaries, total, nil
}

func (r *batchRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM batches WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("batchRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func toBatchRow(batch *domain.Batch) (*batchRow, error) {
	row := &batchRow{
		ID:        batch.ID,
		CreatedAt: batch.CreatedAt,
	}
	if batch.Correlation != nil {
		row.Status = string(batch.Correlation.Status)
		row.Discrepancy = batch.Correlation.Discrepancy
		data, err := json.Marshal(batch.Correlation)
		if err != nil {
			return nil, fmt.Errorf("marshaling correlation: %w", err)
		}
		row.Correlation = data
	}
	if batch.Email != nil {
		row.EmailSubject = batch.Email.Subject
		data, err := json.Marshal(batch.Email)
		if err != nil {
			return nil, fmt.Errorf("marshaling email: %w", err)
		}
		row.Email = data
	}
	return row, nil
}

func fromBatchRow(row *batchRow, docRows []documentRow) (*domain.Batch, error) {
	batch := &domain.Batch{
		ID:        row.ID,
		CreatedAt: row.CreatedAt,
	}
	if len(row.Email) > 0 {
		var email domain.EmailContext
		if err := json.Unmarshal(row.Email, &email); err != nil {
			return nil, fmt.Errorf("batchRepo: unmarshaling email: %w", err)
		}
		batch.Email = &email
	}
	if len(row.Correlation) > 0 {
		var result domain.CorrelationResult
		if err := json.Unmarshal(row.Correlation, &result); err != nil {
			return nil, fmt.Errorf("batchRepo: unmarshaling correlation: %w", err)
		}
		batch.Correlation = &result
	}

	for i := range docRows {
		dr := &docRows[i]
		doc := &domain.Document{
			SourceFile:    dr.SourceFile,
			RawSnippet:    dr.RawSnippet,
			Kind:          domain.DocumentKind(dr.Kind),
			Source:        domain.RecordSource(dr.Source),
			SupplierName:  dr.SupplierName,
			SupplierTaxID: dr.SupplierTaxID,
			IssueDate:     dr.IssueDate,
			DueDate:       dr.DueDate,
			TotalAmount:   dr.TotalAmount,
			Settlement:    domain.SettlementStatus(dr.Settlement),
			SettledAmount: dr.SettledAmount,
			Notes:         dr.Notes,
			InternalNotes: dr.InternalNotes,
			Company:       dr.Company,
		}
		if len(dr.Payload) > 0 {
			var payload documentPayload
			if err := json.Unmarshal(dr.Payload, &payload); err != nil {
				return nil, fmt.Errorf("batchRepo: unmarshaling payload: %w", err)
			}
			doc.Service = payload.Service
			doc.Goods = payload.Goods
			doc.Slip = payload.Slip
			doc.Other = payload.Other
			doc.Notice = payload.Notice
		}
		batch.Documents = append(batch.Documents, doc)
	}
	return batch, nil
}
