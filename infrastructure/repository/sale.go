package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/storelens/sales-analytics-api/infrastructure/database/postgres"
	"github.com/storelens/sales-analytics-api/internal/domain"
)

const (
	salesTable = "sales s"
)

var saleColumns = []string{
	"s.id", "s.invoice_id", "s.branch", "s.city", "s.customer_type",
	"s.gender", "s.product_line", "s.unit_price", "s.quantity", "s.total",
	"s.date", "s.time", "s.payment", "s.cogs", "s.gross_margin_percentage",
	"s.gross_income", "s.rating", "s.created_at", "s.updated_at",
}

// SaleRepository é o ledger persistente de vendas canônicas
type SaleRepository interface {
	// GetByDateRange retorna as vendas dentro do intervalo de datas.
	// Limites nulos deixam a extremidade correspondente aberta.
	GetByDateRange(startDate, endDate *time.Time) ([]*domain.Sale, error)

	// BulkInsert grava um lote validado em uma única transação:
	// ou todas as linhas são gravadas ou nenhuma. Retorna o número
	// de linhas efetivamente inseridas.
	BulkInsert(ctx context.Context, sales []*domain.Sale) (int64, error)
}

type saleRepository struct {
	conn *postgres.Connection
}

func NewSaleRepository(conn *postgres.Connection) SaleRepository {
	return &saleRepository{
		conn: conn,
	}
}

func (r *saleRepository) GetByDateRange(startDate, endDate *time.Time) ([]*domain.Sale, error) {
	builder := squirrel.
		Select(saleColumns...).
		From(salesTable).
		OrderBy("s.date ASC, s.invoice_id ASC").
		PlaceholderFormat(squirrel.Dollar)

	if startDate != nil {
		builder = builder.Where(squirrel.GtOrEq{"s.date": startDate.Format(time.DateOnly)})
	}
	if endDate != nil {
		builder = builder.Where(squirrel.LtOrEq{"s.date": endDate.Format(time.DateOnly)})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, &LedgerError{Op: "query", Err: errors.Wrap(err, "erro ao construir a query")}
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return []*domain.Sale{}, nil
		}
		return nil, &LedgerError{Op: "query", Err: err}
	}
	defer rows.Close()

	sales := make([]*domain.Sale, 0)
	for rows.Next() {
		sale, err := r.scanSale(rows)
		if err != nil {
			return nil, &LedgerError{Op: "scan", Err: err}
		}
		sales = append(sales, sale)
	}

	if err = rows.Err(); err != nil {
		return nil, &LedgerError{Op: "iterate", Err: err}
	}

	return sales, nil
}

func (r *saleRepository) BulkInsert(ctx context.Context, sales []*domain.Sale) (int64, error) {
	if len(sales) == 0 {
		return 0, nil
	}

	builder := squirrel.StatementBuilder.
		Insert("sales").
		Columns(
			"invoice_id", "branch", "city", "customer_type", "gender",
			"product_line", "unit_price", "quantity", "total", "date",
			"time", "payment", "cogs", "gross_margin_percentage",
			"gross_income", "rating",
		).
		Suffix("ON CONFLICT (invoice_id) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar)

	for _, sale := range sales {
		builder = builder.Values(
			sale.InvoiceID,
			sale.Branch,
			sale.City,
			sale.CustomerType,
			sale.Gender,
			sale.ProductLine,
			sale.UnitPrice,
			sale.Quantity,
			sale.Total,
			sale.Date.Format(time.DateOnly),
			sale.Time,
			sale.Payment,
			sale.COGS,
			sale.GrossMarginPercentage,
			sale.GrossIncome,
			sale.Rating,
		)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, &LedgerError{Op: "bulk_insert", Err: errors.Wrap(err, "erro ao construir a query")}
	}

	var inserted int64

	// A gravação do lote é tudo-ou-nada: qualquer falha desfaz a transação
	err = r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}

		inserted, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return 0, &LedgerError{Op: "bulk_insert", Err: err}
	}

	return inserted, nil
}

func (r *saleRepository) scanSale(rows *sql.Rows) (*domain.Sale, error) {
	sale := &domain.Sale{}
	var saleTime sql.NullString
	var rating sql.NullFloat64

	err := rows.Scan(
		&sale.ID,
		&sale.InvoiceID,
		&sale.Branch,
		&sale.City,
		&sale.CustomerType,
		&sale.Gender,
		&sale.ProductLine,
		&sale.UnitPrice,
		&sale.Quantity,
		&sale.Total,
		&sale.Date,
		&saleTime,
		&sale.Payment,
		&sale.COGS,
		&sale.GrossMarginPercentage,
		&sale.GrossIncome,
		&rating,
		&sale.CreatedAt,
		&sale.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if saleTime.Valid {
		sale.Time = saleTime.String
	}

	if rating.Valid {
		sale.Rating = &rating.Float64
	}

	return sale, nil
}
