package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/junhyuk-im/receipt-ocr/constants"
	"github.com/junhyuk-im/receipt-ocr/internal/entity"
)

// Expense is one persisted canonical record plus provenance. Unresolved
// string fields keep their "N/A" sentinel; an unresolved price is stored
// as 0 and an unresolved date as NULL.
type Expense struct {
	ID             uuid.UUID  `gorm:"column:id;primaryKey;type:uuid"`
	MerchantName   string     `gorm:"column:merchant_name;type:varchar(255);not null"`
	Division       string     `gorm:"column:division;type:varchar(16);not null"`
	BusinessNumber string     `gorm:"column:business_number;type:varchar(32);not null"`
	Price          int64      `gorm:"column:price;not null"`
	TxDate         *time.Time `gorm:"column:tx_date;index"`
	SourceFile     string     `gorm:"column:source_file;type:varchar(255)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Expense) TableName() string {
	return "expenses"
}

type ExpenseRepository interface {
	Create(ctx context.Context, rec *entity.Receipt, sourceFile string) (*Expense, error)
	List(ctx context.Context, fromDate, toDate *time.Time) ([]Expense, error)
}

type expenseRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewExpenseRepository(db *gorm.DB, logger *slog.Logger) ExpenseRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &expenseRepository{db: db, logger: logger}
}

func (r *expenseRepository) Create(ctx context.Context, rec *entity.Receipt, sourceFile string) (*Expense, error) {
	row := &Expense{
		ID:             uuid.New(),
		MerchantName:   rec.MerchantName,
		Division:       rec.Division,
		BusinessNumber: rec.BusinessNumber,
		SourceFile:     sourceFile,
	}
	if rec.PriceResolved() {
		row.Price = int64(rec.Price)
	}
	if rec.Date != constants.NotAvailable {
		if t, err := time.Parse("2006-01-02", rec.Date); err == nil {
			row.TxDate = &t
		}
	}

	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		r.logger.Error("failed to create expense", "merchant", rec.MerchantName, "error", err)
		return nil, err
	}
	r.logger.Info("expense created", "id", row.ID, "merchant", row.MerchantName, "price", row.Price)
	return row, nil
}

func (r *expenseRepository) List(ctx context.Context, fromDate, toDate *time.Time) ([]Expense, error) {
	q := r.db.WithContext(ctx).Model(&Expense{})
	if fromDate != nil {
		q = q.Where("tx_date >= ?", *fromDate)
	}
	if toDate != nil {
		q = q.Where("tx_date <= ?", *toDate)
	}

	var rows []Expense
	if err := q.Order("tx_date").Find(&rows).Error; err != nil {
		r.logger.Error("failed to list expenses", "error", err)
		return nil, err
	}
	return rows, nil
}
