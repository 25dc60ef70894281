package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mahirlabs/bazarika-backend/api/responses"
	financesvc "github.com/mahirlabs/bazarika-backend/internal/finance"
	"github.com/mahirlabs/bazarika-backend/pkg/db/models"
	pkgerrors "github.com/mahirlabs/bazarika-backend/pkg/errors"
	"github.com/mahirlabs/bazarika-backend/pkg/logger"
)

// GetFinancialSummary returns the vendor's running settlement totals.
func GetFinancialSummary(svc financesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "finance service unavailable"))
			return
		}

		summary, err := svc.GetSummary(r.Context(), vendorIDFrom(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newSummaryResponse(summary))
	}
}

// ListFinancialTransactions returns the vendor's ledger rows, optionally
// bounded by from/to query dates.
func ListFinancialTransactions(svc financesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "finance service unavailable"))
			return
		}

		dateRange, err := parseDateRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		transactions, err := svc.ListTransactions(r.Context(), vendorIDFrom(r), dateRange)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]transactionResponse, 0, len(transactions))
		for i := range transactions {
			out = append(out, newTransactionResponse(&transactions[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

// ExportFinancialTransactions streams the vendor's ledger as CSV.
func ExportFinancialTransactions(svc financesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "finance service unavailable"))
			return
		}

		dateRange, err := parseDateRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)
		if err := svc.ExportTransactionsCSV(r.Context(), vendorIDFrom(r), dateRange, w); err != nil {
			// Headers may already be written; log and stop rather than
			// emitting a JSON error into a partial CSV body.
			if logg != nil {
				logg.Error(r.Context(), "csv export failed", err)
			}
		}
	}
}

// CheckFinancialConsistency compares a vendor's summary against the ledger.
// Admin only.
func CheckFinancialConsistency(svc financesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "finance service unavailable"))
			return
		}

		vendorID, err := pathUUID(r, "vendorID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		report, err := svc.CheckConsistency(r.Context(), vendorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newConsistencyResponse(report))
	}
}

func parseDateRange(r *http.Request) (financesvc.DateRange, error) {
	var dateRange financesvc.DateRange
	if raw := strings.TrimSpace(r.URL.Query().Get("from")); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			return dateRange, pkgerrors.New(pkgerrors.CodeValidation, "invalid from date").WithDetails(map[string]any{"field": "from"})
		}
		dateRange.From = &parsed
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("to")); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			return dateRange, pkgerrors.New(pkgerrors.CodeValidation, "invalid to date").WithDetails(map[string]any{"field": "to"})
		}
		dateRange.To = &parsed
	}
	return dateRange, nil
}

func parseDate(raw string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", raw)
}

type summaryResponse struct {
	VendorID          uuid.UUID       `json:"vendor_id"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalVendorAmount decimal.Decimal `json:"total_vendor_amount"`
	TotalAdminAmount  decimal.Decimal `json:"total_admin_amount"`
}

type transactionResponse struct {
	ID              uuid.UUID       `json:"id"`
	OrderID         uuid.UUID       `json:"order_id"`
	OrderPrice      decimal.Decimal `json:"order_price"`
	VendorAmount    decimal.Decimal `json:"vendor_amount"`
	AdminAmount     decimal.Decimal `json:"admin_amount"`
	TransactionDate string          `json:"transaction_date"`
}

type ledgerTotalsResponse struct {
	Revenue      decimal.Decimal `json:"revenue"`
	VendorAmount decimal.Decimal `json:"vendor_amount"`
	AdminAmount  decimal.Decimal `json:"admin_amount"`
	Count        int64           `json:"count"`
}

type consistencyResponse struct {
	VendorID   uuid.UUID            `json:"vendor_id"`
	Summary    ledgerTotalsResponse `json:"summary"`
	Ledger     ledgerTotalsResponse `json:"ledger"`
	Consistent bool                 `json:"consistent"`
}

func newSummaryResponse(summary *models.VendorFinancialSummary) summaryResponse {
	if summary == nil {
		return summaryResponse{}
	}
	return summaryResponse{
		VendorID:          summary.VendorID,
		TotalRevenue:      summary.TotalRevenue,
		TotalVendorAmount: summary.TotalVendorAmount,
		TotalAdminAmount:  summary.TotalAdminAmount,
	}
}

func newTransactionResponse(txn *models.VendorFinancialTransaction) transactionResponse {
	return transactionResponse{
		ID:              txn.ID,
		OrderID:         txn.OrderID,
		OrderPrice:      txn.OrderPrice,
		VendorAmount:    txn.VendorAmount,
		AdminAmount:     txn.AdminAmount,
		TransactionDate: txn.TransactionDate.UTC().Format(timeFormat),
	}
}

func newConsistencyResponse(report *financesvc.ConsistencyReport) consistencyResponse {
	if report == nil {
		return consistencyResponse{}
	}
	return consistencyResponse{
		VendorID:   report.VendorID,
		Summary:    newLedgerTotalsResponse(report.Summary),
		Ledger:     newLedgerTotalsResponse(report.Ledger),
		Consistent: report.Consistent,
	}
}

func newLedgerTotalsResponse(totals financesvc.LedgerTotals) ledgerTotalsResponse {
	return ledgerTotalsResponse{
		Revenue:      totals.Revenue,
		VendorAmount: totals.VendorAmount,
		AdminAmount:  totals.AdminAmount,
		Count:        totals.Count,
	}
}
