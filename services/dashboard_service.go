// services/dashboard_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"blackbird-backend/cache"
	"blackbird-backend/models"
	"blackbird-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DashboardService struct {
	db       *gorm.DB
	cache    cache.Cache
	cacheTTL time.Duration
}

func NewDashboardService(db *gorm.DB, cacheStore cache.Cache, cacheTTL time.Duration) *DashboardService {
	if cacheStore == nil {
		cacheStore = cache.Noop{}
	}
	return &DashboardService{db: db, cache: cacheStore, cacheTTL: cacheTTL}
}

type DateRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type DashboardSummary struct {
	TotalBookings          int64   `json:"totalBookings"`
	TotalRevenue           float64 `json:"totalRevenue"`
	UniqueCustomersInRange int64   `json:"uniqueCustomersInRange"`
	AverageOrderValue      float64 `json:"averageOrderValue"`
}

type PaymentMethodRow struct {
	PaymentMethod string  `json:"paymentMethod"`
	Count         int64   `json:"count"`
	TotalAmount   float64 `json:"totalAmount"`
}

type PaymentModeRow struct {
	PaymentMode string  `json:"paymentMode"`
	Count       int64   `json:"count"`
	TotalAmount float64 `json:"totalAmount"`
}

type TopProductRow struct {
	ProductID   uuid.UUID `json:"productId"`
	ProductName string    `json:"productName"`
	Quantity    int64     `json:"quantity"`
	Revenue     float64   `json:"revenue"`
}

type BranchRow struct {
	BranchID      uuid.UUID `json:"branchId"`
	BranchName    string    `json:"branchName"`
	BranchNumber  string    `json:"branchNumber"`
	EmployeeCount int       `json:"employeeCount"`
	BookingCount  int64     `json:"bookingCount"`
	Revenue       float64   `json:"revenue"`
}

type BranchInfo struct {
	BranchID      uuid.UUID `json:"branchId"`
	BranchName    string    `json:"branchName"`
	BranchNumber  string    `json:"branchNumber"`
	EmployeeCount int       `json:"employeeCount"`
}

type EntityTotals struct {
	TotalBranches  int64 `json:"totalBranches"`
	TotalEmployees int64 `json:"totalEmployees"`
	TotalCustomers int64 `json:"totalCustomers"`
}

type DashboardData struct {
	DateRange       DateRange          `json:"dateRange"`
	Summary         DashboardSummary   `json:"summary"`
	ByPaymentMethod []PaymentMethodRow `json:"byPaymentMethod"`
	ByPaymentMode   []PaymentModeRow   `json:"byPaymentMode"`
	TopProducts     []TopProductRow    `json:"topProducts"`
	ByBranch        []BranchRow        `json:"byBranch"`
	Totals          EntityTotals       `json:"totals"`
}

type BranchDashboardData struct {
	DateRange       DateRange          `json:"dateRange"`
	BranchInfo      BranchInfo         `json:"branchInfo"`
	Summary         DashboardSummary   `json:"summary"`
	ByPaymentMethod []PaymentMethodRow `json:"byPaymentMethod"`
	ByPaymentMode   []PaymentModeRow   `json:"byPaymentMode"`
	TopProducts     []TopProductRow    `json:"topProducts"`
}

// GetDashboardData computes the unrestricted dashboard for the inclusive
// range [startOfDay(start), endOfDay(end)].
func (s *DashboardService) GetDashboardData(start, end time.Time) (*DashboardData, error) {
	cacheKey := fmt.Sprintf("dashboard:all:%s:%s", start.Format("2006-01-02"), end.Format("2006-01-02"))
	if cached, ok, err := s.cache.Get(context.Background(), cacheKey); err == nil && ok {
		var data DashboardData
		if json.Unmarshal(cached, &data) == nil {
			return &data, nil
		}
	}

	summary, err := s.rangeSummary(start, end, uuid.Nil)
	if err != nil {
		return nil, err
	}

	byMethod, err := s.paymentMethodBreakdown(start, end, uuid.Nil)
	if err != nil {
		return nil, err
	}

	byMode, err := s.paymentModeBreakdown(start, end, uuid.Nil)
	if err != nil {
		return nil, err
	}

	topProducts, err := s.topProducts(start, end, uuid.Nil)
	if err != nil {
		return nil, err
	}

	byBranch, err := s.branchBreakdown(start, end)
	if err != nil {
		return nil, err
	}

	var totals EntityTotals
	if err := s.db.Model(&models.Branch{}).Count(&totals.TotalBranches).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Employee{}).Count(&totals.TotalEmployees).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Customer{}).Count(&totals.TotalCustomers).Error; err != nil {
		return nil, err
	}

	data := &DashboardData{
		DateRange: DateRange{
			StartDate: start.Format("2006-01-02"),
			EndDate:   end.Format("2006-01-02"),
		},
		Summary:         summary,
		ByPaymentMethod: byMethod,
		ByPaymentMode:   byMode,
		TopProducts:     topProducts,
		ByBranch:        byBranch,
		Totals:          totals,
	}

	if encoded, err := json.Marshal(data); err == nil {
		_ = s.cache.Set(context.Background(), cacheKey, encoded, s.cacheTTL)
	}

	return data, nil
}

// GetBranchDashboardData computes the single-branch dashboard.
func (s *DashboardService) GetBranchDashboardData(start, end time.Time, branchID uuid.UUID) (*BranchDashboardData, error) {
	var branch models.Branch
	if err := s.db.First(&branch, "id = ?", branchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound("Branch not found")
		}
		return nil, err
	}

	cacheKey := fmt.Sprintf("dashboard:branch:%s:%s:%s", branchID, start.Format("2006-01-02"), end.Format("2006-01-02"))
	if cached, ok, err := s.cache.Get(context.Background(), cacheKey); err == nil && ok {
		var data BranchDashboardData
		if json.Unmarshal(cached, &data) == nil {
			return &data, nil
		}
	}

	summary, err := s.rangeSummary(start, end, branchID)
	if err != nil {
		return nil, err
	}

	byMethod, err := s.paymentMethodBreakdown(start, end, branchID)
	if err != nil {
		return nil, err
	}

	byMode, err := s.paymentModeBreakdown(start, end, branchID)
	if err != nil {
		return nil, err
	}

	topProducts, err := s.topProducts(start, end, branchID)
	if err != nil {
		return nil, err
	}

	data := &BranchDashboardData{
		DateRange: DateRange{
			StartDate: start.Format("2006-01-02"),
			EndDate:   end.Format("2006-01-02"),
		},
		BranchInfo: BranchInfo{
			BranchID:      branch.ID,
			BranchName:    branch.Name,
			BranchNumber:  branch.BranchNumber,
			EmployeeCount: branch.EmployeeCount,
		},
		Summary:         summary,
		ByPaymentMethod: byMethod,
		ByPaymentMode:   byMode,
		TopProducts:     topProducts,
	}

	if encoded, err := json.Marshal(data); err == nil {
		_ = s.cache.Set(context.Background(), cacheKey, encoded, s.cacheTTL)
	}

	return data, nil
}

func (s *DashboardService) rangeScope(start, end time.Time, branchID uuid.UUID) *gorm.DB {
	query := s.db.Model(&models.Booking{}).Where("date BETWEEN ? AND ?", start, end)
	if branchID != uuid.Nil {
		query = query.Where("branch_id = ?", branchID)
	}
	return query
}

func (s *DashboardService) rangeSummary(start, end time.Time, branchID uuid.UUID) (DashboardSummary, error) {
	var row struct {
		TotalBookings   int64
		TotalRevenue    float64
		UniqueCustomers int64
	}
	err := s.rangeScope(start, end, branchID).
		Select("COUNT(*) as total_bookings, COALESCE(SUM(total_amount), 0) as total_revenue, COUNT(DISTINCT user_id) as unique_customers").
		Scan(&row).Error
	if err != nil {
		return DashboardSummary{}, err
	}

	return DashboardSummary{
		TotalBookings:          row.TotalBookings,
		TotalRevenue:           row.TotalRevenue,
		UniqueCustomersInRange: row.UniqueCustomers,
		AverageOrderValue:      AverageOrderValue(row.TotalRevenue, row.TotalBookings),
	}, nil
}

// AverageOrderValue is totalRevenue/totalBookings rounded to 2 decimals, or
// 0 for an empty range.
func AverageOrderValue(totalRevenue float64, totalBookings int64) float64 {
	if totalBookings == 0 {
		return 0
	}
	return utils.Round2(totalRevenue / float64(totalBookings))
}

// paymentMethodBreakdown reports, per component, the bookings where that
// component was used at all and the amount collected through it. A split
// booking contributes to both rows.
func (s *DashboardService) paymentMethodBreakdown(start, end time.Time, branchID uuid.UUID) ([]PaymentMethodRow, error) {
	var cash PaymentMethodRow
	err := s.rangeScope(start, end, branchID).
		Where("cash_amount > 0").
		Select("COUNT(*) as count, COALESCE(SUM(cash_amount), 0) as total_amount").
		Scan(&cash).Error
	if err != nil {
		return nil, err
	}
	cash.PaymentMethod = models.PaymentModeCash

	var upi PaymentMethodRow
	err = s.rangeScope(start, end, branchID).
		Where("upi_amount > 0").
		Select("COUNT(*) as count, COALESCE(SUM(upi_amount), 0) as total_amount").
		Scan(&upi).Error
	if err != nil {
		return nil, err
	}
	upi.PaymentMethod = models.PaymentModeUPI

	return []PaymentMethodRow{cash, upi}, nil
}

func (s *DashboardService) paymentModeBreakdown(start, end time.Time, branchID uuid.UUID) ([]PaymentModeRow, error) {
	var rows []PaymentModeRow
	err := s.rangeScope(start, end, branchID).
		Select("payment_mode, COUNT(*) as count, COALESCE(SUM(total_amount), 0) as total_amount").
		Group("payment_mode").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return FillPaymentModes(rows), nil
}

// FillPaymentModes projects grouped rows onto the fixed CASH/UPI/SPLIT order
// with zero rows for modes that had no bookings.
func FillPaymentModes(rows []PaymentModeRow) []PaymentModeRow {
	byMode := make(map[string]PaymentModeRow, len(rows))
	for _, row := range rows {
		byMode[row.PaymentMode] = row
	}

	out := make([]PaymentModeRow, 0, 3)
	for _, mode := range []string{models.PaymentModeCash, models.PaymentModeUPI, models.PaymentModeSplit} {
		row, ok := byMode[mode]
		if !ok {
			row = PaymentModeRow{PaymentMode: mode}
		}
		out = append(out, row)
	}
	return out
}

func (s *DashboardService) topProducts(start, end time.Time, branchID uuid.UUID) ([]TopProductRow, error) {
	query := s.db.Table("booking_items").
		Select("booking_items.product_id, MAX(booking_items.product_name) as product_name, SUM(booking_items.quantity) as quantity, SUM(booking_items.line_total) as revenue").
		Joins("JOIN bookings ON bookings.id = booking_items.booking_id").
		Where("bookings.date BETWEEN ? AND ?", start, end)
	if branchID != uuid.Nil {
		query = query.Where("bookings.branch_id = ?", branchID)
	}

	var rows []TopProductRow
	err := query.
		Group("booking_items.product_id").
		Order("revenue DESC").
		Limit(10).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *DashboardService) branchBreakdown(start, end time.Time) ([]BranchRow, error) {
	type grouped struct {
		BranchID     uuid.UUID
		BookingCount int64
		Revenue      float64
	}
	var rows []grouped
	err := s.db.Model(&models.Booking{}).
		Where("date BETWEEN ? AND ?", start, end).
		Select("branch_id, COUNT(*) as booking_count, COALESCE(SUM(total_amount), 0) as revenue").
		Group("branch_id").
		Order("revenue DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	var branches []models.Branch
	if err := s.db.Find(&branches).Error; err != nil {
		return nil, err
	}
	branchMap := make(map[uuid.UUID]models.Branch, len(branches))
	for _, b := range branches {
		branchMap[b.ID] = b
	}

	out := make([]BranchRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, EnrichBranchRow(row.BranchID, row.BookingCount, row.Revenue, branchMap))
	}
	return out, nil
}

// EnrichBranchRow attaches the branch snapshot to a grouped ledger row,
// defaulting to "N/A"/0 when the branch record is gone.
func EnrichBranchRow(branchID uuid.UUID, bookingCount int64, revenue float64, branchMap map[uuid.UUID]models.Branch) BranchRow {
	row := BranchRow{
		BranchID:      branchID,
		BranchName:    "N/A",
		BranchNumber:  "N/A",
		EmployeeCount: 0,
		BookingCount:  bookingCount,
		Revenue:       revenue,
	}
	if branch, ok := branchMap[branchID]; ok {
		row.BranchName = branch.Name
		row.BranchNumber = branch.BranchNumber
		row.EmployeeCount = branch.EmployeeCount
	}
	return row
}
