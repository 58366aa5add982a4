package services

import (
	"testing"

	"blackbird-backend/models"

	"github.com/google/uuid"
)

func TestAverageOrderValue(t *testing.T) {
	cases := []struct {
		revenue  float64
		bookings int64
		want     float64
	}{
		{0, 0, 0},
		{1500, 3, 500},
		{1000, 3, 333.33},
		{750.5, 2, 375.25},
	}
	for _, tc := range cases {
		if got := AverageOrderValue(tc.revenue, tc.bookings); got != tc.want {
			t.Errorf("AverageOrderValue(%v, %d) = %v, want %v", tc.revenue, tc.bookings, got, tc.want)
		}
	}
}

func TestFillPaymentModesZeroFills(t *testing.T) {
	out := FillPaymentModes([]PaymentModeRow{
		{PaymentMode: models.PaymentModeUPI, Count: 4, TotalAmount: 2000},
	})

	if len(out) != 3 {
		t.Fatalf("len = %d, want 3", len(out))
	}
	wantOrder := []string{models.PaymentModeCash, models.PaymentModeUPI, models.PaymentModeSplit}
	for i, mode := range wantOrder {
		if out[i].PaymentMode != mode {
			t.Errorf("out[%d].PaymentMode = %q, want %q", i, out[i].PaymentMode, mode)
		}
	}
	if out[0].Count != 0 || out[0].TotalAmount != 0 {
		t.Errorf("missing CASH row not zero-filled: %+v", out[0])
	}
	if out[1].Count != 4 || out[1].TotalAmount != 2000 {
		t.Errorf("UPI row not preserved: %+v", out[1])
	}
}

func TestFillPaymentModesEmptyInput(t *testing.T) {
	out := FillPaymentModes(nil)
	if len(out) != 3 {
		t.Fatalf("len = %d, want 3", len(out))
	}
	for _, row := range out {
		if row.Count != 0 || row.TotalAmount != 0 {
			t.Errorf("row %q not zero: %+v", row.PaymentMode, row)
		}
	}
}

func TestEnrichBranchRow(t *testing.T) {
	branchID := uuid.New()
	branchMap := map[uuid.UUID]models.Branch{
		branchID: {ID: branchID, Name: "Andheri", BranchNumber: "BRANCH0003", EmployeeCount: 5},
	}

	row := EnrichBranchRow(branchID, 12, 48000, branchMap)
	if row.BranchName != "Andheri" || row.BranchNumber != "BRANCH0003" || row.EmployeeCount != 5 {
		t.Errorf("branch snapshot not attached: %+v", row)
	}
	if row.BookingCount != 12 || row.Revenue != 48000 {
		t.Errorf("grouped values lost: %+v", row)
	}
}

func TestEnrichBranchRowMissingBranch(t *testing.T) {
	row := EnrichBranchRow(uuid.New(), 2, 900, map[uuid.UUID]models.Branch{})
	if row.BranchName != "N/A" || row.BranchNumber != "N/A" || row.EmployeeCount != 0 {
		t.Errorf("missing branch defaults wrong: %+v", row)
	}
}
