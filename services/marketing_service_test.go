package services

import (
	"errors"
	"strings"
	"testing"

	"blackbird-backend/models"
)

type stubGateway struct {
	calls   []stubCall
	failFor map[string]bool
}

type stubCall struct {
	Phone        string
	TemplateName string
	LanguageCode string
	Parameters   []string
}

func (g *stubGateway) SendTemplate(phone, templateName, languageCode string, bodyParameters []string) SendResult {
	g.calls = append(g.calls, stubCall{
		Phone:        phone,
		TemplateName: templateName,
		LanguageCode: languageCode,
		Parameters:   bodyParameters,
	})
	if g.failFor[phone] {
		return SendResult{Success: false, Detail: "provider rejected"}
	}
	return SendResult{Success: true}
}

func TestParseDynamicField(t *testing.T) {
	cases := []struct {
		token string
		want  DynamicField
	}{
		{"user_fullName", FieldCustomerFullName},
		{"user_phone", FieldCustomerPhone},
		{"user_email", FieldCustomerEmail},
		{"branch_name", FieldBranchName},
		{"branch_number", FieldBranchNumber},
		{"Rahul", FieldLiteral},
		{"", FieldLiteral},
		{"user_fullname", FieldLiteral},
	}

	for _, tc := range cases {
		if got := ParseDynamicField(tc.token); got != tc.want {
			t.Errorf("ParseDynamicField(%q) = %v, want %v", tc.token, got, tc.want)
		}
	}
}

func TestDynamicFieldOptionsMatchRecognizedTokens(t *testing.T) {
	options := DynamicFieldOptions()
	if len(options) != 5 {
		t.Fatalf("len = %d, want 5", len(options))
	}
	seen := make(map[DynamicField]bool)
	for _, opt := range options {
		field := ParseDynamicField(opt.Value)
		if field == FieldLiteral {
			t.Errorf("option %q does not parse as a dynamic field", opt.Value)
		}
		if seen[field] {
			t.Errorf("option %q duplicates an earlier field", opt.Value)
		}
		seen[field] = true
		if opt.Label == "" {
			t.Errorf("option %q has no label", opt.Value)
		}
	}
}

func TestResolveDynamicFieldMissingContext(t *testing.T) {
	if got := ResolveDynamicField(FieldCustomerFullName, nil, nil); got != "" {
		t.Errorf("resolved to %q without a customer, want empty", got)
	}
	if got := ResolveDynamicField(FieldBranchName, nil, nil); got != "" {
		t.Errorf("resolved to %q without a branch, want empty", got)
	}

	customer := &models.Customer{FullName: "Rahul", Phone: "+919876543210", Email: "rahul@example.com"}
	branch := &models.Branch{Name: "Andheri", BranchNumber: "BRANCH0002"}
	if got := ResolveDynamicField(FieldCustomerPhone, customer, branch); got != "+919876543210" {
		t.Errorf("FieldCustomerPhone = %q", got)
	}
	if got := ResolveDynamicField(FieldBranchNumber, customer, branch); got != "BRANCH0002" {
		t.Errorf("FieldBranchNumber = %q", got)
	}
}

func marketingTemplate() *models.MarketingTemplate {
	return &models.MarketingTemplate{
		Name:                 "DIWALI_OFFER",
		WhatsappTemplateName: "diwali_offer",
		LanguageCode:         "en",
		BodyExample:          "Hi {{1}}, get {{2}}% off at {{3}}!",
		Parameters: models.TemplateParameters{
			{Key: "discount", Position: 2, Type: models.ParamTypeNumber, Required: true},
			{Key: "name", Position: 1, Type: models.ParamTypeString, Required: true},
			{Key: "branch", Position: 3, Type: models.ParamTypeString},
		},
		IsActive: true,
	}
}

func TestBuildOrderedParameters(t *testing.T) {
	tmpl := marketingTemplate()
	customer := &models.Customer{FullName: "Rahul"}
	branch := &models.Branch{Name: "Andheri"}

	ordered := BuildOrderedParameters(tmpl, map[string]interface{}{
		"name":     "user_fullName",
		"discount": float64(20),
		"branch":   "branch_name",
	}, customer, branch)

	want := []string{"Rahul", "20", "Andheri"}
	if len(ordered) != len(want) {
		t.Fatalf("len = %d, want %d", len(ordered), len(want))
	}
	for i := range want {
		if ordered[i] != want[i] {
			t.Errorf("ordered[%d] = %q, want %q", i, ordered[i], want[i])
		}
	}
}

func TestBuildOrderedParametersMissingValues(t *testing.T) {
	tmpl := marketingTemplate()

	ordered := BuildOrderedParameters(tmpl, map[string]interface{}{
		"name": "Priya",
	}, nil, nil)

	want := []string{"Priya", "", ""}
	for i := range want {
		if ordered[i] != want[i] {
			t.Errorf("ordered[%d] = %q, want %q", i, ordered[i], want[i])
		}
	}
}

func TestBuildOrderedParametersDynamicTokenWithoutContext(t *testing.T) {
	tmpl := marketingTemplate()

	ordered := BuildOrderedParameters(tmpl, map[string]interface{}{
		"name":     "user_fullName",
		"discount": "15",
		"branch":   "Andheri West",
	}, nil, nil)

	if ordered[0] != "" {
		t.Errorf("dynamic token without context = %q, want empty", ordered[0])
	}
	if ordered[1] != "15" {
		t.Errorf("number coercion = %q, want 15", ordered[1])
	}
	if ordered[2] != "Andheri West" {
		t.Errorf("literal = %q, want passthrough", ordered[2])
	}
}

func TestCoerceNumber(t *testing.T) {
	cases := []struct {
		in   interface{}
		want string
	}{
		{float64(2500), "2500"},
		{float64(2500.5), "2500.5"},
		{42, "42"},
		{int64(7), "7"},
		{"60", "60"},
		{"not-a-number", "not-a-number"},
	}

	for _, tc := range cases {
		if got := coerceNumber(tc.in); got != tc.want {
			t.Errorf("coerceNumber(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidateParameterPositions(t *testing.T) {
	ok := []models.TemplateParameter{
		{Key: "b", Position: 2},
		{Key: "a", Position: 1},
		{Key: "c", Position: 3},
	}
	if err := ValidateParameterPositions(ok); err != nil {
		t.Errorf("contiguous positions rejected: %v", err)
	}

	if err := ValidateParameterPositions(nil); err != nil {
		t.Errorf("empty parameter list rejected: %v", err)
	}

	gapped := []models.TemplateParameter{
		{Key: "a", Position: 1},
		{Key: "c", Position: 3},
	}
	err := ValidateParameterPositions(gapped)
	if err == nil {
		t.Fatal("expected error for gapped positions")
	}
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error type = %T, want ValidationError", err)
	}
	if !strings.Contains(verr.Message, "position 2") {
		t.Errorf("message = %q, want gap at position 2", verr.Message)
	}

	if err := ValidateParameterPositions([]models.TemplateParameter{{Key: "a", Position: 2}}); err == nil {
		t.Error("expected error when positions do not start at 1")
	}
}

func TestAudienceSnapshotKeepsDateFilter(t *testing.T) {
	snapshot := audienceSnapshot(AudienceSpec{
		Type: models.AudienceAllCustomers,
		DateFilter: &AudienceDateFilter{
			StartDate: "2026-01-01",
			EndDate:   "2026-03-31",
		},
	})

	if snapshot["type"] != models.AudienceAllCustomers {
		t.Errorf("type = %v", snapshot["type"])
	}
	dateFilter, ok := snapshot["dateFilter"].(map[string]interface{})
	if !ok {
		t.Fatalf("dateFilter missing from snapshot: %v", snapshot)
	}
	if dateFilter["startDate"] != "2026-01-01" || dateFilter["endDate"] != "2026-03-31" {
		t.Errorf("dateFilter = %v", dateFilter)
	}

	bare := audienceSnapshot(AudienceSpec{Type: models.AudienceSingle, Phone: "9876543210"})
	if _, exists := bare["dateFilter"]; exists {
		t.Error("dateFilter recorded for a spec that has none")
	}
	if bare["phone"] != "9876543210" {
		t.Errorf("phone = %v", bare["phone"])
	}
}

func TestTerminalStatus(t *testing.T) {
	cases := []struct {
		total, failed int
		want          string
	}{
		{3, 0, models.SendStatusCompleted},
		{3, 3, models.SendStatusFailed},
		{3, 1, models.SendStatusPartial},
		{0, 0, models.SendStatusCompleted},
	}
	for _, tc := range cases {
		if got := terminalStatus(tc.total, tc.failed); got != tc.want {
			t.Errorf("terminalStatus(%d, %d) = %q, want %q", tc.total, tc.failed, got, tc.want)
		}
	}
}

func TestRunFanoutCountsPerRecipientOutcomes(t *testing.T) {
	tmpl := marketingTemplate()
	gateway := &stubGateway{failFor: map[string]bool{"+919000000002": true}}

	recipients := []Recipient{
		{Phone: "9000000001", Customer: &models.Customer{FullName: "One"}},
		{Phone: "+91 90000 00002", Customer: &models.Customer{FullName: "Two"}},
		{Phone: "9000000003", Customer: &models.Customer{FullName: "Three"}},
	}

	success, failed := runFanout(recipients, tmpl, map[string]interface{}{
		"name":     "user_fullName",
		"discount": float64(10),
	}, gateway)

	if success != 2 || failed != 1 {
		t.Errorf("success/failed = %d/%d, want 2/1", success, failed)
	}
	if len(gateway.calls) != 3 {
		t.Fatalf("gateway called %d times, want 3", len(gateway.calls))
	}
	if gateway.calls[0].Phone != "+919000000001" {
		t.Errorf("phone not normalized: %q", gateway.calls[0].Phone)
	}
	if gateway.calls[0].TemplateName != "diwali_offer" || gateway.calls[0].LanguageCode != "en" {
		t.Errorf("template routing = %q/%q", gateway.calls[0].TemplateName, gateway.calls[0].LanguageCode)
	}
	if gateway.calls[1].Parameters[0] != "Two" {
		t.Errorf("per-recipient resolution = %q, want Two", gateway.calls[1].Parameters[0])
	}
}

func TestRunFanoutUnreachablePhoneFailsWithoutSending(t *testing.T) {
	tmpl := marketingTemplate()
	gateway := &stubGateway{}

	success, failed := runFanout([]Recipient{{Phone: ""}}, tmpl, nil, gateway)
	if success != 0 || failed != 1 {
		t.Errorf("success/failed = %d/%d, want 0/1", success, failed)
	}
	if len(gateway.calls) != 0 {
		t.Errorf("gateway called %d times for an empty phone, want 0", len(gateway.calls))
	}
}

func TestRenderPreview(t *testing.T) {
	tmpl := marketingTemplate()
	ordered := []string{"Rahul", "20", "Andheri"}

	got := RenderPreview(tmpl.BodyExample, tmpl, ordered)
	want := "Hi Rahul, get 20% off at Andheri!"
	if got != want {
		t.Errorf("RenderPreview = %q, want %q", got, want)
	}
}

func TestRenderPreviewShortOrderedList(t *testing.T) {
	tmpl := marketingTemplate()

	got := RenderPreview(tmpl.BodyExample, tmpl, []string{"Rahul"})
	want := "Hi Rahul, get % off at !"
	if got != want {
		t.Errorf("RenderPreview = %q, want %q", got, want)
	}
}
