package routes

import (
	"testing"

	"blackbird-backend/services"
)

type stubGateway struct{}

func (stubGateway) SendTemplate(phone, templateName, languageCode string, bodyParameters []string) services.SendResult {
	return services.SendResult{Success: true}
}

func TestSetupRouterRegistersAllEndpoints(t *testing.T) {
	r := SetupRouter(stubGateway{}, services.NewSettingsService(nil))

	registered := make(map[string]bool)
	for _, route := range r.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	want := []string{
		"POST /auth/login",
		"GET /auth/me",
		"GET /api/branches",
		"POST /api/branches",
		"GET /api/employees",
		"GET /api/employees/search",
		"GET /api/employees/:id",
		"GET /api/products",
		"PATCH /api/products/:id/status",
		"GET /api/customers",
		"POST /api/bookings",
		"GET /api/bookings",
		"GET /api/dashboard",
		"POST /api/marketing/templates",
		"PUT /api/marketing/templates/:id",
		"DELETE /api/marketing/templates/:id",
		"POST /api/marketing/templates/:id/preview",
		"POST /api/marketing/templates/:id/send",
		"GET /api/marketing/dynamic-fields",
		"GET /api/marketing/sends",
		"GET /api/settings",
		"PUT /api/settings",
	}
	for _, route := range want {
		if !registered[route] {
			t.Errorf("route %s not registered", route)
		}
	}
}
