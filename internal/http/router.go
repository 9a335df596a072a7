package http

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tailor-backend/internal/handlers"
	"tailor-backend/internal/middleware"
)

func NewRouter(
	stockHandler *handlers.StockHandler,
	customerHandler *handlers.CustomerHandler,
	billHandler *handlers.BillHandler,
	categoryHandler *handlers.CategoryHandler,
	organizationHandler *handlers.OrganizationHandler,
	tailorCounterHandler *handlers.TailorCounterHandler,
	itemStatusHandler *handlers.ItemStatusHandler,
	dashboardHandler *handlers.DashboardHandler,
	healthHandler *handlers.HealthHandler,
) *mux.Router {
	r := mux.NewRouter()
	// Runs after route matching so metrics are labelled by route template.
	r.Use(middleware.MetricsMiddleware)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/categories", categoryHandler.ListCategories).Methods("GET")
	api.HandleFunc("/dashboard", dashboardHandler.Summary).Methods("GET")

	// Stock
	api.HandleFunc("/stocks", stockHandler.ListStocks).Methods("GET")
	api.HandleFunc("/stocks", stockHandler.CreateStock).Methods("POST")
	api.HandleFunc("/stocks/{id}", stockHandler.GetStock).Methods("GET")
	api.HandleFunc("/stocks/{id}", stockHandler.UpdateStock).Methods("PUT")
	api.HandleFunc("/stocks/{id}", stockHandler.DeleteStock).Methods("DELETE")
	api.HandleFunc("/stocks/{id}/adjust", stockHandler.AdjustStock).Methods("POST")
	api.HandleFunc("/stocks/{id}/ledger", stockHandler.GetLedger).Methods("GET")

	// Customers
	api.HandleFunc("/customers", customerHandler.ListCustomers).Methods("GET")
	api.HandleFunc("/customers", customerHandler.CreateCustomer).Methods("POST")
	api.HandleFunc("/customers/{id}", customerHandler.GetCustomer).Methods("GET")
	api.HandleFunc("/customers/{id}", customerHandler.UpdateCustomer).Methods("PUT")
	api.HandleFunc("/customers/{id}", customerHandler.DeleteCustomer).Methods("DELETE")
	api.HandleFunc("/customers/{id}/bills", customerHandler.ListCustomerBills).Methods("GET")

	// Bills: committed bills are only ever extended with payments
	api.HandleFunc("/bills", billHandler.ListBills).Methods("GET")
	api.HandleFunc("/bills", billHandler.CreateBill).Methods("POST")
	api.HandleFunc("/bills/candidates", billHandler.Candidates).Methods("POST")
	api.HandleFunc("/bills/{id}", billHandler.GetBill).Methods("GET")
	api.HandleFunc("/bills/{id}/payments", billHandler.AddPayment).Methods("POST")
	api.HandleFunc("/bills/{id}/status", billHandler.GetStatus).Methods("GET")
	api.HandleFunc("/bills/{id}/receipt", billHandler.GetReceipt).Methods("GET")

	// Organization profile
	api.HandleFunc("/organization", organizationHandler.GetOrganization).Methods("GET")
	api.HandleFunc("/organization", organizationHandler.UpdateOrganization).Methods("PUT")

	// Tailor counters
	api.HandleFunc("/tailor-counters", tailorCounterHandler.List).Methods("GET")
	api.HandleFunc("/tailor-counters", tailorCounterHandler.Create).Methods("POST")
	api.HandleFunc("/tailor-counters/{id}", tailorCounterHandler.Get).Methods("GET")
	api.HandleFunc("/tailor-counters/{id}", tailorCounterHandler.Update).Methods("PUT")
	api.HandleFunc("/tailor-counters/{id}", tailorCounterHandler.Delete).Methods("DELETE")

	// Item status board
	api.HandleFunc("/item-status", itemStatusHandler.List).Methods("GET")
	api.HandleFunc("/item-status", itemStatusHandler.Create).Methods("POST")
	api.HandleFunc("/item-status/{id}", itemStatusHandler.Update).Methods("PUT")

	// Health endpoints (for probes)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
