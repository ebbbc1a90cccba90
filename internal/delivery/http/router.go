package http

import (
	"net/http"

	"contractor-booking/internal/delivery/http/handler"
	"contractor-booking/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router             *mux.Router
	appointmentHandler *handler.AppointmentHandler
	approvalHandler    *handler.ApprovalHandler
	ratingHandler      *handler.RatingHandler
	auditLogHandler    *handler.AuditLogHandler
	contractorHandler  *handler.ContractorHandler
	authMiddleware     *middleware.AuthMiddleware
	corsMiddleware     *middleware.CORSMiddleware
	loggingMiddleware  *middleware.LoggingMiddleware
	rateLimiter        *middleware.RateLimiter
}

func NewRouter(
	appointmentHandler *handler.AppointmentHandler,
	approvalHandler *handler.ApprovalHandler,
	ratingHandler *handler.RatingHandler,
	auditLogHandler *handler.AuditLogHandler,
	contractorHandler *handler.ContractorHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	loggingMiddleware *middleware.LoggingMiddleware,
	rateLimiter *middleware.RateLimiter,
) *Router {
	return &Router{
		router:             mux.NewRouter(),
		appointmentHandler: appointmentHandler,
		approvalHandler:    approvalHandler,
		ratingHandler:      ratingHandler,
		auditLogHandler:    auditLogHandler,
		contractorHandler:  contractorHandler,
		authMiddleware:     authMiddleware,
		corsMiddleware:     corsMiddleware,
		loggingMiddleware:  loggingMiddleware,
		rateLimiter:        rateLimiter,
	}
}

// Setup registers every route. Writes are rate limited per actor after
// authentication.
func (r *Router) Setup() http.Handler {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Contractor routes (public). Registered before the /contractor prefix,
	// which would otherwise also match /contractors.
	api.HandleFunc("/contractors", r.contractorHandler.GetApprovedContractors).Methods(http.MethodGet)
	api.HandleFunc("/contractors/{id}", r.contractorHandler.GetContractor).Methods(http.MethodGet)
	api.HandleFunc("/contractors/{id}/slots", r.appointmentHandler.GetAvailableSlots).Methods(http.MethodGet)
	api.HandleFunc("/contractors/{id}/rating", r.ratingHandler.GetContractorRating).Methods(http.MethodGet)

	limit := r.rateLimiter.Limit

	// User routes (protected - user only)
	user := api.PathPrefix("/appointments").Subrouter()
	user.Use(r.authMiddleware.Authenticate)
	user.Use(middleware.RequireUser)
	user.Handle("", limit(http.HandlerFunc(r.appointmentHandler.CreateBooking))).Methods(http.MethodPost)
	user.HandleFunc("/me", r.appointmentHandler.GetMyAppointments).Methods(http.MethodGet)
	user.HandleFunc("/{id}", r.appointmentHandler.GetAppointment).Methods(http.MethodGet)
	user.HandleFunc("/{id}/status", r.appointmentHandler.GetAppointmentStatus).Methods(http.MethodGet)
	user.Handle("/{id}/cancel", limit(http.HandlerFunc(r.appointmentHandler.CancelAppointment))).Methods(http.MethodPost)
	user.Handle("/{id}/rating", limit(http.HandlerFunc(r.ratingHandler.SubmitRating))).Methods(http.MethodPost)

	// Contractor routes (protected - contractor only)
	contractor := api.PathPrefix("/contractor").Subrouter()
	contractor.Use(r.authMiddleware.Authenticate)
	contractor.Use(middleware.RequireContractor)
	contractor.Handle("/profile", limit(http.HandlerFunc(r.contractorHandler.RegisterProfile))).Methods(http.MethodPost)
	contractor.HandleFunc("/profile", r.contractorHandler.GetProfile).Methods(http.MethodGet)
	contractor.Handle("/profile", limit(http.HandlerFunc(r.contractorHandler.UpdateProfile))).Methods(http.MethodPut)
	contractor.Handle("/availability", limit(http.HandlerFunc(r.contractorHandler.ChangeAvailability))).Methods(http.MethodPost)
	contractor.HandleFunc("/appointments", r.appointmentHandler.GetContractorAppointments).Methods(http.MethodGet)
	contractor.HandleFunc("/appointments/{id}", r.appointmentHandler.GetAppointment).Methods(http.MethodGet)
	contractor.Handle("/appointments/{id}/proof", limit(http.HandlerFunc(r.approvalHandler.SubmitProof))).Methods(http.MethodPost)
	contractor.Handle("/appointments/{id}/cancel", limit(http.HandlerFunc(r.appointmentHandler.CancelAppointment))).Methods(http.MethodPost)
	contractor.HandleFunc("/dashboard", r.appointmentHandler.GetContractorDashboard).Methods(http.MethodGet)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/contractors", r.contractorHandler.GetAllContractors).Methods(http.MethodGet)
	admin.HandleFunc("/contractors", r.contractorHandler.AddContractor).Methods(http.MethodPost)
	admin.HandleFunc("/contractors/{id}/approval", r.contractorHandler.DecideApproval).Methods(http.MethodPost)
	admin.HandleFunc("/contractors/{id}/availability", r.contractorHandler.ChangeAvailability).Methods(http.MethodPost)
	admin.HandleFunc("/appointments", r.appointmentHandler.GetAllAppointments).Methods(http.MethodGet)
	admin.HandleFunc("/appointments/{id}", r.appointmentHandler.GetAppointment).Methods(http.MethodGet)
	admin.HandleFunc("/approvals/pending", r.approvalHandler.GetPendingApprovals).Methods(http.MethodGet)
	admin.HandleFunc("/appointments/{id}/decision", r.approvalHandler.DecideApproval).Methods(http.MethodPost)
	admin.HandleFunc("/appointments/{id}/cancel", r.appointmentHandler.CancelAppointment).Methods(http.MethodPost)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	r.router.Use(r.loggingMiddleware.Handle)

	// CORS wraps the router so preflight requests never hit method matching
	return r.corsMiddleware.Handle(r.router)
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
