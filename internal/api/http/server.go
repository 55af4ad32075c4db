package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"tontine-backend/internal/security"
	"tontine-backend/internal/service"
	"tontine-backend/internal/storage"
)

// Server wires the HTTP routes to the service layer.
type Server struct {
	auth          service.AuthService
	orgs          service.OrganizationService
	members       service.MembershipService
	plans         service.ContributionPlanService
	contributions service.ContributionService
	debts         service.DebtService
	transactions  service.TransactionService
	subscriptions service.SubscriptionService
	notifications service.NotificationService
	tokens        security.TokenManager
	files         storage.FileStorage
	uploadsDir    string
}

func NewServer(
	auth service.AuthService,
	orgs service.OrganizationService,
	members service.MembershipService,
	plans service.ContributionPlanService,
	contributions service.ContributionService,
	debts service.DebtService,
	transactions service.TransactionService,
	subscriptions service.SubscriptionService,
	notifications service.NotificationService,
	tokens security.TokenManager,
	files storage.FileStorage,
	uploadsDir string,
) *Server {
	return &Server{
		auth:          auth,
		orgs:          orgs,
		members:       members,
		plans:         plans,
		contributions: contributions,
		debts:         debts,
		transactions:  transactions,
		subscriptions: subscriptions,
		notifications: notifications,
		tokens:        tokens,
		files:         files,
		uploadsDir:    uploadsDir,
	}
}

// Router builds the route table. Everything under /api requires a Bearer
// token except the auth endpoints.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(loggingMiddleware)

	if s.uploadsDir != "" {
		r.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.uploadsDir))))
	}

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", s.handleRefresh).Methods(http.MethodPost)

	authed := api.NewRoute().Subrouter()
	authed.Use(authMiddleware(s.tokens))

	authed.HandleFunc("/me", s.handleGetProfile).Methods(http.MethodGet)
	authed.HandleFunc("/me", s.handleUpdateProfile).Methods(http.MethodPut)
	authed.HandleFunc("/me/avatar", s.handleUploadAvatar).Methods(http.MethodPost)

	authed.HandleFunc("/organizations", s.handleListMyOrganizations).Methods(http.MethodGet)
	authed.HandleFunc("/organizations", s.handleCreateOrganization).Methods(http.MethodPost)
	authed.HandleFunc("/subscription-plans", s.handleListPlanOptions).Methods(http.MethodGet)

	org := authed.PathPrefix("/organizations/{orgID}").Subrouter()
	org.HandleFunc("", s.handleGetOrganization).Methods(http.MethodGet)
	org.HandleFunc("", s.handleUpdateOrganization).Methods(http.MethodPut)
	org.HandleFunc("", s.handleDeactivateOrganization).Methods(http.MethodDelete)
	org.HandleFunc("/logo", s.handleUploadLogo).Methods(http.MethodPost)

	org.HandleFunc("/members", s.handleAddMember).Methods(http.MethodPost)
	org.HandleFunc("/members", s.handleListMembers).Methods(http.MethodGet)
	org.HandleFunc("/members/{memberID}", s.handleGetMember).Methods(http.MethodGet)
	org.HandleFunc("/members/{memberID}", s.handleUpdateMember).Methods(http.MethodPut)
	org.HandleFunc("/members/{memberID}", s.handleRemoveMember).Methods(http.MethodDelete)
	org.HandleFunc("/members/{memberID}/summary", s.handleMemberSummary).Methods(http.MethodGet)

	org.HandleFunc("/plans", s.handleCreatePlan).Methods(http.MethodPost)
	org.HandleFunc("/plans", s.handleListPlans).Methods(http.MethodGet)
	org.HandleFunc("/plans/{planID}", s.handleGetPlan).Methods(http.MethodGet)
	org.HandleFunc("/plans/{planID}", s.handleUpdatePlan).Methods(http.MethodPut)
	org.HandleFunc("/plans/{planID}", s.handleDeletePlan).Methods(http.MethodDelete)
	org.HandleFunc("/plans/{planID}/toggle", s.handleTogglePlanStatus).Methods(http.MethodPatch)
	org.HandleFunc("/plans/{planID}/generate", s.handleGenerateContributions).Methods(http.MethodPost)
	org.HandleFunc("/plans/{planID}/assign", s.handleAssignPlan).Methods(http.MethodPost)

	org.HandleFunc("/contributions", s.handleListContributions).Methods(http.MethodGet)
	org.HandleFunc("/contributions/me", s.handleListMyContributions).Methods(http.MethodGet)
	org.HandleFunc("/contributions/{contributionID}", s.handleGetContribution).Methods(http.MethodGet)
	org.HandleFunc("/contributions/{contributionID}/pay", s.handleMarkAsPaid).Methods(http.MethodPost)
	org.HandleFunc("/contributions/{contributionID}/partial-payments", s.handlePartialPayment).Methods(http.MethodPost)

	org.HandleFunc("/debts", s.handleCreateDebt).Methods(http.MethodPost)
	org.HandleFunc("/debts", s.handleListDebts).Methods(http.MethodGet)
	org.HandleFunc("/debts/me", s.handleListMyDebts).Methods(http.MethodGet)
	org.HandleFunc("/debts/summary", s.handleDebtSummary).Methods(http.MethodGet)
	org.HandleFunc("/debts/{debtID}", s.handleGetDebt).Methods(http.MethodGet)
	org.HandleFunc("/debts/{debtID}/repayments", s.handleRecordRepayment).Methods(http.MethodPost)
	org.HandleFunc("/debts/{debtID}/repayments", s.handleListRepayments).Methods(http.MethodGet)
	org.HandleFunc("/debts/{debtID}/status", s.handleUpdateDebtStatus).Methods(http.MethodPatch)

	org.HandleFunc("/transactions", s.handleListTransactions).Methods(http.MethodGet)
	org.HandleFunc("/transactions/search", s.handleSearchTransactions).Methods(http.MethodGet)
	org.HandleFunc("/transactions/{transactionID}", s.handleGetTransaction).Methods(http.MethodGet)

	org.HandleFunc("/subscription", s.handleGetSubscription).Methods(http.MethodGet)
	org.HandleFunc("/subscription", s.handleUpdateSubscription).Methods(http.MethodPut)
	org.HandleFunc("/subscription/usage", s.handleSubscriptionUsage).Methods(http.MethodGet)
	org.HandleFunc("/subscription/plan", s.handleChangePlan).Methods(http.MethodPut)
	org.HandleFunc("/subscription/status", s.handleUpdateSubscriptionStatus).Methods(http.MethodPatch)

	org.HandleFunc("/notifications", s.handleListNotifications).Methods(http.MethodGet)
	org.HandleFunc("/notifications/{notificationID}/read", s.handleMarkNotificationRead).Methods(http.MethodPost)

	return r
}

func pathVar(r *http.Request, name string) string {
	return mux.Vars(r)[name]
}

func queryInt32(r *http.Request, name string, def int32) int32 {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		return def
	}
	return int32(n)
}

func queryTime(r *http.Request, name string) *time.Time {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil
	}
	return &t
}
