// Package routes wires every endpoint to its controller and the permission
// guard protecting it.
package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"go-shop/controllers"
	"go-shop/middleware"
	"go-shop/permissions"
	"go-shop/tokens"
)

// Controllers bundles the handlers the router mounts.
type Controllers struct {
	Auth          *controllers.AuthController
	Orders        *controllers.OrderController
	Roles         *controllers.RoleController
	Notifications *controllers.NotificationController
	Payment       *controllers.PaymentController
}

// New builds the API router.
func New(c Controllers, tokenService *tokens.Service, log *zap.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Metrics)

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	guard := func(required string, authMe, isPublic bool) mux.MiddlewareFunc {
		return mux.MiddlewareFunc(middleware.AuthPermission(tokenService, required, authMe, isPublic))
	}
	authMe := guard("", true, false)
	public := guard("", true, true)

	api := router.PathPrefix("/api").Subrouter()

	auth := api.PathPrefix("/auth").Subrouter()
	auth.Handle("/register", http.HandlerFunc(c.Auth.Register)).Methods(http.MethodPost)
	auth.Handle("/login", http.HandlerFunc(c.Auth.Login)).Methods(http.MethodPost)
	auth.Handle("/logout", http.HandlerFunc(c.Auth.Logout)).Methods(http.MethodPost)
	auth.Handle("/refresh-token", http.HandlerFunc(c.Auth.RefreshToken)).Methods(http.MethodPost)
	auth.Handle("/me", authMe(http.HandlerFunc(c.Auth.Me))).Methods(http.MethodGet)
	auth.Handle("/me", authMe(http.HandlerFunc(c.Auth.UpdateMe))).Methods(http.MethodPut)
	auth.Handle("/change-password", authMe(http.HandlerFunc(c.Auth.ChangePassword))).Methods(http.MethodPatch)
	auth.Handle("/update-device", authMe(http.HandlerFunc(c.Auth.UpdateDevice))).Methods(http.MethodPost)
	auth.Handle("/forgot-password", public(http.HandlerFunc(c.Auth.ForgotPassword))).Methods(http.MethodPost)
	auth.Handle("/reset-password", public(http.HandlerFunc(c.Auth.ResetPassword))).Methods(http.MethodPost)
	auth.Handle("/register-google", http.HandlerFunc(c.Auth.RegisterGoogle)).Methods(http.MethodPost)
	auth.Handle("/login-google", http.HandlerFunc(c.Auth.LoginGoogle)).Methods(http.MethodPost)
	auth.Handle("/register-facebook", http.HandlerFunc(c.Auth.RegisterFacebook)).Methods(http.MethodPost)
	auth.Handle("/login-facebook", http.HandlerFunc(c.Auth.LoginFacebook)).Methods(http.MethodPost)

	orders := api.PathPrefix("/orders").Subrouter()
	orders.Handle("", authMe(http.HandlerFunc(c.Orders.Create))).Methods(http.MethodPost)
	orders.Handle("", guard(permissions.OrderView, false, false)(http.HandlerFunc(c.Orders.List))).Methods(http.MethodGet)
	orders.Handle("/me", authMe(http.HandlerFunc(c.Orders.ListOfMe))).Methods(http.MethodGet)
	orders.Handle("/me/cancel/{orderId}", authMe(http.HandlerFunc(c.Orders.CancelOfMe))).Methods(http.MethodPost)
	orders.Handle("/me/{orderId}", authMe(http.HandlerFunc(c.Orders.GetDetailsOfMe))).Methods(http.MethodGet)
	orders.Handle("/status/{orderId}", authMe(http.HandlerFunc(c.Orders.UpdateStatus))).Methods(http.MethodPost)
	orders.Handle("/cancel/{orderId}", guard(permissions.OrderUpdate, false, false)(http.HandlerFunc(c.Orders.Cancel))).Methods(http.MethodPost)
	orders.Handle("/{id}", guard(permissions.OrderUpdate, false, false)(http.HandlerFunc(c.Orders.Update))).Methods(http.MethodPut)
	orders.Handle("/{orderId}", guard(permissions.OrderView, false, false)(http.HandlerFunc(c.Orders.GetDetails))).Methods(http.MethodGet)
	orders.Handle("/{orderId}", guard(permissions.OrderDelete, false, false)(http.HandlerFunc(c.Orders.Delete))).Methods(http.MethodDelete)

	roles := api.PathPrefix("/roles").Subrouter()
	roles.Handle("", guard(permissions.RoleCreate, false, false)(http.HandlerFunc(c.Roles.Create))).Methods(http.MethodPost)
	roles.Handle("", guard(permissions.RoleView, false, false)(http.HandlerFunc(c.Roles.List))).Methods(http.MethodGet)
	roles.Handle("/permissions", guard(permissions.RoleView, false, false)(http.HandlerFunc(c.Roles.Permissions))).Methods(http.MethodGet)
	roles.Handle("/delete-many", guard(permissions.RoleDelete, false, false)(http.HandlerFunc(c.Roles.DeleteMany))).Methods(http.MethodDelete)
	roles.Handle("/{id}", guard(permissions.RoleView, false, false)(http.HandlerFunc(c.Roles.GetDetails))).Methods(http.MethodGet)
	roles.Handle("/{id}", guard(permissions.RoleUpdate, false, false)(http.HandlerFunc(c.Roles.Update))).Methods(http.MethodPut)
	roles.Handle("/{id}", guard(permissions.RoleDelete, false, false)(http.HandlerFunc(c.Roles.Delete))).Methods(http.MethodDelete)

	notifications := api.PathPrefix("/notifications").Subrouter()
	notifications.Handle("", authMe(http.HandlerFunc(c.Notifications.List))).Methods(http.MethodGet)
	notifications.Handle("/all/read", authMe(http.HandlerFunc(c.Notifications.ReadAll))).Methods(http.MethodPost)
	notifications.Handle("/{id}/read", authMe(http.HandlerFunc(c.Notifications.ReadOne))).Methods(http.MethodPost)
	notifications.Handle("/{id}", authMe(http.HandlerFunc(c.Notifications.Delete))).Methods(http.MethodDelete)

	payment := api.PathPrefix("/payment").Subrouter()
	payment.Handle("/vnpay/create_payment_url", authMe(http.HandlerFunc(c.Payment.CreatePaymentURL))).Methods(http.MethodPost)
	payment.Handle("/vnpay/vnpay_ipn", http.HandlerFunc(c.Payment.IPN)).Methods(http.MethodGet)

	return router
}
