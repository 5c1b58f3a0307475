// routes/routes.go
package routes

import (
	"github.com/gorilla/mux"

	"github.com/sugarplum-bakes/orders-api/controllers"
	"github.com/sugarplum-bakes/orders-api/middleware"
)

// RegisterRoutes sets up all the routes for the application.
func RegisterRoutes(router *mux.Router, customOrderController *controllers.CustomOrderController, orderController *controllers.OrderController) {
	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.AuthMiddleware)

	// Custom order routes
	customOrders := api.PathPrefix("/custom-orders").Subrouter()
	customOrders.HandleFunc("", customOrderController.CreateCustomOrder).Methods("POST")
	customOrders.HandleFunc("/my-orders", customOrderController.GetMyCustomOrders).Methods("GET")
	customOrders.HandleFunc("/{id}", customOrderController.GetCustomOrderByID).Methods("GET")

	// Admin custom order routes
	customOrdersAdmin := api.PathPrefix("/custom-orders").Subrouter()
	customOrdersAdmin.Use(middleware.AdminMiddleware)
	customOrdersAdmin.HandleFunc("", customOrderController.GetAllCustomOrders).Methods("GET")
	customOrdersAdmin.HandleFunc("/{id}/status", customOrderController.UpdateCustomOrderStatus).Methods("PUT")

	// Order routes
	orders := api.PathPrefix("/orders").Subrouter()
	orders.HandleFunc("", orderController.CreateOrder).Methods("POST")
	orders.HandleFunc("/my-orders", orderController.GetMyOrders).Methods("GET")
	orders.HandleFunc("/{id}", orderController.GetOrderByID).Methods("GET")
	orders.HandleFunc("/{id}/pay", orderController.PayOrder).Methods("PUT")

	// Admin order routes
	ordersAdmin := api.PathPrefix("/orders").Subrouter()
	ordersAdmin.Use(middleware.AdminMiddleware)
	ordersAdmin.HandleFunc("", orderController.GetAllOrders).Methods("GET")
	ordersAdmin.HandleFunc("/{id}/deliver", orderController.DeliverOrder).Methods("PUT")
}
