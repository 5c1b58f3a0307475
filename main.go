// main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/sugarplum-bakes/orders-api/auth"
	"github.com/sugarplum-bakes/orders-api/controllers"
	"github.com/sugarplum-bakes/orders-api/repository"
	"github.com/sugarplum-bakes/orders-api/routes"
	"github.com/sugarplum-bakes/orders-api/storage"
	"github.com/sugarplum-bakes/orders-api/utils"
)

func main() {
	// Load environment variables from .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	// Set the JWT secret key
	auth.JwtKey = []byte(os.Getenv("JWT_SECRET"))

	// Initialize EmailService
	emailService := utils.NewEmailService()

	// Connect to MongoDB
	client := utils.ConnectDB()
	defer func() {
		if err = client.Disconnect(context.TODO()); err != nil {
			log.Fatal(err)
		}
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:" + port
	}
	uploader, err := storage.NewDiskUploader(uploadDir, baseURL)
	if err != nil {
		log.Fatal(err)
	}

	// Initialize repository and controllers
	store := repository.NewMongo(client.Database("bakeshop"))
	customOrderController := controllers.NewCustomOrderController(store, uploader, emailService)
	orderController := controllers.NewOrderController(store)

	// Set up the router
	router := mux.NewRouter()
	routes.RegisterRoutes(router, customOrderController, orderController)

	// Serve uploaded reference images
	router.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadDir))))

	// Start the server
	fmt.Printf("Server is running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}
