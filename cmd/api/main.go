package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"botanyco/internal/images"
	"botanyco/internal/lifecycle"
	"botanyco/internal/models"
	"botanyco/internal/moderation"
	"botanyco/internal/notify"
	"botanyco/internal/payments"
	"botanyco/internal/receipt"
	"botanyco/internal/reports"
	"botanyco/internal/repository"

	"github.com/alexedwards/scs/v2"
	"github.com/joho/godotenv"
)

type config struct {
	addr           string
	mongoURI       string
	dbName         string
	smtpHost       string
	smtpPort       int
	smtpUsername   string
	smtpPassword   string
	smtpFrom       string
	stripeKey      string
	cloudinaryURL  string
	profanityWords []string
}

type application struct {
	errorLog *log.Logger
	infoLog  *log.Logger
	session  *scs.SessionManager
	db       *models.MongoDB
	users    *repository.UserRepository
	orders   *lifecycle.Manager
	reviews  *moderation.Service
	reports  *reports.Service
	payments payments.Gateway
	images   images.Store
}

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, reading configuration from the environment")
	}

	cfg := loadConfig()
	flag.StringVar(&cfg.addr, "addr", cfg.addr, "HTTP network address")
	flag.Parse()

	infoLog := log.New(os.Stdout, "INFO\t", log.Ldate|log.Ltime)
	errorLog := log.New(os.Stderr, "ERROR\t", log.Ldate|log.Ltime|log.Lshortfile)

	db, err := models.OpenDB(cfg.mongoURI, cfg.dbName)
	if err != nil {
		errorLog.Fatal(err)
	}
	defer db.Close(context.Background())
	infoLog.Println("Connected to database!")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.EnsureIndexes(ctx); err != nil {
		cancel()
		errorLog.Fatal(err)
	}
	cancel()

	session := scs.New()
	session.Lifetime = 12 * time.Hour

	var notifier lifecycle.Notifier
	if cfg.smtpHost != "" {
		sender := notify.NewGomailSender(cfg.smtpHost, cfg.smtpPort, cfg.smtpUsername, cfg.smtpPassword, cfg.smtpFrom)
		notifier = notify.NewDispatcher(sender, receipt.NewRenderer(), errorLog)
	} else {
		infoLog.Println("SMTP_HOST not set, order emails disabled")
	}

	var imageStore images.Store
	if cfg.cloudinaryURL != "" {
		imageStore, err = images.NewCloudinaryStore(cfg.cloudinaryURL)
		if err != nil {
			errorLog.Fatal(err)
		}
	} else {
		infoLog.Println("CLOUDINARY_URL not set, product image uploads disabled")
	}

	var gateway payments.Gateway
	if cfg.stripeKey != "" {
		gateway = payments.NewStripeGateway(cfg.stripeKey)
	} else {
		infoLog.Println("STRIPE_SECRET_KEY not set, card payments disabled")
	}

	filter := moderation.NewFilter(moderation.FilterConfig{
		CustomWords: cfg.profanityWords,
		ErrorLog:    errorLog,
	})

	app := &application{
		errorLog: errorLog,
		infoLog:  infoLog,
		session:  session,
		db:       db,
		users:    &repository.UserRepository{Collection: db.Users},
		orders:   lifecycle.NewManager(db, notifier, errorLog),
		reviews:  moderation.NewService(db, filter, errorLog),
		reports:  reports.NewService(db.Orders),
		payments: gateway,
		images:   imageStore,
	}

	srv := &http.Server{
		Addr:     cfg.addr,
		ErrorLog: errorLog,
		Handler:  app.routes(),
	}

	infoLog.Printf("Starting Botany & Co API on %s", cfg.addr)
	err = srv.ListenAndServe()
	errorLog.Fatal(err)
}

func loadConfig() config {
	cfg := config{
		addr:          envOr("ADDR", ":4000"),
		mongoURI:      envOr("MONGO_URI", "mongodb://localhost:27017"),
		dbName:        envOr("DB_NAME", "botanyco"),
		smtpHost:      os.Getenv("SMTP_HOST"),
		smtpUsername:  os.Getenv("SMTP_USERNAME"),
		smtpPassword:  os.Getenv("SMTP_PASSWORD"),
		smtpFrom:      envOr("SMTP_FROM", "orders@botanyco.example"),
		stripeKey:     os.Getenv("STRIPE_SECRET_KEY"),
		cloudinaryURL: os.Getenv("CLOUDINARY_URL"),
	}
	cfg.smtpPort, _ = strconv.Atoi(envOr("SMTP_PORT", "587"))
	if words := os.Getenv("PROFANITY_WORDS"); words != "" {
		cfg.profanityWords = strings.Split(words, ",")
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
