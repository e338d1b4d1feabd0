// Command cropadvisord serves the crop recommendation API.
package main

import (
	"crypto/tls"
	"fmt"
	"log"
	"net/http"
	"os"

	"golang.org/x/crypto/acme/autocert"

	"cropadvisor/internal/agri"
	"cropadvisor/internal/engine"
	"cropadvisor/internal/market"
	"cropadvisor/internal/narrative"
	"cropadvisor/internal/server"
	"cropadvisor/internal/weather"

	"github.com/prometheus/client_golang/prometheus"
)

type Config struct {
	DBBackend  string // memory | sqlite | postgres
	SQLitePath string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	WeatherAPIKey string
	RatesAPIKey   string

	OllamaURL   string
	OllamaModel string

	PolicyPath string

	Domain  string
	CertDir string
	DevMode bool
}

func getConfig() Config {
	return Config{
		DBBackend:  getEnv("DB_BACKEND", "memory"),
		SQLitePath: getEnv("SQLITE_PATH", "cropadvisor.db"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "cropadvisor"),
		DBPassword: getEnv("DB_PASSWORD", "cropadvisor"),
		DBName:     getEnv("DB_NAME", "cropadvisor"),

		WeatherAPIKey: getEnv("OPENWEATHER_API_KEY", ""),
		RatesAPIKey:   getEnv("COMMODITY_API_KEY", ""),

		OllamaURL:   getEnv("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel: getEnv("OLLAMA_MODEL", "llama3"),

		PolicyPath: getEnv("POLICY_PATH", ""),

		Domain:  getEnv("DOMAIN", "cropadvisor.example.com"),
		CertDir: getEnv("CERT_DIR", "/opt/cropadvisor/certs"),
		DevMode: getEnv("DEV_MODE", "false") == "true",
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func openDatabase(cfg Config) (agri.Database, error) {
	switch cfg.DBBackend {
	case "sqlite":
		return agri.NewSQLite(cfg.SQLitePath)
	case "postgres":
		connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
		return agri.NewPostgres(connStr)
	default:
		return agri.NewMemory(), nil
	}
}

func main() {
	cfg := getConfig()

	db, err := openDatabase(cfg)
	if err != nil {
		log.Fatalf("Reference database initialization failed: %v", err)
	}
	log.Printf("Reference database ready (backend=%s)", cfg.DBBackend)

	policy := engine.Default()
	if cfg.PolicyPath != "" {
		policy, err = engine.Load(cfg.PolicyPath)
		if err != nil {
			log.Fatalf("Policy load failed: %v", err)
		}
		log.Printf("Scoring policy loaded from %s", cfg.PolicyPath)
	}

	var wf server.WeatherFetcher
	if cfg.WeatherAPIKey != "" {
		wf = weather.NewClient(cfg.WeatherAPIKey)
	} else {
		log.Println("No weather API key; serving neutral conditions")
	}

	var pf server.PriceFetcher
	if cfg.RatesAPIKey != "" {
		pf = market.NewClient(cfg.RatesAPIKey)
	} else {
		log.Println("No commodity API key; market scored neutrally")
	}

	gen := narrative.NewOllama(cfg.OllamaURL, cfg.OllamaModel)
	eng := engine.New(db, policy, narrative.NewAugmenter(gen, 0))

	metrics := server.NewMetrics(prometheus.DefaultRegisterer)
	handler := server.New(db, eng, wf, pf, gen, metrics).Handler()

	if cfg.DevMode {
		log.Printf("Starting development server on :8080")
		log.Fatal(http.ListenAndServe(":8080", handler))
	} else {
		certManager := autocert.Manager{
			Prompt:     autocert.AcceptTOS,
			HostPolicy: autocert.HostWhitelist(cfg.Domain),
			Cache:      autocert.DirCache(cfg.CertDir),
		}

		srv := &http.Server{
			Addr:    ":443",
			Handler: handler,
			TLSConfig: &tls.Config{
				GetCertificate: certManager.GetCertificate,
				MinVersion:     tls.VersionTLS12,
			},
		}

		go func() {
			redirectServer := &http.Server{
				Addr:    ":80",
				Handler: certManager.HTTPHandler(http.HandlerFunc(redirectHTTPS)),
			}
			log.Println("Starting HTTP redirect server on :80")
			if err := redirectServer.ListenAndServe(); err != nil {
				log.Printf("HTTP redirect server error: %v", err)
			}
		}()

		log.Printf("Starting HTTPS server for %s on :443", cfg.Domain)
		log.Fatal(srv.ListenAndServeTLS("", ""))
	}
}

func redirectHTTPS(w http.ResponseWriter, r *http.Request) {
	target := "https://" + r.Host + r.URL.Path
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusMovedPermanently)
}
