package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log"
	"log/syslog"
	"net/http"
	"os"
	"path"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mediatracker/mediatracker-server/api"
	"github.com/mediatracker/mediatracker-server/database/sqlite"
	"github.com/mediatracker/mediatracker-server/tracker"
)

type cfgMain struct {
	Listen  cfgListen
	Dbdir   string
	Logfile string
	Cors    cfgCors
}

type cfgListen struct {
	Port    int
	Tls     bool
	TlsCert string `mapstructure:"tlscert"`
	TlsKey  string `mapstructure:"tlskey"`
}

type cfgCors struct {
	Origins []string
}

func main() {
	configFile := pflag.String("config", "mediatracker-server.yaml",
		"Path of configuration file.")
	logfileFlag := pflag.String("logfile", "",
		"Path of logfile. Use 'syslog' for syslog, 'stdout' "+
			"for standard output, or 'none' to disable logging. "+
			"Overrides the configuration file.")
	pflag.Parse()

	config, err := loadConfig(*configFile)
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	logfile := config.Logfile
	if *logfileFlag != "" {
		logfile = *logfileFlag
	}
	switch logfile {
	case "syslog":
		logw, err := syslog.New(syslog.LOG_NOTICE, "mediatracker")
		if err != nil {
			log.Fatalf("error opening syslog: %v", err)
		}
		log.SetOutput(logw)
	case "none":
		log.SetOutput(io.Discard)
	case "":
		fallthrough
	case "stdout":
	default:
		f, err := os.OpenFile(logfile,
			os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			log.Fatalf("error opening file: %v", err)
		}
		defer f.Close()
		log.SetOutput(f)
	}
	log.SetFlags(0)

	repo, err := sqlite.New(&sqlite.ConfigFile{
		Filename: path.Join(config.Dbdir, "mediatracker.db"),
	})
	if err != nil {
		log.Fatalf("sqlite.New: %s", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	repo.StartBackgroundJobs(ctx)

	t := tracker.New(&tracker.Options{
		Repo: repo,
	})

	r := mux.NewRouter()

	a := api.New(&api.Options{
		Repo:    repo,
		Tracker: t,
	})
	a.RegisterHandlers(r)

	server := HttpLog(withCORS(config.Cors.Origins, r))

	addr := fmt.Sprintf(":%d", config.Listen.Port)

	if config.Listen.TlsCert != "" && config.Listen.TlsKey != "" {
		kpr, err := NewKeypairReloader(config.Listen.TlsCert, config.Listen.TlsKey)
		if err != nil {
			log.Fatalf("error loading keypair: %v", err)
		}

		srv := &http.Server{
			Addr:    addr,
			Handler: server,
			TLSConfig: &tls.Config{
				MinVersion:     tls.VersionTLS13,
				GetCertificate: kpr.GetCertificateFunc(),
			},
		}
		log.Printf("Serving HTTPS on %s", addr)
		log.Fatal(srv.ListenAndServeTLS("", ""))
	} else {
		log.Printf("Serving HTTP on %s", addr)
		log.Fatal(http.ListenAndServe(addr, server))
	}
}

// loadConfig reads the YAML configuration file. A missing file is not an
// error, the defaults are enough to run on.
func loadConfig(filename string) (*cfgMain, error) {
	v := viper.New()
	v.SetConfigFile(filename)
	v.SetConfigType("yaml")
	v.SetDefault("listen.port", 8080)
	v.SetDefault("dbdir", ".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); !ok {
			return nil, err
		}
	}
	var config cfgMain
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// withCORS wraps the router with CORS headers for the configured browser
// origins. Cookies only work cross-origin with explicit origins, so an
// empty list disables CORS entirely rather than allowing '*'.
func withCORS(origins []string, h http.Handler) http.Handler {
	if len(origins) == 0 {
		return h
	}
	return handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "X-Session-Token"}),
		handlers.AllowCredentials(),
	)(h)
}

type keypairReloader struct {
	certMu   sync.RWMutex
	cert     *tls.Certificate
	certPath string
	keyPath  string
}

// NewKeypairReloader creates a new keypair reloader that will reload the TLS certificate
// and key from the specified paths every 15 seconds. If the certificate cannot be loaded,
// it will log an error and keep the old certificate in use.
func NewKeypairReloader(certPath, keyPath string) (*keypairReloader, error) {
	result := &keypairReloader{
		certPath: certPath,
		keyPath:  keyPath,
	}
	cert, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return nil, err
	}
	result.cert = &cert

	go func() {
		for {
			time.Sleep(15 * time.Second)
			if err := result.maybeReload(); err != nil {
				log.Printf("Keeping old TLS certificate because the new one could not be loaded: %v", err)
			}
		}
	}()
	return result, nil
}

func (kpr *keypairReloader) GetCertificateFunc() func(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	return func(clientHello *tls.ClientHelloInfo) (*tls.Certificate, error) {
		kpr.certMu.RLock()
		defer kpr.certMu.RUnlock()
		return kpr.cert, nil
	}
}

func (kpr *keypairReloader) maybeReload() error {
	newCert, err := tls.LoadX509KeyPair(kpr.certPath, kpr.keyPath)
	if err != nil {
		return err
	}
	kpr.certMu.Lock()
	defer kpr.certMu.Unlock()
	kpr.cert = &newCert
	return nil
}
