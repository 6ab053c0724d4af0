package main

import (
	_ "embed"
	"flag"
	"html/template"
	"net"
	"net/http"
	"os"

	"github.com/charmbracelet/log"

	"github.com/tomz197/arcade/internal/config"
)

//go:embed index.html
var htmlPage string

var pageTemplate = template.Must(template.New("index").Parse(htmlPage))

// pageData fills the placeholders of index.html.
type pageData struct {
	SSHHost string
	SSHPort string
}

func main() {
	configDir := flag.String("config", ".", "directory containing an arcade.* config file")
	flag.Parse()

	cfg, err := config.Load(*configDir)
	if err != nil {
		log.Fatal("failed to load config", "err", err)
	}
	logger, err := cfg.NewLogger(os.Stderr)
	if err != nil {
		log.Fatal("failed to create logger", "err", err)
	}

	data := pageData{SSHHost: cfg.Web.DisplayHost, SSHPort: cfg.SSH.Port}
	http.Handle("/", pageHandler(data, logger))

	addr := net.JoinHostPort(cfg.Web.Host, cfg.Web.Port)
	logger.Info("Starting web server", "url", "http://"+addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		logger.Fatal("server error", "err", err)
	}
}

// pageHandler serves the landing page with the ssh command for this host.
func pageHandler(data pageData, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := pageTemplate.Execute(w, data); err != nil {
			logger.Error("rendering page", "err", err)
		}
	})
}
