package presenter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/browser"
	"go.uber.org/zap"
)

// closeScript tells the viewer the page went away.
const closeScript = `<script>window.addEventListener("pagehide", function () { navigator.sendBeacon("/closed"); });</script>`

// BrowserPresenter serves the rendered chart on a loopback listener and
// opens it in the default browser. Present returns once the page is closed
// or ctx is cancelled.
type BrowserPresenter struct {
	Addr        string
	OpenBrowser bool
	Logger      *zap.Logger
	Open        func(url string) error
}

// NewBrowserPresenter creates a BrowserPresenter listening on addr.
func NewBrowserPresenter(addr string, openBrowser bool, logger *zap.Logger) *BrowserPresenter {
	if addr == "" {
		addr = "127.0.0.1:0"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BrowserPresenter{
		Addr:        addr,
		OpenBrowser: openBrowser,
		Logger:      logger,
		Open:        browser.OpenURL,
	}
}

func (p *BrowserPresenter) Present(ctx context.Context, c Chart) error {
	var page bytes.Buffer
	if err := Render(c, &page); err != nil {
		return err
	}
	html := injectBeforeBodyEnd(page.Bytes(), []byte(closeScript))

	ln, err := net.Listen("tcp", p.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", p.Addr, err)
	}

	closed := make(chan struct{})
	var once sync.Once
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(html)
	})
	mux.HandleFunc("/closed", func(w http.ResponseWriter, r *http.Request) {
		once.Do(func() { close(closed) })
		w.WriteHeader(http.StatusNoContent)
	})

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(ln) }()

	url := "http://" + ln.Addr().String() + "/"
	log := p.Logger.With(zap.String("url", url))
	if p.OpenBrowser && p.Open != nil {
		if err := p.Open(url); err != nil {
			log.Warn("could not open browser, open the chart manually", zap.Error(err))
		}
	}
	log.Info("chart is being shown, close the page or press Ctrl+C to finish", zap.String("title", c.Title))

	var result error
	select {
	case <-closed:
		log.Info("chart closed")
	case <-ctx.Done():
		log.Info("chart dismissed", zap.Error(ctx.Err()))
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			result = fmt.Errorf("serve chart: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("chart server shutdown", zap.Error(err))
	}
	return result
}

func injectBeforeBodyEnd(page, snippet []byte) []byte {
	idx := bytes.LastIndex(page, []byte("</body>"))
	if idx < 0 {
		return append(page, snippet...)
	}
	out := make([]byte, 0, len(page)+len(snippet))
	out = append(out, page[:idx]...)
	out = append(out, snippet...)
	return append(out, page[idx:]...)
}
