package presenter

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowserPresenter_ReturnsWhenPageCloses(t *testing.T) {
	p := NewBrowserPresenter("127.0.0.1:0", true, nil)

	var page string
	p.Open = func(url string) error {
		resp, err := http.Get(url)
		if err != nil {
			return err
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		page = string(body)

		resp, err = http.Post(url+"closed", "text/plain", strings.NewReader(""))
		if err != nil {
			return err
		}
		resp.Body.Close()
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- p.Present(context.Background(), RateChart(sampleSeries(), 1305.35)) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Present did not return after the page closed")
	}
	assert.Contains(t, page, "Average Rate: 1305.35 KRW/USD")
	assert.Contains(t, page, `navigator.sendBeacon("/closed")`)
}

func TestBrowserPresenter_ReturnsOnCancel(t *testing.T) {
	p := NewBrowserPresenter("", false, nil)
	opened := false
	p.Open = func(string) error { opened = true; return nil }

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, p.Present(ctx, RateChart(sampleSeries(), 1305.35)))
	assert.False(t, opened, "browser is not opened when disabled")
}

func TestBrowserPresenter_RenderError(t *testing.T) {
	p := NewBrowserPresenter("", false, nil)
	assert.Error(t, p.Present(context.Background(), RateChart(nil, 0)))
}
