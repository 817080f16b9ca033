// Package fetch 從遠端網址取得食譜文件
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"recipe-book/internal/infrastructure/config"
	"recipe-book/internal/pkg/common"
)

var errBlockedHost = errors.New("host is a loopback, private or link-local address")

// Client 純文字文件下載
type Client struct {
	client       *resty.Client
	maxBytes     int64
	allowPrivate bool
}

// NewClient 創建下載客戶端；未允許內部位址時，連線前會檢查解析後的 IP
func NewClient(cfg config.FetchConfig) *Client {
	c := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.Retries).
		SetRetryWaitTime(200*time.Millisecond).
		SetHeader("Accept", "text/plain").
		SetHeader("User-Agent", "recipe-book")
	c.AddRetryCondition(func(r *resty.Response, err error) bool {
		if err != nil {
			return !errors.Is(err, errBlockedHost)
		}
		return r.StatusCode() >= 500
	})

	if !cfg.AllowPrivateHosts {
		dialer := &net.Dialer{Timeout: cfg.Timeout, Control: guardDial}
		c.SetTransport(&http.Transport{
			DialContext:         dialer.DialContext,
			TLSHandshakeTimeout: 10 * time.Second,
			MaxIdleConns:        10,
			IdleConnTimeout:     90 * time.Second,
		})
	}
	return &Client{client: c, maxBytes: cfg.MaxBytes, allowPrivate: cfg.AllowPrivateHosts}
}

func blockedIP(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast()
}

// guardDial 在連線前拒絕內部位址；重新導向與 DNS 解析後的位址同樣會經過這裡
func guardDial(network, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	if ip := net.ParseIP(host); ip == nil || blockedIP(ip) {
		return fmt.Errorf("%w: %s", errBlockedHost, host)
	}
	return nil
}

func (c *Client) hostAllowed(host string) bool {
	if c.allowPrivate {
		return true
	}
	if strings.EqualFold(host, "localhost") || strings.HasSuffix(strings.ToLower(host), ".localhost") {
		return false
	}
	if ip := net.ParseIP(host); ip != nil && blockedIP(ip) {
		return false
	}
	return true
}

// Fetch 下載文件內容；非 2xx、過大或網址無效時回傳 common.ErrFetchFailed 包裝的錯誤
func (c *Client) Fetch(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", common.ErrInvalidRequest.Wrap(fmt.Errorf("invalid url %q", rawURL))
	}
	if !c.hostAllowed(u.Hostname()) {
		return "", common.ErrInvalidRequest.Wrap(fmt.Errorf("%w: %s", errBlockedHost, u.Hostname()))
	}

	start := time.Now()
	resp, err := c.client.R().SetContext(ctx).Get(u.String())
	if errors.Is(err, errBlockedHost) {
		return "", common.ErrInvalidRequest.Wrap(err)
	}
	if err != nil {
		return "", common.ErrFetchFailed.Wrap(err)
	}
	common.LogDebug("Fetched recipe document",
		zap.String("url", u.Redacted()),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.IsError() || resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return "", common.ErrFetchFailed.Wrap(fmt.Errorf("unexpected status %d", resp.StatusCode()))
	}
	body := resp.Body()
	if c.maxBytes > 0 && int64(len(body)) > c.maxBytes {
		return "", common.ErrFetchFailed.Wrap(fmt.Errorf("document larger than %d bytes", c.maxBytes))
	}
	return string(body), nil
}
