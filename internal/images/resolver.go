// Package images resolves an illustrative image for a token announcement.
//
// Resolution is an ordered fallback chain, short-circuiting on the first
// hit:
//  1. DexScreener trading pairs (chart/social preview over plain logo)
//  2. image already present on the stream payload
//  3. NadFun token metadata
//
// Every step swallows its own failures (timeouts, non-2xx, malformed
// bodies) and falls through; the chain as a whole never returns an error.
// Token announcements go out text-only when no source produces an image.
package images

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Config holds the image provider endpoints.
type Config struct {
	DexScreenerURL string        // e.g. https://api.dexscreener.com
	NadFunURL      string        // e.g. https://api.nadapp.net
	Chain          string        // DexScreener chain slug, e.g. "monad"
	Timeout        time.Duration // per-request timeout
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		DexScreenerURL: "https://api.dexscreener.com",
		NadFunURL:      "https://api.nadapp.net",
		Chain:          "monad",
		Timeout:        10 * time.Second,
	}
}

// Resolver queries the provider chain.
type Resolver struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

// NewResolver creates a Resolver.
func NewResolver(cfg Config, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// Resolve returns an image URL for the token at address, or "" if no source
// produced one. payloadImage is the image field from the triggering event,
// if any. A token without an address resolves to no image.
func (r *Resolver) Resolve(ctx context.Context, address, payloadImage string) string {
	if address == "" {
		return ""
	}

	if img := r.fromDexScreener(ctx, address); img != "" {
		r.logger.Debug("image from dexscreener", "address", address)
		return img
	}

	if payloadImage != "" {
		r.logger.Debug("image from stream payload", "address", address)
		return payloadImage
	}

	if img := r.fromNadFun(ctx, address); img != "" {
		r.logger.Debug("image from nadfun", "address", address)
		return img
	}

	return ""
}

// dexPair is the relevant slice of a DexScreener pair object.
type dexPair struct {
	Info struct {
		OpenGraph string `json:"openGraph"`
		ImageURL  string `json:"imageUrl"`
	} `json:"info"`
}

// fromDexScreener queries the token's trading pairs and takes the first
// pair's chart image, preferring the social preview over the plain logo.
func (r *Resolver) fromDexScreener(ctx context.Context, address string) string {
	url := fmt.Sprintf("%s/token-pairs/v1/%s/%s", r.cfg.DexScreenerURL, r.cfg.Chain, address)
	body, ok := r.get(ctx, url)
	if !ok {
		return ""
	}

	// The endpoint returns either a bare array of pairs or {"pairs": [...]}.
	var pairs []dexPair
	if err := json.Unmarshal(body, &pairs); err != nil {
		var wrapper struct {
			Pairs []dexPair `json:"pairs"`
		}
		if err := json.Unmarshal(body, &wrapper); err != nil {
			r.logger.Debug("dexscreener response malformed", "address", address, "error", err)
			return ""
		}
		pairs = wrapper.Pairs
	}

	if len(pairs) == 0 {
		return ""
	}
	if img := pairs[0].Info.OpenGraph; img != "" {
		return img
	}
	return pairs[0].Info.ImageURL
}

// nadToken is the relevant slice of a NadFun token response.
type nadToken struct {
	TokenInfo struct {
		ImageURI string `json:"image_uri"`
	} `json:"token_info"`
	Image string `json:"image"`
}

// fromNadFun queries the secondary metadata provider.
func (r *Resolver) fromNadFun(ctx context.Context, address string) string {
	url := fmt.Sprintf("%s/token/%s", r.cfg.NadFunURL, address)
	body, ok := r.get(ctx, url)
	if !ok {
		return ""
	}

	var tok nadToken
	if err := json.Unmarshal(body, &tok); err != nil {
		r.logger.Debug("nadfun response malformed", "address", address, "error", err)
		return ""
	}

	if tok.TokenInfo.ImageURI != "" {
		return tok.TokenInfo.ImageURI
	}
	return tok.Image
}

// get performs a GET and returns the body, or ok=false on any failure.
func (r *Resolver) get(ctx context.Context, url string) ([]byte, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.logger.Debug("image provider unreachable", "url", url, "error", err)
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.logger.Debug("image provider non-ok", "url", url, "status", resp.StatusCode)
		return nil, false
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false
	}
	return body, true
}
