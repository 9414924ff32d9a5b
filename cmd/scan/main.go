// Command scan runs the payer-side scanning pipeline against still frames
// (e.g. photos of a displayed code) and talks to the PagCore API. It is the
// reference client for devices without a live camera feed: pass one or more
// image files, or a typed code via -code.
//
// Usage:
//
//	scan -image frame1.png -image frame2.png [-server http://localhost:8080]
//	scan -code pagcore:3f8a9c0d1e2b [-redeem -amount 30 -auth <jwt>]
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"pagcore/internal/scanner"
)

type imageList []string

func (l *imageList) String() string { return fmt.Sprint(*l) }

func (l *imageList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

func main() {
	var images imageList
	flag.Var(&images, "image", "image file containing a frame to scan (repeatable)")
	code := flag.String("code", "", "typed token code instead of scanning")
	server := flag.String("server", "http://localhost:8080", "API base URL")
	redeem := flag.Bool("redeem", false, "redeem the token after lookup")
	amount := flag.Float64("amount", 0, "amount for open tokens")
	authToken := flag.String("auth", os.Getenv("PAGCORE_TOKEN"), "bearer token for authenticated calls")
	flag.Parse()

	tokenID, err := resolveToken(images, *code)
	if err != nil {
		log.Fatalf("no token found: %v", err)
	}
	fmt.Printf("token: %s\n", tokenID)

	client := &apiClient{base: *server, auth: *authToken}

	details, err := client.tokenDetails(tokenID)
	if err != nil {
		log.Fatalf("lookup failed: %v", err)
	}
	fmt.Printf("details: %s\n", details)

	if *redeem {
		var amt *float64
		if *amount > 0 {
			amt = amount
		}
		result, err := client.redeem(tokenID, amt)
		if err != nil {
			log.Fatalf("redemption failed: %v", err)
		}
		fmt.Printf("redeemed: %s\n", result)
	}
}

// resolveToken runs the scan pipeline over the given frames, or falls back
// to the typed code. Both paths produce the same validated token id.
func resolveToken(paths []string, typed string) (string, error) {
	if typed != "" {
		return scanner.SubmitManualCode(typed)
	}
	if len(paths) == 0 {
		return "", fmt.Errorf("pass -image or -code")
	}

	frames := make([]image.Image, 0, len(paths))
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return "", err
		}
		img, _, err := image.Decode(f)
		f.Close()
		if err != nil {
			return "", fmt.Errorf("decode %s: %w", path, err)
		}
		frames = append(frames, img)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pipeline := scanner.NewPipeline(scanner.NewImageCamera(frames...), scanner.NewDecoder())
	return pipeline.Run(ctx)
}

type apiClient struct {
	base string
	auth string
}

func (c *apiClient) tokenDetails(code string) (string, error) {
	req, err := http.NewRequest(http.MethodGet, c.base+"/api/qr/"+code, nil)
	if err != nil {
		return "", err
	}
	return c.do(req)
}

func (c *apiClient) redeem(code string, amount *float64) (string, error) {
	body, err := json.Marshal(map[string]interface{}{
		"code":   code,
		"amount": amount,
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequest(http.MethodPost, c.base+"/api/qr/redeem", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *apiClient) do(req *http.Request) (string, error) {
	if c.auth != "" {
		req.Header.Set("Authorization", "Bearer "+c.auth)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("%s: %s", resp.Status, data)
	}
	return string(data), nil
}
