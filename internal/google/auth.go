package google

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"runtime"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

type Auth struct {
	config    *oauth2.Config
	client    *http.Client
	tokenPath string
}

func NewAuth(credentialsPath, tokenPath, redirectURL string) (*Auth, error) {
	b, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read client secret file: %w", err)
	}

	config, err := google.ConfigFromJSON(b, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}

	config.RedirectURL = redirectURL

	return &Auth{
		config:    config,
		tokenPath: tokenPath,
	}, nil
}

func (a *Auth) GetClient(ctx context.Context) (*http.Client, error) {
	if a.client != nil {
		return a.client, nil
	}

	tok, err := a.tokenFromFile()
	if err != nil {
		tok, err = a.getTokenFromWeb(ctx)
		if err != nil {
			return nil, err
		}
		if err := a.saveToken(tok); err != nil {
			log.Printf("Warning: unable to cache oauth token: %v", err)
		}
	}

	a.client = a.config.Client(ctx, tok)
	return a.client, nil
}

func (a *Auth) GetSheetsService(ctx context.Context) (*sheets.Service, error) {
	client, err := a.GetClient(ctx)
	if err != nil {
		return nil, err
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets client: %w", err)
	}

	return srv, nil
}

func (a *Auth) getTokenFromWeb(ctx context.Context) (*oauth2.Token, error) {
	redirect, err := url.Parse(a.config.RedirectURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect URL %q: %w", a.config.RedirectURL, err)
	}

	codeChan := make(chan string)

	mux := http.NewServeMux()
	mux.HandleFunc(redirect.Path, func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			fmt.Fprintf(w, "Error: No authorization code received")
			return
		}

		fmt.Fprintf(w, `
			<html>
				<head><title>Authentication Successful</title></head>
				<body>
					<h1>Authentication Successful!</h1>
					<p>You can close this window and return to the terminal.</p>
					<script>window.setTimeout(function(){window.close();}, 2000);</script>
				</body>
			</html>
		`)

		codeChan <- code
	})

	server := &http.Server{Addr: ":" + redirect.Port(), Handler: mux}

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
		}
	}()

	authURL := a.config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Opening browser for authentication...\n")
	fmt.Printf("If browser doesn't open automatically, visit:\n%v\n", authURL)

	openBrowser(authURL)

	fmt.Println("Waiting for authentication...")
	var authCode string
	select {
	case authCode = <-codeChan:
	case <-ctx.Done():
		server.Close()
		return nil, ctx.Err()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	server.Shutdown(shutdownCtx)

	tok, err := a.config.Exchange(ctx, authCode)
	if err != nil {
		return nil, fmt.Errorf("unable to exchange authorization code: %w", err)
	}

	return tok, nil
}

func (a *Auth) tokenFromFile() (*oauth2.Token, error) {
	f, err := os.Open(a.tokenPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

func (a *Auth) saveToken(token *oauth2.Token) error {
	fmt.Printf("Saving credential file to: %s\n", a.tokenPath)
	f, err := os.OpenFile(a.tokenPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}

// openBrowser tries to open the URL in a browser
func openBrowser(url string) {
	var err error

	switch runtime.GOOS {
	case "linux":
		err = exec.Command("xdg-open", url).Start()
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "darwin":
		err = exec.Command("open", url).Start()
	default:
		err = fmt.Errorf("unsupported platform")
	}

	if err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}
