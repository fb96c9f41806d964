package provisioner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"syafa-store/internal/pkg/config"
)

// ErrProvisioning covers panel API failures. The message carries the
// first error detail from the panel so it can be stored on the order.
var ErrProvisioning = errors.New("provisioning error")

const (
	dockerImage = "ghcr.io/pterodactyl/yolks:nodejs_18"
	startupCmd  = `if [[ -d .git ]] && [[ {{AUTO_UPDATE}} != "0" ]]; then git pull; fi; if [[ ! -z {{NODE_PACKAGES}} ]]; then /usr/local/bin/npm install {{NODE_PACKAGES}}; fi; if [[ ! -z {{NODE_PACKAGES}} ]]; then /usr/local/bin/npm install {{NODE_PACKAGES}}; fi; /usr/local/bin/node {{NODE_JS_FILE}}`
)

// PterodactylClient drives the panel application API.
type PterodactylClient struct {
	panelURL   string
	apiKey     string
	locationID int
	eggID      int
	client     *http.Client
}

func NewPterodactylClient(cfg config.PterodactylConfig) *PterodactylClient {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &PterodactylClient{
		panelURL:   strings.TrimRight(cfg.PanelURL, "/"),
		apiKey:     cfg.APIKey,
		locationID: cfg.LocationID,
		eggID:      cfg.EggID,
		client:     &http.Client{Timeout: timeout},
	}
}

type attributesResponse struct {
	Attributes struct {
		ID int `json:"id"`
	} `json:"attributes"`
}

type panelErrorBody struct {
	Errors []struct {
		Detail string `json:"detail"`
	} `json:"errors"`
}

// CreateUser registers a panel account for the buyer.
func (p *PterodactylClient) CreateUser(ctx context.Context, username, email, password string) (int, error) {
	payload := map[string]interface{}{
		"username":   username,
		"email":      email,
		"first_name": username,
		"last_name":  "Customer",
		"password":   password,
	}

	var out attributesResponse
	if err := p.post(ctx, "/api/application/users", payload, &out); err != nil {
		return 0, err
	}
	return out.Attributes.ID, nil
}

// CreateServer deploys a server for the account with the package limits.
func (p *PterodactylClient) CreateServer(ctx context.Context, req ServerRequest) (int, error) {
	payload := map[string]interface{}{
		"name":         req.Name,
		"user":         req.UserID,
		"egg":          p.eggID,
		"docker_image": dockerImage,
		"startup":      startupCmd,
		"environment": map[string]string{
			"AUTO_UPDATE":   "0",
			"NODE_PACKAGES": "",
			"NODE_JS_FILE":  "index.js",
		},
		"limits": map[string]int{
			"memory": req.MemoryMB,
			"swap":   0,
			"disk":   req.DiskMB,
			"io":     500,
			"cpu":    req.CPUCores * 100,
		},
		"feature_limits": map[string]int{
			"databases":   5,
			"backups":     2,
			"allocations": 1,
		},
		"allocation": map[string]interface{}{
			"default": p.locationID,
		},
		"deploy": map[string]interface{}{
			"locations":    []int{p.locationID},
			"dedicated_ip": false,
			"port_range":   []string{},
		},
	}

	var out attributesResponse
	if err := p.post(ctx, "/api/application/servers", payload, &out); err != nil {
		return 0, err
	}
	return out.Attributes.ID, nil
}

func (p *PterodactylClient) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProvisioning, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.panelURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProvisioning, err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProvisioning, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s", ErrProvisioning, extractDetail(resp))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrProvisioning, err)
	}
	return nil
}

// extractDetail pulls the first errors[].detail out of a panel error
// body, falling back to a generic message.
func extractDetail(resp *http.Response) string {
	var body panelErrorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil &&
		len(body.Errors) > 0 && body.Errors[0].Detail != "" {
		return body.Errors[0].Detail
	}
	return fmt.Sprintf("failed to create server (status %d)", resp.StatusCode)
}

var _ Provisioner = (*PterodactylClient)(nil)
