package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultOpenFDABaseURL = "https://api.fda.gov"

// DrugLabel is the subset of an openFDA drug label worth showing a user.
type DrugLabel struct {
	BrandName   string   `json:"brand_name"`
	GenericName string   `json:"generic_name,omitempty"`
	Purpose     []string `json:"purpose,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
	Dosage      []string `json:"dosage,omitempty"`
}

// OpenFDAClient looks up drug labels from the public openFDA API. The API
// needs no authentication for low request volumes.
type OpenFDAClient struct {
	baseURL string
	httpc   *http.Client
}

// OpenFDAOption configures the client.
type OpenFDAOption func(*OpenFDAClient)

// WithBaseURL overrides the API endpoint, for tests.
func WithBaseURL(u string) OpenFDAOption {
	return func(c *OpenFDAClient) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpc *http.Client) OpenFDAOption {
	return func(c *OpenFDAClient) {
		if httpc != nil {
			c.httpc = httpc
		}
	}
}

func NewOpenFDAClient(opts ...OpenFDAOption) *OpenFDAClient {
	c := &OpenFDAClient{
		baseURL: defaultOpenFDABaseURL,
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type openFDAResponse struct {
	Results []struct {
		Purpose                 []string `json:"purpose"`
		Warnings                []string `json:"warnings"`
		DosageAndAdministration []string `json:"dosage_and_administration"`
		OpenFDA                 struct {
			BrandName   []string `json:"brand_name"`
			GenericName []string `json:"generic_name"`
		} `json:"openfda"`
	} `json:"results"`
}

// DrugLabel fetches the first label matching the brand name. Network and
// server failures come back as ErrDrugLookupUnavailable so callers can
// degrade uniformly.
func (c *OpenFDAClient) DrugLabel(ctx context.Context, brandName string) (*DrugLabel, error) {
	query := url.Values{
		"search": {fmt.Sprintf("openfda.brand_name:%q", brandName)},
		"limit":  {"1"},
	}
	endpoint := c.baseURL + "/drug/label.json?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDrugLookupUnavailable, err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDrugLookupUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		// openFDA answers 404 for zero matches.
		return nil, ErrDrugNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: unexpected status %d", ErrDrugLookupUnavailable, resp.StatusCode)
	}

	var parsed openFDAResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDrugLookupUnavailable, err)
	}
	if len(parsed.Results) == 0 {
		return nil, ErrDrugNotFound
	}

	result := parsed.Results[0]
	label := &DrugLabel{
		Purpose:  result.Purpose,
		Warnings: result.Warnings,
		Dosage:   result.DosageAndAdministration,
	}
	if len(result.OpenFDA.BrandName) > 0 {
		label.BrandName = result.OpenFDA.BrandName[0]
	}
	if len(result.OpenFDA.GenericName) > 0 {
		label.GenericName = result.OpenFDA.GenericName[0]
	}
	return label, nil
}
