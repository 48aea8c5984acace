package places

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-prospecting/internal/entity"
)

const (
	DefaultBaseURL = "https://places.googleapis.com/v1"
	fieldMask      = "places.id,places.displayName,places.formattedAddress,places.nationalPhoneNumber,places.internationalPhoneNumber,nextPageToken"
	pageSize       = 20
)

// Client consulta o Google Places (Text Search) como diretório de candidatos.
type Client struct {
	HTTPClient   *http.Client
	apiKey       string
	baseURL      string
	languageCode string
	regionCode   string
	logger       *zap.Logger
}

func NewClient(apiKey, baseURL, languageCode string, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if languageCode == "" {
		languageCode = "pt-BR"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		HTTPClient:   &http.Client{Timeout: timeout},
		apiKey:       apiKey,
		baseURL:      strings.TrimRight(baseURL, "/"),
		languageCode: languageCode,
		regionCode:   "BR",
		logger:       logger.Named("places"),
	}
}

func (c *Client) Search(ctx context.Context, query, pageToken string) (entity.SearchPage, error) {
	if c.apiKey == "" {
		return entity.SearchPage{}, fmt.Errorf("places: API key não configurada")
	}

	body, err := json.Marshal(searchTextRequest{
		TextQuery:    query,
		LanguageCode: c.languageCode,
		RegionCode:   c.regionCode,
		PageSize:     pageSize,
		PageToken:    pageToken,
	})
	if err != nil {
		return entity.SearchPage{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/places:searchText", bytes.NewReader(body))
	if err != nil {
		return entity.SearchPage{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", fieldMask)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return entity.SearchPage{}, fmt.Errorf("places: erro na requisição: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return entity.SearchPage{}, fmt.Errorf("places: erro lendo resposta: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr errorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != nil {
			return entity.SearchPage{}, fmt.Errorf("places api error %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		return entity.SearchPage{}, fmt.Errorf("places api error: %d", resp.StatusCode)
	}

	var result searchTextResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return entity.SearchPage{}, fmt.Errorf("places: resposta inválida: %w", err)
	}

	page := entity.SearchPage{
		Items:         make([]entity.Candidate, 0, len(result.Places)),
		NextPageToken: result.NextPageToken,
	}
	for _, p := range result.Places {
		if p.ID == "" {
			continue
		}
		phone := p.InternationalPhoneNumber
		if phone == "" {
			phone = p.NationalPhoneNumber
		}
		page.Items = append(page.Items, entity.Candidate{
			ExternalID: p.ID,
			Name:       p.DisplayName.Text,
			Address:    p.FormattedAddress,
			Phone:      phone,
		})
	}

	c.logger.Debug("search page fetched",
		zap.String("query", query),
		zap.Int("items", len(page.Items)),
		zap.Bool("has_next", page.NextPageToken != ""))
	return page, nil
}
