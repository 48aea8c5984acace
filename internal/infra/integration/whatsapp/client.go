package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-prospecting/internal/entity"
)

var ErrNotConfigured = errors.New("whatsapp não configurado")

// Client fala com a Evolution API de uma instância de WhatsApp do tenant.
type Client struct {
	HTTPClient *http.Client
	apiKey     string
	instance   string
	baseURL    string
	logger     *zap.Logger
}

func NewClient(baseURL, apiKey, instance string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		HTTPClient: &http.Client{Timeout: timeout},
		apiKey:     apiKey,
		instance:   instance,
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger.Named("whatsapp"),
	}
}

func (c *Client) configured() bool {
	return c.baseURL != "" && c.apiKey != "" && c.instance != ""
}

// IsConnected reports whether the instance session is open.
func (c *Client) IsConnected(ctx context.Context) (bool, error) {
	if !c.configured() {
		return false, ErrNotConfigured
	}

	var result connectionStateResponse
	if err := c.do(ctx, http.MethodGet, "/instance/connectionState/", nil, &result); err != nil {
		return false, err
	}
	return result.Instance.State == "open", nil
}

// CheckNumber confere se o telefone tem WhatsApp e devolve o JID.
func (c *Client) CheckNumber(ctx context.Context, phone string) (entity.ChannelCheck, error) {
	if !c.configured() {
		return entity.ChannelCheck{}, ErrNotConfigured
	}

	var result []NumberCheck
	if err := c.do(ctx, http.MethodPost, "/chat/whatsappNumbers/", checkNumbersInput{Numbers: []string{phone}}, &result); err != nil {
		return entity.ChannelCheck{}, err
	}

	for _, item := range result {
		if item.Exists && item.JID != "" {
			return entity.ChannelCheck{Reachable: true, ChannelAddress: item.JID}, nil
		}
	}
	return entity.ChannelCheck{Reachable: false}, nil
}

// SendText envia a mensagem e devolve o id da entrega.
func (c *Client) SendText(ctx context.Context, channelAddress, text string) (string, error) {
	if !c.configured() {
		return "", ErrNotConfigured
	}

	var result SendTextResponse
	if err := c.do(ctx, http.MethodPost, "/message/sendText/", sendTextInput{Number: channelAddress, Text: text}, &result); err != nil {
		return "", err
	}
	if result.Key.ID == "" {
		return "", fmt.Errorf("whatsapp: resposta de envio sem id")
	}

	c.logger.Info("✅ mensagem enviada", zap.String("to", channelAddress), zap.String("delivery_id", result.Key.ID))
	return result.Key.ID, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("whatsapp: erro ao serializar payload: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path+url.PathEscape(c.instance), body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp: erro na requisição: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("whatsapp: erro lendo resposta: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var apiErr ErrorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("whatsapp api error %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("whatsapp api error: %d", resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("whatsapp: erro ao parsear resposta: %w", err)
	}
	return nil
}
