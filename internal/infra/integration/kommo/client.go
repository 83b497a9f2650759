package kommo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/resilience"
)

type Config struct {
	Token    string
	BaseURL  string // ex: https://<conta>.kommo.com/api/v4
	StatusID int    // etapa do funil onde o lead entra; 0 usa a padrão
}

// Client espelha leads qualificados no CRM Kommo.
type Client struct {
	token    string
	baseURL  string
	statusID int
	http     *http.Client
}

func NewClient(cfg Config) *Client {
	return &Client{
		token:    cfg.Token,
		baseURL:  cfg.BaseURL,
		statusID: cfg.StatusID,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

// SyncLead acha ou cria o contato pelo email e abre um lead com a
// qualificação como tag.
func (c *Client) SyncLead(ctx context.Context, lead *entity.Lead) error {
	contactID, err := c.findOrCreateContact(ctx, lead)
	if err != nil {
		return err
	}

	payload := []leadRequest{{
		Name:     lead.Name,
		StatusID: c.statusID,
		Embedded: leadEmbedded{
			Tags:     []tag{{Name: string(lead.Qualification)}, {Name: "site"}},
			Contacts: []contactRef{{ID: contactID}},
		},
	}}

	var result idList
	if err := c.do(ctx, http.MethodPost, "/leads", payload, &result); err != nil {
		return fmt.Errorf("kommo: create lead: %w", err)
	}
	if len(result.Embedded.Leads) == 0 {
		return errors.New("kommo: lead not created")
	}

	zap.L().Info("lead enviado ao kommo",
		zap.String("lead_id", lead.ID),
		zap.Int("kommo_lead_id", result.Embedded.Leads[0].ID),
	)
	return nil
}

func (c *Client) findOrCreateContact(ctx context.Context, lead *entity.Lead) (int, error) {
	var found idList
	err := c.do(ctx, http.MethodGet, "/contacts?query="+url.QueryEscape(lead.Email), nil, &found)
	if err != nil {
		return 0, fmt.Errorf("kommo: find contact: %w", err)
	}
	if len(found.Embedded.Contacts) > 0 {
		return found.Embedded.Contacts[0].ID, nil
	}

	payload := []contactRequest{{
		Name: lead.Name,
		CustomFieldsValues: []customField{{
			FieldCode: "EMAIL",
			Values:    []customFieldValue{{Value: lead.Email, EnumCode: "WORK"}},
		}},
	}}

	var created idList
	if err := c.do(ctx, http.MethodPost, "/contacts", payload, &created); err != nil {
		return 0, fmt.Errorf("kommo: create contact: %w", err)
	}
	if len(created.Embedded.Contacts) == 0 {
		return 0, errors.New("kommo: contact not created")
	}
	return created.Embedded.Contacts[0].ID, nil
}

// do envia a requisição e decodifica a resposta em out. 204 (busca sem
// resultado) deixa out vazio.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		err := fmt.Errorf("status %d: %s", resp.StatusCode, string(respBody))
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return resilience.NewTransientError(err, resp.StatusCode)
		}
		return err
	}

	return json.Unmarshal(respBody, out)
}
