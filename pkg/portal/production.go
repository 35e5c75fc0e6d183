package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ilkoid/produtor-chat/pkg/flow"
)

// productionItem — элемент ответа GET /produtores/producao/{id}.
type productionItem struct {
	ID        int      `json:"id"`
	Product   *string  `json:"produto_nome"`
	Unit      *string  `json:"unidade_nome"`
	Quantity  *float64 `json:"quantidade"`
	Harvest   *string  `json:"safra"`
	BasePrice *float64 `json:"preco_base"`
	Active    bool     `json:"ativo"`
}

func (p productionItem) lot() flow.ProductionLot {
	lot := flow.ProductionLot{ID: p.ID, BasePrice: p.BasePrice, Active: p.Active}
	if p.Product != nil {
		lot.Product = *p.Product
	}
	if p.Unit != nil {
		lot.Unit = *p.Unit
	}
	if p.Quantity != nil {
		lot.Quantity = *p.Quantity
	}
	if p.Harvest != nil {
		lot.Harvest = *p.Harvest
	}
	return lot
}

// ListProduction возвращает safras продавца.
func (c *Client) ListProduction(ctx context.Context, accessToken, producerID string) ([]flow.ProductionLot, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("%w: list production: no access token", ErrInvalidCredentials)
	}
	resp, err := c.do(ctx, request{
		method:     http.MethodGet,
		path:       "/produtores/producao/" + url.PathEscape(producerID),
		bearer:     accessToken,
		idempotent: true,
	})
	if err != nil {
		return nil, err
	}
	if resp.status == http.StatusUnauthorized {
		return nil, ErrInvalidCredentials
	}

	var items []productionItem
	if err := decode(resp, &items); err != nil {
		return nil, fmt.Errorf("list production: %w", err)
	}
	lots := make([]flow.ProductionLot, 0, len(items))
	for _, it := range items {
		lots = append(lots, it.lot())
	}
	return lots, nil
}

// manualProductionRequest — тело POST /produtores/producao/manual.
type manualProductionRequest struct {
	ProducerID int      `json:"produtor_id"`
	Product    string   `json:"produto_nome"`
	Unit       string   `json:"unidade_nome"`
	BasePrice  *float64 `json:"preco_base"`
	Active     bool     `json:"ativo"`
	Quantity   float64  `json:"quantidade"`
	Harvest    string   `json:"safra"`
	Notes      *string  `json:"observacoes"`
}

// AddProduction добавляет safra. Продукт и единица создаются бэкендом, если их нет.
//
// Отказ с полем detail возвращается как *ValidationError.
func (c *Client) AddProduction(ctx context.Context, entry flow.ProductionEntry) (flow.ProductionLot, error) {
	if entry.AccessToken == "" {
		return flow.ProductionLot{}, fmt.Errorf("%w: add production: no access token", ErrInvalidCredentials)
	}
	producerID, err := strconv.Atoi(entry.ProducerID)
	if err != nil {
		return flow.ProductionLot{}, fmt.Errorf("add production: producer id %q: %w", entry.ProducerID, err)
	}

	raw, err := json.Marshal(manualProductionRequest{
		ProducerID: producerID,
		Product:    entry.Product,
		Unit:       entry.Unit,
		Active:     true,
		Quantity:   entry.Quantity,
		Harvest:    entry.Harvest,
	})
	if err != nil {
		return flow.ProductionLot{}, fmt.Errorf("marshal production request: %w", err)
	}

	resp, err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/produtores/producao/manual",
		contentType: "application/json",
		bearer:      entry.AccessToken,
		body: func() (io.Reader, error) {
			return bytes.NewReader(raw), nil
		},
	})
	if err != nil {
		return flow.ProductionLot{}, err
	}
	if resp.status >= 400 && resp.status < 500 && resp.status != http.StatusUnauthorized {
		if msgs := parseDetail(resp.body); len(msgs) > 0 {
			return flow.ProductionLot{}, &ValidationError{StatusCode: resp.status, Messages: msgs}
		}
	}

	var out productionItem
	if err := decode(resp, &out); err != nil {
		return flow.ProductionLot{}, fmt.Errorf("add production: %w", err)
	}
	return out.lot(), nil
}
