package repository

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"traderflow/internal/dashboard/dto"
	"traderflow/internal/entity"
)

var errUnknownEnvelope = errors.New("unrecognized response envelope")

// decodePage accepts a bare JSON array, {"content": [...]} or a full page object.
func decodePage[T any](body []byte) (entity.Page[T], error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return entity.Page[T]{}, errors.New("empty response body")
	}

	if body[0] == '[' {
		var items []T
		if err := json.Unmarshal(body, &items); err != nil {
			return entity.Page[T]{}, fmt.Errorf("failed to decode list: %w", err)
		}
		return entity.PageOf(items), nil
	}

	var shape struct {
		Content    json.RawMessage `json:"content"`
		TotalPages *int            `json:"totalPages"`
	}
	if err := json.Unmarshal(body, &shape); err != nil {
		return entity.Page[T]{}, fmt.Errorf("failed to decode envelope: %w", err)
	}
	if shape.Content == nil {
		return entity.Page[T]{}, errUnknownEnvelope
	}

	if shape.TotalPages == nil {
		var items []T
		if err := json.Unmarshal(shape.Content, &items); err != nil {
			return entity.Page[T]{}, fmt.Errorf("failed to decode content: %w", err)
		}
		return entity.PageOf(items), nil
	}

	var page entity.Page[T]
	if err := json.Unmarshal(body, &page); err != nil {
		return entity.Page[T]{}, fmt.Errorf("failed to decode page: %w", err)
	}
	return page, nil
}

// decodePriceHistory normalizes every price-history shape the market API has
// served: {"stock_data": page}, a company record embedding a page,
// {"content": [...]}, or a bare array.
func decodePriceHistory(body []byte) (*dto.PriceHistory, error) {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '{' {
		var shape struct {
			StockData      json.RawMessage `json:"stock_data"`
			StockDataCamel json.RawMessage `json:"stockData"`
		}
		if err := json.Unmarshal(body, &shape); err != nil {
			return nil, fmt.Errorf("failed to decode envelope: %w", err)
		}
		if shape.StockData != nil || shape.StockDataCamel != nil {
			var company entity.Company
			if err := json.Unmarshal(body, &company); err != nil {
				return nil, fmt.Errorf("failed to decode price history: %w", err)
			}
			history := &dto.PriceHistory{}
			if company.StockData != nil {
				history.Page = *company.StockData
			}
			company.StockData = nil
			if company.ShortName != "" || company.Name != "" {
				history.Company = &company
			}
			return history, nil
		}
	}

	page, err := decodePage[entity.StockDataPoint](body)
	if err != nil {
		return nil, err
	}
	return &dto.PriceHistory{Page: page}, nil
}
