// Package geo — источник геолокации для регистрации.
//
// Геолокация необязательна: отказ или недоступность не блокируют
// регистрацию, координаты просто не передаются.
package geo

import (
	"context"
	"errors"
	"fmt"
)

// Ошибки провайдера.
var (
	ErrPermissionDenied = errors.New("geolocation permission denied")
	ErrUnavailable      = errors.New("geolocation unavailable")
)

// Coordinates — широта и долгота в градусах.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid проверяет диапазоны.
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Latitude, c.Longitude)
}

// Provider возвращает текущую позицию.
type Provider interface {
	CurrentPosition(ctx context.Context) (Coordinates, error)
}

// Lookup — best-effort вызов: любая ошибка превращается в nil.
//
// Возвращает ошибку отдельно, чтобы вызывающий мог её залогировать.
func Lookup(ctx context.Context, p Provider) (*Coordinates, error) {
	if p == nil {
		return nil, ErrUnavailable
	}
	c, err := p.CurrentPosition(ctx)
	if err != nil {
		return nil, err
	}
	if !c.Valid() {
		return nil, fmt.Errorf("%w: coordinates out of range %s", ErrUnavailable, c)
	}
	return &c, nil
}

// Static всегда возвращает заданные координаты (из config.yaml).
type Static struct {
	Coordinates Coordinates
}

func (s Static) CurrentPosition(ctx context.Context) (Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return Coordinates{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return s.Coordinates, nil
}

// Denied моделирует отказ продавца делиться позицией.
type Denied struct{}

func (Denied) CurrentPosition(context.Context) (Coordinates, error) {
	return Coordinates{}, ErrPermissionDenied
}

// None — геолокация не настроена.
type None struct{}

func (None) CurrentPosition(context.Context) (Coordinates, error) {
	return Coordinates{}, ErrUnavailable
}
