// Package store provides the curve storage interface and SQLite implementation.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/rcliao/keyreducer/internal/anim"
	"github.com/rcliao/keyreducer/internal/model"
)

// ErrNotFound is returned when a curve does not exist.
var ErrNotFound = errors.New("curve not found")

// CurveInfo summarises a stored curve.
type CurveInfo struct {
	ID        string    `json:"id"`
	Object    string    `json:"object"`
	Attr      string    `json:"attr"`
	Weighted  bool      `json:"weighted"`
	Keys      int       `json:"keys"`
	Start     *float64  `json:"start,omitempty"`
	End       *float64  `json:"end,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListParams holds parameters for listing curves.
type ListParams struct {
	Object string
	Limit  int
}

// Store defines the curve storage interface.
type Store interface {
	// PutCurve creates or replaces a curve. Unset tangent types default to
	// clamped and unset handles are computed.
	PutCurve(ctx context.Context, d model.CurveData) (*CurveInfo, error)

	// GetCurve retrieves a curve by identity.
	GetCurve(ctx context.Context, id model.CurveID) (*model.CurveData, error)

	// ListCurves lists curves matching the given filters.
	ListCurves(ctx context.Context, p ListParams) ([]CurveInfo, error)

	// RmCurve deletes a curve and its keys.
	RmCurve(ctx context.Context, id model.CurveID) error

	// LoadScene reads every curve into an in-memory scene.
	LoadScene(ctx context.Context) (*anim.Scene, error)

	// SaveScene writes back the curves that changed since the scene was loaded.
	SaveScene(ctx context.Context, sc *anim.Scene) error

	// Close closes the store.
	Close() error
}
