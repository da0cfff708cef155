package sqlengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/AntonStoeckl/sqldialect-go/dialect"
)

// Detector determines the product and version behind a session.
type Detector interface {
	Detect(ctx context.Context, session dialect.Session) (dialect.ProductInfo, error)
}

// ProbeDetector runs the registered products' detection queries in registration order
// and picks the first product whose pattern matches the returned banner.
// Products sharing a query (PostgreSQL and its derivatives, MySQL and MariaDB) run it once.
type ProbeDetector struct {
	registry *Registry
}

// NewProbeDetector creates a detector over the registrations of registry.
func NewProbeDetector(registry *Registry) *ProbeDetector {
	return &ProbeDetector{registry: registry}
}

type probeAnswer struct {
	banner string
	err    error
}

// Detect implements Detector.
func (d *ProbeDetector) Detect(ctx context.Context, session dialect.Session) (dialect.ProductInfo, error) {
	if session == nil {
		return dialect.ProductInfo{}, dialect.ErrNilSession
	}

	answers := make(map[string]probeAnswer)
	var banners []string
	var failures []error

	for _, entry := range d.registry.detections() {
		query := entry.detection.Query
		if query == "" {
			continue
		}

		answer, asked := answers[query]
		if !asked {
			banner, err := queryBanner(ctx, session, query)
			answer = probeAnswer{banner: banner, err: err}
			answers[query] = answer

			if err != nil {
				failures = append(failures, err)
			} else {
				banners = append(banners, banner)
			}
		}

		if answer.err != nil || !entry.detection.Matches(answer.banner) {
			continue
		}

		version, err := dialect.ParseVersionWith(entry.detection.VersionPattern, answer.banner)
		if err != nil {
			return dialect.ProductInfo{}, errors.Join(
				fmt.Errorf("%s banner %q", entry.registration.Name, answer.banner), err,
			)
		}

		return dialect.ProductInfo{
			ID:      entry.registration.ID,
			Name:    entry.registration.Name,
			Version: version,
			Banner:  answer.banner,
		}, nil
	}

	if len(banners) > 0 {
		return dialect.ProductInfo{}, &dialect.NoMatchingAdapterError{Product: strings.Join(banners, "; ")}
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return dialect.ProductInfo{}, errors.Join(dialect.ErrDetectionFailed, ctxErr)
	}

	return dialect.ProductInfo{}, errors.Join(append([]error{dialect.ErrDetectionFailed}, failures...)...)
}

// DetectProduct reads the version of a product the caller already knows, using only
// that product's detection query.
func (d *ProbeDetector) DetectProduct(ctx context.Context, session dialect.Session, product string) (dialect.ProductInfo, error) {
	if session == nil {
		return dialect.ProductInfo{}, dialect.ErrNilSession
	}

	reg, ok := d.registry.Lookup(product)
	if !ok {
		return dialect.ProductInfo{}, &dialect.NoMatchingAdapterError{Product: product}
	}
	if reg.Detection.Query == "" {
		return dialect.ProductInfo{}, errors.Join(
			dialect.ErrDetectionFailed, fmt.Errorf("%s has no version query", reg.Name),
		)
	}

	detection, err := reg.Detection.Compile()
	if err != nil {
		return dialect.ProductInfo{}, errors.Join(dialect.ErrDetectionFailed, err)
	}

	banner, err := queryBanner(ctx, session, detection.Query)
	if err != nil {
		return dialect.ProductInfo{}, errors.Join(dialect.ErrDetectionFailed, err)
	}

	version, err := dialect.ParseVersionWith(detection.VersionPattern, banner)
	if err != nil {
		return dialect.ProductInfo{}, errors.Join(fmt.Errorf("%s banner %q", reg.Name, banner), err)
	}

	return dialect.ProductInfo{ID: reg.ID, Name: reg.Name, Version: version, Banner: banner}, nil
}

func queryBanner(ctx context.Context, session dialect.Session, query string) (string, error) {
	rows, err := session.Query(ctx, query)
	if err != nil {
		return "", fmt.Errorf("%q: %w", query, err)
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return "", fmt.Errorf("%q: %w", query, err)
		}

		return "", fmt.Errorf("%q: %w", query, dialect.ErrProbeReturnedNoRows)
	}

	var banner sql.NullString
	if err := rows.Scan(&banner); err != nil {
		return "", fmt.Errorf("%q: %w", query, err)
	}

	return strings.TrimSpace(banner.String), nil
}
