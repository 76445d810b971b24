package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/guardian-io/guardian/internal/hub/core/model"
)

// IngestServiceReport stores an uploaded post-service report in object
// storage and records a default positive feedback entry referencing it.
// Returns the stored feedback and the object key.
func (s *Service) IngestServiceReport(ctx context.Context, vehicleID, filename, contentType string, data []byte) (*model.Feedback, string, error) {
	if s.reports == nil {
		return nil, "", errors.New("report storage not configured")
	}
	if len(data) == 0 {
		return nil, "", errors.New("empty report")
	}

	now := s.now()
	key := fmt.Sprintf("service_reports/%04d/%02d/%s", now.Year(), int(now.Month()), filename)

	stored, err := s.reports.Put(ctx, key, data, contentType)
	if err != nil {
		return nil, "", fmt.Errorf("store report %s: %w", filename, err)
	}

	vehicle, err := s.vehicles.Get(ctx, vehicleID)
	if err != nil {
		return nil, stored, fmt.Errorf("report feedback for %s: %w", vehicleID, err)
	}

	fb, err := s.RecordFeedback(ctx, vehicleID, vehicle.CustomerName, 4.0, true,
		"Service report uploaded: "+stored)
	if err != nil {
		return nil, stored, err
	}
	return fb, stored, nil
}
