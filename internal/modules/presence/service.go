// README: Presence service — online/offline toggles and live position updates.
package presence

import (
	"context"
	"errors"

	"vdeliveries/internal/logging"
	"vdeliveries/internal/realtime"
	"vdeliveries/internal/types"
)

var ErrOffline = errors.New("driver is offline")

type Service struct {
	store Store
	feed  realtime.Feed
	log   *logging.Logger
}

func NewService(store Store, feed realtime.Feed, log *logging.Logger) *Service {
	if log == nil {
		log = logging.New("presence")
	}
	return &Service{store: store, feed: feed, log: log}
}

func (s *Service) GoOnline(ctx context.Context, driverID types.ID) error {
	if err := s.store.SetOnline(ctx, driverID, true); err != nil {
		return err
	}
	s.publish(ctx, driverID)
	s.log.Info("driver_online", "driver went online", map[string]any{"driver_id": driverID})
	return nil
}

// GoOffline flips the flag and removes the live position in the same call, so
// the availability index never advertises a driver who stopped tracking.
func (s *Service) GoOffline(ctx context.Context, driverID types.ID) error {
	if err := s.store.SetOnline(ctx, driverID, false); err != nil {
		return err
	}
	if err := s.store.ClearPosition(ctx, driverID); err != nil {
		return err
	}
	s.publish(ctx, driverID)
	s.log.Info("driver_offline", "driver went offline", map[string]any{"driver_id": driverID})
	return nil
}

// UpdatePosition records a position only while the driver is online.
func (s *Service) UpdatePosition(ctx context.Context, driverID types.ID, pos types.Point) error {
	p, err := s.store.Get(ctx, driverID)
	if err != nil {
		return err
	}
	if !p.Online {
		return ErrOffline
	}
	if err := s.store.SetPosition(ctx, driverID, pos); err != nil {
		return err
	}
	s.publish(ctx, driverID)
	return nil
}

func (s *Service) Get(ctx context.Context, driverID types.ID) (Presence, error) {
	return s.store.Get(ctx, driverID)
}

func (s *Service) ListOnline(ctx context.Context) ([]Presence, error) {
	return s.store.ListOnline(ctx)
}

// IsOnline satisfies the order service's roster check for claims.
func (s *Service) IsOnline(ctx context.Context, driverID types.ID) (bool, error) {
	p, err := s.store.Get(ctx, driverID)
	if err != nil {
		return false, err
	}
	return p.Online, nil
}

func (s *Service) publish(ctx context.Context, driverID types.ID) {
	if s.feed == nil {
		return
	}
	p, err := s.store.Get(ctx, driverID)
	if err != nil {
		return
	}
	err = s.feed.Publish(ctx, realtime.Event{
		Topic: realtime.TopicProfiles,
		Kind:  realtime.KindUpdate,
		Row:   realtime.MarshalRow(p),
	})
	if err != nil {
		s.log.Error("presence_publish", "failed to publish presence event", err, map[string]any{"driver_id": driverID})
	}
}
