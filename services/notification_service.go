package services

import (
	"partyhub.app/configs/configslog"
	"partyhub.app/models"

	"go.uber.org/zap"
)

// INotificationService is the boundary to the external push collaborator.
// Deliveries are fire-and-forget: they run off the request goroutine, their
// failure never rolls back the transaction that triggered them, and callers
// do not wait on completion.
type INotificationService interface {
	PartyCreated(party *models.Party)
	PartyStatusChanged(party *models.Party, previous models.PartyStatus)
	GuestJoined(party *models.Party, userID uint)
}

// PushNotificationService hands events to the push collaborator. The
// transport lives outside this service; here the event is shaped and
// dispatched asynchronously.
type PushNotificationService struct{}

func NewNotificationService() INotificationService {
	return &PushNotificationService{}
}

func (s *PushNotificationService) PartyCreated(party *models.Party) {
	go s.deliver("party.created", party.ID, zap.Uint("hostID", party.HostID))
}

func (s *PushNotificationService) PartyStatusChanged(party *models.Party, previous models.PartyStatus) {
	go s.deliver("party.status_changed", party.ID,
		zap.String("from", string(previous)), zap.String("to", string(party.Status)))
}

func (s *PushNotificationService) GuestJoined(party *models.Party, userID uint) {
	go s.deliver("party.guest_joined", party.ID, zap.Uint("userID", userID))
}

func (s *PushNotificationService) deliver(event string, partyID uint, fields ...zap.Field) {
	defer func() {
		if r := recover(); r != nil {
			configslog.Log.Error("notification delivery panicked",
				zap.String("event", event), zap.Any("panic_info", r))
		}
	}()
	fields = append([]zap.Field{zap.String("event", event), zap.Uint("partyID", partyID)}, fields...)
	configslog.Log.Info("notification dispatched", fields...)
}

var _ INotificationService = (*PushNotificationService)(nil)
