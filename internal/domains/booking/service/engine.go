package service

import (
	"context"
	"fmt"
	"time"

	"github.com/JustAdi10/Booking/infras/postgres"
	"github.com/JustAdi10/Booking/internal/domains/booking/model"
	"github.com/JustAdi10/Booking/internal/domains/booking/model/dto"
	facilityModel "github.com/JustAdi10/Booking/internal/domains/facility/model"
	facilityDto "github.com/JustAdi10/Booking/internal/domains/facility/model/dto"
	taskModel "github.com/JustAdi10/Booking/internal/domains/housekeeping/model"
	roomModel "github.com/JustAdi10/Booking/internal/domains/room/model"
	roomDto "github.com/JustAdi10/Booking/internal/domains/room/model/dto"
	"github.com/JustAdi10/Booking/shared"
	"github.com/JustAdi10/Booking/shared/constant"
	gDto "github.com/JustAdi10/Booking/shared/dto"
	"github.com/JustAdi10/Booking/shared/failure"
	gModel "github.com/JustAdi10/Booking/shared/model"
	"github.com/JustAdi10/Booking/shared/transaction"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

func (s *serviceImpl) CheckFacilityAvailability(ctx context.Context, facilityID string, req dto.AvailabilityRequest) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckFacilityAvailability")
	defer scope.End()
	defer scope.TraceIfError(&err)

	start, end, err := req.Window()
	if err != nil {
		return res, err
	}

	facility, err := s.facility(ctx, facilityID)
	if err != nil {
		return res, err
	}

	bookings, err := s.overlapping(ctx, model.OverlapQuery{FacilityID: facility.ID, Start: start, End: end})
	if err != nil {
		return res, err
	}

	var detail facilityDto.FacilityResponse

	detail.FromModel(facility)

	return dto.FacilityAvailability(detail, bookings), nil
}

func (s *serviceImpl) CheckRoomAvailability(ctx context.Context, roomID string, req dto.AvailabilityRequest) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckRoomAvailability")
	defer scope.End()
	defer scope.TraceIfError(&err)

	start, end, err := req.Window()
	if err != nil {
		return res, err
	}

	room, err := s.room(ctx, roomID)
	if err != nil {
		return res, err
	}

	bookings, err := s.overlapping(ctx, model.OverlapQuery{RoomID: room.ID, Start: start, End: end})
	if err != nil {
		return res, err
	}

	params := gDto.QueryParams{SortBy: taskModel.TableName + "." + taskModel.FieldDeadline, SortDir: gDto.SortDirAsc}

	tasks, err := s.tasks.GetAll(ctx, params, taskModel.DueWithin{RoomID: room.ID, Start: start, End: end}.FilterGroup())
	if err != nil {
		log.Error().Err(err).Msg("failed to get housekeeping tasks")

		return res, fmt.Errorf("failed to get housekeeping tasks: %w", err)
	}

	var detail roomDto.RoomResponse

	detail.FromModel(room)

	return dto.RoomAvailability(detail, bookings, tasks), nil
}

// Create validates the request in order, then checks for conflicts and inserts under the resource lock.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(&err)

	actor := gModel.ActorFromContext(ctx)
	if actor.ID == constant.Empty {
		return res, failure.Unauthorized(MessageNotAuthenticated) // nolint:wrapcheck
	}

	now := s.now()

	start, end, err := req.Window(now)
	if err != nil {
		return res, err
	}

	pricePerNight, err := s.bookable(ctx, req.BookingType, req.ResourceID())
	if err != nil {
		return res, err
	}

	booking := req.ToModel(actor.ID, start, end, model.TotalAmount(req.BookingType, pricePerNight, start, end), now)
	key := transaction.LockKey(booking.BookingType, booking.ResourceID())

	var created model.Booking

	err = s.transactor.WithLock(ctx, key, func(ctx context.Context, tx *sqlx.Tx) error {
		if err := s.ensureFree(ctx, tx, booking, start, end, constant.Empty); err != nil {
			return err
		}

		if err := s.repo.InsertTx(ctx, tx, booking); err != nil {
			return conflictOr(err, "failed to create booking")
		}

		// read back on the write transaction for the joined names; a replica may not have the row yet
		stored, err := s.lockedBooking(ctx, tx, booking.ID)
		created = stored

		return err
	})
	if err != nil {
		return res, err
	}

	s.invalidate(ctx)
	s.publish(ctx, dto.EventCreated, booking)

	res.FromModel(created)

	return res, nil
}

// Update applies a partial patch. Date changes are re-validated and re-checked for conflicts, excluding the booking itself.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if req.IsEmpty() {
		return res, failure.BadRequestFromString(MessageNoFieldsToUpdate) // nolint:wrapcheck
	}

	actor := gModel.ActorFromContext(ctx)

	current, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	if !actor.CanActOn(current.UserID) {
		return res, failure.ResourceRestrictedError
	}

	var updated model.Booking

	key := transaction.LockKey(current.BookingType, current.ResourceID())

	err = s.transactor.WithLock(ctx, key, func(ctx context.Context, tx *sqlx.Tx) error {
		booking, err := s.lockedBooking(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := checkUpdatable(actor, booking, req); err != nil {
			return err
		}

		now := s.now()
		start, end := booking.StartDate, booking.EndDate

		var totalAmount *float64

		if req.ChangesDates() {
			if start, end, err = req.MergedWindow(booking, now); err != nil {
				return err
			}

			if err := s.ensureFree(ctx, tx, booking, start, end, booking.ID); err != nil {
				return err
			}

			if booking.BookingType == model.TypeRoom {
				amount, err := s.reprice(ctx, booking, start, end)
				if err != nil {
					return err
				}

				totalAmount = &amount
			}
		}

		fields := req.Fields(start, end, totalAmount, actor.ID, now)

		if err := s.repo.UpdateTx(ctx, tx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			return conflictOr(err, "failed to update booking")
		}

		req.Apply(&booking, fields)
		updated = booking

		return nil
	})
	if err != nil {
		return res, err
	}

	event := dto.EventUpdated
	if updated.Status == model.StatusCancelled {
		event = dto.EventCancelled
	}

	s.invalidate(ctx)
	s.publish(ctx, event, updated)

	res.FromModel(updated)

	return res, nil
}

// Cancel moves a pending or confirmed booking to CANCELLED. Nothing else changes and it cannot be undone.
func (s *serviceImpl) Cancel(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(&err)

	actor := gModel.ActorFromContext(ctx)

	current, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	if !actor.CanActOn(current.UserID) {
		return res, failure.ResourceRestrictedError
	}

	var cancelled model.Booking

	key := transaction.LockKey(current.BookingType, current.ResourceID())

	err = s.transactor.WithLock(ctx, key, func(ctx context.Context, tx *sqlx.Tx) error {
		booking, err := s.lockedBooking(ctx, tx, id)
		if err != nil {
			return err
		}

		if !booking.IsActive() {
			return failure.InvalidState(MessageCannotCancel) // nolint:wrapcheck
		}

		status := model.StatusCancelled
		patch := dto.UpdateBookingRequest{Status: &status}
		fields := patch.Fields(booking.StartDate, booking.EndDate, nil, actor.ID, s.now())

		if err := s.repo.UpdateTx(ctx, tx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			log.Error().Err(err).Msg("failed to cancel booking")

			return fmt.Errorf("failed to cancel booking: %w", err)
		}

		patch.Apply(&booking, fields)
		cancelled = booking

		return nil
	})
	if err != nil {
		return res, err
	}

	s.invalidate(ctx)
	s.publish(ctx, dto.EventCancelled, cancelled)

	res.FromModel(cancelled)

	return res, nil
}

// checkUpdatable enforces the status gate: pending bookings are editable by their owner,
// anything else only by an admin and only in its status.
func checkUpdatable(actor gModel.Actor, booking model.Booking, req dto.UpdateBookingRequest) error {
	if req.Status != nil && !actor.IsAdmin() {
		return failure.Forbidden(MessageStatusAdminOnly) // nolint:wrapcheck
	}

	if booking.Status == model.StatusPending {
		return nil
	}

	switch {
	case !actor.IsAdmin():
		return failure.InvalidState(MessageOnlyPending) // nolint:wrapcheck
	case !booking.IsActive():
		return failure.InvalidState(MessageBookingClosed) // nolint:wrapcheck
	case !req.OnlyStatus():
		return failure.InvalidState(MessageStatusOnly) // nolint:wrapcheck
	}

	return nil
}

// ensureFree rejects the window when another active booking on the same resource overlaps it.
func (s *serviceImpl) ensureFree(ctx context.Context, tx *sqlx.Tx, booking model.Booking, start, end time.Time, excludeID string) error {
	query := model.OverlapQuery{Start: start, End: end, ExcludeID: excludeID}

	if booking.BookingType == model.TypeRoom {
		query.RoomID = booking.ResourceID()
	} else {
		query.FacilityID = booking.ResourceID()
	}

	conflict, err := s.repo.ExistTx(ctx, tx, query.FilterGroup())
	if err != nil {
		log.Error().Err(err).Msg("failed to check booking conflicts")

		return fmt.Errorf("failed to check booking conflicts: %w", err)
	}

	if conflict {
		log.Info().Str("resource", booking.ResourceID()).Time("start", start).Time("end", end).Msg("booking conflict")

		return failure.Conflict(MessageDatesUnavailable) // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) lockedBooking(ctx context.Context, tx *sqlx.Tx, id string) (model.Booking, error) {
	booking, err := s.repo.GetTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound(MessageBookingNotFound) // nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) overlapping(ctx context.Context, query model.OverlapQuery) ([]model.Booking, error) {
	params := gDto.QueryParams{SortBy: model.TableName + "." + model.FieldStartDate, SortDir: gDto.SortDirAsc}

	bookings, err := s.repo.GetAll(ctx, params, query.FilterGroup())
	if err != nil {
		log.Error().Err(err).Msg("failed to get overlapping bookings")

		return nil, fmt.Errorf("failed to get overlapping bookings: %w", err)
	}

	return bookings, nil
}

// bookable loads the target resource and returns its nightly price. Ground bookings are not priced.
func (s *serviceImpl) bookable(ctx context.Context, bookingType, resourceID string) (float64, error) {
	if bookingType == model.TypeGround {
		facility, err := s.facility(ctx, resourceID)
		if err != nil {
			return 0, err
		}

		if !facility.Active {
			return 0, failure.BadRequestFromString(MessageFacilityInactive) // nolint:wrapcheck
		}

		return 0, nil
	}

	room, err := s.room(ctx, resourceID)
	if err != nil {
		return 0, err
	}

	if !room.Active {
		return 0, failure.BadRequestFromString(MessageRoomInactive) // nolint:wrapcheck
	}

	return room.PricePerNight, nil
}

func (s *serviceImpl) reprice(ctx context.Context, booking model.Booking, start, end time.Time) (float64, error) {
	room, err := s.room(ctx, booking.ResourceID())
	if err != nil {
		return 0, err
	}

	return model.TotalAmount(booking.BookingType, room.PricePerNight, start, end), nil
}

// facility loads a directly bookable facility.
func (s *serviceImpl) facility(ctx context.Context, id string) (facilityModel.Facility, error) {
	facility, err := s.facilities.Get(ctx, shared.FilterByID(id, facilityModel.FieldID, facilityModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get facility")

		return facility, fmt.Errorf("failed to get facility: %w", err)
	}

	if facility.ID == constant.Empty {
		return facility, failure.NotFound(MessageFacilityNotFound) // nolint:wrapcheck
	}

	if !facility.IsBookable() {
		return facility, failure.BadRequestFromString(MessageNotBookable) // nolint:wrapcheck
	}

	return facility, nil
}

func (s *serviceImpl) room(ctx context.Context, id string) (roomModel.Room, error) {
	room, err := s.rooms.Get(ctx, shared.FilterByID(id, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return room, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return room, failure.NotFound(MessageRoomNotFound) // nolint:wrapcheck
	}

	return room, nil
}

// conflictOr maps a tripped exclusion constraint to the same conflict the lock-protected check reports.
func conflictOr(err error, msg string) error {
	if postgres.IsErrorCode(err, constant.PqErrorCodeExclusionViolation) {
		return failure.Conflict(MessageDatesUnavailable) // nolint:wrapcheck
	}

	log.Error().Err(err).Msg(msg)

	return fmt.Errorf("%s: %w", msg, err)
}
